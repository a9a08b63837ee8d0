package domain

// AuthPayload is the claim set carried by tokens the surrounding web
// application issues. Only the user id matters to the grading pipeline.
type AuthPayload struct {
	UserID   string `json:"sub"`
	Username string `json:"username"`
}
