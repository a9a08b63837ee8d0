package domain

// Param is one named input parameter of a test case. Parameters keep the
// order declared by the question author, which is also the order the user
// function expects its arguments in.
type Param struct {
	Name  string
	Value Value
}

// TestCase represents a test case for code grading
type TestCase struct {
	ID                  int64
	Input               []Param
	ExpectedOutput      Value
	ExpectedTimeLimitMs int64
	IsHidden            bool
}

// TestCaseSet is the ordered collection of test cases selected for one
// judge request
type TestCaseSet []TestCase

// SampleOnly returns the visible subset used by the "Run" mode
func (s TestCaseSet) SampleOnly() TestCaseSet {
	samples := make(TestCaseSet, 0, len(s))
	for _, tc := range s {
		if !tc.IsHidden {
			samples = append(samples, tc)
		}
	}
	return samples
}
