package config

import "os"

type AppConfig struct {
	DebugMode      bool
	RedisConfig    *RedisConfig
	PostgresConfig *PostgresConfig
	SandboxConfig  *SandboxConfig
	JwtConfig      *JwtConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:      os.Getenv("DEBUG_MODE") == "true",
		RedisConfig:    NewRedisConfig(),
		PostgresConfig: NewPostgresConfig(),
		SandboxConfig:  NewSandboxConfig(),
		JwtConfig:      NewJwtConfig(),
	}
}

// getEnv gets an environment variable with a fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
