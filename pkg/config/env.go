package config

import (
	"os"
	"strings"
)

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// GetEnv returns the value of an environment variable or fallback when unset.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// GetEnvironment returns the lower-cased SHIFTBOARD_SERVER_ENVIRONMENT, defaulting to development.
func GetEnvironment() string {
	return strings.ToLower(GetEnv("SHIFTBOARD_SERVER_ENVIRONMENT", EnvDevelopment))
}

func IsDevelopment() bool { return GetEnvironment() == EnvDevelopment }
func IsStaging() bool     { return GetEnvironment() == EnvStaging }
func IsProduction() bool  { return GetEnvironment() == EnvProduction }

// IsProductionLike is true for staging and production, where localhost dependencies are refused.
func IsProductionLike() bool {
	return IsStaging() || IsProduction()
}
