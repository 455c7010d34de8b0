package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	TablePrefix string
	CORSOrigins string
	// Auth
	JWKSURL     string
	AdminEmails []string
	// AI generation
	AnthropicAPIKey string
	DefaultProvider string
	DefaultModel    string
	// Search index location; empty keeps the index in memory
	SearchIndexPath string
	// Logging
	LogDir      string
	LogMaxFiles int
	Debug       bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		TablePrefix: getTablePrefix(env),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		JWKSURL:     getEnv("JWKS_URL", ""),
		AdminEmails: splitList(getEnv("ADMIN_EMAILS", "")),
		// AI generation
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		DefaultProvider: getEnv("DEFAULT_PROVIDER", "lorem"),
		DefaultModel:    getEnv("DEFAULT_MODEL", "lorem-fast"),
		SearchIndexPath: getEnv("SEARCH_INDEX_PATH", ""),
		LogDir:          getEnv("LOG_DIR", ""),
		LogMaxFiles:     getEnvInt("LOG_MAX_FILES", 10),
		// Debug defaults to true outside production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// IsProduction reports whether destructive tooling must be refused.
func (c *Config) IsProduction() bool {
	return c.Environment == "prod"
}

func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
