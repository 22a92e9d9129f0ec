package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/academy-challenge/backend/internal/flagx"
)

// parseEnv overlays Config fields from environment variables. If a .env file
// is named via the -c/-config flags it is loaded first; already-set process
// variables win over file values.
//
// Recognized variables:
//
//	PORT              listen port, e.g. "5000"
//	DATABASE_URL      PostgreSQL DSN
//	JWT_SECRET        HMAC signing secret
//	ACCESS_TOKEN_TTL  session token lifetime, Go duration ("1h")
//	REMEMBER_ME_TTL   remember-me token lifetime, Go duration ("720h")
func parseEnv(config *Config) {
	if envFile := flagx.EnvFileFlags(); envFile != "" {
		// File values never override variables already present in the
		// process environment.
		_ = godotenv.Load(envFile)
	} else {
		_ = godotenv.Load()
	}

	if v := os.Getenv("PORT"); v != "" {
		config.HTTPAddr = ":" + v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("ACCESS_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.AccessTokenTTL = d
		}
	}
	if v := os.Getenv("REMEMBER_ME_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.RememberMeTTL = d
		}
	}
}
