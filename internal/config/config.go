package config

import (
	"strings"
	"time"

	"shifttrack_backend/pkg/utils"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs from the environment.
type Config struct {
	Port string

	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBSSLMode    string
	DBSchemaPath string

	JWTSecret     string
	JWTExpiration time.Duration

	CORSAllowedOrigins []string
}

// Load reads configuration from the environment. A .env file, when
// present, is loaded first; real environment variables win over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	jwtExpiration := 72 * time.Hour
	if raw := utils.Getenv("JWT_EXPIRATION", ""); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, err
		}
		jwtExpiration = parsed
	}

	corsOrigins := []string{"http://localhost:3000", "http://localhost:5173"}
	if raw := utils.Getenv("CORS_ALLOWED_ORIGINS", ""); raw != "" {
		corsOrigins = strings.Split(raw, ",")
	}

	return &Config{
		Port: utils.Getenv("PORT", "8080"),

		DBHost:       utils.Getenv("DB_HOST", "localhost"),
		DBPort:       utils.Getenv("DB_PORT", "5432"),
		DBUser:       utils.Getenv("DB_USER", "shifttrack_user"),
		DBPassword:   utils.Getenv("DB_PASSWORD", "shifttrack_password"),
		DBName:       utils.Getenv("DB_NAME", "shifttrack_db"),
		DBSSLMode:    utils.Getenv("DB_SSLMODE", "disable"),
		DBSchemaPath: utils.Getenv("DB_SCHEMA_PATH", "db_schema.sql"),

		JWTSecret:     utils.Getenv("JWT_SECRET", "development-only-secret-change-me"),
		JWTExpiration: jwtExpiration,

		CORSAllowedOrigins: corsOrigins,
	}, nil
}
