package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultJWTKey = "defaultSecret"

// Config holds application configuration
type Config struct {
	Port        string
	Env         string
	CORSOrigins string

	DBDriver       string // postgres, mysql or sqlite
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBDSN          string // overrides the DSN assembled from the DB_* parts
	DBMaxOpenConns int
	DBMaxIdleConns int

	JWTKey    string
	SaltRound int

	RedisURL string

	SendgridAPIKey string
	EmailSender    string

	CertificateServiceURL string
	RollbarToken          string
	SeedFile              string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = FromEnv()

	if AppConfig.JWTKey == defaultJWTKey {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	return AppConfig
}

// FromEnv builds a Config from the current environment without touching .env files.
func FromEnv() *Config {
	return &Config{
		Port:        getEnv("PORT", "3000"),
		Env:         getEnv("APP_ENV", "development"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "madrasa"),
		DBDSN:          getEnv("DB_DSN", ""),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTKey:    getEnv("JWT_SECRET_KEY", defaultJWTKey),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		RedisURL: getEnv("REDIS_URL", ""),

		SendgridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", "noreply@localhost"),

		CertificateServiceURL: getEnv("CERTIFICATE_SERVICE_URL", ""),
		RollbarToken:          getEnv("ROLLBAR_TOKEN", ""),
		SeedFile:              getEnv("SEED_FILE", ""),
	}
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres, mysql or sqlite, got %q", c.DBDriver)
	}

	if c.IsProduction() && c.JWTKey == defaultJWTKey {
		return fmt.Errorf("JWT_SECRET_KEY must be set in production")
	}

	if c.SaltRound < 4 || c.SaltRound > 31 {
		return fmt.Errorf("SALT_ROUND must be between 4 and 31, got %d", c.SaltRound)
	}

	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
