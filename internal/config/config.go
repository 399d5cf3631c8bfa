package config

import (
	"errors"  // Validation errors
	"fmt"     // Error formatting
	"strings" // String normalisation

	"github.com/joho/godotenv" // For loading .env files
	"github.com/spf13/viper"   // Environment resolution with defaults
)

// Supported database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Supported session token formats
const (
	SessionModeJWT = "jwt" // Signed token carrying the user id
	SessionModeRaw = "raw" // Bare user id in the cookie (legacy, unsigned)
)

// Config holds the application configuration
type Config struct {
	AppPort        string  // Application port
	DBDriver       string  // mysql, postgres or sqlite
	DBUser         string  // Database user
	DBPassword     string  // Database password
	DBHost         string  // Database host
	DBPort         string  // Database port
	DBName         string  // Database name
	DBPath         string  // SQLite file path
	SessionMode    string  // jwt or raw
	SessionSecret  string  // HMAC secret for session tokens
	RedisAddr      string  // Redis server address, empty disables caching
	RedisPass      string  // Redis password
	RedisDB        int     // Redis database number
	IsProd         bool    // Is production environment
	LogLevel       string  // logrus level name
	RateLimitRPS   float64 // Allowed auth requests per second per client IP
	RateLimitBurst int     // Burst size for the auth rate limiter
}

// LoadConfig loads configuration from .env and environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("DB_DRIVER", DriverMySQL)
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_NAME", "blood_bank")
	v.SetDefault("DB_PATH", "blood_bank.db")
	v.SetDefault("SESSION_MODE", SessionModeJWT)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("IS_PROD", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RATE_LIMIT_RPS", 5.0)
	v.SetDefault("RATE_LIMIT_BURST", 10)

	return &Config{
		AppPort:        v.GetString("APP_PORT"),
		DBDriver:       strings.ToLower(v.GetString("DB_DRIVER")),
		DBUser:         v.GetString("DB_USER"),
		DBPassword:     v.GetString("DB_PASSWORD"),
		DBHost:         v.GetString("DB_HOST"),
		DBPort:         v.GetString("DB_PORT"),
		DBName:         v.GetString("DB_NAME"),
		DBPath:         v.GetString("DB_PATH"),
		SessionMode:    strings.ToLower(v.GetString("SESSION_MODE")),
		SessionSecret:  v.GetString("SESSION_SECRET"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPass:      v.GetString("REDIS_PASS"),
		RedisDB:        v.GetInt("REDIS_DB"),
		IsProd:         v.GetBool("IS_PROD"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
	}
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.SessionMode {
	case SessionModeJWT:
		if c.SessionSecret == "" {
			return errors.New("SESSION_SECRET is required when SESSION_MODE=jwt")
		}
	case SessionModeRaw:
	default:
		return fmt.Errorf("unsupported SESSION_MODE %q", c.SessionMode)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// DSN builds the driver-specific data source name
func (c *Config) DSN() string {
	switch c.DBDriver {
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
	case DriverSQLite:
		return c.DBPath
	default:
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
	}
}
