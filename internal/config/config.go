package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	Environment string
	LogLevel    string

	AIServerHost   string
	AIServerPort   string
	AITimeout      time.Duration
	AIMaxRetries   int
	AIRetryBackoff time.Duration

	AlertPingInterval  time.Duration
	AlertSweepInterval time.Duration
	AlertIdleTimeout   time.Duration

	MaxMessageSizeMB int

	JWTSecret string
	JWTTTL    time.Duration

	DBName     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBSSLMode  string
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// DSNForLog is the DSN with the password masked for logging.
func (c *Config) DSNForLog() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=*** dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBName, c.DBSSLMode)
}

// AIServerAddr is the host:port of the vision analysis service.
func (c *Config) AIServerAddr() string {
	return c.AIServerHost + ":" + c.AIServerPort
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "production"),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),

		AIServerHost:   getEnv("AI_SERVER_HOST", "localhost"),
		AIServerPort:   getEnv("AI_SERVER_PORT", "5000"),
		AITimeout:      getEnvDuration("AI_SERVER_TIMEOUT", 30*time.Second),
		AIMaxRetries:   getEnvInt("AI_SERVER_RETRY_MAX", 3),
		AIRetryBackoff: getEnvDuration("AI_SERVER_RETRY_BACKOFF", time.Second),

		AlertPingInterval:  getEnvDuration("ALERT_PING_INTERVAL", 45*time.Second),
		AlertSweepInterval: getEnvDuration("ALERT_SWEEP_INTERVAL", 15*time.Minute),
		AlertIdleTimeout:   getEnvDuration("ALERT_IDLE_TIMEOUT", 15*time.Minute),

		MaxMessageSizeMB: getEnvInt("MAX_MESSAGE_SIZE_MB", 30),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "drivinganalysis"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	if cfg.DBPassword == "" {
		fmt.Println("WARNING: DB_PASSWORD is not set!")
	}
	if cfg.JWTSecret == "" {
		fmt.Println("WARNING: JWT_SECRET is not set, using an insecure default")
		cfg.JWTSecret = "dev-only-secret"
	}

	return cfg
}

func getEnv(key string, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if intVal, err := strconv.Atoi(v); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// getEnvDuration accepts Go duration strings ("30s") and falls back to
// plain integers interpreted as seconds.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultVal
}
