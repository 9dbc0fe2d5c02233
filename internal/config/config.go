package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const defaultPlanStart = "2025-08-25"

type Config struct {
	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	SQLitePath     string
	ServerPort     string
	JWTSecret      string
	JWTExpiryHours int
	PlanStartDate  time.Time
	LogLevel       string
	AutoMigrate    bool
	TxRetries      int
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, using system environment variables")
	}

	return &Config{
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "planner_user"),
		DBPassword:     getEnv("DB_PASSWORD", "planner_pass"),
		DBName:         getEnv("DB_NAME", "planner_db"),
		SQLitePath:     getEnv("SQLITE_PATH", "tasks.db"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTExpiryHours: getEnvInt("JWT_EXPIRY_HOURS", 24),
		PlanStartDate:  getEnvDate("PLAN_START_DATE", defaultPlanStart),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AutoMigrate:    getEnvBool("AUTO_MIGRATE", true),
		TxRetries:      getEnvInt("TX_RETRIES", 3),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn("Ignoring invalid integer", "key", key, "value", raw)
		return defaultVal
	}
	return v
}

func getEnvBool(key string, defaultVal bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultVal
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Warn("Ignoring invalid boolean", "key", key, "value", raw)
		return defaultVal
	}
	return v
}

func getEnvDate(key, defaultVal string) time.Time {
	raw := getEnv(key, defaultVal)
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		log.Warn("Ignoring invalid date", "key", key, "value", raw)
		d, _ = time.Parse(time.DateOnly, defaultVal)
	}
	return d
}
