package config

import (
	"os"

	"github.com/knagano/todolist-api/internal/constants"
)

type Config struct {
	Port         string
	DBDriver     string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	JWTSecret    string
	CookieName   string
	GinMode      string
	OpenAIAPIKey string
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		DBDriver:     getEnv("DB_DRIVER", "mysql"),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "3306"),
		DBUser:       getEnv("DB_USER", "todouser"),
		DBPassword:   getEnv("DB_PASSWORD", "todopassword"),
		DBName:       getEnv("DB_NAME", "todolist"),
		JWTSecret:    getEnv("JWT_SECRET", "default-secret-key-change-me"),
		CookieName:   getEnv("COOKIE_NAME", constants.DefaultCookieName),
		GinMode:      getEnv("GIN_MODE", "debug"),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
