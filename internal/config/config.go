package config

import (
	"fmt"
	"os"
)

// Config holds application configuration
type Config struct {
	Port             string
	DBConn           string
	LogLevel         string
	SMTPHost         string
	SMTPPort         string
	SMTPUsername     string
	SMTPPassword     string
	SenderEmail      string
	NotifyEmail      string
	IngestCronSpec   string
	CustomerDataPath string
	LoanDataPath     string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		DBConn:           getEnv("DB_CONN", "host=localhost port=5432 user=credit password=credit dbname=credit sslmode=disable"),
		LogLevel:         getEnv("LOG_LEVEL", "INFO"),
		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         getEnv("SMTP_PORT", "587"),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		SenderEmail:      getEnv("SENDER_EMAIL", "noreply@finlend.io"),
		NotifyEmail:      getEnv("NOTIFY_EMAIL", ""),
		IngestCronSpec:   getEnv("INGEST_CRON_SPEC", ""),
		CustomerDataPath: getEnv("CUSTOMER_DATA_PATH", "data/customer_data.csv"),
		LoanDataPath:     getEnv("LOAN_DATA_PATH", "data/loan_data.csv"),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
