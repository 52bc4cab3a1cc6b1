package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN       string
	Port        string
	Environment string

	// ClinicTimezone drives "today" and past-slot trimming; the clinic's
	// wall clock, never the server's.
	ClinicTimezone string

	MigrationsPath string

	RedisAddr     string
	RedisPassword string

	SendGridAPIKey string
	EmailFrom      string
	EmailFromName  string

	SMSGatewayURL    string
	SMSGatewayAPIKey string
	SMSSender        string

	// ReminderCron is the cron spec for the day-before reminder run,
	// evaluated in the clinic timezone.
	ReminderCron string
}

func Load() (*Config, error) {
	// A missing .env file is fine; plain environment variables still apply.
	if err := godotenv.Load(".env"); err == nil {
		log.Println("loaded configuration from .env file")
	}

	cfg := &Config{
		DBDSN:            os.Getenv("DB_DSN"),
		Port:             os.Getenv("PORT"),
		Environment:      os.Getenv("ENV"),
		ClinicTimezone:   os.Getenv("CLINIC_TIMEZONE"),
		MigrationsPath:   os.Getenv("MIGRATIONS_PATH"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		SendGridAPIKey:   os.Getenv("SENDGRID_API_KEY"),
		EmailFrom:        os.Getenv("EMAIL_FROM"),
		EmailFromName:    os.Getenv("EMAIL_FROM_NAME"),
		SMSGatewayURL:    os.Getenv("SMS_GATEWAY_URL"),
		SMSGatewayAPIKey: os.Getenv("SMS_GATEWAY_API_KEY"),
		SMSSender:        os.Getenv("SMS_SENDER"),
		ReminderCron:     os.Getenv("REMINDER_CRON"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.ClinicTimezone == "" {
		cfg.ClinicTimezone = "Asia/Manila"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}
	if cfg.ReminderCron == "" {
		cfg.ReminderCron = "0 18 * * *"
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}
