package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type AppConfig struct {
	Code      string
	Reconcile bool
	LogLevel  string
	BankNames bool
}

// Load reads defaults from the environment, after an optional .env file.
func Load() AppConfig {
	envErr := godotenv.Load()

	cfg := AppConfig{
		Code:      getEnv("MASAV_CODE", "auto"),
		Reconcile: getBool("MASAV_RECONCILE", false),
		LogLevel:  getEnv("MASAV_LOG_LEVEL", "warn"),
		BankNames: getBool("MASAV_BANK_NAMES", true),
	}
	if envErr != nil {
		NewLogger(cfg.LogLevel).Debug("no .env file found, relying on system env vars")
	}
	return cfg
}

// NewLogger writes to stderr so stdout carries only the report.
func NewLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.WarnLevel
	}
	log.SetLevel(lvl)
	return log
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
