package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/internal/database"
	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/internal/engine"
)

// Config is the application configuration, read from the environment once at
// startup and validated before anything else runs.
type Config struct {
	Database database.Config
	Engine   engine.Config

	// TelegramToken enables daily plan delivery over Telegram when set.
	TelegramToken string

	// DefaultPlanMinutes is the budget used when a plan request carries none.
	DefaultPlanMinutes int
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:      os.Getenv("TELEGRAM_BOT_TOKEN"),
		DefaultPlanMinutes: envInt("DEFAULT_PLAN_MINUTES", 120),
	}

	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}
	switch dbType {
	case "sqlite":
		cfg.Database = database.Config{
			Driver: "sqlite3",
			DSN:    envString("DB_PATH", "data/medlearn.db"),
		}
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when DB_TYPE=postgres")
		}
		cfg.Database = database.Config{Driver: "postgres", DSN: dsn}
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}

	eng := engine.DefaultConfig()
	eng.CorrectIncrement = envFloat("MASTERY_CORRECT_INCREMENT", eng.CorrectIncrement)
	eng.IncorrectDecrement = envFloat("MASTERY_INCORRECT_DECREMENT", eng.IncorrectDecrement)
	eng.MinMinutesPerTopic = envInt("MIN_MINUTES_PER_TOPIC", eng.MinMinutesPerTopic)
	eng.ContentRatio = envFloat("CONTENT_RATIO", eng.ContentRatio)
	if err := eng.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}
	cfg.Engine = eng

	if cfg.DefaultPlanMinutes <= 0 {
		return nil, fmt.Errorf("DEFAULT_PLAN_MINUTES must be positive")
	}
	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
