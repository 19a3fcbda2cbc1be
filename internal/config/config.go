package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	ScheduleCSV string
	StatsCSV    string
	InjuriesCSV string
	DBPath      string
	ServerPort  string
	LogLevel    string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		ScheduleCSV: getEnv("SCHEDULE_CSV", "data/La Liga Full Match List 24-25.csv"),
		StatsCSV:    getEnv("STATS_CSV", "data/La Liga 24-25.csv"),
		InjuriesCSV: getEnv("INJURIES_CSV", "data/lesiones.csv"),
		DBPath:      getEnv("DB_PATH", "postmatch.db"),
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	logger.Info().
		Str("schedule_csv", cfg.ScheduleCSV).
		Str("stats_csv", cfg.StatsCSV).
		Str("injuries_csv", cfg.InjuriesCSV).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
