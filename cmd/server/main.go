package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"clinicdesk/m/internal/api"
	"clinicdesk/m/internal/config"
	"clinicdesk/m/internal/database"
	"clinicdesk/m/internal/migrations"
	"clinicdesk/m/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	initLogger(cfg.LogLevel, cfg.LogFormat)

	db := database.Connect(cfg.DatabasePath)
	defer db.Close()

	migrations.Run(db)

	handler := api.New(store.New(db), log.Logger)

	log.Info().Str("port", cfg.HTTPPort).Str("database", cfg.DatabasePath).Msg("clinicdesk server starting")
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func initLogger(level, format string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
}
