// mockapi is the bundled development backend. It serves the same REST
// surface rentctl talks to, backed by an in-memory store seeded with a
// couple of staff accounts, cars, and content blocks.
package main

import (
	"context"
	"os"

	"github.com/rentgrid/backoffice/internal/config"
	"github.com/rentgrid/backoffice/internal/mockapi"
	"github.com/rentgrid/backoffice/pkg/logger"
)

func main() {
	cfg, err := config.Load(context.Background())
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel})

	if err := os.MkdirAll(cfg.Mock.UploadDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Mock.UploadDir).Msg("create upload dir")
	}

	store := mockapi.NewStore()
	store.Seed()

	e := mockapi.New(store, mockapi.Options{
		JWTSecret: cfg.Mock.JWTSecret,
		TokenTTL:  cfg.Mock.TokenTTL,
		UploadDir: cfg.Mock.UploadDir,
		Metrics:   true,
	}, log)

	log.Info().Str("port", cfg.Mock.Port).Msg("mock backend listening")
	if err := e.Start(":" + cfg.Mock.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
