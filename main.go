package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/scoreboard/internal/config"
	"github.com/robalobadob/scoreboard/internal/httpserver"
	"github.com/robalobadob/scoreboard/internal/logging"
	"github.com/robalobadob/scoreboard/internal/store"
)

func main() {
	envFile := flag.String("env", "", "dotenv file to load (default .env)")
	flag.Parse()

	var files []string
	if *envFile != "" {
		files = append(files, *envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, cfg)
	log.Info().Str("port", cfg.Port).Dur("animation", cfg.AnimationDuration).Msg("starting scoreboard")
	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}
