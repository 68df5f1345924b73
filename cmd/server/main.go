package main

import (
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"eggrace/internal/game"
	"eggrace/internal/server"
)

func main() {
	debug := flag.Bool("debug", false, "Whether to enable debug logging.")
	flag.Parse()

	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Warn().Msg("debug logging enabled")
	}

	cfg, err := server.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	hub := server.NewHub()
	session := game.NewSession(hub, game.WithTurnDelay(cfg.TurnAdvanceDelay))
	hub.BindSession(session)
	go hub.Run()

	router := server.NewRouter(hub, cfg)
	httpServer := server.CreateServer(cfg.Port, router)

	errs := make(chan error, 1)
	go func() {
		if err := server.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errs:
		log.Fatal().Err(err).Msg("server failed")
	case sig := <-sigs:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	if err := server.ShutdownServer(httpServer, 10*time.Second); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown did not complete cleanly")
	}
	if err := hub.Shutdown(5 * time.Second); err != nil {
		log.Error().Err(err).Msg("hub shutdown did not complete cleanly")
	}
}
