package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/justinabrahms/randchess/internal/config"
	"github.com/justinabrahms/randchess/internal/web"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Parse command line flags
	var showHelp bool
	var staticDir string
	flag.BoolVar(&showHelp, "help", false, "Show help information")
	flag.BoolVar(&showHelp, "h", false, "Show help information")
	flag.StringVar(&staticDir, "static", "./web/static", "Directory of static client files")
	flag.Parse()

	if showHelp {
		showHelpMessage()
		return
	}

	// Setup logging
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	zerolog.SetGlobalLevel(logLevel(cfg.Development))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := web.NewHub()
	go hub.Run(ctx)

	service, err := web.NewService(cfg, hub)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create game service")
	}
	go service.RunClockSweep(ctx, cfg.Clock.SweepInterval)

	// Setup routes
	router := mux.NewRouter()
	router.Use(web.CORSMiddleware)
	service.RegisterRoutes(router)

	// Serve static files
	if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir)))
	}

	// Create server
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("defaultMode", cfg.Game.DefaultMode).
			Bool("weighted", cfg.Game.WeightedAllocation).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// Stop the hub and clock sweep before draining HTTP
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func logLevel(dev config.DevelopmentConfig) zerolog.Level {
	if dev.Debug {
		return zerolog.DebugLevel
	}
	level, err := zerolog.ParseLevel(dev.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func showHelpMessage() {
	fmt.Println(`Random Chess Server

DESCRIPTION:
    Hosts games of a chess variant where each turn the mover is dealt three
    random piece types (four in chaos mode) and may make up to three moves
    with them. A check ends the turn at once, rerolls redraw the hand before
    the first move, and three of a kind earns a bonus reroll.

USAGE:
    randchess-server [OPTIONS]

OPTIONS:
    -h, --help        Show this help message
    -static DIR       Serve static client files from DIR (default ./web/static)

CONFIGURATION:
    The server reads config.yaml from the current directory or ./config.
    Every key can be overridden with a RANDCHESS_ environment variable,
    e.g. RANDCHESS_SERVER_PORT=9000.

    Example config.yaml:
        server:
          host: localhost
          port: 8080

        game:
          default_mode: classic      # classic, blitz, ai or chaos
          weighted_allocation: false
          hints_enabled: true
          seed: 0                    # 0 seeds from the clock

        clock:
          sweep_interval: 1s

        seats:
          required: false            # demand a seat token on every action
          secret: ""                 # see generate-seat-secret; empty is random

        development:
          debug: false
          log_level: info

API ENDPOINTS:
    GET  /api/health                          - Service health check
    GET  /api/games                           - List hosted games
    POST /api/games                           - Create a game {"mode": "..."}
    GET  /api/games/{id}                      - Game state
    GET  /api/games/{id}/destinations?from=e2 - Legal targets for a square
    GET  /api/games/{id}/hints                - Ranked move suggestions
    POST /api/games/{id}/moves                - {"from","to","promotion"}
    POST /api/games/{id}/reroll               - Redraw the allocation
    POST /api/games/{id}/skip                 - Pass a turn with no moves
    POST /api/games/{id}/resign               - {"color": "white"|"black"}
    POST /api/games/{id}/restart              - Start the game over
    GET  /ws?gameId={id}                      - Live game events

    With seats.required, POST /api/games also returns "seats" holding one
    token per color. Send it as "Authorization: Bearer <token>" on moves,
    rerolls, skips, resignations and restarts.

EXAMPLES:
    # Start with default configuration
    randchess-server

    # Create a chaos game
    curl -X POST http://localhost:8080/api/games \
      -H "Content-Type: application/json" \
      -d '{"mode": "chaos"}'`)
}
