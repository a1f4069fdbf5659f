package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wiblue/wiblue/internal/client"
	"github.com/wiblue/wiblue/internal/config"
	"github.com/wiblue/wiblue/internal/monitor"
	"github.com/wiblue/wiblue/internal/session"
	"github.com/wiblue/wiblue/internal/stats"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config", "config/wiblue-agent.yml", "Configuration file path")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	api := client.New(cfg.Agent.BackendURL)
	store := session.NewStore()
	tokens := session.NewTokenFile(tokenPath(cfg))

	store.Dispatch(session.Action{Type: session.SetTheme, Theme: session.Theme(cfg.Agent.Theme)})
	if cfg.Monitor.Interface != "" {
		store.Dispatch(session.Action{Type: session.SetInterface, Value: cfg.Monitor.Interface})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	// Stats push bus
	var nc *nats.Conn
	if cfg.NATS.URL != "" {
		log.Info().Str("url", cfg.NATS.URL).Msg("Connecting to NATS...")

		nc, err = nats.Connect(cfg.NATS.URL,
			nats.Name("wiblue-agent"),
			nats.UserInfo(cfg.NATS.Username, cfg.NATS.Password),
			nats.ReconnectWait(cfg.NATS.ReconnectInterval),
			nats.MaxReconnects(cfg.NATS.MaxReconnects),
			nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
				log.Warn().Err(err).Msg("Disconnected from NATS")
			}),
			nats.ReconnectHandler(func(nc *nats.Conn) {
				log.Info().Msg("Reconnected to NATS")
			}),
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to NATS")
		}
		defer nc.Close()

		log.Info().Msg("Connected to NATS")
	} else {
		log.Warn().Msg("NATS not configured, stats ingestion disabled")
	}

	cache := stats.NewCache(api)

	var pipeline *stats.Pipeline
	if nc != nil {
		pipeline = stats.NewPipeline(api, store, cache, stats.NewNATSSource(nc))
	}

	// Session validation
	validator := session.NewValidator(api, store, tokens, cfg.Agent.ValidatorInterval, func(reason string) {
		if pipeline != nil {
			pipeline.Stop()
		}
	})

	// Restore the persisted session, if any.
	if token, err := tokens.Load(); err == nil && token != "" {
		store.Dispatch(session.Action{Type: session.SetToken, Value: token})
		validator.Check(ctx)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info().Dur("interval", cfg.Agent.ValidatorInterval).Msg("Starting session validator")
		validator.Run(ctx)
	}()

	// Stats ingestion + the monitor feeding it
	if nc != nil && store.Snapshot().Interface != "" {
		if err := pipeline.Start(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to start stats pipeline")
		} else {
			defer pipeline.Stop()
		}

		mon, err := monitor.New(cfg.Monitor.Interface, cfg.Monitor.Interval, nc)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create network monitor")
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				mon.Run(ctx)
			}()
		}
	}

	// Initial aggregated view
	if snap := store.Snapshot(); snap.Token != "" && snap.UserID != "" {
		if err := cache.Refresh(ctx, snap.Token, snap.UserID); err != nil {
			log.Warn().Err(err).Msg("Initial stats refresh failed")
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("Shutting down...")
	cancel()
	wg.Wait()
}

// tokenPath resolves the persisted token location, defaulting to the user
// config directory.
func tokenPath(cfg *config.Config) string {
	if cfg.Agent.TokenFile != "" {
		return cfg.Agent.TokenFile
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "wiblue", "token")
}
