package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/agoraflux/agoraflux"
	"github.com/agoraflux/agoraflux/config"
	"github.com/agoraflux/agoraflux/profiles"
	"github.com/agoraflux/agoraflux/search"
	"github.com/agoraflux/agoraflux/sources"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           parseLevel(cfg.LogLevel),
	})

	client := &http.Client{Timeout: 30 * time.Second}

	registry := sources.NewRegistry(cfg.ExtraSources...)
	fetcher := search.NewFetcher(client, cfg.FetchTimeout.Std(), logger)

	builder := profiles.NewBuilder(profiles.BuilderConfig{
		Client:    client,
		Logger:    logger,
		RateLimit: rate.Limit(cfg.WorldBankRate),
	})
	cache := profiles.NewCache(builder, cfg.CachePath, cfg.CacheTTL.Std(), logger)

	server := agoraflux.NewAPIServer(registry, fetcher, cache, logger)
	router := server.SetupRouter()

	logger.Info("starting server", "addr", cfg.ListenAddr, "sources", len(registry.All()))
	if err := http.ListenAndServe(cfg.ListenAddr, router); err != nil {
		logger.Fatal("server failed", "err", err)
	}
}

func parseLevel(s string) log.Level {
	level, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
