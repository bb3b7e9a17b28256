package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	configapi "growthlens/pkg/api/config"
	forecastapi "growthlens/pkg/api/forecast"
	xeroapi "growthlens/pkg/api/xero"
	"growthlens/pkg/core/config"
	"growthlens/pkg/core/store"
	"growthlens/pkg/core/vendors"
	"growthlens/pkg/core/xero"
)

func main() {
	// Load environment variables
	godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel()}))

	cfg, err := config.Load(configPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Vendor alias dictionary: loaded once at startup, immutable after.
	aliases := vendors.DefaultAliases()
	if cfg.VendorAliasFile != "" {
		loaded, err := vendors.LoadAliases(cfg.VendorAliasFile)
		if err != nil {
			logger.Warn("failed to load vendor aliases, using built-in dictionary", "file", cfg.VendorAliasFile, "error", err)
		} else {
			aliases = loaded
			logger.Info("loaded vendor aliases", "file", cfg.VendorAliasFile, "rules", len(loaded))
		}
	}
	normalizer := vendors.NewNormalizer(aliases)
	analyzer := xero.NewAnalyzer(normalizer, logger)

	// Forecast preview endpoint works without a database.
	forecastHandler := forecastapi.NewHandler(cfg.Forecast, logger)
	http.HandleFunc("/api/forecast/preview", forecastHandler.HandlePreview)

	configHandler := configapi.NewHandler(cfg)
	http.HandleFunc("/api/config", configHandler.HandleConfig)

	ctx := context.Background()
	if err := store.InitDB(ctx); err != nil {
		logger.Warn("database unavailable, Xero endpoints disabled", "error", err)
	} else {
		defer store.Close()
		connections := store.NewPgConnectionRepo(store.GetPool())
		syncRuns := store.NewPgSyncRunRepo(store.GetPool())
		tokens := xero.NewRefreshTokenSource(
			connections,
			os.Getenv("XERO_CLIENT_ID"),
			os.Getenv("XERO_CLIENT_SECRET"),
			logger,
		)
		xeroHandler := xeroapi.NewHandler(connections, syncRuns, tokens, analyzer, cfg.Xero, logger)
		http.HandleFunc("/api/xero/subscription-transactions", xeroHandler.HandleSubscriptionTransactions)
	}

	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	logger.Info("API server starting", "addr", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, nil); err != nil {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}

func configPath() string {
	if path := os.Getenv("GROWTHLENS_CONFIG"); path != "" {
		return path
	}
	return "config/growthlens.yaml"
}

func logLevel() slog.Level {
	if os.Getenv("LOG_LEVEL") == "debug" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
