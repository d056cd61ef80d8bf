package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecotrace/ecotrace-server/internal/agents"
	"github.com/ecotrace/ecotrace-server/internal/api"
	"github.com/ecotrace/ecotrace-server/internal/calc"
	"github.com/ecotrace/ecotrace-server/internal/config"
	"github.com/ecotrace/ecotrace-server/internal/insight"
	"github.com/ecotrace/ecotrace-server/internal/platform/factory"
	"github.com/ecotrace/ecotrace-server/internal/platform/logger"
)

func main() {
	// Optional db-driver flag override (sqlite | postgres)
	dbDriver := flag.String("db-driver", "", "Override ECOTRACE_DB_DRIVER (sqlite, postgres)")
	flag.Parse()

	log := logger.New("carbon-service")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *dbDriver != "" {
		cfg.DBDriver = *dbDriver
		if err := cfg.ResolveDefaults(); err != nil {
			log.Fatal().Err(err).Msg("Invalid db-driver override")
		}
	}
	zerolog.SetGlobalLevel(logger.ParseLevel(cfg.LogLevel))

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Bool("gemini_configured", cfg.GeminiAPIKey != "").
		Msg("Carbon service starting…")

	// -------- Storage layer -----------------
	ctx := context.Background()
	st, err := factory.NewStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Store adapter unavailable")
	}
	defer func() { _ = st.Close() }()

	// -------- Analysis agents ----------------
	params := agents.DefaultParams()
	provider := factory.NewInsightProvider(cfg)
	dispatcher := insight.NewDispatcher(cfg.MaxProviderConcurrency,
		time.Duration(cfg.ProviderTimeoutSeconds)*time.Second)
	orch := agents.NewOrchestrator(
		agents.NewAnalyzer(params, log),
		agents.NewRecommender(params, log),
		insight.NewExternalAgent(provider, dispatcher, log),
		log,
	)

	// -------- Health monitor ---------------
	api.StartHealthMonitor(ctx, st, 30*time.Second, log)

	// -------- Router & Server --------------
	router := api.NewRouter(api.Deps{
		Store:        st,
		Engine:       calc.New(),
		Orchestrator: orch,
		SeedDemoData: cfg.SeedDemoData,
		Logger:       log,
	})
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server…")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}
