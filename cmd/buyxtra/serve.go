package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"buyxtra/internal/catalog"
	"buyxtra/internal/chat"
	"buyxtra/internal/config"
	"buyxtra/internal/logger"
	"buyxtra/internal/server"
	"buyxtra/internal/version"
)

// serveCmd runs the storefront HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront HTTP API",
	Long: `Serve the catalog and chat endpoints over HTTP. The assistant streams
replies as server-sent events; without a Gemini API key the catalog still
works and chat dispatches settle into an error reply.`,
	Run: runServe,
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}

	store, err := catalog.Load()
	if err != nil {
		logger.Fatal("Failed to load catalog", "error", err)
	}

	client := chat.NewGeminiClient(cfg.GeminiAPIKey)
	if !client.IsConfigured() {
		logger.Warn("GEMINI_API_KEY is not set; chat will reply with an error message")
	}

	srv := server.New(store, client, server.Options{
		Model:         cfg.Model,
		StreamTimeout: cfg.StreamTimeout,
	})

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Shutdown did not complete cleanly", "error", err)
		}
	}()

	logger.Info("Starting Buy Xtra", "version", version.GetVersion(), "addr", cfg.ListenAddr, "products", store.Count())
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server failed", "error", err)
	}
	logger.Info("Server stopped")
}
