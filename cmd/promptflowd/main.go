// Command promptflowd serves flow execution over WebSocket and persists
// flows to SQLite.
//
// Editors connect to /ws and drive runs with execution.start messages; flow
// documents are read and written through the /flows REST surface, with
// writes debounced into the store by the autosave scheduler.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/promptflow/promptflow/pkg/promptflow"
	"github.com/promptflow/promptflow/pkg/promptflow/autosave"
	"github.com/promptflow/promptflow/pkg/promptflow/bridge"
	"github.com/promptflow/promptflow/pkg/promptflow/config"
	"github.com/promptflow/promptflow/pkg/promptflow/executors"
	"github.com/promptflow/promptflow/pkg/promptflow/observability"
	"github.com/promptflow/promptflow/pkg/promptflow/provider"
)

func main() {
	configPath := flag.String("config", "", "path to a yaml/json settings file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "promptflowd:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	settings := config.Data{}
	if configPath != "" {
		loaded, err := config.FromFile(configPath)
		if err != nil {
			return err
		}
		settings = loaded
	}

	logger := newLogger(settings.String("log_level", "info"))
	slog.SetDefault(logger)

	store, err := autosave.NewSQLiteStore(settings.String("database", "flows.db"))
	if err != nil {
		return fmt.Errorf("open flow store: %w", err)
	}
	defer store.Close()

	metrics := observability.NewMetricsRecorder()

	drafts := newDraftCache()
	saver := autosave.NewScheduler(store, drafts,
		autosave.WithSaveInterval(settings.Duration("save_interval", autosave.SaveInterval)),
		autosave.WithLogger(logger),
		autosave.WithMetrics(metrics),
	)
	defer saver.Close()

	reg := promptflow.NewRegistry()
	executors.Register(reg)

	serverOpts := []bridge.ServerOption{
		bridge.WithServerLogger(logger),
		bridge.WithServerMetrics(metrics),
		bridge.WithServerSpanManager(observability.NewSpanManager()),
	}
	if providerURL := settings.String("provider_url", ""); providerURL != "" {
		serverOpts = append(serverOpts, bridge.WithServerProvider(provider.NewHTTPClient(providerURL)))
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", bridge.NewServer(reg, serverOpts...))
	registerFlowRoutes(mux, &flowAPI{store: store, drafts: drafts, saver: saver, logger: logger})

	srv := &http.Server{
		Addr:              settings.String("listen", ":8787"),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", slog.String("error", err.Error()))
	}

	// Persist anything still dirty before the store closes.
	saver.FlushAll(shutdownCtx)

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
