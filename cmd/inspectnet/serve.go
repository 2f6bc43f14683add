package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"inspectnet/internal/codec"
	"inspectnet/internal/config"
	"inspectnet/internal/handler"
	"inspectnet/internal/hub"
	"inspectnet/internal/service"
	"inspectnet/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the settings HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context, cfg *config.Config) error {
	log.Println("Starting inspectnet server...")

	var watchFormat string
	if cfg.Watch.File != "" {
		format, err := codec.FormatForPath(cfg.Watch.File)
		if err != nil {
			return err
		}
		watchFormat = format
	}

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	sseHub := hub.New()
	eventChan := make(chan service.Event, 100)
	a.bus.Subscribe(eventChan)

	mux := http.NewServeMux()
	handler.NewSettingsHandler(a.svc).Register(mux)
	mux.Handle("GET /events", sseHub)
	mux.Handle("GET /metrics", a.metrics.Handler())

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler.Chain(mux, handler.Recover, handler.CORS, handler.Logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE streams stay open
		IdleTimeout:  60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sseHub.Run(ctx)
	})

	g.Go(func() error {
		for {
			select {
			case event := <-eventChan:
				sseHub.Broadcast(event)
			case <-ctx.Done():
				return nil
			}
		}
	})

	if cfg.Watch.File != "" {
		w := watcher.New(cfg.Watch.File, func(ctx context.Context) error {
			return reloadFile(ctx, a.svc, cfg.Watch.File, watchFormat)
		}).WithDebounce(cfg.Watch.Debounce.Duration())

		g.Go(func() error {
			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		log.Printf("Server listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	log.Println("Server stopped")
	return err
}

func reloadFile(ctx context.Context, svc *service.SettingsService, path, format string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return svc.Import(ctx, format, f)
}
