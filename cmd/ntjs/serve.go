package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/syntax-framework/ntjs/internal/watch"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the templates over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().String("addr", "", "listen address (default \":8080\")")
	cmd.Flags().Bool("watch", false, "reload catalogs and templates when files change")
	_ = a.viper.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	_ = a.viper.BindPFlag("watch", cmd.Flags().Lookup("watch"))
	return cmd
}

func (a *app) serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := a.services()
	if err != nil {
		return err
	}

	if a.cfg.Watch {
		cfg := watch.DefaultConfig(a.cfg.Templates, a.cfg.Translations)
		for _, file := range []string{a.cfg.Catalog.Packages, a.cfg.Catalog.CDN} {
			if file != "" {
				cfg.Dirs = append(cfg.Dirs, filepath.Dir(file))
			}
		}
		cfg.DebounceDur = a.cfg.WatchDebounce
		w, err := watch.New(cfg)
		if err != nil {
			return err
		}
		go func() {
			if err := watch.Run(ctx, w, func() { a.reload(s) }); err != nil {
				slog.Error("watcher stopped", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           s.server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
