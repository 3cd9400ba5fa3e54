package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/prefs"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the portfolio web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck
		return serve(cmd.Context(), cfg, log)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func openDB(cfg *config.Config, log *zap.Logger) (*prefs.DB, error) {
	if cfg.Database.Path == "" {
		return prefs.OpenMemory(log)
	}
	return prefs.Open(cfg.Database.Path, log)
}

func serve(parent context.Context, cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := content.NewCatalog(cfg.Content.File, log.Named("content"))
	if err != nil {
		return fmt.Errorf("loading site content: %w", err)
	}
	catalog.OnReload(func(site *content.Site) {
		log.Info("site content updated; new pages use it", zap.String("name", site.Name))
	})

	db, err := openDB(cfg, log.Named("prefs"))
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := newServer(cfg, log, catalog, db, newSMTPMailer(cfg.SMTP, log.Named("contact")))
	if err != nil {
		return err
	}
	defer s.sessions.Close()

	go s.sessions.Run(ctx)
	if cfg.Tracking.Enabled {
		go s.cleanupVisits(ctx)
	}
	if cfg.Content.Watch {
		go func() {
			if err := catalog.Watch(ctx, cfg.Content.Debounce); err != nil {
				log.Error("site watcher stopped", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
