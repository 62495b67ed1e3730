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

	"github.com/Clark-Hu/flopwatch/internal/boxoffice"
	"github.com/Clark-Hu/flopwatch/internal/config"
	httpserver "github.com/Clark-Hu/flopwatch/internal/http"
	"github.com/Clark-Hu/flopwatch/internal/repository"
	"github.com/Clark-Hu/flopwatch/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := log.New(os.Stdout, "[flopwatch] ", log.LstdFlags|log.Lshortfile)

	dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	st, err := store.New(dbCtx, cfg.DBURL, store.OptionsFromConfig(cfg.StoreConfig, logger))
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer st.Close()

	if cfg.AutoMigrate {
		if err := st.Migrate(dbCtx, cfg.MigrationsDir); err != nil {
			log.Fatalf("migrate database: %v", err)
		}
	}

	boxClient, err := boxoffice.NewHTTPClient(cfg.BoxOfficeURL, cfg.BoxOfficeAPIKey, time.Duration(cfg.BoxOfficeTimeoutSecs)*time.Second, logger)
	if err != nil {
		log.Fatalf("init box office client: %v", err)
	}

	server := httpserver.New(cfg, st, repository.New(st), boxClient, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("server error: %v", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Printf("graceful shutdown error: %v", err)
	}
}
