package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	archivepg "github.com/mbellec/facturx/internal/adapters/archive/postgres"
	invoicehandler "github.com/mbellec/facturx/internal/adapters/http/invoice"
	appinvoice "github.com/mbellec/facturx/internal/application/invoice"
	"github.com/mbellec/facturx/internal/core/archive"
	coreinvoice "github.com/mbellec/facturx/internal/core/invoice"
	"github.com/mbellec/facturx/internal/infrastructure/config"
	"github.com/mbellec/facturx/internal/infrastructure/database"
	"github.com/mbellec/facturx/internal/infrastructure/http/server"
	"github.com/mbellec/facturx/internal/infrastructure/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "service stopped: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.App.Name, cfg.Log.Level, cfg.App.Environment)

	// The emitter identity is shared read-only by every invoice; an invalid
	// identity would make every generated document non-conformant, so fail
	// at startup.
	emitter := coreinvoice.Emitter{
		SIREN:      cfg.Emitter.SIREN,
		SIRET:      cfg.Emitter.SIRET,
		Name:       cfg.Emitter.Name,
		Address:    cfg.Emitter.Address,
		BIC:        cfg.Emitter.BIC,
		VATNumber:  cfg.Emitter.VATNumber,
		Logo:       cfg.Emitter.Logo,
		PDFStorage: cfg.Emitter.PDFStorage,
	}
	if err := emitter.Validate(); err != nil {
		return fmt.Errorf("emitter configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repo archive.Repository
	if cfg.DatabaseConfigured() {
		pool, err := database.NewPool(ctx, database.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			Database:        cfg.Database.Database,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			SSLMode:         cfg.Database.SSLMode,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			log.Warn("database unavailable, invoice archiving disabled", "error", err)
		} else {
			defer pool.Close()
			if err := database.RunMigrations(ctx, pool, log); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
			repo = archivepg.NewRepository(pool, log)
			log.Info("invoice archive enabled", "database", cfg.Database.Database)
		}
	} else {
		log.Info("database not configured, invoice archiving disabled")
	}

	service := appinvoice.NewService(emitter, repo, log)
	handler := invoicehandler.NewHandler(service, log)

	srv, err := server.New(server.Options{
		Addr:           cfg.HTTP.Address(),
		Logger:         log,
		InvoiceHandler: handler,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
	})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
