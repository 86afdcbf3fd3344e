package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"get-a-pet/internal/platform/config"
	"get-a-pet/internal/platform/logger"
	"get-a-pet/internal/router"
)

// @title Get A Pet API
// @version 1.0
// @description Ciclo de vida de adopción de mascotas: publicación, agendamiento de visitas y conclusión.
// @BasePath /
func main() {
	configPath := flag.String("config", "", "archivo YAML de configuración (default: $CONFIG_FILE)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "get-a-pet: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := buildDeps(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer d.Close()

	r := router.NewRouter(router.Options{
		AuthVerifier:   d.verifier,
		PetRepo:        d.petRepo,
		Images:         d.images,
		Users:          d.users,
		Logger:         log,
		ConcludePolicy: d.policy,
		MaxUploadBytes: cfg.Images.MaxUploadBytes,
		WriteRPS:       cfg.Limits.WriteRPS,
		WriteBurst:     cfg.Limits.WriteBurst,
		HealthCheck:    d.healthCheck,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":    cfg.HTTPAddr,
			"storage": cfg.Storage.Driver,
			"images":  cfg.Images.Driver,
			"users":   cfg.Users.Driver,
			"auth":    cfg.Auth.Mode,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
