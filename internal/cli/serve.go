package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"energyd/internal/config"
	"energyd/internal/httpapi"
	"energyd/internal/manager"
	"energyd/internal/registry"
)

const shutdownGrace = 5 * time.Second

// configureHTTP pushes cfg into the httpapi package settings.
func configureHTTP(cfg config.Config, log zerolog.Logger) {
	httpapi.SetLogger(log)
	httpapi.SetRequestLogLevel(cfg.RequestLog)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetPredictTimeoutSeconds(cfg.PredictTimeout())
	httpapi.SetRejectUnknownFields(cfg.RejectUnknownFields)
	httpapi.SetRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins, cfg.CORSMethods, cfg.CORSHeaders)
}

// newManager loads both serving models from the store and checks that their
// inputs line up with the feature projector.
func newManager(ctx context.Context, cfg config.Config, store *registry.Store, log zerolog.Logger) (*manager.Manager, error) {
	wait, err := cfg.MaxWaitDuration()
	if err != nil {
		return nil, err
	}
	mgr := manager.NewWithConfig(manager.ManagerConfig{
		EnergyRef:     cfg.EnergyRef,
		GHGRef:        cfg.GHGRef,
		MaxConcurrent: cfg.MaxConcurrent,
		MaxQueueDepth: cfg.MaxQueueDepth,
		MaxWait:       wait,
		CacheSize:     cfg.CacheSize,
		Publisher:     manager.NewLogPublisher(log),
	})
	if err := mgr.Load(ctx, store); err != nil {
		return nil, err
	}
	if err := mgr.CheckSchemas(); err != nil {
		return nil, err
	}
	return mgr, nil
}

func serve(ctx context.Context, cfg config.Config, o *Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log, closer, err := newLogger(cfg, o.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	store, err := registry.Open(cfg.StoreDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	mgr, err := newManager(ctx, cfg, store, log)
	if err != nil {
		log.Error().Err(err).Str("store", store.Root()).Msg("models unavailable")
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	configureHTTP(cfg, log)
	// In-flight predictions are canceled as soon as a signal arrives.
	httpapi.SetBaseContext(ctx)

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	srv := &http.Server{
		Handler:           httpapi.NewMux(mgr),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	log.Info().Str("addr", ln.Addr().String()).Str("store", store.Root()).Msg("energyd listening")

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
		return err
	}
	return nil
}
