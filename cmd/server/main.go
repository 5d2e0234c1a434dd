package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/circlefund/internal/auth"
	"github.com/mmynk/circlefund/internal/automation"
	"github.com/mmynk/circlefund/internal/config"
	"github.com/mmynk/circlefund/internal/ledger"
	"github.com/mmynk/circlefund/internal/metrics"
	"github.com/mmynk/circlefund/internal/middleware"
	"github.com/mmynk/circlefund/internal/service"
	"github.com/mmynk/circlefund/internal/storage/sqlite"
	"github.com/mmynk/circlefund/pkg/api"
	"github.com/mmynk/circlefund/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.SetupWithLevel(cfg.Level())

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	m := metrics.New()
	l := ledger.New(store, ledger.Config{
		Admin:                 cfg.Admin,
		Oracles:               cfg.Oracles,
		Verifiers:             cfg.Verifiers,
		AutomationMinInterval: cfg.AutomationMinInterval,
	}, ledger.WithObserver(m))
	if err := l.Bootstrap(ctx); err != nil {
		return fmt.Errorf("failed to bootstrap ledger: %w", err)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)

	// Auth runs first so the limiter, metrics and logging see the principal.
	public := connect.WithInterceptors(
		middleware.OptionalAuth(jwtManager),
		limiter.Interceptor(),
		m.Interceptor(),
		middleware.LoggingInterceptor(),
	)
	operator := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager),
		limiter.Interceptor(),
		m.Interceptor(),
		middleware.LoggingInterceptor(),
	)

	mux := http.NewServeMux()

	// Register Connect services
	mux.Handle(api.NewCircleServiceHandler(service.NewCircleService(l), public))
	mux.Handle(api.NewTrustServiceHandler(service.NewTrustService(l), public))
	mux.Handle(api.NewGovernanceServiceHandler(service.NewGovernanceService(l), public))
	mux.Handle(api.NewTreasuryServiceHandler(service.NewTreasuryService(l), public))
	mux.Handle(api.NewAutomationServiceHandler(service.NewAutomationService(l, m), operator))

	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.AutomationEnabled {
		runner := automation.NewRunner(l, cfg.Admin, cfg.AutomationSpec, m)
		if err := runner.Start(); err != nil {
			return err
		}
		defer func() {
			<-runner.Stop().Done()
			slog.Info("Automation runner stopped")
		}()
	}

	// Add logging and CORS middleware
	handler := loggingMiddleware(corsMiddleware(mux))

	server := &http.Server{
		Addr: cfg.Addr,
		// Wrap with h2c for HTTP/2 without TLS (required for Connect)
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
