package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/linqfy/horsesShit/internal/audit"
	"github.com/linqfy/horsesShit/internal/auth"
	"github.com/linqfy/horsesShit/internal/config"
	"github.com/linqfy/horsesShit/internal/jobs"
	"github.com/linqfy/horsesShit/internal/ledger"
	"github.com/linqfy/horsesShit/internal/metrics"
	"github.com/linqfy/horsesShit/internal/middleware"
	"github.com/linqfy/horsesShit/internal/service"
	"github.com/linqfy/horsesShit/internal/storage/sqlite"
	"github.com/linqfy/horsesShit/pkg/api/apiconnect"
	"github.com/linqfy/horsesShit/pkg/logging"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup(slog.LevelInfo)
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return err
	}
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	m := metrics.New()

	events := audit.NewWorker(audit.NewSQLEventLogger(store.DB()), 256,
		audit.WithDropCounter(m.AuditEventsDropped),
		audit.WithFailureCounter(m.AuditSaveFailures),
	)
	events.Start()
	defer events.Shutdown()

	engine := ledger.New(store, ledger.WithEvents(events))

	scheduler := jobs.New(engine, store, m, jobs.Options{
		SweepInterval:  cfg.SweepInterval,
		BackupInterval: cfg.BackupInterval,
		BackupDir:      cfg.BackupDir,
		BackupKeep:     cfg.BackupKeep,
	})
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(requestLogger)
	router.Use(chimiddleware.Recoverer)
	router.Use(corsMiddleware)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("OK"))
	})
	router.Handle("/metrics", m.Handler())

	mountServices(router, cfg, engine, store, m)

	if cfg.StaticPath != "" {
		staticDir, err := filepath.Abs(cfg.StaticPath)
		if err != nil {
			return err
		}
		slog.Info("Serving static files", "path", staticDir)
		router.NotFound(staticHandler(staticDir))
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h2c.NewHandler(router, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", cfg.ListenAddr, "auth", cfg.AuthEnabled())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// mountServices registers the Connect handlers. With a JWT secret the ledger
// services require a token and the auth service is exposed.
func mountServices(router chi.Router, cfg *config.Config, engine *ledger.Engine, store *sqlite.SQLiteStore, m *metrics.Metrics) {
	interceptors := []connect.Interceptor{middleware.LoggingInterceptor(m)}

	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled() {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
		interceptors = append(interceptors, middleware.RequireAuth(jwtManager))
	} else {
		slog.Warn("JWT_SECRET not set, the API is open to anyone who can reach it")
	}
	opts := connect.WithInterceptors(interceptors...)

	router.Mount(apiconnect.NewBuyerServiceHandler(service.NewBuyerService(engine), opts))
	router.Mount(apiconnect.NewHorseServiceHandler(service.NewHorseService(engine), opts))
	router.Mount(apiconnect.NewTransactionServiceHandler(service.NewTransactionService(engine), opts))
	router.Mount(apiconnect.NewInstallmentServiceHandler(service.NewInstallmentService(engine), opts))

	if jwtManager != nil {
		authenticator := auth.NewPasswordAuthenticator(store)
		authOpts := connect.WithInterceptors(middleware.LoggingInterceptor(m), middleware.OptionalAuth(jwtManager))
		router.Mount(apiconnect.NewAuthServiceHandler(
			service.NewAuthService(authenticator, authenticator, jwtManager, slog.Default()),
			authOpts,
		))
	}
}

// staticHandler serves the web client, falling back to index.html.
func staticHandler(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/horses.v1.") {
			http.NotFound(w, r)
			return
		}
		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}
		filePath := filepath.Join(dir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		http.ServeFile(w, r, filePath)
	}
}

// requestLogger logs every HTTP request through slog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", chimiddleware.GetReqID(r.Context()),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
