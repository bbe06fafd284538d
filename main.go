package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"notify-audit/internal/audit"
	"notify-audit/internal/auth"
	"notify-audit/internal/observability/metrics"
	"notify-audit/internal/routing/application"
	routinghttp "notify-audit/internal/routing/interfaces/http"
	"notify-audit/internal/zabbix"
)

func main() {
	cfg := loadConfig()
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	var db *sql.DB
	var auditLogger audit.Logger
	if cfg.DatabaseURL != "" {
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("db open error", zap.Error(err))
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatal("db ping error", zap.Error(err))
		}
		auditLogger = audit.NewRepository(db)
	} else {
		logger.Warn("DATABASE_URL not set, audit logging disabled")
	}

	metrics.Init(db, logger)

	profiles, err := zabbix.LoadProfiles(cfg.ProfilesPath)
	if err != nil {
		logger.Fatal("profiles load error", zap.Error(err))
	}
	if len(profiles) > 0 {
		logger.Info("connection profiles loaded", zap.Strings("profiles", profiles.Names()))
	}

	resolver := application.NewResolver(logger)
	routingHandler, err := routinghttp.NewHandler(resolver, profiles, auditLogger, logger)
	if err != nil {
		logger.Fatal("routing handler error", zap.Error(err))
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/routing/resolve", routingHandler)
	mux.Handle("/api/v1/routing/profiles", routingHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Info("http listening", zap.String("addr", cfg.HTTPAddr))
	logger.Fatal("http server stopped", zap.Error(server.ListenAndServe()))
}

type config struct {
	DatabaseURL  string
	HTTPAddr     string
	JWTSecret    string
	ProfilesPath string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL:  getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:     getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:    getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		ProfilesPath: getenvDefault("ZABBIX_PROFILES", ""),
	}
	if cfg.JWTSecret == "" {
		panic("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", resp.status),
			zap.Duration("duration", time.Since(start)))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
