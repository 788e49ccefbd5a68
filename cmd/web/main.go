package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	accountservice "github.com/croftbar/member-portal/internal/account/service"
	"github.com/croftbar/member-portal/internal/common/clock"
	"github.com/croftbar/member-portal/internal/common/config"
	commoncrypto "github.com/croftbar/member-portal/internal/common/crypto"
	"github.com/croftbar/member-portal/internal/common/db"
	commonhttp "github.com/croftbar/member-portal/internal/common/http"
	"github.com/croftbar/member-portal/internal/common/logger"
	srv "github.com/croftbar/member-portal/internal/common/server"
	"github.com/croftbar/member-portal/internal/session"
	userrepo "github.com/croftbar/member-portal/internal/user/repository"
	"github.com/croftbar/member-portal/internal/web"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "web", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.LoadWebConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	schemaCtx, schemaCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer schemaCancel()
	if err := db.EnsureSchema(schemaCtx, log, pool); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	repo := userrepo.NewPgRepository(pool, log)
	hasher := &commoncrypto.BcryptHasher{}
	clk := clock.NewRealClock()
	accounts := accountservice.NewAccountService(repo, hasher, clk, log)
	sessions := session.NewManager(repo, cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies, clk, log)

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatalf("failed to load templates: %v", err)
	}

	handler := web.NewHandler(accounts, sessions, renderer, log, cfg.RequestTimeout)

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())

	rateLimiter := commonhttp.NewStrictRateLimiter()
	baseHandler := commonhttp.BuildBaseHandler("web", log, mux)

	rateLimitMiddleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if path == "/health" || path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}
			rateLimiter.Middleware()(next).ServeHTTP(w, r)
		})
	}

	finalHandler := rateLimitMiddleware(baseHandler)

	serverConfig := srv.DefaultServerConfig(cfg.Addr())
	server := srv.NewServer(serverConfig, finalHandler)

	srv.StartWithGracefulShutdown(server, log, "web")
}
