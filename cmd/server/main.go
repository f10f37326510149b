package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"contacthub/backend/internal/audit"
	audithandler "contacthub/backend/internal/audit/handler"
	auditrepo "contacthub/backend/internal/audit/repository"
	"contacthub/backend/internal/config"
	contacthandler "contacthub/backend/internal/contact/handler"
	contactrepo "contacthub/backend/internal/contact/repository"
	contactservice "contacthub/backend/internal/contact/service"
	"contacthub/backend/internal/db"
	identityservice "contacthub/backend/internal/identity/service"
	"contacthub/backend/internal/logger"
	"contacthub/backend/internal/security"
	"contacthub/backend/internal/server"
	"contacthub/backend/internal/server/middleware"
	userhandler "contacthub/backend/internal/user/handler"
	userrepo "contacthub/backend/internal/user/repository"
	userservice "contacthub/backend/internal/user/service"
)

const shutdownTimeout = 20 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("open database", zap.Error(err))
	}
	defer conn.Close()

	tokens, err := security.NewTokenProvider([]byte(cfg.JWTSecretKey), cfg.JWTAlgorithm, cfg.JWTIssuer, cfg.AccessTTL())
	if err != nil {
		zlog.Fatal("token provider", zap.Error(err))
	}
	hasher := security.NewHasher(cfg.BcryptCost)

	users := userrepo.NewPostgresRepository(conn)
	contacts := contactrepo.NewPostgresRepository(conn)
	auditRepo := auditrepo.NewPostgresRepository(conn)
	auditLog := audit.NewLogger(auditRepo, middleware.GetClientIP, zlog)

	authSvc := identityservice.NewAuthService(users, hasher, tokens, auditLog)
	userSvc := userservice.NewService(users, hasher, auditLog)
	contactSvc := contactservice.NewService(contacts, auditLog)

	router := server.NewRouter(server.Deps{
		Auth:         authSvc,
		Users:        userhandler.NewHandler(userSvc, authSvc, zlog),
		Contacts:     contacthandler.NewHandler(contactSvc, zlog),
		AuditLogs:    audithandler.NewHandler(auditRepo, zlog),
		HealthPinger: conn,
		Log:          zlog,
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		zlog.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down HTTP server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Fatal("shutdown", zap.Error(err))
	}
	zlog.Info("HTTP server stopped")
}
