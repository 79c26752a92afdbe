package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	httpctx "github.com/dtroode/contactbook-server/internal/api/http/context"
	"github.com/dtroode/contactbook-server/internal/api/http/middleware"
	"github.com/dtroode/contactbook-server/internal/api/http/router"
	httpServer "github.com/dtroode/contactbook-server/internal/api/http/server"
	"github.com/dtroode/contactbook-server/internal/cache"
	"github.com/dtroode/contactbook-server/internal/clock"
	"github.com/dtroode/contactbook-server/internal/config"
	"github.com/dtroode/contactbook-server/internal/logger"
	"github.com/dtroode/contactbook-server/internal/mailer"
	"github.com/dtroode/contactbook-server/internal/model"
	"github.com/dtroode/contactbook-server/internal/password"
	"github.com/dtroode/contactbook-server/internal/repository/postgres"
	"github.com/dtroode/contactbook-server/internal/server"
	"github.com/dtroode/contactbook-server/internal/service"
	"github.com/dtroode/contactbook-server/internal/storage"
	"github.com/dtroode/contactbook-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)
	clk := clock.System()

	db, err := postgres.NewConection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	contactRepo := postgres.NewContactRepository(db)
	healthRepo := postgres.NewHealthRepository(db.SQL())

	authority, err := token.NewAuthority(token.Config{
		Key:        token.StaticKey(cfg.JWT.Secret),
		Algorithm:  cfg.JWT.Algorithm,
		AccessTTL:  cfg.JWT.AccessTTL(),
		RefreshTTL: cfg.JWT.RefreshTTL(),
	}, clk)
	if err != nil {
		logger.Fatal("failed to initialize token authority", "error", err)
	}

	avatars, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to initialize avatar storage", "error", err, "driver", cfg.Storage.Driver)
	}

	smtp := mailer.NewSMTP(mailer.Config{
		Server:    cfg.Mail.Server,
		Port:      cfg.Mail.Port,
		Username:  cfg.Mail.Username,
		Password:  cfg.Mail.Password,
		SSL:       cfg.Mail.SSLTLS,
		From:      cfg.Mail.From,
		FromName:  cfg.Mail.FromName,
		PublicURL: cfg.Mail.PublicURL,
	}, logger)

	tokenService := service.NewTokenService(authority, userRepo, logger)
	authService := service.NewAuth(userRepo, tokenService, authority, password.NewBcrypt(cfg.Password.BcryptCost), smtp, clk, logger)
	profiles := cache.NewTTL[uuid.UUID, model.Profile](cfg.Profile.CacheTTL(), clk)
	userService := service.NewUser(userRepo, avatars, profiles, logger)
	contactService := service.NewContact(contactRepo, clk, logger)

	r := router.New(router.Services{
		Auth:          authService,
		Users:         userService,
		Contacts:      contactService,
		Health:        healthRepo,
		Authenticator: tokenService,
	}, httpctx.NewManager(), middleware.NewRateLimit(cfg.Profile.RateLimitPerMinute, clk, logger), cfg.HTTP.AllowedOrigins, logger)

	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))
	sl := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "https", cfg.HTTP.EnableHTTPS)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
