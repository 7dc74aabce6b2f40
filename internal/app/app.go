package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mentoroid/user-service/internal/auth"
	"github.com/mentoroid/user-service/internal/config"
	"github.com/mentoroid/user-service/internal/db"
	userapi "github.com/mentoroid/user-service/internal/http/api/user"
	"github.com/mentoroid/user-service/internal/mailer"
	"github.com/mentoroid/user-service/internal/store"
	log "github.com/sirupsen/logrus"
)

// sweepInterval is how often expired verification codes are reaped.
const sweepInterval = time.Minute

// shutdownTimeout bounds graceful shutdown once ctx is cancelled.
const shutdownTimeout = 10 * time.Second

// Migrate opens the database and runs migrations.
func Migrate(ctx context.Context, cfg config.AppConfig) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	return db.Migrate(conn)
}

// RunServer boots the user service: database, mailer, auth service, and the
// HTTP API. Blocks until ctx is cancelled or the listener fails.
func RunServer(ctx context.Context, cfg config.AppConfig, defaultPort int) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	jwtConfig, _ := config.LoadJWTConfig(configPath)
	if jwtConfig.Secret == "" {
		return fmt.Errorf("app: JWT secret is not configured (set %s or jwt.secret)", config.EnvJWTSecret)
	}
	smtpConfig, _ := config.LoadSMTPConfig(configPath)
	siteConfig, _ := config.LoadSiteConfig(configPath)

	var mail mailer.Mailer
	if smtpConfig.Configured() {
		mail = mailer.NewSMTPMailer(smtpConfig)
	} else {
		log.Warn("smtp not configured, verification codes will be logged instead of mailed")
		mail = mailer.LogMailer{}
	}

	users := store.NewUserStore(conn)
	ledger := store.NewOTPLedger(conn)
	svc := auth.NewService(users, ledger, mail, jwtConfig)

	ledger.StartSweeper(ctx, sweepInterval)

	if siteConfig.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	userapi.RegisterUserRoutes(engine, conn, svc, jwtConfig, siteConfig)

	if defaultPort <= 0 {
		defaultPort = 8318
	}
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", defaultPort),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("user service listening on %s", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
			return fmt.Errorf("app: shutdown: %w", errShutdown)
		}
		return nil
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return errServe
	}
}
