package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/senado-bo/portal-api/internal/api"
	"github.com/senado-bo/portal-api/internal/api/handler"
	"github.com/senado-bo/portal-api/internal/api/middleware"
	"github.com/senado-bo/portal-api/internal/core/domain"
	"github.com/senado-bo/portal-api/internal/core/ports"
	"github.com/senado-bo/portal-api/internal/core/service"
	mongostore "github.com/senado-bo/portal-api/internal/infrastructure/db/mongo"
	redisstore "github.com/senado-bo/portal-api/internal/infrastructure/db/redis"
	"github.com/senado-bo/portal-api/internal/infrastructure/queue"
	"github.com/senado-bo/portal-api/internal/infrastructure/security"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return withApp(ctx, newApp, serve)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, a *app) error {
	cfg := a.cfg
	if err := a.ensureIndexes(ctx); err != nil {
		return err
	}

	checks := map[string]handler.Check{"mongodb": mongostore.Ping(a.client)}

	var rdb *goredis.Client
	if cfg.Redis.Enabled {
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		a.onClose(func() {
			if err := client.Close(); err != nil {
				a.log.Warn().Err(err).Msg("redis close")
			}
		})
		rdb = client
		checks["redis"] = redisstore.Ping(rdb)
		a.log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	} else {
		a.log.Warn().Msg("redis disabled: token revocation off, in-memory rate limits")
	}

	hasher := security.NewBcryptHasher(cfg.Security.BcryptCost)
	tokens := security.NewJWTIssuer(security.TokenConfig{
		AccessSecret:  cfg.Token.Secret,
		RefreshSecret: cfg.Token.RefreshSecret,
		AccessTTL:     cfg.Token.AccessTTL,
		RefreshTTL:    cfg.Token.RefreshTTL,
		Issuer:        cfg.Token.Issuer,
		Audience:      cfg.Token.Audience,
	})

	var (
		denylist    ports.TokenDenylist
		apiLimiter  echomiddleware.RateLimiterStore
		authLimiter echomiddleware.RateLimiterStore
	)
	if rdb != nil {
		denylist = redisstore.NewDenylist(rdb)
		apiLimiter = redisstore.NewRateLimitStore(rdb, "api", cfg.RateLimit.Max, cfg.RateLimit.Window, a.log)
		authLimiter = redisstore.NewRateLimitStore(rdb, "auth", cfg.RateLimit.AuthMax, cfg.RateLimit.Window, a.log)
	} else {
		apiLimiter = middleware.MemoryStore(cfg.RateLimit.Max, cfg.RateLimit.Window)
		authLimiter = middleware.MemoryStore(cfg.RateLimit.AuthMax, cfg.RateLimit.Window)
	}

	if result, err := service.EnsureSuperAdmin(ctx, a.users, hasher,
		service.SuperAdminConfig{Email: cfg.SuperAdmin.Email, Password: cfg.SuperAdmin.Password},
		a.log); err != nil {
		a.log.Error().Err(err).Msg("super admin bootstrap failed")
	} else {
		a.log.Info().Str("result", string(result)).Msg("super admin bootstrap")
	}

	views := queue.NewViewRecorder(0, a.contents, a.log)
	views.Start(context.WithoutCancel(ctx))
	defer views.Stop()

	authService := service.NewAuthService(a.users, hasher, tokens, denylist, service.AuthConfig{
		Lockout: domain.LockoutPolicy{
			MaxAttempts:  cfg.Security.MaxLoginAttempts,
			LockDuration: cfg.Security.LockDuration,
		},
		PasswordHistorySize: cfg.Security.PasswordHistorySize,
		PasswordMaxAge:      cfg.Security.PasswordMaxAge,
		RequireActivation:   cfg.Security.RequireActivation,
	}, a.log)

	e := api.NewRouter(api.Deps{
		Log:          a.log,
		ExposeDetail: cfg.IsDevelopment(),
		CORSOrigins:  cfg.HTTP.CORSOrigins,
		BodyLimit:    cfg.HTTP.BodyLimit,
		UploadDir:    cfg.HTTP.UploadDir,
		Gate:         middleware.NewGate(tokens, a.users, denylist, a.log),
		APILimiter:   apiLimiter,
		AuthLimiter:  authLimiter,
		Checks:       checks,
		Auth:         authService,
		Users:        service.NewUserService(a.users, hasher, a.log),
		Contents:     service.NewContentService(a.contents, views, a.log),
		Legislators:  service.NewLegislatorService(a.legislators, a.log),
		Tabs:         service.NewTabService(a.categories, a.links, a.log),
	})

	return run(ctx, e, ":"+cfg.Port, a)
}

func run(ctx context.Context, e *echo.Echo, addr string, a *app) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", addr).Str("env", a.cfg.Env).Msg("http server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
