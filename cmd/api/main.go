package main

import (
	"context"
	"fmt"
	"net"
	"time"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cacheadapter "github.com/Daffa964/api-edutrash/internal/adapter/cache"
	"github.com/Daffa964/api-edutrash/internal/adapter/vertex"
	"github.com/Daffa964/api-edutrash/internal/bootstrap"
	"github.com/Daffa964/api-edutrash/internal/config"
	httptransport "github.com/Daffa964/api-edutrash/internal/http"
	"github.com/Daffa964/api-edutrash/internal/http/handler"
	httpmiddleware "github.com/Daffa964/api-edutrash/internal/http/middleware"
	"github.com/Daffa964/api-edutrash/internal/jwt"
	apimiddleware "github.com/Daffa964/api-edutrash/internal/middleware"
	"github.com/Daffa964/api-edutrash/internal/password"
	"github.com/Daffa964/api-edutrash/internal/repository"
	"github.com/Daffa964/api-edutrash/internal/server"
	"github.com/Daffa964/api-edutrash/internal/service"
	"github.com/Daffa964/api-edutrash/internal/telemetry"
)

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newTelemetry,
			newSnowflake,
			newPGXPool,
			newUserStore,
			newUserRepository,
			newHealthChecker,
			newHasher,
			newIssuer,
			newRedisClient,
			newFunFactCache,
			newGenerator,
			newRateLimiter,
			newTracer,
			newAuthService,
			newFunFactService,
			handler.NewAuthHandler,
			newAuthMiddleware,
			httptransport.NewRouter,
			server.NewHTTPServer,
		),
		fx.Invoke(useTelemetry, bootstrap.EnsureAdmin, startHTTPServer),
	)

	app.Run()
}

func newConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newTelemetry(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.New(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry init: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return provider.Shutdown(stopCtx)
		},
	})

	return provider, nil
}

func newSnowflake(cfg config.Config) (*snowflake.Node, error) {
	node, err := snowflake.NewNode(cfg.SnowflakeNode)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", cfg.SnowflakeNode, err)
	}
	return node, nil
}

func newPGXPool(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	var dialer *cloudsqlconn.Dialer
	if cfg.InstanceConnectionName != "" {
		dialer, err = cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithLazyRefresh())
		if err != nil {
			return nil, fmt.Errorf("cloud sql dialer: %w", err)
		}
		instance := cfg.InstanceConnectionName
		poolCfg.ConnConfig.DialFunc = func(ctx context.Context, _, _ string) (net.Conn, error) {
			return dialer.Dial(ctx, instance)
		}
		logger.Info("using cloud sql connector", zap.String("instance", instance))
	}

	closeDialer := func() {
		if dialer != nil {
			_ = dialer.Close()
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		closeDialer()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		closeDialer()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := repository.Migrate(ctx, pool); err != nil {
			pool.Close()
			closeDialer()
			return nil, err
		}
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pool.Close()
			closeDialer()
			return nil
		},
	})

	return pool, nil
}

func newUserStore(pool *pgxpool.Pool, cfg config.Config) *repository.PostgresUserRepo {
	return repository.NewPostgresUserRepo(pool, cfg.StoreTimeout)
}

func newUserRepository(store *repository.PostgresUserRepo) repository.UserRepository {
	return store
}

func newHealthChecker(store *repository.PostgresUserRepo) handler.HealthChecker {
	return store
}

func newHasher(cfg config.Config, logger *zap.Logger) (*password.Hasher, error) {
	hasher, err := password.New(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	logger.Info("password hasher ready", zap.String("algorithm", hasher.Algorithm()))
	return hasher, nil
}

func newIssuer(cfg config.Config, logger *zap.Logger) (*jwt.Issuer, error) {
	issuer, err := jwt.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	logger.Info("token issuer ready", zap.Duration("ttl", issuer.TTL()))
	return issuer, nil
}

func newTracer(provider *telemetry.Provider) trace.Tracer {
	return provider.Tracer()
}

func newAuthService(users repository.UserRepository, hasher *password.Hasher, issuer *jwt.Issuer, node *snowflake.Node, cfg config.Config, logger *zap.Logger, tracer trace.Tracer) *service.AuthService {
	return service.NewAuthService(users, hasher, issuer, node, cfg, logger).WithTracer(tracer)
}

func newFunFactService(generator vertex.Generator, cache repository.FunFactCache, cfg config.Config, logger *zap.Logger, tracer trace.Tracer) *service.FunFactService {
	return service.NewFunFactService(generator, cache, cfg, logger).WithTracer(tracer)
}

// newRedisClient returns nil when REDIS_ADDR is unset; fun facts are then always generated.
func newRedisClient(lc fx.Lifecycle, cfg config.Config) (redis.UniversalClient, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

func newFunFactCache(client redis.UniversalClient) repository.FunFactCache {
	if client == nil {
		return nil
	}
	return cacheadapter.NewRedisFunFactCache(client)
}

func newGenerator(cfg config.Config, logger *zap.Logger) (vertex.Generator, error) {
	if cfg.GenAIProject == "" {
		logger.Warn("GENAI_PROJECT not set, fun fact generation disabled")
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	gen, err := vertex.NewVertexGenerator(ctx, cfg.GenAIProject, cfg.GenAILocation, cfg.GenAIModel)
	if err != nil {
		return nil, err
	}
	return gen, nil
}

func newRateLimiter(cfg config.Config) *apimiddleware.RateLimiter {
	return apimiddleware.NewRateLimiter(cfg.RateLimitRPM)
}

func newAuthMiddleware(authService *service.AuthService) *httpmiddleware.Auth {
	return httpmiddleware.NewAuth(authService)
}

func startHTTPServer(lc fx.Lifecycle, srv *server.HTTPServer, cfg config.Config, logger *zap.Logger) {
	addr := ":" + cfg.HTTPPort
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				logger.Info("http server listening", zap.String("addr", addr))
				if err := srv.Run(runCtx, addr); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
				close(done)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func useTelemetry(provider *telemetry.Provider, logger *zap.Logger) {
	if !provider.Enabled() {
		logger.Info("tracing disabled, set OTEL_EXPORTER_OTLP_ENDPOINT to export spans")
	}
}
