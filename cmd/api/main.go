package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	authhttp "github.com/linkmark/backend/internal/auth/http"
	authservice "github.com/linkmark/backend/internal/auth/service"
	bookmarkcache "github.com/linkmark/backend/internal/bookmark/cache"
	bookmarkhttp "github.com/linkmark/backend/internal/bookmark/http"
	bookmarkrepo "github.com/linkmark/backend/internal/bookmark/repository"
	bookmarkservice "github.com/linkmark/backend/internal/bookmark/service"
	"github.com/linkmark/backend/internal/common/clock"
	"github.com/linkmark/backend/internal/common/config"
	"github.com/linkmark/backend/internal/common/constants"
	commoncrypto "github.com/linkmark/backend/internal/common/crypto"
	"github.com/linkmark/backend/internal/common/db"
	commonhttp "github.com/linkmark/backend/internal/common/http"
	"github.com/linkmark/backend/internal/common/jwtverify"
	"github.com/linkmark/backend/internal/common/logger"
	srv "github.com/linkmark/backend/internal/common/server"
	userhttp "github.com/linkmark/backend/internal/user/http"
	userrepo "github.com/linkmark/backend/internal/user/repository"
	userservice "github.com/linkmark/backend/internal/user/service"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "api", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.LoadAPIConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), constants.MigrationTimeout)
	if err := db.RunMigrations(migrateCtx, cfg.DatabaseURL); err != nil {
		migrateCancel()
		log.Fatalf("failed to run migrations: %v", err)
	}
	migrateCancel()

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()
	db.StartPoolMetrics(pool, constants.DBPoolMetricsInterval)

	userRepo := userrepo.NewPgRepository(pool)
	bookmarkRepo := bookmarkrepo.NewPgRepository(pool)

	hasher := &commoncrypto.BcryptHasher{}
	idGenerator := &commoncrypto.UUIDGenerator{}
	issuer := authservice.NewTokenIssuer(cfg.JWTSecret, clock.NewRealClock())
	authService := authservice.NewAuthService(userRepo, hasher, idGenerator, issuer, log)
	userService := userservice.NewUserService(userRepo, log)

	var hooks []srv.ShutdownHook

	var tagCache bookmarkservice.TagVocabularyCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		tagCache = bookmarkcache.NewTagCache(rdb, cfg.TagCacheTTL)
		hooks = append(hooks, func(ctx context.Context) error {
			return rdb.Close()
		})
		log.Infof("tag vocabulary cache enabled (redis at %s)", cfg.RedisAddr)
	}

	bookmarkService := bookmarkservice.NewBookmarkService(bookmarkRepo, tagCache, idGenerator, log)

	guard := jwtverify.Middleware(cfg.JWTSecret, userRepo, log)

	authHandler := authhttp.NewHandler(authService, authhttp.HandlerConfig{RequestTimeout: cfg.RequestTimeout}, log)
	userHandler := guard(userhttp.NewHandler(userService, cfg.RequestTimeout, log))
	bookmarkHandler := guard(bookmarkhttp.NewHandler(bookmarkService, cfg.RequestTimeout, log))

	mux := http.NewServeMux()
	mux.Handle("/api/auth/", authHandler)
	mux.Handle("/api/users/", userHandler)
	mux.Handle("/api/bookmarks", bookmarkHandler)
	mux.Handle("/api/bookmarks/", bookmarkHandler)
	mux.Handle("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())

	rateLimiter := commonhttp.NewPathRateLimiter()
	handler := commonhttp.BuildBaseHandler(log, rateLimiter.Middleware(mux))

	server := srv.NewServer(srv.DefaultServerConfig(cfg.HTTPPort), handler)
	srv.StartWithGracefulShutdownAndHooks(server, log, "api", hooks)
}
