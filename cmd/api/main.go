package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	server "barzinhos/internal/adapters/http_server"
	"barzinhos/internal/adapters/observability"
	redisad "barzinhos/internal/adapters/redis"
	"barzinhos/internal/adapters/security"
	"barzinhos/internal/adapters/whatsapp"
	"barzinhos/internal/app"
	"barzinhos/internal/domain"
	"barzinhos/internal/shared"
	"barzinhos/internal/storage/memory"
	mysqlrepo "barzinhos/internal/storage/mysql"
)

const shutdownGrace = 10 * time.Second

type repositories interface {
	domain.EstablishmentRepository
	domain.UserRepository
}

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo := openRepo(ctx, cfg)
	defer closeRepo()

	// redis is optional: without it reads go straight to storage and the
	// notification log lives in process memory
	var (
		cache  domain.Cache
		notLog domain.NotificationLog = memory.NewNotificationLog(cfg.NotifyLogSize)
	)
	if cfg.RedisAddr != "" {
		rc := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable; caching disabled")
		} else {
			cache = redisad.New(rc)
			notLog = redisad.NewNotificationLog(rc, cfg.NotifyLogSize)
			log.Info().Str("addr", cfg.RedisAddr).Msg("redis connection ok")
		}
	}

	// deps
	notify := app.NewNotificationService(whatsapp.NewLogSender(log.Logger), notLog)
	hasher := security.NewHasher(bcrypt.DefaultCost)
	auth := app.NewAuthService(repo, hasher, security.NewTokens(cfg.JWTSecret, cfg.JWTTTL), notify, cache)
	h := &server.Handlers{
		Q:       app.NewQueryService(repo, cache, cfg.CacheTTL),
		Cmd:     app.NewEstablishmentService(repo, cache, notify),
		Auth:    auth,
		Notify:  notify,
		Users:   app.NewUserService(repo, hasher, cache),
		Limiter: server.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}

	// http
	reg := observability.InitRegistry()
	srv := server.New(server.Options{Logger: log.Logger, Timeout: cfg.RequestTimeout, CORSOrigins: cfg.CORSOrigins, TrustProxy: cfg.TrustProxy})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	servers := []*http.Server{{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}}
	if ms := observability.NewMetricsServer(cfg.MetricsAddr, reg); ms != nil {
		servers = append(servers, ms)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		s := s
		g.Go(func() error {
			log.Info().Str("addr", s.Addr).Msg("listening")
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		var first error
		for _, s := range servers {
			if err := s.Shutdown(sctx); err != nil && first == nil {
				first = err
			}
		}
		log.Info().Msg("servers stopped")
		return first
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

func openRepo(ctx context.Context, cfg shared.Config) (repositories, func()) {
	switch cfg.StorageDriver {
	case "memory":
		log.Warn().Msg("using in-memory storage; data is lost on restart")
		return memory.New(), func() {}
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		db.SetMaxOpenConns(20)
		db.SetConnMaxLifetime(5 * time.Minute)
		pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := db.PingContext(pctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		return mysqlrepo.New(db), func() { _ = db.Close() }
	default:
		log.Fatal().Str("driver", cfg.StorageDriver).Msg("unknown STORAGE_DRIVER")
		return nil, nil
	}
}

var (
	_ repositories = (*mysqlrepo.Repo)(nil)
	_ repositories = (*memory.Store)(nil)
)
