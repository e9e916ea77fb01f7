package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/baechuer/userhub/internal/application/account"
	"github.com/baechuer/userhub/internal/application/auth"
	"github.com/baechuer/userhub/internal/application/user"
	"github.com/baechuer/userhub/internal/config"
	"github.com/baechuer/userhub/internal/infrastructure/email"
	"github.com/baechuer/userhub/internal/infrastructure/memory"
	rabbitmq_pub "github.com/baechuer/userhub/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/userhub/internal/infrastructure/mongo"
	"github.com/baechuer/userhub/internal/infrastructure/redis"
	"github.com/baechuer/userhub/internal/infrastructure/security"
	"github.com/baechuer/userhub/internal/logger"
	http_handlers "github.com/baechuer/userhub/internal/transport/http/handlers"
	"github.com/baechuer/userhub/internal/transport/http/middleware"
	"github.com/baechuer/userhub/internal/transport/http/response"
	"github.com/baechuer/userhub/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing.
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

// Store is the persistence surface the bootstrap needs: repositories plus
// lifecycle hooks.
type Store interface {
	Users() user.Repo
	Ping(ctx context.Context) error
	Close() error
}

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewStore func(cfg *config.Config) (Store, error)

	NewRedis func(addr, password string, db int) *redis.Client

	NewPublisher func(rabbitURL string) (user.EventPublisher, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	// 1) document store
	store, err := deps.NewStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanupFns := []func(){
		func() { _ = store.Close() },
	}
	userRepo := store.Users()

	// 2) redis (optional; login throttling only)
	var limiter *redis.FixedWindowLimiter
	if deps.NewRedis != nil && cfg.RedisAddr != "" {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := c.Ping(ctx); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; login rate limiting disabled")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			limiter = redis.NewFixedWindowLimiter(c)
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	// 3) publisher (optional)
	var pub user.EventPublisher
	if deps.NewPublisher != nil && cfg.RabbitURL != "" {
		p, err := deps.NewPublisher(cfg.RabbitURL)
		if err != nil {
			if cfg.Env == "dev" {
				logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; events disabled")
			} else {
				runCleanup(cleanupFns)
				return nil, nil, err
			}
		} else {
			pub = p
			if c, ok := p.(interface{ Close() error }); ok {
				cleanupFns = append(cleanupFns, func() { _ = c.Close() })
			}
		}
	}

	// 4) mailer
	var mailer user.Mailer
	if cfg.SMTPHost != "" {
		mailer = email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}, logger.Logger)
	} else {
		mailer = email.NewFakeSender(logger.Logger)
	}

	// 5) security
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	codec := security.NewJWTCodec(cfg.JWTSecret)

	// seed (dev only)
	if cfg.SeedDevUsers {
		mongo.SeedUsers(context.Background(), userRepo, hasher)
	}

	// 6) services
	userSvc := user.NewService(userRepo, hasher, mailer, pub)
	authSvc := auth.NewService(userRepo, hasher, codec, cfg.AccessTokenTTL)
	accountSvc := account.NewService(userSvc)

	// 7) handlers + middleware
	authH := http_handlers.NewAuthHandler(authSvc)
	accountH := http_handlers.NewAccountHandler(accountSvc)
	userH := http_handlers.NewUserHandler(userSvc)
	healthH := http_handlers.NewHealthHandler(store)

	allow := middleware.NewAllowList(cfg.AllowedPaths)
	authMW := middleware.Auth(codec, allow, response.WriteError)

	var loginRateMW func(http.Handler) http.Handler
	if limiter != nil && cfg.LoginRateLimit > 0 {
		loginRateMW = middleware.RateLimitFixedWindow(limiter, middleware.FixedWindowConfig{
			RouteKey: "auth.login",
			Limit:    cfg.LoginRateLimit,
			Window:   cfg.LoginRateWindow,
		}, response.WriteError)
	}

	base := []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.AccessLog,
		middleware.SecurityHeaders(cfg.Env == "prod"),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.BodyLimit(0),
	}

	// 8) router
	mux, err := deps.NewRouter(router.Deps{
		Health:      healthH,
		Auth:        authH,
		Account:     accountH,
		User:        userH,
		ContextPath: cfg.ContextPath,
		Base:        base,
		AuthMW:      authMW,
		LoginRateMW: loginRateMW,
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 9) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewStore:   newStore,
		NewRedis: func(addr, password string, db int) *redis.Client {
			return redis.New(addr, password, db)
		},
		NewPublisher: func(url string) (user.EventPublisher, error) {
			return rabbitmq_pub.NewPublisher(url)
		},
		NewRouter: router.New,
	}
}

// newStore connects to MongoDB and prepares indexes. The sentinel URI
// "memory" selects the in-memory store for local runs without a database.
func newStore(cfg *config.Config) (Store, error) {
	if cfg.MongoURI == "memory" {
		return memoryStore{repo: memory.NewUserRepo()}, nil
	}

	cli, err := mongo.New(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, err
	}

	repo := mongo.NewUserRepo(cli)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repo.EnsureIndexes(ctx); err != nil {
		_ = cli.Close()
		return nil, err
	}

	return mongoStore{cli: cli, repo: repo}, nil
}

type mongoStore struct {
	cli  *mongo.Client
	repo *mongo.UserRepo
}

func (s mongoStore) Users() user.Repo               { return s.repo }
func (s mongoStore) Ping(ctx context.Context) error { return s.cli.Ping(ctx) }
func (s mongoStore) Close() error                   { return s.cli.Close() }

type memoryStore struct {
	repo *memory.UserRepo
}

func (s memoryStore) Users() user.Repo               { return s.repo }
func (s memoryStore) Ping(ctx context.Context) error { return nil }
func (s memoryStore) Close() error                   { return nil }

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
