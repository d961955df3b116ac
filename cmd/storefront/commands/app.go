package commands

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/Sowndhar-gif/halleyx/internal/api"
	"github.com/Sowndhar-gif/halleyx/internal/core/ports"
	"github.com/Sowndhar-gif/halleyx/internal/core/service"
	"github.com/Sowndhar-gif/halleyx/internal/infrastructure/db/memory"
	mongostore "github.com/Sowndhar-gif/halleyx/internal/infrastructure/db/mongo"
	redisstore "github.com/Sowndhar-gif/halleyx/internal/infrastructure/db/redis"
	"github.com/Sowndhar-gif/halleyx/internal/infrastructure/queue"
	"github.com/Sowndhar-gif/halleyx/internal/infrastructure/security"
	"github.com/Sowndhar-gif/halleyx/internal/infrastructure/settings"
	"github.com/Sowndhar-gif/halleyx/internal/pkg/config"
	"github.com/Sowndhar-gif/halleyx/pkg/logger"
)

// app owns every long-lived dependency of the process.
type app struct {
	cfg *config.Config
	log zerolog.Logger

	users    ports.UserRepository
	products ports.ProductRepository
	orders   ports.OrderRepository
	auditLog ports.AuditRepository

	locker ports.Locker
	idem   ports.IdempotencyStore

	mongoClient *gomongo.Client
	mongoDB     *gomongo.Database
	redis       *goredis.Client

	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	auth   *service.AuthService
	audit  *queue.Dispatcher
}

func loadConfig(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx, envFile)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "storefront",
		Env:     cfg.Env,
	})
	return cfg, log, nil
}

// newApp connects the stores selected by configuration. Call close when done.
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		a.mongoClient, a.mongoDB = client, db
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			a.close(ctx)
			return nil, err
		}
		a.users = mongostore.NewUserRepository(db)
		a.products = mongostore.NewProductRepository(db)
		a.orders = mongostore.NewOrderRepository(db)
		a.auditLog = mongostore.NewAuditRepository(db)
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
	case config.StoreMemory:
		a.users = memory.NewUserRepository()
		a.products = memory.NewProductRepository()
		a.orders = memory.NewOrderRepository()
		a.auditLog = memory.NewAuditRepository()
		log.Warn().Msg("using in-memory store; data is lost on exit")
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			a.close(ctx)
			return nil, err
		}
		a.redis = rdb
		a.locker = redisstore.NewLocker(rdb, cfg.Engine.LockTTL, logger.Component("locker"))
		a.idem = redisstore.NewIdempotencyStore(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	} else {
		a.locker = memory.NewLocker()
		a.idem = memory.NewIdempotencyStore()
		log.Info().Msg("REDIS_ADDR not set; product locks are process-local")
	}

	cost := cfg.Auth.BcryptCost
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	a.hasher = security.NewBcryptHasher(cost)
	a.tokens = service.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	a.auth = service.NewAuthService(a.users, a.hasher, a.tokens, cfg.Auth.AdminEmail, logger.Component("auth"))

	return a, nil
}

// routerDeps wires the services and starts the audit workers.
func (a *app) routerDeps(ctx context.Context) api.Deps {
	a.audit = queue.NewDispatcher(a.cfg.Engine.AuditWorkers, a.auditLog, logger.Component("audit"))
	a.audit.Start(ctx)

	lockWait := a.cfg.Engine.LockWait
	return api.Deps{
		Auth:      a.auth,
		Orders:    service.NewOrderService(a.orders, a.products, a.users, a.locker, a.idem, a.audit, lockWait, logger.Component("orders")),
		Products:  service.NewProductService(a.products, a.orders, a.locker, a.audit, lockWait, logger.Component("products")),
		Customers: service.NewCustomerService(a.users, a.hasher, a.cfg.Auth.RevealTempPassword, logger.Component("customers")),
		Settings:  service.NewSettingsService(settings.NewFileStore(a.cfg.Settings.BrandingFile), a.products, a.users, a.orders, logger.Component("settings")),
		Tokens:    a.tokens,
		Mongo:     a.mongoDB,
		Redis:     a.redis,
		Log:       a.log,
	}
}

// close drains the audit workers before the stores go away.
func (a *app) close(ctx context.Context) {
	if a.audit != nil {
		a.audit.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn().Err(err).Msg("redis close")
		}
	}
	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(ctx); err != nil {
			a.log.Warn().Err(err).Msg("mongo disconnect")
		}
	}
}
