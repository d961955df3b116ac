package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// StoreDriver selects the persistence backend: mongo or memory.
	StoreDriver string `env:"STORE_DRIVER, default=mongo"`

	Auth     AuthConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Engine   EngineConfig
	Settings SettingsConfig
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,   default=1h"`
	// AdminEmail is the only address allowed through admin login.
	AdminEmail         string `env:"ADMIN_EMAIL,          default=admin@example.com"`
	SeedAdminPassword  string `env:"SEED_ADMIN_PASSWORD"`
	RevealTempPassword bool   `env:"REVEAL_TEMP_PASSWORD, default=false"`
	BcryptCost         int    `env:"BCRYPT_COST,          default=10"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=storefront"`
}

// RedisConfig is optional: an empty Addr keeps locking in-process.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=0"`
}

type EngineConfig struct {
	LockTTL      time.Duration `env:"LOCK_TTL,      default=5s"`
	LockWait     time.Duration `env:"LOCK_WAIT,     default=3s"`
	AuditWorkers int           `env:"AUDIT_WORKERS, default=4"`
}

type SettingsConfig struct {
	BrandingFile string `env:"BRANDING_FILE, default=brandingSettings.json"`
}

// Load reads the optional dotenv files (.env when none are given) and then the
// process environment. Variables already set in the environment win.
func Load(ctx context.Context, envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom processes configuration from an arbitrary lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings the HTTP server cannot run without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.StoreDriver != StoreMongo && c.StoreDriver != StoreMemory {
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.Auth.AdminEmail == "" {
		return errors.New("config: ADMIN_EMAIL must not be empty")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
