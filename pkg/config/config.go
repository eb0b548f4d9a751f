package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "DELIVERLY"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	CartBackendMemory   = "memory"
	CartBackendRedis    = "redis"
	CartBackendDatabase = "database"
)

type Config struct {
	App          AppConfig
	Cart         CartConfig
	DB           DBConfig
	Redis        RedisConfig
	MenuAPI      MenuAPIConfig
	OrdersAPI    OrdersAPIConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Cart.validate(); err != nil {
		return nil, err
	}
	if cfg.Cart.Backend == CartBackendDatabase {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DELIVERLY_APP_ENV" required:"true"`
	Port         string `envconfig:"DELIVERLY_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"DELIVERLY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DELIVERLY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type CartConfig struct {
	Backend     string        `envconfig:"DELIVERLY_CART_BACKEND" default:"redis"`
	SnapshotTTL time.Duration `envconfig:"DELIVERLY_CART_SNAPSHOT_TTL" default:"720h"`
}

func (c CartConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Backend)) {
	case CartBackendMemory, CartBackendRedis, CartBackendDatabase:
		return nil
	}
	return fmt.Errorf("invalid cart backend %q", c.Backend)
}

// NormalizedBackend returns the lowercased backend name.
func (c CartConfig) NormalizedBackend() string {
	return strings.ToLower(strings.TrimSpace(c.Backend))
}

type DBConfig struct {
	DSN    string `envconfig:"DELIVERLY_DB_DSN"`
	Driver string `envconfig:"DELIVERLY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DELIVERLY_DB_HOST"`
	LegacyPort     int    `envconfig:"DELIVERLY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DELIVERLY_DB_USER"`
	LegacyPassword string `envconfig:"DELIVERLY_DB_PASSWORD"`
	LegacyName     string `envconfig:"DELIVERLY_DB_NAME"`
	LegacySSLMode  string `envconfig:"DELIVERLY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DELIVERLY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DELIVERLY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DELIVERLY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DELIVERLY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver is configured.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, "sqlite")
}

type RedisConfig struct {
	URL          string        `envconfig:"DELIVERLY_REDIS_URL"`
	Address      string        `envconfig:"DELIVERLY_REDIS_ADDR"`
	Password     string        `envconfig:"DELIVERLY_REDIS_PASSWORD"`
	DB           int           `envconfig:"DELIVERLY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DELIVERLY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DELIVERLY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DELIVERLY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DELIVERLY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DELIVERLY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type MenuAPIConfig struct {
	BaseURL string        `envconfig:"DELIVERLY_MENU_API_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"DELIVERLY_MENU_API_TIMEOUT" default:"10s"`
}

type OrdersAPIConfig struct {
	BaseURL string        `envconfig:"DELIVERLY_ORDERS_API_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"DELIVERLY_ORDERS_API_TIMEOUT" default:"15s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DELIVERLY_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
