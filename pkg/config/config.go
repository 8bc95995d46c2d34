package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App         AppConfig
	HTTP        HTTPConfig
	DB          DBConfig
	Redis       RedisConfig
	Idempotency IdempotencyConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VMC_APP_ENV" required:"true"`
	Port         string `envconfig:"VMC_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VMC_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VMC_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// HTTPConfig bounds request handling so a stalled storage call surfaces as a
// canceled request instead of an indefinitely pending one.
type HTTPConfig struct {
	CORSOrigins     []string      `envconfig:"VMC_HTTP_CORS_ORIGINS"`
	ReadTimeout     time.Duration `envconfig:"VMC_HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"VMC_HTTP_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `envconfig:"VMC_HTTP_IDLE_TIMEOUT" default:"2m"`
	ShutdownTimeout time.Duration `envconfig:"VMC_HTTP_SHUTDOWN_TIMEOUT" default:"15s"`
}

type DBConfig struct {
	DSN    string `envconfig:"VMC_DB_DSN"`
	Driver string `envconfig:"VMC_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VMC_DB_HOST"`
	LegacyPort     int    `envconfig:"VMC_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VMC_DB_USER"`
	LegacyPassword string `envconfig:"VMC_DB_PASSWORD"`
	LegacyName     string `envconfig:"VMC_DB_NAME"`
	LegacySSLMode  string `envconfig:"VMC_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VMC_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VMC_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VMC_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VMC_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"VMC_DB_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VMC_REDIS_URL"`
	Address      string        `envconfig:"VMC_REDIS_ADDR"`
	Password     string        `envconfig:"VMC_REDIS_PASSWORD"`
	DB           int           `envconfig:"VMC_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VMC_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VMC_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VMC_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VMC_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VMC_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all; the API runs
// without idempotency protection when it is absent.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"VMC_IDEMPOTENCY_TTL" default:"24h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
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
