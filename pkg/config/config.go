package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	CORS          CORSConfig
	Cron          CronConfig
	Bootstrap     BootstrapConfig
	Invoice       InvoiceConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := time.LoadLocation(cfg.App.Timezone); err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", EnvTimezone, cfg.App.Timezone, err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RASOI_APP_ENV" required:"true"`
	Port         string `envconfig:"RASOI_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"RASOI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RASOI_LOG_WARN_STACK" default:"false"`
	Timezone     string `envconfig:"RASOI_TIMEZONE" default:"Asia/Kolkata"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"RASOI_DB_DSN"`
	Driver string `envconfig:"RASOI_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RASOI_DB_HOST"`
	LegacyPort     int    `envconfig:"RASOI_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RASOI_DB_USER"`
	LegacyPassword string `envconfig:"RASOI_DB_PASSWORD"`
	LegacyName     string `envconfig:"RASOI_DB_NAME"`
	LegacySSLMode  string `envconfig:"RASOI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RASOI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RASOI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RASOI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RASOI_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"RASOI_DB_SLOW_QUERY_THRESHOLD" default:"200ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RASOI_REDIS_URL"`
	Address      string        `envconfig:"RASOI_REDIS_ADDR"`
	Password     string        `envconfig:"RASOI_REDIS_PASSWORD"`
	DB           int           `envconfig:"RASOI_REDIS_DB" default:"0"`
	Namespace    string        `envconfig:"RASOI_REDIS_NAMESPACE" default:"rasoi"`
	PoolSize     int           `envconfig:"RASOI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RASOI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RASOI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RASOI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RASOI_REDIS_WRITE_TIMEOUT" default:"5s"`

	// Replay windows for Idempotency-Key responses.
	IdempotencyTTL        time.Duration `envconfig:"RASOI_IDEMPOTENCY_TTL" default:"24h"`
	PaymentIdempotencyTTL time.Duration `envconfig:"RASOI_PAYMENT_IDEMPOTENCY_TTL" default:"168h"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"RASOI_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"RASOI_JWT_ISSUER" default:"rasoi-vasan"`
	ExpirationMinutes      int    `envconfig:"RASOI_JWT_EXPIRATION_MINUTES" default:"1440"`
	RefreshTokenTTLMinutes int    `envconfig:"RASOI_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"RASOI_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"RASOI_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"RASOI_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"RASOI_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"RASOI_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"RASOI_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"RASOI_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"RASOI_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"RASOI_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"RASOI_CRON_INTERVAL" default:"5m"`
	LockTTL  time.Duration `envconfig:"RASOI_CRON_LOCK_TTL" default:"4m"`
}

// BootstrapConfig seeds the first admin account through rasoictl.
type BootstrapConfig struct {
	AdminName     string `envconfig:"RASOI_ADMIN_NAME" default:"Admin"`
	AdminEmail    string `envconfig:"RASOI_ADMIN_EMAIL"`
	AdminPassword string `envconfig:"RASOI_ADMIN_PASSWORD"`
}

type InvoiceConfig struct {
	DefaultDueDays int    `envconfig:"RASOI_INVOICE_DUE_DAYS" default:"7"`
	BusinessName   string `envconfig:"RASOI_BUSINESS_NAME" default:"Rasoi Vasan"`
	BusinessPhone  string `envconfig:"RASOI_BUSINESS_PHONE"`
	BusinessAddr   string `envconfig:"RASOI_BUSINESS_ADDRESS"`
	FontPath       string `envconfig:"RASOI_INVOICE_FONT_PATH"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"RASOI_AUTO_MIGRATE" default:"false"`
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
