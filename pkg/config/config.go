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
	Session       SessionConfig
	OAuth         OAuthConfig
	Stripe        StripeConfig
	Checkout      CheckoutConfig
	Admin         AdminConfig
	AuthRateLimit AuthRateLimitConfig
	Webhook       WebhookConfig
	Cron          CronConfig
	FeatureFlags  FeatureFlagsConfig
	CORS          CORSConfig
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
	Env          string `envconfig:"FAVATIS_APP_ENV" required:"true"`
	Port         string `envconfig:"FAVATIS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FAVATIS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FAVATIS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FAVATIS_DB_DSN"`
	Driver string `envconfig:"FAVATIS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FAVATIS_DB_HOST"`
	LegacyPort     int    `envconfig:"FAVATIS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FAVATIS_DB_USER"`
	LegacyPassword string `envconfig:"FAVATIS_DB_PASSWORD"`
	LegacyName     string `envconfig:"FAVATIS_DB_NAME"`
	LegacySSLMode  string `envconfig:"FAVATIS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FAVATIS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FAVATIS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FAVATIS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FAVATIS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FAVATIS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FAVATIS_REDIS_ADDR"`
	Password     string        `envconfig:"FAVATIS_REDIS_PASSWORD"`
	DB           int           `envconfig:"FAVATIS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FAVATIS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FAVATIS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FAVATIS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FAVATIS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FAVATIS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SessionConfig struct {
	CookieName   string `envconfig:"FAVATIS_SESSION_COOKIE_NAME" default:"session_token"`
	TTLDays      int    `envconfig:"FAVATIS_SESSION_TTL_DAYS" default:"7"`
	AdminTTLDays int    `envconfig:"FAVATIS_SESSION_ADMIN_TTL_DAYS" default:"365"`
}

// TTL returns the regular session lifetime.
func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLDays) * 24 * time.Hour
}

// AdminTTL returns the seeded admin session lifetime.
func (s SessionConfig) AdminTTL() time.Duration {
	return time.Duration(s.AdminTTLDays) * 24 * time.Hour
}

type OAuthConfig struct {
	SessionDataURL string        `envconfig:"FAVATIS_OAUTH_SESSION_DATA_URL" default:"https://demobackend.emergentagent.com/auth/v1/env/oauth/session-data"`
	Timeout        time.Duration `envconfig:"FAVATIS_OAUTH_TIMEOUT" default:"10s"`
}

type StripeConfig struct {
	APIKey      string        `envconfig:"FAVATIS_STRIPE_API_KEY"`
	Secret      string        `envconfig:"FAVATIS_STRIPE_SECRET"`
	Env         string        `envconfig:"FAVATIS_STRIPE_ENV" default:"test"`
	CallTimeout time.Duration `envconfig:"FAVATIS_STRIPE_CALL_TIMEOUT" default:"15s"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type CheckoutConfig struct {
	Currency string `envconfig:"FAVATIS_CHECKOUT_CURRENCY" default:"usd"`
}

type AdminConfig struct {
	Seed  bool   `envconfig:"FAVATIS_ADMIN_SEED" default:"true"`
	Email string `envconfig:"FAVATIS_ADMIN_EMAIL" default:"admin@favatis.com"`
	Name  string `envconfig:"FAVATIS_ADMIN_NAME" default:"Admin"`
}

type AuthRateLimitConfig struct {
	SignupWindow     time.Duration `envconfig:"FAVATIS_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"FAVATIS_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"FAVATIS_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type WebhookConfig struct {
	IdempotencyTTL time.Duration `envconfig:"FAVATIS_WEBHOOK_IDEMPOTENCY_TTL" default:"720h"`
}

type CronConfig struct {
	Interval      time.Duration `envconfig:"FAVATIS_CRON_INTERVAL" default:"10m"`
	PendingMinAge time.Duration `envconfig:"FAVATIS_CRON_PENDING_MIN_AGE" default:"15m"`
	LockTTL       time.Duration `envconfig:"FAVATIS_CRON_LOCK_TTL" default:"15m"`
	SweepLimit    int           `envconfig:"FAVATIS_CRON_SWEEP_LIMIT" default:"100"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FAVATIS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FAVATIS_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	Origins []string `envconfig:"FAVATIS_CORS_ORIGINS" default:"http://localhost:3000"`
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
