package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "U17"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	GCS           GCSConfig
	PubSub        PubSubConfig
	Report        ReportConfig
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
	Env          string `envconfig:"U17_APP_ENV" required:"true"`
	Port         string `envconfig:"U17_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"U17_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"U17_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"U17_DB_DSN"`
	Driver string `envconfig:"U17_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"U17_DB_HOST"`
	Port     int    `envconfig:"U17_DB_PORT" default:"5432"`
	User     string `envconfig:"U17_DB_USER"`
	Password string `envconfig:"U17_DB_PASSWORD"`
	Name     string `envconfig:"U17_DB_NAME"`
	SSLMode  string `envconfig:"U17_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"U17_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"U17_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"U17_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"U17_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, "sqlite")
}

type RedisConfig struct {
	URL          string        `envconfig:"U17_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"U17_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"U17_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"U17_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"U17_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"U17_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"U17_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"U17_JWT_ISSUER" default:"united17"`
	ExpirationMinutes      int    `envconfig:"U17_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"U17_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"U17_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"U17_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"U17_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"U17_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"U17_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"U17_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"U17_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName  string `envconfig:"U17_GCS_BUCKET_NAME"`
	MaxUploadMB int    `envconfig:"U17_GCS_MAX_UPLOAD_MB" default:"10"`
}

type PubSubConfig struct {
	ChangeTopic        string `envconfig:"U17_PUBSUB_CHANGE_TOPIC" default:"u17-record-changes"`
	ChangeSubscription string `envconfig:"U17_PUBSUB_CHANGE_SUBSCRIPTION"`
}

type ReportConfig struct {
	OrgName      string `envconfig:"U17_REPORT_ORG_NAME" default:"United 17 - Flood Relief"`
	DefaultTitle string `envconfig:"U17_REPORT_DEFAULT_TITLE" default:"Donation Report"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" || db.IsSQLite() {
		return nil
	}

	var missing []string
	for _, part := range []struct {
		env   string
		value string
	}{
		{"U17_DB_HOST", db.Host},
		{"U17_DB_USER", db.User},
		{"U17_DB_NAME", db.Name},
	} {
		if part.value == "" {
			missing = append(missing, part.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either U17_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
