package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	S3        S3Config
	Upload    UploadConfig
	Scheduler SchedulerConfig
	Matching  MatchingConfig
}

type AppConfig struct {
	AppName     string `yaml:"name" env:"APP_NAME" env-default:"skillmatch"`
	Environment string `yaml:"env" env:"APP_ENV" env-default:"local"`
	HTTPPort    string `yaml:"http_port" env:"HTTP_PORT" env-default:"8080"`
	CORSOrigins string `yaml:"cors_origins" env:"CORS_ORIGINS" env-default:"*"`
}

type DatabaseConfig struct {
	URL        string `yaml:"url" env:"DATABASE_URL"`
	DBHost     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	DBPort     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	DBName     string `yaml:"name" env:"DB_NAME" env-default:"skillmatch"`
	DBUser     string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	DBPassword string `yaml:"password" env:"DB_PASSWORD"`
	DBSSLMode  string `yaml:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`

	ConnectTimeout        time.Duration `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT" env-default:"5s"`
	PoolMaxConns          int32         `yaml:"pool_max_conns" env:"DB_POOL_MAX_CONNS" env-default:"10"`
	PoolMinConns          int32         `yaml:"pool_min_conns" env:"DB_POOL_MIN_CONNS" env-default:"0"`
	PoolMaxConnLifetime   time.Duration `yaml:"pool_max_conn_lifetime" env:"DB_POOL_MAX_CONN_LIFETIME" env-default:"1h"`
	PoolMaxConnIdleTime   time.Duration `yaml:"pool_max_conn_idle_time" env:"DB_POOL_MAX_CONN_IDLE_TIME" env-default:"30m"`
	PoolHealthCheckPeriod time.Duration `yaml:"pool_health_check_period" env:"DB_POOL_HEALTH_CHECK_PERIOD" env-default:"1m"`
}

// DSN prefers DATABASE_URL and falls back to the discrete DB_* settings.
func (c DatabaseConfig) DSN() string {
	if u := strings.TrimSpace(c.URL); u != "" {
		return u
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		strings.TrimSpace(c.DBHost),
		strings.TrimSpace(c.DBPort),
		strings.TrimSpace(c.DBUser),
		c.DBPassword,
		strings.TrimSpace(c.DBName),
		strings.TrimSpace(c.DBSSLMode),
	)
}

type RedisConfig struct {
	Host     string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	TTL      time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"10m"`
	Disabled bool          `yaml:"disabled" env:"REDIS_DISABLED" env-default:"false"`
}

func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type JWTConfig struct {
	AccessSecret     string        `yaml:"access_secret" env:"JWT_ACCESS_SECRET" env-required:"true"`
	RefreshSecret    string        `yaml:"refresh_secret" env:"JWT_REFRESH_SECRET" env-required:"true"`
	AccessExpiresIn  time.Duration `yaml:"access_expires_in" env:"JWT_ACCESS_EXPIRES_IN" env-default:"15m"`
	RefreshExpiresIn time.Duration `yaml:"refresh_expires_in" env:"JWT_REFRESH_EXPIRES_IN" env-default:"720h"`
}

type S3Config struct {
	Endpoint      string        `yaml:"endpoint" env:"S3_ENDPOINT"`
	AccessKey     string        `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey     string        `yaml:"secret_key" env:"S3_SECRET_KEY"`
	AvatarsBucket string        `yaml:"avatars_bucket" env:"S3_AVATARS_BUCKET" env-default:"avatars"`
	CVsBucket     string        `yaml:"cvs_bucket" env:"S3_CVS_BUCKET" env-default:"cvs"`
	PublicBaseURL string        `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL"`
	PresignTTL    time.Duration `yaml:"presign_ttl" env:"S3_PRESIGN_TTL" env-default:"10m"`
}

// Enabled reports whether object storage was configured at all.
func (c S3Config) Enabled() bool {
	return strings.TrimSpace(c.Endpoint) != ""
}

type UploadConfig struct {
	AvatarMaxBytes     int64    `yaml:"avatar_max_bytes" env:"AVATAR_MAX_BYTES" env-default:"5242880"`
	AvatarContentTypes []string `yaml:"avatar_content_types" env:"AVATAR_CONTENT_TYPES" env-separator:"," env-default:"image/jpeg,image/png,image/webp"`
	CVMaxBytes         int64    `yaml:"cv_max_bytes" env:"CV_MAX_BYTES" env-default:"10485760"`
	CVContentTypes     []string `yaml:"cv_content_types" env:"CV_CONTENT_TYPES" env-separator:"," env-default:"application/pdf"`
}

type SchedulerConfig struct {
	DBPingSpec  string `yaml:"db_ping_spec" env:"DB_PING_SPEC" env-default:"@every 6h"`
	CronSecret  string `yaml:"cron_secret" env:"CRON_SECRET_TOKEN"`
	DisableCron bool   `yaml:"disable_cron" env:"DISABLE_CRON" env-default:"false"`
}

type MatchingConfig struct {
	CandidateCacheTTL time.Duration `yaml:"candidate_cache_ttl" env:"CANDIDATE_CACHE_TTL" env-default:"30s"`
	SessionCacheTTL   time.Duration `yaml:"session_cache_ttl" env:"SESSION_CACHE_TTL" env-default:"5m"`
	EnrichConcurrency int           `yaml:"enrich_concurrency" env:"ENRICH_CONCURRENCY" env-default:"8"`
	MessagePageSize   int           `yaml:"message_page_size" env:"MESSAGE_PAGE_SIZE" env-default:"50"`
	MaxMessageLength  int           `yaml:"max_message_length" env:"MAX_MESSAGE_LENGTH" env-default:"4000"`
}

var errInvalidConfig = errors.New("invalid config")

// Load reads CONFIG_PATH when set and lets the environment override it.
func Load() (Config, error) {
	var cfg Config

	if p := strings.TrimSpace(os.Getenv("CONFIG_PATH")); p != "" {
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %q: %w", p, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var problems []string

	switch c.App.Environment {
	case EnvLocal, EnvDev, EnvProd:
	default:
		problems = append(problems, "APP_ENV must be one of local, dev, prod")
	}

	if p, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(c.App.HTTPPort), ":")); err != nil || p <= 0 || p > 65535 {
		problems = append(problems, "HTTP_PORT must be a valid TCP port")
	}

	if u := strings.TrimSpace(c.Database.URL); u != "" {
		if _, err := url.Parse(u); err != nil {
			problems = append(problems, "DATABASE_URL is not a valid URL")
		}
	}

	if c.JWT.AccessExpiresIn <= 0 || c.JWT.RefreshExpiresIn <= 0 {
		problems = append(problems, "JWT expiries must be positive")
	}

	if c.S3.Enabled() && (c.S3.AccessKey == "" || c.S3.SecretKey == "") {
		problems = append(problems, "S3_ACCESS_KEY and S3_SECRET_KEY are required when S3_ENDPOINT is set")
	}

	if c.Upload.AvatarMaxBytes <= 0 || c.Upload.CVMaxBytes <= 0 {
		problems = append(problems, "upload limits must be positive")
	}

	if c.Matching.EnrichConcurrency <= 0 {
		c.Matching.EnrichConcurrency = 8
	}
	if c.Matching.MessagePageSize <= 0 {
		c.Matching.MessagePageSize = 50
	}
	if c.Matching.MaxMessageLength <= 0 {
		c.Matching.MaxMessageLength = 4000
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", errInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
