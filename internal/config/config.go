// config - источник загрузки конфигурации сервиса профиля.
//
// Источники (по убыванию приоритета):
//  1. явный путь --config;
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. только ENV (cleanenv).
//
// После чтения validate() заполняет значения по умолчанию и отсекает
// несогласованные настройки.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Драйверы хранилища записей профиля.
const (
	DriverCookie   = "cookie"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Session  SessionConfig  `yaml:"session"`
	Profile  ProfileConfig  `yaml:"profile"`
	Storage  StorageConfig  `yaml:"storage"`
	S3       S3Config       `yaml:"s3"`
	Photo    PhotoConfig    `yaml:"photo"`
	Preview  PreviewConfig  `yaml:"preview"`
	CORS     CORSConfig     `yaml:"cors"`
	Timeouts TimeoutConfig  `yaml:"timeouts"`
}

// HTTPConfig — публичный REST-сервер (API, /metrics, пробы).
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"50090"`
}

func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// GRPCConfig — gRPC health-сервер. Пустой порт отключает его.
type GRPCConfig struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50091"`
}

func (g GRPCConfig) Addr() string { return net.JoinHostPort(g.Host, g.Port) }

// UpstreamConfig — внешний API аутентификации.
type UpstreamConfig struct {
	BaseURL string        `yaml:"base_url" env:"UPSTREAM_BASE_URL" env-default:"http://localhost:8080"`
	Timeout time.Duration `yaml:"timeout" env:"UPSTREAM_TIMEOUT" env-default:"10s"`
}

// SessionConfig — cookie сессии и адрес сайта для редиректа после выхода.
type SessionConfig struct {
	CookieName string        `yaml:"cookie_name" env:"SESSION_COOKIE_NAME" env-default:"ft_token"`
	MaxAge     time.Duration `yaml:"max_age" env:"SESSION_MAX_AGE" env-default:"24h"`
	SiteURL    string        `yaml:"site_url" env:"SITE_URL" env-default:"http://localhost:3000"`
	Secure     bool          `yaml:"secure" env:"SESSION_SECURE" env-default:"false"`
}

// ProfileConfig — запись профиля.
type ProfileConfig struct {
	RecordName       string        `yaml:"record_name" env:"PROFILE_RECORD_NAME" env-default:"userProfile"`
	Retention        time.Duration `yaml:"retention" env:"PROFILE_RETENTION" env-default:"720h"`
	ClientCookieName string        `yaml:"client_cookie_name" env:"PROFILE_CLIENT_COOKIE" env-default:"ft_client"`
}

// StorageConfig — выбор бэкенда записей и адреса серверных хранилищ.
type StorageConfig struct {
	Driver      string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"cookie"`
	RedisURL    string `yaml:"redis_url" env:"REDIS_URL"`
	RedisPrefix string `yaml:"redis_prefix" env:"REDIS_PREFIX" env-default:"fittrack:"`
	MongoURL    string `yaml:"mongo_url" env:"MONGO_URL"`
	MongoDB     string `yaml:"mongo_db" env:"MONGO_DB" env-default:"fittrack"`
	PostgresURL string `yaml:"postgres_url" env:"POSTGRES"`
}

// S3Config — надёжная загрузка фотографий. Пустой endpoint отключает путь.
type S3Config struct {
	Endpoint      string        `yaml:"endpoint" env:"S3_ENDPOINT"`
	RootUser      string        `yaml:"root_user" env:"S3_ROOT_USER"`
	RootPassword  string        `yaml:"root_password" env:"S3_ROOT_PASSWORD"`
	Bucket        string        `yaml:"bucket" env:"S3_BUCKET"`
	PresignTTL    time.Duration `yaml:"presign_ttl" env:"S3_PRESIGN_TTL" env-default:"10m"`
	PublicBaseURL string        `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL"`
}

// Enabled сообщает, что надёжная загрузка сконфигурирована.
func (s S3Config) Enabled() bool { return s.Endpoint != "" }

type PhotoConfig struct {
	MaxSizeBytes        int64    `yaml:"max_size_bytes" env:"PHOTO_MAX_SIZE_BYTES" env-default:"10485760"`
	AllowedContentTypes []string `yaml:"allowed_content_types" env:"PHOTO_ALLOWED_CONTENT_TYPES" env-separator:"," env-default:"image/jpeg,image/png,image/webp"`
}

// PreviewConfig — локальные превью загруженных фото.
type PreviewConfig struct {
	TTL          time.Duration `yaml:"ttl" env:"PREVIEW_TTL" env-default:"24h"`
	MaxSizeBytes int64         `yaml:"max_size_bytes" env:"PREVIEW_MAX_SIZE_BYTES" env-default:"10485760"`
	MaxEntries   int           `yaml:"max_entries" env:"PREVIEW_MAX_ENTRIES" env-default:"1024"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
}

// TimeoutConfig — таймаут обработки запроса.
type TimeoutConfig struct {
	Service  time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"15s"`
	Shutdown time.Duration `yaml:"shutdown" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// MustLoad — паника при ошибке загрузки.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		if err := cfg.validate(); err != nil {
			return nil, err
		}

		return &cfg, nil
	}

	// 1) --config
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./local.yaml
	if _, err := os.Stat("local.yaml"); err == nil {
		return tryRead("local.yaml")
	}

	// 4) только ENV
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Profile.Retention == 0 {
		c.Profile.Retention = 30 * 24 * time.Hour
	}

	if c.Session.MaxAge == 0 {
		c.Session.MaxAge = 24 * time.Hour
	}

	if c.S3.PresignTTL == 0 {
		c.S3.PresignTTL = 10 * time.Minute
	}

	if c.Preview.TTL == 0 {
		c.Preview.TTL = 24 * time.Hour
	}

	if c.Timeouts.Shutdown == 0 {
		c.Timeouts.Shutdown = 10 * time.Second
	}

	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverCookie
	}

	if err := validPort("http.port", c.HTTP.Port); err != nil {
		return err
	}

	if c.GRPC.Port != "" {
		if err := validPort("grpc.port", c.GRPC.Port); err != nil {
			return err
		}
	}

	if c.Profile.RecordName == "" {
		return fmt.Errorf("profile.record_name is required")
	}

	if c.Session.CookieName == "" {
		return fmt.Errorf("session.cookie_name is required")
	}

	if c.Profile.Retention < 0 || c.Session.MaxAge < 0 {
		return fmt.Errorf("profile.retention and session.max_age must be >= 0")
	}

	if u, err := url.Parse(c.Upstream.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("upstream.base_url must be an absolute URL")
	}

	switch c.Storage.Driver {
	case DriverCookie, DriverMemory:
	case DriverRedis:
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("storage.redis_url is required for driver %q", c.Storage.Driver)
		}
	case DriverMongo:
		if c.Storage.MongoURL == "" {
			return fmt.Errorf("storage.mongo_url is required for driver %q", c.Storage.Driver)
		}
	case DriverPostgres:
		if c.Storage.PostgresURL == "" {
			return fmt.Errorf("storage.postgres_url is required for driver %q", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver)
	}

	if c.S3.Enabled() {
		if c.S3.RootUser == "" || c.S3.RootPassword == "" {
			return fmt.Errorf("s3.root_user and s3.root_password are required")
		}

		if c.S3.Bucket == "" {
			return fmt.Errorf("s3.bucket is required")
		}

		if c.S3.PresignTTL < 0 {
			return fmt.Errorf("s3.presign_ttl must be >= 0")
		}

		if len(c.Photo.AllowedContentTypes) == 0 {
			return fmt.Errorf("photo.allowed_content_types must not be empty")
		}
	}

	if c.Photo.MaxSizeBytes < 0 || c.Preview.MaxSizeBytes < 0 {
		return fmt.Errorf("photo.max_size_bytes and preview.max_size_bytes must be >= 0")
	}

	return nil
}

func validPort(name, port string) error {
	if p, err := strconv.Atoi(port); err != nil || p <= 0 || p > 65535 {
		return fmt.Errorf("%s must be a valid TCP port (1..65535)", name)
	}

	return nil
}
