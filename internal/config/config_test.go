package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// writeFile — утилита записи временного файла конфигурации.
func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(data), 0o600))
	return p
}

// chdir — смена текущего рабочего каталога с авто-возвратом.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

// Полный корректный YAML под текущую структуру config.go.
const sampleYAML = `
env: "prod"
http:
  host: "0.0.0.0"
  port: "8080"
grpc:
  host: "127.0.0.1"
  port: "9091"
upstream:
  base_url: "https://api.fittrack.test"
  timeout: "3s"
session:
  cookie_name: "sess"
  max_age: "12h"
  site_url: "https://fittrack.test"
  secure: true
profile:
  record_name: "profileRecord"
  retention: "240h"
storage:
  driver: "redis"
  redis_url: "redis://localhost:6379/0"
s3:
  endpoint: "http://minio:9000"
  root_user: "minio"
  root_password: "minio123"
  bucket: "progress"
  public_base_url: "https://cdn.fittrack.test/progress"
photo:
  max_size_bytes: 1024
  allowed_content_types: ["image/png"]
preview:
  ttl: "1h"
cors:
  allowed_origins: ["https://fittrack.test"]
timeouts:
  service: "3s"
`

// Минимальный YAML (всё остальное — через дефолты/ENV).
const minimalYAML = `
env: "dev"
`

// Некорректный YAML для проверки сообщений об ошибке.
const brokenYAML = `
env: [unclosed
`

func TestHTTPConfig_Addr(t *testing.T) {
	t.Parallel()
	cfg := HTTPConfig{Host: "0.0.0.0", Port: "8080"}
	require.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestGRPCConfig_Addr(t *testing.T) {
	t.Parallel()
	cfg := GRPCConfig{Host: "127.0.0.1", Port: "9091"}
	require.Equal(t, "127.0.0.1:9091", cfg.Addr())
}

func TestLoad_WithExplicitPath_OK(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", sampleYAML)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "8080", cfg.HTTP.Port)
	require.Equal(t, "127.0.0.1:9091", cfg.GRPC.Addr())
	require.Equal(t, "https://api.fittrack.test", cfg.Upstream.BaseURL)
	require.Equal(t, 3*time.Second, cfg.Upstream.Timeout)
	require.Equal(t, "sess", cfg.Session.CookieName)
	require.Equal(t, 12*time.Hour, cfg.Session.MaxAge)
	require.True(t, cfg.Session.Secure)
	require.Equal(t, "profileRecord", cfg.Profile.RecordName)
	require.Equal(t, 240*time.Hour, cfg.Profile.Retention)
	require.Equal(t, DriverRedis, cfg.Storage.Driver)
	require.True(t, cfg.S3.Enabled())
	require.Equal(t, 10*time.Minute, cfg.S3.PresignTTL)
	require.Equal(t, int64(1024), cfg.Photo.MaxSizeBytes)
	require.Equal(t, []string{"image/png"}, cfg.Photo.AllowedContentTypes)
	require.Equal(t, time.Hour, cfg.Preview.TTL)
	require.Equal(t, []string{"https://fittrack.test"}, cfg.CORS.AllowedOrigins)
	require.Equal(t, 3*time.Second, cfg.Timeouts.Service)
}

// Дефолты: cookie-хранилище, 30 дней хранения, S3 выключен.
func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", minimalYAML)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, DriverCookie, cfg.Storage.Driver)
	require.Equal(t, 30*24*time.Hour, cfg.Profile.Retention)
	require.Equal(t, "userProfile", cfg.Profile.RecordName)
	require.Equal(t, "ft_client", cfg.Profile.ClientCookieName)
	require.Equal(t, "ft_token", cfg.Session.CookieName)
	require.Equal(t, 24*time.Hour, cfg.Session.MaxAge)
	require.False(t, cfg.S3.Enabled())
	require.Equal(t, 24*time.Hour, cfg.Preview.TTL)
}

func TestLoad_WithExplicitPath_BrokenYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "broken.yaml", brokenYAML)

	_, err := Load(cfgPath)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_WithCONFIG_PATH_OK(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "from_env_path.yaml", minimalYAML)
	t.Setenv("CONFIG_PATH", cfgPath)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "dev", cfg.Env)
}

// CONFIG_PATH важнее local.yaml.
func TestLoad_Priority_ENVWinsOverLocal(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	writeFile(t, ".", "local.yaml", `
env: "local"
http: { host: "127.0.0.1", port: "7777" }
`)

	envPath := writeFile(t, dir, "from_env.yaml", minimalYAML)
	t.Setenv("CONFIG_PATH", envPath)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "dev", cfg.Env)
}

func TestLoad_WithLocalYAML_OK(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, ".", "local.yaml", sampleYAML)
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "8080", cfg.HTTP.Port)
}

func TestLoad_EnvOverlay_OverridesValuesFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", sampleYAML)

	t.Setenv("HTTP_PORT", "18080")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("PROFILE_RETENTION", "48h")

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "18080", cfg.HTTP.Port)
	require.Equal(t, DriverMemory, cfg.Storage.Driver)
	require.Equal(t, 48*time.Hour, cfg.Profile.Retention)
}

// «Только ENV» без файлов.
func TestLoad_EnvOnly_OK(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("CONFIG_PATH", "")

	t.Setenv("ENV", "local")
	t.Setenv("HTTP_PORT", "50090")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("POSTGRES", "postgres://u:p@localhost:5432/db")
	t.Setenv("SERVICE_TIMEOUT", "2s")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "local", cfg.Env)
	require.Equal(t, DriverPostgres, cfg.Storage.Driver)
	require.Equal(t, "postgres://u:p@localhost:5432/db", cfg.Storage.PostgresURL)
	require.Equal(t, 2*time.Second, cfg.Timeouts.Service)
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	base := func() Config {
		return Config{
			HTTP:     HTTPConfig{Port: "8080"},
			Upstream: UpstreamConfig{BaseURL: "http://api:8080"},
			Session:  SessionConfig{CookieName: "ft_token"},
			Profile:  ProfileConfig{RecordName: "userProfile"},
			Storage:  StorageConfig{Driver: "cookie"},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"bad http port", func(c *Config) { c.HTTP.Port = "0" }, "http.port"},
		{"bad grpc port", func(c *Config) { c.GRPC.Port = "abc" }, "grpc.port"},
		{"relative upstream", func(c *Config) { c.Upstream.BaseURL = "/api" }, "upstream.base_url"},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "etcd" }, "unknown driver"},
		{"redis without url", func(c *Config) { c.Storage.Driver = "redis" }, "storage.redis_url"},
		{"mongo without url", func(c *Config) { c.Storage.Driver = "mongo" }, "storage.mongo_url"},
		{"postgres without url", func(c *Config) { c.Storage.Driver = "postgres" }, "storage.postgres_url"},
		{"s3 without creds", func(c *Config) { c.S3.Endpoint = "http://minio:9000" }, "s3.root_user"},
		{"empty record name", func(c *Config) { c.Profile.RecordName = "" }, "profile.record_name"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := base()
			tt.mutate(&c)

			err := c.validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}

	c := base()
	require.NoError(t, c.validate())
	require.Equal(t, 30*24*time.Hour, c.Profile.Retention)
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		_ = MustLoad(filepath.Join(t.TempDir(), "nope.yaml"))
	})
}
