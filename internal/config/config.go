package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMinIO    = "minio"
)

var Backends = []string{BackendFile, BackendMemory, BackendSQLite, BackendPostgres, BackendMinIO}

type Config struct {
	Storage StorageConfig `yaml:"storage,omitempty"`
	Log     LogConfig     `yaml:"log,omitempty"`
}

type StorageConfig struct {
	Backend  string         `yaml:"backend,omitempty"`
	SQLite   SQLiteConfig   `yaml:"sqlite,omitempty"`
	Postgres PostgresConfig `yaml:"postgres,omitempty"`
	MinIO    MinIOConfig    `yaml:"minio,omitempty"`
}

type SQLiteConfig struct {
	// Path defaults to frontdesk.db inside the data directory.
	Path string `yaml:"path,omitempty"`
}

type PostgresConfig struct {
	Host     string `yaml:"host,omitempty"`
	Port     string `yaml:"port,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	Name     string `yaml:"name,omitempty"`
	SSLMode  string `yaml:"sslmode,omitempty"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
	Bucket    string `yaml:"bucket,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
	UseSSL    bool   `yaml:"use_ssl,omitempty"`
}

type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// BackendName returns the configured backend, defaulting to file.
func (s StorageConfig) BackendName() string {
	if s.Backend == "" {
		return BackendFile
	}
	return s.Backend
}

func ValidateBackend(name string) error {
	for _, b := range Backends {
		if b == name {
			return nil
		}
	}
	return fmt.Errorf("unknown storage backend %q: must be one of file, memory, sqlite, postgres, minio", name)
}

func Load(dataDir string) (*Config, error) {
	path := filepath.Join(dataDir, "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

func Save(dataDir string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	path := filepath.Join(dataDir, "config.yaml")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	// May hold database and bucket credentials.
	return os.WriteFile(path, data, 0600)
}

// ApplyEnv overrides file values with FRONTDESK_* environment variables.
// Unset variables leave the file value alone.
func ApplyEnv(cfg *Config) {
	s := &cfg.Storage
	s.Backend = getEnv("FRONTDESK_STORAGE_BACKEND", s.Backend)
	s.SQLite.Path = getEnv("FRONTDESK_SQLITE_PATH", s.SQLite.Path)

	s.Postgres.Host = getEnv("FRONTDESK_PG_HOST", s.Postgres.Host)
	s.Postgres.Port = getEnv("FRONTDESK_PG_PORT", s.Postgres.Port)
	s.Postgres.User = getEnv("FRONTDESK_PG_USER", s.Postgres.User)
	s.Postgres.Password = getEnv("FRONTDESK_PG_PASSWORD", s.Postgres.Password)
	s.Postgres.Name = getEnv("FRONTDESK_PG_NAME", s.Postgres.Name)
	s.Postgres.SSLMode = getEnv("FRONTDESK_PG_SSLMODE", s.Postgres.SSLMode)

	s.MinIO.Endpoint = getEnv("FRONTDESK_MINIO_ENDPOINT", s.MinIO.Endpoint)
	s.MinIO.AccessKey = getEnv("FRONTDESK_MINIO_ACCESS_KEY", s.MinIO.AccessKey)
	s.MinIO.SecretKey = getEnv("FRONTDESK_MINIO_SECRET_KEY", s.MinIO.SecretKey)
	s.MinIO.Bucket = getEnv("FRONTDESK_MINIO_BUCKET", s.MinIO.Bucket)
	s.MinIO.Prefix = getEnv("FRONTDESK_MINIO_PREFIX", s.MinIO.Prefix)
	s.MinIO.UseSSL = getEnvBool("FRONTDESK_MINIO_USE_SSL", s.MinIO.UseSSL)

	cfg.Log.Level = getEnv("FRONTDESK_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("FRONTDESK_LOG_FORMAT", cfg.Log.Format)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
