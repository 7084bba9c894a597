package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string         `mapstructure:"server_port"`
	SwaggerHost string         `mapstructure:"swagger_host"`
	LogLevel    string         `mapstructure:"log_level"`
	ResetDB     bool           `mapstructure:"reset_db"`
	JWTSecret   string         `mapstructure:"jwt_secret"`
	Database    DatabaseConfig `mapstructure:"database"`
	Redis       RedisConfig    `mapstructure:"redis"`
	MinIO       MinIOConfig    `mapstructure:"minio"`
	Upload      UploadConfig   `mapstructure:"upload"`
	Cache       CacheConfig    `mapstructure:"cache"`
}

// DatabaseConfig selects the SQL driver and its DSN.
type DatabaseConfig struct {
	Driver      string `mapstructure:"driver"`
	MySQLDSN    string `mapstructure:"mysql_dsn"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.Driver == "postgres" {
		return d.PostgresDSN
	}
	return d.MySQLDSN
}

// RedisConfig contains cache and token store connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MinIOConfig contains connection options for the blob bucket.
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Bucket          string `mapstructure:"bucket"`
}

// UploadConfig bounds resume and profile picture uploads.
type UploadConfig struct {
	MaxBytes     int64         `mapstructure:"max_bytes"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// CacheConfig controls read-through caching.
type CacheConfig struct {
	VacancyTTL time.Duration `mapstructure:"vacancy_ttl"`
}

// Load builds Config from an optional .env file and the environment, with defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading configuration from the environment")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("reset_db", false)
	v.SetDefault("jwt_secret", "change-me")
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.mysql_dsn", "user:password@tcp(localhost:3306)/jobportal?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("database.postgres_dsn", "host=localhost port=5432 user=jobportal password=jobportal dbname=jobportal sslmode=disable")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "jobportal")
	v.SetDefault("upload.max_bytes", 10<<20)
	v.SetDefault("upload.write_timeout", 30*time.Second)
	v.SetDefault("cache.vacancy_ttl", time.Minute)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"server_port":             "SERVER_PORT",
		"swagger_host":            "SWAGGER_HOST",
		"log_level":               "LOG_LEVEL",
		"reset_db":                "RESET_DB",
		"jwt_secret":              "JWT_SECRET",
		"database.driver":         "DB_DRIVER",
		"database.mysql_dsn":      "MYSQL_DSN",
		"database.postgres_dsn":   "POSTGRES_DSN",
		"redis.addr":              "REDIS_ADDR",
		"redis.password":          "REDIS_PASSWORD",
		"redis.db":                "REDIS_DB",
		"minio.endpoint":          "MINIO_ENDPOINT",
		"minio.access_key_id":     "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key": "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":           "MINIO_USE_SSL",
		"minio.bucket":            "MINIO_BUCKET",
		"upload.max_bytes":        "UPLOAD_MAX_BYTES",
		"upload.write_timeout":    "UPLOAD_WRITE_TIMEOUT",
		"cache.vacancy_ttl":       "VACANCY_CACHE_TTL",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}
	return nil
}

func validate(cfg Config) error {
	if cfg.ServerPort == "" {
		return errors.New("server port is required")
	}
	if cfg.JWTSecret == "" {
		return errors.New("jwt secret is required")
	}
	switch cfg.Database.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if cfg.Database.DSN() == "" {
		return fmt.Errorf("dsn for driver %s is required", cfg.Database.Driver)
	}
	if cfg.Redis.Addr == "" {
		return errors.New("redis addr is required")
	}
	if cfg.MinIO.Endpoint == "" {
		return errors.New("minio endpoint is required")
	}
	if cfg.MinIO.Bucket == "" {
		return errors.New("minio bucket is required")
	}
	if cfg.Upload.MaxBytes <= 0 {
		return errors.New("upload max bytes must be positive")
	}
	if cfg.Upload.WriteTimeout <= 0 {
		return errors.New("upload write timeout must be positive")
	}
	return nil
}
