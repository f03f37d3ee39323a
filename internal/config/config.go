package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	S3     S3Config
	Log    LogConfig
	Batch  BatchConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds archive storage settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Disabled  bool   `mapstructure:"disabled"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// BatchConfig holds upload and processing limits.
type BatchConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
	MaxRows       int   `mapstructure:"max_rows"`
}

// Load reads configuration from environment variables with the EINVOIS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("EINVOIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "einvois")
	v.SetDefault("db.password", "einvois_secret")
	v.SetDefault("db.name", "einvois_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "ap-southeast-1")
	v.SetDefault("s3.bucket", "einvois-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.disabled", false)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Batch defaults
	v.SetDefault("batch.max_file_size_mb", 20)
	v.SetDefault("batch.max_rows", 10000)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":            "EINVOIS_SERVER_PORT",
		"server.read_timeout":    "EINVOIS_SERVER_READ_TIMEOUT",
		"server.write_timeout":   "EINVOIS_SERVER_WRITE_TIMEOUT",
		"server.environment":     "EINVOIS_SERVER_ENVIRONMENT",
		"db.host":                "EINVOIS_DB_HOST",
		"db.port":                "EINVOIS_DB_PORT",
		"db.user":                "EINVOIS_DB_USER",
		"db.password":            "EINVOIS_DB_PASSWORD",
		"db.name":                "EINVOIS_DB_NAME",
		"db.sslmode":             "EINVOIS_DB_SSLMODE",
		"db.max_open":            "EINVOIS_DB_MAX_OPEN",
		"db.max_idle":            "EINVOIS_DB_MAX_IDLE",
		"s3.region":              "EINVOIS_S3_REGION",
		"s3.bucket":              "EINVOIS_S3_BUCKET",
		"s3.endpoint":            "EINVOIS_S3_ENDPOINT",
		"s3.access_key":          "EINVOIS_S3_ACCESS_KEY",
		"s3.secret_key":          "EINVOIS_S3_SECRET_KEY",
		"s3.disabled":            "EINVOIS_S3_DISABLED",
		"log.level":              "EINVOIS_LOG_LEVEL",
		"log.format":             "EINVOIS_LOG_FORMAT",
		"batch.max_file_size_mb": "EINVOIS_BATCH_MAX_FILE_SIZE_MB",
		"batch.max_rows":         "EINVOIS_BATCH_MAX_ROWS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it unless EINVOIS_SERVER_PORT is set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("EINVOIS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
		Disabled:  v.GetBool("s3.disabled"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Batch = BatchConfig{
		MaxFileSizeMB: v.GetInt64("batch.max_file_size_mb"),
		MaxRows:       v.GetInt("batch.max_rows"),
	}

	return cfg, nil
}
