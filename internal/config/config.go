package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	API       APIConfig `mapstructure:"api"`
	Session   SessionConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Media     MediaConfig
	Log       LogConfig       `mapstructure:"log"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	LoginEmail string `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

// APIConfig 上游平台后端
type APIConfig struct {
	BaseURL       string  `mapstructure:"base_url"`
	TimeoutSecond int     `mapstructure:"timeout_seconds"`
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	Burst         int     `mapstructure:"burst"`
}

func (c APIConfig) Timeout() time.Duration {
	if c.TimeoutSecond <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSecond) * time.Second
}

// SessionConfig 登录态持久化位置: file | redis | database
type SessionConfig struct {
	Store     string `mapstructure:"store"`
	FilePath  string `mapstructure:"file_path"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int

	// 只存登录态，连接池不需要大
	PoolSize           int `mapstructure:"pool_size"`
	DialTimeoutSeconds int `mapstructure:"dial_timeout_seconds"`
}

// StorageConfig 音频上传: backend 走平台 /files/upload/audio，其余直传对象存储
type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioSecure   bool   `mapstructure:"minio_secure"`
	OSSEndpoint   string `mapstructure:"oss_endpoint"`
	OSSAccessKey  string `mapstructure:"oss_access_key"`
	OSSSecretKey  string `mapstructure:"oss_secret_key"`
	OSSBucket     string `mapstructure:"oss_bucket"`
}

type MediaConfig struct {
	ProbeAudio bool  `mapstructure:"probe_audio"`
	MaxAudioMB int64 `mapstructure:"max_audio_mb"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// ExposeHeaders 报告下载需要前端读到 Content-Disposition
	ExposeHeaders []string `mapstructure:"expose_headers"`
}

// RateLimitConfig 控制台按来源 IP 限流；Exempt 中的路径前缀不计数
type RateLimitConfig struct {
	MaxRequests   int      `mapstructure:"max_requests"`
	WindowMinutes int      `mapstructure:"window_minutes"`
	Burst         int      `mapstructure:"burst"`
	Exempt        []string `mapstructure:"exempt"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8090")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("api.base_url", "http://localhost:8080/api")
	v.SetDefault("api.timeout_seconds", 15)
	v.SetDefault("api.rate_per_second", 20)
	v.SetDefault("api.burst", 40)
	v.SetDefault("session.store", "file")
	v.SetDefault("session.file_path", "data/session.json")
	v.SetDefault("session.key_prefix", "")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parsetime", true)
	v.SetDefault("storage.type", "backend")
	v.SetDefault("storage.local_path", "uploads")
	v.SetDefault("media.max_audio_mb", 20)
	v.SetDefault("log.file", "logs/console.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("rate_limit.max_requests", 600)
	v.SetDefault("rate_limit.window_minutes", 1)
	v.SetDefault("rate_limit.burst", 60)
	v.SetDefault("rate_limit.exempt", []string{"/api/health", "/metrics", "/swagger/"})
	v.SetDefault("cors.expose_headers", []string{"Content-Disposition"})
	v.SetDefault("redis.pool_size", 4)
	v.SetDefault("redis.dial_timeout_seconds", 5)
}

func LoadConfig(path string) (*Config, error) {
	// .env 只补充环境变量，不覆盖已有值
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("ADMIN_CONSOLE")
	v.AutomaticEnv()
	setDefaults(v)

	// Server
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.mode", "SERVER_MODE")

	// 上游 API
	v.BindEnv("api.base_url", "API_BASE_URL")
	v.BindEnv("api.timeout_seconds", "API_TIMEOUT_SECONDS")

	// Session
	v.BindEnv("session.store", "SESSION_STORE")
	v.BindEnv("session.file_path", "SESSION_FILE_PATH")

	// Database
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Storage / OSS
	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.oss_endpoint", "OSS_ENDPOINT")
	v.BindEnv("storage.oss_access_key", "OSS_ACCESS_KEY")
	v.BindEnv("storage.oss_secret_key", "OSS_SECRET_KEY")
	v.BindEnv("storage.oss_bucket", "OSS_BUCKET")
	v.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		// 没有配置文件时完全依赖默认值和环境变量
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api.base_url: %w", err)
	}
	if c.Server.Mode == "release" && (u.Scheme != "http" && u.Scheme != "https" || u.Host == "") {
		return fmt.Errorf("api.base_url must be an absolute http(s) URL in release mode, got %q", c.API.BaseURL)
	}

	switch c.Session.Store {
	case "file", "redis", "database":
	default:
		return fmt.Errorf("unknown session.store %q", c.Session.Store)
	}
	return nil
}
