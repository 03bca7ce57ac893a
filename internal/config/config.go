// Package config 负责加载与校验应用配置。
// 配置来源为环境变量；本地开发时自动读取工作目录下的 .env 文件。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig 应用基础配置
type AppConfig struct {
	Name            string
	Version         string
	Env             string // dev | prod
	Port            int
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string // debug | info | warn | error
	Encoding string // json | console
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// CatalogConfig 远端目录服务配置
type CatalogConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	LoadOnStartup  bool // 启动时是否做一次全量加载
}

// PersistenceConfig 持久化配置。
// 关闭时购物车和分类只保存在内存里，进程退出即丢失。
type PersistenceConfig struct {
	Enabled bool
	Type    string // redis | memory
}

// RedisConfig Redis连接配置
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RateLimitConfig API限流配置（需要Redis）
type RateLimitConfig struct {
	Enabled bool
	Rate    int64         // 每个时间窗口允许的请求数
	Burst   int64         // 突发容量
	Window  time.Duration // 时间窗口
}

// Config 应用配置总集
type Config struct {
	App         AppConfig
	Log         LogConfig
	CORS        CORSConfig
	Catalog     CatalogConfig
	Persistence PersistenceConfig
	Redis       RedisConfig
	RateLimit   RateLimitConfig
}

// Load 从环境变量加载配置并校验
func Load() (*Config, error) {
	// .env 不存在不是错误
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:            getEnv("APP_NAME", "storefront"),
			Version:         getEnv("APP_VERSION", "dev"),
			Env:             getEnv("APP_ENV", "dev"),
			Port:            getEnvInt("APP_PORT", 8080),
			RequestTimeout:  getEnvDuration("APP_REQUEST_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvDuration("APP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvList("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvList("CORS_ALLOWED_HEADERS", []string{"Content-Type", "X-Request-ID", "X-Idempotency-Key"}),
		},
		Catalog: CatalogConfig{
			BaseURL:        getEnv("CATALOG_BASE_URL", "https://fakestoreapi.com"),
			RequestTimeout: getEnvDuration("CATALOG_REQUEST_TIMEOUT", 10*time.Second),
			LoadOnStartup:  getEnvBool("CATALOG_LOAD_ON_STARTUP", true),
		},
		Persistence: PersistenceConfig{
			Enabled: getEnvBool("PERSISTENCE_ENABLED", true),
			Type:    getEnv("PERSISTENCE_TYPE", "memory"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "127.0.0.1"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Enabled: getEnvBool("RATE_LIMIT_ENABLED", false),
			Rate:    int64(getEnvInt("RATE_LIMIT_RATE", 100)),
			Burst:   int64(getEnvInt("RATE_LIMIT_BURST", 200)),
			Window:  getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate 校验配置取值
func (c *Config) validate() error {
	if c.App.Env != "dev" && c.App.Env != "prod" {
		return fmt.Errorf("invalid APP_ENV %q (expect dev or prod)", c.App.Env)
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid APP_PORT %d", c.App.Port)
	}
	if c.Persistence.Type != "redis" && c.Persistence.Type != "memory" {
		return fmt.Errorf("invalid PERSISTENCE_TYPE %q (expect redis or memory)", c.Persistence.Type)
	}
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("CATALOG_BASE_URL must not be empty")
	}
	if c.RateLimit.Enabled && c.RateLimit.Rate <= 0 {
		return fmt.Errorf("invalid RATE_LIMIT_RATE %d", c.RateLimit.Rate)
	}
	return nil
}

// RedisAddr 返回 host:port 形式的Redis地址
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}
