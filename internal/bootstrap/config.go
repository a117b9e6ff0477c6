package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"community-board/internal/infra/setup"
)

// Config 保存从环境变量或 .env 文件加载的配置
type Config struct {
	DB                setup.DBConfig
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	KeyPrefix         string
	JWTSecret         string
	JWTExpiryHours    int
	ServerPort        string
	LogLevel          string
	AppEnv            string
	RateLimitMax      int
	RateLimitWindow   time.Duration
	DmRateLimitMax    int
	DmRateLimitWindow time.Duration
	CORSAllowedOrigin string
	PushGatewayURL    string
	PushServerKey     string
	PushTimeout       time.Duration
	WorkerConcurrency int
	ReconcileSchedule string
}

// LoadConfig 从环境变量加载配置
func LoadConfig() (*Config, error) {
	// .env 文件不存在时只使用环境变量
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("DB_DRIVER", setup.DriverMySQL)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_KEY_PREFIX", "cb:")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("RATE_LIMIT_MAX", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", time.Second)
	v.SetDefault("DM_RATE_LIMIT_MAX", 30)
	v.SetDefault("DM_RATE_LIMIT_WINDOW", time.Minute)
	v.SetDefault("CORS_ALLOWED_ORIGIN", "http://localhost:3000")
	v.SetDefault("PUSH_TIMEOUT", 5*time.Second)
	v.SetDefault("WORKER_CONCURRENCY", 10)
	v.SetDefault("RECONCILE_SCHEDULE", "@every 1h")

	cfg := &Config{
		DB: setup.DBConfig{
			Driver:   v.GetString("DB_DRIVER"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
		},
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		KeyPrefix:         v.GetString("REDIS_KEY_PREFIX"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTExpiryHours:    v.GetInt("JWT_EXPIRY_HOURS"),
		ServerPort:        v.GetString("SERVER_PORT"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		AppEnv:            v.GetString("APP_ENV"),
		RateLimitMax:      v.GetInt("RATE_LIMIT_MAX"),
		RateLimitWindow:   v.GetDuration("RATE_LIMIT_WINDOW"),
		DmRateLimitMax:    v.GetInt("DM_RATE_LIMIT_MAX"),
		DmRateLimitWindow: v.GetDuration("DM_RATE_LIMIT_WINDOW"),
		CORSAllowedOrigin: v.GetString("CORS_ALLOWED_ORIGIN"),
		PushGatewayURL:    v.GetString("PUSH_GATEWAY_URL"),
		PushServerKey:     v.GetString("PUSH_SERVER_KEY"),
		PushTimeout:       v.GetDuration("PUSH_TIMEOUT"),
		WorkerConcurrency: v.GetInt("WORKER_CONCURRENCY"),
		ReconcileSchedule: v.GetString("RECONCILE_SCHEDULE"),
	}

	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("environment variable REDIS_ADDR must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("environment variable JWT_SECRET must be set")
	}
	if cfg.DB.Driver != setup.DriverMySQL && cfg.DB.Driver != setup.DriverPostgres {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}

	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// AllowedOrigins 把逗号分隔的 CORS_ALLOWED_ORIGIN 拆成列表
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
