package config

import (
	"log"
	"os"

	"citysafe/pkg/logger"
	"citysafe/pkg/util"
)

// Config 全局配置
type Config struct {
	// Client
	APIBaseURL      string `env:"CITYSAFE_API_URL"`
	DeviceStorePath string `env:"CITYSAFE_DEVICE_STORE"` // sqlite file for on-device state
	Log             logger.LogConfig

	// Assistant
	GeminiAPIKey string `env:"CITYSAFE_GEMINI_API_KEY"`
	LLMBaseURL   string `env:"LLM_BASE_URL"`
	LLMModel     string `env:"LLM_MODEL"`

	// Cache
	CacheType string `env:"CACHE_TYPE"`
	RedisAddr string `env:"REDIS_ADDR"`

	// Stub server
	Addr       string `env:"ADDR"`
	DBDriver   string `env:"DB_DRIVER"`
	DSN        string `env:"DSN"`
	JWTSecret  string `env:"JWT_SECRET"`
	MediaStore string `env:"MEDIA_STORE"` // disk | minio
	MediaPath  string `env:"MEDIA_PATH"`
	Mode       string `env:"MODE"`
}

var GlobalConfig *Config

func Load() error {
	// 1. 根据环境加载 .env 文件
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	if err := util.LoadEnv(env); err != nil {
		log.Printf("Failed to load .env file: %v", err)
	}

	// 2. 加载全局配置
	GlobalConfig = &Config{
		APIBaseURL:      util.GetEnvDefault("CITYSAFE_API_URL", "http://localhost:8000"),
		DeviceStorePath: util.GetEnvDefault("CITYSAFE_DEVICE_STORE", defaultDeviceStorePath()),
		Log: logger.LogConfig{
			Level:      util.GetEnv("LOG_LEVEL"),
			Filename:   util.GetEnv("LOG_FILENAME"),
			MaxSize:    int(util.GetIntEnv("LOG_MAX_SIZE")),
			MaxAge:     int(util.GetIntEnv("LOG_MAX_AGE")),
			MaxBackups: int(util.GetIntEnv("LOG_MAX_BACKUPS")),
		},
		GeminiAPIKey: util.GetEnv("CITYSAFE_GEMINI_API_KEY"),
		LLMBaseURL:   util.GetEnvDefault("LLM_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:     util.GetEnvDefault("LLM_MODEL", "gemini-1.5-flash"),
		CacheType:    util.GetEnvDefault("CACHE_TYPE", "local"),
		RedisAddr:    util.GetEnvDefault("REDIS_ADDR", "localhost:6379"),
		Addr:         util.GetEnvDefault("ADDR", ":8000"),
		DBDriver:     util.GetEnv("DB_DRIVER"),
		DSN:          util.GetEnv("DSN"),
		JWTSecret:    util.GetEnvDefault("JWT_SECRET", "dev-secret-change-in-production"),
		MediaStore:   util.GetEnvDefault("MEDIA_STORE", "disk"),
		MediaPath:    util.GetEnvDefault("MEDIA_PATH", "./uploads"),
		Mode:         util.GetEnvDefault("MODE", "debug"),
	}
	return nil
}

func defaultDeviceStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "citysafe.db"
	}
	return dir + string(os.PathSeparator) + "citysafe" + string(os.PathSeparator) + "citysafe.db"
}
