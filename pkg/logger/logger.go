package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogConfig 日志配置
type LogConfig struct {
	Level      string `env:"LOG_LEVEL"`
	Filename   string `env:"LOG_FILENAME"`
	MaxSize    int    `env:"LOG_MAX_SIZE"` // MB
	MaxAge     int    `env:"LOG_MAX_AGE"`  // days
	MaxBackups int    `env:"LOG_MAX_BACKUPS"`
}

var (
	global *zap.Logger = zap.NewNop()
	once   sync.Once
)

// Init builds the global logger. When Filename is set the output rotates via
// lumberjack, otherwise it goes to stderr. Safe to call more than once; only
// the first call wins.
func Init(cfg LogConfig) {
	once.Do(func() {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

		var ws zapcore.WriteSyncer
		var enc zapcore.Encoder
		if cfg.Filename != "" {
			ws = zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.Filename,
				MaxSize:    orDefault(cfg.MaxSize, 100),
				MaxAge:     orDefault(cfg.MaxAge, 30),
				MaxBackups: orDefault(cfg.MaxBackups, 10),
			})
			enc = zapcore.NewJSONEncoder(encCfg)
		} else {
			ws = zapcore.AddSync(os.Stderr)
			enc = zapcore.NewConsoleEncoder(encCfg)
		}

		core := zapcore.NewCore(enc, ws, parseLevel(cfg.Level))
		global = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	})
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// L returns the global logger for callers that need it directly.
func L() *zap.Logger { return global }

func Debug(msg string, fields ...zap.Field) { global.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { global.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { global.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { global.Error(msg, fields...) }

// Sync flushes buffered entries, typically deferred from main.
func Sync() { _ = global.Sync() }
