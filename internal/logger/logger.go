// Package logger sets up TAPPER's structured logger: console output on
// stdout (or stderr in debug mode) plus a daily-rotated JSON file, the way
// EdgeFlow wires zap and lumberjack together.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	globalLogger *zap.Logger
	globalSugar  *zap.SugaredLogger
	rotator      *lumberjack.Logger
	rotateCron   *cron.Cron
	mu           sync.RWMutex
)

// Config holds logger configuration.
type Config struct {
	Debug      bool   // DEBUG-on-stderr instead of INFO-on-stdout
	LogDir     string // directory for the rotated JSON log file (empty = no file logging)
	MaxSizeMB  int    // max size per log file in MB before a forced rotation
	MaxBackups int    // max number of old log files to keep
	MaxAgeDays int    // max days to retain old log files
	Compress   bool   // gzip compress rotated files
}

// DefaultConfig mirrors the appliance's default on-disk retention: one file
// per day, three days kept.
func DefaultConfig() Config {
	return Config{
		Debug:      false,
		LogDir:     "/var/log/tapper",
		MaxSizeMB:  50,
		MaxBackups: 3,
		MaxAgeDays: 3,
		Compress:   true,
	}
}

// Init initializes the global logger with the given configuration. It
// starts a cron job that forces a daily rotation of the log file at
// midnight, since lumberjack only rotates on size, not on a calendar
// schedule.
func Init(cfg Config) error {
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var cores []zapcore.Core

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	if cfg.Debug {
		cores = append(cores, zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stderr), zapcore.DebugLevel))
	} else {
		cores = append(cores, zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), zapcore.InfoLevel))
	}

	stopPreviousRotation()

	if cfg.LogDir != "" {
		if mkErr := os.MkdirAll(cfg.LogDir, 0755); mkErr != nil {
			return fmt.Errorf("failed to create log directory: %w", mkErr)
		}
		fileWriter := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.LogDir, "tapper.log"),
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		jsonEncoder := zapcore.NewJSONEncoder(encoderCfg)
		cores = append(cores, zapcore.NewCore(jsonEncoder, zapcore.AddSync(fileWriter), zapcore.DebugLevel))

		c := cron.New()
		if _, err := c.AddFunc("@midnight", func() { fileWriter.Rotate() }); err != nil {
			return fmt.Errorf("failed to schedule log rotation: %w", err)
		}
		c.Start()

		mu.Lock()
		rotator = fileWriter
		rotateCron = c
		mu.Unlock()
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))

	mu.Lock()
	globalLogger = logger
	globalSugar = logger.Sugar()
	mu.Unlock()

	return nil
}

func stopPreviousRotation() {
	mu.Lock()
	c := rotateCron
	rotateCron = nil
	rotator = nil
	mu.Unlock()
	if c != nil {
		c.Stop()
	}
}

// Get returns the global zap.Logger.
func Get() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if globalLogger == nil {
		l, _ := zap.NewDevelopment()
		return l
	}
	return globalLogger
}

// Sugar returns the global sugared logger.
func Sugar() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	if globalSugar == nil {
		l, _ := zap.NewDevelopment()
		return l.Sugar()
	}
	return globalSugar
}

// Sync flushes buffered log entries.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}

func Info(msg string, fields ...zap.Field)  { Get().Info(msg, fields...) }
func Error(msg string, fields ...zap.Field) { Get().Error(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { Get().Warn(msg, fields...) }
func Debug(msg string, fields ...zap.Field) { Get().Debug(msg, fields...) }
func Fatal(msg string, fields ...zap.Field) { Get().Fatal(msg, fields...) }

// WithComponent returns a logger tagged with the emitting activity's name,
// e.g. "tag_poller", "tamper_monitor", "mqtt_link".
func WithComponent(component string) *zap.Logger {
	return Get().With(zap.String("component", component))
}
