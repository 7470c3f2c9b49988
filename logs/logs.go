package logs

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cube2222/octosubstrait/config"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
	mu         sync.RWMutex

	Output *os.File
)

// Logger returns the global logger.
// It uses a no-op logger until SetLogger or InitializeFileLogger is called.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		mu.Lock()
		if logger == nil {
			logger = zap.NewNop()
		}
		mu.Unlock()
	})
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func SetLogger(l *zap.Logger) {
	loggerOnce.Do(func() {})
	mu.Lock()
	logger = l
	mu.Unlock()
}

// ParseLevel turns a config level name into a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	var out zapcore.Level
	if err := out.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel
	}
	return out
}

// InitializeStderrLogger installs a human-readable logger writing to stderr.
func InitializeStderrLogger(level string) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(level))
	l, err := cfg.Build()
	if err != nil {
		log.Fatalf("couldn't create logger: %s", err)
	}
	SetLogger(l)
}

// InitializeFileLogger installs a JSON logger writing to logs.txt in the cache directory.
func InitializeFileLogger(level string) {
	path := filepath.Join(config.CacheDir, "logs.txt")
	if err := os.MkdirAll(config.CacheDir, 0755); err != nil {
		log.Fatalf("couldn't create ~/.octosubstrait home directory: %s", err)
	}
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("couldn't create logs file: %s", err)
	}
	Output = f
	log.SetOutput(Output)

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(Output),
		ParseLevel(level),
	)
	SetLogger(zap.New(core))
}

func CloseLogger() {
	_ = Logger().Sync()
	if Output != nil {
		Output.Close()
	}
}
