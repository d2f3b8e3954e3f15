package logger

import (
	"testing"

	"storefront/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNilLoggerSafety(t *testing.T) {
	log = nil
	atomLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	Debug("test debug")
	Info("test info")
	Warn("test warn")
	Error("test error")
	testLogger := With(zap.String("key", "value"))
	if testLogger == nil {
		t.Error("With() returned nil logger")
	}
	testLogger.Info("test with")

	reqLogger := WithRequestID("test-id")
	if reqLogger == nil {
		t.Error("WithRequestID() returned nil logger")
	}
	reqLogger.Info("test with request id")

	storeLogger := WithStore("cart")
	if storeLogger == nil {
		t.Error("WithStore() returned nil logger")
	}
	storeLogger.Info("test with store")
}

func TestDevelopmentConfig(t *testing.T) {
	devConfig := &config.LogConfig{
		Level:    "debug",
		Format:   "",
		Output:   "stdout",
		FilePath: "logs/dev.log",
	}

	if err := Init(devConfig, "development"); err != nil {
		t.Fatalf("Failed to initialize development logger: %v", err)
	}
	defer Sync()

	Info("Development logger initialized", zap.String("env", "development"))
	Debug("Debug message should appear")
	Warn("Warning message with fields", zap.String("component", "test"), zap.Int("value", 42))
}

func TestUpdateLevel(t *testing.T) {
	if err := Init(&config.LogConfig{Level: "info", Output: "stdout"}, "development"); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	defer Sync()

	if atomLevel.Level() != zapcore.InfoLevel {
		t.Fatalf("expected info level, got %v", atomLevel.Level())
	}
	UpdateLevel("error")
	if atomLevel.Level() != zapcore.ErrorLevel {
		t.Fatalf("expected error level after update, got %v", atomLevel.Level())
	}
	UpdateLevel("info")
}
