// Package logging contains the zap backed loggers used by the loaders and the bounds command.
package logging

import (
	"os"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	globalMu     sync.RWMutex
	globalLogger = NewLogger("bounds")
)

// ReplaceGlobal replaces the global logger.
func ReplaceGlobal(logger Logger) {
	globalMu.Lock()
	globalLogger = logger
	globalMu.Unlock()
}

// Global returns the global logger.
func Global() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// NewLoggerConfig returns the console encoder settings shared by every logger: ISO8601 time, colored
// capital levels and short callers, with stacktraces disabled.
func NewLoggerConfig() zap.Config {
	return zap.Config{
		Level:    zap.NewAtomicLevelAt(zap.InfoLevel),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
	}
}

func newConsoleCore(ws zapcore.WriteSyncer) zapcore.Core {
	cfg := NewLoggerConfig()
	return zapcore.NewCore(zapcore.NewConsoleEncoder(cfg.EncoderConfig), ws, zapcore.DebugLevel)
}

// stderr keeps command output on stdout clean for piping.
func newStderrCore() zapcore.Core {
	return newConsoleCore(zapcore.Lock(os.Stderr))
}

// NewLogger returns a new logger that outputs Info+ logs to stderr.
func NewLogger(name string) Logger {
	return newImpl(name, NewAtomicLevelAt(INFO), newStderrCore())
}

// NewDebugLogger returns a new logger that outputs Debug+ logs to stderr.
func NewDebugLogger(name string) Logger {
	return newImpl(name, NewAtomicLevelAt(DEBUG), newStderrCore())
}

// NewWriterLogger returns a logger at level that writes console lines to ws.
func NewWriterLogger(name string, level Level, ws zapcore.WriteSyncer) Logger {
	return newImpl(name, NewAtomicLevelAt(level), newConsoleCore(ws))
}

// NewRotatingFileWriter returns a writer appending to path that rotates the file once it passes 100MB,
// keeping three old files.
func NewRotatingFileWriter(path string) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    100,
		MaxBackups: 3,
	})
}

// NewTestLogger returns a new logger that outputs Debug+ logs to stdout.
func NewTestLogger(tb testing.TB) Logger {
	logger, _ := NewObservedTestLogger(tb)
	return logger
}

// NewObservedTestLogger is like NewTestLogger but also saves logs to an in memory observer.
func NewObservedTestLogger(tb testing.TB) (Logger, *observer.ObservedLogs) {
	tb.Helper()
	observerCore, observedLogs := observer.New(zap.LevelEnablerFunc(zapcore.DebugLevel.Enabled))
	logger := newImpl("", NewAtomicLevelAt(DEBUG), newConsoleCore(zapcore.Lock(os.Stdout)), observerCore)
	tb.Cleanup(func() {
		//nolint:errcheck
		logger.Sync()
	})
	return logger, observedLogs
}
