// Package logging builds the debug logger. A full-screen TUI owns the
// terminal, so log output goes to a rotating file and is disabled entirely
// unless asked for.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a logger writing to a rotating file at path, or a no-op logger
// when enabled is false. An empty path falls back to DefaultPath.
func New(enabled bool, path string) *zap.Logger {
	if !enabled {
		return zap.NewNop()
	}
	if path == "" {
		path = DefaultPath()
	}

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   true,
	})

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), writer, zap.DebugLevel)

	return zap.New(core)
}

// DefaultPath places the debug log under the user cache directory, falling
// back to the working directory when that cannot be resolved.
func DefaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "tugboat.log"
	}
	return filepath.Join(dir, "tugboat", "tugboat.log")
}
