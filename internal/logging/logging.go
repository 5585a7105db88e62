// Package logging builds the zap loggers used by the calvin tools.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/HenrikBengtsson/affxparser-sub002/internal/config"
)

// New returns a JSON logger at cfg.Log.Level. It writes to stderr, or to a
// rotating file when cfg.Log.File is set.
func New(cfg *config.Config) (*zap.Logger, error) {
	var sink io.Writer = os.Stderr
	if cfg.Log.File != "" {
		sink = &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			Compress:   true,
		}
	}
	return NewWriter(cfg.Log.Level, sink)
}

// NewWriter returns a JSON logger at level writing to w.
func NewWriter(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}
