// Package logging builds the zap logger that serves as the client's
// diagnostic channel. Logs go to stderr so command output on stdout stays
// clean for --json consumers.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "warn"

// New returns a logger at the given level ("debug", "info", "warn",
// "error") using the console or JSON encoder.
func New(level, format string) (*zap.Logger, error) {
	return newWithSink(level, format, zapcore.Lock(os.Stderr))
}

func newWithSink(level, format string, sink zapcore.WriteSyncer) (*zap.Logger, error) {
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch format {
	case "", types.LogFormatConsole:
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	case types.LogFormatJSON:
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		return nil, types.ErrLogFormat
	}

	return zap.New(zapcore.NewCore(enc, sink, lvl)), nil
}
