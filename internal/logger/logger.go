// Package logger builds the zap loggers used by the column-mapper CLI.
package logger

import (
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the output format and minimum level.
type Options struct {
	// JSON enables structured production output. Otherwise a console
	// encoder writes human-readable lines to stderr.
	JSON bool
	// Level is a zap level name (debug, info, warn, error). Empty means info.
	Level string
}

// New builds a logger from opts.
func New(opts Options) (*zap.Logger, error) {
	level := zap.InfoLevel

	if opts.Level != "" {
		l, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid log level %q", opts.Level)
		}

		level = l
	}

	if opts.JSON {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		cfg.OutputPaths = []string{"stderr"}

		l, err := cfg.Build()
		if err != nil {
			return nil, errors.Wrap(err, "failed to build JSON logger")
		}

		return l, nil
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		level,
	)

	return zap.New(core), nil
}
