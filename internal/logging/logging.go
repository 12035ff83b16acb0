// Package logging builds the process logger: a logr.Logger backed by zap
// through controller-runtime's adapter.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	crzap "sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// Options configures New.
type Options struct {
	// Level is one of debug, info, warn or error.
	Level string
	// Development selects the colored console encoder.
	Development bool
	// Out defaults to stderr.
	Out io.Writer
}

// ParseLevel converts a level name into a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	l, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: use debug, info, warn or error", level)
	}
	return l, nil
}

// New creates a logger according to opts.
func New(opts Options) (logr.Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return logr.Discard(), err
	}
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	var encoder zapcore.Encoder
	if opts.Development {
		encoderConf := zap.NewDevelopmentEncoderConfig()
		encoderConf.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoderConf.TimeKey = ""
		encoder = zapcore.NewConsoleEncoder(encoderConf)
	} else {
		encoderConf := zap.NewProductionEncoderConfig()
		encoderConf.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderConf)
	}

	level := zap.NewAtomicLevelAt(lvl)
	stackTraceLevel := zap.NewAtomicLevelAt(zapcore.PanicLevel)
	return crzap.New(
		crzap.WriteTo(out),
		crzap.UseDevMode(opts.Development),
		crzap.Level(&level),
		crzap.StacktraceLevel(&stackTraceLevel),
		crzap.Encoder(encoder),
	), nil
}
