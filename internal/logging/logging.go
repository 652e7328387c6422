// Package logging configures logrus for the binaries and carries a
// request-scoped logger on the context.
package logging

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

// Setup configures the standard logger. format is "text" or "json".
func Setup(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	logrus.SetLevel(lvl)
	logrus.SetOutput(os.Stdout)

	switch strings.ToLower(format) {
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	return nil
}

// ToContext returns a copy of ctx carrying logger.
func ToContext(ctx context.Context, logger logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger stored in ctx, or the standard logger.
func FromContext(ctx context.Context) logrus.FieldLogger {
	if l, ok := ctx.Value(ctxKey{}).(logrus.FieldLogger); ok {
		return l
	}
	return logrus.StandardLogger()
}
