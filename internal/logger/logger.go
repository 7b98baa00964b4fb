// Package logger builds the per-service structured logger.
package logger

import "go.uber.org/zap"

// New returns a production zap logger tagged with the service name, so
// one aggregated stream still tells the four services apart.
func New(service string) *zap.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return l.With(zap.String("service", service))
}
