// Package logging builds the process-wide zap logger.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a logger tuned for the deployment environment:
// JSON output in production, console output elsewhere.
func New(environment string) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if environment == "production" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log.With(zap.String("environment", environment)), nil
}
