// Package logger builds the shared zap logger.
package logger

import (
	"strings"

	"go.uber.org/zap"
)

// New builds a sugared logger for the given mode ("prod"/"production" for
// JSON output, anything else for the development console encoder).
func New(mode string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return log.Sugar(), nil
}
