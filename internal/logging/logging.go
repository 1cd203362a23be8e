// Package logging builds the zap logger shared by the service.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"campus-portal-backend/internal/config"
)

// New returns a development logger in development mode and a JSON production logger otherwise.
func New(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// NewAuthLogger returns the logger used for authentication attempts. When path is
// set the entries are also appended to that file.
func NewAuthLogger(base *zap.Logger, path string) (*zap.Logger, error) {
	named := base.Named("auth")
	if path == "" {
		return named, nil
	}

	fileCfg := zap.NewProductionConfig()
	fileCfg.OutputPaths = []string{path}
	fileCfg.ErrorOutputPaths = []string{"stderr"}
	fileLogger, err := fileCfg.Build()
	if err != nil {
		return nil, err
	}

	return zap.New(zapcore.NewTee(named.Core(), fileLogger.Core())).Named("auth"), nil
}
