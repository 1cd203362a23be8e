package auth

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	AuthTypeLocal = "Local"

	StatusSuccess = "Success"
	StatusFail    = "Fail"
)

// LogAuthAttempt records an authentication attempt.
// authType: Local|...
// status: Success|Fail
// identifier: email or account id (optional)
func LogAuthAttempt(logger *zap.Logger, level zapcore.Level, authType string, status string, identifier string, message string) {
	ce := logger.Check(level, "auth attempt")
	if ce == nil {
		return
	}

	fields := []zap.Field{
		zap.String("auth_type", authType),
		zap.String("status", status),
	}
	if identifier != "" {
		fields = append(fields, zap.String("identifier", identifier))
	}
	if message != "" {
		fields = append(fields, zap.String("detail", message))
	}
	ce.Write(fields...)
}
