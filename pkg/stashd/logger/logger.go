// Package logger initializes the structured logger used across the server.
package logger

import "go.uber.org/zap"

// New builds the production zap logger
func New() (*zap.Logger, error) {
	return zap.NewProduction()
}
