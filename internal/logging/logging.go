// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the zap loggers used across glooble.
package logging

import "go.uber.org/zap"

// New returns a zap logger. When debug is true it uses the development
// config (human-readable, debug level); otherwise the production config
// (JSON, info level).
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
