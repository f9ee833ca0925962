// Package logging provides structured logging for the irrigation dashboard.
//
// This package wraps Go's log/slog so every component logs through the
// same handler with the same default fields.
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("session connected", "host", host)
//	logger.Warn("payload rejected", "topic", topic, "error", err)
//
// Never log broker passwords.
package logging
