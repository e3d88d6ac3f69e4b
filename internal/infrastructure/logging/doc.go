// Package logging provides structured logging for Smart City Core.
//
// This package wraps Go's standard log/slog package so every component
// logs with the same handler, level and default fields.
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stderr"   # stdout, stderr
//
// Logs default to stderr: stdout carries the operator narration of the
// simulation and must stay readable.
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("sweep complete", "sensors", 2, "failed", 0)
//	logger.Error("mqtt publish failed", "error", err)
package logging
