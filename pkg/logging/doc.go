// Package logging provides structured logging configuration for mockconf.
//
// This package wraps log/slog so every component logs the same way:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatText,
//	    File:   logging.FileConfig{Path: "mockconf.log"},
//	})
//
//	logger.Info("server started", "port", 31299)
//
// When File.Path is set, entries are also written as JSON to a rotating file.
//
// Components accept a *slog.Logger through an option and fall back to Nop().
package logging
