// Package logger provides a structured logging interface for tkcomments.
//
// It wraps zerolog with a small interface so components can take a Logger
// and tests can swap in NewTestLogger or NewNopLogger:
//
//	logger.Initialize(&cfg.Logging)
//	logger.WithField("video_id", id).Info("Fetching comments")
//	logger.WithError(err).Warn("Skipping link")
//
// Console output is colourised; setting LoggingConfig.File tees every line to
// an append-only file as JSON.
package logger
