// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Components log with structured fields; Tab, Generation and URL build the
// fields every navigation log line carries.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Navigation accepted", logging.Tab(tab), logging.Generation(gen))
//	logger.Error("Fetch panicked", zap.Any("panic", r))
package logging
