// Package logging provides structured logging for the capture tool.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the tool. It provides both general logging functions
// and specialized functions for protocol-specific logging needs.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (hex dumps, frame parsing, heartbeats)
//   - Info: Normal operations (link events, decoded messages, state changes)
//   - Warn: Non-fatal issues (unknown types, dropped clients, retries)
//   - Error: Fatal issues (startup failures, link errors)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Phone plugged",
//	    zap.String("port", "/dev/ttyUSB0"),
//	    zap.String("phone_type", "CarPlay"),
//	)
//
// # Specialized Logging
//
// Link lifecycle:
//
//	logging.LogLink(port, "link_opened")
//	logging.LogLink(port, "link_closed")
//
// Frame logging:
//
//	logging.LogFrame("received", msg.Type().String(), hdr.Length, payload)
//	logging.LogFrame("sent", "Command", 4, payload)
//
// Raw bytes (debug only):
//
//	logging.LogRawBytes("unparsed payload", data)
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// When no level is given, the CARPLAY_LOG_LEVEL environment variable is
// consulted; if that is also unset, logging is silent. This keeps one-shot
// CLI commands quiet by default.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
