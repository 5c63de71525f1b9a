// Package logging provides the shared zap logger for fortictl.
//
// Logging is silent by default so CLI output stays clean. Set the
// FORTICTL_LOG_LEVEL environment variable ("debug", "info", "warn", "error")
// to enable console logging, which is most useful for watching the exact
// commands exchanged with a device during a commit.
package logging
