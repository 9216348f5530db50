// Package utils hosts the shared configuration and logging primitives used by
// every sitefix command: a Viper-backed configuration loader with embedded
// defaults and environment overrides, and a zap logger factory honoring the
// configured level and output format.
package utils
