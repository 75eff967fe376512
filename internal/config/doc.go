// Package config defines the application's configuration structures and
// loading logic. Settings come from environment variables (KIOKU_ prefix)
// layered over an optional config.yaml, and are validated before use.
package config
