// Package config loads cluster configuration from defaults, an optional
// YAML file, and environment variables, in that order of precedence.
package config
