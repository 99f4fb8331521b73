// Package log wraps zerolog behind a small bootstrap API. Init configures
// the global logger once at process start; packages take child loggers via
// WithComponent and attach structured fields (path, block_id, node_id) per
// event.
package log
