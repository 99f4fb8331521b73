// Package errdefs defines the error taxonomy shared across the coordinator,
// storage nodes, and client SDK, and its mapping onto HTTP status codes.
package errdefs
