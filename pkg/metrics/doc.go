// Package metrics declares the Prometheus collectors for both server roles
// and the handler that exposes them. Collectors register once at init; the
// coordinator mux and the node admin mux both mount Handler at /metrics.
package metrics
