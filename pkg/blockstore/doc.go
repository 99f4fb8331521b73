// Package blockstore is the storage node's on-disk blob store: a flat map
// from block-id to payload, one file per block. Client writes append chunk
// by chunk; replication pushes land atomically via rename so a partially
// written replica is never visible.
package blockstore
