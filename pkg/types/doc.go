/*
Package types defines the core data structures shared by the coordinator,
the storage nodes, and the client SDK.

The namespace is a strict tree of FsObject rows (single parent pointer, the
root has none). Files are split into Blocks, each of which is placed on R
storage nodes as BlockLocations: exactly one primary plus followers.
StorageNodeInfo is the coordinator's registry view of a node, including the
heartbeat-driven liveness flag.

Transfer-shaped types (PutPlan, BlockAssignment, FileReadInfo, BlockReadInfo)
carry their control-plane JSON field names so they serialize directly on the
HTTP API.
*/
package types
