// Package placement picks which storage nodes receive the replicas of a new
// block. Placement runs per block, not per file: each block of a file may
// land on a different subset of the active set.
package placement
