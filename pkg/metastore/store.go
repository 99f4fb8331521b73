package metastore

import (
	"github.com/driftfs/driftfs/pkg/types"
)

// BlockDeletion names one removed block and every node address that held a
// replica, active or not. The coordinator fans DeleteBlock out to all of
// them, best effort.
type BlockDeletion struct {
	BlockID   string
	Addresses []string
}

// Store is the coordinator's authoritative metadata record: the namespace
// tree, file block lists, replica placements, and the node registry.
type Store interface {
	// Namespace
	Mkdir(path string) (*types.FsObject, error)
	List(path string) ([]types.DirEntry, error)
	Resolve(path string) (*types.FsObject, error)
	Remove(path string) ([]BlockDeletion, error)
	RemoveDir(path string) error

	// File lifecycle
	InitiatePut(path string, size int64) (*types.PutPlan, error)
	FileInfo(path string) (*types.FileReadInfo, error)

	// Node registry
	RegisterNode(nodeID, dataAddr, adminAddr string) (*types.StorageNodeInfo, error)
	Heartbeat(nodeID string) error
	ActiveNodes() ([]*types.StorageNodeInfo, error)

	Close() error
}
