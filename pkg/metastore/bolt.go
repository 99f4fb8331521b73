package metastore

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"

	"github.com/driftfs/driftfs/pkg/errdefs"
	"github.com/driftfs/driftfs/pkg/log"
	"github.com/driftfs/driftfs/pkg/placement"
	"github.com/driftfs/driftfs/pkg/types"
)

var (
	// Bucket names
	bucketObjects   = []byte("objects")   // object id -> FsObject
	bucketChildren  = []byte("children")  // parent id + name -> object id
	bucketBlocks    = []byte("blocks")    // file id + sequence -> Block
	bucketLocations = []byte("locations") // block id -> []BlockLocation
	bucketNodes     = []byte("nodes")     // registry id -> StorageNodeInfo
	bucketNodeIndex = []byte("node_index") // node id string -> registry id
)

const rootID int64 = 1

// Options fixes the cluster parameters the store enforces.
type Options struct {
	BlockSize         int64
	ReplicationFactor int
	LivenessWindow    time.Duration
}

// BoltStore implements Store on a single bbolt database file. Every
// operation is one transaction; bbolt's single-writer model serializes the
// critical sections (sibling uniqueness, cascade, placement).
type BoltStore struct {
	db     *bolt.DB
	opts   Options
	picker *placement.Picker
	logger zerolog.Logger

	now func() time.Time
}

// NewBoltStore opens (or creates) the metadata database in dataDir and
// ensures the root directory row exists.
func NewBoltStore(dataDir string, opts Options) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, "driftfs.db")

	db, err := bolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		buckets := [][]byte{
			bucketObjects,
			bucketChildren,
			bucketBlocks,
			bucketLocations,
			bucketNodes,
			bucketNodeIndex,
		}
		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		// Seed the root directory on first open.
		objects := tx.Bucket(bucketObjects)
		if objects.Get(itob(rootID)) == nil {
			root := &types.FsObject{
				ID:          rootID,
				Name:        "/",
				IsDirectory: true,
				Modified:    time.Now().UTC(),
			}
			data, err := json.Marshal(root)
			if err != nil {
				return err
			}
			if err := objects.Put(itob(rootID), data); err != nil {
				return err
			}
			if err := objects.SetSequence(uint64(rootID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{
		db:     db,
		opts:   opts,
		picker: placement.New(rand.NewSource(time.Now().UnixNano())),
		logger: log.WithComponent("metastore"),
		now:    time.Now,
	}, nil
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// itob returns an 8-byte big-endian representation of v, so integer keys
// sort correctly under bbolt's byte ordering.
func itob(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

func btoi(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b))
}

func childKey(parentID int64, name string) []byte {
	return append(itob(parentID), name...)
}

func blockKey(fileID int64, seq int) []byte {
	return append(itob(fileID), itob(int64(seq))...)
}

// --- Path resolution ---

func (s *BoltStore) getObject(tx *bolt.Tx, id int64) (*types.FsObject, error) {
	data := tx.Bucket(bucketObjects).Get(itob(id))
	if data == nil {
		return nil, errdefs.NotFoundf("object %d", id)
	}
	var obj types.FsObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

func (s *BoltStore) putObject(tx *bolt.Tx, obj *types.FsObject) error {
	data, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return tx.Bucket(bucketObjects).Put(itob(obj.ID), data)
}

// resolveTx walks the tree from the root, one child-index lookup per
// component. Every non-terminal component must be a directory.
func (s *BoltStore) resolveTx(tx *bolt.Tx, parts []string) (*types.FsObject, error) {
	obj, err := s.getObject(tx, rootID)
	if err != nil {
		return nil, err
	}
	for _, name := range parts {
		if !obj.IsDirectory {
			return nil, fmt.Errorf("%s is a file: %w", obj.Name, errdefs.ErrNotADirectory)
		}
		idBytes := tx.Bucket(bucketChildren).Get(childKey(obj.ID, name))
		if idBytes == nil {
			return nil, errdefs.NotFoundf("path component %q", name)
		}
		obj, err = s.getObject(tx, btoi(idBytes))
		if err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// resolveParentTx resolves the parent directory of path and returns it with
// the terminal name.
func (s *BoltStore) resolveParentTx(tx *bolt.Tx, path string) (*types.FsObject, string, error) {
	parentParts, name, err := SplitParent(path)
	if err != nil {
		return nil, "", err
	}
	parent, err := s.resolveTx(tx, parentParts)
	if err != nil {
		return nil, "", err
	}
	if !parent.IsDirectory {
		return nil, "", fmt.Errorf("parent of %s: %w", path, errdefs.ErrNotADirectory)
	}
	return parent, name, nil
}

// Resolve returns the object at path.
func (s *BoltStore) Resolve(path string) (*types.FsObject, error) {
	parts, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	var obj *types.FsObject
	err = s.db.View(func(tx *bolt.Tx) error {
		obj, err = s.resolveTx(tx, parts)
		return err
	})
	return obj, err
}

// --- Namespace operations ---

// Mkdir creates one directory. The parent must already exist and be a
// directory; a sibling name collision fails with AlreadyExists.
func (s *BoltStore) Mkdir(path string) (*types.FsObject, error) {
	var created *types.FsObject
	err := s.db.Update(func(tx *bolt.Tx) error {
		parent, name, err := s.resolveParentTx(tx, path)
		if err != nil {
			return err
		}

		children := tx.Bucket(bucketChildren)
		if children.Get(childKey(parent.ID, name)) != nil {
			return errdefs.AlreadyExistsf("%s", path)
		}

		id, err := tx.Bucket(bucketObjects).NextSequence()
		if err != nil {
			return err
		}
		created = &types.FsObject{
			ID:          int64(id),
			ParentID:    parent.ID,
			Name:        name,
			IsDirectory: true,
			Modified:    s.now().UTC(),
		}
		if err := s.putObject(tx, created); err != nil {
			return err
		}
		return children.Put(childKey(parent.ID, name), itob(created.ID))
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("path", path).Int64("id", created.ID).Msg("Directory created")
	return created, nil
}

// List returns the entries of a directory.
func (s *BoltStore) List(path string) ([]types.DirEntry, error) {
	parts, err := SplitPath(path)
	if err != nil {
		return nil, err
	}

	var entries []types.DirEntry
	err = s.db.View(func(tx *bolt.Tx) error {
		dir, err := s.resolveTx(tx, parts)
		if err != nil {
			return err
		}
		if !dir.IsDirectory {
			return fmt.Errorf("%s: %w", path, errdefs.ErrNotADirectory)
		}

		entries = []types.DirEntry{}
		c := tx.Bucket(bucketChildren).Cursor()
		prefix := itob(dir.ID)
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			child, err := s.getObject(tx, btoi(v))
			if err != nil {
				return err
			}
			entries = append(entries, types.DirEntry{
				Name:        child.Name,
				IsDirectory: child.IsDirectory,
				Size:        child.Size,
				Modified:    child.Modified,
			})
		}
		return nil
	})
	return entries, err
}

// hasChildren reports whether a directory has any entry.
func (s *BoltStore) hasChildren(tx *bolt.Tx, id int64) bool {
	c := tx.Bucket(bucketChildren).Cursor()
	prefix := itob(id)
	k, _ := c.Seek(prefix)
	return k != nil && bytes.HasPrefix(k, prefix)
}

// removeTx deletes an object and, for files, cascades to its blocks and
// locations, collecting the holder addresses for the delete fan-out.
func (s *BoltStore) removeTx(tx *bolt.Tx, path string) ([]BlockDeletion, error) {
	parts, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, errdefs.InvalidArgumentf("cannot remove the root directory")
	}

	obj, err := s.resolveTx(tx, parts)
	if err != nil {
		return nil, err
	}

	var deletions []BlockDeletion
	if obj.IsDirectory {
		if s.hasChildren(tx, obj.ID) {
			return nil, fmt.Errorf("%s: %w", path, errdefs.ErrNotEmpty)
		}
	} else {
		deletions, err = s.dropFileBlocksTx(tx, obj.ID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Bucket(bucketChildren).Delete(childKey(obj.ParentID, obj.Name)); err != nil {
		return nil, err
	}
	if err := tx.Bucket(bucketObjects).Delete(itob(obj.ID)); err != nil {
		return nil, err
	}
	return deletions, nil
}

// dropFileBlocksTx cascades a file deletion to its Block and BlockLocation
// rows, resolving each holder's data address first.
func (s *BoltStore) dropFileBlocksTx(tx *bolt.Tx, fileID int64) ([]BlockDeletion, error) {
	blocks := tx.Bucket(bucketBlocks)
	locations := tx.Bucket(bucketLocations)

	var deletions []BlockDeletion
	var keys [][]byte

	c := blocks.Cursor()
	prefix := itob(fileID)
	for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		var blk types.Block
		if err := json.Unmarshal(v, &blk); err != nil {
			return nil, err
		}

		var locs []types.BlockLocation
		if data := locations.Get([]byte(blk.BlockID)); data != nil {
			if err := json.Unmarshal(data, &locs); err != nil {
				return nil, err
			}
		}
		var addrs []string
		for _, loc := range locs {
			node, err := s.getNodeTx(tx, loc.NodeID)
			if err != nil {
				continue // registry row gone; nothing to notify
			}
			addrs = append(addrs, node.DataAddress)
		}
		deletions = append(deletions, BlockDeletion{BlockID: blk.BlockID, Addresses: addrs})

		if err := locations.Delete([]byte(blk.BlockID)); err != nil {
			return nil, err
		}
		keys = append(keys, append([]byte(nil), k...))
	}

	for _, k := range keys {
		if err := blocks.Delete(k); err != nil {
			return nil, err
		}
	}
	return deletions, nil
}

// Remove deletes a file or an empty directory and returns the block
// deletions the request plane must fan out.
func (s *BoltStore) Remove(path string) ([]BlockDeletion, error) {
	var deletions []BlockDeletion
	err := s.db.Update(func(tx *bolt.Tx) error {
		var err error
		deletions, err = s.removeTx(tx, path)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("path", path).Int("blocks", len(deletions)).Msg("Object removed")
	return deletions, nil
}

// RemoveDir deletes an empty directory. Files are rejected.
func (s *BoltStore) RemoveDir(path string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		parts, err := SplitPath(path)
		if err != nil {
			return err
		}
		if len(parts) == 0 {
			return errdefs.InvalidArgumentf("cannot remove the root directory")
		}
		obj, err := s.resolveTx(tx, parts)
		if err != nil {
			return err
		}
		if !obj.IsDirectory {
			return fmt.Errorf("%s: %w", path, errdefs.ErrNotADirectory)
		}
		_, err = s.removeTx(tx, path)
		return err
	})
}

// --- File lifecycle ---

// InitiatePut creates the file record and places every block: R distinct
// active nodes per block, first one primary. The whole operation is one
// transaction; any failure rolls all rows back.
func (s *BoltStore) InitiatePut(path string, size int64) (*types.PutPlan, error) {
	if size < 0 {
		return nil, errdefs.InvalidArgumentf("negative size %d", size)
	}

	var plan *types.PutPlan
	err := s.db.Update(func(tx *bolt.Tx) error {
		parent, name, err := s.resolveParentTx(tx, path)
		if err != nil {
			return err
		}

		children := tx.Bucket(bucketChildren)
		if children.Get(childKey(parent.ID, name)) != nil {
			return errdefs.AlreadyExistsf("%s", path)
		}

		if err := s.reapTx(tx); err != nil {
			return err
		}
		active, err := s.activeNodesTx(tx)
		if err != nil {
			return err
		}
		if len(active) < s.opts.ReplicationFactor {
			return fmt.Errorf("%d active of %d required: %w",
				len(active), s.opts.ReplicationFactor, errdefs.ErrInsufficientReplicas)
		}

		id, err := tx.Bucket(bucketObjects).NextSequence()
		if err != nil {
			return err
		}
		file := &types.FsObject{
			ID:       int64(id),
			ParentID: parent.ID,
			Name:     name,
			Size:     size,
			Modified: s.now().UTC(),
		}
		if err := s.putObject(tx, file); err != nil {
			return err
		}
		if err := children.Put(childKey(parent.ID, name), itob(file.ID)); err != nil {
			return err
		}

		numBlocks := int((size + s.opts.BlockSize - 1) / s.opts.BlockSize)
		assignments := make([]types.BlockAssignment, 0, numBlocks)
		blocks := tx.Bucket(bucketBlocks)
		locations := tx.Bucket(bucketLocations)

		for i := 0; i < numBlocks; i++ {
			blk := types.Block{
				BlockID:  fmt.Sprintf("%d_%d", file.ID, i),
				FileID:   file.ID,
				Sequence: i,
				Size:     min(s.opts.BlockSize, size-int64(i)*s.opts.BlockSize),
			}

			chosen, err := s.picker.Pick(active, s.opts.ReplicationFactor)
			if err != nil {
				return err
			}

			blkData, err := json.Marshal(&blk)
			if err != nil {
				return err
			}
			if err := blocks.Put(blockKey(file.ID, i), blkData); err != nil {
				return err
			}

			locs := make([]types.BlockLocation, len(chosen))
			for j, node := range chosen {
				locs[j] = types.BlockLocation{
					BlockID:   blk.BlockID,
					NodeID:    node.ID,
					IsPrimary: j == 0,
				}
			}
			locData, err := json.Marshal(locs)
			if err != nil {
				return err
			}
			if err := locations.Put([]byte(blk.BlockID), locData); err != nil {
				return err
			}

			assignment := types.BlockAssignment{
				BlockID:        blk.BlockID,
				PrimaryAddress: chosen[0].DataAddress,
			}
			if len(chosen) > 1 {
				assignment.SecondaryAddress = chosen[1].DataAddress
			}
			assignments = append(assignments, assignment)
		}

		plan = &types.PutPlan{
			FileID:      file.ID,
			Assignments: assignments,
			BlockSize:   s.opts.BlockSize,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("path", path).
		Int64("file_id", plan.FileID).
		Int("blocks", len(plan.Assignments)).
		Msg("Put initiated")
	return plan, nil
}

// FileInfo resolves a file for reading: every block in sequence order with
// the data addresses of its active replicas, primary first. Fails with
// Unavailable unless every expected block has at least one active replica.
func (s *BoltStore) FileInfo(path string) (*types.FileReadInfo, error) {
	parts, err := SplitPath(path)
	if err != nil {
		return nil, err
	}

	var info *types.FileReadInfo
	err = s.db.Update(func(tx *bolt.Tx) error {
		file, err := s.resolveTx(tx, parts)
		if err != nil {
			return err
		}
		if file.IsDirectory {
			return fmt.Errorf("%s: %w", path, errdefs.ErrIsADirectory)
		}

		if err := s.reapTx(tx); err != nil {
			return err
		}

		var blockInfos []types.BlockReadInfo
		c := tx.Bucket(bucketBlocks).Cursor()
		prefix := itob(file.ID)
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var blk types.Block
			if err := json.Unmarshal(v, &blk); err != nil {
				return err
			}

			var locs []types.BlockLocation
			if data := tx.Bucket(bucketLocations).Get([]byte(blk.BlockID)); data != nil {
				if err := json.Unmarshal(data, &locs); err != nil {
					return err
				}
			}

			var addrs []string
			for _, loc := range locs {
				node, err := s.getNodeTx(tx, loc.NodeID)
				if err != nil || !node.IsActive {
					continue
				}
				if loc.IsPrimary {
					addrs = append([]string{node.DataAddress}, addrs...)
				} else {
					addrs = append(addrs, node.DataAddress)
				}
			}
			if len(addrs) == 0 {
				continue
			}
			blockInfos = append(blockInfos, types.BlockReadInfo{
				BlockID:   blk.BlockID,
				Sequence:  blk.Sequence,
				Size:      blk.Size,
				Addresses: addrs,
			})
		}

		expected := int((file.Size + s.opts.BlockSize - 1) / s.opts.BlockSize)
		if len(blockInfos) < expected {
			return fmt.Errorf("%d of %d blocks reachable: %w",
				len(blockInfos), expected, errdefs.ErrUnavailable)
		}

		info = &types.FileReadInfo{
			FileName:  file.Name,
			TotalSize: file.Size,
			BlockSize: s.opts.BlockSize,
			Blocks:    blockInfos,
		}
		return nil
	})
	return info, err
}

// --- Node registry ---

func (s *BoltStore) getNodeTx(tx *bolt.Tx, id int64) (*types.StorageNodeInfo, error) {
	data := tx.Bucket(bucketNodes).Get(itob(id))
	if data == nil {
		return nil, errdefs.NotFoundf("node %d", id)
	}
	var node types.StorageNodeInfo
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

func (s *BoltStore) putNodeTx(tx *bolt.Tx, node *types.StorageNodeInfo) error {
	data, err := json.Marshal(node)
	if err != nil {
		return err
	}
	return tx.Bucket(bucketNodes).Put(itob(node.ID), data)
}

// RegisterNode upserts a storage node: new nodes get a registry id, known
// nodes have their addresses refreshed and are reactivated.
func (s *BoltStore) RegisterNode(nodeID, dataAddr, adminAddr string) (*types.StorageNodeInfo, error) {
	if nodeID == "" || dataAddr == "" || adminAddr == "" {
		return nil, errdefs.InvalidArgumentf("node id and addresses are required")
	}

	var node *types.StorageNodeInfo
	err := s.db.Update(func(tx *bolt.Tx) error {
		index := tx.Bucket(bucketNodeIndex)
		if idBytes := index.Get([]byte(nodeID)); idBytes != nil {
			existing, err := s.getNodeTx(tx, btoi(idBytes))
			if err != nil {
				return err
			}
			existing.DataAddress = dataAddr
			existing.AdminAddress = adminAddr
			existing.LastHeartbeat = s.now().UTC()
			existing.IsActive = true
			node = existing
			return s.putNodeTx(tx, existing)
		}

		id, err := tx.Bucket(bucketNodes).NextSequence()
		if err != nil {
			return err
		}
		node = &types.StorageNodeInfo{
			ID:            int64(id),
			NodeID:        nodeID,
			DataAddress:   dataAddr,
			AdminAddress:  adminAddr,
			LastHeartbeat: s.now().UTC(),
			IsActive:      true,
		}
		if err := s.putNodeTx(tx, node); err != nil {
			return err
		}
		return index.Put([]byte(nodeID), itob(node.ID))
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("node_id", nodeID).
		Str("data_address", dataAddr).
		Int64("id", node.ID).
		Msg("Storage node registered")
	return node, nil
}

// Heartbeat refreshes a node's liveness timestamp and reactivates it.
func (s *BoltStore) Heartbeat(nodeID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		idBytes := tx.Bucket(bucketNodeIndex).Get([]byte(nodeID))
		if idBytes == nil {
			return errdefs.NotFoundf("node %s", nodeID)
		}
		node, err := s.getNodeTx(tx, btoi(idBytes))
		if err != nil {
			return err
		}
		node.LastHeartbeat = s.now().UTC()
		node.IsActive = true
		return s.putNodeTx(tx, node)
	})
}

// reapTx marks inactive every node whose last heartbeat fell out of the
// liveness window. Runs before every sample of the active set.
func (s *BoltStore) reapTx(tx *bolt.Tx) error {
	cutoff := s.now().UTC().Add(-s.opts.LivenessWindow)
	b := tx.Bucket(bucketNodes)
	return b.ForEach(func(k, v []byte) error {
		var node types.StorageNodeInfo
		if err := json.Unmarshal(v, &node); err != nil {
			return err
		}
		if node.IsActive && node.LastHeartbeat.Before(cutoff) {
			node.IsActive = false
			s.logger.Warn().
				Str("node_id", node.NodeID).
				Time("last_heartbeat", node.LastHeartbeat).
				Msg("Storage node marked inactive")
			data, err := json.Marshal(&node)
			if err != nil {
				return err
			}
			return b.Put(k, data)
		}
		return nil
	})
}

func (s *BoltStore) activeNodesTx(tx *bolt.Tx) ([]*types.StorageNodeInfo, error) {
	var active []*types.StorageNodeInfo
	err := tx.Bucket(bucketNodes).ForEach(func(k, v []byte) error {
		var node types.StorageNodeInfo
		if err := json.Unmarshal(v, &node); err != nil {
			return err
		}
		if node.IsActive {
			active = append(active, &node)
		}
		return nil
	})
	return active, err
}

// ActiveNodes reaps, then returns the nodes inside the liveness window.
func (s *BoltStore) ActiveNodes() ([]*types.StorageNodeInfo, error) {
	var active []*types.StorageNodeInfo
	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := s.reapTx(tx); err != nil {
			return err
		}
		var err error
		active, err = s.activeNodesTx(tx)
		return err
	})
	return active, err
}
