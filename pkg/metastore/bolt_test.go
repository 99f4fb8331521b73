package metastore

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftfs/driftfs/pkg/errdefs"
	"github.com/driftfs/driftfs/pkg/log"
)

const (
	testBlockSize = 1 << 20
	testWindow    = 30 * time.Second
)

func TestMain(m *testing.M) {
	log.Init(log.Config{Level: log.ErrorLevel})
	os.Exit(m.Run())
}

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(t.TempDir(), Options{
		BlockSize:         testBlockSize,
		ReplicationFactor: 2,
		LivenessWindow:    testWindow,
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func registerNodes(t *testing.T, s *BoltStore, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := s.RegisterNode(
			fmt.Sprintf("node-%d", i),
			fmt.Sprintf("127.0.0.1:%d", 50051+i),
			fmt.Sprintf("127.0.0.1:%d", 5001+i),
		)
		require.NoError(t, err)
	}
}

func TestMkdirAndList(t *testing.T) {
	s := newTestStore(t)

	dir, err := s.Mkdir("/data")
	require.NoError(t, err)
	assert.True(t, dir.IsDirectory)
	assert.Equal(t, "data", dir.Name)

	_, err = s.Mkdir("/data/sub")
	require.NoError(t, err)

	entries, err := s.List("/")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "data", entries[0].Name)
	assert.True(t, entries[0].IsDirectory)
	assert.Zero(t, entries[0].Size)

	entries, err = s.List("/data")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "sub", entries[0].Name)

	entries, err = s.List("/data/sub")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMkdirErrors(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Mkdir("/data")
	require.NoError(t, err)

	tests := []struct {
		name string
		path string
		want error
	}{
		{name: "duplicate", path: "/data", want: errdefs.ErrAlreadyExists},
		{name: "missing parent", path: "/nope/child", want: errdefs.ErrNotFound},
		{name: "relative", path: "data", want: errdefs.ErrInvalidArgument},
		{name: "trailing slash", path: "/data/x/", want: errdefs.ErrInvalidArgument},
		{name: "root", path: "/", want: errdefs.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Mkdir(tt.path)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMkdirUnderFile(t *testing.T) {
	s := newTestStore(t)
	registerNodes(t, s, 2)
	_, err := s.InitiatePut("/file", 10)
	require.NoError(t, err)

	_, err = s.Mkdir("/file/sub")
	assert.ErrorIs(t, err, errdefs.ErrNotADirectory)
}

func TestInitiatePutSingleBlock(t *testing.T) {
	s := newTestStore(t)
	registerNodes(t, s, 3)

	plan, err := s.InitiatePut("/x", 1500)
	require.NoError(t, err)
	assert.EqualValues(t, testBlockSize, plan.BlockSize)
	require.Len(t, plan.Assignments, 1)

	a := plan.Assignments[0]
	assert.Equal(t, fmt.Sprintf("%d_0", plan.FileID), a.BlockID)
	assert.NotEmpty(t, a.PrimaryAddress)
	assert.NotEmpty(t, a.SecondaryAddress)
	assert.NotEqual(t, a.PrimaryAddress, a.SecondaryAddress)

	entries, err := s.List("/")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "x", entries[0].Name)
	assert.False(t, entries[0].IsDirectory)
	assert.EqualValues(t, 1500, entries[0].Size)
}

func TestInitiatePutBlockBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		size      int64
		numBlocks int
		lastSize  int64
	}{
		{name: "empty file", size: 0, numBlocks: 0},
		{name: "one byte", size: 1, numBlocks: 1, lastSize: 1},
		{name: "exact boundary", size: 2 * testBlockSize, numBlocks: 2, lastSize: testBlockSize},
		{name: "one over boundary", size: testBlockSize + 1, numBlocks: 2, lastSize: 1},
		{name: "two blocks uneven", size: 1_500_000, numBlocks: 2, lastSize: 1_500_000 - testBlockSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			registerNodes(t, s, 3)

			plan, err := s.InitiatePut("/f", tt.size)
			require.NoError(t, err)
			require.Len(t, plan.Assignments, tt.numBlocks)

			info, err := s.FileInfo("/f")
			require.NoError(t, err)
			assert.Equal(t, tt.size, info.TotalSize)
			require.Len(t, info.Blocks, tt.numBlocks)
			for i, blk := range info.Blocks {
				assert.Equal(t, i, blk.Sequence)
				if i == tt.numBlocks-1 {
					assert.Equal(t, tt.lastSize, blk.Size)
				} else {
					assert.EqualValues(t, testBlockSize, blk.Size)
				}
			}
		})
	}
}

func TestInitiatePutWORM(t *testing.T) {
	s := newTestStore(t)
	registerNodes(t, s, 2)

	first, err := s.InitiatePut("/data", 100)
	require.NoError(t, err)

	_, err = s.InitiatePut("/data", 200)
	assert.ErrorIs(t, err, errdefs.ErrAlreadyExists)

	// The original record is untouched.
	info, err := s.FileInfo("/data")
	require.NoError(t, err)
	assert.EqualValues(t, 100, info.TotalSize)

	// rm then put again succeeds under a fresh file id.
	_, err = s.Remove("/data")
	require.NoError(t, err)
	second, err := s.InitiatePut("/data", 200)
	require.NoError(t, err)
	assert.NotEqual(t, first.FileID, second.FileID)
}

func TestInitiatePutInsufficientReplicas(t *testing.T) {
	s := newTestStore(t)
	registerNodes(t, s, 1)

	_, err := s.InitiatePut("/f", 100)
	assert.ErrorIs(t, err, errdefs.ErrInsufficientReplicas)

	// Nothing was created.
	entries, err := s.List("/")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestInitiatePutParentErrors(t *testing.T) {
	s := newTestStore(t)
	registerNodes(t, s, 2)

	_, err := s.InitiatePut("/missing/f", 10)
	assert.ErrorIs(t, err, errdefs.ErrNotFound)

	_, err = s.InitiatePut("/f", -1)
	assert.ErrorIs(t, err, errdefs.ErrInvalidArgument)

	_, err = s.InitiatePut("/d/", 10)
	assert.ErrorIs(t, err, errdefs.ErrInvalidArgument)
}

func TestFileInfo(t *testing.T) {
	s := newTestStore(t)
	registerNodes(t, s, 3)
	_, err := s.Mkdir("/data")
	require.NoError(t, err)
	plan, err := s.InitiatePut("/data/x", 2*testBlockSize+5)
	require.NoError(t, err)

	info, err := s.FileInfo("/data/x")
	require.NoError(t, err)
	assert.Equal(t, "x", info.FileName)
	assert.EqualValues(t, 2*testBlockSize+5, info.TotalSize)
	require.Len(t, info.Blocks, 3)
	for i, blk := range info.Blocks {
		assert.Equal(t, plan.Assignments[i].BlockID, blk.BlockID)
		assert.Len(t, blk.Addresses, 2)
		// The primary is tried first.
		assert.Equal(t, plan.Assignments[i].PrimaryAddress, blk.Addresses[0])
	}

	_, err = s.FileInfo("/data")
	assert.ErrorIs(t, err, errdefs.ErrIsADirectory)

	_, err = s.FileInfo("/data/none")
	assert.ErrorIs(t, err, errdefs.ErrNotFound)
}

func TestReaperLifecycle(t *testing.T) {
	s := newTestStore(t)
	registerNodes(t, s, 2)

	_, err := s.InitiatePut("/f", 10)
	require.NoError(t, err)

	// Silence both nodes past the liveness window.
	base := time.Now()
	s.now = func() time.Time { return base.Add(testWindow + time.Second) }

	active, err := s.ActiveNodes()
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = s.InitiatePut("/g", 10)
	assert.ErrorIs(t, err, errdefs.ErrInsufficientReplicas)

	_, err = s.FileInfo("/f")
	assert.ErrorIs(t, err, errdefs.ErrUnavailable)

	// Heartbeats reactivate; locations survived the outage.
	require.NoError(t, s.Heartbeat("node-0"))
	require.NoError(t, s.Heartbeat("node-1"))

	active, err = s.ActiveNodes()
	require.NoError(t, err)
	assert.Len(t, active, 2)

	info, err := s.FileInfo("/f")
	require.NoError(t, err)
	assert.Len(t, info.Blocks, 1)
}

func TestPartialReplicaSetStillReadable(t *testing.T) {
	s := newTestStore(t)
	registerNodes(t, s, 2)
	_, err := s.InitiatePut("/f", 10)
	require.NoError(t, err)

	// One node goes silent; at R=2 both nodes hold the single block, so
	// the file stays readable through the survivor.
	base := time.Now()
	s.now = func() time.Time { return base.Add(testWindow + time.Second) }
	require.NoError(t, s.Heartbeat("node-1"))

	info, err := s.FileInfo("/f")
	require.NoError(t, err)
	require.Len(t, info.Blocks, 1)
	assert.Len(t, info.Blocks[0].Addresses, 1)
}

func TestRemoveCascade(t *testing.T) {
	s := newTestStore(t)
	registerNodes(t, s, 2)

	plan, err := s.InitiatePut("/f", 2*testBlockSize)
	require.NoError(t, err)
	require.Len(t, plan.Assignments, 2)

	deletions, err := s.Remove("/f")
	require.NoError(t, err)
	require.Len(t, deletions, 2)
	for i, del := range deletions {
		assert.Equal(t, plan.Assignments[i].BlockID, del.BlockID)
		assert.Len(t, del.Addresses, 2)
	}

	_, err = s.FileInfo("/f")
	assert.ErrorIs(t, err, errdefs.ErrNotFound)

	entries, err := s.List("/")
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Inactive holders still appear in the fan-out list.
	plan, err = s.InitiatePut("/g", 10)
	require.NoError(t, err)
	base := time.Now()
	s.now = func() time.Time { return base.Add(testWindow + time.Second) }
	deletions, err = s.Remove("/g")
	require.NoError(t, err)
	require.Len(t, deletions, 1)
	assert.Len(t, deletions[0].Addresses, 2)
}

func TestRemoveDirectories(t *testing.T) {
	s := newTestStore(t)
	registerNodes(t, s, 2)
	_, err := s.Mkdir("/data")
	require.NoError(t, err)
	_, err = s.InitiatePut("/data/x", 10)
	require.NoError(t, err)

	err = s.RemoveDir("/data")
	assert.ErrorIs(t, err, errdefs.ErrNotEmpty)

	_, err = s.Remove("/data/x")
	require.NoError(t, err)
	require.NoError(t, s.RemoveDir("/data"))

	_, err = s.Resolve("/data")
	assert.ErrorIs(t, err, errdefs.ErrNotFound)
}

func TestRemoveErrors(t *testing.T) {
	s := newTestStore(t)
	registerNodes(t, s, 2)
	_, err := s.InitiatePut("/f", 10)
	require.NoError(t, err)

	_, err = s.Remove("/")
	assert.ErrorIs(t, err, errdefs.ErrInvalidArgument)

	_, err = s.Remove("/nope")
	assert.ErrorIs(t, err, errdefs.ErrNotFound)

	err = s.RemoveDir("/f")
	assert.ErrorIs(t, err, errdefs.ErrNotADirectory)

	err = s.RemoveDir("/")
	assert.ErrorIs(t, err, errdefs.ErrInvalidArgument)
}

func TestRegisterNodeUpsert(t *testing.T) {
	s := newTestStore(t)

	first, err := s.RegisterNode("n1", "127.0.0.1:50051", "127.0.0.1:5001")
	require.NoError(t, err)

	again, err := s.RegisterNode("n1", "127.0.0.1:60051", "127.0.0.1:6001")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "127.0.0.1:60051", again.DataAddress)

	_, err = s.RegisterNode("", "a", "b")
	assert.ErrorIs(t, err, errdefs.ErrInvalidArgument)

	err = s.Heartbeat("unknown")
	assert.ErrorIs(t, err, errdefs.ErrNotFound)
}

func TestRegisterReactivatesNode(t *testing.T) {
	s := newTestStore(t)
	registerNodes(t, s, 1)

	base := time.Now()
	s.now = func() time.Time { return base.Add(testWindow + time.Second) }

	active, err := s.ActiveNodes()
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = s.RegisterNode("node-0", "127.0.0.1:50051", "127.0.0.1:5001")
	require.NoError(t, err)

	active, err = s.ActiveNodes()
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
