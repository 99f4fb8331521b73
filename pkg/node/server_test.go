package node

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pb "github.com/driftfs/driftfs/api/proto"
	"github.com/driftfs/driftfs/pkg/blockstore"
	"github.com/driftfs/driftfs/pkg/log"
)

func TestMain(m *testing.M) {
	log.Init(log.Config{Level: log.ErrorLevel})
	os.Exit(m.Run())
}

func newTestService(t *testing.T) *service {
	t.Helper()
	store, err := blockstore.New(filepath.Join(t.TempDir(), "blocks"))
	require.NoError(t, err)
	return newService("test-node", store)
}

// fakeWriteStream feeds a canned request sequence into WriteBlock.
type fakeWriteStream struct {
	grpc.ServerStream
	reqs []*pb.WriteBlockRequest
	idx  int
	resp *pb.WriteBlockResponse
}

func (f *fakeWriteStream) Recv() (*pb.WriteBlockRequest, error) {
	if f.idx >= len(f.reqs) {
		return nil, io.EOF
	}
	req := f.reqs[f.idx]
	f.idx++
	return req, nil
}

func (f *fakeWriteStream) SendAndClose(resp *pb.WriteBlockResponse) error {
	f.resp = resp
	return nil
}

// fakeReadStream collects ReadBlock's outgoing chunks.
type fakeReadStream struct {
	grpc.ServerStream
	chunks [][]byte
}

func (f *fakeReadStream) Send(resp *pb.ReadBlockResponse) error {
	f.chunks = append(f.chunks, append([]byte(nil), resp.GetChunkData()...))
	return nil
}

func writeBlock(t *testing.T, s *service, blockID string, chunks ...[]byte) *pb.WriteBlockResponse {
	t.Helper()
	reqs := []*pb.WriteBlockRequest{
		{BlockInfo: &pb.BlockInfo{BlockId: blockID, FileId: "1"}},
	}
	for _, c := range chunks {
		reqs = append(reqs, &pb.WriteBlockRequest{ChunkData: c})
	}
	stream := &fakeWriteStream{reqs: reqs}
	require.NoError(t, s.WriteBlock(stream))
	require.NotNil(t, stream.resp)
	return stream.resp
}

func TestWriteBlockThenReadBlock(t *testing.T) {
	s := newTestService(t)

	resp := writeBlock(t, s, "1_0", []byte("hello "), []byte("world"))
	assert.True(t, resp.GetSuccess())
	assert.Equal(t, "1_0", resp.GetBlockId())

	read := &fakeReadStream{}
	require.NoError(t, s.ReadBlock(&pb.ReadBlockRequest{BlockId: "1_0"}, read))

	var got []byte
	for _, c := range read.chunks {
		got = append(got, c...)
	}
	assert.Equal(t, []byte("hello world"), got)
}

func TestWriteBlockOverwritesAbortedAttempt(t *testing.T) {
	s := newTestService(t)

	writeBlock(t, s, "1_0", []byte("old partial data"))
	writeBlock(t, s, "1_0", []byte("new"))

	read := &fakeReadStream{}
	require.NoError(t, s.ReadBlock(&pb.ReadBlockRequest{BlockId: "1_0"}, read))
	require.Len(t, read.chunks, 1)
	assert.Equal(t, []byte("new"), read.chunks[0])
}

func TestWriteBlockRequiresBlockInfo(t *testing.T) {
	s := newTestService(t)

	stream := &fakeWriteStream{reqs: []*pb.WriteBlockRequest{
		{ChunkData: []byte("orphan chunk")},
	}}
	err := s.WriteBlock(stream)
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestWriteBlockEmptyStream(t *testing.T) {
	s := newTestService(t)

	resp := writeBlock(t, s, "2_0")
	assert.True(t, resp.GetSuccess())

	read := &fakeReadStream{}
	require.NoError(t, s.ReadBlock(&pb.ReadBlockRequest{BlockId: "2_0"}, read))
	assert.Empty(t, read.chunks)
}

func TestReadBlockNotFound(t *testing.T) {
	s := newTestService(t)

	err := s.ReadBlock(&pb.ReadBlockRequest{BlockId: "missing"}, &fakeReadStream{})
	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestReplicateBlock(t *testing.T) {
	s := newTestService(t)

	resp, err := s.ReplicateBlock(context.Background(), &pb.ReplicateBlockRequest{
		BlockId: "3_0",
		Data:    []byte("replicated payload"),
	})
	require.NoError(t, err)
	assert.True(t, resp.GetSuccess())

	read := &fakeReadStream{}
	require.NoError(t, s.ReadBlock(&pb.ReadBlockRequest{BlockId: "3_0"}, read))
	require.Len(t, read.chunks, 1)
	assert.Equal(t, []byte("replicated payload"), read.chunks[0])
}

func TestDeleteBlock(t *testing.T) {
	s := newTestService(t)
	writeBlock(t, s, "4_0", []byte("x"))

	resp, err := s.DeleteBlock(context.Background(), &pb.DeleteBlockRequest{BlockId: "4_0"})
	require.NoError(t, err)
	assert.True(t, resp.GetSuccess())

	// Absence counts as deleted.
	resp, err = s.DeleteBlock(context.Background(), &pb.DeleteBlockRequest{BlockId: "4_0"})
	require.NoError(t, err)
	assert.True(t, resp.GetSuccess())

	err = s.ReadBlock(&pb.ReadBlockRequest{BlockId: "4_0"}, &fakeReadStream{})
	assert.Equal(t, codes.NotFound, status.Code(err))
}
