package node

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	pb "github.com/driftfs/driftfs/api/proto"
	"github.com/driftfs/driftfs/pkg/blockstore"
	"github.com/driftfs/driftfs/pkg/config"
	"github.com/driftfs/driftfs/pkg/errdefs"
	"github.com/driftfs/driftfs/pkg/log"
	"github.com/driftfs/driftfs/pkg/metrics"
)

const replicateTimeout = 10 * time.Second

// service implements the StorageNode data plane over a blockstore.
type service struct {
	pb.UnimplementedStorageNodeServer

	nodeID string
	store  *blockstore.Store
	logger zerolog.Logger
}

func newService(nodeID string, store *blockstore.Store) *service {
	return &service{
		nodeID: nodeID,
		store:  store,
		logger: log.WithComponent("dataplane"),
	}
}

// WriteBlock receives one block from a client: a block_info header message,
// then payload chunks in order. The full payload is retained in memory for
// the follower push once the stream closes. The client's write succeeds iff
// the local store succeeded; the follower outcome only annotates the
// response message.
func (s *service) WriteBlock(stream pb.StorageNode_WriteBlockServer) error {
	first, err := stream.Recv()
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "missing block info: %v", err)
	}
	info := first.GetBlockInfo()
	if info == nil || info.GetBlockId() == "" {
		return status.Error(codes.InvalidArgument, "first message must carry block_info")
	}
	blockID := info.GetBlockId()
	logger := s.logger.With().Str("block_id", blockID).Logger()

	var full []byte
	firstChunk := true
	for {
		req, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return status.Errorf(codes.Internal, "stream receive failed: %v", err)
		}
		chunk := req.GetChunkData()
		if err := s.store.WriteChunk(blockID, chunk, firstChunk); err != nil {
			logger.Error().Err(err).Msg("Chunk write failed")
			return stream.SendAndClose(&pb.WriteBlockResponse{
				BlockId: blockID,
				Success: false,
				Message: fmt.Sprintf("failed to write chunk: %v", err),
			})
		}
		full = append(full, chunk...)
		firstChunk = false
	}

	// An empty stream still materializes the block file.
	if firstChunk {
		if err := s.store.WriteChunk(blockID, nil, true); err != nil {
			return stream.SendAndClose(&pb.WriteBlockResponse{
				BlockId: blockID,
				Success: false,
				Message: fmt.Sprintf("failed to create block: %v", err),
			})
		}
	}

	metrics.BlocksWritten.Inc()
	metrics.BytesIn.Add(float64(len(full)))
	logger.Info().Int("size", len(full)).Msg("Block written")

	msg := "block written to primary"
	if addr := info.GetSecondaryDatanodeGrpcAddress(); addr != "" {
		if err := s.replicateTo(addr, blockID, full); err != nil {
			metrics.ReplicationFailures.Inc()
			logger.Error().Err(err).Str("follower", addr).Msg("Replication failed")
			msg = fmt.Sprintf("%s; replication to %s failed: %v", msg, addr, err)
		} else {
			msg = fmt.Sprintf("%s; replicated to %s", msg, addr)
		}
	}

	return stream.SendAndClose(&pb.WriteBlockResponse{
		BlockId: blockID,
		Success: true,
		Message: msg,
	})
}

// replicateTo pushes a whole block to the follower.
func (s *service) replicateTo(addr, blockID string, data []byte) error {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("failed to connect to follower: %w", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), replicateTimeout)
	defer cancel()

	resp, err := pb.NewStorageNodeClient(conn).ReplicateBlock(ctx, &pb.ReplicateBlockRequest{
		BlockId: blockID,
		Data:    data,
	})
	if err != nil {
		return err
	}
	if !resp.GetSuccess() {
		return fmt.Errorf("follower rejected block: %s", resp.GetMessage())
	}
	return nil
}

// ReadBlock streams a stored block back in chunks, in file order.
func (s *service) ReadBlock(req *pb.ReadBlockRequest, stream pb.StorageNode_ReadBlockServer) error {
	blockID := req.GetBlockId()
	err := s.store.ReadChunks(blockID, config.DefaultChunkSize, func(chunk []byte) error {
		metrics.BytesOut.Add(float64(len(chunk)))
		return stream.Send(&pb.ReadBlockResponse{ChunkData: chunk})
	})
	if errdefs.IsNotFound(err) {
		return status.Errorf(codes.NotFound, "block %s not found", blockID)
	}
	if err != nil {
		return status.Errorf(codes.Internal, "failed to read block %s: %v", blockID, err)
	}
	metrics.BlocksRead.Inc()
	return nil
}

// ReplicateBlock stores a whole block pushed by its primary.
func (s *service) ReplicateBlock(ctx context.Context, req *pb.ReplicateBlockRequest) (*pb.ReplicateBlockResponse, error) {
	blockID := req.GetBlockId()
	if err := s.store.StoreBlock(blockID, req.GetData()); err != nil {
		return &pb.ReplicateBlockResponse{
			BlockId: blockID,
			Success: false,
			Message: err.Error(),
		}, nil
	}
	metrics.BlocksReplicated.Inc()
	s.logger.Info().Str("block_id", blockID).Int("size", len(req.GetData())).Msg("Block replicated")
	return &pb.ReplicateBlockResponse{
		BlockId: blockID,
		Success: true,
		Message: "block stored",
	}, nil
}

// DeleteBlock removes a block; a missing block counts as deleted.
func (s *service) DeleteBlock(ctx context.Context, req *pb.DeleteBlockRequest) (*pb.DeleteBlockResponse, error) {
	blockID := req.GetBlockId()
	missing, err := s.store.Delete(blockID)
	if err != nil {
		return &pb.DeleteBlockResponse{
			BlockId: blockID,
			Success: false,
			Message: err.Error(),
		}, nil
	}

	msg := "block deleted"
	if missing {
		msg = "block not found, treated as deleted"
	} else {
		metrics.BlocksDeleted.Inc()
	}
	s.logger.Info().Str("block_id", blockID).Bool("missing", missing).Msg("Block delete handled")
	return &pb.DeleteBlockResponse{
		BlockId: blockID,
		Success: true,
		Message: msg,
	}, nil
}
