package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	pb "github.com/driftfs/driftfs/api/proto"
	"github.com/driftfs/driftfs/pkg/config"
	"github.com/driftfs/driftfs/pkg/types"
)

const (
	writeTimeout = 30 * time.Second
	readTimeout  = 20 * time.Second
)

// Put uploads a local file: one put-initiate, one WriteBlock stream per
// block to its primary, then put-complete. Any block failure aborts the
// whole put and no completion is sent; the file record created by
// put-initiate stays in the namespace.
func (c *Client) Put(localPath, dfsPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", localPath, err)
	}
	if fi.IsDir() {
		return fmt.Errorf("%s is a directory", localPath)
	}

	plan, err := c.initiatePut(dfsPath, fi.Size())
	if err != nil {
		return err
	}

	buf := make([]byte, plan.BlockSize)
	for _, assignment := range plan.Assignments {
		n, err := io.ReadFull(f, buf)
		if err != nil && err != io.ErrUnexpectedEOF {
			return fmt.Errorf("failed to read %s: %w", localPath, err)
		}
		if err := c.writeBlock(assignment, plan.FileID, buf[:n]); err != nil {
			return fmt.Errorf("failed to write block %s: %w", assignment.BlockID, err)
		}
	}

	return c.completePut(dfsPath, plan.FileID)
}

// writeBlock streams one block to its primary in bounded chunks.
func (c *Client) writeBlock(assignment types.BlockAssignment, fileID int64, data []byte) error {
	conn, err := grpc.NewClient(assignment.PrimaryAddress,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", assignment.PrimaryAddress, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	stream, err := pb.NewStorageNodeClient(conn).WriteBlock(ctx)
	if err != nil {
		return err
	}

	err = stream.Send(&pb.WriteBlockRequest{
		BlockInfo: &pb.BlockInfo{
			BlockId:                      assignment.BlockID,
			FileId:                       fmt.Sprintf("%d", fileID),
			SecondaryDatanodeGrpcAddress: assignment.SecondaryAddress,
		},
	})
	if err != nil {
		return err
	}

	for off := 0; off < len(data); off += config.DefaultChunkSize {
		end := min(off+config.DefaultChunkSize, len(data))
		if err := stream.Send(&pb.WriteBlockRequest{ChunkData: data[off:end]}); err != nil {
			return err
		}
	}
	// A zero-length block is sent as one empty chunk.
	if len(data) == 0 {
		if err := stream.Send(&pb.WriteBlockRequest{ChunkData: nil}); err != nil {
			return err
		}
	}

	resp, err := stream.CloseAndRecv()
	if err != nil {
		return err
	}
	if !resp.GetSuccess() {
		return fmt.Errorf("primary rejected block: %s", resp.GetMessage())
	}
	c.logger.Debug().
		Str("block_id", assignment.BlockID).
		Str("primary", assignment.PrimaryAddress).
		Str("result", resp.GetMessage()).
		Msg("Block written")
	return nil
}

// Get downloads a file to localPath. Each block is pulled from the first
// replica that answers; when every replica of a block fails the partial
// local file is removed.
func (c *Client) Get(dfsPath, localPath string) error {
	info, err := c.fileInfo(dfsPath)
	if err != nil {
		return err
	}

	blocks := append([]types.BlockReadInfo(nil), info.Blocks...)
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Sequence < blocks[j].Sequence })

	out, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", localPath, err)
	}

	for _, blk := range blocks {
		data, err := c.readBlock(blk)
		if err != nil {
			out.Close()
			os.Remove(localPath)
			return err
		}
		if _, err := out.Write(data); err != nil {
			out.Close()
			os.Remove(localPath)
			return fmt.Errorf("failed to write %s: %w", localPath, err)
		}
	}
	return out.Close()
}

// readBlock tries the block's replicas in order, returning the first
// complete payload.
func (c *Client) readBlock(blk types.BlockReadInfo) ([]byte, error) {
	var lastErr error
	for _, addr := range blk.Addresses {
		data, err := c.readBlockFrom(addr, blk.BlockID)
		if err == nil {
			return data, nil
		}
		lastErr = err
		c.logger.Warn().
			Err(err).
			Str("block_id", blk.BlockID).
			Str("addr", addr).
			Msg("Replica read failed, trying next")
	}
	return nil, fmt.Errorf("all replicas of block %s failed: %w", blk.BlockID, lastErr)
}

func (c *Client) readBlockFrom(addr, blockID string) ([]byte, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
	defer cancel()

	stream, err := pb.NewStorageNodeClient(conn).ReadBlock(ctx, &pb.ReadBlockRequest{BlockId: blockID})
	if err != nil {
		return nil, err
	}

	var data []byte
	for {
		resp, err := stream.Recv()
		if err == io.EOF {
			return data, nil
		}
		if err != nil {
			return nil, err
		}
		data = append(data, resp.GetChunkData()...)
	}
}
