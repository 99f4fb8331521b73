package coordinator

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	pb "github.com/driftfs/driftfs/api/proto"
	"github.com/driftfs/driftfs/pkg/log"
	"github.com/driftfs/driftfs/pkg/metastore"
)

const (
	deleteTimeout     = 5 * time.Second
	deleteConcurrency = 8
)

// deleter fans DeleteBlock out to every node that held a replica of a
// removed file, including inactive ones. Failures are logged, never
// surfaced: the metadata deletion already happened and is authoritative.
type deleter struct {
	logger zerolog.Logger
}

func newDeleter() *deleter {
	return &deleter{logger: log.WithComponent("deleter")}
}

func (d *deleter) deleteBlocks(deletions []metastore.BlockDeletion) {
	g := new(errgroup.Group)
	g.SetLimit(deleteConcurrency)

	for _, del := range deletions {
		for _, addr := range del.Addresses {
			blockID, addr := del.BlockID, addr
			g.Go(func() error {
				d.deleteOne(blockID, addr)
				return nil
			})
		}
	}
	g.Wait()
}

func (d *deleter) deleteOne(blockID, addr string) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		d.logger.Warn().Err(err).Str("block_id", blockID).Str("addr", addr).Msg("Delete fan-out connect failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
	defer cancel()

	resp, err := pb.NewStorageNodeClient(conn).DeleteBlock(ctx, &pb.DeleteBlockRequest{BlockId: blockID})
	if err != nil {
		d.logger.Warn().Err(err).Str("block_id", blockID).Str("addr", addr).Msg("Delete fan-out call failed")
		return
	}
	if !resp.GetSuccess() {
		d.logger.Warn().Str("block_id", blockID).Str("addr", addr).Str("reason", resp.GetMessage()).Msg("Node refused block delete")
		return
	}
	d.logger.Debug().Str("block_id", blockID).Str("addr", addr).Msg("Block deleted on node")
}
