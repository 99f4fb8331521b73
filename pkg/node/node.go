package node

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	pb "github.com/driftfs/driftfs/api/proto"
	"github.com/driftfs/driftfs/pkg/blockstore"
	"github.com/driftfs/driftfs/pkg/config"
	"github.com/driftfs/driftfs/pkg/log"
)

// Node is one storage node: the gRPC data plane, the HTTP admin surface,
// and the register/heartbeat loop against the coordinator.
type Node struct {
	cfg    config.Config
	store  *blockstore.Store
	logger zerolog.Logger

	grpcServer *grpc.Server
	adminSrv   *http.Server
	stopCh     chan struct{}
}

// New builds a node from its configuration, creating the block directory
// if needed.
func New(cfg config.Config) (*Node, error) {
	if cfg.NodeID == "" {
		return nil, fmt.Errorf("node id is required")
	}
	store, err := blockstore.New(cfg.BlockDir)
	if err != nil {
		return nil, err
	}
	return &Node{
		cfg:    cfg,
		store:  store,
		logger: log.WithNodeID(cfg.NodeID),
		stopCh: make(chan struct{}),
	}, nil
}

// DataAddress is the address advertised to the coordinator for the data
// plane; it defaults to the listen address.
func (n *Node) DataAddress() string {
	if n.cfg.DataAddress != "" {
		return n.cfg.DataAddress
	}
	return n.cfg.DataListen
}

// AdminAddress is the advertised admin address.
func (n *Node) AdminAddress() string {
	if n.cfg.AdminAddress != "" {
		return n.cfg.AdminAddress
	}
	return n.cfg.AdminListen
}

// Start registers with the coordinator, then serves the data plane, the
// admin surface, and the heartbeat loop. It blocks until the gRPC server
// stops.
func (n *Node) Start() error {
	if err := n.registerWithRetry(); err != nil {
		return err
	}

	lis, err := net.Listen("tcp", n.cfg.DataListen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", n.cfg.DataListen, err)
	}

	n.grpcServer = grpc.NewServer()
	pb.RegisterStorageNodeServer(n.grpcServer, newService(n.cfg.NodeID, n.store))

	n.adminSrv = &http.Server{
		Addr:         n.cfg.AdminListen,
		Handler:      n.adminHandler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	go func() {
		if err := n.adminSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			n.logger.Error().Err(err).Msg("Admin server failed")
		}
	}()

	go n.heartbeatLoop()

	n.logger.Info().
		Str("data_listen", n.cfg.DataListen).
		Str("admin_listen", n.cfg.AdminListen).
		Msg("Storage node serving")
	return n.grpcServer.Serve(lis)
}

// Stop gracefully stops the node.
func (n *Node) Stop() {
	close(n.stopCh)
	if n.adminSrv != nil {
		n.adminSrv.Close()
	}
	if n.grpcServer != nil {
		n.grpcServer.GracefulStop()
	}
}
