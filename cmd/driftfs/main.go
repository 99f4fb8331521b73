package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/driftfs/driftfs/pkg/client"
	"github.com/driftfs/driftfs/pkg/config"
	"github.com/driftfs/driftfs/pkg/coordinator"
	"github.com/driftfs/driftfs/pkg/log"
	"github.com/driftfs/driftfs/pkg/metastore"
	"github.com/driftfs/driftfs/pkg/node"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "driftfs",
	Short: "DriftFS - minimalist write-once distributed file system",
	Long: `DriftFS stores arbitrarily sized files as replicated blocks across a
fleet of storage nodes, behind a hierarchical namespace. One coordinator
holds the metadata; block bytes move directly between clients and nodes.`,
	Version: Version,
}

var (
	flagConfig      string
	flagCoordinator string
)

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"DriftFS version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagCoordinator, "coordinator", "", "Coordinator base URL (overrides config)")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(coordinatorCmd)
	rootCmd.AddCommand(nodeCmd)
	rootCmd.AddCommand(mkdirCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(rmdirCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(getCmd)
}

func initLogging() {
	level, _ := rootCmd.PersistentFlags().GetString("log-level")
	jsonOut, _ := rootCmd.PersistentFlags().GetBool("log-json")
	log.Init(log.Config{
		Level:      log.Level(level),
		JSONOutput: jsonOut,
	})
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagCoordinator != "" {
		cfg.CoordinatorURL = flagCoordinator
	}
	return cfg, nil
}

// --- Server commands ---

var coordinatorCmd = &cobra.Command{
	Use:   "coordinator",
	Short: "Run the metadata coordinator",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
			cfg.CoordinatorListen = listen
		}
		if dataDir, _ := cmd.Flags().GetString("data-dir"); dataDir != "" {
			cfg.DataDir = dataDir
		}

		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("failed to create data dir: %w", err)
		}
		store, err := metastore.NewBoltStore(cfg.DataDir, metastore.Options{
			BlockSize:         cfg.BlockSize,
			ReplicationFactor: cfg.ReplicationFactor,
			LivenessWindow:    cfg.LivenessWindow(),
		})
		if err != nil {
			return err
		}
		defer store.Close()

		srv := coordinator.New(cfg, store)
		go handleSignals(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Stop(ctx)
		})
		return srv.Start()
	},
}

var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Run a storage node",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if id, _ := cmd.Flags().GetString("id"); id != "" {
			cfg.NodeID = id
		}
		if listen, _ := cmd.Flags().GetString("data-listen"); listen != "" {
			cfg.DataListen = listen
		}
		if listen, _ := cmd.Flags().GetString("admin-listen"); listen != "" {
			cfg.AdminListen = listen
		}
		if addr, _ := cmd.Flags().GetString("data-address"); addr != "" {
			cfg.DataAddress = addr
		}
		if addr, _ := cmd.Flags().GetString("admin-address"); addr != "" {
			cfg.AdminAddress = addr
		}
		if dir, _ := cmd.Flags().GetString("block-dir"); dir != "" {
			cfg.BlockDir = dir
		}

		n, err := node.New(cfg)
		if err != nil {
			return err
		}
		go handleSignals(n.Stop)
		return n.Start()
	},
}

func handleSignals(stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info("Shutting down")
	stop()
}

func init() {
	coordinatorCmd.Flags().String("listen", "", "Control-plane listen address")
	coordinatorCmd.Flags().String("data-dir", "", "Metadata database directory")

	nodeCmd.Flags().String("id", "", "Node id (required)")
	nodeCmd.Flags().String("data-listen", "", "gRPC data-plane listen address")
	nodeCmd.Flags().String("admin-listen", "", "HTTP admin listen address")
	nodeCmd.Flags().String("data-address", "", "Advertised data address")
	nodeCmd.Flags().String("admin-address", "", "Advertised admin address")
	nodeCmd.Flags().String("block-dir", "", "Block storage directory")
}

// --- Client commands ---

func newClient() (*client.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return client.New(cfg.CoordinatorURL), nil
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <path>",
	Short: "Create a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.Mkdir(args[0]); err != nil {
			return err
		}
		fmt.Printf("created %s\n", args[0])
		return nil
	},
}

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/"
		if len(args) == 1 {
			path = args[0]
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		entries, err := c.Ls(path)
		if err != nil {
			return err
		}
		for _, e := range entries {
			kind := "-"
			if e.IsDirectory {
				kind = "d"
			}
			fmt.Printf("%s %10d  %s  %s\n", kind, e.Size, e.Modified.Format(time.RFC3339), e.Name)
		}
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Remove a file or empty directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.Rm(args[0]); err != nil {
			return err
		}
		fmt.Printf("removed %s\n", args[0])
		return nil
	},
}

var rmdirCmd = &cobra.Command{
	Use:   "rmdir <path>",
	Short: "Remove an empty directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.Rmdir(args[0]); err != nil {
			return err
		}
		fmt.Printf("removed %s\n", args[0])
		return nil
	},
}

var putCmd = &cobra.Command{
	Use:   "put <local-file> <dfs-path>",
	Short: "Upload a local file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.Put(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("uploaded %s to %s\n", args[0], args[1])
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <dfs-path> <local-file>",
	Short: "Download a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.Get(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("downloaded %s to %s\n", args[0], args[1])
		return nil
	},
}
