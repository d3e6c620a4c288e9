package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vecbase/vecbase/internal/config"
	"github.com/vecbase/vecbase/internal/index"
	"github.com/vecbase/vecbase/internal/mcp"
	"github.com/vecbase/vecbase/internal/snapshot"
	"github.com/vecbase/vecbase/internal/store"
	"github.com/vecbase/vecbase/internal/version"
	"github.com/vecbase/vecbase/internal/web"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "vecbase",
	Short:   "An in-memory vector library store with a JSON HTTP API",
	Version: version.Full(),
	Long: `vecbase is an in-memory vector database: libraries of documents made
of embedded chunks, searchable by cosine distance via a brute-force or
LSH index, periodically snapshotted to disk.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vecbase %s\n", version.Version)
		fmt.Printf("  commit:  %s\n", version.Commit)
		fmt.Printf("  built:   %s\n", version.Date)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start vecbase's JSON HTTP API, a background snapshot writer, and
optionally an MCP server over stdio for integration with AI assistants.`,
	RunE: runServe,
}

func init() {
	rootCmd.SetVersionTemplate("vecbase version {{.Version}}\n")

	rootCmd.PersistentFlags().StringP("config", "c", ".", "directory to read config.yaml from")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	serveCmd.Flags().String("host", "", "override the configured server host")
	serveCmd.Flags().IntP("port", "p", 0, "override the configured server port")
	serveCmd.Flags().Bool("mcp", false, "also start an MCP server over stdio")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	configDir, _ := cmd.Flags().GetString("config")

	if err := config.WriteDefaultConfig(configDir); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}
	cfg, err := config.Load(configDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}
	mcpEnabled := cfg.Server.MCPEnabled
	if v, _ := cmd.Flags().GetBool("mcp"); v {
		mcpEnabled = true
	}

	lshParams := index.LSHParams{Tables: cfg.LSHTables, Planes: cfg.LSHPlanes, Seed: cfg.LSHSeed}
	st := store.NewStore(lshParams)

	if err := snapshot.Bootstrap(st, cfg.SnapshotPath, cfg.SampleEmbeddingsPath, cfg.DefaultAlgorithm); err != nil {
		return fmt.Errorf("failed to bootstrap store: %w", err)
	}

	interval := time.Duration(cfg.SnapshotIntervalSeconds) * time.Second
	snapshotter := snapshot.New(st, cfg.SnapshotPath, interval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	go snapshotter.Run()
	defer snapshotter.Stop()

	webServer := web.NewServer(web.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		Store:       st,
		Snapshotter: snapshotter,
	})

	errChan := make(chan error, 1)
	go func() {
		fmt.Printf("Listening on http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
		errChan <- webServer.ListenAndServe()
	}()

	if mcpEnabled {
		mcpServer := mcp.NewServer(mcp.Config{Store: st, Snapshotter: snapshotter})
		go func() {
			if err := mcpServer.Run(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "mcp server exited: %v\n", err)
			}
		}()
	}

	select {
	case err := <-errChan:
		if err != nil {
			flushErr := snapshotter.Write()
			if flushErr != nil {
				fmt.Fprintf(os.Stderr, "final snapshot flush failed: %v\n", flushErr)
			}
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		if err := snapshotter.Write(); err != nil {
			return fmt.Errorf("final snapshot flush failed: %w", err)
		}
		return nil
	}
}
