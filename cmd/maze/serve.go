package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/MilleBA/Pac-Man/internal/lobby"
	"github.com/MilleBA/Pac-Man/internal/platform/tui"
	"github.com/MilleBA/Pac-Man/internal/platform/web"
	"github.com/MilleBA/Pac-Man/internal/storage"
)

var (
	flagSSHAddr     string
	flagHTTPAddr    string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host games over SSH",
	Long: `Start an SSH server where every connection plays its own game.
Finished runs from all players go to the same journal.

With --http, a read-only spectator API is served as well:
  GET /api/sessions              - running games
  GET /api/sessions/:id/frame    - latest frame of a game (JSON)
  GET /api/sessions/:id/stream   - websocket pushing every new frame

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.arcade/host_key

Examples:
  maze serve                         # Listen on :23234 with auto-generated key
  maze serve --ssh :2222             # Listen on port 2222
  maze serve --http :8080            # Also serve the spectator API
  maze serve --difficulty hard       # Every game uses the hard preset

Users can connect with:
  ssh -t localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	addGameFlags(serveCmd)
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "Spectator API address (disabled if empty)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	logger, closeLog, err := newLogger("maze-serve", os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	mazeCfg, err := loadGameConfig(logger)
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	var saver lobby.RunSaver
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open run journal", "error", err)
		// Continue without storage
	} else {
		defer store.Close()
		saver = store
	}

	lb := lobby.New(lobby.Config{
		Maze: mazeCfg,
		Pack: mazeCfg.Levels.Pack,
		Seed: flagSeed,
	}, saver, logger)
	defer lb.Shutdown()

	sshCfg := tui.DefaultSSHServerConfig()
	sshCfg.Address = flagSSHAddr
	sshCfg.HostKeyPath = flagHostKey
	sshCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute

	sshServer, err := tui.NewSSHServer(sshCfg, lb, logger.WithPrefix("maze-ssh"))
	if err != nil {
		logger.Fatal("cannot create SSH server", "err", err)
	}

	// Setup signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sshServer.ListenAndServe(ctx) })
	if flagHTTPAddr != "" {
		webServer := web.NewServer(lb, logger.WithPrefix("maze-web"))
		g.Go(func() error { return webServer.ListenAndServe(ctx, flagHTTPAddr) })
	}

	fmt.Printf("Connect with: ssh -t localhost -p %s\n", portOf(flagSSHAddr))
	fmt.Println("Press Ctrl+C to stop")

	if err := g.Wait(); err != nil {
		logger.Error("server error", "err", err)
		lb.Shutdown()
		os.Exit(1)
	}
	logger.Info("stopped", "games", lb.Count())
}

func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
