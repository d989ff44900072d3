package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vendabot/vendabot/internal/channels"
	"github.com/vendabot/vendabot/internal/config"
	"github.com/vendabot/vendabot/internal/dependency"
)

var gatewayWithCLI bool

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the vendabot gateway (agent, channels, follow-ups, metrics)",
	RunE:  runGateway,
}

func init() {
	gatewayCmd.Flags().BoolVar(&gatewayWithCLI, "cli", false, "Also attach the interactive CLI channel")
}

func runGateway(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	container, err := dependency.New(cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	fmt.Printf("%s Starting vendabot gateway (workspace %s)...\n", logo, cfg.Workspace)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	channelMgr := channels.NewManager(cfg, container.Bus(), gatewayWithCLI)
	if enabled := channelMgr.EnabledChannels(); len(enabled) > 0 {
		fmt.Printf("✓ Channels enabled: %s\n", strings.Join(enabled, ", "))
	} else {
		fmt.Println("Warning: no channels enabled")
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return container.Agent().Run(gctx) })
	g.Go(func() error { return container.Followups().Start(gctx) })
	g.Go(func() error { return channelMgr.StartAll(gctx) })
	if cfg.Metrics.Enabled {
		g.Go(func() error { return serveMetrics(gctx, container, cfg.Metrics.Addr) })
		fmt.Printf("✓ Metrics at %s/metrics\n", cfg.Metrics.Addr)
	}

	fmt.Printf("%s Gateway running. Press Ctrl+C to stop.\n", logo)

	if err := g.Wait(); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "gateway error: %v\n", err)
		return err
	}
	fmt.Println("\nShutdown complete.")
	return nil
}

func serveMetrics(ctx context.Context, container *dependency.Container, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", container.Metrics().Handler())

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return ctx.Err()
}
