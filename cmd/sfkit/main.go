// Command sfkit drives Superfluid operations from the terminal: chain
// registry, networks metadata, macro generation, flows, tokens, pools and
// real-time balances.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/branched-services/go-superfluid/chains"
)

// app holds state shared by all subcommands of one invocation.
type app struct {
	verbose    bool
	configPath string
	chain      uint64
	rpcURL     string

	cfg    *Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "sfkit",
		Short: "Superfluid toolkit: flows, tokens, pools, macros and balances",
		Long: `sfkit sends Superfluid operations through a keyed wallet and reads
protocol metadata.

Configuration is read from a YAML file (--config) and SFKIT_* environment
variables; flags take precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&a.configPath, "config", defaultConfigPath(), "config file")
	flags.Uint64Var(&a.chain, "chain", 0, "chain id to operate on (switches the wallet when needed)")
	flags.StringVar(&a.rpcURL, "rpc", "", "JSON-RPC endpoint")

	root.AddCommand(
		a.chainsCmd(),
		a.networksCmd(),
		a.macroCmd(),
		a.flowCmd(),
		a.tokenCmd(),
		a.poolCmd(),
		a.balanceCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	config := zap.NewProductionConfig()
	if a.verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	cfg, err := LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("chain") {
		cfg.Chain = a.chain
	}
	if cmd.Flags().Changed("rpc") {
		cfg.RPCURL = a.rpcURL
	}
	a.cfg = cfg
	return nil
}

// registry returns the built-in registry merged with the configured
// chains file.
func (a *app) registry() (*chains.Registry, error) {
	base := chains.Default()
	if a.cfg.ChainsFile == "" {
		return base, nil
	}
	overlay, err := chains.LoadFile(a.cfg.ChainsFile)
	if err != nil {
		return nil, err
	}
	return chains.Merge(base, overlay), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
