package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/branched-services/go-superfluid/subgraph"
)

func (a *app) balanceCmd() *cobra.Command {
	var (
		tokenAddr string
		watch     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "balance [account]",
		Short: "Show the real-time Super Token balance next to the on-chain balance",
		Long: `balance computes the streamed balance from the latest subgraph snapshot
and the latest block timestamp, and reads balanceOf for comparison. Without
an account the configured signing key's address is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := a.balanceAccount(args)
			if err != nil {
				return err
			}
			if tokenAddr == "" {
				tokenAddr = a.cfg.Subgraph.Token
			}
			token, err := parseAddress("token", tokenAddr)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			chain, err := ethclient.DialContext(ctx, a.cfg.Subgraph.RPCURL)
			if err != nil {
				return fmt.Errorf("dialing %s: %w", a.cfg.Subgraph.RPCURL, err)
			}
			defer chain.Close()

			client := subgraph.New(a.cfg.Subgraph.Endpoint, subgraph.WithLogger(a.logger))
			defer client.Close()
			tracker := subgraph.NewTracker(client, chain, a.logger)

			if watch <= 0 {
				cmp, err := tracker.Compare(ctx, account, token)
				if err != nil {
					return err
				}
				printComparison(cmd.OutOrStdout(), cmp)
				return nil
			}
			return watchBalance(ctx, cmd.OutOrStdout(), tracker, account, token, watch, a.logger)
		},
	}
	cmd.Flags().StringVar(&tokenAddr, "token", "", "super token (default from config)")
	cmd.Flags().DurationVar(&watch, "watch", 0, "refresh the real-time balance at this interval")
	return cmd
}

func (a *app) balanceAccount(args []string) (common.Address, error) {
	if len(args) == 1 {
		return parseAddress("account", args[0])
	}
	key, err := a.signingKey()
	if err != nil {
		return common.Address{}, fmt.Errorf("no account given: %w", err)
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}

func printComparison(w io.Writer, cmp *subgraph.Comparison) {
	snap := cmp.RealTime.Snapshot
	_, _ = fmt.Fprintf(w, "token:      %s (%s)\n", snap.TokenSymbol, snap.Token.Hex())
	_, _ = fmt.Fprintf(w, "real-time:  %s\n", subgraph.FormatEther(cmp.RealTime.Wei))
	_, _ = fmt.Fprintf(w, "on-chain:   %s\n", subgraph.FormatEther(cmp.OnChain))
	_, _ = fmt.Fprintf(w, "drift:      %s\n", subgraph.FormatEther(cmp.Drift()))
	_, _ = fmt.Fprintf(w, "flow rate:  %s wei/s\n", snap.NetFlowRate)
	_, _ = fmt.Fprintf(w, "block time: %d\n", cmp.RealTime.Timestamp)
}

// watchBalance prints the real-time balance every interval until ctx ends.
// Fetch failures are logged and retried on the next tick.
func watchBalance(ctx context.Context, w io.Writer, tracker *subgraph.Tracker, account, token common.Address, interval time.Duration, logger *zap.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		b, err := tracker.RealTime(ctx, account, token)
		if err != nil {
			logger.Warn("balance refresh failed", zap.Error(err))
		} else {
			_, _ = fmt.Fprintf(w, "%d  %s %s\n", b.Timestamp, subgraph.FormatEther(b.Wei), b.Snapshot.TokenSymbol)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
