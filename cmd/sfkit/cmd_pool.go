package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/branched-services/go-superfluid/dispatch"
)

func (a *app) poolCmd() *cobra.Command {
	var pool, member string

	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Connect to and claim from GDA pools",
	}
	cmd.PersistentFlags().StringVar(&pool, "pool", "", "pool address")
	_ = cmd.MarkPersistentFlagRequired("pool")

	connect := &cobra.Command{
		Use:   "connect",
		Short: "Connect the wallet account to a pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDispatcher(cmd, func(ctx context.Context, d *dispatch.Dispatcher) (*dispatch.Result, error) {
				return d.ConnectPool(ctx, pool)
			})
		},
	}

	claim := &cobra.Command{
		Use:   "claim",
		Short: "Claim all pending distributions of a member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDispatcher(cmd, func(ctx context.Context, d *dispatch.Dispatcher) (*dispatch.Result, error) {
				return d.ClaimAll(ctx, pool, member)
			})
		},
	}
	claim.Flags().StringVar(&member, "member", "", "pool member (default: the wallet account)")

	cmd.AddCommand(connect, claim)
	return cmd
}
