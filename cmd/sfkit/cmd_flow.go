package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/branched-services/go-superfluid/dispatch"
)

func (a *app) flowCmd() *cobra.Command {
	var token, receiver, sender, rate string

	cmd := &cobra.Command{
		Use:   "flow",
		Short: "Create, update, delete or read constant flows through the CFA forwarder",
	}
	cmd.PersistentFlags().StringVar(&token, "token", "", "super token address")
	cmd.PersistentFlags().StringVar(&receiver, "receiver", "", "flow receiver")
	_ = cmd.MarkPersistentFlagRequired("token")
	_ = cmd.MarkPersistentFlagRequired("receiver")

	rateCmd := func(use, short string, send func(*dispatch.Dispatcher) func(context.Context, any, any, any) (*dispatch.Result, error)) *cobra.Command {
		c := &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.withDispatcher(cmd, func(ctx context.Context, d *dispatch.Dispatcher) (*dispatch.Result, error) {
					return send(d)(ctx, token, receiver, rate)
				})
			},
		}
		c.Flags().StringVar(&rate, "rate", "", "flow rate in wei per second")
		_ = c.MarkFlagRequired("rate")
		return c
	}

	create := rateCmd("create", "Create a flow", func(d *dispatch.Dispatcher) func(context.Context, any, any, any) (*dispatch.Result, error) {
		return d.CreateFlow
	})
	update := rateCmd("update", "Update a flow", func(d *dispatch.Dispatcher) func(context.Context, any, any, any) (*dispatch.Result, error) {
		return d.UpdateFlow
	})

	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete a flow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDispatcher(cmd, func(ctx context.Context, d *dispatch.Dispatcher) (*dispatch.Result, error) {
				return d.DeleteFlow(ctx, token, receiver)
			})
		},
	}

	read := &cobra.Command{
		Use:   "read",
		Short: "Read the flow rate between sender and receiver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDispatcher(cmd, func(ctx context.Context, d *dispatch.Dispatcher) (*dispatch.Result, error) {
				from := any(sender)
				if sender == "" {
					from = d.Session().Account()
				}
				return d.ReadFlowRate(ctx, token, from, receiver)
			})
		},
	}
	read.Flags().StringVar(&sender, "sender", "", "flow sender (default: the wallet account)")

	cmd.AddCommand(create, update, del, read)
	return cmd
}
