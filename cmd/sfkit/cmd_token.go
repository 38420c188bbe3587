package main

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/branched-services/go-superfluid"
	"github.com/branched-services/go-superfluid/dispatch"
)

func (a *app) tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Wrap, unwrap, approve, inspect and deploy Super Tokens",
	}
	cmd.AddCommand(
		a.tokenAmountCmd("upgrade", "Wrap underlying tokens into a Super Token", (*dispatch.Dispatcher).Upgrade),
		a.tokenAmountCmd("downgrade", "Unwrap Super Tokens into the underlying", (*dispatch.Dispatcher).Downgrade),
		a.approveCmd(),
		a.tokenInfoCmd(),
		a.wrapCmd(),
		a.deployCmd(),
		a.initCmd(),
	)
	return cmd
}

type amountFunc func(*dispatch.Dispatcher, context.Context, common.Address, any) (*dispatch.Result, error)

func (a *app) tokenAmountCmd(use, short string, send amountFunc) *cobra.Command {
	var tokenAddr, amount string
	var decimals int

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := parseAddress("token", tokenAddr)
			if err != nil {
				return err
			}
			wei, err := superfluid.ParseUnits(amount, decimals)
			if err != nil {
				return fmt.Errorf("--amount: %w", err)
			}
			return a.withDispatcher(cmd, func(ctx context.Context, d *dispatch.Dispatcher) (*dispatch.Result, error) {
				return send(d, ctx, token, wei)
			})
		},
	}
	cmd.Flags().StringVar(&tokenAddr, "token", "", "super token address")
	cmd.Flags().StringVar(&amount, "amount", "", "amount in token units, e.g. 1.5")
	cmd.Flags().IntVar(&decimals, "decimals", 18, "decimals used to parse --amount")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func (a *app) approveCmd() *cobra.Command {
	var tokenAddr, spender, amount string
	var decimals int

	cmd := &cobra.Command{
		Use:   "approve",
		Short: "Approve a spender, usually the Super Token before an upgrade",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := parseAddress("token", tokenAddr)
			if err != nil {
				return err
			}
			to, err := parseAddress("spender", spender)
			if err != nil {
				return err
			}
			wei, err := superfluid.ParseUnits(amount, decimals)
			if err != nil {
				return fmt.Errorf("--amount: %w", err)
			}
			return a.withDispatcher(cmd, func(ctx context.Context, d *dispatch.Dispatcher) (*dispatch.Result, error) {
				return d.Approve(ctx, token, to, wei)
			})
		},
	}
	cmd.Flags().StringVar(&tokenAddr, "token", "", "ERC-20 address")
	cmd.Flags().StringVar(&spender, "spender", "", "spender address")
	cmd.Flags().StringVar(&amount, "amount", "", "amount in token units")
	cmd.Flags().IntVar(&decimals, "decimals", 18, "decimals used to parse --amount")
	for _, f := range []string{"token", "spender", "amount"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func (a *app) tokenInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <token>",
		Short: "Read an ERC-20 and suggest its wrapper name and symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := parseAddress("token", args[0])
			if err != nil {
				return err
			}
			d, closeFn, err := a.dispatcher(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			info, err := d.TokenInfo(cmd.Context(), token)
			if err != nil {
				return report(cmd.OutOrStdout(), cmd.ErrOrStderr(), nil, err)
			}
			printTokenInfo(cmd, info)
			return nil
		},
	}
}

func printTokenInfo(cmd *cobra.Command, info *dispatch.TokenInfo) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "name:           %s\n", info.Name)
	_, _ = fmt.Fprintf(out, "symbol:         %s\n", info.Symbol)
	_, _ = fmt.Fprintf(out, "decimals:       %d\n", info.Decimals)
	_, _ = fmt.Fprintf(out, "wrapper name:   %s\n", info.WrapperName)
	_, _ = fmt.Fprintf(out, "wrapper symbol: %s\n", info.WrapperSymbol)
}

func (a *app) wrapCmd() *cobra.Command {
	var underlyingAddr, name, symbol string
	var upgradability uint8

	cmd := &cobra.Command{
		Use:   "wrap",
		Short: "Create a Super Token wrapper for an ERC-20 through the factory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			underlying, err := parseAddress("underlying", underlyingAddr)
			if err != nil {
				return err
			}
			return a.withDispatcher(cmd, func(ctx context.Context, d *dispatch.Dispatcher) (*dispatch.Result, error) {
				if name == "" || symbol == "" {
					info, err := d.TokenInfo(ctx, underlying)
					if err != nil {
						return nil, err
					}
					if name == "" {
						name = info.WrapperName
					}
					if symbol == "" {
						symbol = info.WrapperSymbol
					}
				}
				return d.CreateWrapper(ctx, underlying, upgradability, name, symbol)
			})
		},
	}
	cmd.Flags().StringVar(&underlyingAddr, "underlying", "", "ERC-20 to wrap")
	cmd.Flags().StringVar(&name, "name", "", `wrapper name (default "Super <name>")`)
	cmd.Flags().StringVar(&symbol, "symbol", "", `wrapper symbol (default "<symbol>x")`)
	cmd.Flags().Uint8Var(&upgradability, "upgradability", dispatch.DefaultUpgradability, "0 non-upgradable, 1 semi, 2 full")
	_ = cmd.MarkFlagRequired("underlying")
	return cmd
}

func (a *app) deployCmd() *cobra.Command {
	var artifactPath string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy a pure Super Token from a compiled artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			artifact, err := dispatch.LoadArtifact(artifactPath)
			if err != nil {
				return err
			}
			return a.withDispatcher(cmd, func(ctx context.Context, d *dispatch.Dispatcher) (*dispatch.Result, error) {
				return d.DeployPureSuperToken(ctx, artifact)
			})
		},
	}
	cmd.Flags().StringVar(&artifactPath, "artifact", "", "Hardhat or Foundry artifact JSON")
	_ = cmd.MarkFlagRequired("artifact")
	return cmd
}

func (a *app) initCmd() *cobra.Command {
	var token, name, symbol, receiver, supply string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a deployed pure Super Token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDispatcher(cmd, func(ctx context.Context, d *dispatch.Dispatcher) (*dispatch.Result, error) {
				to := receiver
				if to == "" {
					to = d.Session().Account().Hex()
				}
				return d.InitializePureSuperToken(ctx, token, name, symbol, to, supply)
			})
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "deployed token address")
	cmd.Flags().StringVar(&name, "name", "", "token name")
	cmd.Flags().StringVar(&symbol, "symbol", "", "token symbol")
	cmd.Flags().StringVar(&receiver, "receiver", "", "initial supply receiver (default: the wallet account)")
	cmd.Flags().StringVar(&supply, "supply", "", "initial supply in token units")
	for _, f := range []string{"name", "symbol", "supply"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}
