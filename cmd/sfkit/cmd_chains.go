package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/branched-services/go-superfluid/chains"
	"github.com/branched-services/go-superfluid/networks"
)

func (a *app) chainsCmd() *cobra.Command {
	var enrich bool

	cmd := &cobra.Command{
		Use:   "chains",
		Short: "List the chains in the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.chainRegistry(cmd, enrich)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tNAME\tFACTORY\tADDABLE")
			for _, e := range reg.Entries() {
				_, addable := e.AddChainParameter()
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%t\n", e.ChainID, e.DisplayName, e.FactoryAddress.Hex(), addable)
			}
			return tw.Flush()
		},
	}
	cmd.PersistentFlags().BoolVar(&enrich, "enrich", false, "fill missing network params from the networks list")

	cmd.AddCommand(&cobra.Command{
		Use:   "show <chain-id>",
		Short: "Print the wallet_addEthereumChain parameter of a chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := chains.ParseChainID(args[0])
			if err != nil {
				return err
			}
			reg, err := a.chainRegistry(cmd, enrich)
			if err != nil {
				return err
			}
			entry, ok := reg.Lookup(id)
			if !ok {
				return fmt.Errorf("chain %d is not in the registry", id)
			}
			param, ok := entry.AddChainParameter()
			if !ok {
				return fmt.Errorf("%s has no network parameters", entry)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(param)
		},
	})
	return cmd
}

// chainRegistry returns the registry, optionally enriched with the public
// RPCs of the networks list.
func (a *app) chainRegistry(cmd *cobra.Command, enrich bool) (*chains.Registry, error) {
	reg, err := a.registry()
	if err != nil || !enrich {
		return reg, err
	}
	nets, err := a.networksClient().Fetch(cmd.Context())
	if err != nil {
		return nil, err
	}
	return reg.Enrich(nets), nil
}

func (a *app) networksClient() *networks.Client {
	return networks.NewClient(
		networks.WithURL(a.cfg.NetworksURL),
		networks.WithLogger(a.logger),
	)
}
