package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/branched-services/go-superfluid/networks"
)

func (a *app) networksCmd() *cobra.Command {
	var (
		chainID  uint64
		testnets bool
	)

	cmd := &cobra.Command{
		Use:   "networks",
		Short: "Show the protocol contract addresses of each network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			nets, err := a.networksClient().Fetch(cmd.Context())
			if err != nil {
				return err
			}

			if chainID != 0 {
				n, ok := networks.ByChainID(nets, chainID)
				if !ok {
					return fmt.Errorf("no network with chain id %d", chainID)
				}
				nets = []networks.Network{n}
			}
			if testnets {
				filtered := nets[:0]
				for _, n := range nets {
					if n.IsTestnet {
						filtered = append(filtered, n)
					}
				}
				nets = filtered
			}
			return networks.Render(cmd.OutOrStdout(), nets)
		},
	}
	cmd.Flags().Uint64Var(&chainID, "id", 0, "only show the network with this chain id")
	cmd.Flags().BoolVar(&testnets, "testnets", false, "only show testnets")
	return cmd
}
