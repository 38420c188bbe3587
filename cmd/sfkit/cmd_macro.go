package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/branched-services/go-superfluid/dispatch"
	"github.com/branched-services/go-superfluid/macrogen"
)

func (a *app) macroCmd() *cobra.Command {
	var ops []string

	cmd := &cobra.Command{
		Use:   "macro",
		Short: "Generate and run user-defined macros",
	}
	cmd.PersistentFlags().StringSliceVar(&ops, "ops", nil, "operations: "+strings.Join(operationNames(), ", "))

	selection := func() (macrogen.Selection, error) {
		sel, err := macrogen.ParseSelection(ops)
		if err != nil {
			return sel, err
		}
		for _, op := range sel.Operations() {
			if !op.Implemented() {
				a.logger.Warn("operation has no buildBatchCalls template; fill it in by hand",
					zap.String("operation", string(op)))
			}
		}
		return sel, nil
	}

	var output string
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Print the Solidity source of a macro for the selected operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sel, err := selection()
			if err != nil {
				return err
			}
			src := macrogen.Generate(sel)
			if output == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), src)
				return err
			}
			if err := os.WriteFile(output, []byte(src), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			a.logger.Info("macro written", zap.String("path", output), zap.Int("operations", sel.Len()))
			return nil
		},
	}
	generate.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	params := &cobra.Command{
		Use:   "params",
		Short: "List the getParams parameters of the selected operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sel, err := selection()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "address superTokenAddr")
			for _, p := range macrogen.ParamLayout(sel) {
				_, _ = fmt.Fprintf(out, "%s %s\n", p.Type, p.Name)
			}
			return nil
		},
	}

	var (
		macroAddr string
		tokenAddr string
		values    map[string]string
	)
	run := &cobra.Command{
		Use:   "run",
		Short: "Run a deployed macro through the macro forwarder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sel, err := selection()
			if err != nil {
				return err
			}
			macro, err := parseAddress("macro", macroAddr)
			if err != nil {
				return err
			}
			token, err := parseAddress("token", tokenAddr)
			if err != nil {
				return err
			}
			layout, err := macrogen.Params(sel)
			if err != nil {
				return err
			}
			args := make(map[string]any, len(values))
			for k, v := range values {
				args[k] = v
			}
			data, err := layout.Encode(token, args)
			if err != nil {
				return err
			}

			return a.withDispatcher(cmd, func(ctx context.Context, d *dispatch.Dispatcher) (*dispatch.Result, error) {
				return d.RunMacro(ctx, macro, data)
			})
		},
	}
	run.Flags().StringVar(&macroAddr, "macro", "", "deployed macro contract")
	run.Flags().StringVar(&tokenAddr, "token", "", "super token passed as superTokenAddr")
	run.Flags().StringToStringVar(&values, "param", nil, "parameter values, e.g. --param flowRate=385802469135")
	_ = run.MarkFlagRequired("macro")
	_ = run.MarkFlagRequired("token")

	cmd.AddCommand(generate, params, run)
	return cmd
}

func operationNames() []string {
	all := macrogen.All()
	names := make([]string, len(all))
	for i, op := range all {
		names[i] = string(op)
	}
	return names
}
