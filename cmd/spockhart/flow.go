package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spockhart/spockhart/internal/adapters/repository/flowdef"
)

func newFlowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flow",
		Short: "Inspect flow definitions",
	}
	cmd.AddCommand(newFlowValidateCmd(a), newFlowShowCmd(a))
	return cmd
}

func newFlowValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the flow and report whether it is well formed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// loading already validated it
			g := a.flow.Graph
			fmt.Fprintf(cmd.OutOrStdout(), "flow %q ok: %d nodes, entry %s, reveal %s, %d reflections\n",
				a.flow.Name, g.Len(), g.Entry(), g.Reveal(), len(a.flow.Reflections.Categories()))
			return nil
		},
	}
}

func newFlowShowCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the flow as YAML or a Mermaid chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "yaml":
				data, err := a.flow.Encode()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			case "mermaid":
				_, err := fmt.Fprint(cmd.OutOrStdout(), flowdef.Mermaid(a.flow.Graph))
				return err
			default:
				return fmt.Errorf("unknown format %q (want yaml or mermaid)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, mermaid)")
	return cmd
}
