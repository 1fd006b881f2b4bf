package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spockhart/spockhart/internal/app/dto"
	"github.com/spockhart/spockhart/internal/infrastructure/metrics"
)

func newWalkCmd(a *app) *cobra.Command {
	var stats bool
	cmd := &cobra.Command{
		Use:   "walk [choice...]",
		Short: "Apply choices in order and print where the session ends",
		Long: `Walk applies each argument to the current step, matching a choice by its
label, the id of the node it leads to, or "restart"/"export".

  spockhart walk slow handoffs reveal export`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, board := a.newSession()
			for _, key := range args {
				if err := sc.Choose(cmd.Context(), key); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			printStep(out, sc.View())
			fmt.Fprintf(out, "board: %d shapes\n", board.Len())
			if stats {
				printStats(out)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&stats, "stats", false, "print session counters")
	return cmd
}

func printStep(w io.Writer, v dto.StepView) {
	fmt.Fprintf(w, "path: %s\n", strings.Join(v.Path, " > "))
	fmt.Fprintf(w, "\n%s\n", v.Prompt)
	if v.Note != "" {
		fmt.Fprintf(w, "%s\n", v.Note)
	}
	if v.AtReveal {
		fmt.Fprintf(w, "\n%s\n", v.Reflection)
	}
	fmt.Fprintln(w)
	for _, c := range v.Choices {
		target := c.Next
		if target == "" {
			target = string(c.Action)
		}
		fmt.Fprintf(w, "  %d. %s (%s)\n", c.Index+1, c.Label, target)
	}
	fmt.Fprintln(w)
}

func printStats(w io.Writer) {
	for _, s := range metrics.Read() {
		if s.Label != "" {
			fmt.Fprintf(w, "%s{%s} %d\n", s.Name, s.Label, s.Value)
			continue
		}
		fmt.Fprintf(w, "%s %d\n", s.Name, s.Value)
	}
}
