package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/spockhart/spockhart/internal/adapters/tui"
)

func newPlayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Walk the flow interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, _ := a.newSession()
			model := tui.New(cmd.Context(), sc, a.cfg.SnapshotName)

			p := tea.NewProgram(model,
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithAltScreen(),
			)
			a.logger.Info("session started", "session_id", sc.Session().ID)
			if _, err := p.Run(); err != nil {
				return err
			}
			s := sc.Session()
			a.logger.Info("session ended", "session_id", s.ID, "depth", s.Depth(), "node", s.CurrentID)
			return nil
		},
	}
}
