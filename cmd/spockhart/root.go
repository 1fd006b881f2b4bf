package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spockhart/spockhart/internal/adapters/repository/flowdef"
	"github.com/spockhart/spockhart/internal/adapters/whiteboard"
	"github.com/spockhart/spockhart/internal/app/usecases"
	"github.com/spockhart/spockhart/internal/infrastructure/config"
	"github.com/spockhart/spockhart/pkg/spockhart"
)

// app is the state shared by every subcommand once the root has run its
// pre-run hook.
type app struct {
	v       *viper.Viper
	cfgFile string

	cfg    *config.Config
	logger *slog.Logger
	closer io.Closer
	flow   *flowdef.Flow
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	config.SetDefaults(a.v)

	cmd := &cobra.Command{
		Use:   "spockhart",
		Short: "Spockhart - a short guided reflection on how work flows",
		Long: `Spockhart walks you through a few questions about where work gets stuck,
sketches your answers on a whiteboard, and ends with one reflection you can
save as an image.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closer != nil {
				return a.closer.Close()
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (yaml)")
	flags.String(config.KeyLogLevel, "info", "log level (debug, info, warn, error)")
	flags.String(config.KeyLogFormat, "text", "log format (text, json)")
	flags.String(config.KeyLogFile, "", "write logs to this file instead of stderr")
	flags.String(config.KeyFlow, "", "flow definition file (default is the built-in flow)")
	flags.String(config.KeyOutputDir, ".", "directory exported snapshots are saved to")
	flags.Int(config.KeySnapshotScale, 2, "pixel scale of exported snapshots (1-4)")
	for _, key := range []string{config.KeyLogLevel, config.KeyLogFormat, config.KeyLogFile, config.KeyFlow, config.KeyOutputDir, config.KeySnapshotScale} {
		_ = a.v.BindPFlag(key, flags.Lookup(key))
	}

	cmd.AddCommand(
		newPlayCmd(a),
		newWalkCmd(a),
		newFlowCmd(a),
		newVersionCmd(),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	logger, closer, err := cfg.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg, a.logger, a.closer = cfg, logger, closer

	if used := a.v.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", "file", used)
	}

	f, err := flowdef.Open(cfg.Flow)
	if err != nil {
		return err
	}
	a.flow = f
	logger.Debug("flow loaded", "name", f.Name, "nodes", f.Graph.Len())
	return nil
}

// newSession starts a session over the loaded flow with a whiteboard and
// the configured output directory.
func (a *app) newSession() (*usecases.SessionController, *whiteboard.Board) {
	rt := spockhart.NewRuntime(a.flow,
		spockhart.WithOutputDir(a.cfg.OutputDir),
		spockhart.WithSnapshotName(a.cfg.SnapshotName),
		spockhart.WithScale(a.cfg.SnapshotScale),
		spockhart.WithLogger(a.logger),
	)
	return rt.NewSession()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Spockhart %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
		},
	}
}
