package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"kinetic/internal/daemonctl"
	"kinetic/internal/daemonrun"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	daemonCmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run, start, or stop the kinetic daemon",
	}

	var logLevel string
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{LogLevel: logLevel})
		},
	}
	runCmd.Flags().StringVar(&logLevel, "log-level", "", "Override logging.level")

	var startLogLevel string
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Launch the daemon in the background",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("resolve executable: %w", err)
			}
			state, err := daemonctl.EnsureStarted(cmd.Context(), client, exe, daemonctl.LaunchOptions{
				ConfigPath: ctx.configPath,
				LogLevel:   startLogLevel,
			}, 10*time.Second)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch state {
			case daemonctl.StartStateAlreadyRunning:
				fmt.Fprintln(out, "Daemon already running")
			default:
				fmt.Fprintf(out, "Daemon started (%s)\n", client.BaseURL())
			}
			return nil
		},
	}
	startCmd.Flags().StringVar(&startLogLevel, "log-level", "", "Override logging.level")

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the running daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			pid, err := daemonctl.Stop(cmd.Context(), client, 10*time.Second)
			if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
				fmt.Fprintln(out, "Daemon is not running")
				return nil
			}
			if err != nil {
				return wrapAPIError(err)
			}
			fmt.Fprintf(out, "Daemon stopped (pid %d)\n", pid)
			return nil
		},
	}

	daemonCmd.AddCommand(runCmd, startCmd, stopCmd)
	return daemonCmd
}
