package cmd

import (
	"github.com/ardanlabs/algoapps/foundation/sandbox"
	"github.com/spf13/cobra"
)

var sandboxCmd = &cobra.Command{
	Use:   "sandbox",
	Short: "Control the local sandbox network",
}

var sandboxUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Start the sandbox network",
	RunE:  sandboxUpRun,
}

func init() {
	rootCmd.AddCommand(sandboxCmd)
	sandboxCmd.AddCommand(sandboxUpCmd)
}

func sandboxUpRun(cmd *cobra.Command, args []string) error {
	out, err := sandbox.New(sandboxDir).Up(cmd.Context())
	cmd.OutOrStdout().Write(out.Stdout)
	cmd.ErrOrStderr().Write(out.Stderr)

	return err
}
