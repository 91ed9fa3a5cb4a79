package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Print the address of the account",
	RunE:  accountRun,
}

func init() {
	rootCmd.AddCommand(accountCmd)
}

func accountRun(cmd *cobra.Command, args []string) error {
	ns, err := newNameService()
	if err != nil {
		return err
	}

	act, err := loadAccount(ns)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), act.Address())
	return nil
}
