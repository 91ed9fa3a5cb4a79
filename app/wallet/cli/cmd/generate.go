package cmd

import (
	"fmt"
	"os"

	"github.com/ardanlabs/algoapps/foundation/account"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new account",
	RunE:  generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) error {
	path := accountFile()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("account %s already exists", path)
	}

	act := account.Generate()
	if err := account.Save(path, act); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), act.Address())
	return nil
}
