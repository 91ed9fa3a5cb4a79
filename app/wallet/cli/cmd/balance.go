package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var balanceAddress string

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print the balance of an account.",
	RunE:  balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().StringVar(&balanceAddress, "address", "", "Name of a saved account or address to look up instead of the account.")
}

func balanceRun(cmd *cobra.Command, args []string) error {
	ns, err := newNameService()
	if err != nil {
		return err
	}

	var address string
	switch balanceAddress {
	case "":
		act, err := loadAccount(ns)
		if err != nil {
			return err
		}
		address = act.Address()

	default:
		address, err = resolveAddress(ns, balanceAddress)
		if err != nil {
			return fmt.Errorf("address: %w", err)
		}
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	info, err := client.AccountInfo(cmd.Context(), address)
	if err != nil {
		return err
	}

	t := newTable(cmd.OutOrStdout(), "Name", "Address", "Amount", "Min Balance", "Status", "Round")
	t.AppendRow(table.Row{displayName(ns, info.Address), info.Address, info.Amount, info.MinBalance, info.Status, info.Round})
	t.Render()

	return nil
}
