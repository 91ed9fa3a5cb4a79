package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	fundTo      []string
	fundAmounts []uint
)

var fundCmd = &cobra.Command{
	Use:   "fund",
	Short: "Fund accounts from the sandbox funder",
	RunE:  fundRun,
}

func init() {
	rootCmd.AddCommand(fundCmd)
	fundCmd.Flags().StringSliceVarP(&fundTo, "to", "t", nil, "Names of saved accounts or addresses to fund.")
	fundCmd.Flags().UintSliceVarP(&fundAmounts, "amount", "v", nil, "Microalgos for each address.")
}

func fundRun(cmd *cobra.Command, args []string) error {
	ns, err := newNameService()
	if err != nil {
		return err
	}

	addresses := make([]string, len(fundTo))
	for i, to := range fundTo {
		addresses[i], err = resolveAddress(ns, to)
		if err != nil {
			return fmt.Errorf("to: %w", err)
		}
	}

	funder, err := sandboxFunder(cmd.Context())
	if err != nil {
		return err
	}

	ch, err := newChain()
	if err != nil {
		return err
	}

	amounts := make([]uint64, len(fundAmounts))
	for i, a := range fundAmounts {
		amounts[i] = uint64(a)
	}

	if err := ch.FundAccounts(cmd.Context(), funder, addresses, amounts); err != nil {
		return err
	}

	t := newTable(cmd.OutOrStdout(), "Name", "Address", "Amount")
	for i, address := range addresses {
		t.AppendRow(table.Row{displayName(ns, address), address, amounts[i]})
	}
	t.Render()

	return nil
}
