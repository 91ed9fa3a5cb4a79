package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	to     string
	amount uint64
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a payment",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Name of a saved account or address to pay.")
	sendCmd.Flags().Uint64VarP(&amount, "amount", "v", 0, "Microalgos to send.")
}

func sendRun(cmd *cobra.Command, args []string) error {
	ns, err := newNameService()
	if err != nil {
		return err
	}

	address, err := resolveAddress(ns, to)
	if err != nil {
		return fmt.Errorf("to: %w", err)
	}

	act, err := loadAccount(ns)
	if err != nil {
		return err
	}

	ch, err := newChain()
	if err != nil {
		return err
	}

	pt, err := ch.Pay(cmd.Context(), act, address, amount)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "confirmed in round %d\n", pt.ConfirmedRound)
	return nil
}
