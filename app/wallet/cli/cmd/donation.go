package cmd

import (
	"fmt"

	"github.com/ardanlabs/algoapps/business/contracts/donation"
	"github.com/ardanlabs/algoapps/business/core/chain"
	"github.com/spf13/cobra"
)

var (
	benefactor     string
	withdrawAmount uint64
)

var donationCmd = &cobra.Command{
	Use:   "donation",
	Short: "Work with a donation escrow",
}

var donationAddressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print the escrow address for the benefactor",
	RunE:  donationAddressRun,
}

var donationWithdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Pay the benefactor out of the escrow",
	RunE:  donationWithdrawRun,
}

func init() {
	rootCmd.AddCommand(donationCmd)
	donationCmd.AddCommand(donationAddressCmd, donationWithdrawCmd)
	donationCmd.PersistentFlags().StringVar(&benefactor, "benefactor", "", "Name of a saved account or address allowed to receive the donations.")
	donationWithdrawCmd.Flags().Uint64VarP(&withdrawAmount, "amount", "v", 0, "Microalgos to withdraw.")
}

func escrow(cmd *cobra.Command) (*chain.Chain, chain.Signature, string, error) {
	ns, err := newNameService()
	if err != nil {
		return nil, chain.Signature{}, "", err
	}

	address, err := resolveAddress(ns, benefactor)
	if err != nil {
		return nil, chain.Signature{}, "", fmt.Errorf("benefactor: %w", err)
	}

	source, err := donation.EscrowProgram(address)
	if err != nil {
		return nil, chain.Signature{}, "", err
	}

	ch, err := newChain()
	if err != nil {
		return nil, chain.Signature{}, "", err
	}

	sig, err := ch.CompileSignature(cmd.Context(), source)
	if err != nil {
		return nil, chain.Signature{}, "", err
	}

	return ch, sig, address, nil
}

func donationAddressRun(cmd *cobra.Command, args []string) error {
	_, sig, _, err := escrow(cmd)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), sig.Address())
	return nil
}

func donationWithdrawRun(cmd *cobra.Command, args []string) error {
	ch, sig, address, err := escrow(cmd)
	if err != nil {
		return err
	}

	pt, err := ch.LogicSigPay(cmd.Context(), sig, address, withdrawAmount)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "confirmed in round %d\n", pt.ConfirmedRound)
	return nil
}
