package cmd

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/algoapps/business/contracts/counter"
	"github.com/spf13/cobra"
)

var appID uint64

var counterCmd = &cobra.Command{
	Use:   "counter",
	Short: "Deploy and call the counter application",
}

var counterCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Deploy a new counter",
	RunE:  counterCreateRun,
}

var counterAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add one to the counter",
	RunE:  counterCallRun(counter.OpAdd),
}

var counterDeductCmd = &cobra.Command{
	Use:   "deduct",
	Short: "Deduct one from the counter",
	RunE:  counterCallRun(counter.OpDeduct),
}

var counterStateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the counter's global state",
	RunE:  counterStateRun,
}

func init() {
	rootCmd.AddCommand(counterCmd)
	counterCmd.AddCommand(counterCreateCmd, counterAddCmd, counterDeductCmd, counterStateCmd)
	counterCmd.PersistentFlags().Uint64Var(&appID, "app-id", 0, "Id of the counter application.")
}

func counterCreateRun(cmd *cobra.Command, args []string) error {
	act, err := currentAccount()
	if err != nil {
		return err
	}

	ch, err := newChain()
	if err != nil {
		return err
	}

	approval, err := counter.ApprovalProgram()
	if err != nil {
		return err
	}

	clearSrc, err := counter.ClearProgram()
	if err != nil {
		return err
	}

	approvalBin, err := ch.CompileProgram(cmd.Context(), approval)
	if err != nil {
		return err
	}

	clearBin, err := ch.CompileProgram(cmd.Context(), clearSrc)
	if err != nil {
		return err
	}

	id, err := ch.CreateApp(cmd.Context(), act, approvalBin, clearBin, counter.GlobalSchema, counter.LocalSchema)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

func counterCallRun(op counter.Op) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if appID == 0 {
			return errors.New("app-id is required")
		}

		act, err := currentAccount()
		if err != nil {
			return err
		}

		ch, err := newChain()
		if err != nil {
			return err
		}

		if err := ch.CallApp(cmd.Context(), act, appID, op.Args()...); err != nil {
			return err
		}

		state, err := ch.GlobalState(cmd.Context(), appID)
		if err != nil {
			return err
		}

		renderState(cmd.OutOrStdout(), state)
		return nil
	}
}

func counterStateRun(cmd *cobra.Command, args []string) error {
	if appID == 0 {
		return errors.New("app-id is required")
	}

	ch, err := newChain()
	if err != nil {
		return err
	}

	state, err := ch.GlobalState(cmd.Context(), appID)
	if err != nil {
		return err
	}

	renderState(cmd.OutOrStdout(), state)
	return nil
}
