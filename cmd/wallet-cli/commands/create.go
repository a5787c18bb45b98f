package commands

import (
	"github.com/coschain/cobra"
)

var CreateCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "create",
		Short:   "create a new wallet and make it active",
		Example: "create [name]",
		Args:    cobra.ExactArgs(1),
		Run:     create,
	}
	return cmd
}

func create(cmd *cobra.Command, args []string) {
	acc := getAccount(cmd)
	name := args[0]
	if !maySwitch(cmd, acc) {
		return
	}
	rt, err := acc.Wallets().Create(background(), name)
	if err != nil {
		printError(cmd, err)
		return
	}
	acc.Select(rt)
	outputf(cmd, "wallet %s created, address %s\n", name, rt.Address())
}
