package commands

import (
	"github.com/coschain/cobra"
)

var LoadCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "load",
		Short:   "open a wallet and make it active",
		Example: "load [name]",
		Args:    cobra.ExactArgs(1),
		Run:     load,
	}
	return cmd
}

func load(cmd *cobra.Command, args []string) {
	acc := getAccount(cmd)
	name := args[0]
	if !maySwitch(cmd, acc) {
		return
	}
	rt, err := acc.Wallets().LoadWallet(background(), name)
	if err != nil {
		printError(cmd, err)
		return
	}
	acc.Select(rt)
	outputf(cmd, "load wallet %s success\n", name)
}
