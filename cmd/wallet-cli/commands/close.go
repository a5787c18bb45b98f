package commands

import (
	"github.com/coschain/cobra"
)

var CloseCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close",
		Short: "close the active wallet",
		Run:   closec,
	}
	return cmd
}

func closec(cmd *cobra.Command, args []string) {
	_ = args
	acc := getAccount(cmd)
	name := acc.CurrentWalletName()
	if name == "" {
		output(cmd, "no active wallet")
		return
	}
	acc.Select(nil)
	outputf(cmd, "wallet %s closed\n", name)
}
