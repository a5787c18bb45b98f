package commands

import (
	"github.com/coschain/cobra"
)

var StatusCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "display login state and the active wallet",
		Run:   status,
	}
	return cmd
}

func status(cmd *cobra.Command, args []string) {
	_ = args
	acc := getAccount(cmd)
	hasPassword, err := acc.HasPassword()
	if err != nil {
		printError(cmd, err)
		return
	}
	if !hasPassword {
		output(cmd, "no password set, run setup first")
		return
	}
	if !acc.IsLogined() {
		output(cmd, "not logged in")
		return
	}
	w := acc.CurrentWallet()
	outputf(cmd, "wallet: %s\naddress: %s\n", w.Name(), w.Address())
}
