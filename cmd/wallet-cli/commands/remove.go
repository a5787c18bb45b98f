package commands

import (
	"github.com/coschain/cobra"
	"github.com/coschain/walletkeeper/account"
)

var RemoveCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove",
		Short:   "delete a wallet, its key file and secret after re-entering the password",
		Example: "remove [name]",
		Args:    cobra.ExactArgs(1),
		Run:     remove,
	}
	return cmd
}

func remove(cmd *cobra.Command, args []string) {
	acc := getAccount(cmd)
	name := args[0]
	if !confirmPassword(cmd, acc) {
		return
	}
	if err := acc.Wallets().RemoveWallet(background(), account.WalletIndex{Name: name}); err != nil {
		printError(cmd, err)
		return
	}
	outputf(cmd, "wallet %s removed\n", name)
}
