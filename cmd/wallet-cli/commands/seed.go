package commands

import (
	"github.com/coschain/cobra"
	"github.com/coschain/walletkeeper/account"
)

var SeedCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "seed",
		Short:   "show a wallet's mnemonic after re-entering the password",
		Example: "seed [name]",
		Args:    cobra.ExactArgs(1),
		Run:     seed,
	}
	return cmd
}

func seed(cmd *cobra.Command, args []string) {
	acc := getAccount(cmd)
	name := args[0]
	if !confirmPassword(cmd, acc) {
		return
	}
	words, err := acc.Wallets().FetchSeed(background(), account.WalletIndex{Name: name})
	if err != nil {
		printError(cmd, err)
		return
	}
	output(cmd, words)
}
