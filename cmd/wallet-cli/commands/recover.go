package commands

import (
	"strings"

	"github.com/coschain/cobra"
	"github.com/coschain/walletkeeper/wallet"
)

var RecoverCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recover",
		Short:   "rebuild a wallet from its mnemonic",
		Example: "recover [name] [word1 word2 ... word24]",
		Args:    cobra.MinimumNArgs(2),
		Run:     recoverWallet,
	}
	return cmd
}

func recoverWallet(cmd *cobra.Command, args []string) {
	acc := getAccount(cmd)
	name := args[0]
	material := wallet.RecoveryMaterial{Mnemonic: strings.Join(args[1:], " ")}
	if !maySwitch(cmd, acc) {
		return
	}
	rt, err := acc.Wallets().Recover(background(), name, material)
	if err != nil {
		printError(cmd, err)
		return
	}
	acc.Select(rt)
	outputf(cmd, "wallet %s recovered, address %s\n", name, rt.Address())
}
