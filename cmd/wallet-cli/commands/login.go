package commands

import (
	"github.com/coschain/cobra"
)

var LoginCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "unlock the account and open the last used wallet",
		Run:   login,
	}
	return cmd
}

var BioLoginCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "biologin",
		Short: "login with biometrics, if allowed",
		Run:   biologin,
	}
	return cmd
}

func login(cmd *cobra.Command, args []string) {
	_ = args
	acc := getAccount(cmd)
	passphrase, err := getPassphrase(cmd, "Enter password")
	if err != nil {
		printError(cmd, err)
		return
	}
	if err = acc.Login(background(), passphrase); err != nil {
		printError(cmd, err)
		return
	}
	outputf(cmd, "logged in, wallet %s\n", acc.CurrentWalletName())
}

func biologin(cmd *cobra.Command, args []string) {
	_ = args
	acc := getAccount(cmd)
	if err := acc.BiometricAuthentication(background()); err != nil {
		printError(cmd, err)
		return
	}
	outputf(cmd, "logged in, wallet %s\n", acc.CurrentWalletName())
}
