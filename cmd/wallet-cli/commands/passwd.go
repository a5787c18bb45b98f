package commands

import (
	"github.com/coschain/cobra"
)

var PasswdCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "change the account password",
		Run:   passwd,
	}
	return cmd
}

func passwd(cmd *cobra.Command, args []string) {
	_ = args
	acc := getAccount(cmd)
	old, err := getPassphrase(cmd, "Enter current password")
	if err != nil {
		printError(cmd, err)
		return
	}
	passphrase, err := getPassphrase(cmd, "Enter new password")
	if err != nil {
		printError(cmd, err)
		return
	}
	if err = acc.ChangePassword(background(), passphrase, old); err != nil {
		printError(cmd, err)
		return
	}
	output(cmd, "password changed")
}
