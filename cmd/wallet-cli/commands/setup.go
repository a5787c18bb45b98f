package commands

import (
	"github.com/coschain/cobra"
)

var SetupCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "set the account password",
		Run:   setup,
	}
	return cmd
}

func setup(cmd *cobra.Command, args []string) {
	_ = args
	acc := getAccount(cmd)
	passphrase, err := getPassphrase(cmd, "Enter new password")
	if err != nil {
		printError(cmd, err)
		return
	}
	confirm, err := getPassphrase(cmd, "Repeat password")
	if err != nil {
		printError(cmd, err)
		return
	}
	if confirm != passphrase {
		output(cmd, "passwords do not match")
		return
	}
	if err = acc.Setup(background(), passphrase); err != nil {
		printError(cmd, err)
		return
	}
	output(cmd, "password set")
}
