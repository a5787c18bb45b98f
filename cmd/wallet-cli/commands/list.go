package commands

import (
	"time"

	"github.com/coschain/cobra"
)

var ListCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "list wallets in creation order",
		Run:   list,
	}
	return cmd
}

func list(cmd *cobra.Command, args []string) {
	_ = args
	acc := getAccount(cmd)
	wallets, err := acc.WalletsList(background())
	if err != nil {
		printError(cmd, err)
		return
	}
	if len(wallets) == 0 {
		output(cmd, "no wallets")
		return
	}
	current := acc.CurrentWalletName()
	for _, w := range wallets {
		mark := " "
		if w.Name == current {
			mark = "*"
		}
		outputf(cmd, "%s %-20s %-9s %s\n", mark, w.Name, w.Kind, time.Unix(w.CreatedAt, 0).Format("2006-01-02 15:04:05"))
	}
}
