package commands

import (
	"time"

	"github.com/coschain/cobra"
)

var BalanceCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "display the active wallet's balance and history",
		Run:   balance,
	}
	return cmd
}

func balance(cmd *cobra.Command, args []string) {
	_ = args
	w := getAccount(cmd).CurrentWallet()
	if w.IsEmpty() {
		output(cmd, "no active wallet")
		return
	}
	b, err := w.Balance(background())
	if err != nil {
		printError(cmd, err)
		return
	}
	outputf(cmd, "available: %s\nlocked: %s\ntotal: %s\n", b.Available, b.Locked, b.Total())
	txs, err := w.Transactions(background())
	if err != nil {
		printError(cmd, err)
		return
	}
	for _, tx := range txs {
		outputf(cmd, "%s %-3s %s fee %s %s\n", time.Unix(tx.Timestamp, 0).Format("2006-01-02 15:04:05"), tx.Direction, tx.Amount, tx.Fee, tx.ID)
	}
}
