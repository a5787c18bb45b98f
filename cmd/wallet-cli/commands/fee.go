package commands

import (
	"github.com/coschain/cobra"
	"github.com/coschain/walletkeeper/account"
	"github.com/coschain/walletkeeper/cmd/wallet-cli/commands/utils"
	"github.com/coschain/walletkeeper/wallet"
)

var feePriority string

var FeeCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fee",
		Short:   "estimate the fee of a transfer from the active wallet",
		Example: "fee [to] [amount]",
		Args:    cobra.ExactArgs(2),
		Run:     fee,
	}
	cmd.Flags().StringVarP(&feePriority, "priority", "p", "", "slow, default, fast or fastest (default is the saved priority)")
	return cmd
}

var TransferCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transfer",
		Short:   "sign a transfer from the active wallet",
		Example: "transfer [to] [amount] [memo]",
		Args:    cobra.RangeArgs(2, 3),
		Run:     transfer,
	}
	cmd.Flags().StringVarP(&feePriority, "priority", "p", "", "slow, default, fast or fastest (default is the saved priority)")
	return cmd
}

func resolvePriority(acc *account.Account) (wallet.TransactionPriority, error) {
	if feePriority == "" {
		return acc.TransactionPriority()
	}
	return wallet.ParseTransactionPriority(feePriority)
}

func fee(cmd *cobra.Command, args []string) {
	acc := getAccount(cmd)
	amount, err := utils.ParseAmount(args[1])
	if err != nil {
		printError(cmd, err)
		return
	}
	priority, err := resolvePriority(acc)
	if err != nil {
		printError(cmd, err)
		return
	}
	f, err := acc.Wallets().EstimatedFee(background(), wallet.FeeParams{Priority: priority, Amount: amount, To: args[0]})
	if err != nil {
		printError(cmd, err)
		return
	}
	outputf(cmd, "fee (%s): %s\n", priority, f)
}

func transfer(cmd *cobra.Command, args []string) {
	acc := getAccount(cmd)
	amount, err := utils.ParseAmount(args[1])
	if err != nil {
		printError(cmd, err)
		return
	}
	priority, err := resolvePriority(acc)
	if err != nil {
		printError(cmd, err)
		return
	}
	req := wallet.TransactionRequest{To: args[0], Amount: amount, Priority: priority}
	if len(args) == 3 {
		req.Memo = args[2]
	}
	tx, err := acc.CurrentWallet().CreateTransaction(background(), req)
	if err != nil {
		printError(cmd, err)
		return
	}
	outputf(cmd, "signed %s: %s to %s, fee %s\n", tx.ID, tx.Amount, tx.To, tx.Fee)
}
