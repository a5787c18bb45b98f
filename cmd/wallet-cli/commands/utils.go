package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/coschain/cobra"
	"github.com/coschain/walletkeeper/account"
	"github.com/coschain/walletkeeper/cmd/wallet-cli/commands/utils"
	"github.com/coschain/walletkeeper/common"
)

const (
	AccountContextKey = "account"
	ReaderContextKey  = "preader"
)

func getAccount(cmd *cobra.Command) *account.Account {
	return cmd.Context[AccountContextKey].(*account.Account)
}

func getPassphrase(cmd *cobra.Command, prompt string) (string, error) {
	reader := cmd.Context[ReaderContextKey].(utils.PasswordReader)
	return utils.GetPassphrase(reader, prompt)
}

// confirmPassword prompts for the account password and checks it.
func confirmPassword(cmd *cobra.Command, acc *account.Account) bool {
	passphrase, err := getPassphrase(cmd, "Enter password")
	if err != nil {
		printError(cmd, err)
		return false
	}
	if err = acc.VerifyPassword(background(), passphrase); err != nil {
		printError(cmd, err)
		return false
	}
	return true
}

// maySwitch lets a command change the active wallet. With no wallet active it asks for the password.
func maySwitch(cmd *cobra.Command, acc *account.Account) bool {
	return acc.IsLogined() || confirmPassword(cmd, acc)
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}

func output(cmd *cobra.Command, a ...interface{}) {
	_, _ = fmt.Fprintln(out(cmd), a...)
}

func outputf(cmd *cobra.Command, format string, a ...interface{}) {
	_, _ = fmt.Fprintf(out(cmd), format, a...)
}

func printError(cmd *cobra.Command, err error) {
	if common.IsFault(err) {
		outputf(cmd, "error: %v\n", err)
		return
	}
	outputf(cmd, "failed: %v\n", err)
}

func background() context.Context {
	return context.Background()
}
