package main

import (
	"fmt"
	"os"

	"github.com/coschain/cobra"
	"github.com/coschain/walletkeeper/cmd/walletd/commands"
)

// walletd is the main entry point into the system if no special subcommand is pointed
// It loads the node config, serves the account over the HTTP API
// and runs in blocking mode, waiting for it to be shut down.
var rootCmd = &cobra.Command{
	Use:   "walletd",
	Short: "walletd keeps the account and its wallets",
	Run:   commands.StartNode,
}

func addCommands() {
	rootCmd.AddCommand(commands.InitCmd())
	rootCmd.AddCommand(commands.StartCmd())
}

func main() {
	addCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
