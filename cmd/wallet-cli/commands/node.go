package commands

import (
	"github.com/coschain/cobra"
	"github.com/coschain/walletkeeper/account"
)

var (
	nodeLogin string
	nodeTLS   bool
)

var NodeCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "node",
		Short:   "display or change the node connection",
		Example: "node [host:port] --login alice --tls",
		Args:    cobra.MaximumNArgs(1),
		Run:     nodec,
	}
	cmd.Flags().StringVarP(&nodeLogin, "login", "l", "", "node login, prompts for its password")
	cmd.Flags().BoolVarP(&nodeTLS, "tls", "t", false, "connect with TLS")
	return cmd
}

func nodec(cmd *cobra.Command, args []string) {
	acc := getAccount(cmd)
	if len(args) == 1 {
		settings := account.ConnectionSettings{URI: args[0], Login: nodeLogin, UseTLS: nodeTLS}
		if nodeLogin != "" {
			passphrase, err := getPassphrase(cmd, "Enter node password")
			if err != nil {
				printError(cmd, err)
				return
			}
			settings.Password = passphrase
		}
		if err := acc.ChangeConnectionSettings(background(), settings); err != nil {
			printError(cmd, err)
			return
		}
	}
	s, err := acc.ConnectionSettings()
	if err != nil {
		printError(cmd, err)
		return
	}
	outputf(cmd, "host: %s\nport: %d\nlogin: %s\ntls: %v\n", s.Host(), s.Port(), s.Login, s.UseTLS)
}
