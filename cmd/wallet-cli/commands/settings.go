package commands

import (
	"strconv"

	"github.com/coschain/cobra"
	"github.com/coschain/walletkeeper/wallet"
)

var (
	settingsPriority   string
	settingsBiometric  bool
	settingsRemembered bool
)

var SettingsCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "settings",
		Short:   "display or change account preferences",
		Example: "settings --priority fast --biometric=true",
		Run:     settings,
	}
	cmd.Flags().StringVarP(&settingsPriority, "priority", "p", "", "default transaction priority")
	cmd.Flags().BoolVarP(&settingsBiometric, "biometric", "b", false, "allow biometric login")
	cmd.Flags().BoolVarP(&settingsRemembered, "remember", "r", false, "remember the password")
	return cmd
}

func settings(cmd *cobra.Command, args []string) {
	_ = args
	acc := getAccount(cmd)
	flags := cmd.Flags()
	if flags.Changed("priority") {
		p, err := wallet.ParseTransactionPriority(settingsPriority)
		if err == nil {
			err = acc.SetTransactionPriority(p)
		}
		if err != nil {
			printError(cmd, err)
			return
		}
	}
	if flags.Changed("biometric") {
		if err := acc.SetBiometricalAuthAllow(settingsBiometric); err != nil {
			printError(cmd, err)
			return
		}
	}
	if flags.Changed("remember") {
		if err := acc.SetPasswordRemembered(settingsRemembered); err != nil {
			printError(cmd, err)
			return
		}
	}

	priority, err := acc.TransactionPriority()
	if err != nil {
		printError(cmd, err)
		return
	}
	biometric, err := acc.IsBiometricalAuthAllow()
	if err != nil {
		printError(cmd, err)
		return
	}
	remembered, err := acc.IsPasswordRemembered()
	if err != nil {
		printError(cmd, err)
		return
	}
	outputf(cmd, "priority: %s\nbiometric: %s\nremember password: %s\n",
		priority, strconv.FormatBool(biometric), strconv.FormatBool(remembered))
}
