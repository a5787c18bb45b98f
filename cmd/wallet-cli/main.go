package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/coschain/cobra"
	"github.com/coschain/walletkeeper/cmd/wallet-cli/commands"
	"github.com/coschain/walletkeeper/cmd/wallet-cli/commands/utils"
	"github.com/coschain/walletkeeper/common"
	"github.com/coschain/walletkeeper/config"
	"github.com/coschain/walletkeeper/mylog"
	"github.com/coschain/walletkeeper/node"
	"github.com/spf13/pflag"
)

var (
	dataDir  string
	nodeName string
)

var rootCmd = &cobra.Command{
	Use:   "wallet-cli",
	Short: "wallet-cli manages the account and its wallets",
}

func pcFromCommands(parent readline.PrefixCompleterInterface, c *cobra.Command) {
	pc := readline.PcItem(c.Use)
	parent.SetChildren(append(parent.GetChildren(), pc))
	for _, child := range c.Commands() {
		pcFromCommands(pc, child)
	}
}

func inheritContext(c *cobra.Command) {
	for _, child := range c.Commands() {
		child.Context = c.Context
		inheritContext(child)
	}
}

// resetFlags puts a command's flags back to their defaults between shell lines.
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func runShell() {
	completer := readline.NewPrefixCompleter()
	for _, child := range rootCmd.Commands() {
		pcFromCommands(completer, child)
	}
	shell, err := readline.NewEx(&readline.Config{
		Prompt:       "> ",
		AutoComplete: completer,
		EOFPrompt:    "exit",
	})
	if err != nil {
		panic(err)
	}
	defer shell.Close()

shell_loop:
	for {
		l, err := shell.Readline()
		if err != nil {
			break shell_loop
		}
		fields := strings.Fields(l)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "exit" || fields[0] == "quit" {
			break shell_loop
		}
		cmd, flags, err := rootCmd.Find(fields)
		if err != nil || cmd == rootCmd {
			_, _ = shell.Terminal.Write([]byte(fmt.Sprintf("unknown command %q\n", fields[0])))
			continue
		}
		if err = cmd.ParseFlags(flags); err != nil {
			_, _ = shell.Terminal.Write([]byte(err.Error() + "\n"))
			continue
		}
		args := cmd.Flags().Args()
		if err = cmd.ValidateArgs(args); err != nil {
			_, _ = shell.Terminal.Write([]byte(err.Error() + "\nexample: " + cmd.Example + "\n"))
		} else {
			cmd.Run(cmd, args)
		}
		resetFlags(cmd)
	}
}

func addCommands() {
	rootCmd.AddCommand(commands.SetupCmd())
	rootCmd.AddCommand(commands.LoginCmd())
	rootCmd.AddCommand(commands.BioLoginCmd())
	rootCmd.AddCommand(commands.PasswdCmd())
	rootCmd.AddCommand(commands.CreateCmd())
	rootCmd.AddCommand(commands.RecoverCmd())
	rootCmd.AddCommand(commands.LoadCmd())
	rootCmd.AddCommand(commands.ListCmd())
	rootCmd.AddCommand(commands.RemoveCmd())
	rootCmd.AddCommand(commands.SeedCmd())
	rootCmd.AddCommand(commands.StatusCmd())
	rootCmd.AddCommand(commands.BalanceCmd())
	rootCmd.AddCommand(commands.FeeCmd())
	rootCmd.AddCommand(commands.TransferCmd())
	rootCmd.AddCommand(commands.SettingsCmd())
	rootCmd.AddCommand(commands.NodeCmd())
	rootCmd.AddCommand(commands.CloseCmd())
}

func init() {
	addCommands()
	rootCmd.PersistentFlags().StringVarP(&dataDir, "datadir", "d", config.DefaultDataDir(), "data directory")
	rootCmd.PersistentFlags().StringVarP(&nodeName, "name", "n", "walletd", "instance name inside the data directory")
	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		runShell()
	}
}

func makeNode() *node.Node {
	cfg, err := config.ReadNodeConfigFile(dataDir, nodeName)
	if err != nil {
		common.Fatalf("%s/%s is not initialized (run `walletd init` first): %v", dataDir, nodeName, err)
	}
	cfg.DataDir = dataDir
	app, err := node.New(&cfg)
	if err != nil {
		common.Fatalf("%v", err)
	}
	// the shell owns the terminal, logs only go to files
	app.Log = mylog.Init(app.Config().LogDir(), cfg.LogLevel, cfg.LogAge)
	app.Log.Out = ioutil.Discard
	return app
}

func main() {
	var app *node.Node
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		app = makeNode()
		if err := app.Start(); err != nil {
			common.Fatalf("start wallet node failed: %v", err)
		}
		rootCmd.SetContext(commands.AccountContextKey, app.Account)
		rootCmd.SetContext(commands.ReaderContextKey, utils.MyPasswordReader{})
		inheritContext(rootCmd)
	}

	err := rootCmd.Execute()
	if app != nil {
		_ = app.Stop()
	}
	if err != nil {
		os.Exit(1)
	}
}
