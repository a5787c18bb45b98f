package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/coschain/cobra"
	"github.com/coschain/walletkeeper/config"
)

var InitCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration files",
		Run:   initConf,
	}
	cmd.Flags().StringVarP(&cfgName, "name", "n", "", "node name (default is walletd)")
	cmd.Flags().StringVarP(&dataDir, "datadir", "d", "", "data directory (default is ~/.walletkeeper)")
	return cmd
}

func initConf(cmd *cobra.Command, args []string) {
	_, _ = cmd, args
	var err error
	cfg := config.DefaultNodeConfig
	if cfgName == "" {
		cfg.Name = ClientIdentifier
	} else {
		cfg.Name = cfgName
	}
	if dataDir != "" {
		if cfg.DataDir, err = filepath.Abs(dataDir); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}
	confdir := filepath.Join(cfg.DataDir, cfg.Name)
	if _, err = os.Stat(confdir); os.IsNotExist(err) {
		if err = os.MkdirAll(confdir, 0700); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}
	err = config.WriteNodeConfigFile(confdir, config.ConfigFileName, cfg, 0600)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Printf("config written to %s\n", filepath.Join(confdir, config.ConfigFileName))
}
