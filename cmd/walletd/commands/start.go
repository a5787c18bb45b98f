package commands

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/coschain/cobra"
	"github.com/coschain/walletkeeper/common"
	"github.com/coschain/walletkeeper/common/pprof"
	"github.com/coschain/walletkeeper/config"
	"github.com/coschain/walletkeeper/mylog"
	"github.com/coschain/walletkeeper/myhttp"
	"github.com/coschain/walletkeeper/node"
)

var StartCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "start the wallet node",
		Run:   StartNode,
	}
	cmd.Flags().StringVarP(&cfgName, "name", "n", "", "node name (default is walletd)")
	cmd.Flags().StringVarP(&dataDir, "datadir", "d", "", "data directory (default is ~/.walletkeeper)")
	cmd.Flags().StringVar(&pprofAddr, "pprof", "", "serve runtime profiles on this address, e.g. 127.0.0.1:6060")
	return cmd
}

func makeNode() (*node.Node, node.Config) {
	name := cfgName
	if name == "" {
		name = ClientIdentifier
	}
	dir := dataDir
	if dir == "" {
		dir = config.DefaultDataDir()
	}
	cfg, err := config.ReadNodeConfigFile(dir, name)
	if err != nil {
		common.Fatalf("not be initialized (do `init` first): %v", err)
	}
	if cfg.DataDir != "" {
		dir, err := filepath.Abs(cfg.DataDir)
		if err != nil {
			common.Fatalf("DataDir in cfg cannot be converted to absolute path")
		}
		cfg.DataDir = dir
	}
	app, err := node.New(&cfg)
	if err != nil {
		common.Fatalf("%v", err)
	}
	app.Log = mylog.Init(app.Config().LogDir(), cfg.LogLevel, cfg.LogAge)
	return app, cfg
}

func StartNode(cmd *cobra.Command, args []string) {
	_, _ = cmd, args
	app, cfg := makeNode()
	if cfg.HTTPListen != "" {
		_ = app.Register(myhttp.ServiceName, func(ctx *node.ServiceContext) (node.Service, error) {
			return myhttp.NewMyHttp(ctx, app.Log)
		})
	}
	if err := app.Start(); err != nil {
		common.Fatalf("start node failed, err: %v\n", err)
	}
	if pprofAddr != "" {
		pprof.StartPprof(pprofAddr, app.Log)
	}

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigc)
		<-sigc
		app.Log.Info("Got interrupt, shutting down...")
		go app.Stop()
	}()

	app.Wait()
}
