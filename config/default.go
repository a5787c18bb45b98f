package config

import (
	"path/filepath"

	"github.com/coschain/walletkeeper/node"
	"github.com/mitchellh/go-homedir"
)

const (
	DefaultNodeEndPoint = "localhost:8888"
	DefaultHTTPEndPoint = "127.0.0.1:8123"
	DefaultLogLevel     = "info"
	DefaultLogAge       = 7
)

// DefaultConfig contains reasonable default settings.
var DefaultNodeConfig = node.Config{
	DataDir:           DefaultDataDir(),
	LogLevel:          DefaultLogLevel,
	LogAge:            DefaultLogAge,
	HTTPListen:        DefaultHTTPEndPoint,
	MinPasswordLength: 6,
	WalletCacheSize:   8,
	Node: node.ConnectionConfig{
		URI: DefaultNodeEndPoint,
	},
}

func DefaultDataDir() string {
	home, err := homedir.Dir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".walletkeeper")
}
