package node

import (
	"path/filepath"
	"runtime"
)

const (
	datadirDatabase  = "db"
	datadirWallets   = "wallets"
	datadirLogs      = "logs"
	datadirDeviceKey = "device.key"
)

type Config struct {
	// Name refers the name of node's instance
	Name string `toml:"-"`

	// Version should be set to the version number of the program.
	Version string `toml:"-"`

	// DataDir is the root folder that store data and configs.
	// An empty DataDir runs an ephemeral node backed by memory.
	DataDir string

	// LogLevel is one of debug, info, warn, error, fatal, panic
	LogLevel string

	// LogAge is the number of days rotated log files are kept, 0 keeps them forever
	LogAge uint32

	// HTTPListen is the loopback address of the HTTP API, empty disables it
	HTTPListen string

	// MinPasswordLength is the password policy
	MinPasswordLength int

	// WalletCacheSize is the number of opened wallets kept in memory
	WalletCacheSize int

	// ScryptN and ScryptP tune password and key file hashing, 0 uses the standard parameters
	ScryptN int
	ScryptP int

	// Node is the default node connection, used until the user changes it
	Node ConnectionConfig
}

type ConnectionConfig struct {
	URI      string
	Login    string
	Password string
	UseTLS   bool
}

// GetName returns the node's complete name
func (c *Config) NodeName() string {
	name := c.Name
	if c.Version != "" {
		name += "/v" + c.Version
	}
	name += "/" + runtime.GOOS + "-" + runtime.GOARCH
	name += "/" + runtime.Version()
	return name
}

// ResolvePath resolves path in the instance directory.
func (c *Config) ResolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if c.DataDir == "" {
		return ""
	}
	return filepath.Join(c.instanceDir(), path)
}

func (c *Config) instanceDir() string {
	if c.DataDir == "" {
		return ""
	}
	return filepath.Join(c.DataDir, c.Name)
}

// LogDir is where the rotating log files go, empty for an ephemeral node.
func (c *Config) LogDir() string {
	return c.ResolvePath(datadirLogs)
}
