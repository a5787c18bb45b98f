package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteAndReadNodeConfig(t *testing.T) {
	myassert := assert.New(t)

	dataDir := t.TempDir()
	cfg := DefaultNodeConfig
	cfg.Name = "walletd"
	cfg.DataDir = dataDir
	cfg.LogLevel = "debug"
	cfg.WalletCacheSize = 3
	cfg.ScryptN, cfg.ScryptP = 1<<12, 6
	cfg.Node.URI = "10.0.0.1:9999"
	cfg.Node.UseTLS = true

	confdir := filepath.Join(dataDir, cfg.Name)
	myassert.NoError(os.MkdirAll(confdir, 0700))
	myassert.NoError(WriteNodeConfigFile(confdir, ConfigFileName, cfg, 0600))

	loaded, err := ReadNodeConfigFile(dataDir, cfg.Name)
	myassert.NoError(err)
	myassert.Equal(cfg.Name, loaded.Name)
	myassert.Equal(dataDir, loaded.DataDir)
	myassert.Equal("debug", loaded.LogLevel)
	myassert.Equal(3, loaded.WalletCacheSize)
	myassert.Equal(1<<12, loaded.ScryptN)
	myassert.Equal(6, loaded.ScryptP)
	myassert.Equal(DefaultHTTPEndPoint, loaded.HTTPListen)
	myassert.Equal("10.0.0.1:9999", loaded.Node.URI)
	myassert.True(loaded.Node.UseTLS)
}

func TestReadMissingConfig(t *testing.T) {
	_, err := ReadNodeConfigFile(t.TempDir(), "nothing")
	assert.Error(t, err)
}
