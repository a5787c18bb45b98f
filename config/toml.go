package config

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"text/template"

	"github.com/coschain/walletkeeper/node"
	"github.com/spf13/viper"
)

const ConfigFileName = "config.toml"

var configTemplate *template.Template

const DefaultConfigTemplate = `# This is a TOML config file.
# For more information, see https://github.com/toml-lang/toml

DataDir = "{{ .DataDir }}"

LogLevel = "{{ .LogLevel }}"
LogAge = {{ .LogAge }}

HTTPListen = "{{ .HTTPListen }}"

MinPasswordLength = {{ .MinPasswordLength }}
WalletCacheSize = {{ .WalletCacheSize }}

ScryptN = {{ .ScryptN }}
ScryptP = {{ .ScryptP }}

[node]

URI = "{{ .Node.URI }}"
Login = "{{ .Node.Login }}"
Password = "{{ .Node.Password }}"
UseTLS = {{ .Node.UseTLS }}

`

func WriteNodeConfigFile(configDirPath string, configName string, config node.Config, mode os.FileMode) error {
	var buffer bytes.Buffer
	var err error

	if configTemplate, err = template.New("configFileTemplate").Parse(DefaultConfigTemplate); err != nil {
		return err
	}

	if err = configTemplate.Execute(&buffer, config); err != nil {
		return err
	}
	configPath := filepath.Join(configDirPath, configName)
	return ioutil.WriteFile(configPath, buffer.Bytes(), mode)
}

// ReadNodeConfigFile loads config.toml from the instance directory of name under dataDir.
func ReadNodeConfigFile(dataDir, name string) (node.Config, error) {
	cfg := DefaultNodeConfig
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(filepath.Join(dataDir, name))
	if err := v.ReadInConfig(); err != nil {
		return cfg, err
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.Name = name
	return cfg, nil
}
