package commands

const ClientIdentifier = "walletd"

var (
	cfgName   string
	dataDir   string
	pprofAddr string
)
