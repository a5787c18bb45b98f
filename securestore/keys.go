package securestore

// Keys owned by the account core. Nothing else writes into the secure namespace.
const (
	KeyPassword           = "account.password"
	KeyBiometricAllowed   = "account.biometric_allowed"
	KeyPasswordRemembered = "account.password_remembered"
	KeyTxPriority         = "account.tx_priority"
	KeyConnectionSettings = "account.connection_settings"
	KeyLastWallet         = "account.last_wallet"
)

// WalletSecretKey is the key of the open secret of the named wallet.
func WalletSecretKey(name string) string {
	return "wallet." + name + ".secret"
}
