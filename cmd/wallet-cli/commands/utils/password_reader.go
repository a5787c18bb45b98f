package utils

//go:generate mockgen -destination=./mock/password_reader.go -package=mock_utils github.com/coschain/walletkeeper/cmd/wallet-cli/commands/utils PasswordReader

type PasswordReader interface {
	ReadPassword(fd int) ([]byte, error)
}
