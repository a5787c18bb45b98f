package utils

import (
	"fmt"
	"math/big"
	"strings"
	"syscall"

	"github.com/coschain/walletkeeper/wallet"
	"github.com/pkg/errors"
)

func GetPassphrase(reader PasswordReader, prompt string) (string, error) {
	fmt.Print(prompt + " > ")
	bytePassphrase, err := reader.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	passphrase := string(bytePassphrase)
	return passphrase, nil
}

// ParseAmount reads a decimal COS amount such as "1.5" into the smallest unit.
func ParseAmount(s string) (wallet.Amount, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), " "+wallet.CoinSymbol)
	r, ok := new(big.Rat).SetString(s)
	if !ok || r.Sign() < 0 {
		return 0, errors.Errorf("invalid amount %q", s)
	}
	r.Mul(r, new(big.Rat).SetInt64(wallet.TokenDecimals))
	if !r.IsInt() {
		return 0, errors.Errorf("amount %q has more than 6 decimals", s)
	}
	n := r.Num()
	if !n.IsUint64() {
		return 0, errors.Errorf("amount %q overflows", s)
	}
	return wallet.Amount(n.Uint64()), nil
}
