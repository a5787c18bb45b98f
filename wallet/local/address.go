package local

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"math/big"

	"github.com/coschain/walletkeeper/wallet"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/itchyny/base58-go"
)

type keyPair struct {
	priv *ecdsa.PrivateKey
	pub  []byte // compressed
}

func newKeyPair(priv *ecdsa.PrivateKey) *keyPair {
	return &keyPair{priv: priv, pub: crypto.CompressPubkey(&priv.PublicKey)}
}

// Address is the COS public key encoding: base58 of the decimal string of key||checksum.
func (k *keyPair) Address() string {
	return wallet.CoinSymbol + encodeBase58(k.pub)
}

func encodeBase58(data []byte) string {
	buf := append([]byte{}, data...)
	temp := sha256.Sum256(data)
	temps := sha256.Sum256(temp[:])
	buf = append(buf, temps[0:4]...)

	bi := new(big.Int).SetBytes(buf).String()
	encoded, _ := base58.BitcoinEncoding.Encode([]byte(bi))
	return string(encoded)
}
