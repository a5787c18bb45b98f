package local

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/coschain/walletkeeper/common"
	"github.com/coschain/walletkeeper/wallet"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/scrypt"
)

const (
	keyFileVersion = 1
	keyHeaderKDF   = "scrypt"
	cipherName     = "aes-128-ctr"

	scryptR     = 8
	scryptDKLen = 32

	StandardScryptN = 1 << 18
	StandardScryptP = 1
	LightScryptN    = 1 << 12
	LightScryptP    = 6
)

type cipherParams struct {
	IV string `json:"iv"`
}

type scryptParams struct {
	N     int    `json:"n"`
	R     int    `json:"r"`
	P     int    `json:"p"`
	DKLen int    `json:"dklen"`
	Salt  string `json:"salt"`
}

type cryptoJSON struct {
	Cipher       string       `json:"cipher"`
	CipherText   string       `json:"ciphertext"`
	CipherParams cipherParams `json:"cipherparams"`
	KDF          string       `json:"kdf"`
	KDFParams    scryptParams `json:"kdfparams"`
	MAC          string       `json:"mac"`
}

// keyFile is the on-disk form of one wallet. Only Crypto is secret.
type keyFile struct {
	Name      string     `json:"name"`
	Address   string     `json:"address"`
	HDPath    string     `json:"hd_path"`
	Recovered bool       `json:"recovered"`
	CreatedAt int64      `json:"created_at"`
	Crypto    cryptoJSON `json:"crypto"`
	Version   uint8      `json:"version"`
}

// keyMaterial is the sealed payload.
type keyMaterial struct {
	Mnemonic string `json:"mnemonic"`
}

// names are hex encoded so that names differing only in case never share a file
func generateFilename(name string) string {
	return fmt.Sprintf("COS-KEYJSON-%s.json", hex.EncodeToString([]byte(name)))
}

func encryptData(data, secret []byte, scryptN, scryptP int) (cryptoJSON, error) {
	salt := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return cryptoJSON{}, fmt.Errorf("reading from crypto/rand failed: %v", err)
	}
	derivedKey, err := scrypt.Key(secret, salt, scryptN, scryptR, scryptP, scryptDKLen)
	if err != nil {
		return cryptoJSON{}, err
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return cryptoJSON{}, fmt.Errorf("reading from crypto/rand failed: %v", err)
	}
	cipherText, err := aesCTRXOR(derivedKey[:16], data, iv)
	if err != nil {
		return cryptoJSON{}, err
	}
	mac := crypto.Keccak256(derivedKey[16:32], cipherText)

	return cryptoJSON{
		Cipher:       cipherName,
		CipherText:   hex.EncodeToString(cipherText),
		CipherParams: cipherParams{IV: hex.EncodeToString(iv)},
		KDF:          keyHeaderKDF,
		KDFParams: scryptParams{
			N:     scryptN,
			R:     scryptR,
			P:     scryptP,
			DKLen: scryptDKLen,
			Salt:  hex.EncodeToString(salt),
		},
		MAC: hex.EncodeToString(mac),
	}, nil
}

func decryptData(c cryptoJSON, secret []byte) ([]byte, error) {
	if c.Cipher != cipherName {
		return nil, fmt.Errorf("cipher not supported: %v", c.Cipher)
	}
	if c.KDF != keyHeaderKDF {
		return nil, fmt.Errorf("unsupported KDF: %s", c.KDF)
	}
	mac, err := hex.DecodeString(c.MAC)
	if err != nil {
		return nil, err
	}
	iv, err := hex.DecodeString(c.CipherParams.IV)
	if err != nil {
		return nil, err
	}
	cipherText, err := hex.DecodeString(c.CipherText)
	if err != nil {
		return nil, err
	}
	salt, err := hex.DecodeString(c.KDFParams.Salt)
	if err != nil {
		return nil, err
	}
	derivedKey, err := scrypt.Key(secret, salt, c.KDFParams.N, c.KDFParams.R, c.KDFParams.P, c.KDFParams.DKLen)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(crypto.Keccak256(derivedKey[16:32], cipherText), mac) {
		return nil, wallet.ErrDecrypt
	}
	return aesCTRXOR(derivedKey[:16], cipherText, iv)
}

func aesCTRXOR(key, inText, iv []byte) ([]byte, error) {
	aesBlock, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	stream := cipher.NewCTR(aesBlock, iv)
	outText := make([]byte, len(inText))
	stream.XORKeyStream(outText, inText)
	return outText, nil
}

func sealMaterial(m *keyMaterial, secret []byte, scryptN, scryptP int) (cryptoJSON, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return cryptoJSON{}, err
	}
	defer common.Wipe(data)
	return encryptData(data, secret, scryptN, scryptP)
}

func openMaterial(c cryptoJSON, secret []byte) (*keyMaterial, error) {
	data, err := decryptData(c, secret)
	if err != nil {
		return nil, err
	}
	defer common.Wipe(data)
	m := &keyMaterial{}
	if err = json.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}
