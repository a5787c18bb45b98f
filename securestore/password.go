package securestore

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"io"

	"golang.org/x/crypto/scrypt"
)

// ScryptParams tune the password hash.
type ScryptParams struct {
	N, R, P int
}

const (
	StandardScryptN = 1 << 18
	StandardScryptP = 1

	LightScryptN = 1 << 12
	LightScryptP = 6

	scryptR     = 8
	scryptDKLen = 32
	saltLen     = 32
)

var (
	StandardScrypt = ScryptParams{N: StandardScryptN, R: scryptR, P: StandardScryptP}
	LightScrypt    = ScryptParams{N: LightScryptN, R: scryptR, P: LightScryptP}
)

// passwordRecord is what is stored under KeyPassword. The hash never leaves this package.
type passwordRecord struct {
	Salt string `json:"salt"`
	Hash string `json:"hash"`
	N    int    `json:"n"`
	R    int    `json:"r"`
	P    int    `json:"p"`
}

func newPasswordRecord(password string, params ScryptParams) ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	hash, err := scrypt.Key([]byte(password), salt, params.N, params.R, params.P, scryptDKLen)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&passwordRecord{
		Salt: hex.EncodeToString(salt),
		Hash: hex.EncodeToString(hash),
		N:    params.N,
		R:    params.R,
		P:    params.P,
	})
}

func (r *passwordRecord) matches(password string) (bool, error) {
	salt, err := hex.DecodeString(r.Salt)
	if err != nil {
		return false, err
	}
	expected, err := hex.DecodeString(r.Hash)
	if err != nil {
		return false, err
	}
	hash, err := scrypt.Key([]byte(password), salt, r.N, r.R, r.P, len(expected))
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(hash, expected) == 1, nil
}
