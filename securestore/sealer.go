package securestore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const (
	DeviceKeyLength = 32
	DeviceKeyFile   = "device.key"
)

var errSealed = errors.New("sealed value cannot be opened with this device key")

// sealer encrypts values at rest with AES-256-GCM. The storage key is bound as additional data,
// so a value copied under another key does not open.
type sealer struct {
	aead cipher.AEAD
}

func newSealer(deviceKey []byte) (*sealer, error) {
	if len(deviceKey) != DeviceKeyLength {
		return nil, errors.Errorf("device key must be %d bytes, got %d", DeviceKeyLength, len(deviceKey))
	}
	block, err := aes.NewCipher(deviceKey)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &sealer{aead: aead}, nil
}

func (s *sealer) seal(key string, value []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.WithMessage(err, "reading from crypto/rand failed")
	}
	return s.aead.Seal(nonce, nonce, value, []byte(key)), nil
}

func (s *sealer) open(key string, sealed []byte) ([]byte, error) {
	ns := s.aead.NonceSize()
	if len(sealed) < ns+s.aead.Overhead() {
		return nil, errSealed
	}
	value, err := s.aead.Open(nil, sealed[:ns], sealed[ns:], []byte(key))
	if err != nil {
		return nil, errSealed
	}
	return value, nil
}

// NewDeviceKey returns a fresh random device key.
func NewDeviceKey() ([]byte, error) {
	key := make([]byte, DeviceKeyLength)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// LoadOrCreateDeviceKey reads the hex encoded device key at path, creating it with mode 0600 if missing.
func LoadOrCreateDeviceKey(path string) ([]byte, error) {
	data, err := ioutil.ReadFile(path)
	if err == nil {
		key, err := hex.DecodeString(strings.TrimSpace(string(data)))
		if err != nil {
			return nil, errors.WithMessage(err, "malformed device key "+path)
		}
		if len(key) != DeviceKeyLength {
			return nil, errors.Errorf("device key %s has length %d", path, len(key))
		}
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	key, err := NewDeviceKey()
	if err != nil {
		return nil, err
	}
	if err = os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}
	if err = ioutil.WriteFile(path, []byte(hex.EncodeToString(key)), 0600); err != nil {
		return nil, err
	}
	return key, nil
}
