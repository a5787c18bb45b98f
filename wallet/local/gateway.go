package local

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/coschain/walletkeeper/wallet"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Gateway keeps one key file per wallet in a directory.
type Gateway struct {
	dirPath string
	scryptN int
	scryptP int
	log     *logrus.Logger
}

func NewGateway(dirPath string, scryptN, scryptP int, log *logrus.Logger) (*Gateway, error) {
	if err := os.MkdirAll(dirPath, 0700); err != nil {
		return nil, err
	}
	if scryptN == 0 {
		scryptN, scryptP = StandardScryptN, StandardScryptP
	}
	return &Gateway{dirPath: dirPath, scryptN: scryptN, scryptP: scryptP, log: log}, nil
}

func (g *Gateway) Path() string {
	return g.dirPath
}

// name should not be a path
func (g *Gateway) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", &InvalidNameError{Name: name}
	}
	return filepath.Join(g.dirPath, generateFilename(name)), nil
}

func (g *Gateway) Exists(name string) bool {
	path, err := g.path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func (g *Gateway) Create(ctx context.Context, name string, secret []byte) (wallet.Runtime, error) {
	mnemonic, err := NewMnemonic()
	if err != nil {
		return nil, err
	}
	return g.build(ctx, name, mnemonic, false, secret)
}

func (g *Gateway) Recover(ctx context.Context, name string, material wallet.RecoveryMaterial, secret []byte) (wallet.Runtime, error) {
	mnemonic := strings.Join(strings.Fields(material.Mnemonic), " ")
	if err := ValidateMnemonic(mnemonic); err != nil {
		return nil, errors.WithMessage(wallet.ErrInvalidMaterial, err.Error())
	}
	return g.build(ctx, name, mnemonic, true, secret)
}

func (g *Gateway) build(ctx context.Context, name, mnemonic string, recovered bool, secret []byte) (wallet.Runtime, error) {
	path, err := g.path(name)
	if err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	kp, err := deriveKey(mnemonic, DefaultHDPath)
	if err != nil {
		return nil, err
	}
	sealed, err := sealMaterial(&keyMaterial{Mnemonic: mnemonic}, secret, g.scryptN, g.scryptP)
	if err != nil {
		return nil, err
	}
	kf := &keyFile{
		Name:      name,
		Address:   kp.Address(),
		HDPath:    DefaultHDPath,
		Recovered: recovered,
		CreatedAt: time.Now().Unix(),
		Crypto:    sealed,
		Version:   keyFileVersion,
	}
	if err = g.seal(path, kf); err != nil {
		return nil, err
	}
	g.log.WithFields(logrus.Fields{"wallet": name, "address": kf.Address, "recovered": recovered}).Info("key file created")
	return newWallet(kf, kp, mnemonic), nil
}

func (g *Gateway) seal(path string, kf *keyFile) error {
	keyjson, err := json.Marshal(kf)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if os.IsExist(err) {
		return wallet.ErrExist
	}
	if err != nil {
		return err
	}
	if _, err = f.Write(keyjson); err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
	}
	return err
}

func (g *Gateway) Open(ctx context.Context, name string, secret []byte) (wallet.Runtime, error) {
	path, err := g.path(name)
	if err != nil {
		return nil, err
	}
	keyjson, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, wallet.ErrNotExist
	}
	if err != nil {
		return nil, err
	}
	var kf keyFile
	if err = json.Unmarshal(keyjson, &kf); err != nil {
		return nil, &CorruptedKeyFileError{Path: path, Reason: err.Error()}
	}
	if kf.Version != keyFileVersion {
		return nil, &CorruptedKeyFileError{Path: path, Reason: "version not supported"}
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	m, err := openMaterial(kf.Crypto, secret)
	if err != nil {
		return nil, err
	}
	kp, err := deriveKey(m.Mnemonic, kf.HDPath)
	if err != nil {
		return nil, &CorruptedKeyFileError{Path: path, Reason: err.Error()}
	}
	if kp.Address() != kf.Address {
		return nil, &CorruptedKeyFileError{Path: path, Reason: "address mismatch"}
	}
	g.log.WithFields(logrus.Fields{"wallet": name}).Debug("key file opened")
	return newWallet(&kf, kp, m.Mnemonic), nil
}

func (g *Gateway) Remove(ctx context.Context, name string) error {
	path, err := g.path(name)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return wallet.ErrNotExist
	}
	if err == nil {
		g.log.WithFields(logrus.Fields{"wallet": name}).Info("key file removed")
	}
	return err
}
