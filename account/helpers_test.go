package account

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/coschain/walletkeeper/db/storage"
	"github.com/coschain/walletkeeper/mylog"
	"github.com/coschain/walletkeeper/securestore"
	"github.com/coschain/walletkeeper/wallet"
	"github.com/coschain/walletkeeper/wallet/local"
	"github.com/stretchr/testify/require"
)

const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	badMnemonic  = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon"
)

var errDiskFull = errors.New("disk full")

// faultyDatabase fails writes of keys under failPrefix.
type faultyDatabase struct {
	storage.Database
	failPrefix []byte
}

func (db *faultyDatabase) fails(key []byte) bool {
	return db.failPrefix != nil && bytes.HasPrefix(key, db.failPrefix)
}

func (db *faultyDatabase) Put(key []byte, value []byte) error {
	if db.fails(key) {
		return errDiskFull
	}
	return db.Database.Put(key, value)
}

func (db *faultyDatabase) Delete(key []byte) error {
	if db.fails(key) {
		return errDiskFull
	}
	return db.Database.Delete(key)
}

func (db *faultyDatabase) NewBatch() storage.Batch {
	return &faultyBatch{Batch: db.Database.NewBatch(), db: db}
}

func (db *faultyDatabase) DeleteBatch(b storage.Batch) {
	db.Database.DeleteBatch(b.(*faultyBatch).Batch)
}

type faultyBatch struct {
	storage.Batch
	db   *faultyDatabase
	fail bool
}

func (b *faultyBatch) Put(key []byte, value []byte) error {
	b.fail = b.fail || b.db.fails(key)
	return b.Batch.Put(key, value)
}

func (b *faultyBatch) Write() error {
	if b.fail {
		return errDiskFull
	}
	return b.Batch.Write()
}

// slowGateway holds Open until release is closed.
type slowGateway struct {
	wallet.Gateway
	entered chan struct{}
	release chan struct{}
}

func (g *slowGateway) Open(ctx context.Context, name string, secret []byte) (wallet.Runtime, error) {
	select {
	case g.entered <- struct{}{}:
	default:
	}
	<-g.release
	return g.Gateway.Open(ctx, name, secret)
}

type fixture struct {
	db      *faultyDatabase
	key     []byte
	store   *securestore.Store
	gateway wallet.Gateway
	proxy   *wallet.Proxy
	wallets *Wallets
	account *Account
}

func newFixture(t *testing.T, gateway wallet.Gateway) *fixture {
	f := &fixture{db: &faultyDatabase{Database: storage.NewMemoryDatabase()}}
	key, err := securestore.NewDeviceKey()
	require.NoError(t, err)
	f.key = key
	if gateway == nil {
		gateway, err = local.NewGateway(t.TempDir(), local.LightScryptN, local.LightScryptP, mylog.Discard())
		require.NoError(t, err)
	}
	f.gateway = gateway
	f.reopen(t)
	return f
}

// reopen rebuilds everything above the database, like a process restart.
func (f *fixture) reopen(t *testing.T) {
	var err error
	f.store, err = securestore.New(f.db, f.key, securestore.LightScrypt, mylog.Discard())
	require.NoError(t, err)
	f.wallets, err = NewWallets(f.gateway, f.store, f.db, nil, 4, mylog.Discard())
	require.NoError(t, err)
	f.proxy = f.wallets.Proxy()
	f.account = New(f.store, f.wallets, PasswordPolicy{MinLength: 3}, ConnectionSettings{URI: "127.0.0.1:8888"}, mylog.Discard())
}

func (f *fixture) failWrites(prefix string) {
	if prefix == "" {
		f.db.failPrefix = nil
		return
	}
	f.db.failPrefix = []byte(prefix)
}
