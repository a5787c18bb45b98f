package account

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"strings"

	"github.com/asaskevich/EventBus"
	"github.com/coschain/walletkeeper/common"
	"github.com/coschain/walletkeeper/db/storage"
	"github.com/coschain/walletkeeper/securestore"
	"github.com/coschain/walletkeeper/wallet"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	MaxWalletNameLength    = 64
	DefaultWalletCacheSize = 8

	walletSecretLength = 32
)

// Wallets is the wallet inventory: it creates, recovers, opens and removes named wallets.
// It never changes the active wallet except to detach a wallet it removes.
type Wallets struct {
	gateway wallet.Gateway
	store   *securestore.Store
	index   *indexStore
	names   *nameLocks
	session *session
	cache   *lru.Cache // name -> opened wallet.Runtime
	log     *logrus.Logger
}

// NewWallets builds the registry and the active wallet Proxy it owns. Retarget notifications go to bus.
func NewWallets(gateway wallet.Gateway, store *securestore.Store, db storage.Database, bus EventBus.Bus, cacheSize int, log *logrus.Logger) (*Wallets, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultWalletCacheSize
	}
	proxy, retarget := wallet.NewProxy(bus)
	w := &Wallets{
		gateway: gateway,
		store:   store,
		index:   newIndexStore(db),
		names:   newNameLocks(),
		session: &session{proxy: proxy, retarget: retarget, store: store, log: log},
		log:     log,
	}
	cache, err := lru.NewWithEvict(cacheSize, w.onEvicted)
	if err != nil {
		return nil, err
	}
	w.cache = cache
	return w, nil
}

// Proxy is the active wallet handle. Only Account.Select, login and removal retarget it.
func (w *Wallets) Proxy() *wallet.Proxy {
	return w.session.proxy
}

// opened runtimes leaving the cache are closed unless they are still active
func (w *Wallets) onEvicted(key interface{}, value interface{}) {
	rt := value.(wallet.Runtime)
	if w.session.proxy.Is(rt) {
		return
	}
	if err := rt.Close(); err != nil {
		w.log.WithFields(logrus.Fields{"wallet": key, "error": err}).Warn("failed to close wallet")
	}
}

// ValidateWalletName checks that name can key both the index and the runtime's files.
func ValidateWalletName(name string) error {
	switch {
	case name == "":
		return errors.New("empty wallet name")
	case len(name) > MaxWalletNameLength:
		return errors.Errorf("wallet name longer than %d bytes", MaxWalletNameLength)
	case strings.ContainsAny(name, "/\\\x00"):
		return errors.New("wallet name contains a path separator")
	case strings.HasPrefix(name, "."):
		return errors.New("wallet name starts with a dot")
	}
	return nil
}

// WalletsList returns a fresh snapshot of the inventory in creation order.
func (w *Wallets) WalletsList(ctx context.Context) (WalletsList, error) {
	var list WalletsList
	err := common.Go(func() (err error) {
		list, err = w.index.list()
		return
	}).Wait(ctx)
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Create makes a new wallet. It does not become active.
func (w *Wallets) Create(ctx context.Context, name string) (wallet.Runtime, error) {
	var rt wallet.Runtime
	err := common.Go(func() (err error) {
		rt, err = w.create("wallets.Create", name, nil)
		return
	}).Wait(ctx)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

// Recover rebuilds a wallet from recovery material. It does not become active.
func (w *Wallets) Recover(ctx context.Context, name string, material wallet.RecoveryMaterial) (wallet.Runtime, error) {
	var rt wallet.Runtime
	err := common.Go(func() (err error) {
		rt, err = w.create("wallets.Recover", name, &material)
		return
	}).Wait(ctx)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

// LoadWallet opens an existing wallet. It does not become active.
func (w *Wallets) LoadWallet(ctx context.Context, name string) (wallet.Runtime, error) {
	var rt wallet.Runtime
	err := common.Go(func() (err error) {
		rt, err = w.load(name)
		return
	}).Wait(ctx)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

// RemoveWallet deletes a wallet's index entry, files and secret.
// A removed active wallet is detached from the proxy before RemoveWallet succeeds.
func (w *Wallets) RemoveWallet(ctx context.Context, index WalletIndex) error {
	return common.Go(func() error {
		w.session.lock.Lock()
		defer w.session.lock.Unlock()
		return w.remove(index.Name)
	}).Wait(ctx)
}

// FetchSeed opens the wallet if needed and returns its recovery phrase.
// Callers must re-verify the user's credential first.
func (w *Wallets) FetchSeed(ctx context.Context, index WalletIndex) (string, error) {
	var seed string
	err := common.Go(func() error {
		rt, err := w.load(index.Name)
		if err != nil {
			return err
		}
		if seed, err = rt.Seed(); err != nil {
			return common.NewError(common.KindCreationFailed, "wallets.FetchSeed", err)
		}
		return nil
	}).Wait(ctx)
	if err != nil {
		return "", err
	}
	return seed, nil
}

// EstimatedFee asks the active wallet. It fails with common.ErrNoActiveWallet before login.
func (w *Wallets) EstimatedFee(ctx context.Context, params wallet.FeeParams) (wallet.Amount, error) {
	var fee wallet.Amount
	err := common.Go(func() (err error) {
		fee, err = w.session.proxy.EstimateFee(context.Background(), params)
		return
	}).Wait(ctx)
	if err != nil {
		return 0, err
	}
	return fee, nil
}

// Close closes every cached runtime except the active one.
func (w *Wallets) Close() {
	w.cache.Purge()
}

// the gateway always runs on a background context: abandoning a wait does not abort the operation.
func (w *Wallets) create(op, name string, material *wallet.RecoveryMaterial) (wallet.Runtime, error) {
	if err := ValidateWalletName(name); err != nil {
		return nil, common.NewError(common.KindInvalidInput, op, err)
	}
	w.names.lock(name)
	defer w.names.unlock(name)

	if _, exists, err := w.index.get(name); err != nil {
		return nil, err
	} else if exists {
		return nil, common.NewError(common.KindNameAlreadyExists, op, errors.New(name))
	}

	secret, err := newWalletSecret()
	if err != nil {
		return nil, common.NewError(common.KindCreationFailed, op, err)
	}
	if err = w.store.Set(securestore.WalletSecretKey(name), secret); err != nil {
		return nil, err
	}

	var (
		rt   wallet.Runtime
		kind = WalletCreated
		ctx  = context.Background()
	)
	if material == nil {
		rt, err = w.gateway.Create(ctx, name, secret)
	} else {
		kind = WalletRecovered
		rt, err = w.gateway.Recover(ctx, name, *material, secret)
	}
	if err != nil {
		w.dropSecret(name)
		return nil, gatewayError(op, err)
	}

	if _, err = w.index.add(name, kind); err != nil {
		_ = rt.Close()
		if rerr := w.gateway.Remove(ctx, name); rerr != nil {
			w.log.WithFields(logrus.Fields{"wallet": name, "error": rerr}).Warn("failed to roll back wallet files")
		}
		w.dropSecret(name)
		return nil, err
	}
	w.cache.Add(name, rt)
	w.log.WithFields(logrus.Fields{"wallet": name, "kind": kind.String()}).Info("wallet added")
	return rt, nil
}

func (w *Wallets) load(name string) (wallet.Runtime, error) {
	const op = "wallets.LoadWallet"
	if err := ValidateWalletName(name); err != nil {
		return nil, common.NewError(common.KindInvalidInput, op, err)
	}
	w.names.lock(name)
	defer w.names.unlock(name)

	if v, ok := w.cache.Get(name); ok {
		return v.(wallet.Runtime), nil
	}
	if _, exists, err := w.index.get(name); err != nil {
		return nil, err
	} else if !exists {
		return nil, common.NewError(common.KindWalletNotFound, op, errors.New(name))
	}

	secret, ok, err := w.store.Get(securestore.WalletSecretKey(name))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.NewError(common.KindDecryptionFailed, op, errors.New("missing secret of "+name))
	}
	rt, err := w.gateway.Open(context.Background(), name, secret)
	if err != nil {
		return nil, gatewayError(op, err)
	}
	w.cache.Add(name, rt)
	w.log.WithFields(logrus.Fields{"wallet": name}).Debug("wallet opened")
	return rt, nil
}

// remove must be called with the session lock held.
func (w *Wallets) remove(name string) error {
	const op = "wallets.RemoveWallet"
	w.names.lock(name)
	defer w.names.unlock(name)

	if _, exists, err := w.index.get(name); err != nil {
		return err
	} else if !exists {
		return common.NewError(common.KindWalletNotFound, op, errors.New(name))
	}

	// files go first: a failure after this point leaves an index entry that a retry can clean up
	if err := w.gateway.Remove(context.Background(), name); err != nil && !errors.Is(err, wallet.ErrNotExist) {
		return common.NewError(common.KindStorageError, op, err)
	}
	if err := w.index.remove(name); err != nil {
		return err
	}

	prev, detached := w.session.detach(name)
	cached, inCache := w.cache.Peek(name)
	w.cache.Remove(name)
	if detached && (!inCache || cached.(wallet.Runtime) != prev) {
		w.release(prev)
	}
	w.session.forget(name)
	w.dropSecret(name)
	w.log.WithFields(logrus.Fields{"wallet": name, "was_active": detached}).Info("wallet removed")
	return nil
}

// indexed reports whether name is still in the inventory.
func (w *Wallets) indexed(name string) (bool, error) {
	w.names.lock(name)
	defer w.names.unlock(name)
	_, exists, err := w.index.get(name)
	return exists, err
}

// adopt puts an externally opened runtime into the cache.
func (w *Wallets) adopt(rt wallet.Runtime) {
	name := rt.Name()
	if v, ok := w.cache.Peek(name); ok {
		if v.(wallet.Runtime) == rt {
			return
		}
		w.cache.Remove(name)
	}
	w.cache.Add(name, rt)
}

// release closes a runtime that stopped being active and is no longer cached.
func (w *Wallets) release(rt wallet.Runtime) {
	if rt == nil {
		return
	}
	if _, empty := rt.(wallet.EmptyWallet); empty {
		return
	}
	if v, ok := w.cache.Peek(rt.Name()); ok && v.(wallet.Runtime) == rt {
		return
	}
	if err := rt.Close(); err != nil {
		w.log.WithFields(logrus.Fields{"wallet": rt.Name(), "error": err}).Warn("failed to close wallet")
	}
}

func (w *Wallets) dropSecret(name string) {
	if err := w.store.Delete(securestore.WalletSecretKey(name)); err != nil {
		w.log.WithFields(logrus.Fields{"wallet": name, "error": err}).Warn("failed to delete wallet secret")
	}
}

func gatewayError(op string, err error) error {
	switch {
	case errors.Is(err, wallet.ErrExist):
		return common.NewError(common.KindNameAlreadyExists, op, err)
	case errors.Is(err, wallet.ErrInvalidMaterial):
		return common.NewError(common.KindInvalidRecoveryMaterial, op, err)
	case errors.Is(err, wallet.ErrDecrypt):
		return common.NewError(common.KindDecryptionFailed, op, err)
	case errors.Is(err, wallet.ErrNotExist):
		return common.NewError(common.KindWalletNotFound, op, err)
	}
	return common.NewError(common.KindCreationFailed, op, err)
}

func newWalletSecret() ([]byte, error) {
	b := make([]byte, walletSecretLength)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return []byte(hex.EncodeToString(b)), nil
}
