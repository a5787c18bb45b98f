package account

import (
	"context"
	"encoding/json"

	"github.com/coschain/walletkeeper/common"
	"github.com/coschain/walletkeeper/securestore"
	"github.com/coschain/walletkeeper/wallet"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Account is the authentication and session authority. It alone decides which wallet is active.
//
// IsLogined() is true iff a wallet is attached to CurrentWallet(), and a failed operation never changes it.
type Account struct {
	store    *securestore.Store
	wallets  *Wallets
	session  *session
	policy   PasswordPolicy
	defaults ConnectionSettings
	log      *logrus.Logger
}

func New(store *securestore.Store, wallets *Wallets, policy PasswordPolicy, defaults ConnectionSettings, log *logrus.Logger) *Account {
	return &Account{
		store:    store,
		wallets:  wallets,
		session:  wallets.session,
		policy:   policy,
		defaults: defaults,
		log:      log,
	}
}

// Setup establishes the first password. It does not log in.
func (a *Account) Setup(ctx context.Context, newPassword string) error {
	const op = "account.Setup"
	if err := a.policy.Check(newPassword); err != nil {
		return common.NewError(common.KindInvalidInput, op, err)
	}
	return common.Go(func() error {
		a.session.lock.Lock()
		defer a.session.lock.Unlock()

		has, err := a.store.HasPassword()
		if err != nil {
			return err
		}
		if has {
			return common.NewError(common.KindInvalidInput, op, errors.New("password already set"))
		}
		if err = a.store.SetPassword(newPassword); err != nil {
			return err
		}
		a.log.Info("password set up")
		return nil
	}).Wait(ctx)
}

// ChangePassword replaces the credential after verifying oldPassword.
// On any failure the old credential stays valid.
func (a *Account) ChangePassword(ctx context.Context, password, oldPassword string) error {
	if err := a.policy.Check(password); err != nil {
		return common.NewError(common.KindInvalidInput, "account.ChangePassword", err)
	}
	return common.Go(func() error {
		a.session.lock.Lock()
		defer a.session.lock.Unlock()

		if err := a.store.ReplacePassword(oldPassword, password); err != nil {
			return err
		}
		a.log.Info("password changed")
		return nil
	}).Wait(ctx)
}

// VerifyPassword re-checks the credential, e.g. before exporting a seed or removing a wallet.
func (a *Account) VerifyPassword(ctx context.Context, password string) error {
	return common.Go(func() error {
		return a.verify("account.VerifyPassword", password)
	}).Wait(ctx)
}

func (a *Account) verify(op, password string) error {
	ok, err := a.store.Verify(password)
	if err != nil {
		return err
	}
	if !ok {
		return common.NewError(common.KindAuthenticationFailed, op, nil)
	}
	return nil
}

// Login verifies password, then opens the last selected wallet and makes it active.
// It succeeds only once the wallet is attached.
func (a *Account) Login(ctx context.Context, password string) error {
	const op = "account.Login"
	return common.Go(func() error {
		a.session.lock.Lock()
		defer a.session.lock.Unlock()

		if err := a.verify(op, password); err != nil {
			a.log.Warn("login rejected")
			return err
		}
		return a.loadCurrent(op)
	}).Wait(ctx)
}

// LoadCurrentWallet attaches the last selected wallet. Identity is assumed established by the caller.
func (a *Account) LoadCurrentWallet(ctx context.Context) error {
	return common.Go(func() error {
		a.session.lock.Lock()
		defer a.session.lock.Unlock()
		return a.loadCurrent("account.LoadCurrentWallet")
	}).Wait(ctx)
}

// BiometricAuthentication is the biometric login path. The caller has already checked the sensor.
func (a *Account) BiometricAuthentication(ctx context.Context) error {
	const op = "account.BiometricAuthentication"
	return common.Go(func() error {
		allowed, err := a.IsBiometricalAuthAllow()
		if err != nil {
			return err
		}
		if !allowed {
			return common.NewError(common.KindAuthenticationFailed, op, errors.New("biometric login disabled"))
		}
		a.session.lock.Lock()
		defer a.session.lock.Unlock()
		return a.loadCurrent(op)
	}).Wait(ctx)
}

// loadCurrent must be called with the session lock held.
func (a *Account) loadCurrent(op string) error {
	name, ok, err := a.session.lastWallet()
	if err != nil {
		return common.NewError(common.KindWalletLoadFailed, op, err)
	}
	if !ok {
		return common.NewError(common.KindWalletLoadFailed, op,
			common.NewError(common.KindWalletNotFound, op, errors.New("no wallet selected yet")))
	}
	rt, err := a.wallets.load(name)
	if err != nil {
		a.log.WithFields(logrus.Fields{"wallet": name, "error": err}).Warn("failed to load current wallet")
		return common.NewError(common.KindWalletLoadFailed, op, err)
	}
	a.wallets.release(a.session.attach(rt))
	return nil
}

// Select makes rt the active wallet, without re-checking the credential.
// The switch is complete when Select returns. A nil rt detaches the active wallet.
// A runtime whose wallet is no longer in the inventory is ignored and the active wallet is kept.
func (a *Account) Select(rt wallet.Runtime) {
	a.session.lock.Lock()
	defer a.session.lock.Unlock()

	if rt != nil && rt.Name() != "" {
		exists, err := a.wallets.indexed(rt.Name())
		if err != nil || !exists {
			a.log.WithFields(logrus.Fields{"wallet": rt.Name(), "error": err}).Warn("refusing to select a wallet missing from the inventory")
			return
		}
		a.wallets.adopt(rt)
	}
	a.wallets.release(a.session.attach(rt))
}

// ChangeConnectionSettings persists settings. The previous settings stay in effect on failure.
func (a *Account) ChangeConnectionSettings(ctx context.Context, settings ConnectionSettings) error {
	const op = "account.ChangeConnectionSettings"
	if err := settings.Validate(); err != nil {
		return common.NewError(common.KindInvalidInput, op, err)
	}
	return common.Go(func() error {
		data, err := json.Marshal(&settings)
		if err != nil {
			return common.NewError(common.KindInvalidInput, op, err)
		}
		if err = a.store.Set(securestore.KeyConnectionSettings, data); err != nil {
			return err
		}
		a.log.WithFields(logrus.Fields{"uri": settings.URI, "tls": settings.UseTLS}).Info("connection settings changed")
		return nil
	}).Wait(ctx)
}

func (a *Account) ConnectionSettings() (ConnectionSettings, error) {
	data, ok, err := a.store.Get(securestore.KeyConnectionSettings)
	if err != nil || !ok {
		return a.defaults, err
	}
	var s ConnectionSettings
	if err = json.Unmarshal(data, &s); err != nil {
		return a.defaults, common.NewError(common.KindStorageError, "account.ConnectionSettings", err)
	}
	return s, nil
}

func (a *Account) IsBiometricalAuthAllow() (bool, error) {
	return a.flag(securestore.KeyBiometricAllowed)
}

func (a *Account) SetBiometricalAuthAllow(allow bool) error {
	return a.setFlag(securestore.KeyBiometricAllowed, allow)
}

func (a *Account) IsPasswordRemembered() (bool, error) {
	return a.flag(securestore.KeyPasswordRemembered)
}

func (a *Account) SetPasswordRemembered(remembered bool) error {
	return a.setFlag(securestore.KeyPasswordRemembered, remembered)
}

func (a *Account) flag(key string) (bool, error) {
	data, ok, err := a.store.Get(key)
	if err != nil || !ok {
		return false, err
	}
	return string(data) == "1", nil
}

func (a *Account) setFlag(key string, on bool) error {
	value := []byte("0")
	if on {
		value = []byte("1")
	}
	return a.store.Set(key, value)
}

func (a *Account) TransactionPriority() (wallet.TransactionPriority, error) {
	data, ok, err := a.store.Get(securestore.KeyTxPriority)
	if err != nil || !ok {
		return wallet.PriorityDefault, err
	}
	p, err := wallet.ParseTransactionPriority(string(data))
	if err != nil {
		return wallet.PriorityDefault, common.NewError(common.KindStorageError, "account.TransactionPriority", err)
	}
	return p, nil
}

func (a *Account) SetTransactionPriority(p wallet.TransactionPriority) error {
	if !p.Valid() {
		return common.NewError(common.KindInvalidInput, "account.SetTransactionPriority", errors.New(p.String()))
	}
	return a.store.Set(securestore.KeyTxPriority, []byte(p.String()))
}

// Wallets hands out the registry itself.
func (a *Account) Wallets() *Wallets {
	return a.wallets
}

func (a *Account) WalletsList(ctx context.Context) (WalletsList, error) {
	return a.wallets.WalletsList(ctx)
}

// CurrentWallet is the active wallet handle. Hold it instead of the runtime behind it.
func (a *Account) CurrentWallet() *wallet.Proxy {
	return a.session.proxy
}

func (a *Account) CurrentWalletName() string {
	return a.session.currentName()
}

func (a *Account) IsLogined() bool {
	return a.session.currentName() != ""
}

func (a *Account) HasPassword() (bool, error) {
	return a.store.HasPassword()
}
