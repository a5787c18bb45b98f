package account

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coschain/walletkeeper/common"
	"github.com/coschain/walletkeeper/securestore"
	"github.com/coschain/walletkeeper/wallet"
	"github.com/coschain/walletkeeper/wallet/mock"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDuplicateName(t *testing.T) {
	myassert := assert.New(t)
	ctx := context.Background()
	w := newFixture(t, nil).wallets

	_, err := w.Create(ctx, "A")
	require.NoError(t, err)
	_, err = w.Create(ctx, "A")
	myassert.True(errors.Is(err, common.ErrNameAlreadyExists))
	_, err = w.Recover(ctx, "A", wallet.RecoveryMaterial{Mnemonic: testMnemonic})
	myassert.True(errors.Is(err, common.ErrNameAlreadyExists))

	// names are case-sensitive
	_, err = w.Create(ctx, "a")
	myassert.NoError(err)

	list, err := w.WalletsList(ctx)
	myassert.NoError(err)
	myassert.Equal([]string{"A", "a"}, list.Names())
}

func TestConcurrentCreateSameName(t *testing.T) {
	ctx := context.Background()
	w := newFixture(t, nil).wallets

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		collided  int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := w.Create(ctx, "same")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if errors.Is(err, common.ErrNameAlreadyExists) {
				collided++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 7, collided)

	list, _ := w.WalletsList(ctx)
	assert.Len(t, list, 1)
}

func TestWalletsListOrder(t *testing.T) {
	myassert := assert.New(t)
	ctx := context.Background()
	f := newFixture(t, nil)
	w := f.wallets

	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := w.Create(ctx, name)
		require.NoError(t, err)
	}
	list, err := w.WalletsList(ctx)
	myassert.NoError(err)
	myassert.Equal([]string{"zeta", "alpha", "mid"}, list.Names())
	idx, ok := list.Find("alpha")
	myassert.True(ok)
	myassert.Equal(WalletCreated, idx.Kind)

	require.NoError(t, w.RemoveWallet(ctx, idx))
	_, err = w.Recover(ctx, "alpha", wallet.RecoveryMaterial{Mnemonic: testMnemonic})
	require.NoError(t, err)

	// the snapshot taken earlier is not updated, a new one is
	myassert.Equal([]string{"zeta", "alpha", "mid"}, list.Names())
	list, _ = w.WalletsList(ctx)
	myassert.Equal([]string{"zeta", "mid", "alpha"}, list.Names())
	idx, _ = list.Find("alpha")
	myassert.Equal(WalletRecovered, idx.Kind)

	// order is persisted
	f.reopen(t)
	list, _ = f.wallets.WalletsList(ctx)
	myassert.Equal([]string{"zeta", "mid", "alpha"}, list.Names())
}

func TestInvalidNames(t *testing.T) {
	ctx := context.Background()
	w := newFixture(t, nil).wallets
	for _, name := range []string{"", "../up", "a/b", `a\b`, ".dot", strings.Repeat("x", MaxWalletNameLength+1)} {
		_, err := w.Create(ctx, name)
		assert.True(t, errors.Is(err, common.ErrInvalidInput), name)
	}
	_, err := w.Create(ctx, strings.Repeat("x", MaxWalletNameLength))
	assert.NoError(t, err)
}

func TestRecoverBadSeed(t *testing.T) {
	myassert := assert.New(t)
	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.wallets.Recover(ctx, "wallet2", wallet.RecoveryMaterial{Mnemonic: badMnemonic})
	myassert.True(errors.Is(err, common.ErrInvalidRecoveryMaterial))

	list, err := f.wallets.WalletsList(ctx)
	myassert.NoError(err)
	myassert.False(list.Contains("wallet2"))
	_, ok, _ := f.store.Get(securestore.WalletSecretKey("wallet2"))
	myassert.False(ok)
}

func TestLoadWallet(t *testing.T) {
	myassert := assert.New(t)
	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.wallets.LoadWallet(ctx, "ghost")
	myassert.True(errors.Is(err, common.ErrWalletNotFound))

	created, err := f.wallets.Create(ctx, "main")
	require.NoError(t, err)

	f.reopen(t)
	loaded, err := f.wallets.LoadWallet(ctx, "main")
	require.NoError(t, err)
	myassert.Equal(created.Address(), loaded.Address())
	// opening does not change the active wallet
	myassert.False(f.account.IsLogined())

	again, err := f.wallets.LoadWallet(ctx, "main")
	myassert.NoError(err)
	myassert.True(loaded == again)
}

func TestLoadWalletMissingSecret(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	_, err := f.wallets.Create(ctx, "main")
	require.NoError(t, err)
	require.NoError(t, f.store.Delete(securestore.WalletSecretKey("main")))

	f.reopen(t)
	_, err = f.wallets.LoadWallet(ctx, "main")
	assert.True(t, errors.Is(err, common.ErrDecryptionFailed))
}

func TestLoadWalletWrongSecret(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	_, err := f.wallets.Create(ctx, "main")
	require.NoError(t, err)
	require.NoError(t, f.store.Set(securestore.WalletSecretKey("main"), []byte("not the secret")))

	f.reopen(t)
	_, err = f.wallets.LoadWallet(ctx, "main")
	assert.True(t, errors.Is(err, common.ErrDecryptionFailed))
}

func TestRemoveActiveWallet(t *testing.T) {
	myassert := assert.New(t)
	ctx := context.Background()
	f := newFixture(t, nil)
	acc := f.account
	require.NoError(t, acc.Setup(ctx, "pw1"))

	rt, err := acc.Wallets().Create(ctx, "main")
	require.NoError(t, err)
	acc.Select(rt)
	held := acc.CurrentWallet()

	list, _ := acc.WalletsList(ctx)
	idx, _ := list.Find("main")
	require.NoError(t, acc.Wallets().RemoveWallet(ctx, idx))

	myassert.False(acc.IsLogined())
	myassert.Equal("", acc.CurrentWalletName())
	myassert.True(held.IsEmpty())

	_, err = held.EstimateFee(ctx, wallet.FeeParams{})
	myassert.True(errors.Is(err, common.ErrNoActiveWallet))
	b, err := held.Balance(ctx)
	myassert.NoError(err)
	myassert.Equal(wallet.Amount(0), b.Total())

	_, err = acc.Wallets().EstimatedFee(ctx, wallet.FeeParams{})
	myassert.True(errors.Is(err, common.ErrNoActiveWallet))
	myassert.True(common.IsFault(err))

	// the removed runtime was closed and everything it owned is gone
	_, err = rt.Seed()
	myassert.Error(err)
	myassert.False(f.gateway.Exists("main"))
	_, ok, _ := f.store.Get(securestore.WalletSecretKey("main"))
	myassert.False(ok)

	// nothing left to log into
	err = acc.Login(ctx, "pw1")
	myassert.True(errors.Is(err, common.ErrWalletNotFound))
	myassert.False(acc.IsLogined())

	myassert.True(errors.Is(acc.Wallets().RemoveWallet(ctx, idx), common.ErrWalletNotFound))
}

func TestRemoveInactiveWallet(t *testing.T) {
	myassert := assert.New(t)
	ctx := context.Background()
	acc := newFixture(t, nil).account

	w1, err := acc.Wallets().Create(ctx, "w1")
	require.NoError(t, err)
	_, err = acc.Wallets().Create(ctx, "w2")
	require.NoError(t, err)
	acc.Select(w1)

	require.NoError(t, acc.Wallets().RemoveWallet(ctx, WalletIndex{Name: "w2"}))
	myassert.Equal("w1", acc.CurrentWalletName())
	_, err = acc.CurrentWallet().Seed()
	myassert.NoError(err)
}

func TestRemoveIndexFailureIsRetryable(t *testing.T) {
	myassert := assert.New(t)
	ctx := context.Background()
	f := newFixture(t, nil)
	acc := f.account

	rt, err := acc.Wallets().Create(ctx, "main")
	require.NoError(t, err)
	acc.Select(rt)

	f.failWrites(IndexNamespace)
	err = acc.Wallets().RemoveWallet(ctx, WalletIndex{Name: "main"})
	myassert.True(errors.Is(err, common.ErrStorage))
	// a failed remove keeps the session
	myassert.True(acc.IsLogined())
	list, _ := acc.WalletsList(ctx)
	myassert.True(list.Contains("main"))

	f.failWrites("")
	myassert.NoError(acc.Wallets().RemoveWallet(ctx, WalletIndex{Name: "main"}))
	myassert.False(acc.IsLogined())
	list, _ = acc.WalletsList(ctx)
	myassert.False(list.Contains("main"))
}

func TestCreateIndexFailureRollsBack(t *testing.T) {
	myassert := assert.New(t)
	ctx := context.Background()
	f := newFixture(t, nil)

	f.failWrites(IndexNamespace)
	_, err := f.wallets.Create(ctx, "main")
	myassert.True(errors.Is(err, common.ErrStorage))
	myassert.False(f.gateway.Exists("main"))
	_, ok, _ := f.store.Get(securestore.WalletSecretKey("main"))
	myassert.False(ok)

	f.failWrites("")
	_, err = f.wallets.Create(ctx, "main")
	myassert.NoError(err)
}

func TestCreateSecretFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.failWrites(securestore.Namespace)

	_, err := f.wallets.Create(ctx, "main")
	assert.True(t, errors.Is(err, common.ErrStorage))
	assert.False(t, f.gateway.Exists("main"))
}

func TestGatewayFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	myassert := assert.New(t)
	ctx := context.Background()

	gw := mock_wallet.NewMockGateway(ctrl)
	f := newFixture(t, gw)

	gw.EXPECT().Create(gomock.Any(), "broken", gomock.Any()).Return(nil, errors.New("engine down"))
	_, err := f.wallets.Create(ctx, "broken")
	myassert.True(errors.Is(err, common.ErrCreationFailed))
	_, ok, _ := f.store.Get(securestore.WalletSecretKey("broken"))
	myassert.False(ok)

	// leftover files of an unknown wallet count as a collision
	gw.EXPECT().Create(gomock.Any(), "orphan", gomock.Any()).Return(nil, wallet.ErrExist)
	_, err = f.wallets.Create(ctx, "orphan")
	myassert.True(errors.Is(err, common.ErrNameAlreadyExists))

	rt := mock_wallet.NewMockRuntime(ctrl)
	rt.EXPECT().Name().Return("main").AnyTimes()
	gw.EXPECT().Create(gomock.Any(), "main", gomock.Any()).Return(rt, nil)
	_, err = f.wallets.Create(ctx, "main")
	require.NoError(t, err)

	// the secret handed to the gateway at creation opens the wallet later
	var secret []byte
	gw.EXPECT().Create(gomock.Any(), "second", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, s []byte) (wallet.Runtime, error) {
			secret = s
			rt2 := mock_wallet.NewMockRuntime(ctrl)
			rt2.EXPECT().Name().Return("second").AnyTimes()
			rt2.EXPECT().Close().Return(nil).AnyTimes()
			return rt2, nil
		})
	_, err = f.wallets.Create(ctx, "second")
	require.NoError(t, err)

	f.reopen(t)
	gw.EXPECT().Open(gomock.Any(), "second", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, s []byte) (wallet.Runtime, error) {
			myassert.Equal(secret, s)
			return nil, wallet.ErrDecrypt
		})
	_, err = f.wallets.LoadWallet(ctx, "second")
	myassert.True(errors.Is(err, common.ErrDecryptionFailed))

	gw.EXPECT().Open(gomock.Any(), "main", gomock.Any()).Return(nil, errors.New("corrupted"))
	_, err = f.wallets.LoadWallet(ctx, "main")
	myassert.True(errors.Is(err, common.ErrCreationFailed))
}

func TestFetchSeed(t *testing.T) {
	myassert := assert.New(t)
	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.wallets.Recover(ctx, "main", wallet.RecoveryMaterial{Mnemonic: testMnemonic})
	require.NoError(t, err)

	f.reopen(t)
	seed, err := f.wallets.FetchSeed(ctx, WalletIndex{Name: "main"})
	myassert.NoError(err)
	myassert.Equal(testMnemonic, seed)

	_, err = f.wallets.FetchSeed(ctx, WalletIndex{Name: "ghost"})
	myassert.True(errors.Is(err, common.ErrWalletNotFound))
}

func TestEstimatedFeeForwardsToActiveWallet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()
	f := newFixture(t, nil)

	rt := mock_wallet.NewMockRuntime(ctrl)
	rt.EXPECT().Name().Return("mocked").AnyTimes()
	params := wallet.FeeParams{Priority: wallet.PriorityFast, Amount: 10}
	rt.EXPECT().EstimateFee(gomock.Any(), params).Return(wallet.Amount(42), nil)
	rt.EXPECT().EstimateFee(gomock.Any(), gomock.Any()).Return(wallet.Amount(0), errors.New("node unreachable"))

	_, err := f.wallets.index.add("mocked", WalletCreated)
	require.NoError(t, err)
	f.account.Select(rt)
	fee, err := f.wallets.EstimatedFee(ctx, params)
	assert.NoError(t, err)
	assert.Equal(t, wallet.Amount(42), fee)

	_, err = f.wallets.EstimatedFee(ctx, wallet.FeeParams{})
	assert.EqualError(t, err, "node unreachable")
}

func TestCacheEvictionClosesInactiveWallets(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFixture(t, nil)

	active := mock_wallet.NewMockRuntime(ctrl)
	active.EXPECT().Name().Return("active").AnyTimes()
	_, err := f.wallets.index.add("active", WalletCreated)
	require.NoError(t, err)
	f.account.Select(active)

	// cache size is 4: "d" pushes the active one out but it stays open, "e" pushes out and closes "a"
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		rt := mock_wallet.NewMockRuntime(ctrl)
		rt.EXPECT().Name().Return(name).AnyTimes()
		if name == "a" {
			rt.EXPECT().Close().Return(nil).Times(1)
		}
		f.wallets.adopt(rt)
	}
	assert.Equal(t, "active", f.account.CurrentWalletName())

	// switching away from an evicted runtime closes it
	active.EXPECT().Close().Return(nil).Times(1)
	f.account.Select(nil)
}

func TestNameLocks(t *testing.T) {
	l := newNameLocks()
	l.lock("a")
	l.lock("b") // different names don't block

	acquired := make(chan struct{})
	go func() {
		l.lock("a")
		close(acquired)
		l.unlock("a")
	}()
	select {
	case <-acquired:
		t.Fatal("same name acquired twice")
	case <-time.After(50 * time.Millisecond):
	}
	l.unlock("a")
	select {
	case <-acquired:
	case <-time.After(5 * time.Second):
		t.Fatal("waiter never woke up")
	}
	l.unlock("b")
}
