package wallet_test

import (
	"context"
	"errors"
	"testing"

	"github.com/coschain/walletkeeper/common"
	"github.com/coschain/walletkeeper/wallet"
	"github.com/coschain/walletkeeper/wallet/mock"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestEmptyProxy(t *testing.T) {
	myassert := assert.New(t)
	ctx := context.Background()
	p, _ := wallet.NewProxy(nil)

	myassert.True(p.IsEmpty())
	myassert.Equal("", p.Name())

	b, err := p.Balance(ctx)
	myassert.NoError(err)
	myassert.Equal(wallet.Amount(0), b.Total())

	txs, err := p.Transactions(ctx)
	myassert.NoError(err)
	myassert.Empty(txs)

	_, err = p.EstimateFee(ctx, wallet.FeeParams{Priority: wallet.PriorityFast})
	myassert.True(errors.Is(err, common.ErrNoActiveWallet))
	myassert.True(common.IsFault(err))

	_, err = p.Seed()
	myassert.True(errors.Is(err, common.ErrNoActiveWallet))

	_, err = p.CreateTransaction(ctx, wallet.TransactionRequest{To: "bob", Amount: 1})
	myassert.True(errors.Is(err, common.ErrNoActiveWallet))
}

func TestProxyForwardsToCurrentTarget(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	myassert := assert.New(t)
	ctx := context.Background()

	w1 := mock_wallet.NewMockRuntime(ctrl)
	w1.EXPECT().Name().Return("w1").AnyTimes()
	w1.EXPECT().Balance(gomock.Any()).Return(wallet.Balance{Available: 100}, nil).Times(1)

	w2 := mock_wallet.NewMockRuntime(ctrl)
	w2.EXPECT().Name().Return("w2").AnyTimes()
	w2.EXPECT().Balance(gomock.Any()).Return(wallet.Balance{Available: 200}, nil).Times(1)

	p, retarget := wallet.NewProxy(nil)
	held := p

	prev := retarget(w1)
	myassert.Equal(wallet.EmptyWallet{}, prev)
	b, _ := held.Balance(ctx)
	myassert.Equal(wallet.Amount(100), b.Available)
	myassert.True(p.Is(w1))

	prev = retarget(w2)
	myassert.Equal(w1, prev)
	b, _ = held.Balance(ctx)
	myassert.Equal(wallet.Amount(200), b.Available)
	myassert.Equal("w2", held.Name())
	myassert.False(p.Is(w1))
	myassert.False(p.IsEmpty())
}

func TestProxyRetargetNotifies(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	myassert := assert.New(t)

	w1 := mock_wallet.NewMockRuntime(ctrl)
	w1.EXPECT().Name().Return("w1").AnyTimes()

	p, retarget := wallet.NewProxy(nil)
	var events [][2]string
	fn := func(prev, next string) {
		// observers may read the proxy from inside the notification
		myassert.Equal(next, p.Name())
		events = append(events, [2]string{prev, next})
	}
	myassert.NoError(p.Subscribe(fn))

	retarget(w1)
	myassert.Equal([][2]string{{"", "w1"}}, events)

	retarget(nil)
	myassert.True(p.IsEmpty())
	myassert.Equal([][2]string{{"", "w1"}, {"w1", ""}}, events)

	myassert.NoError(p.Unsubscribe(fn))
	retarget(w1)
	myassert.Len(events, 2)
}

// holders of the handle can neither close nor empty it
func TestProxyCloseKeepsTarget(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	myassert := assert.New(t)

	w1 := mock_wallet.NewMockRuntime(ctrl)
	w1.EXPECT().Name().Return("w1").AnyTimes()
	w1.EXPECT().Close().Times(0)

	p, retarget := wallet.NewProxy(nil)
	retarget(w1)
	err := p.Close()
	myassert.True(errors.Is(err, wallet.ErrHandleClose))
	myassert.False(p.IsEmpty())
	myassert.True(p.Is(w1))
	myassert.Equal("w1", p.Name())
}

func TestTransactionPriority(t *testing.T) {
	myassert := assert.New(t)
	for _, p := range []wallet.TransactionPriority{wallet.PrioritySlow, wallet.PriorityDefault, wallet.PriorityFast, wallet.PriorityFastest} {
		parsed, err := wallet.ParseTransactionPriority(p.String())
		myassert.NoError(err)
		myassert.Equal(p, parsed)
		myassert.True(p.Valid())
	}
	_, err := wallet.ParseTransactionPriority("turbo")
	myassert.Error(err)
	myassert.False(wallet.TransactionPriority(9).Valid())
}

func TestAmountString(t *testing.T) {
	assert.Equal(t, "1.500000 COS", wallet.Amount(1500000).String())
	assert.Equal(t, "0.000001 COS", wallet.Amount(1).String())
}
