package wallet

import (
	"context"

	"github.com/coschain/walletkeeper/common"
)

// EmptyWallet is the runtime behind an unassigned Proxy.
// Reads return zero values, operations needing keys fail with common.ErrNoActiveWallet.
type EmptyWallet struct{}

func (EmptyWallet) Name() string {
	return ""
}

func (EmptyWallet) Address() string {
	return ""
}

func (EmptyWallet) Balance(ctx context.Context) (Balance, error) {
	return Balance{}, nil
}

func (EmptyWallet) Transactions(ctx context.Context) ([]Transaction, error) {
	return nil, nil
}

func (EmptyWallet) CreateTransaction(ctx context.Context, req TransactionRequest) (*PendingTransaction, error) {
	return nil, common.NewError(common.KindNoActiveWallet, "wallet.CreateTransaction", nil)
}

func (EmptyWallet) EstimateFee(ctx context.Context, params FeeParams) (Amount, error) {
	return 0, common.NewError(common.KindNoActiveWallet, "wallet.EstimateFee", nil)
}

func (EmptyWallet) Seed() (string, error) {
	return "", common.NewError(common.KindNoActiveWallet, "wallet.Seed", nil)
}

func (EmptyWallet) Close() error {
	return nil
}
