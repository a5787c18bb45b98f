package wallet

//go:generate mockgen -destination mock/wallet.go -package mock_wallet github.com/coschain/walletkeeper/wallet Runtime,Gateway

import (
	"context"
	"errors"
)

var (
	// ErrDecrypt is returned by a Gateway when stored key material cannot be opened with the given secret.
	ErrDecrypt = errors.New("could not decrypt wallet with given secret")

	// ErrInvalidMaterial is returned by a Gateway when recovery material is malformed.
	ErrInvalidMaterial = errors.New("invalid recovery material")

	// ErrNotExist is returned by a Gateway when the named wallet has no backing files.
	ErrNotExist = errors.New("wallet does not exist")

	// ErrExist is returned by a Gateway when the named wallet already has backing files.
	ErrExist = errors.New("wallet already exists")
)

// Runtime is one opened wallet: keys, balance and transactions of a single named wallet.
type Runtime interface {
	Name() string

	Address() string

	Balance(ctx context.Context) (Balance, error)

	Transactions(ctx context.Context) ([]Transaction, error)

	CreateTransaction(ctx context.Context, req TransactionRequest) (*PendingTransaction, error)

	EstimateFee(ctx context.Context, params FeeParams) (Amount, error)

	Seed() (string, error) // the recovery phrase

	Close() error
}

// Gateway creates, recovers, opens and destroys wallet runtimes by name.
// The secret seals the runtime's key material and is owned by the caller.
type Gateway interface {
	Create(ctx context.Context, name string, secret []byte) (Runtime, error)

	Recover(ctx context.Context, name string, material RecoveryMaterial, secret []byte) (Runtime, error)

	Open(ctx context.Context, name string, secret []byte) (Runtime, error)

	Remove(ctx context.Context, name string) error

	Exists(name string) bool
}
