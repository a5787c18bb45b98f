package local

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"sync"
	"time"

	"github.com/coschain/walletkeeper/wallet"
	"github.com/ethereum/go-ethereum/crypto"
)

// BaseFee is the fee of a default-priority transfer.
const BaseFee wallet.Amount = 1000

var feeMultipliers = map[wallet.TransactionPriority]wallet.Amount{
	wallet.PrioritySlow:    1,
	wallet.PriorityDefault: 2,
	wallet.PriorityFast:    4,
	wallet.PriorityFastest: 8,
}

// Wallet is an offline runtime: it holds one derived key, signs transactions
// and keeps the history of what it signed. It has no chain state, so balances
// only reflect signed outgoing transfers.
type Wallet struct {
	name      string
	address   string
	recovered bool
	createdAt int64
	key       *keyPair
	mnemonic  string
	history   []wallet.Transaction
	nonce     uint64
	closed    bool
	mu        sync.RWMutex
}

func newWallet(kf *keyFile, kp *keyPair, mnemonic string) *Wallet {
	return &Wallet{
		name:      kf.Name,
		address:   kf.Address,
		recovered: kf.Recovered,
		createdAt: kf.CreatedAt,
		key:       kp,
		mnemonic:  mnemonic,
	}
}

func (w *Wallet) Name() string {
	return w.name
}

func (w *Wallet) Address() string {
	return w.address
}

func (w *Wallet) Recovered() bool {
	return w.recovered
}

func (w *Wallet) Balance(ctx context.Context) (wallet.Balance, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return wallet.Balance{}, &ClosedWalletError{Name: w.name}
	}
	var locked wallet.Amount
	for _, tx := range w.history {
		if tx.Direction == wallet.Outgoing {
			locked += tx.Amount + tx.Fee
		}
	}
	return wallet.Balance{Locked: locked}, nil
}

func (w *Wallet) Transactions(ctx context.Context) ([]wallet.Transaction, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return nil, &ClosedWalletError{Name: w.name}
	}
	txs := make([]wallet.Transaction, len(w.history))
	copy(txs, w.history)
	return txs, nil
}

func (w *Wallet) EstimateFee(ctx context.Context, params wallet.FeeParams) (wallet.Amount, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return 0, &ClosedWalletError{Name: w.name}
	}
	return estimateFee(params.Priority)
}

func estimateFee(p wallet.TransactionPriority) (wallet.Amount, error) {
	m, ok := feeMultipliers[p]
	if !ok {
		return 0, &InvalidTransactionError{Reason: "unknown priority " + p.String()}
	}
	return BaseFee * m, nil
}

func (w *Wallet) CreateTransaction(ctx context.Context, req wallet.TransactionRequest) (*wallet.PendingTransaction, error) {
	if req.To == "" {
		return nil, &InvalidTransactionError{Reason: "empty receiver"}
	}
	if req.Amount == 0 {
		return nil, &InvalidTransactionError{Reason: "zero amount"}
	}
	fee, err := estimateFee(req.Priority)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, &ClosedWalletError{Name: w.name}
	}
	w.nonce++
	digest := crypto.Keccak256(w.payload(req, fee, w.nonce))
	sig, err := crypto.Sign(digest, w.key.priv)
	if err != nil {
		return nil, err
	}
	tx := &wallet.PendingTransaction{
		ID:        hex.EncodeToString(digest),
		From:      w.address,
		To:        req.To,
		Amount:    req.Amount,
		Fee:       fee,
		Signature: sig,
	}
	w.history = append(w.history, wallet.Transaction{
		ID:        tx.ID,
		Direction: wallet.Outgoing,
		Amount:    tx.Amount,
		Fee:       tx.Fee,
		Timestamp: time.Now().Unix(),
	})
	return tx, nil
}

func (w *Wallet) payload(req wallet.TransactionRequest, fee wallet.Amount, nonce uint64) []byte {
	var num [8]byte
	var buf []byte
	buf = append(buf, w.address...)
	buf = append(buf, 0)
	buf = append(buf, req.To...)
	buf = append(buf, 0)
	binary.BigEndian.PutUint64(num[:], uint64(req.Amount))
	buf = append(buf, num[:]...)
	binary.BigEndian.PutUint64(num[:], uint64(fee))
	buf = append(buf, num[:]...)
	binary.BigEndian.PutUint64(num[:], nonce)
	buf = append(buf, num[:]...)
	return append(buf, req.Memo...)
}

func (w *Wallet) Seed() (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return "", &ClosedWalletError{Name: w.name}
	}
	return w.mnemonic, nil
}

// Close drops the key material. Closing twice is a no-op.
func (w *Wallet) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	w.key = nil
	w.mnemonic = ""
	return nil
}
