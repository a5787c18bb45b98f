package wallet

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

const (
	CoinSymbol    = "COS"
	TokenDecimals = 1000000
)

// Amount is a token amount in the smallest unit.
type Amount uint64

func (a Amount) String() string {
	return fmt.Sprintf("%d.%06d %s", uint64(a)/TokenDecimals, uint64(a)%TokenDecimals, CoinSymbol)
}

type Balance struct {
	Available Amount
	Locked    Amount
}

func (b Balance) Total() Amount {
	return b.Available + b.Locked
}

type TransactionPriority int

const (
	PrioritySlow TransactionPriority = iota
	PriorityDefault
	PriorityFast
	PriorityFastest
)

var priorityNames = []string{"slow", "default", "fast", "fastest"}

func (p TransactionPriority) String() string {
	if p >= PrioritySlow && p <= PriorityFastest {
		return priorityNames[p]
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

func (p TransactionPriority) Valid() bool {
	return p >= PrioritySlow && p <= PriorityFastest
}

// ParseTransactionPriority accepts a priority name, case-insensitively.
func ParseTransactionPriority(s string) (TransactionPriority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range priorityNames {
		if name == s {
			return TransactionPriority(i), nil
		}
	}
	return PriorityDefault, errors.Errorf("unknown transaction priority %q", s)
}

type FeeParams struct {
	Priority TransactionPriority
	Amount   Amount
	To       string
}

type TransactionRequest struct {
	To       string
	Amount   Amount
	Priority TransactionPriority
	Memo     string
}

type PendingTransaction struct {
	ID        string
	From      string
	To        string
	Amount    Amount
	Fee       Amount
	Signature []byte
}

type Direction int

const (
	Incoming Direction = iota
	Outgoing
)

func (d Direction) String() string {
	if d == Incoming {
		return "in"
	}
	return "out"
}

type Transaction struct {
	ID        string
	Direction Direction
	Amount    Amount
	Fee       Amount
	Timestamp int64
}

// RecoveryMaterial rebuilds a wallet. Mnemonic is a bip39 phrase.
type RecoveryMaterial struct {
	Mnemonic string
}
