package wallet

import (
	"context"
	"sync"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
)

// TopicRetargeted is published with (previous, next string) wallet names on every retarget.
const TopicRetargeted = "wallet:retargeted"

// ErrHandleClose is returned by Proxy.Close. The active wallet is detached by its owner, not by holders.
var ErrHandleClose = errors.New("the active wallet handle cannot be closed")

// Retargeter swaps the target of the Proxy it was issued with and returns the previous target.
// A nil rt empties the Proxy. Subscribers are notified before it returns.
type Retargeter func(rt Runtime) Runtime

// Proxy is the active wallet. It forwards every call to its current target,
// which is swapped by its owner's Retargeter without invalidating references to the Proxy.
type Proxy struct {
	target Runtime
	bus    EventBus.Bus
	lock   sync.RWMutex
}

// NewProxy returns an empty Proxy and the only function able to retarget it.
func NewProxy(bus EventBus.Bus) (*Proxy, Retargeter) {
	if bus == nil {
		bus = EventBus.New()
	}
	p := &Proxy{target: EmptyWallet{}, bus: bus}
	return p, p.retarget
}

func (p *Proxy) retarget(rt Runtime) Runtime {
	if rt == nil {
		rt = EmptyWallet{}
	}
	p.lock.Lock()
	prev := p.target
	p.target = rt
	p.lock.Unlock()

	p.bus.Publish(TopicRetargeted, prev.Name(), rt.Name())
	return prev
}

// Subscribe registers fn for retarget notifications. Pass the same fn to Unsubscribe.
func (p *Proxy) Subscribe(fn func(prev, next string)) error {
	return p.bus.Subscribe(TopicRetargeted, fn)
}

func (p *Proxy) Unsubscribe(fn func(prev, next string)) error {
	return p.bus.Unsubscribe(TopicRetargeted, fn)
}

func (p *Proxy) current() Runtime {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.target
}

// IsEmpty reports whether no wallet is attached.
func (p *Proxy) IsEmpty() bool {
	_, empty := p.current().(EmptyWallet)
	return empty
}

// Is reports whether rt is the current target.
func (p *Proxy) Is(rt Runtime) bool {
	return rt != nil && p.current() == rt
}

func (p *Proxy) Name() string {
	return p.current().Name()
}

func (p *Proxy) Address() string {
	return p.current().Address()
}

func (p *Proxy) Balance(ctx context.Context) (Balance, error) {
	return p.current().Balance(ctx)
}

func (p *Proxy) Transactions(ctx context.Context) ([]Transaction, error) {
	return p.current().Transactions(ctx)
}

func (p *Proxy) CreateTransaction(ctx context.Context, req TransactionRequest) (*PendingTransaction, error) {
	return p.current().CreateTransaction(ctx, req)
}

func (p *Proxy) EstimateFee(ctx context.Context, params FeeParams) (Amount, error) {
	return p.current().EstimateFee(ctx, params)
}

func (p *Proxy) Seed() (string, error) {
	return p.current().Seed()
}

// Close always fails and leaves the target attached.
func (p *Proxy) Close() error {
	return ErrHandleClose
}
