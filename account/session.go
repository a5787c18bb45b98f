package account

import (
	"sync"

	"github.com/coschain/walletkeeper/securestore"
	"github.com/coschain/walletkeeper/wallet"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// session is the active-wallet state shared by Account and Wallets.
// lock is the single writer lock: it is held by every operation that may retarget the proxy,
// and always taken before a wallet name lock.
type session struct {
	lock     deadlock.Mutex
	rw       sync.RWMutex // guards current for lock-free readers
	current  string
	proxy    *wallet.Proxy
	retarget wallet.Retargeter
	store    *securestore.Store
	log      *logrus.Logger
}

func (s *session) currentName() string {
	s.rw.RLock()
	defer s.rw.RUnlock()
	return s.current
}

// attach retargets the proxy to rt and records it as the last selected wallet.
// Must be called with lock held. Returns the previous target.
func (s *session) attach(rt wallet.Runtime) wallet.Runtime {
	name := ""
	if rt != nil {
		name = rt.Name()
	}
	if name == "" {
		rt = nil
	}

	// observers notified by retarget already see the new name
	s.rw.Lock()
	s.current = name
	s.rw.Unlock()
	prev := s.retarget(rt)

	if name != "" {
		if err := s.store.Set(securestore.KeyLastWallet, []byte(name)); err != nil {
			s.log.WithFields(logrus.Fields{"wallet": name, "error": err}).Warn("failed to remember last wallet")
		}
	}
	s.log.WithFields(logrus.Fields{"previous": prev.Name(), "current": name}).Info("active wallet changed")
	return prev
}

// detach empties the proxy if name is the active wallet. Must be called with lock held.
func (s *session) detach(name string) (wallet.Runtime, bool) {
	if s.currentName() != name || name == "" {
		return nil, false
	}
	return s.attach(nil), true
}

func (s *session) lastWallet() (string, bool, error) {
	data, ok, err := s.store.Get(securestore.KeyLastWallet)
	if err != nil || !ok {
		return "", false, err
	}
	return string(data), true, nil
}

// forget clears the last selected wallet if it is name.
func (s *session) forget(name string) {
	last, ok, err := s.lastWallet()
	if err == nil && ok && last == name {
		err = s.store.Delete(securestore.KeyLastWallet)
	}
	if err != nil {
		s.log.WithFields(logrus.Fields{"wallet": name, "error": err}).Warn("failed to forget last wallet")
	}
}
