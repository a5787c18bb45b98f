package account

import (
	"sync"

	mapset "github.com/deckarep/golang-set"
	"github.com/sasha-s/go-deadlock"
)

// nameLocks serializes operations on the same wallet name.
// Operations on different names proceed concurrently.
type nameLocks struct {
	mu       deadlock.Mutex
	cond     *sync.Cond
	inflight mapset.Set
}

func newNameLocks() *nameLocks {
	l := &nameLocks{inflight: mapset.NewThreadUnsafeSet()}
	l.cond = sync.NewCond(&l.mu)
	return l
}

func (l *nameLocks) lock(name string) {
	l.mu.Lock()
	for l.inflight.Contains(name) {
		l.cond.Wait()
	}
	l.inflight.Add(name)
	l.mu.Unlock()
}

func (l *nameLocks) unlock(name string) {
	l.mu.Lock()
	l.inflight.Remove(name)
	l.mu.Unlock()
	l.cond.Broadcast()
}
