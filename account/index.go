package account

import (
	"encoding/binary"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/coschain/walletkeeper/common"
	"github.com/coschain/walletkeeper/db/storage"
	"github.com/pkg/errors"
)

type WalletKind int

const (
	WalletCreated WalletKind = iota
	WalletRecovered
)

func (k WalletKind) String() string {
	if k == WalletRecovered {
		return "recovered"
	}
	return "created"
}

// WalletIndex identifies a wallet without loading its runtime.
type WalletIndex struct {
	Name      string     `json:"name"`
	Kind      WalletKind `json:"kind"`
	Seq       uint64     `json:"seq"`
	CreatedAt int64      `json:"created_at"`
}

// WalletsList is a snapshot of the inventory in creation order.
type WalletsList []WalletIndex

func (l WalletsList) Names() []string {
	names := make([]string, len(l))
	for i, w := range l {
		names[i] = w.Name
	}
	return names
}

func (l WalletsList) Find(name string) (WalletIndex, bool) {
	for _, w := range l {
		if w.Name == name {
			return w, true
		}
	}
	return WalletIndex{}, false
}

func (l WalletsList) Contains(name string) bool {
	_, ok := l.Find(name)
	return ok
}

const IndexNamespace = "wallets"

var (
	indexPrefix = []byte("idx/")
	seqKey      = []byte("seq")
)

// indexStore persists WalletIndex entries. Each entry and the sequence counter are written in one batch.
type indexStore struct {
	db   storage.Database
	lock sync.Mutex
}

func newIndexStore(db storage.Database) *indexStore {
	return &indexStore{db: storage.NewNamespace(db, IndexNamespace)}
}

func indexKey(name string) []byte {
	return append(append([]byte{}, indexPrefix...), name...)
}

func (s *indexStore) list() (WalletsList, error) {
	var (
		result WalletsList
		decErr error
	)
	start, limit := storage.PrefixRange(indexPrefix)
	err := s.db.Iterate(start, limit, false, func(key, value []byte) bool {
		var idx WalletIndex
		if decErr = json.Unmarshal(value, &idx); decErr != nil {
			decErr = errors.WithMessage(decErr, string(key))
			return false
		}
		result = append(result, idx)
		return true
	})
	if err == nil {
		err = decErr
	}
	if err != nil {
		return nil, common.NewError(common.KindStorageError, "wallets.list", err)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Seq < result[j].Seq
	})
	return result, nil
}

func (s *indexStore) get(name string) (WalletIndex, bool, error) {
	var idx WalletIndex
	data, err := s.db.Get(indexKey(name))
	if errors.Is(err, storage.ErrNotFound) {
		return idx, false, nil
	}
	if err == nil {
		err = json.Unmarshal(data, &idx)
	}
	if err != nil {
		return idx, false, common.NewError(common.KindStorageError, "wallets.get", errors.WithMessage(err, name))
	}
	return idx, true, nil
}

func (s *indexStore) add(name string, kind WalletKind) (WalletIndex, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	var seq uint64
	data, err := s.db.Get(seqKey)
	if err == nil && len(data) == 8 {
		seq = binary.BigEndian.Uint64(data)
	} else if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return WalletIndex{}, common.NewError(common.KindStorageError, "wallets.add", err)
	}
	seq++

	idx := WalletIndex{Name: name, Kind: kind, Seq: seq, CreatedAt: time.Now().Unix()}
	value, err := json.Marshal(&idx)
	if err != nil {
		return WalletIndex{}, common.NewError(common.KindStorageError, "wallets.add", err)
	}
	var seqData [8]byte
	binary.BigEndian.PutUint64(seqData[:], seq)

	b := s.db.NewBatch()
	defer s.db.DeleteBatch(b)
	_ = b.Put(indexKey(name), value)
	_ = b.Put(seqKey, seqData[:])
	if err = b.Write(); err != nil {
		return WalletIndex{}, common.NewError(common.KindStorageError, "wallets.add", errors.WithMessage(err, name))
	}
	return idx, nil
}

func (s *indexStore) remove(name string) error {
	if err := s.db.Delete(indexKey(name)); err != nil {
		return common.NewError(common.KindStorageError, "wallets.remove", errors.WithMessage(err, name))
	}
	return nil
}
