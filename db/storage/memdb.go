package storage

//
// This file implements Database interface based on map[string][]byte.
//

import (
	"sort"
	"sync"
)

type MemoryDatabase struct {
	db   map[string][]byte
	lock sync.RWMutex
}

func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{db: make(map[string][]byte)}
}

func (db *MemoryDatabase) Close() {

}

//
// DatabaseGetter implementation
//

// check existence of the given key
func (db *MemoryDatabase) Has(key []byte) (bool, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	_, ok := db.db[string(key)]
	return ok, nil
}

// query the value of the given key
func (db *MemoryDatabase) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if value, ok := db.db[string(key)]; ok {
		return copyBytes(value), nil
	}
	return nil, ErrNotFound
}

//
// DatabasePutter implementation
//

// insert a new key-value pair, or update the value if the given key already exists
func (db *MemoryDatabase) Put(key []byte, value []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	db.db[string(key)] = copyBytes(value)
	return nil
}

//
// DatabaseDeleter implementation
//

// delete the given key and its value
func (db *MemoryDatabase) Delete(key []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	delete(db.db, string(key))
	return nil
}

//
// DatabaseScanner implementation
//

func (db *MemoryDatabase) Iterate(start, limit []byte, reverse bool, callback func(key, value []byte) bool) error {
	db.lock.RLock()
	keys := []string{}
	data := make(map[string][]byte)
	for k := range db.db {
		if start != nil && k < string(start) {
			continue
		}
		if limit != nil && k >= string(limit) {
			continue
		}
		keys = append(keys, k)
		data[k] = copyBytes(db.db[k])
	}
	db.lock.RUnlock()

	if reverse {
		sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	} else {
		sort.Strings(keys)
	}
	for _, k := range keys {
		if callback != nil && !callback([]byte(k), data[k]) {
			break
		}
	}
	return nil
}

//
// DatabaseBatcher implementation
//

func (db *MemoryDatabase) NewBatch() Batch {
	return &memoryDatabaseBatch{db: db}
}

func (db *MemoryDatabase) DeleteBatch(b Batch) {

}

//
// Batch implementation
//

type memoryDatabaseOp struct {
	key, value []byte
	del        bool
}

type memoryDatabaseBatch struct {
	db  *MemoryDatabase
	ops []memoryDatabaseOp
}

// execute all batched operations
func (b *memoryDatabaseBatch) Write() error {
	b.db.lock.Lock()
	defer b.db.lock.Unlock()

	for _, op := range b.ops {
		if op.del {
			delete(b.db.db, string(op.key))
		} else {
			b.db.db[string(op.key)] = op.value
		}
	}
	return nil
}

// reset the batch to empty
func (b *memoryDatabaseBatch) Reset() {
	b.ops = b.ops[:0]
}

func (b *memoryDatabaseBatch) Put(key []byte, value []byte) error {
	b.ops = append(b.ops, memoryDatabaseOp{key: copyBytes(key), value: copyBytes(value)})
	return nil
}

func (b *memoryDatabaseBatch) Delete(key []byte) error {
	b.ops = append(b.ops, memoryDatabaseOp{key: copyBytes(key), del: true})
	return nil
}
