package storage

import "errors"

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("storage: not found")

// interface for insertion and updating
type DatabasePutter interface {
	// insert a new key-value pair, or update the value if the given key already exists
	Put(key []byte, value []byte) error
}

// interface for deletion
type DatabaseDeleter interface {
	// delete the given key and its value
	Delete(key []byte) error
}

// interface for key & value query
type DatabaseGetter interface {
	// check existence of the given key
	Has(key []byte) (bool, error)

	// query the value of the given key, ErrNotFound if absent
	Get(key []byte) ([]byte, error)
}

// interface for key-space range scan
type DatabaseScanner interface {
	// visit keys in [start, limit) in ascending order, or descending if reverse is set.
	// a nil start is the logical minimal key, a nil limit is the logical maximum key.
	// iteration stops when callback returns false.
	Iterate(start, limit []byte, reverse bool, callback func(key, value []byte) bool) error
}

// interface for transactional execution of multiple writes
type DatabaseBatcher interface {
	// create a batch which can pack DatabasePutter & DatabaseDeleter operations and execute them atomically
	NewBatch() Batch

	// release a Batch
	DeleteBatch(b Batch)
}

// interface for transaction executor
type Batch interface {
	DatabasePutter
	DatabaseDeleter

	// execute all batched operations
	Write() error

	// reset the batch to empty
	Reset()
}

// interface for full functional database
type Database interface {
	DatabaseGetter
	DatabasePutter
	DatabaseDeleter
	DatabaseScanner
	DatabaseBatcher
	Close()
}
