package securestore

import (
	"encoding/json"
	"sync"

	"github.com/coocood/freecache"
	"github.com/coschain/walletkeeper/common"
	"github.com/coschain/walletkeeper/db/storage"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// sealed values are small (flags, settings, 32-byte secrets), 1MB holds thousands of them.
	sCacheMaxSize = 1024 * 1024

	// name of the storage namespace holding sealed values
	Namespace = "secure"
)

// Store is the durable key/value store for credentials and settings.
// Values are sealed with the device key before they reach the database.
type Store struct {
	db     storage.Database // the secure namespace
	sealer *sealer
	params ScryptParams
	cache  *freecache.Cache // key -> sealed value
	log    *logrus.Logger
	lock   sync.RWMutex
}

// New creates a Store over db. Values are kept in the "secure" namespace of db.
func New(db storage.Database, deviceKey []byte, params ScryptParams, log *logrus.Logger) (*Store, error) {
	s, err := newSealer(deviceKey)
	if err != nil {
		return nil, err
	}
	if params.N == 0 {
		params = StandardScrypt
	}
	return &Store{
		db:     storage.NewNamespace(db, Namespace),
		sealer: s,
		params: params,
		cache:  freecache.NewCache(sCacheMaxSize),
		log:    log,
	}, nil
}

// Get returns the value of key. The bool result is false if key is absent.
func (s *Store) Get(key string) ([]byte, bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.get(key)
}

func (s *Store) get(key string) ([]byte, bool, error) {
	sealed, err := s.cache.Get([]byte(key))
	if err != nil {
		sealed, err = s.db.Get([]byte(key))
		if errors.Is(err, storage.ErrNotFound) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, common.NewError(common.KindStorageError, "securestore.Get", errors.WithMessage(err, key))
		}
		_ = s.cache.Set([]byte(key), sealed, 0)
	}
	value, err := s.sealer.open(key, sealed)
	if err != nil {
		return nil, false, common.NewError(common.KindDecryptionFailed, "securestore.Get", errors.WithMessage(err, key))
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key string, value []byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.set(key, value)
}

func (s *Store) set(key string, value []byte) error {
	sealed, err := s.sealer.seal(key, value)
	if err != nil {
		return common.NewError(common.KindStorageError, "securestore.Set", err)
	}
	s.cache.Del([]byte(key))
	if err = s.db.Put([]byte(key), sealed); err != nil {
		return common.NewError(common.KindStorageError, "securestore.Set", errors.WithMessage(err, key))
	}
	_ = s.cache.Set([]byte(key), sealed, 0)
	s.log.WithFields(logrus.Fields{"key": key}).Debug("secure value stored")
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.cache.Del([]byte(key))
	if err := s.db.Delete([]byte(key)); err != nil {
		return common.NewError(common.KindStorageError, "securestore.Delete", errors.WithMessage(err, key))
	}
	s.log.WithFields(logrus.Fields{"key": key}).Debug("secure value deleted")
	return nil
}

// HasPassword reports whether a credential has been set up.
func (s *Store) HasPassword() (bool, error) {
	_, ok, err := s.Get(KeyPassword)
	return ok, err
}

// Verify checks password against the stored credential. It is false when no credential exists.
func (s *Store) Verify(password string) (bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.verify(password)
}

func (s *Store) verify(password string) (bool, error) {
	data, ok, err := s.get(KeyPassword)
	if err != nil || !ok {
		return false, err
	}
	var rec passwordRecord
	if err = json.Unmarshal(data, &rec); err != nil {
		return false, common.NewError(common.KindStorageError, "securestore.Verify", errors.WithMessage(err, "corrupted credential"))
	}
	ok, err = rec.matches(password)
	if err != nil {
		return false, common.NewError(common.KindStorageError, "securestore.Verify", err)
	}
	return ok, nil
}

// SetPassword stores the credential for password, replacing any existing one.
func (s *Store) SetPassword(password string) error {
	rec, err := newPasswordRecord(password, s.params)
	if err != nil {
		return common.NewError(common.KindStorageError, "securestore.SetPassword", err)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.set(KeyPassword, rec)
}

// ReplacePassword verifies oldPassword and stores newPassword in one critical section.
// The credential is a single record, so a failed write leaves the old one in place.
func (s *Store) ReplacePassword(oldPassword, newPassword string) error {
	rec, err := newPasswordRecord(newPassword, s.params)
	if err != nil {
		return common.NewError(common.KindStorageError, "securestore.ReplacePassword", err)
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	ok, err := s.verify(oldPassword)
	if err != nil {
		return err
	}
	if !ok {
		return common.NewError(common.KindAuthenticationFailed, "securestore.ReplacePassword", nil)
	}
	return s.set(KeyPassword, rec)
}
