package kv

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	"go.etcd.io/bbolt"

	"github.com/ocdrive/ocdrive/internal/config"
)

type Bolt struct {
	bucket []byte
	db     *bbolt.DB
}

func (b *Bolt) Get(key string) ([]byte, error) {
	var val []byte

	if err := b.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(b.bucket).Get([]byte(key)); v != nil {
			val = append([]byte(nil), v...)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if val == nil {
		return nil, ErrNotFound
	}
	return val, nil
}

func (b *Bolt) Set(key string, val []byte) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(b.bucket).Put([]byte(key), val)
	})
}

func (b *Bolt) Delete(key string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(b.bucket).Delete([]byte(key))
	})
}

func (b *Bolt) Keys() ([]string, error) {
	var keys []string
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(b.bucket).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}

// DefaultPath is $HOME/.ocdrive/accounts.db, falling back to the working
// directory when no home directory is available.
func DefaultPath() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "accounts.db"
	}
	dir = filepath.Join(dir, ".ocdrive")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "accounts.db"
	}
	return filepath.Join(dir, "accounts.db")
}

// NewBoltKV opens the account database. The returned close func releases the
// file lock.
func NewBoltKV(cnf *config.StoreConfig) (KV, func() error, error) {
	path := cnf.Path
	if path == "" {
		path = DefaultPath()
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{
		Timeout:    time.Second,
		NoGrowSync: false,
	})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open %s", path)
	}
	store, err := New(Options{Bucket: cnf.Bucket, DB: db})
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, db.Close, nil
}
