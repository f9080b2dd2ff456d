package kvdb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/meghashyamc/searchfront/logger"
	bolt "go.etcd.io/bbolt"
)

const openTimeout = 1 * time.Second

// BoltDB is a single-file store. bbolt locks the file, so only one process may hold it open.
type BoltDB struct {
	store  *bolt.DB
	logger logger.Logger
}

var _ DB = (*BoltDB)(nil)

func New(logger logger.Logger, kvDBPath string) (*BoltDB, error) {
	if err := os.MkdirAll(filepath.Dir(kvDBPath), 0755); err != nil {
		logger.Error("failed to create key-value database directory", "err", err.Error(), "path", kvDBPath)
		return nil, fmt.Errorf("failed to create key-value database directory: %w", err)
	}

	store, err := bolt.Open(kvDBPath, 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		logger.Error("failed to open database", "err", err.Error(), "path", kvDBPath)
		return nil, fmt.Errorf("failed to open database %s: %w", kvDBPath, err)
	}

	boltDB := &BoltDB{store: store, logger: logger}
	if err := boltDB.createBuckets(); err != nil {
		store.Close()
		return nil, err
	}
	logger.Debug("opened key-value database", "path", kvDBPath, "buckets", buckets)

	return boltDB, nil
}

func (b *BoltDB) createBuckets() error {
	return b.store.Update(func(tx *bolt.Tx) error {
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				b.logger.Error("failed to create bucket", "bucket", name, "err", err.Error())
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
}

func (b *BoltDB) Set(bucket string, key string, value string) error {
	return b.update(bucket, key, func(bkt *bolt.Bucket) error {
		return bkt.Put([]byte(key), []byte(value))
	})
}

func (b *BoltDB) Get(bucket string, key string) (string, error) {
	if err := validateKey(key); err != nil {
		b.logger.Warn("rejected key", "bucket", bucket, "err", err.Error())
		return "", err
	}

	var value string
	err := b.store.View(func(tx *bolt.Tx) error {
		bkt, err := b.bucket(tx, bucket)
		if err != nil {
			return err
		}

		raw := bkt.Get([]byte(key))
		if raw == nil {
			return &NotFoundError{Bucket: bucket, Key: key}
		}
		// converting copies raw, which is only valid inside the transaction
		value = string(raw)
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		b.logger.Debug("key not found", "bucket", bucket, "key", key)
	}
	if err != nil {
		return "", err
	}

	return value, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (b *BoltDB) Delete(bucket string, key string) error {
	return b.update(bucket, key, func(bkt *bolt.Bucket) error {
		return bkt.Delete([]byte(key))
	})
}

func (b *BoltDB) update(bucket string, key string, apply func(bkt *bolt.Bucket) error) error {
	if err := validateKey(key); err != nil {
		b.logger.Warn("rejected key", "bucket", bucket, "err", err.Error())
		return err
	}

	return b.store.Update(func(tx *bolt.Tx) error {
		bkt, err := b.bucket(tx, bucket)
		if err != nil {
			return err
		}

		if err := apply(bkt); err != nil {
			b.logger.Error("failed to write key", "bucket", bucket, "key", key, "err", err.Error())
			return fmt.Errorf("failed to write key %s: %w", key, err)
		}
		return nil
	})
}

func (b *BoltDB) bucket(tx *bolt.Tx, name string) (*bolt.Bucket, error) {
	bkt := tx.Bucket([]byte(name))
	if bkt == nil {
		b.logger.Error("bucket not found", "bucket", name)
		return nil, &BucketNotFoundError{Bucket: name}
	}
	return bkt, nil
}

func (b *BoltDB) Close() error {
	if b.store == nil {
		return nil
	}
	if err := b.store.Close(); err != nil {
		b.logger.Error("failed to close key-value database", "err", err.Error())
		return err
	}
	return nil
}
