package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/quantmind-br/smashy/internal/domain"
)

const gcInterval = 5 * time.Minute

// BadgerCache is a cache implementation using BadgerDB.
// Values are stored zstd-compressed.
type BadgerCache struct {
	db    *badger.DB
	codec *codec
	dir   string // empty when in memory
	stop  chan struct{}
	once  sync.Once
}

// NewBadgerCache creates a new BadgerDB cache
func NewBadgerCache(opts Options) (*BadgerCache, error) {
	var badgerOpts badger.Options

	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Directory == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			opts.Directory = filepath.Join(homeDir, ".smashy", "cache")
		}

		if err := os.MkdirAll(opts.Directory, 0755); err != nil {
			return nil, err
		}

		badgerOpts = badger.DefaultOptions(opts.Directory)
	}

	// Badger logs to stderr by default
	if !opts.Logger {
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	c, err := newCodec()
	if err != nil {
		return nil, err
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		c.Close()
		return nil, err
	}

	bc := &BadgerCache{db: db, codec: c, stop: make(chan struct{})}
	if !opts.InMemory {
		bc.dir = opts.Directory
	}
	if !opts.InMemory {
		go bc.runGC()
	}
	return bc, nil
}

func (c *BadgerCache) runGC() {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			_ = c.db.RunValueLogGC(0.5)
		}
	}
}

// Get retrieves a value from cache
func (c *BadgerCache) Get(ctx context.Context, key string) ([]byte, error) {
	var stored []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrCacheMiss
			}
			return err
		}

		stored, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	return c.codec.decode(stored)
}

// Set stores a value in cache with TTL
func (c *BadgerCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	stored := c.codec.encode(value)

	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), stored)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// Delete removes a key from cache
func (c *BadgerCache) Delete(ctx context.Context, key string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Close stops garbage collection and releases cache resources.
// It is safe to call more than once.
func (c *BadgerCache) Close() error {
	var err error
	c.once.Do(func() {
		close(c.stop)
		err = c.db.Close()
		c.codec.Close()
	})
	return err
}

// Stats describes the contents of a cache
type Stats struct {
	Directory string
	// Skeletons counts entries under PrefixSkeleton
	Skeletons int64
	LSMBytes  int64
	VLogBytes int64
}

// Clear drops every entry, including entries of other engine versions
func (c *BadgerCache) Clear() error {
	return c.db.DropAll()
}

// Len counts the live skeleton entries
func (c *BadgerCache) Len() (int64, error) {
	var n int64
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(PrefixSkeleton + ":")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// Stats reports entry count and on-disk size
func (c *BadgerCache) Stats() (Stats, error) {
	n, err := c.Len()
	if err != nil {
		return Stats{}, err
	}
	lsm, vlog := c.db.Size()
	return Stats{
		Directory: c.dir,
		Skeletons: n,
		LSMBytes:  lsm,
		VLogBytes: vlog,
	}, nil
}
