// Package vault persists messages recovered from PNG files so that a
// scan over a directory tree survives the run. Records are stored in a
// badger database under content-derived keys, encoded on the protobuf
// wire format.
package vault

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/shirou/gopsutil/disk"
	"github.com/sirupsen/logrus"
)

// Keys of stored records share this prefix, leaving room for other
// key spaces in the same database.
const keyPrefix = "msg:"

// ErrRecordNotFound is returned by Get when no record is stored under
// the given id.
var ErrRecordNotFound = errors.New("vault: record not found")

// Config configures a vault.
type Config struct {
	// Path is the directory holding the database. It is created if
	// missing.
	Path string

	// MinimumFreeGB refuses to open the vault when the filesystem has
	// less free space, in gigabytes. Zero or negative disables the
	// check.
	MinimumFreeGB int

	// Logger receives operational logging. A default logger is used
	// when nil.
	Logger *logrus.Logger
}

func (c *Config) checkConfig() error {
	if c.Path == "" {
		return errors.New("vault: no path provided in configuration")
	}
	if c.MinimumFreeGB <= 0 {
		return nil
	}

	usage, err := disk.Usage(c.Path)
	if err != nil {
		return fmt.Errorf("vault: checking free space at %s: %w", c.Path, err)
	}

	freeGB := usage.Free / (1024 * 1024 * 1024)
	if freeGB < uint64(c.MinimumFreeGB) {
		return fmt.Errorf("vault: not enough free space at %s: %d GB available, %d GB required",
			c.Path, freeGB, c.MinimumFreeGB)
	}
	return nil
}

// Stored is a record together with the id it is stored under.
type Stored struct {
	ID string
	Record
}

// Vault is an open record store. It is safe for concurrent use.
type Vault struct {
	config Config
	db     *badger.DB
	log    *logrus.Logger
}

// Open opens the vault at config.Path, creating the directory when it
// does not exist yet.
func Open(config Config) (*Vault, error) {
	if config.Logger == nil {
		config.Logger = logrus.New()
	}

	if config.Path != "" {
		if err := os.MkdirAll(config.Path, 0o755); err != nil {
			return nil, fmt.Errorf("vault: creating %s: %w", config.Path, err)
		}
	}

	if err := config.checkConfig(); err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(config.Path)
	opts.Logger = nil
	opts.SyncWrites = false

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("vault: opening database at %s: %w", config.Path, err)
	}

	config.Logger.Debugf("vault open at %s", config.Path)
	return &Vault{
		config: config,
		db:     db,
		log:    config.Logger,
	}, nil
}

// Put stores a record under its content-derived id and returns the id.
// Storing the same record twice overwrites it in place.
func (v *Vault) Put(rec Record) (string, error) {
	id := rec.ID()
	data := recordToByte(rec)

	err := v.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+id), data)
	})
	if err != nil {
		return "", fmt.Errorf("vault: storing record %s: %w", id, err)
	}

	v.log.WithFields(logrus.Fields{
		"id":   id,
		"path": rec.Path,
	}).Debug("vault stored record")
	return id, nil
}

// Get returns the record stored under id.
func (v *Vault) Get(id string) (Record, error) {
	var value []byte
	err := v.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + id))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return Record{}, ErrRecordNotFound
		}
		return Record{}, fmt.Errorf("vault: reading record %s: %w", id, err)
	}

	return byteToRecord(value)
}

// List returns every stored record, sorted by id.
func (v *Vault) List() ([]Stored, error) {
	var out []Stored
	prefix := []byte(keyPrefix)

	err := v.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := item.KeyCopy(nil)
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}

			rec, err := byteToRecord(value)
			if err != nil {
				return err
			}
			out = append(out, Stored{
				ID:     strings.TrimPrefix(string(key), keyPrefix),
				Record: rec,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("vault: listing records: %w", err)
	}

	return out, nil
}

// Close syncs and closes the underlying database.
func (v *Vault) Close() error {
	if err := v.db.Sync(); err != nil {
		return fmt.Errorf("vault: syncing database: %w", err)
	}
	if err := v.db.Close(); err != nil {
		return fmt.Errorf("vault: closing database: %w", err)
	}
	return nil
}
