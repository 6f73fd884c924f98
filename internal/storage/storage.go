// Package storage publishes generated tables into a BadgerDB key-value store.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/attackgen/internal/tablefile"
)

// Storage keys
const (
	keyManifest    = "manifest"
	artifactPrefix = "artifact/"
)

// ErrNotFound is returned for a missing artifact or manifest.
var ErrNotFound = errors.New("storage: not found")

// Storage wraps BadgerDB for table storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the store in the default data directory, see GetStoreDir.
func NewStorage() (*Storage, error) {
	dbDir, err := GetStoreDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// OpenDir opens the store named by a store_dir setting: DefaultDir means
// the per-platform directory, anything else is a path.
func OpenDir(dir string) (*Storage, error) {
	if dir == DefaultDir {
		return NewStorage()
	}
	return Open(dir)
}

// Open opens or creates a store in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", dir, err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func artifactKey(name string) []byte {
	return []byte(artifactPrefix + name)
}

// PutArtifacts stores every artifact and the manifest in one transaction,
// so readers never see a manifest that disagrees with the stored tables.
func (s *Storage) PutArtifacts(artifacts []tablefile.Artifact, m *tablefile.Manifest) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, a := range artifacts {
			if err := txn.Set(artifactKey(a.Name), a.Data); err != nil {
				return fmt.Errorf("store %s: %w", a.Name, err)
			}
		}
		return txn.Set([]byte(keyManifest), data)
	})
}

// GetArtifact returns the stored bytes of an artifact.
func (s *Storage) GetArtifact(name string) ([]byte, error) {
	var data []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(artifactKey(name))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("%w: artifact %s", ErrNotFound, name)
		}
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})

	return data, err
}

// LoadManifest returns the manifest of the last published run.
func (s *Storage) LoadManifest() (*tablefile.Manifest, error) {
	m := &tablefile.Manifest{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyManifest))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("%w: manifest", ErrNotFound)
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, m)
		})
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// ArtifactNames lists the stored artifacts in name order.
func (s *Storage) ArtifactNames() ([]string, error) {
	var names []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(artifactPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), artifactPrefix))
		}
		return nil
	})

	sort.Strings(names)
	return names, err
}

// LoadArtifacts reads every artifact named in the manifest and checks the
// digests.
func (s *Storage) LoadArtifacts() ([]tablefile.Artifact, error) {
	m, err := s.LoadManifest()
	if err != nil {
		return nil, err
	}

	artifacts := make([]tablefile.Artifact, 0, len(m.Artifacts))
	for _, e := range m.Artifacts {
		data, err := s.GetArtifact(e.Name)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, tablefile.Artifact{Name: e.Name, Data: data})
	}

	if err := m.Check(artifacts); err != nil {
		return nil, err
	}
	return artifacts, nil
}
