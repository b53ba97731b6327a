// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

package snapshotstore

import (
	"encoding/json"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/tracebridge/tracebridge/internal/tunnel"
)

const (
	metadataKeyPrefix byte = 0x01
	spansKeyPrefix    byte = 0x02
)

// Store persists receiver snapshots in a badger database, keyed by session
// name. Metadata and span snapshots live under separate key prefixes so a
// session can save one without the other.
type Store struct {
	db     *badger.DB
	logger *zap.Logger
}

// New wraps an already opened badger database.
func New(db *badger.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		db:     db,
		logger: logger,
	}
}

// Open opens a badger database at dir and wraps it in a Store. An empty dir
// opens an in-memory database that vanishes on Close.
func Open(dir string, logger *zap.Logger) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts = opts.WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return New(db, logger), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveMetadata stores the session's metadata snapshot, replacing any
// previous one.
func (s *Store) SaveMetadata(session string, metadata *tunnel.PersistedMetadata) error {
	value, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(sessionKey(metadataKeyPrefix, session), value)
	})
}

// LoadMetadata retrieves the session's metadata snapshot. A session that
// was never saved yields an empty snapshot, not an error.
func (s *Store) LoadMetadata(session string) (*tunnel.PersistedMetadata, error) {
	metadata := tunnel.NewPersistedMetadata()
	found, err := s.load(sessionKey(metadataKeyPrefix, session), metadata)
	if err != nil {
		return nil, err
	}
	if !found {
		s.logger.Debug("no persisted metadata for session", zap.String("session", session))
	}
	return metadata, nil
}

// SaveSpans stores the session's span snapshot, replacing any previous one.
func (s *Store) SaveSpans(session string, spans *tunnel.PersistedSpans) error {
	value, err := json.Marshal(spans)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(sessionKey(spansKeyPrefix, session), value)
	})
}

// LoadSpans retrieves the session's span snapshot. A session that was never
// saved yields an empty snapshot, not an error.
func (s *Store) LoadSpans(session string) (*tunnel.PersistedSpans, error) {
	spans := &tunnel.PersistedSpans{}
	found, err := s.load(sessionKey(spansKeyPrefix, session), spans)
	if err != nil {
		return nil, err
	}
	if !found {
		s.logger.Debug("no persisted spans for session", zap.String("session", session))
	}
	return spans, nil
}

// Sessions lists the session names with a stored metadata snapshot.
func (s *Store) Sessions() ([]string, error) {
	var sessions []string
	prefix := []byte{metadataKeyPrefix}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			k := it.Item().Key()
			sessions = append(sessions, string(k[1:]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *Store) load(key []byte, out any) (bool, error) {
	found := true
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			found = false
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

func sessionKey(prefix byte, session string) []byte {
	key := make([]byte, 0, len(session)+1)
	key = append(key, prefix)
	return append(key, session...)
}
