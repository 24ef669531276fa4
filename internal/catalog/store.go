// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/estatewise/internal/metrics"
	"github.com/tomtom215/estatewise/internal/recommend"
	"github.com/tomtom215/estatewise/internal/validation"
)

const propertyPrefix = "property:"

// Config configures the catalog store.
type Config struct {
	// Path is the Badger directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps the catalog in memory only. Used by tests.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool
}

// Store is the Badger-backed property catalog. It satisfies
// recommend.Catalog.
type Store struct {
	db     *badger.DB
	logger zerolog.Logger
	closed atomic.Bool
}

// Open opens (or creates) the catalog.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(cfg Config, logger zerolog.Logger) (*Store, error) {
	if cfg.Path == "" && !cfg.InMemory {
		return nil, errors.New("catalog path is required")
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger.With().Str("component", "catalog").Logger(),
	}

	count, err := s.Count(context.Background())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	metrics.SetCatalogSize(count)

	s.logger.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Int("properties", count).
		Msg("Catalog opened")
	return s, nil
}

// Close closes the database. Calling it twice is a no-op.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close catalog: %w", err)
	}
	return nil
}

func propertyKey(id int64) []byte {
	// Zero padding keeps key order equal to numeric id order.
	return []byte(fmt.Sprintf("%s%020d", propertyPrefix, id))
}

func parsePropertyKey(key []byte) (int64, bool) {
	if len(key) <= len(propertyPrefix) {
		return 0, false
	}
	id, err := strconv.ParseInt(string(key[len(propertyPrefix):]), 10, 64)
	return id, err == nil
}

// GetAll returns every property ordered by id from a single read
// transaction.
func (s *Store) GetAll(ctx context.Context) ([]recommend.Property, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	var props []recommend.Property
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(propertyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var p recommend.Property
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &p)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			props = append(props, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return props, nil
}

// Get returns a single property.
func (s *Store) Get(ctx context.Context, id int64) (*recommend.Property, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var p recommend.Property
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(propertyKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrPropertyNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if errors.Is(err, ErrPropertyNotFound) {
		return nil, fmt.Errorf("property %d: %w", id, ErrPropertyNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get property %d: %w", id, err)
	}
	return &p, nil
}

// BulkUpsert validates and writes properties in one transaction. Within a
// batch, a later entry for the same id wins. Predicted prices are never
// stored. It returns the number of properties written.
func (s *Store) BulkUpsert(ctx context.Context, props []recommend.Property) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	if len(props) == 0 {
		return 0, nil
	}
	if verr := validation.ValidateSlice(props); verr != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidPropertyData, verr)
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		for i := range props {
			if err := ctx.Err(); err != nil {
				return err
			}
			// The tabular form has no predicted price column.
			data, err := json.Marshal(recommend.FromRow(recommend.ToRow(props[i])))
			if err != nil {
				return fmt.Errorf("encode property %d: %w", props[i].ID, err)
			}
			if err := txn.SetEntry(badger.NewEntry(propertyKey(props[i].ID), data)); err != nil {
				return fmt.Errorf("write property %d: %w", props[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("upsert properties: %w", err)
	}

	metrics.RecordCatalogUpsert(len(props))
	s.refreshSize(ctx)

	s.logger.Debug().Int("count", len(props)).Msg("Properties upserted")
	return len(props), nil
}

// Delete removes a property.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		key := propertyKey(id)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrPropertyNotFound
			}
			return err
		}
		return txn.Delete(key)
	})
	if errors.Is(err, ErrPropertyNotFound) {
		return fmt.Errorf("property %d: %w", id, ErrPropertyNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete property %d: %w", id, err)
	}
	s.refreshSize(ctx)
	return nil
}

// Count returns the number of stored properties.
func (s *Store) Count(ctx context.Context) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}

	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(propertyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, ok := parsePropertyKey(it.Item().Key()); ok {
				count++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count properties: %w", err)
	}
	return count, nil
}

func (s *Store) refreshSize(ctx context.Context) {
	count, err := s.Count(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to refresh catalog size")
		return
	}
	metrics.SetCatalogSize(count)
}
