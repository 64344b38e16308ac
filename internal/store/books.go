package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

const bookPrefix = "book:"

var ErrBookNotFound = errors.New("book not found")

// Book Operations

// PutBook stores a book document, replacing any existing document with
// the same ID.
func (s *Store) PutBook(ctx context.Context, doc *Document) error {
	if doc.ID == "" {
		return fmt.Errorf("put book: empty id")
	}

	data, err := json.Marshal(doc.Fields)
	if err != nil {
		return fmt.Errorf("marshal book fields: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(bookPrefix+doc.ID), data)
	})
	if err != nil {
		return fmt.Errorf("put book: %w", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "book stored",
			slog.String("id", doc.ID),
		)
	}
	return nil
}

// GetBookDocument retrieves a single book document by ID.
func (s *Store) GetBookDocument(ctx context.Context, id string) (*Document, error) {
	var fields map[string]any
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(bookPrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &fields)
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &Document{ID: id, Fields: fields}, nil
}

// ListBookDocuments streams every book document in the store. Order is
// key order, which callers must not rely on.
func (s *Store) ListBookDocuments(ctx context.Context) ([]Document, error) {
	var docs []Document
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(bookPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			id := string(item.Key()[len(bookPrefix):])

			var fields map[string]any
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &fields)
			})
			if err != nil {
				// One corrupt value must not hide the rest of the catalog.
				if s.logger != nil {
					s.logger.Warn("skipping unreadable book document",
						slog.String("id", id),
						slog.String("error", err.Error()))
				}
				continue
			}
			docs = append(docs, Document{ID: id, Fields: fields})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return docs, nil
}

// DeleteBook removes a book document. Deleting a missing ID is not an
// error.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(bookPrefix + id))
	})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

// CountBooks returns the number of stored book documents without
// loading their values.
func (s *Store) CountBooks(ctx context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(bookPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return count, nil
}
