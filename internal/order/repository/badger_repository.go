package repository

import (
	"context"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"orderdesk/internal/domain"
	"orderdesk/internal/errors"
)

// BadgerDocumentRepository keeps the order document under one key of an
// embedded Badger database.
type BadgerDocumentRepository struct {
	db  *badger.DB
	key []byte
}

func NewBadgerDocumentRepository(db *badger.DB, name string) *BadgerDocumentRepository {
	if name == "" {
		name = DefaultDocumentName
	}
	return &BadgerDocumentRepository{db: db, key: []byte("document/" + name)}
}

func (r *BadgerDocumentRepository) Load(ctx context.Context) ([]domain.Order, error) {
	var body []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(r.key)
		if err != nil {
			return err
		}
		body, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return []domain.Order{}, nil
	}
	if err != nil {
		return nil, errors.NewStorageError("reading order document", err)
	}

	orders, err := decodeDocument(body)
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("parsing order document %q", r.key), err)
	}
	return orders, nil
}

func (r *BadgerDocumentRepository) Save(ctx context.Context, orders []domain.Order) error {
	body, err := encodeDocument(orders)
	if err != nil {
		return errors.NewStorageError("encoding order document", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(r.key, body)
	})
	if err != nil {
		return errors.NewStorageError("writing order document", err)
	}
	return nil
}
