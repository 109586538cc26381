package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"orderdesk/internal/domain"
	"orderdesk/internal/errors"
)

// FileRepository keeps the whole order collection as one JSON array on disk.
type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: filepath.Clean(path)}
}

func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the full document. A missing file is an empty document.
func (r *FileRepository) Load(ctx context.Context) ([]domain.Order, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return []domain.Order{}, nil
	}
	if err != nil {
		return nil, errors.NewStorageError("reading order document", err)
	}

	orders, err := decodeDocument(data)
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("parsing order document %s", r.path), err)
	}
	return orders, nil
}

// Save rewrites the full document through a temp file and a rename.
func (r *FileRepository) Save(ctx context.Context, orders []domain.Order) error {
	data, err := encodeDocument(orders)
	if err != nil {
		return errors.NewStorageError("encoding order document", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewStorageError("creating document directory", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return errors.NewStorageError("creating temp document", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.NewStorageError("writing order document", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewStorageError("closing order document", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return errors.NewStorageError("replacing order document", err)
	}
	return nil
}
