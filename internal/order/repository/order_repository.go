package repository

import (
	"context"
	"database/sql"
	"fmt"

	"orderdesk/internal/domain"
	"orderdesk/internal/errors"
)

const DefaultDocumentName = "orders"

// MySQLDocumentRepository stores the order document as a single row, so the
// whole-document read and rewrite contract is the same as for the file backend.
type MySQLDocumentRepository struct {
	db   *sql.DB
	name string
}

func NewMySQLDocumentRepository(db *sql.DB, name string) *MySQLDocumentRepository {
	if name == "" {
		name = DefaultDocumentName
	}
	return &MySQLDocumentRepository{db: db, name: name}
}

func (r *MySQLDocumentRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS OrderDocuments (
			name VARCHAR(64) NOT NULL PRIMARY KEY,
			body LONGTEXT NOT NULL,
			updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)
	`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return errors.NewStorageError("creating OrderDocuments table", err)
	}
	return nil
}

func (r *MySQLDocumentRepository) Load(ctx context.Context) ([]domain.Order, error) {
	query := `SELECT body FROM OrderDocuments WHERE name = ?`

	var body []byte
	err := r.db.QueryRowContext(ctx, query, r.name).Scan(&body)
	if err == sql.ErrNoRows {
		return []domain.Order{}, nil
	}
	if err != nil {
		return nil, errors.NewStorageError("querying order document", err)
	}

	orders, err := decodeDocument(body)
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("parsing order document %q", r.name), err)
	}
	return orders, nil
}

func (r *MySQLDocumentRepository) Save(ctx context.Context, orders []domain.Order) error {
	body, err := encodeDocument(orders)
	if err != nil {
		return errors.NewStorageError("encoding order document", err)
	}

	query := `
		INSERT INTO OrderDocuments (name, body) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE body = VALUES(body)
	`
	if _, err := r.db.ExecContext(ctx, query, r.name, body); err != nil {
		return errors.NewStorageError("writing order document", err)
	}
	return nil
}
