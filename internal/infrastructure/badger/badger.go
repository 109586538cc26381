package badger

import (
	"fmt"
	"path/filepath"

	badgerdb "github.com/dgraph-io/badger/v4"
)

// Open opens (or creates) the embedded database under dir. Badger's own
// logging is silenced; failures surface as errors.
func Open(dir string) (*badgerdb.DB, error) {
	opts := badgerdb.DefaultOptions(filepath.Clean(dir)).WithLogger(nil)
	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger open: %w", err)
	}
	return db, nil
}
