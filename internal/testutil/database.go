package testutil

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

const defaultTestDSN = "root:@tcp(localhost:3306)/orderdesk_test"

// SetupTestDB opens the MySQL test database named by ORDERDESK_TEST_DSN
// (default orderdesk_test on localhost) and skips the test when it is not reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("ORDERDESK_TEST_DSN")
	if dsn == "" {
		dsn = defaultTestDSN
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties the document table and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	if _, err := db.Exec("DELETE FROM OrderDocuments"); err != nil {
		t.Logf("failed to clean table OrderDocuments: %v", err)
	}

	db.Close()
}

// SetupTestTables creates the tables the document repository needs and starts
// every test from an empty table.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createOrderDocumentsTable := `
	CREATE TABLE IF NOT EXISTS OrderDocuments (
		name VARCHAR(64) NOT NULL PRIMARY KEY,
		body LONGTEXT NOT NULL,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	if _, err := db.Exec(createOrderDocumentsTable); err != nil {
		t.Logf("failed to create table OrderDocuments: %v", err)
	}
	if _, err := db.Exec("DELETE FROM OrderDocuments"); err != nil {
		t.Logf("failed to clean table OrderDocuments: %v", err)
	}
}
