package sqliteutil

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Config selects either a local sqlite file or a remote libsql database.
// Url takes precedence over File when both are set.
type Config struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func wrapOpenDB(err error) error {
	return fmt.Errorf("open db: %w", err)
}

// OpenDB opens a local sqlite database at path, ":memory:" is allowed.
func OpenDB(path string) (*sql.DB, error) {
	if path != ":memory:" {
		err := os.MkdirAll(filepath.Dir(path), 0777)
		if err != nil {
			return nil, wrapOpenDB(err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapOpenDB(err)
	}

	// sqlite only supports a single writer, and an in-memory database
	// only lives as long as its one connection.
	db.SetMaxOpenConns(1)
	if path != ":memory:" {
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			db.Close()
			return nil, wrapOpenDB(err)
		}
	}

	return db, nil
}

// OpenRemote opens a libsql database over the network.
func OpenRemote(dbUrl, authToken string) (*sql.DB, error) {
	values := url.Values{}
	if authToken != "" {
		values.Add("authToken", authToken)
	}
	target := dbUrl
	if len(values) > 0 {
		target += "?" + values.Encode()
	}
	db, err := sql.Open("libsql", target)
	if err != nil {
		return nil, wrapOpenDB(err)
	}
	return db, nil
}

// Open opens the database described by the config and applies the schema.
// The schema must be idempotent (CREATE ... IF NOT EXISTS).
func (c Config) Open(schema string) (*sql.DB, error) {
	var db *sql.DB
	var err error
	switch {
	case c.Url != "":
		db, err = OpenRemote(c.Url, c.AuthToken)
	case c.File != "":
		db, err = OpenDB(c.File)
	default:
		return nil, wrapOpenDB(fmt.Errorf("neither a file nor a url was specified"))
	}
	if err != nil {
		return nil, err
	}

	if schema != "" {
		_, err = db.Exec(schema)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return db, nil
}
