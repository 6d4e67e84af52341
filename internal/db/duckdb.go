package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jcdickinson/doxyschema/internal/schema"
	_ "github.com/marcboeker/go-duckdb"
)

type DB struct {
	conn *sql.DB
}

func New(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	conn, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS classes (
			class_key TEXT NOT NULL,
			name TEXT NOT NULL,
			path TEXT NOT NULL,
			description TEXT,
			is_trait BOOLEAN NOT NULL,
			parent TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS subclasses (
			class_key TEXT NOT NULL,
			ordinal INTEGER NOT NULL,
			subclass TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS fields (
			class_key TEXT NOT NULL,
			ordinal INTEGER NOT NULL,
			name TEXT NOT NULL,
			field_type TEXT NOT NULL,
			description TEXT NOT NULL,
			is_trait BOOLEAN NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fields_type ON fields (field_type)`,

		`CREATE TABLE IF NOT EXISTS diagnostics (
			class_name TEXT NOT NULL,
			kind TEXT NOT NULL,
			detail TEXT NOT NULL
		)`,
	}

	for _, q := range queries {
		if _, err := db.conn.Exec(q); err != nil {
			return fmt.Errorf("executing %q: %w", q, err)
		}
	}
	return nil
}

// ReplaceSchema swaps the stored export for s in a single transaction.
// Tables carry no key constraints: DuckDB rejects re-inserting a deleted key
// within the transaction that deleted it.
func (db *DB) ReplaceSchema(s *schema.Schema) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"fields", "subclasses", "classes", "diagnostics"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	snap := s.Snapshot()
	for _, c := range snap.Classes {
		k := strings.ToLower(c.Name)
		if _, err := tx.Exec(
			`INSERT INTO classes (class_key, name, path, description, is_trait, parent) VALUES (?, ?, ?, ?, ?, ?)`,
			k, c.Name, c.Path, c.Description, c.Trait, c.Parent,
		); err != nil {
			return fmt.Errorf("inserting class %s: %w", c.Name, err)
		}

		for i, sub := range c.Subclasses {
			if _, err := tx.Exec(
				`INSERT INTO subclasses (class_key, ordinal, subclass) VALUES (?, ?, ?)`,
				k, i, sub,
			); err != nil {
				return fmt.Errorf("inserting subclass %s of %s: %w", sub, c.Name, err)
			}
		}

		for i, f := range c.Fields {
			if _, err := tx.Exec(
				`INSERT INTO fields (class_key, ordinal, name, field_type, description, is_trait) VALUES (?, ?, ?, ?, ?, ?)`,
				k, i, f.Name, f.Type, f.Description, f.IsTrait,
			); err != nil {
				return fmt.Errorf("inserting field %s.%s: %w", c.Name, f.Name, err)
			}
		}
	}

	for _, d := range snap.Diagnostics {
		if _, err := tx.Exec(
			`INSERT INTO diagnostics (class_name, kind, detail) VALUES (?, ?, ?)`,
			d.Class, string(d.Kind), d.Detail,
		); err != nil {
			return fmt.Errorf("inserting diagnostic: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing export: %w", err)
	}
	return nil
}

// --- Queries ---

func (db *DB) ClassCount() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM classes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting classes: %w", err)
	}
	return n, nil
}

// TraitClasses returns the names of all abstract base classes, sorted.
func (db *DB) TraitClasses() ([]string, error) {
	rows, err := db.conn.Query(`SELECT name FROM classes WHERE is_trait ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying trait classes: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

type FieldRef struct {
	Class string
	Field string
	Type  string
}

// FieldsOfType finds fields whose type is typeName or wraps it directly,
// e.g. Vec<typeName> or Box<typeName>.
func (db *DB) FieldsOfType(typeName string) ([]FieldRef, error) {
	rows, err := db.conn.Query(
		`SELECT c.name, f.name, f.field_type
		FROM fields f JOIN classes c ON c.class_key = f.class_key
		WHERE f.field_type = ? OR contains(f.field_type, ?)
		ORDER BY c.name, f.ordinal`,
		typeName, "<"+typeName+">",
	)
	if err != nil {
		return nil, fmt.Errorf("querying fields of type %s: %w", typeName, err)
	}
	defer rows.Close()

	var refs []FieldRef
	for rows.Next() {
		var r FieldRef
		if err := rows.Scan(&r.Class, &r.Field, &r.Type); err != nil {
			return nil, err
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}
