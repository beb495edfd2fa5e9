// Package sqldoc stores a types.Document in three SQL tables shared by the
// SQLite and Postgres backends:
//
//	meta(key, value)                  document codec
//	sections(name, ordinal)           section order
//	records(section, seq, id, body)   records in section order
//
// Save replaces the whole document in one transaction.
package sqldoc

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/ossuary/pkg/types"
)

// Dialect holds what differs between SQL engines.
type Dialect struct {
	Name   string
	Schema []string
	// Placeholder returns the bind marker for the n-th argument, 1-based.
	Placeholder func(n int) string
}

// SQLite uses ? markers and BLOB bodies.
var SQLite = Dialect{
	Name: "sqlite",
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS sections (
    name TEXT PRIMARY KEY,
    ordinal INTEGER NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS records (
    section TEXT NOT NULL,
    seq INTEGER NOT NULL,
    id TEXT NOT NULL,
    body BLOB NOT NULL,
    PRIMARY KEY (section, seq)
)`,
		`CREATE INDEX IF NOT EXISTS idx_records_id ON records(id)`,
	},
	Placeholder: func(int) string { return "?" },
}

// Postgres uses $n markers and BYTEA bodies.
var Postgres = Dialect{
	Name: "postgres",
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS sections (
    name TEXT PRIMARY KEY,
    ordinal INTEGER NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS records (
    section TEXT NOT NULL,
    seq INTEGER NOT NULL,
    id TEXT NOT NULL,
    body BYTEA NOT NULL,
    PRIMARY KEY (section, seq)
)`,
		`CREATE INDEX IF NOT EXISTS idx_records_id ON records(id)`,
	},
	Placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
}

// bind rewrites ? markers in q for d.
func (d Dialect) bind(q string) string {
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString(d.Placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const codecKey = "codec"

// ApplySchema creates the document tables if they do not exist.
func ApplySchema(ctx context.Context, db *sql.DB, d Dialect) error {
	for _, stmt := range d.Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute ddl: %w", err)
		}
	}
	return nil
}

// Save replaces the stored document with doc.
func Save(ctx context.Context, db *sql.DB, d Dialect, doc types.Document) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range []string{`DELETE FROM records`, `DELETE FROM sections`, `DELETE FROM meta`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear document: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, d.bind(`INSERT INTO meta (key, value) VALUES (?, ?)`), codecKey, doc.Codec); err != nil {
		return fmt.Errorf("insert codec: %w", err)
	}

	insertSection := d.bind(`INSERT INTO sections (name, ordinal) VALUES (?, ?)`)
	insertRecord := d.bind(`INSERT INTO records (section, seq, id, body) VALUES (?, ?, ?, ?)`)
	for i, sec := range doc.Sections {
		if _, err := tx.ExecContext(ctx, insertSection, sec.Name, i); err != nil {
			return fmt.Errorf("insert section %s: %w", sec.Name, err)
		}
		for seq, rec := range sec.Records {
			if _, err := tx.ExecContext(ctx, insertRecord, sec.Name, seq, rec.ID, rec.Body); err != nil {
				return fmt.Errorf("insert %s record %s: %w", sec.Name, rec.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// Load reads the stored document. An empty database yields an empty
// document.
func Load(ctx context.Context, db *sql.DB, d Dialect) (types.Document, error) {
	var doc types.Document
	err := db.QueryRowContext(ctx, d.bind(`SELECT value FROM meta WHERE key = ?`), codecKey).Scan(&doc.Codec)
	if err != nil && err != sql.ErrNoRows {
		return doc, fmt.Errorf("select codec: %w", err)
	}

	rows, err := db.QueryContext(ctx, `SELECT s.name, r.id, r.body
FROM sections s LEFT JOIN records r ON r.section = s.name
ORDER BY s.ordinal, r.seq`)
	if err != nil {
		return doc, fmt.Errorf("select records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var name string
		var id sql.NullString
		var body []byte
		if err := rows.Scan(&name, &id, &body); err != nil {
			return doc, fmt.Errorf("scan record: %w", err)
		}
		if n := len(doc.Sections); n == 0 || doc.Sections[n-1].Name != name {
			doc.Sections = append(doc.Sections, types.Section{Name: name})
		}
		if id.Valid {
			sec := &doc.Sections[len(doc.Sections)-1]
			sec.Records = append(sec.Records, types.Record{ID: id.String, Body: body})
		}
	}
	if err := rows.Err(); err != nil {
		return doc, fmt.Errorf("iterate records: %w", err)
	}
	return doc, nil
}
