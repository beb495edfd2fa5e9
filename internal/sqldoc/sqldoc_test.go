package sqldoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBind(t *testing.T) {
	q := `INSERT INTO records (section, seq, id, body) VALUES (?, ?, ?, ?)`
	assert.Equal(t, q, SQLite.bind(q))
	assert.Equal(t, `INSERT INTO records (section, seq, id, body) VALUES ($1, $2, $3, $4)`, Postgres.bind(q))
}

func TestDialectsShareTables(t *testing.T) {
	assert.Len(t, Postgres.Schema, len(SQLite.Schema))
	for i := range SQLite.Schema {
		assert.NotEmpty(t, SQLite.Schema[i])
	}
}
