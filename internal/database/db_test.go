package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	got := dsn("artefacto:secret", "127.0.0.1", "3306", "heritage")

	assert.Contains(t, got, "artefacto:secret@tcp(127.0.0.1:3306)/heritage")
	assert.Contains(t, got, "parseTime=true")
	assert.Contains(t, got, "loc=UTC")
	// matched rows, not changed rows: replaying an identical UPDATE must
	// still report the row as found
	assert.Contains(t, got, "clientFoundRows=true")
}
