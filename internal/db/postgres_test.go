package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaIsIdempotent(t *testing.T) {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if !strings.HasPrefix(stmt, "CREATE") {
			continue
		}
		assert.Contains(t, stmt, "IF NOT EXISTS", stmt)
	}
}

func TestSchemaHasLiveSlotIndex(t *testing.T) {
	assert.Contains(t, schemaSQL, "appointments_live_slot_uidx")
	assert.Contains(t, schemaSQL, "WHERE status IN ('scheduled', 'completed')")
}
