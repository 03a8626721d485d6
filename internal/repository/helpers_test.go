package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

func TestIsUniqueConstraintError(t *testing.T) {
	assert.False(t, isUniqueConstraintError(nil))
	assert.False(t, isUniqueConstraintError(errors.New("connection refused")))
	assert.True(t, isUniqueConstraintError(errors.New("index email_idx unique constraint violated")))
	assert.True(t, isUniqueConstraintError(errors.New("record already exists")))
	assert.True(t, isUniqueConstraintError(errors.New("duplicate key")))
}

func TestConvertSurrealID(t *testing.T) {
	assert.Equal(t, "user:alice", convertSurrealID("user:alice"))
	assert.Equal(t, "user:alice", convertSurrealID(models.RecordID{Table: "user", ID: "alice"}))
	assert.Equal(t, "user:alice", convertSurrealID(map[string]interface{}{
		"tb": "user",
		"id": "alice",
	}))
	assert.Equal(t, "user:alice", convertSurrealID(map[string]interface{}{
		"tb": "user",
		"id": map[string]interface{}{"String": "alice"},
	}))
}

func TestParseTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now, parseTime(now))
	assert.Equal(t, now, parseTime("2025-06-01T12:00:00Z"))
	assert.Equal(t, now, parseTime(models.CustomDateTime{Time: now}))
	assert.True(t, parseTime("not a time").IsZero())
	assert.True(t, parseTime(nil).IsZero())
}

func TestExtractQueryResults(t *testing.T) {
	wrapped := []interface{}{
		map[string]interface{}{
			"status": "OK",
			"result": []interface{}{"a", "b"},
		},
	}
	results, ok := extractQueryResults(wrapped)
	assert.True(t, ok)
	assert.Equal(t, []interface{}{"a", "b"}, results)

	direct := []interface{}{"x"}
	results, ok = extractQueryResults(direct)
	assert.True(t, ok)
	assert.Equal(t, []interface{}{"x"}, results)

	_, ok = extractQueryResults("not a slice")
	assert.False(t, ok)
}

func TestGetStringSlice_ConvertsRecordIDs(t *testing.T) {
	m := map[string]interface{}{
		"places": []interface{}{
			"place:p1",
			models.RecordID{Table: "place", ID: "p2"},
		},
	}
	assert.Equal(t, []string{"place:p1", "place:p2"}, getStringSlice(m, "places"))
	assert.Nil(t, getStringSlice(m, "missing"))
}

func TestUnwrapOne(t *testing.T) {
	// Envelope form
	data, ok := unwrapOne(map[string]interface{}{
		"status": "OK",
		"result": []interface{}{map[string]interface{}{"id": "user:1"}},
	})
	assert.True(t, ok)
	assert.Equal(t, "user:1", data["id"])

	// Empty envelope
	_, ok = unwrapOne(map[string]interface{}{
		"status": "OK",
		"result": []interface{}{},
	})
	assert.False(t, ok)

	// Bare record
	data, ok = unwrapOne(map[string]interface{}{"id": "user:2"})
	assert.True(t, ok)
	assert.Equal(t, "user:2", data["id"])

	// Nil
	_, ok = unwrapOne(nil)
	assert.False(t, ok)
}
