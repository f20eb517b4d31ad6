package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenerateUUIDv7(t *testing.T) {
	id := GenerateUUIDv7()
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestParseUUIDs(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	parsed := ParseUUIDs([]string{a.String(), "not-a-uuid", b.String(), ""})
	assert.Equal(t, []uuid.UUID{a, b}, parsed)

	assert.Empty(t, ParseUUIDs(nil))
}
