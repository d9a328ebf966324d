package uuid

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	id := New()
	assert.NotEqual(t, uuid.Nil, id)
	assert.True(t, IsUUIDv7(id))
}

func TestNewRandom(t *testing.T) {
	id, err := NewRandom()
	assert.NoError(t, err)
	assert.True(t, IsUUIDv7(id))
	assert.False(t, IsUUIDv7(uuid.New()))
}

func TestParse(t *testing.T) {
	validUUID := "123e4567-e89b-12d3-a456-426614174000"
	id, err := Parse(validUUID)
	assert.NoError(t, err)
	assert.Equal(t, validUUID, id.String())

	_, err = Parse("invalid-uuid")
	assert.Error(t, err)
}

func TestTimestamp(t *testing.T) {
	ts := Timestamp(New())
	diff := time.Since(ts)
	assert.True(t, diff >= -time.Second && diff <= time.Second)
}
