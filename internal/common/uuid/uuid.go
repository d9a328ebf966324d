// Package uuid wraps github.com/google/uuid with version 7 (time-ordered) as the
// default, so identifiers handed out by the sandbox server and the transcript
// writer sort by creation time.
package uuid

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"
)

// UUID is an alias of github.com/google/uuid.UUID.
type UUID = uuid.UUID

// New returns a new UUIDv7. Panics if UUID generation fails.
func New() UUID {
	id, err := uuid.NewV7()
	if err != nil {
		panic(err)
	}
	return id
}

// NewRandom returns a new UUIDv7 and any error encountered during generation.
func NewRandom() (UUID, error) {
	return uuid.NewV7()
}

// Parse parses a UUID string into a UUID value.
func Parse(s string) (UUID, error) {
	return uuid.Parse(s)
}

// IsUUIDv7 reports whether the given UUID is a UUIDv7.
func IsUUIDv7(id UUID) bool {
	return id.Version() == uuid.Version(7)
}

// Timestamp extracts the creation time from the top 48 bits of a UUIDv7.
func Timestamp(u UUID) time.Time {
	tsMillis := binary.BigEndian.Uint64(u[0:8]) >> 16
	return time.UnixMilli(int64(tsMillis))
}
