package vk

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// NewRandomID returns a fresh non-negative correlation id for messages.send.
// The API dedupes sends that carry the same random_id, so every call needs a new one.
func NewRandomID() int32 {
	id := uuid.New()
	return int32(binary.BigEndian.Uint32(id[:4]) & 0x7fffffff)
}
