package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID is an opaque identifier for a scheduled item.
type ID string

func (c ID) String() string {
	return string(c)
}

func (c ID) IsZero() bool {
	return c == ""
}

// itemNamespace scopes derived item IDs so they never collide with IDs
// derived for other purposes from the same parts.
var itemNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("wanderly:itinerary:item"))

// DeriveID returns a name-based (v5) UUID for the given parts. The same parts
// always produce the same ID, which keeps document transforms deterministic.
func DeriveID(parts ...string) ID {
	return ID(uuid.NewSHA1(itemNamespace, []byte(strings.Join(parts, "\x1f"))).String())
}

// NewID returns a random (v4) UUID.
func NewID() (ID, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return ID(id.String()), nil
}

// MustNewID returns a random ID and panics if the random source fails.
func MustNewID() ID {
	id, err := NewID()
	if err != nil {
		panic(err)
	}
	return id
}

// ParseID validates that s is a UUID and returns it as an ID.
func ParseID(s string) (ID, error) {
	if s == "" {
		return "", errors.New("empty ID")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid ID format: %w", err)
	}
	return ID(id.String()), nil
}
