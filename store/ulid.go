// ABOUTME: ULID generation helper using crypto/rand for result snapshot ids.
// ABOUTME: Centralizes ULID creation so all code uses the same entropy source.
package store

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// NewID generates a new ULID using crypto/rand entropy.
func NewID() ulid.ULID {
	return ulid.MustNew(ulid.Now(), rand.Reader)
}
