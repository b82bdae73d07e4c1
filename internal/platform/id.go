package platform

import (
	"crypto/rand"

	"github.com/google/uuid"
)

// nameAlphabet keeps generated names lowercase alphanumeric so they stay
// usable in hostnames and log lines.
const (
	nameAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	nameLength   = 10
)

// NewID returns a random UUID string, the primary key format for all records.
func NewID() string {
	return uuid.NewString()
}

// NewName returns the prefix followed by a short random suffix.
func NewName(prefix string) string {
	b := make([]byte, nameLength)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand: " + err.Error())
	}
	for i := range b {
		b[i] = nameAlphabet[int(b[i])%len(nameAlphabet)]
	}
	return prefix + string(b)
}
