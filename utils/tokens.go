package utils

import (
	"crypto/rand"
	"fmt"
)

// NewSessionID returns 32 random bytes, hex encoded. The bytes come
// from the system CSPRNG: session ids are bearer credentials.
func NewSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", b), nil
}
