package helpers

import (
	"crypto/rand"
	"encoding/hex"
)

// VerificationTokenBytes is the entropy of an email verification token.
const VerificationTokenBytes = 32

// GenVerificationToken returns a random opaque token, hex encoded.
func GenVerificationToken() (string, error) {
	b := make([]byte, VerificationTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
