package security

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the work factor the rest of the platform uses.
const bcryptCost = 12

// HashPassword derives a salted one-way digest of the plaintext. The
// plaintext is never stored or logged.
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword recomputes and compares; it reports a match without ever
// exposing the digest's salt handling to callers.
func VerifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
