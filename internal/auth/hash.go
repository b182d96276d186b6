package auth

import "golang.org/x/crypto/bcrypt"

// HashSecret hashes a password or payment password with bcrypt.
func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckSecret reports whether secret matches hash. bcrypt's comparison is
// constant-time, so the raw value never influences timing.
func CheckSecret(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
