package utils

import "golang.org/x/crypto/bcrypt"

// HashSecret returns a bcrypt hash of the provided secret. It is used for
// both passwords and OTP codes so that neither is ever stored in plaintext.
func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckSecret compares a bcrypt hash with its possible plaintext equivalent.
func CheckSecret(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
