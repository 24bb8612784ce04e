package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateOTP draws a uniform 6-digit code and returns it together with its
// bcrypt hash. Only the hash is ever persisted; the plaintext goes out by
// email and is then forgotten.
func GenerateOTP() (code, hash string, err error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", "", err
	}

	code = fmt.Sprintf("%06d", n.Int64())
	hash, err = HashSecret(code)
	if err != nil {
		return "", "", err
	}

	return code, hash, nil
}
