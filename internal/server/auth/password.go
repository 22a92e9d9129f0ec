package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a salted bcrypt hash of plaintext. The output string
// encodes the algorithm parameters and salt, so verification needs nothing
// besides the stored value.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the stored bcrypt hash.
// A mismatch returns false, never an error.
func CheckPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
