package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plaintext password with the configured cost. The
// salt is generated per call, so repeated hashes of the same input differ.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword reports whether plain matches the stored digest. A
// malformed digest is an ordinary mismatch, never a panic.
func VerifyPassword(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
