package utils

import "golang.org/x/crypto/bcrypt"

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashFragment returns the trailing characters of a password hash that
// get embedded in issued tokens, tying them to the current password.
func HashFragment(hash string) string {
	if len(hash) <= 6 {
		return hash
	}
	return hash[len(hash)-6:]
}
