package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword はパスワードを bcrypt でハッシュ化します。
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword は平文パスワードとハッシュの一致を検証します。
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
