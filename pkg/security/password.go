package security

import (
	"fmt"
)

const DefaultPasswordLength = 12

var passwordCharset = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()")

// IntSource is the subset of *rand.Rand needed to draw password characters.
type IntSource interface {
	Intn(n int) int
}

// GeneratePassword draws length characters from the password charset using src,
// so a seeded source yields a reproducible password.
func GeneratePassword(src IntSource, length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}

	result := make([]rune, length)
	for i := 0; i < length; i++ {
		result[i] = passwordCharset[src.Intn(len(passwordCharset))]
	}
	return string(result), nil
}
