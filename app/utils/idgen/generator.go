package idgen

import (
	"crypto/rand"
	"fmt"
	"strings"
)

const (
	publicIDLength = 16
	charset        = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// GenerateSecureID returns prefix_<length random lowercase alphanumerics>.
func GenerateSecureID(prefix string, length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	encoded := make([]byte, length)
	for i := 0; i < length; i++ {
		encoded[i] = charset[int(bytes[i])%len(charset)]
	}
	return fmt.Sprintf("%s_%s", prefix, string(encoded)), nil
}

// NewPublicID generates an identifier with the standard public id length.
func NewPublicID(prefix string) (string, error) {
	return GenerateSecureID(prefix, publicIDLength)
}

// ValidateIDFormat reports whether id looks like prefix_alphanumeric.
func ValidateIDFormat(id, expectedPrefix string) bool {
	if !strings.HasPrefix(id, expectedPrefix+"_") {
		return false
	}
	suffix := id[len(expectedPrefix)+1:]
	if len(suffix) == 0 {
		return false
	}
	for _, char := range suffix {
		if !((char >= 'a' && char <= 'z') || (char >= '0' && char <= '9')) {
			return false
		}
	}
	return true
}
