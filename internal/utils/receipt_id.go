package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateReceiptID generates a random public ID for an uploaded receipt in
// the format XXXX-XXXX-XXXX
func GenerateReceiptID() (string, error) {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	hex := hex.EncodeToString(bytes)
	return fmt.Sprintf("%s-%s-%s",
		hex[0:4],
		hex[4:8],
		hex[8:12],
	), nil
}
