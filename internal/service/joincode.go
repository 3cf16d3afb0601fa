package service

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/attendly/attendly-api/internal/models"
)

const joinCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateJoinCode produces a 6-character uppercase alphanumeric code suitable
// for sharing aloud. Uniqueness is enforced by the store; callers retry on
// collision.
func generateJoinCode() (string, error) {
	code := make([]byte, models.JoinCodeLength)
	max := big.NewInt(int64(len(joinCodeAlphabet)))

	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate join code: %w", err)
		}
		code[i] = joinCodeAlphabet[n.Int64()]
	}

	return string(code), nil
}
