package utils

import (
	"crypto/rand"
	"math/big"
	"slices"

	"github.com/google/uuid"
)

// --- ID Helpers ---

func GetUUID() string {
	return uuid.NewString()
}

func GenerateRandomDigitString(n int) string {
	const digits = "0123456789"
	b := make([]byte, n)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			b[i] = '0'
			continue
		}
		b[i] = digits[num.Int64()]
	}
	return string(b)
}

// --- Slice Helpers ---

func Contains(slice []string, value string) bool {
	return slices.Contains(slice, value)
}
