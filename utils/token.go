package utils

import (
	"math/rand"

	"github.com/google/uuid"
)

// GetToken returns a random token.
func GetToken() string {
	return uuid.NewString()
}

// GenOtpCode generates a 6-digit one-time passcode. The top-level
// rand functions are safe for concurrent callers.
func GenOtpCode() string {
	digits := "0123456789"
	code := make([]byte, 6)
	code[0] = digits[1+rand.Intn(9)]
	for i := 1; i < len(code); i++ {
		code[i] = digits[rand.Intn(len(digits))]
	}
	return string(code)
}
