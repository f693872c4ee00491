package utils

import (
	"log"

	"golang.org/x/crypto/bcrypt"
)

// HashSecret hashes a password or OTP code.
func HashSecret(secret string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("generate secret hash error:", err)
	}
	return string(hash)
}

// VerifySecret verifies a plaintext secret against its hash.
func VerifySecret(secret string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
