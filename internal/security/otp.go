package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// otpSpan covers the 6-digit codes 100000 through 999999.
const (
	otpMin  = 100000
	otpSpan = 900000
)

// GenerateOTPCode returns a uniformly random 6-digit decimal code.
func GenerateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return "", fmt.Errorf("security: generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+otpMin), nil
}
