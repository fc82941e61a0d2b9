package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const DefaultOTPLength = 6

var ten = big.NewInt(10)

// GenerateOTP returns a numeric code of the given length. Leading zeros are kept.
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		length = DefaultOTPLength
	}

	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("failed to generate OTP: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}

	return b.String(), nil
}

// GenerateUserID returns a new public user identifier, e.g. "user-9f0c...".
func GenerateUserID() string {
	return "user-" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
