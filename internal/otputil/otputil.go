// Package otputil generates fixed-length numeric verification codes from a
// cryptographically strong source with uniform digit distribution. Codes are
// scoped per email by the caller, so no global uniqueness check is needed.
package otputil

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

// Code length bounds accepted by Generate.
const (
	MinDigits = 4
	MaxDigits = 10
)

var errInvalidDigits = errors.New("otputil: digits out of range")

// Generate returns a numeric code of exactly the requested length. Each digit
// is drawn independently from crypto/rand, so leading zeros are as likely as
// any other digit.
func Generate(digits int) (string, error) {
	if digits < MinDigits || digits > MaxDigits {
		return "", errInvalidDigits
	}

	var b strings.Builder
	b.Grow(digits)

	ten := big.NewInt(10)
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
