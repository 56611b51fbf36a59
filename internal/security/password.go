package security

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"math/big"
)

// ErrWeakPassword is returned when a password does not meet the strength policy.
var ErrWeakPassword = errors.New("password does not meet strength requirements")

const (
	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	digitChars   = "0123456789"
	specialChars = "!@#$%^&*()-_=+[]{};:,.?/"

	// TempPasswordLength is the length of generated temporary passwords.
	TempPasswordLength = 12

	// resetTokenBytes gives reset tokens 256 bits of entropy.
	resetTokenBytes = 32
)

// ValidatePassword enforces the strength policy: at least 8 characters and at
// least 3 of the 4 character classes (uppercase, lowercase, digit, special).
// Returns ErrWeakPassword on violation; the plaintext is never included in errors.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			for _, s := range specialChars {
				if r == s {
					hasSpecial = true
					break
				}
			}
		}
	}
	classes := 0
	for _, ok := range []bool{hasUpper, hasLower, hasDigit, hasSpecial} {
		if ok {
			classes++
		}
	}
	if classes < 3 {
		return ErrWeakPassword
	}
	return nil
}

// GenerateTemporaryPassword produces a 12-character password containing at
// least one uppercase letter, one lowercase letter, one digit, and one special
// character, with the remainder drawn from the combined alphabet. The result
// is shuffled with a CSPRNG so character class does not leak from position,
// and it always satisfies ValidatePassword.
func GenerateTemporaryPassword() (string, error) {
	combined := upperChars + lowerChars + digitChars + specialChars
	chars := make([]byte, 0, TempPasswordLength)
	for _, set := range []string{upperChars, lowerChars, digitChars, specialChars} {
		c, err := randomChar(set)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}
	for len(chars) < TempPasswordLength {
		c, err := randomChar(combined)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}
	// Fisher–Yates with crypto/rand.
	for i := len(chars) - 1; i > 0; i-- {
		j, err := randomInt(i + 1)
		if err != nil {
			return "", err
		}
		chars[i], chars[j] = chars[j], chars[i]
	}
	return string(chars), nil
}

// GenerateResetToken returns a URL-safe password reset token with 256 bits of
// entropy, base64url-encoded without padding.
func GenerateResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func randomChar(set string) (byte, error) {
	i, err := randomInt(len(set))
	if err != nil {
		return 0, err
	}
	return set[i], nil
}

func randomInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
