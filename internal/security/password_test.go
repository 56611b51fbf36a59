package security

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func TestValidatePassword_Weak(t *testing.T) {
	cases := []struct {
		name     string
		password string
	}{
		{"empty", ""},
		{"too short", "Ab1!xyz"},
		{"one class", "abcdefgh"},
		{"two classes lower digit", "abcd1234"},
		{"two classes upper lower", "Abcdefgh"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidatePassword(tc.password); !errors.Is(err, ErrWeakPassword) {
				t.Errorf("ValidatePassword(%q): want ErrWeakPassword, got %v", tc.password, err)
			}
		})
	}
}

func TestValidatePassword_Strong(t *testing.T) {
	cases := []string{
		"Abcd1234",
		"abcd123!",
		"ABCD123!",
		"Str0ng!Pass",
		"aB3$aB3$aB3$",
	}
	for _, pw := range cases {
		if err := ValidatePassword(pw); err != nil {
			t.Errorf("ValidatePassword(%q): unexpected error %v", pw, err)
		}
	}
}

func TestGenerateTemporaryPassword(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		pw, err := GenerateTemporaryPassword()
		if err != nil {
			t.Fatalf("GenerateTemporaryPassword: %v", err)
		}
		if len(pw) != TempPasswordLength {
			t.Fatalf("length want %d, got %d (%q)", TempPasswordLength, len(pw), pw)
		}
		if err := ValidatePassword(pw); err != nil {
			t.Fatalf("generated password %q fails strength policy: %v", pw, err)
		}
		if !strings.ContainsAny(pw, upperChars) || !strings.ContainsAny(pw, lowerChars) ||
			!strings.ContainsAny(pw, digitChars) || !strings.ContainsAny(pw, specialChars) {
			t.Fatalf("generated password %q missing a character class", pw)
		}
		seen[pw] = true
	}
	if len(seen) < 50 {
		t.Errorf("expected 50 distinct passwords, got %d", len(seen))
	}
}

func TestGenerateResetToken(t *testing.T) {
	tok, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("GenerateResetToken: %v", err)
	}
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil {
		t.Fatalf("token is not base64url: %v", err)
	}
	if len(raw) != resetTokenBytes {
		t.Errorf("want %d bytes of entropy, got %d", resetTokenBytes, len(raw))
	}
	tok2, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("GenerateResetToken: %v", err)
	}
	if tok == tok2 {
		t.Error("two reset tokens should not collide")
	}
}
