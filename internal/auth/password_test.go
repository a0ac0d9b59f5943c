package auth

import (
	"errors"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		in   string
		want error
	}{
		{"Abc1!", ErrPasswordTooShort},
		{"abcdefg1!", ErrPasswordNoUpper},
		{"Abcdefgh!", ErrPasswordNoDigit},
		{"Abcdefg12", ErrPasswordNoSpecial},
		{"Abcdefg1-", nil},
		{"Clave.Segura2024", nil},
	}
	for _, c := range cases {
		if got := ValidatePassword(c.in); !errors.Is(got, c.want) {
			t.Errorf("ValidatePassword(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
