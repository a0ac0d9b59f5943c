package auth

import (
	"errors"
	"strings"
	"unicode"
)

const passwordSpecialChars = `!@#$%^&*(),.?":{}|<>-`

var (
	ErrPasswordTooShort  = errors.New("La contraseña debe tener al menos 8 caracteres.")
	ErrPasswordNoUpper   = errors.New("La contraseña debe contener al menos una letra mayúscula.")
	ErrPasswordNoDigit   = errors.New("La contraseña debe contener al menos un número.")
	ErrPasswordNoSpecial = errors.New("La contraseña debe contener al menos un carácter especial.")
)

// ValidatePassword devuelve el primer requisito que no se cumple.
func ValidatePassword(p string) error {
	if len([]rune(p)) < 8 {
		return ErrPasswordTooShort
	}
	var upper, digit, special bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecialChars, r):
			special = true
		}
	}
	if !upper {
		return ErrPasswordNoUpper
	}
	if !digit {
		return ErrPasswordNoDigit
	}
	if !special {
		return ErrPasswordNoSpecial
	}
	return nil
}
