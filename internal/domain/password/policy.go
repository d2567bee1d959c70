// Package password implementa la política de robustez de contraseñas.
package password

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jhoicas/forecast-cloud/internal/domain"
)

// Límites por defecto. MaxBytes es el máximo que acepta bcrypt y se mide en bytes.
const (
	DefaultMinLength = 8
	MaxBytes         = 72
)

// commonPasswords lista reducida de contraseñas más usadas (minúsculas).
var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"1234567890": {}, "qwerty123": {}, "qwertyuiop": {}, "iloveyou": {}, "admin123": {},
	"administrador": {}, "contraseña": {}, "contrasena": {}, "contrasena1": {}, "colombia": {},
	"colombia1": {}, "abc12345": {}, "abcd1234": {}, "letmein1": {}, "welcome1": {},
	"bienvenido": {}, "bienvenido1": {}, "1q2w3e4r": {}, "passw0rd": {}, "11111111": {},
	"00000000": {}, "987654321": {}, "superman1": {}, "football1": {}, "monkey123": {},
}

// Policy parámetros de la política.
type Policy struct {
	MinLength int
}

// DefaultPolicy política con longitud mínima por defecto.
func DefaultPolicy() Policy { return Policy{MinLength: DefaultMinLength} }

// Attributes datos del usuario con los que la contraseña no debe parecerse.
type Attributes struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// Check valida la contraseña. Devuelve un *domain.ValidationError que envuelve
// domain.ErrWeakPassword con todos los motivos de rechazo.
func (p Policy) Check(pw string, attrs Attributes) error {
	min := p.MinLength
	if min <= 0 {
		min = DefaultMinLength
	}
	var reasons []domain.FieldError
	add := func(msg string) {
		reasons = append(reasons, domain.FieldError{Field: "password", Message: msg})
	}

	n := utf8.RuneCountInString(pw)
	if n < min {
		add("La contraseña es demasiado corta.")
	}
	if len(pw) > MaxBytes {
		add("La contraseña es demasiado larga (máximo 72 bytes).")
	}

	var hasLetter, hasDigit, allDigits = false, false, n > 0
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
			allDigits = false
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			allDigits = false
		}
	}
	if allDigits {
		add("La contraseña no puede ser completamente numérica.")
	} else if !hasLetter || !hasDigit {
		add("La contraseña debe contener al menos una letra y un número.")
	}

	lower := strings.ToLower(pw)
	if _, ok := commonPasswords[lower]; ok {
		add("La contraseña es demasiado común.")
	}
	if similar(lower, attrs) {
		add("La contraseña es demasiado similar a los datos del usuario.")
	}

	if len(reasons) > 0 {
		return domain.NewValidationError(domain.ErrWeakPassword, reasons...)
	}
	return nil
}

// similar la contraseña contiene (o está contenida en) algún atributo del usuario
// de al menos 3 caracteres. Para el email se usa la parte local.
func similar(lowerPw string, attrs Attributes) bool {
	email := attrs.Email
	if i := strings.IndexByte(email, '@'); i >= 0 {
		email = email[:i]
	}
	for _, v := range []string{attrs.Username, email, attrs.FirstName, attrs.LastName} {
		v = strings.ToLower(strings.TrimSpace(v))
		if utf8.RuneCountInString(v) < 3 {
			continue
		}
		if strings.Contains(lowerPw, v) || strings.Contains(v, lowerPw) {
			return true
		}
	}
	return false
}
