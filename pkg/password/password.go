package password

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// Errores de política, uno por regla para mostrarlos por campo.
const (
	MsgTooShort  = "La contraseña debe tener al menos 12 caracteres."
	MsgNoUpper   = "Debe incluir al menos una mayúscula."
	MsgNoLower   = "Debe incluir al menos una minúscula."
	MsgNoDigit   = "Debe incluir al menos un dígito."
	MsgNoSymbol  = "Debe incluir al menos un símbolo."
)

// Validate aplica la política fuerte: mínimo 12 caracteres con mayúscula,
// minúscula, dígito y símbolo. Devuelve los mensajes de las reglas incumplidas.
func Validate(p string) []string {
	var msgs []string
	if len(p) < 12 {
		msgs = append(msgs, MsgTooShort)
	}
	var upper, lower, digit, symbol bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	if !upper {
		msgs = append(msgs, MsgNoUpper)
	}
	if !lower {
		msgs = append(msgs, MsgNoLower)
	}
	if !digit {
		msgs = append(msgs, MsgNoDigit)
	}
	if !symbol {
		msgs = append(msgs, MsgNoSymbol)
	}
	return msgs
}

// Hash genera el hash bcrypt.
func Hash(p string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Compare verifica p contra un hash bcrypt.
func Compare(hash, p string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(p)) == nil
}

// Temporary genera una contraseña temporal de ~14 caracteres url-safe para
// cuentas creadas por un administrador (el usuario la cambia al primer acceso).
func Temporary() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(buf)
	if len(s) > 14 {
		s = s[:14]
	}
	return s, nil
}

// InviteCode genera el código de verificación del primer acceso: 8 hex en
// mayúsculas, fácil de transcribir desde el correo.
func InviteCode() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
