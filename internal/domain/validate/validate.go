package validate

import (
	"regexp"
	"strings"
)

// Formatos aceptados por los mutadores. Mismos patrones en toda la aplicación
// para que los mensajes por campo sean consistentes.
var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	rutRe   = regexp.MustCompile(`^[0-9kK.\-]{7,20}$`)
	phoneRe = regexp.MustCompile(`^[0-9+()\-\s]{6,30}$`)
	urlRe   = regexp.MustCompile(`(?i)^https?://`)
)

// Email valida formato de correo.
func Email(s string) bool { return emailRe.MatchString(s) }

// RUT valida un RUT/NIF chileno (dígitos, K, puntos y guión, 7 a 20 chars).
func RUT(s string) bool { return rutRe.MatchString(s) }

// Phone valida un teléfono (dígitos y separadores usuales, 6 a 30 chars).
func Phone(s string) bool { return phoneRe.MatchString(s) }

// Website exige prefijo http:// o https://.
func Website(s string) bool { return urlRe.MatchString(s) }

// Percent rango [0, 100].
func Percent(v float64) bool { return v >= 0 && v <= 100 }

// Days rango [0, 365] para plazos y lead times.
func Days(v int) bool { return v >= 0 && v <= 365 }

// NormalizeSKU recorta y normaliza a mayúsculas.
func NormalizeSKU(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
