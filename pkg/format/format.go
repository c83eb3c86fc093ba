// Package format provides display formatting for Brazilian identifiers,
// phone numbers, postal codes, currency and dates. Every function is pure:
// input that does not match the expected digit count is returned unchanged,
// never an error.
package format

import (
	"fmt"
	"strings"
	"time"
)

// Digits strips every non-digit rune from s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Document formats a CPF (11 digits, XXX.XXX.XXX-XX) or CNPJ
// (14 digits, XX.XXX.XXX/XXXX-XX). Any other digit count returns the
// original input unchanged.
func Document(s string) string {
	d := Digits(s)
	switch len(d) {
	case 11:
		return fmt.Sprintf("%s.%s.%s-%s", d[0:3], d[3:6], d[6:9], d[9:11])
	case 14:
		return fmt.Sprintf("%s.%s.%s/%s-%s", d[0:2], d[2:5], d[5:8], d[8:12], d[12:14])
	default:
		return s
	}
}

// Phone formats a 10-digit number as (XX) XXXX-XXXX and an 11-digit
// number as (XX) XXXXX-XXXX; anything else is returned unchanged.
func Phone(s string) string {
	d := Digits(s)
	switch len(d) {
	case 10:
		return fmt.Sprintf("(%s) %s-%s", d[0:2], d[2:6], d[6:10])
	case 11:
		return fmt.Sprintf("(%s) %s-%s", d[0:2], d[2:7], d[7:11])
	default:
		return s
	}
}

// CEP formats an 8-digit postal code as XXXXX-XXX; anything else is
// returned unchanged.
func CEP(s string) string {
	d := Digits(s)
	if len(d) != 8 {
		return s
	}
	return d[0:5] + "-" + d[5:8]
}

// Currency renders a value in cents using the pt-BR convention,
// e.g. 123456 -> "R$ 1.234,56". Negative values keep the sign before
// the symbol's amount.
func Currency(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("R$ %s%s,%02d", sign, b.String(), frac)
}

// Date renders t as DD/MM/YYYY.
func Date(t time.Time) string {
	return t.Format("02/01/2006")
}

// DateTime renders t as DD/MM/YYYY HH:MM.
func DateTime(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}

// ValidEmail is a permissive shape check: no whitespace, exactly one "@"
// and a "." somewhere after it. It is a UX hint, not a security boundary,
// and deliberately not RFC-5322 complete.
func ValidEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\n\r") {
		return false
	}
	at := strings.Index(s, "@")
	if at <= 0 || at != strings.LastIndex(s, "@") {
		return false
	}
	dot := strings.Index(s[at:], ".")
	return dot > 1 && at+dot < len(s)-1
}

// FileSize renders a byte count with binary steps, e.g. "1.5 MB".
func FileSize(n int64) string {
	if n <= 0 {
		return "0 bytes"
	}
	v := float64(n)
	for _, unit := range []string{"bytes", "KB", "MB", "GB"} {
		if v < 1024.0 {
			return fmt.Sprintf("%.1f %s", v, unit)
		}
		v /= 1024.0
	}
	return fmt.Sprintf("%.1f TB", v)
}
