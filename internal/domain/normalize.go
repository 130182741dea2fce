package domain

import (
	"strings"
	"time"
	"unicode"
)

// CapitalizeFirst trims the value, upper-cases the first rune and lower-cases
// the remainder. Applied to product names and user name fields on every write
// so uniqueness on product names is effectively case-insensitive.
func CapitalizeFirst(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// NormalizeEmail lower-cases an email address for storage.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DefaultOrderDate returns the server's current local date in YYYY-MM-DD form,
// used when an order is created without an explicit date.
func DefaultOrderDate() string {
	return time.Now().Format("2006-01-02")
}
