package validation

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/models"
)

const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 50
	maxQueryLength     = 64
)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

// TrimAndLimit trims surrounding whitespace and cuts s to at most max runes.
func TrimAndLimit(s string, max int) string {
	s = strings.TrimSpace(s)
	if max > 0 && utf8.RuneCountInString(s) > max {
		return strings.TrimSpace(string([]rune(s)[:max]))
	}
	return s
}

// NormalizeContent prepares a message body for storage. ok is false when
// nothing but whitespace was sent.
func NormalizeContent(content string, max int) (string, bool) {
	content = TrimAndLimit(content, max)
	return content, content != ""
}

// ParseDecision accepts "accept"/"accepted" and "reject"/"rejected".
func ParseDecision(s string) (models.ConnectionStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "accept", "accepted":
		return models.ConnectionAccepted, true
	case "reject", "rejected":
		return models.ConnectionRejected, true
	}
	return "", false
}

func NormalizeSearchQuery(q string) string {
	q = TrimAndLimit(q, maxQueryLength)
	// Wildcards would widen the LIKE pattern.
	q = strings.NewReplacer("%", "", "_", "").Replace(q)
	return strings.Join(strings.Fields(q), " ")
}

// ClampLimit applies the directory's default and ceiling to a requested limit.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		return MaxSearchLimit
	}
	return limit
}
