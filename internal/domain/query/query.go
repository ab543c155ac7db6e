// Package query normalizes and validates raw search text before any other
// stage of the pipeline sees it.
package query

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// unsafePatterns match injection attempts: shell metacharacters, SQL comment
// markers and statements, script tags.
var unsafePatterns = []*regexp.Regexp{
	regexp.MustCompile("[;<>|&$`]"),
	regexp.MustCompile(`--`),
	regexp.MustCompile(`/\*.*\*/`),
	regexp.MustCompile(`(?i)union\s+select`),
	regexp.MustCompile(`(?i)drop\s+table`),
	regexp.MustCompile(`(?i)<script`),
}

// Sanitize trims the text, drops NUL and control characters (keeping newline
// and tab for the whitespace collapse) and folds whitespace runs into single
// spaces. Pure and idempotent.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == 0 || (unicode.IsControl(r) && r != '\n' && r != '\t') {
			continue
		}
		b.WriteRune(r)
	}
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(b.String()), " ")
}

// Validate rejects empty, out-of-bounds or unsafe query text. All returned
// errors wrap domain.ErrInvalidQuery; callers branch with errors.Is.
func Validate(s string) error {
	if strings.TrimSpace(s) == "" {
		return domain.ErrQueryEmpty
	}
	n := utf8.RuneCountInString(s)
	if n < domain.MinQueryLength {
		return domain.ErrQueryTooShort
	}
	if n > domain.MaxQueryLength {
		return domain.ErrQueryTooLong
	}
	for _, p := range unsafePatterns {
		if p.MatchString(s) {
			return domain.ErrQueryUnsafe
		}
	}
	if specialRatio(s) > 0.3 {
		return domain.ErrQueryTooManySpecialChars
	}
	return nil
}

// specialRatio is the fraction of runes that are neither alphanumeric nor
// one of the punctuation marks common in feature names.
func specialRatio(s string) float64 {
	if s == "" {
		return 0
	}
	var special, total int
	for _, r := range s {
		total++
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
		case r == ' ' || r == '-' || r == '\'' || r == ',' || r == '.':
		default:
			special++
		}
	}
	return float64(special) / float64(total)
}
