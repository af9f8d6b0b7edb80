// Package slug builds URL slugs for bilingual content. Letters and digits of
// any script are kept, so Arabic titles produce Arabic slugs.
package slug

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DefaultMaxLen bounds slug length in runes, suffix included.
const DefaultMaxLen = 160

const maxAttempts = 1000

var ErrExhausted = errors.New("failed to generate unique slug")

// TakenFunc reports whether a candidate slug is already used.
type TakenFunc func(ctx context.Context, candidate string) (bool, error)

// Make lower-cases s, strips combining marks (accents, Arabic harakat),
// replaces every run of non letter/digit characters with a single dash and
// trims dashes from both ends.
func Make(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	lastDash := true
	for _, r := range norm.NFD.String(s) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}
	return norm.NFC.String(strings.Trim(b.String(), "-"))
}

// Unique slugifies base and appends -2, -3, ... until taken reports the
// candidate free. fallback is used when base has no letters or digits.
func Unique(ctx context.Context, base, fallback string, taken TakenFunc) (string, error) {
	root := truncate(Make(base), DefaultMaxLen)
	if root == "" {
		root = truncate(Make(fallback), DefaultMaxLen)
	}
	if root == "" {
		root = "item"
	}

	candidate := root
	for i := 2; i < maxAttempts; i++ {
		used, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !used {
			return candidate, nil
		}
		suffix := fmt.Sprintf("-%d", i)
		candidate = truncate(root, DefaultMaxLen-len(suffix)) + suffix
	}
	return "", ErrExhausted
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return strings.Trim(string(rs[:n]), "-")
}
