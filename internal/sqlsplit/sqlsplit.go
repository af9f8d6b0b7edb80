// Package sqlsplit splits a SQL migration script into single statements.
//
// Semicolons inside single- or double-quoted strings, dollar-quoted bodies
// ($$ ... $$ or $tag$ ... $tag$) and comments do not end a statement.
// Comments are removed from the output.
package sqlsplit

import "strings"

// Split returns the statements of script, trimmed, without the terminating
// semicolon. Empty statements are dropped.
func Split(script string) []string {
	var (
		stmts []string
		cur   strings.Builder
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			stmts = append(stmts, s)
		}
		cur.Reset()
	}

	src := []rune(script)
	n := len(src)
	for i := 0; i < n; i++ {
		c := src[i]
		switch {
		case c == '-' && i+1 < n && src[i+1] == '-':
			for i < n && src[i] != '\n' {
				i++
			}
			if i < n {
				cur.WriteRune('\n')
			}
		case c == '/' && i+1 < n && src[i+1] == '*':
			i += 2
			for i < n && !(src[i] == '*' && i+1 < n && src[i+1] == '/') {
				i++
			}
			i++ // skip '/'
			cur.WriteRune(' ')
		case c == '\'' || c == '"':
			j := quoted(src, i, c)
			cur.WriteString(string(src[i:j]))
			i = j - 1
		case c == '$':
			if tag, ok := dollarTag(src, i); ok {
				j := closing(src, i+len(tag), tag)
				cur.WriteString(string(src[i:j]))
				i = j - 1
			} else {
				cur.WriteRune(c)
			}
		case c == ';':
			flush()
		default:
			cur.WriteRune(c)
		}
	}
	flush()
	return stmts
}

// quoted returns the index just past the closing quote of the string that
// starts at src[i]. A doubled quote is an escaped quote.
func quoted(src []rune, i int, q rune) int {
	for j := i + 1; j < len(src); j++ {
		if src[j] != q {
			continue
		}
		if j+1 < len(src) && src[j+1] == q {
			j++
			continue
		}
		return j + 1
	}
	return len(src)
}

// closing returns the index just past the next occurrence of tag at or after
// from, or len(src) when the body is unterminated.
func closing(src []rune, from int, tag []rune) int {
	for k := from; k+len(tag) <= len(src); k++ {
		if string(src[k:k+len(tag)]) == string(tag) {
			return k + len(tag)
		}
	}
	return len(src)
}

// dollarTag reports the dollar-quote delimiter ($$ or $name$) starting at src[i].
func dollarTag(src []rune, i int) ([]rune, bool) {
	for j := i + 1; j < len(src); j++ {
		r := src[j]
		if r == '$' {
			return src[i : j+1], true
		}
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (j > i+1 && r >= '0' && r <= '9')) {
			return nil, false
		}
	}
	return nil, false
}
