// Package format renders numbers and durations for English and Arabic pages.
package format

import (
	"fmt"
	"strconv"
	"strings"
)

var arabicDigits = [10]rune{'٠', '١', '٢', '٣', '٤', '٥', '٦', '٧', '٨', '٩'}

type unit struct {
	value uint64
	en    string
	ar    string
}

// Ascending; the last unit absorbs anything larger.
var units = []unit{
	{1e3, "K", " ألف"},
	{1e6, "M", " مليون"},
	{1e9, "B", " مليار"},
}

// CompactNumber abbreviates n with one decimal: 1234 -> "1.2K", 2500000 -> "2.5M".
// A value that rounds up to 1000 of a unit moves to the next one (999950 -> "1M").
// For lang "ar" the unit is spelled in Arabic and digits are Arabic-Indic.
func CompactNumber(n int64, lang string) string {
	neg := n < 0
	abs := uint64(n)
	if neg {
		abs = -abs
	}

	idx := -1
	for i, u := range units {
		if abs >= u.value {
			idx = i
		}
	}

	out := strconv.FormatUint(abs, 10)
	if idx >= 0 {
		tenths := roundTenths(abs, units[idx].value)
		if tenths >= 10000 && idx+1 < len(units) {
			idx++
			tenths = roundTenths(abs, units[idx].value)
		}
		out = strconv.FormatUint(tenths/10, 10)
		if frac := tenths % 10; frac != 0 {
			out += "." + strconv.FormatUint(frac, 10)
		}
		if lang == "ar" {
			out += units[idx].ar
		} else {
			out += units[idx].en
		}
	}
	if neg {
		out = "-" + out
	}
	return LocalizeDigits(out, lang)
}

// roundTenths returns abs/unit in tenths, rounded half up.
func roundTenths(abs, unit uint64) uint64 {
	return (abs + unit/20) / (unit / 10)
}

// Duration renders a length in seconds as m:ss, or h:mm:ss from one hour up.
func Duration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// LocalizeDigits replaces ASCII digits with Arabic-Indic digits (and the
// decimal point with the Arabic decimal separator) when lang is "ar".
func LocalizeDigits(s, lang string) string {
	if lang != "ar" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) * 2)
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(arabicDigits[r-'0'])
		case r == '.':
			b.WriteRune('٫')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
