// Package emoji splits strings into user-perceived characters and decides
// which of them are emoji. Palette editing and the HTTP boundary use it; the
// document model itself accepts any text.
package emoji

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

const variationSelector16 = '\uFE0F'

// emojiPresentation lists code points that render as emoji by default.
var emojiPresentation = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x231A, Hi: 0x231B, Stride: 1},
		{Lo: 0x23E9, Hi: 0x23EC, Stride: 1},
		{Lo: 0x23F0, Hi: 0x23F0, Stride: 1},
		{Lo: 0x23F3, Hi: 0x23F3, Stride: 1},
		{Lo: 0x25FD, Hi: 0x25FE, Stride: 1},
		{Lo: 0x2614, Hi: 0x2615, Stride: 1},
		{Lo: 0x2648, Hi: 0x2653, Stride: 1},
		{Lo: 0x267F, Hi: 0x267F, Stride: 1},
		{Lo: 0x2693, Hi: 0x2693, Stride: 1},
		{Lo: 0x26A1, Hi: 0x26A1, Stride: 1},
		{Lo: 0x26AA, Hi: 0x26AB, Stride: 1},
		{Lo: 0x26BD, Hi: 0x26BE, Stride: 1},
		{Lo: 0x26C4, Hi: 0x26C5, Stride: 1},
		{Lo: 0x26CE, Hi: 0x26CE, Stride: 1},
		{Lo: 0x26D4, Hi: 0x26D4, Stride: 1},
		{Lo: 0x26EA, Hi: 0x26EA, Stride: 1},
		{Lo: 0x26F2, Hi: 0x26F3, Stride: 1},
		{Lo: 0x26F5, Hi: 0x26F5, Stride: 1},
		{Lo: 0x26FA, Hi: 0x26FA, Stride: 1},
		{Lo: 0x26FD, Hi: 0x26FD, Stride: 1},
		{Lo: 0x2705, Hi: 0x2705, Stride: 1},
		{Lo: 0x270A, Hi: 0x270B, Stride: 1},
		{Lo: 0x2728, Hi: 0x2728, Stride: 1},
		{Lo: 0x274C, Hi: 0x274C, Stride: 1},
		{Lo: 0x274E, Hi: 0x274E, Stride: 1},
		{Lo: 0x2753, Hi: 0x2755, Stride: 1},
		{Lo: 0x2757, Hi: 0x2757, Stride: 1},
		{Lo: 0x2795, Hi: 0x2797, Stride: 1},
		{Lo: 0x27B0, Hi: 0x27B0, Stride: 1},
		{Lo: 0x27BF, Hi: 0x27BF, Stride: 1},
		{Lo: 0x2B1B, Hi: 0x2B1C, Stride: 1},
		{Lo: 0x2B50, Hi: 0x2B50, Stride: 1},
		{Lo: 0x2B55, Hi: 0x2B55, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1F004, Hi: 0x1F004, Stride: 1},
		{Lo: 0x1F0CF, Hi: 0x1F0CF, Stride: 1},
		{Lo: 0x1F18E, Hi: 0x1F18E, Stride: 1},
		{Lo: 0x1F191, Hi: 0x1F19A, Stride: 1},
		{Lo: 0x1F1E6, Hi: 0x1F1FF, Stride: 1},
		{Lo: 0x1F201, Hi: 0x1F201, Stride: 1},
		{Lo: 0x1F21A, Hi: 0x1F21A, Stride: 1},
		{Lo: 0x1F22F, Hi: 0x1F22F, Stride: 1},
		{Lo: 0x1F232, Hi: 0x1F236, Stride: 1},
		{Lo: 0x1F238, Hi: 0x1F23A, Stride: 1},
		{Lo: 0x1F250, Hi: 0x1F251, Stride: 1},
		{Lo: 0x1F300, Hi: 0x1F64F, Stride: 1},
		{Lo: 0x1F680, Hi: 0x1F6FF, Stride: 1},
		{Lo: 0x1F7E0, Hi: 0x1F7F0, Stride: 1},
		{Lo: 0x1F90C, Hi: 0x1F9FF, Stride: 1},
		{Lo: 0x1FA70, Hi: 0x1FAFF, Stride: 1},
	},
}

// emojiCapable lists code points above U+238C that become emoji when
// followed by VS16 (for example ☀ + FE0F).
var emojiCapable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x23CF, Hi: 0x23FA, Stride: 1},
		{Lo: 0x24C2, Hi: 0x24C2, Stride: 1},
		{Lo: 0x25AA, Hi: 0x25AB, Stride: 1},
		{Lo: 0x25B6, Hi: 0x25B6, Stride: 1},
		{Lo: 0x25C0, Hi: 0x25C0, Stride: 1},
		{Lo: 0x25FB, Hi: 0x25FE, Stride: 1},
		{Lo: 0x2600, Hi: 0x27BF, Stride: 1},
		{Lo: 0x2934, Hi: 0x2935, Stride: 1},
		{Lo: 0x2B05, Hi: 0x2B07, Stride: 1},
		{Lo: 0x3030, Hi: 0x3030, Stride: 1},
		{Lo: 0x303D, Hi: 0x303D, Stride: 1},
		{Lo: 0x3297, Hi: 0x3297, Stride: 1},
		{Lo: 0x3299, Hi: 0x3299, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1F000, Hi: 0x1FAFF, Stride: 1},
	},
}

// Graphemes splits s into extended grapheme clusters.
func Graphemes(s string) []string {
	var out []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// IsEmoji reports whether a single grapheme cluster is an emoji.
func IsEmoji(grapheme string) bool {
	if grapheme == "" {
		return false
	}
	first := []rune(grapheme)[0]
	if unicode.Is(emojiPresentation, first) {
		return true
	}
	return unicode.Is(emojiCapable, first) &&
		(strings.ContainsRune(grapheme, variationSelector16) || first >= 0x1F000)
}

// IsSingle reports whether s is exactly one emoji grapheme.
func IsSingle(s string) bool {
	gs := Graphemes(s)
	return len(gs) == 1 && IsEmoji(gs[0])
}

// First returns the first grapheme of s when it is an emoji.
func First(s string) (string, bool) {
	g := uniseg.NewGraphemes(s)
	if !g.Next() {
		return "", false
	}
	if !IsEmoji(g.Str()) {
		return "", false
	}
	return g.Str(), true
}

// Filter drops every grapheme that is not an emoji.
func Filter(s string) string {
	var b strings.Builder
	for _, g := range Graphemes(s) {
		if IsEmoji(g) {
			b.WriteString(g)
		}
	}
	return b.String()
}

// RemovingDuplicates keeps the first occurrence of every grapheme.
func RemovingDuplicates(s string) string {
	seen := make(map[string]struct{})
	var b strings.Builder
	for _, g := range Graphemes(s) {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		b.WriteString(g)
	}
	return b.String()
}

// Remove deletes every occurrence of the grapheme from s.
func Remove(s, grapheme string) string {
	var b strings.Builder
	for _, g := range Graphemes(s) {
		if g != grapheme {
			b.WriteString(g)
		}
	}
	return b.String()
}
