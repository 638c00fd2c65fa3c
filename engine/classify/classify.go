/*
Package classify implements the per-character Unicode predicates the
typesetting engine bases its script-mixing and line-breaking decisions
on: is this rune CJK, can a line break before it, does it hang past the
right margin, must it not end a line, and is it one of the handful of
punctuation marks that suppress CJK/Latin spacing glue.

This is deliberately not a UAX #14 line breaker. Reflowing translated
text onto fixed page geometry needs a narrower, fixed rule set — an
explicit non-breaking-script table plus a handful of punctuation sets —
whose decisions stay put across Unicode database revisions. The tables
are merged from the standard Unicode block/script ranges via
golang.org/x/text/unicode/rangetable.
*/
package classify

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/rangetable"
	"golang.org/x/text/width"
)

// fullwidthBrackets is the fixed set of fullwidth bracket/punctuation
// runes that always count as CJK, regardless of Unicode block.
const fullwidthBrackets = "（）【】《》〔〕〈〉〖〗「」『』、。：？！，"

// cjkCommonBlocks covers the CJK-area blocks whose members carry script
// Common or Inherited and therefore fall outside the script tables below:
// CJK Symbols and Punctuation, Ideographic Description Characters, Kanbun
// and the CJK Compatibility block.
var cjkCommonBlocks = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2FF0, Hi: 0x2FFF, Stride: 1}, // Ideographic Description Characters
		{Lo: 0x3000, Hi: 0x303F, Stride: 1}, // CJK Symbols and Punctuation
		{Lo: 0x3190, Hi: 0x319F, Stride: 1}, // Kanbun
		{Lo: 0x3300, Hi: 0x33FF, Stride: 1}, // CJK Compatibility
	},
}

// cjkTable merges the ideographic script tables (Han subsumes the unified
// ideograph blocks, their extensions, the compatibility ideographs and
// the radical blocks; Hangul covers jamo and syllables; Bopomofo and the
// kana tables cover their phonetic extensions) with the script-Common
// blocks above.
var cjkTable = rangetable.Merge(
	unicode.Han,
	unicode.Hiragana,
	unicode.Katakana,
	unicode.Hangul,
	unicode.Bopomofo,
	cjkCommonBlocks,
)

// nonBreakingScripts lists the Unicode scripts whose members never break
// a line on their own: alphabetic scripts read in unbroken words.
// unicode.Latin already subsumes Latin-1 Supplement and the Latin
// Extended A-E blocks.
var nonBreakingScripts = []*unicode.RangeTable{
	unicode.Latin,
	unicode.Cyrillic,
	unicode.Greek,
	unicode.Armenian,
	unicode.Georgian,
	unicode.Thai,
	unicode.Lao,
	unicode.Myanmar,
	unicode.Khmer,
	unicode.Ethiopic,
	unicode.Malayalam,
	unicode.Gujarati,
	unicode.Tamil,
	unicode.Telugu,
	unicode.Oriya,
	unicode.Thaana,
	unicode.Adlam,
	unicode.Yi,
	unicode.Canadian_Aboriginal,
}

// combiningDiacriticals is the Combining Diacritical Marks block, script
// Inherited and thus outside the script tables above. The IPA Extensions
// block is script Latin and already covered.
var combiningDiacriticals = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0300, Hi: 0x036F, Stride: 1}},
}

const nonBreakingExtraRunes = "'-·ʻ" // apostrophe, hyphen, middle dot, modifier apostrophe

var nonBreakingTable = rangetable.Merge(
	append([]*unicode.RangeTable{combiningDiacriticals}, nonBreakingScripts...)...,
)

// hungPunctuation is the fixed set of punctuation allowed to overflow the
// right margin: sentence-final marks, closing quotes/brackets, dashes,
// middle dots, and half-/full-width slashes.
const hungPunctuation = "，。、；：？！）】》」』〉〗〕”’\"'·—－-/／"

// leadingPunctuation is the fixed set of opening quotes/brackets that may
// never be the last unit on a line.
const leadingPunctuation = "（【《「『〈〖〔“‘\"'"

// mixedBlacklist suppresses CJK/Latin inter-script glue at a boundary.
const mixedBlacklist = "。，：？！"

// GlueExcluded is the slightly larger punctuation set checked against
// the *preceding* unit before inserting inter-script glue (includes the
// Chinese semicolon, absent from mixedBlacklist).
const GlueExcluded = "。！？；：，"

// IsCJK reports whether c belongs to a CJK/Hiragana/Katakana/Hangul/
// Bopomofo/Kanbun/CJK-Compat block, is one of the fixed fullwidth
// brackets, or carries the East-Asian-Fullwidth width property (the
// FULLWIDTH compatibility forms, U+FF01..FFE6).
func IsCJK(c rune) bool {
	return unicode.Is(cjkTable, c) ||
		strings.ContainsRune(fullwidthBrackets, c) ||
		width.LookupRune(c).Kind() == width.EastAsianFullwidth
}

// CanBreakLine reports whether a line may break before c. It is false
// for runes in the non-breaking-script table, for digits, for combining
// marks and for a handful of fixed punctuation runes; everything else,
// including CJK ideographs, is breakable.
func CanBreakLine(c rune) bool {
	if (c >= '0' && c <= '9') || strings.ContainsRune(nonBreakingExtraRunes, c) {
		return false
	}
	return !unicode.Is(nonBreakingTable, c)
}

// IsHungPunctuation reports whether c may overflow the right margin.
func IsHungPunctuation(c rune) bool {
	return strings.ContainsRune(hungPunctuation, c)
}

// IsLeadingPunctuation reports whether c must not be the last unit on a
// line.
func IsLeadingPunctuation(c rune) bool {
	return strings.ContainsRune(leadingPunctuation, c)
}

// IsMixedBlacklisted reports whether c suppresses CJK/Latin inter-script
// glue at a composition boundary.
func IsMixedBlacklisted(c rune) bool {
	return strings.ContainsRune(mixedBlacklist, c)
}

// IsSpace reports whether c is the ASCII space character. Only U+0020
// counts — line width and glue math is all defined in terms of this one
// glyph's advance width, so other Unicode space separators stay opaque.
func IsSpace(c rune) bool {
	return c == ' '
}
