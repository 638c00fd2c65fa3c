package font

import (
	"strings"
	"sync"

	"github.com/derekparker/trie"
	"github.com/flopp/go-findfont"

	"github.com/foliotype/retype/core/style"
)

// DefaultFontMapper is a reference FontMapper: it tries to keep a
// translated codepoint on its original font first (most embedded subset
// fonts cover Latin + a handful of symbols), then tries the family its
// alias table names for the original font (located among the installed
// system fonts via github.com/flopp/go-findfont), and finally falls back
// to its base font.
//
// It exists so the engine can be exercised end-to-end without a caller
// supplying their own mapper: there is always something usable.
type DefaultFontMapper struct {
	mu       sync.Mutex
	cache    map[string]*ScalableFont
	aliases  *trie.Trie // family alias (lowercased) -> canonical family name
	fallback *ScalableFont
}

// NewDefaultFontMapper builds a mapper with fallback as its base font and
// the given family aliases (e.g. "simsun" -> "noto sans cjk sc").
func NewDefaultFontMapper(fallback *ScalableFont, aliases map[string]string) *DefaultFontMapper {
	m := &DefaultFontMapper{
		cache:    make(map[string]*ScalableFont),
		aliases:  trie.New(),
		fallback: fallback,
	}
	for alias, canonical := range aliases {
		m.aliases.Add(strings.ToLower(alias), canonical)
	}
	return m
}

// BaseFont implements FontMapper.
func (m *DefaultFontMapper) BaseFont() Font {
	return m.fallback
}

// Map implements FontMapper. It prefers the original font if it already
// covers codepoint, then consults the alias trie, then falls back to
// m.fallback.
func (m *DefaultFontMapper) Map(original Font, codepoint rune) (Font, bool) {
	if original != nil && original.GlyphID(codepoint) != 0 {
		return original, true
	}
	if original != nil {
		if canon, ok := m.lookupAlias(string(original.ID())); ok {
			if sf, err := m.resolve(canon); err == nil && sf.GlyphID(codepoint) != 0 {
				return sf, true
			}
		}
	}
	if m.fallback != nil && m.fallback.GlyphID(codepoint) != 0 {
		return m.fallback, true
	}
	return nil, false
}

func (m *DefaultFontMapper) lookupAlias(family string) (string, bool) {
	node, ok := m.aliases.Find(strings.ToLower(family))
	if !ok {
		return "", false
	}
	meta, ok := node.Meta().(string)
	return meta, ok
}

func (m *DefaultFontMapper) resolve(family string) (*ScalableFont, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sf, ok := m.cache[family]; ok {
		return sf, nil
	}
	path, err := findfont.Find(family)
	if err != nil {
		return nil, err
	}
	sf, err := LoadScalableFont(style.FontID(family), path)
	if err != nil {
		return nil, err
	}
	m.cache[family] = sf
	return sf, nil
}

var _ FontMapper = (*DefaultFontMapper)(nil)
