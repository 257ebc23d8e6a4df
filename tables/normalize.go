package tables

import "strings"

// SpaceMode selects what normalization does with literal spaces.
type SpaceMode int

const (
	DropSpaces SpaceMode = iota
	UnderscoreSpaces
)

// Normalizer rewrites table names into identifier-safe display names. The
// zero value leaves names untouched.
type Normalizer struct {
	Enabled bool
	Spaces  SpaceMode
}

// Apply normalizes one name. Fullwidth forms fold to their halfwidth
// equivalents and are emitted as-is; otherwise spaces are dropped or
// underscored per the mode, "(" becomes "__" and ")" is dropped.
func (n Normalizer) Apply(name string) string {
	if !n.Enabled {
		return name
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if h, ok := toHalfwidth(r); ok {
			b.WriteRune(h)
			continue
		}
		switch r {
		case ' ':
			if n.Spaces == UnderscoreSpaces {
				b.WriteByte('_')
			}
		case '(':
			b.WriteString("__")
		case ')':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// toHalfwidth folds code points from the Halfwidth and Fullwidth Forms
// block to their halfwidth counterparts. Characters outside the block,
// regular katakana included, are left alone.
func toHalfwidth(r rune) (rune, bool) {
	if r >= '！' && r <= '～' { // U+FF01..U+FF5E, the fullwidth ASCII run
		return r - 0xFEE0, true
	}
	switch r {
	case '￠':
		return '¢', true
	case '￡':
		return '£', true
	case '￢':
		return '¬', true
	case '￣':
		return '¯', true
	case '￤':
		return '¦', true
	case '￥':
		return '¥', true
	case '￦':
		return '₩', true
	}
	return 0, false
}
