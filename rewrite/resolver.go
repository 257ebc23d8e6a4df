package rewrite

import (
	"regexp"
	"strconv"
	"strings"

	"erbname/tables"
)

// refPattern matches one variable reference: BASE[:SCOPE]:INDEX. The
// exclusion classes keep structural delimiters out of BASE and SCOPE so
// that call argument lists like @FUNC(ARG, ARG:1) never read as a
// reference with a composite base.
const refPattern = `([^(){}\[%: \n]+)(:[^ (){\n:]+)?:(\d+)`

// nameSuffix marks references that want an index's label. The suffix is
// stripped for the table lookup but kept in the output.
const nameSuffix = "NAME"

// Target is the synthesized scope qualifier meaning "current target".
const Target = "TARGET"

// aliasFamily maps surface reference names onto the family that actually
// stores their data.
func aliasFamily(name string) string {
	switch name {
	case "PALAM", "UP", "DOWN":
		return "JUEL"
	case "NOWEX":
		return "EX"
	case "UPBASE", "DOWNBASE":
		return "BASE"
	}
	return name
}

// Stats counts the outcomes of one Rewrite pass. Missed covers indices
// with no entry in a loaded family; references to families that are not
// in the store pass through untouched and are not counted.
type Stats struct {
	Resolved int
	Missed   int
}

// Resolver rewrites variable references in script text against a frozen
// Store. One Resolver is shared read-only by all file workers.
type Resolver struct {
	pattern        *regexp.Regexp
	store          *tables.Store
	explicitTarget bool
}

// NewResolver compiles the reference pattern once and binds it to the
// store.
func NewResolver(store *tables.Store, explicitTarget bool) *Resolver {
	return &Resolver{
		pattern:        regexp.MustCompile(refPattern),
		store:          store,
		explicitTarget: explicitTarget,
	}
}

// Rewrite replaces every recognized reference in text with its resolved
// form. Matches come from a single scan of the input, so replacement
// text is never itself rescanned.
func (r *Resolver) Rewrite(text string) (string, Stats) {
	matches := r.pattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, Stats{}
	}

	var stats Stats
	var b strings.Builder
	b.Grow(len(text) + len(text)/8)

	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m[0]])
		b.WriteString(r.resolve(text, m, &stats))
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String(), stats
}

// resolve maps one match to its replacement text.
func (r *Resolver) resolve(text string, m []int, stats *Stats) string {
	raw := text[m[0]:m[1]]
	base := text[m[2]:m[3]]
	scope := ""
	if m[4] >= 0 {
		scope = text[m[4]:m[5]] // includes the leading ':'
	}
	idxText := text[m[6]:m[7]]

	family := base
	if strings.HasSuffix(family, nameSuffix) {
		family = family[:len(family)-len(nameSuffix)]
	}
	family = aliasFamily(family)

	entries, ok := r.store.Family(family)
	if !ok {
		return raw
	}

	idx, err := strconv.ParseUint(idxText, 10, 32)
	if err != nil {
		// Digits only, so this is overflow. Miss-equivalent.
		stats.Missed++
		return raw
	}

	var b strings.Builder
	b.WriteString(base)
	if scope != "" {
		b.WriteString(scope)
	} else if r.explicitTarget && tables.IsChara(base) {
		b.WriteByte(':')
		b.WriteString(Target)
	}
	b.WriteByte(':')

	if name, ok := entries[uint32(idx)]; ok {
		b.WriteString(name)
		stats.Resolved++
	} else {
		b.WriteString(idxText)
		stats.Missed++
	}
	return b.String()
}
