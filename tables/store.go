package tables

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"erbname/scanner"
)

// Selection decides which table files are loaded. Include wins over
// exclude, exclude wins over the built-in default groups.
type Selection struct {
	include map[string]bool
	exclude map[string]bool
}

// NewSelection builds a Selection; names are uppercased to match the
// family naming convention.
func NewSelection(includes, excludes []string) Selection {
	sel := Selection{
		include: make(map[string]bool, len(includes)),
		exclude: make(map[string]bool, len(excludes)),
	}
	for _, n := range includes {
		sel.include[strings.ToUpper(n)] = true
	}
	for _, n := range excludes {
		sel.exclude[strings.ToUpper(n)] = true
	}
	return sel
}

// Needed reports whether a family should be loaded.
func (s Selection) Needed(family string) bool {
	if s.include[family] {
		return true
	}
	if s.exclude[family] {
		return false
	}
	return CharaFamilies[family] || GlobalFamilies[family]
}

// Store maps family names to index-to-name tables. It is shared
// read-only by the rewrite workers: Load assembles it behind a barrier
// and it is never mutated afterwards.
type Store struct {
	families map[string]map[uint32]string
}

// NewStore wraps a prebuilt mapping. Tests and the MCP tools use it to
// assemble small stores directly.
func NewStore(families map[string]map[uint32]string) *Store {
	if families == nil {
		families = make(map[string]map[uint32]string)
	}
	return &Store{families: families}
}

// Family returns one family's entries.
func (s *Store) Family(name string) (map[uint32]string, bool) {
	m, ok := s.families[name]
	return m, ok
}

// Lookup resolves one index in one family.
func (s *Store) Lookup(family string, index uint32) (string, bool) {
	m, ok := s.families[family]
	if !ok {
		return "", false
	}
	name, ok := m[index]
	return name, ok
}

// Families lists the loaded family names, sorted.
func (s *Store) Families() []string {
	names := make([]string, 0, len(s.families))
	for name := range s.families {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of loaded families.
func (s *Store) Len() int { return len(s.families) }

// ParseEntries parses one table file's text (BOM already stripped). Lines
// are trimmed, then cut at the first ';'; the first ',' splits the index
// from the name and a second ',' truncates trailing columns. A line with
// no comma or a non-numeric index fails the whole file.
func ParseEntries(text string, norm Normalizer) (map[uint32]string, error) {
	entries := make(map[uint32]string)
	for ln, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}
		if line == "" {
			continue
		}

		comma := strings.IndexByte(line, ',')
		if comma < 0 {
			return nil, fmt.Errorf("line %d: no ',' separator", ln+1)
		}
		idxText, name := line[:comma], line[comma+1:]
		if i := strings.IndexByte(name, ','); i >= 0 {
			name = name[:i]
		}

		idx, err := strconv.ParseUint(idxText, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: index %q: %w", ln+1, idxText, err)
		}
		entries[uint32(idx)] = norm.Apply(name)
	}
	return entries, nil
}

// familyName derives the family from a table file path: the uppercased
// stem.
func familyName(path string) string {
	base := filepath.Base(path)
	return strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
}

// Load builds the Store for one target root. Qualifying files parse in
// parallel with no shared state; the store is assembled only after every
// worker finishes, so readers never observe a partial mapping. Warnings
// cover files skipped for a missing BOM and malformed tables; neither
// aborts the load.
func Load(root string, sel Selection, norm Normalizer, jobs int) (*Store, []string, error) {
	files, err := scanner.ScanTables(root)
	if err != nil {
		return nil, nil, fmt.Errorf("scan tables: %w", err)
	}

	type task struct {
		file   scanner.FileInfo
		family string
	}
	tasks := make([]task, 0, len(files))
	for _, f := range files {
		family := familyName(f.Path)
		if sel.Needed(family) {
			tasks = append(tasks, task{f, family})
		}
	}

	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(tasks) {
		jobs = len(tasks)
	}

	type result struct {
		family  string
		entries map[uint32]string
		warning string
	}
	work := make(chan task, len(tasks))
	results := make(chan result, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < jobs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range work {
				text, hasBOM, err := scanner.ReadTextFile(t.file.Abs)
				if err != nil {
					results <- result{warning: fmt.Sprintf("table %s: %v", t.file.Path, err)}
					continue
				}
				if !hasBOM {
					results <- result{warning: fmt.Sprintf("table %s: no BOM, skipped", t.file.Path)}
					continue
				}
				entries, err := ParseEntries(text, norm)
				if err != nil {
					results <- result{warning: fmt.Sprintf("table %s: %v", t.file.Path, err)}
					continue
				}
				results <- result{family: t.family, entries: entries}
			}
		}()
	}
	for _, t := range tasks {
		work <- t
	}
	close(work)
	wg.Wait()
	close(results)

	families := make(map[string]map[uint32]string, len(tasks))
	var warnings []string
	for r := range results {
		if r.warning != "" {
			warnings = append(warnings, r.warning)
			continue
		}
		families[r.family] = r.entries
	}
	sort.Strings(warnings)

	return NewStore(families), warnings, nil
}
