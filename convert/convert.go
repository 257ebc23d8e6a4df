// Package convert runs the full table-load and script-rewrite pipeline
// for one target directory.
package convert

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"erbname/rewrite"
	"erbname/scanner"
	"erbname/tables"
)

// Options configures one conversion run.
type Options struct {
	Target           string   // game root containing the CSV and ERB directories
	Includes         []string // families to load even if not on the default list
	Excludes         []string // families to never load
	Normalize        bool     // fold full-width characters, spaces and parens in names
	UnderscoreSpaces bool     // replace spaces with '_' instead of dropping them
	ExplicitTarget   bool     // synthesize :TARGET on unscoped character references
	RulesPath        string   // optional YAML rules for the auxiliary pass
	DryRun           bool     // resolve and count but write nothing
	Jobs             int      // worker count, 0 means NumCPU

	// Start and Progress report scan totals and per-file completion to
	// the caller. Progress is called from worker goroutines.
	Start    func(total int)
	Progress func(FileResult)
}

// FileResult is the outcome for one script file.
type FileResult struct {
	Path     string `json:"path"`
	Resolved int    `json:"resolved"`
	Missed   int    `json:"missed,omitempty"`
	Changed  bool   `json:"changed"`
	Skipped  bool   `json:"skipped,omitempty"`
	Error    string `json:"error,omitempty"`
	Size     int64  `json:"size"`
}

// FamilyInfo describes one loaded table.
type FamilyInfo struct {
	Name    string `json:"name"`
	Entries int    `json:"entries"`
}

// Report aggregates a whole run.
type Report struct {
	Root     string        `json:"root"`
	DryRun   bool          `json:"dry_run"`
	Families []FamilyInfo  `json:"families"`
	Files    []FileResult  `json:"files"`
	Scanned  int           `json:"scanned"`
	Changed  int           `json:"changed"`
	Resolved int           `json:"resolved"`
	Missed   int           `json:"missed"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Warnings []string      `json:"warnings,omitempty"`
	Elapsed  time.Duration `json:"elapsed_ns"`
}

// Run loads the tables, rewrites every script under the target and
// returns the aggregated report. Per-file failures are recorded in the
// report, not returned: only configuration-level problems (bad target,
// malformed rules file) abort the run.
func Run(opts Options) (*Report, error) {
	started := time.Now()

	info, err := os.Stat(opts.Target)
	if err != nil {
		return nil, fmt.Errorf("target %s: %w", opts.Target, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("target %s: not a directory", opts.Target)
	}

	rules, err := rewrite.LoadRules(opts.RulesPath)
	if err != nil {
		return nil, err
	}

	norm := tables.Normalizer{Enabled: opts.Normalize}
	if opts.UnderscoreSpaces {
		norm.Spaces = tables.UnderscoreSpaces
	}
	sel := tables.NewSelection(opts.Includes, opts.Excludes)

	store, warnings, err := tables.Load(opts.Target, sel, norm, opts.Jobs)
	if err != nil {
		return nil, err
	}

	scripts, err := scanner.ScanScripts(opts.Target, scanner.LoadIgnore(opts.Target))
	if err != nil {
		return nil, fmt.Errorf("scan scripts: %w", err)
	}

	resolver := rewrite.NewResolver(store, opts.ExplicitTarget)
	if opts.Start != nil {
		opts.Start(len(scripts))
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(scripts) {
		jobs = len(scripts)
	}

	work := make(chan scanner.FileInfo, len(scripts))
	results := make(chan FileResult, len(scripts))

	var wg sync.WaitGroup
	for i := 0; i < jobs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range work {
				res := convertScript(f, resolver, rules, opts.DryRun)
				if opts.Progress != nil {
					opts.Progress(res)
				}
				results <- res
			}
		}()
	}
	for _, f := range scripts {
		work <- f
	}
	close(work)
	wg.Wait()
	close(results)

	report := &Report{
		Root:     opts.Target,
		DryRun:   opts.DryRun,
		Scanned:  len(scripts),
		Warnings: warnings,
	}
	for _, name := range store.Families() {
		entries, _ := store.Family(name)
		report.Families = append(report.Families, FamilyInfo{Name: name, Entries: len(entries)})
	}
	for res := range results {
		report.Files = append(report.Files, res)
		switch {
		case res.Error != "":
			report.Failed++
		case res.Skipped:
			report.Skipped++
		default:
			report.Resolved += res.Resolved
			report.Missed += res.Missed
			if res.Changed {
				report.Changed++
			}
		}
	}
	sort.Slice(report.Files, func(i, j int) bool {
		return report.Files[i].Path < report.Files[j].Path
	})
	report.Elapsed = time.Since(started)
	return report, nil
}

// convertScript rewrites one file in place. A missing BOM skips the file
// untouched; read or write failures are recorded on the result.
func convertScript(f scanner.FileInfo, resolver *rewrite.Resolver, rules rewrite.RuleSet, dryRun bool) FileResult {
	res := FileResult{Path: f.Path, Size: f.Size}

	text, hasBOM, err := scanner.ReadTextFile(f.Abs)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if !hasBOM {
		res.Skipped = true
		return res
	}

	out, stats := resolver.Rewrite(text)
	out = rules.Apply(out)
	res.Resolved = stats.Resolved
	res.Missed = stats.Missed
	res.Changed = out != text

	if dryRun {
		return res
	}
	if err := scanner.WriteTextFile(f.Abs, out); err != nil {
		res.Error = err.Error()
	}
	return res
}
