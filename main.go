package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"erbname/convert"
	"erbname/render"
)

// listFlag collects repeated flag values, splitting comma-separated lists
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(value string) error {
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			*l = append(*l, v)
		}
	}
	return nil
}

func main() {
	var includes, excludes listFlag
	flag.Var(&includes, "include", "Also load this table family (repeatable)")
	flag.Var(&includes, "i", "Shorthand for --include")
	flag.Var(&excludes, "exclude", "Never load this table family (repeatable)")
	flag.Var(&excludes, "e", "Shorthand for --exclude")
	rulesPath := flag.String("rules", "", "YAML file with ordered post-rewrite patterns")
	normalize := flag.Bool("normalize", false, "Fold full-width characters, spaces and parens in names")
	underscoreSpaces := flag.Bool("underscore-spaces", false, "Replace spaces with '_' instead of dropping them")
	explicitTarget := flag.Bool("explicit-target", false, "Insert :TARGET into unscoped character references")
	dryRun := flag.Bool("dry-run", false, "Resolve and report without writing any files")
	jobs := flag.Int("jobs", 0, "Worker count (default: number of CPUs)")
	jsonMode := flag.Bool("json", false, "Output the report as JSON")
	treeMode := flag.Bool("tree", false, "Show per-file results as a tree")
	noProgress := flag.Bool("no-progress", false, "Disable the live progress display")
	helpMode := flag.Bool("help", false, "Show help")
	flag.Parse()

	if *helpMode {
		fmt.Println("erbname - Resolve numeric variable references in ERB scripts to names")
		fmt.Println()
		fmt.Println("Usage: erbname [options] [path]")
		fmt.Println()
		fmt.Println("Options:")
		fmt.Println("  --help               Show this help message")
		fmt.Println("  --include, -i NAME   Also load this table family (repeatable)")
		fmt.Println("  --exclude, -e NAME   Never load this table family (repeatable)")
		fmt.Println("  --rules FILE         YAML file with ordered post-rewrite patterns")
		fmt.Println("  --normalize          Fold full-width characters, spaces and parens")
		fmt.Println("  --underscore-spaces  Replace spaces with '_' instead of dropping them")
		fmt.Println("  --explicit-target    Insert :TARGET into unscoped character references")
		fmt.Println("  --dry-run            Resolve and report without writing any files")
		fmt.Println("  --jobs N             Worker count (default: number of CPUs)")
		fmt.Println("  --json               Output the report as JSON")
		fmt.Println("  --tree               Show per-file results as a tree")
		fmt.Println("  --no-progress        Disable the live progress display")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  erbname .                     # Convert the current directory")
		fmt.Println("  erbname --dry-run ~/era/game  # Count what would change")
		fmt.Println("  erbname -i ITEM -e TCVAR .    # Adjust the loaded families")
		fmt.Println("  erbname --explicit-target .   # ABL:0 resolves as ABL:TARGET:...")
		fmt.Println("  erbname --rules fix.yaml .    # Extra regex pass after resolving")
		os.Exit(0)
	}

	target := flag.Arg(0)
	if target == "" {
		target = "."
	}

	opts := convert.Options{
		Target:           target,
		Includes:         includes,
		Excludes:         excludes,
		Normalize:        *normalize,
		UnderscoreSpaces: *underscoreSpaces,
		ExplicitTarget:   *explicitTarget,
		RulesPath:        *rulesPath,
		DryRun:           *dryRun,
		Jobs:             *jobs,
	}

	useProgress := !*noProgress && !*jsonMode && render.IsTerminal()

	var report *convert.Report
	var runErr error

	if useProgress {
		program := tea.NewProgram(render.NewProgress())
		opts.Start = func(total int) { program.Send(render.TotalMsg(total)) }
		opts.Progress = func(res convert.FileResult) { program.Send(render.FileMsg(res)) }

		done := make(chan struct{})
		go func() {
			report, runErr = convert.Run(opts)
			program.Send(render.DoneMsg{})
			close(done)
		}()

		final, err := program.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if m, ok := final.(render.Progress); ok && m.Interrupted() {
			os.Exit(1)
		}
		<-done
	} else {
		if !*jsonMode {
			opts.Progress = func(res convert.FileResult) {
				switch {
				case res.Error != "":
					fmt.Fprintf(os.Stderr, "error: %s: %s\n", res.Path, res.Error)
				case res.Skipped:
					fmt.Fprintf(os.Stderr, "warning: no BOM in %s, skipped\n", res.Path)
				case res.Changed:
					fmt.Fprintf(os.Stderr, "%s: %d resolved\n", res.Path, res.Resolved)
				}
			}
		}
		report, runErr = convert.Run(opts)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}

	// Render or output JSON
	if *jsonMode {
		json.NewEncoder(os.Stdout).Encode(report)
	} else if *treeMode {
		render.Tree(report)
	} else {
		render.Summary(report)
	}
}
