package render

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"erbname/convert"
)

// Summary renders the run report to stdout
func Summary(report *convert.Report) {
	title := fmt.Sprintf("%s - Name Resolution", filepath.Base(report.Root))

	lines := []string{
		fmt.Sprintf("Scripts: %d | Changed: %d | Skipped: %d | Failed: %d",
			report.Scanned, report.Changed, report.Skipped, report.Failed),
		fmt.Sprintf("Resolved: %d references | Unresolved: %d",
			report.Resolved, report.Missed),
		fmt.Sprintf("Tables: %d families | Elapsed: %s",
			len(report.Families), report.Elapsed.Round(time.Millisecond)),
	}

	// Calculate box width in terminal cells
	maxWidth := runewidth.StringWidth(title) + 6
	for _, line := range lines {
		if w := runewidth.StringWidth(line) + 4; w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth > 80 {
		maxWidth = 80
	}
	innerWidth := maxWidth - 2
	contentWidth := innerWidth - 2

	fmt.Printf("╭%s╮\n", strings.Repeat("─", innerWidth))
	fmt.Printf("│%s│\n", CenterString(title, innerWidth))
	fmt.Printf("├%s┤\n", strings.Repeat("─", innerWidth))
	for _, line := range lines {
		fmt.Printf("│ %s │\n", runewidth.FillRight(line, contentWidth))
	}
	fmt.Printf("╰%s╯\n", strings.Repeat("─", innerWidth))

	if len(report.Families) > 0 {
		fmt.Println()
		printFamilies(report.Families)
	}

	if len(report.Warnings) > 0 {
		fmt.Println()
		for _, w := range report.Warnings {
			fmt.Printf("%s⚠ %s%s\n", Yellow, w, Reset)
		}
	}

	var failed []convert.FileResult
	for _, f := range report.Files {
		if f.Error != "" {
			failed = append(failed, f)
		}
	}
	if len(failed) > 0 {
		fmt.Println()
		for _, f := range failed {
			fmt.Printf("%s✗ %s: %s%s\n", Red, f.Path, f.Error, Reset)
		}
	}

	if report.DryRun {
		fmt.Printf("\n%sDry run: no files were written.%s\n", Dim, Reset)
	}
}

// printFamilies renders the loaded tables as a multi-column grid
func printFamilies(families []convert.FamilyInfo) {
	headerLen := 60 - len("Tables") - 1
	fmt.Printf("Tables %s\n", strings.Repeat("═", headerLen))

	entries := make([]string, len(families))
	maxLen := 0
	for i, fam := range families {
		entries[i] = fmt.Sprintf("%s (%d)", fam.Name, fam.Entries)
		if w := runewidth.StringWidth(entries[i]); w > maxLen {
			maxLen = w
		}
	}

	// Fit columns to the terminal
	colWidth := maxLen + 2
	numCols := (GetTerminalWidth() - 2) / colWidth
	if numCols < 1 {
		numCols = 1
	}
	if numCols > len(entries) {
		numCols = len(entries)
	}
	numRows := (len(entries) + numCols - 1) / numCols

	// Print in column-major order
	for row := 0; row < numRows; row++ {
		fmt.Print("  ")
		for col := 0; col < numCols; col++ {
			idx := col*numRows + row
			if idx < len(entries) {
				fmt.Print(runewidth.FillRight(entries[idx], colWidth))
			}
		}
		fmt.Println()
	}
}
