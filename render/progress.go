package render

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"erbname/convert"
)

// TotalMsg carries the number of scripts found by the scan.
type TotalMsg int

// FileMsg carries one finished file.
type FileMsg convert.FileResult

// DoneMsg signals that the whole run is complete.
type DoneMsg struct{}

// Progress is the live progress view for interactive runs. The model is
// driven entirely by messages sent from the conversion goroutine.
type Progress struct {
	total       int
	done        int
	resolved    int
	skipped     int
	failed      int
	current     string
	width       int
	interrupted bool
}

func NewProgress() Progress {
	return Progress{width: 80}
}

// Interrupted reports whether the user aborted with ctrl+c.
func (p Progress) Interrupted() bool { return p.interrupted }

func (p Progress) Init() tea.Cmd { return nil }

func (p Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			p.interrupted = true
			return p, tea.Quit
		}
	case TotalMsg:
		p.total = int(msg)
	case FileMsg:
		p.done++
		p.resolved += msg.Resolved
		switch {
		case msg.Error != "":
			p.failed++
		case msg.Skipped:
			p.skipped++
		}
		p.current = msg.Path
	case DoneMsg:
		return p, tea.Quit
	}
	return p, nil
}

func (p Progress) View() string {
	if p.total == 0 {
		return fmt.Sprintf("  %sscanning scripts...%s\n", Dim, Reset)
	}

	barWidth := p.width - 24
	if barWidth > 48 {
		barWidth = 48
	}
	if barWidth < 10 {
		barWidth = 10
	}
	filled := barWidth * p.done / p.total
	bar := Cyan + strings.Repeat("█", filled) + Reset + strings.Repeat("░", barWidth-filled)

	var b strings.Builder
	fmt.Fprintf(&b, "  %s %d/%d files, %d resolved", bar, p.done, p.total, p.resolved)
	if p.skipped > 0 {
		fmt.Fprintf(&b, ", %s%d skipped%s", Yellow, p.skipped, Reset)
	}
	if p.failed > 0 {
		fmt.Fprintf(&b, ", %s%d failed%s", Red, p.failed, Reset)
	}
	b.WriteString("\n")
	if p.current != "" {
		fmt.Fprintf(&b, "  %s%s%s\n", Dim, p.current, Reset)
	}
	return b.String()
}
