package rewrite

import (
	"testing"

	"erbname/tables"
)

func testStore() *tables.Store {
	return tables.NewStore(map[string]map[uint32]string{
		"ABL":    {0: "C-sense", 1: "V-sense", 7: "LEVEL2"},
		"BASE":   {0: "HP", 1: "MP"},
		"TALENT": {0: "Virgin"},
		"JUEL":   {0: "Gem"},
		"EX":     {0: "Climax"},
		"FLAG":   {0: "TUTORIAL"},
	})
}

func TestRewrite(t *testing.T) {
	r := NewResolver(testStore(), false)

	tests := []struct {
		input    string
		expected string
	}{
		{"ABL:0", "ABL:C-sense"},
		{"ABL:1 BASE:0", "ABL:V-sense BASE:HP"},
		{"SELECTCASE ABL:0", "SELECTCASE ABL:C-sense"},
		// A numeral in scope position is a qualifier, not the index.
		{"TALENT:2:0", "TALENT:2:Virgin"},
		{"ABL:TARGET:01", "ABL:TARGET:V-sense"},
		// Family miss keeps the whole token.
		{"UNKNOWN:3", "UNKNOWN:3"},
		// Entry miss keeps the digit text as written.
		{"ABL:99", "ABL:99"},
	}
	for _, tt := range tests {
		if got, _ := r.Rewrite(tt.input); got != tt.expected {
			t.Errorf("Rewrite(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRewriteFunctionCallUntouched(t *testing.T) {
	r := NewResolver(testStore(), false)

	input := "@BASERATIO(ARG, ARG:1, ARG:2)"
	got, stats := r.Rewrite(input)
	if got != input {
		t.Errorf("Rewrite(%q) = %q, want unchanged", input, got)
	}
	if stats.Resolved != 0 || stats.Missed != 0 {
		t.Errorf("stats = %+v, want zero", stats)
	}
}

func TestRewriteExplicitTarget(t *testing.T) {
	r := NewResolver(testStore(), true)

	tests := []struct {
		input    string
		expected string
	}{
		{"ABL:0", "ABL:TARGET:C-sense"},
		// An existing scope is never doubled.
		{"ABL:TARGET:01", "ABL:TARGET:V-sense"},
		{"TALENT:2:0", "TALENT:2:Virgin"},
		// Entry miss still gains the scope.
		{"ABL:99", "ABL:TARGET:99"},
		// Global families take no scope.
		{"FLAG:0", "FLAG:TUTORIAL"},
		{"UNKNOWN:3", "UNKNOWN:3"},
	}
	for _, tt := range tests {
		if got, _ := r.Rewrite(tt.input); got != tt.expected {
			t.Errorf("Rewrite(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRewriteNameSuffix(t *testing.T) {
	r := NewResolver(testStore(), true)

	tests := []struct {
		input    string
		expected string
	}{
		// The suffix is stripped for the lookup but kept in the output,
		// and a NAME form never gains a scope.
		{"ABLNAME:1", "ABLNAME:V-sense"},
		// Strip first, then the alias redirects PALAM to JUEL.
		{"PALAMNAME:0", "PALAMNAME:Gem"},
	}
	for _, tt := range tests {
		if got, _ := r.Rewrite(tt.input); got != tt.expected {
			t.Errorf("Rewrite(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRewriteAliases(t *testing.T) {
	r := NewResolver(testStore(), false)

	tests := []struct {
		input    string
		expected string
	}{
		{"PALAM:0", "PALAM:Gem"},
		{"UP:0", "UP:Gem"},
		{"DOWN:0", "DOWN:Gem"},
		{"NOWEX:0", "NOWEX:Climax"},
		{"UPBASE:1", "UPBASE:MP"},
		{"DOWNBASE:0", "DOWNBASE:HP"},
	}
	for _, tt := range tests {
		if got, _ := r.Rewrite(tt.input); got != tt.expected {
			t.Errorf("Rewrite(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRewriteOverflow(t *testing.T) {
	r := NewResolver(testStore(), false)

	input := "ABL:99999999999"
	got, stats := r.Rewrite(input)
	if got != input {
		t.Errorf("Rewrite(%q) = %q, want unchanged", input, got)
	}
	if stats.Missed != 1 {
		t.Errorf("Missed = %d, want 1", stats.Missed)
	}
}

func TestRewriteIdempotent(t *testing.T) {
	r := NewResolver(testStore(), false)

	inputs := []string{
		"ABL:0 TALENT:0 BASE:1",
		// Resolves to LEVEL2; the trailing digits have no colon before
		// them, so a second pass finds nothing.
		"ABL:7",
		"@BASERATIO(ARG, ARG:1, ARG:2)",
	}
	for _, input := range inputs {
		once, _ := r.Rewrite(input)
		twice, stats := r.Rewrite(once)
		if twice != once {
			t.Errorf("second Rewrite of %q = %q, want %q", input, twice, once)
		}
		if stats.Resolved != 0 {
			t.Errorf("second pass on %q resolved %d references, want 0", input, stats.Resolved)
		}
	}
}

func TestRewriteStats(t *testing.T) {
	r := NewResolver(testStore(), false)

	_, stats := r.Rewrite("ABL:0 ABL:99 UNKNOWN:5 BASE:1")
	if stats.Resolved != 2 {
		t.Errorf("Resolved = %d, want 2", stats.Resolved)
	}
	if stats.Missed != 1 {
		t.Errorf("Missed = %d, want 1", stats.Missed)
	}
}

func TestRewriteMultiline(t *testing.T) {
	r := NewResolver(testStore(), false)

	input := "@SHOW_STATUS\nPRINTL ABL:0\nPRINTL BASE:1\n"
	expected := "@SHOW_STATUS\nPRINTL ABL:C-sense\nPRINTL BASE:MP\n"
	if got, _ := r.Rewrite(input); got != expected {
		t.Errorf("Rewrite(%q) = %q, want %q", input, got, expected)
	}
}
