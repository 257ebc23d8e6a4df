package rewrite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadRulesEmptyPath(t *testing.T) {
	rules, err := LoadRules("")
	if err != nil {
		t.Fatalf("LoadRules(\"\") failed: %v", err)
	}
	if rules != nil {
		t.Errorf("LoadRules(\"\") = %v, want nil", rules)
	}
}

func TestLoadRulesAndApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	os.WriteFile(path, []byte(`- regex: "FOO"
  replace: "BAR"
- regex: "BAR(\\d+)"
  replace: "BAZ$1"
`), 0644)

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules failed: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("len(rules) = %d, want 2", len(rules))
	}

	// The second rule runs over the output of the first.
	got := rules.Apply("FOO1 FOO")
	if got != "BAZ1 BAR" {
		t.Errorf("Apply = %q, want %q", got, "BAZ1 BAR")
	}
}

func TestLoadRulesBadPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	os.WriteFile(path, []byte("- regex: \"(\"\n  replace: \"x\"\n"), 0644)

	if _, err := LoadRules(path); err == nil {
		t.Fatal("Expected error for an invalid pattern")
	}
}

func TestLoadRulesMissingRegex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	os.WriteFile(path, []byte("- replace: \"x\"\n"), 0644)

	_, err := LoadRules(path)
	if err == nil {
		t.Fatal("Expected error for a rule without a regex")
	}
	if !strings.Contains(err.Error(), "no regex") {
		t.Errorf("error %q does not mention the missing regex", err)
	}
}

func TestLoadRulesBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	os.WriteFile(path, []byte("regex: [unclosed\n"), 0644)

	if _, err := LoadRules(path); err == nil {
		t.Fatal("Expected error for malformed YAML")
	}
}

func TestApplyEmptyRuleSet(t *testing.T) {
	var rules RuleSet
	if got := rules.Apply("PRINTL ABL:0"); got != "PRINTL ABL:0" {
		t.Errorf("empty RuleSet changed the text: %q", got)
	}
}
