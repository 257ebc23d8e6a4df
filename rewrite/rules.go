package rewrite

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Rule is one find/replace pair from the auxiliary rules file.
// Replacement templates use $1-style capture references.
type Rule struct {
	Pattern *regexp.Regexp
	Replace string
}

func (r *Rule) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Regex   string `yaml:"regex"`
		Replace string `yaml:"replace"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Regex == "" {
		return fmt.Errorf("line %d: rule has no regex", value.Line)
	}
	pattern, err := regexp.Compile(raw.Regex)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	r.Pattern = pattern
	r.Replace = raw.Replace
	return nil
}

// RuleSet is an ordered list of rules. Order is significant: each rule
// runs over the output of the previous one.
type RuleSet []Rule

// LoadRules reads the rules file. An empty path means no auxiliary pass.
// Any parse failure is fatal to the run since rules are read once before
// parallel work begins.
func LoadRules(path string) (RuleSet, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rules %s: %w", path, err)
	}
	var rules RuleSet
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("rules %s: %w", path, err)
	}
	return rules, nil
}

// Apply runs every rule over text in file order.
func (rs RuleSet) Apply(text string) string {
	for _, rule := range rs {
		text = rule.Pattern.ReplaceAllString(text, rule.Replace)
	}
	return text
}
