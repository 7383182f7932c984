// Package text rewrites file names with replacement rules.
package text

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/walteh/twinpane/pkg/fserr"
	"gitlab.com/tozd/go/errors"
)

// ReplacementRule rewrites the parts of a name matched by FromText
type ReplacementRule struct {
	// FromText is a regular expression unless Literal is set
	FromText string

	// ToText is the replacement; $1 style group references are expanded
	ToText string

	// Literal treats FromText as plain text
	Literal bool
}

// ReplacementResult is the outcome for one name
type ReplacementResult struct {
	Original         string
	Renamed          string
	WasModified      bool
	ReplacementCount int
}

// NameRewriter applies rules to file names in order
type NameRewriter struct {
	rules []compiledRule
}

type compiledRule struct {
	re *regexp.Regexp
	to string
}

// NewNameRewriter validates and compiles rules
func NewNameRewriter(rules []ReplacementRule) (*NameRewriter, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}
	r := &NameRewriter{}
	for _, rule := range rules {
		pattern := rule.FromText
		to := rule.ToText
		if rule.Literal {
			pattern = regexp.QuoteMeta(pattern)
			to = strings.ReplaceAll(to, "$", "$$")
		}
		r.rules = append(r.rules, compiledRule{re: regexp.MustCompile(pattern), to: to})
	}
	return r, nil
}

// Rewrite applies every rule to name
func (r *NameRewriter) Rewrite(name string) ReplacementResult {
	result := ReplacementResult{Original: name, Renamed: name}
	current := name
	for _, rule := range r.rules {
		matches := rule.re.FindAllStringIndex(current, -1)
		if len(matches) == 0 {
			continue
		}
		result.ReplacementCount += len(matches)
		current = rule.re.ReplaceAllString(current, rule.to)
	}
	result.Renamed = current
	result.WasModified = current != name
	return result
}

// ValidateRules checks that all rules are usable
func ValidateRules(rules []ReplacementRule) error {
	if len(rules) == 0 {
		return fserr.New(fserr.KindInvalidParameter, "rename rule", "", errors.New("at least one rule is required"))
	}
	for i, rule := range rules {
		if rule.FromText == "" {
			return fserr.New(fserr.KindInvalidParameter, "rename rule", "", errors.Errorf("rule %d: from_text is required", i))
		}
		if rule.Literal {
			continue
		}
		if _, err := regexp.Compile(rule.FromText); err != nil {
			return fserr.New(fserr.KindInvalidParameter, "rename rule", "", errors.Errorf("rule %d: %w", i, err))
		}
	}
	return nil
}

// ValidateName rejects names that cannot live in a single directory
func ValidateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fserr.New(fserr.KindInvalidParameter, "file name", "", errors.Errorf("%q is not a usable name", name))
	case strings.ContainsRune(name, filepath.Separator), strings.ContainsRune(name, '/'), strings.ContainsRune(name, 0):
		return fserr.New(fserr.KindInvalidParameter, "file name", "", errors.Errorf("%q contains a path separator", name))
	}
	return nil
}
