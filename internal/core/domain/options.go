package domain

import (
	"path"
	"regexp"
	"strings"

	"go.trai.ch/zerr"
)

// SelectorAll matches every package in the graph.
const SelectorAll = "*"

// OptionShared is the option that selects shared linking.
const OptionShared = "shared"

// validOptionNameRegex restricts option names to characters that are safe as a
// bare CMake variable name.
var validOptionNameRegex = regexp.MustCompile("^[A-Za-z0-9_.+-]+$")

// OptionRule assigns a value to an option on every package matching Selector.
type OptionRule struct {
	// Selector is a package name or a glob such as "*".
	Selector string

	// Option is the option name (e.g., "shared").
	Option string

	// Value is the canonical string form of the option value.
	Value string

	// Source is the name of the package that declared the rule.
	Source string
}

// ParseOptionKey splits a "selector:option" key. A key without a selector applies
// to the declaring package only. Option names are limited to letters, digits
// and "_.+-".
func ParseOptionKey(key, declaring string) (selector, option string, err error) {
	selector, option, ok := strings.Cut(key, ":")
	if !ok {
		selector, option = declaring, key
	}
	selector = strings.TrimSpace(selector)
	option = strings.TrimSpace(option)
	if selector == "" || !validOptionNameRegex.MatchString(option) {
		return "", "", zerr.With(ErrInvalidOptionRule, "key", key)
	}
	if _, err := path.Match(selector, ""); err != nil {
		return "", "", zerr.With(zerr.Wrap(err, ErrInvalidOptionRule.Error()), "key", key)
	}
	return selector, option, nil
}

// Matches reports whether the rule's selector applies to the named package.
func (r OptionRule) Matches(pkg string) bool {
	if r.Selector == SelectorAll || r.Selector == pkg {
		return true
	}
	ok, err := path.Match(r.Selector, pkg)
	return err == nil && ok
}

// String returns "package (selector:option=value)", used in conflict reports.
func (r OptionRule) String() string {
	return r.Source + " (" + r.Selector + ":" + r.Option + "=" + r.Value + ")"
}

// compactRules keeps the last rule for every selector/option pair, preserving
// the position of the first declaration.
func compactRules(rules []OptionRule) []OptionRule {
	index := make(map[[2]string]int, len(rules))
	out := make([]OptionRule, 0, len(rules))
	for _, r := range rules {
		k := [2]string{r.Selector, r.Option}
		if i, ok := index[k]; ok {
			out[i] = r
			continue
		}
		index[k] = len(out)
		out = append(out, r)
	}
	return out
}
