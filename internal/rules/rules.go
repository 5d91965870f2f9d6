// Package rules decides which windows the tiler manages.
package rules

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// Rule matches windows by class and title glob. An empty pattern matches
// anything. Class matching is case-insensitive.
type Rule struct {
	Class  string `yaml:"class,omitempty" json:"class,omitempty"`
	Title  string `yaml:"title,omitempty" json:"title,omitempty"`
	Manage bool   `yaml:"manage" json:"manage"`
}

type compiledRule struct {
	Rule
	class glob.Glob
	title glob.Glob
}

// Set is an ordered rule list. The first matching rule wins; windows that
// match no rule are managed.
type Set struct {
	rules []compiledRule
}

// Compile validates and compiles rules in order.
func Compile(rules []Rule) (*Set, error) {
	set := &Set{rules: make([]compiledRule, 0, len(rules))}
	for i, r := range rules {
		if r.Class == "" && r.Title == "" {
			return nil, fmt.Errorf("rule %d: class or title is required", i)
		}
		c := compiledRule{Rule: r}
		var err error
		if r.Class != "" {
			if c.class, err = glob.Compile(strings.ToLower(r.Class)); err != nil {
				return nil, fmt.Errorf("rule %d: invalid class pattern %q: %w", i, r.Class, err)
			}
		}
		if r.Title != "" {
			if c.title, err = glob.Compile(r.Title); err != nil {
				return nil, fmt.Errorf("rule %d: invalid title pattern %q: %w", i, r.Title, err)
			}
		}
		set.rules = append(set.rules, c)
	}
	return set, nil
}

// MustCompile is Compile for static rule lists; it panics on error.
func MustCompile(rules []Rule) *Set {
	set, err := Compile(rules)
	if err != nil {
		panic(err)
	}
	return set
}

// ShouldManage reports whether a window with the given class and title
// should be tiled.
func (s *Set) ShouldManage(class, title string) bool {
	if s == nil {
		return true
	}
	lower := strings.ToLower(class)
	for _, r := range s.rules {
		if r.class != nil && !r.class.Match(lower) {
			continue
		}
		if r.title != nil && !r.title.Match(title) {
			continue
		}
		return r.Manage
	}
	return true
}

// Rules returns the source rules in order.
func (s *Set) Rules() []Rule {
	if s == nil {
		return nil
	}
	out := make([]Rule, len(s.rules))
	for i, r := range s.rules {
		out[i] = r.Rule
	}
	return out
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}
