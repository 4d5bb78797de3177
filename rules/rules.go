// Package rules holds the marking rules that select files for deletion.
//
// A rule is either an exact path or a case-insensitive regular expression
// searched anywhere in the path. Rules keep their insertion order so they can
// be displayed and removed by a 1-based index.
package rules

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
)

var (
	ErrEmptyRule       = errors.New("missing rule argument")
	ErrDuplicateRule   = errors.New("rule already exists")
	ErrInvalidPattern  = errors.New("invalid regular expression")
	ErrIndexOutOfRange = errors.New("rule index out of range")
)

// Kind tells path rules and pattern rules apart
type Kind int

const (
	PathRule Kind = iota
	PatternRule
)

// Rule is a single marking rule
type Rule struct {
	kind    Kind
	path    string
	pattern string
	re      *regexp.Regexp
}

// Kind returns the rule type
func (r Rule) Kind() Kind {
	return r.kind
}

// Text returns the path or the pattern source as entered
func (r Rule) Text() string {
	if r.kind == PathRule {
		return r.path
	}
	return r.pattern
}

// Match reports whether the rule selects the file at path
func (r Rule) Match(path string) bool {
	if r.kind == PathRule {
		return path == r.path
	}
	return r.re.MatchString(path)
}

func (r Rule) String() string {
	if r.kind == PathRule {
		return "path:  " + r.path
	}
	return "regex: " + r.pattern
}

// Set is an ordered collection of rules. The zero value is an empty set.
type Set struct {
	rules []Rule
}

// NewSet creates an empty rule set
func NewSet() *Set {
	return &Set{}
}

// AddPath adds a rule matching one exact path
func (s *Set) AddPath(path string) error {
	if path == "" {
		return ErrEmptyRule
	}
	path = filepath.Clean(path)
	for _, r := range s.rules {
		if r.kind == PathRule && r.path == path {
			return fmt.Errorf("%w: %s", ErrDuplicateRule, path)
		}
	}
	s.rules = append(s.rules, Rule{kind: PathRule, path: path})
	return nil
}

// AddPattern adds a case-insensitive regular expression rule
func (s *Set) AddPattern(pattern string) error {
	if pattern == "" {
		return ErrEmptyRule
	}
	for _, r := range s.rules {
		if r.kind == PatternRule && r.pattern == pattern {
			return fmt.Errorf("%w: %s", ErrDuplicateRule, pattern)
		}
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidPattern, pattern, err)
	}
	s.rules = append(s.rules, Rule{kind: PatternRule, pattern: pattern, re: re})
	return nil
}

// Remove deletes the rule at the 1-based index
func (s *Set) Remove(index int) error {
	if index < 1 || index > len(s.rules) {
		if len(s.rules) == 0 {
			return fmt.Errorf("%w: no rules defined", ErrIndexOutOfRange)
		}
		return fmt.Errorf("%w: index must be between 1 and %d", ErrIndexOutOfRange, len(s.rules))
	}
	s.rules = slices.Delete(s.rules, index-1, index)
	return nil
}

// Match reports whether any rule selects the file at path.
// Rules are tried in insertion order and the first match wins.
func (s *Set) Match(path string) bool {
	for _, r := range s.rules {
		if r.Match(path) {
			return true
		}
	}
	return false
}

// Clear removes all rules
func (s *Set) Clear() {
	s.rules = nil
}

// Len returns the number of rules
func (s *Set) Len() int {
	return len(s.rules)
}

// Rules returns a copy of the rules in insertion order
func (s *Set) Rules() []Rule {
	return slices.Clone(s.rules)
}
