package scenario

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// Matcher selects scenarios by name with glob patterns. "*" stays within one
// path segment; "**" crosses segments.
type Matcher struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewMatcher compiles include and exclude patterns.
func NewMatcher(include, exclude []string) (*Matcher, error) {
	m := &Matcher{}

	for _, pattern := range include {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern '%s': %w", pattern, err)
		}
		m.include = append(m.include, g)
	}

	for _, pattern := range exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
		m.exclude = append(m.exclude, g)
	}

	return m, nil
}

// ParseMatcher reads a comma-separated pattern list. Patterns starting with
// "!" exclude. An empty list matches everything.
func ParseMatcher(patterns string) (*Matcher, error) {
	var include, exclude []string
	for _, p := range strings.Split(patterns, ",") {
		p = strings.TrimSpace(p)
		switch {
		case p == "":
		case strings.HasPrefix(p, "!"):
			exclude = append(exclude, strings.TrimPrefix(p, "!"))
		default:
			include = append(include, p)
		}
	}
	return NewMatcher(include, exclude)
}

// Match reports whether name is selected.
func (m *Matcher) Match(name string) bool {
	// Exclusions take precedence
	for _, g := range m.exclude {
		if g.Match(name) {
			return false
		}
	}

	if len(m.include) == 0 {
		return true
	}

	for _, g := range m.include {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Select returns the scenarios whose names m matches, in order.
func (m *Matcher) Select(scenarios []Scenario) []Scenario {
	var out []Scenario
	for _, sc := range scenarios {
		if m.Match(sc.Name) {
			out = append(out, sc)
		}
	}
	return out
}
