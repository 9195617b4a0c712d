// Package match implements the crawler's include/exclude path admission
// filter (spec §4.3): a path is accepted iff at least one include pattern
// matches and no exclude pattern matches. Patterns are either plain path
// prefixes (the common case, indexed in a radix tree for O(len(path))
// lookup) or, when prefixed with "regexp:"/"regexpIgnoreCase:", regular
// expressions evaluated with Go's regexp package.
//
// Regular expressions are compiled with the (?s) flag and without (?m):
// "." matches every character, including CR, LF, NEL, LS and PS, and ^/$
// anchor to the whole path, so embedded line separators in a path never
// change whether a pattern matches.
package match

import (
	"regexp"
	"strings"

	"github.com/armon/go-radix"
)

const (
	regexpPrefix           = "regexp:"
	regexpIgnoreCasePrefix = "regexpIgnoreCase:"
)

// Pattern is a single include or exclude rule.
type Pattern interface {
	Match(path string) bool
	String() string
}

type literalPrefix string

func (p literalPrefix) Match(path string) bool { return strings.HasPrefix(path, string(p)) }
func (p literalPrefix) String() string         { return string(p) }

type regexPattern struct {
	raw string
	re  *regexp.Regexp
}

func (p regexPattern) Match(path string) bool { return p.re.MatchString(path) }
func (p regexPattern) String() string         { return p.raw }

// Parse builds a Pattern from one raw config string, per spec §6's pattern syntax.
func Parse(raw string) (Pattern, error) {
	switch {
	case strings.HasPrefix(raw, regexpIgnoreCasePrefix):
		expr := raw[len(regexpIgnoreCasePrefix):]
		re, err := regexp.Compile("(?is)" + expr)
		if err != nil {
			return nil, err
		}
		return regexPattern{raw: raw, re: re}, nil
	case strings.HasPrefix(raw, regexpPrefix):
		expr := raw[len(regexpPrefix):]
		re, err := regexp.Compile("(?s)" + expr)
		if err != nil {
			return nil, err
		}
		return regexPattern{raw: raw, re: re}, nil
	default:
		return literalPrefix(raw), nil
	}
}

// Matcher admits a path iff at least one include pattern matches and no
// exclude pattern matches. Literal-prefix patterns are indexed in a radix
// tree; regular expressions are tried in registration order.
type Matcher struct {
	includeLiterals *radix.Tree
	includeRegexps  []regexPattern
	excludeLiterals *radix.Tree
	excludeRegexps  []regexPattern
}

// New builds a Matcher from raw include/exclude pattern strings.
func New(include, exclude []string) (*Matcher, error) {
	m := &Matcher{
		includeLiterals: radix.New(),
		excludeLiterals: radix.New(),
	}
	if err := m.index(include, m.includeLiterals, &m.includeRegexps); err != nil {
		return nil, err
	}
	if err := m.index(exclude, m.excludeLiterals, &m.excludeRegexps); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Matcher) index(raws []string, literals *radix.Tree, regexps *[]regexPattern) error {
	for _, raw := range raws {
		p, err := Parse(raw)
		if err != nil {
			return err
		}
		switch v := p.(type) {
		case literalPrefix:
			literals.Insert(string(v), v)
		case regexPattern:
			*regexps = append(*regexps, v)
		}
	}
	return nil
}

// Accept reports whether path is admitted: at least one include pattern
// matches, and no exclude pattern matches.
func (m *Matcher) Accept(path string) bool {
	if matchesAny(path, m.excludeLiterals, m.excludeRegexps) {
		return false
	}
	return matchesAny(path, m.includeLiterals, m.includeRegexps)
}

// matchesAny checks the radix tree (any literal prefix of path that was
// registered) first, then falls back to the linear regexp list.
func matchesAny(path string, literals *radix.Tree, regexps []regexPattern) bool {
	if hasPrefixInTree(literals, path) {
		return true
	}
	for _, re := range regexps {
		if re.Match(path) {
			return true
		}
	}
	return false
}

// hasPrefixInTree reports whether any key in the tree is a prefix of path.
// WalkPath descends the radix tree following path's bytes, visiting only
// the keys that are themselves prefixes of path — O(len(path)), not a full
// tree scan.
func hasPrefixInTree(tree *radix.Tree, path string) bool {
	found := false
	tree.WalkPath(path, func(key string, _ interface{}) bool {
		found = true
		return true
	})
	return found
}
