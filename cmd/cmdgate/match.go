package main

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"cmdgate/pkg/pathutil"
)

// PatternType indicates what kind of pattern this is.
type PatternType int

const (
	PatternLiteral PatternType = iota
	PatternGlob                // doublestar glob (bare pattern containing metacharacters)
	PatternRegex               // "re:" prefixed regular expression
	PatternPath                // "path:" prefixed pattern with $HOME/$PROJECT_ROOT expansion
)

// Pattern represents a parsed pattern with its type.
type Pattern struct {
	Type        PatternType
	Raw         string
	Regex       *regexp.Regexp // compiled regex (for regex patterns)
	PathPattern string         // unexpanded path pattern (for path patterns)
	Glob        string         // glob or literal text (for glob/literal patterns)
	Negated     bool           // if true, match result is inverted
}

// MatchContext provides the environment needed for path pattern matching.
type MatchContext struct {
	PathVars *pathutil.PathVars
}

// ParsePattern parses a pattern string and determines its type.
// Supported prefixes:
//   - "re:" for regex patterns
//   - "path:" for path patterns with variable expansion ($PROJECT_ROOT, $HOME)
//   - no prefix is a doublestar glob when it contains metacharacters,
//     otherwise a literal match
//
// Patterns with explicit prefixes can be negated by prepending "!"
// (e.g., "!re:test", "!path:/foo").
func ParsePattern(s string) (*Pattern, error) {
	p := &Pattern{Raw: s}

	if strings.HasPrefix(s, "!") {
		rest := s[1:]
		if strings.HasPrefix(rest, "re:") || strings.HasPrefix(rest, "path:") {
			p.Negated = true
			s = rest
		}
	}

	switch {
	case strings.HasPrefix(s, "re:"):
		re, err := regexp.Compile(strings.TrimPrefix(s, "re:"))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, s, err)
		}
		p.Type = PatternRegex
		p.Regex = re

	case strings.HasPrefix(s, "path:"):
		p.Type = PatternPath
		p.PathPattern = strings.TrimPrefix(s, "path:")

	case strings.ContainsAny(s, "*?[{"):
		if !doublestar.ValidatePattern(s) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, s)
		}
		p.Type = PatternGlob
		p.Glob = s

	default:
		p.Type = PatternLiteral
		p.Glob = s
	}
	return p, nil
}

// Match reports whether the pattern matches the given value.
func (p *Pattern) Match(value string, ctx *MatchContext) bool {
	matched := p.matchValue(value, ctx)
	if p.Negated {
		return !matched
	}
	return matched
}

func (p *Pattern) matchValue(value string, ctx *MatchContext) bool {
	switch p.Type {
	case PatternRegex:
		return p.Regex.MatchString(value)
	case PatternPath:
		expanded := p.PathPattern
		if ctx != nil && ctx.PathVars != nil {
			expanded = ctx.PathVars.ExpandPattern(expanded)
		}
		matched, err := doublestar.Match(expanded, value)
		return err == nil && matched
	case PatternGlob:
		matched, err := doublestar.Match(p.Glob, value)
		return err == nil && matched
	default:
		return p.Glob == value
	}
}
