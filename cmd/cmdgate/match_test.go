package main

import (
	"errors"
	"testing"

	"cmdgate/pkg/pathutil"
)

func TestParsePattern(t *testing.T) {
	tests := []struct {
		input       string
		wantType    PatternType
		wantNegated bool
	}{
		{"rm", PatternLiteral, false},
		{"git-*", PatternGlob, false},
		{"npm?", PatternGlob, false},
		{"re:^pip3?$", PatternRegex, false},
		{"!re:safe", PatternRegex, true},
		{"path:$HOME/**", PatternPath, false},
		{"!path:$PROJECT_ROOT/**", PatternPath, true},
		{"!plain", PatternLiteral, false}, // bare ! is not a negation prefix
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParsePattern(tt.input)
			if err != nil {
				t.Fatalf("ParsePattern(%q) error: %v", tt.input, err)
			}
			if p.Type != tt.wantType {
				t.Errorf("type = %d, want %d", p.Type, tt.wantType)
			}
			if p.Negated != tt.wantNegated {
				t.Errorf("negated = %v, want %v", p.Negated, tt.wantNegated)
			}
		})
	}
}

func TestParsePatternInvalid(t *testing.T) {
	for _, input := range []string{"re:[", "re:(", "[unclosed"} {
		_, err := ParsePattern(input)
		if !errors.Is(err, ErrInvalidPattern) {
			t.Errorf("ParsePattern(%q) = %v, want ErrInvalidPattern", input, err)
		}
	}
}

func TestPatternMatch(t *testing.T) {
	ctx := &MatchContext{PathVars: &pathutil.PathVars{
		ProjectRoot: "/work/proj",
		Home:        "/home/u",
	}}

	tests := []struct {
		pattern string
		value   string
		want    bool
	}{
		{"rm", "rm", true},
		{"rm", "rmdir", false},
		{"git-*", "git-lfs", true},
		{"git-*", "git", false},
		{"re:^pip3?$", "pip3", true},
		{"re:^pip3?$", "pipx", false},
		{"!re:^git$", "git", false},
		{"!re:^git$", "svn", true},
		{"path:$PROJECT_ROOT/**", "/work/proj/bin/tool", true},
		{"path:$PROJECT_ROOT/**", "/etc/passwd", false},
		{"path:$HOME/*.txt", "/home/u/notes.txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" vs "+tt.value, func(t *testing.T) {
			p, err := ParsePattern(tt.pattern)
			if err != nil {
				t.Fatalf("ParsePattern error: %v", err)
			}
			if got := p.Match(tt.value, ctx); got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.pattern, tt.value, got, tt.want)
			}
		})
	}
}
