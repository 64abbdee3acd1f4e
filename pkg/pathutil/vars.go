// Package pathutil expands path variables in policy patterns.
package pathutil

import (
	"os"
	"strings"
)

// PathVars holds the variables available for path pattern expansion.
type PathVars struct {
	ProjectRoot string // detected project root
	Home        string // user's home directory
}

// NewPathVars creates PathVars with the current environment.
func NewPathVars(projectRoot string) *PathVars {
	home, _ := os.UserHomeDir()
	return &PathVars{
		ProjectRoot: projectRoot,
		Home:        home,
	}
}

// ExpandPattern expands variables in a path pattern string.
// Supported variables:
//   - $PROJECT_ROOT - the detected project root
//   - $HOME or a leading ~/ - user's home directory
func (v *PathVars) ExpandPattern(pattern string) string {
	result := pattern

	if v.ProjectRoot != "" {
		result = strings.ReplaceAll(result, "$PROJECT_ROOT", v.ProjectRoot)
	}

	if v.Home != "" {
		result = strings.ReplaceAll(result, "$HOME", v.Home)
		if result == "~" {
			result = v.Home
		} else if strings.HasPrefix(result, "~/") {
			result = v.Home + result[1:]
		}
	}

	return result
}
