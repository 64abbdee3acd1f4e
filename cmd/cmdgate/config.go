package main

import "strconv"

// Config represents the complete policy for cmdgate. Every leaf command
// extracted from a command line is checked against the quick lists and
// rules below; the strictest decision across all leaf commands wins.
type Config struct {
	Path     string         `toml:"-" yaml:"-"`
	Policy   PolicyConfig   `toml:"policy" yaml:"policy"`
	Commands CommandsConfig `toml:"commands" yaml:"commands"`
	Rules    []Rule         `toml:"rule" yaml:"rules"`
}

// PolicyConfig defines the default behavior when no rules match.
type PolicyConfig struct {
	Default string `toml:"default" yaml:"default"` // "allow", "deny", or "ask" (default: "ask")
	Message string `toml:"message" yaml:"message"` // fallback message when a rule has no message
}

// CommandsConfig provides quick lists for common allow/deny patterns.
type CommandsConfig struct {
	Deny  CommandList `toml:"deny" yaml:"deny"`
	Allow CommandList `toml:"allow" yaml:"allow"`
}

// CommandList is a list of command names with an optional shared message.
type CommandList struct {
	Names   []string `toml:"names" yaml:"names"`
	Message string   `toml:"message" yaml:"message"`
}

// Rule represents a detailed command rule with argument matching.
type Rule struct {
	Command string    `toml:"command" yaml:"command"` // command name pattern, or "*" for any
	Action  string    `toml:"action" yaml:"action"`   // "allow", "deny", or "ask"
	Message string    `toml:"message" yaml:"message"` // custom message for denials
	Args    ArgsMatch `toml:"args" yaml:"args"`       // argument matching options
}

// ArgsMatch provides different ways to match command arguments.
// A rule with no argument constraints matches on command name alone.
type ArgsMatch struct {
	Contains []string `toml:"contains" yaml:"contains"`   // every entry must be a substring of some arg
	AnyMatch []string `toml:"any_match" yaml:"any_match"` // some arg matches some pattern
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, err := ParseAction(c.Policy.Default, "policy.default"); err != nil {
		return err
	}

	for i, rule := range c.Rules {
		loc := ruleLocation(i)
		if rule.Command == "" {
			return &ConfigValidationError{
				Location: loc + ".command",
				Message:  "command pattern is required",
			}
		}
		if _, err := ParsePattern(rule.Command); err != nil {
			return &ConfigValidationError{
				Location: loc + ".command",
				Value:    rule.Command,
				Message:  err.Error(),
			}
		}
		if rule.Action == "" {
			return &ConfigValidationError{
				Location: loc + ".action",
				Message:  "action is required",
			}
		}
		if _, err := ParseAction(rule.Action, loc+".action"); err != nil {
			return err
		}
		for _, pat := range rule.Args.AnyMatch {
			if _, err := ParsePattern(pat); err != nil {
				return &ConfigValidationError{
					Location: loc + ".args.any_match",
					Value:    pat,
					Message:  err.Error(),
				}
			}
		}
	}
	return nil
}

// DefaultAction returns the configured default action, falling back to ask.
func (c *Config) DefaultAction() Action {
	if a := Action(c.Policy.Default); a.IsValid() {
		return a
	}
	return ActionAsk
}

func ruleLocation(i int) string {
	return "rule[" + strconv.Itoa(i) + "]"
}
