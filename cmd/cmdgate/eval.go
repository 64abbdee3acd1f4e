package main

import (
	"regexp"
	"strings"

	"cmdgate/pkg/extract"
	"cmdgate/pkg/pathutil"
)

// Result represents the evaluation result for a command line.
type Result struct {
	Action  Action
	Message string
	Command string // the leaf command that triggered this result (if any)
	Source  string // describes what triggered this result (for debugging)
}

// Evaluator applies policy rules to every leaf command extracted from a
// command line. The strictest decision across leaf commands wins, so a
// substitution smuggled into an argument is judged on its own.
type Evaluator struct {
	cfg   *Config
	ctx   *MatchContext
	rules []compiledRule
}

type compiledRule struct {
	rule     Rule
	command  *Pattern
	anyMatch []*Pattern
	action   Action
}

// NewEvaluator compiles the policy's patterns. The config must already be
// validated; compile errors here indicate a bug in Validate.
func NewEvaluator(cfg *Config) (*Evaluator, error) {
	e := &Evaluator{
		cfg: cfg,
		ctx: &MatchContext{PathVars: pathutil.NewPathVars(findProjectRoot())},
	}
	for _, rule := range cfg.Rules {
		cr := compiledRule{rule: rule, action: Action(rule.Action)}
		pat, err := ParsePattern(rule.Command)
		if err != nil {
			return nil, err
		}
		cr.command = pat
		for _, s := range rule.Args.AnyMatch {
			ap, err := ParsePattern(s)
			if err != nil {
				return nil, err
			}
			cr.anyMatch = append(cr.anyMatch, ap)
		}
		e.rules = append(e.rules, cr)
	}
	return e, nil
}

// EvaluateLine extracts every leaf command from the line and combines the
// per-command decisions, strictest first (deny > ask > allow).
func (e *Evaluator) EvaluateLine(line string) Result {
	cmds, err := extract.Commands(line)
	if err != nil {
		// Unparseable input cannot be enumerated, so it cannot be vetted.
		return Result{Action: ActionAsk, Source: "parse error: " + err.Error()}
	}
	logDebugCommands(cmds)

	if len(cmds) == 0 {
		return Result{Action: e.cfg.DefaultAction(), Source: "no commands"}
	}

	result := e.evaluateCommand(cmds[0])
	for _, cmd := range cmds[1:] {
		result = combineResults(result, e.evaluateCommand(cmd))
	}
	return result
}

// evaluateCommand decides one leaf command. Order: deny quick list, rules
// in file order (first match wins), allow quick list, dynamic-name check,
// policy default.
func (e *Evaluator) evaluateCommand(text string) Result {
	name, args := splitCommand(text)
	if name == "" {
		return Result{Action: ActionAsk, Command: text, Source: "no command name"}
	}

	for _, denied := range e.cfg.Commands.Deny.Names {
		if denied == name {
			return Result{
				Action:  ActionDeny,
				Message: messageOr(e.cfg.Commands.Deny.Message, e.cfg.Policy.Message),
				Command: text,
				Source:  "commands.deny.names",
			}
		}
	}

	for i := range e.rules {
		cr := &e.rules[i]
		if !cr.command.Match(name, e.ctx) {
			continue
		}
		if !cr.argsMatch(args, e.ctx) {
			continue
		}
		return Result{
			Action:  cr.action,
			Message: messageOr(cr.rule.Message, e.cfg.Policy.Message),
			Command: text,
			Source:  "rule: " + cr.rule.Command,
		}
	}

	for _, allowed := range e.cfg.Commands.Allow.Names {
		if allowed == name {
			return Result{Action: ActionAllow, Command: text, Source: "commands.allow.names"}
		}
	}

	// A name built from expansions cannot be vetted statically.
	if strings.ContainsAny(name, "$`") {
		return Result{Action: ActionAsk, Command: text, Source: "dynamic command name"}
	}

	return Result{
		Action:  e.cfg.DefaultAction(),
		Message: e.cfg.Policy.Message,
		Command: text,
		Source:  "policy.default",
	}
}

// argsMatch reports whether the rule's argument constraints hold.
// An empty constraint set matches any arguments.
func (cr *compiledRule) argsMatch(args []string, ctx *MatchContext) bool {
	for _, substr := range cr.rule.Args.Contains {
		if !argsContain(args, substr) {
			return false
		}
	}
	if len(cr.anyMatch) > 0 {
		found := false
		for _, pat := range cr.anyMatch {
			for _, arg := range args {
				if pat.Match(arg, ctx) {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func argsContain(args []string, substr string) bool {
	for _, arg := range args {
		if strings.Contains(arg, substr) {
			return true
		}
	}
	return false
}

// combineResults merges two results, keeping the fields of whichever
// result determined the stricter action.
func combineResults(current, next Result) Result {
	if next.Action.Priority() > current.Action.Priority() {
		return next
	}
	return current
}

func messageOr(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}

// assignmentPrefix matches leading environment assignments like FOO=1.
var assignmentPrefix = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*\+?=`)

// splitCommand returns the command name and arguments of a reconstructed
// command text, skipping leading assignments. The split is whitespace
// based; quoting inside arguments is not re-interpreted.
func splitCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	i := 0
	for i < len(fields) && assignmentPrefix.MatchString(fields[i]) {
		i++
	}
	if i >= len(fields) {
		return "", nil
	}
	return fields[i], fields[i+1:]
}
