package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"cmdgate/pkg/extract"
)

// Version info set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Debug logger (nil when debug mode is off)
var debugLog *log.Logger

// HookInput represents the JSON input from an agent pre-tool-use hook.
type HookInput struct {
	SessionID string `json:"session_id"`
	ToolName  string `json:"tool_name"`
	ToolInput struct {
		Command string `json:"command"`
	} `json:"tool_input"`
}

// HookOutput represents the JSON decision written back to the agent.
type HookOutput struct {
	HookSpecificOutput HookSpecificOutput `json:"hookSpecificOutput"`
}

type HookSpecificOutput struct {
	HookEventName            string `json:"hookEventName"`
	PermissionDecision       string `json:"permissionDecision"`
	PermissionDecisionReason string `json:"permissionDecisionReason,omitempty"`
}

func main() {
	configPath := flag.String("config", "", "path to policy file (TOML or YAML)")
	hookMode := flag.Bool("hook", false, "parse agent hook JSON input (extracts tool_input.command)")
	listMode := flag.Bool("list", false, "print extracted leaf commands without evaluating")
	rulesMode := flag.Bool("rules", false, "validate the policy file and display its rules")
	showVersion := flag.Bool("version", false, "print version and exit")
	debugMode := flag.Bool("debug", false, "enable debug logging to stderr and $TMPDIR/cmdgate.log")
	flag.Parse()

	switch {
	case *showVersion:
		fmt.Printf("cmdgate %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	case *listMode:
		os.Exit(int(runList()))
	case *rulesMode:
		os.Exit(int(runRules(*configPath)))
	default:
		os.Exit(int(runEval(*configPath, *hookMode, *debugMode)))
	}
}

// runList prints every leaf command from stdin, one per line. This is the
// raw enumeration surface; no policy is consulted.
func runList() ExitCode {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
		return ExitError
	}

	cmds, err := extract.Commands(string(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	for _, cmd := range cmds {
		fmt.Println(cmd)
	}
	return ExitAllow
}

// runEval evaluates a command line against the policy.
// In hook mode, it reads JSON from stdin and outputs JSON.
// In pipe mode, it reads the command line directly from stdin.
func runEval(configPath string, hookMode, debugMode bool) ExitCode {
	if debugMode {
		initDebugLog(filepath.Join(os.TempDir(), "cmdgate.log"))
	}

	cfg, err := loadPolicy(configPath)
	if err != nil {
		if hookMode {
			return outputHookConfigError(err)
		}
		fmt.Fprintln(os.Stderr, formatConfigError(err))
		return ExitError
	}
	logDebugConfig(cfg)

	line, err := readCommandLine(hookMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	eval, err := NewEvaluator(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, formatConfigError(err))
		return ExitError
	}
	result := eval.EvaluateLine(line)

	if hookMode {
		return outputHookResult(result)
	}
	return outputPlainResult(result)
}

// loadPolicy resolves and loads the policy file. A missing policy is not an
// error: evaluation proceeds with an empty config, whose default is ask.
func loadPolicy(configPath string) (*Config, error) {
	path := FindConfig(configPath)
	if path == "" {
		return &Config{}, nil
	}
	return LoadConfig(path)
}

// readCommandLine reads the command to evaluate from stdin.
func readCommandLine(hookMode bool) (string, error) {
	if hookMode {
		var input HookInput
		if err := json.NewDecoder(os.Stdin).Decode(&input); err != nil {
			return "", fmt.Errorf("parsing hook JSON: %w", err)
		}
		return input.ToolInput.Command, nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func outputHookResult(result Result) ExitCode {
	var output HookOutput
	output.HookSpecificOutput.HookEventName = "PreToolUse"
	output.HookSpecificOutput.PermissionDecision = string(result.Action)

	switch result.Action {
	case ActionAllow:
		output.HookSpecificOutput.PermissionDecisionReason = "Allowed by cmdgate policy"
	case ActionDeny:
		output.HookSpecificOutput.PermissionDecisionReason = messageOr(result.Message, "Denied by cmdgate policy")
	default:
		output.HookSpecificOutput.PermissionDecision = string(ActionAsk)
		reason := "No cmdgate rules matched"
		if result.Message != "" {
			reason = result.Message
		} else if result.Source != "" {
			reason = result.Source
		}
		if result.Command != "" {
			reason = result.Command + ": " + reason
		}
		output.HookSpecificOutput.PermissionDecisionReason = reason
	}

	if err := json.NewEncoder(os.Stdout).Encode(output); err != nil {
		return ExitError
	}
	return ExitAllow
}

// outputHookConfigError outputs a hook error response for policy loading
// failures. The decision is ask: a broken policy must not silently allow.
func outputHookConfigError(err error) ExitCode {
	var output HookOutput
	output.HookSpecificOutput.HookEventName = "PreToolUse"
	output.HookSpecificOutput.PermissionDecision = string(ActionAsk)
	output.HookSpecificOutput.PermissionDecisionReason = "cmdgate policy error: " + err.Error()

	if err := json.NewEncoder(os.Stdout).Encode(output); err != nil {
		return ExitError
	}
	return ExitAllow
}

func outputPlainResult(result Result) ExitCode {
	switch result.Action {
	case ActionAllow:
		// No output for allow
	case ActionDeny:
		if result.Message != "" {
			if result.Command != "" {
				fmt.Fprintf(os.Stderr, "Deny: %s: %s\n", result.Command, result.Message)
			} else {
				fmt.Fprintln(os.Stderr, result.Message)
			}
		}
	default:
		reason := "no rules matched"
		if result.Message != "" {
			reason = result.Message
		} else if result.Source != "" {
			reason = result.Source
		}
		if result.Command != "" {
			fmt.Fprintf(os.Stderr, "Ask: %s: %s\n", result.Command, reason)
		} else {
			fmt.Fprintf(os.Stderr, "Ask: %s\n", reason)
		}
	}
	return result.Action.ExitCode()
}

// formatConfigError formats a policy error for human-readable output.
func formatConfigError(err error) string {
	var cfgErr *ConfigError
	var valErr *ConfigValidationError

	if errors.As(err, &cfgErr) {
		return "Error: " + cfgErr.Error()
	}
	if errors.As(err, &valErr) {
		return "Error: " + valErr.Error()
	}
	return "Error loading policy: " + err.Error()
}

// Debug logging helpers

func initDebugLog(logPath string) {
	writers := []io.Writer{os.Stderr}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err == nil {
		writers = append(writers, f)
		fmt.Fprintf(os.Stderr, "[debug] Log file: %s\n", logPath)
	}

	debugLog = log.New(io.MultiWriter(writers...), "[cmdgate] ", log.Ltime)
}

func logDebug(format string, args ...any) {
	if debugLog != nil {
		debugLog.Printf(format, args...)
	}
}

func logDebugConfig(cfg *Config) {
	if debugLog == nil {
		return
	}
	logDebug("Policy: %s", cfg.Path)
	logDebug("  policy.default = %q", cfg.Policy.Default)
	if len(cfg.Commands.Deny.Names) > 0 {
		logDebug("  commands.deny.names: %s", strings.Join(cfg.Commands.Deny.Names, ", "))
	}
	if len(cfg.Commands.Allow.Names) > 0 {
		logDebug("  commands.allow.names: %s", strings.Join(cfg.Commands.Allow.Names, ", "))
	}
	logDebug("  %d rule(s)", len(cfg.Rules))
}

func logDebugCommands(cmds []string) {
	if debugLog == nil {
		return
	}
	logDebug("Extracted %d command(s):", len(cmds))
	for i, cmd := range cmds {
		logDebug("  [%d] %q", i, cmd)
	}
}
