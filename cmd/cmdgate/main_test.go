package main

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
)

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// what was written.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()
	w.Close()

	var sb strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			break
		}
	}
	return sb.String()
}

func TestOutputHookResult(t *testing.T) {
	tests := []struct {
		name         string
		result       Result
		wantDecision string
		wantReason   string
	}{
		{
			name:         "allow",
			result:       Result{Action: ActionAllow},
			wantDecision: "allow",
			wantReason:   "Allowed by cmdgate policy",
		},
		{
			name:         "deny with message",
			result:       Result{Action: ActionDeny, Message: "no network"},
			wantDecision: "deny",
			wantReason:   "no network",
		},
		{
			name:         "deny without message",
			result:       Result{Action: ActionDeny},
			wantDecision: "deny",
			wantReason:   "Denied by cmdgate policy",
		},
		{
			name:         "ask carries the command",
			result:       Result{Action: ActionAsk, Command: "rm -rf /", Source: "policy.default"},
			wantDecision: "ask",
			wantReason:   "rm -rf /: policy.default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureStdout(t, func() {
				if code := outputHookResult(tt.result); code != ExitAllow {
					t.Errorf("hook mode should exit 0, got %d", code)
				}
			})

			var decoded HookOutput
			if err := json.Unmarshal([]byte(out), &decoded); err != nil {
				t.Fatalf("hook output is not valid JSON: %v\n%s", err, out)
			}
			hso := decoded.HookSpecificOutput
			if hso.HookEventName != "PreToolUse" {
				t.Errorf("event = %q, want PreToolUse", hso.HookEventName)
			}
			if hso.PermissionDecision != tt.wantDecision {
				t.Errorf("decision = %q, want %q", hso.PermissionDecision, tt.wantDecision)
			}
			if hso.PermissionDecisionReason != tt.wantReason {
				t.Errorf("reason = %q, want %q", hso.PermissionDecisionReason, tt.wantReason)
			}
		})
	}
}

func TestOutputHookConfigError(t *testing.T) {
	out := captureStdout(t, func() {
		outputHookConfigError(&ConfigError{Path: "/tmp/p.toml", Err: ErrConfigParse})
	})

	var decoded HookOutput
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("hook output is not valid JSON: %v", err)
	}
	if decoded.HookSpecificOutput.PermissionDecision != "ask" {
		t.Errorf("config errors must not allow, got %q", decoded.HookSpecificOutput.PermissionDecision)
	}
	if !strings.Contains(decoded.HookSpecificOutput.PermissionDecisionReason, "/tmp/p.toml") {
		t.Errorf("reason should name the policy file, got %q", decoded.HookSpecificOutput.PermissionDecisionReason)
	}
}

func TestFormatConfigError(t *testing.T) {
	err := &ConfigError{Path: "p.toml", Err: ErrConfigParse}
	if got := formatConfigError(err); !strings.Contains(got, "p.toml") {
		t.Errorf("formatConfigError should include the path, got %q", got)
	}

	valErr := &ConfigValidationError{Location: "rule[0].action", Value: "block", Message: "invalid action"}
	if got := formatConfigError(valErr); !strings.Contains(got, "rule[0].action") {
		t.Errorf("formatConfigError should include the location, got %q", got)
	}

	plain := errors.New("boom")
	if got := formatConfigError(plain); !strings.Contains(got, "boom") {
		t.Errorf("formatConfigError should include the message, got %q", got)
	}
}
