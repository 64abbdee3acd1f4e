package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold).SprintFunc()
	errorColor  = color.New(color.FgRed).SprintFunc()
)

// runRules validates the policy file and displays its rules as a table.
func runRules(configPath string) ExitCode {
	path := FindConfig(configPath)
	if path == "" {
		fmt.Println("No policy file found.")
		fmt.Println("\nSearched locations:")
		fmt.Println("  - $CMDGATE_CONFIG")
		fmt.Println("  - <project>/.config/cmdgate.{toml,yaml,yml}")
		fmt.Println("  - ~/.config/cmdgate.{toml,yaml,yml}")
		if configPath != "" {
			fmt.Printf("  - %s (explicit)\n", configPath)
		}
		return ExitError
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorColor(formatConfigError(err)))
		return ExitError
	}

	fmt.Println(headerColor("Policy"), path)
	fmt.Printf("  default action: %s\n\n", cfg.DefaultAction())

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Command", "Action", "Args", "Message", "Source"})
	table.SetBorder(true)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
	})

	for _, name := range cfg.Commands.Deny.Names {
		table.Append([]string{name, string(ActionDeny), "", cfg.Commands.Deny.Message, "commands.deny"})
	}
	for _, name := range cfg.Commands.Allow.Names {
		table.Append([]string{name, string(ActionAllow), "", "", "commands.allow"})
	}
	for i, rule := range cfg.Rules {
		table.Append([]string{
			rule.Command,
			rule.Action,
			describeArgs(rule.Args),
			rule.Message,
			ruleLocation(i),
		})
	}
	table.Render()
	return ExitAllow
}

// describeArgs summarizes a rule's argument constraints for display.
func describeArgs(args ArgsMatch) string {
	var parts []string
	if len(args.Contains) > 0 {
		parts = append(parts, "contains "+strings.Join(args.Contains, ", "))
	}
	if len(args.AnyMatch) > 0 {
		parts = append(parts, "any match "+strings.Join(args.AnyMatch, ", "))
	}
	return strings.Join(parts, "; ")
}
