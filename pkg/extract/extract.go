// Package extract enumerates every leaf command a shell command line could
// invoke, including commands hidden inside command substitutions, process
// substitutions, and control structures. Callers that authorize shell
// commands on a user's behalf can iterate the result and decide per command,
// instead of trusting the literal top-level string.
//
// The package performs static analysis only: nothing is executed, variables
// are not resolved, and commands are reported as written.
package extract

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// ParseError reports that the top-level command text could not be parsed.
// Parse failures inside substitution bodies do not produce a ParseError;
// those branches simply contribute no commands.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "parse error: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// maxDepth bounds recursion into nested statements and substitutions.
// Command text comes from untrusted sources, so pathological nesting must
// not exhaust the stack. Branches past the limit contribute no commands.
const maxDepth = 1000

// Commands returns the text of every simple command that would be invoked
// by the given shell command line, in declaration order. A command whose
// arguments contain a substitution is listed before the substitution's
// inner commands, even though the substitution runs first.
//
// The returned texts are reconstructed from the syntax tree, so spacing is
// normalized but nothing else is: commands are not deduplicated, resolved,
// or reordered. A blank input yields no commands and no error.
func Commands(command string) ([]string, error) {
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	f, err := parser.Parse(strings.NewReader(command), "")
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	w := walker{printer: syntax.NewPrinter()}
	for _, stmt := range f.Stmts {
		w.stmt(stmt, 0)
	}
	return w.cmds, nil
}

// walker accumulates command texts while traversing a parsed file.
type walker struct {
	printer *syntax.Printer
	cmds    []string
}

// stmt walks one statement: its command, then its redirects. Redirects are
// walked for compound commands too, so substitutions in targets like
// `{ ...; } > >(cmd)` are not lost.
func (w *walker) stmt(stmt *syntax.Stmt, depth int) {
	if stmt == nil || depth > maxDepth {
		return
	}
	if stmt.Cmd != nil {
		w.command(stmt.Cmd, stmt, depth)
	}
	for _, redir := range stmt.Redirs {
		w.redirect(redir, depth)
	}
}

// command dispatches on the statement's command kind. Node kinds not listed
// here carry no commands and contribute nothing.
func (w *walker) command(cmd syntax.Command, stmt *syntax.Stmt, depth int) {
	switch c := cmd.(type) {
	case *syntax.CallExpr:
		// A simple command emits its own text first, then its assignment
		// values and argument words are scanned for substitutions.
		w.emit(stmt)
		for _, as := range c.Assigns {
			w.assign(as, depth)
		}
		for _, arg := range c.Args {
			w.word(arg, depth)
		}

	case *syntax.BinaryCmd:
		// Covers |, |&, && and ||: both sides, left first.
		w.stmt(c.X, depth+1)
		w.stmt(c.Y, depth+1)

	case *syntax.Subshell:
		for _, s := range c.Stmts {
			w.stmt(s, depth+1)
		}

	case *syntax.Block:
		for _, s := range c.Stmts {
			w.stmt(s, depth+1)
		}

	case *syntax.IfClause:
		for el := c; el != nil; el = el.Else {
			for _, s := range el.Cond {
				w.stmt(s, depth+1)
			}
			for _, s := range el.Then {
				w.stmt(s, depth+1)
			}
		}

	case *syntax.WhileClause:
		// Until is the same node with a flag; condition then body either way.
		for _, s := range c.Cond {
			w.stmt(s, depth+1)
		}
		for _, s := range c.Do {
			w.stmt(s, depth+1)
		}

	case *syntax.ForClause:
		if iter, ok := c.Loop.(*syntax.WordIter); ok {
			for _, item := range iter.Items {
				w.word(item, depth)
			}
		}
		// C-style loop headers are arithmetic and carry no commands.
		for _, s := range c.Do {
			w.stmt(s, depth+1)
		}

	case *syntax.CaseClause:
		w.word(c.Word, depth)
		for _, item := range c.Items {
			for _, s := range item.Stmts {
				w.stmt(s, depth+1)
			}
		}

	case *syntax.FuncDecl:
		w.stmt(c.Body, depth+1)

	case *syntax.TestClause:
		w.testExpr(c.X, depth)

	case *syntax.DeclClause:
		// declare/export/local/readonly behave like simple commands.
		w.emit(stmt)
		for _, as := range c.Args {
			w.assign(as, depth)
		}

	case *syntax.TimeClause:
		w.stmt(c.Stmt, depth+1)

	case *syntax.CoprocClause:
		w.stmt(c.Stmt, depth+1)

	case *syntax.ArithmCmd, *syntax.LetClause:
		// Arithmetic carries no command text.
	}
}

// emit appends the reconstructed text of a simple command. Background and
// negation markers belong to the enclosing list, not the command itself.
func (w *walker) emit(stmt *syntax.Stmt) {
	flat := *stmt
	flat.Background = false
	flat.Negated = false
	flat.Comments = nil

	var sb strings.Builder
	if err := w.printer.Print(&sb, &flat); err != nil {
		return
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return
	}
	w.cmds = append(w.cmds, text)
}

// assign scans an assignment's value for substitutions. Array assignments
// scan each element; indices are arithmetic and carry no commands.
func (w *walker) assign(as *syntax.Assign, depth int) {
	if as == nil {
		return
	}
	if as.Value != nil {
		w.word(as.Value, depth)
	}
	if as.Array != nil {
		for _, el := range as.Array.Elems {
			w.word(el.Value, depth)
		}
	}
}

// word scans each piece of a word for embedded commands.
func (w *walker) word(word *syntax.Word, depth int) {
	if word == nil || depth > maxDepth {
		return
	}
	for _, part := range word.Parts {
		w.wordPart(part, depth)
	}
}

func (w *walker) wordPart(part syntax.WordPart, depth int) {
	if depth > maxDepth {
		return
	}
	switch p := part.(type) {
	case *syntax.CmdSubst:
		// $(...) and `...` both land here.
		for _, s := range p.Stmts {
			w.stmt(s, depth+1)
		}
	case *syntax.ProcSubst:
		for _, s := range p.Stmts {
			w.stmt(s, depth+1)
		}
	case *syntax.DblQuoted:
		// Covers "..." and gettext $"...".
		for _, inner := range p.Parts {
			w.wordPart(inner, depth)
		}
	case *syntax.BraceExp:
		for _, el := range p.Elems {
			w.word(el, depth)
		}
	default:
		// Lit, SglQuoted, ParamExp, ArithmExp, ExtGlob: no embedded commands.
	}
}

// redirect scans a redirect for embedded commands. Here-string and
// output-and-error words are walked in full; here-document bodies are not
// scanned; plain file targets only carry commands via process substitution.
func (w *walker) redirect(r *syntax.Redirect, depth int) {
	if r == nil || depth > maxDepth {
		return
	}
	switch r.Op {
	case syntax.Hdoc, syntax.DashHdoc:
		return
	case syntax.WordHdoc, syntax.RdrAll, syntax.AppAll:
		w.word(r.Word, depth)
	default:
		if r.Word == nil {
			return
		}
		for _, part := range r.Word.Parts {
			if ps, ok := part.(*syntax.ProcSubst); ok {
				for _, s := range ps.Stmts {
					w.stmt(s, depth+1)
				}
			}
		}
	}
}

// testExpr walks a [[ ... ]] expression down to its operand words.
func (w *walker) testExpr(expr syntax.TestExpr, depth int) {
	if depth > maxDepth {
		return
	}
	switch e := expr.(type) {
	case *syntax.BinaryTest:
		w.testExpr(e.X, depth+1)
		w.testExpr(e.Y, depth+1)
	case *syntax.UnaryTest:
		w.testExpr(e.X, depth+1)
	case *syntax.ParenTest:
		w.testExpr(e.X, depth+1)
	case *syntax.Word:
		w.word(e, depth)
	}
}
