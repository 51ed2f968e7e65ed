// Package quoter runs the external collaborator that turns source files into
// quoted-term dumps. For a path it prints a batch (see package dump); for a
// snippet on stdin it prints a single dump.
package quoter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"quoted/internal/diag"
	"quoted/internal/trace"
)

const waitDelay = 2 * time.Second

const (
	DefaultCommand      = "elixir"
	DefaultScript       = "quote_dir.exs"
	DefaultStringScript = "quote_str.exs"
)

// Config describes how to invoke the collaborator:
// `Command Script Args... path` for a path, `Command StringScript Args...`
// with the snippet on stdin for a string.
type Config struct {
	Command      string
	Script       string
	StringScript string
	Args         []string
	Dir          string   // empty means the current directory
	Env          []string // added to the parent environment
}

func (c Config) withDefaults() Config {
	if c.Command == "" {
		c.Command = DefaultCommand
	}
	if c.Script == "" {
		c.Script = DefaultScript
	}
	if c.StringScript == "" {
		c.StringScript = DefaultStringScript
	}
	return c
}

// Result is the raw collaborator output. Stdout is not decoded here; the
// driver decodes it like any other input.
type Result struct {
	Stdout  []byte
	Stderr  string
	Elapsed time.Duration
}

// Error is a collaborator failure: QTR5002 when the command cannot be
// found, QTR5001 when it ran and failed.
type Error struct {
	Code     diag.Code
	Command  string
	ExitCode int // -1 if the process never started
	Stderr   string
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Code.ID(), e.Command)
	switch {
	case e.Code == diag.QuoterNotFound:
		b.WriteString(": command not found")
	case e.ExitCode >= 0:
		fmt.Fprintf(&b, ": exit status %d", e.ExitCode)
	case e.Err != nil:
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Diagnostic converts the failure for the diagnostic bag.
func (e *Error) Diagnostic() diag.Diagnostic {
	return diag.Diagnostic{Severity: diag.SevError, Code: e.Code, Message: e.Error()}
}

// QuotePath asks the collaborator to dump the file or directory at path.
func QuotePath(ctx context.Context, cfg Config, path string) (*Result, error) {
	cfg = cfg.withDefaults()
	args := append([]string{cfg.Script}, cfg.Args...)
	args = append(args, path)
	return run(ctx, cfg, args, nil)
}

// QuoteString asks the collaborator to dump a source snippet.
func QuoteString(ctx context.Context, cfg Config, code string) (*Result, error) {
	cfg = cfg.withDefaults()
	args := append([]string{cfg.StringScript}, cfg.Args...)
	return run(ctx, cfg, args, strings.NewReader(code))
}

func run(ctx context.Context, cfg Config, args []string, stdin *strings.Reader) (*Result, error) {
	ctx, sp := trace.Start(ctx, trace.ScopePass, "quote")
	cmdline := cfg.Command + " " + strings.Join(args, " ")
	sp.Set("cmd", cmdline)

	bin, err := exec.LookPath(cfg.Command)
	if err != nil {
		sp.Fail("not found")
		return nil, &Error{Code: diag.QuoterNotFound, Command: cfg.Command, ExitCode: -1, Err: err}
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = cfg.Dir
	// after cancel, don't wait on children still holding stdout
	cmd.WaitDelay = waitDelay
	if len(cfg.Env) > 0 {
		cmd.Env = append(cmd.Environ(), cfg.Env...)
	}
	if stdin != nil {
		cmd.Stdin = stdin
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	err = cmd.Run()
	res := &Result{Stdout: stdout.Bytes(), Stderr: stderr.String(), Elapsed: time.Since(started)}

	if msg := strings.TrimSpace(res.Stderr); msg != "" {
		sp.Point(trace.ScopePass, "quote:stderr", msg)
	}
	sp.Set("stdout_bytes", fmt.Sprint(len(res.Stdout)))

	if err != nil {
		qe := &Error{Code: diag.QuoterFailed, Command: cmdline, ExitCode: -1, Stderr: res.Stderr, Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			qe.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			qe.Err = ctxErr
		}
		sp.Set("exit", fmt.Sprint(qe.ExitCode)).Fail("failed")
		return res, qe
	}
	sp.End("ok")
	return res, nil
}
