package main

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"quoted/internal/dump"
	"quoted/internal/source"
)

// resetFlags returns every flag of c and its subcommands to its default,
// since the command tree is shared between executions.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
	return out.String(), errOut.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseCommand(t *testing.T) {
	path := writeTemp(t, "a.qd", `[{:foo, 5}, "bar"]`)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"parse", path}, "[foo: 5, \"bar\"]\n"},
		{[]string{"parse", "--sugar=false", path}, "[{:foo, 5}, \"bar\"]\n"},
		{[]string{"parse", "--format", "tree", path}, strings.Join([]string{
			"list (2)",
			"├─ tuple (2)",
			"│  ├─ atom :foo",
			"│  └─ number 5",
			"└─ binary \"bar\"",
			"",
		}, "\n")},
	}
	for _, tt := range tests {
		stdout, stderr, err := execute(t, "", tt.args...)
		if err != nil {
			t.Fatalf("%v: %v\n%s", tt.args, err, stderr)
		}
		if stdout != tt.want {
			t.Errorf("%v:\n%s\nwant:\n%s", tt.args, stdout, tt.want)
		}
	}
}

func TestParseCommandStdinFailure(t *testing.T) {
	stdout, stderr, err := execute(t, "{:a\n  :b}", "parse", "-")
	code, reported := exitCodeOf(err)
	if code != exitParseFailed || !reported {
		t.Fatalf("err = %v", err)
	}
	if stdout != "" {
		t.Fatalf("stdout = %q", stdout)
	}
	if !strings.Contains(stderr, "<stdin>:2:3: ERROR SYN2008") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestDiagnosticsFormats(t *testing.T) {
	_, stderr, err := execute(t, "{:a\n  :b}", "parse", "--diagnostics", "short", "-")
	if code, _ := exitCodeOf(err); code != exitParseFailed {
		t.Fatalf("err = %v", err)
	}
	if !strings.HasPrefix(stderr, "error SYN2008 <stdin>:2:3 ") || strings.Count(stderr, "\n") != 1 {
		t.Fatalf("short stderr = %q", stderr)
	}

	_, stderr, _ = execute(t, "{:a\n  :b}", "parse", "--diagnostics", "json", "-")
	if !strings.Contains(stderr, `"SYN2008"`) {
		t.Fatalf("json stderr = %q", stderr)
	}

	path := writeTemp(t, "broken.qd", "{:a,}")
	_, stderr, _ = execute(t, "", "parse", "--path-mode", "basename", "--diagnostics", "short", path)
	// the comma note (1:4) sorts before the error itself
	if !strings.Contains(stderr, "note SYN2004 broken.qd:1:4 remove this comma\nerror SYN2004 broken.qd:1:5 ") {
		t.Fatalf("basename stderr = %q", stderr)
	}

	if _, _, err = execute(t, "1", "parse", "--diagnostics", "xml", "-"); err == nil || !strings.Contains(err.Error(), "unknown diagnostics format") {
		t.Fatalf("err = %v", err)
	}
}

func TestStrictFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "quoted.toml")
	if err := os.WriteFile(cfg, []byte("[parse]\nstrict = true\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, stderr, err := execute(t, "[:a; :b]", "parse", "-"); err == nil {
		t.Fatalf("lenient mode must still need a comma: %s", stderr)
	}
	if _, _, err := execute(t, "[:a ;, :b]", "parse", "-"); err != nil {
		t.Fatalf("lenient mode skips ';': %v", err)
	}
	_, stderr, err := execute(t, "[:a ;, :b]", "parse", "--config", cfg, "-")
	if err == nil || !strings.Contains(stderr, "LEX1001") {
		t.Fatalf("strict config: err=%v stderr=%q", err, stderr)
	}
	// the flag wins over the config
	if _, _, err := execute(t, "[:a ;, :b]", "parse", "--config", cfg, "--strict=false", "-"); err != nil {
		t.Fatalf("--strict=false must override the config: %v", err)
	}
}

func TestBatchCommand(t *testing.T) {
	path := filepath.Join("..", "..", "testdata", "batch.qd")
	stdout, stderr, err := execute(t, "", "batch", "--format", "none", path)
	if err != nil {
		t.Fatalf("batch: %v\n%s", err, stderr)
	}
	if stdout != "" || stderr != "3 parsed, 0 failed, 0 skipped (policy stop)\n" {
		t.Fatalf("stdout=%q stderr=%q", stdout, stderr)
	}

	stdout, _, err = execute(t, "", "batch", "--format", "dump", "--quiet", path)
	if err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSet()
	segs, err := dump.Split(fs.Get(fs.AddVirtual("out", []byte(stdout))))
	if err != nil || len(segs) != 3 {
		t.Fatalf("re-split: %d segments, %v", len(segs), err)
	}
	if segs[0].Label != "lib/config.ex" || segs[2].Label != "lib/math.ex" {
		t.Fatalf("labels = %q, %q", segs[0].Label, segs[2].Label)
	}
}

const mixedBatch = "@!&*(^)|a\n|)&@^#%[:x]\n@!&*(^)|b\n|)&@^#%{:y,\n@!&*(^)|c\n|)&@^#%1\n"

func TestBatchPolicies(t *testing.T) {
	tests := []struct {
		args    []string
		summary string
		headers []string
	}{
		{[]string{"batch", "-"}, "1 parsed, 1 failed, 1 skipped (policy stop)", []string{"== a =="}},
		{[]string{"batch", "--continue", "--jobs", "4", "-"}, "2 parsed, 1 failed, 0 skipped (policy continue)", []string{"== a ==", "== c =="}},
	}
	for _, tt := range tests {
		stdout, stderr, err := execute(t, mixedBatch, tt.args...)
		if code, _ := exitCodeOf(err); code != exitParseFailed {
			t.Fatalf("%v: err = %v", tt.args, err)
		}
		if !strings.Contains(stderr, "SYN2002") || !strings.Contains(stderr, tt.summary) {
			t.Fatalf("%v: stderr = %q", tt.args, stderr)
		}
		for _, h := range tt.headers {
			if !strings.Contains(stdout, h) {
				t.Fatalf("%v: stdout lacks %q:\n%s", tt.args, h, stdout)
			}
		}
		if strings.Contains(stdout, "== b ==") {
			t.Fatalf("%v: failed segment printed", tt.args)
		}
	}
}

func TestBatchCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join("..", "..", "testdata", "batch.qd")
	if _, stderr, err := execute(t, "", "batch", "--format", "none", "--cache", "--cache-dir", dir, path); err != nil {
		t.Fatalf("cold run: %v\n%s", err, stderr)
	}
	_, stderr, err := execute(t, "", "batch", "--format", "none", "--cache", "--cache-dir", dir, path)
	if err != nil || !strings.Contains(stderr, "cache 3 hit / 0 miss") {
		t.Fatalf("warm run: err=%v stderr=%q", err, stderr)
	}
	_, stderr, _ = execute(t, "", "batch", "--format", "none", "--cache", "--cache-dir", dir, "--clear-cache", path)
	if !strings.Contains(stderr, "cache 0 hit / 3 miss") {
		t.Fatalf("cleared run: stderr=%q", stderr)
	}
}

func TestQuoteCommand(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	cfg := filepath.Join(dir, "quoted.toml")
	// sh -c SCRIPT path: the path lands in $0
	config := `[quoter]
command = "sh"
script = "-c"
string_script = "-c"
args = ['case "$0" in *sh) cat ;; *) printf "@!&*(^)|%s\n|)&@^#%%[:ok]\n" "$(basename "$0")" ;; esac']
`
	if err := os.WriteFile(cfg, []byte(config), 0o600); err != nil {
		t.Fatal(err)
	}
	saved := filepath.Join(dir, "raw.qd")

	stdout, stderr, err := execute(t, "", "quote", "--config", cfg, "--save", saved, dir)
	if err != nil {
		t.Fatalf("quote: %v\n%s", err, stderr)
	}
	want := "== " + filepath.Base(dir) + " ==\n[:ok]\n"
	if stdout != want {
		t.Fatalf("stdout = %q, want %q", stdout, want)
	}
	if raw, err := os.ReadFile(saved); err != nil || !strings.HasPrefix(string(raw), dump.FileSeparator) {
		t.Fatalf("saved dump = %q, %v", raw, err)
	}

	stdout, stderr, err = execute(t, "", "quote", "--config", cfg, "--eval", "{:a, [], nil}")
	if err != nil {
		t.Fatalf("quote --eval: %v\n%s", err, stderr)
	}
	if stdout != "{:a, [], :nil}\n" {
		t.Fatalf("eval stdout = %q", stdout)
	}
}

func TestQuoteCommandMissingTool(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "quoted.toml")
	if err := os.WriteFile(cfg, []byte("[quoter]\ncommand = \"quoted-no-such-tool-xyz\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, stderr, err := execute(t, "", "quote", "--config", cfg, dir)
	if code, _ := exitCodeOf(err); code != exitParseFailed || !strings.Contains(stderr, "QTR5002") {
		t.Fatalf("err=%v stderr=%q", err, stderr)
	}
}

func TestInitCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "proj")
	if _, _, err := execute(t, "", "init", dir); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "quoted.toml")); err != nil {
		t.Fatal(err)
	}
	if _, _, err := execute(t, "", "init", dir); err == nil || !strings.Contains(err.Error(), "--force") {
		t.Fatalf("second init: %v", err)
	}
	if _, _, err := execute(t, "", "init", "--force", dir); err != nil {
		t.Fatal(err)
	}
}

func TestReadModes(t *testing.T) {
	if _, err := readSwitch("ui", "sometimes", false); err == nil || !strings.Contains(err.Error(), "--ui") {
		t.Errorf("bad --ui value: %v", err)
	}
	tests := []struct {
		value string
		tty   bool
		want  bool
	}{
		{"auto", true, true},
		{"auto", false, false},
		{"on", false, true},
		{"off", true, false},
	}
	for _, tt := range tests {
		got, err := readSwitch("color", tt.value, tt.tty)
		if err != nil || got != tt.want {
			t.Errorf("readSwitch(%q, %v) = %v, %v", tt.value, tt.tty, got, err)
		}
	}
	if _, err := readSwitch("color", "rainbow", true); err == nil {
		t.Error("bad --color value accepted")
	}
}

func TestExitCode(t *testing.T) {
	if code, reported := exitCodeOf(errors.New("boom")); code != 1 || reported {
		t.Fatalf("plain error: %d %v", code, reported)
	}
	if code, _ := exitCodeOf(&reportedError{failed: 3}); code != exitParseFailed {
		t.Fatalf("reported error: %d", code)
	}
}

func TestFmtCommand(t *testing.T) {
	path := writeTemp(t, "messy.qd", "[ {:foo,5} ,\n  \"bar\" ]")

	stdout, _, err := execute(t, "", "fmt", "--check", path)
	if err == nil || stdout != path+"\n" {
		t.Fatalf("check: stdout=%q err=%v", stdout, err)
	}
	if _, _, err := execute(t, "", "fmt", "--write", path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "[foo: 5, \"bar\"]\n" {
		t.Fatalf("rewritten = %q, %v", data, err)
	}
	if _, _, err := execute(t, "", "fmt", "--check", path); err != nil {
		t.Fatalf("formatted file reported: %v", err)
	}
}
