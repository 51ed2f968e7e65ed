package project

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
[quoter]
command = "mix"
script = "dump.exs"
args = ["--no-compile"]

[parse]
strict = true
jobs = 4

[cache]
enabled = true
dir = ".cache"
`)
	if err := os.WriteFile(filepath.Join(root, "dump.exs"), nil, 0o600); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "lib", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := Load(nested)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	cfg := m.Config
	if cfg.Quoter.Command != "mix" || cfg.Quoter.Script != filepath.Join(root, "dump.exs") {
		t.Fatalf("quoter = %+v", cfg.Quoter)
	}
	// what the file omits comes from Default
	if cfg.Quoter.StringScript != Default().Quoter.StringScript || !cfg.Parse.StopOnError || cfg.Parse.MaxDiagnostics != 100 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if !cfg.Parse.Strict || cfg.Parse.Jobs != 4 || !cfg.Cache.Enabled || cfg.Cache.Dir != filepath.Join(root, ".cache") {
		t.Fatalf("parse/cache = %+v / %+v", cfg.Parse, cfg.Cache)
	}
	qc := cfg.QuoterConfig(root)
	if !reflect.DeepEqual(qc.Args, []string{"--no-compile"}) || qc.Dir != root {
		t.Fatalf("quoter config = %+v", qc)
	}
}

func TestLoadNoConfig(t *testing.T) {
	m, ok, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	// TempDir may sit under a project with quoted.toml; ok is legal then
	if !ok && m != nil {
		t.Fatal("manifest without file")
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := map[string]string{
		"bad toml":     "[parse\n",
		"unknown key":  "[parse]\nstrictness = 1\n",
		"empty cmd":    "[quoter]\ncommand = \" \"\n",
		"negative cap": "[parse]\nmax_diagnostics = -1\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), body)
			if _, err := LoadFile(path); err == nil {
				t.Fatalf("expected error for %q", body)
			}
		})
	}
}

func TestWriteDefault(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteDefault(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	m, err := LoadFile(path)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	def := Default()
	got := m.Config
	if got.Parse != def.Parse || got.Cache != def.Cache || got.Quoter.Command != def.Quoter.Command ||
		got.Quoter.Script != def.Quoter.Script || len(got.Quoter.Args) != 0 {
		t.Fatalf("round trip = %+v", got)
	}
	if _, err := WriteDefault(dir, false); !errors.Is(err, ErrConfigExists) {
		t.Fatalf("second write: %v", err)
	}
	if _, err := WriteDefault(dir, true); err != nil {
		t.Fatalf("forced write: %v", err)
	}
}
