package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"quoted/internal/diag"
	"quoted/internal/diagfmt"
	"quoted/internal/driver"
	"quoted/internal/lexer"
	"quoted/internal/project"
	"quoted/internal/source"
)

// settings is quoted.toml merged with the command line; explicit flags win.
type settings struct {
	manifest *project.Manifest // nil without quoted.toml
	config   project.Config
	options  driver.Options
	color    bool
	quiet    bool
	diags    string // pretty|json|short
	paths    source.PathMode
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	flags := cmd.Root().PersistentFlags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	s := &settings{config: project.Default()}
	if configPath != "" {
		if s.manifest, err = project.LoadFile(configPath); err != nil {
			return nil, err
		}
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		m, ok, err := project.Load(wd)
		if err != nil {
			return nil, err
		}
		if ok {
			s.manifest = m
		}
	}
	if s.manifest != nil {
		s.config = s.manifest.Config
	}

	s.options.MaxDiagnostics = s.config.Parse.MaxDiagnostics
	if flags.Changed("max-diagnostics") {
		if s.options.MaxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	strict := s.config.Parse.Strict
	if flags.Changed("strict") {
		if strict, err = flags.GetBool("strict"); err != nil {
			return nil, fmt.Errorf("failed to get strict flag: %w", err)
		}
	}
	if strict {
		s.options.Mode = lexer.ModeStrict
	}
	if s.options.Timings, err = flags.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}

	if s.diags, err = flags.GetString("diagnostics"); err != nil {
		return nil, fmt.Errorf("failed to get diagnostics flag: %w", err)
	}
	switch s.diags {
	case "pretty", "json", "short":
	default:
		return nil, fmt.Errorf("unknown diagnostics format: %s (expected pretty|json|short)", s.diags)
	}

	pathFlag, err := flags.GetString("path-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	if s.paths, err = source.ParsePathMode(pathFlag); err != nil {
		return nil, err
	}

	colorFlag, err := flags.GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	if s.color, err = readSwitch("color", colorFlag, isTerminal(os.Stderr)); err != nil {
		return nil, err
	}
	return s, nil
}

// readSwitch resolves an auto|on|off flag. auto follows tty.
func readSwitch(flag, value string, tty bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return tty, nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
	}
}

func (s *settings) prettyOpts() diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:     s.color,
		Context:   2,
		PathMode:  s.paths,
		ShowNotes: true,
	}
}

// reportDiagnostics renders bag to w in the --diagnostics format. Nothing is
// written for an empty bag.
func (s *settings) reportDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	if bag.Len() == 0 {
		return nil
	}
	switch s.diags {
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true, PathMode: s.paths})
	case "short":
		// nothing positioned to print: fall back to pretty
		if text := diag.FormatShortDiagnostics(bag.Items(), fs, s.paths, true); text != "" {
			_, err := fmt.Fprintln(w, text)
			return err
		}
		fallthrough
	default:
		diagfmt.Pretty(w, bag, fs, s.prettyOpts())
		return nil
	}
}

// workDir is where the collaborator runs: the project root when there is
// a quoted.toml, the current directory otherwise.
func (s *settings) workDir() string {
	if s.manifest != nil {
		return s.manifest.Root
	}
	return ""
}
