package project

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"quoted/internal/quoter"
)

// Config mirrors quoted.toml. Every section is optional; Default fills the gaps.
type Config struct {
	Quoter QuoterConfig `toml:"quoter"`
	Parse  ParseConfig  `toml:"parse"`
	Cache  CacheConfig  `toml:"cache"`
}

type QuoterConfig struct {
	Command      string   `toml:"command"`
	Script       string   `toml:"script"`
	StringScript string   `toml:"string_script"`
	Args         []string `toml:"args"`
}

type ParseConfig struct {
	Strict         bool `toml:"strict"`
	StopOnError    bool `toml:"stop_on_error"`
	MaxDiagnostics int  `toml:"max_diagnostics"`
	Jobs           int  `toml:"jobs"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"` // empty means $XDG_CACHE_HOME/quoted
}

// Manifest is a loaded quoted.toml with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Default returns the configuration used when no quoted.toml exists.
func Default() Config {
	return Config{
		Quoter: QuoterConfig{
			Command:      quoter.DefaultCommand,
			Script:       quoter.DefaultScript,
			StringScript: quoter.DefaultStringScript,
			Args:         []string{},
		},
		Parse: ParseConfig{
			StopOnError:    true,
			MaxDiagnostics: 100,
		},
	}
}

// Load discovers quoted.toml from startDir upwards and decodes it over
// Default. ok is false when there is no file.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := LoadFile(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// LoadFile decodes the config at path over Default.
func LoadFile(path string) (*Manifest, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("quoter", "command") && strings.TrimSpace(cfg.Quoter.Command) == "" {
		return nil, fmt.Errorf("%s: [quoter].command is empty", path)
	}
	if cfg.Parse.MaxDiagnostics < 0 || cfg.Parse.Jobs < 0 {
		return nil, fmt.Errorf("%s: [parse] limits must not be negative", path)
	}
	root := filepath.Dir(path)
	// a script next to the config wins over one in the working dir
	for _, s := range []*string{&cfg.Quoter.Script, &cfg.Quoter.StringScript} {
		if *s != "" && !filepath.IsAbs(*s) && fileExists(filepath.Join(root, *s)) {
			*s = filepath.Join(root, *s)
		}
	}
	if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(root, cfg.Cache.Dir)
	}
	return &Manifest{Path: path, Root: root, Config: cfg}, nil
}

// QuoterConfig converts the [quoter] section for package quoter.
func (c Config) QuoterConfig(dir string) quoter.Config {
	return quoter.Config{
		Command:      c.Quoter.Command,
		Script:       c.Quoter.Script,
		StringScript: c.Quoter.StringScript,
		Args:         append([]string(nil), c.Quoter.Args...),
		Dir:          dir,
	}
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# quoted configuration; every key is optional\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ErrConfigExists is returned by WriteDefault when the file is already there.
var ErrConfigExists = errors.New(ConfigFileName + " already exists")

// WriteDefault writes Default() to dir/quoted.toml unless force is false
// and the file exists.
func WriteDefault(dir string, force bool) (string, error) {
	path := filepath.Join(dir, ConfigFileName)
	if !force && fileExists(path) {
		return path, ErrConfigExists
	}
	data, err := Encode(Default())
	if err != nil {
		return path, err
	}
	return path, os.WriteFile(path, data, 0o644)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ConfigFileName is looked up in the working directory and its parents.
const ConfigFileName = "quoted.toml"

// FindConfig returns the nearest quoted.toml at or above startDir.
func FindConfig(startDir string) (path string, ok bool, err error) {
	dir, err := filepath.Abs(cmp.Or(startDir, "."))
	if err != nil {
		return "", false, fmt.Errorf("resolve %q: %w", startDir, err)
	}
	for ; ; dir = filepath.Dir(dir) {
		path = filepath.Join(dir, ConfigFileName)
		switch _, err := os.Stat(path); {
		case err == nil:
			return path, true, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf("stat %s: %w", path, err)
		}
		if filepath.Dir(dir) == dir {
			return "", false, nil
		}
	}
}
