package project

import (
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

// ManifestFile is the manifest name looked up in every package root.
const ManifestFile = "gleam.toml"

// DefaultVersion is used when the manifest declares no version.
const DefaultVersion = "1.0.0"

//go:embed manifest.cue
var manifestSchema string

// Target is the compilation target declared by a manifest.
type Target string

const (
	TargetErlang     Target = "erlang"
	TargetJavaScript Target = "javascript"
)

// UnmarshalText rejects any target the harness cannot resolve.
func (t *Target) UnmarshalText(text []byte) error {
	switch v := Target(text); v {
	case TargetErlang, TargetJavaScript:
		*t = v
		return nil
	default:
		return fmt.Errorf("unsupported target %q", string(text))
	}
}

// PackageConfig is the parsed package manifest. Read-only after parsing.
type PackageConfig struct {
	Name            string           `toml:"name"`
	Version         string           `toml:"version"`
	Description     string           `toml:"description"`
	Target          Target           `toml:"target"`
	Dependencies    map[string]any   `toml:"dependencies"`
	DevDependencies map[string]any   `toml:"dev-dependencies"`
	JavaScript      JavaScriptConfig `toml:"javascript"`
	Erlang          ErlangConfig     `toml:"erlang"`
}

// JavaScriptConfig holds javascript-target settings.
type JavaScriptConfig struct {
	TypeScriptDeclarations bool   `toml:"typescript_declarations"`
	Runtime                string `toml:"runtime"`
}

// ErlangConfig holds erlang-target settings.
type ErlangConfig struct {
	ApplicationStartModule string   `toml:"application_start_module"`
	ExtraApplications      []string `toml:"extra_applications"`
}

// DependencyNames returns the sorted names of the runtime dependencies.
func (c *PackageConfig) DependencyNames() []string {
	return sortedKeys(c.Dependencies)
}

// DevDependencyNames returns the sorted names of the dev dependencies.
func (c *PackageConfig) DevDependencyNames() []string {
	return sortedKeys(c.DevDependencies)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ManifestError describes a manifest that cannot be read or does not match
// the schema.
type ManifestError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

func (e *ManifestError) Error() string {
	path := e.Path
	if path == "" {
		path = ManifestFile
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", path, e.Message)
}

func (e *ManifestError) Unwrap() error { return e.Err }

// LoadConfig reads and parses dir/gleam.toml from fsys.
func LoadConfig(fsys afero.Fs, dir string) (*PackageConfig, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, &ManifestError{Path: path, Message: "cannot read manifest", Err: err}
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		var merr *ManifestError
		if errors.As(err, &merr) {
			merr.Path = path
		}
		return nil, err
	}
	return cfg, nil
}

// ParseConfig decodes manifest text, validates it against the manifest
// schema and fills in defaults.
func ParseConfig(data []byte) (*PackageConfig, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, tomlError(err)
	}

	if err := validateManifest(raw); err != nil {
		return nil, err
	}

	var cfg PackageConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, tomlError(err)
	}

	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	if cfg.Target == "" {
		cfg.Target = TargetErlang
	}
	return &cfg, nil
}

func validateManifest(raw map[string]any) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(manifestSchema, cue.Filename("manifest.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling manifest schema: %w", err)
	}

	v := schema.LookupPath(cue.ParsePath("#Manifest")).Unify(ctx.Encode(raw))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}
	return nil
}

// formatCUEError keeps the first CUE error, which is the one worth reading.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &ManifestError{Message: err.Error(), Err: err}
	}
	first := errs[0]
	format, args := first.Msg()
	msg := fmt.Sprintf(format, args...)
	if path := strings.Join(first.Path(), "."); path != "" {
		msg = path + ": " + msg
	}
	line := 0
	if pos := first.Position(); pos.IsValid() {
		line = pos.Line()
	}
	return &ManifestError{Line: line, Message: msg, Err: err}
}

func tomlError(err error) error {
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		line, _ := derr.Position()
		return &ManifestError{Line: line, Message: derr.Error(), Err: err}
	}
	return &ManifestError{Message: err.Error(), Err: err}
}
