package build

import (
	"errors"

	"github.com/roach88/pkgsnap/internal/project"
)

// Mode is the build mode.
type Mode int

const (
	ModeDev Mode = iota
	ModeProd
	ModeLsp
)

// String returns the mode as written on the command line: dev, prod or lsp.
func (m Mode) String() string {
	switch m {
	case ModeProd:
		return "prod"
	case ModeLsp:
		return "lsp"
	default:
		return "dev"
	}
}

// IncludesTests reports whether test sources are compiled in this mode.
func (m Mode) IncludesTests() bool { return m != ModeProd }

// FileWriter is where a compiler puts generated files.
type FileWriter interface {
	WriteText(path, text string) error
	WriteBinary(path string, data []byte) error
}

// Package is everything a compiler needs to build one package.
type Package struct {
	Config *project.PackageConfig
	Mode   Mode

	// Root, Out and Lib are simulated paths inside FS.
	Root string
	Out  string
	Lib  string

	Target  TargetCodegenConfiguration
	IDs     *UniqueIDGenerator
	FS      FileWriter
	Journal *Journal // optional

	// Sources holds src sources followed by test sources.
	Sources []project.Source

	WriteEntrypoint     bool
	WriteMetadata       bool
	CompileBeamBytecode bool
	CopyNativeFiles     bool
}

// Validate checks the fields every compiler relies on.
func (p *Package) Validate() error {
	switch {
	case p.Config == nil:
		return errors.New("package has no config")
	case p.Target == nil:
		return errors.New("package has no target configuration")
	case p.IDs == nil:
		return errors.New("package has no id generator")
	case p.FS == nil:
		return errors.New("package has no filesystem")
	case p.Out == "":
		return errors.New("package has no output directory")
	}
	return nil
}

// Module is a compiled module.
type Module struct {
	ID     uint64
	Name   string
	Origin project.Origin
	Path   string
	// Code is the source the module was compiled from.
	Code string
	// Exports maps public function names to their arity.
	Exports map[string]int
}

// ModuleCache holds modules compiled by earlier runs, keyed by name.
type ModuleCache struct {
	modules map[string]Module
}

// NewModuleCache returns an empty cache.
func NewModuleCache() *ModuleCache {
	return &ModuleCache{modules: make(map[string]Module)}
}

// Get returns the cached module called name.
func (c *ModuleCache) Get(name string) (Module, bool) {
	m, ok := c.modules[name]
	return m, ok
}

// Put stores m, replacing any module with the same name.
func (c *ModuleCache) Put(m Module) {
	c.modules[m.Name] = m
}

// Len returns the number of cached modules.
func (c *ModuleCache) Len() int { return len(c.modules) }

// Result is a successful compilation.
type Result struct {
	Modules  []Module
	Warnings []Warning
}

// Compiler compiles one package.
type Compiler interface {
	Compile(pkg *Package, cache *ModuleCache) (*Result, error)
}

// CompilerFunc adapts a function to Compiler.
type CompilerFunc func(pkg *Package, cache *ModuleCache) (*Result, error)

func (f CompilerFunc) Compile(pkg *Package, cache *ModuleCache) (*Result, error) {
	return f(pkg, cache)
}

// PrettyError is a compilation error with its own human presentation.
type PrettyError interface {
	error
	PrettyString() string
}

// PrettyString renders err with its own presentation when it has one.
func PrettyString(err error) string {
	var pretty PrettyError
	if errors.As(err, &pretty) {
		return pretty.PrettyString()
	}
	return err.Error()
}
