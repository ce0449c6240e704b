package compiler

import (
	"fmt"
	"io"
	"log/slog"
	"path"
	"sort"

	"github.com/roach88/pkgsnap/internal/build"
	"github.com/roach88/pkgsnap/internal/project"
)

// Compiler implements build.Compiler.
type Compiler struct {
	logger *slog.Logger
}

var _ build.Compiler = (*Compiler)(nil)

// New returns a compiler. A nil logger discards output.
func New(logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Compiler{logger: logger}
}

// Compile checks and generates every module of pkg.
//
// Modules found in cache with unchanged code keep their id and are not
// written again. Every module compiled in this call is added to cache.
func (c *Compiler) Compile(pkg *build.Package, cache *build.ModuleCache) (*build.Result, error) {
	if err := pkg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid package: %w", err)
	}
	if cache == nil {
		cache = build.NewModuleCache()
	}
	if err := checkOptions(pkg); err != nil {
		return nil, err
	}

	modules := make(map[string]*module)
	var ordered []*module
	for _, src := range pkg.Sources {
		if src.Origin == project.OriginTest && !pkg.Mode.IncludesTests() {
			continue
		}
		m := parseModule(src)
		if prev, ok := modules[src.Name]; ok {
			return nil, &Error{
				Kind:      ErrDuplicateModule,
				Module:    src.Name,
				Path:      sourcePath(pkg, m),
				FirstPath: sourcePath(pkg, prev),
			}
		}
		modules[src.Name] = m
		ordered = append(ordered, m)
	}

	if err := checkImports(pkg, ordered, modules); err != nil {
		return nil, err
	}

	graph := buildImportGraph(modules)
	if cycle := graph.findCycle(); cycle != nil {
		return nil, &Error{Kind: ErrImportCycle, Cycle: cycle}
	}

	g := newGenerator(pkg)
	result := &build.Result{}
	for _, name := range graph.compileOrder() {
		m := modules[name]
		if err := checkReferences(pkg, m, modules); err != nil {
			return nil, err
		}
		result.Warnings = append(result.Warnings, moduleWarnings(pkg, m)...)

		compiled, fresh := c.compiled(pkg, cache, m)
		if fresh {
			if err := g.module(m, compiled.ID); err != nil {
				return nil, err
			}
		}
		cache.Put(compiled)
		result.Modules = append(result.Modules, compiled)

		c.logger.Debug("compiled module",
			"module", name,
			"id", compiled.ID,
			"cached", !fresh,
		)
	}

	if err := g.packageFiles(result.Modules); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Compiler) compiled(pkg *build.Package, cache *build.ModuleCache, m *module) (build.Module, bool) {
	if cached, ok := cache.Get(m.name()); ok && cached.Code == m.source.Code {
		return cached, false
	}
	return build.Module{
		ID:      pkg.IDs.Next(),
		Name:    m.name(),
		Origin:  m.source.Origin,
		Path:    m.source.Path,
		Code:    m.source.Code,
		Exports: m.exports(),
	}, true
}

func checkOptions(pkg *build.Package) error {
	if pkg.CompileBeamBytecode && pkg.Target.Target() == project.TargetErlang {
		return &Error{Kind: ErrUnsupported, Detail: "compiling erlang bytecode requires erlc, which this compiler does not run"}
	}
	if pkg.CopyNativeFiles {
		return &Error{Kind: ErrUnsupported, Detail: "copying native files needs the package directory on disk, which this compiler does not read"}
	}
	return nil
}

func checkImports(pkg *build.Package, ordered []*module, modules map[string]*module) error {
	for _, m := range ordered {
		for _, imp := range m.imports {
			target, ok := modules[imp.module]
			if !ok {
				return &Error{
					Kind:     ErrUnknownImport,
					Module:   m.name(),
					Path:     sourcePath(pkg, m),
					Line:     imp.line,
					Imported: imp.module,
				}
			}
			if m.source.Origin == project.OriginSrc && target.source.Origin == project.OriginTest {
				return &Error{
					Kind:     ErrSrcImportingTest,
					Module:   m.name(),
					Path:     sourcePath(pkg, m),
					Line:     imp.line,
					Imported: imp.module,
				}
			}
		}
	}
	return nil
}

func checkReferences(pkg *build.Package, m *module, modules map[string]*module) error {
	aliases := importAliases(m)
	for _, ref := range m.refs {
		imported, ok := aliases[ref.alias]
		if !ok {
			if m.locals[ref.alias] {
				continue
			}
			return &Error{
				Kind:     ErrUnknownModule,
				Module:   m.name(),
				Path:     sourcePath(pkg, m),
				Line:     ref.line,
				Imported: ref.alias,
			}
		}
		if _, ok := modules[imported].publicFunction(ref.name); !ok {
			return &Error{
				Kind:     ErrUnknownModuleValue,
				Module:   m.name(),
				Path:     sourcePath(pkg, m),
				Line:     ref.line,
				Imported: imported,
				Name:     ref.name,
			}
		}
	}
	return nil
}

func moduleWarnings(pkg *build.Package, m *module) []build.Warning {
	var warnings []build.Warning
	for _, imp := range m.imports {
		if m.qualified[imp.alias] {
			continue
		}
		warnings = append(warnings, build.Warning{
			Kind:    build.WarningUnusedImport,
			Module:  m.name(),
			Path:    sourcePath(pkg, m),
			Line:    imp.line,
			Message: fmt.Sprintf("Imported module `%s` is never used", imp.module),
		})
	}
	for _, line := range m.todos {
		warnings = append(warnings, build.Warning{
			Kind:    build.WarningTodo,
			Module:  m.name(),
			Path:    sourcePath(pkg, m),
			Line:    line,
			Message: "This code is incomplete and will crash if it is run",
		})
	}
	sort.SliceStable(warnings, func(i, j int) bool { return warnings[i].Line < warnings[j].Line })
	return warnings
}

// importAliases maps each alias in scope to the module it names. A later
// import with the same alias shadows an earlier one.
func importAliases(m *module) map[string]string {
	aliases := make(map[string]string, len(m.imports))
	for _, imp := range m.imports {
		aliases[imp.alias] = imp.module
	}
	return aliases
}

func sourcePath(pkg *build.Package, m *module) string {
	root := pkg.Root
	if root == "" {
		root = "/"
	}
	return path.Join(root, m.source.Path)
}
