package harness

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/roach88/pkgsnap/internal/build"
	"github.com/roach88/pkgsnap/internal/compiler"
	"github.com/roach88/pkgsnap/internal/project"
	"github.com/roach88/pkgsnap/internal/snapshot"
	"github.com/roach88/pkgsnap/internal/vfs"
)

// Simulated layout of every snapshot run.
const (
	Root = "/"
	Out  = "/out/lib/the_package"
	Lib  = "/out/lib"
)

// Config configures a Harness. Zero fields take defaults.
type Config struct {
	// Source is where fixtures are read from. Defaults to the real
	// filesystem, read-only.
	Source afero.Fs
	// Compiler defaults to the reference compiler.
	Compiler build.Compiler
	Logger   *slog.Logger
}

// Harness compiles fixture packages into snapshots.
type Harness struct {
	source   afero.Fs
	compiler build.Compiler
	logger   *slog.Logger
}

// New returns a harness for cfg.
func New(cfg Config) *Harness {
	h := &Harness{
		source:   cfg.Source,
		compiler: cfg.Compiler,
		logger:   cfg.Logger,
	}
	if h.logger == nil {
		h.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if h.source == nil {
		h.source = afero.NewReadOnlyFs(afero.NewOsFs())
	}
	if h.compiler == nil {
		h.compiler = compiler.New(h.logger)
	}
	return h
}

// Prepare compiles the fixture in dir with a default harness and renders
// the snapshot.
func Prepare(dir string) (string, error) {
	return New(Config{}).Prepare(dir)
}

// Prepare compiles the fixture in dir and renders the snapshot.
func (h *Harness) Prepare(dir string) (string, error) {
	outcome, err := h.Compile(dir)
	if err != nil {
		return "", err
	}
	return outcome.Render(), nil
}

// Compile compiles the fixture in dir.
//
// The returned error is non-nil only for setup faults. A failed compilation
// is reported as a failure outcome.
func (h *Harness) Compile(dir string) (snapshot.Outcome, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return snapshot.Outcome{}, fmt.Errorf("resolving fixture directory %s: %w", dir, err)
	}

	logger := h.logger.With("run_id", uuid.Must(uuid.NewV7()).String(), "fixture", abs)

	config, err := project.LoadConfig(h.source, abs)
	if err != nil {
		return snapshot.Outcome{}, fmt.Errorf("loading fixture %s: %w", abs, err)
	}
	sources, err := project.ReadPackageSources(h.source, abs)
	if err != nil {
		return snapshot.Outcome{}, fmt.Errorf("loading fixture %s: %w", abs, err)
	}

	target := build.ResolveTarget(config)
	fs := vfs.New()
	pkg := &build.Package{
		Config:  config,
		Mode:    build.ModeDev,
		Root:    Root,
		Out:     Out,
		Lib:     Lib,
		Target:  target,
		IDs:     build.NewUniqueIDGenerator(),
		FS:      fs,
		Journal: build.NewJournal(),
		Sources: sources,

		// Snapshots cover generated source only.
		WriteEntrypoint:     false,
		WriteMetadata:       false,
		CompileBeamBytecode: false,
		CopyNativeFiles:     false,
	}

	logger.Debug("compiling fixture",
		"package", config.Name,
		"target", target.Target(),
		"sources", len(sources),
	)

	result, err := h.compiler.Compile(pkg, build.NewModuleCache())
	if err != nil {
		logger.Debug("compilation failed", "error", err)
		return snapshot.Failure(err), nil
	}

	var warnings []build.Warning
	if result != nil {
		warnings = result.Warnings
	}

	files, err := fs.Contents()
	if err != nil {
		return snapshot.Outcome{}, fmt.Errorf("collecting output of %s: %w", abs, err)
	}

	logger.Debug("compilation succeeded",
		"files", len(files),
		"written", pkg.Journal.Len(),
		"warnings", len(warnings),
	)
	return snapshot.Success(files, warnings), nil
}
