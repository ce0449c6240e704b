package compiler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pkgsnap/internal/build"
	"github.com/roach88/pkgsnap/internal/project"
	"github.com/roach88/pkgsnap/internal/vfs"
)

func src(name, code string) project.Source {
	return project.Source{Code: code, Origin: project.OriginSrc, Path: "src/" + name + ".gleam", Name: name}
}

func testSrc(name, code string) project.Source {
	return project.Source{Code: code, Origin: project.OriginTest, Path: "test/" + name + ".gleam", Name: name}
}

func newPackage(target build.TargetCodegenConfiguration, sources ...project.Source) (*build.Package, *vfs.FileSystem) {
	fs := vfs.New()
	return &build.Package{
		Config:  &project.PackageConfig{Name: "the_package", Version: "1.0.0", Target: target.Target()},
		Mode:    build.ModeDev,
		Root:    "/",
		Out:     "/out/lib/the_package",
		Lib:     "/out/lib",
		Target:  target,
		IDs:     build.NewUniqueIDGenerator(),
		FS:      fs,
		Journal: build.NewJournal(),
		Sources: sources,
	}, fs
}

func erlang() build.TargetCodegenConfiguration {
	return build.ErlangCodegen{AppFile: &build.ErlangAppCodegenConfiguration{IncludeDevDeps: true}}
}

func contents(t *testing.T, fs *vfs.FileSystem) map[string]string {
	t.Helper()
	files, err := fs.Contents()
	require.NoError(t, err)
	out := make(map[string]string, len(files))
	for p, c := range files {
		out[p] = c.Text()
	}
	return out
}

func compileErr(t *testing.T, pkg *build.Package) *Error {
	t.Helper()
	_, err := New(nil).Compile(pkg, build.NewModuleCache())
	require.Error(t, err)
	var cerr *Error
	require.True(t, errors.As(err, &cerr), "got %T: %v", err, err)
	return cerr
}

func TestCompileErlangModule(t *testing.T) {
	pkg, fs := newPackage(erlang(), src("wibble", "pub fn add(x, y) {\n  x + y\n}\n\nfn helper() {\n  Nil\n}\n"))

	res, err := New(nil).Compile(pkg, build.NewModuleCache())
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	require.Len(t, res.Modules, 1)
	assert.Equal(t, map[string]int{"add": 2}, res.Modules[0].Exports)

	files := contents(t, fs)
	assert.Equal(t, map[string]string{
		"/out/lib/the_package/_gleam_artefacts/wibble.erl": "-module(wibble).\n" +
			"-compile([no_auto_import, nowarn_unused_vars]).\n" +
			"\n" +
			"-export([add/2]).\n" +
			"\n" +
			"add(X, Y) ->\n" +
			"    nil.\n" +
			"\n" +
			"helper() ->\n" +
			"    nil.\n",
		"/out/lib/the_package/ebin/the_package.app": "{application, the_package, [\n" +
			"    {vsn, \"1.0.0\"},\n" +
			"    {applications, []},\n" +
			"    {description, \"\"},\n" +
			"    {modules, [wibble]},\n" +
			"    {registered, []}\n" +
			"]}.\n",
	}, files)

	assert.Equal(t, []string{
		"/out/lib/the_package/_gleam_artefacts/wibble.erl",
		"/out/lib/the_package/ebin/the_package.app",
	}, pkg.Journal.Paths())
}

func TestCompileErlangAppFileApplications(t *testing.T) {
	pkg, fs := newPackage(erlang(), src("app/main", "pub fn main() {}\n"))
	pkg.Config.Description = `The "best" app`
	pkg.Config.Dependencies = map[string]any{"gleam_stdlib": "~> 0.30"}
	pkg.Config.DevDependencies = map[string]any{"gleeunit": "~> 1.0"}
	pkg.Config.Erlang = project.ErlangConfig{
		ApplicationStartModule: "app/main",
		ExtraApplications:      []string{"ssl", "gleam_stdlib"},
	}

	_, err := New(nil).Compile(pkg, build.NewModuleCache())
	require.NoError(t, err)

	app := contents(t, fs)["/out/lib/the_package/ebin/the_package.app"]
	assert.Contains(t, app, "{applications, [gleam_stdlib, gleeunit, ssl]}")
	assert.Contains(t, app, `{description, "The \"best\" app"}`)
	assert.Contains(t, app, "{mod, {app@main, []}}")
	assert.Contains(t, app, "{modules, [app@main]}")
}

func TestCompileErlangAppFileWithoutDevDeps(t *testing.T) {
	target := build.ErlangCodegen{AppFile: &build.ErlangAppCodegenConfiguration{IncludeDevDeps: false}}
	pkg, fs := newPackage(target, src("wibble", "pub fn main() {}\n"))
	pkg.Config.DevDependencies = map[string]any{"gleeunit": "~> 1.0"}

	_, err := New(nil).Compile(pkg, build.NewModuleCache())
	require.NoError(t, err)
	assert.Contains(t, contents(t, fs)["/out/lib/the_package/ebin/the_package.app"], "{applications, []}")
}

func TestCompileErlangWithoutAppFile(t *testing.T) {
	pkg, fs := newPackage(build.ErlangCodegen{}, src("wibble", "pub fn main() {}\n"))

	_, err := New(nil).Compile(pkg, build.NewModuleCache())
	require.NoError(t, err)
	assert.False(t, fs.Exists("/out/lib/the_package/ebin/the_package.app"))
}

func TestCompileJavaScript(t *testing.T) {
	pkg, fs := newPackage(build.JavaScriptCodegen{EmitTypeScriptDefinitions: true},
		src("wibble", "import nested/wobble\n\npub fn main() {\n  wobble.go(1)\n}\n"),
		src("nested/wobble", "pub fn go(x) {\n  x\n}\n\nfn helper() {\n  Nil\n}\n"),
	)

	_, err := New(nil).Compile(pkg, build.NewModuleCache())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"/out/lib/the_package/gleam.mjs":          javascriptPrelude,
		"/out/lib/the_package/gleam.d.ts":         typescriptPrelude,
		"/out/lib/the_package/wibble.mjs":         "import * as $wobble from \"./nested/wobble.mjs\";\n\nexport function main() {}\n",
		"/out/lib/the_package/wibble.d.ts":        "export function main(): any;\n",
		"/out/lib/the_package/nested/wobble.mjs":  "export function go(x) {}\n\nfunction helper() {}\n",
		"/out/lib/the_package/nested/wobble.d.ts": "export function go(x: any): any;\n",
	}, contents(t, fs))
}

func TestCompileJavaScriptWithoutDeclarations(t *testing.T) {
	pkg, fs := newPackage(build.JavaScriptCodegen{}, src("wibble", "pub fn main() {}\n"))

	_, err := New(nil).Compile(pkg, build.NewModuleCache())
	require.NoError(t, err)

	files := contents(t, fs)
	assert.Len(t, files, 2)
	assert.Contains(t, files, "/out/lib/the_package/gleam.mjs")
	assert.Contains(t, files, "/out/lib/the_package/wibble.mjs")
}

func TestRelativeImport(t *testing.T) {
	assert.Equal(t, "./a/b.mjs", relativeImport("main", "a/b"))
	assert.Equal(t, "../../x.mjs", relativeImport("one/two/three", "x"))
}

func TestCompileUnknownImport(t *testing.T) {
	pkg, _ := newPackage(erlang(), src("wibble", "import gleam/io\n\npub fn main() {}\n"))

	cerr := compileErr(t, pkg)
	assert.Equal(t, ErrUnknownImport, cerr.Kind)
	assert.Equal(t, "gleam/io", cerr.Imported)
	assert.Equal(t, "/src/wibble.gleam", cerr.Path)
	assert.Equal(t, 1, cerr.Line)
}

func TestCompileSrcImportingTest(t *testing.T) {
	pkg, _ := newPackage(erlang(),
		src("wibble", "import helpers\n\npub fn main() {\n  helpers.go()\n}\n"),
		testSrc("helpers", "pub fn go() {}\n"),
	)

	cerr := compileErr(t, pkg)
	assert.Equal(t, ErrSrcImportingTest, cerr.Kind)
	assert.Equal(t, "helpers", cerr.Imported)
}

func TestCompileImportCycle(t *testing.T) {
	pkg, _ := newPackage(erlang(),
		src("b", "import a\n\npub fn b() {\n  a.a()\n}\n"),
		src("a", "import b\n\npub fn a() {\n  b.b()\n}\n"),
	)

	cerr := compileErr(t, pkg)
	assert.Equal(t, ErrImportCycle, cerr.Kind)
	assert.Equal(t, []string{"a", "b", "a"}, cerr.Cycle)
	assert.Equal(t, "error: Import cycle\n\nThe import statements for these modules form a cycle:\n\n    a -> b -> a\n", cerr.PrettyString())
}

func TestCompileSelfImport(t *testing.T) {
	pkg, _ := newPackage(erlang(), src("a", "import a\n\npub fn a() {\n  a.a()\n}\n"))

	cerr := compileErr(t, pkg)
	assert.Equal(t, []string{"a", "a"}, cerr.Cycle)
}

func TestCompileUnknownModuleValue(t *testing.T) {
	pkg, _ := newPackage(erlang(),
		src("wibble", "import wobble\n\npub fn main() {\n  wobble.missing()\n}\n"),
		src("wobble", "pub fn go() {}\n\nfn private() {}\n"),
	)

	cerr := compileErr(t, pkg)
	assert.Equal(t, ErrUnknownModuleValue, cerr.Kind)
	assert.Equal(t, "missing", cerr.Name)
	assert.Equal(t, 4, cerr.Line)
	assert.Equal(t,
		"error: Unknown module value\n  ┌─ /src/wibble.gleam:4\n\nThe module `wobble` does not have a public value named `missing`.\n",
		cerr.PrettyString())
	assert.Equal(t, "/src/wibble.gleam:4: The module `wobble` does not have a public value named `missing`.", cerr.Error())
}

func TestCompilePrivateValueIsUnknown(t *testing.T) {
	pkg, _ := newPackage(erlang(),
		src("wibble", "import wobble\n\npub fn main() {\n  wobble.private()\n}\n"),
		src("wobble", "fn private() {}\n"),
	)

	assert.Equal(t, ErrUnknownModuleValue, compileErr(t, pkg).Kind)
}

func TestCompileWarnings(t *testing.T) {
	pkg, _ := newPackage(erlang(),
		src("wibble", "import wobble\nimport other as o\n\npub fn main() {\n  todo\n}\n"),
		src("wobble", "pub fn go() {}\n"),
		src("other", "pub fn go() {}\n"),
	)

	res, err := New(nil).Compile(pkg, build.NewModuleCache())
	require.NoError(t, err)
	require.Len(t, res.Warnings, 3)

	assert.Equal(t, build.WarningUnusedImport, res.Warnings[0].Kind)
	assert.Equal(t, 1, res.Warnings[0].Line)
	assert.Equal(t, build.WarningUnusedImport, res.Warnings[1].Kind)
	assert.Equal(t, "Imported module `other` is never used", res.Warnings[1].Message)
	assert.Equal(t, build.WarningTodo, res.Warnings[2].Kind)
	assert.Equal(t, 5, res.Warnings[2].Line)
	assert.Equal(t, "/src/wibble.gleam", res.Warnings[2].Path)
}

func TestCompileOrderFollowsImports(t *testing.T) {
	pkg, _ := newPackage(erlang(),
		src("a", "import c\n\npub fn a() {\n  c.c()\n}\n"),
		src("b", "pub fn b() {}\n"),
		src("c", "import b\n\npub fn c() {\n  b.b()\n}\n"),
	)

	res, err := New(nil).Compile(pkg, build.NewModuleCache())
	require.NoError(t, err)

	var names []string
	var ids []uint64
	for _, m := range res.Modules {
		names = append(names, m.Name)
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"b", "c", "a"}, names)
	assert.Equal(t, []uint64{0, 1, 2}, ids)
}

func TestCompileProdModeSkipsTests(t *testing.T) {
	pkg, fs := newPackage(erlang(),
		src("wibble", "pub fn main() {}\n"),
		testSrc("wibble_test", "import wibble\n\npub fn main_test() {\n  wibble.main()\n}\n"),
	)
	pkg.Mode = build.ModeProd

	res, err := New(nil).Compile(pkg, build.NewModuleCache())
	require.NoError(t, err)
	assert.Len(t, res.Modules, 1)
	assert.False(t, fs.Exists("/out/lib/the_package/_gleam_artefacts/wibble_test.erl"))
}

func TestCompileReusesCachedModules(t *testing.T) {
	wibble := src("wibble", "pub fn main() {}\n")
	cache := build.NewModuleCache()
	cache.Put(build.Module{ID: 41, Name: "wibble", Code: wibble.Code})

	pkg, fs := newPackage(erlang(), wibble, src("wobble", "pub fn go() {}\n"))
	res, err := New(nil).Compile(pkg, cache)
	require.NoError(t, err)

	assert.Equal(t, uint64(41), res.Modules[0].ID)
	assert.Equal(t, uint64(0), res.Modules[1].ID)
	assert.False(t, fs.Exists("/out/lib/the_package/_gleam_artefacts/wibble.erl"))
	assert.True(t, fs.Exists("/out/lib/the_package/_gleam_artefacts/wobble.erl"))
	assert.Equal(t, 2, cache.Len())
}

func TestCompileStaleCacheEntryIsRecompiled(t *testing.T) {
	cache := build.NewModuleCache()
	cache.Put(build.Module{ID: 41, Name: "wibble", Code: "old"})

	pkg, fs := newPackage(erlang(), src("wibble", "pub fn main() {}\n"))
	res, err := New(nil).Compile(pkg, cache)
	require.NoError(t, err)

	assert.Equal(t, uint64(0), res.Modules[0].ID)
	assert.True(t, fs.Exists("/out/lib/the_package/_gleam_artefacts/wibble.erl"))
}

func TestCompileMetadataAndEntrypoint(t *testing.T) {
	pkg, fs := newPackage(erlang(), src("the_package", "pub fn main() {}\n"))
	pkg.WriteMetadata = true
	pkg.WriteEntrypoint = true

	_, err := New(nil).Compile(pkg, build.NewModuleCache())
	require.NoError(t, err)

	meta, err := fs.ReadFile("/out/lib/the_package/_gleam_artefacts/the_package.cache_meta")
	require.NoError(t, err)
	assert.True(t, meta.IsBinary())
	assert.Equal(t, append([]byte{'G', 'M', 1, 0, 0, 0, 0, 0, 0, 0, 0}, "the_package"...), meta.Bytes())

	entry, err := fs.ReadFile("/out/lib/the_package/_gleam_artefacts/gleam@@main.erl")
	require.NoError(t, err)
	assert.Contains(t, entry.Text(), "the_package:main()")
}

func TestCompileUnsupportedOptions(t *testing.T) {
	pkg, _ := newPackage(erlang(), src("wibble", "pub fn main() {}\n"))
	pkg.CompileBeamBytecode = true
	assert.Equal(t, ErrUnsupported, compileErr(t, pkg).Kind)

	pkg, _ = newPackage(build.JavaScriptCodegen{}, src("wibble", "pub fn main() {}\n"))
	pkg.CopyNativeFiles = true
	assert.Equal(t, ErrUnsupported, compileErr(t, pkg).Kind)
}

func TestCompileInvalidPackage(t *testing.T) {
	_, err := New(nil).Compile(&build.Package{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid package")
}

type failingWriter struct{}

func (failingWriter) WriteText(string, string) error   { return errors.New("disk full") }
func (failingWriter) WriteBinary(string, []byte) error { return errors.New("disk full") }

func TestCompileWriteFailure(t *testing.T) {
	pkg, _ := newPackage(erlang(), src("wibble", "pub fn main() {}\n"))
	pkg.FS = failingWriter{}

	cerr := compileErr(t, pkg)
	assert.Equal(t, ErrFileIO, cerr.Kind)
	assert.Contains(t, cerr.PrettyString(), "disk full")
}

func TestCompileIsDeterministic(t *testing.T) {
	sources := []project.Source{
		src("wibble", "import wobble\n\npub fn main() {\n  wobble.go()\n}\n"),
		src("wobble", "pub fn go() {}\n"),
	}

	pkgA, fsA := newPackage(erlang(), sources...)
	pkgB, fsB := newPackage(erlang(), sources...)
	_, err := New(nil).Compile(pkgA, build.NewModuleCache())
	require.NoError(t, err)
	_, err = New(nil).Compile(pkgB, build.NewModuleCache())
	require.NoError(t, err)

	assert.Equal(t, contents(t, fsA), contents(t, fsB))
}

func TestCompileDuplicateModule(t *testing.T) {
	pkg, fs := newPackage(erlang(),
		src("wibble", "pub fn from_src() {}\n"),
		testSrc("wibble", "pub fn from_test() {}\n"),
	)

	cerr := compileErr(t, pkg)
	assert.Equal(t, ErrDuplicateModule, cerr.Kind)
	assert.Equal(t, "wibble", cerr.Module)
	assert.Equal(t, "/src/wibble.gleam", cerr.FirstPath)
	assert.Equal(t, "/test/wibble.gleam", cerr.Path)
	assert.Equal(t,
		"error: Duplicate module\n  ┌─ /test/wibble.gleam\n\n"+
			"The module `wibble` is defined multiple times.\n\n"+
			"First:  /src/wibble.gleam\n"+
			"Second: /test/wibble.gleam\n",
		cerr.PrettyString())

	files, err := fs.Contents()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestCompileDuplicateModuleIgnoredInProd(t *testing.T) {
	pkg, _ := newPackage(erlang(),
		src("wibble", "pub fn from_src() {}\n"),
		testSrc("wibble", "pub fn from_test() {}\n"),
	)
	pkg.Mode = build.ModeProd

	res, err := New(nil).Compile(pkg, build.NewModuleCache())
	require.NoError(t, err)
	require.Len(t, res.Modules, 1)
	assert.Equal(t, map[string]int{"from_src": 0}, res.Modules[0].Exports)
}

func TestCompileUnknownModule(t *testing.T) {
	pkg, _ := newPackage(erlang(), src("wibble", "pub fn main() {\n  wobble.missing()\n}\n"))

	cerr := compileErr(t, pkg)
	assert.Equal(t, ErrUnknownModule, cerr.Kind)
	assert.Equal(t, "wobble", cerr.Imported)
	assert.Equal(t, 2, cerr.Line)
	assert.Equal(t,
		"error: Unknown module\n  ┌─ /src/wibble.gleam:2\n\nNo module has been found with the name `wobble`.\n",
		cerr.PrettyString())
}

func TestCompileLocalQualifiedCalls(t *testing.T) {
	pkg, _ := newPackage(erlang(), src("wibble",
		"pub fn main(person) {\n"+
			"  let pet = person.pet\n"+
			"  pet.speak()\n"+
			"  person.name()\n"+
			"  person.pet.name()\n"+
			"}\n"))

	res, err := New(nil).Compile(pkg, build.NewModuleCache())
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
}

func TestCompileImportUsedWithoutCall(t *testing.T) {
	pkg, _ := newPackage(erlang(),
		src("wibble", "import wobble\nimport other\n\npub fn main() {\n  wobble.Thing\n  other.value\n}\n"),
		src("wobble", "pub fn go() {}\n"),
		src("other", "pub fn go() {}\n"),
	)

	res, err := New(nil).Compile(pkg, build.NewModuleCache())
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
}
