package compiler

import (
	"encoding/binary"
	"fmt"
	"path"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/roach88/pkgsnap/internal/build"
)

const (
	artefactsDir = "_gleam_artefacts"

	javascriptPrelude = "export * from \"../prelude.mjs\";\n"
	typescriptPrelude = "export * from \"../prelude.d.mts\";\n"
)

// metadataMagic starts every binary metadata file.
var metadataMagic = []byte{'G', 'M', 1}

// generator writes one package's output for its target.
type generator struct {
	pkg *build.Package
}

func newGenerator(pkg *build.Package) *generator {
	return &generator{pkg: pkg}
}

func (g *generator) module(m *module, id uint64) error {
	switch target := g.pkg.Target.(type) {
	case build.JavaScriptCodegen:
		file := path.Join(g.pkg.Out, m.name()+".mjs")
		if err := g.writeText(file, javascriptModule(m)); err != nil {
			return err
		}
		if target.EmitTypeScriptDefinitions {
			file := path.Join(g.pkg.Out, m.name()+".d.ts")
			if err := g.writeText(file, typescriptDeclarations(m)); err != nil {
				return err
			}
		}
	default:
		file := path.Join(g.pkg.Out, artefactsDir, erlangModuleName(m.name())+".erl")
		if err := g.writeText(file, erlangModule(m)); err != nil {
			return err
		}
	}

	if g.pkg.WriteMetadata {
		file := path.Join(g.pkg.Out, artefactsDir, erlangModuleName(m.name())+".cache_meta")
		if err := g.writeBinary(file, moduleMetadata(m, id)); err != nil {
			return err
		}
	}
	return nil
}

// packageFiles writes the files that belong to the package as a whole.
func (g *generator) packageFiles(modules []build.Module) error {
	switch target := g.pkg.Target.(type) {
	case build.JavaScriptCodegen:
		if err := g.writeText(path.Join(g.pkg.Out, "gleam.mjs"), javascriptPrelude); err != nil {
			return err
		}
		if target.EmitTypeScriptDefinitions {
			if err := g.writeText(path.Join(g.pkg.Out, "gleam.d.ts"), typescriptPrelude); err != nil {
				return err
			}
		}
		if g.pkg.WriteEntrypoint {
			entry := fmt.Sprintf("import { main } from \"./%s.mjs\";\nmain();\n", g.pkg.Config.Name)
			if err := g.writeText(path.Join(g.pkg.Out, "gleam_main.mjs"), entry); err != nil {
				return err
			}
		}
	case build.ErlangCodegen:
		if target.AppFile != nil {
			file := path.Join(g.pkg.Out, "ebin", g.pkg.Config.Name+".app")
			if err := g.writeText(file, erlangAppFile(g.pkg, target.AppFile, modules)); err != nil {
				return err
			}
		}
		if g.pkg.WriteEntrypoint {
			entry := fmt.Sprintf("-module('gleam@@main').\n-export([main/1]).\n\nmain(_) ->\n    %s:main().\n", erlangModuleName(g.pkg.Config.Name))
			if err := g.writeText(path.Join(g.pkg.Out, artefactsDir, "gleam@@main.erl"), entry); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *generator) writeText(file, text string) error {
	if err := g.pkg.FS.WriteText(file, text); err != nil {
		return &Error{Kind: ErrFileIO, Detail: "writing " + file, Err: err}
	}
	g.pkg.Journal.Record(file)
	return nil
}

func (g *generator) writeBinary(file string, data []byte) error {
	if err := g.pkg.FS.WriteBinary(file, data); err != nil {
		return &Error{Kind: ErrFileIO, Detail: "writing " + file, Err: err}
	}
	g.pkg.Journal.Record(file)
	return nil
}

func javascriptModule(m *module) string {
	var b strings.Builder
	for _, imp := range m.imports {
		fmt.Fprintf(&b, "import * as $%s from %q;\n", imp.alias, relativeImport(m.name(), imp.module))
	}
	if len(m.imports) > 0 {
		b.WriteString("\n")
	}
	for i, fn := range m.functions {
		if i > 0 {
			b.WriteString("\n")
		}
		export := ""
		if fn.public {
			export = "export "
		}
		fmt.Fprintf(&b, "%sfunction %s(%s) {}\n", export, fn.name, strings.Join(fn.params, ", "))
	}
	return b.String()
}

func typescriptDeclarations(m *module) string {
	var b strings.Builder
	for _, fn := range m.functions {
		if !fn.public {
			continue
		}
		params := make([]string, len(fn.params))
		for i, p := range fn.params {
			params[i] = p + ": any"
		}
		fmt.Fprintf(&b, "export function %s(%s): any;\n", fn.name, strings.Join(params, ", "))
	}
	return b.String()
}

// relativeImport returns the path of module to as imported from module from.
func relativeImport(from, to string) string {
	depth := strings.Count(from, "/")
	if depth == 0 {
		return "./" + to + ".mjs"
	}
	return strings.Repeat("../", depth) + to + ".mjs"
}

func erlangModule(m *module) string {
	var b strings.Builder
	fmt.Fprintf(&b, "-module(%s).\n", erlangModuleName(m.name()))
	b.WriteString("-compile([no_auto_import, nowarn_unused_vars]).\n")

	var exports []string
	for _, fn := range m.functions {
		if fn.public {
			exports = append(exports, fmt.Sprintf("%s/%d", fn.name, len(fn.params)))
		}
	}
	if len(exports) > 0 {
		fmt.Fprintf(&b, "\n-export([%s]).\n", strings.Join(exports, ", "))
	}

	for _, fn := range m.functions {
		vars := make([]string, len(fn.params))
		for i, p := range fn.params {
			vars[i] = erlangVariable(p)
		}
		fmt.Fprintf(&b, "\n%s(%s) ->\n    nil.\n", fn.name, strings.Join(vars, ", "))
	}
	return b.String()
}

func erlangAppFile(pkg *build.Package, app *build.ErlangAppCodegenConfiguration, modules []build.Module) string {
	cfg := pkg.Config

	apps := append([]string{}, cfg.DependencyNames()...)
	if app.IncludeDevDeps {
		apps = append(apps, cfg.DevDependencyNames()...)
	}
	apps = append(apps, cfg.Erlang.ExtraApplications...)
	apps = sortedUnique(apps)

	names := make([]string, len(modules))
	for i, m := range modules {
		names[i] = erlangModuleName(m.Name)
	}
	sort.Strings(names)

	entries := []string{
		fmt.Sprintf("{vsn, %s}", erlangString(cfg.Version)),
		fmt.Sprintf("{applications, [%s]}", strings.Join(apps, ", ")),
		fmt.Sprintf("{description, %s}", erlangString(cfg.Description)),
	}
	if cfg.Erlang.ApplicationStartModule != "" {
		entries = append(entries, fmt.Sprintf("{mod, {%s, []}}", erlangModuleName(cfg.Erlang.ApplicationStartModule)))
	}
	entries = append(entries,
		fmt.Sprintf("{modules, [%s]}", strings.Join(names, ", ")),
		"{registered, []}",
	)

	return fmt.Sprintf("{application, %s, [\n    %s\n]}.\n", cfg.Name, strings.Join(entries, ",\n    "))
}

func moduleMetadata(m *module, id uint64) []byte {
	data := append([]byte{}, metadataMagic...)
	data = binary.BigEndian.AppendUint64(data, id)
	return append(data, m.name()...)
}

func erlangModuleName(name string) string {
	return strings.ReplaceAll(name, "/", "@")
}

// erlangVariable capitalises a parameter name: "first_name" -> "First_name".
func erlangVariable(name string) string {
	prefix := ""
	for strings.HasPrefix(name, "_") {
		prefix += "_"
		name = name[1:]
	}
	if name == "" {
		return "_"
	}
	r, size := utf8.DecodeRuneInString(name)
	return prefix + string(unicode.ToUpper(r)) + name[size:]
}

var erlangStringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func erlangString(s string) string {
	return `"` + erlangStringEscaper.Replace(s) + `"`
}

func sortedUnique(in []string) []string {
	sort.Strings(in)
	out := in[:0]
	for _, s := range in {
		if len(out) == 0 || s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}
