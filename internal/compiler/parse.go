package compiler

import (
	"regexp"
	"strings"

	"github.com/roach88/pkgsnap/internal/project"
)

var (
	importPattern    = regexp.MustCompile(`^import\s+([a-z][a-z0-9_]*(?:/[a-z][a-z0-9_]*)*)(?:\s+as\s+([a-z][a-z0-9_]*))?\s*$`)
	functionPattern  = regexp.MustCompile(`^(pub\s+)?fn\s+([a-z][a-z0-9_]*)\s*\(([^)]*)\)`)
	referencePattern = regexp.MustCompile(`\b([a-z][a-z0-9_]*)\.([a-z][a-z0-9_]*)\(`)
	qualifiedPattern = regexp.MustCompile(`\b([a-z][a-z0-9_]*)\.([A-Za-z][A-Za-z0-9_]*)\b`)
	letPattern       = regexp.MustCompile(`\blet\s+([a-z][a-z0-9_]*)\b`)
	todoPattern      = regexp.MustCompile(`\btodo\b`)
	stringPattern    = regexp.MustCompile(`"(?:[^"\\]|\\.)*"`)
)

type importDecl struct {
	module string
	alias  string
	line   int
}

type function struct {
	name   string
	public bool
	params []string
	line   int
}

type reference struct {
	alias string
	name  string
	line  int
}

type module struct {
	source    project.Source
	imports   []importDecl
	functions []function
	// refs are qualified calls, alias.name(...).
	refs []reference
	// qualified holds every name used as the left side of alias.name,
	// called or not.
	qualified map[string]bool
	// locals are parameter and let-bound names, which may also appear on
	// the left of a dot.
	locals map[string]bool
	todos  []int
}

func (m *module) name() string { return m.source.Name }

// publicFunction returns the public function called name, if any.
func (m *module) publicFunction(name string) (function, bool) {
	for _, fn := range m.functions {
		if fn.public && fn.name == name {
			return fn, true
		}
	}
	return function{}, false
}

func (m *module) exports() map[string]int {
	out := make(map[string]int)
	for _, fn := range m.functions {
		if fn.public {
			out[fn.name] = len(fn.params)
		}
	}
	return out
}

func parseModule(src project.Source) *module {
	m := &module{
		source:    src,
		qualified: make(map[string]bool),
		locals:    make(map[string]bool),
	}
	for i, raw := range strings.Split(src.Code, "\n") {
		line := i + 1
		text := strings.TrimSpace(stripComment(stringPattern.ReplaceAllString(raw, `""`)))
		if text == "" {
			continue
		}

		if match := importPattern.FindStringSubmatch(text); match != nil {
			alias := match[2]
			if alias == "" {
				alias = lastSegment(match[1])
			}
			m.imports = append(m.imports, importDecl{module: match[1], alias: alias, line: line})
			continue
		}

		if match := functionPattern.FindStringSubmatch(text); match != nil {
			fn := function{
				name:   match[2],
				public: match[1] != "",
				params: parseParams(match[3]),
				line:   line,
			}
			m.functions = append(m.functions, fn)
			for _, p := range fn.params {
				m.locals[p] = true
			}
		}

		for _, match := range letPattern.FindAllStringSubmatch(text, -1) {
			m.locals[match[1]] = true
		}

		for _, idx := range referencePattern.FindAllStringSubmatchIndex(text, -1) {
			if chained(text, idx[0]) {
				continue
			}
			m.refs = append(m.refs, reference{
				alias: text[idx[2]:idx[3]],
				name:  text[idx[4]:idx[5]],
				line:  line,
			})
		}

		for _, idx := range qualifiedPattern.FindAllStringSubmatchIndex(text, -1) {
			if !chained(text, idx[0]) {
				m.qualified[text[idx[2]:idx[3]]] = true
			}
		}

		if todoPattern.MatchString(text) {
			m.todos = append(m.todos, line)
		}
	}
	return m
}

// chained reports whether the match at start continues a dotted chain such
// as record.field.call(), so its left side is not a module alias.
func chained(text string, start int) bool {
	return start > 0 && text[start-1] == '.'
}

// parseParams turns "a, label b: Int" into ["a", "b"].
func parseParams(list string) []string {
	params := []string{}
	for _, p := range strings.Split(list, ",") {
		p = strings.TrimSpace(p)
		if i := strings.Index(p, ":"); i >= 0 {
			p = strings.TrimSpace(p[:i])
		}
		fields := strings.Fields(p)
		if len(fields) == 0 {
			continue
		}
		params = append(params, fields[len(fields)-1])
	}
	return params
}

func stripComment(line string) string {
	if i := strings.Index(line, "//"); i >= 0 {
		return line[:i]
	}
	return line
}

func lastSegment(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
