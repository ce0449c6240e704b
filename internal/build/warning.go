package build

// WarningKind classifies a diagnostic.
type WarningKind string

const (
	WarningUnusedImport WarningKind = "unused_import"
	WarningTodo         WarningKind = "todo"
)

// Warning is a non-fatal diagnostic reported alongside a successful
// compilation. Warnings never fail a run.
type Warning struct {
	Kind    WarningKind
	Module  string
	Path    string
	Line    int
	Message string
}
