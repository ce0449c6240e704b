package compiler

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a compilation error.
type ErrorKind string

const (
	ErrDuplicateModule    ErrorKind = "duplicate_module"
	ErrUnknownModule      ErrorKind = "unknown_module"
	ErrUnknownImport      ErrorKind = "unknown_import"
	ErrSrcImportingTest   ErrorKind = "src_importing_test"
	ErrImportCycle        ErrorKind = "import_cycle"
	ErrUnknownModuleValue ErrorKind = "unknown_module_value"
	ErrUnsupported        ErrorKind = "unsupported"
	ErrFileIO             ErrorKind = "file_io"
)

var errorTitles = map[ErrorKind]string{
	ErrDuplicateModule:    "Duplicate module",
	ErrUnknownModule:      "Unknown module",
	ErrUnknownImport:      "Unknown import",
	ErrSrcImportingTest:   "App importing test module",
	ErrImportCycle:        "Import cycle",
	ErrUnknownModuleValue: "Unknown module value",
	ErrUnsupported:        "Unsupported operation",
	ErrFileIO:             "File IO failure",
}

// Error is a compilation failure. It is an expected outcome of compiling a
// broken fixture and renders itself through PrettyString.
type Error struct {
	Kind ErrorKind
	// Module is the module in which the error was found.
	Module string
	// Path is the simulated path of the offending source file.
	Path string
	// FirstPath is the earlier definition for ErrDuplicateModule.
	FirstPath string
	Line      int
	// Imported is the module named by an import or qualified call.
	Imported string
	// Name is the missing value for ErrUnknownModuleValue.
	Name string
	// Cycle lists the modules of an import cycle, first module repeated last.
	Cycle  []string
	Detail string
	Err    error
}

// Title is the one-line heading of the pretty error.
func (e *Error) Title() string { return errorTitles[e.Kind] }

func (e *Error) Error() string {
	msg := strings.ReplaceAll(e.description(), "\n", " ")
	if e.Path != "" {
		if e.Line > 0 {
			return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, msg)
		}
		return fmt.Sprintf("%s: %s", e.Path, msg)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// PrettyString renders the error the way it appears in snapshots.
func (e *Error) PrettyString() string {
	var b strings.Builder
	fmt.Fprintf(&b, "error: %s\n", e.Title())
	if e.Path != "" {
		b.WriteString("  ┌─ ")
		b.WriteString(e.Path)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(e.description())
	b.WriteString("\n")
	return b.String()
}

func (e *Error) description() string {
	switch e.Kind {
	case ErrDuplicateModule:
		return fmt.Sprintf("The module `%s` is defined multiple times.\n\nFirst:  %s\nSecond: %s", e.Module, e.FirstPath, e.Path)
	case ErrUnknownModule:
		return fmt.Sprintf("No module has been found with the name `%s`.", e.Imported)
	case ErrUnknownImport:
		return fmt.Sprintf("The module `%s` is trying to import the module `%s`,\nbut it cannot be found.", e.Module, e.Imported)
	case ErrSrcImportingTest:
		return fmt.Sprintf("The application module `%s` is importing the test module `%s`.\nTest modules are not part of the application.", e.Module, e.Imported)
	case ErrImportCycle:
		return "The import statements for these modules form a cycle:\n\n    " + strings.Join(e.Cycle, " -> ")
	case ErrUnknownModuleValue:
		return fmt.Sprintf("The module `%s` does not have a public value named `%s`.", e.Imported, e.Name)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Detail, e.Err)
		}
		return e.Detail
	}
}
