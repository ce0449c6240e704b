package build

import "github.com/roach88/pkgsnap/internal/project"

// TargetCodegenConfiguration is the resolved, target-specific set of options
// controlling what a compiler emits. Exactly one variant exists per run.
type TargetCodegenConfiguration interface {
	Target() project.Target
	isTargetCodegen()
}

// ErlangCodegen configures the erlang target.
type ErlangCodegen struct {
	// AppFile, when set, asks for an OTP application file.
	AppFile *ErlangAppCodegenConfiguration
}

// ErlangAppCodegenConfiguration controls the application file.
type ErlangAppCodegenConfiguration struct {
	IncludeDevDeps bool
}

// JavaScriptCodegen configures the javascript target.
type JavaScriptCodegen struct {
	EmitTypeScriptDefinitions bool
}

func (ErlangCodegen) Target() project.Target     { return project.TargetErlang }
func (JavaScriptCodegen) Target() project.Target { return project.TargetJavaScript }

func (ErlangCodegen) isTargetCodegen()     {}
func (JavaScriptCodegen) isTargetCodegen() {}

// ResolveTarget maps the manifest's target to its codegen configuration.
// Snapshot runs always simulate a development build, so the erlang
// application file includes dev dependencies.
//
// Unsupported targets are rejected while parsing the manifest; any other
// value here falls back to erlang, the manifest default.
func ResolveTarget(cfg *project.PackageConfig) TargetCodegenConfiguration {
	switch cfg.Target {
	case project.TargetJavaScript:
		return JavaScriptCodegen{
			EmitTypeScriptDefinitions: cfg.JavaScript.TypeScriptDeclarations,
		}
	default:
		return ErlangCodegen{
			AppFile: &ErlangAppCodegenConfiguration{IncludeDevDeps: true},
		}
	}
}
