package convert

import (
	"strings"

	"go.uber.org/zap"

	"github.com/heshanpadmasiri/csvb/conflict"
	"github.com/heshanpadmasiri/csvb/cs"
	"github.com/heshanpadmasiri/csvb/diagnostics"
	"github.com/heshanpadmasiri/csvb/semantic"
	"github.com/heshanpadmasiri/csvb/vbsrc"
)

// Result is the outcome of converting one unit.
type Result struct {
	Unit        *vbsrc.CompilationUnit
	Diagnostics []diagnostics.Diagnostic
	Renames     []conflict.Rename
	// Placeholders counts the nodes that failed to convert.
	Placeholders int
}

// ConvertUnit converts one resolved compilation unit. Recoverable failures
// become annotated placeholders unless opts.Strict is set, in which case the
// first one is returned. model may be nil; rules that need semantic facts
// then fail with IncompleteSemanticInformation.
func ConvertUnit(unit *cs.CompilationUnit, model semantic.Model, opts Options) (*Result, error) {
	ctx := newContext(model, opts)
	ctx.addUsings(unit.Usings)

	members, err := ctx.convertMembers(unit.Members)
	if err != nil {
		return nil, wrapf(err, "convert %s", displayPath(opts.FilePath))
	}
	out := &vbsrc.CompilationUnit{Members: members, TypeNames: ctx.typeNames}
	out.Leading = convertTrivia(unit.Leading)
	out.Trailing = convertTrivia(unit.Trailing)

	renames := conflict.Resolve(out, model, ctx.log)

	out.Imports = ctx.imports.Imports()
	out.Header = strings.TrimRight(opts.LicenseHeader, "\n")

	diags := diagnostics.Collect(opts.FilePath, out)
	ctx.log.Debug("converted unit",
		zap.Int("members", len(members)),
		zap.Int("placeholders", ctx.placeholders),
		zap.Int("renames", len(renames)),
		zap.Int("diagnostics", len(diags)))
	return &Result{
		Unit:         out,
		Diagnostics:  diags,
		Renames:      renames,
		Placeholders: ctx.placeholders,
	}, nil
}

func displayPath(path string) string {
	if path == "" {
		return "<input>"
	}
	return path
}
