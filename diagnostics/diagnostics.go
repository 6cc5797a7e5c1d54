// Package diagnostics turns annotations on a converted tree into user visible messages.
package diagnostics

import (
	"fmt"
	"os"
	"sort"

	"github.com/heshanpadmasiri/csvb/annotation"
	"github.com/heshanpadmasiri/csvb/vbsrc"
)

// Severity of a diagnostic
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Diagnostic is a user visible message tied to an original source location
type Diagnostic struct {
	File     string
	Location annotation.Span
	Severity Severity
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Location.StartLine, d.Location.StartCol, d.Severity, d.Message)
}

// severities lists the annotation kinds reported as diagnostics.
var severities = map[annotation.Kind]Severity{
	annotation.InternalError:      Error,
	annotation.ConversionError:    Warning,
	annotation.UnresolvedConflict: Warning,
}

// Collect walks a converted tree and turns error and conflict annotations
// into diagnostics ordered by location. Annotations on one node keep the
// order they were added in.
func Collect(file string, root vbsrc.Node) []Diagnostic {
	var out []Diagnostic
	vbsrc.Inspect(root, func(n vbsrc.Node) bool {
		set := &n.Info().Annotations
		span, _ := set.GetSpan()
		for _, a := range set.All() {
			if severity, ok := severities[a.Kind]; ok {
				out = append(out, Diagnostic{File: file, Location: span, Severity: severity, Message: a.Data})
			}
		}
		return true
	})
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Location, out[j].Location
		if a.StartLine != b.StartLine {
			return a.StartLine < b.StartLine
		}
		return a.StartCol < b.StartCol
	})
	return out
}

// HasErrors reports whether any diagnostic is an error
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Fatal prints a fatal error message and exits if err is not nil
func Fatal(msg string, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Fatal: %s: %v\n", msg, err)
	os.Exit(1)
}
