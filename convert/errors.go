package convert

import (
	"fmt"

	"github.com/heshanpadmasiri/csvb/cs"
)

// ErrorKind classifies a conversion failure.
type ErrorKind int

const (
	// UnsupportedConstruct means a source node kind has no conversion rule.
	UnsupportedConstruct ErrorKind = iota
	// IncompleteSemanticInformation means a rule needed a semantic fact that was missing.
	IncompleteSemanticInformation
	// StructuralAssertion means an internal invariant of the converter was violated.
	StructuralAssertion
)

func (k ErrorKind) String() string {
	switch k {
	case UnsupportedConstruct:
		return "unsupported construct"
	case IncompleteSemanticInformation:
		return "incomplete semantic information"
	default:
		return "structural assertion failed"
	}
}

// Error is a conversion failure tied to the source node that caused it.
type Error struct {
	Kind     ErrorKind
	NodeKind string
	Message  string
	Span     cs.Span
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s at %d:%d", e.Kind, e.NodeKind, e.Span.StartLine, e.Span.StartCol)
	}
	return fmt.Sprintf("%s: %s at %d:%d: %s", e.Kind, e.NodeKind, e.Span.StartLine, e.Span.StartCol, e.Message)
}

func unsupported(n cs.Node, format string, args ...any) error {
	return &Error{
		Kind:     UnsupportedConstruct,
		NodeKind: n.Kind(),
		Message:  fmt.Sprintf(format, args...),
		Span:     n.Info().Span,
	}
}

func incomplete(n cs.Node, what string) error {
	return &Error{
		Kind:     IncompleteSemanticInformation,
		NodeKind: n.Kind(),
		Message:  "missing " + what,
		Span:     n.Info().Span,
	}
}

// assertionFailure is the panic value of a violated invariant. Only the
// member isolation boundary recovers it.
type assertionFailure struct {
	msg string
}

func invariant(msg string, condition bool) {
	if condition {
		return
	}
	panic(assertionFailure{msg: msg})
}
