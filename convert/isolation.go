package convert

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/heshanpadmasiri/csvb/annotation"
	"github.com/heshanpadmasiri/csvb/cs"
	"github.com/heshanpadmasiri/csvb/vbsrc"
)

// convertStatementIsolated converts one statement. A recoverable failure
// becomes a placeholder so that sibling statements still convert.
func (ctx *Context) convertStatementIsolated(stmt cs.Stmt) ([]vbsrc.Statement, error) {
	mark := ctx.markHelpers()
	out, err := ctx.convertStatement(stmt)
	if err != nil {
		if ctx.Options.Strict {
			return nil, err
		}
		ctx.resetHelpers(mark)
		out = []vbsrc.Statement{ctx.placeholder(stmt, annotation.ConversionError, err.Error())}
	}
	return attachTrivia(stmt, out), nil
}

// convertMemberIsolated converts one member. Besides recoverable failures it
// also recovers violated invariants, which are annotated as internal errors.
func (ctx *Context) convertMemberIsolated(member cs.Member) (out []vbsrc.Member, err error) {
	mark := ctx.markHelpers()
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		failure, ok := r.(assertionFailure)
		if !ok {
			panic(r)
		}
		assertionErr := &Error{Kind: StructuralAssertion, NodeKind: member.Kind(), Message: failure.msg, Span: member.Info().Span}
		if ctx.Options.Strict {
			out, err = nil, assertionErr
			return
		}
		ctx.resetHelpers(mark)
		out = attachTrivia(member, []vbsrc.Member{ctx.placeholder(member, annotation.InternalError, assertionErr.Error())})
		err = nil
	}()
	out, err = ctx.convertMember(member)
	if err != nil {
		if ctx.Options.Strict {
			return nil, err
		}
		ctx.resetHelpers(mark)
		out = []vbsrc.Member{ctx.placeholder(member, annotation.ConversionError, err.Error())}
	}
	return attachTrivia(member, out), nil
}

// placeholder builds an empty node documenting the failure in place.
func (ctx *Context) placeholder(n cs.Node, kind annotation.Kind, msg string) *vbsrc.EmptyStatement {
	ctx.placeholders++
	p := &vbsrc.EmptyStatement{}
	p.Annotations.Add(kind, msg)
	p.Trailing = failureComment(msg, n.Info().Text)
	ctx.log.Warn("conversion failed",
		zap.String("kind", n.Kind()),
		zap.Int("line", n.Info().Span.StartLine),
		zap.String("error", msg))
	return p
}

func failureComment(msg, source string) []vbsrc.Trivia {
	lines := []string{"CONVERSION ERROR: " + msg}
	if source != "" {
		lines = append(lines, "Input:")
		for _, line := range strings.Split(strings.TrimRight(source, "\n"), "\n") {
			lines = append(lines, "    "+strings.TrimRight(line, " \t\r"))
		}
	}
	out := make([]vbsrc.Trivia, len(lines))
	for i, line := range lines {
		out[i] = vbsrc.Trivia{Kind: vbsrc.Comment, Text: " " + line}
	}
	return out
}

// ErrorKindOf extracts the kind of a conversion error.
func ErrorKindOf(err error) (ErrorKind, bool) {
	var convErr *Error
	if errors.As(err, &convErr) {
		return convErr.Kind, true
	}
	return 0, false
}

func wrapf(err error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
