package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heshanpadmasiri/csvb/annotation"
	"github.com/heshanpadmasiri/csvb/vbsrc"
)

func TestCollect(t *testing.T) {
	late := &vbsrc.EmptyStatement{}
	late.Annotations.SetSpan(annotation.Span{StartLine: 9, StartCol: 5, EndLine: 9, EndCol: 12})
	late.Annotations.Add(annotation.ConversionError, "unsupported construct: goto_statement")

	early := &vbsrc.EmptyStatement{}
	early.Annotations.SetSpan(annotation.Span{StartLine: 3, StartCol: 1, EndLine: 4, EndCol: 2})
	early.Annotations.Add(annotation.InternalError, "assertion failed")

	plain := &vbsrc.ReturnStatement{}
	plain.Annotations.Mark(annotation.SingleLine)

	method := &vbsrc.MethodBlock{Name: vbsrc.NewName("M"), Body: []vbsrc.Statement{late, plain, early}}

	diags := Collect("a.cs", method)
	require.Len(t, diags, 2)
	assert.Equal(t, "a.cs:3:1: error: assertion failed", diags[0].String())
	assert.Equal(t, Warning, diags[1].Severity)
	assert.Equal(t, 9, diags[1].Location.StartLine)
	assert.True(t, HasErrors(diags))
	assert.False(t, HasErrors(diags[1:]))
}

func TestCollectKeepsAnnotationOrderOnOneNode(t *testing.T) {
	decl := &vbsrc.FieldDecl{}
	decl.Annotations.Add(annotation.UnresolvedConflict, "2 declarations named \"x\" differ only by case")
	decl.Annotations.Mark(annotation.Synthetic)
	decl.Annotations.Add(annotation.InternalError, "assertion failed")
	decl.Annotations.SetSpan(annotation.Span{StartLine: 2, StartCol: 5, EndLine: 2, EndCol: 20})

	diags := Collect("b.cs", decl)
	require.Len(t, diags, 2)
	assert.Equal(t, Warning, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "differ only by case")
	assert.Equal(t, "b.cs:2:5: error: assertion failed", diags[1].String())
}
