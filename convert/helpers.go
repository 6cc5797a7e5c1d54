package convert

import (
	"github.com/heshanpadmasiri/csvb/annotation"
	"github.com/heshanpadmasiri/csvb/cs"
	"github.com/heshanpadmasiri/csvb/vbsrc"
)

const (
	inlineAssignHelper = "__InlineAssignHelper"
	throwHelper        = "__Throw"
)

// helperFrame records which helpers the members of one type call.
type helperFrame struct {
	keyword      vbsrc.TypeKeyword
	inlineAssign bool
	throwExpr    bool
}

func (ctx *Context) pushHelperFrame(keyword vbsrc.TypeKeyword) {
	ctx.helpers = append(ctx.helpers, &helperFrame{keyword: keyword})
}

func (ctx *Context) popHelperFrame() *helperFrame {
	frame := ctx.helpers[len(ctx.helpers)-1]
	ctx.helpers = ctx.helpers[:len(ctx.helpers)-1]
	return frame
}

// requestHelper marks a helper as used by the innermost type.
func (ctx *Context) requestHelper(n cs.Node, name string) error {
	if len(ctx.helpers) == 0 {
		return unsupported(n, "%s outside a type", name)
	}
	frame := ctx.helpers[len(ctx.helpers)-1]
	if frame.keyword == vbsrc.InterfaceKeyword {
		return unsupported(n, "%s inside an interface", name)
	}
	switch name {
	case inlineAssignHelper:
		frame.inlineAssign = true
	case throwHelper:
		frame.throwExpr = true
	}
	return nil
}

// helperMark is the helper usage of the innermost type at one point of the
// conversion.
type helperMark struct {
	frame        *helperFrame
	inlineAssign bool
	throwExpr    bool
}

func (ctx *Context) markHelpers() helperMark {
	if len(ctx.helpers) == 0 {
		return helperMark{}
	}
	frame := ctx.helpers[len(ctx.helpers)-1]
	return helperMark{frame: frame, inlineAssign: frame.inlineAssign, throwExpr: frame.throwExpr}
}

// resetHelpers forgets the helper requests made since m, which belonged to
// a node that was replaced by a placeholder.
func (ctx *Context) resetHelpers(m helperMark) {
	if m.frame == nil {
		return
	}
	m.frame.inlineAssign = m.inlineAssign
	m.frame.throwExpr = m.throwExpr
}

func helperModifiers(frame *helperFrame) []string {
	if frame.keyword == vbsrc.ModuleKeyword {
		return []string{"Private"}
	}
	return []string{"Private", "Shared"}
}

// synthesizeHelpers returns the helper members a frame asked for.
func synthesizeHelpers(frame *helperFrame) []vbsrc.Member {
	var out []vbsrc.Member
	genericT := vbsrc.Type("T")
	if frame.inlineAssign {
		m := &vbsrc.MethodBlock{
			Modifiers:  helperModifiers(frame),
			IsFunction: true,
			Name:       vbsrc.NewName(inlineAssignHelper),
			TypeParams: []string{"T"},
			Params: []*vbsrc.Param{
				{Name: vbsrc.NewName("target"), Type: genericT, ByRef: true},
				{Name: vbsrc.NewName("value"), Type: genericT},
			},
			ReturnType: genericT,
			Body: []vbsrc.Statement{
				&vbsrc.AssignStatement{Target: vbsrc.Ident("target", nil), Value: vbsrc.Ident("value", nil)},
				&vbsrc.ReturnStatement{Value: vbsrc.Ident("value", nil)},
			},
		}
		m.Annotations.Mark(annotation.Synthetic)
		out = append(out, m)
	}
	if frame.throwExpr {
		m := &vbsrc.MethodBlock{
			Modifiers:  helperModifiers(frame),
			IsFunction: true,
			Name:       vbsrc.NewName(throwHelper),
			TypeParams: []string{"T"},
			Params:     []*vbsrc.Param{{Name: vbsrc.NewName("e"), Type: "Exception"}},
			ReturnType: genericT,
			Body:       []vbsrc.Statement{&vbsrc.ThrowStatement{Value: vbsrc.Ident("e", nil)}},
		}
		m.Annotations.Mark(annotation.Synthetic)
		out = append(out, m)
	}
	return out
}

// enclosingType returns the keyword of the innermost type being converted.
func (ctx *Context) enclosingType() (vbsrc.TypeKeyword, bool) {
	if len(ctx.helpers) == 0 {
		return 0, false
	}
	return ctx.helpers[len(ctx.helpers)-1].keyword, true
}
