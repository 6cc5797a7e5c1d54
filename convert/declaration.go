package convert

import (
	"github.com/heshanpadmasiri/csvb/cs"
	"github.com/heshanpadmasiri/csvb/vbsrc"
)

// remodelDeclaration splits the declarators of one source declaration:
// declarators without an initializer are grouped under the shared type in
// their original order, declarators with one follow individually.
func (ctx *Context) remodelDeclaration(decl *cs.VarDecl) ([]*vbsrc.Declarator, []vbsrc.Statement, error) {
	invariant("declaration has declarators", len(decl.Declarators) > 0)
	ty := ctx.convertType(decl.Type)
	var hoisted []vbsrc.Statement
	var grouped *vbsrc.Declarator
	var initialized []*vbsrc.Declarator
	for _, d := range decl.Declarators {
		name := ctx.name(d.Name, d)
		if d.Init == nil {
			if grouped == nil {
				grouped = &vbsrc.Declarator{Type: ty}
			}
			grouped.Names = append(grouped.Names, name)
			continue
		}
		init, pre, err := ctx.convertExpression(d.Init)
		if err != nil {
			return nil, nil, err
		}
		hoisted = append(hoisted, pre...)
		initialized = append(initialized, &vbsrc.Declarator{Names: []*vbsrc.Name{name}, Type: ty, Init: init})
	}
	var out []*vbsrc.Declarator
	if grouped != nil {
		out = append(out, grouped)
	}
	return append(out, initialized...), hoisted, nil
}

func (ctx *Context) convertLocalDecl(s *cs.LocalDecl) ([]vbsrc.Statement, error) {
	decls, hoisted, err := ctx.remodelDeclaration(s.Decl)
	if err != nil {
		return nil, err
	}
	keyword := "Dim"
	if s.Const {
		keyword = "Const"
	}
	return append(hoisted, &vbsrc.DimStatement{Keyword: keyword, Declarators: decls}), nil
}
