package convert

import (
	"fmt"
	"strconv"

	"github.com/heshanpadmasiri/csvb/cs"
	"github.com/heshanpadmasiri/csvb/vbsrc"
)

var additivePrecedence = map[string]bool{"+": true, "-": true, "*": true, "/": true, "\\": true, "Mod": true}

// upperBound turns a length into the inclusive upper bound the target's array
// syntax expects, folding constants.
func (ctx *Context) upperBound(length cs.Expr) (vbsrc.Expression, []vbsrc.Statement, error) {
	if v, ok := ctx.constantValue(length); ok {
		if n, ok := v.(int64); ok {
			return vbsrc.Lit(strconv.FormatInt(n-1, 10)), nil, nil
		}
	}
	if lit, ok := length.(*cs.Literal); ok && lit.LitKind == cs.IntLit {
		if n, err := strconv.ParseInt(lit.Raw, 10, 64); err == nil {
			return vbsrc.Lit(strconv.FormatInt(n-1, 10)), nil, nil
		}
	}
	expr, hoisted, err := ctx.convertExpression(length)
	if err != nil {
		return nil, nil, err
	}
	if bin, ok := expr.(*vbsrc.BinaryExpr); ok && !additivePrecedence[bin.Op] {
		expr = &vbsrc.ParenExpr{X: expr}
	}
	return &vbsrc.BinaryExpr{Left: expr, Op: "-", Right: vbsrc.Lit("1")}, hoisted, nil
}

func (ctx *Context) upperBounds(lengths []cs.Expr) ([]vbsrc.Expression, []vbsrc.Statement, error) {
	var bounds []vbsrc.Expression
	var hoisted []vbsrc.Statement
	for _, l := range lengths {
		b, pre, err := ctx.upperBound(l)
		if err != nil {
			return nil, nil, err
		}
		hoisted = append(hoisted, pre...)
		bounds = append(bounds, b)
	}
	return bounds, hoisted, nil
}

func (ctx *Context) convertArrayCreation(e *cs.ArrayCreation) (vbsrc.Expression, []vbsrc.Statement, error) {
	var hoisted []vbsrc.Statement
	init, pre, err := ctx.convertExpressions(e.Init)
	if err != nil {
		return nil, nil, err
	}
	hoisted = append(hoisted, pre...)
	if e.Elem == nil {
		return &vbsrc.CollectionExpr{Items: init}, hoisted, nil
	}
	bounds, pre, err := ctx.upperBounds(e.Lengths)
	if err != nil {
		return nil, nil, err
	}
	hoisted = append(hoisted, pre...)
	rank := e.Rank
	if rank == 0 {
		rank = 1
	}
	return &vbsrc.ArrayCreationExpr{Elem: ctx.convertType(e.Elem), Rank: rank, Bounds: bounds, Init: init}, hoisted, nil
}

// convertResize rebuilds an array with new lengths. A one-dimensional resize
// that keeps its elements is a call to Array.Resize; the runtime primitive
// cannot resize further dimensions, so a multi-dimensional one allocates a
// new array and copies the overlapping elements with nested loops.
func (ctx *Context) convertResize(s *cs.ResizeStmt) ([]vbsrc.Statement, error) {
	ty, ok := ctx.typeOf(s.Target)
	if !ok || ty == nil {
		return nil, incomplete(s, "type of resized array")
	}
	if !ty.IsArray() {
		return nil, unsupported(s, "resize of non-array type %s", ty)
	}
	if len(s.Lengths) != ty.Rank {
		return nil, unsupported(s, "resize with %d lengths of a rank %d array", len(s.Lengths), ty.Rank)
	}
	target := func() (vbsrc.Expression, error) {
		expr, hoisted, err := ctx.convertExpression(s.Target)
		if err == nil && len(hoisted) > 0 {
			err = unsupported(s, "resize target with side effects")
		}
		return expr, err
	}
	var out []vbsrc.Statement
	if s.Preserve && ty.Rank == 1 {
		arr, err := target()
		if err != nil {
			return nil, err
		}
		length, hoisted, err := ctx.convertExpression(s.Lengths[0])
		if err != nil {
			return nil, err
		}
		call := &vbsrc.InvocationExpr{
			Target: &vbsrc.MemberAccessExpr{X: vbsrc.Ident("Array", nil), Name: vbsrc.NewName("Resize")},
			Args:   []vbsrc.Expression{arr, length},
		}
		return append(hoisted, &vbsrc.CallStatement{Call: call}), nil
	}

	bounds, hoisted, err := ctx.upperBounds(s.Lengths)
	if err != nil {
		return nil, err
	}
	out = append(out, hoisted...)
	elem := ctx.convertSemanticType(ty.Elem)
	alloc := &vbsrc.ArrayCreationExpr{Elem: elem, Rank: ty.Rank, Bounds: bounds}
	if !s.Preserve {
		arr, err := target()
		if err != nil {
			return nil, err
		}
		return append(out, &vbsrc.AssignStatement{Target: arr, Op: "=", Value: alloc}), nil
	}

	oldName := fmt.Sprintf("__oldArr%d", ctx.nextID())
	old := func() vbsrc.Expression { return vbsrc.Ident(oldName, nil) }
	arr, err := target()
	if err != nil {
		return nil, err
	}
	out = append(out, &vbsrc.DimStatement{Declarators: []*vbsrc.Declarator{{Names: []*vbsrc.Name{vbsrc.NewName(oldName)}, Init: arr}}})
	arr, err = target()
	if err != nil {
		return nil, err
	}
	out = append(out, &vbsrc.AssignStatement{Target: arr, Op: "=", Value: alloc})

	indexNames := make([]string, ty.Rank)
	for d := range indexNames {
		indexNames[d] = fmt.Sprintf("__i%d", d)
	}
	indices := func() []vbsrc.Expression {
		idx := make([]vbsrc.Expression, len(indexNames))
		for i, n := range indexNames {
			idx[i] = vbsrc.Ident(n, nil)
		}
		return idx
	}
	dest, err := target()
	if err != nil {
		return nil, err
	}
	body := []vbsrc.Statement{&vbsrc.AssignStatement{
		Target: &vbsrc.InvocationExpr{Target: dest, Args: indices()},
		Op:     "=",
		Value:  &vbsrc.InvocationExpr{Target: old(), Args: indices()},
	}}
	for d := ty.Rank - 1; d >= 0; d-- {
		current, err := target()
		if err != nil {
			return nil, err
		}
		getLength := func(x vbsrc.Expression) vbsrc.Expression {
			return &vbsrc.InvocationExpr{
				Target: &vbsrc.MemberAccessExpr{X: x, Name: vbsrc.NewName("GetLength")},
				Args:   []vbsrc.Expression{vbsrc.Lit(strconv.Itoa(d))},
			}
		}
		limit := &vbsrc.InvocationExpr{
			Target: &vbsrc.MemberAccessExpr{X: vbsrc.Ident("Math", nil), Name: vbsrc.NewName("Min")},
			Args:   []vbsrc.Expression{getLength(current), getLength(old())},
		}
		body = []vbsrc.Statement{&vbsrc.ForBlock{
			Var:     vbsrc.NewName(indexNames[d]),
			VarType: vbsrc.TypeInteger,
			From:    vbsrc.Lit("0"),
			To:      &vbsrc.BinaryExpr{Left: limit, Op: "-", Right: vbsrc.Lit("1")},
			Body:    body,
		}}
	}
	out = append(out, &vbsrc.IfBlock{
		Cond: &vbsrc.BinaryExpr{Left: old(), Op: "IsNot", Right: vbsrc.Nothing()},
		Body: body,
	})
	return out, nil
}
