package convert

import (
	"strings"

	"github.com/heshanpadmasiri/csvb/cs"
	"github.com/heshanpadmasiri/csvb/vbsrc"
)

// convertExpression converts an expression whose value is consumed. The
// returned statements must run before the statement holding the expression.
func (ctx *Context) convertExpression(e cs.Expr) (vbsrc.Expression, []vbsrc.Statement, error) {
	switch e := e.(type) {
	case *cs.Ident:
		return ctx.convertIdent(e), nil, nil
	case *cs.Literal:
		lit, err := convertLiteral(e)
		return lit, nil, err
	case *cs.Binary:
		return ctx.convertBinary(e)
	case *cs.Unary:
		return ctx.convertUnary(e)
	case *cs.Assign:
		return ctx.convertInlineAssign(e)
	case *cs.Invocation:
		return ctx.convertInvocation(e)
	case *cs.MemberAccess:
		x, hoisted, err := ctx.convertExpression(e.X)
		if err != nil {
			return nil, nil, err
		}
		return &vbsrc.MemberAccessExpr{X: x, Name: ctx.name(e.Name, e)}, hoisted, nil
	case *cs.ElementAccess:
		x, hoisted, err := ctx.convertExpression(e.X)
		if err != nil {
			return nil, nil, err
		}
		indices, pre, err := ctx.convertExpressions(e.Indices)
		if err != nil {
			return nil, nil, err
		}
		return &vbsrc.InvocationExpr{Target: x, Args: indices}, append(hoisted, pre...), nil
	case *cs.ObjectCreation:
		return ctx.convertObjectCreation(e)
	case *cs.ArrayCreation:
		return ctx.convertArrayCreation(e)
	case *cs.Lambda:
		return ctx.convertLambda(e)
	case *cs.Conditional:
		parts, hoisted, err := ctx.convertExpressions([]cs.Expr{e.Cond, e.Then, e.Else})
		if err != nil {
			return nil, nil, err
		}
		return &vbsrc.IfExpr{Args: parts}, hoisted, nil
	case *cs.Cast:
		return ctx.convertCast(e)
	case *cs.TypeTest:
		x, hoisted, err := ctx.convertExpression(e.X)
		if err != nil {
			return nil, nil, err
		}
		if e.Op == "as" {
			return &vbsrc.CastExpr{Keyword: "TryCast", X: x, Type: ctx.convertType(e.Type)}, hoisted, nil
		}
		return &vbsrc.TypeOfIsExpr{X: x, Type: ctx.convertType(e.Type)}, hoisted, nil
	case *cs.TypeOf:
		return &vbsrc.GetTypeExpr{Type: ctx.convertType(e.Type)}, nil, nil
	case *cs.ThrowExpr:
		return ctx.convertThrowExpr(e)
	case *cs.Paren:
		x, hoisted, err := ctx.convertExpression(e.X)
		if err != nil {
			return nil, nil, err
		}
		return &vbsrc.ParenExpr{X: x}, hoisted, nil
	case *cs.This:
		return vbsrc.Lit("Me"), nil, nil
	case *cs.BaseRef:
		return vbsrc.Lit("MyBase"), nil, nil
	case *cs.DeclarationExpr:
		return ctx.convertDeclarationExpr(e)
	case *cs.Unknown:
		return nil, nil, unsupported(e, "")
	default:
		return nil, nil, unsupported(e, "no expression rule")
	}
}

func (ctx *Context) convertExpressions(exprs []cs.Expr) ([]vbsrc.Expression, []vbsrc.Statement, error) {
	var out []vbsrc.Expression
	var hoisted []vbsrc.Statement
	for _, e := range exprs {
		x, pre, err := ctx.convertExpression(e)
		if err != nil {
			return nil, nil, err
		}
		hoisted = append(hoisted, pre...)
		out = append(out, x)
	}
	return out, hoisted, nil
}

func (ctx *Context) convertIdent(e *cs.Ident) vbsrc.Expression {
	sym := ctx.symbolFor(e)
	if ty, ok := predefinedTypes[e.Name]; ok && sym == nil {
		return vbsrc.Lit(string(ty))
	}
	if e.Name == "nameof" && sym == nil {
		return vbsrc.Lit("NameOf")
	}
	return &vbsrc.IdentifierExpr{Name: &vbsrc.Name{Text: escapeIdentifier(e.Name), Symbol: sym}}
}

func (ctx *Context) isStringExpr(e cs.Expr) bool {
	if lit, ok := e.(*cs.Literal); ok {
		return lit.LitKind == cs.StringLit || lit.LitKind == cs.VerbatimStringLit
	}
	ty, ok := ctx.typeOf(e)
	return ok && ty.IsString()
}

func (ctx *Context) isNullExpr(e cs.Expr) bool {
	if lit, ok := e.(*cs.Literal); ok {
		return lit.LitKind == cs.NullLit
	}
	ty, ok := ctx.typeOf(e)
	return ok && ty.IsNull()
}

// binaryOperator picks the target operator, which for some source operators
// depends on operand types.
func (ctx *Context) binaryOperator(e *cs.Binary) (string, error) {
	switch e.Op {
	case "==", "!=":
		if ctx.isNullExpr(e.Left) || ctx.isNullExpr(e.Right) {
			if e.Op == "==" {
				return "Is", nil
			}
			return "IsNot", nil
		}
	case "+":
		if ctx.isStringExpr(e.Left) || ctx.isStringExpr(e.Right) {
			return "&", nil
		}
	case "/":
		left, lok := ctx.typeOf(e.Left)
		right, rok := ctx.typeOf(e.Right)
		if !lok || !rok {
			return "", incomplete(e, "operand types of division")
		}
		if left.IsIntegral() && right.IsIntegral() {
			return "\\", nil
		}
	}
	op, ok := binaryOperators[e.Op]
	if !ok {
		return "", unsupported(e, "operator %s", e.Op)
	}
	return op, nil
}

func (ctx *Context) convertBinary(e *cs.Binary) (vbsrc.Expression, []vbsrc.Statement, error) {
	operands, hoisted, err := ctx.convertExpressions([]cs.Expr{e.Left, e.Right})
	if err != nil {
		return nil, nil, err
	}
	if e.Op == "??" {
		return &vbsrc.IfExpr{Args: operands}, hoisted, nil
	}
	op, err := ctx.binaryOperator(e)
	if err != nil {
		return nil, nil, err
	}
	return &vbsrc.BinaryExpr{Left: operands[0], Op: op, Right: operands[1]}, hoisted, nil
}

func staticCall(receiver, method string, args ...vbsrc.Expression) *vbsrc.InvocationExpr {
	return &vbsrc.InvocationExpr{
		Target: &vbsrc.MemberAccessExpr{X: vbsrc.Ident(receiver, nil), Name: vbsrc.NewName(method)},
		Args:   args,
	}
}

// convertUnary handles unary operators. An increment or decrement whose value
// is used becomes an Interlocked call; the postfix form is corrected back to
// the old value with Math.Min or Math.Max.
func (ctx *Context) convertUnary(e *cs.Unary) (vbsrc.Expression, []vbsrc.Statement, error) {
	x, hoisted, err := ctx.convertExpression(e.X)
	if err != nil {
		return nil, nil, err
	}
	switch e.Op {
	case "++", "--":
		ctx.imports.Add("System.Threading", "")
		method, bound, restore := "Increment", "Min", "-"
		if e.Op == "--" {
			method, bound, restore = "Decrement", "Max", "+"
		}
		call := staticCall("Interlocked", method, x)
		if !e.Postfix {
			return call, hoisted, nil
		}
		again, _, err := ctx.convertExpression(e.X)
		if err != nil {
			return nil, nil, err
		}
		old := &vbsrc.BinaryExpr{Left: again, Op: restore, Right: vbsrc.Lit("1")}
		return staticCall("Math", bound, call, old), hoisted, nil
	}
	op, ok := prefixOperators[e.Op]
	if !ok || e.Postfix {
		return nil, nil, unsupported(e, "operator %s", e.Op)
	}
	return &vbsrc.UnaryExpr{Op: op, Operand: x}, hoisted, nil
}

// compoundValue builds `target Op value` for a compound assignment.
func (ctx *Context) compoundValue(e *cs.Assign, target, value vbsrc.Expression) (vbsrc.Expression, error) {
	if e.Op == "??=" {
		return &vbsrc.IfExpr{Args: []vbsrc.Expression{target, value}}, nil
	}
	binOp := strings.TrimSuffix(e.Op, "=")
	op, err := ctx.binaryOperator(&cs.Binary{NodeInfo: e.NodeInfo, Op: binOp, Left: e.Target, Right: e.Value})
	if err != nil {
		return nil, err
	}
	if _, isBinary := value.(*vbsrc.BinaryExpr); isBinary {
		value = &vbsrc.ParenExpr{X: value}
	}
	return &vbsrc.BinaryExpr{Left: target, Op: op, Right: value}, nil
}

// convertInlineAssign converts an assignment whose value is used. The target
// has no assignment expression, so it goes through a synthesized helper.
func (ctx *Context) convertInlineAssign(e *cs.Assign) (vbsrc.Expression, []vbsrc.Statement, error) {
	target, hoisted, err := ctx.convertExpression(e.Target)
	if err != nil {
		return nil, nil, err
	}
	value, pre, err := ctx.convertExpression(e.Value)
	if err != nil {
		return nil, nil, err
	}
	hoisted = append(hoisted, pre...)
	if e.Op != "=" {
		again, _, err := ctx.convertExpression(e.Target)
		if err != nil {
			return nil, nil, err
		}
		if value, err = ctx.compoundValue(e, again, value); err != nil {
			return nil, nil, err
		}
	}
	if err := ctx.requestHelper(e, inlineAssignHelper); err != nil {
		return nil, nil, err
	}
	return &vbsrc.InvocationExpr{Target: vbsrc.Ident(inlineAssignHelper, nil), Args: []vbsrc.Expression{target, value}}, hoisted, nil
}

func (ctx *Context) convertThrowExpr(e *cs.ThrowExpr) (vbsrc.Expression, []vbsrc.Statement, error) {
	ty, ok := ctx.typeOf(e)
	if !ok {
		return nil, nil, incomplete(e, "type of throw expression")
	}
	value, hoisted, err := ctx.convertExpression(e.Value)
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.requestHelper(e, throwHelper); err != nil {
		return nil, nil, err
	}
	fn := &vbsrc.GenericNameExpr{Name: vbsrc.NewName(throwHelper), TypeArgs: []vbsrc.Type{ctx.convertSemanticType(ty)}}
	return &vbsrc.InvocationExpr{Target: fn, Args: []vbsrc.Expression{value}}, hoisted, nil
}

// convertDeclarationExpr hoists `out var x` into a declaration before the statement.
func (ctx *Context) convertDeclarationExpr(e *cs.DeclarationExpr) (vbsrc.Expression, []vbsrc.Statement, error) {
	ty := ctx.convertType(e.Type)
	if ty == "" {
		resolved, ok := ctx.typeOf(e)
		if !ok {
			return nil, nil, incomplete(e, "type of declared variable")
		}
		ty = ctx.convertSemanticType(resolved)
	}
	name := ctx.name(e.Name, e)
	decl := &vbsrc.DimStatement{Declarators: []*vbsrc.Declarator{{Names: []*vbsrc.Name{name}, Type: ty}}}
	ref := &vbsrc.IdentifierExpr{Name: &vbsrc.Name{Text: name.Text, Symbol: name.Symbol}}
	return ref, []vbsrc.Statement{decl}, nil
}

func (ctx *Context) convertArguments(args []*cs.Argument) ([]vbsrc.Expression, []vbsrc.Statement, error) {
	var out []vbsrc.Expression
	var hoisted []vbsrc.Statement
	for _, a := range args {
		value, pre, err := ctx.convertExpression(a.Value)
		if err != nil {
			return nil, nil, err
		}
		hoisted = append(hoisted, pre...)
		if a.Name != "" {
			value = &vbsrc.NamedArgument{Name: escapeIdentifier(a.Name), Value: value}
		}
		out = append(out, value)
	}
	return out, hoisted, nil
}

func (ctx *Context) convertInvocation(e *cs.Invocation) (vbsrc.Expression, []vbsrc.Statement, error) {
	fn, hoisted, err := ctx.convertExpression(e.Fun)
	if err != nil {
		return nil, nil, err
	}
	args, pre, err := ctx.convertArguments(e.Args)
	if err != nil {
		return nil, nil, err
	}
	return &vbsrc.InvocationExpr{Target: fn, Args: args}, append(hoisted, pre...), nil
}

func (ctx *Context) convertObjectCreation(e *cs.ObjectCreation) (vbsrc.Expression, []vbsrc.Statement, error) {
	args, hoisted, err := ctx.convertArguments(e.Args)
	if err != nil {
		return nil, nil, err
	}
	for _, item := range e.Init {
		if _, isAssign := item.(*cs.Assign); isAssign {
			return nil, nil, unsupported(e, "object initializer")
		}
	}
	init, pre, err := ctx.convertExpressions(e.Init)
	if err != nil {
		return nil, nil, err
	}
	return &vbsrc.ObjectCreationExpr{Type: ctx.convertType(e.Type), Args: args, Init: init}, append(hoisted, pre...), nil
}

// convertCast maps casts to predefined types onto conversion keywords.
// Floating to integral casts truncate in the source language but round in
// the target, so the operand is truncated first.
func (ctx *Context) convertCast(e *cs.Cast) (vbsrc.Expression, []vbsrc.Statement, error) {
	x, hoisted, err := ctx.convertExpression(e.X)
	if err != nil {
		return nil, nil, err
	}
	source, known := ctx.typeOf(e.X)
	if e.Type != nil && e.Type.Rank == 0 && len(e.Type.Args) == 0 && !e.Type.Nullable {
		if keyword, ok := conversionKeywords[e.Type.Name]; ok {
			target := e.Type.Name
			switch {
			case known && source.IsFloating() && integralTarget(target):
				x = staticCall("Math", "Truncate", x)
			case known && target == "char" && source.IsIntegral():
				return &vbsrc.InvocationExpr{Target: vbsrc.Ident("ChrW", nil), Args: []vbsrc.Expression{x}}, hoisted, nil
			case known && source.Name == "char" && source.Rank == 0 && integralTarget(target):
				x = &vbsrc.InvocationExpr{Target: vbsrc.Ident("AscW", nil), Args: []vbsrc.Expression{x}}
			}
			return &vbsrc.CastExpr{Keyword: keyword, X: x}, hoisted, nil
		}
	}
	keyword := "DirectCast"
	if known && (source.IsIntegral() || source.IsFloating()) {
		keyword = "CType"
	}
	return &vbsrc.CastExpr{Keyword: keyword, X: x, Type: ctx.convertType(e.Type)}, hoisted, nil
}

func integralTarget(name string) bool {
	switch name {
	case "sbyte", "byte", "short", "ushort", "int", "uint", "long", "ulong":
		return true
	}
	return false
}
