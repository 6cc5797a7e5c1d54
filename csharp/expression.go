package csharp

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/heshanpadmasiri/csvb/cs"
)

var literalKinds = map[string]cs.LiteralKind{
	"integer_literal":         cs.IntLit,
	"real_literal":            cs.RealLit,
	"string_literal":          cs.StringLit,
	"verbatim_string_literal": cs.VerbatimStringLit,
	"character_literal":       cs.CharLit,
	"boolean_literal":         cs.BoolLit,
	"null_literal":            cs.NullLit,
}

func (l *lowerer) expr(node *tree_sitter.Node) cs.Expr {
	if node == nil {
		return &cs.Unknown{KindName: "missing_expression"}
	}
	if node.IsError() || node.IsMissing() {
		return l.unknown(node)
	}
	info := l.info(node)
	if kind, ok := literalKinds[node.Kind()]; ok {
		raw := info.Text
		if kind == cs.StringLit && strings.HasSuffix(raw, "u8") {
			return l.unknown(node)
		}
		return &cs.Literal{NodeInfo: info, LitKind: kind, Raw: raw}
	}
	switch node.Kind() {
	case "identifier", "predefined_type":
		return &cs.Ident{NodeInfo: info, Name: info.Text}
	case "qualified_name":
		return l.qualified(node)
	case "this", "this_expression":
		return &cs.This{NodeInfo: info}
	case "base", "base_expression":
		return &cs.BaseRef{NodeInfo: info}
	case "parenthesized_expression":
		return &cs.Paren{NodeInfo: info, X: l.expr(firstNamed(node))}
	case "binary_expression":
		return &cs.Binary{
			NodeInfo: info,
			Op:       l.operator(node),
			Left:     l.expr(node.ChildByFieldName("left")),
			Right:    l.expr(node.ChildByFieldName("right")),
		}
	case "assignment_expression":
		return &cs.Assign{
			NodeInfo: info,
			Op:       l.operator(node),
			Target:   l.expr(node.ChildByFieldName("left")),
			Value:    l.expr(node.ChildByFieldName("right")),
		}
	case "prefix_unary_expression":
		return &cs.Unary{NodeInfo: info, Op: l.operator(node), X: l.expr(firstNamed(node))}
	case "postfix_unary_expression":
		op := l.operator(node)
		if op == "!" {
			// null-forgiving has no runtime effect
			return l.expr(firstNamed(node))
		}
		return &cs.Unary{NodeInfo: info, Op: op, X: l.expr(firstNamed(node)), Postfix: true}
	case "invocation_expression":
		fun := node.ChildByFieldName("function")
		if fun == nil {
			fun = firstNamed(node)
		}
		args := node.ChildByFieldName("arguments")
		if args == nil {
			args = childOfKind(node, "argument_list")
		}
		return &cs.Invocation{NodeInfo: info, Fun: l.expr(fun), Args: l.arguments(args)}
	case "member_access_expression":
		name := node.ChildByFieldName("name")
		if hasToken(node, "->") || name == nil || name.Kind() != "identifier" {
			return l.unknown(node)
		}
		return &cs.MemberAccess{NodeInfo: info, X: l.expr(node.ChildByFieldName("expression")), Name: l.text(name)}
	case "element_access_expression":
		subscript := node.ChildByFieldName("subscript")
		if subscript == nil {
			subscript = childOfKind(node, "bracketed_argument_list")
		}
		e := &cs.ElementAccess{NodeInfo: info, X: l.expr(node.ChildByFieldName("expression"))}
		for _, arg := range l.arguments(subscript) {
			e.Indices = append(e.Indices, arg.Value)
		}
		return e
	case "object_creation_expression":
		return l.objectCreation(node)
	case "array_creation_expression":
		return l.arrayCreation(node)
	case "implicit_array_creation_expression":
		return &cs.ArrayCreation{NodeInfo: info, Init: l.initializer(childOfKind(node, "initializer_expression"))}
	case "initializer_expression":
		return &cs.ArrayCreation{NodeInfo: info, Init: l.initializer(node)}
	case "lambda_expression":
		return l.lambda(node)
	case "anonymous_method_expression":
		return l.anonymousMethod(node)
	case "conditional_expression":
		return &cs.Conditional{
			NodeInfo: info,
			Cond:     l.expr(node.ChildByFieldName("condition")),
			Then:     l.expr(node.ChildByFieldName("consequence")),
			Else:     l.expr(node.ChildByFieldName("alternative")),
		}
	case "cast_expression":
		return &cs.Cast{NodeInfo: info, Type: l.typeRef(node.ChildByFieldName("type")), X: l.expr(node.ChildByFieldName("value"))}
	case "as_expression", "is_expression":
		op := strings.TrimSuffix(node.Kind(), "_expression")
		named := namedChildren(node)
		if len(named) != 2 {
			return l.unknown(node)
		}
		return &cs.TypeTest{NodeInfo: info, Op: op, X: l.expr(named[0]), Type: l.typeRef(named[1])}
	case "is_pattern_expression":
		return l.isPattern(node)
	case "typeof_expression":
		ty := node.ChildByFieldName("type")
		if ty == nil {
			ty = firstNamed(node)
		}
		return &cs.TypeOf{NodeInfo: info, Type: l.typeRef(ty)}
	case "throw_expression":
		return &cs.ThrowExpr{NodeInfo: info, Value: l.expr(firstNamed(node))}
	case "declaration_expression":
		name := node.ChildByFieldName("name")
		if name == nil {
			return l.unknown(node)
		}
		return &cs.DeclarationExpr{NodeInfo: info, Type: l.typeRef(node.ChildByFieldName("type")), Name: l.text(name)}
	default:
		return l.unknown(node)
	}
}

// operator returns the operator of a unary, binary or assignment node.
func (l *lowerer) operator(node *tree_sitter.Node) string {
	if op := node.ChildByFieldName("operator"); op != nil {
		return l.text(op)
	}
	op := ""
	IterateChildren(node, func(child *tree_sitter.Node) {
		if op == "" && !child.IsNamed() {
			op = l.text(child)
		}
	})
	return op
}

// qualified turns a dotted name in expression position into member accesses.
func (l *lowerer) qualified(node *tree_sitter.Node) cs.Expr {
	info := l.info(node)
	parts := strings.Split(strings.ReplaceAll(info.Text, " ", ""), ".")
	var x cs.Expr = &cs.Ident{NodeInfo: info, Name: parts[0]}
	for _, p := range parts[1:] {
		x = &cs.MemberAccess{NodeInfo: info, X: x, Name: p}
	}
	return x
}

func (l *lowerer) arguments(node *tree_sitter.Node) []*cs.Argument {
	if node == nil {
		return nil
	}
	var out []*cs.Argument
	IterateChildren(node, func(child *tree_sitter.Node) {
		if child.Kind() != "argument" {
			return
		}
		arg := &cs.Argument{NodeInfo: l.info(child)}
		var value *tree_sitter.Node
		IterateChildren(child, func(part *tree_sitter.Node) {
			switch {
			case part.Kind() == "name_colon":
				if id := firstNamed(part); id != nil {
					arg.Name = l.text(id)
				}
			case !part.IsNamed():
				switch part.Kind() {
				case "ref":
					arg.Modifier = cs.Ref
				case "out":
					arg.Modifier = cs.Out
				case "in":
					arg.Modifier = cs.In
				}
			case isComment(part):
			default:
				value = part
			}
		})
		if name := child.ChildByFieldName("name"); name != nil {
			arg.Name = l.text(name)
		}
		arg.Value = l.expr(value)
		out = append(out, arg)
	})
	return out
}

func (l *lowerer) initializer(node *tree_sitter.Node) []cs.Expr {
	if node == nil {
		return nil
	}
	var out []cs.Expr
	for _, child := range namedChildren(node) {
		out = append(out, l.expr(child))
	}
	return out
}

func (l *lowerer) objectCreation(node *tree_sitter.Node) cs.Expr {
	e := &cs.ObjectCreation{NodeInfo: l.info(node), Type: l.typeRef(node.ChildByFieldName("type"))}
	args := node.ChildByFieldName("arguments")
	if args == nil {
		args = childOfKind(node, "argument_list")
	}
	e.Args = l.arguments(args)
	init := node.ChildByFieldName("initializer")
	if init == nil {
		init = childOfKind(node, "initializer_expression")
	}
	e.Init = l.initializer(init)
	return e
}

func (l *lowerer) arrayCreation(node *tree_sitter.Node) cs.Expr {
	info := l.info(node)
	ty := node.ChildByFieldName("type")
	if ty == nil {
		ty = childOfKind(node, "array_type")
	}
	if ty == nil || ty.Kind() != "array_type" {
		return l.unknown(node)
	}
	e := &cs.ArrayCreation{NodeInfo: info, Elem: l.typeRef(ty.ChildByFieldName("type")), Rank: 1}
	if rank := ty.ChildByFieldName("rank"); rank != nil {
		e.Rank = strings.Count(l.text(rank), ",") + 1
		for _, size := range namedChildren(rank) {
			e.Lengths = append(e.Lengths, l.expr(size))
		}
	}
	e.Init = l.initializer(childOfKind(node, "initializer_expression"))
	return e
}

func (l *lowerer) lambda(node *tree_sitter.Node) cs.Expr {
	e := &cs.Lambda{NodeInfo: l.info(node)}
	IterateChildren(node, func(child *tree_sitter.Node) {
		if l.text(child) == "async" {
			e.Async = true
		}
	})
	params := node.ChildByFieldName("parameters")
	switch {
	case params == nil:
		return l.unknown(node)
	case params.Kind() == "parameter_list":
		e.Params = l.params(params)
	default:
		e.Params = []*cs.Param{{NodeInfo: l.info(params), Name: l.text(params)}}
	}
	body := node.ChildByFieldName("body")
	switch {
	case body == nil:
		return l.unknown(node)
	case body.Kind() == "block":
		e.Body = l.block(body)
	default:
		e.Body = l.expr(body)
	}
	return e
}

// anonymousMethod lowers `delegate (params) { ... }` to a lambda with a
// block body. Without a parameter list the delegate takes no parameters.
func (l *lowerer) anonymousMethod(node *tree_sitter.Node) cs.Expr {
	body := childOfKind(node, "block")
	if body == nil {
		return l.unknown(node)
	}
	e := &cs.Lambda{NodeInfo: l.info(node), Body: l.block(body)}
	if params := node.ChildByFieldName("parameters"); params != nil {
		e.Params = l.params(params)
	}
	for _, mod := range namedChildren(node) {
		if mod.Kind() == "modifier" && l.text(mod) == "async" {
			e.Async = true
		}
	}
	return e
}

// isPattern keeps the two pattern forms with a direct equivalent: a plain
// type test and a null check.
func (l *lowerer) isPattern(node *tree_sitter.Node) cs.Expr {
	info := l.info(node)
	x := node.ChildByFieldName("expression")
	pattern := node.ChildByFieldName("pattern")
	if x == nil || pattern == nil {
		return l.unknown(node)
	}
	if pattern.Kind() == "type_pattern" {
		pattern = firstNamed(pattern)
	}
	if pattern != nil && pattern.Kind() == "constant_pattern" {
		inner := firstNamed(pattern)
		if inner != nil && inner.Kind() == "null_literal" {
			return &cs.Binary{NodeInfo: info, Op: "==", Left: l.expr(x), Right: l.expr(inner)}
		}
		pattern = inner
	}
	if pattern == nil {
		return l.unknown(node)
	}
	switch pattern.Kind() {
	case "identifier", "qualified_name", "generic_name", "predefined_type", "array_type":
		return &cs.TypeTest{NodeInfo: info, Op: "is", X: l.expr(x), Type: l.typeRef(pattern)}
	}
	return l.unknown(node)
}
