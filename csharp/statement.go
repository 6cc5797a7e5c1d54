package csharp

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/heshanpadmasiri/csvb/cs"
)

func (l *lowerer) block(node *tree_sitter.Node) *cs.Block {
	b := &cs.Block{NodeInfo: l.info(node)}
	items, rest := l.sequence(node, func(child *tree_sitter.Node) []cs.Node {
		return []cs.Node{l.stmt(child)}
	})
	for _, item := range items {
		b.Stmts = append(b.Stmts, item.(cs.Stmt))
	}
	if len(rest) > 0 {
		b.Stmts = append(b.Stmts, &cs.EmptyStmt{NodeInfo: cs.NodeInfo{Leading: rest}})
	}
	return b
}

// embedded lowers the statement of an if, loop or else branch.
func (l *lowerer) embedded(node *tree_sitter.Node) cs.Stmt {
	if node == nil {
		return nil
	}
	if node.Kind() == "else_clause" {
		node = firstNamed(node)
		if node == nil {
			return nil
		}
	}
	if node.IsError() || node.IsMissing() {
		return l.unknown(node)
	}
	return l.stmt(node)
}

func (l *lowerer) stmt(node *tree_sitter.Node) cs.Stmt {
	info := l.info(node)
	switch node.Kind() {
	case "block":
		return l.block(node)
	case "expression_statement":
		x := firstNamed(node)
		if x == nil {
			return l.unknown(node)
		}
		e := l.expr(x)
		if resize := l.resize(e, info); resize != nil {
			return resize
		}
		return &cs.ExprStmt{NodeInfo: info, X: e}
	case "local_declaration_statement":
		if hasToken(node, "using") || hasToken(node, "await") {
			return l.unknown(node)
		}
		decl := l.varDecl(childOfKind(node, "variable_declaration"))
		if decl == nil {
			return l.unknown(node)
		}
		isConst := hasToken(node, "const") || l.modifiers(node).Has(cs.CONST)
		return &cs.LocalDecl{NodeInfo: info, Const: isConst, Decl: decl}
	case "return_statement":
		return &cs.ReturnStmt{NodeInfo: info, Value: l.optExpr(firstNamed(node))}
	case "throw_statement":
		return &cs.ThrowStmt{NodeInfo: info, Value: l.optExpr(firstNamed(node))}
	case "break_statement":
		return &cs.BreakStmt{NodeInfo: info}
	case "continue_statement":
		return &cs.ContinueStmt{NodeInfo: info}
	case "empty_statement":
		return &cs.EmptyStmt{NodeInfo: info}
	case "if_statement":
		return &cs.IfStmt{
			NodeInfo: info,
			Cond:     l.expr(node.ChildByFieldName("condition")),
			Then:     l.embedded(node.ChildByFieldName("consequence")),
			Else:     l.embedded(l.elseBranch(node)),
		}
	case "while_statement":
		return &cs.WhileStmt{
			NodeInfo: info,
			Cond:     l.expr(node.ChildByFieldName("condition")),
			Body:     l.embedded(node.ChildByFieldName("body")),
		}
	case "do_statement":
		return &cs.DoStmt{
			NodeInfo: info,
			Body:     l.embedded(node.ChildByFieldName("body")),
			Cond:     l.expr(node.ChildByFieldName("condition")),
		}
	case "for_statement":
		return l.forStmt(node)
	case "foreach_statement":
		return l.forEach(node)
	case "try_statement":
		return l.tryStmt(node)
	case "yield_statement":
		return &cs.YieldStmt{NodeInfo: info, Value: l.optExpr(firstNamed(node))}
	case "switch_statement":
		return l.switchStmt(node)
	default:
		return l.unknown(node)
	}
}

// elseBranch finds the else branch whether or not the grammar wraps it.
func (l *lowerer) elseBranch(node *tree_sitter.Node) *tree_sitter.Node {
	if alt := node.ChildByFieldName("alternative"); alt != nil {
		return alt
	}
	if clause := childOfKind(node, "else_clause"); clause != nil {
		return clause
	}
	return afterToken(node, "else")
}

func (l *lowerer) optExpr(node *tree_sitter.Node) cs.Expr {
	if node == nil {
		return nil
	}
	return l.expr(node)
}

// resize recognizes Array.Resize(ref a, n), which keeps the array contents.
func (l *lowerer) resize(e cs.Expr, info cs.NodeInfo) cs.Stmt {
	call, ok := e.(*cs.Invocation)
	if !ok || len(call.Args) != 2 || call.Args[0].Modifier != cs.Ref {
		return nil
	}
	fun, ok := call.Fun.(*cs.MemberAccess)
	if !ok || fun.Name != "Resize" {
		return nil
	}
	recv, ok := fun.X.(*cs.Ident)
	if !ok || recv.Name != "Array" {
		return nil
	}
	return &cs.ResizeStmt{NodeInfo: info, Target: call.Args[0].Value, Lengths: []cs.Expr{call.Args[1].Value}, Preserve: true}
}

func (l *lowerer) forStmt(node *tree_sitter.Node) cs.Stmt {
	s := &cs.ForStmt{NodeInfo: l.info(node)}
	for _, init := range fieldChildren(node, "initializer") {
		if init.Kind() == "variable_declaration" {
			s.Decl = l.varDecl(init)
			continue
		}
		if init.IsNamed() && !isComment(init) {
			s.Init = append(s.Init, l.expr(init))
		}
	}
	s.Cond = l.optExpr(node.ChildByFieldName("condition"))
	for _, update := range fieldChildren(node, "update") {
		if update.IsNamed() && !isComment(update) {
			s.Update = append(s.Update, l.expr(update))
		}
	}
	s.Body = l.embedded(node.ChildByFieldName("body"))
	return s
}

func (l *lowerer) forEach(node *tree_sitter.Node) cs.Stmt {
	if hasToken(node, "await") {
		return l.unknown(node)
	}
	left := node.ChildByFieldName("left")
	if left == nil || left.Kind() != "identifier" {
		return l.unknown(node)
	}
	return &cs.ForEachStmt{
		NodeInfo:   l.info(node),
		Type:       l.typeRef(node.ChildByFieldName("type")),
		Name:       l.text(left),
		Collection: l.expr(node.ChildByFieldName("right")),
		Body:       l.embedded(node.ChildByFieldName("body")),
	}
}

func (l *lowerer) tryStmt(node *tree_sitter.Node) cs.Stmt {
	s := &cs.TryStmt{NodeInfo: l.info(node)}
	if body := node.ChildByFieldName("body"); body != nil {
		s.Body = l.block(body)
	} else if body := childOfKind(node, "block"); body != nil {
		s.Body = l.block(body)
	}
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "catch_clause":
			if childOfKind(child, "catch_filter_clause") != nil {
				return l.unknown(node)
			}
			clause := &cs.CatchClause{NodeInfo: l.info(child)}
			if decl := childOfKind(child, "catch_declaration"); decl != nil {
				clause.Type = l.typeRef(decl.ChildByFieldName("type"))
				if name := decl.ChildByFieldName("name"); name != nil {
					clause.Name = l.text(name)
				}
			}
			if body := childOfKind(child, "block"); body != nil {
				clause.Body = l.block(body)
			}
			s.Catches = append(s.Catches, clause)
		case "finally_clause":
			if body := childOfKind(child, "block"); body != nil {
				s.Finally = l.block(body)
			}
		}
	}
	return s
}

// switchStmt lowers a switch over constant labels. Consecutive labels without
// statements share the next section. Pattern labels are not modelled.
func (l *lowerer) switchStmt(node *tree_sitter.Node) cs.Stmt {
	value := node.ChildByFieldName("value")
	body := node.ChildByFieldName("body")
	if value == nil || body == nil || value.Kind() == "tuple_expression" {
		return l.unknown(node)
	}
	s := &cs.SwitchStmt{NodeInfo: l.info(node), Value: l.expr(value)}
	supported := true
	items, rest := l.sequence(body, func(child *tree_sitter.Node) []cs.Node {
		section, ok := l.switchSection(child)
		if !ok {
			supported = false
			return nil
		}
		return []cs.Node{section}
	})
	if !supported {
		return l.unknown(node)
	}
	var labels []cs.Expr
	isDefault := false
	var leading []cs.Trivia
	for _, item := range items {
		section, ok := item.(*cs.SwitchSection)
		if !ok {
			return l.unknown(node)
		}
		labels = append(labels, section.Labels...)
		isDefault = isDefault || section.Default
		leading = append(leading, section.Leading...)
		if len(section.Stmts) == 0 {
			continue
		}
		section.Labels, section.Default, section.Leading = labels, isDefault, leading
		s.Sections = append(s.Sections, section)
		labels, isDefault, leading = nil, false, nil
	}
	if len(labels) > 0 || isDefault {
		s.Sections = append(s.Sections, &cs.SwitchSection{
			NodeInfo: cs.NodeInfo{Leading: leading},
			Labels:   labels,
			Default:  isDefault,
		})
	}
	if len(rest) > 0 && len(s.Sections) > 0 {
		last := s.Sections[len(s.Sections)-1]
		last.Stmts = append(last.Stmts, &cs.EmptyStmt{NodeInfo: cs.NodeInfo{Leading: rest}})
	}
	return s
}

// switchSection splits a section into the labels before its colon and the
// statements after it.
func (l *lowerer) switchSection(node *tree_sitter.Node) (*cs.SwitchSection, bool) {
	if node.Kind() != "switch_section" {
		return nil, false
	}
	section := &cs.SwitchSection{NodeInfo: l.info(node)}
	var colon uint
	ok := true
	IterateChildren(node, func(child *tree_sitter.Node) {
		if colon > 0 {
			return
		}
		switch kind := child.Kind(); {
		case kind == ":":
			colon = child.EndByte()
		case kind == "default":
			section.Default = true
		case !child.IsNamed() || isComment(child):
		case kind == "constant_pattern":
			section.Labels = append(section.Labels, l.expr(firstNamed(child)))
		case strings.HasSuffix(kind, "_pattern") || kind == "when_clause" || kind == "discard":
			ok = false
		default:
			section.Labels = append(section.Labels, l.expr(child))
		}
	})
	if !ok || colon == 0 {
		return nil, false
	}
	stmts, rest := l.sequence(node, func(child *tree_sitter.Node) []cs.Node {
		if child.StartByte() < colon {
			return nil
		}
		return []cs.Node{l.stmt(child)}
	})
	for _, stmt := range stmts {
		section.Stmts = append(section.Stmts, stmt.(cs.Stmt))
	}
	if len(rest) > 0 {
		section.Stmts = append(section.Stmts, &cs.EmptyStmt{NodeInfo: cs.NodeInfo{Leading: rest}})
	}
	return section, true
}
