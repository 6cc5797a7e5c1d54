package csharp

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	"go.uber.org/zap"

	"github.com/heshanpadmasiri/csvb/cs"
)

// lowerer holds state while lowering one syntax tree.
type lowerer struct {
	src          []byte
	log          *zap.Logger
	syntaxErrors int
}

// unknown records a construct the model has no shape for.
func (l *lowerer) unknown(node *tree_sitter.Node) *cs.Unknown {
	l.log.Debug("unmodelled construct", zap.String("kind", node.Kind()), zap.Uint("line", node.StartPosition().Row+1))
	return &cs.Unknown{NodeInfo: l.info(node), KindName: node.Kind()}
}

// sequence lowers the children of a list node in order and distributes the
// comments and blank lines between them onto the lowered items. A comment on
// the line an item ends on trails that item; other comments lead the next
// item. Trivia after the last item are returned.
func (l *lowerer) sequence(node *tree_sitter.Node, lower func(child *tree_sitter.Node) []cs.Node) ([]cs.Node, []cs.Trivia) {
	var items []cs.Node
	var pending []cs.Trivia
	lastRow := -1
	lastWasItem := false
	IterateChildren(node, func(child *tree_sitter.Node) {
		if !child.IsNamed() {
			return
		}
		start := int(child.StartPosition().Row)
		if lastRow >= 0 && start-lastRow > 1 && (len(items) > 0 || len(pending) > 0) {
			pending = append(pending, cs.Trivia{Kind: cs.BlankLine})
		}
		if isComment(child) {
			trivia := commentTrivia(l.text(child))
			if lastWasItem && start == lastRow && len(pending) == 0 {
				last := items[len(items)-1].Info()
				last.Trailing = append(last.Trailing, trivia)
			} else {
				pending = append(pending, trivia)
			}
			lastRow = int(child.EndPosition().Row)
			lastWasItem = false
			return
		}
		if strings.HasPrefix(child.Kind(), "preproc") {
			l.log.Debug("dropping preprocessor directive", zap.String("text", l.text(child)))
			return
		}
		out := l.lowerChecked(child, lower)
		if len(out) == 0 {
			return
		}
		first := out[0].Info()
		first.Leading = append(pending, first.Leading...)
		pending = nil
		items = append(items, out...)
		lastRow = int(child.EndPosition().Row)
		lastWasItem = true
	})
	return items, pending
}

func (l *lowerer) lowerChecked(child *tree_sitter.Node, lower func(child *tree_sitter.Node) []cs.Node) []cs.Node {
	if child.IsError() || child.IsMissing() {
		return []cs.Node{l.unknown(child)}
	}
	return lower(child)
}

func (l *lowerer) unit(root *tree_sitter.Node) *cs.CompilationUnit {
	unit := &cs.CompilationUnit{NodeInfo: l.info(root)}
	unit.Text = ""
	if root.HasError() {
		l.countErrors(root)
	}
	items, rest := l.sequence(root, l.topLevel)
	unit.Usings, unit.Members = splitUsings(items)
	if len(unit.Usings) > 0 {
		unit.Leading = unit.Usings[0].Leading
		unit.Usings[0].Leading = nil
	}
	unit.Trailing = rest
	return unit
}

func (l *lowerer) countErrors(node *tree_sitter.Node) {
	IterateChildren(node, func(child *tree_sitter.Node) {
		if child.IsError() || child.IsMissing() {
			l.syntaxErrors++
			return
		}
		if child.HasError() {
			l.countErrors(child)
		}
	})
}

func splitUsings(items []cs.Node) ([]*cs.UsingDirective, []cs.Member) {
	var usings []*cs.UsingDirective
	var members []cs.Member
	for _, item := range items {
		switch n := item.(type) {
		case *cs.UsingDirective:
			usings = append(usings, n)
		case cs.Member:
			members = append(members, n)
		}
	}
	return usings, members
}

func (l *lowerer) topLevel(node *tree_sitter.Node) []cs.Node {
	switch node.Kind() {
	case "using_directive":
		return []cs.Node{l.using(node)}
	case "extern_alias_directive":
		return nil
	case "file_scoped_namespace_declaration":
		return []cs.Node{l.namespace(node, node)}
	}
	return l.member(node)
}

func (l *lowerer) using(node *tree_sitter.Node) *cs.UsingDirective {
	u := &cs.UsingDirective{NodeInfo: l.info(node), Static: hasToken(node, "static")}
	named := namedChildren(node)
	if eq := childOfKind(node, "name_equals"); eq != nil {
		u.Alias = strings.TrimSpace(strings.TrimSuffix(l.text(eq), "="))
	} else if hasToken(node, "=") && len(named) > 1 {
		u.Alias = l.text(named[0])
	}
	if len(named) > 0 {
		u.Name = l.text(named[len(named)-1])
	}
	return u
}

func (l *lowerer) namespace(node, body *tree_sitter.Node) *cs.NamespaceDecl {
	ns := &cs.NamespaceDecl{NodeInfo: l.info(node)}
	if name := node.ChildByFieldName("name"); name != nil {
		ns.Name = l.text(name)
	}
	if b := node.ChildByFieldName("body"); b != nil {
		body = b
	}
	items, rest := l.sequence(body, func(child *tree_sitter.Node) []cs.Node {
		if child.Kind() == "using_directive" {
			return []cs.Node{l.using(child)}
		}
		switch child.Kind() {
		case "identifier", "qualified_name":
			return nil
		}
		return l.member(child)
	})
	ns.Usings, ns.Members = splitUsings(items)
	attachRest(ns.Members, rest)
	return ns
}

// attachRest puts trivia left at the end of a member list on its last member.
func attachRest(members []cs.Member, rest []cs.Trivia) {
	if len(members) == 0 || len(rest) == 0 {
		return
	}
	last := members[len(members)-1].Info()
	last.Trailing = append(last.Trailing, rest...)
}

func (l *lowerer) modifiers(node *tree_sitter.Node) cs.Modifiers {
	var words []string
	IterateChildren(node, func(child *tree_sitter.Node) {
		if child.Kind() == "modifier" {
			words = append(words, l.text(child))
		}
	})
	return cs.ParseModifiers(strings.Join(words, " "))
}

func (l *lowerer) member(node *tree_sitter.Node) []cs.Node {
	switch node.Kind() {
	case "namespace_declaration":
		return []cs.Node{l.namespace(node, node)}
	case "class_declaration", "struct_declaration", "interface_declaration":
		return []cs.Node{l.typeDecl(node)}
	case "enum_declaration":
		return []cs.Node{l.enum(node)}
	case "field_declaration":
		decl := l.varDecl(childOfKind(node, "variable_declaration"))
		if decl == nil {
			return []cs.Node{l.unknown(node)}
		}
		return []cs.Node{&cs.FieldDecl{NodeInfo: l.info(node), Modifiers: l.modifiers(node) | l.constModifier(node), Decl: decl}}
	case "method_declaration":
		return []cs.Node{l.method(node)}
	case "constructor_declaration":
		return []cs.Node{l.constructor(node)}
	case "property_declaration":
		return []cs.Node{l.property(node)}
	case "indexer_declaration":
		return []cs.Node{l.indexer(node)}
	default:
		return []cs.Node{l.unknown(node)}
	}
}

// constModifier picks up const written as a bare token.
func (l *lowerer) constModifier(node *tree_sitter.Node) cs.Modifiers {
	if hasToken(node, "const") {
		return cs.CONST
	}
	return 0
}

func (l *lowerer) typeDecl(node *tree_sitter.Node) cs.Node {
	decl := &cs.TypeDecl{NodeInfo: l.info(node), Modifiers: l.modifiers(node)}
	switch node.Kind() {
	case "struct_declaration":
		decl.Keyword = cs.Struct
	case "interface_declaration":
		decl.Keyword = cs.Interface
	}
	if name := node.ChildByFieldName("name"); name != nil {
		decl.Name = l.text(name)
	}
	if params := childOfKind(node, "type_parameter_list"); params != nil {
		for _, p := range namedChildren(params) {
			if name := p.ChildByFieldName("name"); name != nil {
				decl.TypeArgs = append(decl.TypeArgs, l.text(name))
			} else {
				decl.TypeArgs = append(decl.TypeArgs, l.text(p))
			}
		}
	}
	if bases := childOfKind(node, "base_list"); bases != nil {
		decl.Bases = l.baseList(bases)
	}
	body := node.ChildByFieldName("body")
	if body == nil {
		body = childOfKind(node, "declaration_list")
	}
	if body != nil {
		items, rest := l.sequence(body, l.member)
		for _, item := range items {
			if m, ok := item.(cs.Member); ok {
				decl.Members = append(decl.Members, m)
			}
		}
		attachRest(decl.Members, rest)
	}
	return decl
}

func (l *lowerer) baseList(node *tree_sitter.Node) []*cs.TypeRef {
	var out []*cs.TypeRef
	for _, child := range namedChildren(node) {
		if child.Kind() == "argument_list" {
			continue
		}
		if child.Kind() == "primary_constructor_base_type" {
			child = firstNamed(child)
		}
		if ty := l.typeRef(child); ty != nil {
			out = append(out, ty)
		}
	}
	return out
}

func (l *lowerer) enum(node *tree_sitter.Node) cs.Node {
	decl := &cs.EnumDecl{NodeInfo: l.info(node), Modifiers: l.modifiers(node)}
	if name := node.ChildByFieldName("name"); name != nil {
		decl.Name = l.text(name)
	}
	if bases := childOfKind(node, "base_list"); bases != nil {
		if types := l.baseList(bases); len(types) > 0 {
			decl.Base = types[0]
		}
	}
	body := node.ChildByFieldName("body")
	if body == nil {
		body = childOfKind(node, "enum_member_declaration_list")
	}
	if body == nil {
		return decl
	}
	items, rest := l.sequence(body, func(child *tree_sitter.Node) []cs.Node {
		if child.Kind() != "enum_member_declaration" {
			return nil
		}
		m := &cs.EnumMember{NodeInfo: l.info(child)}
		if name := child.ChildByFieldName("name"); name != nil {
			m.Name = l.text(name)
		}
		if value := child.ChildByFieldName("value"); value != nil {
			m.Value = l.expr(value)
		} else if value := afterToken(child, "="); value != nil {
			m.Value = l.expr(value)
		}
		return []cs.Node{m}
	})
	for _, item := range items {
		decl.Members = append(decl.Members, item.(*cs.EnumMember))
	}
	if len(decl.Members) > 0 && len(rest) > 0 {
		last := decl.Members[len(decl.Members)-1]
		last.Trailing = append(last.Trailing, rest...)
	}
	return decl
}

func (l *lowerer) varDecl(node *tree_sitter.Node) *cs.VarDecl {
	if node == nil {
		return nil
	}
	decl := &cs.VarDecl{NodeInfo: l.info(node), Type: l.typeRef(node.ChildByFieldName("type"))}
	IterateChildren(node, func(child *tree_sitter.Node) {
		if child.Kind() != "variable_declarator" {
			return
		}
		d := &cs.Declarator{NodeInfo: l.info(child)}
		if name := child.ChildByFieldName("name"); name != nil {
			d.Name = l.text(name)
		} else if id := childOfKind(child, "identifier"); id != nil {
			d.Name = l.text(id)
		}
		if eq := childOfKind(child, "equals_value_clause"); eq != nil {
			d.Init = l.expr(firstNamed(eq))
		} else if init := afterToken(child, "="); init != nil {
			d.Init = l.expr(init)
		}
		decl.Declarators = append(decl.Declarators, d)
	})
	if len(decl.Declarators) == 0 {
		return nil
	}
	return decl
}

func (l *lowerer) params(node *tree_sitter.Node) []*cs.Param {
	if node == nil {
		return nil
	}
	var out []*cs.Param
	IterateChildren(node, func(child *tree_sitter.Node) {
		switch child.Kind() {
		case "parameter", "parameter_array":
			out = append(out, l.param(child))
		}
	})
	return out
}

func (l *lowerer) param(node *tree_sitter.Node) *cs.Param {
	p := &cs.Param{NodeInfo: l.info(node), Type: l.typeRef(node.ChildByFieldName("type"))}
	if name := node.ChildByFieldName("name"); name != nil {
		p.Name = l.text(name)
	}
	if node.Kind() == "parameter_array" {
		p.Modifier = cs.Params
		if p.Type == nil {
			for _, child := range namedChildren(node) {
				if child.Kind() != "identifier" || l.text(child) != p.Name {
					p.Type = l.typeRef(child)
					break
				}
			}
		}
	}
	IterateChildren(node, func(child *tree_sitter.Node) {
		switch l.text(child) {
		case "ref":
			p.Modifier = cs.Ref
		case "out":
			p.Modifier = cs.Out
		case "in":
			p.Modifier = cs.In
		case "params":
			p.Modifier = cs.Params
		}
	})
	if def := afterToken(node, "="); def != nil {
		p.Default = l.expr(def)
	} else if eq := childOfKind(node, "equals_value_clause"); eq != nil {
		p.Default = l.expr(firstNamed(eq))
	}
	return p
}

// body returns the block or arrow expression of a function-like member.
func (l *lowerer) body(node *tree_sitter.Node) (*cs.Block, cs.Expr) {
	if b := childOfKind(node, "block"); b != nil {
		return l.block(b), nil
	}
	if arrow := childOfKind(node, "arrow_expression_clause"); arrow != nil {
		return nil, l.expr(firstNamed(arrow))
	}
	return nil, nil
}

func (l *lowerer) method(node *tree_sitter.Node) cs.Node {
	m := &cs.MethodDecl{NodeInfo: l.info(node), Modifiers: l.modifiers(node)}
	returns := node.ChildByFieldName("returns")
	if returns == nil {
		returns = node.ChildByFieldName("type")
	}
	m.ReturnType = l.typeRef(returns)
	if name := node.ChildByFieldName("name"); name != nil {
		m.Name = l.text(name)
	}
	if childOfKind(node, "explicit_interface_specifier") != nil {
		return l.unknown(node)
	}
	if params := childOfKind(node, "type_parameter_list"); params != nil {
		for _, p := range namedChildren(params) {
			m.TypeArgs = append(m.TypeArgs, l.text(p))
		}
	}
	m.Params = l.params(node.ChildByFieldName("parameters"))
	m.Body, m.ExprBody = l.body(node)
	return m
}

func (l *lowerer) constructor(node *tree_sitter.Node) cs.Node {
	c := &cs.ConstructorDecl{NodeInfo: l.info(node), Modifiers: l.modifiers(node)}
	if name := node.ChildByFieldName("name"); name != nil {
		c.Name = l.text(name)
	}
	c.Params = l.params(node.ChildByFieldName("parameters"))
	if init := childOfKind(node, "constructor_initializer"); init != nil {
		c.Initializer = &cs.ConstructorInitializer{
			NodeInfo: l.info(init),
			Base:     hasToken(init, "base"),
			Args:     l.arguments(childOfKind(init, "argument_list")),
		}
	}
	var exprBody cs.Expr
	c.Body, exprBody = l.body(node)
	if exprBody != nil {
		c.Body = &cs.Block{NodeInfo: *exprBody.Info(), Stmts: []cs.Stmt{&cs.ExprStmt{NodeInfo: *exprBody.Info(), X: exprBody}}}
	}
	return c
}

func (l *lowerer) accessors(node *tree_sitter.Node) (getter, setter *cs.Accessor, ok bool) {
	list := childOfKind(node, "accessor_list")
	if list == nil {
		return nil, nil, true
	}
	ok = true
	IterateChildren(list, func(child *tree_sitter.Node) {
		if child.Kind() != "accessor_declaration" {
			return
		}
		a := &cs.Accessor{NodeInfo: l.info(child), Modifiers: l.modifiers(child)}
		a.Body, a.ExprBody = l.body(child)
		keyword := ""
		if name := child.ChildByFieldName("name"); name != nil {
			keyword = l.text(name)
		} else {
			IterateChildren(child, func(tok *tree_sitter.Node) {
				switch tok.Kind() {
				case "get", "set", "init", "add", "remove":
					keyword = tok.Kind()
				}
			})
		}
		switch keyword {
		case "get":
			getter = a
		case "set":
			setter = a
		default:
			ok = false
		}
	})
	return getter, setter, ok
}

func (l *lowerer) property(node *tree_sitter.Node) cs.Node {
	p := &cs.PropertyDecl{NodeInfo: l.info(node), Modifiers: l.modifiers(node), Type: l.typeRef(node.ChildByFieldName("type"))}
	if name := node.ChildByFieldName("name"); name != nil {
		p.Name = l.text(name)
	}
	if childOfKind(node, "explicit_interface_specifier") != nil {
		return l.unknown(node)
	}
	var ok bool
	p.Getter, p.Setter, ok = l.accessors(node)
	if !ok {
		return l.unknown(node)
	}
	if arrow := childOfKind(node, "arrow_expression_clause"); arrow != nil {
		p.ExprBody = l.expr(firstNamed(arrow))
	} else if value := node.ChildByFieldName("value"); value != nil {
		p.Init = l.expr(value)
	} else if value := afterToken(node, "="); value != nil {
		p.Init = l.expr(value)
	}
	return p
}

func (l *lowerer) indexer(node *tree_sitter.Node) cs.Node {
	ix := &cs.IndexerDecl{NodeInfo: l.info(node), Modifiers: l.modifiers(node), Type: l.typeRef(node.ChildByFieldName("type"))}
	params := node.ChildByFieldName("parameters")
	if params == nil {
		params = childOfKind(node, "bracketed_parameter_list")
	}
	ix.Params = l.params(params)
	var ok bool
	ix.Getter, ix.Setter, ok = l.accessors(node)
	if !ok {
		return l.unknown(node)
	}
	if arrow := childOfKind(node, "arrow_expression_clause"); arrow != nil {
		ix.ExprBody = l.expr(firstNamed(arrow))
	}
	return ix
}

// typeRef lowers a type as written. It returns nil for a nil node.
func (l *lowerer) typeRef(node *tree_sitter.Node) *cs.TypeRef {
	if node == nil {
		return nil
	}
	t := &cs.TypeRef{NodeInfo: l.info(node)}
	switch node.Kind() {
	case "implicit_type":
		t.Name = "var"
	case "array_type":
		t.Elem = l.typeRef(node.ChildByFieldName("type"))
		t.Rank = 1
		if rank := node.ChildByFieldName("rank"); rank != nil {
			t.Rank = strings.Count(l.text(rank), ",") + 1
		}
	case "nullable_type":
		inner := l.typeRef(node.ChildByFieldName("type"))
		if inner == nil {
			inner = l.typeRef(firstNamed(node))
		}
		if inner != nil {
			*t = *inner
		}
		t.NodeInfo = l.info(node)
		t.Nullable = true
	case "generic_name":
		l.genericName(node, "", t)
	case "qualified_name":
		name := node.ChildByFieldName("name")
		qualifier := node.ChildByFieldName("qualifier")
		if name != nil && qualifier != nil && name.Kind() == "generic_name" {
			l.genericName(name, l.text(qualifier)+".", t)
		} else {
			t.Name = l.text(node)
		}
	default:
		t.Name = l.text(node)
	}
	return t
}

func (l *lowerer) genericName(node *tree_sitter.Node, prefix string, t *cs.TypeRef) {
	if id := childOfKind(node, "identifier"); id != nil {
		t.Name = prefix + l.text(id)
	}
	if args := childOfKind(node, "type_argument_list"); args != nil {
		for _, a := range namedChildren(args) {
			t.Args = append(t.Args, l.typeRef(a))
		}
	}
}
