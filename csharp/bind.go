package csharp

import (
	"strings"

	"github.com/heshanpadmasiri/csvb/cs"
	"github.com/heshanpadmasiri/csvb/semantic"
)

// typeInfo is what the binder knows about a type declared in the unit.
type typeInfo struct {
	sym     *semantic.Symbol
	decl    *cs.TypeDecl
	members map[string][]*semantic.Symbol
}

type binder struct {
	table *semantic.Table
	types map[string]*typeInfo
	// duplicates holds simple names declared by more than one type.
	duplicates map[string]bool
	constants  map[*semantic.Symbol]any
	scopes     []map[string]*semantic.Symbol
	enclosing  []*typeInfo
	// returns holds the expected return type of each function being bound.
	returns []*semantic.Type
}

// Bind resolves names and types in a lowered unit. Only declarations in the
// unit are known; members of referenced libraries resolve through a small
// set of well-known shapes or stay unresolved.
func Bind(unit *cs.CompilationUnit) *semantic.Table {
	b := &binder{
		table:     semantic.NewTable(),
		types:     make(map[string]*typeInfo),
		constants: make(map[*semantic.Symbol]any),
	}
	b.declareAll(unit.Members, nil, nil, "")
	b.bindMembers(unit.Members)
	b.bindTypeRefs(unit)
	return b.table
}

// bindTypeRefs binds every written named type that refers to exactly one
// type declared in the unit.
func (b *binder) bindTypeRefs(unit *cs.CompilationUnit) {
	cs.Inspect(unit, func(n cs.Node) bool {
		t, ok := n.(*cs.TypeRef)
		if !ok || t.Rank > 0 {
			return true
		}
		if _, bound := b.table.SymbolFor(t); bound {
			return true
		}
		if sym := b.sourceType(t.Name); sym != nil {
			b.table.Bind(t, sym)
		}
		return true
	})
}

// sourceType finds the unit's type declaration a written name refers to.
// A qualified name must agree with the declaration's namespace.
func (b *binder) sourceType(written string) *semantic.Symbol {
	written = strings.TrimPrefix(written, "global::")
	name := written[strings.LastIndex(written, ".")+1:]
	info, ok := b.types[name]
	if !ok || b.duplicates[name] {
		return nil
	}
	if written != name {
		q := info.sym.QualifiedName()
		if q != written && !strings.HasSuffix(q, "."+written) {
			return nil
		}
	}
	return info.sym
}

func accessOf(mods cs.Modifiers, outer *typeInfo, isType bool) semantic.Accessibility {
	switch {
	case outer != nil && outer.sym.Interface:
		return semantic.Public
	case mods.Has(cs.PUBLIC):
		return semantic.Public
	case mods.Has(cs.PROTECTED | cs.INTERNAL):
		return semantic.ProtectedInternal
	case mods.Has(cs.PRIVATE | cs.PROTECTED):
		return semantic.PrivateProtected
	case mods.Has(cs.PROTECTED):
		return semantic.Protected
	case mods.Has(cs.INTERNAL):
		return semantic.Internal
	case mods.Has(cs.PRIVATE):
		return semantic.Private
	case isType && outer == nil:
		return semantic.Internal
	default:
		return semantic.Private
	}
}

func (b *binder) declareAll(members []cs.Member, container *semantic.Symbol, outer *typeInfo, namespace string) {
	for _, m := range members {
		b.declare(m, container, outer, namespace)
	}
}

func (b *binder) declareType(name string, node cs.Node, decl *cs.TypeDecl, mods cs.Modifiers, container *semantic.Symbol, outer *typeInfo) *typeInfo {
	sym := &semantic.Symbol{
		Name:      name,
		Kind:      semantic.TypeSymbol,
		Access:    accessOf(mods, outer, true),
		Container: container,
		Static:    mods.Has(cs.STATIC),
		Interface: decl != nil && decl.Keyword == cs.Interface,
		InSource:  true,
	}
	info := &typeInfo{sym: sym, decl: decl, members: make(map[string][]*semantic.Symbol)}
	b.table.Bind(node, sym)
	if _, seen := b.types[name]; !seen {
		b.types[name] = info
	} else {
		if b.duplicates == nil {
			b.duplicates = make(map[string]bool)
		}
		b.duplicates[name] = true
	}
	if outer != nil {
		outer.add(sym)
	}
	return info
}

func (t *typeInfo) add(sym *semantic.Symbol) {
	t.members[sym.Name] = append(t.members[sym.Name], sym)
}

func (b *binder) member(kind semantic.SymbolKind, name string, mods cs.Modifiers, outer *typeInfo) *semantic.Symbol {
	sym := &semantic.Symbol{
		Name:     name,
		Kind:     kind,
		Access:   accessOf(mods, outer, false),
		Static:   mods.Has(cs.STATIC) || mods.Has(cs.CONST),
		Override: mods.Has(cs.OVERRIDE),
		InSource: true,
	}
	if outer != nil {
		sym.Container = outer.sym
		outer.add(sym)
	}
	return sym
}

func (b *binder) declare(m cs.Member, container *semantic.Symbol, outer *typeInfo, namespace string) {
	switch m := m.(type) {
	case *cs.NamespaceDecl:
		sym := &semantic.Symbol{Name: m.Name, Kind: semantic.NamespaceSymbol, Container: container, InSource: true}
		b.table.Bind(m, sym)
		b.declareAll(m.Members, sym, nil, sym.QualifiedName())
	case *cs.TypeDecl:
		info := b.declareType(m.Name, m, m, m.Modifiers, container, outer)
		info.sym.Type = &semantic.Type{Name: m.Name, Namespace: namespace}
		b.declareAll(m.Members, info.sym, info, namespace)
	case *cs.EnumDecl:
		info := b.declareType(m.Name, m, nil, m.Modifiers, container, outer)
		enumType := &semantic.Type{Name: m.Name, Namespace: namespace}
		info.sym.Type = enumType
		for _, em := range m.Members {
			sym := &semantic.Symbol{Name: em.Name, Kind: semantic.EnumMemberSymbol, Access: semantic.Public, Container: info.sym, Type: enumType, Static: true, InSource: true}
			info.add(sym)
			b.table.Bind(em, sym)
		}
	case *cs.FieldDecl:
		if m.Decl == nil {
			return
		}
		ty := b.resolveType(m.Decl.Type)
		for _, d := range m.Decl.Declarators {
			sym := b.member(semantic.FieldSymbol, d.Name, m.Modifiers, outer)
			sym.Type = ty
			b.table.Bind(d, sym)
		}
	case *cs.MethodDecl:
		sym := b.member(semantic.MethodSymbol, m.Name, m.Modifiers, outer)
		sym.Type = b.resolveType(m.ReturnType)
		sym.Params = b.paramTypes(m.Params)
		b.table.Bind(m, sym)
	case *cs.ConstructorDecl:
		name := m.Name
		if outer != nil {
			name = outer.sym.Name
		}
		sym := b.member(semantic.ConstructorSymbol, name, m.Modifiers, nil)
		if outer != nil {
			sym.Container = outer.sym
			sym.Access = accessOf(m.Modifiers, outer, false)
		}
		sym.Params = b.paramTypes(m.Params)
		b.table.Bind(m, sym)
	case *cs.PropertyDecl:
		sym := b.member(semantic.PropertySymbol, m.Name, m.Modifiers, outer)
		sym.Type = b.resolveType(m.Type)
		b.table.Bind(m, sym)
	case *cs.IndexerDecl:
		sym := b.member(semantic.IndexerSymbol, "this", m.Modifiers, outer)
		sym.Type = b.resolveType(m.Type)
		sym.Params = b.paramTypes(m.Params)
		b.table.Bind(m, sym)
	}
}

func (b *binder) paramTypes(params []*cs.Param) []*semantic.Type {
	out := make([]*semantic.Type, len(params))
	for i, p := range params {
		out[i] = b.resolveType(p.Type)
	}
	return out
}

var frameworkAliases = map[string]string{
	"String": "string", "Int32": "int", "Int64": "long", "Int16": "short",
	"UInt32": "uint", "UInt64": "ulong", "UInt16": "ushort", "Byte": "byte",
	"SByte": "sbyte", "Boolean": "bool", "Char": "char", "Double": "double",
	"Single": "float", "Decimal": "decimal", "Object": "object",
}

// resolveType turns a written type into a semantic type. void and var give
// nil.
func (b *binder) resolveType(t *cs.TypeRef) *semantic.Type {
	if t == nil || t.IsVoid() || t.IsVar() {
		return nil
	}
	if t.Rank > 0 {
		return semantic.ArrayOf(b.resolveType(t.Elem), t.Rank)
	}
	name := strings.TrimPrefix(t.Name, "System.")
	if alias, ok := frameworkAliases[name]; ok {
		name = alias
	}
	out := &semantic.Type{Name: name, Nullable: t.Nullable}
	if info, ok := b.types[name]; ok && info.sym.Type != nil {
		out.Namespace = info.sym.Type.Namespace
	}
	for _, arg := range t.Args {
		out.Args = append(out.Args, b.resolveType(arg))
	}
	return out
}

func (b *binder) pushScope() {
	b.scopes = append(b.scopes, make(map[string]*semantic.Symbol))
}

func (b *binder) popScope() {
	b.scopes = b.scopes[:len(b.scopes)-1]
}

func (b *binder) local(kind semantic.SymbolKind, name string, ty *semantic.Type, node cs.Node) *semantic.Symbol {
	sym := &semantic.Symbol{Name: name, Kind: kind, Type: ty, InSource: true}
	if len(b.enclosing) > 0 {
		sym.Container = b.enclosing[len(b.enclosing)-1].sym
	}
	if node != nil {
		b.table.Bind(node, sym)
	}
	if len(b.scopes) == 0 {
		b.pushScope()
	}
	b.scopes[len(b.scopes)-1][name] = sym
	return sym
}

// baseOf returns the source-declared class a type inherits from, if any.
func (b *binder) baseOf(info *typeInfo) *typeInfo {
	if info == nil || info.decl == nil || info.decl.Keyword != cs.Class {
		return nil
	}
	for _, base := range info.decl.Bases {
		if other, ok := b.types[base.Name]; ok && !other.sym.Interface && other != info {
			return other
		}
	}
	return nil
}

// memberOf finds a member on a type or its source base classes. With
// methods set only methods match; otherwise methods are skipped.
func (b *binder) memberOf(info *typeInfo, name string, methods bool, argc int) *semantic.Symbol {
	for depth := 0; info != nil && depth < 32; depth++ {
		var fallback *semantic.Symbol
		for _, sym := range info.members[name] {
			if (sym.Kind == semantic.MethodSymbol) != methods {
				continue
			}
			if !methods || len(sym.Params) == argc {
				return sym
			}
			if fallback == nil {
				fallback = sym
			}
		}
		if fallback != nil {
			return fallback
		}
		info = b.baseOf(info)
	}
	return nil
}

// lookup resolves a simple name: locals and parameters first, then members
// of the enclosing types, then type names.
func (b *binder) lookup(name string, methods bool, argc int) *semantic.Symbol {
	if !methods {
		for i := len(b.scopes) - 1; i >= 0; i-- {
			if sym, ok := b.scopes[i][name]; ok {
				return sym
			}
		}
	}
	for i := len(b.enclosing) - 1; i >= 0; i-- {
		if sym := b.memberOf(b.enclosing[i], name, methods, argc); sym != nil {
			return sym
		}
	}
	if info, ok := b.types[name]; ok && !methods {
		return info.sym
	}
	return nil
}

func (b *binder) typeInfoOf(t *semantic.Type) *typeInfo {
	if t == nil || t.IsArray() {
		return nil
	}
	return b.types[t.Name]
}

func (b *binder) current() *typeInfo {
	if len(b.enclosing) == 0 {
		return nil
	}
	return b.enclosing[len(b.enclosing)-1]
}

func (b *binder) bindMembers(members []cs.Member) {
	for _, m := range members {
		b.bindMember(m)
	}
}

func (b *binder) bindMember(m cs.Member) {
	switch m := m.(type) {
	case *cs.NamespaceDecl:
		b.bindMembers(m.Members)
	case *cs.TypeDecl:
		info := b.typeInfoFor(m)
		for _, base := range m.Bases {
			if other, ok := b.types[base.Name]; ok {
				b.table.Bind(base, other.sym)
			}
		}
		b.enclosing = append(b.enclosing, info)
		// constants first so later members can fold them
		var rest []cs.Member
		for _, member := range m.Members {
			if f, ok := member.(*cs.FieldDecl); ok && f.Modifiers.Has(cs.CONST) {
				b.bindMember(f)
				continue
			}
			rest = append(rest, member)
		}
		b.bindMembers(rest)
		b.enclosing = b.enclosing[:len(b.enclosing)-1]
	case *cs.EnumDecl:
		for _, em := range m.Members {
			if em.Value != nil {
				b.expr(em.Value, nil)
			}
		}
	case *cs.FieldDecl:
		if m.Decl == nil {
			return
		}
		ty := b.resolveType(m.Decl.Type)
		for _, d := range m.Decl.Declarators {
			if d.Init == nil {
				continue
			}
			b.expr(d.Init, ty)
			if m.Modifiers.Has(cs.CONST) {
				b.recordConstant(d, d.Init)
			}
		}
	case *cs.MethodDecl:
		ret := b.resolveType(m.ReturnType)
		b.function(m.Params, ret, m.Body, m.ExprBody)
	case *cs.ConstructorDecl:
		b.pushScope()
		b.declareParams(m.Params)
		if m.Initializer != nil {
			b.arguments(m.Initializer.Args, nil)
		}
		b.function(nil, nil, m.Body, nil)
		b.popScope()
	case *cs.PropertyDecl:
		ty := b.resolveType(m.Type)
		b.accessors(nil, ty, m.Getter, m.Setter, m.ExprBody)
		if m.Init != nil {
			b.expr(m.Init, ty)
		}
	case *cs.IndexerDecl:
		b.accessors(m.Params, b.resolveType(m.Type), m.Getter, m.Setter, m.ExprBody)
	}
}

func (b *binder) typeInfoFor(decl *cs.TypeDecl) *typeInfo {
	sym, _ := b.table.SymbolFor(decl)
	if info, ok := b.types[decl.Name]; ok && info.sym == sym {
		return info
	}
	// a second type with the same simple name
	info := &typeInfo{sym: sym, decl: decl, members: make(map[string][]*semantic.Symbol)}
	for _, m := range decl.Members {
		if s, ok := b.table.SymbolFor(m); ok {
			info.add(s)
		}
	}
	return info
}

func (b *binder) recordConstant(d *cs.Declarator, init cs.Expr) {
	sym, ok := b.table.SymbolFor(d)
	if !ok {
		return
	}
	if v, ok := b.table.ConstantValue(init); ok {
		b.constants[sym] = v
	}
}

func (b *binder) declareParams(params []*cs.Param) {
	for _, p := range params {
		ty := b.resolveType(p.Type)
		if p.Modifier == cs.Params && ty == nil {
			ty = semantic.ArrayOf(semantic.Object, 1)
		}
		b.local(semantic.ParameterSymbol, p.Name, ty, p)
		if p.Default != nil {
			b.expr(p.Default, ty)
		}
	}
}

// function binds a body with its own parameter scope and return type.
func (b *binder) function(params []*cs.Param, ret *semantic.Type, body *cs.Block, exprBody cs.Expr) {
	b.pushScope()
	defer b.popScope()
	b.declareParams(params)
	b.returns = append(b.returns, ret)
	defer func() { b.returns = b.returns[:len(b.returns)-1] }()
	if body != nil {
		b.block(body)
	}
	if exprBody != nil {
		b.expr(exprBody, ret)
	}
}

func (b *binder) accessors(params []*cs.Param, ty *semantic.Type, getter, setter *cs.Accessor, exprBody cs.Expr) {
	b.pushScope()
	defer b.popScope()
	b.declareParams(params)
	if exprBody != nil {
		b.function(nil, ty, nil, exprBody)
	}
	if getter != nil {
		b.function(nil, ty, getter.Body, getter.ExprBody)
	}
	if setter != nil {
		b.pushScope()
		b.local(semantic.ParameterSymbol, "value", ty, nil)
		b.function(nil, nil, setter.Body, setter.ExprBody)
		b.popScope()
	}
}

func (b *binder) block(block *cs.Block) {
	if block == nil {
		return
	}
	b.pushScope()
	defer b.popScope()
	for _, s := range block.Stmts {
		b.stmt(s)
	}
}

// embedded binds a branch or loop body in its own scope.
func (b *binder) embedded(s cs.Stmt) {
	if s == nil {
		return
	}
	b.pushScope()
	b.stmt(s)
	b.popScope()
}

func (b *binder) varDecl(decl *cs.VarDecl, isConst bool) {
	if decl == nil {
		return
	}
	ty := b.resolveType(decl.Type)
	for _, d := range decl.Declarators {
		declared := ty
		if d.Init != nil {
			initType := b.expr(d.Init, ty)
			if declared == nil && !initType.IsNull() {
				declared = initType
			}
		}
		b.local(semantic.LocalSymbol, d.Name, declared, d)
		if isConst && d.Init != nil {
			b.recordConstant(d, d.Init)
		}
	}
}

func (b *binder) stmt(s cs.Stmt) {
	switch s := s.(type) {
	case *cs.Block:
		b.block(s)
	case *cs.ExprStmt:
		b.expr(s.X, nil)
	case *cs.LocalDecl:
		b.varDecl(s.Decl, s.Const)
	case *cs.ReturnStmt:
		if s.Value != nil {
			var ret *semantic.Type
			if len(b.returns) > 0 {
				ret = b.returns[len(b.returns)-1]
			}
			b.expr(s.Value, ret)
		}
	case *cs.ThrowStmt:
		if s.Value != nil {
			b.expr(s.Value, nil)
		}
	case *cs.IfStmt:
		b.expr(s.Cond, semantic.Bool)
		b.embedded(s.Then)
		b.embedded(s.Else)
	case *cs.WhileStmt:
		b.expr(s.Cond, semantic.Bool)
		b.embedded(s.Body)
	case *cs.DoStmt:
		b.embedded(s.Body)
		b.expr(s.Cond, semantic.Bool)
	case *cs.ForStmt:
		b.pushScope()
		b.varDecl(s.Decl, false)
		for _, e := range s.Init {
			b.expr(e, nil)
		}
		if s.Cond != nil {
			b.expr(s.Cond, semantic.Bool)
		}
		for _, e := range s.Update {
			b.expr(e, nil)
		}
		b.embedded(s.Body)
		b.popScope()
	case *cs.ForEachStmt:
		collection := b.expr(s.Collection, nil)
		ty := b.resolveType(s.Type)
		if ty == nil {
			ty = elementType(collection)
		}
		b.pushScope()
		b.local(semantic.LocalSymbol, s.Name, ty, s)
		b.embedded(s.Body)
		b.popScope()
	case *cs.TryStmt:
		b.block(s.Body)
		for _, c := range s.Catches {
			b.pushScope()
			if c.Name != "" {
				b.local(semantic.LocalSymbol, c.Name, b.resolveType(c.Type), c)
			}
			b.block(c.Body)
			b.popScope()
		}
		b.block(s.Finally)
	case *cs.ResizeStmt:
		b.expr(s.Target, nil)
		for _, e := range s.Lengths {
			b.expr(e, semantic.Int)
		}
	case *cs.YieldStmt:
		if s.Value != nil {
			var elem *semantic.Type
			if len(b.returns) > 0 {
				elem = elementType(b.returns[len(b.returns)-1])
			}
			b.expr(s.Value, elem)
		}
	case *cs.SwitchStmt:
		value := b.expr(s.Value, nil)
		// one scope spans every section
		b.pushScope()
		for _, section := range s.Sections {
			for _, label := range section.Labels {
				b.expr(label, value)
			}
			for _, stmt := range section.Stmts {
				b.stmt(stmt)
			}
		}
		b.popScope()
	}
}

// elementType is the type produced by enumerating t, when it can be told.
func elementType(t *semantic.Type) *semantic.Type {
	switch {
	case t == nil:
		return nil
	case t.IsArray():
		return t.Elem
	case t.IsString():
		return semantic.Char
	case len(t.Args) == 1:
		return t.Args[0]
	case len(t.Args) == 2 && strings.Contains(t.Name, "Dictionary"):
		return &semantic.Type{Name: "KeyValuePair", Namespace: "System.Collections.Generic", Args: t.Args}
	}
	return nil
}
