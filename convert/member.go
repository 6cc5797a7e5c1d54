package convert

import (
	"strings"
	"unicode"

	"github.com/heshanpadmasiri/csvb/cs"
	"github.com/heshanpadmasiri/csvb/semantic"
	"github.com/heshanpadmasiri/csvb/vbsrc"
)

// convertMember dispatches on the member kind.
func (ctx *Context) convertMember(member cs.Member) ([]vbsrc.Member, error) {
	switch m := member.(type) {
	case *cs.NamespaceDecl:
		return ctx.convertNamespace(m)
	case *cs.TypeDecl:
		return ctx.convertTypeDecl(m)
	case *cs.EnumDecl:
		return ctx.convertEnum(m)
	case *cs.FieldDecl:
		return ctx.convertField(m)
	case *cs.MethodDecl:
		return ctx.convertMethod(m)
	case *cs.ConstructorDecl:
		return ctx.convertConstructor(m)
	case *cs.PropertyDecl:
		return ctx.convertProperty(m)
	case *cs.IndexerDecl:
		return ctx.convertIndexer(m)
	case *cs.Unknown:
		return nil, unsupported(m, "")
	default:
		return nil, unsupported(member, "no member rule")
	}
}

func (ctx *Context) convertMembers(members []cs.Member) ([]vbsrc.Member, error) {
	var out []vbsrc.Member
	for _, m := range members {
		converted, err := ctx.convertMemberIsolated(m)
		if err != nil {
			return nil, err
		}
		out = append(out, converted...)
	}
	return out, nil
}

func (ctx *Context) addUsings(usings []*cs.UsingDirective) {
	for _, u := range usings {
		ctx.imports.Add(strings.TrimPrefix(u.Name, "global::"), u.Alias)
	}
}

func (ctx *Context) convertNamespace(n *cs.NamespaceDecl) ([]vbsrc.Member, error) {
	ctx.addUsings(n.Usings)
	name := n.Name
	if ctx.namespaces == 0 {
		name = trimRootNamespace(name, ctx.Options.RootNamespace)
	}
	ctx.namespaces++
	members, err := ctx.convertMembers(n.Members)
	ctx.namespaces--
	if err != nil {
		return nil, err
	}
	if name == "" {
		return members, nil
	}
	return []vbsrc.Member{&vbsrc.NamespaceBlock{Name: name, Members: members}}, nil
}

// trimRootNamespace removes root from the front of name, matching whole
// dotted segments without regard to case.
func trimRootNamespace(name, root string) string {
	if root == "" {
		return name
	}
	switch {
	case strings.EqualFold(name, root):
		return ""
	case len(name) > len(root) && strings.EqualFold(name[:len(root)], root) && name[len(root)] == '.':
		return name[len(root)+1:]
	}
	return name
}

// withAccessibility adds the accessibility the source left implicit, which
// differs between the two languages for members and nested types.
func (ctx *Context) withAccessibility(mods cs.Modifiers, out []string) []string {
	if mods.HasAccessibility() {
		return out
	}
	if _, nested := ctx.enclosingType(); nested {
		return append([]string{"Private"}, out...)
	}
	return append([]string{"Friend"}, out...)
}

func (ctx *Context) inInterface() bool {
	kw, ok := ctx.enclosingType()
	return ok && kw == vbsrc.InterfaceKeyword
}

func (ctx *Context) inModule() bool {
	kw, ok := ctx.enclosingType()
	return ok && kw == vbsrc.ModuleKeyword
}

// modifiersFor maps the modifiers of a member inside a type.
func (ctx *Context) modifiersFor(mods cs.Modifiers) []string {
	if ctx.inInterface() {
		return nil
	}
	return ctx.withAccessibility(mods, memberModifiers(mods, ctx.inModule()))
}

func (ctx *Context) convertTypeDecl(t *cs.TypeDecl) ([]vbsrc.Member, error) {
	_, nested := ctx.enclosingType()
	block := &vbsrc.TypeBlock{
		Name:       ctx.name(t.Name, t),
		TypeParams: t.TypeArgs,
		Modifiers:  ctx.withAccessibility(t.Modifiers, typeModifiers(t.Modifiers)),
	}
	switch {
	case t.Keyword == cs.Interface:
		block.Keyword = vbsrc.InterfaceKeyword
	case t.Keyword == cs.Struct:
		block.Keyword = vbsrc.StructureKeyword
	case t.Modifiers.Has(cs.STATIC) && !nested:
		block.Keyword = vbsrc.ModuleKeyword
	case t.Modifiers.Has(cs.STATIC):
		block.Keyword = vbsrc.ClassKeyword
		block.Modifiers = append(block.Modifiers, "NotInheritable")
	default:
		block.Keyword = vbsrc.ClassKeyword
	}
	if block.Keyword == vbsrc.InterfaceKeyword || block.Keyword == vbsrc.ModuleKeyword {
		block.Modifiers = removeWords(block.Modifiers, "MustInherit", "NotInheritable")
	}
	block.Inherits, block.Implements = ctx.splitBases(block.Keyword, t.Bases)

	ctx.pushHelperFrame(block.Keyword)
	members, err := ctx.convertMembers(t.Members)
	frame := ctx.popHelperFrame()
	if err != nil {
		return nil, err
	}
	block.Members = append(members, synthesizeHelpers(frame)...)
	return []vbsrc.Member{block}, nil
}

func removeWords(words []string, remove ...string) []string {
	var out []string
	for _, w := range words {
		drop := false
		for _, r := range remove {
			drop = drop || w == r
		}
		if !drop {
			out = append(out, w)
		}
	}
	return out
}

// splitBases separates a base list into inherited classes and implemented
// interfaces. Interfaces inherit all their bases; a class inherits at most
// one non-interface base; structures only implement.
func (ctx *Context) splitBases(keyword vbsrc.TypeKeyword, bases []*cs.TypeRef) (inherits, implements []vbsrc.Type) {
	for _, b := range bases {
		ty := ctx.convertType(b)
		switch {
		case keyword == vbsrc.InterfaceKeyword:
			inherits = append(inherits, ty)
		case keyword == vbsrc.ClassKeyword && len(inherits) == 0 && !ctx.isInterfaceRef(b):
			inherits = append(inherits, ty)
		default:
			implements = append(implements, ty)
		}
	}
	return inherits, implements
}

// isInterfaceRef uses the bound symbol when there is one and falls back to
// the IName naming convention.
func (ctx *Context) isInterfaceRef(t *cs.TypeRef) bool {
	if sym := ctx.symbolFor(t); sym != nil && sym.Kind == semantic.TypeSymbol {
		return sym.Interface
	}
	name := t.Name
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	runes := []rune(name)
	return len(runes) > 1 && runes[0] == 'I' && unicode.IsUpper(runes[1])
}

func (ctx *Context) convertEnum(e *cs.EnumDecl) ([]vbsrc.Member, error) {
	block := &vbsrc.EnumBlock{
		Modifiers: ctx.withAccessibility(e.Modifiers, typeModifiers(e.Modifiers)),
		Name:      ctx.name(e.Name, e),
		Base:      ctx.convertType(e.Base),
	}
	for _, m := range e.Members {
		member := &vbsrc.EnumMember{Name: ctx.name(m.Name, m)}
		if m.Value != nil {
			value, hoisted, err := ctx.convertExpression(m.Value)
			if err != nil {
				return nil, err
			}
			if len(hoisted) > 0 {
				return nil, unsupported(m, "enum value declaring variables")
			}
			member.Value = value
		}
		block.Members = append(block.Members, attachTrivia(m, []*vbsrc.EnumMember{member})...)
	}
	return []vbsrc.Member{block}, nil
}

func (ctx *Context) convertField(f *cs.FieldDecl) ([]vbsrc.Member, error) {
	if ctx.inInterface() {
		return nil, unsupported(f, "field inside an interface")
	}
	decls, hoisted, err := ctx.remodelDeclaration(f.Decl)
	if err != nil {
		return nil, err
	}
	if len(hoisted) > 0 {
		return nil, unsupported(f, "field initializer declaring variables")
	}
	mods := memberModifiers(f.Modifiers, ctx.inModule())
	if !f.Modifiers.HasAccessibility() {
		mods = append([]string{"Private"}, mods...)
	}
	if f.Modifiers.Has(cs.CONST) {
		mods = append(removeWords(mods, "Shared"), "Const")
	}
	return []vbsrc.Member{&vbsrc.FieldDecl{Modifiers: mods, Declarators: decls}}, nil
}

// convertParams maps parameters: ref and out become ByRef, params becomes
// ParamArray and a default value makes the parameter Optional.
func (ctx *Context) convertParams(params []*cs.Param) ([]*vbsrc.Param, error) {
	out := make([]*vbsrc.Param, 0, len(params))
	for _, p := range params {
		param := &vbsrc.Param{
			Name:       ctx.name(p.Name, p),
			Type:       ctx.convertType(p.Type),
			ByRef:      p.Modifier == cs.Ref || p.Modifier == cs.Out,
			ParamArray: p.Modifier == cs.Params,
		}
		if p.Default != nil {
			value, hoisted, err := ctx.convertExpression(p.Default)
			if err != nil {
				return nil, err
			}
			if len(hoisted) > 0 {
				return nil, unsupported(p, "default value declaring variables")
			}
			param.Optional = true
			param.Default = value
		}
		out = append(out, param)
	}
	return out, nil
}

// convertExpressionBody converts `=> expr` into a statement body.
func (ctx *Context) convertExpressionBody(e cs.Expr, isFunction bool) ([]vbsrc.Statement, error) {
	if t, ok := e.(*cs.ThrowExpr); ok {
		return ctx.convertStatement(&cs.ThrowStmt{NodeInfo: t.NodeInfo, Value: t.Value})
	}
	if !isFunction {
		return ctx.convertExpressionStatement(&cs.ExprStmt{NodeInfo: *e.Info(), X: e})
	}
	value, hoisted, err := ctx.convertExpression(e)
	if err != nil {
		return nil, err
	}
	return append(hoisted, &vbsrc.ReturnStatement{Value: value}), nil
}

func (ctx *Context) convertMethod(m *cs.MethodDecl) ([]vbsrc.Member, error) {
	if m.Modifiers.Has(cs.EXTERN) {
		return nil, unsupported(m, "extern method")
	}
	params, err := ctx.convertParams(m.Params)
	if err != nil {
		return nil, err
	}
	method := &vbsrc.MethodBlock{
		Modifiers:  ctx.modifiersFor(m.Modifiers),
		IsFunction: !m.ReturnType.IsVoid(),
		Name:       ctx.name(m.Name, m),
		TypeParams: m.TypeArgs,
		Params:     params,
		ReturnType: ctx.convertType(m.ReturnType),
	}
	exit := "Sub"
	if method.IsFunction {
		exit = "Function"
	}
	leave := ctx.enterFunction(exit)
	defer leave()
	switch {
	case m.Body != nil:
		method.Body, err = ctx.convertBlock(m.Body)
	case m.ExprBody != nil:
		method.Body, err = ctx.convertExpressionBody(m.ExprBody, method.IsFunction)
	default:
		method.NoBody = true
	}
	if err != nil {
		return nil, err
	}
	if isIterator(m.Body) {
		method.Modifiers = append(method.Modifiers, "Iterator")
	}
	return []vbsrc.Member{method}, nil
}

func (ctx *Context) convertConstructor(c *cs.ConstructorDecl) ([]vbsrc.Member, error) {
	params, err := ctx.convertParams(c.Params)
	if err != nil {
		return nil, err
	}
	var mods []string
	switch {
	case ctx.inModule():
	case c.Modifiers.Has(cs.STATIC):
		mods = []string{"Shared"}
	default:
		mods = ctx.modifiersFor(c.Modifiers)
	}
	ctor := &vbsrc.MethodBlock{
		Modifiers: mods,
		Name:      &vbsrc.Name{Text: "New", Symbol: ctx.symbolFor(c)},
		Params:    params,
	}
	if init := c.Initializer; init != nil {
		args, hoisted, err := ctx.convertArguments(init.Args)
		if err != nil {
			return nil, err
		}
		if len(hoisted) > 0 {
			return nil, unsupported(init, "constructor call arguments declaring variables")
		}
		receiver := "Me"
		if init.Base {
			receiver = "MyBase"
		}
		ctor.Body = append(ctor.Body, &vbsrc.CallStatement{Call: staticCall(receiver, "New", args...)})
	}
	body, err := ctx.convertBlock(c.Body)
	if err != nil {
		return nil, err
	}
	ctor.Body = append(ctor.Body, body...)
	return []vbsrc.Member{ctor}, nil
}

// accessorKind tells property-like members how their accessors look.
type accessorKind int

const (
	// autoAccessors have no bodies.
	autoAccessors accessorKind = iota
	bodiedAccessors
)

func classifyAccessors(getter, setter *cs.Accessor) accessorKind {
	for _, a := range []*cs.Accessor{getter, setter} {
		if a != nil && (a.Body != nil || a.ExprBody != nil) {
			return bodiedAccessors
		}
	}
	return autoAccessors
}

// convertAccessor converts one accessor. The setter's implicit parameter is
// spelled out.
func (ctx *Context) convertAccessor(a *cs.Accessor, ty vbsrc.Type, setter bool) (*vbsrc.AccessorBlock, error) {
	if a == nil {
		return nil, nil
	}
	block := &vbsrc.AccessorBlock{}
	if a.Modifiers.HasAccessibility() {
		block.Modifiers = memberModifiers(a.Modifiers, false)
	}
	if setter {
		block.ParamName = "value"
		block.ParamType = ty
	}
	leave := ctx.enterFunction("Property")
	defer leave()
	var err error
	switch {
	case a.Body != nil:
		block.Body, err = ctx.convertBlock(a.Body)
	case a.ExprBody != nil:
		block.Body, err = ctx.convertExpressionBody(a.ExprBody, !setter)
	}
	if err != nil {
		return nil, err
	}
	return block, nil
}

// propertyShape fills the accessor part of a property block and returns the
// extra modifiers it needs: ReadOnly or WriteOnly, and Iterator for a
// yielding getter.
func (ctx *Context) propertyShape(p *vbsrc.PropertyBlock, getter, setter *cs.Accessor, exprBody cs.Expr, abstract bool) (string, error) {
	readability := ""
	switch {
	case exprBody != nil:
		readability = "ReadOnly"
	case getter != nil && setter == nil:
		readability = "ReadOnly"
	case getter == nil && setter != nil:
		readability = "WriteOnly"
	}
	if ctx.inInterface() || abstract {
		return readability, nil
	}
	if exprBody != nil {
		body, err := ctx.convertExpressionBody(exprBody, true)
		if err != nil {
			return "", err
		}
		p.Getter = &vbsrc.AccessorBlock{Body: body}
		return readability, nil
	}
	if classifyAccessors(getter, setter) == autoAccessors {
		p.Auto = true
		if readability == "WriteOnly" {
			return "", unsupported(setter, "write-only auto property")
		}
		return readability, nil
	}
	var err error
	if p.Getter, err = ctx.convertAccessor(getter, p.Type, false); err != nil {
		return "", err
	}
	if p.Setter, err = ctx.convertAccessor(setter, p.Type, true); err != nil {
		return "", err
	}
	if getter != nil && isIterator(getter.Body) {
		readability = strings.TrimSpace(readability + " Iterator")
	}
	return readability, nil
}

func (ctx *Context) convertProperty(p *cs.PropertyDecl) ([]vbsrc.Member, error) {
	prop := &vbsrc.PropertyBlock{
		Name: ctx.name(p.Name, p),
		Type: ctx.convertType(p.Type),
	}
	readability, err := ctx.propertyShape(prop, p.Getter, p.Setter, p.ExprBody, p.Modifiers.Has(cs.ABSTRACT))
	if err != nil {
		return nil, err
	}
	if p.Init != nil {
		if !prop.Auto {
			return nil, unsupported(p, "initializer on a property with accessor bodies")
		}
		init, hoisted, err := ctx.convertExpression(p.Init)
		if err != nil {
			return nil, err
		}
		if len(hoisted) > 0 {
			return nil, unsupported(p, "property initializer declaring variables")
		}
		prop.Init = init
	}
	prop.Modifiers = ctx.modifiersFor(p.Modifiers)
	if readability != "" {
		prop.Modifiers = append(prop.Modifiers, readability)
	}
	return []vbsrc.Member{prop}, nil
}

// convertIndexer maps an indexer onto the default Item property.
func (ctx *Context) convertIndexer(ix *cs.IndexerDecl) ([]vbsrc.Member, error) {
	params, err := ctx.convertParams(ix.Params)
	if err != nil {
		return nil, err
	}
	prop := &vbsrc.PropertyBlock{
		Name:   &vbsrc.Name{Text: "Item", Symbol: ctx.symbolFor(ix)},
		Params: params,
		Type:   ctx.convertType(ix.Type),
	}
	if classifyAccessors(ix.Getter, ix.Setter) == autoAccessors && ix.ExprBody == nil &&
		!ctx.inInterface() && !ix.Modifiers.Has(cs.ABSTRACT) {
		invariant("indexer has accessor bodies", false)
	}
	readability, err := ctx.propertyShape(prop, ix.Getter, ix.Setter, ix.ExprBody, ix.Modifiers.Has(cs.ABSTRACT))
	if err != nil {
		return nil, err
	}
	prop.Modifiers = append([]string{"Default"}, ctx.modifiersFor(ix.Modifiers)...)
	if readability != "" {
		prop.Modifiers = append(prop.Modifiers, readability)
	}
	return []vbsrc.Member{prop}, nil
}
