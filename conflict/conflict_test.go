package conflict

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/heshanpadmasiri/csvb/annotation"
	"github.com/heshanpadmasiri/csvb/semantic"
	"github.com/heshanpadmasiri/csvb/vbsrc"
)

func sym(name string, kind semantic.SymbolKind, access semantic.Accessibility) *semantic.Symbol {
	return &semantic.Symbol{Name: name, Kind: kind, Access: access, InSource: true}
}

func field(s *semantic.Symbol) *vbsrc.FieldDecl {
	return &vbsrc.FieldDecl{
		Modifiers:   []string{"Private"},
		Declarators: []*vbsrc.Declarator{{Names: []*vbsrc.Name{{Text: s.Name, Symbol: s}}, Type: vbsrc.TypeInteger}},
	}
}

func method(s *semantic.Symbol, paramTypes ...vbsrc.Type) *vbsrc.MethodBlock {
	m := &vbsrc.MethodBlock{Modifiers: []string{"Private"}, Name: &vbsrc.Name{Text: s.Name, Symbol: s}}
	for i, ty := range paramTypes {
		m.Params = append(m.Params, &vbsrc.Param{Name: vbsrc.NewName("a" + string(rune('0'+i))), Type: ty})
	}
	return m
}

func classUnit(members ...vbsrc.Member) *vbsrc.CompilationUnit {
	c := &vbsrc.TypeBlock{
		Keyword: vbsrc.ClassKeyword,
		Name:    &vbsrc.Name{Text: "C", Symbol: sym("C", semantic.TypeSymbol, semantic.Public)},
		Members: members,
	}
	return &vbsrc.CompilationUnit{Members: []vbsrc.Member{c}}
}

func declaredNames(unit *vbsrc.CompilationUnit) []string {
	var names []string
	for _, scope := range collectScopes(unit.Members, nil) {
		for _, e := range scope {
			names = append(names, e.decl.Text)
		}
	}
	return names
}

func TestMostAccessibleKeepsName(t *testing.T) {
	fooProp := sym("Foo", semantic.PropertySymbol, semantic.Public)
	fooField := sym("foo", semantic.FieldSymbol, semantic.Private)
	use := &vbsrc.MethodBlock{
		IsFunction: true,
		Name:       &vbsrc.Name{Text: "Use", Symbol: sym("Use", semantic.MethodSymbol, semantic.Public)},
		ReturnType: vbsrc.TypeInteger,
		Body:       []vbsrc.Statement{&vbsrc.ReturnStatement{Value: vbsrc.Ident("foo", fooField)}},
	}
	unit := classUnit(
		field(fooField),
		&vbsrc.PropertyBlock{Modifiers: []string{"Public"}, Name: &vbsrc.Name{Text: "Foo", Symbol: fooProp}, Type: vbsrc.TypeInteger, Auto: true},
		use,
	)

	renames := Resolve(unit, semantic.NewTable(), zaptest.NewLogger(t))

	require.Len(t, renames, 1)
	assert.Same(t, fooField, renames[0].Symbol)
	assert.Equal(t, "foo", renames[0].OldName)
	assert.Equal(t, "f_Foo", renames[0].NewName)
	assert.Equal(t, "f_Foo", fooField.Name)
	assert.Equal(t, "Foo", fooProp.Name)
	assert.Contains(t, vbsrc.Render(unit), "Return f_Foo")
	assert.Contains(t, vbsrc.Render(unit), "Private f_Foo As Integer")
}

func TestSameSignatureMethodsRenamed(t *testing.T) {
	upper := sym("Bar", semantic.MethodSymbol, semantic.Private)
	lower := sym("bar", semantic.MethodSymbol, semantic.Private)
	overload := sym("Bar", semantic.MethodSymbol, semantic.Private)
	taken := sym("m_Bar", semantic.MethodSymbol, semantic.Private)
	unit := classUnit(
		method(upper, vbsrc.TypeInteger),
		method(lower, vbsrc.TypeInteger),
		method(overload, vbsrc.TypeString),
		method(taken),
	)

	renames := Resolve(unit, semantic.NewTable(), zaptest.NewLogger(t))

	require.Len(t, renames, 1)
	assert.Same(t, lower, renames[0].Symbol)
	assert.Equal(t, "m_Bar1", renames[0].NewName)
	assert.Equal(t, "Bar", upper.Name)
	assert.Equal(t, "Bar", overload.Name)
	assert.Equal(t, "m_Bar", taken.Name)
}

func TestOverloadsAloneAreLegal(t *testing.T) {
	a := sym("Run", semantic.MethodSymbol, semantic.Public)
	b := sym("run", semantic.MethodSymbol, semantic.Private)
	unit := classUnit(method(a, vbsrc.TypeInteger), method(b, vbsrc.TypeString))

	renames := Resolve(unit, semantic.NewTable(), zaptest.NewLogger(t))

	assert.Empty(t, renames)
}

func TestOverloadFamilyRenamedTogether(t *testing.T) {
	prop := sym("Value", semantic.PropertySymbol, semantic.Public)
	m1 := sym("value", semantic.MethodSymbol, semantic.Private)
	m2 := sym("value", semantic.MethodSymbol, semantic.Private)
	unit := classUnit(
		&vbsrc.PropertyBlock{Name: &vbsrc.Name{Text: "Value", Symbol: prop}, Type: vbsrc.TypeInteger, Auto: true},
		method(m1),
		method(m2, vbsrc.TypeInteger),
	)

	renames := Resolve(unit, semantic.NewTable(), zaptest.NewLogger(t))

	require.Len(t, renames, 2)
	assert.Equal(t, "m_Value", m1.Name)
	assert.Equal(t, "m_Value", m2.Name)
	assert.Equal(t, "Value", prop.Name)
}

func TestNamesAreCaseUnique(t *testing.T) {
	syms := []*semantic.Symbol{
		sym("x", semantic.FieldSymbol, semantic.Private),
		sym("X", semantic.FieldSymbol, semantic.Protected),
		sym("f_X", semantic.FieldSymbol, semantic.Private),
		sym("F_x", semantic.PropertySymbol, semantic.Internal),
	}
	unit := classUnit(
		field(syms[0]),
		field(syms[1]),
		field(syms[2]),
		&vbsrc.PropertyBlock{Name: &vbsrc.Name{Text: syms[3].Name, Symbol: syms[3]}, Type: vbsrc.TypeInteger, Auto: true},
	)

	Resolve(unit, semantic.NewTable(), zaptest.NewLogger(t))

	seen := map[string]string{}
	for _, name := range declaredNames(unit) {
		key := strings.ToLower(name)
		prev, dup := seen[key]
		assert.False(t, dup, "%s collides with %s", name, prev)
		seen[key] = name
	}
	assert.Equal(t, "X", syms[1].Name)
	assert.Equal(t, "F_x", syms[3].Name)
}

func TestUnrenameableCollisionIsAnnotated(t *testing.T) {
	a := &semantic.Symbol{Name: "Data", Kind: semantic.FieldSymbol, Access: semantic.Public}
	b := &semantic.Symbol{Name: "data", Kind: semantic.FieldSymbol, Access: semantic.Private}
	fa, fb := field(a), field(b)
	unit := classUnit(fa, fb)

	var renames []Rename
	assert.NotPanics(t, func() {
		renames = Resolve(unit, semantic.NewTable(), zaptest.NewLogger(t))
	})

	assert.Empty(t, renames)
	for _, f := range []*vbsrc.FieldDecl{fa, fb} {
		msgs := f.Annotations.Get(annotation.UnresolvedConflict)
		require.Len(t, msgs, 1)
		assert.Contains(t, msgs[0], ErrInvalidRenameTarget.Error())
	}
	assert.Equal(t, "Data", a.Name)
	assert.Equal(t, "data", b.Name)
}

func TestFixedNameWinsOverAccessibility(t *testing.T) {
	inherited := &semantic.Symbol{Name: "Item", Kind: semantic.IndexerSymbol, Access: semantic.Private, InSource: true}
	local := sym("item", semantic.FieldSymbol, semantic.Public)
	unit := classUnit(
		&vbsrc.PropertyBlock{Modifiers: []string{"Default"}, Name: &vbsrc.Name{Text: "Item", Symbol: inherited}, Type: vbsrc.TypeInteger},
		field(local),
	)

	renames := Resolve(unit, semantic.NewTable(), zaptest.NewLogger(t))

	require.Len(t, renames, 1)
	assert.Equal(t, "f_Item", local.Name)
}

func TestEnumMembersFormTheirOwnScope(t *testing.T) {
	red := sym("Red", semantic.EnumMemberSymbol, semantic.Public)
	red2 := sym("RED", semantic.EnumMemberSymbol, semantic.Public)
	enum := &vbsrc.EnumBlock{
		Name: &vbsrc.Name{Text: "Color", Symbol: sym("Color", semantic.TypeSymbol, semantic.Public)},
		Members: []*vbsrc.EnumMember{
			{Name: &vbsrc.Name{Text: "Red", Symbol: red}},
			{Name: &vbsrc.Name{Text: "RED", Symbol: red2}},
		},
	}
	red3 := sym("red", semantic.FieldSymbol, semantic.Private)
	unit := classUnit(enum, field(red3))

	renames := Resolve(unit, semantic.NewTable(), zaptest.NewLogger(t))

	require.Len(t, renames, 1)
	assert.Equal(t, "v_RED", red2.Name)
	assert.Equal(t, "red", red3.Name)
}

func TestUnitRenamer(t *testing.T) {
	s := sym("a", semantic.FieldSymbol, semantic.Private)
	unit := classUnit(field(s))
	r := &UnitRenamer{Unit: unit}

	assert.ErrorIs(t, r.Rename(nil, "b"), ErrInvalidRenameTarget)
	assert.ErrorIs(t, r.Rename(sym("other", semantic.FieldSymbol, semantic.Private), "b"), ErrInvalidRenameTarget)

	_, ok := r.Resolve(vbsrc.NewName("a"))
	assert.False(t, ok)

	require.NoError(t, r.Rename(s, "b"))
	assert.Equal(t, []string{"C", "b"}, declaredNames(unit))
}

func TestTypeRenameRewritesReferences(t *testing.T) {
	lower := sym("foo", semantic.TypeSymbol, semantic.Internal)
	upper := sym("Foo", semantic.TypeSymbol, semantic.Internal)
	ref := &vbsrc.FieldDecl{
		Modifiers:   []string{"Private"},
		Declarators: []*vbsrc.Declarator{{Names: []*vbsrc.Name{vbsrc.NewName("items")}, Type: "List(Of Foo)"}},
	}
	unit := &vbsrc.CompilationUnit{
		Members: []vbsrc.Member{
			&vbsrc.TypeBlock{Keyword: vbsrc.ClassKeyword, Name: &vbsrc.Name{Text: "foo", Symbol: lower}},
			&vbsrc.TypeBlock{Keyword: vbsrc.ClassKeyword, Name: &vbsrc.Name{Text: "Foo", Symbol: upper}},
			&vbsrc.TypeBlock{Keyword: vbsrc.ClassKeyword, Name: vbsrc.NewName("User"), Members: []vbsrc.Member{ref}},
		},
		TypeNames: map[string]*semantic.Symbol{"Foo": upper},
	}

	renames := Resolve(unit, semantic.NewTable(), zaptest.NewLogger(t))

	require.Len(t, renames, 1)
	assert.Equal(t, "t_Foo", upper.Name)
	assert.Equal(t, vbsrc.Type("List(Of t_Foo)"), ref.Declarators[0].Type)
	assert.Same(t, upper, unit.TypeNames["t_Foo"])
}

func TestTypeRenameRefusedWhenSpellingIsShared(t *testing.T) {
	s := sym("Node", semantic.TypeSymbol, semantic.Internal)
	ref := &vbsrc.FieldDecl{
		Modifiers:   []string{"Private"},
		Declarators: []*vbsrc.Declarator{{Names: []*vbsrc.Name{vbsrc.NewName("head")}, Type: "Node"}},
	}
	unit := classUnit(&vbsrc.TypeBlock{Keyword: vbsrc.ClassKeyword, Name: &vbsrc.Name{Text: "Node", Symbol: s}}, ref)
	unit.TypeNames = map[string]*semantic.Symbol{"Node": nil}
	r := &UnitRenamer{Unit: unit}

	assert.ErrorIs(t, r.Rename(s, "t_Node"), ErrInvalidRenameTarget)
	assert.Equal(t, "Node", s.Name)
	assert.Equal(t, vbsrc.Type("Node"), ref.Declarators[0].Type)
}
