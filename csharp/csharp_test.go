package csharp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heshanpadmasiri/csvb/cs"
	"github.com/heshanpadmasiri/csvb/semantic"
)

func load(t *testing.T, source string) *Unit {
	t.Helper()
	unit, err := Load([]byte(source), nil)
	require.NoError(t, err)
	require.NotNil(t, unit.Syntax)
	return unit
}

func onlyType(t *testing.T, unit *Unit) *cs.TypeDecl {
	t.Helper()
	var found *cs.TypeDecl
	cs.Inspect(unit.Syntax, func(n cs.Node) bool {
		if decl, ok := n.(*cs.TypeDecl); ok && found == nil {
			found = decl
		}
		return found == nil
	})
	require.NotNil(t, found)
	return found
}

func methodNamed(t *testing.T, decl *cs.TypeDecl, name string) *cs.MethodDecl {
	t.Helper()
	for _, m := range decl.Members {
		if method, ok := m.(*cs.MethodDecl); ok && method.Name == name {
			return method
		}
	}
	t.Fatalf("no method %s", name)
	return nil
}

func TestLowerClass(t *testing.T) {
	unit := load(t, `using System;
using System.Text;

namespace Demo
{
    public class Counter : ICounter
    {
        private int count;

        public int Next()
        {
            return count;
        }
    }
}
`)
	assert.Zero(t, unit.SyntaxErrors)
	require.Len(t, unit.Syntax.Usings, 2)
	assert.Equal(t, "System", unit.Syntax.Usings[0].Name)
	assert.Equal(t, "System.Text", unit.Syntax.Usings[1].Name)

	require.Len(t, unit.Syntax.Members, 1)
	ns, ok := unit.Syntax.Members[0].(*cs.NamespaceDecl)
	require.True(t, ok)
	assert.Equal(t, "Demo", ns.Name)

	decl := onlyType(t, unit)
	assert.Equal(t, "Counter", decl.Name)
	assert.Equal(t, cs.Class, decl.Keyword)
	assert.True(t, decl.Modifiers.Has(cs.PUBLIC))
	require.Len(t, decl.Bases, 1)
	assert.Equal(t, "ICounter", decl.Bases[0].Name)
	require.Len(t, decl.Members, 2)

	field, ok := decl.Members[0].(*cs.FieldDecl)
	require.True(t, ok)
	assert.True(t, field.Modifiers.Has(cs.PRIVATE))
	assert.Equal(t, "count", field.Decl.Declarators[0].Name)

	next := methodNamed(t, decl, "Next")
	assert.Equal(t, "int", next.ReturnType.Name)
	require.NotNil(t, next.Body)
	require.Len(t, next.Body.Stmts, 1)
	assert.IsType(t, &cs.ReturnStmt{}, next.Body.Stmts[0])
}

func TestCommentsBecomeTrivia(t *testing.T) {
	unit := load(t, `class A
{
    // leading
    int x; // trailing

    int y;
}
`)
	decl := onlyType(t, unit)
	require.Len(t, decl.Members, 2)
	x := decl.Members[0].Info()
	assert.Equal(t, []cs.Trivia{{Kind: cs.LineComment, Text: " leading"}}, x.Leading)
	assert.Equal(t, []cs.Trivia{{Kind: cs.LineComment, Text: " trailing"}}, x.Trailing)
	assert.Equal(t, []cs.Trivia{{Kind: cs.BlankLine}}, decl.Members[1].Info().Leading)
}

func TestBindLocalsAndMembers(t *testing.T) {
	unit := load(t, `class Box
{
    int size;

    int Grow(int by)
    {
        int next = size + by;
        return next;
    }
}
`)
	decl := onlyType(t, unit)
	grow := methodNamed(t, decl, "Grow")

	sym, ok := unit.Model.SymbolFor(grow)
	require.True(t, ok)
	assert.Equal(t, semantic.MethodSymbol, sym.Kind)
	assert.Equal(t, semantic.Private, sym.Access)
	assert.Equal(t, "Box", sym.Container.Name)

	local, ok := grow.Body.Stmts[0].(*cs.LocalDecl)
	require.True(t, ok)
	init, ok := local.Decl.Declarators[0].Init.(*cs.Binary)
	require.True(t, ok)

	left, ok := unit.Model.SymbolFor(init.Left)
	require.True(t, ok)
	assert.Equal(t, semantic.FieldSymbol, left.Kind)
	right, ok := unit.Model.SymbolFor(init.Right)
	require.True(t, ok)
	assert.Equal(t, semantic.ParameterSymbol, right.Kind)

	ty, ok := unit.Model.TypeOf(init)
	require.True(t, ok)
	assert.Equal(t, "int", ty.Name)

	ret := grow.Body.Stmts[1].(*cs.ReturnStmt)
	declared, _ := unit.Model.SymbolFor(local.Decl.Declarators[0])
	used, _ := unit.Model.SymbolFor(ret.Value)
	assert.Same(t, declared, used)
}

func TestBindConstants(t *testing.T) {
	unit := load(t, `class Grid
{
    const int Size = 4;

    int[] Make()
    {
        return new int[Size * 2];
    }
}
`)
	method := methodNamed(t, onlyType(t, unit), "Make")
	ret := method.Body.Stmts[0].(*cs.ReturnStmt)
	creation, ok := ret.Value.(*cs.ArrayCreation)
	require.True(t, ok)
	require.Len(t, creation.Lengths, 1)
	v, ok := unit.Model.ConstantValue(creation.Lengths[0])
	require.True(t, ok)
	assert.Equal(t, int64(8), v)

	ty, ok := unit.Model.TypeOf(creation)
	require.True(t, ok)
	assert.True(t, ty.IsArray())
	assert.Equal(t, "int", ty.Elem.Name)
}

func TestUnsupportedConstructsBecomeUnknown(t *testing.T) {
	unit := load(t, `class Events
{
    public event System.EventHandler Changed;
}
`)
	decl := onlyType(t, unit)
	require.Len(t, decl.Members, 1)
	unknown, ok := decl.Members[0].(*cs.Unknown)
	require.True(t, ok)
	assert.Equal(t, "event_field_declaration", unknown.Kind())
}

func TestSyntaxErrorsAreCounted(t *testing.T) {
	unit := load(t, `class Broken
{
    void M() { int x = ; }
}
`)
	assert.Positive(t, unit.SyntaxErrors)
}

func TestIntegerValue(t *testing.T) {
	tests := []struct {
		raw  string
		want *semantic.Type
		v    uint64
	}{
		{"42", semantic.Int, 42},
		{"1_000", semantic.Int, 1000},
		{"0xFF", semantic.Int, 255},
		{"0b101", semantic.Int, 5},
		{"3000000000", semantic.UInt, 3000000000},
		{"5000000000", semantic.Long, 5000000000},
		{"7u", semantic.UInt, 7},
		{"7L", semantic.Long, 7},
		{"7UL", semantic.ULong, 7},
		{"0xFFFFFFFFFFFFFFFF", semantic.ULong, 1<<64 - 1},
	}
	for _, test := range tests {
		t.Run(test.raw, func(t *testing.T) {
			ty, v, ok := integerValue(test.raw)
			require.True(t, ok)
			assert.Same(t, test.want, ty)
			assert.Equal(t, test.v, v)
		})
	}
}

func TestPromote(t *testing.T) {
	byteType := &semantic.Type{Name: "byte"}
	assert.Same(t, semantic.Int, promote("+", byteType, byteType))
	assert.Same(t, semantic.Long, promote("+", semantic.Int, semantic.Long))
	assert.Same(t, semantic.Long, promote("*", semantic.UInt, semantic.Int))
	assert.Same(t, semantic.Double, promote("/", semantic.Int, semantic.Double))
	assert.Same(t, semantic.Int, promote("<<", byteType, semantic.Long))
	assert.Same(t, semantic.Bool, promote("&", semantic.Bool, semantic.Bool))
	assert.Nil(t, promote("+", semantic.Int, nil))
}

func TestLambdaSignatures(t *testing.T) {
	b := &binder{table: semantic.NewTable(), types: map[string]*typeInfo{}, constants: map[*semantic.Symbol]any{}}

	square := &cs.Lambda{
		Params: []*cs.Param{{Name: "x"}},
		Body:   &cs.Binary{Op: "*", Left: &cs.Ident{Name: "x"}, Right: &cs.Ident{Name: "x"}},
	}
	funcType := &semantic.Type{Name: "Func", Args: []*semantic.Type{semantic.Int, semantic.Int}}
	b.expr(square, funcType)
	sig, ok := b.table.ResolveOverload(square)
	require.True(t, ok)
	assert.Equal(t, []*semantic.Type{semantic.Int}, sig.Params)
	assert.Same(t, semantic.Int, sig.Return)

	bump := &cs.Lambda{Body: &cs.Unary{Op: "++", X: &cs.Ident{Name: "n"}, Postfix: true}}
	b.expr(bump, nil)
	sig, ok = b.table.ResolveOverload(bump)
	require.True(t, ok)
	assert.True(t, sig.ReturnsVoid())

	answer := &cs.Lambda{Body: &cs.Block{Stmts: []cs.Stmt{&cs.ReturnStmt{Value: &cs.Literal{LitKind: cs.StringLit, Raw: `"a"`}}}}}
	ty := b.expr(answer, nil)
	sig, ok = b.table.ResolveOverload(answer)
	require.True(t, ok)
	assert.True(t, sig.Return.IsString())
	assert.Equal(t, "Func", ty.Name)
}

func TestThrowExpressionTakesOtherSide(t *testing.T) {
	b := &binder{table: semantic.NewTable(), types: map[string]*typeInfo{}, constants: map[*semantic.Symbol]any{}}
	b.pushScope()
	b.local(semantic.ParameterSymbol, "name", semantic.String, nil)

	throw := &cs.ThrowExpr{Value: &cs.ObjectCreation{Type: &cs.TypeRef{Name: "ArgumentNullException"}}}
	coalesce := &cs.Binary{Op: "??", Left: &cs.Ident{Name: "name"}, Right: throw}
	b.expr(coalesce, nil)

	ty, ok := b.table.TypeOf(throw)
	require.True(t, ok)
	assert.True(t, ty.IsString())
}

func typeRefsNamed(unit *Unit, name string) []*cs.TypeRef {
	var refs []*cs.TypeRef
	cs.Inspect(unit.Syntax, func(n cs.Node) bool {
		if ref, ok := n.(*cs.TypeRef); ok && ref.Name == name {
			refs = append(refs, ref)
		}
		return true
	})
	return refs
}

func typeDeclNamed(t *testing.T, unit *Unit, name string) *cs.TypeDecl {
	t.Helper()
	var found *cs.TypeDecl
	cs.Inspect(unit.Syntax, func(n cs.Node) bool {
		if decl, ok := n.(*cs.TypeDecl); ok && decl.Name == name && found == nil {
			found = decl
		}
		return true
	})
	require.NotNil(t, found)
	return found
}

func TestBindTypeReferences(t *testing.T) {
	unit := load(t, `namespace Shop
{
    class foo {}
    class Foo {}
    class User
    {
        object Make() { return new Foo(); }
        Foo field;
        Shop.Foo other;
        Bar.Foo elsewhere;
    }
}
`)
	fooSym, ok := unit.Model.SymbolFor(typeDeclNamed(t, unit, "Foo"))
	require.True(t, ok)

	refs := typeRefsNamed(unit, "Foo")
	require.Len(t, refs, 2)
	for _, ref := range refs {
		sym, ok := unit.Model.SymbolFor(ref)
		require.True(t, ok)
		assert.Same(t, fooSym, sym)
	}

	qualified := typeRefsNamed(unit, "Shop.Foo")
	require.Len(t, qualified, 1)
	sym, ok := unit.Model.SymbolFor(qualified[0])
	require.True(t, ok)
	assert.Same(t, fooSym, sym)

	foreign := typeRefsNamed(unit, "Bar.Foo")
	require.Len(t, foreign, 1)
	_, ok = unit.Model.SymbolFor(foreign[0])
	assert.False(t, ok)

	for _, ref := range typeRefsNamed(unit, "object") {
		_, ok := unit.Model.SymbolFor(ref)
		assert.False(t, ok)
	}
}

func TestAmbiguousTypeReferenceStaysUnbound(t *testing.T) {
	unit := load(t, `class A { class Node {} }
class B
{
    class Node {}
    Node head;
}
`)
	refs := typeRefsNamed(unit, "Node")
	require.Len(t, refs, 1)
	_, ok := unit.Model.SymbolFor(refs[0])
	assert.False(t, ok)
}

func TestLowerSwitch(t *testing.T) {
	unit := load(t, `class C
{
    void M(int a)
    {
        switch (a)
        {
            case 1:
            case 2:
                Low();
                break;
            default:
                break;
            case 3:
        }
    }
}
`)
	body := methodNamed(t, onlyType(t, unit), "M").Body
	require.Len(t, body.Stmts, 1)
	s, ok := body.Stmts[0].(*cs.SwitchStmt)
	require.True(t, ok)
	ident, ok := s.Value.(*cs.Ident)
	require.True(t, ok)
	assert.Equal(t, "a", ident.Name)

	require.Len(t, s.Sections, 3)
	first := s.Sections[0]
	require.Len(t, first.Labels, 2)
	assert.Equal(t, "1", first.Labels[0].(*cs.Literal).Raw)
	assert.Equal(t, "2", first.Labels[1].(*cs.Literal).Raw)
	assert.False(t, first.Default)
	require.Len(t, first.Stmts, 2)
	assert.IsType(t, &cs.BreakStmt{}, first.Stmts[1])

	assert.True(t, s.Sections[1].Default)
	assert.Empty(t, s.Sections[1].Labels)

	last := s.Sections[2]
	require.Len(t, last.Labels, 1)
	assert.Empty(t, last.Stmts)
}

func TestPatternSwitchIsUnknown(t *testing.T) {
	unit := load(t, `class C
{
    void M(object o)
    {
        switch (o)
        {
            case int n when n > 0:
                break;
        }
    }
}
`)
	body := methodNamed(t, onlyType(t, unit), "M").Body
	require.Len(t, body.Stmts, 1)
	unknown, ok := body.Stmts[0].(*cs.Unknown)
	require.True(t, ok)
	assert.Equal(t, "switch_statement", unknown.Kind())
}

func TestLowerYield(t *testing.T) {
	unit := load(t, `using System.Collections.Generic;
class C
{
    IEnumerable<int> M()
    {
        yield return 1;
        yield break;
    }
}
`)
	body := methodNamed(t, onlyType(t, unit), "M").Body
	require.Len(t, body.Stmts, 2)
	ret, ok := body.Stmts[0].(*cs.YieldStmt)
	require.True(t, ok)
	assert.Equal(t, "1", ret.Value.(*cs.Literal).Raw)
	brk, ok := body.Stmts[1].(*cs.YieldStmt)
	require.True(t, ok)
	assert.Nil(t, brk.Value)
}

func TestAnonymousMethodIsLambda(t *testing.T) {
	unit := load(t, `using System;
class C
{
    Func<int, int> f = delegate (int x) { return x; };
    Action g = async delegate { await Work(); };
}
`)
	var lambdas []*cs.Lambda
	cs.Inspect(unit.Syntax, func(n cs.Node) bool {
		if l, ok := n.(*cs.Lambda); ok {
			lambdas = append(lambdas, l)
		}
		return true
	})
	require.Len(t, lambdas, 2)

	f := lambdas[0]
	require.Len(t, f.Params, 1)
	assert.Equal(t, "x", f.Params[0].Name)
	assert.Equal(t, "int", f.Params[0].Type.Name)
	body, ok := f.Body.(*cs.Block)
	require.True(t, ok)
	require.Len(t, body.Stmts, 1)
	assert.False(t, f.Async)

	sig, ok := unit.Model.ResolveOverload(f)
	require.True(t, ok)
	require.NotNil(t, sig.Return)
	assert.Equal(t, "int", sig.Return.Name)

	g := lambdas[1]
	assert.Empty(t, g.Params)
	assert.True(t, g.Async)
}
