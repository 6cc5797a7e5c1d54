package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/heshanpadmasiri/csvb/cs"
)

func TestTypeString(t *testing.T) {
	dict := &Type{Name: "Dictionary", Args: []*Type{String, {Name: "int", Nullable: true}}}
	assert.Equal(t, "Dictionary<string, int?>", dict.String())
	assert.Equal(t, "int[,]", ArrayOf(Int, 2).String())
	assert.Equal(t, "void", (*Type)(nil).String())
}

func TestTypePredicates(t *testing.T) {
	var none *Type
	assert.False(t, none.IsArray())
	assert.False(t, none.IsString())
	assert.False(t, none.IsNull())
	assert.True(t, (&Type{Name: "String"}).IsString())
	assert.False(t, ArrayOf(String, 1).IsString())
	assert.True(t, Long.IsIntegral())
	assert.False(t, (&Type{Name: "int", Nullable: true}).IsIntegral())
	assert.True(t, Dec.IsFloating())
	assert.True(t, Null.IsNull())
}

func TestQualifiedName(t *testing.T) {
	ns := &Symbol{Name: "Demo", Kind: NamespaceSymbol}
	typ := &Symbol{Name: "Box", Kind: TypeSymbol, Container: ns}
	field := &Symbol{Name: "size", Kind: FieldSymbol, Container: typ}
	assert.Equal(t, "Demo.Box.size", field.QualifiedName())
	assert.Equal(t, "", (*Symbol)(nil).QualifiedName())
	assert.Equal(t, "enum member", EnumMemberSymbol.String())
	assert.True(t, Protected < Public)
}

func TestTable(t *testing.T) {
	table := NewTable()
	ident := &cs.Ident{Name: "x"}
	sym := &Symbol{Name: "x", Kind: LocalSymbol, InSource: true}

	_, ok := table.SymbolFor(ident)
	assert.False(t, ok)

	table.Bind(ident, sym)
	table.SetType(ident, Int)
	table.SetConstant(ident, nil)
	table.SetSignature(ident, &Signature{Return: &Type{Name: "void"}})

	got, ok := table.SymbolFor(ident)
	assert.True(t, ok)
	assert.Same(t, sym, got)
	ty, ok := table.TypeOf(ident)
	assert.True(t, ok)
	assert.Same(t, Int, ty)
	v, ok := table.ConstantValue(ident)
	assert.True(t, ok)
	assert.Nil(t, v)
	sig, ok := table.ResolveOverload(ident)
	assert.True(t, ok)
	assert.True(t, sig.ReturnsVoid())

	assert.True(t, table.IsDefinedInSource(sym))
	assert.False(t, table.IsDefinedInSource(&Symbol{Name: "Console"}))
	assert.False(t, table.IsDefinedInSource(nil))
}
