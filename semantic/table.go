package semantic

import "github.com/heshanpadmasiri/csvb/cs"

// Table is a map-backed Model. Front ends and tests populate it directly.
type Table struct {
	symbols    map[cs.Node]*Symbol
	types      map[cs.Expr]*Type
	constants  map[cs.Expr]any
	signatures map[cs.Node]*Signature
}

var _ Model = (*Table)(nil)

// NewTable creates an empty Table.
func NewTable() *Table {
	return &Table{
		symbols:    make(map[cs.Node]*Symbol),
		types:      make(map[cs.Expr]*Type),
		constants:  make(map[cs.Expr]any),
		signatures: make(map[cs.Node]*Signature),
	}
}

// Bind records the symbol a node declares or refers to.
func (t *Table) Bind(n cs.Node, sym *Symbol) {
	t.symbols[n] = sym
}

// SetType records the type of an expression.
func (t *Table) SetType(e cs.Expr, ty *Type) {
	t.types[e] = ty
}

// SetConstant records the constant value of an expression.
func (t *Table) SetConstant(e cs.Expr, v any) {
	t.constants[e] = v
}

// SetSignature records a resolved signature.
func (t *Table) SetSignature(n cs.Node, sig *Signature) {
	t.signatures[n] = sig
}

func (t *Table) SymbolFor(n cs.Node) (*Symbol, bool) {
	sym, ok := t.symbols[n]
	return sym, ok && sym != nil
}

func (t *Table) TypeOf(e cs.Expr) (*Type, bool) {
	ty, ok := t.types[e]
	return ty, ok && ty != nil
}

func (t *Table) ConstantValue(e cs.Expr) (any, bool) {
	v, ok := t.constants[e]
	return v, ok
}

func (t *Table) ResolveOverload(n cs.Node) (*Signature, bool) {
	sig, ok := t.signatures[n]
	return sig, ok && sig != nil
}

func (t *Table) IsDefinedInSource(sym *Symbol) bool {
	return sym != nil && sym.InSource
}
