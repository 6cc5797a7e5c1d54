// Package semantic defines the facts the converter reads about a source unit:
// declared and referenced symbols, expression types, constant values and
// resolved signatures. The facts are produced elsewhere and are read-only here.
package semantic

import (
	"strings"

	"github.com/heshanpadmasiri/csvb/cs"
)

// SymbolKind classifies a symbol.
type SymbolKind int

const (
	NamespaceSymbol SymbolKind = iota
	TypeSymbol
	FieldSymbol
	MethodSymbol
	ConstructorSymbol
	PropertySymbol
	IndexerSymbol
	EventSymbol
	EnumMemberSymbol
	LocalSymbol
	ParameterSymbol
)

func (k SymbolKind) String() string {
	switch k {
	case NamespaceSymbol:
		return "namespace"
	case TypeSymbol:
		return "type"
	case FieldSymbol:
		return "field"
	case MethodSymbol:
		return "method"
	case ConstructorSymbol:
		return "constructor"
	case PropertySymbol:
		return "property"
	case IndexerSymbol:
		return "indexer"
	case EventSymbol:
		return "event"
	case EnumMemberSymbol:
		return "enum member"
	case LocalSymbol:
		return "local"
	default:
		return "parameter"
	}
}

// Accessibility is ordered from least to most accessible.
type Accessibility int

const (
	NotApplicable Accessibility = iota
	Private
	PrivateProtected
	Protected
	Internal
	ProtectedInternal
	Public
)

// Symbol is a declared entity.
type Symbol struct {
	Name   string
	Kind   SymbolKind
	Access Accessibility
	// Container is the enclosing type or namespace, nil at the top level.
	Container *Symbol
	// Type is the field, property, local or parameter type, or a method's
	// return type (nil for procedures).
	Type *Type
	// Params are the parameter types of methods, constructors and indexers.
	Params   []*Type
	Static   bool
	Override bool
	// Interface marks type symbols declared as interfaces.
	Interface bool
	// InSource is false for symbols that come from referenced assemblies.
	InSource bool
}

// QualifiedName joins the container chain with dots.
func (s *Symbol) QualifiedName() string {
	if s == nil {
		return ""
	}
	if s.Container == nil {
		return s.Name
	}
	return s.Container.QualifiedName() + "." + s.Name
}

// Type is a resolved type.
type Type struct {
	// Name is the keyword for predefined types ("int", "string") or the
	// simple name for others.
	Name string
	// Namespace is the containing namespace of a named type, if known.
	Namespace string
	Args      []*Type
	// Elem and Rank describe arrays.
	Elem     *Type
	Rank     int
	Nullable bool
}

// Common predefined types.
var (
	Int    = &Type{Name: "int"}
	Long   = &Type{Name: "long"}
	UInt   = &Type{Name: "uint"}
	ULong  = &Type{Name: "ulong"}
	Double = &Type{Name: "double"}
	Float  = &Type{Name: "float"}
	Dec    = &Type{Name: "decimal"}
	Bool   = &Type{Name: "bool"}
	Char   = &Type{Name: "char"}
	String = &Type{Name: "string"}
	Object = &Type{Name: "object"}
	// Null is the type of the null literal.
	Null = &Type{Name: "null"}
)

// ArrayOf returns an array type of the given rank.
func ArrayOf(elem *Type, rank int) *Type {
	return &Type{Elem: elem, Rank: rank}
}

// IsArray reports whether t is an array type.
func (t *Type) IsArray() bool {
	return t != nil && t.Rank > 0
}

// IsString reports whether t is the string type.
func (t *Type) IsString() bool {
	return t != nil && t.Rank == 0 && (t.Name == "string" || t.Name == "String")
}

var integralNames = map[string]bool{
	"sbyte": true, "byte": true, "short": true, "ushort": true, "int": true,
	"uint": true, "long": true, "ulong": true,
}

// IsIntegral reports whether t is a predefined integral type.
func (t *Type) IsIntegral() bool {
	return t != nil && t.Rank == 0 && !t.Nullable && integralNames[t.Name]
}

// IsFloating reports whether t is float, double or decimal.
func (t *Type) IsFloating() bool {
	if t == nil || t.Rank > 0 || t.Nullable {
		return false
	}
	switch t.Name {
	case "float", "double", "decimal":
		return true
	}
	return false
}

// IsNull reports whether t is the type of the null literal.
func (t *Type) IsNull() bool {
	return t != nil && t.Name == "null"
}

// String renders the type in source syntax.
func (t *Type) String() string {
	if t == nil {
		return "void"
	}
	if t.Rank > 0 {
		return t.Elem.String() + "[" + strings.Repeat(",", t.Rank-1) + "]"
	}
	sb := strings.Builder{}
	sb.WriteString(t.Name)
	if len(t.Args) > 0 {
		sb.WriteString("<")
		for i, arg := range t.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(arg.String())
		}
		sb.WriteString(">")
	}
	if t.Nullable {
		sb.WriteString("?")
	}
	return sb.String()
}

// Signature is a resolved method shape: the overload chosen for an
// invocation, or the delegate signature a lambda was converted to.
type Signature struct {
	Method *Symbol
	Params []*Type
	// Return is nil for procedures.
	Return *Type
}

// ReturnsVoid reports whether the signature has no return value.
func (s *Signature) ReturnsVoid() bool {
	return s.Return == nil || s.Return.Name == "void"
}

// Model answers semantic questions about one source unit.
type Model interface {
	// SymbolFor returns the symbol a node declares or refers to.
	SymbolFor(n cs.Node) (*Symbol, bool)
	// TypeOf returns the resolved type of an expression.
	TypeOf(e cs.Expr) (*Type, bool)
	// ConstantValue returns the folded value of a constant expression:
	// int64, float64, string, bool or nil for null.
	ConstantValue(e cs.Expr) (any, bool)
	// ResolveOverload returns the method signature chosen for an invocation,
	// object creation or lambda.
	ResolveOverload(n cs.Node) (*Signature, bool)
	// IsDefinedInSource reports whether a symbol is declared in the converted sources.
	IsDefinedInSource(sym *Symbol) bool
}
