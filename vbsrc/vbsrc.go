// Package vbsrc provide type safe way to represent target language source code
// along with way to convert them to actual source text
package vbsrc

import (
	"strings"

	"github.com/heshanpadmasiri/csvb/annotation"
	"github.com/heshanpadmasiri/csvb/semantic"
)

// TriviaKind classifies non-code content.
type TriviaKind int

const (
	Comment TriviaKind = iota
	DocComment
	BlankLine
)

// Trivia is a comment body (without the quote marker) or a blank line.
type Trivia struct {
	Kind TriviaKind
	Text string
}

// Meta is embedded in every node: trivia plus annotations.
type Meta struct {
	Leading     []Trivia
	Trailing    []Trivia
	Annotations annotation.Set
}

func (m *Meta) Info() *Meta { return m }

// Interfaces for source elements

type (
	// Node represents any element that can be converted to source
	Node interface {
		ToSource() string
		Info() *Meta
	}

	// Statement represents a statement inside a method body
	Statement interface {
		Node
		statementNode()
	}

	// Expression represents an expression
	Expression interface {
		Node
		expressionNode()
	}

	// Member represents anything that can appear in a namespace or type body
	Member interface {
		Node
		memberNode()
	}
)

// Name is an identifier bound to the symbol it declares or references.
// Renaming a symbol rewrites Text of every Name sharing that Symbol.
type Name struct {
	Text   string
	Symbol *semantic.Symbol
}

// NewName creates a Name with no symbol binding.
func NewName(text string) *Name {
	return &Name{Text: text}
}

// Type is a type rendered in target syntax.
type Type string

// Predefined target types.
const (
	TypeInteger Type = "Integer"
	TypeString  Type = "String"
	TypeBoolean Type = "Boolean"
	TypeObject  Type = "Object"
)

func (t Type) ToSource() string {
	return string(t)
}

// RenameIdentifier replaces every identifier in t spelled exactly old.
func (t Type) RenameIdentifier(old, newName string) Type {
	s := string(t)
	sb := strings.Builder{}
	for i := 0; i < len(s); {
		if !isIdentByte(s[i]) {
			sb.WriteByte(s[i])
			i++
			continue
		}
		j := i
		for j < len(s) && isIdentByte(s[j]) {
			j++
		}
		if s[i:j] == old {
			sb.WriteString(newName)
		} else {
			sb.WriteString(s[i:j])
		}
		i = j
	}
	return Type(sb.String())
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 0x80 || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// ArrayType returns the array type of the given rank, e.g. Integer(,).
func ArrayType(elem Type, rank int) Type {
	return Type(string(elem) + "(" + strings.Repeat(",", rank-1) + ")")
}

// Core source structures

type (
	// CompilationUnit represents a complete source file
	CompilationUnit struct {
		Meta
		Header  string
		Imports []*Import
		Members []Member
		// TypeNames maps the last segment of every written type name to the
		// source type it refers to. A nil entry means the spelling does not
		// name exactly one source type.
		TypeNames map[string]*semantic.Symbol
	}

	// Import is `Imports Path` or `Imports Alias = Path`
	Import struct {
		Meta
		Path  string
		Alias string
	}

	// NamespaceBlock represents a namespace
	NamespaceBlock struct {
		Meta
		Name    string
		Members []Member
	}

	// TypeBlock represents a class, structure, interface or module
	TypeBlock struct {
		Meta
		Keyword    TypeKeyword
		Modifiers  []string
		Name       *Name
		TypeParams []string
		Inherits   []Type
		Implements []Type
		Members    []Member
	}

	// EnumBlock represents an enum definition
	EnumBlock struct {
		Meta
		Modifiers []string
		Name      *Name
		Base      Type
		Members   []*EnumMember
	}

	// EnumMember represents one enum value
	EnumMember struct {
		Meta
		Name  *Name
		Value Expression
	}

	// FieldDecl represents one or more fields sharing modifiers
	FieldDecl struct {
		Meta
		Modifiers   []string
		Declarators []*Declarator
	}

	// MethodBlock represents a Sub or Function, including constructors (Sub New)
	MethodBlock struct {
		Meta
		Modifiers  []string
		IsFunction bool
		Name       *Name
		TypeParams []string
		Params     []*Param
		ReturnType Type
		Body       []Statement
		// NoBody is set for abstract and interface members.
		NoBody bool
	}

	// PropertyBlock represents a property or default indexer property
	PropertyBlock struct {
		Meta
		Modifiers []string
		Name      *Name
		Params    []*Param
		Type      Type
		Getter    *AccessorBlock
		Setter    *AccessorBlock
		Init      Expression
		// Auto is set for auto-implemented properties, which render on one line.
		Auto bool
	}

	// AccessorBlock is a Get or Set block
	AccessorBlock struct {
		Meta
		Modifiers []string
		ParamName string
		ParamType Type
		Body      []Statement
	}

	// Param represents a method, lambda or property parameter
	Param struct {
		Name       *Name
		Type       Type
		ByRef      bool
		Optional   bool
		Default    Expression
		ParamArray bool
	}

	// Declarator groups one or more names with an optional type and initializer
	Declarator struct {
		Names []*Name
		Type  Type
		Init  Expression
	}
)

// TypeKeyword is the keyword introducing a TypeBlock
type TypeKeyword int

const (
	ClassKeyword TypeKeyword = iota
	StructureKeyword
	InterfaceKeyword
	ModuleKeyword
)

func (k TypeKeyword) String() string {
	switch k {
	case StructureKeyword:
		return "Structure"
	case InterfaceKeyword:
		return "Interface"
	case ModuleKeyword:
		return "Module"
	default:
		return "Class"
	}
}

// Statement implementations

type (
	// EmptyStatement renders nothing but its trivia. It stands in for a
	// statement or member that failed to convert.
	EmptyStatement struct {
		Meta
	}

	// DimStatement declares locals
	DimStatement struct {
		Meta
		Keyword     string
		Declarators []*Declarator
	}

	// AssignStatement represents an assignment, Op is "=" or a compound operator
	AssignStatement struct {
		Meta
		Target Expression
		Op     string
		Value  Expression
	}

	// CallStatement represents an invocation used as a statement
	CallStatement struct {
		Meta
		Call Expression
	}

	// ReturnStatement represents a return statement
	ReturnStatement struct {
		Meta
		Value Expression
	}

	// IfBlock represents an If/ElseIf/Else block
	IfBlock struct {
		Meta
		Cond    Expression
		Body    []Statement
		ElseIfs []*ElseIfBlock
		Else    []Statement
		HasElse bool
	}

	// ElseIfBlock represents one ElseIf arm
	ElseIfBlock struct {
		Cond Expression
		Body []Statement
	}

	// WhileBlock represents a While loop
	WhileBlock struct {
		Meta
		Cond Expression
		Body []Statement
	}

	// DoLoopBlock represents Do ... Loop While cond
	DoLoopBlock struct {
		Meta
		Body []Statement
		Cond Expression
	}

	// ForBlock represents For v As T = from To to Step step
	ForBlock struct {
		Meta
		Var     *Name
		VarType Type
		From    Expression
		To      Expression
		Step    Expression
		Body    []Statement
	}

	// ForEachBlock represents For Each v As T In collection
	ForEachBlock struct {
		Meta
		Var        *Name
		VarType    Type
		Collection Expression
		Body       []Statement
	}

	// ThrowStatement represents Throw with an optional value
	ThrowStatement struct {
		Meta
		Value Expression
	}

	// ExitStatement represents Exit For / Exit While / Exit Do / Exit Sub
	ExitStatement struct {
		Meta
		Kind string
	}

	// ContinueStatement represents Continue For / While / Do
	ContinueStatement struct {
		Meta
		Kind string
	}

	// TryBlock represents Try/Catch/Finally
	TryBlock struct {
		Meta
		Body       []Statement
		Catches    []*CatchBlock
		Finally    []Statement
		HasFinally bool
	}

	// CatchBlock represents one Catch arm
	CatchBlock struct {
		Name *Name
		Type Type
		Body []Statement
	}

	// SelectBlock represents Select Case value ... End Select
	SelectBlock struct {
		Meta
		Value Expression
		Cases []*CaseBlock
	}

	// CaseBlock represents one Case arm. IsElse marks Case Else.
	CaseBlock struct {
		Meta
		Values []Expression
		IsElse bool
		Body   []Statement
	}

	// YieldStatement represents Yield value inside an Iterator
	YieldStatement struct {
		Meta
		Value Expression
	}
)

// Expression implementations

type (
	// IdentifierExpr references a symbol by name
	IdentifierExpr struct {
		Meta
		Name *Name
	}

	// LiteralExpr is a literal or keyword token rendered verbatim
	LiteralExpr struct {
		Meta
		Text string
	}

	// BinaryExpr represents a binary operation
	BinaryExpr struct {
		Meta
		Left  Expression
		Op    string
		Right Expression
	}

	// UnaryExpr represents a unary operation
	UnaryExpr struct {
		Meta
		Op      string
		Operand Expression
	}

	// InvocationExpr represents a call or an element access
	InvocationExpr struct {
		Meta
		Target Expression
		Args   []Expression
	}

	// NamedArgument is name:=value inside an argument list
	NamedArgument struct {
		Meta
		Name  string
		Value Expression
	}

	// MemberAccessExpr represents X.Name
	MemberAccessExpr struct {
		Meta
		X    Expression
		Name *Name
	}

	// GenericNameExpr represents Name(Of T1, T2)
	GenericNameExpr struct {
		Meta
		Name     *Name
		TypeArgs []Type
	}

	// ObjectCreationExpr represents New T(args) with an optional collection initializer
	ObjectCreationExpr struct {
		Meta
		Type Type
		Args []Expression
		Init []Expression
	}

	// ArrayCreationExpr represents New T(bounds) {init}
	ArrayCreationExpr struct {
		Meta
		Elem   Type
		Rank   int
		Bounds []Expression
		Init   []Expression
	}

	// CollectionExpr represents {a, b}
	CollectionExpr struct {
		Meta
		Items []Expression
	}

	// LambdaExpr represents Sub/Function lambdas. A non-nil Body selects the
	// single-line form; otherwise Statements form the multi-line block.
	LambdaExpr struct {
		Meta
		IsFunction bool
		Async      bool
		Iterator   bool
		Params     []*Param
		Body       Expression
		Statements []Statement
	}

	// IfExpr represents If(a, b) and If(c, a, b)
	IfExpr struct {
		Meta
		Args []Expression
	}

	// CastExpr represents CInt(x) style casts (Type empty) and
	// CType/DirectCast/TryCast(x, T)
	CastExpr struct {
		Meta
		Keyword string
		X       Expression
		Type    Type
	}

	// ParenExpr represents (X)
	ParenExpr struct {
		Meta
		X Expression
	}

	// TypeOfIsExpr represents TypeOf X Is T
	TypeOfIsExpr struct {
		Meta
		X    Expression
		Type Type
	}

	// GetTypeExpr represents GetType(T)
	GetTypeExpr struct {
		Meta
		Type Type
	}
)

// Nothing returns a fresh Nothing literal.
func Nothing() *LiteralExpr {
	return &LiteralExpr{Text: "Nothing"}
}

// Ident returns an identifier expression bound to sym.
func Ident(text string, sym *semantic.Symbol) *IdentifierExpr {
	return &IdentifierExpr{Name: &Name{Text: text, Symbol: sym}}
}

// Lit returns a literal expression.
func Lit(text string) *LiteralExpr {
	return &LiteralExpr{Text: text}
}

func (*EmptyStatement) statementNode()    {}
func (*DimStatement) statementNode()      {}
func (*AssignStatement) statementNode()   {}
func (*CallStatement) statementNode()     {}
func (*ReturnStatement) statementNode()   {}
func (*IfBlock) statementNode()           {}
func (*WhileBlock) statementNode()        {}
func (*DoLoopBlock) statementNode()       {}
func (*ForBlock) statementNode()          {}
func (*ForEachBlock) statementNode()      {}
func (*ThrowStatement) statementNode()    {}
func (*ExitStatement) statementNode()     {}
func (*ContinueStatement) statementNode() {}
func (*TryBlock) statementNode()          {}
func (*SelectBlock) statementNode()       {}
func (*YieldStatement) statementNode()    {}

func (*EmptyStatement) memberNode() {}
func (*NamespaceBlock) memberNode() {}
func (*TypeBlock) memberNode()      {}
func (*EnumBlock) memberNode()      {}
func (*FieldDecl) memberNode()      {}
func (*MethodBlock) memberNode()    {}
func (*PropertyBlock) memberNode()  {}

func (*IdentifierExpr) expressionNode()     {}
func (*LiteralExpr) expressionNode()        {}
func (*BinaryExpr) expressionNode()         {}
func (*UnaryExpr) expressionNode()          {}
func (*InvocationExpr) expressionNode()     {}
func (*NamedArgument) expressionNode()      {}
func (*MemberAccessExpr) expressionNode()   {}
func (*GenericNameExpr) expressionNode()    {}
func (*ObjectCreationExpr) expressionNode() {}
func (*ArrayCreationExpr) expressionNode()  {}
func (*CollectionExpr) expressionNode()     {}
func (*LambdaExpr) expressionNode()         {}
func (*IfExpr) expressionNode()             {}
func (*CastExpr) expressionNode()           {}
func (*ParenExpr) expressionNode()          {}
func (*TypeOfIsExpr) expressionNode()       {}
func (*GetTypeExpr) expressionNode()        {}
