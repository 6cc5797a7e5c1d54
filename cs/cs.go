// Package cs provides the syntax model of the source language: a closed set of
// node kinds produced by a front end and consumed, read-only, by the converter.
package cs

import "strings"

// Span locates a node in the original source. Lines and columns are 1-based.
type Span struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// SingleLine reports whether the span starts and ends on the same line.
func (s Span) SingleLine() bool {
	return s.StartLine == s.EndLine
}

// TriviaKind classifies non-code content attached to a node.
type TriviaKind int

const (
	LineComment TriviaKind = iota
	BlockComment
	DocComment
	BlankLine
)

// Trivia is a comment or blank-line marker. Text holds the comment body
// without its delimiters.
type Trivia struct {
	Kind TriviaKind
	Text string
}

// NodeInfo is embedded in every node.
type NodeInfo struct {
	Span     Span
	Leading  []Trivia
	Trailing []Trivia
	// Text is the original source text of the node, used in diagnostics.
	Text string
}

func (n *NodeInfo) Info() *NodeInfo { return n }

type (
	// Node is any source node.
	Node interface {
		Info() *NodeInfo
		Kind() string
	}

	// Expr is a node in expression position.
	Expr interface {
		Node
		exprNode()
	}

	// Stmt is a node in statement position.
	Stmt interface {
		Node
		stmtNode()
	}

	// Member is a node that can appear in a namespace or type body.
	Member interface {
		Node
		memberNode()
	}
)

// Declarations

type (
	// CompilationUnit is the root of one source file.
	CompilationUnit struct {
		NodeInfo
		Usings  []*UsingDirective
		Members []Member
	}

	// UsingDirective is `using X;`, `using A = X;` or `using static X;`.
	UsingDirective struct {
		NodeInfo
		Name   string
		Alias  string
		Static bool
	}

	// NamespaceDecl is a block or file-scoped namespace.
	NamespaceDecl struct {
		NodeInfo
		Name    string
		Usings  []*UsingDirective
		Members []Member
	}

	// TypeDecl is a class, struct or interface.
	TypeDecl struct {
		NodeInfo
		Keyword   TypeKeyword
		Modifiers Modifiers
		Name      string
		TypeArgs  []string
		Bases     []*TypeRef
		Members   []Member
	}

	// EnumDecl is an enum with its members.
	EnumDecl struct {
		NodeInfo
		Modifiers Modifiers
		Name      string
		Base      *TypeRef
		Members   []*EnumMember
	}

	EnumMember struct {
		NodeInfo
		Name  string
		Value Expr
	}

	// FieldDecl declares one or more fields sharing a type.
	FieldDecl struct {
		NodeInfo
		Modifiers Modifiers
		Decl      *VarDecl
	}

	// MethodDecl is a method. A nil ReturnType or a void one makes it a procedure.
	MethodDecl struct {
		NodeInfo
		Modifiers  Modifiers
		ReturnType *TypeRef
		Name       string
		TypeArgs   []string
		Params     []*Param
		Body       *Block
		ExprBody   Expr
	}

	// ConstructorDecl is an instance or static constructor.
	ConstructorDecl struct {
		NodeInfo
		Modifiers   Modifiers
		Name        string
		Params      []*Param
		Initializer *ConstructorInitializer
		Body        *Block
	}

	// ConstructorInitializer is `: base(...)` or `: this(...)`.
	ConstructorInitializer struct {
		NodeInfo
		Base bool
		Args []*Argument
	}

	// PropertyDecl covers auto, full and expression-bodied properties.
	PropertyDecl struct {
		NodeInfo
		Modifiers Modifiers
		Type      *TypeRef
		Name      string
		Getter    *Accessor
		Setter    *Accessor
		ExprBody  Expr
		Init      Expr
	}

	// IndexerDecl is `T this[...]`.
	IndexerDecl struct {
		NodeInfo
		Modifiers Modifiers
		Type      *TypeRef
		Params    []*Param
		Getter    *Accessor
		Setter    *Accessor
		ExprBody  Expr
	}

	// Accessor is a get or set accessor. Both bodies nil means auto-implemented.
	Accessor struct {
		NodeInfo
		Modifiers Modifiers
		Body      *Block
		ExprBody  Expr
	}

	// Param is a method, lambda or indexer parameter. Type is nil for
	// implicitly typed lambda parameters.
	Param struct {
		NodeInfo
		Name     string
		Type     *TypeRef
		Modifier ParamModifier
		Default  Expr
	}

	// TypeRef is a type as written in source.
	TypeRef struct {
		NodeInfo
		Name     string
		Args     []*TypeRef
		Elem     *TypeRef
		Rank     int
		Nullable bool
	}
)

// TypeKeyword is the keyword introducing a TypeDecl.
type TypeKeyword int

const (
	Class TypeKeyword = iota
	Struct
	Interface
)

func (k TypeKeyword) String() string {
	switch k {
	case Struct:
		return "struct"
	case Interface:
		return "interface"
	default:
		return "class"
	}
}

// ParamModifier is the passing mode of a parameter or argument.
type ParamModifier int

const (
	ByValue ParamModifier = iota
	Ref
	Out
	In
	Params
)

// IsVoid reports whether the type is the void keyword.
func (t *TypeRef) IsVoid() bool {
	return t == nil || (t.Rank == 0 && t.Name == "void")
}

// IsVar reports whether the type is the implicit `var` keyword.
func (t *TypeRef) IsVar() bool {
	return t != nil && t.Rank == 0 && t.Name == "var"
}

// String renders the type in source syntax.
func (t *TypeRef) String() string {
	if t == nil {
		return "void"
	}
	sb := strings.Builder{}
	if t.Rank > 0 {
		sb.WriteString(t.Elem.String())
		sb.WriteString("[")
		sb.WriteString(strings.Repeat(",", t.Rank-1))
		sb.WriteString("]")
		return sb.String()
	}
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

// Statements

type (
	Block struct {
		NodeInfo
		Stmts []Stmt
	}

	ExprStmt struct {
		NodeInfo
		X Expr
	}

	// LocalDecl is a local variable or local constant declaration.
	LocalDecl struct {
		NodeInfo
		Const bool
		Decl  *VarDecl
	}

	// VarDecl is a type followed by one or more declarators.
	VarDecl struct {
		NodeInfo
		Type        *TypeRef
		Declarators []*Declarator
	}

	Declarator struct {
		NodeInfo
		Name string
		Init Expr
	}

	ReturnStmt struct {
		NodeInfo
		Value Expr
	}

	IfStmt struct {
		NodeInfo
		Cond Expr
		Then Stmt
		Else Stmt
	}

	WhileStmt struct {
		NodeInfo
		Cond Expr
		Body Stmt
	}

	DoStmt struct {
		NodeInfo
		Body Stmt
		Cond Expr
	}

	ForStmt struct {
		NodeInfo
		Decl   *VarDecl
		Init   []Expr
		Cond   Expr
		Update []Expr
		Body   Stmt
	}

	ForEachStmt struct {
		NodeInfo
		Type       *TypeRef
		Name       string
		Collection Expr
		Body       Stmt
	}

	ThrowStmt struct {
		NodeInfo
		Value Expr
	}

	BreakStmt struct {
		NodeInfo
	}

	ContinueStmt struct {
		NodeInfo
	}

	EmptyStmt struct {
		NodeInfo
	}

	TryStmt struct {
		NodeInfo
		Body    *Block
		Catches []*CatchClause
		Finally *Block
	}

	CatchClause struct {
		NodeInfo
		Type *TypeRef
		Name string
		Body *Block
	}

	// ResizeStmt reallocates an array to new lengths, optionally keeping
	// the existing elements.
	ResizeStmt struct {
		NodeInfo
		Target   Expr
		Lengths  []Expr
		Preserve bool
	}

	// YieldStmt is `yield return Value` or, with a nil Value, `yield break`.
	YieldStmt struct {
		NodeInfo
		Value Expr
	}

	SwitchStmt struct {
		NodeInfo
		Value    Expr
		Sections []*SwitchSection
	}

	// SwitchSection is a group of case labels sharing one statement list.
	// Default is set when one of the labels is `default`.
	SwitchSection struct {
		NodeInfo
		Labels  []Expr
		Default bool
		Stmts   []Stmt
	}
)

// Expressions

type (
	Ident struct {
		NodeInfo
		Name string
	}

	Literal struct {
		NodeInfo
		LitKind LiteralKind
		// Raw is the literal token as written.
		Raw string
	}

	Binary struct {
		NodeInfo
		Op    string
		Left  Expr
		Right Expr
	}

	Unary struct {
		NodeInfo
		Op      string
		X       Expr
		Postfix bool
	}

	Assign struct {
		NodeInfo
		Op     string
		Target Expr
		Value  Expr
	}

	Invocation struct {
		NodeInfo
		Fun  Expr
		Args []*Argument
	}

	Argument struct {
		NodeInfo
		Name     string
		Modifier ParamModifier
		Value    Expr
	}

	MemberAccess struct {
		NodeInfo
		X    Expr
		Name string
	}

	ElementAccess struct {
		NodeInfo
		X       Expr
		Indices []Expr
	}

	ObjectCreation struct {
		NodeInfo
		Type *TypeRef
		Args []*Argument
		Init []Expr
	}

	// ArrayCreation is `new T[n, m]` or `new T[] { ... }`. Lengths is empty
	// when only an initializer is given.
	ArrayCreation struct {
		NodeInfo
		Elem    *TypeRef
		Rank    int
		Lengths []Expr
		Init    []Expr
	}

	// Lambda is a lambda or anonymous method. Body is either an Expr or a *Block.
	Lambda struct {
		NodeInfo
		Params []*Param
		Body   Node
		Async  bool
	}

	Conditional struct {
		NodeInfo
		Cond Expr
		Then Expr
		Else Expr
	}

	Cast struct {
		NodeInfo
		Type *TypeRef
		X    Expr
	}

	// TypeTest is `x is T` or `x as T`.
	TypeTest struct {
		NodeInfo
		Op   string
		X    Expr
		Type *TypeRef
	}

	TypeOf struct {
		NodeInfo
		Type *TypeRef
	}

	ThrowExpr struct {
		NodeInfo
		Value Expr
	}

	Paren struct {
		NodeInfo
		X Expr
	}

	// DeclarationExpr is `out var x` or `out int x` inside an argument list.
	DeclarationExpr struct {
		NodeInfo
		Type *TypeRef
		Name string
	}

	This struct {
		NodeInfo
	}

	BaseRef struct {
		NodeInfo
	}

	// Unknown stands for a construct the front end recognised syntactically but
	// that has no shape in this model. It is valid in any position.
	Unknown struct {
		NodeInfo
		KindName string
	}
)

// LiteralKind classifies literal tokens.
type LiteralKind int

const (
	IntLit LiteralKind = iota
	RealLit
	StringLit
	VerbatimStringLit
	CharLit
	BoolLit
	NullLit
)
