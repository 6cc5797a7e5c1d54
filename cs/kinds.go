package cs

// Kind names follow the front end's node kind names so that diagnostics
// point at something a user can look up.

func (*CompilationUnit) Kind() string { return "compilation_unit" }
func (*UsingDirective) Kind() string { return "using_directive" }
func (*NamespaceDecl) Kind() string { return "namespace_declaration" }
func (*EnumDecl) Kind() string { return "enum_declaration" }
func (*EnumMember) Kind() string { return "enum_member_declaration" }
func (*FieldDecl) Kind() string { return "field_declaration" }
func (*MethodDecl) Kind() string { return "method_declaration" }
func (*ConstructorDecl) Kind() string { return "constructor_declaration" }
func (*ConstructorInitializer) Kind() string { return "constructor_initializer" }
func (*PropertyDecl) Kind() string { return "property_declaration" }
func (*IndexerDecl) Kind() string { return "indexer_declaration" }
func (*Accessor) Kind() string { return "accessor_declaration" }
func (*Param) Kind() string { return "parameter" }
func (*TypeRef) Kind() string { return "type" }
func (*Block) Kind() string { return "block" }
func (*ExprStmt) Kind() string { return "expression_statement" }
func (*LocalDecl) Kind() string { return "local_declaration_statement" }
func (*VarDecl) Kind() string { return "variable_declaration" }
func (*Declarator) Kind() string { return "variable_declarator" }
func (*ReturnStmt) Kind() string { return "return_statement" }
func (*IfStmt) Kind() string { return "if_statement" }
func (*WhileStmt) Kind() string { return "while_statement" }
func (*DoStmt) Kind() string { return "do_statement" }
func (*ForStmt) Kind() string { return "for_statement" }
func (*ForEachStmt) Kind() string { return "foreach_statement" }
func (*ThrowStmt) Kind() string { return "throw_statement" }
func (*BreakStmt) Kind() string { return "break_statement" }
func (*ContinueStmt) Kind() string { return "continue_statement" }
func (*EmptyStmt) Kind() string { return "empty_statement" }
func (*TryStmt) Kind() string { return "try_statement" }
func (*CatchClause) Kind() string { return "catch_clause" }
func (*ResizeStmt) Kind() string { return "resize_statement" }
func (*YieldStmt) Kind() string { return "yield_statement" }
func (*SwitchStmt) Kind() string { return "switch_statement" }
func (*SwitchSection) Kind() string { return "switch_section" }
func (*Ident) Kind() string { return "identifier" }
func (*Binary) Kind() string { return "binary_expression" }
func (*Assign) Kind() string { return "assignment_expression" }
func (*Invocation) Kind() string { return "invocation_expression" }
func (*Argument) Kind() string { return "argument" }
func (*MemberAccess) Kind() string { return "member_access_expression" }
func (*ElementAccess) Kind() string { return "element_access_expression" }
func (*ObjectCreation) Kind() string { return "object_creation_expression" }
func (*ArrayCreation) Kind() string { return "array_creation_expression" }
func (*Lambda) Kind() string { return "lambda_expression" }
func (*Conditional) Kind() string { return "conditional_expression" }
func (*Cast) Kind() string { return "cast_expression" }
func (*TypeOf) Kind() string { return "typeof_expression" }
func (*ThrowExpr) Kind() string { return "throw_expression" }
func (*Paren) Kind() string { return "parenthesized_expression" }
func (*DeclarationExpr) Kind() string { return "declaration_expression" }
func (*This) Kind() string { return "this_expression" }
func (*BaseRef) Kind() string { return "base_expression" }

func (n *TypeDecl) Kind() string { return n.Keyword.String() + "_declaration" }

func (n *Unary) Kind() string {
	if n.Postfix {
		return "postfix_unary_expression"
	}
	return "prefix_unary_expression"
}

func (n *Literal) Kind() string {
	switch n.LitKind {
	case IntLit:
		return "integer_literal"
	case RealLit:
		return "real_literal"
	case StringLit:
		return "string_literal"
	case VerbatimStringLit:
		return "verbatim_string_literal"
	case CharLit:
		return "character_literal"
	case BoolLit:
		return "boolean_literal"
	default:
		return "null_literal"
	}
}

func (n *TypeTest) Kind() string { return n.Op + "_expression" }

func (n *Unknown) Kind() string { return n.KindName }

func (*Ident) exprNode() {}
func (*Literal) exprNode() {}
func (*Binary) exprNode() {}
func (*Unary) exprNode() {}
func (*Assign) exprNode() {}
func (*Invocation) exprNode() {}
func (*MemberAccess) exprNode() {}
func (*ElementAccess) exprNode() {}
func (*ObjectCreation) exprNode() {}
func (*ArrayCreation) exprNode() {}
func (*Lambda) exprNode() {}
func (*Conditional) exprNode() {}
func (*Cast) exprNode() {}
func (*TypeTest) exprNode() {}
func (*TypeOf) exprNode() {}
func (*ThrowExpr) exprNode() {}
func (*Paren) exprNode() {}
func (*DeclarationExpr) exprNode() {}
func (*This) exprNode() {}
func (*BaseRef) exprNode() {}
func (*Unknown) exprNode() {}

func (*Block) stmtNode() {}
func (*ExprStmt) stmtNode() {}
func (*LocalDecl) stmtNode() {}
func (*ReturnStmt) stmtNode() {}
func (*IfStmt) stmtNode() {}
func (*WhileStmt) stmtNode() {}
func (*DoStmt) stmtNode() {}
func (*ForStmt) stmtNode() {}
func (*ForEachStmt) stmtNode() {}
func (*ThrowStmt) stmtNode() {}
func (*BreakStmt) stmtNode() {}
func (*ContinueStmt) stmtNode() {}
func (*EmptyStmt) stmtNode() {}
func (*TryStmt) stmtNode() {}
func (*ResizeStmt) stmtNode() {}
func (*YieldStmt) stmtNode() {}
func (*SwitchStmt) stmtNode() {}
func (*Unknown) stmtNode() {}

func (*NamespaceDecl) memberNode() {}
func (*TypeDecl) memberNode() {}
func (*EnumDecl) memberNode() {}
func (*FieldDecl) memberNode() {}
func (*MethodDecl) memberNode() {}
func (*ConstructorDecl) memberNode() {}
func (*PropertyDecl) memberNode() {}
func (*IndexerDecl) memberNode() {}
func (*Unknown) memberNode() {}
