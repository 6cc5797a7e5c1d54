package cs

// Inspect traverses the tree rooted at n in depth-first order, calling f for
// each node. Children are skipped when f returns false.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, child := range Children(n) {
		Inspect(child, f)
	}
}

type childList []Node

func (c *childList) expr(exprs ...Expr) {
	for _, e := range exprs {
		if e != nil {
			*c = append(*c, e)
		}
	}
}

func (c *childList) stmt(stmts ...Stmt) {
	for _, s := range stmts {
		if s != nil {
			*c = append(*c, s)
		}
	}
}

func (c *childList) block(b *Block) {
	if b != nil {
		*c = append(*c, b)
	}
}

func (c *childList) typ(t *TypeRef) {
	if t != nil {
		*c = append(*c, t)
	}
}

func (c *childList) params(params []*Param) {
	for _, p := range params {
		*c = append(*c, p)
	}
}

func (c *childList) args(args []*Argument) {
	for _, a := range args {
		*c = append(*c, a)
	}
}

func (c *childList) varDecl(d *VarDecl) {
	if d != nil {
		*c = append(*c, d)
	}
}

func (c *childList) accessor(a *Accessor) {
	if a != nil {
		*c = append(*c, a)
	}
}

// Children returns the direct child nodes of n in source order.
func Children(n Node) []Node {
	var c childList
	switch n := n.(type) {
	case *CompilationUnit:
		for _, u := range n.Usings {
			c = append(c, u)
		}
		for _, m := range n.Members {
			c = append(c, m)
		}
	case *NamespaceDecl:
		for _, u := range n.Usings {
			c = append(c, u)
		}
		for _, m := range n.Members {
			c = append(c, m)
		}
	case *TypeDecl:
		for _, b := range n.Bases {
			c.typ(b)
		}
		for _, m := range n.Members {
			c = append(c, m)
		}
	case *EnumDecl:
		c.typ(n.Base)
		for _, m := range n.Members {
			c = append(c, m)
		}
	case *EnumMember:
		c.expr(n.Value)
	case *FieldDecl:
		c.varDecl(n.Decl)
	case *MethodDecl:
		c.typ(n.ReturnType)
		c.params(n.Params)
		c.block(n.Body)
		c.expr(n.ExprBody)
	case *ConstructorDecl:
		c.params(n.Params)
		if n.Initializer != nil {
			c = append(c, n.Initializer)
		}
		c.block(n.Body)
	case *ConstructorInitializer:
		c.args(n.Args)
	case *PropertyDecl:
		c.typ(n.Type)
		c.accessor(n.Getter)
		c.accessor(n.Setter)
		c.expr(n.ExprBody, n.Init)
	case *IndexerDecl:
		c.typ(n.Type)
		c.params(n.Params)
		c.accessor(n.Getter)
		c.accessor(n.Setter)
		c.expr(n.ExprBody)
	case *Accessor:
		c.block(n.Body)
		c.expr(n.ExprBody)
	case *Param:
		c.typ(n.Type)
		c.expr(n.Default)
	case *TypeRef:
		for _, a := range n.Args {
			c.typ(a)
		}
		c.typ(n.Elem)
	case *Block:
		c.stmt(n.Stmts...)
	case *ExprStmt:
		c.expr(n.X)
	case *LocalDecl:
		c.varDecl(n.Decl)
	case *VarDecl:
		c.typ(n.Type)
		for _, d := range n.Declarators {
			c = append(c, d)
		}
	case *Declarator:
		c.expr(n.Init)
	case *ReturnStmt:
		c.expr(n.Value)
	case *IfStmt:
		c.expr(n.Cond)
		c.stmt(n.Then, n.Else)
	case *WhileStmt:
		c.expr(n.Cond)
		c.stmt(n.Body)
	case *DoStmt:
		c.stmt(n.Body)
		c.expr(n.Cond)
	case *ForStmt:
		c.varDecl(n.Decl)
		c.expr(n.Init...)
		c.expr(n.Cond)
		c.expr(n.Update...)
		c.stmt(n.Body)
	case *ForEachStmt:
		c.typ(n.Type)
		c.expr(n.Collection)
		c.stmt(n.Body)
	case *ThrowStmt:
		c.expr(n.Value)
	case *TryStmt:
		c.block(n.Body)
		for _, cc := range n.Catches {
			c = append(c, cc)
		}
		c.block(n.Finally)
	case *CatchClause:
		c.typ(n.Type)
		c.block(n.Body)
	case *ResizeStmt:
		c.expr(n.Target)
		c.expr(n.Lengths...)
	case *YieldStmt:
		c.expr(n.Value)
	case *SwitchStmt:
		c.expr(n.Value)
		for _, sec := range n.Sections {
			c = append(c, sec)
		}
	case *SwitchSection:
		c.expr(n.Labels...)
		c.stmt(n.Stmts...)
	case *Binary:
		c.expr(n.Left, n.Right)
	case *Unary:
		c.expr(n.X)
	case *Assign:
		c.expr(n.Target, n.Value)
	case *Invocation:
		c.expr(n.Fun)
		c.args(n.Args)
	case *Argument:
		c.expr(n.Value)
	case *MemberAccess:
		c.expr(n.X)
	case *ElementAccess:
		c.expr(n.X)
		c.expr(n.Indices...)
	case *ObjectCreation:
		c.typ(n.Type)
		c.args(n.Args)
		c.expr(n.Init...)
	case *ArrayCreation:
		c.typ(n.Elem)
		c.expr(n.Lengths...)
		c.expr(n.Init...)
	case *Lambda:
		c.params(n.Params)
		if n.Body != nil {
			c = append(c, n.Body)
		}
	case *Conditional:
		c.expr(n.Cond, n.Then, n.Else)
	case *Cast:
		c.typ(n.Type)
		c.expr(n.X)
	case *TypeTest:
		c.expr(n.X)
		c.typ(n.Type)
	case *TypeOf:
		c.typ(n.Type)
	case *ThrowExpr:
		c.expr(n.Value)
	case *Paren:
		c.expr(n.X)
	case *DeclarationExpr:
		c.typ(n.Type)
	}
	return c
}
