package vbsrc

// Inspect traverses the tree rooted at n in depth-first order. If f returns
// false the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, child := range children(n) {
		Inspect(child, f)
	}
}

// WalkNames calls f for every Name declared or referenced under n, in tree order.
func WalkNames(n Node, f func(*Name)) {
	Inspect(n, func(node Node) bool {
		for _, name := range ownNames(node) {
			if name != nil {
				f(name)
			}
		}
		return true
	})
}

// WalkTypes calls f for every type written under n, in tree order.
func WalkTypes(n Node, f func(*Type)) {
	Inspect(n, func(node Node) bool {
		for _, t := range ownTypes(node) {
			f(t)
		}
		return true
	})
}

func addExpr(out []Node, exprs ...Expression) []Node {
	for _, e := range exprs {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

func addStmts(out []Node, stmts []Statement) []Node {
	for _, s := range stmts {
		out = append(out, s)
	}
	return out
}

func paramDefaults(out []Node, params []*Param) []Node {
	for _, p := range params {
		out = addExpr(out, p.Default)
	}
	return out
}

func declInits(out []Node, decls []*Declarator) []Node {
	for _, d := range decls {
		out = addExpr(out, d.Init)
	}
	return out
}

func children(n Node) []Node {
	var out []Node
	switch n := n.(type) {
	case *CompilationUnit:
		for _, imp := range n.Imports {
			out = append(out, imp)
		}
		for _, m := range n.Members {
			out = append(out, m)
		}
	case *NamespaceBlock:
		for _, m := range n.Members {
			out = append(out, m)
		}
	case *TypeBlock:
		for _, m := range n.Members {
			out = append(out, m)
		}
	case *EnumBlock:
		for _, m := range n.Members {
			out = append(out, m)
		}
	case *EnumMember:
		out = addExpr(out, n.Value)
	case *FieldDecl:
		out = declInits(out, n.Declarators)
	case *MethodBlock:
		out = paramDefaults(out, n.Params)
		out = addStmts(out, n.Body)
	case *PropertyBlock:
		out = paramDefaults(out, n.Params)
		out = addExpr(out, n.Init)
		if n.Getter != nil {
			out = addStmts(out, n.Getter.Body)
		}
		if n.Setter != nil {
			out = addStmts(out, n.Setter.Body)
		}
	case *DimStatement:
		out = declInits(out, n.Declarators)
	case *AssignStatement:
		out = addExpr(out, n.Target, n.Value)
	case *CallStatement:
		out = addExpr(out, n.Call)
	case *ReturnStatement:
		out = addExpr(out, n.Value)
	case *IfBlock:
		out = addExpr(out, n.Cond)
		out = addStmts(out, n.Body)
		for _, elseIf := range n.ElseIfs {
			out = addExpr(out, elseIf.Cond)
			out = addStmts(out, elseIf.Body)
		}
		out = addStmts(out, n.Else)
	case *WhileBlock:
		out = addExpr(out, n.Cond)
		out = addStmts(out, n.Body)
	case *DoLoopBlock:
		out = addStmts(out, n.Body)
		out = addExpr(out, n.Cond)
	case *ForBlock:
		out = addExpr(out, n.From, n.To, n.Step)
		out = addStmts(out, n.Body)
	case *ForEachBlock:
		out = addExpr(out, n.Collection)
		out = addStmts(out, n.Body)
	case *ThrowStatement:
		out = addExpr(out, n.Value)
	case *TryBlock:
		out = addStmts(out, n.Body)
		for _, c := range n.Catches {
			out = addStmts(out, c.Body)
		}
		out = addStmts(out, n.Finally)
	case *SelectBlock:
		out = addExpr(out, n.Value)
		for _, c := range n.Cases {
			out = addExpr(out, c.Values...)
			out = addStmts(out, c.Body)
		}
	case *YieldStatement:
		out = addExpr(out, n.Value)
	case *BinaryExpr:
		out = addExpr(out, n.Left, n.Right)
	case *UnaryExpr:
		out = addExpr(out, n.Operand)
	case *InvocationExpr:
		out = addExpr(out, n.Target)
		out = addExpr(out, n.Args...)
	case *NamedArgument:
		out = addExpr(out, n.Value)
	case *MemberAccessExpr:
		out = addExpr(out, n.X)
	case *ObjectCreationExpr:
		out = addExpr(out, n.Args...)
		out = addExpr(out, n.Init...)
	case *ArrayCreationExpr:
		out = addExpr(out, n.Bounds...)
		out = addExpr(out, n.Init...)
	case *CollectionExpr:
		out = addExpr(out, n.Items...)
	case *LambdaExpr:
		out = paramDefaults(out, n.Params)
		out = addExpr(out, n.Body)
		out = addStmts(out, n.Statements)
	case *IfExpr:
		out = addExpr(out, n.Args...)
	case *CastExpr:
		out = addExpr(out, n.X)
	case *ParenExpr:
		out = addExpr(out, n.X)
	case *TypeOfIsExpr:
		out = addExpr(out, n.X)
	}
	return out
}

func paramNames(params []*Param) []*Name {
	names := make([]*Name, 0, len(params))
	for _, p := range params {
		names = append(names, p.Name)
	}
	return names
}

func declNames(decls []*Declarator) []*Name {
	var names []*Name
	for _, d := range decls {
		names = append(names, d.Names...)
	}
	return names
}

// ownNames returns the names held directly by n, not by its children.
func ownNames(n Node) []*Name {
	switch n := n.(type) {
	case *TypeBlock:
		return []*Name{n.Name}
	case *EnumBlock:
		return []*Name{n.Name}
	case *EnumMember:
		return []*Name{n.Name}
	case *FieldDecl:
		return declNames(n.Declarators)
	case *MethodBlock:
		return append([]*Name{n.Name}, paramNames(n.Params)...)
	case *PropertyBlock:
		return append([]*Name{n.Name}, paramNames(n.Params)...)
	case *DimStatement:
		return declNames(n.Declarators)
	case *ForBlock:
		return []*Name{n.Var}
	case *ForEachBlock:
		return []*Name{n.Var}
	case *TryBlock:
		var names []*Name
		for _, c := range n.Catches {
			names = append(names, c.Name)
		}
		return names
	case *LambdaExpr:
		return paramNames(n.Params)
	case *IdentifierExpr:
		return []*Name{n.Name}
	case *MemberAccessExpr:
		return []*Name{n.Name}
	case *GenericNameExpr:
		return []*Name{n.Name}
	}
	return nil
}

func typeRefs(types []Type) []*Type {
	out := make([]*Type, len(types))
	for i := range types {
		out[i] = &types[i]
	}
	return out
}

func paramTypes(params []*Param) []*Type {
	out := make([]*Type, 0, len(params))
	for _, p := range params {
		out = append(out, &p.Type)
	}
	return out
}

func declTypes(decls []*Declarator) []*Type {
	out := make([]*Type, 0, len(decls))
	for _, d := range decls {
		out = append(out, &d.Type)
	}
	return out
}

// ownTypes returns the types held directly by n, not by its children.
func ownTypes(n Node) []*Type {
	switch n := n.(type) {
	case *TypeBlock:
		return append(typeRefs(n.Inherits), typeRefs(n.Implements)...)
	case *EnumBlock:
		return []*Type{&n.Base}
	case *FieldDecl:
		return declTypes(n.Declarators)
	case *MethodBlock:
		return append([]*Type{&n.ReturnType}, paramTypes(n.Params)...)
	case *PropertyBlock:
		out := append([]*Type{&n.Type}, paramTypes(n.Params)...)
		if n.Getter != nil {
			out = append(out, &n.Getter.ParamType)
		}
		if n.Setter != nil {
			out = append(out, &n.Setter.ParamType)
		}
		return out
	case *DimStatement:
		return declTypes(n.Declarators)
	case *ForBlock:
		return []*Type{&n.VarType}
	case *ForEachBlock:
		return []*Type{&n.VarType}
	case *TryBlock:
		out := make([]*Type, 0, len(n.Catches))
		for _, c := range n.Catches {
			out = append(out, &c.Type)
		}
		return out
	case *GenericNameExpr:
		return typeRefs(n.TypeArgs)
	case *ObjectCreationExpr:
		return []*Type{&n.Type}
	case *ArrayCreationExpr:
		return []*Type{&n.Elem}
	case *LambdaExpr:
		return paramTypes(n.Params)
	case *CastExpr:
		return []*Type{&n.Type}
	case *TypeOfIsExpr:
		return []*Type{&n.Type}
	case *GetTypeExpr:
		return []*Type{&n.Type}
	}
	return nil
}
