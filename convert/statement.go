package convert

import (
	"strconv"

	"github.com/heshanpadmasiri/csvb/cs"
	"github.com/heshanpadmasiri/csvb/vbsrc"
)

// convertBlock flattens a block into a statement list, isolating each statement.
func (ctx *Context) convertBlock(block *cs.Block) ([]vbsrc.Statement, error) {
	if block == nil {
		return nil, nil
	}
	var body []vbsrc.Statement
	for _, stmt := range block.Stmts {
		out, err := ctx.convertStatementIsolated(stmt)
		if err != nil {
			return nil, err
		}
		body = append(body, out...)
	}
	return body, nil
}

// convertBody converts the body of a compound statement, which may be a
// block or a single statement.
func (ctx *Context) convertBody(stmt cs.Stmt) ([]vbsrc.Statement, error) {
	if stmt == nil {
		return nil, nil
	}
	if block, ok := stmt.(*cs.Block); ok {
		return ctx.convertBlock(block)
	}
	return ctx.convertStatementIsolated(stmt)
}

// convertStatement dispatches on the statement kind. One source statement may
// expand into several target statements.
func (ctx *Context) convertStatement(stmt cs.Stmt) ([]vbsrc.Statement, error) {
	switch s := stmt.(type) {
	case *cs.Block:
		return ctx.convertBlock(s)
	case *cs.ExprStmt:
		return ctx.convertExpressionStatement(s)
	case *cs.LocalDecl:
		return ctx.convertLocalDecl(s)
	case *cs.ReturnStmt:
		if s.Value == nil {
			return []vbsrc.Statement{&vbsrc.ReturnStatement{}}, nil
		}
		value, hoisted, err := ctx.convertExpression(s.Value)
		if err != nil {
			return nil, err
		}
		return append(hoisted, &vbsrc.ReturnStatement{Value: value}), nil
	case *cs.IfStmt:
		return ctx.convertIf(s)
	case *cs.WhileStmt:
		return ctx.convertWhile(s)
	case *cs.DoStmt:
		return ctx.convertDo(s)
	case *cs.ForStmt:
		return ctx.convertFor(s)
	case *cs.ForEachStmt:
		return ctx.convertForEach(s)
	case *cs.ThrowStmt:
		if s.Value == nil {
			return []vbsrc.Statement{&vbsrc.ThrowStatement{}}, nil
		}
		value, hoisted, err := ctx.convertExpression(s.Value)
		if err != nil {
			return nil, err
		}
		return append(hoisted, &vbsrc.ThrowStatement{Value: value}), nil
	case *cs.BreakStmt:
		kind, ok := ctx.currentLoop()
		if !ok {
			return nil, unsupported(s, "break outside a loop")
		}
		return []vbsrc.Statement{&vbsrc.ExitStatement{Kind: kind}}, nil
	case *cs.ContinueStmt:
		kind, ok := ctx.continueTarget()
		if !ok {
			return nil, unsupported(s, "continue outside a loop")
		}
		return []vbsrc.Statement{&vbsrc.ContinueStatement{Kind: kind}}, nil
	case *cs.TryStmt:
		return ctx.convertTry(s)
	case *cs.ResizeStmt:
		return ctx.convertResize(s)
	case *cs.YieldStmt:
		return ctx.convertYield(s)
	case *cs.SwitchStmt:
		return ctx.convertSwitch(s)
	case *cs.EmptyStmt:
		return []vbsrc.Statement{&vbsrc.EmptyStatement{}}, nil
	case *cs.Unknown:
		return nil, unsupported(s, "")
	default:
		return nil, unsupported(stmt, "no statement rule")
	}
}

// convertExpressionStatement converts an expression whose value is discarded,
// which lets assignments and increments use the target's statement forms.
func (ctx *Context) convertExpressionStatement(s *cs.ExprStmt) ([]vbsrc.Statement, error) {
	switch x := s.X.(type) {
	case *cs.Assign:
		return ctx.convertAssignStatement(x)
	case *cs.Unary:
		if x.Op == "++" || x.Op == "--" {
			target, hoisted, err := ctx.convertExpression(x.X)
			if err != nil {
				return nil, err
			}
			op := "+="
			if x.Op == "--" {
				op = "-="
			}
			return append(hoisted, &vbsrc.AssignStatement{Target: target, Op: op, Value: vbsrc.Lit("1")}), nil
		}
	case *cs.Invocation:
		call, hoisted, err := ctx.convertInvocation(x)
		if err != nil {
			return nil, err
		}
		return append(hoisted, &vbsrc.CallStatement{Call: call}), nil
	case *cs.Paren:
		return ctx.convertExpressionStatement(&cs.ExprStmt{NodeInfo: s.NodeInfo, X: x.X})
	}
	return nil, unsupported(s.X, "expression used as a statement")
}

func (ctx *Context) convertAssignStatement(x *cs.Assign) ([]vbsrc.Statement, error) {
	target, hoisted, err := ctx.convertExpression(x.Target)
	if err != nil {
		return nil, err
	}
	value, pre, err := ctx.convertExpression(x.Value)
	if err != nil {
		return nil, err
	}
	hoisted = append(hoisted, pre...)

	switch {
	case x.Op == "=":
		return append(hoisted, &vbsrc.AssignStatement{Target: target, Op: "=", Value: value}), nil
	case x.Op == "??=":
		again, _, err := ctx.convertExpression(x.Target)
		if err != nil {
			return nil, err
		}
		return append(hoisted, &vbsrc.IfBlock{
			Cond: &vbsrc.BinaryExpr{Left: target, Op: "Is", Right: vbsrc.Nothing()},
			Body: []vbsrc.Statement{&vbsrc.AssignStatement{Target: again, Op: "=", Value: value}},
		}), nil
	case expandedCompound[x.Op] != "":
		again, _, err := ctx.convertExpression(x.Target)
		if err != nil {
			return nil, err
		}
		expanded, err := ctx.compoundValue(x, again, value)
		if err != nil {
			return nil, err
		}
		return append(hoisted, &vbsrc.AssignStatement{Target: target, Op: "=", Value: expanded}), nil
	}

	op, ok := compoundOperators[x.Op]
	if !ok {
		return nil, unsupported(x, "assignment operator %s", x.Op)
	}
	switch op {
	case "+=":
		if ctx.isStringExpr(x.Target) || ctx.isStringExpr(x.Value) {
			op = "&="
		}
	case "/=":
		binOp, err := ctx.binaryOperator(&cs.Binary{NodeInfo: x.NodeInfo, Op: "/", Left: x.Target, Right: x.Value})
		if err != nil {
			return nil, err
		}
		op = binOp + "="
	}
	return append(hoisted, &vbsrc.AssignStatement{Target: target, Op: op, Value: value}), nil
}

// convertCondition converts a condition that is evaluated more than once, so
// it must not need hoisted statements.
func (ctx *Context) convertCondition(owner cs.Node, cond cs.Expr) (vbsrc.Expression, error) {
	if cond == nil {
		return vbsrc.Lit("True"), nil
	}
	expr, hoisted, err := ctx.convertExpression(cond)
	if err != nil {
		return nil, err
	}
	if len(hoisted) > 0 {
		return nil, unsupported(owner, "loop condition declaring variables")
	}
	return expr, nil
}

func (ctx *Context) convertIf(s *cs.IfStmt) ([]vbsrc.Statement, error) {
	cond, hoisted, err := ctx.convertExpression(s.Cond)
	if err != nil {
		return nil, err
	}
	body, err := ctx.convertBody(s.Then)
	if err != nil {
		return nil, err
	}
	block := &vbsrc.IfBlock{Cond: cond, Body: body}
	elseStmt := s.Else
	for elseStmt != nil {
		elseIf, ok := elseStmt.(*cs.IfStmt)
		if !ok {
			break
		}
		elseCond, pre, err := ctx.convertExpression(elseIf.Cond)
		if err != nil {
			return nil, err
		}
		if len(pre) > 0 {
			break
		}
		elseBody, err := ctx.convertBody(elseIf.Then)
		if err != nil {
			return nil, err
		}
		block.ElseIfs = append(block.ElseIfs, &vbsrc.ElseIfBlock{Cond: elseCond, Body: elseBody})
		elseStmt = elseIf.Else
	}
	if elseStmt != nil {
		block.Else, err = ctx.convertBody(elseStmt)
		if err != nil {
			return nil, err
		}
		block.HasElse = true
	}
	return append(hoisted, block), nil
}

func (ctx *Context) convertWhile(s *cs.WhileStmt) ([]vbsrc.Statement, error) {
	cond, err := ctx.convertCondition(s, s.Cond)
	if err != nil {
		return nil, err
	}
	ctx.pushLoop("While")
	defer ctx.popLoop()
	body, err := ctx.convertBody(s.Body)
	if err != nil {
		return nil, err
	}
	return []vbsrc.Statement{&vbsrc.WhileBlock{Cond: cond, Body: body}}, nil
}

func (ctx *Context) convertDo(s *cs.DoStmt) ([]vbsrc.Statement, error) {
	cond, err := ctx.convertCondition(s, s.Cond)
	if err != nil {
		return nil, err
	}
	ctx.pushLoop("Do")
	defer ctx.popLoop()
	body, err := ctx.convertBody(s.Body)
	if err != nil {
		return nil, err
	}
	return []vbsrc.Statement{&vbsrc.DoLoopBlock{Body: body, Cond: cond}}, nil
}

func (ctx *Context) convertForEach(s *cs.ForEachStmt) ([]vbsrc.Statement, error) {
	collection, hoisted, err := ctx.convertExpression(s.Collection)
	if err != nil {
		return nil, err
	}
	ctx.pushLoop("For")
	defer ctx.popLoop()
	body, err := ctx.convertBody(s.Body)
	if err != nil {
		return nil, err
	}
	return append(hoisted, &vbsrc.ForEachBlock{
		Var:        ctx.name(s.Name, s),
		VarType:    ctx.convertType(s.Type),
		Collection: collection,
		Body:       body,
	}), nil
}

func (ctx *Context) convertTry(s *cs.TryStmt) ([]vbsrc.Statement, error) {
	body, err := ctx.convertBlock(s.Body)
	if err != nil {
		return nil, err
	}
	block := &vbsrc.TryBlock{Body: body}
	for _, c := range s.Catches {
		catchBody, err := ctx.convertBlock(c.Body)
		if err != nil {
			return nil, err
		}
		clause := &vbsrc.CatchBlock{Body: catchBody}
		if c.Type != nil {
			clause.Type = ctx.convertType(c.Type)
			name := c.Name
			if name == "" {
				name = "ex"
			}
			clause.Name = ctx.name(name, c)
		}
		block.Catches = append(block.Catches, clause)
	}
	if s.Finally != nil {
		block.Finally, err = ctx.convertBlock(s.Finally)
		if err != nil {
			return nil, err
		}
		block.HasFinally = true
	}
	return []vbsrc.Statement{block}, nil
}

// convertYield turns `yield return` into Yield and `yield break` into an
// Exit of the enclosing iterator.
func (ctx *Context) convertYield(s *cs.YieldStmt) ([]vbsrc.Statement, error) {
	if s.Value == nil {
		kind, ok := ctx.currentFunction()
		if !ok {
			return nil, unsupported(s, "yield outside a function body")
		}
		return []vbsrc.Statement{&vbsrc.ExitStatement{Kind: kind}}, nil
	}
	value, hoisted, err := ctx.convertExpression(s.Value)
	if err != nil {
		return nil, err
	}
	return append(hoisted, &vbsrc.YieldStatement{Value: value}), nil
}

// isIterator reports whether body yields, not counting nested lambdas.
func isIterator(body cs.Node) bool {
	if block, ok := body.(*cs.Block); body == nil || ok && block == nil {
		return false
	}
	found := false
	cs.Inspect(body, func(n cs.Node) bool {
		switch n.(type) {
		case *cs.YieldStmt:
			found = true
		case *cs.Lambda:
			return n == body
		}
		return !found
	})
	return found
}

// convertSwitch maps a switch onto Select Case. The break ending a section
// is implied by the next Case and is dropped. Other breaks exit the Select.
// The default section moves last, where Case Else must be.
func (ctx *Context) convertSwitch(s *cs.SwitchStmt) ([]vbsrc.Statement, error) {
	value, hoisted, err := ctx.convertExpression(s.Value)
	if err != nil {
		return nil, err
	}
	ctx.pushLoop("Select")
	defer ctx.popLoop()
	block := &vbsrc.SelectBlock{Value: value}
	var fallback *vbsrc.CaseBlock
	for _, section := range s.Sections {
		arm := &vbsrc.CaseBlock{IsElse: section.Default}
		arm.Leading = convertTrivia(section.Leading)
		if !section.Default {
			for _, label := range section.Labels {
				v, pre, err := ctx.convertExpression(label)
				if err != nil {
					return nil, err
				}
				if len(pre) > 0 {
					return nil, unsupported(label, "case label declaring variables")
				}
				arm.Values = append(arm.Values, v)
			}
		}
		arm.Body, err = ctx.convertBlock(&cs.Block{Stmts: dropFinalBreak(section.Stmts)})
		if err != nil {
			return nil, err
		}
		if arm.IsElse {
			fallback = arm
			continue
		}
		block.Cases = append(block.Cases, arm)
	}
	if fallback != nil {
		block.Cases = append(block.Cases, fallback)
	}
	return append(hoisted, block), nil
}

// dropFinalBreak replaces the break that ends a section with an empty
// statement that keeps its comments.
func dropFinalBreak(stmts []cs.Stmt) []cs.Stmt {
	for i := len(stmts) - 1; i >= 0; i-- {
		switch s := stmts[i].(type) {
		case *cs.EmptyStmt:
			continue
		case *cs.BreakStmt:
			out := append([]cs.Stmt(nil), stmts...)
			out[i] = &cs.EmptyStmt{NodeInfo: cs.NodeInfo{Span: s.Span, Leading: s.Leading, Trailing: s.Trailing}}
			return out
		}
		break
	}
	return stmts
}

// counterLoop is a for statement that maps onto a For ... To loop.
type counterLoop struct {
	decl  *cs.Declarator
	ty    *cs.TypeRef
	bound cs.Expr
	// adjust is added to bound to make it inclusive.
	adjust int64
	step   int64
}

// matchCounterLoop recognizes `for (T i = a; i op b; i++ / i-- / i += k)`
// where the body never assigns i.
func matchCounterLoop(s *cs.ForStmt) (*counterLoop, bool) {
	if s.Decl == nil || len(s.Decl.Declarators) != 1 || len(s.Init) > 0 || len(s.Update) != 1 {
		return nil, false
	}
	decl := s.Decl.Declarators[0]
	if decl.Init == nil {
		return nil, false
	}
	cond, ok := s.Cond.(*cs.Binary)
	if !ok {
		return nil, false
	}
	if id, ok := cond.Left.(*cs.Ident); !ok || id.Name != decl.Name {
		return nil, false
	}
	step, ok := loopStep(s.Update[0], decl.Name)
	if !ok {
		return nil, false
	}
	loop := &counterLoop{decl: decl, ty: s.Decl.Type, bound: cond.Right, step: step}
	switch {
	case cond.Op == "<" && step > 0:
		loop.adjust = -1
	case cond.Op == "<=" && step > 0:
	case cond.Op == ">" && step < 0:
		loop.adjust = 1
	case cond.Op == ">=" && step < 0:
	default:
		return nil, false
	}
	if assignsTo(s.Body, decl.Name) {
		return nil, false
	}
	return loop, true
}

func loopStep(update cs.Expr, name string) (int64, bool) {
	isVar := func(e cs.Expr) bool {
		id, ok := e.(*cs.Ident)
		return ok && id.Name == name
	}
	switch u := update.(type) {
	case *cs.Unary:
		if !isVar(u.X) {
			return 0, false
		}
		switch u.Op {
		case "++":
			return 1, true
		case "--":
			return -1, true
		}
	case *cs.Assign:
		lit, ok := u.Value.(*cs.Literal)
		if !isVar(u.Target) || !ok || lit.LitKind != cs.IntLit {
			return 0, false
		}
		k, err := strconv.ParseInt(lit.Raw, 10, 64)
		if err != nil || k == 0 {
			return 0, false
		}
		switch u.Op {
		case "+=":
			return k, true
		case "-=":
			return -k, true
		}
	}
	return 0, false
}

func assignsTo(body cs.Node, name string) bool {
	found := false
	cs.Inspect(body, func(n cs.Node) bool {
		var target cs.Expr
		switch n := n.(type) {
		case *cs.Assign:
			target = n.Target
		case *cs.Unary:
			if n.Op == "++" || n.Op == "--" {
				target = n.X
			}
		case *cs.Argument:
			if n.Modifier == cs.Ref || n.Modifier == cs.Out {
				target = n.Value
			}
		}
		if id, ok := target.(*cs.Ident); ok && id.Name == name {
			found = true
		}
		return !found
	})
	return found
}

// continuesLoop reports whether body has a continue that targets the loop
// owning body.
func continuesLoop(body cs.Node) bool {
	found := false
	cs.Inspect(body, func(n cs.Node) bool {
		switch n.(type) {
		case *cs.ContinueStmt:
			found = true
		case *cs.WhileStmt, *cs.DoStmt, *cs.ForStmt, *cs.ForEachStmt, *cs.Lambda:
			return n == body
		}
		return !found
	})
	return found
}

func (ctx *Context) convertFor(s *cs.ForStmt) ([]vbsrc.Statement, error) {
	if loop, ok := matchCounterLoop(s); ok {
		return ctx.convertCounterLoop(s, loop)
	}
	if len(s.Update) > 0 && continuesLoop(s.Body) {
		return nil, unsupported(s, "continue in a for loop with an update clause")
	}
	var out []vbsrc.Statement
	if s.Decl != nil {
		decls, hoisted, err := ctx.remodelDeclaration(s.Decl)
		if err != nil {
			return nil, err
		}
		out = append(out, hoisted...)
		out = append(out, &vbsrc.DimStatement{Declarators: decls})
	}
	for _, init := range s.Init {
		stmts, err := ctx.convertExpressionStatement(&cs.ExprStmt{NodeInfo: *init.Info(), X: init})
		if err != nil {
			return nil, err
		}
		out = append(out, stmts...)
	}
	cond, err := ctx.convertCondition(s, s.Cond)
	if err != nil {
		return nil, err
	}
	ctx.pushLoop("While")
	defer ctx.popLoop()
	body, err := ctx.convertBody(s.Body)
	if err != nil {
		return nil, err
	}
	for _, update := range s.Update {
		stmts, err := ctx.convertExpressionStatement(&cs.ExprStmt{NodeInfo: *update.Info(), X: update})
		if err != nil {
			return nil, err
		}
		body = append(body, stmts...)
	}
	return append(out, &vbsrc.WhileBlock{Cond: cond, Body: body}), nil
}

func (ctx *Context) convertCounterLoop(s *cs.ForStmt, loop *counterLoop) ([]vbsrc.Statement, error) {
	from, hoisted, err := ctx.convertExpression(loop.decl.Init)
	if err != nil {
		return nil, err
	}
	to, pre, err := ctx.inclusiveBound(loop.bound, loop.adjust)
	if err != nil {
		return nil, err
	}
	hoisted = append(hoisted, pre...)
	block := &vbsrc.ForBlock{
		Var:     ctx.name(loop.decl.Name, loop.decl),
		VarType: ctx.convertType(loop.ty),
		From:    from,
		To:      to,
	}
	if loop.step != 1 {
		block.Step = vbsrc.Lit(strconv.FormatInt(loop.step, 10))
	}
	ctx.pushLoop("For")
	defer ctx.popLoop()
	block.Body, err = ctx.convertBody(s.Body)
	if err != nil {
		return nil, err
	}
	return append(hoisted, block), nil
}

func (ctx *Context) inclusiveBound(bound cs.Expr, adjust int64) (vbsrc.Expression, []vbsrc.Statement, error) {
	if adjust == -1 {
		return ctx.upperBound(bound)
	}
	expr, hoisted, err := ctx.convertExpression(bound)
	if err != nil || adjust == 0 {
		return expr, hoisted, err
	}
	if lit, ok := bound.(*cs.Literal); ok && lit.LitKind == cs.IntLit {
		if n, err := strconv.ParseInt(lit.Raw, 10, 64); err == nil {
			return vbsrc.Lit(strconv.FormatInt(n+adjust, 10)), hoisted, nil
		}
	}
	return &vbsrc.BinaryExpr{Left: expr, Op: "+", Right: vbsrc.Lit("1")}, hoisted, nil
}
