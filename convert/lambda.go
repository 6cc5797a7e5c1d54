package convert

import (
	"github.com/heshanpadmasiri/csvb/cs"
	"github.com/heshanpadmasiri/csvb/vbsrc"
)

// convertLambda reshapes a lambda. The source never spells out the return
// type, so Sub versus Function comes from the resolved delegate signature. A
// body that converts to exactly one Return with a value uses the single-line
// form; anything else, including an iterator, uses the block form.
func (ctx *Context) convertLambda(e *cs.Lambda) (vbsrc.Expression, []vbsrc.Statement, error) {
	if ctx.Model == nil {
		return nil, nil, incomplete(e, "lambda signature")
	}
	sig, ok := ctx.Model.ResolveOverload(e)
	if !ok || sig == nil {
		return nil, nil, incomplete(e, "lambda signature")
	}
	isFunction := !sig.ReturnsVoid()

	params, err := ctx.convertParams(e.Params)
	if err != nil {
		return nil, nil, err
	}

	outerLoops := ctx.loops
	ctx.loops = nil
	defer func() { ctx.loops = outerLoops }()
	exit := "Sub"
	if isFunction {
		exit = "Function"
	}
	leave := ctx.enterFunction(exit)
	defer leave()

	var stmts []vbsrc.Statement
	switch body := e.Body.(type) {
	case *cs.Block:
		stmts, err = ctx.convertBlock(body)
	case cs.Expr:
		stmts, err = ctx.convertExpressionBody(body, isFunction)
	default:
		invariant("lambda body is a block or an expression", false)
	}
	if err != nil {
		return nil, nil, err
	}

	lambda := &vbsrc.LambdaExpr{IsFunction: isFunction, Async: e.Async, Iterator: isIterator(e), Params: params}
	if ret, ok := singleReturn(stmts); ok && isFunction && !lambda.Iterator {
		lambda.Body = ret.Value
		return lambda, nil, nil
	}
	lambda.Statements = stmts
	return lambda, nil, nil
}

func singleReturn(stmts []vbsrc.Statement) (*vbsrc.ReturnStatement, bool) {
	if len(stmts) != 1 {
		return nil, false
	}
	ret, ok := stmts[0].(*vbsrc.ReturnStatement)
	if !ok || ret.Value == nil {
		return nil, false
	}
	return ret, true
}
