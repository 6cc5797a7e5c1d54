package csharp

import (
	"math"
	"strconv"
	"strings"

	"github.com/heshanpadmasiri/csvb/cs"
	"github.com/heshanpadmasiri/csvb/semantic"
)

// expr binds an expression and returns its type, or nil when it cannot be
// told. expected is the type the context asks for, used by lambdas and throw
// expressions.
func (b *binder) expr(e cs.Expr, expected *semantic.Type) *semantic.Type {
	if e == nil {
		return nil
	}
	ty := b.infer(e, expected)
	if ty != nil {
		b.table.SetType(e, ty)
	}
	return ty
}

func (b *binder) infer(e cs.Expr, expected *semantic.Type) *semantic.Type {
	switch e := e.(type) {
	case *cs.Literal:
		return b.literal(e)
	case *cs.Ident:
		return b.ident(e)
	case *cs.This:
		if cur := b.current(); cur != nil {
			return cur.sym.Type
		}
	case *cs.BaseRef:
		if base := b.baseOf(b.current()); base != nil {
			return base.sym.Type
		}
	case *cs.Paren:
		ty := b.expr(e.X, expected)
		if v, ok := b.table.ConstantValue(e.X); ok {
			b.table.SetConstant(e, v)
		}
		return ty
	case *cs.MemberAccess:
		return b.memberAccess(e)
	case *cs.Invocation:
		return b.invocation(e)
	case *cs.ElementAccess:
		x := b.expr(e.X, nil)
		for _, idx := range e.Indices {
			b.expr(idx, nil)
		}
		return indexedType(b, x)
	case *cs.Binary:
		return b.binary(e)
	case *cs.Unary:
		return b.unary(e)
	case *cs.Assign:
		target := b.expr(e.Target, nil)
		value := b.expr(e.Value, target)
		if target == nil {
			return value
		}
		return target
	case *cs.Conditional:
		b.expr(e.Cond, semantic.Bool)
		return b.branches(e.Then, e.Else, expected)
	case *cs.Cast:
		b.expr(e.X, nil)
		return b.resolveType(e.Type)
	case *cs.TypeTest:
		b.expr(e.X, nil)
		if e.Op == "as" {
			return b.resolveType(e.Type)
		}
		return semantic.Bool
	case *cs.TypeOf:
		return &semantic.Type{Name: "Type", Namespace: "System"}
	case *cs.ThrowExpr:
		b.expr(e.Value, nil)
		return expected
	case *cs.ObjectCreation:
		ty := b.resolveType(e.Type)
		b.arguments(e.Args, nil)
		for _, item := range e.Init {
			b.expr(item, elementType(ty))
		}
		return ty
	case *cs.ArrayCreation:
		return b.arrayCreation(e, expected)
	case *cs.Lambda:
		return b.lambda(e, expected)
	case *cs.DeclarationExpr:
		ty := b.resolveType(e.Type)
		if ty == nil {
			ty = expected
		}
		b.local(semantic.LocalSymbol, e.Name, ty, e)
		return ty
	}
	return nil
}

func (b *binder) literal(e *cs.Literal) *semantic.Type {
	switch e.LitKind {
	case cs.IntLit:
		ty, v, ok := integerValue(e.Raw)
		if ok && v <= math.MaxInt64 {
			b.table.SetConstant(e, int64(v))
		}
		return ty
	case cs.RealLit:
		raw := strings.ReplaceAll(e.Raw, "_", "")
		ty := semantic.Double
		switch strings.ToLower(raw[len(raw)-1:]) {
		case "f":
			ty = semantic.Float
		case "m":
			ty = semantic.Dec
		}
		if v, err := strconv.ParseFloat(strings.TrimRight(raw, "fFdDmM"), 64); err == nil {
			b.table.SetConstant(e, v)
		}
		return ty
	case cs.StringLit, cs.VerbatimStringLit:
		return semantic.String
	case cs.CharLit:
		return semantic.Char
	case cs.BoolLit:
		b.table.SetConstant(e, e.Raw == "true")
		return semantic.Bool
	default:
		b.table.SetConstant(e, nil)
		return semantic.Null
	}
}

// integerValue parses an integer literal and picks its type from the suffix
// and magnitude.
func integerValue(raw string) (*semantic.Type, uint64, bool) {
	text := strings.ToLower(strings.ReplaceAll(raw, "_", ""))
	digits := strings.TrimRight(text, "ul")
	suffix := text[len(digits):]
	base := 10
	switch {
	case strings.HasPrefix(digits, "0x"):
		base, digits = 16, digits[2:]
	case strings.HasPrefix(digits, "0b"):
		base, digits = 2, digits[2:]
	}
	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return semantic.Int, 0, false
	}
	switch suffix {
	case "u":
		if v <= math.MaxUint32 {
			return semantic.UInt, v, true
		}
		return semantic.ULong, v, true
	case "l":
		if v <= math.MaxInt64 {
			return semantic.Long, v, true
		}
		return semantic.ULong, v, true
	case "ul", "lu":
		return semantic.ULong, v, true
	}
	switch {
	case v <= math.MaxInt32:
		return semantic.Int, v, true
	case v <= math.MaxUint32:
		return semantic.UInt, v, true
	case v <= math.MaxInt64:
		return semantic.Long, v, true
	}
	return semantic.ULong, v, true
}

func (b *binder) bindConstant(e cs.Expr, sym *semantic.Symbol) {
	if v, ok := b.constants[sym]; ok {
		b.table.SetConstant(e, v)
	}
}

func (b *binder) ident(e *cs.Ident) *semantic.Type {
	sym := b.lookup(e.Name, false, 0)
	if sym == nil {
		return nil
	}
	b.table.Bind(e, sym)
	b.bindConstant(e, sym)
	if sym.Kind == semantic.TypeSymbol {
		return nil
	}
	return sym.Type
}

// staticReceiver reports the source type an expression names, as in Color.Red.
func (b *binder) staticReceiver(x cs.Expr) *typeInfo {
	id, ok := x.(*cs.Ident)
	if !ok {
		return nil
	}
	sym, ok := b.table.SymbolFor(id)
	if !ok || sym.Kind != semantic.TypeSymbol {
		return nil
	}
	return b.types[sym.Name]
}

// receiver returns the type info whose members a member access searches.
func (b *binder) receiver(x cs.Expr, xType *semantic.Type) *typeInfo {
	if info := b.staticReceiver(x); info != nil {
		return info
	}
	return b.typeInfoOf(xType)
}

func (b *binder) memberAccess(e *cs.MemberAccess) *semantic.Type {
	xType := b.expr(e.X, nil)
	if info := b.receiver(e.X, xType); info != nil {
		if sym := b.memberOf(info, e.Name, false, 0); sym != nil {
			b.table.Bind(e, sym)
			b.bindConstant(e, sym)
			return sym.Type
		}
	}
	switch e.Name {
	case "Length", "Count", "LongLength":
		if xType.IsArray() || xType.IsString() || (xType != nil && len(xType.Args) > 0) {
			if e.Name == "LongLength" {
				return semantic.Long
			}
			return semantic.Int
		}
	case "MaxValue", "MinValue":
		if id, ok := e.X.(*cs.Ident); ok {
			return b.resolveType(&cs.TypeRef{Name: id.Name})
		}
	case "Empty":
		if id, ok := e.X.(*cs.Ident); ok && (id.Name == "string" || id.Name == "String") {
			return semantic.String
		}
	}
	return nil
}

// wellKnownResults covers methods of referenced libraries whose result type
// does not depend on the receiver.
var wellKnownResults = map[string]*semantic.Type{
	"ToString":           semantic.String,
	"Substring":          semantic.String,
	"Trim":               semantic.String,
	"ToUpper":            semantic.String,
	"ToLower":            semantic.String,
	"Replace":            semantic.String,
	"Format":             semantic.String,
	"Join":               semantic.String,
	"TryParse":           semantic.Bool,
	"Equals":             semantic.Bool,
	"Contains":           semantic.Bool,
	"ContainsKey":        semantic.Bool,
	"StartsWith":         semantic.Bool,
	"EndsWith":           semantic.Bool,
	"IsNullOrEmpty":      semantic.Bool,
	"IsNullOrWhiteSpace": semantic.Bool,
	"GetHashCode":        semantic.Int,
	"IndexOf":            semantic.Int,
	"LastIndexOf":        semantic.Int,
	"CompareTo":          semantic.Int,
}

// sequenceMethods take a callback over the receiver's elements.
var sequenceMethods = map[string]bool{
	"Where": true, "Select": true, "Any": true, "All": true, "First": true,
	"FirstOrDefault": true, "Count": true, "OrderBy": true, "OrderByDescending": true,
	"ForEach": true, "Find": true, "FindAll": true, "RemoveAll": true, "Exists": true,
	"TrueForAll": true, "Sum": true, "Max": true, "Min": true,
}

func (b *binder) invocation(e *cs.Invocation) *semantic.Type {
	var method *semantic.Symbol
	var callbackParam *semantic.Type
	var fallback *semantic.Type
	name := ""
	switch fun := e.Fun.(type) {
	case *cs.Ident:
		name = fun.Name
		method = b.lookup(fun.Name, true, len(e.Args))
		if method != nil {
			b.table.Bind(fun, method)
		}
	case *cs.MemberAccess:
		name = fun.Name
		xType := b.expr(fun.X, nil)
		if info := b.receiver(fun.X, xType); info != nil {
			method = b.memberOf(info, fun.Name, true, len(e.Args))
			if method != nil {
				b.table.Bind(fun, method)
			}
		}
		if method == nil {
			if sequenceMethods[fun.Name] {
				callbackParam = elementType(xType)
			}
			if fun.Name == "Parse" {
				if id, ok := fun.X.(*cs.Ident); ok {
					fallback = b.resolveType(&cs.TypeRef{Name: id.Name})
				}
			}
		}
	default:
		b.expr(e.Fun, nil)
	}
	if method != nil {
		b.arguments(e.Args, method.Params)
		b.table.SetSignature(e, &semantic.Signature{Method: method, Params: method.Params, Return: method.Type})
		return method.Type
	}
	if callbackParam != nil {
		b.callbackArguments(e.Args, callbackParam)
	} else {
		b.arguments(e.Args, nil)
	}
	if name == "nameof" {
		return semantic.String
	}
	if fallback != nil {
		return fallback
	}
	return wellKnownResults[name]
}

func (b *binder) arguments(args []*cs.Argument, params []*semantic.Type) {
	for i, a := range args {
		var expected *semantic.Type
		if i < len(params) {
			expected = params[i]
		}
		b.expr(a.Value, expected)
	}
}

// callbackArguments binds lambdas whose parameter is an element of the
// receiver sequence.
func (b *binder) callbackArguments(args []*cs.Argument, elem *semantic.Type) {
	for _, a := range args {
		if lambda, ok := a.Value.(*cs.Lambda); ok && len(lambda.Params) == 1 && lambda.Params[0].Type == nil {
			b.bindLambda(lambda, []*semantic.Type{elem}, nil, false)
			continue
		}
		b.expr(a.Value, nil)
	}
}

func indexedType(b *binder, x *semantic.Type) *semantic.Type {
	switch {
	case x == nil:
		return nil
	case x.IsArray():
		return x.Elem
	case x.IsString():
		return semantic.Char
	}
	if info := b.typeInfoOf(x); info != nil {
		if ix := b.memberOf(info, "this", false, 0); ix != nil {
			return ix.Type
		}
	}
	switch len(x.Args) {
	case 1:
		return x.Args[0]
	case 2:
		return x.Args[1]
	}
	return nil
}

// numericRanks orders the predefined numeric types for promotion. Rank zero
// types promote to int.
var numericRanks = map[string]int{
	"sbyte": 0, "byte": 0, "short": 0, "ushort": 0, "char": 0,
	"int": 1, "uint": 2, "long": 3, "ulong": 4, "float": 5, "double": 6, "decimal": 7,
}

var rankTypes = []*semantic.Type{semantic.Int, semantic.Int, semantic.UInt, semantic.Long, semantic.ULong, semantic.Float, semantic.Double, semantic.Dec}

func numericRank(t *semantic.Type) (int, bool) {
	if t == nil || t.IsArray() || t.Nullable {
		return 0, false
	}
	rank, ok := numericRanks[t.Name]
	return rank, ok
}

// widen applies unary numeric promotion.
func widen(t *semantic.Type) *semantic.Type {
	if rank, ok := numericRank(t); ok {
		if rank == 0 {
			return semantic.Int
		}
		return rankTypes[rank]
	}
	return t
}

func signedSmall(t *semantic.Type) bool {
	switch t.Name {
	case "sbyte", "short", "int":
		return true
	}
	return false
}

// promote applies binary numeric promotion.
func promote(op string, l, r *semantic.Type) *semantic.Type {
	if op == "<<" || op == ">>" {
		return widen(l)
	}
	if l == nil || r == nil {
		return nil
	}
	lr, lok := numericRank(l)
	rr, rok := numericRank(r)
	if !lok || !rok {
		if l.Name == r.Name && l.Rank == 0 && r.Rank == 0 && l.Nullable == r.Nullable {
			return l
		}
		return nil
	}
	if (l.Name == "uint" && signedSmall(r)) || (r.Name == "uint" && signedSmall(l)) {
		return semantic.Long
	}
	return rankTypes[max(lr, rr, 1)]
}

func foldInt(op string, a, b int64) (int64, bool) {
	switch op {
	case "+":
		return a + b, true
	case "-":
		return a - b, true
	case "*":
		return a * b, true
	case "/":
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case "%":
		if b == 0 {
			return 0, false
		}
		return a % b, true
	case "&":
		return a & b, true
	case "|":
		return a | b, true
	case "^":
		return a ^ b, true
	case "<<":
		return a << uint64(b&63), true
	case ">>":
		return a >> uint64(b&63), true
	}
	return 0, false
}

func (b *binder) intConstant(e cs.Expr) (int64, bool) {
	v, ok := b.table.ConstantValue(e)
	if !ok {
		return 0, false
	}
	n, ok := v.(int64)
	return n, ok
}

func (b *binder) binary(e *cs.Binary) *semantic.Type {
	if e.Op == "??" {
		left := b.expr(e.Left, nil)
		want := left
		if want != nil && want.Nullable {
			plain := *want
			plain.Nullable = false
			want = &plain
		}
		right := b.expr(e.Right, want)
		if want != nil {
			return want
		}
		return right
	}
	left := b.expr(e.Left, nil)
	right := b.expr(e.Right, nil)
	switch e.Op {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
		return semantic.Bool
	case "+":
		if left.IsString() || right.IsString() {
			return semantic.String
		}
	}
	if l, ok := b.intConstant(e.Left); ok {
		if r, ok := b.intConstant(e.Right); ok {
			if v, ok := foldInt(e.Op, l, r); ok {
				b.table.SetConstant(e, v)
			}
		}
	}
	return promote(e.Op, left, right)
}

func (b *binder) unary(e *cs.Unary) *semantic.Type {
	x := b.expr(e.X, nil)
	switch e.Op {
	case "!":
		return semantic.Bool
	case "++", "--":
		return x
	case "-":
		if v, ok := b.table.ConstantValue(e.X); ok {
			switch n := v.(type) {
			case int64:
				b.table.SetConstant(e, -n)
			case float64:
				b.table.SetConstant(e, -n)
			}
		}
	}
	return widen(x)
}

// branches binds the arms of a conditional. A throwing arm takes the type of
// the other one.
func (b *binder) branches(then, els cs.Expr, expected *semantic.Type) *semantic.Type {
	if _, throws := then.(*cs.ThrowExpr); throws {
		want := b.expr(els, expected)
		if want == nil || want.IsNull() {
			want = expected
		}
		b.expr(then, want)
		return want
	}
	want := b.expr(then, expected)
	if want == nil || want.IsNull() {
		other := b.expr(els, expected)
		if other != nil && !other.IsNull() {
			return other
		}
		if expected != nil {
			return expected
		}
		return want
	}
	b.expr(els, want)
	return want
}

func (b *binder) arrayCreation(e *cs.ArrayCreation, expected *semantic.Type) *semantic.Type {
	if e.Elem == nil {
		for _, item := range e.Init {
			b.expr(item, elementType(expected))
		}
		return expected
	}
	elem := b.resolveType(e.Elem)
	rank := max(e.Rank, 1)
	for _, length := range e.Lengths {
		b.expr(length, semantic.Int)
	}
	item := elem
	if rank > 1 {
		item = semantic.ArrayOf(elem, rank-1)
	}
	for _, init := range e.Init {
		b.expr(init, item)
	}
	return semantic.ArrayOf(elem, rank)
}

// delegateShape reads the parameter and return types out of a delegate type.
func delegateShape(t *semantic.Type) ([]*semantic.Type, *semantic.Type, bool) {
	if t == nil || t.IsArray() {
		return nil, nil, false
	}
	switch t.Name {
	case "Func":
		if len(t.Args) == 0 {
			return nil, nil, false
		}
		return t.Args[:len(t.Args)-1], t.Args[len(t.Args)-1], true
	case "Action":
		return t.Args, nil, true
	case "Predicate":
		if len(t.Args) == 1 {
			return t.Args, semantic.Bool, true
		}
	case "Comparison":
		if len(t.Args) == 1 {
			return []*semantic.Type{t.Args[0], t.Args[0]}, semantic.Int, true
		}
	}
	return nil, nil, false
}

func (b *binder) lambda(e *cs.Lambda, expected *semantic.Type) *semantic.Type {
	params, ret, known := delegateShape(expected)
	return b.bindLambda(e, params, ret, known)
}

// bindLambda binds a lambda body and records the signature it converts to.
// Without a known delegate type the return type comes from the body.
func (b *binder) bindLambda(e *cs.Lambda, paramTypes []*semantic.Type, ret *semantic.Type, known bool) *semantic.Type {
	b.pushScope()
	defer b.popScope()
	types := make([]*semantic.Type, len(e.Params))
	for i, p := range e.Params {
		ty := b.resolveType(p.Type)
		if ty == nil && i < len(paramTypes) {
			ty = paramTypes[i]
		}
		types[i] = ty
		b.local(semantic.ParameterSymbol, p.Name, ty, p)
	}
	b.returns = append(b.returns, ret)
	defer func() { b.returns = b.returns[:len(b.returns)-1] }()
	switch body := e.Body.(type) {
	case *cs.Block:
		b.block(body)
		if !known {
			ret = b.blockResult(body)
		}
	case cs.Expr:
		ty := b.expr(body, ret)
		if !known {
			ret = expressionResult(body, ty)
		}
	}
	sig := &semantic.Signature{Params: types, Return: ret}
	b.table.SetSignature(e, sig)
	return delegateType(sig)
}

// expressionResult is the return type of an expression-bodied lambda.
// Assignments, increments and calls of unknown result are statements.
func expressionResult(body cs.Expr, ty *semantic.Type) *semantic.Type {
	switch x := body.(type) {
	case *cs.Assign:
		return nil
	case *cs.Unary:
		if x.Op == "++" || x.Op == "--" {
			return nil
		}
	case *cs.Invocation:
		return ty
	}
	if ty == nil {
		return semantic.Object
	}
	return ty
}

// blockResult finds the type of the first value returned from a lambda block.
func (b *binder) blockResult(body *cs.Block) *semantic.Type {
	var result *semantic.Type
	found := false
	cs.Inspect(body, func(n cs.Node) bool {
		if found {
			return false
		}
		switch n := n.(type) {
		case *cs.Lambda:
			return false
		case *cs.ReturnStmt:
			if n.Value != nil {
				found = true
				result, _ = b.table.TypeOf(n.Value)
			}
		}
		return true
	})
	if found && result == nil {
		return semantic.Object
	}
	return result
}

func delegateType(sig *semantic.Signature) *semantic.Type {
	args := make([]*semantic.Type, 0, len(sig.Params)+1)
	for _, p := range sig.Params {
		if p == nil {
			p = semantic.Object
		}
		args = append(args, p)
	}
	if sig.ReturnsVoid() {
		return &semantic.Type{Name: "Action", Namespace: "System", Args: args}
	}
	return &semantic.Type{Name: "Func", Namespace: "System", Args: append(args, sig.Return)}
}
