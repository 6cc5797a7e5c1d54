package vbsrc

import (
	"fmt"
	"strings"
)

const indentUnit = "    "

// ToSource renders the trivia marker and body.
func (t Trivia) ToSource() string {
	switch t.Kind {
	case DocComment:
		return "'''" + t.Text
	case BlankLine:
		return ""
	default:
		return "'" + t.Text
	}
}

// Render returns the source of n with its leading and trailing trivia.
// The first trailing comment shares the last line of the node; further
// trailing trivia get a line each.
func Render(n Node) string {
	m := n.Info()
	var lines []string
	for _, t := range m.Leading {
		lines = append(lines, t.ToSource())
	}
	body := n.ToSource()
	hasBody := body != ""
	if hasBody {
		lines = append(lines, strings.Split(body, "\n")...)
	}
	for i, t := range m.Trailing {
		if i == 0 && hasBody && t.Kind != BlankLine {
			lines[len(lines)-1] += " " + t.ToSource()
			continue
		}
		lines = append(lines, t.ToSource())
	}
	return strings.Join(lines, "\n")
}

func indent(src string) string {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = indentUnit + line
		}
	}
	return strings.Join(lines, "\n")
}

func writeBody[T Node](sb *strings.Builder, nodes []T) {
	for _, n := range nodes {
		src := Render(n)
		if src == "" && !hasTrivia(n) {
			continue
		}
		sb.WriteString(indent(src))
		sb.WriteString("\n")
	}
}

func hasTrivia(n Node) bool {
	m := n.Info()
	return len(m.Leading)+len(m.Trailing) > 0
}

func joinExprs(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.ToSource()
	}
	return strings.Join(parts, ", ")
}

func joinTypes(types []Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

func header(mods []string, words ...string) string {
	parts := append(append([]string{}, mods...), words...)
	return strings.Join(parts, " ")
}

func typeParams(params []string) string {
	if len(params) == 0 {
		return ""
	}
	return "(Of " + strings.Join(params, ", ") + ")"
}

// ToSource methods for all types

func (u *CompilationUnit) ToSource() string {
	sb := strings.Builder{}
	if u.Header != "" {
		for _, line := range strings.Split(strings.TrimRight(u.Header, "\n"), "\n") {
			sb.WriteString("' ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	for _, imp := range u.Imports {
		sb.WriteString(Render(imp))
		sb.WriteString("\n")
	}
	if len(u.Imports) > 0 && len(u.Members) > 0 {
		sb.WriteString("\n")
	}
	wrote := false
	for _, m := range u.Members {
		src := Render(m)
		if !wrote {
			// a unit never opens with a blank line
			src = strings.TrimLeft(src, "\n")
		}
		if src == "" {
			continue
		}
		sb.WriteString(src)
		sb.WriteString("\n")
		wrote = true
	}
	return sb.String()
}

func (imp *Import) ToSource() string {
	if imp.Alias != "" {
		return fmt.Sprintf("Imports %s = %s", imp.Alias, imp.Path)
	}
	return "Imports " + imp.Path
}

func (n *NamespaceBlock) ToSource() string {
	sb := strings.Builder{}
	sb.WriteString("Namespace ")
	sb.WriteString(n.Name)
	sb.WriteString("\n")
	writeBody(&sb, n.Members)
	sb.WriteString("End Namespace")
	return sb.String()
}

func (t *TypeBlock) ToSource() string {
	sb := strings.Builder{}
	sb.WriteString(header(t.Modifiers, t.Keyword.String(), t.Name.Text+typeParams(t.TypeParams)))
	sb.WriteString("\n")
	if len(t.Inherits) > 0 {
		sb.WriteString(indentUnit + "Inherits " + joinTypes(t.Inherits) + "\n")
	}
	if len(t.Implements) > 0 {
		sb.WriteString(indentUnit + "Implements " + joinTypes(t.Implements) + "\n")
	}
	writeBody(&sb, t.Members)
	sb.WriteString("End ")
	sb.WriteString(t.Keyword.String())
	return sb.String()
}

func (e *EnumBlock) ToSource() string {
	sb := strings.Builder{}
	sb.WriteString(header(e.Modifiers, "Enum", e.Name.Text))
	if e.Base != "" {
		sb.WriteString(" As ")
		sb.WriteString(string(e.Base))
	}
	sb.WriteString("\n")
	writeBody(&sb, e.Members)
	sb.WriteString("End Enum")
	return sb.String()
}

func (m *EnumMember) ToSource() string {
	if m.Value != nil {
		return m.Name.Text + " = " + m.Value.ToSource()
	}
	return m.Name.Text
}

func (f *FieldDecl) ToSource() string {
	mods := f.Modifiers
	if len(mods) == 0 {
		mods = []string{"Dim"}
	}
	return header(mods, joinDeclarators(f.Declarators))
}

func (m *MethodBlock) ToSource() string {
	kind := "Sub"
	if m.IsFunction {
		kind = "Function"
	}
	sb := strings.Builder{}
	sb.WriteString(header(m.Modifiers, kind, m.Name.Text+typeParams(m.TypeParams)))
	sb.WriteString("(")
	sb.WriteString(joinParams(m.Params))
	sb.WriteString(")")
	if m.IsFunction && m.ReturnType != "" {
		sb.WriteString(" As ")
		sb.WriteString(string(m.ReturnType))
	}
	if m.NoBody {
		return sb.String()
	}
	sb.WriteString("\n")
	writeBody(&sb, m.Body)
	sb.WriteString("End ")
	sb.WriteString(kind)
	return sb.String()
}

func (p *PropertyBlock) ToSource() string {
	sb := strings.Builder{}
	sb.WriteString(header(p.Modifiers, "Property", p.Name.Text))
	if len(p.Params) > 0 {
		sb.WriteString("(")
		sb.WriteString(joinParams(p.Params))
		sb.WriteString(")")
	}
	sb.WriteString(" As ")
	sb.WriteString(string(p.Type))
	if p.Auto || (p.Getter == nil && p.Setter == nil) {
		if p.Init != nil {
			sb.WriteString(" = ")
			sb.WriteString(p.Init.ToSource())
		}
		return sb.String()
	}
	sb.WriteString("\n")
	if p.Getter != nil {
		sb.WriteString(indent(Render(&accessorRenderer{p.Getter, "Get"})))
		sb.WriteString("\n")
	}
	if p.Setter != nil {
		sb.WriteString(indent(Render(&accessorRenderer{p.Setter, "Set"})))
		sb.WriteString("\n")
	}
	sb.WriteString("End Property")
	return sb.String()
}

type accessorRenderer struct {
	*AccessorBlock
	keyword string
}

func (a *accessorRenderer) ToSource() string {
	sb := strings.Builder{}
	sb.WriteString(header(a.Modifiers, a.keyword))
	if a.keyword == "Set" && a.ParamName != "" {
		sb.WriteString("(")
		sb.WriteString(a.ParamName)
		if a.ParamType != "" {
			sb.WriteString(" As ")
			sb.WriteString(string(a.ParamType))
		}
		sb.WriteString(")")
	}
	sb.WriteString("\n")
	writeBody(&sb, a.Body)
	sb.WriteString("End ")
	sb.WriteString(a.keyword)
	return sb.String()
}

func (p *Param) ToSource() string {
	sb := strings.Builder{}
	if p.Optional {
		sb.WriteString("Optional ")
	}
	if p.ParamArray {
		sb.WriteString("ParamArray ")
	}
	if p.ByRef {
		sb.WriteString("ByRef ")
	}
	sb.WriteString(p.Name.Text)
	if p.Type != "" {
		sb.WriteString(" As ")
		sb.WriteString(string(p.Type))
	}
	if p.Default != nil {
		sb.WriteString(" = ")
		sb.WriteString(p.Default.ToSource())
	}
	return sb.String()
}

func joinParams(params []*Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.ToSource()
	}
	return strings.Join(parts, ", ")
}

func (d *Declarator) ToSource() string {
	names := make([]string, len(d.Names))
	for i, n := range d.Names {
		names[i] = n.Text
	}
	sb := strings.Builder{}
	sb.WriteString(strings.Join(names, ", "))
	if d.Type != "" {
		sb.WriteString(" As ")
		sb.WriteString(string(d.Type))
	}
	if d.Init != nil {
		sb.WriteString(" = ")
		sb.WriteString(d.Init.ToSource())
	}
	return sb.String()
}

func joinDeclarators(decls []*Declarator) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.ToSource()
	}
	return strings.Join(parts, ", ")
}

// Statement ToSource methods

func (s *EmptyStatement) ToSource() string {
	return ""
}

func (s *DimStatement) ToSource() string {
	kw := s.Keyword
	if kw == "" {
		kw = "Dim"
	}
	return kw + " " + joinDeclarators(s.Declarators)
}

func (s *AssignStatement) ToSource() string {
	op := s.Op
	if op == "" {
		op = "="
	}
	return fmt.Sprintf("%s %s %s", s.Target.ToSource(), op, s.Value.ToSource())
}

func (s *CallStatement) ToSource() string {
	return s.Call.ToSource()
}

func (s *ReturnStatement) ToSource() string {
	if s.Value == nil {
		return "Return"
	}
	return "Return " + s.Value.ToSource()
}

func (s *IfBlock) ToSource() string {
	sb := strings.Builder{}
	sb.WriteString("If ")
	sb.WriteString(s.Cond.ToSource())
	sb.WriteString(" Then\n")
	writeBody(&sb, s.Body)
	for _, elseIf := range s.ElseIfs {
		sb.WriteString("ElseIf ")
		sb.WriteString(elseIf.Cond.ToSource())
		sb.WriteString(" Then\n")
		writeBody(&sb, elseIf.Body)
	}
	if s.HasElse || len(s.Else) > 0 {
		sb.WriteString("Else\n")
		writeBody(&sb, s.Else)
	}
	sb.WriteString("End If")
	return sb.String()
}

func (s *WhileBlock) ToSource() string {
	sb := strings.Builder{}
	sb.WriteString("While ")
	sb.WriteString(s.Cond.ToSource())
	sb.WriteString("\n")
	writeBody(&sb, s.Body)
	sb.WriteString("End While")
	return sb.String()
}

func (s *DoLoopBlock) ToSource() string {
	sb := strings.Builder{}
	sb.WriteString("Do\n")
	writeBody(&sb, s.Body)
	sb.WriteString("Loop While ")
	sb.WriteString(s.Cond.ToSource())
	return sb.String()
}

func (s *ForBlock) ToSource() string {
	sb := strings.Builder{}
	sb.WriteString("For ")
	sb.WriteString(s.Var.Text)
	if s.VarType != "" {
		sb.WriteString(" As ")
		sb.WriteString(string(s.VarType))
	}
	sb.WriteString(" = ")
	sb.WriteString(s.From.ToSource())
	sb.WriteString(" To ")
	sb.WriteString(s.To.ToSource())
	if s.Step != nil {
		sb.WriteString(" Step ")
		sb.WriteString(s.Step.ToSource())
	}
	sb.WriteString("\n")
	writeBody(&sb, s.Body)
	sb.WriteString("Next")
	return sb.String()
}

func (s *ForEachBlock) ToSource() string {
	sb := strings.Builder{}
	sb.WriteString("For Each ")
	sb.WriteString(s.Var.Text)
	if s.VarType != "" {
		sb.WriteString(" As ")
		sb.WriteString(string(s.VarType))
	}
	sb.WriteString(" In ")
	sb.WriteString(s.Collection.ToSource())
	sb.WriteString("\n")
	writeBody(&sb, s.Body)
	sb.WriteString("Next")
	return sb.String()
}

func (s *ThrowStatement) ToSource() string {
	if s.Value == nil {
		return "Throw"
	}
	return "Throw " + s.Value.ToSource()
}

func (s *SelectBlock) ToSource() string {
	sb := strings.Builder{}
	sb.WriteString("Select Case ")
	sb.WriteString(s.Value.ToSource())
	sb.WriteString("\n")
	for _, c := range s.Cases {
		sb.WriteString(indent(Render(c)))
		sb.WriteString("\n")
	}
	sb.WriteString("End Select")
	return sb.String()
}

func (c *CaseBlock) ToSource() string {
	sb := strings.Builder{}
	if c.IsElse {
		sb.WriteString("Case Else\n")
	} else {
		sb.WriteString("Case ")
		sb.WriteString(joinExprs(c.Values))
		sb.WriteString("\n")
	}
	writeBody(&sb, c.Body)
	return strings.TrimSuffix(sb.String(), "\n")
}

func (s *YieldStatement) ToSource() string {
	return "Yield " + s.Value.ToSource()
}

func (s *ExitStatement) ToSource() string {
	return "Exit " + s.Kind
}

func (s *ContinueStatement) ToSource() string {
	return "Continue " + s.Kind
}

func (s *TryBlock) ToSource() string {
	sb := strings.Builder{}
	sb.WriteString("Try\n")
	writeBody(&sb, s.Body)
	for _, c := range s.Catches {
		sb.WriteString("Catch")
		if c.Name != nil {
			sb.WriteString(" ")
			sb.WriteString(c.Name.Text)
			if c.Type != "" {
				sb.WriteString(" As ")
				sb.WriteString(string(c.Type))
			}
		}
		sb.WriteString("\n")
		writeBody(&sb, c.Body)
	}
	if s.HasFinally || len(s.Finally) > 0 {
		sb.WriteString("Finally\n")
		writeBody(&sb, s.Finally)
	}
	sb.WriteString("End Try")
	return sb.String()
}

// Expression ToSource methods

func (e *IdentifierExpr) ToSource() string {
	return e.Name.Text
}

func (e *LiteralExpr) ToSource() string {
	return e.Text
}

func (e *BinaryExpr) ToSource() string {
	return fmt.Sprintf("%s %s %s", e.Left.ToSource(), e.Op, e.Right.ToSource())
}

func (e *UnaryExpr) ToSource() string {
	if e.Op == "Not" || e.Op == "Await" || e.Op == "AddressOf" {
		return e.Op + " " + e.Operand.ToSource()
	}
	return e.Op + e.Operand.ToSource()
}

func (e *InvocationExpr) ToSource() string {
	return e.Target.ToSource() + "(" + joinExprs(e.Args) + ")"
}

func (e *NamedArgument) ToSource() string {
	return e.Name + ":=" + e.Value.ToSource()
}

func (e *MemberAccessExpr) ToSource() string {
	if e.X == nil {
		return "." + e.Name.Text
	}
	return e.X.ToSource() + "." + e.Name.Text
}

func (e *GenericNameExpr) ToSource() string {
	return e.Name.Text + "(Of " + joinTypes(e.TypeArgs) + ")"
}

func (e *ObjectCreationExpr) ToSource() string {
	sb := strings.Builder{}
	sb.WriteString("New ")
	sb.WriteString(string(e.Type))
	if len(e.Args) > 0 || len(e.Init) == 0 {
		sb.WriteString("(")
		sb.WriteString(joinExprs(e.Args))
		sb.WriteString(")")
	}
	if len(e.Init) > 0 {
		sb.WriteString(" From {")
		sb.WriteString(joinExprs(e.Init))
		sb.WriteString("}")
	}
	return sb.String()
}

func (e *ArrayCreationExpr) ToSource() string {
	sb := strings.Builder{}
	sb.WriteString("New ")
	sb.WriteString(string(e.Elem))
	sb.WriteString("(")
	if len(e.Bounds) > 0 {
		sb.WriteString(joinExprs(e.Bounds))
	} else if e.Rank > 1 {
		sb.WriteString(strings.Repeat(",", e.Rank-1))
	}
	sb.WriteString(") {")
	sb.WriteString(joinExprs(e.Init))
	sb.WriteString("}")
	return sb.String()
}

func (e *CollectionExpr) ToSource() string {
	return "{" + joinExprs(e.Items) + "}"
}

func (e *LambdaExpr) ToSource() string {
	kind := "Sub"
	if e.IsFunction {
		kind = "Function"
	}
	sb := strings.Builder{}
	if e.Async {
		sb.WriteString("Async ")
	}
	if e.Iterator {
		sb.WriteString("Iterator ")
	}
	sb.WriteString(kind)
	sb.WriteString("(")
	sb.WriteString(joinParams(e.Params))
	sb.WriteString(")")
	if e.Body != nil {
		sb.WriteString(" ")
		sb.WriteString(e.Body.ToSource())
		return sb.String()
	}
	sb.WriteString("\n")
	writeBody(&sb, e.Statements)
	sb.WriteString("End ")
	sb.WriteString(kind)
	return sb.String()
}

func (e *IfExpr) ToSource() string {
	return "If(" + joinExprs(e.Args) + ")"
}

func (e *CastExpr) ToSource() string {
	if e.Type == "" {
		return e.Keyword + "(" + e.X.ToSource() + ")"
	}
	return fmt.Sprintf("%s(%s, %s)", e.Keyword, e.X.ToSource(), e.Type)
}

func (e *ParenExpr) ToSource() string {
	return "(" + e.X.ToSource() + ")"
}

func (e *TypeOfIsExpr) ToSource() string {
	return fmt.Sprintf("TypeOf %s Is %s", e.X.ToSource(), e.Type)
}

func (e *GetTypeExpr) ToSource() string {
	return "GetType(" + string(e.Type) + ")"
}
