package convert

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/heshanpadmasiri/csvb/cs"
	"github.com/heshanpadmasiri/csvb/vbsrc"
)

// Token tables for the one supported language pair. They are plain lookup
// tables so that another pair can swap them wholesale.

var binaryOperators = map[string]string{
	"==": "=",
	"!=": "<>",
	"<":  "<",
	"<=": "<=",
	">":  ">",
	">=": ">=",
	"&&": "AndAlso",
	"||": "OrElse",
	"&":  "And",
	"|":  "Or",
	"^":  "Xor",
	"%":  "Mod",
	"+":  "+",
	"-":  "-",
	"*":  "*",
	"/":  "/",
	"<<": "<<",
	">>": ">>",
}

var prefixOperators = map[string]string{
	"!": "Not",
	"~": "Not",
	"-": "-",
	"+": "+",
}

// compoundOperators are the compound assignments the target has natively.
var compoundOperators = map[string]string{
	"+=":  "+=",
	"-=":  "-=",
	"*=":  "*=",
	"/=":  "/=",
	"<<=": "<<=",
	">>=": ">>=",
}

// expandedCompound are compound assignments rewritten as x = x Op y.
var expandedCompound = map[string]string{
	"%=": "Mod",
	"&=": "And",
	"|=": "Or",
	"^=": "Xor",
}

var conversionKeywords = map[string]string{
	"bool":    "CBool",
	"byte":    "CByte",
	"sbyte":   "CSByte",
	"short":   "CShort",
	"ushort":  "CUShort",
	"int":     "CInt",
	"uint":    "CUInt",
	"long":    "CLng",
	"ulong":   "CULng",
	"float":   "CSng",
	"double":  "CDbl",
	"decimal": "CDec",
	"char":    "CChar",
	"string":  "CStr",
	"object":  "CObj",
}

var integerSuffixes = map[string]string{
	"l":  "L",
	"u":  "UI",
	"ul": "UL",
	"lu": "UL",
}

var realSuffixes = map[string]string{
	"f": "F",
	"d": "R",
	"m": "D",
}

var reservedWords = map[string]bool{}

func init() {
	for _, w := range strings.Fields(`AddHandler AddressOf Alias And AndAlso As Boolean ByRef Byte ByVal Call
		Case Catch CBool CByte CChar CDate CDbl CDec Char CInt Class CLng CObj Const Continue CSByte
		CShort CSng CStr CType CUInt CULng CUShort Date Decimal Declare Default Delegate Dim
		DirectCast Do Double Each Else ElseIf End EndIf Enum Erase Error Event Exit False Finally For
		Friend Function Get GetType GetXMLNamespace Global GoSub GoTo Handles If Implements Imports In
		Inherits Integer Interface Is IsNot Let Lib Like Long Loop Me Mod Module MustInherit
		MustOverride MyBase MyClass Namespace Narrowing New Next Not Nothing NotInheritable
		NotOverridable Object Of On Operator Option Optional Or OrElse Overloads Overridable
		Overrides ParamArray Partial Private Property Protected Public RaiseEvent ReadOnly ReDim
		REM RemoveHandler Resume Return SByte Select Set Shadows Shared Short Single Static Step Stop
		String Structure Sub SyncLock Then Throw To True Try TryCast TypeOf UInteger ULong UShort
		Using Variant Wend When While Widening With WithEvents WriteOnly Xor`) {
		reservedWords[strings.ToLower(w)] = true
	}
}

// escapeIdentifier strips a verbatim `@` and brackets target keywords.
func escapeIdentifier(name string) string {
	name = strings.TrimPrefix(name, "@")
	if reservedWords[strings.ToLower(name)] {
		return "[" + name + "]"
	}
	return name
}

var modifierKeywords = []struct {
	flag cs.Modifiers
	word string
}{
	{cs.PUBLIC, "Public"},
	{cs.PROTECTED, "Protected"},
	{cs.INTERNAL, "Friend"},
	{cs.PRIVATE, "Private"},
	{cs.NEW, "Shadows"},
	{cs.STATIC, "Shared"},
	{cs.ABSTRACT, "MustOverride"},
	{cs.VIRTUAL, "Overridable"},
	{cs.SEALED, "NotOverridable"},
	{cs.OVERRIDE, "Overrides"},
	{cs.READONLY, "ReadOnly"},
	{cs.ASYNC, "Async"},
	{cs.PARTIAL, "Partial"},
}

// memberModifiers maps modifiers of a member. inModule drops Shared, which
// module members have implicitly.
func memberModifiers(mods cs.Modifiers, inModule bool) []string {
	var out []string
	for _, m := range modifierKeywords {
		if !mods.Has(m.flag) {
			continue
		}
		if m.flag == cs.STATIC && inModule {
			continue
		}
		if m.flag == cs.SEALED && !mods.Has(cs.OVERRIDE) {
			continue
		}
		out = append(out, m.word)
	}
	return out
}

// typeModifiers maps modifiers of a type declaration.
func typeModifiers(mods cs.Modifiers) []string {
	var out []string
	for _, m := range modifierKeywords {
		if !mods.Has(m.flag) {
			continue
		}
		switch m.flag {
		case cs.ABSTRACT:
			out = append(out, "MustInherit")
		case cs.SEALED:
			out = append(out, "NotInheritable")
		case cs.STATIC, cs.VIRTUAL, cs.OVERRIDE, cs.READONLY, cs.ASYNC:
		default:
			out = append(out, m.word)
		}
	}
	return out
}

func splitNumericSuffix(raw string, suffixChars string) (string, string) {
	i := len(raw)
	for i > 0 && strings.ContainsRune(suffixChars, rune(raw[i-1])) {
		i--
	}
	return raw[:i], strings.ToLower(raw[i:])
}

// convertIntegerLiteral rewrites radix prefixes and width suffixes. A hex or
// binary literal whose value does not fit Int32 gets an explicit suffix, since
// the target reads such literals as negative Int32 values otherwise.
func convertIntegerLiteral(raw string) (string, error) {
	raw = strings.ReplaceAll(raw, "_", "")
	lower := strings.ToLower(raw)
	base, prefix, digits := 10, "", raw
	switch {
	case strings.HasPrefix(lower, "0x"):
		base, prefix, digits = 16, "&H", raw[2:]
	case strings.HasPrefix(lower, "0b"):
		base, prefix, digits = 2, "&B", raw[2:]
	}
	suffixChars := "uUlL"
	digits, suffix := splitNumericSuffix(digits, suffixChars)
	target := ""
	if suffix != "" {
		mapped, ok := integerSuffixes[suffix]
		if !ok {
			return "", fmt.Errorf("unknown integer suffix %q", suffix)
		}
		target = mapped
	}
	if base != 10 {
		digits = strings.ToUpper(digits)
		if target == "" {
			value, err := strconv.ParseUint(digits, base, 64)
			if err != nil {
				return "", err
			}
			switch {
			case value <= math.MaxInt32:
			case value <= math.MaxUint32:
				target = "UI"
			case value <= math.MaxInt64:
				target = "L"
			default:
				target = "UL"
			}
		}
	}
	return prefix + digits + target, nil
}

func convertRealLiteral(raw string) (string, error) {
	raw = strings.ReplaceAll(raw, "_", "")
	digits, suffix := splitNumericSuffix(raw, "fFdDmM")
	if len(suffix) > 1 {
		return "", fmt.Errorf("unknown real suffix %q", suffix)
	}
	if suffix == "" {
		return digits, nil
	}
	return digits + realSuffixes[suffix], nil
}

func quote(text string) string {
	return `"` + strings.ReplaceAll(text, `"`, `""`) + `"`
}

// namedChars are control characters with a target constant.
var namedChars = map[rune]string{
	'\r': "vbCr",
	'\n': "vbLf",
	'\t': "vbTab",
	0:    "vbNullChar",
	'\b': "vbBack",
	'\f': "vbFormFeed",
	'\v': "vbVerticalTab",
}

func charExpr(r rune) string {
	if name, ok := namedChars[r]; ok {
		return name
	}
	return fmt.Sprintf("ChrW(%d)", r)
}

// unescape decodes a regular string or char literal body into runes.
func unescape(body string) ([]rune, error) {
	var out []rune
	for i := 0; i < len(body); {
		r, size := utf8.DecodeRuneInString(body[i:])
		if r != '\\' {
			out = append(out, r)
			i += size
			continue
		}
		if i+1 >= len(body) {
			return nil, fmt.Errorf("dangling escape in %q", body)
		}
		esc := body[i+1]
		i += 2
		switch esc {
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case '0':
			out = append(out, 0)
		case 'a':
			out = append(out, '\a')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case 'v':
			out = append(out, '\v')
		case '\\', '"', '\'':
			out = append(out, rune(esc))
		case 'u', 'x', 'U':
			n := 4
			if esc == 'U' {
				n = 8
			}
			j := i
			for j < len(body) && j-i < n && strings.ContainsRune("0123456789abcdefABCDEF", rune(body[j])) {
				j++
			}
			v, err := strconv.ParseUint(body[i:j], 16, 32)
			if err != nil {
				return nil, fmt.Errorf("bad escape in %q", body)
			}
			out = append(out, rune(v))
			i = j
		default:
			return nil, fmt.Errorf("unknown escape \\%c", esc)
		}
	}
	return out, nil
}

// stringExpr renders runes as a string expression, splitting out control
// characters as named constants joined with &. A CR LF pair becomes vbCrLf.
func stringExpr(runes []rune) string {
	var parts []string
	var plain strings.Builder
	flush := func() {
		if plain.Len() > 0 {
			parts = append(parts, quote(plain.String()))
			plain.Reset()
		}
	}
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if unicode.IsPrint(r) || r == ' ' {
			plain.WriteRune(r)
			continue
		}
		flush()
		if r == '\r' && i+1 < len(runes) && runes[i+1] == '\n' {
			parts = append(parts, "vbCrLf")
			i++
			continue
		}
		parts = append(parts, charExpr(r))
	}
	flush()
	if len(parts) == 0 {
		return `""`
	}
	return strings.Join(parts, " & ")
}

func convertLiteral(lit *cs.Literal) (vbsrc.Expression, error) {
	raw := lit.Raw
	switch lit.LitKind {
	case cs.IntLit:
		text, err := convertIntegerLiteral(raw)
		if err != nil {
			return nil, unsupported(lit, "%v", err)
		}
		return vbsrc.Lit(text), nil
	case cs.RealLit:
		text, err := convertRealLiteral(raw)
		if err != nil {
			return nil, unsupported(lit, "%v", err)
		}
		return vbsrc.Lit(text), nil
	case cs.StringLit:
		body := strings.TrimSuffix(strings.TrimPrefix(raw, `"`), `"`)
		runes, err := unescape(body)
		if err != nil {
			return nil, unsupported(lit, "%v", err)
		}
		return vbsrc.Lit(stringExpr(runes)), nil
	case cs.VerbatimStringLit:
		body := strings.TrimSuffix(strings.TrimPrefix(raw, `@"`), `"`)
		return vbsrc.Lit(`"` + body + `"`), nil
	case cs.CharLit:
		body := strings.TrimSuffix(strings.TrimPrefix(raw, "'"), "'")
		runes, err := unescape(body)
		if err != nil || len(runes) != 1 {
			return nil, unsupported(lit, "malformed character literal %s", raw)
		}
		r := runes[0]
		if !unicode.IsPrint(r) && r != ' ' {
			return vbsrc.Lit(fmt.Sprintf("ChrW(%d)", r)), nil
		}
		return vbsrc.Lit(quote(string(r)) + "c"), nil
	case cs.BoolLit:
		if raw == "true" {
			return vbsrc.Lit("True"), nil
		}
		return vbsrc.Lit("False"), nil
	default:
		return vbsrc.Nothing(), nil
	}
}
