package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heshanpadmasiri/csvb/cs"
)

func TestIntegerLiterals(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"42", "42"},
		{"42u", "42UI"},
		{"10L", "10L"},
		{"5ul", "5UL"},
		{"7LU", "7UL"},
		{"1_000", "1000"},
		{"0xFF", "&HFF"},
		{"0xff", "&HFF"},
		{"0x7FFFFFFF", "&H7FFFFFFF"},
		{"0xFFFFFFFF", "&HFFFFFFFFUI"},
		{"0x100000000", "&H100000000L"},
		{"0xFFFFFFFFFFFFFFFF", "&HFFFFFFFFFFFFFFFFUL"},
		{"0xffL", "&HFFL"},
		{"0b101", "&B101"},
		{"0b1111_0000", "&B11110000"},
	}
	for _, test := range tests {
		t.Run(test.raw, func(t *testing.T) {
			got, err := convertIntegerLiteral(test.raw)
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}

	_, err := convertIntegerLiteral("1lul")
	assert.Error(t, err)
}

func TestRealLiterals(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"1.5", "1.5"},
		{"1.5f", "1.5F"},
		{"2.0d", "2.0R"},
		{"3m", "3D"},
		{"1e10", "1e10"},
		{"1_000.5", "1000.5"},
	}
	for _, test := range tests {
		t.Run(test.raw, func(t *testing.T) {
			got, err := convertRealLiteral(test.raw)
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestStringAndCharLiterals(t *testing.T) {
	tests := []struct {
		name string
		lit  *cs.Literal
		want string
	}{
		{"plain", &cs.Literal{LitKind: cs.StringLit, Raw: `"hello"`}, `"hello"`},
		{"empty", &cs.Literal{LitKind: cs.StringLit, Raw: `""`}, `""`},
		{"newline", &cs.Literal{LitKind: cs.StringLit, Raw: `"a\nb"`}, `"a" & vbLf & "b"`},
		{"crlf", &cs.Literal{LitKind: cs.StringLit, Raw: `"line\r\n"`}, `"line" & vbCrLf`},
		{"tab", &cs.Literal{LitKind: cs.StringLit, Raw: `"\tx"`}, `vbTab & "x"`},
		{"quotes", &cs.Literal{LitKind: cs.StringLit, Raw: `"say \"hi\""`}, `"say ""hi"""`},
		{"backslash", &cs.Literal{LitKind: cs.StringLit, Raw: `"a\\b"`}, `"a\b"`},
		{"unicode escape", &cs.Literal{LitKind: cs.StringLit, Raw: `"\u00e9"`}, `"é"`},
		{"control", &cs.Literal{LitKind: cs.StringLit, Raw: `"\u0001"`}, "ChrW(1)"},
		{"verbatim", &cs.Literal{LitKind: cs.VerbatimStringLit, Raw: `@"C:\dir"`}, `"C:\dir"`},
		{"char", &cs.Literal{LitKind: cs.CharLit, Raw: `'a'`}, `"a"c`},
		{"quote char", &cs.Literal{LitKind: cs.CharLit, Raw: `'"'`}, `""""c`},
		{"escaped apostrophe", &cs.Literal{LitKind: cs.CharLit, Raw: `'\''`}, `"'"c`},
		{"newline char", &cs.Literal{LitKind: cs.CharLit, Raw: `'\n'`}, "ChrW(10)"},
		{"true", &cs.Literal{LitKind: cs.BoolLit, Raw: "true"}, "True"},
		{"false", &cs.Literal{LitKind: cs.BoolLit, Raw: "false"}, "False"},
		{"null", null(), "Nothing"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := convertLiteral(test.lit)
			require.NoError(t, err)
			assert.Equal(t, test.want, got.ToSource())
		})
	}
}

func TestMalformedLiterals(t *testing.T) {
	for _, lit := range []*cs.Literal{
		{LitKind: cs.StringLit, Raw: `"\q"`},
		{LitKind: cs.CharLit, Raw: `'ab'`},
		{LitKind: cs.IntLit, Raw: "1uu"},
	} {
		_, err := convertLiteral(lit)
		require.Error(t, err, lit.Raw)
		kind, _ := ErrorKindOf(err)
		assert.Equal(t, UnsupportedConstruct, kind)
	}
}

func TestEscapeIdentifier(t *testing.T) {
	assert.Equal(t, "[class]", escapeIdentifier("@class"))
	assert.Equal(t, "foo", escapeIdentifier("@foo"))
	assert.Equal(t, "[Next]", escapeIdentifier("Next"))
	assert.Equal(t, "[end]", escapeIdentifier("end"))
	assert.Equal(t, "value", escapeIdentifier("value"))
}

func TestModifierMapping(t *testing.T) {
	assert.Equal(t, []string{"Public", "NotOverridable", "Overrides"}, memberModifiers(cs.PUBLIC|cs.SEALED|cs.OVERRIDE, false))
	assert.Equal(t, []string{"Public"}, memberModifiers(cs.PUBLIC|cs.STATIC, true))
	assert.Equal(t, []string{"Public", "Shared"}, memberModifiers(cs.PUBLIC|cs.STATIC, false))
	assert.Equal(t, []string{"Protected", "Friend"}, memberModifiers(cs.PROTECTED|cs.INTERNAL, false))
	assert.Equal(t, []string{"Private", "Shadows"}, memberModifiers(cs.PRIVATE|cs.NEW, false))
	assert.Empty(t, memberModifiers(cs.SEALED, false))

	assert.Equal(t, []string{"Public", "MustInherit"}, typeModifiers(cs.PUBLIC|cs.ABSTRACT))
	assert.Equal(t, []string{"Friend", "NotInheritable"}, typeModifiers(cs.INTERNAL|cs.SEALED))
	assert.Equal(t, []string{"Public"}, typeModifiers(cs.PUBLIC|cs.STATIC))
	assert.Equal(t, []string{"Partial"}, typeModifiers(cs.PARTIAL))
}
