package cs

import "strings"

// Modifier bit flags
const (
	PUBLIC Modifiers = 1 << iota
	PRIVATE
	PROTECTED
	INTERNAL
	STATIC
	READONLY
	CONST
	ABSTRACT
	VIRTUAL
	OVERRIDE
	SEALED
	NEW
	ASYNC
	PARTIAL
	EXTERN
)

// Modifiers represents declaration modifiers as a bitmask
type Modifiers uint32

var modifierNames = []struct {
	flag Modifiers
	name string
}{
	{PUBLIC, "public"},
	{PRIVATE, "private"},
	{PROTECTED, "protected"},
	{INTERNAL, "internal"},
	{STATIC, "static"},
	{READONLY, "readonly"},
	{CONST, "const"},
	{ABSTRACT, "abstract"},
	{VIRTUAL, "virtual"},
	{OVERRIDE, "override"},
	{SEALED, "sealed"},
	{NEW, "new"},
	{ASYNC, "async"},
	{PARTIAL, "partial"},
	{EXTERN, "extern"},
}

func (m Modifiers) String() string {
	var parts []string
	for _, each := range modifierNames {
		if m&each.flag != 0 {
			parts = append(parts, each.name)
		}
	}
	return strings.Join(parts, " ")
}

// Has reports whether every flag in flags is set.
func (m Modifiers) Has(flags Modifiers) bool {
	return m&flags == flags
}

// HasAccessibility reports whether any accessibility keyword was written.
func (m Modifiers) HasAccessibility() bool {
	return m&(PUBLIC|PRIVATE|PROTECTED|INTERNAL) != 0
}

// ParseModifiers parses modifier source text into a bitmask. Unknown words are ignored.
func ParseModifiers(source string) Modifiers {
	var mods Modifiers
	for _, part := range strings.Fields(source) {
		for _, each := range modifierNames {
			if each.name == part {
				mods |= each.flag
			}
		}
	}
	return mods
}
