package convert

import (
	"strings"

	"github.com/heshanpadmasiri/csvb/cs"
	"github.com/heshanpadmasiri/csvb/semantic"
	"github.com/heshanpadmasiri/csvb/vbsrc"
)

var predefinedTypes = map[string]vbsrc.Type{
	"bool":    "Boolean",
	"byte":    "Byte",
	"sbyte":   "SByte",
	"short":   "Short",
	"ushort":  "UShort",
	"int":     "Integer",
	"uint":    "UInteger",
	"long":    "Long",
	"ulong":   "ULong",
	"float":   "Single",
	"double":  "Double",
	"decimal": "Decimal",
	"char":    "Char",
	"string":  "String",
	"object":  "Object",
	"dynamic": "Object",
}

func (ctx *Context) namedType(name string, args []vbsrc.Type) vbsrc.Type {
	if ty, ok := predefinedTypes[name]; ok {
		return ty
	}
	if mapped, ok := ctx.Options.TypeMappings[name]; ok {
		name = mapped
	}
	name = strings.TrimPrefix(name, "global::")
	if len(args) == 0 {
		return vbsrc.Type(name)
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = string(a)
	}
	return vbsrc.Type(name + "(Of " + strings.Join(parts, ", ") + ")")
}

// convertType maps a written source type. `var` and void map to the empty type.
func (ctx *Context) convertType(t *cs.TypeRef) vbsrc.Type {
	if t == nil || t.IsVoid() || t.IsVar() {
		return ""
	}
	if t.Rank > 0 {
		return vbsrc.ArrayType(ctx.convertType(t.Elem), t.Rank)
	}
	args := make([]vbsrc.Type, len(t.Args))
	for i, a := range t.Args {
		args[i] = ctx.convertType(a)
	}
	ctx.noteTypeName(t)
	ty := ctx.namedType(t.Name, args)
	if t.Nullable {
		ty += "?"
	}
	return ty
}

// noteTypeName records which source type a written name refers to, so a
// rename of that type can tell whether the spelling is safe to rewrite.
func (ctx *Context) noteTypeName(t *cs.TypeRef) {
	name := t.Name[strings.LastIndex(t.Name, ".")+1:]
	sym := ctx.symbolFor(t)
	if sym != nil && sym.Kind != semantic.TypeSymbol {
		sym = nil
	}
	if prev, seen := ctx.typeNames[name]; seen && prev != sym {
		sym = nil
	}
	ctx.typeNames[name] = sym
}

// convertSemanticType maps a resolved type.
func (ctx *Context) convertSemanticType(t *semantic.Type) vbsrc.Type {
	if t == nil || t.Name == "void" {
		return ""
	}
	if t.IsArray() {
		return vbsrc.ArrayType(ctx.convertSemanticType(t.Elem), t.Rank)
	}
	args := make([]vbsrc.Type, len(t.Args))
	for i, a := range t.Args {
		args[i] = ctx.convertSemanticType(a)
	}
	ty := ctx.namedType(t.Name, args)
	if t.Nullable {
		ty += "?"
	}
	return ty
}
