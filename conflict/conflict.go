// Package conflict fixes sibling declarations whose names differ only by
// case, which the target language treats as the same identifier.
//
// Resolution runs in two phases. Planning groups the declarations of every
// scope by case-insensitive name, picks the declaration that keeps the name
// and generates fresh names for the rest. Applying then hands the planned
// renames to a Renamer one at a time, re-resolving each declaration against
// the tree as it stands after the previous rename.
package conflict

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/heshanpadmasiri/csvb/annotation"
	"github.com/heshanpadmasiri/csvb/semantic"
	"github.com/heshanpadmasiri/csvb/vbsrc"
)

// ErrInvalidRenameTarget reports a collision or rename that cannot be fixed
// locally. It is logged and annotated, never returned to callers.
var ErrInvalidRenameTarget = errors.New("invalid rename target")

// Rename records one applied rename.
type Rename struct {
	Symbol  *semantic.Symbol
	OldName string
	NewName string
}

type declKind int

const (
	typeDecl declKind = iota
	fieldDecl
	methodDecl
	propertyDecl
	enumMemberDecl
)

var kindPrefixes = map[declKind]string{
	typeDecl:       "t",
	fieldDecl:      "f",
	methodDecl:     "m",
	propertyDecl:   "p",
	enumMemberDecl: "v",
}

var symbolPrefixes = map[semantic.SymbolKind]string{
	semantic.TypeSymbol:       "t",
	semantic.FieldSymbol:      "f",
	semantic.MethodSymbol:     "m",
	semantic.PropertySymbol:   "p",
	semantic.EventSymbol:      "e",
	semantic.EnumMemberSymbol: "v",
}

// entry is one declared name in a scope.
type entry struct {
	node   vbsrc.Node
	decl   *vbsrc.Name
	kind   declKind
	params []*vbsrc.Param
}

func (e *entry) prefix() string {
	if e.decl.Symbol != nil {
		if p, ok := symbolPrefixes[e.decl.Symbol.Kind]; ok {
			return p
		}
	}
	return kindPrefixes[e.kind]
}

func (e *entry) access() semantic.Accessibility {
	if e.decl.Symbol == nil {
		return semantic.NotApplicable
	}
	return e.decl.Symbol.Access
}

func foldName(text string) string {
	return strings.ToLower(strings.Trim(text, "[]"))
}

// signature is the case-insensitive parameter type list of a method.
func (e *entry) signature() string {
	parts := make([]string, len(e.params))
	for i, p := range e.params {
		parts[i] = strings.ToLower(string(p.Type))
	}
	return strings.Join(parts, ",")
}

// collectScopes gathers the declarations of every scope under members.
// Namespaces, types and enums each open a scope of their own. An enclosing
// scope comes before the scopes nested in it.
func collectScopes(members []vbsrc.Member, out [][]*entry) [][]*entry {
	var scope []*entry
	var nested [][]*entry
	for _, m := range members {
		switch m := m.(type) {
		case *vbsrc.NamespaceBlock:
			nested = collectScopes(m.Members, nested)
		case *vbsrc.TypeBlock:
			scope = append(scope, &entry{node: m, decl: m.Name, kind: typeDecl})
			nested = collectScopes(m.Members, nested)
		case *vbsrc.EnumBlock:
			scope = append(scope, &entry{node: m, decl: m.Name, kind: typeDecl})
			var values []*entry
			for _, v := range m.Members {
				values = append(values, &entry{node: v, decl: v.Name, kind: enumMemberDecl})
			}
			nested = append(nested, values)
		case *vbsrc.FieldDecl:
			for _, d := range m.Declarators {
				for _, n := range d.Names {
					scope = append(scope, &entry{node: m, decl: n, kind: fieldDecl})
				}
			}
		case *vbsrc.MethodBlock:
			if strings.EqualFold(m.Name.Text, "New") {
				continue
			}
			scope = append(scope, &entry{node: m, decl: m.Name, kind: methodDecl, params: m.Params})
		case *vbsrc.PropertyBlock:
			scope = append(scope, &entry{node: m, decl: m.Name, kind: propertyDecl, params: m.Params})
		}
	}
	out = append(out, scope)
	return append(out, nested...)
}

// Resolver plans and applies case-conflict renames for one unit.
type Resolver struct {
	Model semantic.Model
	// Renamer defaults to a UnitRenamer over the resolved unit.
	Renamer Renamer
	Log     *zap.Logger

	pending []*plannedRename
	planned map[*vbsrc.Name]*plannedRename
}

type plannedRename struct {
	decl    *vbsrc.Name
	newName string
}

// Resolve renames colliding declarations in unit with a UnitRenamer.
func Resolve(unit *vbsrc.CompilationUnit, model semantic.Model, log *zap.Logger) []Rename {
	r := &Resolver{Model: model, Log: log}
	return r.Resolve(unit)
}

// Resolve plans the renames for every scope of unit and applies them.
func (r *Resolver) Resolve(unit *vbsrc.CompilationUnit) []Rename {
	if r.Log == nil {
		r.Log = zap.NewNop()
	}
	if r.Renamer == nil {
		r.Renamer = &UnitRenamer{Unit: unit}
	}
	r.pending = nil
	r.planned = make(map[*vbsrc.Name]*plannedRename)
	for _, scope := range collectScopes(unit.Members, nil) {
		r.resolveScope(scope)
	}
	return r.apply()
}

func (r *Resolver) renameable(e *entry) bool {
	sym := e.decl.Symbol
	if sym == nil || r.Model == nil || !r.Model.IsDefinedInSource(sym) {
		return false
	}
	return sym.Kind != semantic.IndexerSymbol && !sym.Override
}

func (r *Resolver) resolveScope(scope []*entry) {
	used := make(map[string]bool)
	groups := make(map[string][]*entry)
	var order []string
	for _, e := range scope {
		key := foldName(e.decl.Text)
		used[key] = true
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], e)
	}
	for _, key := range order {
		if group := groups[key]; len(group) > 1 {
			r.resolveGroup(group, used)
		}
	}
}

// candidate is a set of entries that keep or lose a name together. All
// methods of a group form one candidate so overloads stay together.
type candidate struct {
	entries []*entry
}

func (c *candidate) access() semantic.Accessibility {
	best := semantic.NotApplicable
	for _, e := range c.entries {
		if a := e.access(); a > best {
			best = a
		}
	}
	return best
}

func (r *Resolver) fixed(c *candidate) bool {
	for _, e := range c.entries {
		if !r.renameable(e) {
			return true
		}
	}
	return false
}

func (r *Resolver) resolveGroup(group []*entry, used map[string]bool) {
	var candidates []*candidate
	var methods *candidate
	for _, e := range group {
		if e.kind != methodDecl {
			candidates = append(candidates, &candidate{entries: []*entry{e}})
			continue
		}
		if methods == nil {
			methods = &candidate{}
			candidates = append(candidates, methods)
		}
		methods.entries = append(methods.entries, e)
	}
	r.settle(candidates, used, nil)
	if methods != nil {
		r.resolveOverloads(methods.entries, used)
	}
}

// resolveOverloads handles methods whose whole signature collides ignoring
// case. Same-named methods with different signatures are overloads.
func (r *Resolver) resolveOverloads(methods []*entry, used map[string]bool) {
	clusters := make(map[string][]*entry)
	var order []string
	for _, m := range methods {
		key := foldName(r.currentName(m.decl)) + "(" + m.signature() + ")"
		if _, seen := clusters[key]; !seen {
			order = append(order, key)
		}
		clusters[key] = append(clusters[key], m)
	}
	for _, key := range order {
		cluster := clusters[key]
		if len(cluster) < 2 {
			continue
		}
		candidates := make([]*candidate, len(cluster))
		for i, m := range cluster {
			candidates[i] = &candidate{entries: []*entry{m}}
		}
		r.settle(candidates, used, make(map[string]bool))
	}
}

// settle keeps the name on one candidate and plans renames for the others.
// A candidate that cannot be renamed always keeps its name; otherwise the
// most accessible one does.
func (r *Resolver) settle(candidates []*candidate, used, cluster map[string]bool) {
	if len(candidates) < 2 {
		return
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].access() > candidates[j].access()
	})
	var fixed []*candidate
	for _, c := range candidates {
		if r.fixed(c) {
			fixed = append(fixed, c)
		}
	}
	keep := candidates[0]
	if len(fixed) > 0 {
		keep = fixed[0]
	}
	if len(fixed) > 1 {
		r.reportUnresolved(fixed)
	}
	for _, c := range candidates {
		if c == keep || r.fixed(c) {
			continue
		}
		first := c.entries[0]
		newName := freshName(first.prefix(), first.decl.Text, used, cluster)
		for _, e := range c.entries {
			r.plan(e.decl, newName)
		}
	}
}

func (r *Resolver) reportUnresolved(fixed []*candidate) {
	name := fixed[0].entries[0].decl.Text
	msg := fmt.Sprintf("%v: %d declarations named %q differ only by case and cannot be renamed", ErrInvalidRenameTarget, len(fixed), name)
	for _, c := range fixed {
		for _, e := range c.entries {
			e.node.Info().Annotations.Add(annotation.UnresolvedConflict, msg)
		}
	}
	r.Log.Warn("unresolved case conflict", zap.String("name", name), zap.Int("declarations", len(fixed)))
}

func (r *Resolver) currentName(decl *vbsrc.Name) string {
	if p, ok := r.planned[decl]; ok {
		return p.newName
	}
	return decl.Text
}

func (r *Resolver) plan(decl *vbsrc.Name, newName string) {
	if p, ok := r.planned[decl]; ok {
		p.newName = newName
		return
	}
	p := &plannedRename{decl: decl, newName: newName}
	r.planned[decl] = p
	r.pending = append(r.pending, p)
}

// apply runs the planned renames strictly in order. Each declaration is
// resolved again right before its rename.
func (r *Resolver) apply() []Rename {
	var done []Rename
	queue := r.pending
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		oldName := next.decl.Text
		sym, ok := r.Renamer.Resolve(next.decl)
		if !ok {
			r.Log.Warn("rename skipped", zap.String("name", oldName), zap.Error(ErrInvalidRenameTarget))
			continue
		}
		if err := r.Renamer.Rename(sym, next.newName); err != nil {
			r.Log.Warn("rename failed", zap.String("name", oldName), zap.Error(err))
			continue
		}
		r.Log.Debug("renamed", zap.String("from", oldName), zap.String("to", next.newName))
		done = append(done, Rename{Symbol: sym, OldName: oldName, NewName: next.newName})
	}
	r.pending = nil
	return done
}

// freshName builds `<prefix>_<Name>` and appends a counter until the name is
// free in the scope and the cluster.
func freshName(prefix, original string, used, cluster map[string]bool) string {
	base := prefix + "_" + capitalize(strings.Trim(original, "[]"))
	name := base
	for i := 1; used[foldName(name)] || cluster[foldName(name)]; i++ {
		name = base + strconv.Itoa(i)
	}
	used[foldName(name)] = true
	if cluster != nil {
		cluster[foldName(name)] = true
	}
	return name
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
