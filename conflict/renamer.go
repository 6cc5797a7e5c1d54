package conflict

import (
	"github.com/heshanpadmasiri/csvb/semantic"
	"github.com/heshanpadmasiri/csvb/vbsrc"
)

// Renamer is the rename facility the resolver drives. Every rename must be
// visible to Resolve before the next one is computed.
type Renamer interface {
	// Resolve returns the symbol a declaration name is bound to in the
	// current state of the tree.
	Resolve(decl *vbsrc.Name) (*semantic.Symbol, bool)
	// Rename rewrites every name bound to sym.
	Rename(sym *semantic.Symbol, newName string) error
}

// UnitRenamer renames within a single converted unit by matching the symbol
// each Name is bound to.
type UnitRenamer struct {
	Unit *vbsrc.CompilationUnit
}

var _ Renamer = (*UnitRenamer)(nil)

func (r *UnitRenamer) Resolve(decl *vbsrc.Name) (*semantic.Symbol, bool) {
	found := false
	vbsrc.WalkNames(r.Unit, func(n *vbsrc.Name) {
		if n == decl {
			found = true
		}
	})
	if !found || decl.Symbol == nil {
		return nil, false
	}
	return decl.Symbol, true
}

// Rename also rewrites the type references of a renamed type. It refuses
// when the old spelling is written for more than one type, since those
// references cannot be told apart any more.
func (r *UnitRenamer) Rename(sym *semantic.Symbol, newName string) error {
	if sym == nil {
		return ErrInvalidRenameTarget
	}
	old := sym.Name
	isType := sym.Kind == semantic.TypeSymbol
	if isType {
		if bound, seen := r.Unit.TypeNames[old]; seen && bound != sym {
			return ErrInvalidRenameTarget
		}
	}
	count := 0
	vbsrc.WalkNames(r.Unit, func(n *vbsrc.Name) {
		if n.Symbol == sym {
			n.Text = newName
			count++
		}
	})
	if count == 0 {
		return ErrInvalidRenameTarget
	}
	if isType && old != newName {
		vbsrc.WalkTypes(r.Unit, func(t *vbsrc.Type) {
			*t = t.RenameIdentifier(old, newName)
		})
		if _, seen := r.Unit.TypeNames[old]; seen {
			delete(r.Unit.TypeNames, old)
			r.Unit.TypeNames[newName] = sym
		}
	}
	sym.Name = newName
	return nil
}
