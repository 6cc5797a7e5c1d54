package convert

import (
	"strings"

	"github.com/heshanpadmasiri/csvb/vbsrc"
)

// ImportAccumulator collects import directives for one unit, deduplicating
// case-insensitively in first-seen order.
type ImportAccumulator struct {
	ambient []string
	entries []*vbsrc.Import
}

// NewImportAccumulator creates an accumulator that prunes the given ambient imports.
func NewImportAccumulator(ambient []string) *ImportAccumulator {
	return &ImportAccumulator{ambient: ambient}
}

// Add records a directive. An unaliased directive for a path that already has
// an alias is dropped, and an alias for a path recorded without one is kept
// on the existing entry.
func (a *ImportAccumulator) Add(path, alias string) {
	if path == "" {
		return
	}
	for _, existing := range a.entries {
		if !strings.EqualFold(existing.Path, path) {
			continue
		}
		if alias == "" || strings.EqualFold(existing.Alias, alias) {
			return
		}
		if existing.Alias == "" {
			existing.Alias = alias
			return
		}
	}
	a.entries = append(a.entries, &vbsrc.Import{Path: path, Alias: alias})
}

func (a *ImportAccumulator) isAmbient(path string) bool {
	for _, amb := range a.ambient {
		if strings.EqualFold(amb, path) {
			return true
		}
	}
	return false
}

// Imports returns the directives to emit. Unaliased ambient imports are pruned.
func (a *ImportAccumulator) Imports() []*vbsrc.Import {
	var out []*vbsrc.Import
	for _, imp := range a.entries {
		if imp.Alias == "" && a.isAmbient(imp.Path) {
			continue
		}
		out = append(out, imp)
	}
	return out
}
