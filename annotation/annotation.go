// Package annotation stores out-of-band metadata on target nodes: conversion
// failures, original source spans and formatting markers. Annotations never
// take part in rendering identity.
package annotation

import (
	"fmt"
	"strings"
)

// Kind identifies an annotation.
type Kind int

const (
	// ConversionError carries the text of a recovered conversion failure.
	ConversionError Kind = iota
	// InternalError carries the text of a violated internal invariant.
	InternalError
	// SourceSpan carries the original line span as "start:col-end:col".
	SourceSpan
	// SingleLine marks a node whose source was confined to one line.
	SingleLine
	// Synthetic marks a node generated by the converter with no source counterpart.
	Synthetic
	// UnresolvedConflict carries the text of a case collision that could not be fixed.
	UnresolvedConflict
)

func (k Kind) String() string {
	switch k {
	case ConversionError:
		return "conversion-error"
	case InternalError:
		return "internal-error"
	case SourceSpan:
		return "source-span"
	case SingleLine:
		return "single-line"
	case Synthetic:
		return "synthetic"
	default:
		return "unresolved-conflict"
	}
}

// Annotation is one key/value entry.
type Annotation struct {
	Kind Kind
	Data string
}

// Set is the collection of annotations on one node. The zero value is empty
// and ready to use.
type Set struct {
	entries []Annotation
}

// Add appends an annotation.
func (s *Set) Add(kind Kind, data string) {
	s.entries = append(s.entries, Annotation{Kind: kind, Data: data})
}

// Mark adds a data-less marker once.
func (s *Set) Mark(kind Kind) {
	if !s.Has(kind) {
		s.Add(kind, "")
	}
}

// Has reports whether an annotation of the given kind is present.
func (s *Set) Has(kind Kind) bool {
	for _, a := range s.entries {
		if a.Kind == kind {
			return true
		}
	}
	return false
}

// Get returns the data of every annotation of the given kind in insertion order.
func (s *Set) Get(kind Kind) []string {
	var out []string
	for _, a := range s.entries {
		if a.Kind == kind {
			out = append(out, a.Data)
		}
	}
	return out
}

// All returns a copy of every annotation.
func (s *Set) All() []Annotation {
	return append([]Annotation(nil), s.entries...)
}

// Len returns the number of annotations.
func (s *Set) Len() int {
	return len(s.entries)
}

// Span is a decoded SourceSpan annotation.
type Span struct {
	StartLine, StartCol int
	EndLine, EndCol     int
}

// SetSpan replaces the SourceSpan annotation.
func (s *Set) SetSpan(span Span) {
	kept := s.entries[:0]
	for _, a := range s.entries {
		if a.Kind != SourceSpan {
			kept = append(kept, a)
		}
	}
	s.entries = kept
	s.Add(SourceSpan, fmt.Sprintf("%d:%d-%d:%d", span.StartLine, span.StartCol, span.EndLine, span.EndCol))
}

// GetSpan decodes the SourceSpan annotation.
func (s *Set) GetSpan() (Span, bool) {
	spans := s.Get(SourceSpan)
	if len(spans) == 0 {
		return Span{}, false
	}
	var span Span
	_, err := fmt.Sscanf(strings.TrimSpace(spans[0]), "%d:%d-%d:%d", &span.StartLine, &span.StartCol, &span.EndLine, &span.EndCol)
	if err != nil {
		return Span{}, false
	}
	return span, true
}
