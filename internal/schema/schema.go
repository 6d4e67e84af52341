// Package schema reconstructs API type metadata from doxygen HTML pages:
// which classes exist, which are abstract base classes, how they inherit from
// each other, and which fields they expose with binding-ready types.
package schema

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownClass is returned by Class for names outside the class set.
var ErrUnknownClass = errors.New("unknown class")

// Entry names one documented class and the page that documents it.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Schema is the resolved, read-only metadata for a class set. It is safe for
// concurrent use since nothing mutates it after construction.
type Schema struct {
	entries     []Entry
	byKey       map[string]Entry
	attrs       Attributes
	fields      map[string][]Field
	diagnostics []Diagnostic
}

// New loads every page in entries and resolves the schema. Passes run in a
// fixed order and fields come last, since boxing needs every trait flag. An
// unreadable page aborts construction.
func New(entries []Entry) (*Schema, error) {
	docs := newDocuments()
	for _, e := range entries {
		if err := docs.Load(e.Name, e.Path); err != nil {
			return nil, fmt.Errorf("loading class %s: %w", e.Name, err)
		}
	}

	attrs := resolveAttributes(entries, docs)
	fields, diags := extractFields(entries, docs, attrs)

	return &Schema{
		entries:     slices.Clone(entries),
		byKey:       indexEntries(entries),
		attrs:       attrs,
		fields:      fields,
		diagnostics: diags,
	}, nil
}

func indexEntries(entries []Entry) map[string]Entry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[key(e.Name)] = e
	}
	return m
}

// Exists reports whether name is in the class set.
func (s *Schema) Exists(name string) bool {
	_, ok := s.byKey[key(name)]
	return ok
}

// Description returns the brief description of a class.
func (s *Schema) Description(name string) (string, bool) {
	if !s.Exists(name) {
		return "", false
	}
	desc, ok := s.attrs.descriptions[key(name)]
	return desc, ok
}

// IsTrait reports whether name is documented as an abstract base class.
func (s *Schema) IsTrait(name string) bool {
	return s.attrs.IsTrait(name)
}

// ParentClass returns the immediate superclass, spelled as documented.
func (s *Schema) ParentClass(name string) (string, bool) {
	if !s.Exists(name) {
		return "", false
	}
	parent, ok := s.attrs.parents[key(name)]
	return parent, ok
}

// Subclasses returns the direct subclasses, capitalized, without generator
// artifacts.
func (s *Schema) Subclasses(name string) ([]string, bool) {
	if !s.Exists(name) {
		return nil, false
	}
	subs, ok := s.attrs.subclasses[key(name)]
	return slices.Clone(subs), ok
}

// Fields returns the public fields of a class in table order.
func (s *Schema) Fields(name string) ([]Field, bool) {
	if !s.Exists(name) {
		return nil, false
	}
	fields, ok := s.fields[key(name)]
	return slices.Clone(fields), ok
}

// KnownClassNames lists the class set in input order, skipping generator
// artifacts.
func (s *Schema) KnownClassNames() []string {
	var names []string
	for _, e := range s.entries {
		if IsSkipped(e.Name) {
			continue
		}
		names = append(names, e.Name)
	}
	return names
}

// Diagnostics returns the member table irregularities found while building.
func (s *Schema) Diagnostics() []Diagnostic {
	return slices.Clone(s.diagnostics)
}

// ClassInfo gathers everything known about one class. Nil pointers and nil
// slices mean the page had no such information.
type ClassInfo struct {
	Name        string   `json:"name"`
	Path        string   `json:"path"`
	Description *string  `json:"description"`
	Trait       bool     `json:"trait"`
	Parent      *string  `json:"parent"`
	Subclasses  []string `json:"subclasses"`
	Fields      []Field  `json:"fields"`
}

// Class returns the aggregated metadata of a class, or ErrUnknownClass.
// Unlike the single accessors it tells a missing class from an empty one.
func (s *Schema) Class(name string) (ClassInfo, error) {
	e, ok := s.byKey[key(name)]
	if !ok {
		return ClassInfo{}, fmt.Errorf("%w: %s", ErrUnknownClass, name)
	}

	info := ClassInfo{
		Name:  e.Name,
		Path:  e.Path,
		Trait: s.IsTrait(name),
	}
	if desc, ok := s.Description(name); ok {
		info.Description = &desc
	}
	if parent, ok := s.ParentClass(name); ok {
		info.Parent = &parent
	}
	if subs, ok := s.Subclasses(name); ok {
		info.Subclasses = subs
	}
	if fields, ok := s.Fields(name); ok {
		info.Fields = fields
	}
	return info, nil
}
