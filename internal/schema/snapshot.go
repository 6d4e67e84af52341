package schema

import "slices"

// Snapshot is the serializable form of a Schema.
type Snapshot struct {
	Entries     []Entry      `json:"entries"`
	Classes     []ClassInfo  `json:"classes"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Snapshot captures the resolved schema. Classes appear once per
// case-insensitive name, in input order.
func (s *Schema) Snapshot() *Snapshot {
	snap := &Snapshot{
		Entries:     slices.Clone(s.entries),
		Diagnostics: s.Diagnostics(),
	}
	seen := make(map[string]bool, len(s.entries))
	for _, e := range s.entries {
		if seen[key(e.Name)] {
			continue
		}
		seen[key(e.Name)] = true
		info, err := s.Class(e.Name)
		if err != nil {
			continue
		}
		snap.Classes = append(snap.Classes, info)
	}
	return snap
}

// FromSnapshot rebuilds a Schema without touching any page.
func FromSnapshot(snap *Snapshot) *Schema {
	s := &Schema{
		entries:     slices.Clone(snap.Entries),
		byKey:       indexEntries(snap.Entries),
		fields:      make(map[string][]Field),
		diagnostics: slices.Clone(snap.Diagnostics),
		attrs: Attributes{
			known:        make(map[string]struct{}, len(snap.Entries)),
			descriptions: make(map[string]string),
			traits:       make(map[string]bool),
			parents:      make(map[string]string),
			subclasses:   make(map[string][]string),
		},
	}
	for _, e := range snap.Entries {
		s.attrs.known[key(e.Name)] = struct{}{}
	}
	for _, c := range snap.Classes {
		k := key(c.Name)
		s.attrs.traits[k] = c.Trait
		if c.Description != nil {
			s.attrs.descriptions[k] = *c.Description
		}
		if c.Parent != nil {
			s.attrs.parents[k] = *c.Parent
		}
		if c.Subclasses != nil {
			s.attrs.subclasses[k] = c.Subclasses
		}
		if c.Fields != nil {
			s.fields[k] = c.Fields
		}
	}
	return s
}
