package schema

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	selectorMemberDecls = ".memberdecls"
	selectorHeading     = ".heading"
	selectorItemLeft    = ".memItemLeft"
	selectorItemRight   = ".memItemRight"
	selectorDescRight   = ".mdescRight"
)

// Field is one public data member of a class.
type Field struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	IsTrait     bool   `json:"is_trait"`
}

// DiagnosticKind classifies a problem found while reading member tables.
type DiagnosticKind string

const (
	// OrphanDeclaration is a field row with no description row after it.
	OrphanDeclaration DiagnosticKind = "orphan_declaration"
	// StrayDescription is a description row with no field row before it.
	StrayDescription DiagnosticKind = "stray_description"
	// MalformedTypeSpelling is a field type with unbalanced brackets.
	MalformedTypeSpelling DiagnosticKind = "malformed_type"
)

// Diagnostic records a member table irregularity. Affected rows are not
// emitted as fields, except for malformed types which are kept as spelled.
type Diagnostic struct {
	Class  string         `json:"class"`
	Kind   DiagnosticKind `json:"kind"`
	Detail string         `json:"detail"`
}

type rowState int

const (
	stateIdle rowState = iota
	stateAwaitingDescription
)

// memberTable pairs declaration rows with the description row that must
// immediately follow them.
type memberTable struct {
	class   string
	traits  TraitLookup
	state   rowState
	pending Field
	fields  []Field
	diags   []Diagnostic
}

func (m *memberTable) declare(name, rawType string) {
	if m.state == stateAwaitingDescription {
		m.report(OrphanDeclaration, fmt.Sprintf("field %q has no description row", m.pending.Name))
	}

	normalized, err := NormalizeType(rawType)
	if err != nil {
		m.report(MalformedTypeSpelling, err.Error())
	}
	typ, isTrait := ResolveFieldType(normalized, m.traits)

	m.pending = Field{
		Name:    NormalizeFieldName(name),
		Type:    typ,
		IsTrait: isTrait,
	}
	m.state = stateAwaitingDescription
}

func (m *memberTable) describe(desc string) {
	if m.state != stateAwaitingDescription {
		m.report(StrayDescription, fmt.Sprintf("description %q has no field row", desc))
		return
	}
	field := m.pending
	field.Description = desc
	slog.Debug("found field", "class", m.class, "name", field.Name, "type", field.Type, "trait", field.IsTrait)
	m.fields = append(m.fields, field)
	m.pending = Field{}
	m.state = stateIdle
}

func (m *memberTable) finish() {
	if m.state == stateAwaitingDescription {
		m.report(OrphanDeclaration, fmt.Sprintf("field %q has no description row", m.pending.Name))
		m.state = stateIdle
	}
}

func (m *memberTable) report(kind DiagnosticKind, detail string) {
	slog.Warn("member table irregularity", "class", m.class, "kind", kind, "detail", detail)
	m.diags = append(m.diags, Diagnostic{Class: m.class, Kind: kind, Detail: detail})
}

// extractFields runs the fields pass. It needs the completed attribute set
// because boxing depends on the trait flags of other classes.
func extractFields(entries []Entry, docs *Documents, attrs Attributes) (map[string][]Field, []Diagnostic) {
	fields := make(map[string][]Field)
	var diags []Diagnostic
	for _, e := range entries {
		doc, ok := docs.Lookup(e.Name)
		if !ok {
			continue
		}
		fs, ds, ok := extractClassFields(e.Name, doc, attrs)
		diags = append(diags, ds...)
		if !ok {
			continue
		}
		slog.Debug("extracted fields", "class", e.Name, "count", len(fs))
		fields[key(e.Name)] = fs
	}
	return fields, diags
}

func extractClassFields(class string, doc *goquery.Document, traits TraitLookup) ([]Field, []Diagnostic, bool) {
	block := publicFields(doc)
	if block.Length() == 0 {
		return nil, nil, false
	}

	m := &memberTable{class: class, traits: traits, fields: []Field{}}
	block.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		css, ok := tr.Attr("class")
		if !ok {
			return
		}
		switch {
		case css == "heading":
		case strings.HasPrefix(css, "memitem"):
			m.declare(fullText(tr.Find(selectorItemRight)), fullText(tr.Find(selectorItemLeft)))
		case strings.HasPrefix(css, "memdesc"):
			m.describe(fullText(tr.Find(selectorDescRight)))
		}
	})
	m.finish()
	return m.fields, m.diags, true
}

func publicFields(doc *goquery.Document) *goquery.Selection {
	return doc.Find(selectorMemberDecls).FilterFunction(func(_ int, decls *goquery.Selection) bool {
		heading, ok := firstText(decls.Find(selectorHeading).First())
		return ok && strings.Contains(strings.ToLower(heading), "public fields")
	}).First()
}
