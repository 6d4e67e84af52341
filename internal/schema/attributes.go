package schema

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	selectorDescription = ".textblock"
	selectorInheritLink = ".el"
	selectorContentsP   = ".contents p"
)

var traitPhrases = []string{
	"this class is a base class",
	"this class is an abstract base class",
}

// Attributes is the completed result of the per-class passes. Every class is
// resolved from its own page only, so the value is closed once built and can
// be consulted by later passes that cross-reference other classes.
type Attributes struct {
	known        map[string]struct{}
	descriptions map[string]string
	traits       map[string]bool
	parents      map[string]string
	subclasses   map[string][]string
}

// IsTrait reports whether name is a known class documented as a base class.
func (a Attributes) IsTrait(name string) bool {
	if _, ok := a.known[key(name)]; !ok {
		return false
	}
	return a.traits[key(name)]
}

// resolveAttributes runs the description, trait, parent and subclass passes
// in that order. Each pass completes for every class before the next starts.
func resolveAttributes(entries []Entry, docs *Documents) Attributes {
	a := Attributes{
		known:        make(map[string]struct{}, len(entries)),
		descriptions: make(map[string]string),
		traits:       make(map[string]bool),
		parents:      make(map[string]string),
		subclasses:   make(map[string][]string),
	}
	for _, e := range entries {
		a.known[key(e.Name)] = struct{}{}
	}

	for _, e := range entries {
		doc, ok := docs.Lookup(e.Name)
		if !ok {
			continue
		}
		if desc, ok := extractDescription(doc); ok {
			slog.Debug("found description", "class", e.Name, "description", desc)
			a.descriptions[key(e.Name)] = desc
		}
	}

	for _, e := range entries {
		desc, ok := a.descriptions[key(e.Name)]
		isTrait := ok && classifyTrait(desc)
		slog.Debug("classified class", "class", e.Name, "trait", isTrait)
		a.traits[key(e.Name)] = isTrait
	}

	for _, e := range entries {
		doc, ok := docs.Lookup(e.Name)
		if !ok {
			continue
		}
		if parent, ok := extractParent(doc); ok {
			slog.Debug("found parent class", "class", e.Name, "parent", parent)
			a.parents[key(e.Name)] = parent
		}
	}

	for _, e := range entries {
		doc, ok := docs.Lookup(e.Name)
		if !ok {
			continue
		}
		if subs, ok := extractSubclasses(doc); ok {
			slog.Debug("found subclasses", "class", e.Name, "subclasses", subs)
			a.subclasses[key(e.Name)] = subs
		}
	}

	return a
}

func extractDescription(doc *goquery.Document) (string, bool) {
	return firstText(doc.Find(selectorDescription).First())
}

func classifyTrait(desc string) bool {
	lower := strings.ToLower(desc)
	for _, phrase := range traitPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// extractParent takes the second inheritance link; the first one is the
// class linking to itself.
func extractParent(doc *goquery.Document) (string, bool) {
	return firstText(doc.Find(selectorInheritLink).Eq(1))
}

func extractSubclasses(doc *goquery.Document) ([]string, bool) {
	para := doc.Find(selectorContentsP).FilterFunction(func(_ int, p *goquery.Selection) bool {
		return strings.HasPrefix(strings.ToLower(fullText(p)), "inherited by")
	}).First()
	if para.Length() == 0 {
		return nil, false
	}

	subs := []string{}
	para.Find(selectorInheritLink).Each(func(_ int, link *goquery.Selection) {
		name := fullText(link)
		if IsSkipped(name) {
			return
		}
		subs = append(subs, capitalize(name))
	})
	return subs, true
}
