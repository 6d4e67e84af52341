package markdown

import (
	"fmt"
	"strings"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/html"
	gmparser "github.com/gomarkdown/markdown/parser"
	"github.com/jcdickinson/doxyschema/internal/schema"
)

// URIPrefix starts every cross-class link in rendered Markdown.
const URIPrefix = "doxy://class/"

// ClassURI returns the link target used for a class.
func ClassURI(name string) string {
	return URIPrefix + name
}

// Anchor returns the heading ID of a class in a full reference.
func Anchor(name string) string {
	return strings.ToLower(name)
}

// RenderClass writes the Markdown reference for one class. References to
// other known classes link to their doxy:// URI.
func RenderClass(s *schema.Schema, name string) (string, error) {
	info, err := s.Class(name)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s {#%s}\n\n", info.Name, Anchor(info.Name))

	if info.Description != nil {
		fmt.Fprintf(&b, "%s\n\n", *info.Description)
	}
	if info.Trait {
		b.WriteString("*Abstract base class.*\n\n")
	}
	if info.Parent != nil {
		fmt.Fprintf(&b, "Inherits from %s.\n\n", classRef(s, *info.Parent))
	}
	if len(info.Subclasses) > 0 {
		refs := make([]string, len(info.Subclasses))
		for i, sub := range info.Subclasses {
			refs[i] = classRef(s, sub)
		}
		fmt.Fprintf(&b, "Subclasses: %s.\n\n", strings.Join(refs, ", "))
	}

	if len(info.Fields) > 0 {
		b.WriteString("| Field | Type | Description |\n")
		b.WriteString("|---|---|---|\n")
		for _, f := range info.Fields {
			fmt.Fprintf(&b, "| `%s` | `%s` | %s |\n", f.Name, f.Type, cell(f.Description))
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

// RenderAll writes the reference for every known class, in class set order.
func RenderAll(s *schema.Schema, title string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	for _, name := range s.KnownClassNames() {
		section, err := RenderClass(s, name)
		if err != nil {
			continue
		}
		b.WriteString(section)
	}
	return b.String()
}

func classRef(s *schema.Schema, name string) string {
	if !s.Exists(name) {
		return name
	}
	return fmt.Sprintf("[%s](%s)", name, ClassURI(name))
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

// LocalizeLinks points every doxy:// link at the matching heading anchor, so
// a full reference can be read as one standalone page. It parses the Markdown
// to find link destinations and then replaces them textually, preserving the
// original formatting.
func LocalizeLinks(src string) string {
	doc := gm.Parse([]byte(src), gmparser.NewWithExtensions(gmparser.CommonExtensions))

	seen := make(map[string]bool)
	var dests []string
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		if link, ok := node.(*ast.Link); ok {
			dest := string(link.Destination)
			if strings.HasPrefix(dest, URIPrefix) && !seen[dest] {
				seen[dest] = true
				dests = append(dests, dest)
			}
		}
		return ast.GoToNext
	})

	result := src
	for _, dest := range dests {
		anchor := "#" + Anchor(strings.TrimPrefix(dest, URIPrefix))
		result = strings.ReplaceAll(result, "]("+dest+")", "]("+anchor+")")
	}
	return result
}

// ToHTML renders Markdown to an HTML fragment, optionally preceded by a table
// of contents built from the headings.
func ToHTML(src string, toc bool) []byte {
	p := gmparser.NewWithExtensions(gmparser.CommonExtensions | gmparser.HeadingIDs)
	flags := html.CommonFlags
	if toc {
		flags |= html.TOC
	}
	r := html.NewRenderer(html.RendererOptions{Flags: flags})
	return gm.ToHTML([]byte(src), p, r)
}
