package schema

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Documents holds one parsed doxygen page per class, keyed case-insensitively.
type Documents struct {
	docs map[string]*goquery.Document
}

func newDocuments() *Documents {
	return &Documents{docs: make(map[string]*goquery.Document)}
}

// Load reads and parses the page at path and stores it under name.
func (d *Documents) Load(name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	d.docs[key(name)] = doc
	slog.Info("cached document", "class", name, "path", path)
	return nil
}

// Lookup returns the page cached for name. Unknown names and names without a
// page are indistinguishable.
func (d *Documents) Lookup(name string) (*goquery.Document, bool) {
	doc, ok := d.docs[key(name)]
	return doc, ok
}

// cleanText trims s and undoes a leftover &quot; escape.
func cleanText(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "&quot;", `"`)
}

// firstText returns the first non-blank text node below the first element of
// sel.
func firstText(sel *goquery.Selection) (string, bool) {
	if sel.Length() == 0 {
		return "", false
	}
	var found string
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
			found = n.Data
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	if !walk(sel.Nodes[0]) {
		return "", false
	}
	return cleanText(found), true
}

// fullText concatenates the text of every element in sel.
func fullText(sel *goquery.Selection) string {
	return cleanText(sel.Text())
}
