package schema

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"
)

type fieldRow struct {
	left, right, desc string
	noDesc            bool
	onlyDesc          bool
}

type page struct {
	self        string
	description string
	parent      string
	inheritedBy []string
	fields      []fieldRow
	noFields    bool
}

// render produces a page shaped like doxygen's class reference output.
func (p page) render() string {
	var b strings.Builder
	b.WriteString("<html><body><div class=\"contents\">\n")
	if p.description != "" {
		fmt.Fprintf(&b, "<div class=\"textblock\">\n<p>%s</p>\n</div>\n", p.description)
	}
	if p.self != "" {
		b.WriteString("<div class=\"dynheader\">Inheritance diagram for ")
		fmt.Fprintf(&b, "<a class=\"el\" href=\"self.html\">%s</a>", p.self)
		if p.parent != "" {
			fmt.Fprintf(&b, " <a class=\"el\" href=\"parent.html\">%s</a>", p.parent)
		}
		b.WriteString("</div>\n")
	}
	if len(p.inheritedBy) > 0 {
		b.WriteString("<p>Inherited by ")
		for i, sub := range p.inheritedBy {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "<a class=\"el\" href=\"sub.html\">%s</a>", sub)
		}
		b.WriteString(".</p>\n")
	}
	if !p.noFields {
		b.WriteString("<table class=\"memberdecls\">\n")
		b.WriteString("<tr class=\"heading\"><td colspan=\"2\"><h2 class=\"groupheader\"><a name=\"pub-attribs\"></a>\nPublic Fields</h2></td></tr>\n")
		for i, f := range p.fields {
			if f.onlyDesc {
				fmt.Fprintf(&b, "<tr class=\"memdesc:a%d\"><td class=\"mdescLeft\">&#160;</td><td class=\"mdescRight\">%s <br /></td></tr>\n", i, f.desc)
				continue
			}
			fmt.Fprintf(&b, "<tr class=\"memitem:a%d\"><td class=\"memItemLeft\" align=\"right\" valign=\"top\">%s&#160;</td><td class=\"memItemRight\" valign=\"bottom\"><a class=\"el\" href=\"#a%d\">%s</a></td></tr>\n", i, f.left, i, f.right)
			if !f.noDesc {
				fmt.Fprintf(&b, "<tr class=\"memdesc:a%d\"><td class=\"mdescLeft\">&#160;</td><td class=\"mdescRight\">%s <br /></td></tr>\n", i, f.desc)
			}
			fmt.Fprintf(&b, "<tr class=\"separator:a%d\"><td class=\"memSeparator\" colspan=\"2\">&#160;</td></tr>\n", i)
		}
		b.WriteString("</table>\n")
	}
	b.WriteString("</div></body></html>\n")
	return b.String()
}

func writePages(t *testing.T, pages map[string]page) []Entry {
	t.Helper()
	dir := t.TempDir()
	names := make([]string, 0, len(pages))
	for name := range pages {
		names = append(names, name)
	}
	slices.Sort(names)

	entries := make([]Entry, 0, len(pages))
	for _, name := range names {
		path := filepath.Join(dir, name+".html")
		if err := os.WriteFile(path, []byte(pages[name].render()), 0644); err != nil {
			t.Fatal(err)
		}
		entries = append(entries, Entry{Name: name, Path: path})
	}
	return entries
}

func fixturePages() map[string]page {
	return map[string]page{
		"MessageContent": {
			self:        "MessageContent",
			parent:      "Object",
			description: "This class is an abstract base class. Contains the content of a message.",
			inheritedBy: []string{"messageText", "JsonValue", "GetJsonString", "messagePhoto"},
			noFields:    true,
		},
		"Message": {
			self:        "message",
			parent:      "Object",
			description: "Describes a message.",
			fields: []fieldRow{
				{left: "std::int64_t", right: "id_", desc: "Message identifier."},
				{left: "object_ptr&lt; <a class=\"el\">messageContent</a> &gt;", right: "content_", desc: "Content of the message."},
				{left: "std::vector&lt; object_ptr&lt; <a class=\"el\">messageContent</a> &gt; &gt;", right: "history_", desc: "Previous contents."},
				{left: "object_ptr&lt; <a class=\"el\">user</a> &gt;", right: "sender_", desc: "Message sender."},
				{left: "std::string", right: "type_", desc: "Says &amp;quot;hi&amp;quot;."},
			},
		},
		"User": {
			self:        "user",
			parent:      "Object",
			description: "Represents a user.",
			fields: []fieldRow{
				{left: "std::int32_t", right: "id_", desc: "User identifier."},
				{left: "std::string", right: "first_name_", desc: "First name."},
			},
		},
		"UserStatus": {
			self:        "UserStatus",
			parent:      "Object",
			description: "This class is a base class for user statuses.",
			inheritedBy: []string{"userStatusOnline"},
			fields:      []fieldRow{},
		},
		"Bare": {
			noFields: true,
		},
	}
}

func buildFixture(t *testing.T) *Schema {
	t.Helper()
	s, err := New(writePages(t, fixturePages()))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSchema_CaseInsensitiveLookup(t *testing.T) {
	t.Parallel()
	s := buildFixture(t)

	want, ok := s.Fields("UserStatus")
	if !ok {
		t.Fatal("expected fields for UserStatus")
	}
	for _, name := range []string{"userstatus", "USERSTATUS", "uSeRsTaTuS"} {
		got, ok := s.Fields(name)
		if !ok || !reflect.DeepEqual(got, want) {
			t.Errorf("Fields(%q) = %v, %v; want %v", name, got, ok, want)
		}
		if !s.IsTrait(name) {
			t.Errorf("IsTrait(%q) = false", name)
		}
	}
}

func TestSchema_Description(t *testing.T) {
	t.Parallel()
	s := buildFixture(t)

	desc, ok := s.Description("user")
	if !ok || desc != "Represents a user." {
		t.Errorf("Description(user) = %q, %v", desc, ok)
	}
	if _, ok := s.Description("Bare"); ok {
		t.Error("Bare should have no description")
	}
}

func TestSchema_IsTrait(t *testing.T) {
	t.Parallel()
	s := buildFixture(t)

	tests := []struct {
		name string
		want bool
	}{
		{"MessageContent", true},
		{"UserStatus", true},
		{"Message", false},
		{"Bare", false},
		{"Missing", false},
	}
	for _, tt := range tests {
		if got := s.IsTrait(tt.name); got != tt.want {
			t.Errorf("IsTrait(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSchema_ParentClass(t *testing.T) {
	t.Parallel()
	s := buildFixture(t)

	parent, ok := s.ParentClass("message")
	if !ok || parent != "Object" {
		t.Errorf("ParentClass(message) = %q, %v", parent, ok)
	}
	if _, ok := s.ParentClass("Bare"); ok {
		t.Error("Bare should have no parent")
	}
}

func TestSchema_Subclasses(t *testing.T) {
	t.Parallel()
	s := buildFixture(t)

	subs, ok := s.Subclasses("MessageContent")
	if !ok {
		t.Fatal("expected subclasses")
	}
	want := []string{"MessageText", "MessagePhoto"}
	if !slices.Equal(subs, want) {
		t.Errorf("Subclasses = %q, want %q", subs, want)
	}

	if _, ok := s.Subclasses("User"); ok {
		t.Error("User should have no inherited-by paragraph")
	}
}

func TestSchema_Fields(t *testing.T) {
	t.Parallel()
	s := buildFixture(t)

	fields, ok := s.Fields("Message")
	if !ok {
		t.Fatal("expected fields for Message")
	}
	want := []Field{
		{Name: "id", Type: "i64", Description: "Message identifier."},
		{Name: "content", Type: "Box<MessageContent>", Description: "Content of the message.", IsTrait: true},
		{Name: "history", Type: "Vec<Box<MessageContent>>", Description: "Previous contents.", IsTrait: true},
		{Name: "sender", Type: "User", Description: "Message sender."},
		{Name: "type_", Type: "String", Description: `Says "hi".`},
	}
	if !reflect.DeepEqual(fields, want) {
		t.Errorf("Fields(Message) =\n%+v\nwant\n%+v", fields, want)
	}
}

func TestSchema_FieldsAbsence(t *testing.T) {
	t.Parallel()
	s := buildFixture(t)

	if _, ok := s.Fields("MessageContent"); ok {
		t.Error("class without public fields block should report no fields")
	}
	fields, ok := s.Fields("UserStatus")
	if !ok || len(fields) != 0 {
		t.Errorf("empty block should give empty fields, got %v, %v", fields, ok)
	}
	if _, ok := s.Fields("Missing"); ok {
		t.Error("unknown class should report no fields")
	}
}

func TestSchema_OrphanDeclaration(t *testing.T) {
	t.Parallel()

	entries := writePages(t, map[string]page{
		"Chat": {
			self:   "chat",
			parent: "Object",
			fields: []fieldRow{
				{left: "std::int64_t", right: "id_", noDesc: true},
				{left: "std::string", right: "title_", desc: "Chat title."},
				{left: "bool", right: "is_pinned_", noDesc: true},
			},
		},
	})
	s, err := New(entries)
	if err != nil {
		t.Fatal(err)
	}

	fields, _ := s.Fields("chat")
	want := []Field{{Name: "title", Type: "String", Description: "Chat title."}}
	if !reflect.DeepEqual(fields, want) {
		t.Errorf("Fields = %+v, want %+v", fields, want)
	}

	diags := s.Diagnostics()
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %+v", diags)
	}
	for _, d := range diags {
		if d.Kind != OrphanDeclaration || d.Class != "Chat" {
			t.Errorf("unexpected diagnostic %+v", d)
		}
	}
}

func TestSchema_StrayAndMalformedRows(t *testing.T) {
	t.Parallel()

	entries := writePages(t, map[string]page{
		"Status": {
			self:        "status",
			description: "This class is a base class for chat states.",
			noFields:    true,
		},
		"Chat": {
			self:   "chat",
			parent: "Object",
			fields: []fieldRow{
				{left: "std::vector&lt; status", right: "history_", desc: "Old states."},
				{onlyDesc: true, desc: "Left over."},
			},
		},
	})
	s, err := New(entries)
	if err != nil {
		t.Fatal(err)
	}

	fields, _ := s.Fields("chat")
	want := []Field{{Name: "history", Type: "Vec<Box<status>", Description: "Old states.", IsTrait: true}}
	if !reflect.DeepEqual(fields, want) {
		t.Errorf("Fields = %+v, want %+v", fields, want)
	}

	var kinds []DiagnosticKind
	for _, d := range s.Diagnostics() {
		kinds = append(kinds, d.Kind)
	}
	wantKinds := []DiagnosticKind{MalformedTypeSpelling, StrayDescription}
	if !slices.Equal(kinds, wantKinds) {
		t.Errorf("diagnostic kinds = %v, want %v", kinds, wantKinds)
	}
}

func TestSchema_BlankTypeCell(t *testing.T) {
	t.Parallel()

	entries := writePages(t, map[string]page{
		"Chat": {
			self: "chat",
			fields: []fieldRow{
				{left: "", right: "id_", desc: "Chat identifier."},
			},
		},
	})
	s, err := New(entries)
	if err != nil {
		t.Fatal(err)
	}

	fields, _ := s.Fields("chat")
	want := []Field{{Name: "id", Type: "", Description: "Chat identifier."}}
	if !reflect.DeepEqual(fields, want) {
		t.Errorf("Fields = %+v, want %+v", fields, want)
	}
	if diags := s.Diagnostics(); len(diags) != 0 {
		t.Errorf("expected no diagnostics for a blank type cell, got %+v", diags)
	}
}

func TestSchema_KnownClassNames(t *testing.T) {
	t.Parallel()

	pages := fixturePages()
	pages["JsonValue"] = page{noFields: true}
	s, err := New(writePages(t, pages))
	if err != nil {
		t.Fatal(err)
	}

	names := s.KnownClassNames()
	if slices.Contains(names, "JsonValue") {
		t.Errorf("skip-listed name present: %q", names)
	}
	if !slices.Contains(names, "Message") || len(names) != 5 {
		t.Errorf("KnownClassNames = %q", names)
	}
	if !s.Exists("jsonvalue") {
		t.Error("skip-listed names are still part of the class set")
	}
}

func TestSchema_Class(t *testing.T) {
	t.Parallel()
	s := buildFixture(t)

	info, err := s.Class("usERstatus")
	if err != nil {
		t.Fatal(err)
	}
	if info.Name != "UserStatus" || !info.Trait || info.Parent == nil || *info.Parent != "Object" {
		t.Errorf("unexpected info %+v", info)
	}

	bare, err := s.Class("Bare")
	if err != nil {
		t.Fatal(err)
	}
	if bare.Description != nil || bare.Parent != nil || bare.Subclasses != nil || bare.Fields != nil {
		t.Errorf("Bare should be known but empty, got %+v", bare)
	}

	if _, err := s.Class("Missing"); !errors.Is(err, ErrUnknownClass) {
		t.Errorf("err = %v, want ErrUnknownClass", err)
	}
}

func TestSchema_Idempotent(t *testing.T) {
	t.Parallel()

	entries := writePages(t, fixturePages())
	a, err := New(entries)
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(entries)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Snapshot(), b.Snapshot()) {
		t.Error("two builds from identical input differ")
	}
}

func TestFromSnapshot(t *testing.T) {
	t.Parallel()
	s := buildFixture(t)

	restored := FromSnapshot(s.Snapshot())
	for _, name := range append(s.KnownClassNames(), "Missing") {
		want, wantErr := s.Class(name)
		got, gotErr := restored.Class(name)
		if !reflect.DeepEqual(got, want) || (wantErr == nil) != (gotErr == nil) {
			t.Errorf("Class(%q) differs after restore:\n%+v\n%+v", name, got, want)
		}
	}
	if !slices.Equal(restored.KnownClassNames(), s.KnownClassNames()) {
		t.Error("known names differ after restore")
	}
}

func TestNew_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := New([]Entry{{Name: "Ghost", Path: filepath.Join(t.TempDir(), "ghost.html")}})
	if err == nil {
		t.Fatal("expected error for unreadable page")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want wrapped ErrNotExist", err)
	}
}
