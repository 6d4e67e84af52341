package schema

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClassNameFromFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		file string
		want string
		ok   bool
	}{
		{"classtd_1_1td__api_1_1user_status.html", "userStatus", true},
		{"classtd_1_1td__api_1_1_message_content.html", "MessageContent", true},
		{"structtd_1_1td__api_1_1object__ptr.html", "object_ptr", true},
		{"classtd_1_1td__api_1_1json_value.html", "jsonValue", true},
		{"namespacetd.html", "", false},
		{"class.html", "", false},
		{"classtd_1_1td__api_1_1user-members.html", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, ok := ClassNameFromFile(tt.file)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ClassNameFromFile(%q) = (%q, %v), want (%q, %v)", tt.file, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{
		"classtd_1_1td__api_1_1user.html",
		"classtd_1_1td__api_1_1chat.html",
		"classtd_1_1td__api_1_1user-members.html",
		"namespacetd.html",
		"index.html",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("<html></html>"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "classdir.html"), 0755); err != nil {
		t.Fatal(err)
	}

	entries, err := Discover(dir, []string{"class*.html"})
	if err != nil {
		t.Fatal(err)
	}

	want := []Entry{
		{Name: "chat", Path: filepath.Join(dir, "classtd_1_1td__api_1_1chat.html")},
		{Name: "user", Path: filepath.Join(dir, "classtd_1_1td__api_1_1user.html")},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries: %+v", len(entries), entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestDiscover_BadPattern(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "classx.html"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Discover(dir, []string{"[class"}); err == nil {
		t.Error("expected error for malformed pattern")
	}
}
