package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var pagePrefixes = []string{"class", "struct"}

// Discover lists the class pages in a doxygen HTML directory whose file names
// match one of patterns. Entries are sorted by path.
func Discover(dir string, patterns []string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading docs dir: %w", err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		matched, err := matchAny(de.Name(), patterns)
		if err != nil {
			return nil, err
		}
		if !matched {
			continue
		}
		name, ok := ClassNameFromFile(de.Name())
		if !ok {
			continue
		}
		entries = append(entries, Entry{Name: name, Path: filepath.Join(dir, de.Name())})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

func matchAny(name string, patterns []string) (bool, error) {
	for _, p := range patterns {
		ok, err := filepath.Match(p, name)
		if err != nil {
			return false, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// ClassNameFromFile derives the unqualified class name from a doxygen page
// name, e.g. "classtd_1_1td__api_1_1user_status.html" -> "userStatus".
func ClassNameFromFile(file string) (string, bool) {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	if strings.HasSuffix(base, "-members") {
		return "", false
	}
	var stem string
	for _, prefix := range pagePrefixes {
		if s, ok := strings.CutPrefix(base, prefix); ok {
			stem = s
			break
		}
	}
	if stem == "" {
		return "", false
	}

	qualified := decodeDoxygenName(stem)
	if i := strings.LastIndex(qualified, "::"); i >= 0 {
		qualified = qualified[i+2:]
	}
	if qualified == "" {
		return "", false
	}
	return qualified, true
}

// decodeDoxygenName reverses doxygen's file name escaping: "_1" is ':', "__"
// is '_', and "_x" is the upper case letter X.
func decodeDoxygenName(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '_' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		n := s[i+1]
		switch {
		case n == '_':
			b.WriteByte('_')
			i++
		case n == '1':
			b.WriteByte(':')
			i++
		case n >= 'a' && n <= 'z':
			b.WriteByte(n - 'a' + 'A')
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
