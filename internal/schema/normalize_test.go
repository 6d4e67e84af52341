package schema

import (
	"errors"
	"testing"
)

func TestNormalizeType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"std::int32_t", "i32"},
		{"std::int64_t", "i64"},
		{"double", "f64"},
		{"bool", "bool"},
		{"std::string", "String"},
		{"std::vector< std::string >", "Vec<String>"},
		{"object_ptr< user >", "User"},
		{"object_ptr<derivedTrait>", "DerivedTrait"},
		{"std::vector< object_ptr< chatMember > >", "Vec<ChatMember>"},
		{"std::vector< std::vector< object_ptr< textEntity > > >", "Vec<Vec<TextEntity>>"},
		{"td_api::object_ptr< file >", "td_api::File"},
		{"", ""},
		{" \u00a0 ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeType(tt.in)
			if err != nil {
				t.Fatalf("NormalizeType(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeType(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeType_Malformed(t *testing.T) {
	t.Parallel()

	got, err := NormalizeType("std::vector< object_ptr< user > ")
	if !errors.Is(err, ErrMalformedType) {
		t.Fatalf("err = %v, want ErrMalformedType", err)
	}
	if got != "Vec<User" {
		t.Errorf("best effort spelling = %q, want %q", got, "Vec<User")
	}
}

func TestNormalizeFieldName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"length_", "length"},
		{"type_", "type_"},
		{"name", "name"},
		{"class__", "class"},
	}
	for _, tt := range tests {
		if got := NormalizeFieldName(tt.in); got != tt.want {
			t.Errorf("NormalizeFieldName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsSkipped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"JsonValue", true},
		{"jsonObjectMember", true},
		{"GetJsonString", true},
		{"getJsonValue", true},
		{"saveApplicationLogEvent", true},
		{"RealSubclass", false},
		{"userStatusOnline", false},
	}
	for _, tt := range tests {
		if got := IsSkipped(tt.in); got != tt.want {
			t.Errorf("IsSkipped(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
