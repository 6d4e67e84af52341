package schema

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// pointerWrapper is the doxygen spelling of td's owning pointer template.
const pointerWrapper = "object_ptr"

// reservedFieldName is escaped in the C++ headers and kept verbatim because
// the generated bindings use the same escape.
const reservedFieldName = "type_"

var primitiveReplacer = strings.NewReplacer(
	"std::int32_t", "i32",
	"std::int64_t", "i64",
	"std::string", "String",
	"std::vector", "Vec",
	"double", "f64",
)

// flatPointerRe is only used for spellings the parser rejects.
var flatPointerRe = regexp.MustCompile(pointerWrapper + `\s*<\s*([^<>]*?)\s*>`)

// NormalizeType rewrites a C++ field type into its binding spelling:
// primitives are renamed, object_ptr<name> collapses to Name, and all
// whitespace is removed. A malformed spelling is still rewritten on a best
// effort basis and reported through the returned error. A blank cell yields
// an empty type and no error.
func NormalizeType(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	s := primitiveReplacer.Replace(raw)

	expr, err := ParseType(s)
	if err != nil {
		s = flatPointerRe.ReplaceAllStringFunc(s, func(m string) string {
			return capitalize(flatPointerRe.FindStringSubmatch(m)[1])
		})
		return stripSpace(s), err
	}
	return stripSpace(unwrapPointers(expr).String()), nil
}

func unwrapPointers(t *TypeExpr) *TypeExpr {
	if !t.IsGeneric() {
		return t
	}
	if strings.HasSuffix(t.Name, pointerWrapper) && len(t.Args) == 1 {
		inner := unwrapPointers(t.Args[0])
		prefix := strings.TrimSuffix(t.Name, pointerWrapper)
		return &TypeExpr{Name: prefix + capitalize(inner.Name), Args: inner.Args}
	}
	args := make([]*TypeExpr, len(t.Args))
	for i, a := range t.Args {
		args[i] = unwrapPointers(a)
	}
	return &TypeExpr{Name: t.Name, Args: args}
}

// NormalizeFieldName strips the keyword-escaping trailing underscore from a
// field name. "type_" is the one name left untouched.
func NormalizeFieldName(name string) string {
	if name == reservedFieldName {
		return name
	}
	return strings.TrimRight(name, "_")
}

// IsSkipped reports whether a documented name is a generator artifact such as
// a JSON helper rather than a real API type.
func IsSkipped(name string) bool {
	name = strings.ToLower(name)
	if strings.HasPrefix(name, "json") {
		return true
	}
	return strings.Contains(name, "getjsonstring") ||
		strings.Contains(name, "saveapplicationlogevent") ||
		strings.Contains(name, "getjsonvalue")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func key(name string) string {
	return strings.ToLower(name)
}
