package schema

import "strings"

// containerKeyword is the binding spelling of std::vector; it is never
// considered when deciding whether a generic type needs boxing.
const containerKeyword = "vec"

// TraitLookup answers whether a class name denotes an abstract base class.
type TraitLookup interface {
	IsTrait(name string) bool
}

// ResolveFieldType decides whether a normalized field type refers to a trait
// class and, if so, wraps each offending name in Box<...>. The outer generic
// structure is left as it is.
func ResolveFieldType(normalized string, traits TraitLookup) (string, bool) {
	if !strings.Contains(normalized, openToken) {
		if traits.IsTrait(normalized) {
			return boxed(normalized), true
		}
		return normalized, false
	}

	expr, err := ParseType(normalized)
	if err != nil {
		return resolveFlat(Tokenize(normalized), traits)
	}

	isTrait := false
	expr.Leaves(func(leaf *TypeExpr) {
		if strings.EqualFold(leaf.Name, containerKeyword) || !traits.IsTrait(leaf.Name) {
			return
		}
		isTrait = true
		leaf.Args = []*TypeExpr{{Name: leaf.Name}}
		leaf.Name = "Box"
	})
	return expr.String(), isTrait
}

// resolveFlat boxes trait names token by token, for spellings that do not
// parse as a single type.
func resolveFlat(tokens []string, traits TraitLookup) (string, bool) {
	isTrait := false
	var b strings.Builder
	for _, tok := range tokens {
		if tok == openToken || tok == closeToken || strings.EqualFold(tok, containerKeyword) {
			b.WriteString(tok)
			continue
		}
		if traits.IsTrait(tok) {
			isTrait = true
			b.WriteString(boxed(tok))
			continue
		}
		b.WriteString(tok)
	}
	return b.String(), isTrait
}

func boxed(name string) string {
	return "Box" + openToken + name + closeToken
}
