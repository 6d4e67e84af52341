package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedType is returned when a type spelling has unbalanced or
// misplaced generic brackets.
var ErrMalformedType = errors.New("malformed type")

const (
	openToken  = "<"
	closeToken = ">"
)

// Tokenize splits a type spelling at every generic boundary. Literal segments
// are trimmed and empty ones dropped; bracket tokens are always kept.
//
//	Tokenize("Vec<Box<X>>") == []string{"Vec", "<", "Box", "<", "X", ">", ">"}
func Tokenize(s string) []string {
	var tokens []string
	start := 0
	flush := func(end int) {
		if lit := strings.TrimSpace(s[start:end]); lit != "" {
			tokens = append(tokens, lit)
		}
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			flush(i)
			tokens = append(tokens, openToken)
			start = i + 1
		case '>':
			flush(i)
			tokens = append(tokens, closeToken)
			start = i + 1
		}
	}
	flush(len(s))
	return tokens
}

// TypeExpr is a parsed type spelling: either a plain name or a generic
// name applied to arguments.
type TypeExpr struct {
	Name string
	Args []*TypeExpr
}

// IsGeneric reports whether the expression carries type arguments.
func (t *TypeExpr) IsGeneric() bool {
	return len(t.Args) > 0
}

// String renders the expression without any whitespace between tokens.
func (t *TypeExpr) String() string {
	if !t.IsGeneric() {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return t.Name + openToken + strings.Join(args, ",") + closeToken
}

// Leaves calls fn for every non-generic node in left-to-right order.
func (t *TypeExpr) Leaves(fn func(*TypeExpr)) {
	if !t.IsGeneric() {
		fn(t)
		return
	}
	for _, a := range t.Args {
		a.Leaves(fn)
	}
}

// ParseType parses a type spelling such as "Vec<Vec<User>>" into a tree.
//
// The grammar is deliberately small:
//
//	type := IDENT [ "<" type ">" ]
func ParseType(s string) (*TypeExpr, error) {
	p := &typeParser{tokens: Tokenize(s), src: s}
	expr, err := p.parse()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.tokens) {
		return nil, fmt.Errorf("%w: %q: trailing %q", ErrMalformedType, s, p.tokens[p.pos])
	}
	return expr, nil
}

type typeParser struct {
	tokens []string
	pos    int
	src    string
}

func (p *typeParser) peek() (string, bool) {
	if p.pos >= len(p.tokens) {
		return "", false
	}
	return p.tokens[p.pos], true
}

func (p *typeParser) parse() (*TypeExpr, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("%w: %q: unexpected end of input", ErrMalformedType, p.src)
	}
	if tok == openToken || tok == closeToken {
		return nil, fmt.Errorf("%w: %q: expected name, got %q", ErrMalformedType, p.src, tok)
	}
	p.pos++
	expr := &TypeExpr{Name: tok}

	if next, ok := p.peek(); !ok || next != openToken {
		return expr, nil
	}
	p.pos++

	arg, err := p.parse()
	if err != nil {
		return nil, err
	}
	expr.Args = []*TypeExpr{arg}

	if next, ok := p.peek(); !ok || next != closeToken {
		return nil, fmt.Errorf("%w: %q: missing %q", ErrMalformedType, p.src, closeToken)
	}
	p.pos++
	return expr, nil
}
