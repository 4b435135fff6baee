package esm

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

type token struct {
	tt     js.TokenType
	data   string
	offset int
}

func (t token) is(tt js.TokenType) bool { return t.tt == tt }

func (t token) insignificant() bool {
	switch t.tt {
	case js.WhitespaceToken, js.LineTerminatorToken, js.CommentToken, js.CommentLineTerminatorToken:
		return true
	}
	return false
}

// parseImport reads the import declaration at the cursor. The clause is
// tokenized with the js lexer, TypeScript `type` modifiers are lifted out,
// and the remaining plain JavaScript goes through js.Parse.
func (s *scanner) parseImport() (*ImportDeclaration, error) {
	start := s.pos
	toks, end, err := importTokens(s.src, start)
	if err != nil {
		return nil, err
	}

	var sig []int
	for i, t := range toks {
		if !t.insignificant() {
			sig = append(sig, i)
		}
	}
	drop, declType, typeSpecs := typeModifiers(toks, sig)

	var clean strings.Builder
	for i, t := range toks {
		if !drop[i] {
			clean.WriteString(t.data)
		}
	}

	ast, err := js.Parse(parse.NewInputString(clean.String()), js.Options{})
	if err != nil {
		msg := err.Error()
		var pe *parse.Error
		if errors.As(err, &pe) {
			msg = pe.Message
		}
		return nil, &SyntaxError{Offset: start, Msg: msg}
	}
	var stmt *js.ImportStmt
	for _, st := range ast.BlockStmt.List {
		if is, ok := st.(*js.ImportStmt); ok {
			stmt = is
			break
		}
	}
	if stmt == nil {
		return nil, &SyntaxError{Offset: start, Msg: "expected import declaration"}
	}

	d := &ImportDeclaration{
		Source:   unquote(stmt.Module),
		TypeOnly: declType,
		Default:  string(stmt.Default),
	}
	switch {
	case len(stmt.List) == 1 && string(stmt.List[0].Name) == "*":
		d.Namespace = string(stmt.List[0].Binding)
	case stmt.List != nil:
		d.Specifiers = []ImportSpecifier{}
		for i, a := range stmt.List {
			if a.Binding == nil {
				// trailing comma
				continue
			}
			spec := ImportSpecifier{
				Imported: string(a.Binding),
				Local:    string(a.Binding),
				TypeOnly: typeSpecs[i],
			}
			if a.Name != nil {
				spec.Imported = string(a.Name)
			}
			d.Specifiers = append(d.Specifiers, spec)
		}
	}

	s.pos = end
	s.finishStatement()
	return d, nil
}

// importTokens lexes from start up to and including the module specifier
// and returns the tokens and the offset just past the specifier.
func importTokens(src string, start int) ([]token, int, error) {
	l := js.NewLexer(parse.NewInputString(src[start:]))
	var toks []token
	prev := js.ErrorToken
	offset := start
	for {
		tt, data := l.Next()
		if tt == js.ErrorToken {
			if err := l.Err(); err != nil && err != io.EOF {
				msg := err.Error()
				var pe *parse.Error
				if errors.As(err, &pe) {
					msg = pe.Message
				}
				return nil, 0, &SyntaxError{Offset: offset, Msg: msg}
			}
			return nil, 0, &SyntaxError{Offset: offset, Msg: "expected module specifier"}
		}

		t := token{tt: tt, data: string(data), offset: offset}
		offset += len(data)
		switch {
		case t.insignificant():
		case tt == js.StringToken && (prev == js.ImportToken || prev == js.FromToken):
			toks = append(toks, t)
			return toks, offset, nil
		case js.IsIdentifierName(tt), tt == js.StringToken,
			tt == js.OpenBraceToken, tt == js.CloseBraceToken,
			tt == js.CommaToken, tt == js.MulToken:
		default:
			return nil, 0, &SyntaxError{Offset: t.offset, Msg: fmt.Sprintf("unexpected %q in import declaration", t.data)}
		}
		if !t.insignificant() {
			prev = tt
		}
		toks = append(toks, t)
	}
}

// typeModifiers finds `import type ...` and `{ type Name }` modifiers. It
// returns the token indexes to drop, whether the whole declaration is
// type-only and which specifier positions are.
func typeModifiers(toks []token, sig []int) (map[int]bool, bool, map[int]bool) {
	drop := map[int]bool{}
	typeSpecs := map[int]bool{}
	declType := false

	at := func(i int) token {
		if i < 0 || i >= len(sig) {
			return token{tt: js.ErrorToken}
		}
		return toks[sig[i]]
	}
	isType := func(t token) bool {
		return t.tt == js.IdentifierToken && t.data == "type"
	}

	if isType(at(1)) {
		next := at(2)
		if next.is(js.OpenBraceToken) || next.is(js.MulToken) || (js.IsIdentifier(next.tt) && !next.is(js.FromToken)) {
			declType = true
			drop[sig[1]] = true
		}
	}

	spec := 0
	inBraces := false
	for i := range sig {
		t := at(i)
		switch {
		case t.is(js.OpenBraceToken):
			inBraces = true
		case t.is(js.CloseBraceToken):
			inBraces = false
		case t.is(js.CommaToken):
			if inBraces {
				spec++
			}
		case inBraces && isType(t):
			prev, next := at(i-1), at(i+1)
			if (prev.is(js.OpenBraceToken) || prev.is(js.CommaToken)) &&
				js.IsIdentifierName(next.tt) && !next.is(js.AsToken) {
				typeSpecs[spec] = true
				drop[sig[i]] = true
			}
		}
	}
	return drop, declType, typeSpecs
}

// unquote strips the quotes of a module specifier literal.
func unquote(lit []byte) string {
	if len(lit) < 2 {
		return string(lit)
	}
	return string(lit[1 : len(lit)-1])
}
