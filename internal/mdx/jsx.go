package mdx

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dgallion1/mdxmigrate/internal/doctree"
)

type jsxError struct {
	offset int
	msg    string
}

func (e *jsxError) Error() string { return e.msg }

func jsxErrorf(offset int, format string, args ...any) error {
	return &jsxError{offset: offset, msg: fmt.Sprintf(format, args...)}
}

// rawElement is a scanned JSX element before it becomes an AST node.
type rawElement struct {
	name        string
	attrs       []Attribute
	span        doctree.Span
	inner       doctree.Span
	selfClosing bool
	children    []rawChild
}

// rawChild holds exactly one of element, expression or text.
type rawChild struct {
	element *rawElement
	expr    *rawExpr
	text    doctree.Span
}

type rawExpr struct {
	span  doctree.Span
	value doctree.Span
}

// scanElement reads the JSX element starting at src[start], which must be
// '<', without looking past limit.
func scanElement(src []byte, start, limit int) (*rawElement, error) {
	i := start
	if i >= limit || src[i] != '<' {
		return nil, jsxErrorf(i, "expected '<'")
	}
	i++
	ns := i
	for i < limit && isTagNameByte(src[i]) {
		i++
	}
	el := &rawElement{name: string(src[ns:i])}
	if el.name != "" && !isLetter(el.name[0]) {
		return nil, jsxErrorf(ns, "invalid tag name %q", el.name)
	}

attrs:
	for {
		i = skipWS(src, i, limit)
		if i >= limit {
			return nil, jsxErrorf(start, "unterminated tag <%s>", el.name)
		}
		switch c := src[i]; {
		case c == '/':
			if i+1 < limit && src[i+1] == '>' {
				el.selfClosing = true
				el.span = doctree.Span{Start: start, Stop: i + 2}
				el.inner = doctree.Span{Start: i, Stop: i}
				return el, nil
			}
			return nil, jsxErrorf(i, "expected '>' after '/' in <%s>", el.name)
		case c == '>':
			i++
			break attrs
		case c == '{':
			end, err := skipExpression(src, i, limit)
			if err != nil {
				return nil, err
			}
			v := trimSpan(src, doctree.Span{Start: i + 1, Stop: end - 1})
			el.attrs = append(el.attrs, Attribute{Value: string(v.Value(src)), Kind: AttrSpread})
			i = end
		case isAttrNameStart(c):
			as := i
			for i < limit && isAttrNameByte(src[i]) {
				i++
			}
			attr := Attribute{Name: string(src[as:i]), Kind: AttrBoolean}
			j := skipWS(src, i, limit)
			if j < limit && src[j] == '=' {
				j = skipWS(src, j+1, limit)
				if j >= limit {
					return nil, jsxErrorf(as, "missing value for attribute %s", attr.Name)
				}
				switch q := src[j]; q {
				case '"', '\'':
					k := j + 1
					for k < limit && src[k] != q {
						k++
					}
					if k >= limit {
						return nil, jsxErrorf(j, "unterminated value for attribute %s", attr.Name)
					}
					attr.Kind = AttrString
					attr.Value = string(src[j+1 : k])
					i = k + 1
				case '{':
					end, err := skipExpression(src, j, limit)
					if err != nil {
						return nil, err
					}
					v := trimSpan(src, doctree.Span{Start: j + 1, Stop: end - 1})
					attr.Kind = AttrExpression
					attr.Value = string(v.Value(src))
					i = end
				default:
					return nil, jsxErrorf(j, "invalid value for attribute %s", attr.Name)
				}
			}
			el.attrs = append(el.attrs, attr)
		default:
			return nil, jsxErrorf(i, "unexpected %q in <%s>", c, el.name)
		}
	}

	el.inner.Start = i
	for {
		if i >= limit {
			return nil, jsxErrorf(start, "unclosed element <%s>", el.name)
		}
		switch src[i] {
		case '<':
			if i+1 < limit && src[i+1] == '/' {
				el.inner.Stop = i
				j := skipWS(src, i+2, limit)
				cs := j
				for j < limit && isTagNameByte(src[j]) {
					j++
				}
				if name := string(src[cs:j]); name != el.name {
					return nil, jsxErrorf(i, "expected </%s>, found </%s>", el.name, name)
				}
				j = skipWS(src, j, limit)
				if j >= limit || src[j] != '>' {
					return nil, jsxErrorf(i, "unterminated closing tag </%s", el.name)
				}
				el.span = doctree.Span{Start: start, Stop: j + 1}
				return el, nil
			}
			child, err := scanElement(src, i, limit)
			if err != nil {
				return nil, err
			}
			el.children = append(el.children, rawChild{element: child})
			i = child.span.Stop
		case '{':
			end, err := skipExpression(src, i, limit)
			if err != nil {
				return nil, err
			}
			el.children = append(el.children, rawChild{expr: &rawExpr{
				span:  doctree.Span{Start: i, Stop: end},
				value: trimSpan(src, doctree.Span{Start: i + 1, Stop: end - 1}),
			}})
			i = end
		default:
			ts := i
			for i < limit && src[i] != '<' && src[i] != '{' {
				i++
			}
			if t := trimSpan(src, doctree.Span{Start: ts, Stop: i}); t.Len() > 0 {
				el.children = append(el.children, rawChild{text: t})
			}
		}
	}
}

// skipExpression returns the offset just past the brace group opening at
// src[start]. JSX inside the expression is skipped as a unit.
func skipExpression(src []byte, start, limit int) (int, error) {
	depth := 0
	i := start
	for i < limit {
		c := src[i]
		switch {
		case c == '{':
			depth++
			i++
		case c == '}':
			depth--
			i++
			if depth == 0 {
				return i, nil
			}
		case c == '"' || c == '\'':
			end, ok := skipQuoted(src, i, limit)
			if !ok {
				return 0, jsxErrorf(i, "unterminated string in expression")
			}
			i = end
		case c == '`':
			end, ok := skipTemplateLiteral(src, i, limit)
			if !ok {
				return 0, jsxErrorf(i, "unterminated template literal in expression")
			}
			i = end
		case c == '/' && i+1 < limit && src[i+1] == '/':
			for i < limit && src[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < limit && src[i+1] == '*':
			end := bytes.Index(src[i+2:limit], []byte("*/"))
			if end < 0 {
				return 0, jsxErrorf(i, "unterminated comment in expression")
			}
			i += end + 4
		case c == '<' && jsxCanStart(src, start, i, limit):
			el, err := scanElement(src, i, limit)
			if err != nil {
				// A comparison after all.
				i++
				continue
			}
			i = el.span.Stop
		default:
			i++
		}
	}
	return 0, jsxErrorf(start, "unterminated expression")
}

// jsxCanStart reports whether the '<' at src[i] can open a JSX element
// rather than being a comparison operator.
func jsxCanStart(src []byte, exprStart, i, limit int) bool {
	if i+1 >= limit || !(isLetter(src[i+1]) || src[i+1] == '>') {
		return false
	}
	j := i - 1
	for j > exprStart && isWS(src[j]) {
		j--
	}
	if j <= exprStart {
		return true
	}
	if strings.IndexByte("(=,?:{[>&|;!", src[j]) >= 0 {
		return true
	}
	return bytes.HasSuffix(src[exprStart:j+1], []byte("return"))
}

func skipQuoted(src []byte, i, limit int) (int, bool) {
	q := src[i]
	for j := i + 1; j < limit; j++ {
		switch src[j] {
		case '\\':
			j++
		case q:
			return j + 1, true
		case '\n':
			return 0, false
		}
	}
	return 0, false
}

func skipTemplateLiteral(src []byte, i, limit int) (int, bool) {
	for j := i + 1; j < limit; j++ {
		switch src[j] {
		case '\\':
			j++
		case '`':
			return j + 1, true
		case '$':
			if j+1 < limit && src[j+1] == '{' {
				end, err := skipExpression(src, j+1, limit)
				if err != nil {
					return 0, false
				}
				j = end - 1
			}
		}
	}
	return 0, false
}

// isFlow reports whether el, which starts a line, is a block of its own:
// nothing may follow it on its last line and no text may share its first
// line.
func isFlow(src []byte, el *rawElement) bool {
	if !restOfLineBlank(src, el.span.Stop) {
		return false
	}
	firstLine := lineEnd(src, el.span.Start)
	for _, c := range el.children {
		if c.element == nil && c.expr == nil && c.text.Start < firstLine {
			return false
		}
	}
	return true
}

// isComponentTag reports whether src[i] opens a capitalized tag.
func isComponentTag(src []byte, i int) bool {
	return i+1 < len(src) && src[i] == '<' && src[i+1] >= 'A' && src[i+1] <= 'Z'
}

func trimSpan(src []byte, s doctree.Span) doctree.Span {
	for s.Start < s.Stop && isSpaceByte(src[s.Start]) {
		s.Start++
	}
	for s.Stop > s.Start && isSpaceByte(src[s.Stop-1]) {
		s.Stop--
	}
	return s
}

func lineEnd(src []byte, i int) int {
	if n := bytes.IndexByte(src[i:], '\n'); n >= 0 {
		return i + n
	}
	return len(src)
}

func restOfLineBlank(src []byte, i int) bool {
	for ; i < len(src) && src[i] != '\n'; i++ {
		if !isWS(src[i]) {
			return false
		}
	}
	return true
}

func skipWS(src []byte, i, limit int) int {
	for i < limit && isSpaceByte(src[i]) {
		i++
	}
	return i
}

// isWS matches horizontal whitespace.
func isWS(c byte) bool { return c == ' ' || c == '\t' || c == '\r' }

func isSpaceByte(c byte) bool { return isWS(c) || c == '\n' }

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isTagNameByte(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '.' || c == '-' || c == '_' || c == ':'
}

func isAttrNameStart(c byte) bool { return isLetter(c) || c == '_' || c == '$' }

func isAttrNameByte(c byte) bool {
	return isAttrNameStart(c) || isDigit(c) || c == '-' || c == ':'
}
