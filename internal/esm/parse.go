package esm

import (
	"strings"
	"unicode"
)

// Parse splits an ESM block into statements.
func Parse(src string) (*Program, error) {
	s := &scanner{src: src}
	prog := &Program{}

	for {
		s.skipSpace()
		if s.eof() {
			break
		}
		start := s.pos

		switch {
		case s.hasPrefix("//"):
			s.skipLineComment()
			prog.Body = append(prog.Body, &Raw{Text: src[start:s.pos]})
		case s.hasPrefix("/*"):
			if err := s.skipBlockComment(); err != nil {
				return nil, err
			}
			prog.Body = append(prog.Body, &Raw{Text: src[start:s.pos]})
		case s.atKeyword("import") && !s.dynamicImport():
			decl, err := s.parseImport()
			if err != nil {
				return nil, err
			}
			prog.Body = append(prog.Body, decl)
		default:
			end, err := s.scanStatement()
			if err != nil {
				return nil, err
			}
			text := strings.TrimRightFunc(src[start:end], unicode.IsSpace)
			prog.Body = append(prog.Body, &Raw{Text: text})
		}
	}

	return prog, nil
}

type scanner struct {
	src string
	pos int
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) hasPrefix(p string) bool {
	return strings.HasPrefix(s.src[s.pos:], p)
}

func (s *scanner) errorf(msg string) error {
	return &SyntaxError{Offset: s.pos, Msg: msg}
}

// atKeyword reports whether kw starts at the cursor as a whole word.
func (s *scanner) atKeyword(kw string) bool {
	if !s.hasPrefix(kw) {
		return false
	}
	end := s.pos + len(kw)
	return end >= len(s.src) || !isIdentPart(s.src[end])
}

// dynamicImport reports whether the `import` at the cursor is `import(...)`
// or `import.meta`, which are expressions rather than declarations.
func (s *scanner) dynamicImport() bool {
	i := s.pos + len("import")
	for i < len(s.src) && isSpace(s.src[i]) {
		i++
	}
	return i < len(s.src) && (s.src[i] == '(' || s.src[i] == '.')
}

func (s *scanner) skipSpace() {
	for !s.eof() && isSpace(s.src[s.pos]) {
		s.pos++
	}
}

func (s *scanner) skipLineComment() {
	for !s.eof() && s.src[s.pos] != '\n' {
		s.pos++
	}
}

func (s *scanner) skipBlockComment() error {
	end := strings.Index(s.src[s.pos+2:], "*/")
	if end < 0 {
		return s.errorf("unterminated comment")
	}
	s.pos += 2 + end + 2
	return nil
}

// finishStatement consumes an optional semicolon on the current line.
func (s *scanner) finishStatement() {
	i := s.pos
	for i < len(s.src) && (s.src[i] == ' ' || s.src[i] == '\t') {
		i++
	}
	if i < len(s.src) && s.src[i] == ';' {
		s.pos = i + 1
	}
}

// scanStatement finds the end of a statement that is kept verbatim. A
// statement ends at a semicolon outside brackets, or at a newline outside
// brackets when the next line starts another import, export or comment.
func (s *scanner) scanStatement() (int, error) {
	depth := 0
	i := s.pos
	for i < len(s.src) {
		c := s.src[i]
		switch {
		case c == '"' || c == '\'':
			end, ok := skipString(s.src, i)
			if !ok {
				s.pos = i
				return 0, s.errorf("unterminated string literal")
			}
			i = end
			continue
		case c == '`':
			end, ok := skipTemplate(s.src, i)
			if !ok {
				s.pos = i
				return 0, s.errorf("unterminated template literal")
			}
			i = end
			continue
		case c == '/' && i+1 < len(s.src) && s.src[i+1] == '/':
			for i < len(s.src) && s.src[i] != '\n' {
				i++
			}
			continue
		case c == '/' && i+1 < len(s.src) && s.src[i+1] == '*':
			end := strings.Index(s.src[i+2:], "*/")
			if end < 0 {
				s.pos = i
				return 0, s.errorf("unterminated comment")
			}
			i += 2 + end + 2
			continue
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
			if depth < 0 {
				s.pos = i
				return 0, s.errorf("unbalanced " + string(c))
			}
		case c == ';' && depth == 0:
			s.pos = i + 1
			return s.pos, nil
		case c == '\n' && depth == 0:
			if s.statementStartsAfter(i) {
				s.pos = i
				return i, nil
			}
		}
		i++
	}
	if depth != 0 {
		s.pos = i
		return 0, s.errorf("unterminated statement")
	}
	s.pos = i
	return i, nil
}

func (s *scanner) statementStartsAfter(nl int) bool {
	j := nl
	for j < len(s.src) && isSpace(s.src[j]) {
		j++
	}
	if j >= len(s.src) {
		return true
	}
	next := &scanner{src: s.src, pos: j}
	return next.atKeyword("import") || next.atKeyword("export") ||
		next.hasPrefix("//") || next.hasPrefix("/*")
}

// skipString returns the offset just past the string literal starting at i.
func skipString(src string, i int) (int, bool) {
	q := src[i]
	for j := i + 1; j < len(src); j++ {
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

// skipTemplate returns the offset just past the template literal starting at i.
func skipTemplate(src string, i int) (int, bool) {
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case '`':
			return j + 1, true
		case '$':
			if j+1 < len(src) && src[j+1] == '{' {
				end, ok := skipBraces(src, j+1)
				if !ok {
					return 0, false
				}
				j = end - 1
			}
		}
	}
	return 0, false
}

// skipBraces returns the offset just past the brace group opening at i.
func skipBraces(src string, i int) (int, bool) {
	depth := 0
	for j := i; j < len(src); j++ {
		switch src[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j + 1, true
			}
		case '"', '\'':
			end, ok := skipString(src, j)
			if !ok {
				return 0, false
			}
			j = end - 1
		case '`':
			end, ok := skipTemplate(src, j)
			if !ok {
				return 0, false
			}
			j = end - 1
		}
	}
	return 0, false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
