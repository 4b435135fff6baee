package mdx

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var parseErrorsKey = parser.NewContextKey()

// ParseError reports malformed JSX or ESM. Line is 1-based.
type ParseError struct {
	Line   int
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func addError(pc parser.Context, offset int, err error) {
	errs, _ := pc.Get(parseErrorsKey).([]*ParseError)
	pc.Set(parseErrorsKey, append(errs, &ParseError{Offset: offset, Err: err}))
}

// Parser turns MDX source into a Document. It holds no per-document state
// and may be shared across goroutines.
type Parser struct {
	md parser.Parser
}

// NewParser builds the MDX grammar on top of goldmark's CommonMark parsers.
func NewParser() *Parser {
	return &Parser{md: parser.NewParser(
		parser.WithBlockParsers(blockParsers()...),
		parser.WithInlineParsers(inlineParsers()...),
		parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
	)}
}

// HTML is not a thing in MDX; every tag is JSX.
func blockParsers() []util.PrioritizedValue {
	html := reflect.TypeOf(parser.NewHTMLBlockParser())
	var out []util.PrioritizedValue
	for _, v := range parser.DefaultBlockParsers() {
		if reflect.TypeOf(v.Value) != html {
			out = append(out, v)
		}
	}
	return append(out,
		util.Prioritized(NewESMParser(), 50),
		util.Prioritized(NewJSXFlowParser(), 850),
		util.Prioritized(NewExpressionParser(), 860),
	)
}

func inlineParsers() []util.PrioritizedValue {
	html := reflect.TypeOf(parser.NewRawHTMLParser())
	var out []util.PrioritizedValue
	for _, v := range parser.DefaultInlineParsers() {
		if reflect.TypeOf(v.Value) != html {
			out = append(out, v)
		}
	}
	return append(out, util.Prioritized(NewJSXTextParser(), 350))
}

// Parse parses src. The returned Document keeps src as its source; callers
// must not modify it afterwards.
func (p *Parser) Parse(src []byte) (*Document, error) {
	pc := parser.NewContext()
	root := p.md.Parse(text.NewReader(src), parser.WithContext(pc))
	if errs, _ := pc.Get(parseErrorsKey).([]*ParseError); len(errs) > 0 {
		e := errs[0]
		e.Line = bytes.Count(src[:e.Offset], []byte("\n")) + 1
		return nil, e
	}
	return NewDocument(src, root), nil
}
