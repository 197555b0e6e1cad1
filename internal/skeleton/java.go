package skeleton

import (
	"errors"
	"fmt"
	"strings"
)

// LanguageJava identifies the Java skeletonizer
const LanguageJava = "java"

const javaBodySentinel = ";"

var (
	errUnbalanced   = errors.New("unbalanced brackets")
	errUnterminated = errors.New("unterminated literal or comment")
)

// Java deletes comments and replaces method and constructor bodies with ";".
// Type bodies, initializer blocks and field initializers are kept, except
// that anonymous and enum-constant class bodies are skeletonized as well.
type Java struct{}

// NewJava creates a Java skeletonizer
func NewJava() *Java {
	return &Java{}
}

// Language returns the language identifier
func (j *Java) Language() string {
	return LanguageJava
}

// Skeletonize returns the skeleton of a Java compilation unit
func (j *Java) Skeletonize(src string) (string, error) {
	toks, comments, err := lexJava(src)
	if err != nil {
		return "", err
	}

	p := &javaParser{toks: toks, edits: comments}
	if err := p.members(true); err != nil {
		return "", err
	}

	return Apply(src, p.edits)
}

type javaToken struct {
	start int
	end   int
	text  string
}

func (t javaToken) is(s string) bool {
	return t.text == s
}

// lexJava splits src into tokens. Comments are returned as edits; string,
// char and text block literals become single opaque tokens.
func lexJava(src string) ([]javaToken, []Edit, error) {
	var (
		toks     []javaToken
		comments []Edit
	)

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
			i++

		case strings.HasPrefix(src[i:], "//"):
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				end = len(src)
			} else {
				end += i
			}
			comments = append(comments, commentEdit(src, i, end))
			i = end

		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return nil, nil, fmt.Errorf("%w: block comment at offset %d", errUnterminated, i)
			}
			end += i + 4
			comments = append(comments, commentEdit(src, i, end))
			i = end

		case strings.HasPrefix(src[i:], `"""`):
			end, err := scanQuoted(src, i+3, `"""`, true)
			if err != nil {
				return nil, nil, err
			}
			toks = append(toks, javaToken{start: i, end: end, text: src[i:end]})
			i = end

		case c == '"' || c == '\'':
			end, err := scanQuoted(src, i+1, string(c), false)
			if err != nil {
				return nil, nil, err
			}
			toks = append(toks, javaToken{start: i, end: end, text: src[i:end]})
			i = end

		case isWordByte(c):
			end := i + 1
			for end < len(src) && isWordByte(src[end]) {
				end++
			}
			toks = append(toks, javaToken{start: i, end: end, text: src[i:end]})
			i = end

		case strings.HasPrefix(src[i:], "->"):
			toks = append(toks, javaToken{start: i, end: i + 2, text: "->"})
			i += 2

		default:
			toks = append(toks, javaToken{start: i, end: i + 1, text: src[i : i+1]})
			i++
		}
	}

	return toks, comments, nil
}

// scanQuoted returns the offset just past the closing quote. Backslash
// escapes the next byte. Unless multiline is set a raw newline ends the
// literal with an error.
func scanQuoted(src string, i int, quote string, multiline bool) (int, error) {
	start := i - len(quote)
	for i < len(src) {
		switch {
		case src[i] == '\\':
			i += 2
		case strings.HasPrefix(src[i:], quote):
			return i + len(quote), nil
		case src[i] == '\n' && !multiline:
			return 0, fmt.Errorf("%w: literal at offset %d", errUnterminated, start)
		default:
			i++
		}
	}
	return 0, fmt.Errorf("%w: literal at offset %d", errUnterminated, start)
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
		c >= 0x80
}

// commentEdit deletes a comment. A comment gluing two words together is
// replaced with a single space so the tokens stay apart.
func commentEdit(src string, start, end int) Edit {
	if start > 0 && end < len(src) && isWordByte(src[start-1]) && isWordByte(src[end]) {
		return Replace(start, end, " ")
	}
	return Delete(start, end)
}

// memberHeader accumulates the tokens of one declaration up to its body
type memberHeader struct {
	typeKind   string
	sawParams  bool
	afterParen []string
}

func (h *memberHeader) reset() {
	*h = memberHeader{}
}

// isMethod reports whether a following "{" opens a method or constructor
// body: a parameter list, optionally followed by a throws clause.
func (h *memberHeader) isMethod() bool {
	return h.sawParams && (len(h.afterParen) == 0 || h.afterParen[0] == "throws")
}

type javaParser struct {
	toks  []javaToken
	pos   int
	edits []Edit
}

func (p *javaParser) peek(offset int) (javaToken, bool) {
	i := p.pos + offset
	if i < 0 || i >= len(p.toks) {
		return javaToken{}, false
	}
	return p.toks[i], true
}

// members parses declarations until the closing brace of the enclosing
// body, which it consumes. At top level it runs until the end of input.
func (p *javaParser) members(top bool) error {
	var h memberHeader

	for p.pos < len(p.toks) {
		t := p.toks[p.pos]

		switch {
		case t.is("}"):
			if top {
				return fmt.Errorf("%w: unexpected '}' at offset %d", errUnbalanced, t.start)
			}
			p.pos++
			return nil

		case t.is(";"):
			h.reset()
			p.pos++

		case t.is("(") || t.is("["):
			if err := p.skipGroup(); err != nil {
				return err
			}
			if t.is("(") {
				h.sawParams = true
				h.afterParen = nil
			}

		case t.is(")") || t.is("]"):
			return fmt.Errorf("%w: unexpected %q at offset %d", errUnbalanced, t.text, t.start)

		case t.is("="):
			p.pos++
			if err := p.expression(); err != nil {
				return err
			}
			h.reset()

		case t.is("{"):
			if err := p.body(&h); err != nil {
				return err
			}
			h.reset()

		default:
			if kind := p.typeKeyword(); kind != "" && h.typeKind == "" {
				h.typeKind = kind
			}
			if h.sawParams {
				h.afterParen = append(h.afterParen, t.text)
			}
			p.pos++
		}
	}

	if !top {
		return fmt.Errorf("%w: missing '}' at end of input", errUnbalanced)
	}
	return nil
}

// body handles a "{" that ends a declaration header
func (p *javaParser) body(h *memberHeader) error {
	open := p.toks[p.pos]

	switch {
	case h.typeKind == "enum":
		p.pos++
		return p.enumBody()

	case h.typeKind != "":
		p.pos++
		return p.members(false)

	case h.isMethod():
		closeEnd, err := p.skipBlock()
		if err != nil {
			return err
		}
		// whitespace before the body is kept: "f() { x(); }" becomes "f() ;"
		p.edits = append(p.edits, Replace(open.start, closeEnd, javaBodySentinel))
		return nil

	default:
		_, err := p.skipBlock()
		return err
	}
}

// typeKeyword returns the kind of type declaration introduced by the
// current token, or "" when it does not start one.
func (p *javaParser) typeKeyword() string {
	t := p.toks[p.pos]
	if prev, ok := p.peek(-1); ok && prev.is(".") {
		return ""
	}

	switch t.text {
	case "class", "interface", "enum":
		return t.text
	case "record":
		name, ok := p.peek(1)
		if !ok || !isWordByte(name.text[0]) {
			return ""
		}
		if next, ok := p.peek(2); ok && (next.is("(") || next.is("<")) {
			return t.text
		}
	}
	return ""
}

// enumBody parses enum constants, whose optional class bodies are treated
// as anonymous classes, then the members following the first ";".
func (p *javaParser) enumBody() error {
	for p.pos < len(p.toks) {
		t := p.toks[p.pos]

		switch {
		case t.is("}"):
			p.pos++
			return nil

		case t.is(";"):
			p.pos++
			return p.members(false)

		case t.is("(") || t.is("["):
			if err := p.skipGroup(); err != nil {
				return err
			}

		case t.is("{"):
			p.pos++
			if err := p.members(false); err != nil {
				return err
			}

		default:
			p.pos++
		}
	}
	return fmt.Errorf("%w: enum body not closed", errUnbalanced)
}

// expression skips a field initializer up to and including its ";".
// Anonymous class bodies met on the way are parsed as type bodies.
func (p *javaParser) expression() error {
	type frame struct {
		open  string
		owner string
	}
	var (
		stack      []frame
		closedBy   string
		prevClosed bool
	)

	for p.pos < len(p.toks) {
		t := p.toks[p.pos]
		prev, _ := p.peek(-1)

		switch {
		case t.is(";") && len(stack) == 0:
			p.pos++
			return nil

		case t.is("(") || t.is("["):
			stack = append(stack, frame{open: t.text, owner: prev.text})
			p.pos++
			prevClosed = false
			continue

		case t.is(")") || t.is("]"):
			if len(stack) == 0 || stack[len(stack)-1].open != matchingOpen(t.text) {
				return fmt.Errorf("%w: unexpected %q at offset %d", errUnbalanced, t.text, t.start)
			}
			closedBy = stack[len(stack)-1].owner
			stack = stack[:len(stack)-1]
			p.pos++
			prevClosed = t.is(")")
			continue

		case t.is("{"):
			switch {
			case prevClosed && closedBy != "switch":
				p.pos++
				if err := p.members(false); err != nil {
					return err
				}
			case prev.is("->") || prevClosed:
				if _, err := p.skipBlock(); err != nil {
					return err
				}
			default:
				stack = append(stack, frame{open: "{"})
				p.pos++
			}

		case t.is("}"):
			if len(stack) == 0 || stack[len(stack)-1].open != "{" {
				return fmt.Errorf("%w: unexpected '}' at offset %d", errUnbalanced, t.start)
			}
			stack = stack[:len(stack)-1]
			p.pos++

		default:
			p.pos++
		}
		prevClosed = false
	}

	return fmt.Errorf("%w: field initializer not terminated", errUnbalanced)
}

// skipGroup skips a balanced (...) or [...] group starting at the current token
func (p *javaParser) skipGroup() error {
	_, err := p.skipBalanced()
	return err
}

// skipBlock skips a balanced {...} block and returns the offset just past
// its closing brace.
func (p *javaParser) skipBlock() (int, error) {
	return p.skipBalanced()
}

func (p *javaParser) skipBalanced() (int, error) {
	var stack []string
	for p.pos < len(p.toks) {
		t := p.toks[p.pos]
		p.pos++

		switch t.text {
		case "(", "[", "{":
			stack = append(stack, t.text)
		case ")", "]", "}":
			if len(stack) == 0 || stack[len(stack)-1] != matchingOpen(t.text) {
				return 0, fmt.Errorf("%w: unexpected %q at offset %d", errUnbalanced, t.text, t.start)
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return t.end, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: missing closing bracket", errUnbalanced)
}

func matchingOpen(closer string) string {
	switch closer {
	case ")":
		return "("
	case "]":
		return "["
	default:
		return "{"
	}
}
