package skeleton

import (
	"errors"
	"fmt"
	"strings"
)

// LanguagePython identifies the Python skeletonizer
const LanguagePython = "python"

const (
	pythonBodySentinel = " ..."
	utf8BOM            = "\uFEFF"
)

var errMissingBlock = errors.New("expected an indented block")

// Python deletes comments and replaces the block of every function
// definition with " ...". The shebang line is kept.
type Python struct{}

// NewPython creates a Python skeletonizer
func NewPython() *Python {
	return &Python{}
}

// Language returns the language identifier
func (p *Python) Language() string {
	return LanguagePython
}

// Skeletonize returns the skeleton of a Python module
func (p *Python) Skeletonize(src string) (string, error) {
	lines, comments, err := lexPython(src)
	if err != nil {
		return "", err
	}

	edits := comments
	for i := 0; i < len(lines); {
		ln := lines[i]
		colon, ok := ln.defColon()
		if !ok {
			i++
			continue
		}

		if colon < len(ln.tokens)-1 {
			edits = append(edits, Replace(ln.tokens[colon].end, ln.end, pythonBodySentinel))
			i++
			continue
		}

		j := i + 1
		for j < len(lines) && lines[j].indent > ln.indent {
			j++
		}
		if j == i+1 {
			return "", fmt.Errorf("%w: after def at offset %d", errMissingBlock, ln.start)
		}
		edits = append(edits, Replace(ln.tokens[colon].end, lines[j-1].end, pythonBodySentinel))
		i = j
	}

	return Apply(src, edits)
}

type pyToken struct {
	start int
	end   int
	depth int
	text  string
}

// pyLine is one logical line: physical lines joined by open brackets or
// backslash continuations. end is the end of its last token, so any
// trailing comment lies outside [start, end).
type pyLine struct {
	start  int
	end    int
	indent int
	tokens []pyToken
}

// defColon returns the index of the ":" ending a def header
func (ln pyLine) defColon() (int, bool) {
	first := 0
	if ln.tokens[0].text == "async" && len(ln.tokens) > 1 {
		first = 1
	}
	if ln.tokens[first].text != "def" {
		return 0, false
	}
	for i := first + 1; i < len(ln.tokens); i++ {
		if t := ln.tokens[i]; t.depth == 0 && t.text == ":" {
			return i, true
		}
	}
	return 0, false
}

type pyLexer struct {
	src      string
	pos      int
	depth    int
	lines    []pyLine
	cur      *pyLine
	comments []Edit
}

func lexPython(src string) ([]pyLine, []Edit, error) {
	lx := &pyLexer{src: src}
	if strings.HasPrefix(src, utf8BOM) {
		lx.pos = len(utf8BOM)
	}
	if err := lx.run(); err != nil {
		return nil, nil, err
	}
	return lx.lines, lx.comments, nil
}

func (lx *pyLexer) run() error {
	indent := lx.indentation()

	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]

		switch {
		case c == '\n':
			lx.pos++
			if lx.depth == 0 {
				lx.endLine()
				indent = lx.indentation()
			}

		case c == ' ' || c == '\t' || c == '\r' || c == '\f':
			lx.pos++

		case c == '\\' && lx.pos+1 < len(lx.src) && (lx.src[lx.pos+1] == '\n' || lx.src[lx.pos+1] == '\r'):
			lx.pos += 2
			if lx.src[lx.pos-1] == '\r' && lx.pos < len(lx.src) && lx.src[lx.pos] == '\n' {
				lx.pos++
			}

		case c == '#':
			lx.comment()

		case isQuote(c):
			if err := lx.str(lx.pos, lx.pos, indent); err != nil {
				return err
			}

		case isPyWordByte(c):
			start := lx.pos
			for lx.pos < len(lx.src) && isPyWordByte(lx.src[lx.pos]) {
				lx.pos++
			}
			if lx.pos < len(lx.src) && isQuote(lx.src[lx.pos]) && isStringPrefix(lx.src[start:lx.pos]) {
				if err := lx.str(start, lx.pos, indent); err != nil {
					return err
				}
				continue
			}
			lx.emit(start, lx.pos, indent)

		case c == '(' || c == '[' || c == '{':
			lx.emit(lx.pos, lx.pos+1, indent)
			lx.depth++
			lx.pos++

		case c == ')' || c == ']' || c == '}':
			if lx.depth == 0 {
				return fmt.Errorf("%w: unexpected %q at offset %d", errUnbalanced, c, lx.pos)
			}
			lx.depth--
			lx.emit(lx.pos, lx.pos+1, indent)
			lx.pos++

		default:
			lx.emit(lx.pos, lx.pos+1, indent)
			lx.pos++
		}
	}

	if lx.depth != 0 {
		return fmt.Errorf("%w: bracket not closed at end of input", errUnbalanced)
	}
	lx.endLine()
	return nil
}

// indentation measures the leading whitespace of the line at pos.
// Tabs advance to the next multiple of eight.
func (lx *pyLexer) indentation() int {
	col := 0
	for i := lx.pos; i < len(lx.src); i++ {
		switch lx.src[i] {
		case ' ':
			col++
		case '\t':
			col = (col/8 + 1) * 8
		case '\f':
			col = 0
		default:
			return col
		}
	}
	return col
}

func (lx *pyLexer) emit(start, end, indent int) {
	if lx.cur == nil {
		lx.cur = &pyLine{start: start, indent: indent}
	}
	lx.cur.tokens = append(lx.cur.tokens, pyToken{
		start: start,
		end:   end,
		depth: lx.depth,
		text:  lx.src[start:end],
	})
	lx.cur.end = end
}

func (lx *pyLexer) endLine() {
	if lx.cur != nil {
		lx.lines = append(lx.lines, *lx.cur)
		lx.cur = nil
	}
}

func (lx *pyLexer) comment() {
	start := lx.pos
	end := strings.IndexByte(lx.src[start:], '\n')
	if end < 0 {
		end = len(lx.src)
	} else {
		end += start
	}
	lx.pos = end

	if isShebang(lx.src, start) {
		return
	}
	lx.comments = append(lx.comments, Delete(start, end))
}

func isShebang(src string, start int) bool {
	lineStart := 0
	if strings.HasPrefix(src, utf8BOM) {
		lineStart = len(utf8BOM)
	}
	return start == lineStart && strings.HasPrefix(src[start:], "#!")
}

// str lexes a string literal whose prefix starts at start and whose
// opening quote is at quote.
func (lx *pyLexer) str(start, quote, indent int) error {
	q := lx.src[quote : quote+1]
	delim := q
	if strings.HasPrefix(lx.src[quote:], q+q+q) {
		delim = q + q + q
	}

	i := quote + len(delim)
	for i < len(lx.src) {
		switch {
		case lx.src[i] == '\\':
			i += 2
		case strings.HasPrefix(lx.src[i:], delim):
			end := i + len(delim)
			lx.emit(start, end, indent)
			lx.pos = end
			return nil
		case lx.src[i] == '\n' && len(delim) == 1:
			return fmt.Errorf("%w: string at offset %d", errUnterminated, start)
		default:
			i++
		}
	}
	return fmt.Errorf("%w: string at offset %d", errUnterminated, start)
}

func isQuote(c byte) bool {
	return c == '"' || c == '\''
}

func isPyWordByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
		c >= 0x80
}

func isStringPrefix(word string) bool {
	if len(word) > 2 {
		return false
	}
	for _, r := range strings.ToLower(word) {
		if !strings.ContainsRune("rbuf", r) {
			return false
		}
	}
	return true
}
