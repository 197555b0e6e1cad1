package skeleton

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// LanguageShell identifies the shell skeletonizer
const LanguageShell = "shell"

const shellBodySentinel = "{ ...; }"

// Shell deletes comments, keeping the shebang, and replaces every function
// body with "{ ...; }". Scripts are parsed as bash.
type Shell struct{}

// NewShell creates a shell skeletonizer
func NewShell() *Shell {
	return &Shell{}
}

// Language returns the language identifier
func (s *Shell) Language() string {
	return LanguageShell
}

// Skeletonize returns the skeleton of a shell script
func (s *Shell) Skeletonize(src string) (string, error) {
	parser := syntax.NewParser(syntax.KeepComments(true), syntax.Variant(syntax.LangBash))
	f, err := parser.Parse(strings.NewReader(src), "")
	if err != nil {
		return "", err
	}

	var edits []Edit
	syntax.Walk(f, func(node syntax.Node) bool {
		switch n := node.(type) {
		case *syntax.Comment:
			start := offset(n.Pos())
			if start == 0 && strings.HasPrefix(n.Text, "!") {
				return true
			}
			edits = append(edits, Delete(start, offset(n.End())))
		case *syntax.FuncDecl:
			if n.Body != nil {
				edits = append(edits, Replace(offset(n.Body.Pos()), offset(n.Body.End()), shellBodySentinel))
			}
		}
		return true
	})

	return Apply(src, edits)
}

func offset(p syntax.Pos) int {
	return int(p.Offset())
}
