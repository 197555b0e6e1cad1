package skeleton

import (
	"go/ast"
	"go/parser"
	"go/token"

	"golang.org/x/tools/go/ast/inspector"
)

// LanguageGo identifies the Go skeletonizer
const LanguageGo = "go"

// Go deletes comments and function bodies, leaving body-less declarations
type Go struct{}

// NewGo creates a Go skeletonizer
func NewGo() *Go {
	return &Go{}
}

// Language returns the language identifier
func (g *Go) Language() string {
	return LanguageGo
}

// Skeletonize returns the skeleton of a Go source file
func (g *Go) Skeletonize(src string) (string, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "", src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return "", err
	}
	tf := fset.File(f.Pos())

	var edits []Edit
	for _, group := range f.Comments {
		for _, c := range group.List {
			edits = append(edits, commentEdit(src, tf.Offset(c.Pos()), tf.Offset(c.End())))
		}
	}

	insp := inspector.New([]*ast.File{f})
	insp.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(n ast.Node) {
		fd := n.(*ast.FuncDecl)
		if fd.Body == nil {
			return
		}
		edits = append(edits, Delete(tf.Offset(fd.Type.End()), tf.Offset(fd.Body.End())))
	})

	return Apply(src, edits)
}
