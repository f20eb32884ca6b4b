// Package generator renders translated Go syntax trees as gofmt'ed source.
package generator

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/token"
	"io"
)

type Generator struct {
	fset *token.FileSet
}

func NewGenerator() *Generator {
	return &Generator{
		fset: token.NewFileSet(),
	}
}

// GenerateGoCode returns the complete source of file, package clause and
// imports included.
func (g *Generator) GenerateGoCode(file *ast.File) (string, error) {
	var buf bytes.Buffer
	if err := g.Write(&buf, file); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write renders file to w. Nothing is written when formatting fails.
func (g *Generator) Write(w io.Writer, file *ast.File) error {
	if file == nil {
		return fmt.Errorf("generate: nil file")
	}
	var buf bytes.Buffer
	if err := format.Node(&buf, g.fset, file); err != nil {
		return fmt.Errorf("generate %s: %w", file.Name.Name, err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
