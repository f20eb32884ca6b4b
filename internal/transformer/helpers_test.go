package transformer_test

import (
	"bytes"
	"go/ast"
	"go/format"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	jsparser "github.com/FedeBP/ecmago/internal/parser"
	"github.com/FedeBP/ecmago/internal/generator"
	"github.com/FedeBP/ecmago/internal/transformer"
	jsast "github.com/FedeBP/ecmago/pkg/ast"
)

const runtimeDir = "../../pkg/runtime"

// parseJS parses src and fails the test on syntax errors.
func parseJS(t *testing.T, src string) *jsast.Program {
	t.Helper()
	program, err := jsparser.Parse("test.js", src)
	if err != nil {
		t.Fatalf("Expected %q to parse, got %v", src, err)
	}
	return program
}

// firstStatement parses src and returns its first statement.
func firstStatement(t *testing.T, src string) jsast.Statement {
	t.Helper()
	program := parseJS(t, src)
	if len(program.Body) == 0 {
		t.Fatalf("Expected a statement in %q", src)
	}
	return program.Body[0]
}

// expression parses src as a single expression statement.
func expression(t *testing.T, src string) jsast.Expression {
	t.Helper()
	es, ok := firstStatement(t, src).(*jsast.ExpressionStatement)
	if !ok {
		t.Fatalf("Expected an expression statement in %q", src)
	}
	return es.Expression
}

// render prints the statements of r, then its expression, one per line.
func render(t *testing.T, r transformer.Result) string {
	t.Helper()
	fset := token.NewFileSet()
	var parts []string
	print := func(n any) {
		var buf bytes.Buffer
		if err := format.Node(&buf, fset, n); err != nil {
			t.Fatalf("Expected printable Go, got %v", err)
		}
		parts = append(parts, buf.String())
	}
	for _, s := range r.Stmts {
		print(s)
	}
	if r.Expr != nil {
		print(r.Expr)
	}
	return strings.Join(parts, "\n")
}

// generate translates a whole program to Go source.
func generate(t *testing.T, src string, opts ...transformer.Option) string {
	t.Helper()
	file, err := transformer.NewTransformer(opts...).Transform(parseJS(t, src))
	if err != nil {
		t.Fatalf("Expected %q to translate, got %v", src, err)
	}
	code, err := generator.NewGenerator().GenerateGoCode(file)
	if err != nil {
		t.Fatalf("Expected generated code to print, got %v", err)
	}
	return code
}

var (
	runtimeOnce sync.Once
	runtimePkg  *types.Package
	runtimeErr  error
)

// runtimePackage type-checks pkg/runtime from source once per test binary.
func runtimePackage(t *testing.T) *types.Package {
	t.Helper()
	runtimeOnce.Do(func() {
		fset := token.NewFileSet()
		paths, err := filepath.Glob(filepath.Join(runtimeDir, "*.go"))
		if err != nil {
			runtimeErr = err
			return
		}
		var files []*ast.File
		for _, path := range paths {
			if strings.HasSuffix(path, "_test.go") {
				continue
			}
			f, err := parser.ParseFile(fset, path, nil, 0)
			if err != nil {
				runtimeErr = err
				return
			}
			files = append(files, f)
		}
		conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}
		runtimePkg, runtimeErr = conf.Check(transformer.DefaultRuntimePath, fset, files, nil)
	})
	if runtimeErr != nil {
		t.Fatalf("Expected the runtime to type-check, got %v", runtimeErr)
	}
	return runtimePkg
}

type runtimeImporter struct {
	runtime  *types.Package
	fallback types.Importer
}

func (i runtimeImporter) Import(path string) (*types.Package, error) {
	if path == transformer.DefaultRuntimePath {
		return i.runtime, nil
	}
	return i.fallback.Import(path)
}

// typeCheck reports every compile error in generated source.
func typeCheck(t *testing.T, code string) {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "main.go", code, 0)
	if err != nil {
		t.Fatalf("Expected generated code to parse, got %v\n%s", err, code)
	}
	var errs []string
	conf := types.Config{
		Importer: runtimeImporter{runtime: runtimePackage(t), fallback: importer.ForCompiler(fset, "source", nil)},
		Error:    func(err error) { errs = append(errs, err.Error()) },
	}
	_, _ = conf.Check("main", fset, []*ast.File{f}, nil)
	if len(errs) > 0 {
		t.Fatalf("Expected generated code to type-check, got:\n%s\n\n%s", strings.Join(errs, "\n"), code)
	}
}

// moduleTempDir creates a directory inside the module so that generated
// programs resolve the runtime import. The leading underscore keeps it out
// of ./... patterns.
func moduleTempDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp(".", "_e2e")
	if err != nil {
		t.Fatalf("Expected a temp dir, got %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	abs, err := filepath.Abs(dir)
	if err != nil {
		t.Fatalf("Expected an absolute path, got %v", err)
	}
	return abs
}
