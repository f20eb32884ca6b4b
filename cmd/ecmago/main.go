package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/FedeBP/ecmago/internal/config"
	"github.com/FedeBP/ecmago/internal/generator"
	"github.com/FedeBP/ecmago/internal/parser"
	"github.com/FedeBP/ecmago/internal/transformer"
	"github.com/FedeBP/ecmago/pkg/ast"
)

const historyFile = ".ecmago_history"

var (
	configPath = flag.String("config", "", "YAML configuration file")
	output     = flag.String("o", "", "Write the generated Go code to this file instead of stdout")
	dumpAST    = flag.Bool("dump-ast", false, "Print the parsed JavaScript syntax tree and stop")
	logLevel   = flag.String("log-level", "", "Override the configured log level (debug, info, warn, error)")
	pkgName    = flag.String("package", "", "Override the package name of the generated file")
	repl       = flag.Bool("repl", false, "Translate JavaScript typed interactively")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: ecmago [flags] file.js\n       ecmago -repl\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	os.Exit(run())
}

func run() int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	log, err := cfg.Logger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer func() { _ = log.Sync() }()

	t := transformer.NewTransformer(cfg.TransformerOptions(log)...)
	if *repl {
		return runRepl(t, log)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		return 2
	}
	if err := translateFile(t, cfg, flag.Arg(0)); err != nil {
		log.Error("translation failed", zap.String("file", flag.Arg(0)), zap.Error(err))
		return 1
	}
	return 0
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return cfg, err
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *pkgName != "" {
		cfg.Package = *pkgName
	}
	if *output != "" {
		cfg.Output = *output
	}
	return cfg, cfg.Validate()
}

func translateFile(t *transformer.Transformer, cfg config.Config, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	program, err := parser.Parse(path, string(src))
	if err != nil {
		return err
	}
	if *dumpAST {
		return ast.Fprint(os.Stdout, program)
	}

	file, err := t.Transform(program)
	if err != nil {
		return err
	}
	code, err := generator.NewGenerator().GenerateGoCode(file)
	if err != nil {
		return err
	}
	if cfg.Output == "" {
		_, err = io.WriteString(os.Stdout, code)
		return err
	}
	return os.WriteFile(cfg.Output, []byte(code), 0o644)
}

func runRepl(t *transformer.Transformer, log *zap.Logger) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	gen := generator.NewGenerator()
	for {
		program, src, ok := readProgram(ln)
		if !ok {
			fmt.Println()
			return 0
		}
		if strings.TrimSpace(src) == ":quit" {
			return 0
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if program == nil {
			continue
		}

		file, err := t.Transform(program)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		code, err := gen.GenerateGoCode(file)
		if err != nil {
			log.Error("generate", zap.Error(err))
			continue
		}
		fmt.Print(code)
	}
}

// readProgram prompts until the lines typed so far parse, or fail to parse
// for a reason other than ending too early. A nil program means the input
// was blank or invalid; the error has been reported.
func readProgram(ln *liner.State) (*ast.Program, string, bool) {
	var b strings.Builder
	for {
		prompt := "js> "
		if b.Len() > 0 {
			prompt = "... "
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return nil, "", false
		}
		if err != nil {
			return nil, "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.TrimSpace(src) == "" || strings.HasPrefix(strings.TrimSpace(src), ":") {
			return nil, src, true
		}
		program, err := parser.Parse("<repl>", src)
		if err == nil {
			return program, src, true
		}
		if strings.Contains(err.Error(), "Unexpected end of input") {
			continue
		}
		fmt.Fprintln(os.Stderr, err)
		return nil, src, true
	}
}
