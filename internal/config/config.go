// Package config holds the settings of the ecmago command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/FedeBP/ecmago/internal/transformer"
)

type Config struct {
	// Package is the package clause of generated files.
	Package string `yaml:"package"`
	// RuntimePath is the import path generated files use for the runtime.
	RuntimePath string `yaml:"runtime"`
	// Output is the file the translation is written to; empty means stdout.
	Output string `yaml:"output"`
	Log    Log    `yaml:"log"`
}

type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn or error
	Format string `yaml:"format"` // console or json
}

func Default() Config {
	return Config{
		Package:     "main",
		RuntimePath: transformer.DefaultRuntimePath,
		Log:         Log{Level: "warn", Format: "console"},
	}
}

// Load reads a YAML file over the defaults. An empty path yields the
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Package == "" {
		return errors.New("package must not be empty")
	}
	if !token.IsIdentifier(c.Package) || c.Package == "_" {
		return fmt.Errorf("package %q is not a valid Go package name", c.Package)
	}
	if c.RuntimePath == "" {
		return errors.New("runtime must not be empty")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log format %q: want console or json", c.Log.Format)
	}
	return nil
}

// Logger builds the logger described by c.Log. Logs go to stderr so they
// never mix with generated code on stdout.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if c.Log.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	zc.Encoding = c.Log.Format
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}

// TransformerOptions maps the configuration onto transformer options.
func (c Config) TransformerOptions(log *zap.Logger) []transformer.Option {
	return []transformer.Option{
		transformer.WithPackage(c.Package),
		transformer.WithRuntimePath(c.RuntimePath),
		transformer.WithLogger(log),
	}
}
