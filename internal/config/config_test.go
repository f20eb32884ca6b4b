package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/FedeBP/ecmago/internal/config"
	"github.com/FedeBP/ecmago/internal/transformer"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, cfg config.Config, err error)
	}{
		{
			name:  "Empty document keeps the defaults",
			input: "",
			check: func(t *testing.T, cfg config.Config, err error) {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				if cfg != config.Default() {
					t.Errorf("Expected defaults, got %+v", cfg)
				}
			},
		},
		{
			name:  "Overrides",
			input: "package: demo\nruntime: example.com/rt\noutput: out.go\nlog:\n  level: debug\n  format: json\n",
			check: func(t *testing.T, cfg config.Config, err error) {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				expected := config.Config{
					Package:     "demo",
					RuntimePath: "example.com/rt",
					Output:      "out.go",
					Log:         config.Log{Level: "debug", Format: "json"},
				}
				if cfg != expected {
					t.Errorf("Expected %+v, got %+v", expected, cfg)
				}
			},
		},
		{
			name:  "Partial log section",
			input: "log:\n  level: error\n",
			check: func(t *testing.T, cfg config.Config, err error) {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				if cfg.Log.Level != "error" || cfg.Log.Format != "console" {
					t.Errorf("Expected error level with console format, got %+v", cfg.Log)
				}
				if cfg.RuntimePath != transformer.DefaultRuntimePath {
					t.Errorf("Expected the default runtime, got %s", cfg.RuntimePath)
				}
			},
		},
		{
			name:  "Unknown key",
			input: "pakage: demo\n",
			check: func(t *testing.T, cfg config.Config, err error) {
				if err == nil || !strings.Contains(err.Error(), "pakage") {
					t.Errorf("Expected an error naming the key, got %v", err)
				}
			},
		},
		{
			name:  "Bad level",
			input: "log:\n  level: loud\n",
			check: func(t *testing.T, cfg config.Config, err error) {
				if err == nil || !strings.Contains(err.Error(), "log level") {
					t.Errorf("Expected a log level error, got %v", err)
				}
			},
		},
		{
			name:  "Bad format",
			input: "log:\n  format: xml\n",
			check: func(t *testing.T, cfg config.Config, err error) {
				if err == nil || !strings.Contains(err.Error(), "xml") {
					t.Errorf("Expected a log format error, got %v", err)
				}
			},
		},
		{
			name:  "Package that is not an identifier",
			input: "package: foo-bar\n",
			check: func(t *testing.T, cfg config.Config, err error) {
				if err == nil || !strings.Contains(err.Error(), "foo-bar") {
					t.Errorf("Expected an error naming the package, got %v", err)
				}
			},
		},
		{
			name:  "Keyword package",
			input: "package: func\n",
			check: func(t *testing.T, cfg config.Config, err error) {
				if err == nil {
					t.Error("Expected an error")
				}
			},
		},
		{
			name:  "Empty package",
			input: "package: \"\"\n",
			check: func(t *testing.T, cfg config.Config, err error) {
				if err == nil {
					t.Error("Expected an error")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Parse([]byte(tt.input))
			tt.check(t, cfg, err)
		})
	}
}

func TestLoad(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil || cfg != config.Default() {
		t.Errorf("Expected defaults for an empty path, got %+v, %v", cfg, err)
	}

	path := filepath.Join(t.TempDir(), "ecmago.yaml")
	if err := os.WriteFile(path, []byte("package: lib\n"), 0o644); err != nil {
		t.Fatalf("Expected to write the config, got %v", err)
	}
	cfg, err = config.Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Package != "lib" {
		t.Errorf("Expected lib, got %s", cfg.Package)
	}

	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestLogger(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		t.Run(format, func(t *testing.T) {
			cfg := config.Default()
			cfg.Log.Format = format
			cfg.Log.Level = "info"
			log, err := cfg.Logger()
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if log.Core().Enabled(zap.DebugLevel) || !log.Core().Enabled(zap.InfoLevel) {
				t.Errorf("Expected info and above to be enabled")
			}
		})
	}
}

func TestTransformerOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Package = "demo"
	opts := cfg.TransformerOptions(zap.NewNop())
	if len(opts) != 3 {
		t.Fatalf("Expected 3 options, got %d", len(opts))
	}
	tr := transformer.NewTransformer(opts...)
	file, err := tr.Transform(nil)
	if err == nil || file != nil {
		t.Errorf("Expected a nil program to fail, got %v", err)
	}
}
