package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("full config", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "cfg.yaml",
			"from: markdown\nto: html\nwrap: none\ncolumns: 100\nstandalone: true\nworkers: 2\n")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.From != "markdown" || cfg.To != "html" {
			t.Errorf("formats = %q/%q", cfg.From, cfg.To)
		}
		if cfg.Wrap != "none" || cfg.Columns != 100 {
			t.Errorf("wrap = %q, columns = %d", cfg.Wrap, cfg.Columns)
		}
		if !cfg.Standalone || cfg.Workers != 2 {
			t.Errorf("standalone = %v, workers = %d", cfg.Standalone, cfg.Workers)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "bad.yaml", ":\n :bad")
		if _, err := Load(path); !errors.Is(err, ErrParse) {
			t.Errorf("err = %v, want ErrParse", err)
		}
	})
}
