package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadParsesJSONCWithCommentsAndTrailingCommas(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.jsonc")
	doc := `{
  // decision bits are cheap to grow later
  "decision_bits_per_iteration": 2,
  "minimal_init_chaining_variables_size": 0,
  "types": [],
  "functions": [
    {
      "name": "f",
      "return_type": {"type": "void"},
      "parameter_types": [
        {"opaque": false, "type": "int"},
      ],
    },
  ],
}`
	writeFile(t, path, doc)

	tables, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tables.Functions) != 1 || tables.Functions[0].Name != "f" {
		t.Fatalf("unexpected functions: %+v", tables.Functions)
	}
}

func TestLoadFromEnvMissingVar(t *testing.T) {
	t.Setenv(EnvAPIPath, "")
	if _, err := LoadFromEnv(); !errors.Is(err, ErrMissingAPIPathEnv) {
		t.Fatalf("err = %v, want ErrMissingAPIPathEnv", err)
	}
}

func TestLoadFromEnvReadsConfiguredPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")
	writeFile(t, path, `{
		"decision_bits_per_iteration": 1,
		"minimal_init_chaining_variables_size": 0,
		"types": [],
		"functions": []
	}`)
	t.Setenv(EnvAPIPath, path)

	tables, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if tables.DecisionBitsPerIteration != 1 {
		t.Errorf("DecisionBitsPerIteration = %d, want 1", tables.DecisionBitsPerIteration)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/schema.json"); err == nil {
		t.Fatal("expected an error loading a nonexistent file")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
