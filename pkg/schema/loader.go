package schema

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// EnvAPIPath is the environment variable the plugin adapter reads the
// schema file's location from at init.
const EnvAPIPath = "AUTO_DRIVER_FUNCTION_API_PATH"

// Load reads a schema document from path, tolerating JSONC-style comments
// and trailing commas so schema authors can annotate declarations, then
// parses and fully resolves it into a Tables. This domain loads exactly
// one schema per process lifetime (§3.4/§5), so unlike a general-purpose
// schema loader this keeps no cache and tracks no imports.
func Load(path string) (*Tables, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}

	root, err := ParseJSONC(raw)
	if err != nil {
		return nil, fmt.Errorf("schema: %s: %w", path, err)
	}

	return Resolve(root)
}

// ParseJSONC strips `//`/`/* */` comments and trailing commas from raw via
// hujson.Standardize, then decodes it into a Root. It does not resolve the
// result; callers that want a usable Tables should pass it to Resolve.
func ParseJSONC(raw []byte) (*Root, error) {
	standardized, err := hujson.Standardize(raw)
	if err != nil {
		return nil, fmt.Errorf("not valid JSONC: %w", err)
	}

	var root Root
	if err := json.Unmarshal(standardized, &root); err != nil {
		return nil, err
	}
	return &root, nil
}

// LoadFromEnv reads the schema path from EnvAPIPath and loads it, the
// path plugin.Init follows per §4.6/§6.5.
func LoadFromEnv() (*Tables, error) {
	path := os.Getenv(EnvAPIPath)
	if path == "" {
		return nil, ErrMissingAPIPathEnv
	}
	return Load(path)
}
