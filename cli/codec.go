package cli

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/config"
)

// formatOf picks the model format from a file extension. Anything that is not
// YAML is read as JSON.
func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return config.FormatYAML
	default:
		return config.FormatJSON
	}
}

func encode(w io.Writer, format string, v any) error {
	if format == config.FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encode json")
}

func writeFile(path, format string, v any) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()

	return encode(f, format, v)
}

// readAST decodes a declaration model written by extract.
func readAST(path string) (*cdecl.AST, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	ast := cdecl.NewAST("")
	if formatOf(path) == config.FormatYAML {
		err = yaml.Unmarshal(data, ast)
	} else {
		err = json.Unmarshal(data, ast)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}

	if _, err := ast.Platform.Triple(); err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}

	return ast, nil
}

func modelFile(dir, name, format string) string {
	return filepath.Join(dir, name+"."+format)
}
