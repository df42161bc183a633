package settings

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const compiledHeader = `# Index settings managed by index-settings.
#
# Edit this file and run "index-settings upload <index>" to push the changes,
# or run "index-settings download <index>" to replace it with the live settings.`

// CompileError is returned when a settings object cannot be written to its
// local artifact.
type CompileError struct {
	Path string
	Err  error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile settings to %s: %v", e.Path, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Compiler writes settings objects to the YAML artifact read back by Decode.
type Compiler struct{}

// NewCompiler creates a new Compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile serializes s and atomically replaces the file at path with it.
// Missing parent directories are created.
func (*Compiler) Compile(s Settings, path string) error {
	data, err := Encode(s)
	if err != nil {
		return &CompileError{Path: path, Err: err}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &CompileError{Path: path, Err: err}
	}

	// Write to a temporary file in the same directory so the rename is atomic
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &CompileError{Path: path, Err: err}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return &CompileError{Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return &CompileError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return &CompileError{Path: path, Err: err}
	}
	// CreateTemp uses 0600; artifacts are meant to be committed and shared
	if err := os.Chmod(tmpPath, 0644); err != nil {
		_ = os.Remove(tmpPath)
		return &CompileError{Path: path, Err: err}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return &CompileError{Path: path, Err: err}
	}

	return nil
}

// Encode renders s as a YAML document with a header comment, keeping the key
// order of s.
func Encode(s Settings) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode, HeadComment: compiledHeader}
	for _, k := range s.keys {
		// Validate the value up front so NaN and friends fail as serialization errors
		if _, err := CanonicalValue(s.values[k]); err != nil {
			return nil, fmt.Errorf("setting %q: %w", k, err)
		}

		var value yaml.Node
		if err := value.Encode(Plain(s.values[k])); err != nil {
			return nil, fmt.Errorf("%w: setting %q: %v", ErrSerialization, k, err)
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&value,
		)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return buf.Bytes(), nil
}

// Decode parses a YAML artifact produced by Encode (or edited by hand) into
// settings, preserving the order of top-level keys. An empty document yields
// empty settings.
func Decode(data []byte) (Settings, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	out := New()
	if root.Kind == 0 || len(root.Content) == 0 {
		return out, nil
	}

	doc := root.Content[0]
	if doc.Kind == yaml.ScalarNode && doc.Tag == "!!null" {
		return out, nil
	}
	if doc.Kind != yaml.MappingNode {
		return Settings{}, fmt.Errorf("%w: settings document must be a mapping, line %d", ErrSerialization, doc.Line)
	}

	for i := 0; i+1 < len(doc.Content); i += 2 {
		keyNode, valueNode := doc.Content[i], doc.Content[i+1]
		var value any
		if err := valueNode.Decode(&value); err != nil {
			return Settings{}, fmt.Errorf("%w: setting %q: %v", ErrSerialization, keyNode.Value, err)
		}
		out.Set(keyNode.Value, Plain(value))
	}
	return out, nil
}
