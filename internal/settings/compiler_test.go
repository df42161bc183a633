package settings

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSettings() Settings {
	s := New()
	s.Set("searchableAttributes", []any{"title", "unordered(description)"})
	s.Set("attributesForFaceting", []any{"searchable(brand)", "filterOnly(price)"})
	s.Set("customRanking", []any{"desc(popularity)"})
	s.Set("hitsPerPage", 20)
	s.Set("minProximity", 1.5)
	s.Set("advancedSyntax", false)
	s.Set("distinct", nil)
	s.Set("typoTolerance", map[string]any{"enabled": true, "minWordSizefor1Typo": 4})
	s.Set("synonyms", []any{map[string]any{"input": "tv", "synonyms": []any{"television"}}})
	s.Set("true", "key that looks like a boolean")
	return s
}

func TestCompiler_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "settings-products.yaml")
	in := sampleSettings()

	require.NoError(t, NewCompiler().Compile(in, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Index settings managed by index-settings."))

	out, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, in.Keys(), out.Keys(), "key order must survive compilation")
	assert.True(t, Equal(in, out))

	inHash, err := NewEncrypter().Encrypt(in)
	require.NoError(t, err)
	outHash, err := NewEncrypter().Encrypt(out)
	require.NoError(t, err)
	assert.Equal(t, inHash, outHash)
}

func TestCompiler_OverwritesAtomically(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings-products.yaml")
	compiler := NewCompiler()

	require.NoError(t, compiler.Compile(FromMap(map[string]any{"hitsPerPage": 10}), path))
	require.NoError(t, compiler.Compile(FromMap(map[string]any{"hitsPerPage": 30}), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out, err := Decode(data)
	require.NoError(t, err)
	v, _ := out.Get("hitsPerPage")
	assert.Equal(t, 30, v)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files may be left behind")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestCompiler_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unserializable value", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "settings.yaml")
		s := New()
		s.Set("minProximity", math.NaN())

		err := NewCompiler().Compile(s, path)
		require.Error(t, err)

		var compileErr *CompileError
		require.True(t, errors.As(err, &compileErr))
		assert.Equal(t, path, compileErr.Path)
		assert.True(t, errors.Is(err, ErrSerialization))

		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("destination is a directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "settings.yaml")
		require.NoError(t, os.MkdirAll(filepath.Join(path, "child"), 0755))

		err := NewCompiler().Compile(sampleSettings(), path)
		var compileErr *CompileError
		require.True(t, errors.As(err, &compileErr))
	})
}

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected map[string]any
		wantErr  bool
	}{
		{
			name:     "empty document",
			input:    "",
			expected: map[string]any{},
		},
		{
			name:     "comment only",
			input:    "# nothing to see\n",
			expected: map[string]any{},
		},
		{
			name:     "explicit null",
			input:    "~\n",
			expected: map[string]any{},
		},
		{
			name:  "hand edited file",
			input: "searchableAttributes:\n  - title\nhitsPerPage: 20\nranking: [typo, geo]\n",
			expected: map[string]any{
				"searchableAttributes": []any{"title"},
				"hitsPerPage":          20,
				"ranking":              []any{"typo", "geo"},
			},
		},
		{
			name:    "sequence document",
			input:   "- a\n- b\n",
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			input:   "a: [b\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := Decode([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrSerialization))
				return
			}
			require.NoError(t, err)
			assert.True(t, Equal(FromMap(tt.expected), out))
		})
	}
}
