package document

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing_file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "missing.yml"))
		require.Error(t, err)

		var readErr *ReadError
		require.True(t, errors.As(err, &readErr))
		assert.Equal(t, "read", readErr.Op)
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("invalid_yaml", func(t *testing.T) {
		path := filepath.Join(dir, "broken.yml")
		require.NoError(t, os.WriteFile(path, []byte("a: [1, 2\n"), 0o644))

		_, err := Load(path)
		var readErr *ReadError
		require.True(t, errors.As(err, &readErr))
		assert.Equal(t, "parse", readErr.Op)
		assert.Equal(t, path, readErr.Path)
	})

	t.Run("empty_file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yml")
		require.NoError(t, os.WriteFile(path, nil, 0o644))

		doc, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 0, doc.Len())
	})
}

func TestSave_WritesHeaderThenBody(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	doc := mustParse(t, "use_papi: true\nmotd:\n  line1: a\n")

	require.NoError(t, Save(doc, path, Header{"# SolverMOTD", "# settings"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# SolverMOTD\n# settings\n\nuse_papi: true\nmotd:\n  line1: a\n", string(data))
}

func TestSave_NoHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, Save(mustParse(t, "a: 1\n"), path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", string(data))
}

func TestSave_LeavesNoTemporaryFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "messages.yml")
	require.NoError(t, os.WriteFile(path, []byte("old: true\n"), 0o600))

	require.NoError(t, Save(mustParse(t, "new: true\n"), path, nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "messages.yml", entries[0].Name())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o600), info.Mode().Perm(), "existing permissions are kept")
}

func TestSave_WriteErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing_directory", func(t *testing.T) {
		err := Save(New(), filepath.Join(dir, "nope", "config.yml"), nil)
		var writeErr *WriteError
		require.True(t, errors.As(err, &writeErr))
		assert.Equal(t, "create", writeErr.Op)
	})

	t.Run("destination_is_directory", func(t *testing.T) {
		target := filepath.Join(dir, "adir")
		require.NoError(t, os.Mkdir(target, 0o755))

		err := Save(New(), target, nil)
		var writeErr *WriteError
		require.True(t, errors.As(err, &writeErr))
	})
}

func commentLines(data string) []string {
	var out []string
	for _, line := range strings.Split(data, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			out = append(out, line)
		}
	}
	return out
}

func TestSave_HeaderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roundtrip.yml")

	rapid.Check(t, func(t *rapid.T) {
		header := Header(rapid.SliceOfN(rapid.StringMatching(`[ ]{0,2}#[ -~]{0,30}`), 0, 6).Draw(t, "header"))
		doc := genDocument(t, "body")

		if err := Save(doc, path, header); err != nil {
			t.Fatalf("save: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		got := commentLines(string(data))
		if len(header) == 0 && len(got) == 0 {
			return
		}
		if strings.Join(got, "\n") != strings.Join(header, "\n") {
			t.Fatalf("header mismatch:\nwant %q\ngot  %q", header, got)
		}

		back, err := Load(path)
		if err != nil {
			t.Fatalf("reload: %v", err)
		}
		a, _ := doc.Encode()
		b, _ := back.Encode()
		if string(a) != string(b) {
			t.Fatalf("body changed across save/load:\n%s\n---\n%s", a, b)
		}
	})
}
