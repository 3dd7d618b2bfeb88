package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	s, err := Open(path)
	require.NoError(t, err)

	type settings struct {
		Model   string `json:"model"`
		Enabled bool   `json:"enabled"`
	}
	require.NoError(t, s.Set("settings", settings{Model: "m1", Enabled: true}))

	var got settings
	ok, err := s.Get("settings", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, settings{Model: "m1", Enabled: true}, got)
}

func TestGetMissingKey(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)

	var v int
	ok, err := s.Get("absent", &v)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("counter", 42))

	s2, err := Open(path)
	require.NoError(t, err)

	var v int
	ok, err := s2.Get("counter", &v)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestSetAllSingleWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.SetAll(map[string]any{
		"a": []string{"x", "y"},
		"b": map[string]int{"n": 1},
	}))

	var a []string
	ok, err := s.Get("a", &a)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, a)

	var b map[string]int
	ok, err = s.Get("b", &b)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, b["n"])
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	s, err := Open(path)
	require.NoError(t, err)

	var v int
	ok, err := s.Get("anything", &v)
	require.NoError(t, err)
	assert.False(t, ok)
}
