package flagstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSeed(t *testing.T) {
	flags, err := ParseSeed([]byte(`
flags:
  - id: beta_dashboard
    enabled: true
    description: Enable access to the new dashboard
  - id: 42
    enabled: false
    description: Numeric flag
  - id: "7"
    enabled: true
    description: Quoted number stays text
`))
	require.NoError(t, err)
	require.Equal(t, []Flag{
		{ID: TextID("beta_dashboard"), Enabled: true, Description: "Enable access to the new dashboard"},
		{ID: IntID(42), Enabled: false, Description: "Numeric flag"},
		{ID: TextID("7"), Enabled: true, Description: "Quoted number stays text"},
	}, flags)
}

func TestParseSeed_InvalidID(t *testing.T) {
	_, err := ParseSeed([]byte("flags:\n  - id: 1.5\n    enabled: true\n"))
	require.Error(t, err)

	_, err = ParseSeed([]byte("flags:\n  - enabled: true\n"))
	require.ErrorIs(t, err, ErrMissingField)
}

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.yaml")
	err := os.WriteFile(path, []byte("flags:\n  - id: 1\n    enabled: true\n    description: one\n"), 0o600)
	require.NoError(t, err)

	flags, err := LoadSeed(path)
	require.NoError(t, err)

	s, err := New(flags)
	require.NoError(t, err)
	f, err := s.Lookup("1")
	require.NoError(t, err)
	require.True(t, f.ID.IsInt())

	_, err = LoadSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestDefaultSeed(t *testing.T) {
	s, err := New(DefaultSeed())
	require.NoError(t, err)

	f, err := s.Lookup("beta_dashboard")
	require.NoError(t, err)
	require.True(t, f.Enabled)

	f, err = s.Lookup("live_chat")
	require.NoError(t, err)
	require.False(t, f.Enabled)
}
