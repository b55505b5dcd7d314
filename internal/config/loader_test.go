package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMatchesDefault(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseOverridesKeepDefaults(t *testing.T) {
	doc := []byte(`
factorial:
  depth: 7
  return_delay: 250ms
bubblesort:
  initial: [3, 1, 2]
`)
	cfg, err := Parse(doc)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Factorial.Depth)
	assert.Equal(t, 250*time.Millisecond, cfg.Factorial.ReturnDelay)
	assert.Equal(t, 700*time.Millisecond, cfg.Factorial.TravelTime, "unset keys keep defaults")
	assert.Equal(t, []int{3, 1, 2}, cfg.BubbleSort.Initial)
	assert.Equal(t, 3, cfg.BubbleSort.Attempts)
	assert.Equal(t, PolicyLeftmost, cfg.Fibonacci.Policy)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"depth too large", "factorial:\n  depth: 42\n"},
		{"zero attempts", "bubblesort:\n  attempts: 0\n"},
		{"single element array", "bubblesort:\n  initial: [1]\n"},
		{"unknown policy", "fibonacci:\n  policy: random\n"},
		{"negative delay", "bubblesort:\n  reset_delay: -1s\n"},
		{"empty db path", "database:\n  path: \"\"\n"},
		{"malformed yaml", "factorial: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fibonacci:\n  n: 4\n  policy: open\n"), 0o600))

	cfg, src, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, SourceCustom, src)
	assert.Equal(t, 4, cfg.Fibonacci.N)
	assert.Equal(t, PolicyOpen, cfg.Fibonacci.Policy)
}

func TestLoadCustomPathMissing(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".algoquest")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("runtime:\n  tick_rate: 60\n"), 0o600))

	cfg, src, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, SourceUser, src)
	assert.Equal(t, 60, cfg.Runtime.TickRate)
}

func TestLoadSkipsBrokenUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".algoquest")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("runtime:\n  tick_rate: 0\n"), 0o600))

	cfg, src, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, SourceEmbedded, src)
	assert.Equal(t, 30, cfg.Runtime.TickRate)
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandHome("~/.algoquest/progress.db")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".algoquest", "progress.db"), got)

	got, err = ExpandHome("/tmp/x.db")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", got)
}
