package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvDefaults(t *testing.T) {
	ResetEnv()
	t.Cleanup(ResetEnv)

	e := Env()
	assert.Equal(t, ":3000", e.Addr)
	assert.Equal(t, DefaultModel, e.Model)
	assert.Equal(t, DefaultUpstream, e.Upstream)
}

func TestEnvOverrides(t *testing.T) {
	ResetEnv()
	t.Cleanup(ResetEnv)
	t.Setenv("NYAYA_ADDR", ":9999")
	t.Setenv("NYAYA_MODEL", "gemini-test")
	t.Setenv("GEMINI_API_KEY", "k1")

	e := Env()
	assert.Equal(t, ":9999", e.Addr)
	assert.Equal(t, "gemini-test", e.Model)
	assert.Equal(t, "k1", e.APIKey)
}

func TestAPIKeyFallsBackToGoogleKey(t *testing.T) {
	ResetEnv()
	t.Cleanup(ResetEnv)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "k2")

	assert.Equal(t, "k2", Env().APIKey)
}

func TestPathsDataDirOverride(t *testing.T) {
	ResetEnv()
	ResetPaths()
	t.Cleanup(func() {
		ResetEnv()
		ResetPaths()
	})

	dir := t.TempDir()
	t.Setenv("NYAYA_DATA_DIR", dir)

	p := GetPaths()
	assert.Equal(t, dir, p.Data)
	assert.Equal(t, filepath.Join(dir, "users.json"), p.UsersFile)
	assert.Equal(t, filepath.Join(dir, "chats.json"), p.ChatsFile)
}

func TestPrefsRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")

	require.NoError(t, SavePrefs(path, Prefs{TargetLanguage: "Hindi"}))
	assert.Equal(t, "Hindi", LoadPrefs(path).TargetLanguage)
}

func TestPrefsDefaultWhenAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	assert.Equal(t, NoTranslateLanguage, LoadPrefs(path).TargetLanguage)
}
