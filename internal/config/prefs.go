package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// NoTranslateLanguage is the preference value under which translation is a
// no-op: assistant replies already arrive in it.
const NoTranslateLanguage = "English"

// Prefs are client preferences persisted across sessions.
type Prefs struct {
	// TargetLanguage is the language assistant replies are translated
	// into on demand.
	TargetLanguage string `json:"targetLanguage"`
}

// LoadPrefs reads the preference file. An absent or unreadable file
// yields defaults.
func LoadPrefs(path string) Prefs {
	prefs := Prefs{TargetLanguage: NoTranslateLanguage}
	data, err := os.ReadFile(path)
	if err != nil {
		return prefs
	}
	if err := json.Unmarshal(data, &prefs); err != nil || prefs.TargetLanguage == "" {
		prefs.TargetLanguage = NoTranslateLanguage
	}
	return prefs
}

// SavePrefs writes the preference file, creating its directory if needed.
func SavePrefs(path string, prefs Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
