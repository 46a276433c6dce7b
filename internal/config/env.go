// Package config provides centralized configuration management.
// All environment lookups live here instead of being scattered
// across the codebase.
package config

import (
	"os"
	"path/filepath"
	"sync"
)

// DefaultModel is the generation model used for both queries and
// translation unless NYAYA_MODEL overrides it.
const DefaultModel = "gemini-2.5-flash-preview-05-20"

// DefaultUpstream is the generative-language API base URL.
const DefaultUpstream = "https://generativelanguage.googleapis.com/v1beta/models"

// NyayaEnv holds all nyaya environment variables.
type NyayaEnv struct {
	// Addr is the listen address for the HTTP API (NYAYA_ADDR)
	Addr string

	// DataDir overrides the default data directory (NYAYA_DATA_DIR)
	DataDir string

	// APIKey is the generative-language API key (GEMINI_API_KEY, GOOGLE_API_KEY)
	APIKey string

	// Model is the generation model id (NYAYA_MODEL)
	Model string

	// Upstream is the generative-language API base URL (NYAYA_UPSTREAM)
	Upstream string

	// ServerURL is the API base URL used by the terminal client (NYAYA_SERVER)
	ServerURL string
}

var (
	env     *NyayaEnv
	envOnce sync.Once
)

// Env returns the singleton environment configuration.
// Thread-safe, loads once on first call.
func Env() *NyayaEnv {
	envOnce.Do(func() {
		key := os.Getenv("GEMINI_API_KEY")
		if key == "" {
			key = os.Getenv("GOOGLE_API_KEY")
		}
		env = &NyayaEnv{
			Addr:      getEnvDefault("NYAYA_ADDR", ":3000"),
			DataDir:   os.Getenv("NYAYA_DATA_DIR"),
			APIKey:    key,
			Model:     getEnvDefault("NYAYA_MODEL", DefaultModel),
			Upstream:  getEnvDefault("NYAYA_UPSTREAM", DefaultUpstream),
			ServerURL: getEnvDefault("NYAYA_SERVER", "http://localhost:3000"),
		}
	})
	return env
}

// ResetEnv resets the cached environment (for testing).
func ResetEnv() {
	envOnce = sync.Once{}
	env = nil
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Paths holds standard nyaya directory paths.
type Paths struct {
	// Home is the nyaya home directory (~/.nyaya)
	Home string

	// Data is the data directory holding the JSON collections
	Data string

	// UsersFile is the accounts collection (users.json)
	UsersFile string

	// ChatsFile is the chats collection (chats.json)
	ChatsFile string

	// PrefsFile is the persisted client preference file (prefs.json)
	PrefsFile string
}

var (
	paths     *Paths
	pathsOnce sync.Once
)

// GetPaths returns the singleton paths configuration.
// NYAYA_DATA_DIR replaces the default data directory when set.
func GetPaths() *Paths {
	pathsOnce.Do(func() {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		nyayaHome := filepath.Join(home, ".nyaya")

		data := filepath.Join(nyayaHome, "data")
		if dir := Env().DataDir; dir != "" {
			data = dir
		}

		paths = &Paths{
			Home:      nyayaHome,
			Data:      data,
			UsersFile: filepath.Join(data, "users.json"),
			ChatsFile: filepath.Join(data, "chats.json"),
			PrefsFile: filepath.Join(nyayaHome, "prefs.json"),
		}
	})
	return paths
}

// ResetPaths resets the cached paths (for testing).
func ResetPaths() {
	pathsOnce = sync.Once{}
	paths = nil
}

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
