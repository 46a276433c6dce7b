package tui

import "github.com/arya/nyaya/internal/config"

// ToggleAction is what a translation toggle should do next.
type ToggleAction int

const (
	// ToggleNoop: translation is off (no-op target language).
	ToggleNoop ToggleAction = iota
	// ToggleShowOriginal: the message was translated; restore the original.
	ToggleShowOriginal
	// ToggleShowCached: render the cached translation, no network call.
	ToggleShowCached
	// ToggleFetch: no usable cache; a translation request is needed.
	ToggleFetch
)

// messageState is the per-message translation state: whether the
// translation is currently shown, plus a one-slot cache keyed by the
// language it was fetched for.
type messageState struct {
	translated bool
	loading    bool
	cachedText string
	cachedLang string
}

// Translations tracks per-message translation state together with the
// process-wide target-language preference. All mutations go through the
// defined transitions so the display and the cache cannot drift apart.
type Translations struct {
	targetLang string
	states     map[string]*messageState
}

// NewTranslations creates a store with the given target language.
func NewTranslations(targetLang string) *Translations {
	if targetLang == "" {
		targetLang = config.NoTranslateLanguage
	}
	return &Translations{targetLang: targetLang, states: map[string]*messageState{}}
}

// Language returns the current target language.
func (t *Translations) Language() string { return t.targetLang }

// Enabled reports whether translation controls are active. They are
// disabled iff the preference equals the no-op language.
func (t *Translations) Enabled() bool {
	return t.targetLang != config.NoTranslateLanguage
}

// SetLanguage changes the preference. Every message resets to showing
// its original text and drops its cache.
func (t *Translations) SetLanguage(lang string) {
	t.targetLang = lang
	t.states = map[string]*messageState{}
}

func (t *Translations) state(id string) *messageState {
	s, ok := t.states[id]
	if !ok {
		s = &messageState{}
		t.states[id] = s
	}
	return s
}

// Toggle decides the next action for a message. For ToggleShowOriginal
// and ToggleShowCached the state is updated immediately; ToggleFetch
// requires a BeginFetch/Fetch* pair around the network call. The second
// return value is the cached text for ToggleShowCached.
func (t *Translations) Toggle(id string) (ToggleAction, string) {
	if !t.Enabled() {
		return ToggleNoop, ""
	}
	s := t.state(id)

	if s.translated {
		s.translated = false
		return ToggleShowOriginal, ""
	}
	if s.cachedText != "" && s.cachedLang == t.targetLang {
		s.translated = true
		return ToggleShowCached, s.cachedText
	}
	return ToggleFetch, ""
}

// BeginFetch marks a translation request in flight; the control shows a
// loading indication while set.
func (t *Translations) BeginFetch(id string) {
	t.state(id).loading = true
}

// FetchSucceeded stores the result in the one-slot cache keyed to the
// language it was requested for and shows it.
func (t *Translations) FetchSucceeded(id, lang, text string) {
	s := t.state(id)
	s.loading = false
	s.cachedText = text
	s.cachedLang = lang
	s.translated = true
}

// FetchFailed restores the pre-request appearance; the message stays
// untranslated and the cache is untouched.
func (t *Translations) FetchFailed(id string) {
	t.state(id).loading = false
}

// Translated reports whether the message currently shows a translation.
func (t *Translations) Translated(id string) bool {
	return t.state(id).translated
}

// Loading reports whether a translation request is in flight.
func (t *Translations) Loading(id string) bool {
	return t.state(id).loading
}

// Display returns the text to render: the cached translation while
// translated, the original otherwise.
func (t *Translations) Display(id, original string) string {
	s := t.state(id)
	if s.translated && s.cachedText != "" {
		return s.cachedText
	}
	return original
}
