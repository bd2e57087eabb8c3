// Package restrict decides when the user's configured app-blocking
// selection is enforced. The enforcement mechanism itself is platform
// specific and consumed as an opaque capability; this package owns the
// persisted selection, the lock flag, and the auto-lock/unlock policy
// around a craving session.
package restrict

// Selection is the opaque set of blockable targets the user configured.
// The token strings are platform identifiers; this package never
// interprets them.
type Selection struct {
	Applications []string `json:"applications"`
	Categories   []string `json:"categories"`
	Domains      []string `json:"domains"`
}

// IsEmpty reports whether nothing at all is selected.
func (s Selection) IsEmpty() bool {
	return len(s.Applications) == 0 && len(s.Categories) == 0 && len(s.Domains) == 0
}

// Count returns the total number of selected targets.
func (s Selection) Count() int {
	return len(s.Applications) + len(s.Categories) + len(s.Domains)
}

// Platform applies or clears the restriction at the OS level. Calls are
// fire-and-forget: the original enforcement API exposes no useful result,
// so none is modeled here.
type Platform interface {
	Apply(sel Selection)
	Clear()
}

// NoopPlatform is the implementation for hosts without a restriction
// mechanism.
type NoopPlatform struct{}

func (NoopPlatform) Apply(Selection) {}
func (NoopPlatform) Clear()          {}

// SettingsStore persists the selection and lock flag locally. Load
// returns ok=false when no selection has been saved or the stored bytes
// do not decode; callers treat both as "nothing to lock".
type SettingsStore interface {
	LoadSelection() (sel Selection, ok bool, err error)
	SaveSelection(sel Selection) error
	Locked() (bool, error)
	SetLocked(locked bool) error
}
