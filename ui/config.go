package ui

// Config contains TUI-specific configuration.
type Config struct {
	HomeDir string `env:"HOME"`

	// ShowQuoteIndex displays the position of the current quote within
	// the shuffled set.
	ShowQuoteIndex bool `env:"NURTRA_SHOW_QUOTE_INDEX"`

	// For debugging the UI
	AltScreen bool `env:"NURTRA_ALT_SCREEN" envDefault:"true"`
}
