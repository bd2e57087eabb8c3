package main

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// setupLog routes structured logging to a file when NURTRA_LOGFILE is
// set, and silences it otherwise so the TUI stays clean.
func setupLog() (func() error, error) {
	if file := viper.GetString("logfile"); file != "" {
		f, err := tea.LogToFile(file, "nurtra")
		if err != nil {
			return nil, fmt.Errorf("error setting up log: %w", err)
		}
		log.SetOutput(f)
		log.SetLevel(log.DebugLevel)
		return f.Close, nil
	}
	log.SetOutput(io.Discard)
	return func() error { return nil }, nil
}
