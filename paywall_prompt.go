package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var promptStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(1, 2).
	Foreground(lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"})

// terminalPrompt renders the upgrade nudge after a free-tier user
// overcomes a craving.
type terminalPrompt struct{}

func (terminalPrompt) Show(context.Context) error {
	fmt.Println(promptStyle.Render("Enjoying nurtra? Unlock unlimited sessions\nand custom voices with nurtra premium."))
	return nil
}
