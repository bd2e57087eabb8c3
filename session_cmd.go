package main

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/nurtra/nurtra/ui"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Start a craving-intervention session",
	Long:  "\nStart a craving session: your selected apps lock, your personalized quotes play aloud on a loop, and your binge-free timer stays on screen until you resolve the craving.",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		cfg, err := env.ParseAs[ui.Config]()
		if err != nil {
			return fmt.Errorf("error parsing config: %v", err)
		}

		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := context.Background()

		// Restore the binge-free timer so the session shows real elapsed
		// time even right after a restart.
		if err := a.timer.FetchAndResume(ctx); err != nil {
			return err
		}

		p := ui.NewProgram(cfg, a.session, a.timer, a.loop)
		a.loop.OnQuote(func(index int, text string) {
			p.Send(ui.QuoteMsg{Index: index, Text: text})
		})

		if err := a.session.Enter(ctx); err != nil {
			return err
		}
		// The session must never outlive the UI, whatever key ended it.
		defer a.session.Abandon()

		if _, err := p.Run(); err != nil {
			return fmt.Errorf("unable to run tui program: %w", err)
		}

		// Give the detached persistence writes a moment to land before the
		// store closes.
		time.Sleep(100 * time.Millisecond)
		return nil
	},
}
