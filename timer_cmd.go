package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nurtra/nurtra/store"
	"github.com/nurtra/nurtra/timer"
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Manage the binge-free timer",
}

var timerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new binge-free timer",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := context.Background()
		if err := a.timer.FetchAndResume(ctx); err != nil && !errors.Is(err, timer.ErrNotAuthenticated) {
			return err
		}
		if err := a.timer.Start(ctx); err != nil {
			if errors.Is(err, timer.ErrTimerRunning) {
				fmt.Println("A timer is already running. Use `nurtra timer status` to see it.")
				return nil
			}
			return err
		}
		fmt.Println("Binge-free timer started.")

		// Give the detached persistence write a moment to land before the
		// store closes.
		time.Sleep(100 * time.Millisecond)
		return nil
	},
}

var timerStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the timer and log the binge-free period",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := context.Background()
		if err := a.timer.FetchAndResume(ctx); err != nil {
			return err
		}
		if err := a.timer.StopAndLogPeriod(ctx); err != nil {
			if errors.Is(err, timer.ErrTimerNotRunning) {
				fmt.Println("No timer is running.")
				return nil
			}
			return err
		}
		fmt.Printf("Stopped at %s. Period logged.\n", timer.FormatElapsed(a.timer.Elapsed()))

		// Give the detached persistence writes a moment to land before
		// the store closes.
		time.Sleep(100 * time.Millisecond)
		return nil
	},
}

var timerResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the timer without logging a period",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := context.Background()
		if err := a.timer.FetchAndResume(ctx); err != nil {
			return err
		}
		if err := a.timer.Reset(ctx); err != nil {
			return err
		}
		fmt.Println("Timer reset.")
		time.Sleep(100 * time.Millisecond)
		return nil
	},
}

var timerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the timer and recent binge-free periods",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := context.Background()
		if err := a.timer.FetchAndResume(ctx); err != nil {
			return err
		}

		switch a.timer.State() {
		case timer.Running:
			fmt.Printf("Running: %s (started %s)\n",
				timer.FormatElapsed(a.timer.Elapsed()),
				humanize.Time(a.timer.StartTime()))
		case timer.Stopped:
			fmt.Printf("Stopped at %s\n", timer.FormatElapsed(a.timer.Elapsed()))
		default:
			fmt.Println("No timer has been started.")
		}

		userID, err := a.userID()
		if err != nil {
			return err
		}
		periods, err := a.store.Periods().Recent(ctx, userID, 5)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if len(periods) > 0 {
			fmt.Println("\nRecent binge-free periods:")
			for _, p := range periods {
				fmt.Printf("  %s  (%s)\n", timer.FormatElapsed(p.Duration), humanize.Time(p.EndTime))
			}
		}
		return nil
	},
}

func init() {
	timerCmd.AddCommand(timerStartCmd, timerStopCmd, timerResetCmd, timerStatusCmd)
}
