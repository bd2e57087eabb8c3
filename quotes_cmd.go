package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nurtra/nurtra/store"
	"github.com/nurtra/nurtra/survey"
)

var (
	surveyFile string
	prewarm    bool
)

var quotesCmd = &cobra.Command{
	Use:   "quotes",
	Short: "Manage your personalized motivational quotes",
}

var quotesGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a fresh quote set from your survey answers",
	Long:  "\nGenerate a personalized quote set from onboarding survey answers, replacing any existing set, and optionally pre-synthesize the audio so sessions start instantly.",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		data, err := os.ReadFile(surveyFile)
		if err != nil {
			return fmt.Errorf("read survey file: %w", err)
		}
		var responses survey.OnboardingResponses
		if err := json.Unmarshal(data, &responses); err != nil {
			return fmt.Errorf("parse survey file: %w", err)
		}

		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		userID, err := a.userID()
		if err != nil {
			return err
		}

		ctx := context.Background()
		quotes, err := a.quotegen.GenerateAndStore(ctx, userID, responses)
		if err != nil {
			return err
		}
		if err := a.store.Surveys().SaveOnboarding(ctx, userID, responses); err != nil {
			return fmt.Errorf("save survey: %w", err)
		}
		if err := a.store.Profiles().MarkOnboardingComplete(ctx, userID); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		fmt.Printf("Generated %d quotes.\n", len(quotes))

		if prewarm {
			fmt.Println("Pre-synthesizing audio, this may take a while...")
			a.quotegen.Prewarm(ctx, quotes)
		}
		return nil
	},
}

var quotesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the stored quote set",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		userID, err := a.userID()
		if err != nil {
			return err
		}
		quotes, err := a.store.Quotes().Fetch(context.Background(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				fmt.Println("No quotes yet. Run `nurtra quotes generate` first.")
				return nil
			}
			return err
		}
		for _, q := range quotes {
			fmt.Printf("%2d. %s\n", q.Order, q.Text)
		}
		return nil
	},
}

func init() {
	quotesGenerateCmd.Flags().StringVar(&surveyFile, "survey", "", "path to a JSON file of onboarding survey answers")
	_ = quotesGenerateCmd.MarkFlagRequired("survey")
	quotesGenerateCmd.Flags().BoolVar(&prewarm, "prewarm", false, "synthesize and cache audio for every quote")

	quotesCmd.AddCommand(quotesGenerateCmd, quotesListCmd)
}
