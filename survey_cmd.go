package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nurtra/nurtra/survey"
)

var (
	bingeFeelings []string
	bingeTriggers []string
	bingeNextTime []string
)

var surveyCmd = &cobra.Command{
	Use:   "survey",
	Short: "Record survey reflections",
}

var surveyBingeCmd = &cobra.Command{
	Use:   "binge",
	Short: "Reflect on a binge after it happened",
	Long:  "\nRecord what you felt, what triggered it, and what you'll try next time. The first submission completes the one-time binge survey.",
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

		ctx := context.Background()
		responses := survey.BingeResponses{
			Feelings: bingeFeelings,
			Triggers: bingeTriggers,
			NextTime: bingeNextTime,
		}
		if err := a.store.Surveys().SaveBinge(ctx, userID, responses); err != nil {
			return err
		}

		first, err := a.authSess.NeedsFirstBingeSurvey(ctx)
		if err != nil {
			return err
		}
		if first {
			if err := a.store.Profiles().MarkFirstBingeSurveyComplete(ctx, userID); err != nil {
				return err
			}
		}
		fmt.Println("Reflection saved. Be kind to yourself.")
		return nil
	},
}

func init() {
	surveyBingeCmd.Flags().StringSliceVar(&bingeFeelings, "feelings", nil, "how you felt, comma separated")
	surveyBingeCmd.Flags().StringSliceVar(&bingeTriggers, "triggers", nil, "what triggered it, comma separated")
	surveyBingeCmd.Flags().StringSliceVar(&bingeNextTime, "next-time", nil, "what you'll try next time, comma separated")

	surveyCmd.AddCommand(surveyBingeCmd)
}
