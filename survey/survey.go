// Package survey holds the survey response value types shared by the
// quote generator and the survey store.
package survey

import "time"

// OnboardingResponses captures the multi-select answers from the
// onboarding survey. Each field may carry several selected options.
type OnboardingResponses struct {
	StruggleDuration []string `json:"struggleDuration"`
	BingeFrequency   []string `json:"bingeFrequency"`
	ImportanceReason []string `json:"importanceReason"`
	LifeWithoutBinge []string `json:"lifeWithoutBinge"`
	BingeThoughts    []string `json:"bingeThoughts"`
	BingeTriggers    []string `json:"bingeTriggers"`
	CopingActivities []string `json:"copingActivities"`
	WhatMattersMost  []string `json:"whatMattersMost"`
	RecoveryValues   []string `json:"recoveryValues"`
}

// BingeResponses captures the post-relapse survey answers.
type BingeResponses struct {
	Feelings    []string  `json:"feelings"`
	Triggers    []string  `json:"triggers"`
	NextTime    []string  `json:"nextTime"`
	SubmittedAt time.Time `json:"submittedAt"`
}
