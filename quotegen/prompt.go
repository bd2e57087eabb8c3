package quotegen

import (
	"fmt"
	"strings"

	"github.com/nurtra/nurtra/survey"
)

// buildPrompt renders the survey answers into the generation prompt. The
// quotes are meant to read like a peer who knows this person's specific
// journey, so every answer section feeds in.
func buildPrompt(r survey.OnboardingResponses, userName string) string {
	nameContext := "Address them directly using 'you' since their name is not available."
	if name := strings.TrimSpace(userName); name != "" {
		nameContext = fmt.Sprintf("This person's name is %s. Use their name naturally in some quotes (not all) to make them feel personally addressed.", name)
	}

	var b strings.Builder
	b.WriteString("Based on the following information about a person's binge eating recovery journey, generate exactly 30 personalized quotes that sound like they're coming from a close peer who's been there and understands. Make each quote unique, authentic, varied, and deeply connected to their specific situation and values. The user will see these quotes randomized, so ensure high variety and minimal repetition.\n\n")
	b.WriteString(nameContext)
	b.WriteString("\n\nTheir Journey:\n")
	journey := []struct {
		label   string
		answers []string
	}{
		{"Duration of struggle", r.StruggleDuration},
		{"Frequency of binges", r.BingeFrequency},
		{"Why recovery matters to them", r.ImportanceReason},
		{"Their vision without binge eating", r.LifeWithoutBinge},
		{"Common thoughts during binges", r.BingeThoughts},
		{"Triggers", r.BingeTriggers},
		{"Coping activities they can do", r.CopingActivities},
		{"What matters most to them", r.WhatMattersMost},
		{"Recovery values", r.RecoveryValues},
	}
	for _, j := range journey {
		fmt.Fprintf(&b, "- %s: %s\n", j.label, strings.Join(j.answers, ", "))
	}

	b.WriteString(`
Requirements:
1. Generate exactly 30 quotes - no more, no less
2. Each quote should be exactly 1-2 sentences (keep them punchy and powerful)
3. Write like a close friend/peer speaking casually and directly
4. Vary the tone and approach across different quotes:
   - Quotes 1-5: Guilt trip them for relapsing (but from a caring place) - "You know this isn't you..."
   - Quotes 6-11: Remind them of what they value and their "why" - "Remember why this matters..."
   - Quotes 12-17: Remind them of their specific coping activities (exercise, meditation, creative outlets, spending time with friends, going outdoors, journaling, etc.)
   - Quotes 18-23: Motivate and encourage them forward - "You've got this..." "You're stronger than..."
   - Quotes 24-30: Mix different approaches - some tough love, some gentle encouragement, some humor, some vulnerability
5. Make them personal to their specific struggles, triggers, and values
6. Use varied casual, peer-to-peer language (avoid repeating the same phrases)
7. Reference their specific journey details naturally and vary which details you reference
8. Use their name naturally in 8-12 of the 30 quotes to create personal connection
9. Ensure MAXIMUM VARIETY - avoid similar phrasing or messaging across quotes
10. Include some quotes that reference:
    - Their specific triggers (if applicable)
    - Specific coping strategies they mentioned
    - Their personal values
    - Recovery timeline/journey
    - Future vision of life without binge eating
11. Format as a numbered list (1. Quote 1\n2. Quote 2\n...30. Quote 30\n)

Generate the 30 unique, varied, and interesting quotes now:`)

	return b.String()
}
