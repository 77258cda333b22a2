package ai

import (
	"context"
	"strings"
	"time"
)

var _ Completer = (*MockClient)(nil)

// MockClient answers prompts with canned responses after a fixed delay.
// It never fails unless the context is cancelled first.
type MockClient struct {
	latency time.Duration
}

// NewMockClient creates a mock provider with the given simulated latency.
func NewMockClient(latency time.Duration) *MockClient {
	return &MockClient{latency: latency}
}

// Complete picks a canned response from the prompt's instruction, the text
// before the first blank line. The notes that follow never steer the choice.
func (m *MockClient) Complete(ctx context.Context, prompt string) (string, error) {
	if m.latency > 0 {
		timer := time.NewTimer(m.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return "", err
	}

	instruction := prompt
	if i := strings.Index(prompt, "\n\n"); i >= 0 {
		instruction = prompt[:i]
	}

	switch {
	case strings.Contains(instruction, "summary"):
		return mockSummary, nil
	case strings.Contains(instruction, "action items"):
		return mockActionItems, nil
	case strings.Contains(instruction, "suggest an agenda"):
		return mockAgenda, nil
	default:
		return "Mock AI response generated successfully!", nil
	}
}

const mockSummary = `# Meeting Summary

## Key Discussion Points
- **LIB Program**: Making progress toward goals with 20 current participants
- **DYCD Partnership**: Strong enrollment numbers at 74 participants
- **Business Plans**: 25 plans currently in development
- **Kitchen Members**: Maintaining capacity with prospect pipeline

## Notable Updates
- Upcoming cohort scheduled for July 15th
- ENY Farmers Market event on June 28th
- Team outing planned for June 6th at Dave and Busters

## Action Items
- Follow up on inspections deferred to June
- Continue outreach for LIB program participants
- Prepare for upcoming events and cohort launch`

const mockActionItems = `# Suggested Action Items

## High Priority
- **LIB Coordinator**: Schedule and conduct inspections that were deferred to June
- **DYCD Team**: Continue enrollment outreach to reach goal of 93 participants
- **Kitchen Manager**: Follow up with 3 prospects (Royal V Eats, Skrimps Seafood, A Few Good Men)

## Medium Priority
- **Program Director**: Finalize preparations for July 15th cohort launch
- **Marketing Team**: Promote ENY Farmers Market event on June 28th
- **HR**: Coordinate team outing logistics for June 6th at Dave and Busters

## Follow-up Items
- **Business Development**: Review and approve remaining business plans to reach goal of 37
- **Operations**: Assess pipeline prospects and maybe list for kitchen membership
- **Leadership**: Plan board retreat activities and agenda`

// mockAgenda is fenced the way chat models usually answer, so callers
// exercise their fence stripping.
const mockAgenda = "```json\n" + `{
  "lib": "Ends March: 2026\nGoal 50 participants/ Current: 22\nGoal 40 complete the program / Current: 22\nGoal 36 increase in knowledge and/or implement a digital solution / Current: 8\nUpcoming cohort: July 15th preparation\nNotes: Follow up on July cohort readiness",
  "dycd": "Business partner intake:\nGoal of 93 enrolled / Current: 76\nProjected DYCD: 8\nDYCD- success story: Share recent graduate achievements\nAdditional notes: Review application pipeline",
  "businessPlans": "Goal of 37 / Previous meeting: 25 / Current: 27\nNotes: Review new submissions and provide feedback",
  "commercialLease": "Goal 200 / Current: 15\nNotes: Follow up on pending applications",
  "kitchenMembers": "Goal of 25 / Current: 24\nPipeline: 4\nPrevious Meeting: 24\nProspects: Follow up with Royal V Eats, Skrimps Seafood\nMaybe: Re-engage Everything but the Meat\nNotes: Prepare for upcoming inspections",
  "bidUpdates": "Notes: Board retreat planning updates",
  "avenueNYC": "Notes: Review partnership activities",
  "merchantOrganizing": "Notes: Plan next merchant meetup",
  "enyFarmersMarket": "ENY Farmers Market - June 28th recap\nNotes: Prepare for next market date",
  "otherUpdates": "Emily's visit follow-up\nDaisha onboarding progress\nUpcoming events planning\nNotes:"
}` + "\n```"
