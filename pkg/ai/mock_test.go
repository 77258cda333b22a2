package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockClient_CannedResponses(t *testing.T) {
	m := NewMockClient(0)
	ctx := context.Background()

	summary, err := m.Complete(ctx, "generate a concise summary in English")
	require.NoError(t, err)
	assert.Contains(t, summary, "# Meeting Summary")

	actions, err := m.Complete(ctx, "identify potential action items")
	require.NoError(t, err)
	assert.Contains(t, actions, "# Suggested Action Items")

	agenda, err := m.Complete(ctx, "suggest an agenda for the next one")
	require.NoError(t, err)
	assert.Contains(t, agenda, `"kitchenMembers"`)

	other, err := m.Complete(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, "Mock AI response generated successfully!", other)
}

func TestMockClient_Deterministic(t *testing.T) {
	m := NewMockClient(0)
	a, _ := m.Complete(context.Background(), "summary")
	b, _ := m.Complete(context.Background(), "summary")
	assert.Equal(t, a, b)
}

func TestMockClient_HonorsCancellation(t *testing.T) {
	m := NewMockClient(time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := m.Complete(ctx, "summary")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMockClient_SimulatedLatency(t *testing.T) {
	m := NewMockClient(30 * time.Millisecond)
	start := time.Now()
	_, err := m.Complete(context.Background(), "summary")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestMockClient_IgnoresWordsInNotes(t *testing.T) {
	m := NewMockClient(0)
	ctx := context.Background()

	actions, err := m.Complete(ctx, "identify potential action items\n\n{\"otherUpdates\": \"Send the summary to the board\"}")
	require.NoError(t, err)
	assert.Contains(t, actions, "# Suggested Action Items")

	agenda, err := m.Complete(ctx, "suggest an agenda for the next one\n\n{\"lib\": \"summary and action items pending\"}")
	require.NoError(t, err)
	assert.Contains(t, agenda, `"kitchenMembers"`)
}
