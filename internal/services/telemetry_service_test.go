package services

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibercasa/ibercasa/internal/models"
)

func newRecorder(t *testing.T) (TelemetryRecorder, *testStore) {
	t.Helper()
	store := newTestStore(t)
	return NewTelemetryRecorder(store.interactions, store.queryLogs, store.preferences, logrus.New()), store
}

func beginParams(userPrompt string) BeginParams {
	return BeginParams{
		SessionID:  "session_trunc",
		Request:    scenarioRequest(),
		Meta:       ClientMeta{UserAgent: "test-agent"},
		Tags:       []string{"residential"},
		UserPrompt: userPrompt,
	}
}

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	cases := []struct {
		name string
		in   string
		n    int
	}{
		{"shorter than limit", "€200,000 - €500,000", 500},
		{"ascii cut", strings.Repeat("a", 10), 5},
		{"cut inside euro sign", strings.Repeat("a", maxQueryTextLen-1) + "€200,000", maxQueryTextLen},
		{"cut inside accented rune", strings.Repeat("Málaga", 200), maxQueryTextLen},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := truncate(tc.in, tc.n)
			assert.True(t, utf8.ValidString(out), "truncated text must stay valid UTF-8")
			assert.LessOrEqual(t, len(out), tc.n)
			assert.True(t, strings.HasPrefix(tc.in, out))
		})
	}
}

func TestCompletePersistsValidUTF8QueryText(t *testing.T) {
	recorder, store := newRecorder(t)
	ctx := context.Background()

	// Byte 500 lands inside the euro sign.
	prompt := strings.Repeat("a", maxQueryTextLen-1) + "€200,000 - €500,000 in Málaga"
	handle, err := recorder.Begin(ctx, beginParams(prompt))
	require.NoError(t, err)

	require.NoError(t, recorder.Complete(ctx, handle, Outcome{Success: true, ResponseTimeMs: 12}))

	logs, _, err := store.queryLogs.List(ctx, 50, 0, "")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.True(t, utf8.ValidString(logs[0].QueryText))
	assert.LessOrEqual(t, len(logs[0].QueryText), maxQueryTextLen)
	assert.True(t, strings.HasPrefix(prompt, logs[0].QueryText))
}

func TestCompleteToleratesMissingProvisionalRow(t *testing.T) {
	recorder, store := newRecorder(t)
	ctx := context.Background()

	handle, err := recorder.Begin(ctx, beginParams("prompt"))
	require.NoError(t, err)

	// The row vanished between Begin and Complete.
	require.NoError(t, store.db.Delete(&models.UserInteraction{}, "id = ?", handle.InteractionID).Error)

	require.NoError(t, recorder.Complete(ctx, handle, Outcome{Success: true, ResponseTimeMs: 7}))

	// The attempt record still lands.
	logs, _, err := store.queryLogs.List(ctx, 50, 0, "")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.True(t, logs[0].Success)

	gens, _, err := store.interactions.List(ctx, 50, 0, models.InteractionAdviceGeneration)
	require.NoError(t, err)
	assert.Len(t, gens, 1)
}
