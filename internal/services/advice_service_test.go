package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibercasa/ibercasa/internal/models"
	"github.com/ibercasa/ibercasa/internal/utils"
)

type stubProvider struct {
	text  string
	err   error
	calls int32
}

func (s *stubProvider) Generate(_ context.Context, _, _ string) (string, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func (s *stubProvider) Close() error { return nil }

func newPipeline(t *testing.T, provider *stubProvider) (AdviceService, *testStore) {
	t.Helper()
	store := newTestStore(t)
	log := logrus.New()
	recorder := NewTelemetryRecorder(store.interactions, store.queryLogs, store.preferences, log)
	return NewAdviceService(provider, recorder), store
}

func scenarioRequest() *models.AdviceRequest {
	return &models.AdviceRequest{
		Profile:        models.ProfileFamily,
		InvestmentType: models.InvestmentResidential,
		Budget:         models.Budget200k500k,
		Locations:      []models.Location{models.LocationMadrid, models.LocationBarcelona},
		Experience:     models.ExperienceBeginner,
		Timeline:       models.TimelineOneYear,
		CompareAreas:   true,
	}
}

func TestGenerateAdviceSuccess(t *testing.T) {
	provider := &stubProvider{text: "ADVICE"}
	svc, store := newPipeline(t, provider)
	ctx := context.Background()

	res, err := svc.GenerateAdvice(ctx, scenarioRequest(), ClientMeta{UserAgent: "test-agent"})
	require.NoError(t, err)
	assert.Equal(t, "ADVICE", res.Advice)
	assert.True(t, strings.HasPrefix(res.SessionID, "session_"), "server generates the session id")

	// Exactly one successful query log with the normalized tag set.
	logs, total, err := store.queryLogs.List(ctx, 50, 0, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, logs, 1)
	assert.True(t, logs[0].Success)
	assert.Equal(t, "family", logs[0].Category)
	assert.Equal(t, []string{
		"residential", "200k_500k", "beginner",
		"madrid", "barcelona",
		"multi_location_comparison", "area_comparison",
	}, []string(logs[0].Tags))
	assert.NotEmpty(t, logs[0].QueryText)
	assert.LessOrEqual(t, len(logs[0].QueryText), 500)

	// The provisional row is finalized and a generation row appended.
	subs, _, err := store.interactions.List(ctx, 50, 0, models.InteractionFormSubmission)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.True(t, subs[0].AdviceGenerated)
	assert.True(t, subs[0].Success)
	require.NotNil(t, subs[0].ResponseTime)

	gens, _, err := store.interactions.List(ctx, 50, 0, models.InteractionAdviceGeneration)
	require.NoError(t, err)
	require.Len(t, gens, 1)
	assert.True(t, gens[0].Success)

	// One preference row for the session, visit count 1.
	pref, err := store.preferences.GetBySessionID(ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, pref.VisitCount)
	assert.Equal(t, "residential", pref.PropertyType)
	assert.Equal(t, "standard", pref.AdviceStyle)

	assert.Equal(t, int32(1), provider.calls)
}

func TestGenerateAdviceFailureFinalizesTelemetry(t *testing.T) {
	provider := &stubProvider{err: errors.New("upstream timeout")}
	svc, store := newPipeline(t, provider)
	ctx := context.Background()

	_, err := svc.GenerateAdvice(ctx, scenarioRequest(), ClientMeta{SessionID: "session_fail"})
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))
	assert.Contains(t, err.Error(), "upstream timeout")

	subs, _, err := store.interactions.List(ctx, 50, 0, models.InteractionFormSubmission)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.False(t, subs[0].Success)
	assert.False(t, subs[0].AdviceGenerated)
	require.NotNil(t, subs[0].ErrorMessage)
	assert.Equal(t, "upstream timeout", *subs[0].ErrorMessage)

	// No advice_generation row on the failure path.
	gens, _, err := store.interactions.List(ctx, 50, 0, models.InteractionAdviceGeneration)
	require.NoError(t, err)
	assert.Empty(t, gens)

	// The query log is unconditional, tagged as a failure, and does not
	// persist the prompt verbatim.
	logs, _, err := store.queryLogs.List(ctx, 50, 0, "")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.False(t, logs[0].Success)
	require.NotNil(t, logs[0].ErrorType)
	assert.Equal(t, models.ErrorTypeGenerationFailure, *logs[0].ErrorType)
	assert.NotContains(t, logs[0].QueryText, "Investment Details")

	// The upsert still ran: visit count reflects the begun attempt.
	pref, err := store.preferences.GetBySessionID(ctx, "session_fail")
	require.NoError(t, err)
	assert.Equal(t, 1, pref.VisitCount)
}

func TestGenerateAdviceValidationWritesNoTelemetry(t *testing.T) {
	provider := &stubProvider{text: "ADVICE"}
	svc, store := newPipeline(t, provider)
	ctx := context.Background()

	req := scenarioRequest()
	req.Locations = nil

	_, err := svc.GenerateAdvice(ctx, req, ClientMeta{})
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
	assert.Zero(t, provider.calls, "validation rejects before the external call")

	n, err := store.interactions.CountAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = store.queryLogs.CountAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = store.preferences.CountAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGenerateAdviceReusesCallerSession(t *testing.T) {
	provider := &stubProvider{text: "ok"}
	svc, _ := newPipeline(t, provider)

	res, err := svc.GenerateAdvice(context.Background(), scenarioRequest(), ClientMeta{SessionID: "session_known"})
	require.NoError(t, err)
	assert.Equal(t, "session_known", res.SessionID)
}

func TestGenerateAdviceConcurrentSameSession(t *testing.T) {
	provider := &stubProvider{text: "ok"}
	svc, store := newPipeline(t, provider)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.GenerateAdvice(ctx, scenarioRequest(), ClientMeta{SessionID: "session_shared"})
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	pref, err := store.preferences.GetBySessionID(ctx, "session_shared")
	require.NoError(t, err)
	assert.Equal(t, 2, pref.VisitCount, "storage-side increment must not lose updates")

	total, err := store.preferences.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestGenerateAdviceDetailedStyle(t *testing.T) {
	provider := &stubProvider{text: "ok"}
	svc, store := newPipeline(t, provider)
	ctx := context.Background()

	req := scenarioRequest()
	req.SpecificQuestions = "How does the wealth tax apply?"

	res, err := svc.GenerateAdvice(ctx, req, ClientMeta{})
	require.NoError(t, err)

	pref, err := store.preferences.GetBySessionID(ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "detailed", pref.AdviceStyle)
}
