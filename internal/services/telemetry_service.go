package services

import (
	"context"
	"encoding/json"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/ibercasa/ibercasa/internal/models"
	pgrepo "github.com/ibercasa/ibercasa/internal/repositories/postgres"
	"github.com/ibercasa/ibercasa/internal/utils"
)

// Truncation bound for persisted prompt text.
const maxQueryTextLen = 500

// ClientMeta is the optional per-request client context.
type ClientMeta struct {
	SessionID string
	UserAgent string
	IPAddress string
}

// BeginParams is everything the recorder needs to open bookkeeping for
// one pipeline execution.
type BeginParams struct {
	SessionID string
	Request   *models.AdviceRequest
	Meta      ClientMeta
	Tags      []string
	// UserPrompt is the rendered user prompt; persisted truncated on the
	// success path only.
	UserPrompt string
}

// TelemetryHandle correlates a Begin with its Complete. It carries the
// provisional interaction row id explicitly instead of re-querying
// "latest matching row", which is fragile under concurrency.
type TelemetryHandle struct {
	InteractionID string
	SessionID     string

	userAgent  string
	ipAddress  string
	category   string
	tags       []string
	userPrompt string
	params     datatypes.JSON
}

// Outcome is the terminal state of one pipeline execution.
type Outcome struct {
	Success        bool
	ResponseTimeMs int
	ErrorMessage   string
}

// TelemetryRecorder writes the three correlated records around the
// generation call. Begin is invoked before the call, Complete exactly
// once after it, on exactly one of the two branches.
type TelemetryRecorder interface {
	Begin(ctx context.Context, params BeginParams) (*TelemetryHandle, error)
	Complete(ctx context.Context, h *TelemetryHandle, out Outcome) error
}

type telemetryRecorder struct {
	interactions pgrepo.InteractionRepository
	queryLogs    pgrepo.QueryLogRepository
	preferences  pgrepo.PreferenceRepository
	log          *logrus.Logger
}

func NewTelemetryRecorder(
	interactions pgrepo.InteractionRepository,
	queryLogs pgrepo.QueryLogRepository,
	preferences pgrepo.PreferenceRepository,
	log *logrus.Logger,
) TelemetryRecorder {
	return &telemetryRecorder{
		interactions: interactions,
		queryLogs:    queryLogs,
		preferences:  preferences,
		log:          log,
	}
}

// Begin persists the provisional form_submission interaction and
// upserts the session's preference profile. Both writes happen before
// the generation call so a crash mid-generation still leaves a clearly
// provisional trail.
func (t *telemetryRecorder) Begin(ctx context.Context, params BeginParams) (*TelemetryHandle, error) {
	const op = "TelemetryRecorder.Begin"

	req := params.Request
	snapshot, err := json.Marshal(req)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to snapshot request", err)
	}

	propertyType := string(req.InvestmentType)
	budget := string(req.Budget)
	location := string(req.Locations[0])

	now := time.Now().UTC()
	row := &models.UserInteraction{
		ID:              uuid.NewString(),
		SessionID:       params.SessionID,
		UserAgent:       params.Meta.UserAgent,
		IPAddress:       params.Meta.IPAddress,
		InteractionType: models.InteractionFormSubmission,
		Page:            "advice_form",
		FormData:        datatypes.JSON(snapshot),
		PropertyType:    &propertyType,
		Budget:          &budget,
		Location:        &location,
		AdviceGenerated: false,
		Success:         true, // provisional until finalized
		CreatedAt:       now,
	}
	if err := t.interactions.Insert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to record interaction", err)
	}

	locs := make([]string, len(req.Locations))
	for i, l := range req.Locations {
		locs[i] = string(l)
	}
	pref := &models.UserPreference{
		SessionID:         params.SessionID,
		PropertyType:      propertyType,
		Budget:            budget,
		Locations:         locs,
		VisitCount:        1,
		LastVisit:         now,
		PreferredFeatures: params.Tags,
		AdviceStyle:       req.AdviceStyle(),
		CreatedAt:         now,
	}
	if err := t.preferences.Upsert(ctx, pref); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to upsert preferences", err)
	}

	return &TelemetryHandle{
		InteractionID: row.ID,
		SessionID:     params.SessionID,
		userAgent:     params.Meta.UserAgent,
		ipAddress:     params.Meta.IPAddress,
		category:      string(req.Profile),
		tags:          params.Tags,
		userPrompt:    params.UserPrompt,
		params:        datatypes.JSON(snapshot),
	}, nil
}

// Complete finalizes the provisional row and appends the unconditional
// query log. Storage errors propagate; telemetry loss is never silently
// reported as pipeline success.
func (t *telemetryRecorder) Complete(ctx context.Context, h *TelemetryHandle, out Outcome) error {
	const op = "TelemetryRecorder.Complete"

	fin := pgrepo.InteractionFinal{
		AdviceGenerated: out.Success,
		ResponseTimeMs:  out.ResponseTimeMs,
		Success:         out.Success,
	}
	if out.ErrorMessage != "" {
		fin.ErrorMessage = &out.ErrorMessage
	}

	affected, err := t.interactions.Finalize(ctx, h.InteractionID, fin)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to finalize interaction", err)
	}
	if affected == 0 {
		// The handle's row id should always exist; a miss means the row
		// vanished underneath us. Recorded as a warning, not a failure.
		t.log.WithFields(logrus.Fields{
			"interaction_id": h.InteractionID,
			"session_id":     h.SessionID,
		}).Warn("provisional interaction row missing at finalize")
	}

	if out.Success {
		if err := t.interactions.Insert(ctx, t.generationRow(h, out)); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to record generation interaction", err)
		}
	}

	if err := t.queryLogs.Insert(ctx, t.queryLogRow(h, out)); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to record query log", err)
	}
	return nil
}

func (t *telemetryRecorder) generationRow(h *TelemetryHandle, out Outcome) *models.UserInteraction {
	rt := out.ResponseTimeMs
	return &models.UserInteraction{
		ID:              uuid.NewString(),
		SessionID:       h.SessionID,
		UserAgent:       h.userAgent,
		IPAddress:       h.ipAddress,
		InteractionType: models.InteractionAdviceGeneration,
		Page:            "advice_form",
		FormData:        h.params,
		AdviceGenerated: true,
		ResponseTime:    &rt,
		Success:         true,
		CreatedAt:       time.Now().UTC(),
	}
}

func (t *telemetryRecorder) queryLogRow(h *TelemetryHandle, out Outcome) *models.QueryLog {
	rt := out.ResponseTimeMs
	row := &models.QueryLog{
		ID:           uuid.NewString(),
		QueryType:    models.QueryTypeRealEstateAdvice,
		SessionID:    h.SessionID,
		UserAgent:    h.userAgent,
		Parameters:   h.params,
		ResponseTime: &rt,
		Success:      out.Success,
		Category:     h.category,
		Tags:         h.tags,
		CreatedAt:    time.Now().UTC(),
	}
	if out.Success {
		row.QueryText = truncate(h.userPrompt, maxQueryTextLen)
	} else {
		// The failed prompt is not persisted verbatim, and the query log
		// classifies the failure; the verbatim upstream message lives on
		// the interaction row.
		row.QueryText = "advice generation failed"
		errType := models.ErrorTypeGenerationFailure
		row.ErrorType = &errType
	}
	return row
}

// truncate cuts s to at most n bytes without splitting a rune, so the
// persisted text stays valid UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
