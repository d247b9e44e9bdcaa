package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ibercasa/ibercasa/internal/advisor"
	"github.com/ibercasa/ibercasa/internal/models"
	"github.com/ibercasa/ibercasa/internal/providers/llm"
	"github.com/ibercasa/ibercasa/internal/utils"
)

type AdviceResult struct {
	Advice    string `json:"advice"`
	SessionID string `json:"session_id"`
}

type AdviceService interface {
	GenerateAdvice(ctx context.Context, req *models.AdviceRequest, meta ClientMeta) (*AdviceResult, error)
}

type adviceService struct {
	provider llm.Provider
	recorder TelemetryRecorder
}

func NewAdviceService(provider llm.Provider, recorder TelemetryRecorder) AdviceService {
	return &adviceService{provider: provider, recorder: recorder}
}

// GenerateAdvice runs the full pipeline: validate, resolve the session,
// render prompts, open bookkeeping, call the generator once, close
// bookkeeping on exactly one branch. All-or-nothing: a failed run never
// returns partial advice.
func (s *adviceService) GenerateAdvice(ctx context.Context, req *models.AdviceRequest, meta ClientMeta) (*AdviceResult, error) {
	const op = "AdviceService.GenerateAdvice"

	if req == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "request body is required", nil)
	}
	if err := req.Validate(); err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, err.Error(), err)
	}

	sessionID := meta.SessionID
	if sessionID == "" {
		sessionID = newSessionID()
	}

	norm := advisor.Normalize(req)
	system, user := advisor.BuildPrompts(req, norm)

	handle, err := s.recorder.Begin(ctx, BeginParams{
		SessionID:  sessionID,
		Request:    req,
		Meta:       meta,
		Tags:       norm.Tags,
		UserPrompt: user,
	})
	if err != nil {
		// Storage unavailable: abort before the external call so no
		// generation goes untracked.
		return nil, err
	}

	start := time.Now()
	advice, genErr := s.provider.Generate(ctx, system, user)
	elapsed := int(time.Since(start).Milliseconds())

	if genErr != nil {
		if cErr := s.recorder.Complete(ctx, handle, Outcome{
			Success:        false,
			ResponseTimeMs: elapsed,
			ErrorMessage:   genErr.Error(),
		}); cErr != nil {
			return nil, cErr
		}
		return nil, utils.E(utils.CodeUnavailable, op, genErr.Error(), genErr)
	}

	if err := s.recorder.Complete(ctx, handle, Outcome{
		Success:        true,
		ResponseTimeMs: elapsed,
	}); err != nil {
		return nil, err
	}

	return &AdviceResult{Advice: advice, SessionID: sessionID}, nil
}

func newSessionID() string {
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
