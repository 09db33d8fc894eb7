package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lindenrow/dealdesk-engine/pkg/apperrors"
	"github.com/lindenrow/dealdesk-engine/pkg/llm"
	"github.com/lindenrow/dealdesk-engine/pkg/models"
	"github.com/lindenrow/dealdesk-engine/pkg/prompts"
)

// ScoreResult holds the scorer's structured output plus usage stats.
type ScoreResult struct {
	Candidates   []models.ScoredCandidate
	PromptTokens int
	OutputTokens int
}

// FitScorer is the external capability boundary: it sends the target and
// candidate narratives to a generative reasoning service and returns
// per-candidate multi-dimensional scores. The capability is non-deterministic
// and may omit candidates, return out-of-range scores, or return names that
// match no candidate; callers must not assume otherwise.
type FitScorer interface {
	ScoreCandidates(ctx context.Context, target *models.TargetProfile, candidates []models.BuyerCandidate) (*ScoreResult, error)
}

// llmFitScorer implements FitScorer against a chat-completion provider.
type llmFitScorer struct {
	client      llm.Client
	minScore    int
	temperature float64
	timeout     time.Duration
	logger      *zap.Logger
}

// FitScorerConfig tunes the provider call.
type FitScorerConfig struct {
	// MinScore is the overall-score floor the provider is instructed to
	// apply. Advisory only.
	MinScore int

	// Temperature for the scoring completion.
	Temperature float64

	// Timeout bounds the provider call. A timed-out call is a protocol
	// failure; there is no local retry.
	Timeout time.Duration
}

// NewFitScorer creates a FitScorer backed by the given provider client.
func NewFitScorer(client llm.Client, cfg FitScorerConfig, logger *zap.Logger) FitScorer {
	return &llmFitScorer{
		client:      client,
		minScore:    cfg.MinScore,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		logger:      logger,
	}
}

// matchOutput is the JSON shape the provider is instructed to return.
type matchOutput struct {
	Matches []models.ScoredCandidate `json:"matches"`
}

func (s *llmFitScorer) ScoreCandidates(ctx context.Context, target *models.TargetProfile, candidates []models.BuyerCandidate) (*ScoreResult, error) {
	prompt := prompts.BuildBuyerMatchPrompt(target, candidates, s.minScore)
	systemMessage := prompts.BuildBuyerMatchSystemMessage()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.client.GenerateResponse(ctx, prompt, systemMessage, s.temperature)
	if err != nil {
		return nil, mapProviderError(err)
	}

	output, err := llm.ParseJSONResponse[matchOutput](resp.Content)
	if err != nil {
		s.logger.Error("Scorer returned unparseable output",
			zap.String("model", s.client.GetModel()),
			zap.Int("response_len", len(resp.Content)),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrScorerProtocol, err)
	}

	// Out-of-range scores are clamped before anything downstream sees them.
	for i := range output.Matches {
		output.Matches[i].Clamp()
	}

	return &ScoreResult{
		Candidates:   output.Matches,
		PromptTokens: resp.PromptTokens,
		OutputTokens: resp.CompletionTokens,
	}, nil
}

// mapProviderError translates structured provider errors into the engine's
// error taxonomy. Rate-limit and quota failures propagate as themselves so
// callers can distinguish them; everything else that prevented a structured
// result is a protocol failure.
func mapProviderError(err error) error {
	var provErr *llm.Error
	if errors.As(err, &provErr) {
		switch provErr.Type {
		case llm.ErrorTypeRateLimited:
			return fmt.Errorf("%w: %v", apperrors.ErrRateLimited, err)
		case llm.ErrorTypeQuota:
			return fmt.Errorf("%w: %v", apperrors.ErrQuotaExhausted, err)
		}
	}
	return fmt.Errorf("%w: %v", apperrors.ErrScorerProtocol, err)
}
