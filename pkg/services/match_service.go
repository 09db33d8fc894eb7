package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lindenrow/dealdesk-engine/pkg/apperrors"
	"github.com/lindenrow/dealdesk-engine/pkg/database"
	"github.com/lindenrow/dealdesk-engine/pkg/metrics"
	"github.com/lindenrow/dealdesk-engine/pkg/models"
	"github.com/lindenrow/dealdesk-engine/pkg/repositories"
)

// runState names the stage a matching run is in, for logging.
type runState string

const (
	stateLoading     runState = "loading"
	stateFiltering   runState = "filtering"
	stateScoring     runState = "scoring"
	stateReconciling runState = "reconciling"
	statePersisting  runState = "persisting"
	stateDone        runState = "done"
)

// RunResult summarizes a completed matching run for the caller. The caller
// sees either this summary or a single error: there is no partial-success
// reporting.
type RunResult struct {
	// Matches is the number of records persisted by this run.
	Matches int
	// CandidatesEvaluated is the candidate set size after filtering.
	CandidatesEvaluated int
	// TotalBuyers is the active buyer pool size before filtering.
	TotalBuyers int
	// Unresolved counts scorer entries dropped because no candidate name
	// matched. Diagnostic only; the run still succeeds.
	Unresolved int
	// Empty is true when filtering eliminated every buyer; Message then
	// explains the outcome.
	Empty   bool
	Message string
}

// MatchService runs the buyer-matching pipeline for sell-side engagements:
// load, filter, score, reconcile, persist, in that order, with
// replace-not-merge persistence. A run that fails anywhere before the
// persist stage leaves the previously stored match set untouched.
type MatchService interface {
	// RunMatching executes one matching run. actor is recorded as the
	// generating principal on persisted matches and activity entries.
	RunMatching(ctx context.Context, engagementID uuid.UUID, actor string) (*RunResult, error)

	// ListMatches returns the stored match set, best fit first.
	ListMatches(ctx context.Context, engagementID uuid.UUID) ([]*models.BuyerMatch, error)
}

type matchService struct {
	engagements repositories.EngagementRepository
	buyers      repositories.BuyerRepository
	matches     repositories.MatchRepository
	filter      *CandidateFilter
	scorer      FitScorer
	reconciler  *ResultReconciler
	runLock     *database.RunLock
	activity    *ActivityRecorder
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewMatchService wires the matching pipeline. metrics may be nil.
func NewMatchService(
	engagements repositories.EngagementRepository,
	buyers repositories.BuyerRepository,
	matches repositories.MatchRepository,
	filter *CandidateFilter,
	scorer FitScorer,
	runLock *database.RunLock,
	activity *ActivityRecorder,
	m *metrics.Metrics,
	logger *zap.Logger,
) MatchService {
	return &matchService{
		engagements: engagements,
		buyers:      buyers,
		matches:     matches,
		filter:      filter,
		scorer:      scorer,
		reconciler:  NewResultReconciler(),
		runLock:     runLock,
		activity:    activity,
		metrics:     m,
		logger:      logger,
	}
}

var _ MatchService = (*matchService)(nil)

func (s *matchService) RunMatching(ctx context.Context, engagementID uuid.UUID, actor string) (*RunResult, error) {
	release, err := s.runLock.Acquire(ctx, engagementID)
	if err != nil {
		return nil, err
	}
	defer release()

	started := time.Now()
	promptTokens, outputTokens := 0, 0

	result, err := s.run(ctx, engagementID, actor, &promptTokens, &outputTokens)

	outcome := metrics.OutcomeSuccess
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
	case result.Empty:
		outcome = metrics.OutcomeEmpty
	}
	s.metrics.ObserveRun(outcome, time.Since(started))
	s.activity.RecordMatchingRun(actor, engagementID, started, promptTokens, outputTokens, err)

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *matchService) run(ctx context.Context, engagementID uuid.UUID, actor string, promptTokens, outputTokens *int) (*RunResult, error) {
	log := s.logger.With(zap.String("engagement_id", engagementID.String()))

	// Loading
	log.Debug("Matching run state", zap.String("state", string(stateLoading)))
	engagement, err := s.engagements.GetWithCompany(ctx, engagementID)
	if err != nil {
		return nil, err
	}
	if !engagement.IsSellSide() {
		return nil, apperrors.ErrNotSellSide
	}
	if engagement.Company == nil {
		return nil, apperrors.ErrNoLinkedCompany
	}

	pool, err := s.buyers.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load buyer pool: %w", err)
	}

	target := buildTargetProfile(engagement)

	// Filtering
	log.Debug("Matching run state", zap.String("state", string(stateFiltering)))
	candidates := s.filter.Filter(target, pool)

	log.Info("Candidate filtering completed",
		zap.Int("total_buyers", len(pool)),
		zap.Int("candidates", len(candidates)))

	// Empty candidate set is a success path: the stored set is still
	// replaced, which is how an engagement moves from "has matches" to
	// "has none" between runs.
	if len(candidates) == 0 {
		if err := s.matches.ReplaceForEngagement(ctx, engagementID, nil); err != nil {
			return nil, fmt.Errorf("persist empty match set: %w", err)
		}
		return &RunResult{
			TotalBuyers: len(pool),
			Empty:       true,
			Message: fmt.Sprintf(
				"No compatible buyers found for %s: all %d active buyers were excluded by sector or financial criteria.",
				engagement.Company.Name, len(pool)),
		}, nil
	}

	// Scoring
	log.Debug("Matching run state", zap.String("state", string(stateScoring)))
	scoreResult, err := s.scorer.ScoreCandidates(ctx, target, candidates)
	if err != nil {
		return nil, err
	}
	*promptTokens = scoreResult.PromptTokens
	*outputTokens = scoreResult.OutputTokens

	// Reconciling
	log.Debug("Matching run state", zap.String("state", string(stateReconciling)))
	reconciled := s.reconciler.Reconcile(candidates, scoreResult.Candidates)
	if len(reconciled.Unresolved) > 0 {
		names := make([]string, len(reconciled.Unresolved))
		for i, u := range reconciled.Unresolved {
			names[i] = u.BuyerName
		}
		log.Warn("Scorer returned names that resolve to no candidate",
			zap.Strings("unresolved", names))
	}

	// Persisting
	log.Debug("Matching run state", zap.String("state", string(statePersisting)))
	records := make([]*models.BuyerMatch, len(reconciled.Resolved))
	generatedAt := time.Now()
	for i, rm := range reconciled.Resolved {
		records[i] = &models.BuyerMatch{
			EngagementID:        engagementID,
			BuyerID:             rm.BuyerID,
			OverallScore:        rm.Scored.OverallScore,
			SectorFit:           rm.Scored.SectorFit,
			FinancialFit:        rm.Scored.FinancialFit,
			GeographicFit:       rm.Scored.GeographicFit,
			StrategicFit:        rm.Scored.StrategicFit,
			Reasoning:           rm.Scored.Reasoning,
			RiskFactors:         rm.Scored.RiskFactors,
			RecommendedApproach: rm.Scored.RecommendedApproach,
			GeneratedAt:         generatedAt,
			GeneratedBy:         actor,
		}
	}

	if err := s.matches.ReplaceForEngagement(ctx, engagementID, records); err != nil {
		return nil, fmt.Errorf("persist matches: %w", err)
	}

	s.metrics.ObserveScoring(*promptTokens, *outputTokens, len(candidates), len(reconciled.Unresolved))

	log.Info("Matching run completed",
		zap.String("state", string(stateDone)),
		zap.Int("matches", len(records)),
		zap.Int("unresolved", len(reconciled.Unresolved)))

	return &RunResult{
		Matches:             len(records),
		CandidatesEvaluated: len(candidates),
		TotalBuyers:         len(pool),
		Unresolved:          len(reconciled.Unresolved),
	}, nil
}

func (s *matchService) ListMatches(ctx context.Context, engagementID uuid.UUID) ([]*models.BuyerMatch, error) {
	if _, err := s.engagements.GetWithCompany(ctx, engagementID); err != nil {
		return nil, err
	}
	return s.matches.ListByEngagement(ctx, engagementID)
}

// buildTargetProfile assembles the run-scoped view of the company being sold.
func buildTargetProfile(e *models.Engagement) *models.TargetProfile {
	c := e.Company
	return &models.TargetProfile{
		EngagementID:         e.ID,
		CompanyName:          c.Name,
		Sector:               c.Sector,
		Subsector:            c.Subsector,
		Location:             c.Location,
		Revenue:              c.Revenue,
		EBITDA:               c.EBITDA,
		EmployeeCount:        c.EmployeeCount,
		Description:          c.Description,
		Summary:              c.Summary,
		Tags:                 c.Tags,
		DesiredBuyerProfile:  e.DesiredBuyerProfile,
		DesiredTargetProfile: e.DesiredTargetProfile,
	}
}
