package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lindenrow/dealdesk-engine/pkg/apperrors"
	"github.com/lindenrow/dealdesk-engine/pkg/auth"
	"github.com/lindenrow/dealdesk-engine/pkg/logging"
	"github.com/lindenrow/dealdesk-engine/pkg/models"
	"github.com/lindenrow/dealdesk-engine/pkg/services"
)

// ============================================================================
// Request/Response Types
// ============================================================================

// RunMatchingResponse for a run that produced matches.
type RunMatchingResponse struct {
	Matches             int `json:"matches"`
	CandidatesEvaluated int `json:"candidates_evaluated"`
	TotalBuyers         int `json:"total_buyers"`
	UnresolvedResults   int `json:"unresolved_results,omitempty"`
}

// EmptyMatchingResponse for a run whose filter eliminated every buyer.
type EmptyMatchingResponse struct {
	Matches []*models.BuyerMatch `json:"matches"`
	Message string               `json:"message"`
}

// MatchListResponse for GET .../matches.
type MatchListResponse struct {
	Matches []*models.BuyerMatch `json:"matches"`
	Total   int                  `json:"total"`
}

// ============================================================================
// Handler
// ============================================================================

// MatchHandler handles buyer-matching HTTP requests.
type MatchHandler struct {
	matchService services.MatchService
	logger       *zap.Logger
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(matchService services.MatchService, logger *zap.Logger) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
		logger:       logger,
	}
}

// RegisterRoutes registers the match handler's routes on the given mux.
// Running a matching run is restricted to administrators; reading the stored
// set needs any authenticated caller.
func (h *MatchHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	base := "/api/engagements/{eid}/matches"

	mux.HandleFunc("POST "+base+"/run",
		authMiddleware.RequireRole(auth.RoleAdmin, auth.RoleSuperAdmin)(h.Run))
	mux.HandleFunc("GET "+base,
		authMiddleware.RequireAuth(h.List))
}

// Run handles POST /api/engagements/{eid}/matches/run
func (h *MatchHandler) Run(w http.ResponseWriter, r *http.Request) {
	engagementID, ok := h.parseEngagementID(w, r)
	if !ok {
		return
	}

	actor := auth.GetUserIDFromContext(r.Context())

	result, err := h.matchService.RunMatching(r.Context(), engagementID, actor)
	if err != nil {
		h.writeMatchError(w, engagementID, err)
		return
	}

	if result.Empty {
		response := EmptyMatchingResponse{
			Matches: []*models.BuyerMatch{},
			Message: result.Message,
		}
		if err := WriteJSON(w, http.StatusOK, response); err != nil {
			h.logger.Error("Failed to write response", zap.Error(err))
		}
		return
	}

	response := RunMatchingResponse{
		Matches:             result.Matches,
		CandidatesEvaluated: result.CandidatesEvaluated,
		TotalBuyers:         result.TotalBuyers,
		UnresolvedResults:   result.Unresolved,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/engagements/{eid}/matches
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	engagementID, ok := h.parseEngagementID(w, r)
	if !ok {
		return
	}

	matches, err := h.matchService.ListMatches(r.Context(), engagementID)
	if err != nil {
		h.writeMatchError(w, engagementID, err)
		return
	}
	if matches == nil {
		matches = []*models.BuyerMatch{}
	}

	response := MatchListResponse{
		Matches: matches,
		Total:   len(matches),
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *MatchHandler) parseEngagementID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.PathValue("eid")
	id, err := uuid.Parse(raw)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_engagement_id",
			"Engagement ID must be a valid UUID"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return id, true
}

// writeMatchError maps pipeline errors onto the external status contract.
// The caller always receives a single explanatory error; nothing partial.
func (h *MatchHandler) writeMatchError(w http.ResponseWriter, engagementID uuid.UUID, err error) {
	log := h.logger.With(
		zap.String("engagement_id", engagementID.String()),
		zap.Error(err))

	var status int
	var code string

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status, code = http.StatusNotFound, "engagement_not_found"
	case errors.Is(err, apperrors.ErrNotSellSide), errors.Is(err, apperrors.ErrNoLinkedCompany):
		status, code = http.StatusBadRequest, "engagement_not_matchable"
	case errors.Is(err, apperrors.ErrRunInProgress):
		status, code = http.StatusConflict, "run_in_progress"
	case errors.Is(err, apperrors.ErrRateLimited):
		status, code = http.StatusTooManyRequests, "scorer_rate_limited"
	case errors.Is(err, apperrors.ErrQuotaExhausted):
		status, code = http.StatusPaymentRequired, "scorer_quota_exhausted"
	default:
		status, code = http.StatusInternalServerError, "matching_failed"
	}

	if status == http.StatusInternalServerError {
		log.Error("Matching run failed")
	} else {
		log.Warn("Matching run rejected", zap.String("code", code))
	}

	if werr := ErrorResponse(w, status, code, logging.SanitizeError(err)); werr != nil {
		h.logger.Error("Failed to write error response", zap.Error(werr))
	}
}
