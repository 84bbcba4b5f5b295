package handler

import (
	"net/http"
	"time"

	"github.com/osse101/playcredits/internal/domain"
	"github.com/osse101/playcredits/internal/leaderboard"
	"github.com/osse101/playcredits/internal/logger"
)

// LeaderboardHandler serves ranking, period history and snapshot endpoints
type LeaderboardHandler struct {
	service leaderboard.Service
	now     func() time.Time
}

// NewLeaderboardHandler creates a new LeaderboardHandler
func NewLeaderboardHandler(service leaderboard.Service) *LeaderboardHandler {
	return &LeaderboardHandler{service: service, now: time.Now}
}

// HandleGetLeaderboard ranks users for the period containing at (now by default)
// @Summary Get leaderboard
// @Description Rank users by credits earned in the weekly, monthly or all-time period containing at. Computed from raw sessions on every request.
// @Tags leaderboard
// @Produce json
// @Param kind query string false "weekly, monthly or all_time (default weekly)"
// @Param at query string false "RFC3339 timestamp selecting the period (default now)"
// @Param limit query int false "Maximum entries (default 10, max 100)"
// @Success 200 {object} domain.Leaderboard
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /leaderboard [get]
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(w, r, domain.PeriodWeekly)
	if !ok {
		return
	}
	at, ok := parseAt(w, r)
	if !ok {
		return
	}
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	board, err := h.service.RequestLeaderboard(r.Context(), kind, at, limit)
	if err != nil {
		respondServiceError(w, r, "Get leaderboard", err)
		return
	}
	if board.Entries == nil {
		board.Entries = []domain.LeaderboardEntry{}
	}
	respondJSON(w, http.StatusOK, board)
}

// HandleListPeriods returns the most recent periods of a kind
// @Summary List periods
// @Tags leaderboard
// @Produce json
// @Param kind query string false "weekly, monthly or all_time (default weekly)"
// @Param limit query int false "Maximum periods (default 12, max 100)"
// @Success 200 {array} domain.Period
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /leaderboard/periods [get]
func (h *LeaderboardHandler) HandleListPeriods(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(w, r, domain.PeriodWeekly)
	if !ok {
		return
	}
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	periods, err := h.service.ListPeriods(r.Context(), kind, limit)
	if err != nil {
		respondServiceError(w, r, "List periods", err)
		return
	}
	if periods == nil {
		periods = []domain.Period{}
	}
	respondJSON(w, http.StatusOK, periods)
}

// HandleGetPlacements returns a period's stored history
// @Summary Get period placements
// @Tags leaderboard
// @Produce json
// @Param periodID path int true "Period ID"
// @Success 200 {array} domain.Placement
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /leaderboard/periods/{periodID}/placements [get]
func (h *LeaderboardHandler) HandleGetPlacements(w http.ResponseWriter, r *http.Request) {
	periodID, ok := parseIDParam(w, r, "periodID")
	if !ok {
		return
	}

	placements, err := h.service.GetPlacements(r.Context(), periodID)
	if err != nil {
		respondServiceError(w, r, "Get placements", err)
		return
	}
	if placements == nil {
		placements = []domain.Placement{}
	}
	respondJSON(w, http.StatusOK, placements)
}

// ClosePeriodRequest is the body of POST /admin/leaderboard/close
type ClosePeriodRequest struct {
	Kind string `json:"kind" validate:"required,periodkind"`
}

// SnapshotResponse wraps the outcome of a snapshot request
type SnapshotResponse struct {
	Message string                 `json:"message"`
	Result  *domain.SnapshotResult `json:"result"`
}

// HandleCloseAndSnapshot closes ended periods of a kind and records the latest one
// @Summary Close period and snapshot
// @Description Roll the kind forward to now and record the most recently closed period. A guarded rewrite is reported as skipped, not as an error.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body ClosePeriodRequest true "Period kind"
// @Success 200 {object} SnapshotResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/leaderboard/close [post]
func (h *LeaderboardHandler) HandleCloseAndSnapshot(w http.ResponseWriter, r *http.Request) {
	var req ClosePeriodRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Close and snapshot"); err != nil {
		return
	}
	kind, ok := parseKindValue(w, req.Kind)
	if !ok {
		return
	}

	result, err := h.service.CloseAndSnapshot(r.Context(), kind, h.now())
	if err != nil {
		respondServiceError(w, r, "Close and snapshot", err)
		return
	}
	h.respondSnapshot(w, r, result)
}

// HandleRecordSnapshot rewrites one period's stored history
// @Summary Record period snapshot
// @Description Recompute and replace the period's placements. Only the active period or the latest closed one of its kind may be rewritten; older periods are skipped.
// @Tags admin
// @Produce json
// @Param periodID path int true "Period ID"
// @Success 200 {object} SnapshotResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/leaderboard/periods/{periodID}/snapshot [post]
func (h *LeaderboardHandler) HandleRecordSnapshot(w http.ResponseWriter, r *http.Request) {
	periodID, ok := parseIDParam(w, r, "periodID")
	if !ok {
		return
	}

	result, err := h.service.Record(r.Context(), periodID)
	if err != nil {
		respondServiceError(w, r, "Record snapshot", err)
		return
	}
	h.respondSnapshot(w, r, result)
}

func (h *LeaderboardHandler) respondSnapshot(w http.ResponseWriter, r *http.Request, result *domain.SnapshotResult) {
	msg := MsgSnapshotRecorded
	if result.Skipped {
		msg = MsgSnapshotSkipped
	}
	logger.FromContext(r.Context()).Info(LogMsgSnapshotFinished,
		"period_id", result.Period.ID,
		"skipped", result.Skipped,
		"reason", result.Reason,
		"placements", result.Placements)
	respondJSON(w, http.StatusOK, SnapshotResponse{Message: msg, Result: result})
}

// SnapshotDiffResponse reports whether stored history matches a fresh ranking
type SnapshotDiffResponse struct {
	Message string               `json:"message"`
	Clean   bool                 `json:"clean"`
	Diff    *domain.SnapshotDiff `json:"diff"`
}

// HandleSnapshotDiff compares a period's stored history with a fresh ranking
// @Summary Diff period snapshot
// @Description Read-only check that stored placements still match a ranking recomputed from raw sessions
// @Tags admin
// @Produce json
// @Param periodID path int true "Period ID"
// @Success 200 {object} SnapshotDiffResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/leaderboard/periods/{periodID}/diff [get]
func (h *LeaderboardHandler) HandleSnapshotDiff(w http.ResponseWriter, r *http.Request) {
	periodID, ok := parseIDParam(w, r, "periodID")
	if !ok {
		return
	}

	diff, err := h.service.Diff(r.Context(), periodID)
	if err != nil {
		respondServiceError(w, r, "Snapshot diff", err)
		return
	}

	resp := SnapshotDiffResponse{Message: MsgSnapshotDiffClean, Clean: diff.Clean(), Diff: diff}
	if !resp.Clean {
		resp.Message = MsgSnapshotDiffFailed
	}
	respondJSON(w, http.StatusOK, resp)
}
