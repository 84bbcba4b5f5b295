package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/osse101/playcredits/internal/domain"
	"github.com/osse101/playcredits/internal/ledger"
	"github.com/osse101/playcredits/internal/logger"
)

// LedgerHandler serves session logging and balance endpoints
type LedgerHandler struct {
	service ledger.Service
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(service ledger.Service) *LedgerHandler {
	return &LedgerHandler{service: service}
}

// LogSessionRequest is the body of POST /sessions
type LogSessionRequest struct {
	UserID   string          `json:"user_id" validate:"required,max=128,excludesall=\x00\n\r\t"`
	GameID   int64           `json:"game_id" validate:"gt=0"`
	Hours    decimal.Decimal `json:"hours" swaggertype:"string" example:"2.5"`
	PlayedAt time.Time       `json:"played_at,omitempty"`
}

// HandleLogSession records a play session and returns the credits it earned
// @Summary Log session
// @Description Record a play session. Credits are computed once from the user's prior hours on the game.
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body LogSessionRequest true "Session details"
// @Success 201 {object} domain.SessionResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /sessions [post]
func (h *LedgerHandler) HandleLogSession(w http.ResponseWriter, r *http.Request) {
	var req LogSessionRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Log session"); err != nil {
		return
	}

	result, err := h.service.LogSession(r.Context(), ledger.LogSessionRequest{
		UserID:   req.UserID,
		GameID:   req.GameID,
		Hours:    req.Hours,
		PlayedAt: req.PlayedAt,
	})
	if err != nil {
		respondServiceError(w, r, "Log session", err)
		return
	}

	logger.FromContext(r.Context()).Info(LogMsgSessionLogged, "user_id", result.Session.UserID, "session_id", result.Session.ID)
	respondJSON(w, http.StatusCreated, result)
}

// HandleGetBalance returns a user's running credit total
// @Summary Get balance
// @Tags users
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} domain.UserBalance
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users/{userID}/balance [get]
func (h *LedgerHandler) HandleGetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.service.GetBalance(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondServiceError(w, r, "Get balance", err)
		return
	}
	respondJSON(w, http.StatusOK, balance)
}

// HandleListSessions returns a user's most recent sessions
// @Summary List sessions
// @Tags users
// @Produce json
// @Param userID path string true "User ID"
// @Param limit query int false "Maximum sessions (default 20, max 200)"
// @Success 200 {array} domain.Session
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users/{userID}/sessions [get]
func (h *LedgerHandler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	sessions, err := h.service.ListSessions(r.Context(), chi.URLParam(r, "userID"), limit)
	if err != nil {
		respondServiceError(w, r, "List sessions", err)
		return
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}
	respondJSON(w, http.StatusOK, sessions)
}

// GrantBonusRequest is the body of POST /admin/bonuses
type GrantBonusRequest struct {
	UserID    string          `json:"user_id" validate:"required,max=128,excludesall=\x00\n\r\t"`
	Credits   decimal.Decimal `json:"credits" swaggertype:"string" example:"50"`
	Reason    string          `json:"reason" validate:"required,max=500"`
	GrantedBy string          `json:"granted_by" validate:"max=128"`
}

// GrantBonusResponse is returned after a bonus is granted
type GrantBonusResponse struct {
	Bonus   *domain.Bonus       `json:"bonus"`
	Balance *domain.UserBalance `json:"balance"`
}

// HandleGrantBonus grants or deducts credits outside of play time
// @Summary Grant bonus
// @Description Grant a manual credit bonus. Negative credits are adjustments. Bonuses only count towards all-time standings.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body GrantBonusRequest true "Bonus details"
// @Success 201 {object} GrantBonusResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/bonuses [post]
func (h *LedgerHandler) HandleGrantBonus(w http.ResponseWriter, r *http.Request) {
	var req GrantBonusRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Grant bonus"); err != nil {
		return
	}

	bonus, balance, err := h.service.GrantBonus(r.Context(), ledger.GrantBonusRequest{
		UserID:    req.UserID,
		Credits:   req.Credits,
		Reason:    strings.TrimSpace(req.Reason),
		GrantedBy: req.GrantedBy,
	})
	if err != nil {
		respondServiceError(w, r, "Grant bonus", err)
		return
	}

	logger.FromContext(r.Context()).Info(LogMsgBonusGranted, "user_id", bonus.UserID, "bonus_id", bonus.ID, "credits", bonus.Credits.String())
	respondJSON(w, http.StatusCreated, GrantBonusResponse{Bonus: bonus, Balance: balance})
}

// HandleRefreshBalance recomputes a user's balance from sessions and bonuses
// @Summary Refresh balance
// @Tags admin
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} DataResponse{data=domain.UserBalance}
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/balances/{userID}/refresh [post]
func (h *LedgerHandler) HandleRefreshBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.service.RefreshBalance(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondServiceError(w, r, "Refresh balance", err)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Message: MsgBalanceRefreshed, Data: balance})
}

// RecalculateRequest is the body of POST /admin/recalculate
type RecalculateRequest struct {
	GameID int64 `json:"game_id,omitempty" validate:"min=0"`
	All    bool  `json:"all,omitempty"`
}

// RecalculateResponse summarizes a recalculation pass
type RecalculateResponse struct {
	Message string                       `json:"message"`
	Reports []domain.RecalculationReport `json:"reports"`
}

// HandleRecalculate rewrites stored session credits with the current catalog rates
// @Summary Recalculate credits
// @Description Recompute every session of one game, or of all games, with the current rates and refresh affected balances
// @Tags admin
// @Accept json
// @Produce json
// @Param request body RecalculateRequest true "Target: game_id or all"
// @Success 200 {object} RecalculateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/recalculate [post]
func (h *LedgerHandler) HandleRecalculate(w http.ResponseWriter, r *http.Request) {
	var req RecalculateRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Recalculate"); err != nil {
		return
	}
	if (req.GameID > 0) == req.All {
		respondError(w, http.StatusBadRequest, ErrMsgRecalculateTarget)
		return
	}

	var reports []domain.RecalculationReport
	if req.All {
		all, err := h.service.RecalculateAll(r.Context())
		if err != nil {
			respondServiceError(w, r, "Recalculate all", err)
			return
		}
		reports = all
	} else {
		report, err := h.service.RecalculateGame(r.Context(), req.GameID)
		if err != nil {
			respondServiceError(w, r, "Recalculate game", err)
			return
		}
		reports = []domain.RecalculationReport{*report}
	}
	if reports == nil {
		reports = []domain.RecalculationReport{}
	}

	logger.FromContext(r.Context()).Info(LogMsgRecalculated, "games", len(reports))
	respondJSON(w, http.StatusOK, RecalculateResponse{Message: MsgRecalculationDone, Reports: reports})
}
