package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/playcredits/internal/domain"
	"github.com/osse101/playcredits/internal/ledger"
)

func TestHandleLogSession(t *testing.T) {
	playedAt := time.Date(2024, time.March, 12, 20, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		svc := new(MockLedgerService)
		h := NewLedgerHandler(svc)

		svc.On("LogSession", mock.Anything, mock.MatchedBy(func(req ledger.LogSessionRequest) bool {
			return req.UserID == "amy" && req.GameID == 3 && req.Hours.Equal(decimal.RequireFromString("2.5")) && req.PlayedAt.Equal(playedAt)
		})).Return(&domain.SessionResult{
			Session: domain.Session{ID: 11, UserID: "amy", GameID: 3, Hours: decimal.RequireFromString("2.5"), CreditsEarned: decimal.NewFromInt(250)},
		}, nil)

		body := `{"user_id":"amy","game_id":3,"hours":"2.5","played_at":"2024-03-12T20:00:00Z"}`
		w := serve(http.MethodPost, "/sessions", "/sessions", body, h.HandleLogSession)

		assert.Equal(t, http.StatusCreated, w.Code)
		got := decodeBody[domain.SessionResult](t, w)
		assert.Equal(t, int64(11), got.Session.ID)
		assert.True(t, got.Session.CreditsEarned.Equal(decimal.NewFromInt(250)))
		svc.AssertExpectations(t)
	})

	t.Run("Validation failure", func(t *testing.T) {
		svc := new(MockLedgerService)
		h := NewLedgerHandler(svc)

		w := serve(http.MethodPost, "/sessions", "/sessions", `{"game_id":0,"hours":"1"}`, h.HandleLogSession)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeBody[ValidationErrorResponse](t, w)
		assert.Equal(t, ErrMsgInvalidRequestSummary, resp.Error)
		assert.Contains(t, resp.Fields, "user_id")
		assert.Contains(t, resp.Fields, "game_id")
		svc.AssertNotCalled(t, "LogSession", mock.Anything, mock.Anything)
	})

	t.Run("Unknown field rejected", func(t *testing.T) {
		h := NewLedgerHandler(new(MockLedgerService))
		w := serve(http.MethodPost, "/sessions", "/sessions", `{"user_id":"amy","game_id":1,"hours":"1","credits":"99"}`, h.HandleLogSession)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgInvalidRequest)
	})

	t.Run("Unknown game", func(t *testing.T) {
		svc := new(MockLedgerService)
		h := NewLedgerHandler(svc)
		svc.On("LogSession", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: id 9", domain.ErrUnknownGame))

		w := serve(http.MethodPost, "/sessions", "/sessions", `{"user_id":"amy","game_id":9,"hours":"1"}`, h.HandleLogSession)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgGameNotFoundError)
		assert.NotContains(t, w.Body.String(), "id 9")
	})

	t.Run("Invalid hours", func(t *testing.T) {
		svc := new(MockLedgerService)
		h := NewLedgerHandler(svc)
		svc.On("LogSession", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: hours must be positive", domain.ErrInvalidInput))

		w := serve(http.MethodPost, "/sessions", "/sessions", `{"user_id":"amy","game_id":1,"hours":"-1"}`, h.HandleLogSession)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgInvalidRequestError)
	})
}

func TestHandleGetBalance(t *testing.T) {
	svc := new(MockLedgerService)
	h := NewLedgerHandler(svc)
	svc.On("GetBalance", mock.Anything, "amy").Return(&domain.UserBalance{UserID: "amy", TotalCredits: decimal.NewFromInt(1625)}, nil)

	w := serve(http.MethodGet, "/users/{userID}/balance", "/users/amy/balance", "", h.HandleGetBalance)

	assert.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[domain.UserBalance](t, w)
	assert.Equal(t, "amy", got.UserID)
	assert.True(t, got.TotalCredits.Equal(decimal.NewFromInt(1625)))
}

func TestHandleListSessions(t *testing.T) {
	t.Run("Empty list encodes as array", func(t *testing.T) {
		svc := new(MockLedgerService)
		h := NewLedgerHandler(svc)
		svc.On("ListSessions", mock.Anything, "amy", 0).Return(nil, nil)

		w := serve(http.MethodGet, "/users/{userID}/sessions", "/users/amy/sessions", "", h.HandleListSessions)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]\n", w.Body.String())
	})

	t.Run("Passes limit", func(t *testing.T) {
		svc := new(MockLedgerService)
		h := NewLedgerHandler(svc)
		svc.On("ListSessions", mock.Anything, "amy", 5).Return([]domain.Session{{ID: 1}, {ID: 2}}, nil)

		w := serve(http.MethodGet, "/users/{userID}/sessions", "/users/amy/sessions?limit=5", "", h.HandleListSessions)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeBody[[]domain.Session](t, w), 2)
		svc.AssertExpectations(t)
	})

	t.Run("Bad limit", func(t *testing.T) {
		h := NewLedgerHandler(new(MockLedgerService))
		w := serve(http.MethodGet, "/users/{userID}/sessions", "/users/amy/sessions?limit=-3", "", h.HandleListSessions)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgInvalidLimit)
	})
}

func TestHandleGrantBonus(t *testing.T) {
	svc := new(MockLedgerService)
	h := NewLedgerHandler(svc)

	svc.On("GrantBonus", mock.Anything, mock.MatchedBy(func(req ledger.GrantBonusRequest) bool {
		return req.UserID == "amy" && req.Reason == "tournament win" && req.Credits.Equal(decimal.NewFromInt(50))
	})).Return(
		&domain.Bonus{ID: 4, UserID: "amy", Credits: decimal.NewFromInt(50), Reason: "tournament win"},
		&domain.UserBalance{UserID: "amy", TotalCredits: decimal.NewFromInt(1675)},
		nil,
	)

	body := `{"user_id":"amy","credits":"50","reason":"  tournament win  ","granted_by":"mod"}`
	w := serve(http.MethodPost, "/admin/bonuses", "/admin/bonuses", body, h.HandleGrantBonus)

	assert.Equal(t, http.StatusCreated, w.Code)
	got := decodeBody[GrantBonusResponse](t, w)
	assert.Equal(t, int64(4), got.Bonus.ID)
	assert.True(t, got.Balance.TotalCredits.Equal(decimal.NewFromInt(1675)))
	svc.AssertExpectations(t)
}

func TestHandleRefreshBalance(t *testing.T) {
	svc := new(MockLedgerService)
	h := NewLedgerHandler(svc)
	svc.On("RefreshBalance", mock.Anything, "amy").Return(&domain.UserBalance{UserID: "amy", TotalCredits: decimal.NewFromInt(10)}, nil)

	w := serve(http.MethodPost, "/admin/balances/{userID}/refresh", "/admin/balances/amy/refresh", "", h.HandleRefreshBalance)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), MsgBalanceRefreshed)
}

func TestHandleRecalculate(t *testing.T) {
	t.Run("Single game", func(t *testing.T) {
		svc := new(MockLedgerService)
		h := NewLedgerHandler(svc)
		svc.On("RecalculateGame", mock.Anything, int64(3)).Return(&domain.RecalculationReport{GameID: 3, SessionsScanned: 4, SessionsUpdated: 2}, nil)

		w := serve(http.MethodPost, "/admin/recalculate", "/admin/recalculate", `{"game_id":3}`, h.HandleRecalculate)

		assert.Equal(t, http.StatusOK, w.Code)
		got := decodeBody[RecalculateResponse](t, w)
		assert.Equal(t, MsgRecalculationDone, got.Message)
		assert.Len(t, got.Reports, 1)
		assert.Equal(t, 2, got.Reports[0].SessionsUpdated)
		svc.AssertNotCalled(t, "RecalculateAll", mock.Anything)
	})

	t.Run("All games", func(t *testing.T) {
		svc := new(MockLedgerService)
		h := NewLedgerHandler(svc)
		svc.On("RecalculateAll", mock.Anything).Return([]domain.RecalculationReport{{GameID: 1}, {GameID: 2}}, nil)

		w := serve(http.MethodPost, "/admin/recalculate", "/admin/recalculate", `{"all":true}`, h.HandleRecalculate)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeBody[RecalculateResponse](t, w).Reports, 2)
	})

	for name, body := range map[string]string{
		"Neither target": `{}`,
		"Both targets":   `{"game_id":3,"all":true}`,
	} {
		t.Run(name, func(t *testing.T) {
			svc := new(MockLedgerService)
			h := NewLedgerHandler(svc)

			w := serve(http.MethodPost, "/admin/recalculate", "/admin/recalculate", body, h.HandleRecalculate)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), ErrMsgRecalculateTarget)
			svc.AssertExpectations(t)
		})
	}

	t.Run("Database failure is generic", func(t *testing.T) {
		svc := new(MockLedgerService)
		h := NewLedgerHandler(svc)
		svc.On("RecalculateAll", mock.Anything).Return(nil, fmt.Errorf("%w: relation \"sessions\" is locked", domain.ErrDatabaseError))

		w := serve(http.MethodPost, "/admin/recalculate", "/admin/recalculate", `{"all":true}`, h.HandleRecalculate)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgGenericServerError)
		assert.NotContains(t, w.Body.String(), "sessions")
	})
}
