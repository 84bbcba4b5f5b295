package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/osse101/playcredits/internal/catalog"
	"github.com/osse101/playcredits/internal/domain"
	"github.com/osse101/playcredits/internal/ledger"
	"github.com/osse101/playcredits/internal/logger"
)

// CatalogHandler serves game catalog endpoints
type CatalogHandler struct {
	catalog catalog.Service
	ledger  ledger.Service
}

// NewCatalogHandler creates a new CatalogHandler. The ledger is used for
// optional recalculation after a rate change.
func NewCatalogHandler(catalogSvc catalog.Service, ledgerSvc ledger.Service) *CatalogHandler {
	return &CatalogHandler{catalog: catalogSvc, ledger: ledgerSvc}
}

// HandleListGames returns every game in the catalog
// @Summary List games
// @Tags games
// @Produce json
// @Success 200 {array} domain.Game
// @Failure 500 {object} ErrorResponse
// @Router /games [get]
func (h *CatalogHandler) HandleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.catalog.ListGames(r.Context())
	if err != nil {
		respondServiceError(w, r, "List games", err)
		return
	}
	if games == nil {
		games = []domain.Game{}
	}
	respondJSON(w, http.StatusOK, games)
}

// HandleGetGame returns one game
// @Summary Get game
// @Tags games
// @Produce json
// @Param gameID path int true "Game ID"
// @Success 200 {object} domain.Game
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /games/{gameID} [get]
func (h *CatalogHandler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := parseIDParam(w, r, "gameID")
	if !ok {
		return
	}
	game, err := h.catalog.GetGame(r.Context(), gameID)
	if err != nil {
		respondServiceError(w, r, "Get game", err)
		return
	}
	respondJSON(w, http.StatusOK, game)
}

// CreateGameRequest is the body of POST /admin/games
type CreateGameRequest struct {
	Name          string           `json:"name" validate:"required,max=200"`
	BaseRate      decimal.Decimal  `json:"base_rate" swaggertype:"string" example:"100"`
	HalfLifeHours *decimal.Decimal `json:"half_life_hours,omitempty" swaggertype:"string" example:"10"`
}

// HandleCreateGame adds a game to the catalog
// @Summary Create game
// @Tags admin
// @Accept json
// @Produce json
// @Param request body CreateGameRequest true "Game details"
// @Success 201 {object} domain.Game
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/games [post]
func (h *CatalogHandler) HandleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create game"); err != nil {
		return
	}

	game, err := h.catalog.CreateGame(r.Context(), req.Name, req.BaseRate, req.HalfLifeHours)
	if err != nil {
		respondServiceError(w, r, "Create game", err)
		return
	}

	logger.FromContext(r.Context()).Info(LogMsgGameCreated, "game_id", game.ID, "name", game.Name)
	respondJSON(w, http.StatusCreated, game)
}

// SetRatesRequest is the body of PUT /admin/games/{gameID}/rates
type SetRatesRequest struct {
	BaseRate      decimal.Decimal  `json:"base_rate" swaggertype:"string" example:"120"`
	HalfLifeHours *decimal.Decimal `json:"half_life_hours,omitempty" swaggertype:"string" example:"24"`
	// Recalculate rewrites the game's stored session credits with the new rates
	Recalculate bool `json:"recalculate,omitempty"`
}

// SetRatesResponse is returned after a rate change
type SetRatesResponse struct {
	Message       string                      `json:"message"`
	Game          *domain.Game                `json:"game"`
	Recalculation *domain.RecalculationReport `json:"recalculation,omitempty"`
}

// HandleSetRates changes a game's accrual parameters
// @Summary Set game rates
// @Description New rates apply to sessions logged from now on. Set recalculate to rewrite existing sessions too.
// @Tags admin
// @Accept json
// @Produce json
// @Param gameID path int true "Game ID"
// @Param request body SetRatesRequest true "New rates"
// @Success 200 {object} SetRatesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/games/{gameID}/rates [put]
func (h *CatalogHandler) HandleSetRates(w http.ResponseWriter, r *http.Request) {
	gameID, ok := parseIDParam(w, r, "gameID")
	if !ok {
		return
	}
	var req SetRatesRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Set rates"); err != nil {
		return
	}

	game, err := h.catalog.SetRates(r.Context(), gameID, req.BaseRate, req.HalfLifeHours)
	if err != nil {
		respondServiceError(w, r, "Set rates", err)
		return
	}
	log := logger.FromContext(r.Context())
	log.Info(LogMsgRatesUpdated, "game_id", game.ID, "base_rate", game.BaseRate.String(), "recalculate", req.Recalculate)

	resp := SetRatesResponse{Message: MsgRatesUpdated, Game: game}
	if req.Recalculate {
		report, err := h.ledger.RecalculateGame(r.Context(), game.ID)
		if err != nil {
			respondServiceError(w, r, "Recalculate after rate change", err)
			return
		}
		resp.Message = MsgRatesRecalculated
		resp.Recalculation = report
	}
	respondJSON(w, http.StatusOK, resp)
}
