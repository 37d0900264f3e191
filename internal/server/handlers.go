package server

import (
	"errors"
	"net/http"

	"github.com/bobmcallan/folio/internal/models"
)

// writeDomainError maps the ledger/aggregator error taxonomy onto HTTP
// status codes. Unrecognized errors become 500 without leaking internals.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var unknownSym *models.UnknownSymbolError

	switch {
	case errors.Is(err, models.ErrInvalidInput):
		WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), "invalid_input")
	case errors.As(err, &unknownSym):
		WriteErrorWithCode(w, http.StatusNotFound, err.Error(), "unknown_symbol")
	case errors.Is(err, models.ErrNoSuchHolding):
		WriteErrorWithCode(w, http.StatusNotFound, err.Error(), "no_such_holding")
	case errors.Is(err, models.ErrInsufficientShares):
		WriteErrorWithCode(w, http.StatusConflict, err.Error(), "insufficient_shares")
	case errors.Is(err, models.ErrInsufficientHistory):
		WriteErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), "insufficient_history")
	case errors.Is(err, models.ErrOracleUnavailable):
		WriteErrorWithCode(w, http.StatusBadGateway, err.Error(), "oracle_unavailable")
	default:
		s.logger.Error().Err(err).Msg("Request failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// tradeRequest is the body for buy and sell operations. Price is ignored
// for sells, which always execute at the current quoted price.
type tradeRequest struct {
	Symbol string  `json:"symbol"`
	Shares float64 `json:"shares"`
	Price  float64 `json:"price"`
}

// handleHoldings handles GET /api/users/{username}/holdings.
func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request, username string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	set, err := s.app.LedgerService.GetHoldings(r.Context(), username)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"username":       username,
		"holdings":       set.Holdings(),
		"total_invested": set.TotalInvested(),
	})
}

// handleBuy handles POST /api/users/{username}/buy.
func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request, username string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req tradeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	record, err := s.app.LedgerService.Buy(r.Context(), username, req.Symbol, req.Shares, req.Price)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, record)
}

// handleSell handles POST /api/users/{username}/sell.
func (s *Server) handleSell(w http.ResponseWriter, r *http.Request, username string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req tradeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	record, err := s.app.LedgerService.Sell(r.Context(), username, req.Symbol, req.Shares)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, record)
}

// handleHoldingDelete handles DELETE /api/users/{username}/holdings/{symbol}.
func (s *Server) handleHoldingDelete(w http.ResponseWriter, r *http.Request, username, symbol string) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	if err := s.app.LedgerService.RemoveHolding(r.Context(), username, symbol); err != nil {
		s.writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "removed",
		"symbol": models.NormalizeSymbol(symbol),
	})
}

// handleTransactions handles GET /api/users/{username}/transactions.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request, username string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	records, err := s.app.LedgerService.GetTransactions(r.Context(), username)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if records == nil {
		records = []models.TransactionRecord{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"username":     username,
		"transactions": records,
	})
}

// handleValuation handles GET /api/users/{username}/valuation.
func (s *Server) handleValuation(w http.ResponseWriter, r *http.Request, username string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	summary, err := s.app.ValuationService.Value(r.Context(), username)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, summary)
}

// handleForecast handles GET /api/users/{username}/forecast.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request, username string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	summary, err := s.app.ValuationService.Forecast(r.Context(), username, s.app.Horizons)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, summary)
}

// handleReview handles GET /api/users/{username}/review.
func (s *Server) handleReview(w http.ResponseWriter, r *http.Request, username string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	review, err := s.app.ReportService.Review(r.Context(), username)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, review)
}

// handleChart handles GET /api/users/{username}/chart. Responds with a PNG.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request, username string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	png, err := s.app.ValuationService.RenderChart(r.Context(), username)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
