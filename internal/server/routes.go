package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/folio/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Users
	mux.HandleFunc("/api/users/", s.routeUsers)
}

// routeUsers dispatches /api/users/{username}/* to the appropriate handler.
func (s *Server) routeUsers(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/users/")
	if path == "" {
		WriteError(w, http.StatusBadRequest, "username is required in path")
		return
	}

	username, subpath := SplitUserPath(path)
	if username == "" {
		WriteError(w, http.StatusBadRequest, "username is required in path")
		return
	}

	switch subpath {
	case "holdings":
		s.handleHoldings(w, r, username)
	case "buy":
		s.handleBuy(w, r, username)
	case "sell":
		s.handleSell(w, r, username)
	case "transactions":
		s.handleTransactions(w, r, username)
	case "valuation":
		s.handleValuation(w, r, username)
	case "forecast":
		s.handleForecast(w, r, username)
	case "review":
		s.handleReview(w, r, username)
	case "chart":
		s.handleChart(w, r, username)
	default:
		if strings.HasPrefix(subpath, "holdings/") {
			symbol := strings.TrimPrefix(subpath, "holdings/")
			s.handleHoldingDelete(w, r, username, symbol)
			return
		}
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	cfg := s.app.Config
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":       cfg.Environment,
		"storage_type":      cfg.Storage.Type,
		"logging_level":     cfg.Logging.Level,
		"lookback_days":     cfg.Forecast.LookbackDays,
		"horizons":          cfg.Forecast.Horizons,
		"eodhd_configured":  s.app.PriceClient != nil,
		"gemini_configured": s.app.GeminiClient != nil,
		"uptime":            time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}
