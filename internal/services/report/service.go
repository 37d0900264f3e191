// Package report produces the portfolio review: a valuation summary paired
// with a best-effort AI narrative.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Service composes the valuation service with the narrative client. The
// narrative is strictly additive: a Gemini failure is reported in the
// review, never surfaced as an error from Review.
type Service struct {
	valuation interfaces.ValuationService
	gemini    interfaces.GeminiClient
	logger    *common.Logger
}

func NewService(valuation interfaces.ValuationService, gemini interfaces.GeminiClient, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		valuation: valuation,
		gemini:    gemini,
		logger:    logger,
	}
}

// narrativeTimeout bounds the Gemini call so a slow model never holds up
// the review past the valuation itself.
const narrativeTimeout = 30 * time.Second

// Review computes the valuation and asks the narrative model for a short
// commentary on it. The valuation is authoritative; the narrative is
// decoration and degrades to a NarrativeError field when the model is
// unreachable or unconfigured.
func (s *Service) Review(ctx context.Context, username string) (*models.PortfolioReview, error) {
	summary, err := s.valuation.Value(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to value holdings for %s: %w", username, err)
	}

	review := &models.PortfolioReview{Valuation: summary}

	if s.gemini == nil {
		review.NarrativeError = "narrative generation not configured"
		return review, nil
	}
	if len(summary.Holdings) == 0 {
		review.Narrative = "No holdings to review."
		return review, nil
	}

	nctx, cancel := context.WithTimeout(ctx, narrativeTimeout)
	defer cancel()

	narrative, err := s.gemini.GenerateContent(nctx, buildReviewPrompt(summary))
	if err != nil {
		s.logger.Warn().Err(err).
			Str("username", username).
			Msg("Narrative generation failed")
		review.NarrativeError = err.Error()
		return review, nil
	}

	review.Narrative = strings.TrimSpace(narrative)
	return review, nil
}

// buildReviewPrompt renders the valuation into a compact plain-text table
// the model can reason over. Unpriced rows are listed but labelled so the
// model does not treat a zero as a crash to zero.
func buildReviewPrompt(summary *models.ValuationSummary) string {
	var b strings.Builder

	b.WriteString("You are reviewing a personal stock portfolio. ")
	b.WriteString("Write a concise summary of its current state (2-3 sentences), ")
	b.WriteString("then exactly one actionable suggestion. ")
	b.WriteString("Plain text only, no markdown.\n\nHoldings:\n")

	for _, h := range summary.Holdings {
		if h.PriceUnavailable {
			fmt.Fprintf(&b, "- %s: %.4f shares, invested $%.2f, current price unavailable\n",
				h.Symbol, h.Shares, h.InvestedValue)
			continue
		}
		fmt.Fprintf(&b, "- %s: %.4f shares, invested $%.2f, now worth $%.2f (%+.2f)\n",
			h.Symbol, h.Shares, h.InvestedValue, h.CurrentValue, h.GainLoss)
	}

	fmt.Fprintf(&b, "\nTotal invested: $%.2f\nTotal current value: $%.2f\nOverall gain/loss: %+.2f\n",
		summary.TotalInvested, summary.TotalCurrent, summary.OverallGainLoss)

	return b.String()
}
