package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"BullBearPK/internal/domain/models"
	"BullBearPK/pkg/logger"

	"github.com/google/uuid"
)

// maxRecommendations caps one run's recommendation set.
const maxRecommendations = 5

// defaultAllocation is the suggested portfolio share per recommendation.
const defaultAllocation = 20.0

// neutralSentimentScore substitutes for symbols with no sentiment data.
const neutralSentimentScore = 0.5

// standingRiskFactors apply to every equity recommendation.
var standingRiskFactors = []string{
	"Market volatility and economic conditions",
	"Sector-specific risks and regulatory changes",
	"Company-specific operational risks",
	"Liquidity and trading volume risks",
}

// Synthesizer fuses technical and sentiment evidence into the final set.
type Synthesizer struct {
	log *logger.Logger
}

func NewSynthesizer(log *logger.Logger) *Synthesizer {
	return &Synthesizer{log: log}
}

// Synthesize scores the top profiles as technical confidence blended 60/40
// with sentiment, then sorts by descending confidence. Symbols without
// sentiment use the neutral score rather than being dropped.
func (s *Synthesizer) Synthesize(ctx context.Context, userID string, profiles []models.TechnicalProfile, sentiments map[string]models.SentimentProfile, risk models.RiskProfile, prefs models.Preferences) ([]models.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	top := profiles
	if len(top) > maxRecommendations {
		top = top[:maxRecommendations]
	}

	recs := make([]models.Recommendation, 0, len(top))
	now := time.Now()
	for i := range top {
		p := top[i]
		technical := p.Confidence

		sentimentScore := neutralSentimentScore
		var sentiment *models.SentimentProfile
		if sp, ok := sentiments[p.Symbol]; ok {
			sentimentScore = sp.Score
			sentiment = &sp
		}

		score := technical*0.6 + sentimentScore*0.4
		recType := typeFor(score)
		riskLevel := riskLevelFor(score)
		expectedReturn := p.Momentum * 100

		rec := models.Recommendation{
			ID:             uuid.New().String(),
			UserID:         userID,
			Symbol:         p.Symbol,
			Name:           p.Name,
			Sector:         p.Sector,
			Type:           recType,
			Confidence:     score,
			ExpectedReturn: expectedReturn,
			RiskLevel:      riskLevel,
			Allocation:     defaultAllocation,
			Reasoning:      reasoning(p.Symbol, technical, sentimentScore, score, recType, expectedReturn, riskLevel),
			KeyFactors: []string{
				fmt.Sprintf("Technical Score: %.1f", technical),
				fmt.Sprintf("Sentiment Score: %.1f", sentimentScore),
				fmt.Sprintf("Risk-Adjusted Score: %.1f", score),
				fmt.Sprintf("Risk Level: %s", riskLevel),
				fmt.Sprintf("Expected Return: %.1f%%", expectedReturn),
			},
			RiskFactors: standingRiskFactors,
			Technical:   &p,
			Sentiment:   sentiment,
			CreatedAt:   now,
		}
		recs = append(recs, rec)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Confidence > recs[j].Confidence
	})

	s.log.Info("recommendations synthesized",
		logger.String("user_id", userID),
		logger.Int("count", len(recs)))
	return recs, nil
}

func typeFor(score float64) string {
	switch {
	case score > 0.8:
		return models.SignalStrongBuy
	case score > 0.6:
		return models.SignalBuy
	case score > 0.4:
		return models.SignalHold
	default:
		return models.SignalSell
	}
}

// riskLevelFor uses the blended score itself: a weak combined signal is the
// risky one. Note the medium label here, distinct from the profiler's
// moderate.
func riskLevelFor(score float64) string {
	switch {
	case score < 0.4:
		return "high"
	case score < 0.7:
		return "medium"
	default:
		return "low"
	}
}

func reasoning(symbol string, technical, sentiment, score float64, recType string, expectedReturn float64, riskLevel string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stock %s shows %.1f technical score with %.1f sentiment score. ", symbol, technical, sentiment)
	fmt.Fprintf(&b, "Combined risk-adjusted score: %.1f. ", score)
	fmt.Fprintf(&b, "Recommendation: %s with %.1f%% confidence. ", strings.ToUpper(recType), score*100)
	fmt.Fprintf(&b, "Expected return: %.1f%% with %s risk level.", expectedReturn, riskLevel)
	return b.String()
}
