package sentiment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"BullBearPK/internal/domain/models"
	"BullBearPK/pkg/logger"
)

// keywordCap limits each extracted keyword list after deduplication.
const keywordCap = 5

// Analyzer aggregates a symbol's news window into one sentiment profile.
// Stateless and safe for concurrent use across symbols.
type Analyzer struct {
	log *logger.Logger
}

func NewAnalyzer(log *logger.Logger) *Analyzer {
	return &Analyzer{log: log}
}

// Analyze scores each article and derives the overall label from positive
// and negative article ratios. An empty item set returns the neutral
// profile with zero confidence; it is not an error.
func (a *Analyzer) Analyze(ctx context.Context, symbol string, items []models.NewsItem) (models.SentimentProfile, error) {
	if err := ctx.Err(); err != nil {
		return models.SentimentProfile{}, err
	}
	if len(items) == 0 {
		return models.NeutralSentiment(symbol), nil
	}

	p := models.SentimentProfile{
		Symbol:       symbol,
		ArticleCount: len(items),
		AnalyzedAt:   time.Now(),
	}

	var totalConfidence float64
	var keyEvents, riskFactors, opportunities []string
	for _, item := range items {
		text := item.Title + " " + item.Summary
		textLower := strings.ToLower(text)

		label, _ := classify(text)
		switch label {
		case "positive":
			p.Positive++
		case "negative":
			p.Negative++
		default:
			p.Neutral++
		}
		totalConfidence += articleConfidence(text)

		if highImpact(textLower) {
			keyEvents = append(keyEvents, item.Title)
		}
		riskFactors = append(riskFactors, matchKeywords(textLower, riskKeywords)...)
		opportunities = append(opportunities, matchKeywords(textLower, opportunityKeywords)...)
	}

	total := float64(len(items))
	posRatio := float64(p.Positive) / total
	negRatio := float64(p.Negative) / total
	switch {
	case posRatio > negRatio && posRatio > 0.4:
		p.Overall = models.SentimentBullish
		p.Score = posRatio
	case negRatio > posRatio && negRatio > 0.4:
		p.Overall = models.SentimentBearish
		p.Score = -negRatio
	default:
		p.Overall = models.SentimentNeutral
		p.Score = 0
	}

	p.KeyEvents = dedupeCap(keyEvents)
	p.RiskFactors = dedupeCap(riskFactors)
	p.Opportunities = dedupeCap(opportunities)

	avgConfidence := totalConfidence / total
	p.Advice, p.Confidence = advise(p, avgConfidence)
	p.Summary = summarize(symbol, &p)

	a.log.Debug("sentiment analyzed",
		logger.String("symbol", symbol),
		logger.String("overall", p.Overall),
		logger.Int("articles", p.ArticleCount))
	return p, nil
}

// advise maps the aggregate sentiment to advice text and a capped confidence.
func advise(p models.SentimentProfile, avgConfidence float64) (string, float64) {
	switch p.Overall {
	case models.SentimentBullish:
		if p.Score > 0.7 && len(p.Opportunities) > len(p.RiskFactors) {
			return "Strong buy recommendation based on positive news sentiment and growth opportunities.",
				min(0.9, avgConfidence+0.2)
		}
		return "Buy recommendation based on positive news sentiment.", min(0.8, avgConfidence+0.1)
	case models.SentimentBearish:
		if p.Score < -0.7 && len(p.RiskFactors) > len(p.Opportunities) {
			return "Strong sell recommendation due to negative news sentiment and risk factors.",
				min(0.9, avgConfidence+0.2)
		}
		return "Sell recommendation based on negative news sentiment.", min(0.8, avgConfidence+0.1)
	default:
		if len(p.Opportunities) > len(p.RiskFactors) {
			return "Hold with potential for growth based on mixed news sentiment.", min(0.7, avgConfidence)
		}
		return "Hold with caution due to mixed news sentiment.", min(0.6, avgConfidence)
	}
}

func summarize(symbol string, p *models.SentimentProfile) string {
	parts := []string{
		fmt.Sprintf("News analysis for %s:", symbol),
		fmt.Sprintf("Analyzed %d news articles", p.ArticleCount),
		fmt.Sprintf("Overall sentiment: %s", p.Overall),
		fmt.Sprintf("News distribution: %d positive, %d negative, %d neutral", p.Positive, p.Negative, p.Neutral),
	}
	if len(p.KeyEvents) > 0 {
		parts = append(parts, fmt.Sprintf("Key high-impact events: %d", len(p.KeyEvents)))
	}
	if len(p.RiskFactors) > 0 {
		parts = append(parts, fmt.Sprintf("Risk factors identified: %d", len(p.RiskFactors)))
	}
	if len(p.Opportunities) > 0 {
		parts = append(parts, fmt.Sprintf("Growth opportunities: %d", len(p.Opportunities)))
	}
	return strings.Join(parts, " | ")
}

// dedupeCap removes duplicates preserving first-seen order, then caps the
// list so diffs between runs stay deterministic.
func dedupeCap(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if len(out) == keywordCap {
			break
		}
	}
	return out
}
