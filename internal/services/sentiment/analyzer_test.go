package sentiment

import (
	"context"
	"math"
	"testing"

	"BullBearPK/internal/domain/models"
	"BullBearPK/pkg/logger"
)

func testAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewAnalyzer(log)
}

func TestAnalyzeNoNews(t *testing.T) {
	a := testAnalyzer(t)
	p, err := a.Analyze(context.Background(), "HBL", nil)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if p.Overall != models.SentimentNeutral {
		t.Fatalf("expected neutral, got %s", p.Overall)
	}
	if p.Score != 0 || p.Confidence != 0 {
		t.Fatalf("expected zero score and confidence, got %v / %v", p.Score, p.Confidence)
	}
	if p.Advice != "No recent news available for analysis." {
		t.Fatalf("unexpected advice: %q", p.Advice)
	}
}

func TestAnalyzeMostlyPositive(t *testing.T) {
	a := testAnalyzer(t)
	items := []models.NewsItem{
		{Symbol: "OGDC", Title: "Strong profit growth reported", Summary: "Impressive quarterly results"},
		{Symbol: "OGDC", Title: "Shares surge on record earnings", Summary: "Excellent performance"},
		{Symbol: "OGDC", Title: "Analysts upgrade on strong momentum", Summary: "Bullish outlook ahead"},
		{Symbol: "OGDC", Title: "Fraud scandal triggers crisis", Summary: "Investigation under way"},
		{Symbol: "OGDC", Title: "Board meeting scheduled next Tuesday", Summary: ""},
	}
	p, err := a.Analyze(context.Background(), "OGDC", items)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if p.Overall != models.SentimentBullish {
		t.Fatalf("expected bullish, got %s (pos=%d neg=%d neu=%d)", p.Overall, p.Positive, p.Negative, p.Neutral)
	}
	if math.Abs(p.Score-0.6) > 1e-9 {
		t.Fatalf("expected score 0.6, got %v", p.Score)
	}
	if p.Positive != 3 || p.Negative != 1 || p.Neutral != 1 {
		t.Fatalf("unexpected distribution: %d/%d/%d", p.Positive, p.Negative, p.Neutral)
	}
	if p.Confidence <= 0 || p.Confidence > 0.8 {
		t.Fatalf("confidence out of range: %v", p.Confidence)
	}
}

func TestAnalyzeBearish(t *testing.T) {
	a := testAnalyzer(t)
	items := []models.NewsItem{
		{Symbol: "X", Title: "Fraud scandal deepens crisis", Summary: "Heavy losses expected"},
		{Symbol: "X", Title: "Weak results miss forecasts", Summary: "Poor outlook, bearish sentiment"},
		{Symbol: "X", Title: "Strong profit growth impressive", Summary: ""},
	}
	p, err := a.Analyze(context.Background(), "X", items)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if p.Overall != models.SentimentBearish {
		t.Fatalf("expected bearish, got %s", p.Overall)
	}
	if p.Score >= 0 {
		t.Fatalf("bearish score should be negative, got %v", p.Score)
	}
}

func TestKeywordListsDedupedAndCapped(t *testing.T) {
	a := testAnalyzer(t)
	var items []models.NewsItem
	for i := 0; i < 8; i++ {
		items = append(items, models.NewsItem{
			Symbol:  "Y",
			Title:   "Growth expansion profit success award partnership investment funding",
			Summary: "growth expansion",
		})
	}
	p, err := a.Analyze(context.Background(), "Y", items)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(p.Opportunities) != keywordCap {
		t.Fatalf("expected %d opportunities, got %d", keywordCap, len(p.Opportunities))
	}
	seen := map[string]bool{}
	for _, kw := range p.Opportunities {
		if seen[kw] {
			t.Fatalf("duplicate keyword %q", kw)
		}
		seen[kw] = true
	}
}

func TestScoreUnknownText(t *testing.T) {
	polarity, subjectivity := Score("the quick brown fox")
	if polarity != 0 || subjectivity != 0 {
		t.Fatalf("expected zero scores, got %v / %v", polarity, subjectivity)
	}
}
