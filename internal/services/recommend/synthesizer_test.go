package recommend

import (
	"context"
	"math"
	"strings"
	"testing"

	"BullBearPK/internal/domain/models"
	"BullBearPK/pkg/logger"
)

func testSynthesizer(t *testing.T) *Synthesizer {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewSynthesizer(log)
}

func profile(symbol string, confidence, momentum float64) models.TechnicalProfile {
	return models.TechnicalProfile{
		Symbol:     symbol,
		Name:       symbol + " Ltd",
		Sector:     "Technology",
		Confidence: confidence,
		Momentum:   momentum,
	}
}

func TestSynthesizeBlendsScores(t *testing.T) {
	s := testSynthesizer(t)
	profiles := []models.TechnicalProfile{profile("OGDC", 0.8, 0.05)}
	sentiments := map[string]models.SentimentProfile{
		"OGDC": {Symbol: "OGDC", Overall: models.SentimentBullish, Score: 0.9},
	}
	recs, err := s.Synthesize(context.Background(), "u1", profiles, sentiments, models.RiskProfile{}, models.Preferences{})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	r := recs[0]
	want := 0.8*0.6 + 0.9*0.4
	if math.Abs(r.Confidence-want) > 1e-9 {
		t.Fatalf("expected confidence %v, got %v", want, r.Confidence)
	}
	if r.Type != models.SignalStrongBuy {
		t.Fatalf("expected strong_buy at %.2f, got %s", r.Confidence, r.Type)
	}
	if math.Abs(r.ExpectedReturn-5) > 1e-9 {
		t.Fatalf("expected return 5, got %v", r.ExpectedReturn)
	}
	if !strings.Contains(r.Reasoning, "STRONG_BUY") {
		t.Fatalf("reasoning missing type: %q", r.Reasoning)
	}
}

func TestSynthesizeMissingSentimentUsesNeutral(t *testing.T) {
	s := testSynthesizer(t)
	profiles := []models.TechnicalProfile{profile("HBL", 0.5, 0)}
	recs, err := s.Synthesize(context.Background(), "u1", profiles, nil, models.RiskProfile{}, models.Preferences{})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	want := 0.5*0.6 + neutralSentimentScore*0.4
	if math.Abs(recs[0].Confidence-want) > 1e-9 {
		t.Fatalf("expected neutral blend %v, got %v", want, recs[0].Confidence)
	}
	if recs[0].Sentiment != nil {
		t.Fatalf("expected nil sentiment snapshot")
	}
	if recs[0].Type != models.SignalHold {
		t.Fatalf("expected hold at 0.5, got %s", recs[0].Type)
	}
}

func TestSynthesizeCapsAtFiveAndSorts(t *testing.T) {
	s := testSynthesizer(t)
	var profiles []models.TechnicalProfile
	confidences := []float64{0.3, 0.9, 0.5, 0.7, 0.4, 0.6, 0.8}
	for i, c := range confidences {
		profiles = append(profiles, profile(string(rune('A'+i)), c, 0))
	}
	recs, err := s.Synthesize(context.Background(), "u1", profiles, nil, models.RiskProfile{}, models.Preferences{})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if len(recs) != maxRecommendations {
		t.Fatalf("expected %d recommendations, got %d", maxRecommendations, len(recs))
	}
	for i := 1; i < len(recs); i++ {
		if recs[i-1].Confidence < recs[i].Confidence {
			t.Fatalf("not sorted descending at %d", i)
		}
	}
	// Only the first five profiles are considered before sorting.
	if recs[0].Symbol != "B" {
		t.Fatalf("expected B first, got %s", recs[0].Symbol)
	}
}

func TestSynthesizeSellOnWeakSignal(t *testing.T) {
	s := testSynthesizer(t)
	profiles := []models.TechnicalProfile{profile("WEAK", 0.2, -0.01)}
	sentiments := map[string]models.SentimentProfile{
		"WEAK": {Symbol: "WEAK", Overall: models.SentimentBearish, Score: -0.6},
	}
	recs, err := s.Synthesize(context.Background(), "u1", profiles, sentiments, models.RiskProfile{}, models.Preferences{})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if recs[0].Type != models.SignalSell {
		t.Fatalf("expected sell, got %s", recs[0].Type)
	}
	if recs[0].RiskLevel != "high" {
		t.Fatalf("expected high risk, got %s", recs[0].RiskLevel)
	}
}
