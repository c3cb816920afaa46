package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"BullBearPK/internal/domain/models"
	"BullBearPK/internal/services/portfolio"
	"BullBearPK/internal/services/recommend"
	"BullBearPK/internal/services/risk"
	"BullBearPK/internal/services/sentiment"
	"BullBearPK/internal/services/technical"
	"BullBearPK/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func marketRecord(symbol, sector string, changePct float64) models.MarketRecord {
	close := 100.0
	return models.MarketRecord{
		Symbol: symbol, Name: symbol + " Ltd", Sector: sector,
		Open: close * 0.99, High: close * 1.02, Low: close * 0.97, Close: close,
		Volume: 800_000, ChangeAmount: changePct, ChangePercent: changePct,
		AsOf: time.Now(),
	}
}

type pipelineFixture struct {
	market      *fakeMarket
	news        *fakeNews
	submissions *fakeSubmissions
	portfolio   *fakePortfolio
	publisher   *fakePublisher
	metrics     *fakeMetrics
	pipeline    *Pipeline
}

func newFixture(t *testing.T) *pipelineFixture {
	log := testLogger(t)
	f := &pipelineFixture{
		market: &fakeMarket{recs: []models.MarketRecord{
			marketRecord("OGDC", "Energy", 2.5),
			marketRecord("HBL", "Banking", -1.0),
			marketRecord("SYS", "Technology", 4.0),
		}},
		news: &fakeNews{items: map[string][]models.NewsItem{
			"OGDC": {{Symbol: "OGDC", Title: "Strong profit growth reported", Summary: "Impressive results"}},
		}},
		submissions: &fakeSubmissions{},
		portfolio:   newFakePortfolio(),
		publisher:   &fakePublisher{},
		metrics:     newFakeMetrics(),
	}
	f.pipeline = NewPipeline(PipelineDeps{
		Market:      f.market,
		News:        f.news,
		Submissions: f.submissions,
		Portfolio:   f.portfolio,
		Publisher:   f.publisher,
		Metrics:     f.metrics,
		Sentiments:  newFakeSentimentCache(),
		Technical:   technical.NewEngine(log),
		Sentiment:   sentiment.NewAnalyzer(log),
		Risk:        risk.NewProfiler(log),
		Reconciler:  portfolio.NewReconciler(log),
		Synthesizer: recommend.NewSynthesizer(log),
		Differ:      recommend.NewDiffer(),
		Log:         log,
	})
	return f
}

func prefs() models.Preferences {
	return models.Preferences{
		Budget:           50000,
		SectorPreference: "Any",
		RiskTolerance:    "moderate",
		TimeHorizon:      "medium",
		TargetProfit:     10,
		InvestmentGoal:   "growth",
	}
}

func TestRunHappyPath(t *testing.T) {
	f := newFixture(t)
	result, err := f.pipeline.Run(context.Background(), "u1", prefs())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, stages: %+v", result.Stages)
	}
	if result.SubmissionID == "" {
		t.Fatalf("expected submission id")
	}
	if len(result.Stages) != 6 {
		t.Fatalf("expected 6 stages, got %d", len(result.Stages))
	}
	for _, st := range result.Stages {
		if st.Degraded {
			t.Fatalf("stage %s unexpectedly degraded: %s", st.Name, st.Error)
		}
	}
	if len(result.Recommendations) == 0 || len(result.Recommendations) > 5 {
		t.Fatalf("unexpected recommendation count %d", len(result.Recommendations))
	}
	// First run: everything is new.
	if len(result.Delta.Added) != len(result.Recommendations) {
		t.Fatalf("expected all added, got %+v", result.Delta)
	}
	if len(f.submissions.saved) != 1 {
		t.Fatalf("expected 1 saved submission, got %d", len(f.submissions.saved))
	}
	if len(f.submissions.saved[0].Recommendations) != len(result.Recommendations) {
		t.Fatalf("submission should retain the recommendation set")
	}
	if f.publisher.published != 1 {
		t.Fatalf("expected 1 published event, got %d", f.publisher.published)
	}
	if result.Cohort.Total != 3 {
		t.Fatalf("expected cohort over 3 records, got %+v", result.Cohort)
	}
	if result.Cohort.Gainers != 2 || result.Cohort.Losers != 1 {
		t.Fatalf("unexpected gainer/loser split: %+v", result.Cohort)
	}
	if result.Portfolio.Status != models.PortfolioNewUser {
		t.Fatalf("expected new_user portfolio, got %s", result.Portfolio.Status)
	}
	if result.Risk.Level != models.RiskModerate {
		t.Fatalf("expected moderate risk default, got %s", result.Risk.Level)
	}
}

func TestRunMarketFailureDegradesButSucceeds(t *testing.T) {
	f := newFixture(t)
	f.market.err = errors.New("clickhouse down")

	result, err := f.pipeline.Run(context.Background(), "u1", prefs())
	if err != nil {
		t.Fatalf("run should not fail on stage degradation: %v", err)
	}
	if !result.Success {
		t.Fatalf("run should still persist and succeed")
	}
	if !result.Stages[0].Degraded {
		t.Fatalf("market stage should be degraded")
	}
	if len(result.Recommendations) != 0 {
		t.Fatalf("no records should mean no recommendations, got %d", len(result.Recommendations))
	}
}

func TestRunPersistFailureFailsRun(t *testing.T) {
	f := newFixture(t)
	f.submissions.saveErr = errors.New("disk full")

	result, err := f.pipeline.Run(context.Background(), "u1", prefs())
	if err == nil {
		t.Fatalf("expected persist error")
	}
	if result.Success {
		t.Fatalf("persist failure must not report success")
	}
	if f.publisher.published != 0 {
		t.Fatalf("failed runs must not publish events")
	}
}

func TestRunDiffsAgainstPreviousSubmission(t *testing.T) {
	f := newFixture(t)
	first, err := f.pipeline.Run(context.Background(), "u1", prefs())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	f.submissions.latest = f.submissions.saved[0]

	second, err := f.pipeline.Run(context.Background(), "u1", prefs())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(second.Delta.Added) != 0 {
		t.Fatalf("identical inputs should add nothing, got %+v", second.Delta.Added)
	}
	if second.Delta.Total() != len(first.Recommendations) {
		t.Fatalf("delta should classify every prior symbol")
	}
}

func TestRunNewsFailureFallsBackToNeutral(t *testing.T) {
	f := newFixture(t)
	f.news.err = errors.New("scraper offline")

	result, err := f.pipeline.Run(context.Background(), "u1", prefs())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.Success {
		t.Fatalf("news failure must not fail the run")
	}
	for _, st := range result.Stages {
		if st.Name == models.StageSentiment && st.Degraded {
			t.Fatalf("per-symbol news failures should not degrade the stage")
		}
	}
	for _, rec := range result.Recommendations {
		if rec.Sentiment != nil && rec.Sentiment.Overall != models.SentimentNeutral {
			t.Fatalf("expected neutral sentiment fallback, got %s", rec.Sentiment.Overall)
		}
	}
}

func TestRunSectorPreferenceFilters(t *testing.T) {
	f := newFixture(t)
	p := prefs()
	p.SectorPreference = "Banking"

	result, err := f.pipeline.Run(context.Background(), "u1", p)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, rec := range result.Recommendations {
		if rec.Sector != "Banking" {
			t.Fatalf("expected only Banking, got %s", rec.Sector)
		}
	}
}
