package usecase

import (
	"context"
	"sync"
	"time"

	"BullBearPK/internal/domain/models"
)

type fakeMarket struct {
	recs []models.MarketRecord
	err  error
}

func (f *fakeMarket) Latest(_ context.Context, sector string, _ int) ([]models.MarketRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if sector == "" || sector == "Any" {
		return f.recs, nil
	}
	var out []models.MarketRecord
	for _, r := range f.recs {
		if r.Sector == sector {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeMarket) LatestBySymbols(_ context.Context, symbols []string) ([]models.MarketRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.MarketRecord
	for _, r := range f.recs {
		for _, s := range symbols {
			if r.Symbol == s {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

type fakeNews struct {
	items map[string][]models.NewsItem
	err   error
}

func (f *fakeNews) Recent(_ context.Context, symbol string, _ int) ([]models.NewsItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items[symbol], nil
}

type fakeSubmissions struct {
	mu      sync.Mutex
	saved   []*models.Submission
	latest  *models.Submission
	saveErr error
}

func (f *fakeSubmissions) Init(context.Context) error { return nil }

func (f *fakeSubmissions) Save(_ context.Context, sub *models.Submission) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, sub)
	return nil
}

func (f *fakeSubmissions) LatestForUser(context.Context, string) (*models.Submission, error) {
	return f.latest, nil
}

func (f *fakeSubmissions) HistoryForUser(context.Context, string, int) ([]models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Submission, 0, len(f.saved))
	for _, s := range f.saved {
		out = append(out, *s)
	}
	return out, nil
}

type fakePortfolio struct {
	mu         sync.Mutex
	holdings   map[string][]models.Holding
	trades     map[string][]models.TradeRecord
	balances   map[string]float64
	hasBalance map[string]bool
}

func newFakePortfolio() *fakePortfolio {
	return &fakePortfolio{
		holdings:   make(map[string][]models.Holding),
		trades:     make(map[string][]models.TradeRecord),
		balances:   make(map[string]float64),
		hasBalance: make(map[string]bool),
	}
}

func (f *fakePortfolio) Holdings(_ context.Context, userID string) ([]models.Holding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Holding(nil), f.holdings[userID]...), nil
}

func (f *fakePortfolio) SaveHoldings(_ context.Context, userID string, holdings []models.Holding) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.holdings[userID] = append([]models.Holding(nil), holdings...)
	return nil
}

func (f *fakePortfolio) Trades(_ context.Context, userID string, _ int) ([]models.TradeRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.TradeRecord(nil), f.trades[userID]...), nil
}

func (f *fakePortfolio) AppendTrade(_ context.Context, userID string, tr models.TradeRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trades[userID] = append(f.trades[userID], tr)
	return nil
}

func (f *fakePortfolio) Balance(_ context.Context, userID string) (float64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[userID], f.hasBalance[userID], nil
}

func (f *fakePortfolio) SaveBalance(_ context.Context, userID string, balance float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[userID] = balance
	f.hasBalance[userID] = true
	return nil
}

type fakePublisher struct {
	mu        sync.Mutex
	published int
	err       error
}

func (f *fakePublisher) PublishRun(context.Context, *models.PipelineResult) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published++
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type fakeMetrics struct {
	mu     sync.Mutex
	stages map[string]int
	runs   map[bool]int
	errors map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		stages: make(map[string]int),
		runs:   make(map[bool]int),
		errors: make(map[string]int),
	}
}

func (f *fakeMetrics) RecordStage(stage string, _ bool, _ float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stages[stage]++
}

func (f *fakeMetrics) RecordRun(success bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs[success]++
}

func (f *fakeMetrics) RecordIngested(string, int) {}
func (f *fakeMetrics) RecordError(kind string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors[kind]++
}
func (f *fakeMetrics) RecordLastPrice(string, float64) {}

type fakeSentimentCache struct {
	mu sync.Mutex
	m  map[string]models.SentimentProfile
}

func newFakeSentimentCache() *fakeSentimentCache {
	return &fakeSentimentCache{m: make(map[string]models.SentimentProfile)}
}

func (f *fakeSentimentCache) Get(_ context.Context, symbol string) (*models.SentimentProfile, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.m[symbol]; ok {
		return &p, true
	}
	return nil, false
}

func (f *fakeSentimentCache) Set(_ context.Context, symbol string, p *models.SentimentProfile, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m[symbol] = *p
}
