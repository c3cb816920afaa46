package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"BullBearPK/internal/domain/models"
	domrepo "BullBearPK/internal/domain/repository"
	domservice "BullBearPK/internal/domain/service"
	"BullBearPK/pkg/logger"

	"github.com/google/uuid"
)

// Defaults for one pipeline run.
const (
	defaultStageTimeout  = 15 * time.Second
	defaultSnapshotLimit = 100
	defaultNewsLimit     = 20
	sentimentCacheTTL    = 30 * time.Minute
)

// PipelineDeps wires the stores and stage services into the orchestrator.
type PipelineDeps struct {
	Market      domrepo.SnapshotProvider
	News        domrepo.NewsSource
	Submissions domrepo.SubmissionStore
	Portfolio   domrepo.PortfolioStore
	Publisher   domrepo.Publisher
	Metrics     domrepo.Metrics
	Sentiments  domrepo.SentimentCache

	Technical   domservice.TechnicalAnalyzer
	Sentiment   domservice.SentimentAnalyzer
	Risk        domservice.RiskProfiler
	Reconciler  domservice.PortfolioReconciler
	Synthesizer domservice.Synthesizer
	Differ      domservice.Differ

	Log *logger.Logger
}

// Pipeline runs the fixed six-stage recommendation flow. Stages degrade to
// documented defaults instead of failing the run; only a persistence failure
// marks the run unsuccessful.
type Pipeline struct {
	deps         PipelineDeps
	stageTimeout time.Duration
}

func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{deps: deps, stageTimeout: defaultStageTimeout}
}

// Run executes one cycle for a user. The previous run's recommendation set
// is fetched up front so the new set can be diffed against it; both sets are
// retained in history.
func (p *Pipeline) Run(ctx context.Context, userID string, prefs models.Preferences) (*models.PipelineResult, error) {
	start := time.Now()
	result := &models.PipelineResult{UserID: userID}
	state := models.PipelineState{UserID: userID, Preferences: prefs, StartedAt: start}

	var prev []models.Recommendation
	if sub, err := p.deps.Submissions.LatestForUser(ctx, userID); err != nil {
		p.deps.Log.Warn("previous submission unavailable",
			logger.String("user_id", userID), logger.Error(err))
	} else if sub != nil {
		prev = sub.Recommendations
	}

	state = p.runMarket(ctx, state, result)
	state = p.runTechnical(ctx, state, result)
	state = p.runSentiment(ctx, state, result)
	state = p.runRisk(ctx, state, result)
	state = p.runPortfolio(ctx, state, result)
	recs := p.runSynthesis(ctx, state, result)

	result.Recommendations = recs
	result.Delta = p.deps.Differ.Diff(prev, recs)
	result.Cohort = state.Cohort
	result.Portfolio = state.Portfolio
	result.Risk = state.Risk
	result.CompletedAt = time.Now()

	sub := &models.Submission{
		ID:              uuid.New().String(),
		UserID:          userID,
		Preferences:     prefs,
		Recommendations: recs,
		SubmittedAt:     result.CompletedAt,
	}
	if err := p.deps.Submissions.Save(ctx, sub); err != nil {
		result.Success = false
		p.deps.Metrics.RecordRun(false)
		p.deps.Log.Error("submission persist failed",
			logger.String("user_id", userID), logger.Error(err))
		return result, fmt.Errorf("save submission: %w", err)
	}
	result.SubmissionID = sub.ID
	result.Success = true
	p.deps.Metrics.RecordRun(true)

	if p.deps.Publisher != nil {
		if err := p.deps.Publisher.PublishRun(ctx, result); err != nil {
			p.deps.Log.Warn("recommendation event publish failed",
				logger.String("user_id", userID), logger.Error(err))
			p.deps.Metrics.RecordError("publish")
		}
	}

	p.deps.Log.Info("pipeline run completed",
		logger.String("user_id", userID),
		logger.String("submission_id", sub.ID),
		logger.Int("recommendations", len(recs)),
		logger.Duration("elapsed", time.Since(start)))
	return result, nil
}

// stage runs fn under the stage timeout and records status and metrics.
// A failed stage reports degraded and the pipeline moves on with defaults.
func (p *Pipeline) stage(ctx context.Context, result *models.PipelineResult, name string, fn func(context.Context) error) bool {
	ctx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	defer cancel()

	began := time.Now()
	err := fn(ctx)
	status := models.StageStatus{Name: name, Elapsed: time.Since(began)}
	if err != nil {
		status.Degraded = true
		status.Error = err.Error()
		p.deps.Log.Warn("stage degraded",
			logger.String("stage", name), logger.Error(err))
		p.deps.Metrics.RecordError(name)
	}
	p.deps.Metrics.RecordStage(name, status.Degraded, status.Elapsed.Seconds())
	result.Stages = append(result.Stages, status)
	return err == nil
}

func (p *Pipeline) runMarket(ctx context.Context, state models.PipelineState, result *models.PipelineResult) models.PipelineState {
	var recs []models.MarketRecord
	p.stage(ctx, result, models.StageMarket, func(ctx context.Context) error {
		var err error
		recs, err = p.deps.Market.Latest(ctx, state.Preferences.SectorPreference, defaultSnapshotLimit)
		return err
	})
	return state.WithRecords(recs)
}

func (p *Pipeline) runTechnical(ctx context.Context, state models.PipelineState, result *models.PipelineResult) models.PipelineState {
	var profiles []models.TechnicalProfile
	var cohort models.CohortSummary
	p.stage(ctx, result, models.StageTechnical, func(ctx context.Context) error {
		if len(state.Records) == 0 {
			return fmt.Errorf("no market records available")
		}
		var err error
		profiles, cohort, err = p.deps.Technical.Analyze(ctx, state.Records, state.Preferences)
		return err
	})
	return state.WithTechnical(profiles, cohort)
}

// runSentiment fans out one goroutine per ranked symbol. A symbol whose news
// fetch or scoring fails gets the neutral profile; one bad symbol never
// poisons the rest.
func (p *Pipeline) runSentiment(ctx context.Context, state models.PipelineState, result *models.PipelineResult) models.PipelineState {
	sentiments := make(map[string]models.SentimentProfile, len(state.Technical))
	p.stage(ctx, result, models.StageSentiment, func(ctx context.Context) error {
		type item struct {
			symbol  string
			profile models.SentimentProfile
		}
		ch := make(chan item, len(state.Technical))
		var wg sync.WaitGroup
		for _, tp := range state.Technical {
			symbol := tp.Symbol
			wg.Add(1)
			go func() {
				defer wg.Done()
				ch <- item{symbol, p.symbolSentiment(ctx, symbol)}
			}()
		}
		go func() { wg.Wait(); close(ch) }()

		for it := range ch {
			sentiments[it.symbol] = it.profile
		}
		return nil
	})
	return state.WithSentiments(sentiments)
}

func (p *Pipeline) symbolSentiment(ctx context.Context, symbol string) models.SentimentProfile {
	if p.deps.Sentiments != nil {
		if cached, ok := p.deps.Sentiments.Get(ctx, symbol); ok {
			return *cached
		}
	}

	items, err := p.deps.News.Recent(ctx, symbol, defaultNewsLimit)
	if err != nil {
		p.deps.Log.Warn("news fetch failed, using neutral sentiment",
			logger.String("symbol", symbol), logger.Error(err))
		return models.NeutralSentiment(symbol)
	}
	profile, err := p.deps.Sentiment.Analyze(ctx, symbol, items)
	if err != nil {
		p.deps.Log.Warn("sentiment analysis failed, using neutral sentiment",
			logger.String("symbol", symbol), logger.Error(err))
		return models.NeutralSentiment(symbol)
	}
	if p.deps.Sentiments != nil {
		p.deps.Sentiments.Set(ctx, symbol, &profile, sentimentCacheTTL)
	}
	return profile
}

func (p *Pipeline) runRisk(ctx context.Context, state models.PipelineState, result *models.PipelineResult) models.PipelineState {
	profile := models.ModerateRiskProfile(state.UserID)
	p.stage(ctx, result, models.StageRisk, func(ctx context.Context) error {
		trades, err := p.deps.Portfolio.Trades(ctx, state.UserID, 0)
		if err != nil {
			return fmt.Errorf("load trades: %w", err)
		}
		holdings, err := p.deps.Portfolio.Holdings(ctx, state.UserID)
		if err != nil {
			return fmt.Errorf("load holdings: %w", err)
		}
		cash, _, err := p.deps.Portfolio.Balance(ctx, state.UserID)
		if err != nil {
			return fmt.Errorf("load balance: %w", err)
		}
		profile, err = p.deps.Risk.Profile(ctx, state.UserID, state.Preferences.RiskTolerance, trades, holdings, cash)
		return err
	})
	return state.WithRisk(profile)
}

func (p *Pipeline) runPortfolio(ctx context.Context, state models.PipelineState, result *models.PipelineResult) models.PipelineState {
	snapshot := models.NewUserSnapshot(state.UserID)
	p.stage(ctx, result, models.StagePortfolio, func(ctx context.Context) error {
		holdings, err := p.deps.Portfolio.Holdings(ctx, state.UserID)
		if err != nil {
			return fmt.Errorf("load holdings: %w", err)
		}
		cash, hasAccount, err := p.deps.Portfolio.Balance(ctx, state.UserID)
		if err != nil {
			return fmt.Errorf("load balance: %w", err)
		}

		quotes := make(map[string]models.MarketRecord, len(state.Records))
		for _, rec := range state.Records {
			quotes[rec.Symbol] = rec
		}
		if len(holdings) > 0 {
			if missing := missingSymbols(holdings, quotes); len(missing) > 0 {
				extra, err := p.deps.Market.LatestBySymbols(ctx, missing)
				if err != nil {
					p.deps.Log.Warn("quote backfill failed", logger.Error(err))
				}
				for _, rec := range extra {
					quotes[rec.Symbol] = rec
				}
			}
		}

		snapshot, err = p.deps.Reconciler.Reconcile(ctx, state.UserID, holdings, quotes, cash, hasAccount)
		return err
	})
	return state.WithPortfolio(snapshot)
}

func (p *Pipeline) runSynthesis(ctx context.Context, state models.PipelineState, result *models.PipelineResult) []models.Recommendation {
	var recs []models.Recommendation
	p.stage(ctx, result, models.StageSynthesis, func(ctx context.Context) error {
		var err error
		recs, err = p.deps.Synthesizer.Synthesize(ctx, state.UserID, state.Technical, state.Sentiments, state.Risk, state.Preferences)
		return err
	})
	return recs
}

// Snapshot reconciles a user's portfolio on demand, outside a run.
func (p *Pipeline) Snapshot(ctx context.Context, userID string) (models.PortfolioSnapshot, error) {
	holdings, err := p.deps.Portfolio.Holdings(ctx, userID)
	if err != nil {
		return models.PortfolioSnapshot{}, fmt.Errorf("load holdings: %w", err)
	}
	cash, hasAccount, err := p.deps.Portfolio.Balance(ctx, userID)
	if err != nil {
		return models.PortfolioSnapshot{}, fmt.Errorf("load balance: %w", err)
	}

	quotes := make(map[string]models.MarketRecord, len(holdings))
	if missing := missingSymbols(holdings, quotes); len(missing) > 0 {
		recs, err := p.deps.Market.LatestBySymbols(ctx, missing)
		if err != nil {
			p.deps.Log.Warn("quote backfill failed", logger.Error(err))
		}
		for _, rec := range recs {
			quotes[rec.Symbol] = rec
		}
	}
	return p.deps.Reconciler.Reconcile(ctx, userID, holdings, quotes, cash, hasAccount)
}

func missingSymbols(holdings []models.Holding, quotes map[string]models.MarketRecord) []string {
	var out []string
	for _, h := range holdings {
		if !h.Active() {
			continue
		}
		if _, ok := quotes[h.Symbol]; !ok {
			out = append(out, h.Symbol)
		}
	}
	return out
}
