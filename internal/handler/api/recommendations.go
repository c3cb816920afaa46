package api

import (
	"strconv"
	"time"

	models "BullBearPK/internal/domain/models"
	domrepo "BullBearPK/internal/domain/repository"
	icache "BullBearPK/internal/service/cache"
	"BullBearPK/internal/service/ratelimit"
	"BullBearPK/internal/usecase"
	xhttp "BullBearPK/pkg/http"
	xlogger "BullBearPK/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Pipeline runs are expensive; each user gets a small burst budget that
// refills every two seconds.
const (
	runCapacity     = 3
	runRefillPerSec = 0.5
)

// RecommendationsHandler exposes the pipeline, decisions, and read views over
// Echo.
type RecommendationsHandler struct {
	logger    *xlogger.Logger
	pipeline  *usecase.Pipeline
	decisions *usecase.DecisionLedger
	market    domrepo.SnapshotProvider
	records   *usecase.MarketHistoryUseCase
	history   domrepo.SubmissionStore
	cache     icache.BytesCache
	rl        *ratelimit.Limiter
}

func NewRecommendationsHandler(
	logger *xlogger.Logger,
	pipeline *usecase.Pipeline,
	decisions *usecase.DecisionLedger,
	market domrepo.SnapshotProvider,
	records *usecase.MarketHistoryUseCase,
	history domrepo.SubmissionStore,
) *RecommendationsHandler {
	return &RecommendationsHandler{
		logger:    logger,
		pipeline:  pipeline,
		decisions: decisions,
		market:    market,
		records:   records,
		history:   history,
		rl:        ratelimit.New(),
	}
}

// SetCache injects a response cache for the market snapshot view.
func (h *RecommendationsHandler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *RecommendationsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/recommendations", h.Run)
	g.POST("/decisions", h.Decide)
	g.GET("/portfolio", h.Portfolio)
	g.GET("/market", h.Market)
	g.GET("/records", h.Records)
	g.GET("/history", h.History)
}

// Run executes one full pipeline cycle for the requesting user.
func (h *RecommendationsHandler) Run(c echo.Context) error {
	req := &models.RunRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	rateKey := req.UserID + ":run"
	if !h.rl.Allow(rateKey, runCapacity, runRefillPerSec) {
		wait := h.rl.RetryAfter(rateKey, runCapacity, runRefillPerSec)
		c.Response().Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
		return xhttp.TooManyRequestsResponse(c)
	}

	res, err := h.pipeline.Run(c.Request().Context(), req.UserID, req.Preferences)
	if err != nil {
		h.logger.Error("pipeline run error",
			xlogger.String("user_id", req.UserID), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Decide applies a buy, sell, hold, or pending action.
func (h *RecommendationsHandler) Decide(c echo.Context) error {
	req := &models.DecisionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.decisions.Handle(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("decision error",
			xlogger.String("user_id", req.UserID),
			xlogger.String("action", req.Action),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Portfolio returns the reconciled portfolio for a user.
func (h *RecommendationsHandler) Portfolio(c echo.Context) error {
	req := &models.PortfolioQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	snap, err := h.pipeline.Snapshot(c.Request().Context(), req.UserID)
	if err != nil {
		h.logger.Error("portfolio view error",
			xlogger.String("user_id", req.UserID), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, snap)
}

// Market returns the latest snapshot per symbol, optionally by sector.
func (h *RecommendationsHandler) Market(c echo.Context) error {
	req := &models.MarketQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	cacheKey := "market:" + req.Sector
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(cacheKey); err != nil {
			h.logger.Warn("market cache get error", xlogger.Error(err))
		} else if ok {
			return c.JSONBlob(200, b)
		}
	}

	recs, err := h.market.Latest(c.Request().Context(), req.Sector, req.Limit)
	if err != nil {
		h.logger.Error("market view error",
			xlogger.String("sector", req.Sector), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	if h.cache != nil {
		if b, err := xhttp.MarshalEnvelope(recs); err == nil {
			if err := h.cache.SetBytes(cacheKey, b, 30*time.Second); err != nil {
				h.logger.Warn("market cache set error", xlogger.Error(err))
			}
		}
	}
	return xhttp.SuccessResponse(c, recs)
}

// Records returns a symbol's stored history over a horizon window.
func (h *RecommendationsHandler) Records(c echo.Context) error {
	req := &models.RecordsQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.records.GetRecords(c.Request().Context(), usecase.GetRecordsParams{
		Symbol:  req.Symbol,
		Horizon: domrepo.NormalizeHorizon(req.Horizon),
		Limit:   req.Limit,
	})
	if err != nil {
		h.logger.Error("records view error",
			xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// History returns the submission history for a user, newest first.
func (h *RecommendationsHandler) History(c echo.Context) error {
	req := &models.HistoryQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	subs, err := h.history.HistoryForUser(c.Request().Context(), req.UserID, req.Limit)
	if err != nil {
		h.logger.Error("history view error",
			xlogger.String("user_id", req.UserID), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, subs)
}
