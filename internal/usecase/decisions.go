package usecase

import (
	"context"
	"fmt"
	"time"

	"BullBearPK/internal/domain/models"
	domrepo "BullBearPK/internal/domain/repository"
	"BullBearPK/pkg/logger"

	"github.com/shopspring/decimal"
)

// DecisionLedger applies buy, sell, hold and pending decisions to the
// user's holdings and trade history. Buys against an existing position merge
// into it at a new average price; sells validate quantity and realize P&L
// against the average buy price.
type DecisionLedger struct {
	portfolio domrepo.PortfolioStore
	market    domrepo.SnapshotProvider
	log       *logger.Logger
}

func NewDecisionLedger(portfolio domrepo.PortfolioStore, market domrepo.SnapshotProvider, log *logger.Logger) *DecisionLedger {
	return &DecisionLedger{portfolio: portfolio, market: market, log: log}
}

// Handle routes one decision. A rejected decision is a normal result with
// Status "rejected", not an error; errors are reserved for storage failures.
func (l *DecisionLedger) Handle(ctx context.Context, req models.DecisionRequest) (*models.DecisionResult, error) {
	l.log.Info("processing decision",
		logger.String("user_id", req.UserID),
		logger.String("action", req.Action),
		logger.String("symbol", req.Symbol))

	switch req.Action {
	case models.DecisionBuy:
		return l.buy(ctx, req)
	case models.DecisionSell:
		return l.sell(ctx, req)
	case models.DecisionHold:
		return l.hold(ctx, req)
	case models.DecisionPending:
		return l.pending(ctx, req)
	default:
		return reject(req, fmt.Sprintf("Invalid decision type: %s", req.Action)), nil
	}
}

func (l *DecisionLedger) buy(ctx context.Context, req models.DecisionRequest) (*models.DecisionResult, error) {
	if req.Quantity <= 0 || req.Price <= 0 {
		return reject(req, "Missing required parameters for buy decision"), nil
	}

	name, sector := l.symbolDetails(ctx, req.Symbol)
	holdings, err := l.portfolio.Holdings(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load holdings: %w", err)
	}

	qty := decimal.NewFromInt(req.Quantity)
	price := decimal.NewFromFloat(req.Price)
	amount := qty.Mul(price)
	now := time.Now()

	if idx := findActive(holdings, req.Symbol); idx >= 0 {
		h := &holdings[idx]
		h.Quantity = h.Quantity.Add(qty)
		h.Invested = h.Invested.Add(amount)
		h.BuyPrice = h.Invested.Div(h.Quantity)
		h.Status = models.HoldingActive
		h.LastUpdated = now
	} else {
		holdings = append(holdings, models.Holding{
			Symbol:   req.Symbol,
			Name:     name,
			Sector:   sector,
			Quantity: qty,
			BuyPrice: price,
			Invested: amount,
			Status:   models.HoldingActive,
			BuyDate:  now,
		})
	}
	if err := l.portfolio.SaveHoldings(ctx, req.UserID, holdings); err != nil {
		return nil, fmt.Errorf("save holdings: %w", err)
	}

	if err := l.portfolio.AppendTrade(ctx, req.UserID, models.TradeRecord{
		Symbol:   req.Symbol,
		Sector:   sector,
		Invested: amountFloat(amount),
		BuyDate:  now,
		Status:   models.HoldingActive,
	}); err != nil {
		return nil, fmt.Errorf("append trade: %w", err)
	}
	if err := l.adjustBalance(ctx, req.UserID, amount.Neg()); err != nil {
		return nil, err
	}

	return &models.DecisionResult{
		Status:      "success",
		Message:     fmt.Sprintf("Successfully purchased %d shares of %s at %.2f", req.Quantity, req.Symbol, req.Price),
		Symbol:      req.Symbol,
		Action:      models.DecisionBuy,
		Quantity:    req.Quantity,
		ProcessedAt: now,
	}, nil
}

func (l *DecisionLedger) sell(ctx context.Context, req models.DecisionRequest) (*models.DecisionResult, error) {
	if req.Quantity <= 0 || req.Price <= 0 {
		return reject(req, "Missing required parameters for sell decision"), nil
	}

	holdings, err := l.portfolio.Holdings(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load holdings: %w", err)
	}
	idx := findActive(holdings, req.Symbol)
	if idx < 0 {
		return reject(req, fmt.Sprintf("No existing investment found for %s", req.Symbol)), nil
	}

	h := &holdings[idx]
	qty := decimal.NewFromInt(req.Quantity)
	if h.Quantity.LessThan(qty) {
		return reject(req, fmt.Sprintf("Insufficient shares. You have %s shares, trying to sell %d",
			h.Quantity.String(), req.Quantity)), nil
	}

	price := decimal.NewFromFloat(req.Price)
	avgBuy := h.Invested.Div(h.Quantity)
	realized := price.Sub(avgBuy).Mul(qty)
	proceeds := price.Mul(qty)
	now := time.Now()

	h.Quantity = h.Quantity.Sub(qty)
	h.Invested = h.Invested.Sub(avgBuy.Mul(qty))
	h.RealizedPnL = h.RealizedPnL.Add(realized)
	h.LastUpdated = now
	if h.Quantity.IsZero() {
		h.Status = models.HoldingSold
	} else {
		h.Status = models.HoldingPartialSold
	}

	if err := l.portfolio.SaveHoldings(ctx, req.UserID, holdings); err != nil {
		return nil, fmt.Errorf("save holdings: %w", err)
	}
	if err := l.portfolio.AppendTrade(ctx, req.UserID, models.TradeRecord{
		Symbol:      req.Symbol,
		Sector:      h.Sector,
		Invested:    amountFloat(avgBuy.Mul(qty)),
		RealizedPnL: amountFloat(realized),
		BuyDate:     h.BuyDate,
		SellDate:    now,
		Status:      h.Status,
	}); err != nil {
		return nil, fmt.Errorf("append trade: %w", err)
	}
	if err := l.adjustBalance(ctx, req.UserID, proceeds); err != nil {
		return nil, err
	}

	return &models.DecisionResult{
		Status:      "success",
		Message:     fmt.Sprintf("Successfully sold %d shares of %s at %.2f", req.Quantity, req.Symbol, req.Price),
		Symbol:      req.Symbol,
		Action:      models.DecisionSell,
		Quantity:    req.Quantity,
		RealizedPnL: amountFloat(realized),
		ProcessedAt: now,
	}, nil
}

func (l *DecisionLedger) hold(ctx context.Context, req models.DecisionRequest) (*models.DecisionResult, error) {
	holdings, err := l.portfolio.Holdings(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load holdings: %w", err)
	}
	if findActive(holdings, req.Symbol) < 0 {
		return reject(req, fmt.Sprintf("No existing investment found for %s", req.Symbol)), nil
	}
	return &models.DecisionResult{
		Status:      "success",
		Message:     fmt.Sprintf("Successfully marked %s as hold", req.Symbol),
		Symbol:      req.Symbol,
		Action:      models.DecisionHold,
		ProcessedAt: time.Now(),
	}, nil
}

// pending records interest in a recommendation without moving money.
func (l *DecisionLedger) pending(ctx context.Context, req models.DecisionRequest) (*models.DecisionResult, error) {
	name, sector := l.symbolDetails(ctx, req.Symbol)
	holdings, err := l.portfolio.Holdings(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load holdings: %w", err)
	}
	now := time.Now()
	holdings = append(holdings, models.Holding{
		Symbol:      req.Symbol,
		Name:        name,
		Sector:      sector,
		Status:      models.HoldingPending,
		BuyDate:     now,
		LastUpdated: now,
	})
	if err := l.portfolio.SaveHoldings(ctx, req.UserID, holdings); err != nil {
		return nil, fmt.Errorf("save holdings: %w", err)
	}
	return &models.DecisionResult{
		Status:      "success",
		Message:     fmt.Sprintf("Successfully marked %s as pending decision", req.Symbol),
		Symbol:      req.Symbol,
		Action:      models.DecisionPending,
		ProcessedAt: now,
	}, nil
}

func (l *DecisionLedger) symbolDetails(ctx context.Context, symbol string) (name, sector string) {
	recs, err := l.market.LatestBySymbols(ctx, []string{symbol})
	if err != nil || len(recs) == 0 {
		l.log.Warn("symbol details unavailable", logger.String("symbol", symbol))
		return symbol, ""
	}
	return recs[0].Name, recs[0].Sector
}

// adjustBalance moves cash, seeding the starter balance for a first-time
// user before applying the delta.
func (l *DecisionLedger) adjustBalance(ctx context.Context, userID string, delta decimal.Decimal) error {
	balance, ok, err := l.portfolio.Balance(ctx, userID)
	if err != nil {
		return fmt.Errorf("load balance: %w", err)
	}
	current := decimal.NewFromFloat(balance)
	if !ok {
		current = models.StarterCash
	}
	next, _ := current.Add(delta).Float64()
	if err := l.portfolio.SaveBalance(ctx, userID, next); err != nil {
		return fmt.Errorf("save balance: %w", err)
	}
	return nil
}

func findActive(holdings []models.Holding, symbol string) int {
	for i, h := range holdings {
		if h.Symbol == symbol && h.Active() {
			return i
		}
	}
	return -1
}

func amountFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func reject(req models.DecisionRequest, msg string) *models.DecisionResult {
	return &models.DecisionResult{
		Status:      "rejected",
		Message:     msg,
		Symbol:      req.Symbol,
		Action:      req.Action,
		ProcessedAt: time.Now(),
	}
}
