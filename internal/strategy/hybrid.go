package strategy

// hybrid.go — combina entrada por señal de predicción con la gestión por
// rebalanceo. Entra en un mercado plano cuando hay evento sharp dentro de
// la ventana de minutos y la señal direccional supera el umbral; después
// gestiona la posición con rebalanceos bajo margen de seguridad y, si eso
// deja de ser posible, con un hedge forzado de stop-loss que acota la
// pérdida en vez de arriesgar el stake completo.

import (
	"math"

	"github.com/alejandrodnm/updown/internal/domain"
	"github.com/shopspring/decimal"
)

// HybridConfig son los parámetros de la estrategia.
type HybridConfig struct {
	MaxHedgingCost            float64 `yaml:"max_hedging_cost"`
	StopLossThreshold         float64 `yaml:"stop_loss_threshold"`
	MaxAllocationPerRebalance float64 `yaml:"max_allocation_per_rebalance"`
	MinBalanceQty             float64 `yaml:"min_balance_qty"`
	MaxUnhedgedDelta          float64 `yaml:"max_unhedged_delta"`
	MinLiquidityMultiplier    float64 `yaml:"min_liquidity_multiplier"`

	MinMinute                int     `yaml:"min_minute"`
	MaxMinute                int     `yaml:"max_minute"`
	MaxAllocationPerTrade    float64 `yaml:"max_allocation_per_trade"`
	PriceDeltaWeight         float64 `yaml:"price_delta_weight"`
	LiquidityImbalanceWeight float64 `yaml:"liquidity_imbalance_weight"`
	MinScoreThreshold        float64 `yaml:"min_score_threshold"`
}

// DefaultHybridConfig devuelve los parámetros por defecto.
func DefaultHybridConfig() HybridConfig {
	return HybridConfig{
		MaxHedgingCost:            0.98,
		StopLossThreshold:         1.30,
		MaxAllocationPerRebalance: 0.5,
		MinBalanceQty:             1,
		MaxUnhedgedDelta:          50,
		MinLiquidityMultiplier:    3.0,
		MinMinute:                 2,
		MaxMinute:                 7,
		MaxAllocationPerTrade:     0.05,
		PriceDeltaWeight:          1.0,
		LiquidityImbalanceWeight:  1.0,
		MinScoreThreshold:         1,
	}
}

// Hybrid implementa Strategy.
type Hybrid struct {
	cfg      HybridConfig
	ceiling  decimal.Decimal
	stopLoss decimal.Decimal
	state    portfolios
}

// NewHybrid crea la estrategia con su estado por mercado vacío.
func NewHybrid(cfg HybridConfig) *Hybrid {
	return &Hybrid{
		cfg:      cfg,
		ceiling:  decimal.NewFromFloat(cfg.MaxHedgingCost),
		stopLoss: decimal.NewFromFloat(cfg.StopLossThreshold),
		state:    make(portfolios),
	}
}

func (s *Hybrid) Name() string { return "hybrid" }

// UpdatePortfolio registra el fill aceptado.
func (s *Hybrid) UpdatePortfolio(market domain.MarketID, side domain.Side, quantity, price float64) {
	s.state.get(market).Apply(side, quantity, price)
}

// Decide: plano → entrada por señal; desbalanceado → rebalanceo seguro o
// hedge de stop-loss; balanceado con posición → mantener.
func (s *Hybrid) Decide(q *domain.MarketQuote, capital float64) *domain.TradeDecision {
	p := s.state.get(q.ID())

	if p.Flat() {
		return s.enter(q, capital)
	}
	if !p.Balanced() {
		return s.manage(q, p, capital)
	}
	return nil
}

func (s *Hybrid) enter(q *domain.MarketQuote, capital float64) *domain.TradeDecision {
	f := q.Features
	if !f.DeltasValid {
		return nil
	}
	if f.MinuteFromStart < s.cfg.MinMinute || f.MinuteFromStart > s.cfg.MaxMinute {
		return nil
	}
	if !f.SharpEvent {
		return nil
	}

	side, ok := signalSide(f, s.cfg.PriceDeltaWeight, s.cfg.LiquidityImbalanceWeight, s.cfg.MinScoreThreshold)
	if !ok {
		return nil
	}

	ask := q.Ask(side)
	if ask <= 0 || ask >= 1.0 {
		return nil
	}

	quantity := math.Floor(capital * s.cfg.MaxAllocationPerTrade / ask)
	if quantity == 0 || quantity*ask > capital {
		return nil
	}

	return &domain.TradeDecision{Side: side, Quantity: quantity, Price: ask}
}

func (s *Hybrid) manage(q *domain.MarketQuote, p *domain.PortfolioState, capital float64) *domain.TradeDecision {
	delta := math.Abs(p.Delta())
	if delta < s.cfg.MinBalanceQty {
		return nil
	}

	side := domain.SideUp
	price := q.UpAsk
	if p.QtyYes > p.QtyNo {
		side = domain.SideDown
		price = q.DownAsk
	}
	if price <= 0 {
		return nil
	}

	maxQty := math.Floor(min(delta, capital*s.cfg.MaxAllocationPerRebalance))

	// Primero el rebalanceo dentro del margen de seguridad.
	for qty := maxQty; qty > 0; qty-- {
		if qty*price > capital {
			continue
		}
		if domain.CheckDelta(p, side, qty, s.cfg.MaxUnhedgedDelta) &&
			domain.CheckLiquidity(q, side, qty, s.cfg.MinLiquidityMultiplier) &&
			domain.CheckHedgingCost(p, side, qty, price, s.ceiling) {
			return &domain.TradeDecision{Side: side, Quantity: qty, Price: price}
		}
	}

	// Si no hay tamaño seguro y el coste combinado ya supera el umbral,
	// hedge forzado con checks relajados: pérdida acotada > pérdida total.
	if !domain.StopLossTriggered(p, side, price, s.stopLoss) {
		return nil
	}

	for qty := maxQty; qty > 0; qty-- {
		if qty*price > capital {
			continue
		}
		if domain.CheckDelta(p, side, qty, s.cfg.MaxUnhedgedDelta) &&
			domain.CheckLiquidity(q, side, qty, s.cfg.MinLiquidityMultiplier) {
			return &domain.TradeDecision{Side: side, Quantity: qty, Price: price}
		}
	}

	return nil
}
