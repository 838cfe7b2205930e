package strategy

// optimizedhybrid.go — variante del híbrido con trailing stop: entra por
// señal solo en mercados tranquilos (filtro de volatilidad) y, mientras la
// posición siga descubierta, arrastra un stop bajo el máximo del mid del
// lado poseído. Si el mid cae por debajo del stop, cubre la cantidad
// completa por el lado contrario.

import (
	"math"

	"github.com/alejandrodnm/updown/internal/domain"
)

// OptimizedHybridConfig son los parámetros de la estrategia.
type OptimizedHybridConfig struct {
	MinMinute             int     `yaml:"min_minute"`
	MaxMinute             int     `yaml:"max_minute"`
	MaxAllocationPerTrade float64 `yaml:"max_allocation_per_trade"`

	PriceDeltaWeight         float64 `yaml:"price_delta_weight"`
	LiquidityImbalanceWeight float64 `yaml:"liquidity_imbalance_weight"`
	MinScoreThreshold        float64 `yaml:"min_score_threshold"`

	VolatilityThreshold float64 `yaml:"volatility_threshold"`
	TrailingStopPercent float64 `yaml:"trailing_stop_percent"`
}

// DefaultOptimizedHybridConfig devuelve los parámetros por defecto.
func DefaultOptimizedHybridConfig() OptimizedHybridConfig {
	return OptimizedHybridConfig{
		MinMinute:                2,
		MaxMinute:                7,
		MaxAllocationPerTrade:    0.075,
		PriceDeltaWeight:         1.0,
		LiquidityImbalanceWeight: 1.0,
		MinScoreThreshold:        1,
		VolatilityThreshold:      0.02,
		TrailingStopPercent:      0.1,
	}
}

// trailingState es el estado por mercado: el portfolio más la marca de
// máximo y el precio de stop que la sigue.
type trailingState struct {
	portfolio         domain.PortfolioState
	highWaterMark     float64
	trailingStopPrice float64
}

// OptimizedHybrid implementa Strategy.
type OptimizedHybrid struct {
	cfg   OptimizedHybridConfig
	state map[domain.MarketID]*trailingState
}

// NewOptimizedHybrid crea la estrategia con su estado por mercado vacío.
func NewOptimizedHybrid(cfg OptimizedHybridConfig) *OptimizedHybrid {
	return &OptimizedHybrid{cfg: cfg, state: make(map[domain.MarketID]*trailingState)}
}

func (s *OptimizedHybrid) Name() string { return "optimizedhybrid" }

func (s *OptimizedHybrid) market(id domain.MarketID) *trailingState {
	st, ok := s.state[id]
	if !ok {
		st = &trailingState{}
		s.state[id] = st
	}
	return st
}

// UpdatePortfolio registra el fill aceptado. El fill que abre la posición
// siembra además la marca de máximo y el stop inicial; una decisión
// rechazada por el engine no mueve el stop.
func (s *OptimizedHybrid) UpdatePortfolio(market domain.MarketID, side domain.Side, quantity, price float64) {
	st := s.market(market)
	wasFlat := st.portfolio.Flat()
	st.portfolio.Apply(side, quantity, price)

	if wasFlat {
		st.highWaterMark = price
		st.trailingStopPrice = price * (1 - s.cfg.TrailingStopPercent)
	}
}

// Decide: posición descubierta → trailing stop; plano → entrada por señal
// con filtro de volatilidad; posición cubierta → mantener.
func (s *OptimizedHybrid) Decide(q *domain.MarketQuote, capital float64) *domain.TradeDecision {
	st := s.market(q.ID())
	p := &st.portfolio

	if p.QtyYes > 0 && p.QtyNo == 0 {
		return s.trail(st, q, domain.SideUp, p.QtyYes)
	}
	if p.QtyNo > 0 && p.QtyYes == 0 {
		return s.trail(st, q, domain.SideDown, p.QtyNo)
	}
	if p.Flat() {
		return s.enter(q, capital)
	}
	return nil
}

// trail arrastra el stop bajo el máximo del mid del lado poseído y cubre
// la cantidad completa si el mid cae por debajo.
func (s *OptimizedHybrid) trail(st *trailingState, q *domain.MarketQuote, held domain.Side, quantity float64) *domain.TradeDecision {
	mid := q.Mid(held)
	if mid <= 0 {
		return nil
	}

	if mid > st.highWaterMark {
		st.highWaterMark = mid
		st.trailingStopPrice = mid * (1 - s.cfg.TrailingStopPercent)
	}

	if mid >= st.trailingStopPrice {
		return nil
	}

	hedge := held.Opposite()
	ask := q.Ask(hedge)
	if ask <= 0 {
		return nil
	}
	return &domain.TradeDecision{Side: hedge, Quantity: quantity, Price: ask}
}

func (s *OptimizedHybrid) enter(q *domain.MarketQuote, capital float64) *domain.TradeDecision {
	f := q.Features
	if !f.DeltasValid || !f.VolatilityValid {
		return nil
	}
	if f.MinuteFromStart < s.cfg.MinMinute || f.MinuteFromStart > s.cfg.MaxMinute {
		return nil
	}
	if !f.SharpEvent {
		return nil
	}

	// Filtro de volatilidad: sin entradas en mercados agitados.
	if f.UpMidVolatility > s.cfg.VolatilityThreshold || f.DownMidVolatility > s.cfg.VolatilityThreshold {
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
