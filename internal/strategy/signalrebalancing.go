package strategy

// signalrebalancing.go — combina entradas por señal con la gestión por
// rebalanceo, pero al contrario que el híbrido la señal se evalúa SIEMPRE
// primero: un evento sharp dentro de la ventana añade exposición
// direccional aunque ya haya posición abierta, y el bloque de rebalanceo
// solo actúa cuando no hay señal que tomar.

import (
	"math"

	"github.com/alejandrodnm/updown/internal/domain"
	"github.com/shopspring/decimal"
)

// SignalRebalancingConfig son los parámetros de la estrategia.
type SignalRebalancingConfig struct {
	MinMinute             int     `yaml:"min_minute"`
	MaxMinute             int     `yaml:"max_minute"`
	RiskPerTrade          float64 `yaml:"risk_per_trade"`
	MaxAllocationPerTrade float64 `yaml:"max_allocation_per_trade"`

	PriceDeltaWeight         float64 `yaml:"price_delta_weight"`
	LiquidityImbalanceWeight float64 `yaml:"liquidity_imbalance_weight"`
	MinScoreThreshold        float64 `yaml:"min_score_threshold"`

	SafetyMargin           float64 `yaml:"safety_margin"`
	MaxTradeSize           float64 `yaml:"max_trade_size"`
	MinBalanceQty          float64 `yaml:"min_balance_qty"`
	MaxUnhedgedDelta       float64 `yaml:"max_unhedged_delta"`
	MinLiquidityMultiplier float64 `yaml:"min_liquidity_multiplier"`
}

// DefaultSignalRebalancingConfig devuelve los parámetros por defecto.
func DefaultSignalRebalancingConfig() SignalRebalancingConfig {
	return SignalRebalancingConfig{
		MinMinute:                2,
		MaxMinute:                7,
		RiskPerTrade:             0.005,
		MaxAllocationPerTrade:    0.1,
		PriceDeltaWeight:         1.0,
		LiquidityImbalanceWeight: 1.0,
		MinScoreThreshold:        1,
		SafetyMargin:             0.99,
		MaxTradeSize:             500,
		MinBalanceQty:            1,
		MaxUnhedgedDelta:         50,
		MinLiquidityMultiplier:   3.0,
	}
}

// SignalRebalancing implementa Strategy.
type SignalRebalancing struct {
	cfg    SignalRebalancingConfig
	margin decimal.Decimal
	state  portfolios
}

// NewSignalRebalancing crea la estrategia con su estado por mercado vacío.
func NewSignalRebalancing(cfg SignalRebalancingConfig) *SignalRebalancing {
	return &SignalRebalancing{
		cfg:    cfg,
		margin: decimal.NewFromFloat(cfg.SafetyMargin),
		state:  make(portfolios),
	}
}

func (s *SignalRebalancing) Name() string { return "signalrebalancing" }

// UpdatePortfolio registra el fill aceptado.
func (s *SignalRebalancing) UpdatePortfolio(market domain.MarketID, side domain.Side, quantity, price float64) {
	s.state.get(market).Apply(side, quantity, price)
}

// Decide evalúa primero la señal, con o sin posición; si no hay señal,
// rebalancea el lado corto.
func (s *SignalRebalancing) Decide(q *domain.MarketQuote, capital float64) *domain.TradeDecision {
	if d := s.signalEntry(q, capital); d != nil {
		return d
	}
	return s.rebalance(q, s.state.get(q.ID()), capital)
}

// signalEntry añade exposición direccional tras un evento sharp. El trade
// de señal no pasa por los checks de delta/liquidez: es deliberadamente
// pequeño (RiskPerTrade) y el rebalanceo posterior lo reabsorbe.
func (s *SignalRebalancing) signalEntry(q *domain.MarketQuote, capital float64) *domain.TradeDecision {
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

	tradeCapital := min(capital*s.cfg.RiskPerTrade, capital*s.cfg.MaxAllocationPerTrade)
	quantity := math.Floor(tradeCapital / ask)
	if quantity == 0 || quantity*ask > capital {
		return nil
	}

	return &domain.TradeDecision{Side: side, Quantity: quantity, Price: ask}
}

// rebalance compra el lado infraponderado hasta el tamaño seguro más grande.
func (s *SignalRebalancing) rebalance(q *domain.MarketQuote, p *domain.PortfolioState, capital float64) *domain.TradeDecision {
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

	for qty := math.Floor(min(delta, s.cfg.MaxTradeSize)); qty > 0; qty-- {
		if qty*price > capital {
			continue
		}
		if !domain.CheckDelta(p, side, qty, s.cfg.MaxUnhedgedDelta) {
			continue
		}
		if !domain.CheckLiquidity(q, side, qty, s.cfg.MinLiquidityMultiplier) {
			continue
		}
		if domain.CheckHedgingCost(p, side, qty, price, s.margin) {
			return &domain.TradeDecision{Side: side, Quantity: qty, Price: price}
		}
	}

	return nil
}
