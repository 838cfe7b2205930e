package strategy

// movingavg.go — entrada por cruce de medias móviles 5s/10s sobre el ask,
// con anti-señales de volatilidad y spread, filtro temporal y un tope de
// desbalance por mercado.

import (
	"math"

	"github.com/alejandrodnm/updown/internal/domain"
)

// MovingAverageConfig son los parámetros de la estrategia.
type MovingAverageConfig struct {
	VolatilityThreshold float64 `yaml:"volatility_threshold"`
	SpreadThreshold     float64 `yaml:"spread_threshold"`
	ImbalanceThreshold  float64 `yaml:"imbalance_threshold"`

	MinMinute int `yaml:"min_minute"`
	MaxMinute int `yaml:"max_minute"`

	RiskPerTrade          float64 `yaml:"risk_per_trade"`
	MaxAllocationPerTrade float64 `yaml:"max_allocation_per_trade"`
}

// DefaultMovingAverageConfig devuelve los parámetros conservadores por defecto.
func DefaultMovingAverageConfig() MovingAverageConfig {
	return MovingAverageConfig{
		VolatilityThreshold:   0.01,
		SpreadThreshold:       0.05,
		ImbalanceThreshold:    100,
		MinMinute:             3,
		MaxMinute:             9,
		RiskPerTrade:          0.01,
		MaxAllocationPerTrade: 0.1,
	}
}

// MovingAverage implementa Strategy.
type MovingAverage struct {
	cfg   MovingAverageConfig
	state portfolios
}

// NewMovingAverage crea la estrategia con su estado por mercado vacío.
func NewMovingAverage(cfg MovingAverageConfig) *MovingAverage {
	return &MovingAverage{cfg: cfg, state: make(portfolios)}
}

func (s *MovingAverage) Name() string { return "movingavg" }

// UpdatePortfolio registra el fill aceptado.
func (s *MovingAverage) UpdatePortfolio(market domain.MarketID, side domain.Side, quantity, price float64) {
	s.state.get(market).Apply(side, quantity, price)
}

// Decide entra cuando la media corta cruza por encima de la larga en un
// mercado tranquilo dentro de la ventana de minutos.
func (s *MovingAverage) Decide(q *domain.MarketQuote, capital float64) *domain.TradeDecision {
	f := q.Features

	// Sin ventanas completas no hay señal fiable.
	if !f.MAValid || !f.VolatilityValid || !f.DeltasValid {
		return nil
	}

	if f.MinuteFromStart < s.cfg.MinMinute || f.MinuteFromStart > s.cfg.MaxMinute {
		return nil
	}

	// Anti-señales: mercado demasiado volátil o spread demasiado ancho.
	if f.UpMidVolatility > s.cfg.VolatilityThreshold || f.DownMidVolatility > s.cfg.VolatilityThreshold {
		return nil
	}
	if q.UpSpread > s.cfg.SpreadThreshold || q.DownSpread > s.cfg.SpreadThreshold {
		return nil
	}

	var side domain.Side
	switch {
	case f.UpMACrossover:
		side = domain.SideUp
	case f.DownMACrossover:
		side = domain.SideDown
	default:
		return nil
	}

	// Tope de desbalance por mercado.
	p := s.state.get(q.ID())
	if side == domain.SideUp && p.QtyYes > p.QtyNo+s.cfg.ImbalanceThreshold {
		return nil
	}
	if side == domain.SideDown && p.QtyNo > p.QtyYes+s.cfg.ImbalanceThreshold {
		return nil
	}

	ask := q.Ask(side)
	if ask <= 0.05 || ask >= 0.95 {
		return nil
	}

	tradeCapital := min(capital*s.cfg.RiskPerTrade, capital*s.cfg.MaxAllocationPerTrade)
	quantity := math.Floor(tradeCapital / ask)
	if quantity == 0 || quantity*ask > capital {
		return nil
	}

	return &domain.TradeDecision{Side: side, Quantity: quantity, Price: ask}
}
