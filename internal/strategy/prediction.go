package strategy

// prediction.go — entrada direccional de un solo disparo por mercado: tras
// un evento sharp dentro de la ventana, sigue el lado cuyo mid subió si el
// desbalance de liquidez en bid lo confirma. Compra una share y no vuelve
// a tocar el mercado.

import "github.com/alejandrodnm/updown/internal/domain"

// PredictionConfig son los parámetros de la estrategia.
type PredictionConfig struct {
	MinMinute     int     `yaml:"min_minute"`
	MaxMinute     int     `yaml:"max_minute"`
	MaxEntryPrice float64 `yaml:"max_entry_price"`
	Quantity      float64 `yaml:"quantity"`
}

// DefaultPredictionConfig devuelve los parámetros por defecto.
func DefaultPredictionConfig() PredictionConfig {
	return PredictionConfig{
		MinMinute:     1,
		MaxMinute:     10,
		MaxEntryPrice: 0.95,
		Quantity:      1,
	}
}

// Prediction implementa Strategy.
type Prediction struct {
	cfg     PredictionConfig
	entered map[domain.MarketID]bool
}

// NewPrediction crea la estrategia.
func NewPrediction(cfg PredictionConfig) *Prediction {
	return &Prediction{cfg: cfg, entered: make(map[domain.MarketID]bool)}
}

func (s *Prediction) Name() string { return "prediction" }

// UpdatePortfolio marca el mercado como operado; la estrategia no lleva
// contabilidad de coste medio porque nunca hace un segundo trade.
func (s *Prediction) UpdatePortfolio(market domain.MarketID, _ domain.Side, _, _ float64) {
	s.entered[market] = true
}

// Decide evalúa los filtros en orden y sale al primer fallo.
func (s *Prediction) Decide(q *domain.MarketQuote, capital float64) *domain.TradeDecision {
	if s.entered[q.ID()] {
		return nil
	}

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

	// Dirección por delta de mid, confirmada por el desbalance de bids:
	// un mid de Up subiendo con los bids cargados en Down sugiere que la
	// demanda agresiva está en Up.
	var side domain.Side
	var ask float64
	switch {
	case f.UpMidDelta > 0:
		if f.BidLiquidityImbalance >= 0 {
			return nil
		}
		side = domain.SideUp
		ask = q.UpAsk
	case f.DownMidDelta > 0:
		if f.BidLiquidityImbalance <= 0 {
			return nil
		}
		side = domain.SideDown
		ask = q.DownAsk
	default:
		return nil
	}

	if ask <= 0 || ask > s.cfg.MaxEntryPrice {
		return nil
	}
	if s.cfg.Quantity*ask > capital {
		return nil
	}

	return &domain.TradeDecision{Side: side, Quantity: s.cfg.Quantity, Price: ask}
}
