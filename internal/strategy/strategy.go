package strategy

import "github.com/alejandrodnm/updown/internal/domain"

// Strategy define el contrato de decisión del backtest. Cada variante
// encapsula una lógica de trading diferente; el engine no conoce nada más
// allá de estas tres operaciones.
type Strategy interface {
	// Name devuelve el identificador único de la estrategia.
	Name() string

	// Decide evalúa una quote con el capital disponible y devuelve el
	// trade a intentar, o nil para no operar este tick.
	Decide(q *domain.MarketQuote, capital float64) *domain.TradeDecision

	// UpdatePortfolio registra un fill ACEPTADO por el engine, con el
	// precio ya ejecutado (post-slippage). Se llama exactamente una vez
	// por trade aceptado.
	UpdatePortfolio(market domain.MarketID, side domain.Side, quantity, price float64)
}

// Registry mantiene las estrategias disponibles indexadas por nombre.
type Registry map[string]Strategy

// NewRegistry crea un registry vacío.
func NewRegistry() Registry {
	return make(Registry)
}

// Register añade una estrategia al registry.
func (r Registry) Register(s Strategy) {
	r[s.Name()] = s
}

// Get devuelve la estrategia por nombre.
func (r Registry) Get(name string) (Strategy, bool) {
	s, ok := r[name]
	return s, ok
}

// signalSide puntúa dirección con los deltas de mid y el desbalance de
// liquidez en bid; devuelve el lado cuyo score alcanzó el umbral.
func signalSide(f domain.QuoteFeatures, priceWeight, imbalanceWeight, minScore float64) (domain.Side, bool) {
	var upScore, downScore float64

	if f.UpMidDelta > 0 {
		upScore += priceWeight
	}
	if f.DownMidDelta > 0 {
		downScore += priceWeight
	}

	if f.BidLiquidityImbalance > 0 {
		upScore += imbalanceWeight
	} else if f.BidLiquidityImbalance < 0 {
		downScore += imbalanceWeight
	}

	if upScore >= minScore {
		return domain.SideUp, true
	}
	if downScore >= minScore {
		return domain.SideDown, true
	}
	return "", false
}

// portfolios es el estado por mercado compartido por las variantes que
// llevan contabilidad de coste medio. La inicialización es explícita:
// ningún mercado existe hasta el primer acceso vía get.
type portfolios map[domain.MarketID]*domain.PortfolioState

func (p portfolios) get(market domain.MarketID) *domain.PortfolioState {
	state, ok := p[market]
	if !ok {
		state = &domain.PortfolioState{}
		p[market] = state
	}
	return state
}
