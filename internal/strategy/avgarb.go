package strategy

// avgarb.go — arbitraje por coste medio: entra por el lado barato y luego
// calcula en forma cerrada la cantidad del lado corto que deja el par
// pagando (1+margin) veces menos de lo que devuelve, sujeta a un tope de
// capital por mercado.

import (
	"math"

	"github.com/alejandrodnm/updown/internal/domain"
)

// AvgArbitrageConfig son los parámetros de la estrategia.
type AvgArbitrageConfig struct {
	Margin               float64 `yaml:"margin"`
	InitialTradePercent  float64 `yaml:"initial_trade_percent"`
	MaxAllocationPercent float64 `yaml:"max_allocation_percent"`
}

// DefaultAvgArbitrageConfig devuelve los parámetros por defecto.
func DefaultAvgArbitrageConfig() AvgArbitrageConfig {
	return AvgArbitrageConfig{
		Margin:               0.025,
		InitialTradePercent:  0.08,
		MaxAllocationPercent: 0.70,
	}
}

// arbState es el estado por mercado: el portfolio más el capital con el
// que se vio el mercado por primera vez, base del tope de asignación.
type arbState struct {
	portfolio      domain.PortfolioState
	initialCapital float64
	capitalSet     bool
}

// AvgArbitrage implementa Strategy.
type AvgArbitrage struct {
	cfg   AvgArbitrageConfig
	state map[domain.MarketID]*arbState
}

// NewAvgArbitrage crea la estrategia con su estado por mercado vacío.
func NewAvgArbitrage(cfg AvgArbitrageConfig) *AvgArbitrage {
	return &AvgArbitrage{cfg: cfg, state: make(map[domain.MarketID]*arbState)}
}

func (s *AvgArbitrage) Name() string { return "avgarb" }

func (s *AvgArbitrage) market(id domain.MarketID) *arbState {
	st, ok := s.state[id]
	if !ok {
		st = &arbState{}
		s.state[id] = st
	}
	return st
}

// UpdatePortfolio registra el fill aceptado. El estado se actualiza solo
// aquí: una decisión rechazada por el engine no cuenta.
func (s *AvgArbitrage) UpdatePortfolio(market domain.MarketID, side domain.Side, quantity, price float64) {
	s.market(market).portfolio.Apply(side, quantity, price)
}

// Decide: primer trade por el lado barato; después, la cantidad de balanceo
// en forma cerrada para el lado corto.
func (s *AvgArbitrage) Decide(q *domain.MarketQuote, capital float64) *domain.TradeDecision {
	st := s.market(q.ID())
	if !st.capitalSet {
		st.initialCapital = capital
		st.capitalSet = true
	}

	upPrice := q.UpAsk
	downPrice := q.DownAsk
	p := &st.portfolio

	if p.Flat() {
		return s.firstTrade(upPrice, downPrice, capital)
	}
	return s.balance(st, upPrice, downPrice)
}

func (s *AvgArbitrage) firstTrade(upPrice, downPrice, capital float64) *domain.TradeDecision {
	amount := capital * s.cfg.InitialTradePercent

	if downPrice < upPrice && downPrice > 0 {
		if qty := math.Floor(amount / downPrice); qty > 0 {
			return &domain.TradeDecision{Side: domain.SideDown, Quantity: qty, Price: downPrice}
		}
	} else if upPrice < downPrice && upPrice > 0 {
		if qty := math.Floor(amount / upPrice); qty > 0 {
			return &domain.TradeDecision{Side: domain.SideUp, Quantity: qty, Price: upPrice}
		}
	}
	return nil
}

// balance busca la cantidad que iguala el payout del lado corto contra el
// coste total pagado, descontado el margen objetivo:
//
//	qty = floor((qty_largo/(1+margin) - coste_total) / precio_corto)
func (s *AvgArbitrage) balance(st *arbState, upPrice, downPrice float64) *domain.TradeDecision {
	p := &st.portfolio
	totalCost := p.CostYes + p.CostNo

	var qty float64
	var side domain.Side
	var price float64

	switch {
	case p.QtyYes < p.QtyNo && upPrice > 0:
		numerator := p.QtyNo/(1+s.cfg.Margin) - totalCost
		if numerator > 0 {
			qty = math.Floor(numerator / upPrice)
			side = domain.SideUp
			price = upPrice
		}
	case p.QtyNo < p.QtyYes && downPrice > 0:
		numerator := p.QtyYes/(1+s.cfg.Margin) - totalCost
		if numerator > 0 {
			qty = math.Floor(numerator / downPrice)
			side = domain.SideDown
			price = downPrice
		}
	}

	if qty <= 0 || side == "" {
		return nil
	}

	projected := totalCost + qty*price
	if projected > s.cfg.MaxAllocationPercent*st.initialCapital {
		return nil
	}

	return &domain.TradeDecision{Side: side, Quantity: qty, Price: price}
}
