package strategy

// rebalancing.go — estrategia de acumulación de pares: aumenta posición en
// bloque cuando comprar ambos lados es rentable y, si el portfolio queda
// desbalanceado, compra el lado infraponderado. Cada tamaño candidato se
// valida contra las restricciones de riesgo buscando en descenso desde el
// máximo.

import (
	"math"

	"github.com/alejandrodnm/updown/internal/domain"
	"github.com/shopspring/decimal"
)

// RebalancingConfig son los parámetros de la estrategia.
type RebalancingConfig struct {
	SafetyMargin           float64 `yaml:"safety_margin"`
	MaxTradeSize           float64 `yaml:"max_trade_size"`
	MinBalanceQty          float64 `yaml:"min_balance_qty"`
	MaxUnhedgedDelta       float64 `yaml:"max_unhedged_delta"`
	MinLiquidityMultiplier float64 `yaml:"min_liquidity_multiplier"`
}

// DefaultRebalancingConfig devuelve los parámetros por defecto.
func DefaultRebalancingConfig() RebalancingConfig {
	return RebalancingConfig{
		SafetyMargin:           0.99,
		MaxTradeSize:           500,
		MinBalanceQty:          1,
		MaxUnhedgedDelta:       50,
		MinLiquidityMultiplier: 3.0,
	}
}

// Rebalancing implementa Strategy.
type Rebalancing struct {
	cfg    RebalancingConfig
	margin decimal.Decimal
	state  portfolios
}

// NewRebalancing crea la estrategia con su estado por mercado vacío.
func NewRebalancing(cfg RebalancingConfig) *Rebalancing {
	return &Rebalancing{
		cfg:    cfg,
		margin: decimal.NewFromFloat(cfg.SafetyMargin),
		state:  make(portfolios),
	}
}

func (s *Rebalancing) Name() string { return "rebalancing" }

// UpdatePortfolio registra el fill aceptado.
func (s *Rebalancing) UpdatePortfolio(market domain.MarketID, side domain.Side, quantity, price float64) {
	s.state.get(market).Apply(side, quantity, price)
}

// Decide aplica la máquina de estados: balanceado → aumentar el par si es
// rentable; desbalanceado → comprar el lado corto.
func (s *Rebalancing) Decide(q *domain.MarketQuote, capital float64) *domain.TradeDecision {
	p := s.state.get(q.ID())

	if p.Balanced() {
		return s.increasePair(q, p, capital)
	}
	return s.rebalance(q, p, capital)
}

// increasePair añade shares a ambos lados en lockstep, empezando por el
// lado más caro para fijar el beneficio del par cuanto antes.
func (s *Rebalancing) increasePair(q *domain.MarketQuote, p *domain.PortfolioState, capital float64) *domain.TradeDecision {
	if p.QtyYes >= s.cfg.MaxTradeSize {
		return nil
	}

	priceYes := q.UpAsk
	priceNo := q.DownAsk
	if priceYes <= 0 || priceNo <= 0 || priceYes+priceNo >= s.cfg.SafetyMargin {
		return nil
	}

	side := domain.SideUp
	price := priceYes
	if priceNo >= priceYes {
		side = domain.SideDown
		price = priceNo
	}

	for qty := math.Floor(s.cfg.MaxTradeSize - p.QtyYes); qty > 0; qty-- {
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

// rebalance compra el lado infraponderado hasta el tamaño seguro más grande.
func (s *Rebalancing) rebalance(q *domain.MarketQuote, p *domain.PortfolioState, capital float64) *domain.TradeDecision {
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
