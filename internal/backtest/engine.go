package backtest

// engine.go — simulador determinista de eventos discretos. Reproduce las
// quotes en orden cronológico y, por cada timestamp, primero resuelve las
// posiciones expiradas y después evalúa la estrategia sobre las quotes de
// ese instante. Esa ordenación es la garantía central del engine: el
// capital liberado por una resolución está disponible para los trades del
// mismo timestamp, nunca al revés.

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/updown/internal/domain"
	"github.com/alejandrodnm/updown/internal/ports"
)

// Strategy es el contrato mínimo que el engine exige a una estrategia.
// El engine nunca inspecciona nada más allá de estas dos operaciones.
type Strategy interface {
	Decide(q *domain.MarketQuote, capital float64) *domain.TradeDecision
	UpdatePortfolio(market domain.MarketID, side domain.Side, quantity, price float64)
}

// Config controla una corrida del engine. Se pasa explícita al constructor;
// no hay estado global compartido entre corridas.
type Config struct {
	InitialCapital  float64
	SlippageSeconds int
	WinnerPolicy    domain.WinnerPolicy
}

// DefaultConfig devuelve la configuración por defecto.
func DefaultConfig() Config {
	return Config{
		InitialCapital:  1000.0,
		SlippageSeconds: 0,
		WinnerPolicy:    domain.WinnerAskCollapse,
	}
}

// capitalPoint es un snapshot (timestamp, capital) tomado tras cada lote
// de resoluciones; el historial alimenta el cálculo de drawdown.
type capitalPoint struct {
	Timestamp time.Time
	Capital   float64
}

// Engine es el backtester. Posee en exclusiva el ledger (posiciones
// abiertas, log de transacciones, capital) durante toda la corrida.
type Engine struct {
	cfg      Config
	source   ports.QuoteSource
	notifier ports.Notifier

	capital float64
	quotes  []domain.MarketQuote
	history map[domain.MarketID][]*domain.MarketQuote

	open             []domain.Position
	transactions     []domain.Transaction
	riskEvents       []domain.RiskEvent
	portfolioHistory []capitalPoint

	pendingSummaries map[domain.MarketID][]domain.ResolvedPosition
	summaryOrder     []domain.MarketID
}

// New crea un engine listo para LoadData.
func New(cfg Config, source ports.QuoteSource, notifier ports.Notifier) *Engine {
	if cfg.InitialCapital <= 0 {
		cfg.InitialCapital = 1000.0
	}
	if cfg.WinnerPolicy == "" {
		cfg.WinnerPolicy = domain.WinnerAskCollapse
	}
	return &Engine{
		cfg:              cfg,
		source:           source,
		notifier:         notifier,
		capital:          cfg.InitialCapital,
		history:          make(map[domain.MarketID][]*domain.MarketQuote),
		pendingSummaries: make(map[domain.MarketID][]domain.ResolvedPosition),
	}
}

// Capital devuelve el capital actual.
func (e *Engine) Capital() float64 { return e.capital }

// Transactions devuelve el log append-only de la corrida.
func (e *Engine) Transactions() []domain.Transaction { return e.transactions }

// RiskEvents devuelve los eventos de riesgo registrados.
func (e *Engine) RiskEvents() []domain.RiskEvent { return e.riskEvents }

// LoadData carga y agrupa la serie histórica. Debe llamarse antes de Run;
// si el fichero no existe devuelve domain.ErrDataNotFound y el caller no
// debe continuar.
func (e *Engine) LoadData(path string) error {
	quotes, err := e.source.Load(path)
	if err != nil {
		return fmt.Errorf("backtest.LoadData: %w", err)
	}

	e.quotes = quotes
	e.history = make(map[domain.MarketID][]*domain.MarketQuote, 64)
	for i := range e.quotes {
		q := &e.quotes[i]
		e.history[q.ID()] = append(e.history[q.ID()], q)
	}

	slog.Info("loaded market data",
		"path", path,
		"rows", len(e.quotes),
		"markets", len(e.history),
	)
	return nil
}

// Run ejecuta la simulación completa con la estrategia dada.
func (e *Engine) Run(s Strategy) error {
	if len(e.quotes) == 0 {
		return fmt.Errorf("backtest.Run: no data loaded")
	}

	var current time.Time
	for i := 0; i < len(e.quotes); {
		current = e.quotes[i].Timestamp

		// 1. Resolver todas las posiciones expiradas a este timestamp.
		e.expirePositions(current)

		// 2. Evaluar la estrategia sobre las quotes del timestamp, en
		// orden de fichero.
		j := i
		for ; j < len(e.quotes) && e.quotes[j].Timestamp.Equal(current); j++ {
			e.evaluate(s, &e.quotes[j], current)
		}
		i = j
	}

	// Resolver lo que siga abierto usando el último timestamp y emitir
	// los resúmenes por mercado.
	e.forceResolve(current)
	e.flushSummaries()

	return nil
}

// expirePositions resuelve las posiciones con expiration <= now y toma un
// snapshot de capital si hubo alguna. Se reconstruye el slice en vez de
// borrar mientras se itera.
func (e *Engine) expirePositions(now time.Time) {
	remaining := e.open[:0]
	resolvedAny := false

	for _, pos := range e.open {
		if now.Before(pos.Expiration) {
			remaining = append(remaining, pos)
			continue
		}
		e.resolvePosition(pos, now)
		resolvedAny = true
	}
	e.open = remaining

	if resolvedAny {
		e.portfolioHistory = append(e.portfolioHistory, capitalPoint{Timestamp: now, Capital: e.capital})
	}
}

// evaluate pide una decisión a la estrategia y la ejecuta si pasa los
// checks del ledger.
func (e *Engine) evaluate(s Strategy, q *domain.MarketQuote, now time.Time) {
	decision := s.Decide(q, e.capital)
	if decision == nil {
		return
	}

	// Salida malformada: nunca es un error, solo "no trade".
	if decision.Quantity <= 0 || decision.Price <= 0 ||
		(decision.Side != domain.SideUp && decision.Side != domain.SideDown) {
		return
	}

	// Una decisión no puede abrir una posición ya expirada.
	if !now.Before(q.Expiration) {
		slog.Warn("decision at or after expiration rejected",
			"market", q.ID().String(),
			"timestamp", now,
		)
		return
	}

	market := q.ID()
	price := e.applySlippage(now, market, decision.Side, decision.Price)
	cost := decision.Quantity * price

	if cost > e.capital {
		e.riskEvents = append(e.riskEvents, domain.RiskEvent{
			Timestamp: now,
			Event:     "Insufficient Capital",
			Details:   fmt.Sprintf("needed $%.2f, had $%.2f", cost, e.capital),
		})
		return
	}

	e.capital -= cost
	s.UpdatePortfolio(market, decision.Side, decision.Quantity, price)

	e.open = append(e.open, domain.Position{
		ID:         uuid.New().String(),
		Market:     market,
		Side:       decision.Side,
		Quantity:   decision.Quantity,
		EntryPrice: price,
		EntryTime:  now,
		Expiration: q.Expiration,
	})
	e.transactions = append(e.transactions, domain.Transaction{
		ID:         uuid.New().String(),
		Timestamp:  now,
		Type:       domain.TxBuy,
		Market:     market,
		Side:       decision.Side,
		Quantity:   decision.Quantity,
		EntryPrice: price,
		Value:      cost,
		PnL:        -cost,
	})
}

// resolvePosition determina el ganador con la última quote del mercado y
// asienta el PnL. El contrato ganador paga $1 por share.
func (e *Engine) resolvePosition(pos domain.Position, now time.Time) {
	history := e.history[pos.Market]

	winner := domain.SideError
	pnl := 0.0

	if len(history) == 0 {
		// Posición sin historial: problema de integridad de datos, no
		// fatal. PnL 0 y se sigue.
		slog.Error("no market history for position, cannot resolve",
			"market", pos.Market.String(),
			"side", pos.Side,
		)
	} else {
		last := history[len(history)-1]
		winner = e.cfg.WinnerPolicy.Winner(last)

		if pos.Side == winner {
			pnl = pos.Quantity * (1 - pos.EntryPrice)
			e.capital += pos.Quantity
		} else {
			pnl = -(pos.Quantity * pos.EntryPrice)
		}
	}

	e.transactions = append(e.transactions, domain.Transaction{
		ID:          uuid.New().String(),
		Timestamp:   now,
		Type:        domain.TxResolution,
		Market:      pos.Market,
		Side:        pos.Side,
		Quantity:    pos.Quantity,
		EntryPrice:  pos.EntryPrice,
		Value:       pos.Quantity * pos.EntryPrice,
		PnL:         pnl,
		WinningSide: winner,
	})

	if _, ok := e.pendingSummaries[pos.Market]; !ok {
		e.summaryOrder = append(e.summaryOrder, pos.Market)
	}
	e.pendingSummaries[pos.Market] = append(e.pendingSummaries[pos.Market], domain.ResolvedPosition{
		Market:      pos.Market,
		Side:        pos.Side,
		Quantity:    pos.Quantity,
		EntryPrice:  pos.EntryPrice,
		PnL:         pnl,
		WinningSide: winner,
	})
}

// forceResolve liquida las posiciones que quedaron abiertas al acabar la
// serie (mercados cuyos datos terminan antes de su expiración).
func (e *Engine) forceResolve(now time.Time) {
	for _, pos := range e.open {
		e.resolvePosition(pos, now)
	}
	e.open = nil
}

// flushSummaries emite el resumen consolidado de cada mercado resuelto,
// en orden de primera resolución.
func (e *Engine) flushSummaries() {
	if e.notifier == nil {
		return
	}
	for _, market := range e.summaryOrder {
		e.notifier.MarketResolved(e.marketSummary(market, e.pendingSummaries[market]))
	}
	e.pendingSummaries = make(map[domain.MarketID][]domain.ResolvedPosition)
	e.summaryOrder = nil
}
