package backtest

// report.go — agregación del log de transacciones y el historial de
// capital en el reporte final y en los resúmenes por mercado.

import (
	"sort"
	"time"

	"github.com/alejandrodnm/updown/internal/domain"
)

// marketSummary consolida las resoluciones de un mercado con las
// estadísticas de ejecución de sus compras.
func (e *Engine) marketSummary(market domain.MarketID, resolutions []domain.ResolvedPosition) domain.MarketSummary {
	s := domain.MarketSummary{Market: market}

	var upCost, downCost float64
	for _, r := range resolutions {
		s.TotalPnL += r.PnL
		switch r.Side {
		case domain.SideUp:
			s.UpShares += r.Quantity
			upCost += r.Quantity * r.EntryPrice
		case domain.SideDown:
			s.DownShares += r.Quantity
			downCost += r.Quantity * r.EntryPrice
		}
	}
	if s.UpShares > 0 {
		s.UpAvgPrice = upCost / s.UpShares
	}
	if s.DownShares > 0 {
		s.DownAvgPrice = downCost / s.DownShares
	}

	var buys []domain.Transaction
	var totalQty float64
	for _, tx := range e.transactions {
		if tx.Type == domain.TxBuy && tx.Market == market {
			buys = append(buys, tx)
			totalQty += tx.Quantity
		}
	}
	s.TotalTrades = len(buys)
	if s.TotalTrades > 0 {
		s.AvgTradeSize = totalQty / float64(s.TotalTrades)
	}
	if s.TotalTrades > 1 {
		sort.SliceStable(buys, func(i, j int) bool {
			return buys[i].Timestamp.Before(buys[j].Timestamp)
		})
		var total time.Duration
		for i := 1; i < len(buys); i++ {
			total += buys[i].Timestamp.Sub(buys[i-1].Timestamp)
		}
		s.AvgTimeBetweenTrades = total / time.Duration(len(buys)-1)
	}

	// Capital en el primer snapshot posterior a la resolución del mercado.
	for _, point := range e.portfolioHistory {
		if !point.Timestamp.Before(market.Expiration) {
			s.CapitalAfter = point.Capital
			s.HasCapitalAfter = true
			break
		}
	}

	return s
}

// maxDrawdown calcula la caída máxima pico-a-valle sobre el historial.
func (e *Engine) maxDrawdown() float64 {
	peak := e.cfg.InitialCapital
	maxDD := 0.0

	for _, point := range e.portfolioHistory {
		if point.Capital > peak {
			peak = point.Capital
		}
		if peak > 0 {
			if dd := (peak - point.Capital) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// Report agrega la corrida completa y la emite por el notifier.
func (e *Engine) Report() domain.Report {
	r := domain.Report{
		InitialCapital:  e.cfg.InitialCapital,
		FinalCapital:    e.capital,
		TotalPnL:        e.capital - e.cfg.InitialCapital,
		MaxDrawdown:     e.maxDrawdown(),
		RiskEventCounts: make(map[string]int),
	}
	if r.InitialCapital > 0 {
		r.ROI = r.TotalPnL / r.InitialCapital * 100
	}

	marketsTraded := make(map[domain.MarketID]bool)
	marketPnL := make(map[domain.MarketID]float64)
	type shares struct{ up, down float64 }
	marketShares := make(map[domain.MarketID]*shares)
	var imbalanceOrder []domain.MarketID

	for _, tx := range e.transactions {
		switch tx.Type {
		case domain.TxBuy:
			r.BuyTrades++
			marketsTraded[tx.Market] = true

			if tx.Side == domain.SideUp {
				r.TotalUpShares += tx.Quantity
			} else {
				r.TotalDownShares += tx.Quantity
			}

			sh, ok := marketShares[tx.Market]
			if !ok {
				sh = &shares{}
				marketShares[tx.Market] = sh
				imbalanceOrder = append(imbalanceOrder, tx.Market)
			}
			if tx.Side == domain.SideUp {
				sh.up += tx.Quantity
			} else {
				sh.down += tx.Quantity
			}

		case domain.TxResolution:
			marketPnL[tx.Market] += tx.PnL
			if tx.PnL > 0 {
				r.WinningTrades++
			} else {
				r.LosingTrades++
			}
		}
	}

	r.MarketsTraded = len(marketsTraded)
	for _, pnl := range marketPnL {
		if pnl > 0 {
			r.MarketsWon++
		}
	}

	for _, event := range e.riskEvents {
		r.RiskEventTotal++
		r.RiskEventCounts[event.Event]++
	}

	// Mercados que terminaron con shares desiguales: el rebalanceo no
	// llegó a cerrarse.
	for _, market := range imbalanceOrder {
		sh := marketShares[market]
		if sh.up != sh.down {
			r.ImbalancedMarkets = append(r.ImbalancedMarkets, domain.ImbalancedMarket{
				Market:     market,
				UpShares:   sh.up,
				DownShares: sh.down,
			})
		}
	}

	if e.notifier != nil {
		e.notifier.Report(r)
	}
	return r
}
