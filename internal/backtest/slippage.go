package backtest

// slippage.go — modelo de slippage por retraso: el precio ejecutado es el
// ask del mismo mercado en la primera quote a partir de decisión+retraso.
// Sin datos futuros no hay error: se ejecuta al precio decidido.

import (
	"time"

	"github.com/alejandrodnm/updown/internal/domain"
)

// applySlippage devuelve el precio ejecutable tras el retraso configurado.
func (e *Engine) applySlippage(now time.Time, market domain.MarketID, side domain.Side, price float64) float64 {
	if e.cfg.SlippageSeconds <= 0 {
		return price
	}

	target := now.Add(time.Duration(e.cfg.SlippageSeconds) * time.Second)

	for _, q := range e.history[market] {
		if q.Timestamp.Before(target) {
			continue
		}
		if slipped := q.Ask(side); slipped > 0 {
			return slipped
		}
		break
	}

	return price
}
