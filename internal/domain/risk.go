package domain

// risk.go — predicados puros que las estrategias consultan antes de fijar
// el tamaño de un trade. Operan sobre un snapshot del portfolio y el trade
// candidato; no mutan nada. La búsqueda típica es descendente: se parte de
// la cantidad máxima y se reduce hasta que todos los checks activos pasan.

import "github.com/shopspring/decimal"

// CheckDelta devuelve true si tras comprar `quantity` en `side` el
// desbalance |QtyYes - QtyNo| no supera maxUnhedgedDelta.
func CheckDelta(p *PortfolioState, side Side, quantity, maxUnhedgedDelta float64) bool {
	newDelta := p.Delta()
	if side == SideUp {
		newDelta += quantity
	} else {
		newDelta -= quantity
	}
	if newDelta < 0 {
		newDelta = -newDelta
	}
	return newDelta <= maxUnhedgedDelta
}

// CheckLiquidity devuelve true si el lado CONTRARIO tiene liquidez en ask
// suficiente para cubrir el hedge posterior: un trade que luego no se puede
// balancear barato se rechaza aquí.
func CheckLiquidity(q *MarketQuote, side Side, quantity, minLiquidityMultiplier float64) bool {
	required := quantity * minLiquidityMultiplier
	return q.AskLiquidity(side.Opposite()) >= required
}

// CheckHedgingCost devuelve true si el coste medio combinado de ambos lados
// tras el trade queda por debajo del techo (típicamente 0.98–0.99), lo que
// garantiza beneficio teórico si la posición acaba balanceada.
func CheckHedgingCost(p *PortfolioState, side Side, quantity, price float64, ceiling decimal.Decimal) bool {
	if quantity <= 0 {
		return false
	}
	return p.ProspectivePairCost(side, quantity, price).LessThan(ceiling)
}

// StopLossTriggered devuelve true si balancear ya no es posible dentro del
// margen de seguridad y el coste combinado superaría el umbral de stop-loss:
// en ese caso se acepta un hedge forzado con pérdida acotada en vez de
// arriesgar la pérdida total del lado descubierto.
//
// `side` es el lado que se compraría para cubrir; el coste relevante es el
// precio medio del lado ya poseído más el precio actual del hedge.
func StopLossTriggered(p *PortfolioState, side Side, price float64, threshold decimal.Decimal) bool {
	snap := p.Snapshot()

	held := snap.AvgYes
	if side == SideUp {
		held = snap.AvgNo
	}

	combined := held.Add(decimal.NewFromFloat(price))
	return combined.GreaterThanOrEqual(threshold)
}
