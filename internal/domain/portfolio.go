package domain

import "github.com/shopspring/decimal"

var (
	decimalOne = decimal.NewFromInt(1)
)

// PortfolioState es la vista agregada que una estrategia mantiene por
// mercado: cantidades y coste total por lado. "Yes" es Up y "No" es Down,
// siguiendo la convención YES/NO de los pares binarios.
//
// Invariante: CostYes == sum(precio*qty de cada fill Up), ídem CostNo.
// Solo se muta vía Apply, una vez por trade aceptado por el engine.
type PortfolioState struct {
	QtyYes  float64
	QtyNo   float64
	CostYes float64
	CostNo  float64
}

// Apply registra un fill aceptado en el lado dado.
func (p *PortfolioState) Apply(side Side, quantity, price float64) {
	cost := quantity * price
	if side == SideUp {
		p.QtyYes += quantity
		p.CostYes += cost
	} else {
		p.QtyNo += quantity
		p.CostNo += cost
	}
}

// Delta es el desbalance con signo entre shares Up y Down.
func (p *PortfolioState) Delta() float64 {
	return p.QtyYes - p.QtyNo
}

// Balanced devuelve true si ambos lados tienen la misma cantidad.
func (p *PortfolioState) Balanced() bool {
	return p.QtyYes == p.QtyNo
}

// Flat devuelve true si no hay posición en ningún lado.
func (p *PortfolioState) Flat() bool {
	return p.QtyYes == 0 && p.QtyNo == 0
}

// StateSnapshot son las métricas derivadas del portfolio calculadas en
// decimal. Muchos fills pequeños acumulan error en float64, y los checks
// de margen de seguridad comparan contra umbrales de centésimas.
type StateSnapshot struct {
	AvgYes       decimal.Decimal
	AvgNo        decimal.Decimal
	PairCost     decimal.Decimal
	Delta        float64
	LockedProfit decimal.Decimal
}

// Snapshot calcula el estado derivado: precios medios por lado, coste del
// par, delta y beneficio bloqueado por las shares emparejadas.
func (p *PortfolioState) Snapshot() StateSnapshot {
	avgYes := decimal.Zero
	if p.QtyYes > 0 {
		avgYes = decimal.NewFromFloat(p.CostYes).Div(decimal.NewFromFloat(p.QtyYes))
	}
	avgNo := decimal.Zero
	if p.QtyNo > 0 {
		avgNo = decimal.NewFromFloat(p.CostNo).Div(decimal.NewFromFloat(p.QtyNo))
	}

	pairCost := avgYes.Add(avgNo)

	// Beneficio garantizado: cada par completo paga $1 al resolver,
	// gane quien gane.
	paired := min(p.QtyYes, p.QtyNo)
	locked := decimal.Zero
	if paired > 0 && pairCost.LessThan(decimalOne) {
		locked = decimal.NewFromFloat(paired).Mul(decimalOne.Sub(pairCost))
	}

	return StateSnapshot{
		AvgYes:       avgYes,
		AvgNo:        avgNo,
		PairCost:     pairCost,
		Delta:        p.Delta(),
		LockedProfit: locked,
	}
}

// ProspectivePairCost calcula el coste medio combinado de ambos lados si se
// comprara `quantity` al precio `price` en el lado dado. Es la métrica que
// consultan los checks de margen de seguridad y de stop-loss.
func (p *PortfolioState) ProspectivePairCost(side Side, quantity, price float64) decimal.Decimal {
	snap := p.Snapshot()

	newQty := quantity
	newCost := quantity * price
	if side == SideUp {
		newQty += p.QtyYes
		newCost += p.CostYes
		if newQty <= 0 {
			return decimal.Zero
		}
		newAvg := decimal.NewFromFloat(newCost).Div(decimal.NewFromFloat(newQty))
		return newAvg.Add(snap.AvgNo)
	}

	newQty += p.QtyNo
	newCost += p.CostNo
	if newQty <= 0 {
		return decimal.Zero
	}
	newAvg := decimal.NewFromFloat(newCost).Div(decimal.NewFromFloat(newQty))
	return snap.AvgYes.Add(newAvg)
}
