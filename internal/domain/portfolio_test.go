package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPortfolioState_Apply(t *testing.T) {
	var p PortfolioState
	p.Apply(SideUp, 10, 0.5)
	p.Apply(SideUp, 10, 0.6)
	p.Apply(SideDown, 5, 0.4)

	assert.Equal(t, 20.0, p.QtyYes)
	assert.InDelta(t, 11.0, p.CostYes, 1e-9)
	assert.Equal(t, 5.0, p.QtyNo)
	assert.InDelta(t, 2.0, p.CostNo, 1e-9)
	assert.Equal(t, 15.0, p.Delta())
	assert.False(t, p.Balanced())
	assert.False(t, p.Flat())
}

func TestSnapshot_Averages(t *testing.T) {
	p := PortfolioState{QtyYes: 20, CostYes: 11, QtyNo: 5, CostNo: 2}
	snap := p.Snapshot()

	// 11/20 = 0.55, 2/5 = 0.40
	assert.True(t, snap.AvgYes.Equal(decimal.NewFromFloat(0.55)), "avgYes=%s", snap.AvgYes)
	assert.True(t, snap.AvgNo.Equal(decimal.NewFromFloat(0.4)), "avgNo=%s", snap.AvgNo)
	assert.True(t, snap.PairCost.Equal(decimal.NewFromFloat(0.95)), "pairCost=%s", snap.PairCost)
}

func TestSnapshot_Empty(t *testing.T) {
	var p PortfolioState
	snap := p.Snapshot()

	assert.True(t, snap.AvgYes.IsZero())
	assert.True(t, snap.AvgNo.IsZero())
	assert.True(t, snap.PairCost.IsZero())
	assert.True(t, snap.LockedProfit.IsZero())
}

func TestSnapshot_LockedProfit(t *testing.T) {
	// 100 pares a coste combinado 0.95 → 100 × 0.05 = $5 garantizados
	p := PortfolioState{QtyYes: 100, CostYes: 55, QtyNo: 100, CostNo: 40}
	snap := p.Snapshot()

	assert.True(t, snap.LockedProfit.Equal(decimal.NewFromInt(5)), "locked=%s", snap.LockedProfit)
}

func TestSnapshot_NoLockedProfitAbovePar(t *testing.T) {
	// Coste combinado 1.10 > 1.00 → nada bloqueado
	p := PortfolioState{QtyYes: 10, CostYes: 6, QtyNo: 10, CostNo: 5}
	snap := p.Snapshot()

	assert.True(t, snap.LockedProfit.IsZero())
}

func TestProspectivePairCost(t *testing.T) {
	// 100 Up a 0.60 de media; comprar 50 Down a 0.30 deja el par en 0.90
	p := PortfolioState{QtyYes: 100, CostYes: 60}
	got := p.ProspectivePairCost(SideDown, 50, 0.30)

	assert.True(t, got.Equal(decimal.NewFromFloat(0.9)), "pairCost=%s", got)
}

func TestProspectivePairCost_ManySmallFills(t *testing.T) {
	// 1000 fills de 1 share a 0.333: la media decimal debe seguir siendo
	// exactamente 0.333, sin deriva por acumulación.
	var p PortfolioState
	for range 1000 {
		p.Apply(SideUp, 1, 0.333)
	}
	snap := p.Snapshot()

	diff := snap.AvgYes.Sub(decimal.NewFromFloat(0.333)).Abs()
	assert.True(t, diff.LessThan(decimal.NewFromFloat(1e-9)), "avgYes=%s", snap.AvgYes)
}
