package strategy

import (
	"testing"

	"github.com/alejandrodnm/updown/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvgArbitrage_FirstTradeCheapSide(t *testing.T) {
	s := NewAvgArbitrage(DefaultAvgArbitrageConfig())
	q := testQuote()
	q.UpAsk = 0.60
	q.DownAsk = 0.40

	d := s.Decide(q, 1000)
	require.NotNil(t, d)
	assert.Equal(t, domain.SideDown, d.Side)
	// floor(1000 × 0.08 / 0.40) = 200
	assert.Equal(t, 200.0, d.Quantity)
	assert.Equal(t, 0.40, d.Price)
}

func TestAvgArbitrage_NoTradeOnEqualPrices(t *testing.T) {
	s := NewAvgArbitrage(DefaultAvgArbitrageConfig())
	q := testQuote()
	q.UpAsk = 0.50
	q.DownAsk = 0.50

	assert.Nil(t, s.Decide(q, 1000))
}

func TestAvgArbitrage_BalancesWhenProfitable(t *testing.T) {
	cfg := AvgArbitrageConfig{Margin: 0.025, InitialTradePercent: 0.08, MaxAllocationPercent: 0.70}
	s := NewAvgArbitrage(cfg)
	q := testQuote()
	q.UpAsk = 0.60
	q.DownAsk = 0.40

	first := s.Decide(q, 1000)
	require.NotNil(t, first)
	s.UpdatePortfolio(q.ID(), first.Side, first.Quantity, first.Price)

	// El lado Up cae: 200/(1.025) − 80 ≈ 115.12 de numerador a 0.30
	q2 := testQuote()
	q2.UpAsk = 0.30
	q2.DownAsk = 0.70

	d := s.Decide(q2, 920)
	require.NotNil(t, d)
	assert.Equal(t, domain.SideUp, d.Side)
	assert.Equal(t, 383.0, d.Quantity)
}

func TestAvgArbitrage_AllocationCap(t *testing.T) {
	cfg := AvgArbitrageConfig{Margin: 0.025, InitialTradePercent: 0.08, MaxAllocationPercent: 0.10}
	s := NewAvgArbitrage(cfg)
	q := testQuote()
	q.UpAsk = 0.60
	q.DownAsk = 0.40

	first := s.Decide(q, 1000)
	require.NotNil(t, first)
	s.UpdatePortfolio(q.ID(), first.Side, first.Quantity, first.Price)

	// Proyectado 80 + qty×0.30 supera el 10% de 1000 para cualquier qty > 0
	q2 := testQuote()
	q2.UpAsk = 0.30
	q2.DownAsk = 0.70

	assert.Nil(t, s.Decide(q2, 920))
}

func TestAvgArbitrage_RejectedDecisionLeavesStateClean(t *testing.T) {
	s := NewAvgArbitrage(DefaultAvgArbitrageConfig())
	q := testQuote()
	q.UpAsk = 0.60
	q.DownAsk = 0.40

	// Primera decisión no confirmada por el engine: el estado sigue plano
	require.NotNil(t, s.Decide(q, 1000))

	d := s.Decide(q, 1000)
	require.NotNil(t, d)
	assert.Equal(t, domain.SideDown, d.Side)
	assert.Equal(t, 200.0, d.Quantity)
}
