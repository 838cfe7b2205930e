package strategy

import (
	"testing"

	"github.com/alejandrodnm/updown/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func optimizedEntryQuote() *domain.MarketQuote {
	q := testQuote()
	q.UpAsk = 0.50
	q.DownAsk = 0.52
	q.Features = domain.QuoteFeatures{
		MinuteFromStart:       3,
		DeltasValid:           true,
		UpMidDelta:            0.05,
		BidLiquidityImbalance: 40,
		SharpEvent:            true,
		UpMidVolatility:       0.005,
		DownMidVolatility:     0.005,
		VolatilityValid:       true,
	}
	return q
}

func TestOptimizedHybrid_EntersOnCalmSignal(t *testing.T) {
	s := NewOptimizedHybrid(DefaultOptimizedHybridConfig())

	d := s.Decide(optimizedEntryQuote(), 1000)
	require.NotNil(t, d)
	assert.Equal(t, domain.SideUp, d.Side)
	// floor(1000 * 0.075 / 0.50)
	assert.Equal(t, 150.0, d.Quantity)
	assert.Equal(t, 0.50, d.Price)
}

func TestOptimizedHybrid_VolatilityFilterBlocksEntry(t *testing.T) {
	s := NewOptimizedHybrid(DefaultOptimizedHybridConfig())
	q := optimizedEntryQuote()
	q.Features.UpMidVolatility = 0.05 // > 0.02

	assert.Nil(t, s.Decide(q, 1000))
}

func TestOptimizedHybrid_TrailingStopRatchetsAndFires(t *testing.T) {
	s := NewOptimizedHybrid(DefaultOptimizedHybridConfig())
	market := testQuote().ID()

	// El fill de apertura siembra HWM=0.50 y stop=0.45.
	s.UpdatePortfolio(market, domain.SideUp, 150, 0.50)

	// El mid sube: la marca arrastra el stop a 0.54 sin operar.
	q := testQuote()
	q.UpMid = 0.60
	q.DownAsk = 0.41
	assert.Nil(t, s.Decide(q, 1000))

	// 0.52 queda por debajo del stop arrastrado: hedge completo.
	q2 := testQuote()
	q2.UpMid = 0.52
	q2.DownAsk = 0.49
	d := s.Decide(q2, 1000)
	require.NotNil(t, d)
	assert.Equal(t, domain.SideDown, d.Side)
	assert.Equal(t, 150.0, d.Quantity)
	assert.Equal(t, 0.49, d.Price)
}

func TestOptimizedHybrid_NoStopAboveInitialTrail(t *testing.T) {
	s := NewOptimizedHybrid(DefaultOptimizedHybridConfig())
	market := testQuote().ID()
	s.UpdatePortfolio(market, domain.SideUp, 100, 0.50)

	// 0.46 sigue por encima del stop inicial 0.45.
	q := testQuote()
	q.UpMid = 0.46
	q.DownAsk = 0.55
	assert.Nil(t, s.Decide(q, 1000))
}

func TestOptimizedHybrid_DownSideTrailing(t *testing.T) {
	s := NewOptimizedHybrid(DefaultOptimizedHybridConfig())
	market := testQuote().ID()
	s.UpdatePortfolio(market, domain.SideDown, 80, 0.40)

	// stop inicial 0.36; 0.30 lo atraviesa → hedge Up completo.
	q := testQuote()
	q.DownMid = 0.30
	q.UpAsk = 0.71
	d := s.Decide(q, 1000)
	require.NotNil(t, d)
	assert.Equal(t, domain.SideUp, d.Side)
	assert.Equal(t, 80.0, d.Quantity)
	assert.Equal(t, 0.71, d.Price)
}

func TestOptimizedHybrid_HedgedPositionHolds(t *testing.T) {
	s := NewOptimizedHybrid(DefaultOptimizedHybridConfig())
	market := testQuote().ID()
	s.UpdatePortfolio(market, domain.SideUp, 100, 0.50)
	s.UpdatePortfolio(market, domain.SideDown, 100, 0.45)

	q := testQuote()
	q.UpMid = 0.10 // muy por debajo de cualquier stop
	q.DownAsk = 0.90
	assert.Nil(t, s.Decide(q, 1000))
}

func TestOptimizedHybrid_RejectedEntryDoesNotSeedStop(t *testing.T) {
	s := NewOptimizedHybrid(DefaultOptimizedHybridConfig())

	// Decisión emitida pero nunca aceptada: el mercado sigue plano y la
	// siguiente quote vuelve por la rama de entrada, no por el trailing.
	require.NotNil(t, s.Decide(optimizedEntryQuote(), 1000))

	d := s.Decide(optimizedEntryQuote(), 1000)
	require.NotNil(t, d)
	assert.Equal(t, domain.SideUp, d.Side)
}
