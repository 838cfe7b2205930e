package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWinnerAskCollapse(t *testing.T) {
	// El ask del lado perdedor colapsa a 0 al resolver.
	assert.Equal(t, SideUp, WinnerAskCollapse.Winner(&MarketQuote{UpAsk: 0, DownAsk: 0.99}))
	assert.Equal(t, SideDown, WinnerAskCollapse.Winner(&MarketQuote{UpAsk: 0.99, DownAsk: 0}))
	assert.Equal(t, SideDown, WinnerAskCollapse.Winner(&MarketQuote{UpAsk: 0.02, DownAsk: 0.98}))
	// Empate no-cero → Up
	assert.Equal(t, SideUp, WinnerAskCollapse.Winner(&MarketQuote{UpAsk: 0.5, DownAsk: 0.5}))
}

func TestWinnerAskCompare(t *testing.T) {
	assert.Equal(t, SideUp, WinnerAskCompare.Winner(&MarketQuote{UpAsk: 0.98, DownAsk: 0.02}))
	assert.Equal(t, SideDown, WinnerAskCompare.Winner(&MarketQuote{UpAsk: 0.02, DownAsk: 0.98}))
	// Empate → Down (regla legacy)
	assert.Equal(t, SideDown, WinnerAskCompare.Winner(&MarketQuote{UpAsk: 0.5, DownAsk: 0.5}))
}

func TestParseWinnerPolicy(t *testing.T) {
	p, err := ParseWinnerPolicy("ask_compare")
	require.NoError(t, err)
	assert.Equal(t, WinnerAskCompare, p)

	p, err = ParseWinnerPolicy("")
	require.NoError(t, err)
	assert.Equal(t, WinnerAskCollapse, p)

	_, err = ParseWinnerPolicy("coin_flip")
	assert.Error(t, err)
}
