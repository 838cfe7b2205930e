package notify_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/alejandrodnm/updown/internal/adapters/notify"
	"github.com/alejandrodnm/updown/internal/domain"
	"github.com/stretchr/testify/assert"
)

func testMarket() domain.MarketID {
	target := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return domain.MarketID{TargetTime: target, Expiration: target.Add(15 * time.Minute)}
}

func TestConsole_Report(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	n.Report(domain.Report{
		InitialCapital: 1000,
		FinalCapital:   1050.5,
		TotalPnL:       50.5,
		ROI:            5.05,
		MaxDrawdown:    0.12,
		MarketsTraded:  3,
		MarketsWon:     2,
		BuyTrades:      7,
		WinningTrades:  4,
		LosingTrades:   3,
		RiskEventTotal: 2,
		RiskEventCounts: map[string]int{
			"Insufficient Capital": 2,
		},
		ImbalancedMarkets: []domain.ImbalancedMarket{
			{Market: testMarket(), UpShares: 10, DownShares: 4},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "BACKTEST REPORT")
	assert.Contains(t, out, "$1050.50")
	assert.Contains(t, out, "5.05%")
	assert.Contains(t, out, "Insufficient Capital")
	assert.Contains(t, out, "IMBALANCED MARKETS")
	assert.Contains(t, out, "POSITIVE")
}

func TestConsole_Report_Negative(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	n.Report(domain.Report{InitialCapital: 1000, FinalCapital: 900, TotalPnL: -100})

	assert.Contains(t, buf.String(), "NEGATIVE")
}

func TestConsole_MarketResolved_VerboseOnly(t *testing.T) {
	summary := domain.MarketSummary{
		Market:       testMarket(),
		UpShares:     10,
		UpAvgPrice:   0.52,
		DownShares:   10,
		DownAvgPrice: 0.46,
		TotalPnL:     0.2,
		TotalTrades:  2,
	}

	var quiet bytes.Buffer
	notify.NewConsoleWriter(&quiet, false).MarketResolved(summary)
	assert.Empty(t, quiet.String())

	var verbose bytes.Buffer
	notify.NewConsoleWriter(&verbose, true).MarketResolved(summary)
	out := verbose.String()
	assert.Contains(t, out, "resolved")
	assert.Contains(t, out, "0.5200")
	assert.Contains(t, out, "$0.20")
}
