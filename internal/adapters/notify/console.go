package notify

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/updown/internal/domain"
)

// Console implementa ports.Notifier escribiendo en texto plano.
type Console struct {
	out     io.Writer
	verbose bool
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(verbose bool) *Console {
	return &Console{out: os.Stdout, verbose: verbose}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, verbose bool) *Console {
	return &Console{out: w, verbose: verbose}
}

// MarketResolved imprime el resumen consolidado de un mercado resuelto.
func (c *Console) MarketResolved(s domain.MarketSummary) {
	if !c.verbose {
		return
	}

	fmt.Fprintf(c.out, "\n--- market %s resolved ---\n", s.Market.String())
	fmt.Fprintf(c.out, "  Up:   %.0f shares @ avg $%.4f\n", s.UpShares, s.UpAvgPrice)
	fmt.Fprintf(c.out, "  Down: %.0f shares @ avg $%.4f\n", s.DownShares, s.DownAvgPrice)
	fmt.Fprintf(c.out, "  PnL: $%.2f over %d trades (avg size %.1f)\n",
		s.TotalPnL, s.TotalTrades, s.AvgTradeSize)
	if s.TotalTrades > 1 {
		fmt.Fprintf(c.out, "  Avg time between trades: %s\n", s.AvgTimeBetweenTrades.Round(time.Second))
	}
	if s.HasCapitalAfter {
		fmt.Fprintf(c.out, "  Capital after resolution: $%.2f\n", s.CapitalAfter)
	}
}

// Report imprime el reporte final de la corrida.
func (c *Console) Report(r domain.Report) {
	fmt.Fprintf(c.out, "\n========================================\n")
	fmt.Fprintf(c.out, "  BACKTEST REPORT\n")
	fmt.Fprintf(c.out, "========================================\n")

	table := tablewriter.NewWriter(c.out)
	table.Header("Metric", "Value")
	table.Append("Initial capital", fmt.Sprintf("$%.2f", r.InitialCapital))
	table.Append("Final capital", fmt.Sprintf("$%.2f", r.FinalCapital))
	table.Append("Total PnL", fmt.Sprintf("$%.2f", r.TotalPnL))
	table.Append("ROI", fmt.Sprintf("%.2f%%", r.ROI))
	table.Append("Max drawdown", fmt.Sprintf("%.2f%%", r.MaxDrawdown*100))
	table.Append("Markets traded", fmt.Sprintf("%d", r.MarketsTraded))
	table.Append("Markets won", fmt.Sprintf("%d", r.MarketsWon))
	table.Append("Buy trades", fmt.Sprintf("%d", r.BuyTrades))
	table.Append("Winning resolutions", fmt.Sprintf("%d", r.WinningTrades))
	table.Append("Losing resolutions", fmt.Sprintf("%d", r.LosingTrades))
	table.Append("Up shares bought", fmt.Sprintf("%.0f", r.TotalUpShares))
	table.Append("Down shares bought", fmt.Sprintf("%.0f", r.TotalDownShares))
	table.Render()

	if r.RiskEventTotal > 0 {
		fmt.Fprintf(c.out, "\n  --- RISK EVENTS (%d) ---\n", r.RiskEventTotal)
		events := make([]string, 0, len(r.RiskEventCounts))
		for event := range r.RiskEventCounts {
			events = append(events, event)
		}
		sort.Strings(events)
		for _, event := range events {
			fmt.Fprintf(c.out, "  %-30s %d\n", event, r.RiskEventCounts[event])
		}
	}

	if len(r.ImbalancedMarkets) > 0 {
		fmt.Fprintf(c.out, "\n  --- IMBALANCED MARKETS (%d) ---\n", len(r.ImbalancedMarkets))
		tbl := tablewriter.NewWriter(c.out)
		tbl.Header("Market", "Up", "Down")
		for _, im := range r.ImbalancedMarkets {
			tbl.Append(
				im.Market.String(),
				fmt.Sprintf("%.0f", im.UpShares),
				fmt.Sprintf("%.0f", im.DownShares),
			)
		}
		tbl.Render()
	}

	fmt.Fprintf(c.out, "\n  --- VERDICT ---\n")
	switch {
	case r.TotalPnL > 0:
		fmt.Fprintf(c.out, "  POSITIVE: strategy is net profitable over this dataset.\n")
	case r.TotalPnL == 0:
		fmt.Fprintf(c.out, "  FLAT: strategy neither made nor lost money.\n")
	default:
		fmt.Fprintf(c.out, "  NEGATIVE: strategy lost money. Review parameters before going further.\n")
	}
	fmt.Fprintln(c.out)
}
