package domain

import "time"

// MarketSummary es el resumen consolidado de un mercado tras resolver
// todas sus posiciones.
type MarketSummary struct {
	Market MarketID

	UpShares     float64
	UpAvgPrice   float64
	DownShares   float64
	DownAvgPrice float64
	TotalPnL     float64

	// Estadísticas de ejecución sobre los Buy del mercado.
	TotalTrades          int
	AvgTradeSize         float64
	AvgTimeBetweenTrades time.Duration // 0 si hubo menos de dos trades

	// Capital en el primer snapshot posterior a la resolución del mercado.
	CapitalAfter    float64
	HasCapitalAfter bool
}

// ImbalancedMarket es un mercado que terminó con shares Up != Down,
// señal de que el rebalanceo no llegó a completarse.
type ImbalancedMarket struct {
	Market     MarketID
	UpShares   float64
	DownShares float64
}

// Report agrega el log de transacciones y el historial de capital en el
// resumen final de la simulación.
type Report struct {
	InitialCapital float64
	FinalCapital   float64
	TotalPnL       float64
	ROI            float64 // porcentaje sobre el capital inicial
	MaxDrawdown    float64 // fracción pico-a-valle del historial de capital

	MarketsTraded int
	MarketsWon    int
	BuyTrades     int
	WinningTrades int
	LosingTrades  int

	TotalUpShares   float64
	TotalDownShares float64

	RiskEventTotal  int
	RiskEventCounts map[string]int

	ImbalancedMarkets []ImbalancedMarket
}
