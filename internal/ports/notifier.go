package ports

import "github.com/alejandrodnm/updown/internal/domain"

// Notifier presenta los resultados de la simulación al usuario.
type Notifier interface {
	// MarketResolved muestra el resumen consolidado de un mercado cuando
	// todas sus posiciones han sido resueltas.
	MarketResolved(summary domain.MarketSummary)

	// Report muestra el reporte final de la simulación.
	// En la implementación de consola, imprime tablas formateadas.
	Report(report domain.Report)
}
