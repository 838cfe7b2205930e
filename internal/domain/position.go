package domain

import "time"

// TradeDecision es la salida de una estrategia: comprar `Quantity` shares
// del lado `Side` al precio `Price`. Un nil significa "no operar este tick".
type TradeDecision struct {
	Side     Side
	Quantity float64
	Price    float64
}

// Position es una compra abierta sin resolver. Se crea cuando el engine
// acepta y financia una decisión, y se consume exactamente una vez cuando
// el mercado expira.
type Position struct {
	ID         string
	Market     MarketID
	Side       Side
	Quantity   float64
	EntryPrice float64
	EntryTime  time.Time
	Expiration time.Time
}

// TransactionType distingue compras de resoluciones en el log.
type TransactionType string

const (
	TxBuy        TransactionType = "Buy"
	TxResolution TransactionType = "Resolution"
)

// Transaction es un registro inmutable del log global, la única fuente de
// verdad para el reporte final.
//
// Para un Buy: Value es el coste debitado del capital y PnL = -Value.
// Para una Resolution: Value es el coste original de la posición y PnL el
// resultado realizado (positivo si ganó el lado de la posición).
type Transaction struct {
	ID          string
	Timestamp   time.Time
	Type        TransactionType
	Market      MarketID
	Side        Side
	Quantity    float64
	EntryPrice  float64
	Value       float64
	PnL         float64
	WinningSide Side // solo en resoluciones
}

// RiskEvent registra una decisión rechazada por una restricción de riesgo
// (capital insuficiente, decisión tras expiración). No es un error fatal.
type RiskEvent struct {
	Timestamp time.Time
	Event     string
	Details   string
}

// ResolvedPosition es el resultado de resolver una posición expirada,
// acumulado por mercado para el resumen consolidado.
type ResolvedPosition struct {
	Market      MarketID
	Side        Side
	Quantity    float64
	EntryPrice  float64
	PnL         float64
	WinningSide Side
}
