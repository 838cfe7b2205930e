package domain

import (
	"fmt"
	"time"
)

// Side es uno de los dos lados de un mercado binario Up/Down.
type Side string

const (
	SideUp   Side = "Up"
	SideDown Side = "Down"

	// SideError marca una resolución que no pudo determinarse por falta
	// de historial del mercado.
	SideError Side = "Error"
)

// Opposite devuelve el lado contrario.
func (s Side) Opposite() Side {
	if s == SideUp {
		return SideDown
	}
	return SideUp
}

// MarketID identifica una instancia de mercado binario de 15 minutos.
// Dos quotes pertenecen al mismo mercado si comparten TargetTime y Expiration.
type MarketID struct {
	TargetTime time.Time
	Expiration time.Time
}

// String formatea el ID como el par de timestamps.
func (m MarketID) String() string {
	return fmt.Sprintf("(%s, %s)",
		m.TargetTime.Format("2006-01-02 15:04:05"),
		m.Expiration.Format("2006-01-02 15:04:05"))
}

// QuoteFeatures son las señales derivadas que el loader calcula por mercado
// sobre la serie ordenada de quotes. Las estrategias de predicción y de
// cruce de medias leen de aquí en vez de recalcular ventanas.
type QuoteFeatures struct {
	MinuteFromStart int

	// Deltas de mid respecto a la quote anterior del mismo mercado.
	// La primera quote de cada mercado no tiene delta (DeltasValid=false).
	UpMidDelta   float64
	DownMidDelta float64
	DeltasValid  bool

	BidLiquidityImbalance float64
	SharpEvent            bool

	// Cruces de medias móviles 5s/10s sobre el ask. MAValid=false hasta
	// que existe una media previa con la que comparar.
	UpMACrossover   bool
	DownMACrossover bool
	MAValid         bool

	// Desviación estándar del mid en ventana de 10s.
	UpMidVolatility   float64
	DownMidVolatility float64
	VolatilityValid   bool
}

// MarketQuote es el estado observado de un mercado en un instante.
// Inmutable una vez cargada.
type MarketQuote struct {
	Timestamp  time.Time
	TargetTime time.Time
	Expiration time.Time

	UpBid    float64
	UpAsk    float64
	UpMid    float64
	UpSpread float64

	DownBid    float64
	DownAsk    float64
	DownMid    float64
	DownSpread float64

	UpBidLiquidity    float64
	UpAskLiquidity    float64
	DownBidLiquidity  float64
	DownAskLiquidity  float64

	Features QuoteFeatures
}

// ID devuelve el MarketID al que pertenece la quote.
func (q *MarketQuote) ID() MarketID {
	return MarketID{TargetTime: q.TargetTime, Expiration: q.Expiration}
}

// Ask devuelve el mejor ask del lado dado.
func (q *MarketQuote) Ask(side Side) float64 {
	if side == SideUp {
		return q.UpAsk
	}
	return q.DownAsk
}

// Mid devuelve el precio mid del lado dado.
func (q *MarketQuote) Mid(side Side) float64 {
	if side == SideUp {
		return q.UpMid
	}
	return q.DownMid
}

// AskLiquidity devuelve la profundidad disponible en el ask del lado dado.
func (q *MarketQuote) AskLiquidity(side Side) float64 {
	if side == SideUp {
		return q.UpAskLiquidity
	}
	return q.DownAskLiquidity
}

// Spread devuelve el spread bid-ask del lado dado.
func (q *MarketQuote) Spread(side Side) float64 {
	if side == SideUp {
		return q.UpSpread
	}
	return q.DownSpread
}
