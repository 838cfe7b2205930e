package csvdata

// features.go — señales derivadas por mercado sobre la serie ya ordenada:
// índice de minuto, deltas de mid, desbalance de liquidez, eventos sharp,
// medias móviles 5s/10s con cruces y volatilidad en ventana de 10s.
// Se calculan una vez en la carga; las estrategias solo leen.

import (
	"math"
	"time"

	"github.com/alejandrodnm/updown/internal/domain"
)

const (
	// SharpMoveThreshold es el salto mínimo de mid entre dos quotes para
	// considerar que llegó información nueva al mercado.
	SharpMoveThreshold = 0.04

	shortWindow      = 5 * time.Second
	longWindow       = 10 * time.Second
	volatilityWindow = 10 * time.Second
)

// ComputeFeatures rellena q.Features para cada quote, agrupando por
// MarketID y respetando el orden temporal del slice.
func ComputeFeatures(quotes []domain.MarketQuote) {
	groups := make(map[domain.MarketID][]int)
	for i := range quotes {
		id := quotes[i].ID()
		groups[id] = append(groups[id], i)
	}

	for _, idx := range groups {
		computeMarketFeatures(quotes, idx)
	}
}

func computeMarketFeatures(quotes []domain.MarketQuote, idx []int) {
	var prevMA5Up, prevMA10Up, prevMA5Down, prevMA10Down float64

	for pos, i := range idx {
		q := &quotes[i]
		f := &q.Features

		f.MinuteFromStart = int(q.Timestamp.Sub(q.TargetTime).Seconds() / 60)
		f.BidLiquidityImbalance = q.UpBidLiquidity - q.DownBidLiquidity

		if pos > 0 {
			prev := &quotes[idx[pos-1]]
			f.UpMidDelta = q.UpMid - prev.UpMid
			f.DownMidDelta = q.DownMid - prev.DownMid
			f.DeltasValid = true
			f.SharpEvent = math.Abs(f.UpMidDelta) >= SharpMoveThreshold ||
				math.Abs(f.DownMidDelta) >= SharpMoveThreshold
		}

		ma5Up := rollingMean(quotes, idx, pos, shortWindow, func(q *domain.MarketQuote) float64 { return q.UpAsk })
		ma10Up := rollingMean(quotes, idx, pos, longWindow, func(q *domain.MarketQuote) float64 { return q.UpAsk })
		ma5Down := rollingMean(quotes, idx, pos, shortWindow, func(q *domain.MarketQuote) float64 { return q.DownAsk })
		ma10Down := rollingMean(quotes, idx, pos, longWindow, func(q *domain.MarketQuote) float64 { return q.DownAsk })

		if pos > 0 {
			f.MAValid = true
			f.UpMACrossover = ma5Up > ma10Up && prevMA5Up <= prevMA10Up
			f.DownMACrossover = ma5Down > ma10Down && prevMA5Down <= prevMA10Down
		}
		prevMA5Up, prevMA10Up = ma5Up, ma10Up
		prevMA5Down, prevMA10Down = ma5Down, ma10Down

		upVol, upOK := rollingStd(quotes, idx, pos, volatilityWindow, func(q *domain.MarketQuote) float64 { return q.UpMid })
		downVol, downOK := rollingStd(quotes, idx, pos, volatilityWindow, func(q *domain.MarketQuote) float64 { return q.DownMid })
		f.UpMidVolatility = upVol
		f.DownMidVolatility = downVol
		f.VolatilityValid = upOK && downOK
	}
}

// rollingMean promedia el valor sobre las quotes del mercado cuyo timestamp
// cae en (t-window, t].
func rollingMean(quotes []domain.MarketQuote, idx []int, pos int, window time.Duration, value func(*domain.MarketQuote) float64) float64 {
	t := quotes[idx[pos]].Timestamp
	cutoff := t.Add(-window)

	sum := 0.0
	n := 0
	for p := pos; p >= 0; p-- {
		q := &quotes[idx[p]]
		if !q.Timestamp.After(cutoff) {
			break
		}
		sum += value(q)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// rollingStd calcula la desviación estándar muestral en la misma ventana.
// Necesita al menos dos puntos; si no, ok=false.
func rollingStd(quotes []domain.MarketQuote, idx []int, pos int, window time.Duration, value func(*domain.MarketQuote) float64) (std float64, ok bool) {
	t := quotes[idx[pos]].Timestamp
	cutoff := t.Add(-window)

	var values []float64
	for p := pos; p >= 0; p-- {
		q := &quotes[idx[p]]
		if !q.Timestamp.After(cutoff) {
			break
		}
		values = append(values, value(q))
	}
	if len(values) < 2 {
		return 0, false
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values) - 1)

	return math.Sqrt(variance), true
}
