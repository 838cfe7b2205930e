package domain

import "fmt"

// WinnerPolicy determina el lado ganador de un mercado a partir de su
// última quote. Existen dos reglas históricas con bordes sutilmente
// distintos, así que la política es explícita y configurable en vez de
// inferida.
type WinnerPolicy string

const (
	// WinnerAskCollapse es la regla canónica: al resolver, el ask del lado
	// PERDEDOR colapsa hacia 0. Un UpAsk de 0 significa que ganó Up.
	// Empates no-cero resuelven a Up.
	WinnerAskCollapse WinnerPolicy = "ask_collapse"

	// WinnerAskCompare es la regla legacy: gana el lado cuyo ask quedó más
	// alto (el ganador tiende a ~1.0 y el perdedor a ~0.0). Empata a Down.
	WinnerAskCompare WinnerPolicy = "ask_compare"
)

// ParseWinnerPolicy valida el valor de config.
func ParseWinnerPolicy(s string) (WinnerPolicy, error) {
	switch WinnerPolicy(s) {
	case WinnerAskCollapse, WinnerAskCompare:
		return WinnerPolicy(s), nil
	case "":
		return WinnerAskCollapse, nil
	}
	return "", fmt.Errorf("domain.ParseWinnerPolicy: unknown policy %q", s)
}

// Winner aplica la política sobre la última quote del mercado.
func (w WinnerPolicy) Winner(last *MarketQuote) Side {
	switch w {
	case WinnerAskCompare:
		if last.UpAsk > last.DownAsk {
			return SideUp
		}
		return SideDown
	default:
		if last.UpAsk == 0 {
			return SideUp
		}
		if last.DownAsk == 0 {
			return SideDown
		}
		if last.DownAsk > last.UpAsk {
			return SideDown
		}
		return SideUp
	}
}
