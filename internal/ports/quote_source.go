package ports

import "github.com/alejandrodnm/updown/internal/domain"

// QuoteSource carga la serie histórica de quotes que el engine reproduce.
type QuoteSource interface {
	// Load lee el fichero en path y devuelve las quotes ordenadas por
	// Timestamp, con las features derivadas ya calculadas.
	// Devuelve domain.ErrDataNotFound si el fichero no existe.
	Load(path string) ([]domain.MarketQuote, error)
}
