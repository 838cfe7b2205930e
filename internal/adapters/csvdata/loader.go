package csvdata

// loader.go — adapter de entrada: parsea el CSV del colector de datos a
// quotes de dominio. El fichero trae una fila por observación de mercado;
// las filas no vienen necesariamente ordenadas, así que se ordenan por
// Timestamp antes de devolverlas (el orden relativo dentro de un mismo
// timestamp se conserva).

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/alejandrodnm/updown/internal/domain"
)

// Columnas mínimas sin las que una fila no es usable.
var requiredColumns = []string{"Timestamp", "TargetTime", "Expiration", "UpAsk", "DownAsk"}

// timeLayouts son los formatos ISO que produce el colector. Todos se
// interpretan como UTC.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999",
	"2006-01-02T15:04:05.999999",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// Source implementa ports.QuoteSource sobre ficheros CSV.
type Source struct{}

// NewSource crea el adapter CSV.
func NewSource() *Source {
	return &Source{}
}

// Load lee el CSV, parsea timestamps como UTC, ordena por Timestamp y
// calcula las features derivadas por mercado.
func (s *Source) Load(path string) ([]domain.MarketQuote, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("csvdata.Load: %q: %w", path, domain.ErrDataNotFound)
		}
		return nil, fmt.Errorf("csvdata.Load: open %q: %w", path, err)
	}
	defer f.Close()

	quotes, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("csvdata.Load: parse %q: %w", path, err)
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].Timestamp.Before(quotes[j].Timestamp)
	})

	ComputeFeatures(quotes)

	return quotes, nil
}

func parse(r io.Reader) ([]domain.MarketQuote, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	var quotes []domain.MarketQuote
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		q, err := parseRow(record, col)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		quotes = append(quotes, q)
	}

	return quotes, nil
}

func parseRow(record []string, col map[string]int) (domain.MarketQuote, error) {
	field := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	num := func(name string) float64 {
		v := field(name)
		if v == "" {
			return 0
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	}

	ts, err := parseUTC(field("Timestamp"))
	if err != nil {
		return domain.MarketQuote{}, fmt.Errorf("Timestamp: %w", err)
	}
	target, err := parseUTC(field("TargetTime"))
	if err != nil {
		return domain.MarketQuote{}, fmt.Errorf("TargetTime: %w", err)
	}
	expiration, err := parseUTC(field("Expiration"))
	if err != nil {
		return domain.MarketQuote{}, fmt.Errorf("Expiration: %w", err)
	}

	q := domain.MarketQuote{
		Timestamp:  ts,
		TargetTime: target,
		Expiration: expiration,

		UpBid:    num("UpBid"),
		UpAsk:    num("UpAsk"),
		UpMid:    num("UpMid"),
		UpSpread: num("UpSpread"),

		DownBid:    num("DownBid"),
		DownAsk:    num("DownAsk"),
		DownMid:    num("DownMid"),
		DownSpread: num("DownSpread"),

		UpBidLiquidity:   num("UpBidLiquidity"),
		UpAskLiquidity:   num("UpAskLiquidity"),
		DownBidLiquidity: num("DownBidLiquidity"),
		DownAskLiquidity: num("DownAskLiquidity"),
	}

	// Datasets antiguos no traen la columna de spread.
	if _, ok := col["UpSpread"]; !ok {
		q.UpSpread = q.UpAsk - q.UpBid
		q.DownSpread = q.DownAsk - q.DownBid
	}

	return q, nil
}

// parseUTC prueba los formatos conocidos y localiza el instante a UTC.
func parseUTC(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

// LatestFile devuelve el market_data_*.csv más reciente del directorio,
// aprovechando que el sufijo yyyymmdd ordena alfabéticamente.
func LatestFile(dir string) (string, error) {
	pattern := filepath.Join(dir, "market_data_*.csv")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("csvdata.LatestFile: glob %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("csvdata.LatestFile: no data files in %q: %w", dir, domain.ErrDataNotFound)
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}
