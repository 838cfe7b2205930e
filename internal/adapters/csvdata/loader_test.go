package csvdata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alejandrodnm/updown/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Timestamp,TargetTime,Expiration,UpBid,UpAsk,UpMid,UpSpread,UpBidLiquidity,UpAskLiquidity,DownBid,DownAsk,DownMid,DownSpread,DownBidLiquidity,DownAskLiquidity
2024-03-01 12:00:02,2024-03-01 12:00:00,2024-03-01 12:15:00,0.53,0.55,0.54,0.02,200,300,0.44,0.46,0.45,0.02,150,250
2024-03-01 12:00:00,2024-03-01 12:00:00,2024-03-01 12:15:00,0.48,0.50,0.49,0.02,100,200,0.49,0.51,0.50,0.02,120,220
2024-03-01 12:15:00,2024-03-01 12:00:00,2024-03-01 12:15:00,0.97,0.99,0.98,0.02,500,400,0.00,0.00,0.01,0.00,0,0
`

func writeSample(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_SortsByTimestamp(t *testing.T) {
	path := writeSample(t, "market_data_20240301.csv", sampleCSV)

	quotes, err := NewSource().Load(path)
	require.NoError(t, err)
	require.Len(t, quotes, 3)

	// Las filas vienen desordenadas en el fichero
	assert.True(t, quotes[0].Timestamp.Before(quotes[1].Timestamp))
	assert.True(t, quotes[1].Timestamp.Before(quotes[2].Timestamp))
	assert.Equal(t, 0.50, quotes[0].UpAsk)
	assert.Equal(t, time.UTC, quotes[0].Timestamp.Location())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := NewSource().Load("no/such/file.csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDataNotFound))
}

func TestLoad_MissingRequiredColumn(t *testing.T) {
	path := writeSample(t, "bad.csv", "Timestamp,TargetTime,Expiration,UpAsk\n")
	_, err := NewSource().Load(path)
	assert.ErrorContains(t, err, "DownAsk")
}

func TestLoad_MarketID(t *testing.T) {
	path := writeSample(t, "market_data_20240301.csv", sampleCSV)

	quotes, err := NewSource().Load(path)
	require.NoError(t, err)

	id := quotes[0].ID()
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), id.TargetTime)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 15, 0, 0, time.UTC), id.Expiration)
	for _, q := range quotes {
		assert.Equal(t, id, q.ID())
	}
}

func TestLatestFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"market_data_20240229.csv", "market_data_20240301.csv", "other.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	latest, err := LatestFile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "market_data_20240301.csv"), latest)
}

func TestLatestFile_Empty(t *testing.T) {
	_, err := LatestFile(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDataNotFound))
}
