package forcing

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `date,station,rainfall,evaporation
2021-06-01 00:00,A,0,1.2
2021-06-01 00:00,B,3.6,1.2
2021-06-01 01:00,A,36,1.2
2021-06-01 01:00,B,0,2.4
2021-06-01 03:00,A,0,1.2
`

func writeTemp(t *testing.T, nam, txt string) string {
	fp := filepath.Join(t.TempDir(), nam)
	require.NoError(t, os.WriteFile(fp, []byte(txt), 0644))
	return fp
}

func TestReadCSV(t *testing.T) {
	frc, err := readCSV(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, 3600., frc.IntervalSec)
	assert.Equal(t, 4, frc.Nstep()) // 02:00 is missing and filled
	assert.Equal(t, []string{"A", "B"}, frc.Sta)

	ia, err := frc.Index("A")
	require.NoError(t, err)
	assert.InDelta(t, 1e-5, frc.Ya[ia][1], 1e-15) // 36 mm/h
	assert.InDelta(t, 1.2/1000./86400., frc.Ea[ia][0], 1e-18)
	assert.Zero(t, frc.Ya[ia][2])

	ib, _ := frc.Index("B")
	assert.InDelta(t, 1e-6, frc.Ya[ib][0], 1e-15)
	assert.Zero(t, frc.Ya[ib][3])
	assert.Equal(t, SeasonalEp(frc.T[3]), frc.Ea[ib][3]) // station-date missing
	assert.Equal(t, SeasonalEp(frc.T[2]), frc.Ea[ia][2])

	_, err = frc.Index("C")
	assert.Error(t, err)
}

func TestReadCSVErrors(t *testing.T) {
	_, err := readCSV(strings.NewReader("date,station,rainfall,evaporation\n2021-06-01,A,1,1\n"))
	assert.Error(t, err, "single date")

	_, err = readCSV(strings.NewReader("2021-06-01 00:00,A,x,1\n2021-06-01 01:00,A,1,1\n"))
	assert.Error(t, err, "bad number")

	_, err = readCSV(strings.NewReader("2021-06-01 00:00,A,-1,1\n2021-06-01 01:00,A,1,1\n"))
	assert.Error(t, err, "negative rainfall")
}

func TestLoadCSVAndGob(t *testing.T) {
	fp := writeTemp(t, "frc.csv", sample)
	frc, err := LoadCSV(fp)
	require.NoError(t, err)

	gp := filepath.Join(t.TempDir(), "frc.gob")
	require.NoError(t, frc.SaveGob(gp))
	frc2, err := LoadGob(gp)
	require.NoError(t, err)
	assert.Equal(t, frc.Ya, frc2.Ya)
	assert.Equal(t, frc.Sta, frc2.Sta)
	assert.True(t, frc.T[0].Equal(frc2.T[0]))

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestLoadObservations(t *testing.T) {
	ts := make([]time.Time, 4)
	for j := range ts {
		ts[j] = time.Date(2021, 6, 1, j, 0, 0, 0, time.UTC)
	}
	fp := writeTemp(t, "obs.csv", "date,flow\n2021-06-01 01:00,0.5\n2021-06-01 03:00,1.5\n2021-07-01 00:00,9\n")
	obs, err := LoadObservations(fp, ts)
	require.NoError(t, err)
	require.Len(t, obs, 4)
	assert.True(t, math.IsNaN(obs[0]))
	assert.Equal(t, .5, obs[1])
	assert.Equal(t, 1.5, obs[3])
}

func TestTotals(t *testing.T) {
	frc := Forcing{
		T:           make([]time.Time, 24),
		Ya:          [][]float64{make([]float64, 24)},
		Ea:          [][]float64{make([]float64, 24)},
		Sta:         []string{"A"},
		IntervalSec: 3600.,
	}
	for j := range frc.T {
		frc.T[j] = time.Date(2021, 1, 1, j, 0, 0, 0, time.UTC)
		frc.Ya[0][j] = 1. / 1000. / 86400. // 1 mm/day
	}
	require.NoError(t, frc.Check())
	sy, se := frc.Totals(0)
	assert.InDelta(t, .36524, sy, 1e-9)
	assert.Zero(t, se)
}

func TestSeasonalEp(t *testing.T) {
	jun := SeasonalEp(time.Date(2021, 6, 21, 0, 0, 0, 0, time.UTC))
	dec := SeasonalEp(time.Date(2021, 12, 21, 0, 0, 0, 0, time.UTC))
	assert.Greater(t, jun, dec)
	assert.InDelta(t, 0., dec, 1e-10)
	assert.InDelta(t, 2./366./86400., jun, 1e-3/366./86400.)

	frc, err := readCSV(strings.NewReader("date,station,rainfall\n2021-06-21 00:00,A,0\n2021-06-21 01:00,A,2\n"))
	require.NoError(t, err)
	assert.Equal(t, jun, frc.Ea[0][0])
	assert.Equal(t, frc.Ea[0][0], frc.Ea[0][1])
}

type eofReader struct {
	r   io.Reader
	eof atomic.Bool
}

func (e *eofReader) Read(b []byte) (int, error) {
	n, err := e.r.Read(b)
	if err == io.EOF {
		e.eof.Store(true)
	}
	return n, err
}

func TestReadCSVConsumesInputOnError(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("2021-06-01 00:00,A,1,1\n2021-06-01 01:00,A,x,1\n")
	for j := 2; j < 5000; j++ {
		sb.WriteString(time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(j) * time.Hour).Format("2006-01-02 15:04"))
		sb.WriteString(",A,1,1\n")
	}
	r := &eofReader{r: strings.NewReader(sb.String())}
	_, err := readCSV(r)
	require.Error(t, err)
	assert.True(t, r.eof.Load())
}
