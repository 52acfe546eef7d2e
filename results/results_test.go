package results

import (
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/maseology/catchstep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	reg := Default()
	ids := reg.IDs()
	assert.Contains(t, ids, "Discharge")
	assert.Contains(t, ids, "SurfaceDepth")
	assert.IsIncreasing(t, ids)

	o, ok := reg.Lookup("Discharge")
	require.True(t, ok)
	assert.Equal(t, "m³/s", o.Unit)

	p := catchstep.Parameters{Area: 1e4}
	f := catchstep.Flux{Runoff: .006}
	assert.InDelta(t, 1., o.Get(&p, &catchstep.State{}, &f, 60.), 1e-12)

	assert.Error(t, reg.Offer("Discharge", "", "", o.Get))
	assert.Error(t, reg.Offer("x", "", "", nil))
	require.NoError(t, reg.Offer("Twice", "m", "", func(_ *catchstep.Parameters, s *catchstep.State, _ *catchstep.Flux, _ float64) float64 {
		return 2. * s.SurfaceDepth
	}))
	o, ok = reg.Lookup("Twice")
	require.True(t, ok)
	assert.Equal(t, .2, o.Get(nil, &catchstep.State{SurfaceDepth: .1}, nil, 1.))

	_, ok = reg.Lookup("Nothing")
	assert.False(t, ok)
}

func TestDefaultOffersReservoirs(t *testing.T) {
	reg := Default()
	s := catchstep.State{Infiltration: .25, Overland: .01, Interflow: .02, Baseflow: .03}
	for id, want := range map[string]float64{
		"Overland":  .01,
		"Interflow": .02,
		"Baseflow":  .03,
		"Depletion": .25,
	} {
		o, ok := reg.Lookup(id)
		require.True(t, ok, id)
		assert.Equal(t, want, o.Get(nil, &s, nil, 60.), id)
	}

	tab := reg.Table()
	require.Len(t, tab, len(reg.IDs()))
	assert.Contains(t, tab[0], "Baseflow")
	assert.Contains(t, tab[0], "[m]")

	rec, err := NewRecorder(reg, []string{"c1"}, []string{"Baseflow"}, 2)
	require.NoError(t, err)
	rec.Record(0, 1, nil, &s, nil, 60.)
	v, err := rec.Series(0, "Baseflow")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, .03}, v)
}

func TestRecorderConcurrent(t *testing.T) {
	reg := Default()
	cids := []string{"a", "b", "c", "d"}
	rec, err := NewRecorder(reg, cids, []string{"SurfaceDepth", "RunoffRate"}, 10)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range cids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := catchstep.Parameters{Area: 1.}
			for j := 0; j < 10; j++ {
				s := catchstep.State{SurfaceDepth: float64(i*100 + j)}
				f := catchstep.Flux{Runoff: float64(j)}
				rec.Record(i, j, &p, &s, &f, 2.)
			}
		}(i)
	}
	wg.Wait()

	v, err := rec.Series(2, "SurfaceDepth")
	require.NoError(t, err)
	assert.Equal(t, 205., v[5])
	v, err = rec.Series(3, "RunoffRate")
	require.NoError(t, err)
	assert.Equal(t, 4.5, v[9])

	_, err = rec.Series(0, "Discharge")
	assert.Error(t, err)

	_, err = NewRecorder(reg, cids, []string{"Nope"}, 10)
	assert.Error(t, err)
}

func TestWriteBins(t *testing.T) {
	rec, err := NewRecorder(Default(), []string{"c1"}, []string{"StorageLoss"}, 3)
	require.NoError(t, err)
	p := catchstep.Parameters{Area: 1.}
	for j := 0; j < 3; j++ {
		rec.Record(0, j, &p, &catchstep.State{StorageLoss: .5 * float64(j)}, &catchstep.Flux{}, 1.)
	}
	dir := t.TempDir()
	require.NoError(t, rec.WriteBins(dir))
	v, err := ReadFloats(filepath.Join(dir, "c1.StorageLoss.bin"))
	require.NoError(t, err)
	assert.Equal(t, []float64{0., .5, 1.}, v)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{1., math.NaN(), 3., 2.})
	assert.InDelta(t, 2., s.Mean, 1e-12)
	assert.Equal(t, 1., s.Min)
	assert.Equal(t, 3., s.Max)
	assert.Equal(t, 6., s.Sum)
	assert.Equal(t, 2, s.Argmax)
	assert.InDelta(t, 1., s.StdDev, 1e-12)

	e := Summarize([]float64{math.NaN()})
	assert.True(t, math.IsNaN(e.Mean))
	assert.Equal(t, -1, e.Argmax)
}
