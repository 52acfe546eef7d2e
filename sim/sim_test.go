package sim

import (
	"context"
	"io"
	"math"
	"testing"
	"time"

	"github.com/maseology/catchstep"
	"github.com/maseology/catchstep/forcing"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testForcing(nt int) *forcing.Forcing {
	frc := forcing.Forcing{
		T:           make([]time.Time, nt),
		Ya:          [][]float64{make([]float64, nt), make([]float64, nt)},
		Ea:          [][]float64{make([]float64, nt), make([]float64, nt)},
		Sta:         []string{"north", "south"},
		IntervalSec: 300.,
	}
	for j := 0; j < nt; j++ {
		frc.T[j] = time.Date(2022, 7, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(j) * 5 * time.Minute)
		if j%48 < 12 {
			frc.Ya[0][j] = 1e-5
			frc.Ya[1][j] = 4e-6
		}
		frc.Ea[0][j] = 2e-8
		frc.Ea[1][j] = 3e-8
	}
	return &frc
}

func testCatchments(t *testing.T) []*Catchment {
	var cs []*Catchment
	for i, def := range []struct {
		id, sta string
		area    float64
		sch     catchstep.Scheme
	}{
		{"c1", "north", 2e4, catchstep.HortonKinematic{}},
		{"c2", "north", 5e5, catchstep.Cascade{}},
		{"c3", "south", 1e5, catchstep.HortonKinematic{}},
		{"c4", "south", 8e4, nil},
	} {
		p := catchstep.DefaultParameters(def.area)
		p.Slope = .005 * float64(i+1)
		c, err := NewCatchment(def.id, def.sta, p, def.sch, nil)
		require.NoError(t, err)
		cs = append(cs, c)
	}
	return cs
}

func quiet(s *Simulation) {
	l := logrus.New()
	l.SetOutput(io.Discard)
	s.Log = l
}

func TestRunMatchesSerial(t *testing.T) {
	const nt = 480
	s1, err := New(testCatchments(t), testForcing(nt), nil, []string{"Discharge", "Storage"})
	require.NoError(t, err)
	quiet(s1)
	h1, err := s1.Run(context.Background())
	require.NoError(t, err)

	s2, err := New(testCatchments(t), testForcing(nt), nil, nil)
	require.NoError(t, err)
	quiet(s2)
	h2, err := s2.RunSerial(false)
	require.NoError(t, err)

	require.Len(t, h1, 4)
	assert.Equal(t, h1, h2)
	for i, c := range s1.Catchments {
		assert.Equal(t, c.Sto, s2.Catchments[i].Sto)
		assert.NoError(t, c.Budget.Check(1e-9))
		assert.Equal(t, nt, c.Budget.Nstep)
		for _, q := range h1[i] {
			assert.GreaterOrEqual(t, q, 0.)
		}
	}
	assert.NotEqual(t, s1.RunID, s2.RunID)

	// recorder agrees with returned hydrograph
	q, err := s1.Rec.Series(2, "Discharge")
	require.NoError(t, err)
	assert.Equal(t, h1[2], q)

	tot := s1.Total()
	assert.InDelta(t, 0., tot.Residual(), 1e-9)
	assert.Greater(t, tot.Runoff, 0.)
}

func TestRunCancelled(t *testing.T) {
	s, err := New(testCatchments(t), testForcing(10), nil, nil)
	require.NoError(t, err)
	quiet(s)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewErrors(t *testing.T) {
	frc := testForcing(10)
	cs := testCatchments(t)
	cs[1].ID = cs[0].ID
	_, err := New(cs, frc, nil, nil)
	assert.Error(t, err)

	cs = testCatchments(t)
	cs[0].Station = "east"
	_, err = New(cs, frc, nil, nil)
	assert.Error(t, err)

	_, err = New(testCatchments(t), frc, nil, []string{"Unknown"})
	assert.Error(t, err)

	_, err = New(nil, frc, nil, nil)
	assert.Error(t, err)

	p := catchstep.DefaultParameters(1e4)
	p.WettingCap = -1.
	_, err = NewCatchment("bad", "north", p, nil, nil)
	assert.ErrorIs(t, err, catchstep.ErrInvalidArgument)

	p = catchstep.DefaultParameters(1e4)
	p.Kbf = 0.
	_, err = NewCatchment("bad", "north", p, catchstep.Cascade{}, nil)
	assert.ErrorIs(t, err, catchstep.ErrInvalidArgument)
}

func TestHotStart(t *testing.T) {
	p := catchstep.DefaultParameters(1e4)
	s0 := catchstep.State{SurfaceDepth: .01, WettingLoss: p.WettingCap, StorageLoss: p.StorageCap}
	c, err := NewCatchment("hot", "north", p, nil, &s0)
	require.NoError(t, err)
	assert.InDelta(t, s0.Storage(), c.Budget.Sto0, 1e-15)

	frc := testForcing(12)
	for j := range frc.T {
		frc.Ya[0][j] = 0.
	}
	s, err := New([]*Catchment{c}, frc, nil, nil)
	require.NoError(t, err)
	quiet(s)
	hyd, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Greater(t, hyd[0][0], 0.)
	assert.Less(t, c.Sto.SurfaceDepth, s0.SurfaceDepth)
}

func TestScore(t *testing.T) {
	obs := []float64{1., 2., math.NaN(), 4., 3.}
	sc, err := Score(obs, []float64{1., 2., 7., 4., 3.})
	require.NoError(t, err)
	assert.Equal(t, 4, sc.N)
	assert.InDelta(t, 1., sc.NSE, 1e-12)
	assert.InDelta(t, 0., sc.RMSE, 1e-12)

	_, err = Score(obs, []float64{1.})
	assert.Error(t, err)
	_, err = Score([]float64{math.NaN(), 1.}, []float64{1., 1.})
	assert.Error(t, err)
}
