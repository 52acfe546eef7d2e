package results

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/maseology/catchstep"
	"github.com/maseology/mmio"
)

// Recorder stores the selected quantities as [catchment][quantity][timestep].
// Each catchment writes only to its own slot, so catchments may record concurrently.
type Recorder struct {
	IDs  []string // catchment IDs
	Qids []string // quantity IDs
	v    [][][]float64
	get  []Getter
}

// NewRecorder allocates storage for nc catchments over nt steps
func NewRecorder(reg *Registry, cids, qids []string, nt int) (*Recorder, error) {
	rec := Recorder{IDs: cids, Qids: qids, get: make([]Getter, len(qids))}
	for k, q := range qids {
		o, ok := reg.Lookup(q)
		if !ok {
			return nil, fmt.Errorf("results.NewRecorder: quantity %q is not offered", q)
		}
		rec.get[k] = o.Get
	}
	rec.v = make([][][]float64, len(cids))
	for i := range cids {
		rec.v[i] = make([][]float64, len(qids))
		for k := range qids {
			rec.v[i][k] = make([]float64, nt)
		}
	}
	return &rec, nil
}

// Record reads all quantities of catchment i at step j
func (rec *Recorder) Record(i, j int, p *catchstep.Parameters, s *catchstep.State, f *catchstep.Flux, dt float64) {
	for k, g := range rec.get {
		rec.v[i][k][j] = g(p, s, f, dt)
	}
}

// Series returns the recorded series of a catchment quantity
func (rec *Recorder) Series(i int, qid string) ([]float64, error) {
	for k, q := range rec.Qids {
		if q == qid {
			return rec.v[i][k], nil
		}
	}
	return nil, fmt.Errorf("results.Series: quantity %q not recorded", qid)
}

// WriteCSV saves one csv per catchment: date plus one column per quantity
func (rec *Recorder) WriteCSV(dir string, ts []time.Time) error {
	mmio.MakeDir(dir)
	head := "date"
	for _, q := range rec.Qids {
		head += "," + q
	}
	for i, c := range rec.IDs {
		mmio.WriteCsvDateFloats(filepath.Join(dir, c+".csv"), head, ts, rec.v[i]...)
	}
	return nil
}

// WriteBins saves each recorded series as a float32 binary, named <catchment>.<quantity>.bin
func (rec *Recorder) WriteBins(dir string) error {
	mmio.MakeDir(dir)
	for i, c := range rec.IDs {
		for k, q := range rec.Qids {
			if err := writeFloats(filepath.Join(dir, fmt.Sprintf("%s.%s.bin", c, q)), rec.v[i][k]); err != nil {
				return err
			}
		}
	}
	return nil
}
