package forcing

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/maseology/mmio"
)

// LoadObservations reads "date,value" rows and aligns them to ts; dates without an observation are NaN
func LoadObservations(fp string, ts []time.Time) ([]float64, error) {
	if _, ok := mmio.FileExists(fp); !ok {
		return nil, fmt.Errorf("forcing.LoadObservations error: file %s does not exist", fp)
	}
	f, err := os.Open(fp)
	if err != nil {
		return nil, fmt.Errorf("forcing.LoadObservations failed: %v", err)
	}
	defer f.Close()

	xr := make(map[int64]int, len(ts))
	for j, t := range ts {
		xr[t.Unix()] = j
	}
	vs := make([]float64, len(ts))
	for j := range vs {
		vs[j] = math.NaN()
	}

	first := true
	ch := mmio.LoadCSV(f)
	defer func() {
		for range ch {
		}
	}()
	for rec := range ch {
		if len(rec) < 2 {
			return nil, fmt.Errorf("forcing.LoadObservations failed: expecting 2 columns, found %d", len(rec))
		}
		dt, err := parseDate(rec[0])
		if err != nil {
			if first {
				first = false
				continue
			}
			return nil, fmt.Errorf("forcing.LoadObservations failed: %v", err)
		}
		first = false
		j, ok := xr[dt.Unix()]
		if !ok {
			continue
		}
		if vs[j], err = strconv.ParseFloat(strings.TrimSpace(rec[1]), 64); err != nil {
			return nil, fmt.Errorf("forcing.LoadObservations failed: %v", err)
		}
	}
	return vs, nil
}
