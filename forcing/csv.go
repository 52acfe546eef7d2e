package forcing

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/maseology/mmio"
)

const (
	mmhToMs = 1. / 1000. / 3600.  // [mm/h] to [m/s]
	mmdToMs = 1. / 1000. / 86400. // [mm/day] to [m/s]
)

var dateFormats = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, f := range dateFormats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// LoadCSV reads rows of "date,station,rainfall[mm/h],evaporation[mm/day]".
// Missing station-dates get no rainfall; missing evaporation takes SeasonalEp.
func LoadCSV(fp string) (*Forcing, error) {
	if _, ok := mmio.FileExists(fp); !ok {
		return nil, fmt.Errorf("forcing.LoadCSV error: file %s does not exist", fp)
	}
	f, err := os.Open(fp)
	if err != nil {
		return nil, fmt.Errorf("forcing.LoadCSV failed: %v", err)
	}
	defer f.Close()
	return readCSV(f)
}

type rec struct {
	t     time.Time
	sta   string
	ya, e float64
}

func readCSV(r io.Reader) (*Forcing, error) {
	var recs []rec
	first := true
	ch := mmio.LoadCSV(r)
	defer func() {
		for range ch { // release the reader on early return
		}
	}()
	for ln := range ch {
		if len(ln) < 3 {
			return nil, fmt.Errorf("forcing.readCSV failed: expecting at least 3 columns, found %d", len(ln))
		}
		t, err := parseDate(ln[0])
		if err != nil {
			if first { // header
				first = false
				continue
			}
			return nil, fmt.Errorf("forcing.readCSV failed: %v", err)
		}
		first = false
		y, err := strconv.ParseFloat(strings.TrimSpace(ln[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("forcing.readCSV failed: %v", err)
		}
		e := math.NaN() // seasonal default
		if len(ln) > 3 && strings.TrimSpace(ln[3]) != "" {
			if e, err = strconv.ParseFloat(strings.TrimSpace(ln[3]), 64); err != nil {
				return nil, fmt.Errorf("forcing.readCSV failed: %v", err)
			}
			e *= mmdToMs
		}
		recs = append(recs, rec{t, strings.TrimSpace(ln[1]), y * mmhToMs, e})
	}
	return build(recs)
}

func build(recs []rec) (*Forcing, error) {
	if len(recs) == 0 {
		return nil, fmt.Errorf("forcing.build: no records")
	}

	// stations and unique dates
	xs, dts := make(map[string]int), make(map[int64]bool)
	var frc Forcing
	for _, r := range recs {
		if _, ok := xs[r.sta]; !ok {
			xs[r.sta] = len(frc.Sta)
			frc.Sta = append(frc.Sta, r.sta)
		}
		dts[r.t.Unix()] = true
	}
	us := make([]int64, 0, len(dts))
	for u := range dts {
		us = append(us, u)
	}
	sort.Slice(us, func(i, j int) bool { return us[i] < us[j] })

	// regular interval
	intvl := int64(0)
	for i := 1; i < len(us); i++ {
		if d := us[i] - us[i-1]; intvl == 0 || d < intvl {
			intvl = d
		}
	}
	if len(us) == 1 {
		return nil, fmt.Errorf("forcing.build: at least two dates are required to set the time step")
	}
	for i := 1; i < len(us); i++ {
		if (us[i]-us[0])%intvl != 0 {
			return nil, fmt.Errorf("forcing.build: irregular time step at %v", time.Unix(us[i], 0).UTC())
		}
	}

	nt := int((us[len(us)-1]-us[0])/intvl) + 1
	loc := recs[0].t.Location()
	frc.IntervalSec = float64(intvl)
	frc.T = make([]time.Time, nt)
	for j := range frc.T {
		frc.T[j] = time.Unix(us[0]+int64(j)*intvl, 0).In(loc)
	}
	frc.Ya, frc.Ea = make([][]float64, len(frc.Sta)), make([][]float64, len(frc.Sta))
	seen := make([][]bool, len(frc.Sta))
	for i := range frc.Sta {
		frc.Ya[i], frc.Ea[i], seen[i] = make([]float64, nt), make([]float64, nt), make([]bool, nt)
	}
	for _, r := range recs {
		i, j := xs[r.sta], int((r.t.Unix()-us[0])/intvl)
		frc.Ya[i][j] = r.ya
		if math.IsNaN(r.e) {
			frc.Ea[i][j] = SeasonalEp(r.t)
		} else {
			frc.Ea[i][j] = r.e
		}
		seen[i][j] = true
	}

	cdt := 0
	for i := range seen {
		for j, b := range seen[i] {
			if !b {
				frc.Ea[i][j] = SeasonalEp(frc.T[j])
				cdt++
			}
		}
	}
	if cdt > 0 {
		fmt.Printf("     Total missing station-dates = %d (no rainfall, seasonal evaporation)\n", cdt)
	}
	return &frc, frc.Check()
}
