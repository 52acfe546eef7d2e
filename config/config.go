// Package config reads catchment run definitions from TOML
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/maseology/catchstep"
	"github.com/maseology/catchstep/sim"
)

// Config is a run definition. Paths are relative to the config file.
type Config struct {
	Forcing    string   `toml:"forcing" validate:"required"`
	Observed   string   `toml:"observed"`
	Outdir     string   `toml:"outdir" validate:"required"`
	Concurrent bool     `toml:"concurrent"`
	Progress   bool     `toml:"progress"`
	Bins       bool     `toml:"bins"`
	Quantities []string `toml:"quantities" validate:"dive,required"`

	Catchment []Catchment `toml:"catchment" validate:"required,min=1,dive"`

	dir string
}

// Catchment entries override DefaultParameters(area)
type Catchment struct {
	ID      string   `toml:"id" validate:"required"`
	Station string   `toml:"station" validate:"required"`
	Scheme  string   `toml:"scheme" validate:"omitempty,oneof=horton cascade"`
	Area    float64  `toml:"area" validate:"gt=0"`
	Params  Params   `toml:"params"`
	Initial *Initial `toml:"initial"`
}

// Params in SI units; unset fields keep their defaults
type Params struct {
	Width      *float64 `toml:"width" validate:"omitempty,gte=0"`
	Slope      *float64 `toml:"slope" validate:"omitempty,gte=0"`
	Manning    *float64 `toml:"manning" validate:"omitempty,gte=0"`
	F0         *float64 `toml:"f0" validate:"omitempty,gte=0"`
	Fc         *float64 `toml:"fc" validate:"omitempty,gte=0"`
	Kwet       *float64 `toml:"kwet" validate:"omitempty,gte=0"`
	Kdry       *float64 `toml:"kdry" validate:"omitempty,gte=0"`
	WettingCap *float64 `toml:"wetting_cap" validate:"omitempty,gte=0"`
	StorageCap *float64 `toml:"storage_cap" validate:"omitempty,gte=0"`
	SoilCap    *float64 `toml:"soil_cap" validate:"omitempty,gte=0"`
	Fimp       *float64 `toml:"fimp" validate:"omitempty,gte=0,lte=1"`
	Csib       *float64 `toml:"csib" validate:"omitempty,gte=0,lte=1"`
	Kso        *float64 `toml:"kso" validate:"omitempty,gt=0"`
	Kof        *float64 `toml:"kof" validate:"omitempty,gt=0"`
	Kif        *float64 `toml:"kif" validate:"omitempty,gt=0"`
	Kbf        *float64 `toml:"kbf" validate:"omitempty,gt=0"`
}

// Initial is a hot-start state [m]
type Initial struct {
	SurfaceDepth float64 `toml:"surface_depth" validate:"gte=0"`
	WettingLoss  float64 `toml:"wetting_loss" validate:"gte=0"`
	StorageLoss  float64 `toml:"storage_loss" validate:"gte=0"`
	Infiltration float64 `toml:"infiltration" validate:"gte=0,lte=1"` // depletion fraction
	SoilMoisture float64 `toml:"soil_moisture" validate:"gte=0"`
	Overland     float64 `toml:"overland" validate:"gte=0"`
	Interflow    float64 `toml:"interflow" validate:"gte=0"`
	Baseflow     float64 `toml:"baseflow" validate:"gte=0"`
}

// Load reads and validates the TOML file at fp
func Load(fp string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(fp, &cfg)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if ud := md.Undecoded(); len(ud) > 0 {
		return nil, fmt.Errorf("config.Load %s: unknown keys %v", fp, ud)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config.Load %s: %w", fp, err)
	}
	seen := make(map[string]bool, len(cfg.Catchment))
	for _, c := range cfg.Catchment {
		if seen[c.ID] {
			return nil, fmt.Errorf("config.Load %s: duplicate catchment id %q", fp, c.ID)
		}
		seen[c.ID] = true
	}
	cfg.dir = filepath.Dir(fp)
	return &cfg, nil
}

// Path resolves a config-relative path
func (cfg *Config) Path(fp string) string {
	if fp == "" || filepath.IsAbs(fp) {
		return fp
	}
	return filepath.Join(cfg.dir, fp)
}

// HasObserved is true when an observation file is given and exists
func (cfg *Config) HasObserved() bool {
	if cfg.Observed == "" {
		return false
	}
	_, err := os.Stat(cfg.Path(cfg.Observed))
	return err == nil
}

// Parameters returns the defaults for c.Area with c.Params applied
func (c *Catchment) Parameters() catchstep.Parameters {
	p := catchstep.DefaultParameters(c.Area)
	o := c.Params
	for _, f := range []struct {
		v   *float64
		dst *float64
	}{
		{o.Width, &p.Width}, {o.Slope, &p.Slope}, {o.Manning, &p.Manning},
		{o.F0, &p.F0}, {o.Fc, &p.Fc}, {o.Kwet, &p.Kwet}, {o.Kdry, &p.Kdry},
		{o.WettingCap, &p.WettingCap}, {o.StorageCap, &p.StorageCap},
		{o.SoilCap, &p.SoilCap}, {o.Fimp, &p.Fimp}, {o.Csib, &p.Csib},
		{o.Kso, &p.Kso}, {o.Kof, &p.Kof}, {o.Kif, &p.Kif}, {o.Kbf, &p.Kbf},
	} {
		if f.v != nil {
			*f.dst = *f.v
		}
	}
	return p
}

// State returns the hot-start state, nil for a cold start
func (c *Catchment) State() *catchstep.State {
	if c.Initial == nil {
		return nil
	}
	return &catchstep.State{
		SurfaceDepth: c.Initial.SurfaceDepth,
		WettingLoss:  c.Initial.WettingLoss,
		StorageLoss:  c.Initial.StorageLoss,
		Infiltration: c.Initial.Infiltration,
		SoilMoisture: c.Initial.SoilMoisture,
		Overland:     c.Initial.Overland,
		Interflow:    c.Initial.Interflow,
		Baseflow:     c.Initial.Baseflow,
	}
}

// Catchments builds the simulation catchments
func (cfg *Config) Catchments() ([]*sim.Catchment, error) {
	cs := make([]*sim.Catchment, 0, len(cfg.Catchment))
	for i := range cfg.Catchment {
		c := &cfg.Catchment[i]
		sch, err := catchstep.SchemeByName(c.Scheme)
		if err != nil {
			return nil, fmt.Errorf("catchment %s: %w", c.ID, err)
		}
		sc, err := sim.NewCatchment(c.ID, c.Station, c.Parameters(), sch, c.State())
		if err != nil {
			return nil, err
		}
		cs = append(cs, sc)
	}
	return cs, nil
}
