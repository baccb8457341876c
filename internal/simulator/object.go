package simulator

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"
)

// ObjectSimConfig describes one simulated traffic sensor. Limits are in
// bytes per second, as the monitoring server stores them; nil means unset.
type ObjectSimConfig struct {
	BaseBytesPerSec float64
	Variance        float64
	GapRatio        float64
	WarningLimit    *int64
	ErrorLimit      *int64
	Pattern         Pattern
}

type ObjectSim struct {
	id     string
	config ObjectSimConfig
	seed   int64
}

func NewObjectSim(id string, cfg ObjectSimConfig) *ObjectSim {
	if cfg.Pattern == nil {
		cfg.Pattern = PatternSteady
	}

	h := fnv.New64a()
	h.Write([]byte(id))

	return &ObjectSim{id: id, config: cfg, seed: int64(h.Sum64())}
}

func (o *ObjectSim) ID() string {
	return o.id
}

// Limit returns the stored value of a limit property
func (o *ObjectSim) Limit(name string) (int64, bool) {
	var v *int64
	switch name {
	case "limitmaxwarning":
		v = o.config.WarningLimit
	case "limitmaxerror":
		v = o.config.ErrorLimit
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// Sample returns the rate at t, or ok=false for a gap in the data
func (o *ObjectSim) Sample(t time.Time) (bytesPerSec float64, ok bool) {
	rng := rand.New(rand.NewSource(o.seed ^ t.Unix()))

	if o.config.GapRatio > 0 && rng.Float64() < o.config.GapRatio {
		return 0, false
	}

	v := o.config.Pattern.Apply(o.config.BaseBytesPerSec, t)
	if o.config.Variance > 0 {
		v += (rng.Float64()*2 - 1) * o.config.Variance
	}
	if v < 0 {
		v = 0
	}
	return v, true
}

// Row renders one historic data row
func (o *ObjectSim) Row(t time.Time) []string {
	stamp := t.Format("1/2/2006 3:04:05 PM")
	v, ok := o.Sample(t)
	if !ok {
		return []string{stamp, "", "", ""}
	}
	return []string{
		stamp,
		fmt.Sprintf("%.2f Mbit/s", v*8/1_000_000),
		fmt.Sprintf("%.4f", v),
		fmt.Sprintf("%d MByte", int64(v*3600/1_000_000)),
	}
}

type ObjectStatus struct {
	ID              string  `json:"id"`
	BaseBytesPerSec float64 `json:"base_bytes_per_sec"`
	Variance        float64 `json:"variance"`
	GapRatio        float64 `json:"gap_ratio"`
	WarningLimit    *int64  `json:"limitmaxwarning,omitempty"`
	ErrorLimit      *int64  `json:"limitmaxerror,omitempty"`
	Pattern         string  `json:"pattern"`
}

func (o *ObjectSim) Status() ObjectStatus {
	return ObjectStatus{
		ID:              o.id,
		BaseBytesPerSec: o.config.BaseBytesPerSec,
		Variance:        o.config.Variance,
		GapRatio:        o.config.GapRatio,
		WarningLimit:    o.config.WarningLimit,
		ErrorLimit:      o.config.ErrorLimit,
		Pattern:         o.config.Pattern.Name(),
	}
}
