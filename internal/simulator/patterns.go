package simulator

import (
	"math"
	"time"
)

// Pattern shapes a base rate by the sample's own timestamp, so the same
// query always yields the same series.
type Pattern interface {
	Apply(base float64, at time.Time) float64
	Name() string
}

var (
	PatternSteady Pattern = &SteadyPattern{}
	PatternDaily  Pattern = &DailyPattern{}
	PatternWeekly Pattern = &WeeklyPattern{}
)

func ParsePattern(name string) Pattern {
	switch name {
	case "daily":
		return PatternDaily
	case "weekly":
		return PatternWeekly
	case "sine_wave":
		return &SineWavePattern{}
	default:
		return PatternSteady
	}
}

// SteadyPattern - constant load
type SteadyPattern struct{}

func (p *SteadyPattern) Apply(base float64, _ time.Time) float64 {
	return base
}

func (p *SteadyPattern) Name() string {
	return "steady"
}

// DailyPattern - busy office hours, quiet nights
type DailyPattern struct{}

func (p *DailyPattern) Apply(base float64, at time.Time) float64 {
	return base * hourModifier(at.Hour())
}

func (p *DailyPattern) Name() string {
	return "daily"
}

// WeeklyPattern - daily cycle on weekdays, halved on weekends
type WeeklyPattern struct{}

func (p *WeeklyPattern) Apply(base float64, at time.Time) float64 {
	if wd := at.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return base * 0.5
	}
	return base * hourModifier(at.Hour())
}

func (p *WeeklyPattern) Name() string {
	return "weekly"
}

func hourModifier(hour int) float64 {
	switch {
	case hour >= 9 && hour <= 11:
		return 1.4
	case hour >= 14 && hour <= 16:
		return 1.3
	case hour >= 17 && hour <= 20:
		return 1.1
	case hour <= 6:
		return 0.6
	default:
		return 1.0
	}
}

// SineWavePattern - smooth oscillation of Amplitude (a fraction of base)
type SineWavePattern struct {
	Period    time.Duration
	Amplitude float64
}

func (p *SineWavePattern) Apply(base float64, at time.Time) float64 {
	period := p.Period
	if period == 0 {
		period = 24 * time.Hour
	}
	amplitude := p.Amplitude
	if amplitude == 0 {
		amplitude = 0.3
	}

	phase := float64(at.UnixNano()) / float64(period.Nanoseconds()) * 2 * math.Pi
	return base * (1 + math.Sin(phase)*amplitude)
}

func (p *SineWavePattern) Name() string {
	return "sine_wave"
}
