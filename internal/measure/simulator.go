// Package measure produces one control-loop sample per tick.
package measure

import (
	"math"

	"controlling_motor/internal/sensor"
)

// Input is what a source needs to know about the actuator.
type Input struct {
	NowMs   int64
	DtMs    int64
	RelayOn bool
}

// Raw is one unfiltered reading set. CurrentA assumes the nominal sensor
// (NominalZeroMv, NominalSensMvA); calibration is applied by the Generator.
type Raw struct {
	CurrentA   float64
	MotorC     float64
	BoardC     float64
	AmbientC   float64
	PressurePa float64
}

// Source produces raw readings. In a device this is driver telemetry.
type Source interface {
	Next(in Input) Raw
}

const (
	heatMax        = 120.0
	heatRiseOn     = 0.85
	heatFallOff    = 1.2
	baseCurrentOn  = 10.5
	baseCurrentOff = 0.2
	rippleA        = 4.5
	noiseA         = 0.4
	spikeChance    = 0.006
	currentMax     = 26.0
	phasePerTick   = 0.035
	seaLevelPa     = 101325.0
)

// Simulator is a thermal and electrical model of a small DC motor load.
type Simulator struct {
	rnd  sensor.Rand
	tick int64
	heat float64
}

func NewSimulator(rnd sensor.Rand) *Simulator {
	return &Simulator{rnd: rnd}
}

func (s *Simulator) uniform(lo, hi float64) float64 {
	return lo + s.rnd.Float64()*(hi-lo)
}

func (s *Simulator) Next(in Input) Raw {
	s.tick++
	t := float64(s.tick) * phasePerTick
	dt := float64(in.DtMs) / 1000

	if in.RelayOn {
		s.heat += dt * heatRiseOn
	} else {
		s.heat -= dt * heatFallOff
	}
	s.heat = clamp(s.heat, 0, heatMax)

	cur := baseCurrentOff + 0.05*math.Sin(t*0.9)
	if in.RelayOn {
		cur = baseCurrentOn + rippleA*math.Sin(t*0.9) + s.uniform(-noiseA, noiseA)
		if s.rnd.Float64() < spikeChance {
			cur += s.uniform(8, 14)
		}
	}

	board := 26 + s.heat*0.25 + 1.2*math.Sin(t*0.08)
	return Raw{
		CurrentA:   clamp(cur, 0, currentMax),
		MotorC:     28 + s.heat*0.7 + 2.8*math.Sin(t*0.2) + s.uniform(-0.3, 0.3),
		BoardC:     board,
		AmbientC:   board - 2,
		PressurePa: seaLevelPa + math.Sin(t*0.04)*220,
	}
}

// RestMillivolts is the sensor output with no load current, as captured
// by a zero calibration.
func (s *Simulator) RestMillivolts() float64 {
	return NominalZeroMv + s.uniform(-25, 25)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
