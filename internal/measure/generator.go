package measure

import (
	"controlling_motor/internal/models"
	"controlling_motor/internal/sensor"
)

const (
	NominalZeroMv  = 2500.0
	NominalSensMvA = 100.0

	// Readings above SaturationA mark the ADC unhealthy for SaturationWindowMs.
	SaturationA        = 19.6
	SaturationWindowMs = 2800
)

// Climate is the board sensor's reading set; it is cached as a unit.
type Climate struct {
	BoardC     float64 `json:"board_c"`
	AmbientC   float64 `json:"ambient_c"`
	PressurePa float64 `json:"pressure_pa"`
}

// Sensors are the health trackers the generator reads through.
type Sensors struct {
	Motor   *sensor.Tracker[float64]
	Climate *sensor.Tracker[Climate]
	Current *sensor.Tracker[float64]
}

// Output is one generated sample. LiveCurrentA is the unmasked current
// reading used by overcurrent protection; Sample carries the values the
// trackers serve.
type Output struct {
	Sample       models.Sample
	LiveCurrentA float64
	Events       []models.Event
}

// Generator turns raw source readings into samples.
type Generator struct {
	src     Source
	sensors Sensors
}

func NewGenerator(src Source, sensors Sensors) *Generator {
	return &Generator{src: src, sensors: sensors}
}

// Generate must be called after the trackers were ticked for in.NowMs.
func (g *Generator) Generate(in Input, cfg models.DeviceConfig, cal models.Calibration) Output {
	raw := g.src.Next(in)

	live := cal.CurrentA(NominalZeroMv + raw.CurrentA*NominalSensMvA)
	var evs []models.Event
	if g.sensors.Current.OK() && live > SaturationA {
		evs = append(evs, g.sensors.Current.Fail(in.NowMs, SaturationWindowMs)...)
	}

	cur := g.sensors.Current.Read(live)
	motor := g.sensors.Motor.Read(raw.MotorC)
	cl := g.sensors.Climate.Read(Climate{BoardC: raw.BoardC, AmbientC: raw.AmbientC, PressurePa: raw.PressurePa})

	return Output{
		Sample: models.Sample{
			TsMs:       in.NowMs,
			CurrentA:   cur,
			PowerW:     cur * cfg.MotorVccV,
			MotorC:     motor,
			BoardC:     cl.BoardC,
			AmbientC:   cl.AmbientC,
			PressurePa: cl.PressurePa,
		},
		LiveCurrentA: live,
		Events:       evs,
	}
}
