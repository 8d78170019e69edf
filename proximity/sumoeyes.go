// Package proximity implements the SumoEyes obstacle detector attached to an
// EVShield sensor port.
package proximity

import (
	"context"
	"fmt"

	"github.com/mklimuk/evshield"
	"github.com/mklimuk/evshield/shield"
)

// Zone is where an obstacle was detected.
type Zone uint8

const (
	ZoneNone Zone = iota
	ZoneFront
	ZoneLeft
	ZoneRight
)

func (z Zone) String() string {
	switch z {
	case ZoneFront:
		return "FRONT"
	case ZoneLeft:
		return "LEFT"
	case ZoneRight:
		return "RIGHT"
	}
	return "NONE"
}

// ZoneLevels are the raw analog readings produced by an obstacle in each zone.
type ZoneLevels struct {
	Front     int `yaml:"front"`
	Left      int `yaml:"left"`
	Right     int `yaml:"right"`
	Tolerance int `yaml:"tolerance"`
}

var DefaultZoneLevels = ZoneLevels{Front: 300, Left: 580, Right: 470, Tolerance: 10}

type SumoEyesOpt func(*SumoEyes)

func WithZoneLevels(l ZoneLevels) SumoEyesOpt {
	return func(s *SumoEyes) {
		s.levels = l
	}
}

// SumoEyes is a triple zone infrared obstacle detector. The zone is encoded in
// the analog level of the port, the range in the port's light type.
type SumoEyes struct {
	sensor *shield.AnalogSensor
	levels ZoneLevels
}

func NewSumoEyes(bus evshield.I2CBus, port shield.BankPort, opts ...SumoEyesOpt) *SumoEyes {
	s := &SumoEyes{sensor: shield.NewAnalogSensor(bus, port), levels: DefaultZoneLevels}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SumoEyes) Port() shield.BankPort {
	return s.sensor.Port()
}

func (s *SumoEyes) SetType(ctx context.Context, t shield.SensorType) error {
	return s.sensor.SetType(ctx, t)
}

// SetLongRange switches the sensor to long range detection.
func (s *SumoEyes) SetLongRange(ctx context.Context) error {
	return s.SetType(ctx, shield.TypeLightAmbient)
}

// SetShortRange switches the sensor to short range detection.
func (s *SumoEyes) SetShortRange(ctx context.Context) error {
	return s.SetType(ctx, shield.TypeLightReflected)
}

// DetectObstacleZone reads the port once and maps the level onto a zone.
func (s *SumoEyes) DetectObstacleZone(ctx context.Context) (Zone, error) {
	v, err := s.sensor.ReadRaw(ctx)
	if err != nil {
		return ZoneNone, fmt.Errorf("sumoeyes: could not detect obstacle: %w", err)
	}
	return s.levels.zone(v), nil
}

func (l ZoneLevels) zone(value int) Zone {
	switch {
	case isNear(l.Front, l.Tolerance, value):
		return ZoneFront
	case isNear(l.Left, l.Tolerance, value):
		return ZoneLeft
	case isNear(l.Right, l.Tolerance, value):
		return ZoneRight
	}
	return ZoneNone
}

// isNear reports whether value lies within reference±delta, bounds included.
func isNear(reference, delta, value int) bool {
	return value >= reference-delta && value <= reference+delta
}
