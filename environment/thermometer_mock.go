package environment

import (
	"context"
)

// TemperatureBehaviorFunc defines the function signature for temperature behavior.
// It returns the temperature in Celsius or an error.
type TemperatureBehaviorFunc func(ctx context.Context) (float32, error)

var _ Thermometer = &MockThermometer{}

// MockThermometer is a mock implementation of a contactless thermometer that uses behavior functions
// to produce results without requiring any hardware.
// Fahrenheit readings are derived from the Celsius behaviors.
type MockThermometer struct {
	ambient TemperatureBehaviorFunc
	target  TemperatureBehaviorFunc
}

// NewMockThermometer creates a new mock thermometer with the given behavior functions.
//
// Example usage:
//
//	sensor := NewMockThermometer(
//		func(ctx context.Context) (float32, error) { return 21.5, nil }, // ambient
//		func(ctx context.Context) (float32, error) { return 36.6, nil }, // target
//	)
func NewMockThermometer(ambient, target TemperatureBehaviorFunc) *MockThermometer {
	return &MockThermometer{ambient: ambient, target: target}
}

func (m *MockThermometer) GetAmbientTemperatureC(ctx context.Context) (float32, error) {
	return m.ambient(ctx)
}

func (m *MockThermometer) GetTargetTemperatureC(ctx context.Context) (float32, error) {
	return m.target(ctx)
}

func (m *MockThermometer) GetAmbientTemperatureF(ctx context.Context) (float32, error) {
	return toFahrenheit(m.ambient(ctx))
}

func (m *MockThermometer) GetTargetTemperatureF(ctx context.Context) (float32, error) {
	return toFahrenheit(m.target(ctx))
}

func toFahrenheit(c float32, err error) (float32, error) {
	if err != nil {
		return 0, err
	}
	return c*9/5 + 32, nil
}
