// Package monitor holds the sense-decide-act-report cycle of the controller.
// Hardware and network sit behind the small interfaces declared here so the
// loop can run against fakes.
package monitor

import (
	"errors"
	"fmt"
	"math"
)

// ErrSensorFailure marks a cycle whose temperature or humidity could not be read.
var ErrSensorFailure = errors.New("sensor failure")

// Reading is one sampled snapshot of the environment.
type Reading struct {
	Temperature float64 // °C
	Humidity    float64 // %RH
	Light       int     // raw ADC units
}

// Valid reports whether both climate values are real numbers.
func (r Reading) Valid() bool {
	return isNumber(r.Temperature) && isNumber(r.Humidity)
}

func (r Reading) String() string {
	return fmt.Sprintf("Temp: %.1f°C, Humidity: %.1f%%, Light: %d", r.Temperature, r.Humidity, r.Light)
}

func isNumber(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
