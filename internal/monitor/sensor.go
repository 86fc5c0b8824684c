package monitor

import (
	"fmt"
	"log/slog"
	"strconv"
)

// Environment is the temperature/humidity peripheral. A failed conversion may be
// reported either as an error or as NaN.
type Environment interface {
	Humidity() (float64, error)
	Temperature() (float64, error)
}

// AnalogReader matches gobot's aio.AnalogReader.
type AnalogReader interface {
	AnalogRead(pin string) (int, error)
}

type SensorReader struct {
	env            Environment
	adc            AnalogReader
	lightPin       string
	maxLight       int
	humidityOffset float64
	log            *slog.Logger
}

type SensorOptions struct {
	LightChannel   int
	MaxLight       int // largest raw ADC value, 4095 at 12 bits
	HumidityOffset float64
	Logger         *slog.Logger
}

func NewSensorReader(env Environment, adc AnalogReader, opts SensorOptions) *SensorReader {
	if opts.MaxLight <= 0 {
		opts.MaxLight = 4095
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &SensorReader{
		env:            env,
		adc:            adc,
		lightPin:       strconv.Itoa(opts.LightChannel),
		maxLight:       opts.MaxLight,
		humidityOffset: opts.HumidityOffset,
		log:            opts.Logger,
	}
}

// Read samples humidity, temperature and light once. Any error wraps
// ErrSensorFailure. The loop calls Read so the cause can go out with the alert.
func (s *SensorReader) Read() (Reading, error) {
	h, err := s.env.Humidity()
	if err != nil {
		return Reading{}, fmt.Errorf("%w: humidity: %v", ErrSensorFailure, err)
	}
	t, err := s.env.Temperature()
	if err != nil {
		return Reading{}, fmt.Errorf("%w: temperature: %v", ErrSensorFailure, err)
	}

	r := Reading{Temperature: t, Humidity: h + s.humidityOffset}
	if !r.Valid() {
		return Reading{}, fmt.Errorf("%w: temperature=%v humidity=%v", ErrSensorFailure, t, h)
	}

	raw, err := s.adc.AnalogRead(s.lightPin)
	if err != nil {
		return Reading{}, fmt.Errorf("%w: light: %v", ErrSensorFailure, err)
	}
	r.Light = clamp(raw, 0, s.maxLight)
	return r, nil
}

// ReadEnvironment is the convenience form of Read: the failure is logged and
// folded into ok.
func (s *SensorReader) ReadEnvironment() (Reading, bool) {
	r, err := s.Read()
	if err != nil {
		s.log.Error("failed to read sensors", "error", err)
		return Reading{}, false
	}
	return r, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
