package hardware

import "furitingoasis/envmon/internal/monitor"

// climateDriver is the part of gobot's SHT2xDriver we read from.
type climateDriver interface {
	Temperature() (float32, error)
	Humidity() (float32, error)
}

// Climate adapts the SHT2x float32 readings to the monitor's Environment.
type Climate struct {
	dev climateDriver
}

func NewClimate(dev climateDriver) *Climate {
	return &Climate{dev: dev}
}

func (c *Climate) Temperature() (float64, error) {
	t, err := c.dev.Temperature()
	if err != nil {
		return 0, err
	}
	return float64(t), nil
}

func (c *Climate) Humidity() (float64, error) {
	h, err := c.dev.Humidity()
	if err != nil {
		return 0, err
	}
	return float64(h), nil
}

// Light scales an ADS1x15 reading down to the configured resolution. gobot
// hands back the conversion register as is, and the ADS1015 keeps its 12-bit
// result left-justified in bits 15:4.
type Light struct {
	adc   monitor.AnalogReader
	shift int
}

// NewLight wraps adc for a converter with the given number of result bits.
func NewLight(adc monitor.AnalogReader, bits int) *Light {
	shift := 16 - bits
	if shift < 0 {
		shift = 0
	}
	return &Light{adc: adc, shift: shift}
}

func (l *Light) AnalogRead(pin string) (int, error) {
	raw, err := l.adc.AnalogRead(pin)
	if err != nil {
		return 0, err
	}
	return raw >> l.shift, nil
}
