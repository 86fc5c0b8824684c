package monitor

import (
	"errors"
	"fmt"
	"log/slog"
)

// Thresholds are the single switching points for every actuator. There is no
// hysteresis: a value hovering on a threshold will toggle its output.
type Thresholds struct {
	TempHigh     float64 // fan and alarm, °C
	HumidityHigh float64 // alarm, %RH
	LightLow     int     // grow-light and alarm gate, raw ADC units
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		TempHigh:     30.0,
		HumidityHigh: 70.0,
		LightLow:     500,
	}
}

// ActuatorState is the on/off decision for every controlled device in one cycle.
type ActuatorState struct {
	FanOn      bool
	FanLEDOn   bool
	LightOn    bool
	LightLEDOn bool
	AlarmLEDOn bool
	BuzzerOn   bool
}

// Decide maps a reading to actuator decisions. It keeps no state between calls.
func Decide(th Thresholds, r Reading) ActuatorState {
	hot := r.Temperature >= th.TempHigh
	humid := r.Humidity >= th.HumidityHigh
	dark := r.Light < th.LightLow

	// The alarm only sounds in the dark, as on the field firmware.
	alarm := (hot || humid) && dark

	return ActuatorState{
		FanOn:      hot,
		FanLEDOn:   hot,
		LightOn:    dark,
		LightLEDOn: dark,
		AlarmLEDOn: alarm,
		BuzzerOn:   alarm,
	}
}

// Device names a physical output.
type Device int

const (
	DeviceFan Device = iota
	DeviceFanLED
	DeviceLight
	DeviceLightLED
	DeviceBuzzer
	DeviceAlarmLED
)

func (d Device) String() string {
	switch d {
	case DeviceFan:
		return "fan"
	case DeviceFanLED:
		return "fan_led"
	case DeviceLight:
		return "light"
	case DeviceLightLED:
		return "light_led"
	case DeviceBuzzer:
		return "buzzer"
	case DeviceAlarmLED:
		return "alarm_led"
	default:
		return fmt.Sprintf("device(%d)", int(d))
	}
}

// Outputs drives physical outputs in logical terms: on means energized,
// whatever the wiring polarity.
type Outputs interface {
	Set(d Device, on bool) error
}

// Controller applies an ActuatorState to the outputs and reports each change
// on the operator log.
type Controller struct {
	out Outputs
	log *slog.Logger
}

func NewController(out Outputs, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{out: out, log: logger}
}

func (c *Controller) Apply(s ActuatorState) error {
	return errors.Join(
		c.control("FAN", DeviceFan, s.FanOn, DeviceFanLED, s.FanLEDOn),
		c.control("LIGHT", DeviceLight, s.LightOn, DeviceLightLED, s.LightLEDOn),
		c.control("BUZZER", DeviceBuzzer, s.BuzzerOn, DeviceAlarmLED, s.AlarmLEDOn),
	)
}

// AllOff drives every output to its de-energized state.
func (c *Controller) AllOff() error {
	return c.Apply(ActuatorState{})
}

func (c *Controller) control(label string, dev Device, on bool, led Device, ledOn bool) error {
	var errs []error
	if err := c.out.Set(dev, on); err != nil {
		errs = append(errs, fmt.Errorf("set %s: %w", dev, err))
	}
	if err := c.out.Set(led, ledOn); err != nil {
		errs = append(errs, fmt.Errorf("set %s: %w", led, err))
	}
	c.log.Info(label + ": " + onOff(on))
	return errors.Join(errs...)
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
