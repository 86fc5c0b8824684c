package hardware

import (
	"fmt"

	"gobot.io/x/gobot/v2/drivers/gpio"

	"furitingoasis/envmon/internal/monitor"
)

// Switch is a two-state digital output. gobot's RelayDriver, LedDriver and
// BuzzerDriver all satisfy it.
type Switch interface {
	On() error
	Off() error
}

// Outputs maps logical devices to their drivers.
type Outputs struct {
	pins map[monitor.Device]Switch
}

func NewOutputs() *Outputs {
	return &Outputs{pins: make(map[monitor.Device]Switch)}
}

// Attach binds a device to a switch. Attaching the same device twice replaces it.
func (o *Outputs) Attach(d monitor.Device, sw Switch) *Outputs {
	o.pins[d] = sw
	return o
}

func (o *Outputs) Set(d monitor.Device, on bool) error {
	sw, ok := o.pins[d]
	if !ok {
		return fmt.Errorf("no output attached for %s", d)
	}
	if on {
		return sw.On()
	}
	return sw.Off()
}

// NewRelay builds a relay driver on pin. An active-low relay board is energized
// by a low pin, so it gets gobot's inverted relay and On() still means energized.
func NewRelay(w gpio.DigitalWriter, pin string, activeLow bool) *gpio.RelayDriver {
	var opts []interface{}
	if activeLow {
		opts = append(opts, gpio.WithRelayInverted())
	}
	return gpio.NewRelayDriver(w, pin, opts...)
}
