package hardware

import (
	"fmt"
	"log/slog"

	"gobot.io/x/gobot/v2"
	"gobot.io/x/gobot/v2/drivers/gpio"
	"gobot.io/x/gobot/v2/drivers/i2c"
	"gobot.io/x/gobot/v2/platforms/raspi"

	"furitingoasis/envmon/internal/config"
	"furitingoasis/envmon/internal/monitor"
)

// Board is the Raspberry Pi with every peripheral the controller drives:
// SHT2x climate sensor, ADS1015 ADC for the light sensor, JHD1313M1 LCD,
// two relays, a buzzer and three indicator LEDs.
type Board struct {
	robot *gobot.Robot

	sht2x *i2c.SHT2xDriver
	adc   *i2c.ADS1x15Driver
	lcd   *i2c.JHD1313M1Driver

	adcBits int
	outputs *Outputs
	log     *slog.Logger
}

func NewBoard(cfg config.Config, logger *slog.Logger) *Board {
	r := raspi.NewAdaptor()

	sht2x := i2c.NewSHT2xDriver(r)
	adc := i2c.NewADS1015Driver(r)
	lcd := i2c.NewJHD1313M1Driver(r)

	fanRelay := NewRelay(r, cfg.Pins.FanRelay, cfg.RelayActiveLow)
	lightRelay := NewRelay(r, cfg.Pins.LightRelay, cfg.RelayActiveLow)
	buzzer := gpio.NewBuzzerDriver(r, cfg.Pins.Buzzer)
	fanLED := gpio.NewLedDriver(r, cfg.Pins.FanLED)
	lightLED := gpio.NewLedDriver(r, cfg.Pins.LightLED)
	alarmLED := gpio.NewLedDriver(r, cfg.Pins.AlarmLED)

	outputs := NewOutputs().
		Attach(monitor.DeviceFan, fanRelay).
		Attach(monitor.DeviceLight, lightRelay).
		Attach(monitor.DeviceBuzzer, buzzer).
		Attach(monitor.DeviceFanLED, fanLED).
		Attach(monitor.DeviceLightLED, lightLED).
		Attach(monitor.DeviceAlarmLED, alarmLED)

	robot := gobot.NewRobot("EnvironmentMonitor",
		[]gobot.Connection{r},
		[]gobot.Device{sht2x, adc, lcd, fanRelay, lightRelay, buzzer, fanLED, lightLED, alarmLED},
	)

	return &Board{
		robot:   robot,
		sht2x:   sht2x,
		adc:     adc,
		lcd:     lcd,
		adcBits: cfg.ADCBits,
		outputs: outputs,
		log:     logger,
	}
}

// Start connects the adaptor and starts every driver without blocking.
func (b *Board) Start() error {
	if err := b.robot.Start(false); err != nil {
		return fmt.Errorf("start board: %w", err)
	}
	b.log.Info("hardware initialized",
		"sensor", b.sht2x.Name(),
		"adc", b.adc.Name(),
		"display", b.lcd.Name(),
	)
	return nil
}

func (b *Board) Halt() error {
	if err := b.robot.Stop(); err != nil {
		return fmt.Errorf("halt board: %w", err)
	}
	return nil
}

func (b *Board) Climate() *Climate { return NewClimate(b.sht2x) }

// Light returns the ADC scaled to the configured resolution. It reads the
// channel given as pin "0".."3".
func (b *Board) Light() monitor.AnalogReader { return NewLight(b.adc, b.adcBits) }

func (b *Board) Screen() *LCD { return NewLCD(b.lcd) }

func (b *Board) Outputs() *Outputs { return b.outputs }
