package monitor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeEnv struct {
	temp, hum       float64
	tempErr, humErr error
}

func (f *fakeEnv) Humidity() (float64, error)    { return f.hum, f.humErr }
func (f *fakeEnv) Temperature() (float64, error) { return f.temp, f.tempErr }

type fakeADC struct {
	value int
	err   error
	pins  []string
}

func (f *fakeADC) AnalogRead(pin string) (int, error) {
	f.pins = append(f.pins, pin)
	return f.value, f.err
}

type fakeOutputs struct {
	state map[Device]bool
	calls int
	err   error
}

func newFakeOutputs() *fakeOutputs {
	return &fakeOutputs{state: map[Device]bool{}}
}

func (f *fakeOutputs) Set(d Device, on bool) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.state[d] = on
	return nil
}

type screenOp struct {
	op       string
	col, row int
	text     string
}

type fakeScreen struct {
	ops []screenOp
	err error
}

func (f *fakeScreen) Clear() error {
	f.ops = append(f.ops, screenOp{op: "clear"})
	return f.err
}

func (f *fakeScreen) SetCursor(col, row int) error {
	f.ops = append(f.ops, screenOp{op: "cursor", col: col, row: row})
	return f.err
}

func (f *fakeScreen) Print(s string) error {
	f.ops = append(f.ops, screenOp{op: "print", text: s})
	return f.err
}

func (f *fakeScreen) printed() []string {
	var out []string
	for _, op := range f.ops {
		if op.op == "print" {
			out = append(out, op.text)
		}
	}
	return out
}

type fakePoster struct {
	records []UploadRecord
	err     error
}

func (f *fakePoster) PostRecord(_ context.Context, rec UploadRecord) error {
	f.records = append(f.records, rec)
	return f.err
}

type fakeConnector struct {
	calls int
	err   error
}

func (f *fakeConnector) Connect(context.Context) error {
	f.calls++
	return f.err
}

type fakeAlerter struct {
	msgs []string
}

func (f *fakeAlerter) Alert(_ context.Context, msg string) error {
	f.msgs = append(f.msgs, msg)
	return nil
}

// fakeClock advances by step on every call.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

type rig struct {
	env     *fakeEnv
	adc     *fakeADC
	outputs *fakeOutputs
	screen  *fakeScreen
	poster  *fakePoster
	conn    *fakeConnector
	alerter *fakeAlerter
	clock   *fakeClock
	loop    *Loop
}

func newRig(temp, hum float64, light int, clockStep, sendInterval time.Duration) *rig {
	r := &rig{
		env:     &fakeEnv{temp: temp, hum: hum},
		adc:     &fakeADC{value: light},
		outputs: newFakeOutputs(),
		screen:  &fakeScreen{},
		poster:  &fakePoster{},
		conn:    &fakeConnector{},
		alerter: &fakeAlerter{},
		clock:   &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), step: clockStep},
	}
	log := discardLogger()
	r.loop = NewLoop(Deps{
		Sensor:     NewSensorReader(r.env, r.adc, SensorOptions{MaxLight: 4095, Logger: log}),
		Display:    NewPresenter(r.screen),
		Actuators:  NewController(r.outputs, log),
		Uploader:   NewUploader(r.poster, sendInterval, log),
		Thresholds: DefaultThresholds(),
		Interval:   time.Millisecond,
		Connector:  r.conn,
		Alerter:    r.alerter,
		Now:        r.clock.Now,
		Logger:     log,
	})
	return r
}

func nan() float64 { return math.NaN() }

var errBus = fmt.Errorf("i2c bus error")
