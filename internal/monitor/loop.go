package monitor

import (
	"context"
	"log/slog"
	"time"
)

// Connector is implemented by transports that can be brought up ahead of the
// first upload.
type Connector interface {
	Connect(ctx context.Context) error
}

// Alerter receives a short notice when a cycle is skipped.
type Alerter interface {
	Alert(ctx context.Context, msg string) error
}

type Deps struct {
	Sensor     *SensorReader
	Display    *Presenter
	Actuators  *Controller
	Uploader   *Uploader
	Thresholds Thresholds

	// Interval is the pause after every cycle.
	Interval  time.Duration
	Connector Connector
	Alerter   Alerter
	Now       func() time.Time
	Logger    *slog.Logger
}

// CycleReport describes what one cycle saw and did.
type CycleReport struct {
	Reading Reading
	OK      bool
	State   ActuatorState
	Upload  UploadResult
}

// Loop is the control loop. It is not safe for concurrent use; exactly one
// goroutine owns it.
type Loop struct {
	sensor     *SensorReader
	display    *Presenter
	actuators  *Controller
	uploader   *Uploader
	thresholds Thresholds
	interval   time.Duration
	connector  Connector
	alerter    Alerter
	now        func() time.Time
	log        *slog.Logger

	lastSend time.Time
}

func NewLoop(d Deps) *Loop {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Interval <= 0 {
		d.Interval = 2 * time.Second
	}
	return &Loop{
		sensor:     d.Sensor,
		display:    d.Display,
		actuators:  d.Actuators,
		uploader:   d.Uploader,
		thresholds: d.Thresholds,
		interval:   d.Interval,
		connector:  d.Connector,
		alerter:    d.Alerter,
		now:        d.Now,
		log:        d.Logger,
	}
}

// Boot puts every output into its safe state, brings the transport up and
// announces readiness. Nothing here is fatal.
func (l *Loop) Boot(ctx context.Context) {
	l.Reset()
	if l.connector != nil {
		if err := l.connector.Connect(ctx); err != nil {
			l.log.Warn("network connect failed, continuing offline", "error", err)
		} else {
			l.log.Info("network connected")
		}
	}
	l.logDisplay(l.display.ShowMessage("System Ready"))
	l.log.Info("system ready")
}

// Cycle runs one sense-decide-act-report pass. A failed reading skips actuation
// and upload entirely.
func (l *Loop) Cycle(ctx context.Context) CycleReport {
	reading, err := l.sensor.Read()
	if err != nil {
		l.log.Warn("sensor read failed, not sending data to server", "error", err)
		if l.alerter != nil {
			if aerr := l.alerter.Alert(ctx, "sensor read failed: "+err.Error()); aerr != nil {
				l.log.Warn("failed to send alert", "error", aerr)
			}
		}
		l.logDisplay(l.display.ShowError())
		return CycleReport{}
	}

	l.logDisplay(l.display.ShowReading(reading))
	l.log.Info(reading.String())

	state := Decide(l.thresholds, reading)
	if err := l.actuators.Apply(state); err != nil {
		l.log.Error("failed to drive outputs", "error", err)
	}

	result, last := l.uploader.MaybeSend(ctx, l.now(), l.lastSend, reading, state)
	l.lastSend = last
	if result != NotAttempted {
		l.logDisplay(l.display.ShowUploadStatus(result == Sent))
	}

	return CycleReport{Reading: reading, OK: true, State: state, Upload: result}
}

// Run boots, then cycles until ctx is done, pausing Interval after each cycle.
// Outputs are switched off on the way out.
func (l *Loop) Run(ctx context.Context) error {
	l.Boot(ctx)
	defer l.Reset()

	timer := time.NewTimer(l.interval)
	defer timer.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.Cycle(ctx)

		timer.Reset(l.interval)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Reset switches every output off.
func (l *Loop) Reset() {
	if err := l.actuators.AllOff(); err != nil {
		l.log.Error("failed to reset outputs", "error", err)
	}
}

func (l *Loop) logDisplay(err error) {
	if err != nil {
		l.log.Warn("display update failed", "error", err)
	}
}
