package monitor

import (
	"context"
	"log/slog"
	"strconv"
	"time"
)

// Decimal encodes as a JSON number with exactly two fractional digits.
type Decimal float64

func (d Decimal) MarshalJSON() ([]byte, error) {
	return strconv.AppendFloat(nil, float64(d), 'f', 2, 64), nil
}

// UploadRecord is the wire record expected by the remote collector. Field names
// are fixed by the collector's schema, alram_led included.
type UploadRecord struct {
	Temperature    Decimal `json:"temperature"`
	Humidity       Decimal `json:"humidity"`
	LightIntensity Decimal `json:"light_intensity"`
	Fan            bool    `json:"fan"`
	FanLED         bool    `json:"fan_led"`
	Light          bool    `json:"light"`
	LightLED       bool    `json:"light_led"`
	AlarmLED       bool    `json:"alram_led"`
	Buzzer         bool    `json:"buzzer"`
}

func NewUploadRecord(r Reading, s ActuatorState) UploadRecord {
	return UploadRecord{
		Temperature:    Decimal(r.Temperature),
		Humidity:       Decimal(r.Humidity),
		LightIntensity: Decimal(r.Light),
		Fan:            s.FanOn,
		FanLED:         s.FanLEDOn,
		Light:          s.LightOn,
		LightLED:       s.LightLEDOn,
		AlarmLED:       s.AlarmLEDOn,
		Buzzer:         s.BuzzerOn,
	}
}

// Poster submits a record to the remote endpoint. Implementations bound their
// own wait time.
type Poster interface {
	PostRecord(ctx context.Context, rec UploadRecord) error
}

type UploadResult int

const (
	NotAttempted UploadResult = iota
	Sent
	Failed
)

func (r UploadResult) String() string {
	switch r {
	case Sent:
		return "sent"
	case Failed:
		return "failed"
	default:
		return "not attempted"
	}
}

// Due reports whether an upload may go out at now. A zero last means nothing
// has been sent yet.
func Due(now, last time.Time, interval time.Duration) bool {
	if last.IsZero() {
		return true
	}
	return now.Sub(last) >= interval
}

type Uploader struct {
	poster   Poster
	interval time.Duration
	log      *slog.Logger
}

func NewUploader(p Poster, interval time.Duration, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{poster: p, interval: interval, log: logger}
}

// MaybeSend posts a record when the interval since last has elapsed and returns
// the outcome with the send time to carry into the next call. The returned time
// advances on failure too; a failed upload waits for the next interval.
func (u *Uploader) MaybeSend(ctx context.Context, now, last time.Time, r Reading, s ActuatorState) (UploadResult, time.Time) {
	if !Due(now, last, u.interval) {
		return NotAttempted, last
	}

	if err := u.poster.PostRecord(ctx, NewUploadRecord(r, s)); err != nil {
		u.log.Warn("failed to send data to server", "error", err)
		return Failed, now
	}
	u.log.Info("data sent to server")
	return Sent, now
}
