package monitor

import (
	"errors"
	"fmt"
)

// Screen is a character display addressed by column and row.
type Screen interface {
	Clear() error
	SetCursor(col, row int) error
	Print(s string) error
}

const (
	statusCol = 15
	statusRow = 1
)

// Presenter renders readings and status onto a two-line screen.
type Presenter struct {
	screen Screen
}

func NewPresenter(screen Screen) *Presenter {
	return &Presenter{screen: screen}
}

func (p *Presenter) ShowReading(r Reading) error {
	return p.lines(
		fmt.Sprintf("T:%.1fC H:%.1f%%", r.Temperature, r.Humidity),
		fmt.Sprintf("Light: %d", r.Light),
	)
}

func (p *Presenter) ShowError() error {
	return p.lines("Sensor Error!", "No data sent")
}

// ShowUploadStatus writes a single glyph in the bottom-right cell and leaves
// the rest of the screen alone.
func (p *Presenter) ShowUploadStatus(ok bool) error {
	glyph := "X"
	if ok {
		glyph = "*"
	}
	if err := p.screen.SetCursor(statusCol, statusRow); err != nil {
		return fmt.Errorf("display cursor: %w", err)
	}
	if err := p.screen.Print(glyph); err != nil {
		return fmt.Errorf("display print: %w", err)
	}
	return nil
}

func (p *Presenter) ShowMessage(msg string) error {
	return p.lines(msg)
}

func (p *Presenter) lines(rows ...string) error {
	if err := p.screen.Clear(); err != nil {
		return fmt.Errorf("display clear: %w", err)
	}
	var errs []error
	for i, row := range rows {
		if err := p.screen.SetCursor(0, i); err != nil {
			errs = append(errs, fmt.Errorf("display cursor row %d: %w", i, err))
			continue
		}
		if err := p.screen.Print(row); err != nil {
			errs = append(errs, fmt.Errorf("display print row %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
