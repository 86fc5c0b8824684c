package hardware

import "fmt"

const (
	LCDCols = 16
	LCDRows = 2
)

// lcdDriver is the subset of gobot's JHD1313M1Driver used here.
type lcdDriver interface {
	Clear() error
	SetPosition(pos int) error
	Write(message string) error
}

// LCD exposes a 16x2 character display as a column/row Screen. Text that would
// run past the end of a row is cut at the edge.
type LCD struct {
	dev      lcdDriver
	col, row int
}

func NewLCD(dev lcdDriver) *LCD {
	return &LCD{dev: dev}
}

func (l *LCD) Clear() error {
	l.col, l.row = 0, 0
	return l.dev.Clear()
}

func (l *LCD) SetCursor(col, row int) error {
	if col < 0 || col >= LCDCols || row < 0 || row >= LCDRows {
		return fmt.Errorf("cursor (%d,%d) outside %dx%d display", col, row, LCDCols, LCDRows)
	}
	if err := l.dev.SetPosition(row*LCDCols + col); err != nil {
		return err
	}
	l.col, l.row = col, row
	return nil
}

func (l *LCD) Print(s string) error {
	runes := []rune(s)
	if room := LCDCols - l.col; len(runes) > room {
		runes = runes[:room]
	}
	if len(runes) == 0 {
		return nil
	}
	if err := l.dev.Write(string(runes)); err != nil {
		return err
	}
	l.col += len(runes)
	return nil
}
