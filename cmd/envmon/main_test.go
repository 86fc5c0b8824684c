package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"furitingoasis/envmon/internal/monitor"
)

type fakeRunner struct {
	runErr  error
	report  monitor.CycleReport
	onceErr error
}

func (f *fakeRunner) Run(context.Context) error { return f.runErr }

func (f *fakeRunner) Once(context.Context) (monitor.CycleReport, error) {
	return f.report, f.onceErr
}

func stubSetup(t *testing.T, r runner, err error) {
	t.Helper()
	orig := setup
	setup = func() (runner, error) { return r, err }
	t.Cleanup(func() { setup = orig })
}

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(&out)
	return cmd, &out
}

func TestRunLoop(t *testing.T) {
	boom := errors.New("i2c bus gone")
	tests := []struct {
		name    string
		runErr  error
		wantErr error
	}{
		{name: "cancelled is a clean exit", runErr: context.Canceled},
		{name: "nil", runErr: nil},
		{name: "failure surfaces", runErr: boom, wantErr: boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubSetup(t, &fakeRunner{runErr: tt.runErr}, nil)
			cmd, _ := newTestCmd()

			err := runLoop(cmd, nil)
			if !errors.Is(err, tt.wantErr) || (tt.wantErr == nil && err != nil) {
				t.Errorf("runLoop() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunLoop_SetupError(t *testing.T) {
	cfgErr := errors.New("config error: invalid ADC_BITS")
	stubSetup(t, nil, cfgErr)
	cmd, _ := newTestCmd()

	if err := runLoop(cmd, nil); !errors.Is(err, cfgErr) {
		t.Errorf("runLoop() error = %v, want %v", err, cfgErr)
	}
}

func TestRunOnce_Report(t *testing.T) {
	tests := []struct {
		name   string
		report monitor.CycleReport
		want   []string
	}{
		{
			name: "hot humid dark",
			report: monitor.CycleReport{
				Reading: monitor.Reading{Temperature: 32, Humidity: 75, Light: 200},
				OK:      true,
				State:   monitor.Decide(monitor.DefaultThresholds(), monitor.Reading{Temperature: 32, Humidity: 75, Light: 200}),
				Upload:  monitor.Sent,
			},
			want: []string{
				"Temp: 32.0°C, Humidity: 75.0%, Light: 200",
				"fan=ON light=ON alarm=ON",
				"upload: sent",
			},
		},
		{
			name: "mild bright",
			report: monitor.CycleReport{
				Reading: monitor.Reading{Temperature: 25, Humidity: 40, Light: 800},
				OK:      true,
				Upload:  monitor.Failed,
			},
			want: []string{
				"fan=OFF light=OFF alarm=OFF",
				"upload: failed",
			},
		},
		{
			name:   "sensor failure",
			report: monitor.CycleReport{},
			want:   []string{"sensor error, nothing sent"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubSetup(t, &fakeRunner{report: tt.report}, nil)
			cmd, out := newTestCmd()

			if err := runOnce(cmd, nil); err != nil {
				t.Fatalf("runOnce() error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output missing %q:\n%s", w, out.String())
				}
			}
		})
	}
}

func TestRunOnce_Error(t *testing.T) {
	startErr := errors.New("start board: no i2c bus")
	stubSetup(t, &fakeRunner{onceErr: startErr}, nil)
	cmd, out := newTestCmd()

	if err := runOnce(cmd, nil); !errors.Is(err, startErr) {
		t.Errorf("runOnce() error = %v, want %v", err, startErr)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	versionCmd.Run(versionCmd, nil)

	if got := out.String(); got != "envmon dev\n" {
		t.Errorf("version output = %q, want %q", got, "envmon dev\n")
	}
}
