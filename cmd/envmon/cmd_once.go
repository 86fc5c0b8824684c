package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"furitingoasis/envmon/internal/monitor"
)

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Boot, run a single cycle and switch everything off",
	RunE:  runOnce,
}

func init() {
	rootCmd.AddCommand(onceCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}

	rep, err := a.Once(cmd.Context())
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), rep)
	return nil
}

func printReport(w io.Writer, rep monitor.CycleReport) {
	if !rep.OK {
		fmt.Fprintln(w, "sensor error, nothing sent")
		return
	}
	s := rep.State
	fmt.Fprintln(w, rep.Reading)
	fmt.Fprintf(w, "fan=%s light=%s alarm=%s\n", onOff(s.FanOn), onOff(s.LightOn), onOff(s.BuzzerOn))
	fmt.Fprintf(w, "upload: %s\n", rep.Upload)
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
