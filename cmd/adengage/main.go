// Command adengage runs the ad-engagement analysis on a consumer behaviour CSV:
// it prints dataset diagnostics, writes a per-device engagement chart and
// trains a classifier predicting High engagement from the shopping device.
//
// Usage:
//
//	adengage [--input data.csv] [--chart out.png] [--config adengage.yaml]
//
// With no flags the defaults are used. The exit status is 1 when the input
// cannot be loaded or the chart cannot be written.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
