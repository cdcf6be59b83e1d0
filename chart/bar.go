// Package chart renders the per-device engagement aggregate as an image.
package chart

import (
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/ezoic/adengage/aggregate"
	"github.com/ezoic/adengage/engagement"
	scigoErrors "github.com/ezoic/adengage/pkg/errors"
	"github.com/ezoic/adengage/pkg/log"
)

// DefaultPath is the chart file written when no path is configured.
const DefaultPath = "ads_by_device.png"

// Fixed chart text.
const (
	Title  = "Average Engagement with Ads by Device (" + engagement.ScaleDescription + ")"
	YLabel = "Average Engagement Score"
	XLabel = "Device"
)

type options struct {
	width    vg.Length
	height   vg.Length
	barWidth vg.Length
}

// Option configures RenderBar.
type Option func(*options)

// WithSize sets the image size.
func WithSize(width, height vg.Length) Option {
	return func(o *options) {
		o.width = width
		o.height = height
	}
}

// WithBarWidth sets the width of each bar.
func WithBarWidth(w vg.Length) Option {
	return func(o *options) {
		o.barWidth = w
	}
}

// RenderBar draws one vertical bar per device, in the order given, and writes
// the chart to outPath, replacing any existing file. The image format follows
// the file extension (.png, .svg, .pdf, ...).
//
// Failures, including an empty aggregate or an unwritable path, are returned
// as *errors.RenderError.
func RenderBar(means aggregate.DeviceMeans, outPath string, opts ...Option) (err error) {
	defer scigoErrors.Recover(&err, "chart.RenderBar")
	start := time.Now()

	o := &options{
		width:    6.4 * vg.Inch,
		height:   4.8 * vg.Inch,
		barWidth: vg.Points(40),
	}
	for _, opt := range opts {
		opt(o)
	}

	if len(means) == 0 {
		return scigoErrors.NewRenderError(outPath, scigoErrors.ErrEmptyData)
	}

	p := plot.New()
	p.Title.Text = Title
	p.X.Label.Text = XLabel
	p.Y.Label.Text = YLabel

	bars, err := plotter.NewBarChart(plotter.Values(means.Values()), o.barWidth)
	if err != nil {
		return scigoErrors.NewRenderError(outPath, err)
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(means.Labels()...)

	p.Y.Min = float64(engagement.None.Score())
	p.Y.Max = float64(engagement.High.Score())

	if err := p.Save(o.width, o.height, outPath); err != nil {
		return scigoErrors.NewRenderError(outPath, err)
	}

	log.GetLoggerWithName("chart").Info("Chart written",
		log.OperationKey, log.OperationRender,
		log.PathKey, outPath,
		log.GroupsKey, len(means),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}
