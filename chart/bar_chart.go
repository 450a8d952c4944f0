package chart

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"bike-counter/models"
)

const (
	DefaultWidth  = 700
	DefaultHeight = 400
	DefaultTitle  = "Fremont Bridge bike rides per hour"

	barPadding  = 5
	yAxisBuffer = 0.1
)

// Margins of the plot area in pixels.
type Margins struct {
	Top, Right, Bottom, Left int
}

// DefaultMargins leaves room for the axis labels.
var DefaultMargins = Margins{Top: 40, Right: 60, Bottom: 40, Left: 40}

// Band classifies a bar by where its value falls between zero and the month's maximum.
type Band string

const (
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

var bandColors = map[Band]string{
	BandLow:    "#5cb85c",
	BandMedium: "#f0ad4e",
	BandHigh:   "#d9534f",
}

// Color returns the fill color of the band.
func (b Band) Color() string {
	return bandColors[b]
}

// Bar is one hour of the month.
type Bar struct {
	Hour  int
	Value int
	Band  Band
}

// BarChart draws the monthly totals per hour of day. The scaffolding is fixed
// at construction; Update replaces the data.
type BarChart struct {
	width   int
	height  int
	margins Margins
	title   string

	subtitle string
	bars     []Bar
	yMax     float64
}

// Option configures a BarChart.
type Option func(*BarChart)

// WithSize overrides the canvas size in pixels.
func WithSize(width, height int) Option {
	return func(c *BarChart) {
		c.width = width
		c.height = height
	}
}

// WithMargins overrides the plot margins.
func WithMargins(m Margins) Option {
	return func(c *BarChart) {
		c.margins = m
	}
}

// WithTitle overrides the chart title.
func WithTitle(title string) Option {
	return func(c *BarChart) {
		c.title = title
	}
}

// NewBarChart builds an empty chart with 24 zero bars.
func NewBarChart(options ...Option) *BarChart {
	c := &BarChart{
		width:   DefaultWidth,
		height:  DefaultHeight,
		margins: DefaultMargins,
		title:   DefaultTitle,
	}
	for _, o := range options {
		o(c)
	}
	c.Update(models.AggregationResult{})
	return c
}

// Update rescales the y axis to the largest hourly total plus 10% and
// recolors every bar.
func (c *BarChart) Update(result models.AggregationResult) {
	highest := result.MaxHourlyTotal()
	c.yMax = float64(highest) + float64(highest)*yAxisBuffer

	c.bars = make([]Bar, models.HoursPerDay)
	for hour, v := range result.HourlyTotals {
		c.bars[hour] = Bar{Hour: hour, Value: v, Band: ColorBand(v, highest)}
	}
}

// SetSubtitle sets the line shown under the title, typically the month shown.
func (c *BarChart) SetSubtitle(s string) {
	c.subtitle = s
}

// Bars returns a copy of the current bars, ordered by hour.
func (c *BarChart) Bars() []Bar {
	out := make([]Bar, len(c.bars))
	copy(out, c.bars)
	return out
}

// YMax is the top of the y axis domain.
func (c *BarChart) YMax() float64 {
	return c.yMax
}

// Render writes a standalone HTML page with the chart.
func (c *BarChart) Render(w io.Writer) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: c.title,
			Width:     fmt.Sprintf("%dpx", c.width),
			Height:    fmt.Sprintf("%dpx", c.height),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    c.title,
			Subtitle: c.subtitle,
		}),
		charts.WithGridOpts(opts.Grid{
			Top:    strconv.Itoa(c.margins.Top),
			Right:  strconv.Itoa(c.margins.Right),
			Bottom: strconv.Itoa(c.margins.Bottom),
			Left:   strconv.Itoa(c.margins.Left),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "item",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Hour (UTC)",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Rides",
			Min:  0,
			Max:  c.yMax,
		}),
	)

	hours := make([]string, len(c.bars))
	data := make([]opts.BarData, len(c.bars))
	for i, b := range c.bars {
		hours[i] = strconv.Itoa(b.Hour)
		data[i] = opts.BarData{
			Name:      hours[i],
			Value:     b.Value,
			ItemStyle: &opts.ItemStyle{Color: b.Band.Color()},
		}
	}

	bar.SetXAxis(hours).
		AddSeries("Rides", data, charts.WithBarChartOpts(opts.BarChart{
			BarCategoryGap: strconv.Itoa(barPadding),
		}))

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// ColorBand splits [0, max] into thirds: values up to a third are low, up to
// two thirds medium, the rest high.
func ColorBand(value, max int) Band {
	third := float64(max) / 3
	v := float64(value)
	switch {
	case v <= third:
		return BandLow
	case v <= third*2:
		return BandMedium
	default:
		return BandHigh
	}
}
