package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderChart writes the interactive trend page: one line-and-marker series
// per metric over the full history, x-axis capture time, y-axis count. The
// chart ID is fixed per variant so identical inputs render identical HTML.
func RenderChart(v Variant, history []MetricRecord, cfg RenderConfig, now time.Time) (string, error) {
	filename := fmt.Sprintf("%s_trend_%s.html", v.FilePrefix, now.Format("20060102_150405"))
	path := filepath.Join(cfg.OutputDir, filename)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID:   v.FilePrefix + "-trend",
			PageTitle: v.Title + " Trends",
			Width:     "1100px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{Title: v.Title + " Trends"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Count"}),
	)

	x := make([]string, 0, len(history))
	for _, rec := range history {
		x = append(x, rec.CapturedAt.Format("2006-01-02 15:04"))
	}
	line.SetXAxis(x)

	for _, key := range MetricKeys {
		data := make([]opts.LineData, 0, len(history))
		for _, rec := range history {
			data = append(data, opts.LineData{Value: rec.Get(key)})
		}
		line.AddSeries(MetricLabel(key), data)
	}
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	if err := line.Render(f); err != nil {
		return "", fmt.Errorf("render chart: %w", err)
	}
	return path, nil
}
