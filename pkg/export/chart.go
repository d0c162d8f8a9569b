package export

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ferro-gianluca-29/microgrid-simulator/core/model"
)

// WriteChartHTML renders SoC, SOH and battery power over the run as an HTML
// line chart.
func WriteChartHTML(w io.Writer, results []model.StepResult) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Microgrid simulation"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Fraction / kW"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	var xAxis []string
	var soc, soh, power []opts.LineData
	for _, r := range results {
		xAxis = append(xAxis, r.Time.Format("2006-01-02 15:04"))
		soc = append(soc, opts.LineData{Value: r.SoC})
		soh = append(soh, opts.LineData{Value: r.SoH})
		power = append(power, opts.LineData{Value: r.DeliveredKW})
	}

	line.SetXAxis(xAxis).
		AddSeries("SoC", soc).
		AddSeries("SOH", soh).
		AddSeries("Battery power [kW]", power)

	return line.Render(w)
}
