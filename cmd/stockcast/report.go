package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/newthinker/stockcast/internal/api/response"
	"github.com/newthinker/stockcast/internal/chart"
	"github.com/newthinker/stockcast/internal/core"
	"github.com/newthinker/stockcast/internal/pipeline"
)

// Style definitions.
var (
	titleStyle         = lipgloss.NewStyle().Bold(true)
	sectionStyle       = lipgloss.NewStyle().Bold(true).Underline(true)
	stationaryStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(chart.ActualColor))
	nonStationaryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(chart.ForecastColor))
	errorStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(chart.ForecastColor))
	faintStyle         = lipgloss.NewStyle().Faint(true)
)

func writeReport(w io.Writer, res *pipeline.Result, tail int) error {
	q := res.Query
	fmt.Fprintln(w, titleStyle.Render(chart.ChartTitle(q.Ticker)))
	fmt.Fprintln(w, faintStyle.Render(fmt.Sprintf("%s to %s, %d trading days",
		q.Start.Format(core.DateLayout), q.End.Format(core.DateLayout), res.Series.Len())))
	fmt.Fprintln(w)

	style := nonStationaryStyle
	if res.Verdict.IsStationary {
		style = stationaryStyle
	}
	fmt.Fprintln(w, style.Render(chart.VerdictMessage(res.Verdict)))
	fmt.Fprintln(w, faintStyle.Render(verdictDetail(res.Verdict)))
	fmt.Fprintln(w)

	if res.Commentary != "" {
		fmt.Fprintln(w, res.Commentary)
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, sectionStyle.Render(chart.ForecastName))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Date\tPredicted Close\t")
	for _, p := range res.Forecast.Points {
		fmt.Fprintf(tw, "%s\t%.2f\t\n", p.Date.Format(core.DateLayout), p.PredictedClose)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, sectionStyle.Render("Historical Data"))
	rows := res.Table.Rows
	if tail > 0 && len(rows) > tail {
		fmt.Fprintln(w, faintStyle.Render(fmt.Sprintf("last %d of %d rows", tail, len(rows))))
		rows = rows[len(rows)-tail:]
	}
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(res.Table.Columns, "\t")+"\t")
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r.Cells(), "\t")+"\t")
	}
	return tw.Flush()
}

func verdictDetail(v core.StationarityVerdict) string {
	if v.Degenerate {
		return "ADF: series has no stochastic component, p-value 1"
	}
	levels := make([]string, 0, len(v.CriticalValues))
	for k := range v.CriticalValues {
		levels = append(levels, k)
	}
	sort.Strings(levels)
	crit := make([]string, len(levels))
	for i, k := range levels {
		crit[i] = fmt.Sprintf("%s %.3f", k, v.CriticalValues[k])
	}
	detail := fmt.Sprintf("ADF statistic %.4f, p-value %.4f, lags %d, nobs %d", v.Statistic, v.PValue, v.Lags, v.NObs)
	if len(crit) > 0 {
		detail += " (critical: " + strings.Join(crit, ", ") + ")"
	}
	return detail
}

func writeNoData(w io.Writer) {
	fmt.Fprintln(w, errorStyle.Render(chart.NoDataMessage))
}

func writeError(w io.Writer, err error) {
	d := response.Detail(err)
	msg := fmt.Sprintf("%s: %s", d.Code, d.Message)
	if d.Cause != "" {
		msg += " (" + d.Cause + ")"
	}
	fmt.Fprintln(w, errorStyle.Render(msg))
}
