package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"

	"github.com/Dhruv-80/context-watch/internal/bench"
	"github.com/Dhruv-80/context-watch/internal/inference"
	"github.com/Dhruv-80/context-watch/internal/monitor"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)
	oddRowStyle = lipgloss.NewStyle().Faint(false).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Faint(true).
			PaddingLeft(1).PaddingRight(1)
)

func newReportTable(headers ...string) *lgtable.Table {
	t := lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row < 0 {
				return headerStyle
			}
			if row%2 == 0 {
				return oddRowStyle
			}
			return evenRowStyle
		})
	if len(headers) > 0 {
		t.Headers(headers...)
	}
	return t
}

func renderRunReport(res *inference.Result) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Run report"))
	b.WriteByte('\n')

	t := newReportTable()
	t.Row("stop reason", string(res.StopReason))
	t.Row("tokens", fmt.Sprintf("%s prompt + %s generated = %s",
		humanize.Comma(int64(res.PromptTokens)),
		humanize.Comma(int64(res.GeneratedTokens)),
		humanize.Comma(int64(res.TotalTokens))))
	t.Row("duration", res.Duration.Round(time.Millisecond).String())
	t.Row("throughput", fmt.Sprintf("%.2f tok/s", res.TokensPerSecond))
	t.Row("ttft", fmtDur(res.Latency.TTFT))
	t.Row("last step", fmtDur(res.Latency.LastStep))
	t.Row(fmt.Sprintf("rolling avg (last %d)", res.Latency.RollingWindow), fmtDur(res.Latency.RollingAvg))
	t.Row("latency trend", fmtTrend(res.Latency.TrendMSPer100Tokens))
	t.Row("context", fmt.Sprintf("%d/%d (%.1f%%), %d remaining",
		res.Context.Used, res.Context.Max, res.Context.PercentUsed, res.Context.Remaining))
	if res.Context.Warned {
		t.Row("context warning", fmt.Sprintf("crossed %.0f%% threshold", res.Context.WarnThresholdPct))
	}
	t.Row("memory baseline", fmtBytes(res.Memory.BaselineBytes))
	t.Row("memory peak", fmtBytes(res.Memory.PeakBytes))
	t.Row("memory growth", fmtGrowth(res.Memory))
	b.WriteString(t.Render())
	return b.String()
}

func renderBenchReport(rep bench.Report) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Bench report"))
	b.WriteByte('\n')
	b.WriteString(fmt.Sprintf("runs: %d   tokens generated: %s   stop reasons: %s\n",
		rep.Runs, humanize.Comma(int64(rep.TokensGenerated)), fmtStopReasons(rep.StopReasons)))

	t := newReportTable("metric", "min", "median", "mean", "p95", "max")
	t.Row(durationRow("ttft", rep.TTFT)...)
	t.Row(durationRow("step latency", rep.StepLatency)...)
	t.Row(durationRow("run duration", rep.RunDuration)...)
	t.Row(floatRow("tokens/sec", rep.TokensPerSecond, func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	})...)
	t.Row(floatRow("memory growth", rep.MemoryGrowth, func(v float64) string {
		return fmtBytes(int64(v))
	})...)
	b.WriteString(t.Render())
	return b.String()
}

func durationRow(name string, s bench.DurationStats) []string {
	f := func(d time.Duration) string {
		return d.Round(time.Microsecond).String()
	}
	return []string{name, f(s.Min), f(s.Median), f(s.Mean), f(s.P95), f(s.Max)}
}

func floatRow(name string, s bench.FloatStats, f func(float64) string) []string {
	return []string{name, f(s.Min), f(s.Median), f(s.Mean), f(s.P95), f(s.Max)}
}

func fmtDur(d *time.Duration) string {
	if d == nil {
		return "n/a"
	}
	return d.Round(time.Microsecond).String()
}

func fmtTrend(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f ms/100tok", *v)
}

func fmtBytes(v int64) string {
	if v < 0 {
		return "-" + humanize.IBytes(uint64(-v))
	}
	return humanize.IBytes(uint64(v))
}

func fmtGrowth(mem monitor.MemorySummary) string {
	s := fmtBytes(mem.GrowthBytes)
	if mem.AvgPerTokenBytes != nil {
		s += fmt.Sprintf(" (%s/token)", fmtBytes(int64(*mem.AvgPerTokenBytes)))
	}
	return s
}

func fmtStopReasons(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := slices.Sorted(maps.Keys(m))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%d", k, m[k]))
	}
	return strings.Join(parts, " ")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
