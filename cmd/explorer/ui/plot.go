package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"policyexplorer/internal/chart"

	"github.com/charmbracelet/lipgloss"
)

// plotCache holds rendered age charts; plots are recomputed only when the
// figure or the width changes.
var plotCache = NewRenderCache(32)

// RenderPlot draws the first series of fig as horizontal bars, one row per
// x label, scaled to width. Negative values draw in the loss style.
func RenderPlot(fig chart.Figure, width int, styles Styles) string {
	bars := fig.Bars()
	key := plotKey(fig, bars, width, styles.Theme.Name)
	return plotCache.GetOrCompute(key, func() string {
		return renderPlot(fig, bars, width, styles)
	})
}

func plotKey(fig chart.Figure, bars []chart.Bar, width int, theme string) uint64 {
	inputs := make([]interface{}, 0, 4+len(bars)*2)
	inputs = append(inputs, width, theme, string(fig.Layout.Title), fig.Layout.YAxis.TickFormat)
	for _, b := range bars {
		inputs = append(inputs, b.Label, b.Value)
	}
	return ComputeKey(inputs...)
}

func renderPlot(fig chart.Figure, bars []chart.Bar, width int, styles Styles) string {
	if len(bars) == 0 {
		return styles.Muted.Render("No data to plot.")
	}

	percent := fig.Percent()
	labelW, valueW := 0, 0
	values := make([]string, len(bars))
	maxAbs := 0.0
	hasNeg, hasPos := false, false
	for i, b := range bars {
		labelW = max(labelW, lipgloss.Width(b.Label))
		values[i] = formatPlotValue(b.Value, percent)
		valueW = max(valueW, len(values[i]))
		maxAbs = math.Max(maxAbs, math.Abs(b.Value))
		hasNeg = hasNeg || b.Value < 0
		hasPos = hasPos || b.Value > 0
	}

	barSpace := max(width-labelW-valueW-3, 4)
	negW, posW := 0, barSpace
	if hasNeg && hasPos {
		negW = barSpace / 2
		posW = barSpace - negW
	} else if hasNeg {
		negW, posW = barSpace, 0
	}

	var sb strings.Builder
	if title := string(fig.Layout.Title); title != "" {
		sb.WriteString(styles.Bold.Render(title))
		sb.WriteString("\n")
	}
	for i, b := range bars {
		n := 0
		if maxAbs > 0 {
			room := posW
			if b.Value < 0 {
				room = negW
			}
			n = int(math.Round(math.Abs(b.Value) / maxAbs * float64(room)))
		}
		left := strings.Repeat(" ", negW)
		right := strings.Repeat(" ", posW)
		if b.Value < 0 {
			left = strings.Repeat(" ", negW-n) + styles.Loss.Render(strings.Repeat("█", n))
		} else if b.Value > 0 {
			right = styles.Gain.Render(strings.Repeat("█", n)) + strings.Repeat(" ", posW-n)
		}
		axis := ""
		if hasNeg && hasPos {
			axis = styles.Muted.Render("│")
		}
		fmt.Fprintf(&sb, "%*s %s%s%s %*s\n", labelW, b.Label, left, axis, right, valueW, values[i])
	}
	if xt := string(fig.Layout.XAxis.Title); xt != "" {
		sb.WriteString(styles.Muted.Render(xt))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatPlotValue(v float64, percent bool) string {
	if percent {
		return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
	}
	if math.Abs(v) >= 1000 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
