package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/christopherklint97/daylog/internal/report"
)

// segmentWidths scales each segment to width cells. Segments with any time
// get at least one cell; the total never exceeds width.
func segmentWidths(bar report.StackBar, width int) []int {
	widths := make([]int, len(bar.Segments))
	if bar.DisplayMaxSeconds <= 0 || width <= 0 {
		return widths
	}
	used := 0
	var acc int64
	for i, seg := range bar.Segments {
		acc += seg.Seconds
		end := int(acc * int64(width) / bar.DisplayMaxSeconds)
		w := end - used
		if w < 1 && seg.Seconds > 0 {
			w = 1
		}
		if used+w > width {
			w = width - used
		}
		widths[i] = w
		used += w
	}
	return widths
}

func renderStackBar(bar report.StackBar, width int) string {
	var b strings.Builder
	used := 0
	for i, w := range segmentWidths(bar, width) {
		if w <= 0 {
			continue
		}
		style := lipgloss.NewStyle().Background(lipgloss.Color(bar.Segments[i].Color))
		b.WriteString(style.Render(strings.Repeat(" ", w)))
		used += w
	}
	if used < width {
		b.WriteString(dimStyle.Render(strings.Repeat("·", width-used)))
	}
	b.WriteString("\n")
	b.WriteString(renderHourMarkers(bar, width))
	return b.String()
}

// renderHourMarkers labels the hour ticks below the bar, skipping labels that
// would overlap.
func renderHourMarkers(bar report.StackBar, width int) string {
	if bar.DisplayMaxSeconds <= 0 || width <= 0 {
		return ""
	}
	line := []rune(strings.Repeat(" ", width+3))
	next := 0
	for _, h := range bar.HourMarkers {
		pos := int(int64(h) * 3600 * int64(width) / bar.DisplayMaxSeconds)
		if pos > width || pos < next {
			continue
		}
		label := []rune(strconv.Itoa(h))
		copy(line[pos:], label)
		next = pos + len(label) + 1
	}
	return dimStyle.Render(strings.TrimRight(string(line), " "))
}
