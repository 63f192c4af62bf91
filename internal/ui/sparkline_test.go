package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func init() {
	// Force a fixed color profile so rendered output is deterministic in CI.
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestRenderSparklineEmpty(t *testing.T) {
	assert.Empty(t, RenderSparkline(nil, 10, ColorSuccess))
	assert.Empty(t, RenderSparkline([]float64{1, 2, 3}, 0, ColorSuccess))
	assert.Empty(t, RenderSparkline([]float64{1, 2, 3}, -1, ColorSuccess))
}

func TestRenderSparklineShape(t *testing.T) {
	out := RenderSparkline([]float64{0, 50, 100}, 10, ColorSuccess)
	runes := []rune(out)
	assert.Len(t, runes, 3)

	// Monotonic data renders monotonically increasing block levels.
	assert.Equal(t, '▁', runes[0])
	assert.Equal(t, '█', runes[2])
}

func TestRenderSparklineWindowing(t *testing.T) {
	data := make([]float64, 100)
	for i := range data {
		data[i] = float64(i)
	}

	out := RenderSparkline(data, 10, ColorSuccess)
	assert.Len(t, []rune(out), 10)
}

func TestRenderSparklineFlatZero(t *testing.T) {
	out := RenderSparkline([]float64{0, 0, 0, 0}, 10, ColorSuccess)

	// An idle interface renders as a baseline, not a mid-height bar.
	assert.Equal(t, strings.Repeat("▁", 4), out)
}

func TestRenderSparklineFlatNonZero(t *testing.T) {
	out := RenderSparkline([]float64{42, 42, 42}, 10, ColorSuccess)

	runes := []rune(out)
	assert.Len(t, runes, 3)
	for _, r := range runes {
		assert.Equal(t, runes[0], r, "flat data should render a flat line")
	}
	assert.NotEqual(t, '▁', runes[0])
}

func TestFormatBps(t *testing.T) {
	tests := []struct {
		name   string
		bps    int64
		expect string
	}{
		{"zero", 0, "0 bps"},
		{"under a kilobit", 999, "999 bps"},
		{"kilobits", 8000, "8.0 Kbps"},
		{"megabits", 12_500_000, "12.5 Mbps"},
		{"gigabits", 2_400_000_000, "2.40 Gbps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, FormatBps(tt.bps))
		})
	}
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.0 KB", FormatBytes(1024))
	assert.Equal(t, "1.5 MB", FormatBytes(1536*1024))
}

func TestTruncateWithEllipsis(t *testing.T) {
	assert.Equal(t, "short", TruncateWithEllipsis("short", 10))
	assert.Equal(t, "long st...", TruncateWithEllipsis("long string here", 10))
	assert.Equal(t, "abc", TruncateWithEllipsis("abc", 3))
}
