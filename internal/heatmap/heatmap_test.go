package heatmap

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			m[i][j] = 0.1
		}
		m[i][i] = 1
	}
	return m
}

// --- GlyphFor ---

func TestGlyphFor_Boundaries(t *testing.T) {
	th := Thresholds{0.2, 0.5, 0.8}
	tests := []struct {
		v    float64
		want Glyph
	}{
		{-1, Blank},
		{0.19, Blank},
		{0.2, Low},
		{0.49, Low},
		{0.5, Mid},
		{0.79, Mid},
		{0.8, High},
		{5, High},
		{math.Inf(-1), Blank},
		{math.Inf(1), High},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GlyphFor(tt.v, th), "v=%v", tt.v)
	}
}

func TestGlyphFor_NaNAlwaysBlank(t *testing.T) {
	for _, th := range []Thresholds{
		{0.2, 0.5, 0.8},
		{0, 0, 0},
		{math.NaN(), math.NaN(), math.NaN()},
		{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	} {
		assert.Equal(t, Blank, GlyphFor(math.NaN(), th), "thresholds=%v", th)
	}
}

func TestGlyphFor_Monotonic(t *testing.T) {
	rank := map[Glyph]int{Blank: 0, Low: 1, Mid: 2, High: 3}
	for _, th := range []Thresholds{{-0.5, 0, 0.5}, {0.3, 0.3, 0.3}, {-1, -1, 1}} {
		prev := -1
		for v := -2.0; v <= 2.0; v += 0.05 {
			r := rank[GlyphFor(v, th)]
			assert.GreaterOrEqual(t, r, prev, "v=%v thresholds=%v", v, th)
			prev = r
		}
	}
}

// --- Percentile ---

func TestPercentile_LinearInterpolation(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 1.8, Percentile(data, 20), 1e-12)
	assert.InDelta(t, 3.0, Percentile(data, 50), 1e-12)
	assert.InDelta(t, 4.2, Percentile(data, 80), 1e-12)
	assert.Equal(t, 5.0, Percentile(data, 100))
	assert.True(t, math.IsNaN(Percentile(nil, 50)))
}

// --- Congrid ---

func TestCongrid_ShapeAndCorners(t *testing.T) {
	a := [][]float64{
		{1, 2},
		{3, 4},
	}
	g := Congrid(a, GridRows, GridCols)
	require.Len(t, g, GridRows)
	for _, row := range g {
		require.Len(t, row, GridCols)
	}
	assert.Equal(t, 1.0, g[0][0])
	assert.Equal(t, 4.0, g[GridRows-1][GridCols-1])
	// 行方向对应原矩阵第二维，列方向对应第一维
	assert.Equal(t, 2.0, g[GridRows-1][0])
	assert.Equal(t, 3.0, g[0][GridCols-1])
	// 中间行位于两端之间
	assert.InDelta(t, 1.5, g[3][0], 1e-12)
}

func TestCongrid_ConstantStaysConstant(t *testing.T) {
	a := [][]float64{{0.7, 0.7, 0.7}, {0.7, 0.7, 0.7}, {0.7, 0.7, 0.7}}
	for _, row := range Congrid(a, GridRows, GridCols) {
		for _, v := range row {
			assert.InDelta(t, 0.7, v, 1e-12)
		}
	}
}

// --- Render ---

func TestRender_RejectsSmallOrRagged(t *testing.T) {
	_, ok := Render(nil)
	assert.False(t, ok)
	_, ok = Render([][]float64{{1}})
	assert.False(t, ok)
	_, ok = Render([][]float64{{1, 2}, {3}})
	assert.False(t, ok)
}

func TestRender_Frame(t *testing.T) {
	w, ok := Render(identity(5))
	require.True(t, ok)
	require.Len(t, w.Lines, GridRows+2)
	assert.Equal(t, 19, w.Width)

	assert.Equal(t, "╔"+strings.Repeat("═", GridCols)+"╗   ", w.Lines[0])
	assert.Equal(t, "╚"+strings.Repeat("═", GridCols)+"╝   ", w.Lines[len(w.Lines)-1])
	for _, line := range w.Lines {
		assert.Equal(t, w.Width, utf8.RuneCountInString(line), "line=%q", line)
	}
	for _, line := range w.Lines[1 : len(w.Lines)-1] {
		assert.True(t, strings.HasPrefix(line, "║"))
		assert.True(t, strings.HasSuffix(line, "║   "))
		inner := strings.TrimSuffix(strings.TrimPrefix(line, "║"), "║   ")
		for _, r := range inner {
			assert.Contains(t, []Glyph{Blank, Low, Mid, High}, Glyph(r))
		}
	}
}

func TestRender_DiagonalIsHighest(t *testing.T) {
	w, ok := Render(identity(7))
	require.True(t, ok)
	// 左上角对应 a[0][0] = 1，取对数后为 0，是网格最大值
	first := []rune(w.Lines[1])
	assert.Equal(t, rune(High), first[1])
}

func TestRender_NegativeEntriesAreBlank(t *testing.T) {
	m := [][]float64{{-1, -1}, {-1, -1}}
	w, ok := Render(m)
	require.True(t, ok)
	for _, line := range w.Lines[1 : len(w.Lines)-1] {
		assert.Equal(t, "║"+strings.Repeat(" ", GridCols)+"║   ", line)
	}
}

func TestRender_AllZeroIsBlank(t *testing.T) {
	m := [][]float64{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}
	w, ok := Render(m)
	require.True(t, ok)
	for _, line := range w.Lines[1 : len(w.Lines)-1] {
		assert.Equal(t, "║"+strings.Repeat(" ", GridCols)+"║   ", line)
	}
}

func TestGlyphFor_NaNThresholdsAreBlank(t *testing.T) {
	th := Thresholds{math.NaN(), math.NaN(), math.NaN()}
	for _, v := range []float64{math.Inf(-1), -1, 0, 1, math.Inf(1)} {
		assert.Equal(t, Blank, GlyphFor(v, th), "v=%v", v)
	}
}

// --- Overlay ---

func TestOverlay_CentersText(t *testing.T) {
	w, ok := Render(identity(3))
	require.True(t, ok)

	out := w.Overlay([]string{"one", "two", "three"})
	require.Len(t, out, len(w.Lines))
	// 7 行内部空间放 3 行文本：偏移 (7-3)/2 = 2，从第 3 行开始
	assert.Equal(t, w.Lines[1], out[1])
	assert.Equal(t, w.Lines[2], out[2])
	assert.Equal(t, w.Lines[3]+"one", out[3])
	assert.Equal(t, w.Lines[4]+"two", out[4])
	assert.Equal(t, w.Lines[5]+"three", out[5])
	assert.Equal(t, w.Lines[6], out[6])
}

func TestOverlay_DoesNotMutateWidget(t *testing.T) {
	w, ok := Render(identity(3))
	require.True(t, ok)
	before := append([]string(nil), w.Lines...)
	_ = w.Overlay([]string{"x"})
	assert.Equal(t, before, w.Lines)
}

func TestOverlay_OverflowGoesBelow(t *testing.T) {
	w, ok := Render(identity(3))
	require.True(t, ok)

	text := make([]string, 10)
	for i := range text {
		text[i] = strings.Repeat("x", i+1)
	}
	out := w.Overlay(text)
	require.Len(t, out, 11)
	assert.Equal(t, w.Lines[1]+"x", out[1])
	assert.Equal(t, strings.Repeat(" ", w.Width)+text[9], out[10])
}
