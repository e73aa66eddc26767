// Package heatmap 将相关矩阵渲染为带边框的小型 ASCII 热力图，
// 并支持把状态文本叠加到热力图右侧。
package heatmap

import (
	"math"
	"sort"
	"strings"
)

// 热力图固定网格尺寸：14 列 × 7 行。
const (
	GridCols = 14
	GridRows = 7
)

// gutter 是边框右侧与叠加文本之间的间距。
const gutter = "   "

// Glyph 是热力图的渲染字母表，按强度递增排列。
type Glyph rune

const (
	Blank Glyph = ' '
	Low   Glyph = '.'
	Mid   Glyph = '*'
	High  Glyph = '#'
)

// Thresholds 是 20/50/80 百分位阈值。
type Thresholds [3]float64

// GlyphFor 根据阈值将数值映射为字符。
// NaN 和 -Inf 总是映射为 Blank；任一阈值为 NaN（网格没有有限值）时同样返回 Blank。
func GlyphFor(v float64, th Thresholds) Glyph {
	switch {
	case math.IsNaN(v), math.IsInf(v, -1):
		return Blank
	case math.IsNaN(th[0]), math.IsNaN(th[1]), math.IsNaN(th[2]):
		return Blank
	case v < th[0]:
		return Blank
	case v < th[1]:
		return Low
	case v < th[2]:
		return Mid
	default:
		return High
	}
}

// Widget 是渲染完成的热力图。
type Widget struct {
	Lines []string // 上边框、GridRows 行内容、下边框，每行末尾带 gutter
	Width int      // 每行可见宽度（含 gutter），排版时需从可用宽度中扣除
}

// WidgetWidth 返回热力图占用的列数（边框加 gutter）。
func WidgetWidth() int {
	return GridCols + 2 + len(gutter)
}

// Render 渲染边长 >= 2 的方阵。矩阵为空、边长 < 2 或不是方阵时返回 false，
// 调用方应回退到纯文本排版。
func Render(matrix [][]float64) (Widget, bool) {
	if !isSquare(matrix) {
		return Widget{}, false
	}

	grid := Congrid(matrix, GridRows, GridCols)
	logTransform(grid)
	normalize(grid)
	th := GridThresholds(grid)

	lines := make([]string, 0, GridRows+2)
	lines = append(lines, "╔"+strings.Repeat("═", GridCols)+"╗"+gutter)
	for _, row := range grid {
		var b strings.Builder
		b.WriteString("║")
		for _, v := range row {
			b.WriteRune(rune(GlyphFor(v, th)))
		}
		b.WriteString("║")
		b.WriteString(gutter)
		lines = append(lines, b.String())
	}
	lines = append(lines, "╚"+strings.Repeat("═", GridCols)+"╝"+gutter)

	return Widget{Lines: lines, Width: WidgetWidth()}, true
}

// Overlay 将文本行垂直居中地追加到热力图内部行的右侧。
// 没有对应文本的行保持不变；放不下的文本行追加到热力图下方，并用空格对齐。
func (w Widget) Overlay(text []string) []string {
	out := make([]string, len(w.Lines))
	copy(out, w.Lines)
	if len(text) == 0 {
		return out
	}

	start := 1
	if len(text) < GridRows {
		start += (GridRows - len(text)) / 2
	}

	pad := strings.Repeat(" ", w.Width)
	for i, line := range text {
		row := start + i
		if row < len(out) {
			out[row] += line
			continue
		}
		out = append(out, pad+line)
	}
	return out
}

func isSquare(matrix [][]float64) bool {
	n := len(matrix)
	if n < 2 {
		return false
	}
	for _, row := range matrix {
		if len(row) != n {
			return false
		}
	}
	return true
}

// Congrid 用双线性插值将矩阵重采样为 rows × cols 网格。
// 采样点对齐两端（第一个和最后一个采样点分别落在原矩阵两端），
// 坐标被限制在原矩阵范围内。
func Congrid(a [][]float64, rows, cols int) [][]float64 {
	n0 := len(a)
	n1 := len(a[0])

	out := make([][]float64, rows)
	for r := range out {
		out[r] = make([]float64, cols)
		y := sampleCoord(r, rows, n1)
		for c := range out[r] {
			x := sampleCoord(c, cols, n0)
			out[r][c] = bilinear(a, x, y)
		}
	}
	return out
}

// sampleCoord 返回新网格第 k 个采样点在长度为 old 的原坐标轴上的位置。
func sampleCoord(k, size, old int) float64 {
	if size <= 1 {
		return 0
	}
	pos := float64(old-1) / float64(size-1) * float64(k)
	return math.Min(math.Max(pos, 0), float64(old-1))
}

// bilinear 在 a[x][y] 处做双线性插值。
func bilinear(a [][]float64, x, y float64) float64 {
	x0, x1, tx := bracket(x, len(a))
	y0, y1, ty := bracket(y, len(a[0]))

	top := lerp(a[x0][y0], a[x0][y1], ty)
	bottom := lerp(a[x1][y0], a[x1][y1], ty)
	return lerp(top, bottom, tx)
}

func bracket(p float64, n int) (lo, hi int, t float64) {
	lo = int(math.Floor(p))
	if lo >= n-1 {
		return n - 1, n - 1, 0
	}
	return lo, lo + 1, p - float64(lo)
}

func lerp(a, b, t float64) float64 {
	if t == 0 {
		return a
	}
	return a + (b-a)*t
}

// logTransform 对网格逐元素取自然对数。负数得到 NaN，0 得到 -Inf。
func logTransform(grid [][]float64) {
	for _, row := range grid {
		for i, v := range row {
			row[i] = math.Log(v)
		}
	}
}

// normalize 用有限值中的最大绝对值归一化网格。没有非零有限值时保持不变。
func normalize(grid [][]float64) {
	maxAbs := 0.0
	for _, row := range grid {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			maxAbs = math.Max(maxAbs, math.Abs(v))
		}
	}
	if maxAbs == 0 {
		return
	}
	for _, row := range grid {
		for i := range row {
			row[i] /= maxAbs
		}
	}
}

// GridThresholds 计算网格有限值的 20/50/80 百分位。
func GridThresholds(grid [][]float64) Thresholds {
	values := make([]float64, 0, GridRows*GridCols)
	for _, row := range grid {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			values = append(values, v)
		}
	}
	sort.Float64s(values)
	return Thresholds{
		Percentile(values, 20),
		Percentile(values, 50),
		Percentile(values, 80),
	}
}

// Percentile 对已排序的数据做线性插值百分位计算，空数据返回 NaN。
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(rank-float64(lo))
}
