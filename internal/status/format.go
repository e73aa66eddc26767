package status

import (
	"fmt"
	"math"
	"strconv"
)

// PrettyNum 将数值保留 sig 位有效数字后按 %g 格式输出。
func PrettyNum(x float64, sig int) string {
	switch {
	case math.IsNaN(x):
		return "nan"
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	if sig < 1 {
		sig = 1
	}
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(x, 'e', sig-1, 64), 64)
	if err != nil {
		rounded = x
	}
	return fmt.Sprintf("%g", rounded)
}

// FormatDuration 将秒数四舍五入到整秒后格式化为 H:MM:SS，小时数不折算为天。
// 负数按 0 处理，负的剩余时间由调用方显示为收敛提示。
func FormatDuration(seconds float64) string {
	total := max(int64(math.RoundToEven(seconds)), 0)
	h := total / 3600
	m := total % 3600 / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// Percent 将 [0,1] 的比例格式化为不带小数的百分数。
func Percent(x float64) string {
	return fmt.Sprintf("%.0f%%", x*100)
}

// chainRange 返回一条链的最小值和最大值，链中含 NaN 时结果为 NaN。
func chainRange(chain []float64) (lo, hi float64) {
	if len(chain) == 0 {
		return math.NaN(), math.NaN()
	}
	lo, hi = chain[0], chain[0]
	for _, v := range chain[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// rangeBound 格式化区间端点，非有限值一律显示为 NaN。
func rangeBound(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "NaN"
	}
	return PrettyNum(v, 4)
}

// WAIC 是随 CLI 提供的参考估计器：全部分数的均值减去方差。
func WAIC(scores [][]float64) float64 {
	var n int
	var sum float64
	for _, chain := range scores {
		for _, v := range chain {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	mean := sum / float64(n)

	var sq float64
	for _, chain := range scores {
		for _, v := range chain {
			d := v - mean
			sq += d * d
		}
	}
	return mean - sq/float64(n)
}
