package status

import (
	"math"
	"strconv"
	"strings"

	"fitstatus/internal/catalog"
	"fitstatus/internal/heatmap"
	"fitstatus/internal/layout"
	"fitstatus/internal/palette"
)

// DefaultWrapLength 是未配置时的折行宽度。
const DefaultWrapLength = 100

// 颜色分级阈值。
const (
	acceptLow  = 0.01
	acceptMid  = 0.10
	acorLow    = 2.0
	acorMid    = 5.0
	psrfHigh   = 2.0
	psrfMedium = 1.2
)

// Estimator 根据完整的分数矩阵计算一个标量（如 WAIC）。
type Estimator func(scores [][]float64) float64

// Renderer 将快照渲染为状态行。Renderer 不保存任何渲染状态，
// 每次调用只依赖快照和自身配置。
type Renderer struct {
	Catalog    *catalog.Catalog
	WrapLength int       // <= 0 时使用 DefaultWrapLength
	WAIC       Estimator // nil 时不输出 WAIC
}

// NewRenderer 创建使用给定目录的渲染器。
func NewRenderer(c *catalog.Catalog, wrapLength int, waic Estimator) *Renderer {
	if c == nil {
		c = catalog.Default()
	}
	return &Renderer{Catalog: c, WrapLength: wrapLength, WAIC: waic}
}

func (r *Renderer) wrapLength() int {
	if r.WrapLength <= 0 {
		return DefaultWrapLength
	}
	return r.WrapLength
}

func (r *Renderer) messages() *catalog.Catalog {
	if r.Catalog == nil {
		return catalog.Default()
	}
	return r.Catalog
}

// Lines 渲染快照。矩阵可用时先从折行宽度中扣除热力图宽度再拼行，
// 然后把文本叠加到热力图右侧；否则使用纯文本排版。
func (r *Renderer) Lines(s Snapshot) []string {
	segments := r.Segments(s)
	width := r.wrapLength()

	widget, ok := heatmap.Render(s.CorrelationMatrix)
	if ok {
		width -= widget.Width
	}
	lines := layout.Pack(segments, width)
	if ok {
		return widget.Overlay(lines)
	}
	return lines
}

// Segments 按固定顺序生成快照中每个可用字段对应的文本片段。
func (r *Renderer) Segments(s Snapshot) []string {
	c := r.messages()
	var out []string

	if s.EventName != "" {
		out = append(out, s.EventName)
	}
	if s.Description != "" {
		out = append(out, r.description(s.Description))
	}
	if s.Scores != nil {
		out = append(out, r.scoreRanges(s.Scores, s.Fracking))
		if !s.Fracking && r.WAIC != nil {
			out = append(out, c.GetOr("waic", "WAIC")+": "+PrettyNum(r.WAIC(s.Scores), 4))
		}
	}
	if s.Accepts != nil {
		out = append(out, r.accepts(s.Accepts))
	}
	if s.Progress != nil {
		out = append(out, r.progress(*s.Progress))
	}
	if s.Estimate != nil {
		out = append(out, r.estimate(*s.Estimate))
	}
	if s.Acor != nil {
		out = append(out, r.acor(*s.Acor))
	}
	if s.PSRF != nil {
		if seg, ok := r.psrf(*s.PSRF); ok {
			out = append(out, seg)
		}
	}
	return append(out, s.Messages...)
}

func (r *Renderer) description(key string) string {
	text := r.messages().GetOr(key, "?")
	if key == "burning" {
		return palette.Wrap(palette.MarkOrange, text)
	}
	return text
}

func (r *Renderer) scoreRanges(scores [][]float64, fracking bool) string {
	label := "score_ranges"
	if fracking {
		label = "fracking_scores"
	}

	parts := make([]string, 0, len(scores))
	for _, chain := range scores {
		if len(chain) == 1 {
			parts = append(parts, PrettyNum(chain[0], 4))
			continue
		}
		lo, hi := chainRange(chain)
		parts = append(parts, rangeBound(lo)+"..."+rangeBound(hi))
	}
	return r.messages().GetOr(label, label) + ": " + bracketList(parts)
}

// AcceptColor 返回接受率对应的颜色标记：[0,0.01) 红，[0.01,0.10) 黄，其余绿。
func AcceptColor(x float64) string {
	switch {
	case x < acceptLow:
		return palette.MarkRed
	case x < acceptMid:
		return palette.MarkYellow
	default:
		return palette.MarkGreen
	}
}

func (r *Renderer) accepts(accepts []float64) string {
	parts := make([]string, 0, len(accepts))
	for _, x := range accepts {
		parts = append(parts, palette.Wrap(AcceptColor(x), Percent(x)))
	}
	return r.messages().GetOr("moves_accepted", "moves_accepted") + ": " + bracketList(parts)
}

func (r *Renderer) progress(p Progress) string {
	v := strconv.Itoa(p.Current)
	if p.Total != 0 {
		v += "/" + strconv.Itoa(p.Total)
	}
	return r.messages().GetOr("progress", "progress") + ": [ " + v + " ]"
}

// TotalEstimate 合并两个阶段的剩余时间。启用了 fracking 但其耗时尚未测得时，
// 假定两阶段耗时相当，取主阶段的两倍。
func TotalEstimate(e Estimate) float64 {
	if e.Secondary > 0 || !e.FrackingEnabled {
		return e.Primary + e.Secondary
	}
	return 2 * e.Primary
}

func (r *Renderer) estimate(e Estimate) string {
	c := r.messages()
	total := TotalEstimate(e)
	if e.Primary < 0 || total < 0 {
		return c.GetOr("run_until_converged", "run_until_converged")
	}
	return c.GetOr("estimated_time", "estimated_time") + ": [ " + FormatDuration(total) + " ]"
}

// AcorColor 返回自相关比值对应的颜色标记。
func AcorColor(ratio float64) string {
	switch {
	case ratio < acorLow:
		return palette.MarkRed
	case ratio < acorMid:
		return palette.MarkYellow
	default:
		return palette.MarkGreen
	}
}

func (r *Renderer) acor(a Acor) string {
	c := r.messages()
	if a.MinIndex <= 0 {
		return palette.Wrap(palette.MarkRed, c.Message("acor_too_short", a.MinIndex).Value)
	}
	text := c.Message("acor_tau", a.MinIndex, PrettyNum(a.Tau, 3), PrettyNum(a.Ratio, 3)).Value
	return palette.Wrap(AcorColor(a.Ratio), text)
}

// PSRFColor 返回 PSRF 对应的颜色标记：> 2 红，> 1.2 黄，其余绿。
func PSRFColor(v float64) string {
	switch {
	case v > psrfHigh:
		return palette.MarkRed
	case v > psrfMedium:
		return palette.MarkYellow
	default:
		return palette.MarkGreen
	}
}

// psrf 在值为无穷大时返回 false，调用方应省略该片段。
func (r *Renderer) psrf(p PSRF) (string, bool) {
	if math.IsInf(p.Value, 0) {
		return "", false
	}
	text := r.messages().Message("psrf", p.MinIndex, PrettyNum(p.Value, 4)).Value
	return palette.Wrap(PSRFColor(p.Value), text), true
}

func bracketList(parts []string) string {
	return "[ " + strings.Join(parts, ", ") + " ]"
}
