// Package layout 实现固定终端宽度下的文本排版：贪心折行、多片段拼行和居中。
// 所有宽度均指可见列宽（见 palette.VisibleWidth），颜色标记不占宽度。
package layout

import (
	"strings"

	"fitstatus/internal/palette"

	"github.com/muesli/reflow/wordwrap"
)

// Separator 是拼行时片段之间的分隔符。
const Separator = " | "

// Wrap 对文本做贪心折行，返回折行后的行列表。
// 原文中的换行会保留；超过宽度的单个词不会被拆开。width < 1 时不折行。
func Wrap(text string, width int) []string {
	src := strings.Split(text, "\n")
	if width < 1 {
		return src
	}

	out := make([]string, 0, len(src))
	for _, line := range src {
		if strings.TrimSpace(line) == "" {
			// 与 textwrap.fill 一致，空白行折叠为空行
			out = append(out, "")
			continue
		}
		wrapped := wordwrap.String(strings.Join(strings.Fields(line), " "), width)
		for _, w := range strings.Split(wrapped, "\n") {
			out = append(out, strings.TrimRight(w, " "))
		}
	}
	return out
}

// Pack 按顺序将片段用 Separator 连接成行。
// 当追加一个片段会使当前行的可见宽度超过 maxWidth 时，关闭当前行并以该片段开始新行。
// 单个片段本身超过 maxWidth 时独占一行，不做拆分。
func Pack(segments []string, maxWidth int) []string {
	var (
		lines []string
		line  string
		count int // 当前行已有的片段数
	)
	for _, seg := range segments {
		if count == 0 {
			line = seg
			count = 1
			continue
		}
		candidate := line + Separator + seg
		if palette.VisibleWidth(candidate) > maxWidth {
			lines = append(lines, line)
			line = seg
			count = 1
			continue
		}
		line = candidate
		count++
	}
	if count > 0 {
		lines = append(lines, line)
	}
	return lines
}

// Center 将文本在 width 列内居中，左侧补 floor((width-可见宽度)/2) 个空格，
// 奇数时多出的空格放在右侧。可见宽度已达到 width 时原样返回。
func Center(text string, width int) string {
	vw := palette.VisibleWidth(text)
	if vw >= width {
		return text
	}
	left := (width - vw) / 2
	right := width - vw - left
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", right)
}

// PadRight 在右侧补空格直到可见宽度达到 width。
func PadRight(text string, width int) string {
	vw := palette.VisibleWidth(text)
	if vw >= width {
		return text
	}
	return text + strings.Repeat(" ", width-vw)
}
