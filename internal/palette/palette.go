// Package palette 提供文本中颜色标记（如 "!r"、"!e"）与 ANSI 转义序列之间的转换，
// 以及忽略这些零宽标记后的可见列宽计算。
package palette

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ANSI 格式代码常量。
const (
	Blue      = "\033[0;94m"
	Bold      = "\033[0;1m"
	Cyan      = "\033[0;96m"
	End       = "\033[0m"
	Green     = "\033[0;92m"
	Header    = "\033[0;95m"
	Magenta   = "\033[1;35m"
	Orange    = "\033[38;5;214m"
	Red       = "\033[0;91m"
	Underline = "\033[4m"
	Yellow    = "\033[0;93m"
)

// 文本中使用的两字符颜色标记。
const (
	MarkBlue      = "!b"
	MarkCyan      = "!c"
	MarkEnd       = "!e"
	MarkGreen     = "!g"
	MarkMagenta   = "!m"
	MarkOrange    = "!o"
	MarkRed       = "!r"
	MarkUnderline = "!u"
	MarkYellow    = "!y"
)

// codes 是标记到转义序列的固定映射，初始化后不再修改。
var codes = map[string]string{
	MarkBlue:      Blue,
	MarkCyan:      Cyan,
	MarkEnd:       End,
	MarkGreen:     Green,
	MarkMagenta:   Magenta,
	MarkOrange:    Orange,
	MarkRed:       Red,
	MarkUnderline: Underline,
	MarkYellow:    Yellow,
}

var (
	colorizer = newReplacer(func(mark string) string { return codes[mark] })
	stripper  = newReplacer(func(string) string { return "" })

	ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)
)

// newReplacer 根据 codes 构建一个单遍替换器。
func newReplacer(value func(mark string) string) *strings.Replacer {
	pairs := make([]string, 0, len(codes)*2)
	for mark := range codes {
		pairs = append(pairs, mark, value(mark))
	}
	return strings.NewReplacer(pairs...)
}

// Marks 返回所有可识别的颜色标记。
func Marks() []string {
	out := make([]string, 0, len(codes))
	for mark := range codes {
		out = append(out, mark)
	}
	return out
}

// Code 返回标记对应的转义序列，未知标记返回 false。
func Code(mark string) (string, bool) {
	c, ok := codes[mark]
	return c, ok
}

// Colorize 将文本中的全部颜色标记替换为 ANSI 转义序列，其余文本原样保留。
func Colorize(text string) string {
	return colorizer.Replace(text)
}

// Strip 移除文本中的全部颜色标记。
func Strip(text string) string {
	return stripper.Replace(text)
}

// StripANSI 移除已展开的 ANSI 转义序列。
func StripANSI(text string) string {
	return ansiRegexp.ReplaceAllString(text, "")
}

// VisibleWidth 返回去掉颜色标记和 ANSI 转义序列后文本在终端中占用的列数。
// 所有居中和拼行计算都基于这个宽度，保证颜色不影响对齐。
func VisibleWidth(text string) int {
	return runewidth.StringWidth(StripANSI(Strip(text)))
}

// Wrap 用 mark 和结束标记包裹文本。
func Wrap(mark, text string) string {
	return mark + text + MarkEnd
}
