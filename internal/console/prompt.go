package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fitstatus/internal/layout"
	"fitstatus/internal/palette"
)

// PromptKind 是提问的类型。
type PromptKind string

const (
	PromptBool   PromptKind = "bool"
	PromptSelect PromptKind = "select"
	PromptString PromptKind = "string"
)

// ErrUnknownPromptKind 表示不支持的提问类型。
var ErrUnknownPromptKind = errors.New("unknown prompt kind")

// PromptOptions 列出 Prompt 识别的全部选项。
type PromptOptions struct {
	Kind       PromptKind // 空值等同 PromptBool
	Options    []string   // 仅 PromptSelect 使用
	NoneString string     // 空值使用目录中的 "None of the above."
	WrapLength int        // <= 0 时使用 Printer 的折行宽度
	Translate  bool
}

// PromptResult 是用户的回答。
type PromptResult struct {
	Kind     PromptKind
	Bool     bool   // PromptBool：回答是否为 y/yes
	Choice   string // PromptSelect：选中的选项
	Selected bool   // PromptSelect：是否选中了某个选项
	Text     string // 用户输入的原始文本（去掉行尾换行）
}

// Prompt 输出提问并读取一行回答。
func (p *Printer) Prompt(ctx context.Context, text string, opts PromptOptions) (PromptResult, error) {
	kind := opts.Kind
	if kind == "" {
		kind = PromptBool
	}
	result := PromptResult{Kind: kind}

	width := opts.WrapLength
	if width <= 0 {
		width = p.wrapLength
	}

	var choices string
	switch kind {
	case PromptBool:
		choices = " (y/[n])"
	case PromptSelect:
		choices = "\n" + strings.Join(p.selectLines(opts), "\n")
	case PromptString:
	default:
		return result, fmt.Errorf("%w: %q", ErrUnknownPromptKind, kind)
	}

	full := text + choices
	if opts.Translate {
		full = p.translate(ctx, full)
	}
	parts := strings.Split(full, "\n")
	for _, line := range parts[:len(parts)-1] {
		if err := p.Print(fill(line, width), Options{}); err != nil {
			return result, err
		}
	}
	last := fill(parts[len(parts)-1], width)
	if err := p.writer.WritePrompt(last + " "); err != nil {
		return result, err
	}

	input, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return result, fmt.Errorf("read answer: %w", err)
	}
	result.Text = strings.TrimRight(input, "\r\n")
	answer := strings.TrimSpace(result.Text)

	switch kind {
	case PromptBool:
		result.Bool = strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
	case PromptSelect:
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(opts.Options) {
			result.Choice = opts.Options[n-1]
			result.Selected = true
		}
	}
	return result, nil
}

// fill 只折行超出宽度的行，未超出的行保留原有空白（选项列表依赖它对齐）。
func fill(line string, width int) string {
	if palette.VisibleWidth(line) <= width {
		return line
	}
	return strings.Join(layout.Wrap(line, width), "\n")
}

// selectLines 生成编号列表，编号右侧按最大编号的位数对齐。
func (p *Printer) selectLines(opts PromptOptions) []string {
	n := len(opts.Options)
	pad := strings.Repeat(" ", len(strconv.Itoa(n)))

	lines := make([]string, 0, n+2)
	for i, option := range opts.Options {
		num := strconv.Itoa(i + 1)
		lines = append(lines, " "+num+". "+pad[len(num)-1:]+option)
	}

	none := opts.NoneString
	if none == "" {
		none = p.catalog.GetOr("none_of_above", "None of the above.")
	}
	lines = append(lines, "[n]."+pad+none)

	rng := strconv.Itoa(n)
	if n > 1 {
		rng = "1-" + rng
	}
	lines = append(lines, p.catalog.Message("enter_selection", rng).Value)
	return lines
}
