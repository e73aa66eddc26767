package console

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"fitstatus/internal/catalog"
	"fitstatus/internal/layout"
	"fitstatus/internal/palette"
	"fitstatus/internal/status"
	"fitstatus/internal/tree"

	"go.uber.org/zap"
)

// Options 列出 Print / String / Message 识别的全部选项。
type Options struct {
	Wrapped    bool   // 按 WrapLength 折行
	WrapLength int    // <= 0 时使用 Printer 的折行宽度
	Inline     bool   // 原地刷新
	Colorify   bool   // 展开颜色标记
	Center     bool   // 居中
	Width      int    // 居中宽度，<= 0 时使用折行宽度
	Warning    bool   // 以黄色 "Warning: " 开头
	Error      bool   // 以红色 "Error: " 开头
	NoPrefix   bool   // 只着色，不加 Warning/Error 前缀
	Color      string // 整段文本的颜色标记，如 palette.MarkGreen
	AllRanks   bool   // 非 leader 进程也输出
	NoWrap     bool   // 仅 Message 使用：关闭默认折行
}

// Config 是构造 Printer 所需的参数。
type Config struct {
	Out        io.Writer // nil 时使用 os.Stdout
	In         io.Reader // nil 时使用 os.Stdin
	Capability Capability
	Charset    string
	TrackLines bool
	WrapLength int // <= 0 时使用 status.DefaultWrapLength
	Catalog    *catalog.Catalog
	Translator catalog.Translator
	Language   string
	WAIC       status.Estimator
	// NoInline 关闭原地刷新，所有状态都追加输出（用于非终端输出和测试）。
	NoInline bool
	Logger   *zap.Logger
}

// Printer 是面向用户的输出入口。
type Printer struct {
	writer     *Writer
	in         *bufio.Reader
	catalog    *catalog.Catalog
	renderer   *status.Renderer
	translator catalog.Translator
	language   string
	wrapLength int
	noInline   bool
	logger     *zap.Logger
}

// New 创建 Printer。仅当字符集无法识别时返回错误。
func New(cfg Config) (*Printer, error) {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	in := cfg.In
	if in == nil {
		in = os.Stdin
	}
	w, err := NewWriter(out, cfg.Capability, WriterOptions{Charset: cfg.Charset, TrackLines: cfg.TrackLines})
	if err != nil {
		return nil, err
	}
	c := cfg.Catalog
	if c == nil {
		c = catalog.Default()
	}
	wrap := cfg.WrapLength
	if wrap <= 0 {
		wrap = status.DefaultWrapLength
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Printer{
		writer:     w,
		in:         bufio.NewReader(in),
		catalog:    c,
		renderer:   status.NewRenderer(c, wrap, cfg.WAIC),
		translator: cfg.Translator,
		language:   cfg.Language,
		wrapLength: wrap,
		noInline:   cfg.NoInline,
		logger:     logger,
	}, nil
}

// Writer 返回底层 Writer。
func (p *Printer) Writer() *Writer {
	return p.writer
}

// WrapLength 返回折行宽度。
func (p *Printer) WrapLength() int {
	return p.wrapLength
}

func (p *Printer) allowed(opts Options) bool {
	capability := p.writer.Capability()
	if capability.Quiet {
		return false
	}
	return opts.AllRanks || capability.IsLeader == nil || capability.IsLeader()
}

// lines 套用前缀、颜色与折行。需要着色时先展开颜色标记再折行，
// 折行宽度只计算可见列；不着色时标记按原样输出，也按原样计宽。
func (p *Printer) lines(text string, opts Options) []string {
	if !p.allowed(opts) {
		return nil
	}

	switch {
	case opts.Warning:
		text = p.frame(palette.MarkYellow, "warning", "Warning", text, opts.NoPrefix)
	case opts.Error:
		text = p.frame(palette.MarkRed, "error", "Error", text, opts.NoPrefix)
	}
	if opts.Color != "" {
		text = palette.Wrap(opts.Color, text)
	}
	if colorify(opts) {
		text = palette.Colorize(text)
	}

	raw := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if !opts.Wrapped {
		return raw
	}
	width := opts.WrapLength
	if width <= 0 {
		width = p.wrapLength
	}
	var out []string
	for _, line := range raw {
		out = append(out, layout.Wrap(line, width)...)
	}
	return out
}

func (p *Printer) frame(mark, key, fallback, text string, noPrefix bool) string {
	if noPrefix {
		return palette.Wrap(mark, text)
	}
	return palette.Wrap(mark, p.catalog.GetOr(key, fallback)+": "+text)
}

func (p *Printer) center(lines []string, opts Options) []string {
	if !opts.Center {
		return lines
	}
	width := opts.Width
	if width <= 0 {
		width = p.wrapLength
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = layout.Center(line, width)
	}
	return out
}

func colorify(opts Options) bool {
	return opts.Colorify || opts.Warning || opts.Error || opts.Color != ""
}

// Print 输出文本。
func (p *Printer) Print(text string, opts Options) error {
	lines := p.center(p.lines(text, opts), opts)
	if len(lines) == 0 {
		return nil
	}
	inline := opts.Inline && !p.noInline
	_, err := p.writer.emit(lines, inline, colorify(opts), opts.AllRanks)
	return err
}

// String 返回 Print 将要输出的文本，不做任何 I/O。
func (p *Printer) String(text string, opts Options) string {
	lines := p.center(p.lines(text, opts), opts)
	s := strings.Join(lines, "\n")
	if colorify(opts) {
		s = palette.Colorize(s)
	}
	return s
}

// Message 从目录中取出消息并输出，默认折行。返回的 Text 标明是否为占位文本。
func (p *Printer) Message(key string, args []any, opts Options) (catalog.Text, error) {
	text := p.catalog.Message(key, args...)
	if text.Fallback {
		p.logger.Debug("message not found", zap.String("key", key))
	}
	opts.Wrapped = !opts.NoWrap
	return text, p.Print(text.Value, opts)
}

// Status 渲染并输出一个快照。快照未要求保留上一帧时原地刷新。
func (p *Printer) Status(s status.Snapshot) error {
	if !p.writer.Capability().Active() {
		return nil
	}
	lines := p.renderer.Lines(s)
	_, err := p.writer.Emit(lines, !s.MakeSpace && !p.noInline)
	return err
}

// Tree 逐棵输出依赖树。
func (p *Printer) Tree(forest tree.Forest) error {
	for _, lines := range tree.Render(forest) {
		if _, err := p.writer.EmitPlain(lines, false); err != nil {
			return err
		}
	}
	return nil
}

// translate 在配置了非默认语言时翻译文本，失败时原样返回。
func (p *Printer) translate(ctx context.Context, text string) string {
	return catalog.TranslateText(ctx, p.translator, text, p.language, p.logger).Value
}
