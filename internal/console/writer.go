// Package console 负责终端输出：原地刷新的状态行、带警告/错误框架的消息，
// 以及交互式提问。所有输出都受 Capability 约束，非 leader 进程或静默模式下不输出。
package console

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"fitstatus/internal/palette"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// 终端控制序列：光标上移一行 / 清除到行尾。
const (
	cursorUp  = "\033[F"
	clearLine = "\033[K"
)

// Capability 决定当前进程是否允许输出。
type Capability struct {
	Quiet    bool
	IsLeader func() bool // nil 视为 leader
}

// Active 报告是否允许输出。
func (c Capability) Active() bool {
	if c.Quiet {
		return false
	}
	return c.IsLeader == nil || c.IsLeader()
}

// WriterOptions 列出 Writer 识别的全部选项。
type WriterOptions struct {
	// Charset 是输出流的字符集（如 "utf-8"、"iso-8859-1"、"ascii"），空表示 UTF-8。
	Charset string
	// TrackLines 为 true 时，原地刷新擦除上一次实际写出的行数；
	// 默认擦除与本次将要写出的行数相同的行数，行数变化时旧行会残留在屏幕上。
	TrackLines bool
}

// EmitResult 描述一次 Emit 的结果。
type EmitResult struct {
	Skipped  bool // 因静默或非 leader 未输出
	Erased   int  // 擦除的行数
	Written  int  // 写出的行数
	Replaced int  // 因字符集无法表示而以 ASCII 替换写出的行数
}

// Writer 将行写入终端。
type Writer struct {
	out        io.Writer
	capability Capability
	encoder    *encoding.Encoder // nil 表示 UTF-8，不需要转换
	asciiOnly  bool
	trackLines bool
	lastLines  int
}

// asciiFallback 把非 ASCII 字符替换为 '?'。
var asciiFallback = runes.Map(func(r rune) rune {
	if r > unicode.MaxASCII {
		return '?'
	}
	return r
})

// NewWriter 创建 Writer。字符集无法识别时返回错误。
func NewWriter(out io.Writer, capability Capability, opts WriterOptions) (*Writer, error) {
	w := &Writer{out: out, capability: capability, trackLines: opts.TrackLines}

	charset := strings.ToLower(strings.TrimSpace(opts.Charset))
	switch charset {
	case "", "utf-8", "utf8":
	case "ascii", "us-ascii", "ansi_x3.4-1968", "c", "posix":
		w.asciiOnly = true
	default:
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, fmt.Errorf("unsupported charset %q: %w", opts.Charset, err)
		}
		if name, _ := htmlindex.Name(enc); name != "utf-8" {
			w.encoder = enc.NewEncoder()
		}
	}
	return w, nil
}

// Capability 返回 Writer 的输出约束。
func (w *Writer) Capability() Capability {
	return w.capability
}

// Emit 将颜色标记展开后逐行写出。inline 为 true 时先上移光标并清除若干行，
// 实现原地刷新。静默或非 leader 时不做任何事。
func (w *Writer) Emit(lines []string, inline bool) (EmitResult, error) {
	return w.emit(lines, inline, true, false)
}

// EmitPlain 与 Emit 相同，但不展开颜色标记。
func (w *Writer) EmitPlain(lines []string, inline bool) (EmitResult, error) {
	return w.emit(lines, inline, false, false)
}

// allRanks 为 true 时忽略 leader 判定，静默模式仍然生效。
func (w *Writer) emit(lines []string, inline, colorize, allRanks bool) (EmitResult, error) {
	var res EmitResult
	if w.capability.Quiet || (!allRanks && !w.capability.Active()) {
		res.Skipped = true
		return res, nil
	}

	if inline {
		n := len(lines)
		if w.trackLines {
			n = w.lastLines
		}
		if _, err := io.WriteString(w.out, strings.Repeat(cursorUp+clearLine, n)); err != nil {
			return res, err
		}
		res.Erased = n
	}

	for _, line := range lines {
		if colorize {
			line = palette.Colorize(line)
		}
		replaced, err := w.writeLine(line + "\n")
		if err != nil {
			return res, err
		}
		if replaced {
			res.Replaced++
		}
		res.Written++
	}
	w.lastLines = res.Written
	return res, nil
}

// WritePrompt 写出不带换行的提示文本，不受 Capability 约束。
func (w *Writer) WritePrompt(text string) error {
	_, err := w.writeLine(text)
	return err
}

// writeLine 按字符集编码后写出并刷新；无法编码时改写为 ASCII 替换版本。
func (w *Writer) writeLine(s string) (bool, error) {
	encoded, replaced := w.encode(s)
	if _, err := io.WriteString(w.out, encoded); err != nil {
		return replaced, err
	}
	if f, ok := w.out.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return replaced, err
		}
	}
	return replaced, nil
}

func (w *Writer) encode(s string) (string, bool) {
	switch {
	case w.asciiOnly:
		if isASCII(s) {
			return s, false
		}
		return ASCIIFallback(s), true
	case w.encoder != nil:
		out, err := w.encoder.String(s)
		if err == nil {
			return out, false
		}
		// ASCII 子集在所有支持的字符集中都可编码
		out, err = w.encoder.String(ASCIIFallback(s))
		if err != nil {
			return ASCIIFallback(s), true
		}
		return out, true
	default:
		return s, false
	}
}

// ASCIIFallback 返回将所有非 ASCII 字符替换为 '?' 的文本。
func ASCIIFallback(s string) string {
	out, _, err := transform.String(asciiFallback, s)
	if err != nil {
		return strings.Map(func(r rune) rune {
			if r > unicode.MaxASCII {
				return '?'
			}
			return r
		}, s)
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// DetectCharset 根据 LC_ALL / LC_CTYPE / LANG 推断终端字符集，无法推断时返回 "utf-8"。
func DetectCharset(getenv func(string) string) string {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			continue
		}
		if v == "C" || v == "POSIX" {
			return "ascii"
		}
		if i := strings.IndexByte(v, '.'); i >= 0 {
			cs := v[i+1:]
			if j := strings.IndexByte(cs, '@'); j >= 0 {
				cs = cs[:j]
			}
			return strings.ToLower(cs)
		}
		return "utf-8"
	}
	return "utf-8"
}
