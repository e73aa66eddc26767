package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// LoadOptions 列出 Load 识别的全部选项。
type LoadOptions struct {
	Language   string     // 目标语言，空或 "en" 时直接使用内嵌目录
	Dir        string     // 语言文件所在目录，文件名为 strings-<lang>.json
	Translator Translator // 可选，语言文件缺失或过期时用于生成
	Logger     *zap.Logger
	Notice     io.Writer // 一次性用户提示的输出位置，nil 表示不提示
	Progress   io.Writer // 翻译进度条的输出位置，nil 表示不显示
}

// Loaded 是 Load 的结果。
type Loaded struct {
	Catalog  *Catalog
	Fallback bool   // 未能得到目标语言目录，使用了内嵌英文目录
	Built    bool   // 目录是本次翻译生成的
	Path     string // 语言文件路径
}

// LocalePath 返回语言文件路径。
func LocalePath(dir, language string) string {
	return filepath.Join(dir, "strings-"+language+".json")
}

// Load 加载目标语言的目录。
//
// 语言文件存在且键集合与内嵌目录一致时直接使用；否则在配置了翻译器时
// 逐键翻译生成并写回磁盘，未配置时输出一次提示并回退到内嵌目录。
// 所有失败都在本地降级处理，不会返回错误。
func Load(ctx context.Context, opts LoadOptions) Loaded {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	base := Default()
	lang := opts.Language
	if lang == "" || lang == DefaultLanguage {
		return Loaded{Catalog: base}
	}

	path := LocalePath(opts.Dir, lang)
	if local, err := ReadFile(path, lang); err == nil {
		if local.SameKeys(base) {
			logger.Debug("loaded locale catalog", zap.String("path", path))
			return Loaded{Catalog: local, Path: path}
		}
		logger.Debug("locale catalog is stale", zap.String("path", path))
	} else if !errors.Is(err, os.ErrNotExist) {
		logger.Warn("read locale catalog", zap.String("path", path), zap.Error(err))
	}

	if opts.Translator == nil {
		notice(opts.Notice, base.GetOr("translator_missing", ""))
		return Loaded{Catalog: base, Fallback: true, Path: path}
	}

	notice(opts.Notice, TranslateText(ctx, opts.Translator, base.Message("building_strings", lang).Value, lang, logger).Value)
	built := Build(ctx, base, lang, opts.Translator, opts.Progress, logger)
	if err := Save(path, built); err != nil {
		logger.Warn("save locale catalog", zap.String("path", path), zap.Error(err))
	}
	return Loaded{Catalog: built, Built: true, Path: path}
}

// Build 逐键翻译 base，返回新的目录。单个键翻译失败时保留原文。
func Build(ctx context.Context, base *Catalog, language string, tr Translator, progress io.Writer, logger *zap.Logger) *Catalog {
	keys := base.Keys()
	bar := newTranslateProgressBar(progress, len(keys))
	if bar != nil {
		defer func() { _ = bar.Finish() }()
	}

	entries := make(map[string]string, len(keys))
	fallbacks := 0
	for _, key := range keys {
		src, _ := base.Get(key)
		t := TranslateText(ctx, tr, src, language, logger)
		if t.Fallback {
			fallbacks++
		}
		entries[key] = t.Value
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if logger != nil && fallbacks > 0 {
		logger.Info("some strings were left untranslated",
			zap.String("language", language),
			zap.Int("untranslated", fallbacks),
			zap.Int("total", len(keys)))
	}
	return New(language, entries)
}

// newTranslateProgressBar 创建翻译进度条，w 为 nil 时不显示。
func newTranslateProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	if w == nil || total <= 1 {
		return nil
	}
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetDescription("translating strings"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionThrottle(65*time.Millisecond),
	)
}

// ReadFile 从磁盘读取目录文件。
func ReadFile(path, language string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	entries, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return New(language, entries), nil
}

// Save 将目录以 JSON 格式写入 path。
// 写入使用 tmp + rename 的原子策略，避免读到半写文件。
func Save(path string, c *Catalog) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c.strings); err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

func notice(w io.Writer, msg string) {
	if w == nil || msg == "" {
		return
	}
	fmt.Fprintln(w, msg)
}
