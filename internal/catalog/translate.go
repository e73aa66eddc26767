package catalog

import (
	"context"
	"regexp"
	"strings"

	"fitstatus/internal/palette"

	"go.uber.org/zap"
)

// Translator 是可选的机器翻译能力。
type Translator interface {
	Translate(ctx context.Context, text, language string) (string, error)
}

// maskRegexp 匹配翻译时需要保护的片段：占位符和颜色标记。
var maskRegexp = buildMaskRegexp()

func buildMaskRegexp() *regexp.Regexp {
	parts := []string{`\{.*?\}`}
	for _, mark := range palette.Marks() {
		parts = append(parts, regexp.QuoteMeta(mark))
	}
	return regexp.MustCompile("(" + strings.Join(parts, "|") + ")")
}

// Mask 将占位符和颜色标记替换为 "{}"，返回替换后的文本和被替换的片段。
func Mask(text string) (string, []string) {
	matches := maskRegexp.FindAllString(text, -1)
	return maskRegexp.ReplaceAllString(text, "{}"), matches
}

// Unmask 将 Mask 替换出的 "{}" 依次还原为原片段。
func Unmask(text string, matches []string) string {
	args := make([]any, len(matches))
	for i, m := range matches {
		args[i] = m
	}
	return Format(text, args...)
}

// TranslateText 尽力将文本翻译为目标语言。
// 目标语言为默认语言时直接返回原文；翻译器缺失、调用失败或返回结果
// 丢失了占位符时返回原文并标记 Fallback，不会返回错误。
func TranslateText(ctx context.Context, tr Translator, text, language string, logger *zap.Logger) Text {
	if language == "" || language == DefaultLanguage {
		return Text{Value: text}
	}
	if tr == nil {
		return Text{Value: text, Fallback: true}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	masked, matches := Mask(text)
	translated, err := tr.Translate(ctx, masked, language)
	if err != nil {
		logger.Debug("translation failed", zap.String("language", language), zap.Error(err))
		return Text{Value: text, Fallback: true}
	}
	if strings.Count(translated, "{}") != len(matches) {
		logger.Debug("translation dropped placeholders",
			zap.String("language", language),
			zap.String("text", masked),
			zap.String("translated", translated))
		return Text{Value: text, Fallback: true}
	}
	return Text{Value: Unmask(translated, matches)}
}
