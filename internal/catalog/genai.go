package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultTranslateModel 是未配置模型时使用的 Gemini 模型。
const DefaultTranslateModel = "gemini-2.5-flash"

var errEmptyTranslation = errors.New("empty translation")

// GenAITranslator 使用 Gemini API 翻译消息文本。
type GenAITranslator struct {
	client *genai.Client
	model  string
}

// NewGenAITranslator 创建翻译器。apiKey 不能为空。
func NewGenAITranslator(ctx context.Context, apiKey, model string) (*GenAITranslator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("translate api key is required")
	}
	if model == "" {
		model = DefaultTranslateModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GenAITranslator{client: client, model: model}, nil
}

// Translate 实现 Translator。
func (g *GenAITranslator) Translate(ctx context.Context, text, language string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(translatePrompt(text, language)), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", errEmptyTranslation
	}
	return out, nil
}

func translatePrompt(text, language string) string {
	return fmt.Sprintf(
		"Translate the following text into the language with code %q. "+
			"Keep every {} placeholder, backtick and punctuation mark exactly as written. "+
			"Reply with the translated text only.\n\n%s",
		language, text)
}
