// Package cache 提供基于 JSON 文件的翻译结果缓存。
// 缓存文件存储在 ~/.config/fitstatus/cache/ 目录下，
// 以目标语言 + 参数哈希命名，模型或原文变化时自动失效。
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Key 唯一标识一次翻译调用。
type Key struct {
	Language string
	Model    string
	Text     string
}

// Entry 是持久化到磁盘的缓存条目。
type Entry struct {
	Key         Key       `json:"key"`
	Translation string    `json:"translation"`
	CreatedAt   time.Time `json:"created_at"`
}

// String 返回稳定的短文件名，格式为 "{language}_{hash}.json"。
// 语言和模型名先去除首尾空白并转小写，原文保持原样参与摘要。
func (k Key) String() string {
	normalized := normalizeKey(k)
	lang := sanitizeFileComponent(normalized.Language)
	if lang == "" {
		lang = "xx"
	}

	payload := strings.Join([]string{normalized.Language, normalized.Model, normalized.Text}, "\n")
	digest := sha256.Sum256([]byte(payload))
	return fmt.Sprintf("%s_%x.json", lang, digest[:8])
}

// Store 管理一个目录下的缓存文件。
type Store struct {
	dir string
}

// NewStore 创建使用 dir 目录的缓存。目录在首次写入时创建。
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir 返回缓存目录。
func (s *Store) Dir() string {
	return s.dir
}

// Load 从磁盘读取并反序列化一条缓存。
// 缓存未命中时返回 os.ErrNotExist。
func (s *Store) Load(key Key) (*Entry, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	// 文件名只含摘要前缀，需要核对完整的键
	if normalizeKey(entry.Key) != normalizeKey(key) {
		return nil, os.ErrNotExist
	}
	return &entry, nil
}

// Save 将翻译结果写入磁盘。
// 写入使用 tmp + rename 的原子策略，避免并发读到半写文件。
func (s *Store) Save(key Key, translation string) error {
	cachePath := s.path(key)
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o700); err != nil {
		return err
	}

	entry := Entry{
		Key:         normalizeKey(key),
		Translation: translation,
		CreatedAt:   time.Now().UTC(),
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}

	// 原子写入：先写临时文件，再 rename
	tmpPath := cachePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, cachePath); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

func (s *Store) path(key Key) string {
	return filepath.Join(s.dir, key.String())
}

// Backend 是被缓存的翻译后端。
type Backend interface {
	Translate(ctx context.Context, text, language string) (string, error)
}

// Translator 在 Backend 前加一层磁盘缓存。只缓存成功的翻译；
// 缓存读写失败只记录日志，不影响翻译结果。
type Translator struct {
	Backend Backend
	Store   *Store
	Model   string
	Logger  *zap.Logger
}

// Translate 实现 catalog.Translator。
func (t *Translator) Translate(ctx context.Context, text, language string) (string, error) {
	logger := t.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	key := Key{Language: language, Model: t.Model, Text: text}

	entry, err := t.Store.Load(key)
	switch {
	case err == nil:
		logger.Debug("translation cache hit", zap.String("file", key.String()))
		return entry.Translation, nil
	case !errors.Is(err, fs.ErrNotExist):
		logger.Debug("translation cache unreadable", zap.String("file", key.String()), zap.Error(err))
	}

	translated, err := t.Backend.Translate(ctx, text, language)
	if err != nil {
		return "", err
	}
	if err := t.Store.Save(key, translated); err != nil {
		logger.Debug("translation cache write failed", zap.Error(err))
	}
	return translated, nil
}

// normalizeKey 规范化缓存键，保证相同语义的参数产生相同的键。
func normalizeKey(key Key) Key {
	normalized := key
	normalized.Language = strings.ToLower(strings.TrimSpace(normalized.Language))
	normalized.Model = strings.ToLower(strings.TrimSpace(normalized.Model))
	return normalized
}

// sanitizeFileComponent 清理文件名组成部分，将路径分隔符、空格、冒号替换为下划线。
func sanitizeFileComponent(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return ""
	}
	replacer := strings.NewReplacer(
		string(filepath.Separator), "_",
		" ", "_",
		":", "_",
	)
	return replacer.Replace(name)
}
