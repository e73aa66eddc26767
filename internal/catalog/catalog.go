// Package catalog 提供消息目录：短键到带位置占位符模板的映射。
//
// 默认英文目录内嵌在二进制中（strings.json），可按语言从目录文件覆盖，
// 缺失的语言文件可以借助 Translator 在线生成并原子写回磁盘。
// 查找不存在的键不会失败，而是返回带明显标记的占位文本。
package catalog

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLanguage 是内嵌目录的语言。
const DefaultLanguage = "en"

//go:embed strings.json
var defaultStrings []byte

// placeholderRegexp 匹配 "{}" 和 "{N}" 两种位置占位符。
var placeholderRegexp = regexp.MustCompile(`\{(\d*)\}`)

// Catalog 是只读的消息目录。
type Catalog struct {
	language string
	strings  map[string]string
}

// Text 是一次查找或翻译的结果。Fallback 为 true 表示使用了降级路径
// （缺失键的占位文本，或未翻译的原文）。
type Text struct {
	Value    string
	Fallback bool
}

// String 实现 fmt.Stringer。
func (t Text) String() string {
	return t.Value
}

// New 用给定的语言和映射构建目录，映射会被拷贝。
func New(language string, entries map[string]string) *Catalog {
	c := &Catalog{language: language, strings: make(map[string]string, len(entries))}
	for k, v := range entries {
		c.strings[k] = v
	}
	return c
}

// Default 返回内嵌的英文目录。
func Default() *Catalog {
	entries, err := Parse(defaultStrings)
	if err != nil {
		// 内嵌资源在构建期固定，解析失败属于编程错误
		panic(fmt.Sprintf("catalog: parse embedded strings: %v", err))
	}
	return New(DefaultLanguage, entries)
}

// Parse 解析 JSON（或 YAML）格式的目录内容。
func Parse(data []byte) (map[string]string, error) {
	entries := make(map[string]string)
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return entries, nil
}

// Language 返回目录语言。
func (c *Catalog) Language() string {
	return c.language
}

// Keys 返回按字典序排序的全部键。
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.strings))
	for k := range c.strings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entries 返回目录内容的拷贝。
func (c *Catalog) Entries() map[string]string {
	out := make(map[string]string, len(c.strings))
	for k, v := range c.strings {
		out[k] = v
	}
	return out
}

// SameKeys 判断两个目录的键集合是否完全一致。
func (c *Catalog) SameKeys(other *Catalog) bool {
	if len(c.strings) != len(other.strings) {
		return false
	}
	for k := range c.strings {
		if _, ok := other.strings[k]; !ok {
			return false
		}
	}
	return true
}

// Get 返回键对应的原始模板。
func (c *Catalog) Get(key string) (string, bool) {
	v, ok := c.strings[key]
	return v, ok
}

// GetOr 返回键对应的模板，不存在时返回 fallback。
func (c *Catalog) GetOr(key, fallback string) string {
	if v, ok := c.strings[key]; ok {
		return v
	}
	return fallback
}

// Lookup 返回键对应的模板（未填充参数）。
// 键不存在时返回 Placeholder(nargs)，并将 Fallback 置为 true。
func (c *Catalog) Lookup(key string, nargs int) Text {
	if v, ok := c.strings[key]; ok {
		return Text{Value: v}
	}
	return Text{Value: Placeholder(nargs), Fallback: true}
}

// Message 查找模板并按位置填入参数。
func (c *Catalog) Message(key string, args ...any) Text {
	t := c.Lookup(key, len(args))
	t.Value = Format(t.Value, args...)
	return t
}

// Placeholder 返回缺失键的占位文本，每个预期参数对应一个空槽 "{}"。
func Placeholder(nargs int) string {
	slots := strings.TrimSpace(strings.Repeat("{} ", nargs))
	return "< Message not found [" + slots + "] >"
}

// Format 依次用 args 填充模板中的 "{}"，"{N}" 引用第 N 个参数。
// 参数不足时占位符原样保留，多余的参数被忽略。
func Format(template string, args ...any) string {
	next := 0
	return placeholderRegexp.ReplaceAllStringFunc(template, func(m string) string {
		idx := next
		if inner := m[1 : len(m)-1]; inner != "" {
			n, err := strconv.Atoi(inner)
			if err != nil {
				return m
			}
			idx = n
		} else {
			next++
		}
		if idx < 0 || idx >= len(args) {
			return m
		}
		return fmt.Sprint(args[idx])
	})
}
