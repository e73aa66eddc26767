package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

const (
	DefaultWrapLength     = 100
	DefaultLanguage       = "en"
	DefaultCharset        = "utf-8"
	DefaultTranslateModel = "gemini-2.5-flash"

	// EnvTranslateAPIKey 优先于配置文件中的 translate_api_key。
	EnvTranslateAPIKey = "FITSTATUS_TRANSLATE_API_KEY"
)

// 配置项名称。
const (
	KeyWrapLength      = "wrap_length"
	KeyLanguage        = "language"
	KeyQuiet           = "quiet"
	KeyCharset         = "charset"
	KeyCatalogDir      = "catalog_dir"
	KeyTranslateModel  = "translate_model"
	KeyTranslateAPIKey = "translate_api_key"
)

// Keys 按展示顺序列出全部配置项。
var Keys = []string{
	KeyWrapLength,
	KeyLanguage,
	KeyQuiet,
	KeyCharset,
	KeyCatalogDir,
	KeyTranslateModel,
	KeyTranslateAPIKey,
}

type Config struct {
	WrapLength      int // 0 表示使用终端宽度
	Language        string
	Quiet           bool
	Charset         string
	CatalogDir      string // 空表示 Dir()/catalog
	TranslateModel  string
	TranslateAPIKey string
}

// Default 返回全部取默认值的配置。
func Default() Config {
	return Config{
		WrapLength:     DefaultWrapLength,
		Language:       DefaultLanguage,
		Charset:        DefaultCharset,
		TranslateModel: DefaultTranslateModel,
	}
}

func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "fitstatus"), nil
}

func File() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// Load 读取配置文件，文件不存在时返回默认配置。
// translate_api_key 可由环境变量 FITSTATUS_TRANSLATE_API_KEY 覆盖。
func Load() (*Config, error) {
	configFile, err := File()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")
	def := Default()
	v.SetDefault(KeyWrapLength, def.WrapLength)
	v.SetDefault(KeyLanguage, def.Language)
	v.SetDefault(KeyQuiet, def.Quiet)
	v.SetDefault(KeyCharset, def.Charset)
	v.SetDefault(KeyCatalogDir, "")
	v.SetDefault(KeyTranslateModel, def.TranslateModel)
	v.SetDefault(KeyTranslateAPIKey, "")
	if err := v.BindEnv(KeyTranslateAPIKey, EnvTranslateAPIKey); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	return &Config{
		WrapLength:      v.GetInt(KeyWrapLength),
		Language:        v.GetString(KeyLanguage),
		Quiet:           v.GetBool(KeyQuiet),
		Charset:         v.GetString(KeyCharset),
		CatalogDir:      v.GetString(KeyCatalogDir),
		TranslateModel:  v.GetString(KeyTranslateModel),
		TranslateAPIKey: v.GetString(KeyTranslateAPIKey),
	}, nil
}

// Save 写入配置文件。
func Save(config Config) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	configFile, err := File()
	if err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set(KeyWrapLength, config.WrapLength)
	v.Set(KeyLanguage, config.Language)
	v.Set(KeyQuiet, config.Quiet)
	v.Set(KeyCharset, config.Charset)
	v.Set(KeyCatalogDir, config.CatalogDir)
	v.Set(KeyTranslateModel, config.TranslateModel)
	v.Set(KeyTranslateAPIKey, config.TranslateAPIKey)

	return v.WriteConfigAs(configFile)
}

// Validate 检查配置值是否合法。
func (c Config) Validate() error {
	if c.WrapLength < 0 {
		return fmt.Errorf("%s must be >= 0, got %d", KeyWrapLength, c.WrapLength)
	}
	if strings.TrimSpace(c.Charset) == "" {
		return fmt.Errorf("%s cannot be empty", KeyCharset)
	}
	if _, err := language.Parse(c.Language); err != nil {
		return fmt.Errorf("invalid %s %q: %w", KeyLanguage, c.Language, err)
	}
	return nil
}

// ResolvedCatalogDir 返回本地化目录文件所在目录。
func (c Config) ResolvedCatalogDir() (string, error) {
	if strings.TrimSpace(c.CatalogDir) != "" {
		return c.CatalogDir, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "catalog"), nil
}

// Set 按名称修改一个配置项。值无法解析或不合法时返回错误，配置保持不变。
func (c *Config) Set(key, value string) error {
	next := *c
	switch key {
	case KeyWrapLength:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
		next.WrapLength = n
	case KeyLanguage:
		next.Language = value
	case KeyQuiet:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
		next.Quiet = b
	case KeyCharset:
		next.Charset = value
	case KeyCatalogDir:
		next.CatalogDir = value
	case KeyTranslateModel:
		next.TranslateModel = value
	case KeyTranslateAPIKey:
		next.TranslateAPIKey = value
	default:
		return fmt.Errorf("unsupported key %q (supported: %s)", key, strings.Join(Keys, ", "))
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Get 按名称返回配置项的文本形式。translate_api_key 只显示是否已设置。
func (c Config) Get(key string) (string, bool) {
	switch key {
	case KeyWrapLength:
		return strconv.Itoa(c.WrapLength), true
	case KeyLanguage:
		return c.Language, true
	case KeyQuiet:
		return strconv.FormatBool(c.Quiet), true
	case KeyCharset:
		return c.Charset, true
	case KeyCatalogDir:
		return c.CatalogDir, true
	case KeyTranslateModel:
		return c.TranslateModel, true
	case KeyTranslateAPIKey:
		if c.TranslateAPIKey == "" {
			return "", true
		}
		return "(set)", true
	}
	return "", false
}
