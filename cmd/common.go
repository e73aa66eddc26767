package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fitstatus/internal/cache"
	"fitstatus/internal/catalog"
	"fitstatus/internal/config"
	"fitstatus/internal/console"
	"fitstatus/internal/status"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var errTranslatorMissing = errors.New("translation backend not configured")

// rankEnvVars 是常见 MPI / 调度器设置的进程序号环境变量，按优先级排列。
var rankEnvVars = []string{"OMPI_COMM_WORLD_RANK", "PMI_RANK", "PMIX_RANK", "SLURM_PROCID"}

// RunContext holds the common initialization result for commands.
type RunContext struct {
	Config  *config.Config
	Catalog catalog.Loaded
	Printer *console.Printer
	Logger  *zap.Logger
}

// runOptions 是各命令对公共初始化的额外要求。
type runOptions struct {
	noInline bool
}

// prepareRun performs common command initialization:
// load config, apply flag overrides, load the message catalog, build the printer.
func prepareRun(cmd *cobra.Command, opts runOptions) (*RunContext, error) {
	ctx := commandContext(cmd)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	translator := newTranslator(ctx, cmd, cfg)

	dir, err := cfg.ResolvedCatalogDir()
	if err != nil {
		return nil, err
	}
	loaded := catalog.Load(ctx, catalog.LoadOptions{
		Language:   cfg.Language,
		Dir:        dir,
		Translator: translator,
		Logger:     logger,
		Notice:     cmd.ErrOrStderr(),
		Progress:   progressWriter(cmd.ErrOrStderr()),
	})

	printer, err := console.New(console.Config{
		Out: out,
		In:  cmd.InOrStdin(),
		Capability: console.Capability{
			Quiet:    cfg.Quiet,
			IsLeader: leaderFromEnv(os.Getenv),
		},
		Charset:    resolveCharset(cfg.Charset),
		TrackLines: flagTrackLines,
		WrapLength: resolveWrapLength(cfg.WrapLength, out),
		Catalog:    loaded.Catalog,
		Translator: translator,
		Language:   cfg.Language,
		WAIC:       status.WAIC,
		NoInline:   opts.noInline || !isTerminal(out),
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	return &RunContext{
		Config:  cfg,
		Catalog: loaded,
		Printer: printer,
		Logger:  logger,
	}, nil
}

// loadConfig 读取配置并套用命令行覆盖，返回校验后的配置。
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("wrap") {
		cfg.WrapLength = flagWrap
	}
	if flags.Changed("language") {
		cfg.Language = strings.TrimSpace(flagLanguage)
	}
	if flags.Changed("quiet") {
		cfg.Quiet = flagQuiet
	}
	if flags.Changed("charset") {
		cfg.Charset = strings.TrimSpace(flagCharset)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newTranslator 在需要翻译且配置了 API key 时创建带磁盘缓存的 Gemini 翻译器。
// 创建失败只输出警告，返回 nil。
func newTranslator(ctx context.Context, cmd *cobra.Command, cfg *config.Config) catalog.Translator {
	if cfg.Language == "" || cfg.Language == catalog.DefaultLanguage {
		return nil
	}
	if strings.TrimSpace(cfg.TranslateAPIKey) == "" {
		return nil
	}

	backend, err := catalog.NewGenAITranslator(ctx, cfg.TranslateAPIKey, cfg.TranslateModel)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
		return nil
	}

	dir, err := config.Dir()
	if err != nil {
		return backend
	}
	return &cache.Translator{
		Backend: backend,
		Store:   cache.NewStore(filepath.Join(dir, "cache")),
		Model:   cfg.TranslateModel,
		Logger:  logger,
	}
}

// leaderFromEnv 根据进程序号环境变量判断当前进程是否为 leader（序号 0）。
// 未设置任何序号变量时视为单进程运行，始终是 leader。
func leaderFromEnv(getenv func(string) string) func() bool {
	rank, ok := rankFromEnv(getenv)
	leader := !ok || rank == 0
	return func() bool { return leader }
}

func rankFromEnv(getenv func(string) string) (int, bool) {
	for _, key := range rankEnvVars {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			continue
		}
		if n, err := strconv.Atoi(v); err == nil {
			return n, true
		}
	}
	return 0, false
}

// resolveCharset 展开 "auto"，空值视为 UTF-8。
func resolveCharset(charset string) string {
	switch strings.ToLower(charset) {
	case "auto":
		return console.DetectCharset(os.Getenv)
	case "":
		return config.DefaultCharset
	}
	return charset
}

// resolveWrapLength 在配置为 0 时使用终端宽度，无法获取时使用默认宽度。
func resolveWrapLength(configured int, out io.Writer) int {
	if configured > 0 {
		return configured
	}
	if f, ok := out.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return config.DefaultWrapLength
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// progressWriter 仅在 w 是终端时返回 w，用于决定是否显示进度条。
func progressWriter(w io.Writer) io.Writer {
	if isTerminal(w) {
		return w
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
