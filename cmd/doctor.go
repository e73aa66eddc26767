package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"fitstatus/internal/catalog"
	"fitstatus/internal/config"
	"fitstatus/internal/console"

	"github.com/spf13/cobra"
)

// doctorCmd 实现 doctor 子命令，一站式诊断环境和配置问题。
// 依次执行 5 项检查：配置合法性、输出字符集、消息目录、翻译后端、进程序号。
// 有错误时返回非零退出码，仅警告时返回 0。
// 用法: fitstatus doctor
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose environment and configuration issues",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

// init 注册 doctor 命令。
func init() {
	rootCmd.AddCommand(doctorCmd)
}

// runDoctor 是 doctor 命令的核心逻辑，按顺序执行 5 项诊断检查：
//  1. 配置合法性（wrap_length、language、charset）
//  2. 输出字符集可用
//  3. 消息目录（语言文件存在且与内嵌目录键集合一致）
//  4. 翻译后端（非英文语言需要 API key）
//  5. 进程序号（非 0 号进程不输出）
//
// 输出使用 ✅/⚠️/❌ 分类显示，有错误时返回 error（exit 非零）。
func runDoctor(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Running diagnostics...")

	hasError := false

	// 1. 配置合法性检查
	cfg, cfgErr := loadConfig(cmd)
	if cfgErr != nil {
		fmt.Fprintf(out, "❌ Config: %v\n", cfgErr)
		return fmt.Errorf("doctor found issues")
	}
	fmt.Fprintln(out, "✅ Config: OK")

	// 2. 字符集检查
	charset := resolveCharset(cfg.Charset)
	if _, err := console.NewWriter(io.Discard, console.Capability{}, console.WriterOptions{Charset: charset}); err != nil {
		hasError = true
		fmt.Fprintf(out, "❌ Charset: %v\n", err)
	} else {
		fmt.Fprintf(out, "✅ Charset: %s\n", charset)
	}

	// 3. 消息目录检查
	for _, line := range checkCatalog(cfg) {
		fmt.Fprintln(out, line)
	}

	// 4. 翻译后端检查
	switch {
	case cfg.Language == catalog.DefaultLanguage:
		fmt.Fprintln(out, "✅ Translation: not needed")
	case cfg.TranslateAPIKey == "":
		fmt.Fprintf(out, "⚠️  Translation: no API key (set %s or %s)\n", config.KeyTranslateAPIKey, config.EnvTranslateAPIKey)
	default:
		fmt.Fprintf(out, "✅ Translation: %s\n", cfg.TranslateModel)
	}

	// 5. 进程序号检查
	if rank, ok := rankFromEnv(os.Getenv); ok && rank != 0 {
		fmt.Fprintf(out, "⚠️  Rank: %d (console output is suppressed on non-zero ranks)\n", rank)
	} else {
		fmt.Fprintln(out, "✅ Rank: leader")
	}

	if hasError {
		return fmt.Errorf("doctor found issues")
	}
	return nil
}

// checkCatalog 检查语言文件状态，返回要输出的行。
func checkCatalog(cfg *config.Config) []string {
	if cfg.Language == catalog.DefaultLanguage {
		return []string{"✅ Catalog: built-in (en)"}
	}

	dir, err := cfg.ResolvedCatalogDir()
	if err != nil {
		return []string{fmt.Sprintf("⚠️  Catalog: %v", err)}
	}
	path := catalog.LocalePath(dir, cfg.Language)

	local, err := catalog.ReadFile(path, cfg.Language)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return []string{fmt.Sprintf("⚠️  Catalog: %s not built yet", path), "   - run: fitstatus catalog build " + cfg.Language}
	case err != nil:
		return []string{fmt.Sprintf("⚠️  Catalog: %v", err)}
	case !local.SameKeys(catalog.Default()):
		return []string{fmt.Sprintf("⚠️  Catalog: %s is out of date", path), "   - run: fitstatus catalog build " + cfg.Language}
	}
	return []string{fmt.Sprintf("✅ Catalog: %s", path)}
}
