package cmd

import (
	"fmt"
	"strings"

	"fitstatus/internal/catalog"

	"github.com/spf13/cobra"
)

// catalogCmd 实现 catalog 命令组，管理本地化的消息目录。
var catalogCmd = newCatalogCmd()

// newCatalogCmd 构建 catalog 命令组，便于在测试中复用。
func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage translated message catalogs",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(newCatalogBuildCmd())
	cmd.AddCommand(newCatalogShowCmd())
	return cmd
}

// newCatalogBuildCmd 构建 catalog build 子命令：无论语言文件是否已存在，都重新翻译并写回。
func newCatalogBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build [language]",
		Short: "Translate the message catalog and save it",
		Long: `Translate every message into the given language (default: the configured
language) with the configured translation backend and save the result as
strings-<language>.json in the catalog directory.`,
		Example: `  fitstatus catalog build fr
  FITSTATUS_TRANSLATE_API_KEY=... fitstatus catalog build de`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCatalogBuild,
	}
}

// newCatalogShowCmd 构建 catalog show 子命令，按键名输出当前生效的目录。
func newCatalogShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active message catalog",
		Args:  cobra.NoArgs,
		RunE:  runCatalogShow,
	}
}

func runCatalogBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Language = strings.TrimSpace(args[0])
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if cfg.Language == catalog.DefaultLanguage {
		return fmt.Errorf("%q is the built-in language, nothing to build", cfg.Language)
	}

	ctx := commandContext(cmd)
	translator := newTranslator(ctx, cmd, cfg)
	if translator == nil {
		return fmt.Errorf("%w: %s", errTranslatorMissing, catalog.Default().GetOr("translator_missing", ""))
	}

	dir, err := cfg.ResolvedCatalogDir()
	if err != nil {
		return err
	}
	base := catalog.Default()
	fmt.Fprintln(cmd.ErrOrStderr(), base.Message("building_strings", cfg.Language).Value)

	built := catalog.Build(ctx, base, cfg.Language, translator, progressWriter(cmd.ErrOrStderr()), logger)
	path := catalog.LocalePath(dir, cfg.Language)
	if err := catalog.Save(path, built); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "catalog %q saved: %s\n", cfg.Language, path)
	return nil
}

func runCatalogShow(cmd *cobra.Command, _ []string) error {
	rc, err := prepareRun(cmd, runOptions{noInline: true})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	c := rc.Catalog.Catalog
	fmt.Fprintf(out, "language: %s\n", c.Language())
	if rc.Catalog.Path != "" {
		fmt.Fprintf(out, "file: %s\n", rc.Catalog.Path)
	}
	if rc.Catalog.Fallback {
		fmt.Fprintln(out, "fallback: built-in English catalog")
	}
	for _, key := range c.Keys() {
		value, _ := c.Get(key)
		fmt.Fprintf(out, "  %s: %s\n", key, value)
	}
	return nil
}

// init 注册 catalog 命令。
func init() {
	rootCmd.AddCommand(catalogCmd)
}
