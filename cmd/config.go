package cmd

import (
	"fmt"
	"io"

	"fitstatus/internal/config"

	"github.com/spf13/cobra"
)

// configCmd 实现 config 子命令，用于查看或修改默认配置。
// 支持两种模式：
// 1. fitstatus config - 显示当前配置
// 2. fitstatus config <key> <value> - 设置配置项
var configCmd = newConfigCmd()

// newConfigCmd 构建 config 命令，便于在测试中复用。
func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config [key] [value]",
		Short: "Set or show default configuration",
		Long: `View or modify default configuration.

Without arguments, displays the current configuration.
With key/value, sets the specified option.

Keys: wrap_length, language, quiet, charset, catalog_dir,
translate_model, translate_api_key.`,
		Example: `  fitstatus config
  fitstatus config wrap_length 120
  fitstatus config wrap_length 0
  fitstatus config language fr
  fitstatus config charset auto`,
		Args: validateConfigArgs,
		RunE: runConfig,
	}
}

// validateConfigArgs 校验 config 参数格式。
func validateConfigArgs(cmd *cobra.Command, args []string) error {
	// 无参数：显示配置
	if len(args) == 0 {
		return nil
	}
	// 设置配置需要正好两个参数
	if len(args) != 2 {
		return fmt.Errorf("usage: fitstatus config [key] <value>")
	}
	return nil
}

// runConfig 显示或修改配置。
func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// 无参数时显示当前配置
	if len(args) == 0 {
		printConfig(cmd.OutOrStdout(), *cfg)
		return nil
	}

	if err := cfg.Set(args[0], args[1]); err != nil {
		return err
	}
	return config.Save(*cfg)
}

// printConfig 按 config.Keys 的顺序输出全部配置项。
func printConfig(out io.Writer, cfg config.Config) {
	for _, key := range config.Keys {
		value, _ := cfg.Get(key)
		if value == "" {
			value = "(none)"
		}
		fmt.Fprintf(out, "%s: %s\n", key, value)
	}
}

// init 注册 config 命令。
func init() {
	rootCmd.AddCommand(configCmd)
}
