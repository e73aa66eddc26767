package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// 全局标志，覆盖配置文件中的同名配置项
var (
	flagVerbose    bool
	flagWrap       int
	flagLanguage   string
	flagQuiet      bool
	flagCharset    string
	flagTrackLines bool
)

// logger 在 PersistentPreRunE 中初始化，命令执行前均为 no-op。
var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:   "fitstatus",
	Short: "Live diagnostic console for ensemble fitting runs",
	Long: `fitstatus renders sampler snapshots (scores, acceptance rates, convergence
statistics and a correlation heatmap) as a compact status block that is
redrawn in place, and prints dependency trees and prompts in the same style.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(flagVerbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	addGlobalFlags(rootCmd)
}

// addGlobalFlags 为根命令添加全局标志，测试中也用它构造独立的根命令。
func addGlobalFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	pf.IntVarP(&flagWrap, "wrap", "w", 0, "Wrap length (0: terminal width; default: config value)")
	pf.StringVarP(&flagLanguage, "language", "l", "", "Output language (default: config value)")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress all console output")
	pf.StringVar(&flagCharset, "charset", "", `Output charset, or "auto" to detect from the locale`)
	pf.BoolVar(&flagTrackLines, "track-lines", false, "Erase the previously written line count when redrawing")
}

// newLogger 构建诊断日志。默认只输出警告，--verbose 时输出调试信息。
func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}
