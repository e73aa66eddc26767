package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"fitstatus/internal/console"
	"fitstatus/internal/status"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// 命令行标志变量
var (
	replayInterval time.Duration // 两帧之间的间隔
	replayNoInline bool          // 不原地刷新，逐帧追加输出
)

// replayCmd 实现 replay 子命令，按顺序渲染快照文件中的每一帧。
// 快照文件可以是 JSON Lines 或 YAML 多文档流，"-" 表示标准输入。
// 用法: fitstatus replay <file> [--interval 200ms] [--no-inline]
var replayCmd = newReplayCmd()

// newReplayCmd 构建 replay 命令，便于在测试中复用。
func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Render a stream of sampler snapshots",
		Example: `  fitstatus replay run.jsonl
  fitstatus replay --interval 250ms snapshots.yaml
  sampler --emit-status | fitstatus replay -`,
		Args: cobra.ExactArgs(1),
		RunE: runReplay,
	}
	addReplayFlags(cmd)
	return cmd
}

// init 注册 replay 命令。
func init() {
	rootCmd.AddCommand(replayCmd)
}

func addReplayFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&replayInterval, "interval", 0, "Delay between snapshots")
	cmd.Flags().BoolVar(&replayNoInline, "no-inline", false, "Append every snapshot instead of redrawing in place")
}

// runReplay 读取全部快照后逐帧输出。快照格式错误属于配置错误，直接返回。
func runReplay(cmd *cobra.Command, args []string) error {
	snaps, err := readSnapshots(cmd, args[0])
	if err != nil {
		return err
	}

	rc, err := prepareRun(cmd, runOptions{noInline: replayNoInline})
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	for i, s := range snaps {
		if i > 0 && replayInterval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(replayInterval):
			}
		}
		if err := rc.Printer.Status(s); err != nil {
			return err
		}
	}
	rc.Logger.Debug("replay finished", zap.String("source", args[0]), zap.Int("snapshots", len(snaps)))

	_, err = rc.Printer.Message("replay_done", []any{len(snaps)}, console.Options{})
	return err
}

func readSnapshots(cmd *cobra.Command, path string) ([]status.Snapshot, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	snaps, err := status.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode snapshots %s: %w", path, err)
	}
	return snaps, nil
}
