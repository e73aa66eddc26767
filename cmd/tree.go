package cmd

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"fitstatus/internal/console"
	"fitstatus/internal/tree"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// treeCmd 实现 tree 子命令，把嵌套映射（YAML 或 JSON）渲染为依赖树。
// 每个顶层键对应一棵树，按名称排序输出。
// 用法: fitstatus tree <file>
var treeCmd = newTreeCmd()

// newTreeCmd 构建 tree 命令，便于在测试中复用。
func newTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree <file>",
		Short: "Print nested dependencies as a tree",
		Example: `  fitstatus tree model.yaml
  fitstatus tree parameters.json`,
		Args: cobra.ExactArgs(1),
		RunE: runTree,
	}
}

// init 注册 tree 命令。
func init() {
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	forest, err := readForest(args[0])
	if err != nil {
		return err
	}

	rc, err := prepareRun(cmd, runOptions{})
	if err != nil {
		return err
	}

	for _, label := range slices.Sorted(maps.Keys(forest)) {
		if _, err := rc.Printer.Message("dependency_tree", []any{label}, console.Options{}); err != nil {
			return err
		}
		if err := rc.Printer.Tree(tree.Forest{label: forest[label]}); err != nil {
			return err
		}
	}
	return nil
}

// readForest 解析依赖文件。JSON 是 YAML 的子集，统一用 yaml.v3 解码。
func readForest(path string) (tree.Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode tree %s: %w", path, err)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("decode tree %s: no top-level entries", path)
	}
	return tree.FromMap(m), nil
}
