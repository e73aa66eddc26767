package cmd

import (
	"errors"
	"fmt"
	"strings"

	"fitstatus/internal/console"

	"github.com/spf13/cobra"
)

// 命令行标志变量
var (
	askKind      string   // bool/select/string
	askOptions   []string // select 的候选项
	askNone      string   // select 中 "[n]" 的说明
	askTranslate bool     // 按配置语言翻译提问
)

// askCmd 实现 ask 子命令，向用户提问并把回答写到标准输出，便于在脚本中使用。
// bool 输出 yes/no；select 输出选中的选项，未选中时输出空行并返回非零退出码。
var askCmd = newAskCmd()

// newAskCmd 构建 ask 命令，便于在测试中复用。
func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask an interactive question",
		Example: `  fitstatus ask "Continue fitting?"
  fitstatus ask --kind select -o slsn -o csm -o ia "Pick a model:"
  fitstatus ask --kind string "Event name?"`,
		Args: cobra.ExactArgs(1),
		RunE: runAsk,
	}
	addAskFlags(cmd)
	return cmd
}

var errNothingSelected = errors.New("nothing selected")

// init 注册 ask 命令。
func init() {
	rootCmd.AddCommand(askCmd)
}

func addAskFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&askKind, "kind", "k", string(console.PromptBool), "Prompt kind: bool/select/string")
	cmd.Flags().StringArrayVarP(&askOptions, "option", "o", nil, "Option for select prompts (repeatable)")
	cmd.Flags().StringVar(&askNone, "none", "", "Label for the \"none\" choice of select prompts")
	cmd.Flags().BoolVar(&askTranslate, "translate", false, "Translate the question into the configured language")
}

func runAsk(cmd *cobra.Command, args []string) error {
	kind := console.PromptKind(strings.ToLower(strings.TrimSpace(askKind)))
	if kind == console.PromptSelect && len(askOptions) == 0 {
		return fmt.Errorf("select prompts need at least one --option")
	}

	rc, err := prepareRun(cmd, runOptions{noInline: true})
	if err != nil {
		return err
	}

	res, err := rc.Printer.Prompt(commandContext(cmd), args[0], console.PromptOptions{
		Kind:       kind,
		Options:    askOptions,
		NoneString: askNone,
		Translate:  askTranslate,
	})
	if err != nil {
		return err
	}

	// 回答直接写到标准输出，不受 quiet / leader 限制
	out := cmd.OutOrStdout()
	switch res.Kind {
	case console.PromptBool:
		if res.Bool {
			fmt.Fprintln(out, "yes")
		} else {
			fmt.Fprintln(out, "no")
		}
	case console.PromptSelect:
		fmt.Fprintln(out, res.Choice)
		if !res.Selected {
			return errNothingSelected
		}
	default:
		fmt.Fprintln(out, res.Text)
	}
	return nil
}
