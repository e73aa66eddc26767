// Package status 将采样器每个报告周期产生的收敛快照组合为状态文本行。
package status

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMessagesNotList 表示快照中的 messages 字段不是序列。
var ErrMessagesNotList = errors.New("`messages` must be a list")

// Progress 是迭代进度，Total 为 0 表示总数未知。
type Progress struct {
	Current int
	Total   int
}

// Acor 是自相关时间估计。
type Acor struct {
	Tau      float64 // 自相关时间
	Ratio    float64 // 链长与 Tau 的比值
	MinIndex int     // 老化（burn-in）后的起始样本下标
}

// PSRF 是潜在尺度缩减因子（Gelman–Rubin 统计量）。
type PSRF struct {
	Value    float64
	MinIndex int
}

// Estimate 是剩余时间估计（秒）。
type Estimate struct {
	Primary         float64 // 主采样阶段，负数表示运行到收敛为止
	Secondary       float64 // fracking 阶段，0 表示尚未测得
	FrackingEnabled bool
}

// Snapshot 是一次渲染的输入。字段为 nil 表示“尚不可用”，与零值区分。
// 渲染过程不修改也不保留快照。
type Snapshot struct {
	EventName         string
	Description       string // 目录键，如 "burning"
	Scores            [][]float64
	Fracking          bool // 当前处于 fracking（局部精修）阶段
	Accepts           []float64
	Progress          *Progress
	Acor              *Acor
	PSRF              *PSRF
	Estimate          *Estimate
	Messages          []string
	CorrelationMatrix [][]float64
	MakeSpace         bool // 为 true 时不覆盖上一次的输出
}

// wireSnapshot 是快照在 JSON / YAML 流中的形式。
type wireSnapshot struct {
	Event     string        `yaml:"event"`
	Desc      string        `yaml:"desc"`
	Scores    [][]float64   `yaml:"scores"`
	Fracking  bool          `yaml:"fracking"`
	Accepts   []float64     `yaml:"accepts"`
	Progress  []*int        `yaml:"progress"`
	Acor      []float64     `yaml:"acor"`
	PSRF      []float64     `yaml:"psrf"`
	Estimate  *wireEstimate `yaml:"estimate"`
	Messages  any           `yaml:"messages"`
	Kmat      [][]float64   `yaml:"kmat"`
	MakeSpace bool          `yaml:"make_space"`
}

type wireEstimate struct {
	Primary         float64 `yaml:"primary"`
	Secondary       float64 `yaml:"secondary"`
	FrackingEnabled bool    `yaml:"fracking_enabled"`
}

// Decode 读取快照流。支持两种格式：每行一个 JSON 对象（JSON Lines），
// 或以 "---" 分隔的 YAML 文档流。
func Decode(r io.Reader) ([]Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var docs []wireSnapshot
	if trimmed[0] == '{' {
		for i, line := range strings.Split(string(trimmed), "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			var w wireSnapshot
			if err := yaml.Unmarshal([]byte(line), &w); err != nil {
				return nil, fmt.Errorf("snapshot line %d: %w", i+1, err)
			}
			docs = append(docs, w)
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(trimmed))
		for i := 1; ; i++ {
			var w wireSnapshot
			err := dec.Decode(&w)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("snapshot document %d: %w", i, err)
			}
			docs = append(docs, w)
		}
	}

	out := make([]Snapshot, 0, len(docs))
	for i, w := range docs {
		s, err := w.snapshot()
		if err != nil {
			return nil, fmt.Errorf("snapshot %d: %w", i+1, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func (w wireSnapshot) snapshot() (Snapshot, error) {
	s := Snapshot{
		EventName:         w.Event,
		Description:       w.Desc,
		Scores:            w.Scores,
		Fracking:          w.Fracking,
		Accepts:           w.Accepts,
		CorrelationMatrix: w.Kmat,
		MakeSpace:         w.MakeSpace,
	}

	messages, err := messageList(w.Messages)
	if err != nil {
		return Snapshot{}, err
	}
	s.Messages = messages

	if len(w.Progress) > 0 && w.Progress[0] != nil {
		p := &Progress{Current: *w.Progress[0]}
		if len(w.Progress) > 1 && w.Progress[1] != nil {
			p.Total = *w.Progress[1]
		}
		s.Progress = p
	}

	switch n := len(w.Acor); {
	case n == 0:
	case n == 3:
		s.Acor = &Acor{Tau: w.Acor[0], Ratio: w.Acor[1], MinIndex: int(w.Acor[2])}
	default:
		return Snapshot{}, fmt.Errorf("acor must have 3 values (tau, ratio, index), got %d", n)
	}

	switch n := len(w.PSRF); {
	case n == 0:
	case n == 2:
		s.PSRF = &PSRF{Value: w.PSRF[0], MinIndex: int(w.PSRF[1])}
	default:
		return Snapshot{}, fmt.Errorf("psrf must have 2 values (value, index), got %d", n)
	}

	if w.Estimate != nil {
		s.Estimate = &Estimate{
			Primary:         w.Estimate.Primary,
			Secondary:       w.Estimate.Secondary,
			FrackingEnabled: w.Estimate.FrackingEnabled,
		}
	}
	return s, nil
}

// messageList 校验 messages 字段必须是字符串序列。
func messageList(v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, ErrMessagesNotList
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, fmt.Sprint(it))
	}
	return out, nil
}
