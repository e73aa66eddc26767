// Package tree 将嵌套的 名称→子节点 映射渲染为带框线字符的依赖树。
//
// 渲染分两步：先按结构生成带缩进连接符的原始行，再用两遍纯函数修正
// 每个深度上最后一个子节点的拐角字符。
package tree

import (
	"sort"
	"strings"
)

// 框线字符。
const (
	Vertical = '│'
	Branch   = '├'
	Corner   = '└'
)

// Margin 是每行输出的固定左边距。
const Margin = "  "

// Node 是树中的一个节点，Children 的顺序无关，渲染时按名称排序。
type Node struct {
	Label    string
	Children map[string]Node
}

// Forest 是一个或多个根节点。
type Forest map[string]Node

// FromMap 从外部嵌套映射构建森林（如 YAML / JSON 解码结果）。
// 非映射值视为叶子节点。
func FromMap(m map[string]any) Forest {
	out := make(Forest, len(m))
	for label, v := range m {
		out[label] = fromValue(label, v)
	}
	return out
}

func fromValue(label string, v any) Node {
	n := Node{Label: label}
	child, ok := v.(map[string]any)
	if !ok || len(child) == 0 {
		return n
	}
	n.Children = make(map[string]Node, len(child))
	for k, cv := range child {
		n.Children[k] = fromValue(k, cv)
	}
	return n
}

// Render 按根名称排序，分别渲染每棵树，返回每棵树的行列表。
func Render(forest Forest) [][]string {
	roots := sortedLabels(forest)
	out := make([][]string, 0, len(roots))
	for _, label := range roots {
		root := forest[label]
		if root.Label == "" {
			root.Label = label
		}
		out = append(out, RenderNode(root))
	}
	return out
}

// Line 是一行原始输出。Prefix 是行首边距加连接符所占的 rune 数，
// 之后都是标签文字，修正拐角时不会改写。
type Line struct {
	Text   string
	Prefix int
}

// RenderNode 渲染一棵树：根节点以 "label:" 形式不缩进显示，子节点逐层缩进。
func RenderNode(root Node) []string {
	raw := []Line{{Text: Margin + root.Label + ":", Prefix: len(Margin)}}
	raw = appendChildren(raw, root.Children, 1)
	return CorrectCorners(raw)
}

// appendChildren 生成原始行：深度 d 的节点前缀为 (d-1) 个 "│ " 加一个 "├ "。
func appendChildren(lines []Line, children map[string]Node, depth int) []Line {
	for _, label := range sortedLabels(children) {
		prefix := strings.Repeat(string(Vertical)+" ", depth-1) + string(Branch) + " "
		lines = append(lines, Line{Text: Margin + prefix + label, Prefix: len(Margin) + 2*depth})
		lines = appendChildren(lines, children[label].Children, depth+1)
	}
	return lines
}

// CorrectCorners 对原始行做两遍修正，返回新的行列表，不修改输入。
//
// 第一遍（自上而下）：下一行的 │ 数量少于当前行时，当前行的 ├ 改为 └。
// 第二遍（自下而上）：最后一行的 │ 清空、├ 改为 └；其余行只在下一行（已修正）
// 同列为空格的位置改写 │ 和 ├。只比较和改写每行的 Prefix 部分，下一行在该列
// 已经是标签文字时视为空格。
func CorrectCorners(lines []Line) []string {
	n := len(lines)
	rows := make([][]rune, n)
	for i, line := range lines {
		rows[i] = []rune(line.Text)
	}
	prefix := func(row []rune, i int) []rune {
		return row[:min(max(lines[i].Prefix, 0), len(row))]
	}

	for i := 0; i < n-1; i++ {
		if countRune(prefix(rows[i+1], i+1), Vertical) < countRune(prefix(rows[i], i), Vertical) {
			replaceAll(prefix(rows[i], i), Branch, Corner)
		}
	}

	out := make([][]rune, n)
	for i := n - 1; i >= 0; i-- {
		row := append([]rune(nil), rows[i]...)
		head := prefix(row, i)
		if i == n-1 {
			for ci, r := range head {
				switch r {
				case Vertical:
					row[ci] = ' '
				case Branch:
					row[ci] = Corner
				}
			}
			out[i] = row
			continue
		}

		next := prefix(out[i+1], i+1)
		for ci, r := range head {
			if r != Vertical && r != Branch {
				continue
			}
			if ci < len(next) && next[ci] != ' ' {
				continue
			}
			if r == Vertical {
				row[ci] = ' '
			} else {
				row[ci] = Corner
			}
		}
		out[i] = row
	}

	result := make([]string, n)
	for i, row := range out {
		result[i] = string(row)
	}
	return result
}

func countRune(row []rune, target rune) int {
	c := 0
	for _, r := range row {
		if r == target {
			c++
		}
	}
	return c
}

func replaceAll(row []rune, from, to rune) {
	for i, r := range row {
		if r == from {
			row[i] = to
		}
	}
}

func sortedLabels[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
