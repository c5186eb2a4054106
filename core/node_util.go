package core

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// --- 各编码适配器共用的节点遍历辅助 ---

// NodeText 返回节点对应的源码文本，nil 节点返回 ""。
func NodeText(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(src)
}

// NamedChildren 收集节点的全部命名子节点。
func NamedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	var out []*sitter.Node
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child != nil && child.IsNamed() {
			out = append(out, child)
		}
	}
	return out
}

// ChildOfKind 返回第一个指定种类的子节点，不存在时为 nil。
func ChildOfKind(n *sitter.Node, kind string) *sitter.Node {
	if n == nil {
		return nil
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

// ChildrenOfKind 收集全部指定种类的子节点。
func ChildrenOfKind(n *sitter.Node, kind string) []*sitter.Node {
	if n == nil {
		return nil
	}
	var out []*sitter.Node
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child != nil && child.Kind() == kind {
			out = append(out, child)
		}
	}
	return out
}

// HasChildOfKind 报告节点是否存在指定种类的子节点（含匿名节点，
// 用于识别 static / get / set / type 等关键字标记）。
func HasChildOfKind(n *sitter.Node, kind string) bool {
	return ChildOfKind(n, kind) != nil
}

// Unparenthesize 剥掉包裹表达式的括号层。
func Unparenthesize(n *sitter.Node) *sitter.Node {
	for n != nil && n.Kind() == "parenthesized_expression" {
		inner := firstNamedChild(n)
		if inner == nil {
			return n
		}
		n = inner
	}
	return n
}

func firstNamedChild(n *sitter.Node) *sitter.Node {
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child != nil && child.IsNamed() {
			return child
		}
	}
	return nil
}
