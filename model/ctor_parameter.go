package model

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// CtorParameter 构造函数的一个参数。
type CtorParameter struct {
	// Name 简单名称，解构等复杂绑定时为 ""
	Name string
	// NameNode 绑定模式节点
	NameNode *sitter.Node
	// TypeValueRef 该参数的类型能否作为运行时"值"使用；永不为 nil，
	// 无法使用时为 Unavailable 变体
	TypeValueRef TypeValueReference
	// TypeNode 声明的类型节点，可空
	TypeNode *sitter.Node
	// Decorators 参数上的注解，可空
	Decorators []*Decorator
}
