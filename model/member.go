package model

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ClassMemberKind 类成员的种类
type ClassMemberKind int

const (
	MemberConstructor ClassMemberKind = iota
	MemberGetter
	MemberSetter
	MemberProperty
	MemberMethod
)

func (k ClassMemberKind) String() string {
	switch k {
	case MemberConstructor:
		return "constructor"
	case MemberGetter:
		return "getter"
	case MemberSetter:
		return "setter"
	case MemberProperty:
		return "property"
	case MemberMethod:
		return "method"
	}
	return "unknown"
}

// ClassMember 类的一个属性/方法/访问器/构造函数槽位。
//
// 不变量：Implementation 永远指向真正承载运行时行为的节点。
// 当成员通过独立调用物化时（例如 ES5 里经 Object.defineProperty 定义的
// 访问器对），Node 指向外层定义语句，Implementation 指向访问器函数体，
// 消费方据此为诊断（Node）或行为分析（Implementation）选择正确的节点。
type ClassMember struct {
	Node           *sitter.Node // 可空
	Kind           ClassMemberKind
	TypeNode       *sitter.Node // 声明的类型节点，可空
	Name           string
	NameNode       *sitter.Node // 可空，用于 source-map 重发射
	Value          *sitter.Node // 初始化/值表达式，可空
	Implementation *sitter.Node
	IsStatic       bool
	Decorators     []*Decorator // 可空
}
