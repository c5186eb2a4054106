// Package oast 定义工厂合成阶段产出的输出树片段：表达式、语句与声明类型。
// 片段只描述结构，序列化为文本由外部发射后端完成；包内的 writer 仅用于
// 调试导出与测试断言。
package oast

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Expression 输出表达式节点（密封联合）。
type Expression interface {
	isExpression()
}

// ReadVarExpr 读取一个变量。
type ReadVarExpr struct {
	Name string
}

// WriteVarExpr 对变量赋值（表达式语义，产生所赋的值）。
type WriteVarExpr struct {
	Name  string
	Value Expression
}

// WrappedNodeExpr 原样携带一个输入树节点（例如装饰器实参、
// 本文件内已存在的值表达式），由发射后端按源码文本重新输出。
type WrappedNodeExpr struct {
	Node   *sitter.Node
	Source []byte
}

// LiteralExpr 字面量。Value 为 nil / bool / int / float64 / string。
type LiteralExpr struct {
	Value any
}

// LiteralArrayExpr 数组字面量。
type LiteralArrayExpr struct {
	Entries []Expression
}

// LiteralMapEntry 对象字面量的一个键值对。
type LiteralMapEntry struct {
	Key   string
	Value Expression
}

// LiteralMapExpr 对象字面量。
type LiteralMapExpr struct {
	Entries []LiteralMapEntry
}

// ExternalReference 指向外部模块的一个顶层符号。
type ExternalReference struct {
	ModuleName string
	Name       string
}

// ExternalExpr 引用外部模块符号的表达式。
type ExternalExpr struct {
	Value ExternalReference
}

// ReadPropExpr 读取属性 (receiver.name)。
type ReadPropExpr struct {
	Receiver Expression
	Name     string
}

// InvokeFunctionExpr 函数调用。
type InvokeFunctionExpr struct {
	Fn   Expression
	Args []Expression
}

// InstantiateExpr new 实例化。
type InstantiateExpr struct {
	ClassExpr Expression
	Args      []Expression
}

// BinaryOperator 二元运算符。工厂合成只用到逻辑或。
type BinaryOperator string

const (
	OperatorOr BinaryOperator = "||"
)

// BinaryOperatorExpr 二元运算表达式。
type BinaryOperatorExpr struct {
	Operator BinaryOperator
	Lhs      Expression
	Rhs      Expression
}

// FunctionExpr 函数表达式。Name 为 "" 时是匿名函数。
type FunctionExpr struct {
	Name       string
	Params     []string
	Statements []Statement
}

func (*ReadVarExpr) isExpression()        {}
func (*WriteVarExpr) isExpression()       {}
func (*WrappedNodeExpr) isExpression()    {}
func (*LiteralExpr) isExpression()        {}
func (*LiteralArrayExpr) isExpression()   {}
func (*LiteralMapExpr) isExpression()     {}
func (*ExternalExpr) isExpression()       {}
func (*ReadPropExpr) isExpression()       {}
func (*InvokeFunctionExpr) isExpression() {}
func (*InstantiateExpr) isExpression()    {}
func (*BinaryOperatorExpr) isExpression() {}
func (*FunctionExpr) isExpression()       {}

// --- 构造辅助 ---

func Variable(name string) *ReadVarExpr {
	return &ReadVarExpr{Name: name}
}

func Literal(v any) *LiteralExpr {
	return &LiteralExpr{Value: v}
}

func ImportExpr(ref ExternalReference) *ExternalExpr {
	return &ExternalExpr{Value: ref}
}

func CallFn(fn Expression, args ...Expression) *InvokeFunctionExpr {
	return &InvokeFunctionExpr{Fn: fn, Args: args}
}

func Instantiate(class Expression, args ...Expression) *InstantiateExpr {
	return &InstantiateExpr{ClassExpr: class, Args: args}
}

func Prop(receiver Expression, name string) *ReadPropExpr {
	return &ReadPropExpr{Receiver: receiver, Name: name}
}

func Or(lhs, rhs Expression) *BinaryOperatorExpr {
	return &BinaryOperatorExpr{Operator: OperatorOr, Lhs: lhs, Rhs: rhs}
}

// Set 产生对本变量的赋值表达式。
func (e *ReadVarExpr) Set(value Expression) *WriteVarExpr {
	return &WriteVarExpr{Name: e.Name, Value: value}
}
