package model

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// --- 类型到值的引用 (Type Value Reference) ---

// TypeValueReference 描述一个参数的*类型*能否被当作运行时*值*用于注入。
// 三个变体恰好激活一个（密封联合，消费方用类型开关做穷尽匹配）：
//
//   - LocalTypeValueReference:    当前文件内即可引用该值；
//   - ImportedTypeValueReference: 值来自其他模块的顶层导入符号；
//   - UnavailableTypeValueReference: 无法重建值引用，携带具体原因。
//
// 解析绝不允许部分成功：重建不完整时必须返回 Unavailable，而不是
// 尽力而为的残缺表达式。
type TypeValueReference interface {
	isTypeValueReference()
}

// LocalTypeValueReference 当前文件中即可引用该值的表达式。
type LocalTypeValueReference struct {
	// Expression 当前文件内合法的值表达式节点
	Expression *sitter.Node
	// DefaultImportStatement 值经由默认导入引入时的 import 语句，
	// 记录它以防该导入被当作 type-only 擦除；可空
	DefaultImportStatement *sitter.Node
}

// ImportedTypeValueReference 值来自其他模块的顶层导入。
type ImportedTypeValueReference struct {
	// ModuleName 模块说明符
	ModuleName string
	// ImportedName 顶层导入符号名
	ImportedName string
	// NestedPath 顶层符号之下的属性链，可空
	NestedPath []string
	// ValueDeclaration 解析到的声明
	ValueDeclaration *Declaration
}

// ValueUnavailableReason 值引用不可用的原因。闭合集合：任何新的不支持
// 形态必须映射到下列原因之一，绝不允许静默兜底。
type ValueUnavailableReason int

const (
	// ReasonMissingType 参数没有类型节点
	ReasonMissingType ValueUnavailableReason = iota
	// ReasonNoValueDeclaration 类型没有对应的值声明（例如接口）
	ReasonNoValueDeclaration
	// ReasonTypeOnlyImport 类型来自 type-only 导入
	ReasonTypeOnlyImport
	// ReasonUnknownReference 被引用的声明无法解析
	ReasonUnknownReference
	// ReasonNamespace 类型是一个命名空间
	ReasonNamespace
	// ReasonUnsupported 类型形态不受支持（例如联合类型）
	ReasonUnsupported
)

func (r ValueUnavailableReason) String() string {
	switch r {
	case ReasonMissingType:
		return "missing-type"
	case ReasonNoValueDeclaration:
		return "no-value-declaration"
	case ReasonTypeOnlyImport:
		return "type-only-import"
	case ReasonUnknownReference:
		return "unknown-reference"
	case ReasonNamespace:
		return "namespace"
	case ReasonUnsupported:
		return "unsupported"
	}
	return "invalid"
}

// UnavailableTypeValueReference 无法将类型重建为值引用。
type UnavailableTypeValueReference struct {
	Reason ValueUnavailableReason
	// TypeNode 相关的类型节点，可空（ReasonMissingType 时为参数节点）
	TypeNode *sitter.Node
}

func (*LocalTypeValueReference) isTypeValueReference()       {}
func (*ImportedTypeValueReference) isTypeValueReference()    {}
func (*UnavailableTypeValueReference) isTypeValueReference() {}
