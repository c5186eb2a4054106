package model

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// --- 声明模型 (Declaration Model) ---

// DeclarationKind 区分声明的来源形态
type DeclarationKind int

const (
	// ConcreteDeclaration 节点本身是一个真实的声明语句
	ConcreteDeclaration DeclarationKind = iota
	// InlineDeclaration 节点只是一个表达式（例如导出赋值的目标），没有独立的声明语句
	InlineDeclaration
)

// KnownDeclaration 标记众所周知的内建对象或 TS 运行时辅助函数。
// 空字符串表示普通声明。
type KnownDeclaration string

const (
	KnownJsGlobalObject   KnownDeclaration = "Object"
	KnownTsHelperExtends  KnownDeclaration = "__extends"
	KnownTsHelperDecorate KnownDeclaration = "__decorate"
	KnownTsHelperParam    KnownDeclaration = "__param"
	KnownTsHelperMetadata KnownDeclaration = "__metadata"
)

var knownDeclarations = map[string]KnownDeclaration{
	"Object":     KnownJsGlobalObject,
	"__extends":  KnownTsHelperExtends,
	"__decorate": KnownTsHelperDecorate,
	"__param":    KnownTsHelperParam,
	"__metadata": KnownTsHelperMetadata,
}

// KnownDeclarationByName 按名称查表，未命中返回 ("", false)。
func KnownDeclarationByName(name string) (KnownDeclaration, bool) {
	kd, ok := knownDeclarations[name]
	return kd, ok
}

// EnumMember 降级枚举重建出来的一个成员（名称 + 初始化表达式节点）。
type EnumMember struct {
	Name        string
	Initializer *sitter.Node
}

// DownleveledEnum 是 Concrete 声明可携带的"特殊身份"：
// 该声明实际上是一个被降级编译的枚举。
type DownleveledEnum struct {
	Members []EnumMember
}

// Declaration 是对类/函数/内联导出值的一次已解析引用。
// 由 Reflector 按底层节点产出，产出后不可变。
type Declaration struct {
	Node      *sitter.Node
	Kind      DeclarationKind
	Known     KnownDeclaration // "" 表示非内建
	ViaModule string           // 绝对模块路径来源，"" 表示本模块
	Identity  *DownleveledEnum // 仅 Concrete 声明可携带（不变量由构造函数保证）
}

// NewConcreteDeclaration 构造一个 Concrete 声明。
func NewConcreteDeclaration(node *sitter.Node) *Declaration {
	return &Declaration{Node: node, Kind: ConcreteDeclaration}
}

// NewInlineDeclaration 构造一个 Inline 声明。Inline 声明永远不携带特殊身份。
func NewInlineDeclaration(expression *sitter.Node) *Declaration {
	return &Declaration{Node: expression, Kind: InlineDeclaration}
}

// NewDownleveledEnumDeclaration 构造一个携带降级枚举身份的 Concrete 声明。
func NewDownleveledEnumDeclaration(node *sitter.Node, members []EnumMember) *Declaration {
	return &Declaration{
		Node:     node,
		Kind:     ConcreteDeclaration,
		Identity: &DownleveledEnum{Members: members},
	}
}

// ClassDeclaration 是专用于类的 Declaration，保证携带名称标识符。
// 无法推导名称的类不可表示，必须在上游拒绝。
type ClassDeclaration struct {
	Declaration
	Name     string
	NameNode *sitter.Node
}

// Import 描述一个标识符的导入来源。
type Import struct {
	// Name 符号在来源模块中的原始名称（别名导入时与本地名不同）
	Name string
	// From 模块说明符
	From string
	// Node import 语句节点
	Node *sitter.Node
	// TypeOnly 是否 type-only 导入 (import type {...})
	TypeOnly bool
	// Default 是否默认导入 (import Foo from '...')
	Default bool
	// Namespace 是否命名空间导入 (import * as ns from '...')
	Namespace bool
}
