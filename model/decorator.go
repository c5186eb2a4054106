package model

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Decorator 一次注解使用的元数据。
//
// 两种变体：
//   - Concrete: 源码中真实存在，携带 Identifier 与 Node；
//   - Synthetic: 经由其他途径推导出来，只记住它是为哪个节点合成的。
//
// 不变量：Identifier/Node (Concrete) 与 SynthesizedFor (Synthetic)
// 恰好填充一组，由下方两个构造函数保证。
type Decorator struct {
	// Name 展示名称
	Name string
	// Identifier 装饰器标识符节点（仅 Concrete）
	Identifier *sitter.Node
	// Node 装饰器使用处节点（仅 Concrete）
	Node *sitter.Node
	// SynthesizedFor 该装饰器为之合成的节点（仅 Synthetic）
	SynthesizedFor *sitter.Node
	// Import 解析出的导入来源，nil 表示声明于本模块
	Import *Import
	// Args 调用实参，nil 表示未经调用的裸引用
	Args []*sitter.Node
}

// NewConcreteDecorator 构造一个源码中真实存在的装饰器。
func NewConcreteDecorator(name string, identifier, node *sitter.Node, imp *Import, args []*sitter.Node) *Decorator {
	return &Decorator{
		Name:       name,
		Identifier: identifier,
		Node:       node,
		Import:     imp,
		Args:       args,
	}
}

// SynthesizeDecorator 为指定节点合成一个装饰器。
func SynthesizeDecorator(name string, synthesizedFor *sitter.Node, args []*sitter.Node) *Decorator {
	return &Decorator{
		Name:           name,
		SynthesizedFor: synthesizedFor,
		Args:           args,
	}
}

// IsConcrete 报告该装饰器是否在源码中真实存在。
func (d *Decorator) IsConcrete() bool {
	return d.SynthesizedFor == nil
}
