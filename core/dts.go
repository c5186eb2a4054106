package core

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-decorator-compiler/model"
)

// FindDtsDeclaration 在声明专用伴随树 (.d.ts) 中按名称查找对应声明。
// 伴随树总是 TypeScript 语法。
func FindDtsDeclaration(dts *FileContext, name string) *model.Declaration {
	if dts == nil || name == "" {
		return nil
	}
	var found *sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if found != nil {
			return
		}
		switch n.Kind() {
		case "class_declaration", "abstract_class_declaration",
			"interface_declaration", "function_signature",
			"enum_declaration", "type_alias_declaration":
			if NodeText(n.ChildByFieldName("name"), *dts.SourceBytes) == name {
				found = n
				return
			}
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			if child := n.Child(i); child != nil {
				walk(child)
			}
		}
	}
	walk(dts.RootNode)
	if found == nil {
		return nil
	}
	return model.NewConcreteDeclaration(found)
}
