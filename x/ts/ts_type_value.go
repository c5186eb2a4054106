package ts

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-decorator-compiler/core"
	"github.com/CodMac/go-treesitter-decorator-compiler/model"
)

// ==========================================
// 类型到值的解析 (Type → Value)
// ==========================================

// typeToValue 判断参数类型能否当作运行时值用于注入。
// 绝不部分成功：重建不完整时返回带具体原因的 Unavailable 变体。
func (r *Reflector) typeToValue(typeNode, paramNode *sitter.Node) model.TypeValueReference {
	if typeNode == nil {
		return &model.UnavailableTypeValueReference{
			Reason:   model.ReasonMissingType,
			TypeNode: paramNode,
		}
	}

	entity := typeNode
	// 泛型引用取其名称部分 (Foo<T> → Foo)
	if entity.Kind() == "generic_type" {
		if name := entity.ChildByFieldName("name"); name != nil {
			entity = name
		}
	}

	base, nested := splitEntityName(entity, r.src)
	if base == nil {
		// 联合类型、预定义类型等不受支持的形态
		return &model.UnavailableTypeValueReference{
			Reason:   model.ReasonUnsupported,
			TypeNode: typeNode,
		}
	}

	if imp := r.ImportOf(base); imp != nil {
		return r.importedTypeValue(imp, base, entity, nested, typeNode)
	}
	return r.localTypeValue(base, entity, typeNode)
}

// importedTypeValue 类型经由导入引入时的值重建。
func (r *Reflector) importedTypeValue(imp *model.Import, base, entity *sitter.Node, nested []string, typeNode *sitter.Node) model.TypeValueReference {
	if imp.TypeOnly {
		return &model.UnavailableTypeValueReference{
			Reason:   model.ReasonTypeOnlyImport,
			TypeNode: typeNode,
		}
	}
	switch {
	case imp.Namespace:
		// ns 本身不是值；ns.Foo 解析为从该模块导入 Foo
		if len(nested) == 0 {
			return &model.UnavailableTypeValueReference{
				Reason:   model.ReasonNamespace,
				TypeNode: typeNode,
			}
		}
		valueDecl := model.NewConcreteDeclaration(base)
		valueDecl.ViaModule = imp.From
		return &model.ImportedTypeValueReference{
			ModuleName:       imp.From,
			ImportedName:     nested[0],
			NestedPath:       nested[1:],
			ValueDeclaration: valueDecl,
		}
	case imp.Default:
		// 默认导入在本文件内即是值；记下 import 语句防止被当作
		// type-only 擦除
		return &model.LocalTypeValueReference{
			Expression:             entity,
			DefaultImportStatement: imp.Node,
		}
	default:
		valueDecl := model.NewConcreteDeclaration(base)
		valueDecl.ViaModule = imp.From
		return &model.ImportedTypeValueReference{
			ModuleName:       imp.From,
			ImportedName:     imp.Name,
			NestedPath:       nested,
			ValueDeclaration: valueDecl,
		}
	}
}

// localTypeValue 类型声明于本文件时的值重建。
func (r *Reflector) localTypeValue(base, entity, typeNode *sitter.Node) model.TypeValueReference {
	decl := r.DeclarationOf(base)
	if decl == nil {
		return &model.UnavailableTypeValueReference{
			Reason:   model.ReasonUnknownReference,
			TypeNode: typeNode,
		}
	}
	switch decl.Node.Kind() {
	case "interface_declaration", "type_alias_declaration":
		return &model.UnavailableTypeValueReference{
			Reason:   model.ReasonNoValueDeclaration,
			TypeNode: typeNode,
		}
	case "internal_module", "module":
		return &model.UnavailableTypeValueReference{
			Reason:   model.ReasonNamespace,
			TypeNode: typeNode,
		}
	}
	return &model.LocalTypeValueReference{Expression: entity}
}

// splitEntityName 把实体类型名拆成基标识符与其后的属性链。
// 非实体名（联合、预定义类型等）返回 (nil, nil)。
func splitEntityName(entity *sitter.Node, src []byte) (*sitter.Node, []string) {
	switch entity.Kind() {
	case "type_identifier", "identifier":
		return entity, nil
	case "nested_type_identifier", "nested_identifier", "member_expression":
		module := entity.ChildByFieldName("module")
		if module == nil {
			module = entity.ChildByFieldName("object")
		}
		name := entity.ChildByFieldName("name")
		if name == nil {
			name = entity.ChildByFieldName("property")
		}
		if module == nil || name == nil {
			return nil, nil
		}
		base, nested := splitEntityName(module, src)
		if base == nil {
			return nil, nil
		}
		return base, append(nested, core.NodeText(name, src))
	}
	return nil, nil
}

// typeOfAnnotation 从 type_annotation 节点上取类型节点本体。
func typeOfAnnotation(annotation *sitter.Node) *sitter.Node {
	if annotation == nil {
		return nil
	}
	named := core.NamedChildren(annotation)
	if len(named) == 0 {
		return nil
	}
	return named[0]
}
