package ts

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-decorator-compiler/core"
	"github.com/CodMac/go-treesitter-decorator-compiler/model"
)

// ==========================================
// 导入与声明解析 (Imports & Declarations)
// ==========================================

// ImportOf 在文件顶层的 import 语句中查找标识符的来源。
func (r *Reflector) ImportOf(identifier *sitter.Node) *model.Import {
	if identifier == nil {
		return nil
	}
	name := core.NodeText(identifier, r.src)
	for _, stmt := range core.ChildrenOfKind(r.fCtx.RootNode, "import_statement") {
		if imp := r.matchImport(stmt, name); imp != nil {
			return imp
		}
	}
	return nil
}

func (r *Reflector) matchImport(stmt *sitter.Node, name string) *model.Import {
	clause := core.ChildOfKind(stmt, "import_clause")
	if clause == nil {
		return nil
	}
	from := importSource(stmt, r.src)
	stmtTypeOnly := core.HasChildOfKind(stmt, "type")

	for _, child := range core.NamedChildren(clause) {
		switch child.Kind() {
		case "identifier": // 默认导入
			if core.NodeText(child, r.src) == name {
				return &model.Import{
					Name: name, From: from, Node: stmt,
					TypeOnly: stmtTypeOnly, Default: true,
				}
			}
		case "namespace_import": // import * as ns
			if local := core.ChildOfKind(child, "identifier"); local != nil &&
				core.NodeText(local, r.src) == name {
				return &model.Import{
					Name: "*", From: from, Node: stmt,
					TypeOnly: stmtTypeOnly, Namespace: true,
				}
			}
		case "named_imports":
			for _, spec := range core.ChildrenOfKind(child, "import_specifier") {
				original := spec.ChildByFieldName("name")
				local := spec.ChildByFieldName("alias")
				if local == nil {
					local = original
				}
				if core.NodeText(local, r.src) != name {
					continue
				}
				return &model.Import{
					Name: core.NodeText(original, r.src), From: from, Node: stmt,
					TypeOnly: stmtTypeOnly || core.HasChildOfKind(spec, "type"),
				}
			}
		}
	}
	return nil
}

// importSource 取 import 语句的模块说明符（去引号）。
func importSource(stmt *sitter.Node, src []byte) string {
	source := stmt.ChildByFieldName("source")
	if source == nil {
		return ""
	}
	if frag := core.ChildOfKind(source, "string_fragment"); frag != nil {
		return core.NodeText(frag, src)
	}
	return strings.Trim(core.NodeText(source, src), `'"`)
}

// DeclarationOf 把标识符解析为本文件内的声明（或导入绑定）。
func (r *Reflector) DeclarationOf(identifier *sitter.Node) *model.Declaration {
	if identifier == nil {
		return nil
	}
	name := core.NodeText(identifier, r.src)

	if node := findTopLevelDeclaration(r.fCtx.RootNode, name, r.src); node != nil {
		return model.NewConcreteDeclaration(node)
	}
	if imp := r.ImportOf(identifier); imp != nil {
		decl := model.NewConcreteDeclaration(identifier)
		decl.ViaModule = imp.From
		return decl
	}
	if kd, ok := model.KnownDeclarationByName(name); ok {
		decl := model.NewConcreteDeclaration(identifier)
		decl.Known = kd
		return decl
	}
	return nil
}

// findTopLevelDeclaration 在顶层（含 export_statement 内）按名称查找声明节点。
func findTopLevelDeclaration(root *sitter.Node, name string, src []byte) *sitter.Node {
	for _, stmt := range core.NamedChildren(root) {
		target := stmt
		if stmt.Kind() == "export_statement" {
			if decl := stmt.ChildByFieldName("declaration"); decl != nil {
				target = decl
			}
		}
		switch target.Kind() {
		case "class_declaration", "abstract_class_declaration", "function_declaration",
			"interface_declaration", "type_alias_declaration", "enum_declaration",
			"internal_module", "module":
			if core.NodeText(target.ChildByFieldName("name"), src) == name {
				return target
			}
		case "lexical_declaration", "variable_declaration":
			for _, declarator := range core.ChildrenOfKind(target, "variable_declarator") {
				if core.NodeText(declarator.ChildByFieldName("name"), src) == name {
					return declarator
				}
			}
		}
	}
	return nil
}
