package es2015

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
// JS 语法没有 type-only 导入。
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

	for _, child := range core.NamedChildren(clause) {
		switch child.Kind() {
		case "identifier": // 默认导入
			if core.NodeText(child, r.src) == name {
				return &model.Import{Name: name, From: from, Node: stmt, Default: true}
			}
		case "namespace_import": // import * as ns
			if local := core.ChildOfKind(child, "identifier"); local != nil &&
				core.NodeText(local, r.src) == name {
				return &model.Import{Name: "*", From: from, Node: stmt, Namespace: true}
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
				return &model.Import{Name: core.NodeText(original, r.src), From: from, Node: stmt}
			}
		}
	}
	return nil
}

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
// 命中降级枚举形态时，声明携带枚举身份。
func (r *Reflector) DeclarationOf(identifier *sitter.Node) *model.Declaration {
	if identifier == nil {
		return nil
	}
	name := core.NodeText(identifier, r.src)

	if node := r.findTopLevelDeclaration(name); node != nil {
		if members, ok := r.downleveledEnumMembers(name, node); ok {
			return model.NewDownleveledEnumDeclaration(node, members)
		}
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
func (r *Reflector) findTopLevelDeclaration(name string) *sitter.Node {
	for _, stmt := range core.NamedChildren(r.fCtx.RootNode) {
		target := stmt
		if stmt.Kind() == "export_statement" {
			if decl := stmt.ChildByFieldName("declaration"); decl != nil {
				target = decl
			}
		}
		switch target.Kind() {
		case "class_declaration", "function_declaration", "generator_function_declaration":
			if core.NodeText(target.ChildByFieldName("name"), r.src) == name {
				return target
			}
		case "lexical_declaration", "variable_declaration":
			for _, declarator := range core.ChildrenOfKind(target, "variable_declarator") {
				if core.NodeText(declarator.ChildByFieldName("name"), r.src) == name {
					return declarator
				}
			}
		}
	}
	return nil
}

// ==========================================
// 降级枚举 (Downleveled Enums)
// ==========================================

// downleveledEnumMembers 识别 TS 枚举降级后的固定形态：
//
//	var Color;
//	(function (Color) {
//	    Color[Color["Red"] = 0] = "Red";
//	    Color["Named"] = "named";
//	})(Color || (Color = {}));
//
// 声明符必须无初始值，且紧随其后存在上述 IIFE 填充调用。
func (r *Reflector) downleveledEnumMembers(name string, declNode *sitter.Node) ([]model.EnumMember, bool) {
	if declNode.Kind() != "variable_declarator" || declNode.ChildByFieldName("value") != nil {
		return nil, false
	}
	for _, stmt := range core.NamedChildren(r.fCtx.RootNode) {
		if stmt.Kind() != "expression_statement" {
			continue
		}
		call := core.Unparenthesize(core.ChildOfKind(stmt, "call_expression"))
		if call == nil {
			if inner := stmt.NamedChild(0); inner != nil {
				call = core.Unparenthesize(inner)
			}
		}
		if call == nil || call.Kind() != "call_expression" {
			continue
		}
		body, paramName := enumIifeBody(call, name, r.src)
		if body == nil {
			continue
		}
		return r.collectEnumMembers(body, paramName), true
	}
	return nil, false
}

// enumIifeBody 核验 `(function (E) {...})(E || (E = {}))` 形态，
// 返回函数体与形参名。
func enumIifeBody(call *sitter.Node, name string, src []byte) (*sitter.Node, string) {
	fn := core.Unparenthesize(call.ChildByFieldName("function"))
	if fn == nil || fn.Kind() != "function_expression" {
		return nil, ""
	}
	paramList := core.NamedChildren(fn.ChildByFieldName("parameters"))
	if len(paramList) != 1 || paramList[0].Kind() != "identifier" {
		return nil, ""
	}
	args := core.NamedChildren(call.ChildByFieldName("arguments"))
	if len(args) != 1 {
		return nil, ""
	}
	arg := core.Unparenthesize(args[0])
	if arg == nil || arg.Kind() != "binary_expression" {
		return nil, ""
	}
	left := arg.ChildByFieldName("left")
	if left == nil || left.Kind() != "identifier" || core.NodeText(left, src) != name {
		return nil, ""
	}
	return fn.ChildByFieldName("body"), core.NodeText(paramList[0], src)
}

// collectEnumMembers 从 IIFE 体内的赋值重建枚举成员。
// 数值成员是双重映射 `E[E["Red"] = 0] = "Red"`，
// 字符串成员是单次赋值 `E["Named"] = "named"`。
func (r *Reflector) collectEnumMembers(body *sitter.Node, paramName string) []model.EnumMember {
	var members []model.EnumMember
	for _, stmt := range core.NamedChildren(body) {
		if stmt.Kind() != "expression_statement" {
			continue
		}
		assign := core.ChildOfKind(stmt, "assignment_expression")
		if assign == nil {
			continue
		}
		left := assign.ChildByFieldName("left")
		if left == nil || left.Kind() != "subscript_expression" {
			continue
		}
		object := left.ChildByFieldName("object")
		if object == nil || object.Kind() != "identifier" || core.NodeText(object, r.src) != paramName {
			continue
		}
		index := core.Unparenthesize(left.ChildByFieldName("index"))
		if index == nil {
			continue
		}
		if index.Kind() == "assignment_expression" {
			// 数值成员：成员名与初始值都在内层赋值上
			innerLeft := index.ChildByFieldName("left")
			if innerLeft == nil || innerLeft.Kind() != "subscript_expression" {
				continue
			}
			memberName, ok := stringLiteralText(innerLeft.ChildByFieldName("index"), r.src)
			if !ok {
				continue
			}
			members = append(members, model.EnumMember{
				Name:        memberName,
				Initializer: index.ChildByFieldName("right"),
			})
			continue
		}
		memberName, ok := stringLiteralText(index, r.src)
		if !ok {
			continue
		}
		members = append(members, model.EnumMember{
			Name:        memberName,
			Initializer: assign.ChildByFieldName("right"),
		})
	}
	return members
}

// stringLiteralText 取字符串字面量节点的内容（去引号）。
func stringLiteralText(node *sitter.Node, src []byte) (string, bool) {
	if node == nil || node.Kind() != "string" {
		return "", false
	}
	if frag := core.ChildOfKind(node, "string_fragment"); frag != nil {
		return core.NodeText(frag, src), true
	}
	return "", false
}

// ==========================================
// 值表达式到类型值引用 (Value Expr → TypeValueReference)
// ==========================================

// ValueExprToTypeValue 判断 ctorParameters 槽位里的 type 表达式能否
// 当作注入令牌。降级编码下类型已经是运行时表达式，只需定位来源。
func (r *Reflector) ValueExprToTypeValue(expr *sitter.Node) model.TypeValueReference {
	expr = core.Unparenthesize(expr)
	if expr == nil || expr.Kind() == "null" || expr.Kind() == "undefined" {
		return &model.UnavailableTypeValueReference{Reason: model.ReasonMissingType, TypeNode: expr}
	}

	base, nested := splitValueExpr(expr, r.src)
	if base == nil {
		return &model.UnavailableTypeValueReference{Reason: model.ReasonUnsupported, TypeNode: expr}
	}

	if imp := r.ImportOf(base); imp != nil {
		switch {
		case imp.Namespace:
			if len(nested) == 0 {
				return &model.UnavailableTypeValueReference{Reason: model.ReasonNamespace, TypeNode: expr}
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
			return &model.LocalTypeValueReference{
				Expression:             expr,
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

	if decl := r.DeclarationOf(base); decl == nil {
		return &model.UnavailableTypeValueReference{Reason: model.ReasonUnknownReference, TypeNode: expr}
	}
	return &model.LocalTypeValueReference{Expression: expr}
}

// splitValueExpr 把值表达式拆成基标识符与其后的属性链。
func splitValueExpr(expr *sitter.Node, src []byte) (*sitter.Node, []string) {
	switch expr.Kind() {
	case "identifier":
		return expr, nil
	case "member_expression":
		object := expr.ChildByFieldName("object")
		property := expr.ChildByFieldName("property")
		if object == nil || property == nil {
			return nil, nil
		}
		base, nested := splitValueExpr(core.Unparenthesize(object), src)
		if base == nil {
			return nil, nil
		}
		return base, append(nested, core.NodeText(property, src))
	}
	return nil, nil
}
