// Package es5 是降级 ES5 编码的反射适配器：类被编译成
// `var X = (function (_super) { ... return X; }(Base));` 形态的 IIFE，
// 成员挂在 prototype 上，注解元数据沿用静态槽位。
package es5

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-decorator-compiler/core"
	"github.com/CodMac/go-treesitter-decorator-compiler/model"
	"github.com/CodMac/go-treesitter-decorator-compiler/x/es2015"
)

func init() {
	core.RegisterReflector(core.EncEs5, func(fc *core.FileContext) core.Reflector {
		return NewEs5Reflector(fc)
	})
}

// Reflector 降级 ES5 形态的声明反射。
// 导入解析与静态槽位解析直接复用 es2015 适配器，
// 只有与类形态耦合的操作需要重写。
type Reflector struct {
	*es2015.Reflector
	fCtx *core.FileContext
	src  []byte
}

func NewEs5Reflector(fCtx *core.FileContext) *Reflector {
	return &Reflector{
		Reflector: es2015.NewEs2015Reflector(fCtx),
		fCtx:      fCtx,
		src:       *fCtx.SourceBytes,
	}
}

// ==========================================
// 1. IIFE 类形态解析 (Class IIFE Parsing)
// ==========================================

// classParts 拆解后的 IIFE 类各部件。
type classParts struct {
	declarator *sitter.Node // 外层变量声明符
	call       *sitter.Node // IIFE 调用表达式
	wrapperFn  *sitter.Node // 包装函数表达式
	body       *sitter.Node // 包装函数体（类作用域）
	inner      *sitter.Node // 内层构造函数声明
	innerName  string       // 内部名（定义内部引用用它）
}

// parseClassIife 核验 `var X = (function (...) { function X() {}
// ...; return X; }(...));` 形态并拆出各部件。
// 内层函数按 return 语句返回的标识符定位。
func (r *Reflector) parseClassIife(declarator *sitter.Node) (*classParts, bool) {
	if declarator == nil || declarator.Kind() != "variable_declarator" {
		return nil, false
	}
	call := core.Unparenthesize(declarator.ChildByFieldName("value"))
	if call == nil || call.Kind() != "call_expression" {
		return nil, false
	}
	wrapperFn := core.Unparenthesize(call.ChildByFieldName("function"))
	if wrapperFn == nil || wrapperFn.Kind() != "function_expression" {
		return nil, false
	}
	body := wrapperFn.ChildByFieldName("body")
	if body == nil {
		return nil, false
	}

	returned := ""
	for _, stmt := range core.NamedChildren(body) {
		if stmt.Kind() != "return_statement" {
			continue
		}
		if expr := core.Unparenthesize(firstNamedChild(stmt)); expr != nil && expr.Kind() == "identifier" {
			returned = core.NodeText(expr, r.src)
		}
	}
	if returned == "" {
		return nil, false
	}
	for _, stmt := range core.NamedChildren(body) {
		if stmt.Kind() != "function_declaration" {
			continue
		}
		if core.NodeText(stmt.ChildByFieldName("name"), r.src) == returned {
			return &classParts{
				declarator: declarator,
				call:       call,
				wrapperFn:  wrapperFn,
				body:       body,
				inner:      stmt,
				innerName:  returned,
			}, true
		}
	}
	return nil, false
}

func firstNamedChild(n *sitter.Node) *sitter.Node {
	children := core.NamedChildren(n)
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

// ==========================================
// 2. 类识别 (Class Identification)
// ==========================================

func (r *Reflector) IsClass(node *sitter.Node) bool {
	_, ok := r.parseClassIife(node)
	return ok
}

func (r *Reflector) ClassDeclarationOf(node *sitter.Node) *model.ClassDeclaration {
	if !r.IsClass(node) {
		return nil
	}
	nameNode := node.ChildByFieldName("name")
	return &model.ClassDeclaration{
		Declaration: *model.NewConcreteDeclaration(node),
		Name:        core.NodeText(nameNode, r.src),
		NameNode:    nameNode,
	}
}

func (r *Reflector) FindClassDeclarations(root *sitter.Node) []*model.ClassDeclaration {
	var classes []*model.ClassDeclaration
	for _, stmt := range core.NamedChildren(root) {
		target := stmt
		if stmt.Kind() == "export_statement" {
			if decl := stmt.ChildByFieldName("declaration"); decl != nil {
				target = decl
			}
		}
		if target.Kind() != "lexical_declaration" && target.Kind() != "variable_declaration" {
			continue
		}
		for _, declarator := range core.ChildrenOfKind(target, "variable_declarator") {
			if class := r.ClassDeclarationOf(declarator); class != nil {
				classes = append(classes, class)
			}
		}
	}
	return classes
}

// ==========================================
// 3. 装饰器 (Decorators)
// ==========================================

// DecoratorsOf IIFE 内部的静态槽位用内部名，IIFE 之后的用外部名，
// 内部优先。
func (r *Reflector) DecoratorsOf(decl *model.Declaration) []*model.Decorator {
	if decl == nil {
		return nil
	}
	parts, ok := r.parseClassIife(decl.Node)
	if !ok {
		return nil
	}
	outerName := core.NodeText(decl.Node.ChildByFieldName("name"), r.src)

	if arr := r.StaticValueOf([]*sitter.Node{parts.body}, parts.innerName, "decorators"); arr != nil {
		return r.DecoratorsFromArray(arr)
	}
	if arr := r.StaticValueOf([]*sitter.Node{r.fCtx.RootNode}, outerName, "decorators"); arr != nil {
		return r.DecoratorsFromArray(arr)
	}
	if classDecs, _ := r.HelperDecorators([]*sitter.Node{parts.body}, parts.innerName); len(classDecs) > 0 {
		return classDecs
	}
	classDecs, _ := r.HelperDecorators([]*sitter.Node{r.fCtx.RootNode}, outerName)
	return classDecs
}

// ==========================================
// 4. 继承、泛型与名称 (Heritage, Generics & Names)
// ==========================================

// BaseClassExpressionOf 基类是 IIFE 调用的实参。
func (r *Reflector) BaseClassExpressionOf(class *model.ClassDeclaration) *sitter.Node {
	parts, ok := r.parseClassIife(classNode(class))
	if !ok {
		return nil
	}
	args := core.NamedChildren(parts.call.ChildByFieldName("arguments"))
	if len(args) == 0 {
		return nil
	}
	return core.Unparenthesize(args[0])
}

func (r *Reflector) HasBaseClass(class *model.ClassDeclaration) bool {
	return r.BaseClassExpressionOf(class) != nil
}

// GenericArityOf ES5 里泛型痕迹全无，只能问声明专用伴随树。
func (r *Reflector) GenericArityOf(class *model.ClassDeclaration) (int, bool) {
	if _, ok := r.parseClassIife(classNode(class)); !ok {
		return 0, false
	}
	if dts := core.FindDtsDeclaration(r.FileContext().Dts, class.Name); dts != nil {
		if tp := dts.Node.ChildByFieldName("type_parameters"); tp != nil {
			return len(core.NamedChildren(tp)), true
		}
	}
	return 0, true
}

// InternalNameOf 定义内部（IIFE 作用域里）引用类要用内层函数名。
func (r *Reflector) InternalNameOf(class *model.ClassDeclaration) *sitter.Node {
	if parts, ok := r.parseClassIife(classNode(class)); ok {
		return parts.inner.ChildByFieldName("name")
	}
	return class.NameNode
}

func (r *Reflector) AdjacentNameOf(class *model.ClassDeclaration) *sitter.Node {
	return r.InternalNameOf(class)
}

func classNode(class *model.ClassDeclaration) *sitter.Node {
	if class == nil {
		return nil
	}
	return class.Node
}
