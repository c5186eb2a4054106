// Package es2015 是降级 ES2015 编码的反射适配器：类仍是 class 语法，
// 但注解元数据被降级成静态槽位（X.decorators / X.ctorParameters /
// X.propDecorators）或 __decorate 辅助调用。
package es2015

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-decorator-compiler/core"
	"github.com/CodMac/go-treesitter-decorator-compiler/model"
)

func init() {
	core.RegisterReflector(core.EncEs2015, func(fc *core.FileContext) core.Reflector {
		return NewEs2015Reflector(fc)
	})
}

// Reflector 降级 ES2015 形态的声明反射。
type Reflector struct {
	fCtx *core.FileContext
	src  []byte
}

func NewEs2015Reflector(fCtx *core.FileContext) *Reflector {
	return &Reflector{fCtx: fCtx, src: *fCtx.SourceBytes}
}

// FileContext 返回底层文件上下文（es5 适配器复用）。
func (r *Reflector) FileContext() *core.FileContext {
	return r.fCtx
}

// ==========================================
// 1. 类识别 (Class Identification)
// ==========================================

// IsClass 识别 class 声明，以及绑定到 class 表达式的变量声明符
// (const X = class {...})。
func (r *Reflector) IsClass(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	switch node.Kind() {
	case "class_declaration":
		return node.ChildByFieldName("name") != nil
	case "variable_declarator":
		value := core.Unparenthesize(node.ChildByFieldName("value"))
		return value != nil && value.Kind() == "class"
	}
	return false
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
		switch target.Kind() {
		case "class_declaration":
			if class := r.ClassDeclarationOf(target); class != nil {
				classes = append(classes, class)
			}
		case "lexical_declaration", "variable_declaration":
			for _, declarator := range core.ChildrenOfKind(target, "variable_declarator") {
				if class := r.ClassDeclarationOf(declarator); class != nil {
					classes = append(classes, class)
				}
			}
		}
	}
	return classes
}

// innerClassNode 取真正携带类体的节点（class 声明本身，或变量形态下
// 绑定的 class 表达式）。
func (r *Reflector) innerClassNode(class *model.ClassDeclaration) *sitter.Node {
	if class == nil || class.Node == nil {
		return nil
	}
	switch class.Node.Kind() {
	case "class_declaration":
		return class.Node
	case "variable_declarator":
		value := core.Unparenthesize(class.Node.ChildByFieldName("value"))
		if value != nil && value.Kind() == "class" {
			return value
		}
	}
	return nil
}

// ==========================================
// 2. 装饰器 (Decorators)
// ==========================================

// DecoratorsOf 从静态槽位 X.decorators 或 __decorate 辅助调用里恢复
// 类装饰器。
func (r *Reflector) DecoratorsOf(decl *model.Declaration) []*model.Decorator {
	if decl == nil || decl.Node == nil {
		return nil
	}
	name := core.NodeText(decl.Node.ChildByFieldName("name"), r.src)
	if name == "" {
		return nil
	}
	scopes := []*sitter.Node{r.fCtx.RootNode}
	if arr := r.StaticValueOf(scopes, name, "decorators"); arr != nil {
		return r.DecoratorsFromArray(arr)
	}
	classDecs, _ := r.HelperDecorators(scopes, name)
	return classDecs
}

// ==========================================
// 3. 成员 (Members)
// ==========================================

func (r *Reflector) MembersOf(class *model.ClassDeclaration) ([]*model.ClassMember, error) {
	inner := r.innerClassNode(class)
	if inner == nil {
		var node *sitter.Node
		if class != nil {
			node = class.Node
		}
		return nil, model.NewInvalidInputError("not a class", r.fCtx.FilePath, node)
	}

	var members []*model.ClassMember
	body := inner.ChildByFieldName("body")
	for _, child := range core.NamedChildren(body) {
		if m := r.reflectMember(child); m != nil {
			members = append(members, m)
		}
	}

	// 类体之外的静态属性赋值 (X.foo = ...)
	members = append(members, r.StaticPropertyMembers([]*sitter.Node{r.fCtx.RootNode}, class.Name)...)

	// propDecorators 静态槽位按成员名回挂
	if propDecs := r.StaticValueOf([]*sitter.Node{r.fCtx.RootNode}, class.Name, "propDecorators"); propDecs != nil {
		attachPropDecorators(members, r.PropDecoratorsFromStatic(propDecs))
	}
	return members, nil
}

func (r *Reflector) reflectMember(node *sitter.Node) *model.ClassMember {
	switch node.Kind() {
	case "method_definition":
		nameNode := node.ChildByFieldName("name")
		name := core.NodeText(nameNode, r.src)
		kind := model.MemberMethod
		switch {
		case name == "constructor":
			kind = model.MemberConstructor
		case core.HasChildOfKind(node, "get"):
			kind = model.MemberGetter
		case core.HasChildOfKind(node, "set"):
			kind = model.MemberSetter
		}
		return &model.ClassMember{
			Node:           node,
			Kind:           kind,
			Name:           name,
			NameNode:       nameNode,
			Implementation: node,
			IsStatic:       core.HasChildOfKind(node, "static"),
		}
	case "field_definition":
		nameNode := node.ChildByFieldName("property")
		return &model.ClassMember{
			Node:           node,
			Kind:           model.MemberProperty,
			Name:           core.NodeText(nameNode, r.src),
			NameNode:       nameNode,
			Value:          node.ChildByFieldName("value"),
			Implementation: node,
			IsStatic:       core.HasChildOfKind(node, "static"),
		}
	}
	return nil
}

// ==========================================
// 4. 构造参数 (Constructor Parameters)
// ==========================================

func (r *Reflector) ConstructorParametersOf(class *model.ClassDeclaration) ([]*model.CtorParameter, bool, error) {
	inner := r.innerClassNode(class)
	if inner == nil {
		var node *sitter.Node
		if class != nil {
			node = class.Node
		}
		return nil, false, model.NewInvalidInputError("not a class", r.fCtx.FilePath, node)
	}

	ctor := r.findConstructor(inner)
	scopes := []*sitter.Node{r.fCtx.RootNode}
	staticParams := r.CtorParamsFromStatic(r.StaticValueOf(scopes, class.Name, "ctorParameters"))
	if ctor == nil && staticParams == nil {
		return nil, false, nil
	}

	var names []*sitter.Node
	if ctor != nil {
		names = constructorParamPatterns(ctor)
	}
	// __param 辅助调用里的参数装饰器
	_, helperParamDecs := r.HelperDecorators(scopes, class.Name)

	count := len(names)
	if len(staticParams) > count {
		count = len(staticParams)
	}
	params := []*model.CtorParameter{}
	for i := 0; i < count; i++ {
		p := &model.CtorParameter{
			TypeValueRef: &model.UnavailableTypeValueReference{Reason: model.ReasonMissingType},
		}
		if i < len(names) {
			p.NameNode = names[i]
			if names[i].Kind() == "identifier" {
				p.Name = core.NodeText(names[i], r.src)
			}
		}
		if i < len(staticParams) {
			p.TypeNode = staticParams[i].TypeExpr
			p.TypeValueRef = r.ValueExprToTypeValue(staticParams[i].TypeExpr)
			p.Decorators = staticParams[i].Decorators
		}
		if decs, ok := helperParamDecs[i]; ok {
			p.Decorators = append(p.Decorators, decs...)
		}
		params = append(params, p)
	}
	return params, true, nil
}

func (r *Reflector) findConstructor(inner *sitter.Node) *sitter.Node {
	body := inner.ChildByFieldName("body")
	for _, child := range core.NamedChildren(body) {
		if child.Kind() != "method_definition" {
			continue
		}
		if core.NodeText(child.ChildByFieldName("name"), r.src) == "constructor" {
			return child
		}
	}
	return nil
}

// constructorParamPatterns 取构造函数形参的绑定模式节点。
func constructorParamPatterns(ctor *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	paramList := ctor.ChildByFieldName("parameters")
	for _, p := range core.NamedChildren(paramList) {
		switch p.Kind() {
		case "identifier", "object_pattern", "array_pattern", "rest_pattern":
			out = append(out, p)
		case "assignment_pattern":
			if left := p.ChildByFieldName("left"); left != nil {
				out = append(out, left)
			}
		}
	}
	return out
}

// ==========================================
// 5. 继承、泛型与名称 (Heritage, Generics & Names)
// ==========================================

func (r *Reflector) HasBaseClass(class *model.ClassDeclaration) bool {
	return r.BaseClassExpressionOf(class) != nil
}

func (r *Reflector) BaseClassExpressionOf(class *model.ClassDeclaration) *sitter.Node {
	inner := r.innerClassNode(class)
	heritage := core.ChildOfKind(inner, "class_heritage")
	if heritage == nil {
		return nil
	}
	named := core.NamedChildren(heritage)
	if len(named) == 0 {
		return nil
	}
	return named[0]
}

// GenericArityOf 降级编码下泛型已被擦除，经由声明专用伴随树重建。
func (r *Reflector) GenericArityOf(class *model.ClassDeclaration) (int, bool) {
	if r.innerClassNode(class) == nil {
		return 0, false
	}
	if dts := core.FindDtsDeclaration(r.fCtx.Dts, class.Name); dts != nil {
		if tp := dts.Node.ChildByFieldName("type_parameters"); tp != nil {
			return len(core.NamedChildren(tp)), true
		}
	}
	return 0, true
}

// InternalNameOf 变量形态下 class 表达式可以自带内部名
// (const X = class X2 {})，定义内部要用它。
func (r *Reflector) InternalNameOf(class *model.ClassDeclaration) *sitter.Node {
	if inner := r.innerClassNode(class); inner != nil {
		if name := inner.ChildByFieldName("name"); name != nil {
			return name
		}
	}
	return class.NameNode
}

func (r *Reflector) AdjacentNameOf(class *model.ClassDeclaration) *sitter.Node {
	return r.InternalNameOf(class)
}

func (r *Reflector) DtsDeclarationOf(decl *model.Declaration) *model.Declaration {
	if r.fCtx.Dts == nil || decl == nil || decl.Node == nil {
		return nil
	}
	name := core.NodeText(decl.Node.ChildByFieldName("name"), r.src)
	return core.FindDtsDeclaration(r.fCtx.Dts, name)
}

// attachPropDecorators 把 propDecorators 槽位按成员名回挂。
func attachPropDecorators(members []*model.ClassMember, decs map[string][]*model.Decorator) {
	for _, m := range members {
		if d, ok := decs[m.Name]; ok {
			m.Decorators = append(m.Decorators, d...)
		}
	}
}
