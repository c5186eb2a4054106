// Package ts 是原生 TypeScript 编码的反射适配器：
// 装饰器直接挂在声明上，构造参数携带类型注解。
package ts

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-decorator-compiler/core"
	"github.com/CodMac/go-treesitter-decorator-compiler/model"
)

func init() {
	core.RegisterReflector(core.EncTypeScript, func(fc *core.FileContext) core.Reflector {
		return NewTsReflector(fc)
	})
}

// Reflector 原生 TypeScript 形态的声明反射。
type Reflector struct {
	fCtx *core.FileContext
	src  []byte
}

func NewTsReflector(fCtx *core.FileContext) *Reflector {
	return &Reflector{fCtx: fCtx, src: *fCtx.SourceBytes}
}

// ==========================================
// 1. 类识别 (Class Identification)
// ==========================================

func (r *Reflector) IsClass(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	switch node.Kind() {
	case "class_declaration", "abstract_class_declaration":
		return node.ChildByFieldName("name") != nil
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
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if r.IsClass(n) {
			if class := r.ClassDeclarationOf(n); class != nil {
				classes = append(classes, class)
			}
			return
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			if child := n.Child(i); child != nil {
				walk(child)
			}
		}
	}
	walk(root)
	return classes
}

// ==========================================
// 2. 装饰器 (Decorators)
// ==========================================

func (r *Reflector) DecoratorsOf(decl *model.Declaration) []*model.Decorator {
	if decl == nil || decl.Node == nil {
		return nil
	}
	node := decl.Node
	var decorators []*model.Decorator
	for _, decNode := range core.ChildrenOfKind(node, "decorator") {
		if d := r.reflectDecorator(decNode); d != nil {
			decorators = append(decorators, d)
		}
	}
	// 导出类的装饰器挂在 export_statement 上
	if parent := node.Parent(); parent != nil && parent.Kind() == "export_statement" {
		for _, decNode := range core.ChildrenOfKind(parent, "decorator") {
			if d := r.reflectDecorator(decNode); d != nil {
				decorators = append(decorators, d)
			}
		}
	}
	return decorators
}

// reflectDecorator 解析一次装饰器使用：@Name、@Name(args)、@ns.Name(args)。
func (r *Reflector) reflectDecorator(decNode *sitter.Node) *model.Decorator {
	expr := core.NamedChildren(decNode)
	if len(expr) == 0 {
		return nil
	}
	target := expr[0]

	var args []*sitter.Node
	if target.Kind() == "call_expression" {
		if argList := target.ChildByFieldName("arguments"); argList != nil {
			args = core.NamedChildren(argList)
			if args == nil {
				args = []*sitter.Node{} // 调用了但零实参，区别于裸引用
			}
		}
		target = target.ChildByFieldName("function")
		if target == nil {
			return nil
		}
	}

	name, ident := r.decoratorIdentity(target)
	if name == "" {
		return nil
	}
	return model.NewConcreteDecorator(name, ident, decNode, r.ImportOf(ident), args)
}

// decoratorIdentity 从标识符或成员访问中取展示名与可解析标识符。
func (r *Reflector) decoratorIdentity(target *sitter.Node) (string, *sitter.Node) {
	switch target.Kind() {
	case "identifier":
		return core.NodeText(target, r.src), target
	case "member_expression":
		obj := target.ChildByFieldName("object")
		prop := target.ChildByFieldName("property")
		if obj == nil || prop == nil || obj.Kind() != "identifier" {
			return "", nil
		}
		return core.NodeText(prop, r.src), obj
	}
	return "", nil
}

// ==========================================
// 3. 成员 (Members)
// ==========================================

func (r *Reflector) MembersOf(class *model.ClassDeclaration) ([]*model.ClassMember, error) {
	if class == nil || !r.IsClass(class.Node) {
		var node *sitter.Node
		if class != nil {
			node = class.Node
		}
		return nil, model.NewInvalidInputError("not a class", r.fCtx.FilePath, node)
	}

	body := class.Node.ChildByFieldName("body")
	var members []*model.ClassMember
	for _, child := range core.NamedChildren(body) {
		if m := r.reflectMember(child); m != nil {
			members = append(members, m)
		}
	}
	return members, nil
}

func (r *Reflector) reflectMember(node *sitter.Node) *model.ClassMember {
	var kind model.ClassMemberKind
	switch node.Kind() {
	case "method_definition", "abstract_method_signature":
		nameNode := node.ChildByFieldName("name")
		name := core.NodeText(nameNode, r.src)
		switch {
		case name == "constructor":
			kind = model.MemberConstructor
		case core.HasChildOfKind(node, "get"):
			kind = model.MemberGetter
		case core.HasChildOfKind(node, "set"):
			kind = model.MemberSetter
		default:
			kind = model.MemberMethod
		}
		var typeNode *sitter.Node
		if ret := node.ChildByFieldName("return_type"); ret != nil {
			typeNode = typeOfAnnotation(ret)
		}
		return &model.ClassMember{
			Node:           node,
			Kind:           kind,
			TypeNode:       typeNode,
			Name:           name,
			NameNode:       nameNode,
			Implementation: node,
			IsStatic:       core.HasChildOfKind(node, "static"),
			Decorators:     r.memberDecorators(node),
		}
	case "public_field_definition":
		nameNode := node.ChildByFieldName("name")
		return &model.ClassMember{
			Node:           node,
			Kind:           model.MemberProperty,
			TypeNode:       typeOfAnnotation(node.ChildByFieldName("type")),
			Name:           core.NodeText(nameNode, r.src),
			NameNode:       nameNode,
			Value:          node.ChildByFieldName("value"),
			Implementation: node,
			IsStatic:       core.HasChildOfKind(node, "static"),
			Decorators:     r.memberDecorators(node),
		}
	}
	return nil
}

func (r *Reflector) memberDecorators(node *sitter.Node) []*model.Decorator {
	var decorators []*model.Decorator
	for _, decNode := range core.ChildrenOfKind(node, "decorator") {
		if d := r.reflectDecorator(decNode); d != nil {
			decorators = append(decorators, d)
		}
	}
	return decorators
}

// ==========================================
// 4. 构造参数 (Constructor Parameters)
// ==========================================

func (r *Reflector) ConstructorParametersOf(class *model.ClassDeclaration) ([]*model.CtorParameter, bool, error) {
	if class == nil || !r.IsClass(class.Node) {
		var node *sitter.Node
		if class != nil {
			node = class.Node
		}
		return nil, false, model.NewInvalidInputError("not a class", r.fCtx.FilePath, node)
	}

	ctor := r.findConstructor(class.Node)
	if ctor == nil {
		return nil, false, nil
	}

	params := []*model.CtorParameter{}
	paramList := ctor.ChildByFieldName("parameters")
	for _, p := range core.NamedChildren(paramList) {
		switch p.Kind() {
		case "required_parameter", "optional_parameter":
		default:
			continue
		}
		pattern := p.ChildByFieldName("pattern")
		name := ""
		if pattern != nil && pattern.Kind() == "identifier" {
			name = core.NodeText(pattern, r.src)
		}
		typeNode := typeOfAnnotation(p.ChildByFieldName("type"))
		params = append(params, &model.CtorParameter{
			Name:         name,
			NameNode:     pattern,
			TypeValueRef: r.typeToValue(typeNode, p),
			TypeNode:     typeNode,
			Decorators:   r.memberDecorators(p),
		})
	}
	return params, true, nil
}

// findConstructor 只找直接声明的构造函数，从不追溯基类。
func (r *Reflector) findConstructor(classNode *sitter.Node) *sitter.Node {
	body := classNode.ChildByFieldName("body")
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

// ==========================================
// 5. 继承与泛型 (Heritage & Generics)
// ==========================================

func (r *Reflector) HasBaseClass(class *model.ClassDeclaration) bool {
	return r.BaseClassExpressionOf(class) != nil
}

func (r *Reflector) BaseClassExpressionOf(class *model.ClassDeclaration) *sitter.Node {
	if class == nil || !r.IsClass(class.Node) {
		return nil
	}
	heritage := core.ChildOfKind(class.Node, "class_heritage")
	extends := core.ChildOfKind(heritage, "extends_clause")
	if extends == nil {
		return nil
	}
	if value := extends.ChildByFieldName("value"); value != nil {
		return value
	}
	named := core.NamedChildren(extends)
	if len(named) > 0 {
		return named[0]
	}
	return nil
}

func (r *Reflector) GenericArityOf(class *model.ClassDeclaration) (int, bool) {
	if class == nil || !r.IsClass(class.Node) {
		return 0, false
	}
	tp := class.Node.ChildByFieldName("type_parameters")
	if tp == nil {
		return 0, true
	}
	return len(core.NamedChildren(tp)), true
}

// ==========================================
// 6. 名称与伴随树 (Names & Companion Tree)
// ==========================================

// InternalNameOf 原生形态下定义内外引用同一个名字。
func (r *Reflector) InternalNameOf(class *model.ClassDeclaration) *sitter.Node {
	return class.NameNode
}

func (r *Reflector) AdjacentNameOf(class *model.ClassDeclaration) *sitter.Node {
	return class.NameNode
}

func (r *Reflector) DtsDeclarationOf(decl *model.Declaration) *model.Declaration {
	if r.fCtx.Dts == nil || decl == nil || decl.Node == nil {
		return nil
	}
	nameNode := decl.Node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	return core.FindDtsDeclaration(r.fCtx.Dts, core.NodeText(nameNode, r.src))
}
