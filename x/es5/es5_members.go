package es5

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-decorator-compiler/core"
	"github.com/CodMac/go-treesitter-decorator-compiler/model"
)

// ==========================================
// 成员 (Members)
// ==========================================

// MembersOf ES5 成员散落在 IIFE 体内：原型赋值是方法/属性，
// Object.defineProperty 是访问器，内部名静态赋值是静态属性。
func (r *Reflector) MembersOf(class *model.ClassDeclaration) ([]*model.ClassMember, error) {
	parts, ok := r.parseClassIife(classNode(class))
	if !ok {
		return nil, model.NewInvalidInputError("not a class", r.FileContext().FilePath, classNode(class))
	}

	var members []*model.ClassMember
	for _, stmt := range core.NamedChildren(parts.body) {
		if m := r.prototypeMember(stmt, parts.innerName); m != nil {
			members = append(members, m)
			continue
		}
		members = append(members, r.definePropertyMembers(stmt, parts.innerName)...)
	}

	members = append(members, r.StaticPropertyMembers([]*sitter.Node{parts.body}, parts.innerName)...)
	members = append(members, r.StaticPropertyMembers([]*sitter.Node{r.fCtx.RootNode}, class.Name)...)

	for _, lookup := range []struct {
		scope *sitter.Node
		name  string
	}{
		{parts.body, parts.innerName},
		{r.fCtx.RootNode, class.Name},
	} {
		if slot := r.StaticValueOf([]*sitter.Node{lookup.scope}, lookup.name, "propDecorators"); slot != nil {
			attachPropDecorators(members, r.PropDecoratorsFromStatic(slot))
			break
		}
	}
	return members, nil
}

// prototypeMember 匹配 `X.prototype.m = <value>` 赋值。
// 右侧是函数则为方法，否则为实例属性。
func (r *Reflector) prototypeMember(stmt *sitter.Node, innerName string) *model.ClassMember {
	if stmt.Kind() != "expression_statement" {
		return nil
	}
	assign := core.ChildOfKind(stmt, "assignment_expression")
	if assign == nil {
		return nil
	}
	left := assign.ChildByFieldName("left")
	if left == nil || left.Kind() != "member_expression" {
		return nil
	}
	if !r.isPrototypeOf(left.ChildByFieldName("object"), innerName) {
		return nil
	}
	nameNode := left.ChildByFieldName("property")
	value := core.Unparenthesize(assign.ChildByFieldName("right"))

	kind := model.MemberProperty
	implementation := stmt
	if value != nil && (value.Kind() == "function_expression" || value.Kind() == "arrow_function") {
		kind = model.MemberMethod
		implementation = value
	}
	return &model.ClassMember{
		Node:           stmt,
		Kind:           kind,
		Name:           core.NodeText(nameNode, r.src),
		NameNode:       nameNode,
		Value:          assign.ChildByFieldName("right"),
		Implementation: implementation,
	}
}

// definePropertyMembers 匹配
// `Object.defineProperty(X.prototype, "p", { get: ..., set: ... })`。
// 每个访问器各成一个成员：Node 是整条语句，Implementation 是
// 对应的访问器函数。
func (r *Reflector) definePropertyMembers(stmt *sitter.Node, innerName string) []*model.ClassMember {
	if stmt.Kind() != "expression_statement" {
		return nil
	}
	call := core.ChildOfKind(stmt, "call_expression")
	if call == nil {
		return nil
	}
	fn := call.ChildByFieldName("function")
	if fn == nil || fn.Kind() != "member_expression" {
		return nil
	}
	if core.NodeText(fn.ChildByFieldName("object"), r.src) != "Object" ||
		core.NodeText(fn.ChildByFieldName("property"), r.src) != "defineProperty" {
		return nil
	}
	args := core.NamedChildren(call.ChildByFieldName("arguments"))
	if len(args) != 3 {
		return nil
	}

	isStatic := false
	target := core.Unparenthesize(args[0])
	switch {
	case r.isPrototypeOf(target, innerName):
	case target != nil && target.Kind() == "identifier" && core.NodeText(target, r.src) == innerName:
		isStatic = true
	default:
		return nil
	}
	name, ok := stringLiteralText(args[1], r.src)
	if !ok {
		return nil
	}
	descriptor := core.Unparenthesize(args[2])
	if descriptor == nil || descriptor.Kind() != "object" {
		return nil
	}

	var members []*model.ClassMember
	for _, pair := range core.ChildrenOfKind(descriptor, "pair") {
		kind := model.ClassMemberKind(-1)
		switch core.NodeText(pair.ChildByFieldName("key"), r.src) {
		case "get":
			kind = model.MemberGetter
		case "set":
			kind = model.MemberSetter
		default:
			continue
		}
		members = append(members, &model.ClassMember{
			Node:           stmt,
			Kind:           kind,
			Name:           name,
			NameNode:       args[1],
			Implementation: pair.ChildByFieldName("value"),
			IsStatic:       isStatic,
		})
	}
	return members
}

// isPrototypeOf 判断节点是否为 `<innerName>.prototype`。
func (r *Reflector) isPrototypeOf(node *sitter.Node, innerName string) bool {
	node = core.Unparenthesize(node)
	if node == nil || node.Kind() != "member_expression" {
		return false
	}
	object := node.ChildByFieldName("object")
	return object != nil && object.Kind() == "identifier" &&
		core.NodeText(object, r.src) == innerName &&
		core.NodeText(node.ChildByFieldName("property"), r.src) == "prototype"
}

func stringLiteralText(node *sitter.Node, src []byte) (string, bool) {
	if node == nil || node.Kind() != "string" {
		return "", false
	}
	if frag := core.ChildOfKind(node, "string_fragment"); frag != nil {
		return core.NodeText(frag, src), true
	}
	return "", false
}

func attachPropDecorators(members []*model.ClassMember, decs map[string][]*model.Decorator) {
	for _, m := range members {
		if d, ok := decs[m.Name]; ok {
			m.Decorators = append(m.Decorators, d...)
		}
	}
}

// ==========================================
// 构造参数 (Constructor Parameters)
// ==========================================

// ConstructorParametersOf 内层函数即构造函数。合成构造函数
// （只做 `_super.apply(this, arguments)` 转发）视同未声明。
func (r *Reflector) ConstructorParametersOf(class *model.ClassDeclaration) ([]*model.CtorParameter, bool, error) {
	parts, ok := r.parseClassIife(classNode(class))
	if !ok {
		return nil, false, model.NewInvalidInputError("not a class", r.FileContext().FilePath, classNode(class))
	}
	if r.isSynthesizedCtor(parts) {
		return nil, false, nil
	}

	var names []*sitter.Node
	for _, p := range core.NamedChildren(parts.inner.ChildByFieldName("parameters")) {
		switch p.Kind() {
		case "identifier", "object_pattern", "array_pattern", "rest_pattern":
			names = append(names, p)
		case "assignment_pattern":
			if left := p.ChildByFieldName("left"); left != nil {
				names = append(names, left)
			}
		}
	}

	staticParams := r.CtorParamsFromStatic(
		r.StaticValueOf([]*sitter.Node{parts.body}, parts.innerName, "ctorParameters"))
	if staticParams == nil {
		staticParams = r.CtorParamsFromStatic(
			r.StaticValueOf([]*sitter.Node{r.fCtx.RootNode}, class.Name, "ctorParameters"))
	}

	_, helperParamDecs := r.HelperDecorators([]*sitter.Node{parts.body}, parts.innerName)
	if len(helperParamDecs) == 0 {
		_, helperParamDecs = r.HelperDecorators([]*sitter.Node{r.fCtx.RootNode}, class.Name)
	}

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

// isSynthesizedCtor 检测 TS 为派生类补出的转发构造函数：
// 体内存在 `<super 形参>.apply(this, arguments)` 调用。
func (r *Reflector) isSynthesizedCtor(parts *classParts) bool {
	wrapperParams := core.NamedChildren(parts.wrapperFn.ChildByFieldName("parameters"))
	if len(wrapperParams) == 0 || wrapperParams[0].Kind() != "identifier" {
		return false
	}
	superName := core.NodeText(wrapperParams[0], r.src)

	found := false
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if found || n == nil {
			return
		}
		if n.Kind() == "call_expression" {
			if fn := n.ChildByFieldName("function"); fn != nil && fn.Kind() == "member_expression" {
				object := fn.ChildByFieldName("object")
				if object != nil && object.Kind() == "identifier" &&
					core.NodeText(object, r.src) == superName &&
					core.NodeText(fn.ChildByFieldName("property"), r.src) == "apply" {
					args := core.NamedChildren(n.ChildByFieldName("arguments"))
					if len(args) == 2 && args[0].Kind() == "this" &&
						core.NodeText(args[1], r.src) == "arguments" {
						found = true
						return
					}
				}
			}
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(parts.inner.ChildByFieldName("body"))
	return found
}
