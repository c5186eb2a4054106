package es2015

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-decorator-compiler/core"
	"github.com/CodMac/go-treesitter-decorator-compiler/model"
)

// ==========================================
// 静态元数据槽位 (Static Metadata Slots)
// ==========================================

// metadataSlots 三个注解元数据槽位名，不算普通静态成员。
var metadataSlots = map[string]bool{
	"decorators":     true,
	"ctorParameters": true,
	"propDecorators": true,
}

// StaticValueOf 在给定作用域的语句列表里查找 `className.prop = <value>`
// 赋值，返回右侧表达式节点。
func (r *Reflector) StaticValueOf(scopes []*sitter.Node, className, prop string) *sitter.Node {
	for _, scope := range scopes {
		for _, stmt := range core.NamedChildren(scope) {
			target, p := r.staticAssignmentOf(stmt, className)
			if p == prop {
				return target
			}
		}
	}
	return nil
}

// staticAssignmentOf 匹配 `className.<prop> = <value>` 语句，
// 返回 (右侧, 属性名)。不匹配时属性名为空串。
func (r *Reflector) staticAssignmentOf(stmt *sitter.Node, className string) (*sitter.Node, string) {
	if stmt.Kind() != "expression_statement" {
		return nil, ""
	}
	assign := core.ChildOfKind(stmt, "assignment_expression")
	if assign == nil {
		return nil, ""
	}
	left := assign.ChildByFieldName("left")
	if left == nil || left.Kind() != "member_expression" {
		return nil, ""
	}
	object := left.ChildByFieldName("object")
	if object == nil || object.Kind() != "identifier" || core.NodeText(object, r.src) != className {
		return nil, ""
	}
	property := left.ChildByFieldName("property")
	if property == nil {
		return nil, ""
	}
	return assign.ChildByFieldName("right"), core.NodeText(property, r.src)
}

// StaticPropertyMembers 收集类体之外的静态属性赋值成员
// (X.foo = bar)，元数据槽位除外。
func (r *Reflector) StaticPropertyMembers(scopes []*sitter.Node, className string) []*model.ClassMember {
	var members []*model.ClassMember
	for _, scope := range scopes {
		for _, stmt := range core.NamedChildren(scope) {
			value, prop := r.staticAssignmentOf(stmt, className)
			if prop == "" || metadataSlots[prop] {
				continue
			}
			assign := core.ChildOfKind(stmt, "assignment_expression")
			nameNode := assign.ChildByFieldName("left").ChildByFieldName("property")
			members = append(members, &model.ClassMember{
				Node:           stmt,
				Kind:           model.MemberProperty,
				Name:           prop,
				NameNode:       nameNode,
				Value:          value,
				Implementation: stmt,
				IsStatic:       true,
			})
		}
	}
	return members
}

// ==========================================
// 装饰器对象数组 (Decorator Object Arrays)
// ==========================================

// DecoratorsFromArray 解析 `[{ type: Component, args: [...] }, ...]`
// 形态的装饰器数组。
func (r *Reflector) DecoratorsFromArray(array *sitter.Node) []*model.Decorator {
	if array == nil || array.Kind() != "array" {
		return nil
	}
	var decorators []*model.Decorator
	for _, element := range core.NamedChildren(array) {
		if element.Kind() != "object" {
			continue
		}
		var typeExpr *sitter.Node
		var args []*sitter.Node
		for _, pair := range core.ChildrenOfKind(element, "pair") {
			key := core.NodeText(pair.ChildByFieldName("key"), r.src)
			value := pair.ChildByFieldName("value")
			switch key {
			case "type":
				typeExpr = value
			case "args":
				if value != nil && value.Kind() == "array" {
					args = core.NamedChildren(value)
					if args == nil {
						args = []*sitter.Node{}
					}
				}
			}
		}
		if dec := r.decoratorFromExpr(typeExpr, element, args); dec != nil {
			decorators = append(decorators, dec)
		}
	}
	return decorators
}

// decoratorFromExpr 从装饰器引用表达式重建装饰器身份。
// 标识符或成员表达式之外的形态不可恢复，直接丢弃。
func (r *Reflector) decoratorFromExpr(expr, node *sitter.Node, args []*sitter.Node) *model.Decorator {
	if expr == nil {
		return nil
	}
	switch expr.Kind() {
	case "identifier":
		imp := r.ImportOf(expr)
		name := core.NodeText(expr, r.src)
		if imp != nil && !imp.Namespace {
			name = imp.Name
		}
		return model.NewConcreteDecorator(name, expr, node, imp, args)
	case "member_expression":
		// ns.Component 形态：经命名空间导入定位来源模块
		object := expr.ChildByFieldName("object")
		property := expr.ChildByFieldName("property")
		if object == nil || property == nil || object.Kind() != "identifier" {
			return nil
		}
		imp := r.ImportOf(object)
		if imp == nil || !imp.Namespace {
			return nil
		}
		return model.NewConcreteDecorator(core.NodeText(property, r.src), expr, node, imp, args)
	}
	return nil
}

// ==========================================
// ctorParameters / propDecorators 槽位
// ==========================================

// StaticCtorParam ctorParameters 槽位里一个参数的元数据。
type StaticCtorParam struct {
	TypeExpr   *sitter.Node
	Decorators []*model.Decorator
}

// CtorParamsFromStatic 解析 ctorParameters 槽位：
// 函数包装 `function() { return [...]; }` 或裸数组两种形态。
func (r *Reflector) CtorParamsFromStatic(value *sitter.Node) []*StaticCtorParam {
	array := r.unwrapReturnedArray(value)
	if array == nil {
		return nil
	}
	var params []*StaticCtorParam
	for _, element := range core.NamedChildren(array) {
		p := &StaticCtorParam{}
		if element.Kind() == "object" {
			for _, pair := range core.ChildrenOfKind(element, "pair") {
				key := core.NodeText(pair.ChildByFieldName("key"), r.src)
				v := pair.ChildByFieldName("value")
				switch key {
				case "type":
					p.TypeExpr = v
				case "decorators":
					p.Decorators = r.DecoratorsFromArray(v)
				}
			}
		}
		params = append(params, p)
	}
	return params
}

// unwrapReturnedArray 剥掉 `function() { return [...]; }` 包装，
// 裸数组原样返回。
func (r *Reflector) unwrapReturnedArray(value *sitter.Node) *sitter.Node {
	value = core.Unparenthesize(value)
	if value == nil {
		return nil
	}
	if value.Kind() == "array" {
		return value
	}
	var body *sitter.Node
	switch value.Kind() {
	case "function_expression", "function_declaration":
		body = value.ChildByFieldName("body")
	case "arrow_function":
		body = value.ChildByFieldName("body")
		if inline := core.Unparenthesize(body); inline != nil && inline.Kind() == "array" {
			return inline
		}
	default:
		return nil
	}
	for _, stmt := range core.NamedChildren(body) {
		if stmt.Kind() != "return_statement" {
			continue
		}
		for _, returned := range core.NamedChildren(stmt) {
			if v := core.Unparenthesize(returned); v != nil && v.Kind() == "array" {
				return v
			}
		}
	}
	return nil
}

// PropDecoratorsFromStatic 解析 propDecorators 槽位：
// `{ input: [{ type: Input }], ... }` → 按成员名分组。
func (r *Reflector) PropDecoratorsFromStatic(value *sitter.Node) map[string][]*model.Decorator {
	value = core.Unparenthesize(value)
	if value == nil || value.Kind() != "object" {
		return nil
	}
	out := map[string][]*model.Decorator{}
	for _, pair := range core.ChildrenOfKind(value, "pair") {
		key := core.NodeText(pair.ChildByFieldName("key"), r.src)
		if decs := r.DecoratorsFromArray(pair.ChildByFieldName("value")); len(decs) > 0 {
			out[key] = decs
		}
	}
	return out
}

// ==========================================
// __decorate / __param 辅助调用 (tslib Helpers)
// ==========================================

// HelperDecorators 识别 `X = __decorate([...], X)` 形态，拆出类装饰器
// 与按参数序号分组的参数装饰器 (__param(i, dec))。
func (r *Reflector) HelperDecorators(scopes []*sitter.Node, className string) ([]*model.Decorator, map[int][]*model.Decorator) {
	paramDecs := map[int][]*model.Decorator{}
	var classDecs []*model.Decorator
	for _, scope := range scopes {
		for _, stmt := range core.NamedChildren(scope) {
			array := r.decorateCallArray(stmt, className)
			if array == nil {
				continue
			}
			for _, element := range core.NamedChildren(array) {
				r.reflectHelperEntry(element, &classDecs, paramDecs)
			}
		}
	}
	return classDecs, paramDecs
}

// decorateCallArray 匹配 `X = __decorate([...], X)`，返回第一实参数组。
func (r *Reflector) decorateCallArray(stmt *sitter.Node, className string) *sitter.Node {
	if stmt.Kind() != "expression_statement" {
		return nil
	}
	assign := core.ChildOfKind(stmt, "assignment_expression")
	if assign == nil {
		return nil
	}
	left := assign.ChildByFieldName("left")
	if left == nil || left.Kind() != "identifier" || core.NodeText(left, r.src) != className {
		return nil
	}
	call := core.Unparenthesize(assign.ChildByFieldName("right"))
	if call == nil || call.Kind() != "call_expression" {
		return nil
	}
	if r.helperName(call.ChildByFieldName("function")) != "__decorate" {
		return nil
	}
	args := core.NamedChildren(call.ChildByFieldName("arguments"))
	if len(args) == 0 || args[0].Kind() != "array" {
		return nil
	}
	return args[0]
}

// reflectHelperEntry 解析 __decorate 数组里的一项。
func (r *Reflector) reflectHelperEntry(element *sitter.Node, classDecs *[]*model.Decorator, paramDecs map[int][]*model.Decorator) {
	element = core.Unparenthesize(element)
	if element == nil {
		return
	}
	if element.Kind() != "call_expression" {
		// 裸引用：未调用的类装饰器
		if dec := r.decoratorFromExpr(element, element, nil); dec != nil {
			*classDecs = append(*classDecs, dec)
		}
		return
	}

	fn := element.ChildByFieldName("function")
	args := core.NamedChildren(element.ChildByFieldName("arguments"))
	switch r.helperName(fn) {
	case "__metadata":
		// design:paramtypes 等编译器元数据，与注解无关
		return
	case "__param":
		if len(args) != 2 || args[0].Kind() != "number" {
			return
		}
		index := parseIndex(core.NodeText(args[0], r.src))
		if index < 0 {
			return
		}
		if dec := r.reflectHelperEntryAsDecorator(args[1]); dec != nil {
			paramDecs[index] = append(paramDecs[index], dec)
		}
	default:
		if dec := r.reflectHelperEntryAsDecorator(element); dec != nil {
			*classDecs = append(*classDecs, dec)
		}
	}
}

// reflectHelperEntryAsDecorator 把调用或裸引用变成装饰器。
func (r *Reflector) reflectHelperEntryAsDecorator(expr *sitter.Node) *model.Decorator {
	expr = core.Unparenthesize(expr)
	if expr == nil {
		return nil
	}
	if expr.Kind() != "call_expression" {
		return r.decoratorFromExpr(expr, expr, nil)
	}
	args := core.NamedChildren(expr.ChildByFieldName("arguments"))
	if args == nil {
		args = []*sitter.Node{}
	}
	return r.decoratorFromExpr(expr.ChildByFieldName("function"), expr, args)
}

// helperName 取辅助函数调用的函数名；tslib_1.__decorate 这类
// 成员形态取属性名。
func (r *Reflector) helperName(fn *sitter.Node) string {
	fn = core.Unparenthesize(fn)
	if fn == nil {
		return ""
	}
	switch fn.Kind() {
	case "identifier":
		return core.NodeText(fn, r.src)
	case "member_expression":
		return core.NodeText(fn.ChildByFieldName("property"), r.src)
	}
	return ""
}

func parseIndex(text string) int {
	index := 0
	for _, c := range text {
		if c < '0' || c > '9' {
			return -1
		}
		index = index*10 + int(c-'0')
	}
	if text == "" {
		return -1
	}
	return index
}
