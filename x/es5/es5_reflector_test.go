package es5_test

import (
	"runtime"
	"testing"

	"github.com/CodMac/go-treesitter-decorator-compiler/core"
	"github.com/CodMac/go-treesitter-decorator-compiler/model"
	"github.com/CodMac/go-treesitter-decorator-compiler/parser"
	"github.com/CodMac/go-treesitter-decorator-compiler/x/es5"
)

func parseJs(t *testing.T, source string) (*es5.Reflector, *core.FileContext) {
	t.Helper()
	p, err := parser.NewParser(core.EncEs5)
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	root, src, err := p.ParseSource([]byte(source))
	if err != nil {
		t.Fatalf("Failed to parse source: %v", err)
	}
	t.Cleanup(func() { runtime.KeepAlive(p) })

	fCtx := core.NewFileContext("test.js", root, src)
	return es5.NewEs5Reflector(fCtx), fCtx
}

func findClass(t *testing.T, r *es5.Reflector, fCtx *core.FileContext, name string) *model.ClassDeclaration {
	t.Helper()
	for _, class := range r.FindClassDeclarations(fCtx.RootNode) {
		if class.Name == name {
			return class
		}
	}
	t.Fatalf("class %s not found", name)
	return nil
}

const iifeFixture = `
import { Component } from '@angular/core';
import { Http } from './http';

var Widget = /** @class */ (function (_super) {
    __extends(Widget, _super);
    function Widget(http) {
        var _this = _super.call(this) || this;
        _this.http = http;
        return _this;
    }
    Widget.prototype.render = function () {};
    Object.defineProperty(Widget.prototype, "value", {
        get: function () { return 1; },
        set: function (v) {},
        enumerable: false,
        configurable: true
    });
    Widget.decorators = [
        { type: Component, args: [{ selector: 'app-x' }] }
    ];
    Widget.ctorParameters = function () { return [
        { type: Http }
    ]; };
    return Widget;
}(Base));
export { Widget };
`

func TestEs5Reflector_IsClass(t *testing.T) {
	r, fCtx := parseJs(t, iifeFixture+`
var notAClass = (function () { return 42; }());
var alsoNot = function () {};
`)
	classes := r.FindClassDeclarations(fCtx.RootNode)
	if len(classes) != 1 || classes[0].Name != "Widget" {
		t.Fatalf("expected exactly Widget, got %+v", classes)
	}
}

func TestEs5Reflector_DecoratorsFromIifeScope(t *testing.T) {
	r, fCtx := parseJs(t, iifeFixture)
	widget := findClass(t, r, fCtx, "Widget")

	decs := r.DecoratorsOf(&widget.Declaration)
	if len(decs) != 1 || decs[0].Name != "Component" {
		t.Fatalf("expected Component, got %+v", decs)
	}
	if decs[0].Import == nil || decs[0].Import.From != "@angular/core" {
		t.Errorf("expected import from @angular/core, got %+v", decs[0].Import)
	}
}

func TestEs5Reflector_Members(t *testing.T) {
	r, fCtx := parseJs(t, iifeFixture)
	widget := findClass(t, r, fCtx, "Widget")

	members, err := r.MembersOf(widget)
	if err != nil {
		t.Fatalf("MembersOf failed: %v", err)
	}

	var render, getter, setter *model.ClassMember
	for _, m := range members {
		switch {
		case m.Name == "render" && m.Kind == model.MemberMethod:
			render = m
		case m.Name == "value" && m.Kind == model.MemberGetter:
			getter = m
		case m.Name == "value" && m.Kind == model.MemberSetter:
			setter = m
		}
	}
	if render == nil {
		t.Fatal("missing render method")
	}
	// 原型方法：Node 是整条赋值语句，Implementation 是函数表达式
	if render.Node.Kind() != "expression_statement" {
		t.Errorf("render Node: expected expression_statement, got %s", render.Node.Kind())
	}
	if render.Implementation.Kind() != "function_expression" {
		t.Errorf("render Implementation: expected function_expression, got %s", render.Implementation.Kind())
	}

	// defineProperty 访问器对：两个成员共用外层语句，各持有自己的访问器函数
	if getter == nil || setter == nil {
		t.Fatal("missing defineProperty accessors")
	}
	if getter.Node != setter.Node {
		t.Error("accessor pair should share the defining statement node")
	}
	if getter.Node.Kind() != "expression_statement" {
		t.Errorf("accessor Node: expected expression_statement, got %s", getter.Node.Kind())
	}
	if getter.Implementation == setter.Implementation {
		t.Error("accessors should carry their own implementation functions")
	}
}

func TestEs5Reflector_CtorParameters(t *testing.T) {
	r, fCtx := parseJs(t, iifeFixture)
	widget := findClass(t, r, fCtx, "Widget")

	params, ok, err := r.ConstructorParametersOf(widget)
	if err != nil || !ok {
		t.Fatalf("expected declared constructor, got ok=%v err=%v", ok, err)
	}
	if len(params) != 1 || params[0].Name != "http" {
		t.Fatalf("expected 1 param http, got %+v", params)
	}
	imp, isImp := params[0].TypeValueRef.(*model.ImportedTypeValueReference)
	if !isImp || imp.ImportedName != "Http" {
		t.Fatalf("expected imported Http token, got %T", params[0].TypeValueRef)
	}
}

func TestEs5Reflector_SynthesizedCtorIsAbsent(t *testing.T) {
	r, fCtx := parseJs(t, `
var Derived = (function (_super) {
    __extends(Derived, _super);
    function Derived() {
        return _super !== null && _super.apply(this, arguments) || this;
    }
    return Derived;
}(Base));
`)
	derived := findClass(t, r, fCtx, "Derived")

	// 编译器补出的转发构造函数视同未声明
	_, ok, err := r.ConstructorParametersOf(derived)
	if err != nil {
		t.Fatalf("ConstructorParametersOf failed: %v", err)
	}
	if ok {
		t.Fatal("synthesized constructor should report ok=false")
	}
}

func TestEs5Reflector_BaseClassAndNames(t *testing.T) {
	r, fCtx := parseJs(t, iifeFixture+`
var Plain = (function () {
    function Plain() {}
    return Plain;
}());
`)
	widget := findClass(t, r, fCtx, "Widget")
	plain := findClass(t, r, fCtx, "Plain")

	if !r.HasBaseClass(widget) {
		t.Error("Widget should have a base class")
	}
	if base := r.BaseClassExpressionOf(widget); base == nil || fCtx.Content(base) != "Base" {
		t.Errorf("expected base expression Base, got %q", fCtx.Content(base))
	}
	if r.HasBaseClass(plain) {
		t.Error("Plain should have no base class")
	}

	// 内部名指向 IIFE 里的构造函数名，而不是外层声明符
	internal := r.InternalNameOf(widget)
	if internal == widget.NameNode {
		t.Error("internal name should differ from the outer declarator name node")
	}
	if fCtx.Content(internal) != "Widget" {
		t.Errorf("expected internal name text Widget, got %s", fCtx.Content(internal))
	}
}

// 辅助函数：解析内联 .d.ts 源码为声明专用伴随树（恒用 TypeScript 语法）
func parseDts(t *testing.T, source string) *core.FileContext {
	t.Helper()
	p, err := parser.NewParser(core.EncTypeScript)
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	root, src, err := p.ParseSource([]byte(source))
	if err != nil {
		t.Fatalf("Failed to parse source: %v", err)
	}
	t.Cleanup(func() { runtime.KeepAlive(p) })

	return core.NewFileContext("test.d.ts", root, src)
}

func TestEs5Reflector_DtsDeclarationOf(t *testing.T) {
	r, fCtx := parseJs(t, iifeFixture)
	fCtx.Dts = parseDts(t, `
import { Http } from './http';
export declare class Widget<T> {
    http: Http;
    constructor(http: Http);
}
`)

	widget := findClass(t, r, fCtx, "Widget")
	decl := r.DtsDeclarationOf(&widget.Declaration)
	if decl == nil {
		t.Fatal("expected companion declaration for Widget")
	}
	if decl.Node.Kind() != "class_declaration" {
		t.Errorf("expected class_declaration, got %s", decl.Node.Kind())
	}
	if fCtx.Dts.Content(decl.Node.ChildByFieldName("name")) != "Widget" {
		t.Errorf("companion name: got %s", fCtx.Dts.Content(decl.Node.ChildByFieldName("name")))
	}

	// 无伴随树时恒为 nil
	bare, bareCtx := parseJs(t, iifeFixture)
	if bare.DtsDeclarationOf(&findClass(t, bare, bareCtx, "Widget").Declaration) != nil {
		t.Error("expected nil without a companion tree")
	}
}
