package es2015_test

import (
	"runtime"
	"testing"

	"github.com/CodMac/go-treesitter-decorator-compiler/core"
	"github.com/CodMac/go-treesitter-decorator-compiler/model"
	"github.com/CodMac/go-treesitter-decorator-compiler/parser"
	"github.com/CodMac/go-treesitter-decorator-compiler/x/es2015"
)

// 辅助函数：解析内联 JS 源码并构造 Reflector
func parseJs(t *testing.T, source string) (*es2015.Reflector, *core.FileContext) {
	t.Helper()
	p, err := parser.NewParser(core.EncEs2015)
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	root, src, err := p.ParseSource([]byte(source))
	if err != nil {
		t.Fatalf("Failed to parse source: %v", err)
	}
	t.Cleanup(func() { runtime.KeepAlive(p) })

	fCtx := core.NewFileContext("test.js", root, src)
	return es2015.NewEs2015Reflector(fCtx), fCtx
}

func findClass(t *testing.T, r *es2015.Reflector, fCtx *core.FileContext, name string) *model.ClassDeclaration {
	t.Helper()
	for _, class := range r.FindClassDeclarations(fCtx.RootNode) {
		if class.Name == name {
			return class
		}
	}
	t.Fatalf("class %s not found", name)
	return nil
}

const staticSlotsFixture = `
import { Component, Inject, Input } from '@angular/core';
import * as core from '@angular/core';
import { Http } from './http';

export class Widget {
    constructor(http, dep) {}
    render() {}
    get value() { return 1; }
}
Widget.decorators = [
    { type: Component, args: [{ selector: 'app-x' }] },
];
Widget.ctorParameters = function () { return [
    { type: Http },
    { type: undefined, decorators: [{ type: Inject, args: [TOKEN] }] },
]; };
Widget.propDecorators = {
    value: [{ type: core.Input }],
};
Widget.defaultLabel = 'x';
`

func TestEs2015Reflector_DecoratorsFromStaticSlot(t *testing.T) {
	r, fCtx := parseJs(t, staticSlotsFixture)
	widget := findClass(t, r, fCtx, "Widget")

	decs := r.DecoratorsOf(&widget.Declaration)
	if len(decs) != 1 {
		t.Fatalf("expected 1 decorator, got %d", len(decs))
	}
	if decs[0].Name != "Component" {
		t.Errorf("expected Component, got %s", decs[0].Name)
	}
	if decs[0].Import == nil || decs[0].Import.From != "@angular/core" {
		t.Errorf("expected import from @angular/core, got %+v", decs[0].Import)
	}
	if len(decs[0].Args) != 1 {
		t.Errorf("expected 1 arg, got %d", len(decs[0].Args))
	}
}

func TestEs2015Reflector_CtorParametersFromStaticSlot(t *testing.T) {
	r, fCtx := parseJs(t, staticSlotsFixture)
	widget := findClass(t, r, fCtx, "Widget")

	params, ok, err := r.ConstructorParametersOf(widget)
	if err != nil || !ok {
		t.Fatalf("expected declared constructor, got ok=%v err=%v", ok, err)
	}
	if len(params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(params))
	}

	if params[0].Name != "http" {
		t.Errorf("expected param name http, got %s", params[0].Name)
	}
	imp, isImp := params[0].TypeValueRef.(*model.ImportedTypeValueReference)
	if !isImp {
		t.Fatalf("expected ImportedTypeValueReference, got %T", params[0].TypeValueRef)
	}
	if imp.ModuleName != "./http" || imp.ImportedName != "Http" {
		t.Errorf("got %s / %s", imp.ModuleName, imp.ImportedName)
	}

	// type: undefined → 令牌缺失，但 @Inject 限定符仍然可见
	if u, isU := params[1].TypeValueRef.(*model.UnavailableTypeValueReference); !isU || u.Reason != model.ReasonMissingType {
		t.Errorf("expected missing-type, got %T", params[1].TypeValueRef)
	}
	if len(params[1].Decorators) != 1 || params[1].Decorators[0].Name != "Inject" {
		t.Fatalf("expected Inject decorator, got %+v", params[1].Decorators)
	}
	if len(params[1].Decorators[0].Args) != 1 {
		t.Errorf("expected 1 Inject arg, got %d", len(params[1].Decorators[0].Args))
	}
}

func TestEs2015Reflector_MembersWithPropDecoratorsAndStatics(t *testing.T) {
	r, fCtx := parseJs(t, staticSlotsFixture)
	widget := findClass(t, r, fCtx, "Widget")

	members, err := r.MembersOf(widget)
	if err != nil {
		t.Fatalf("MembersOf failed: %v", err)
	}

	byName := map[string]*model.ClassMember{}
	for _, m := range members {
		byName[m.Name+"/"+m.Kind.String()] = m
	}

	if _, ok := byName["render/method"]; !ok {
		t.Error("missing render method")
	}
	getter, ok := byName["value/getter"]
	if !ok {
		t.Fatal("missing value getter")
	}
	// propDecorators 槽位回挂到成员上（ns.Input 形态）
	if len(getter.Decorators) != 1 || getter.Decorators[0].Name != "Input" {
		t.Errorf("expected Input decorator on value, got %+v", getter.Decorators)
	}

	// 类体之外的静态赋值也是成员，但元数据槽位不算
	static, ok := byName["defaultLabel/property"]
	if !ok || !static.IsStatic {
		t.Fatal("missing static defaultLabel member")
	}
	for name := range byName {
		switch name {
		case "decorators/property", "ctorParameters/property", "propDecorators/property":
			t.Errorf("metadata slot leaked into members: %s", name)
		}
	}
}

func TestEs2015Reflector_HelperCallDecorators(t *testing.T) {
	r, fCtx := parseJs(t, `
import { Injectable, Inject } from '@angular/core';
import { Http } from './http';

let Service = class Service {
    constructor(http) {}
};
Service = __decorate([
    Injectable(),
    __param(0, Inject(TOKEN)),
    __metadata("design:paramtypes", [Http])
], Service);
export { Service };
`)
	service := findClass(t, r, fCtx, "Service")

	decs := r.DecoratorsOf(&service.Declaration)
	if len(decs) != 1 || decs[0].Name != "Injectable" {
		t.Fatalf("expected Injectable from __decorate, got %+v", decs)
	}
	// 调用形态：Args 非 nil 空切片
	if decs[0].Args == nil || len(decs[0].Args) != 0 {
		t.Errorf("expected empty args, got %v", decs[0].Args)
	}

	params, ok, err := r.ConstructorParametersOf(service)
	if err != nil || !ok || len(params) != 1 {
		t.Fatalf("expected 1 param, got %d (ok=%v err=%v)", len(params), ok, err)
	}
	if len(params[0].Decorators) != 1 || params[0].Decorators[0].Name != "Inject" {
		t.Fatalf("expected __param Inject decorator, got %+v", params[0].Decorators)
	}
}

func TestEs2015Reflector_ClassExpressionInternalName(t *testing.T) {
	r, fCtx := parseJs(t, `const Widget = class WidgetInner {};`)
	widget := findClass(t, r, fCtx, "Widget")

	internal := r.InternalNameOf(widget)
	if fCtx.Content(internal) != "WidgetInner" {
		t.Errorf("expected internal name WidgetInner, got %s", fCtx.Content(internal))
	}
	if widget.Name != "Widget" {
		t.Errorf("expected outer name Widget, got %s", widget.Name)
	}
}

func TestEs2015Reflector_DownleveledEnumIdentity(t *testing.T) {
	r, fCtx := parseJs(t, `
var Color;
(function (Color) {
    Color[Color["Red"] = 0] = "Red";
    Color[Color["Green"] = 1] = "Green";
    Color["Named"] = "named";
})(Color || (Color = {}));
`)

	decl := resolveEnum(t, r, fCtx, "Color")
	if decl == nil || decl.Identity == nil {
		t.Fatalf("expected downleveled enum identity, got %+v", decl)
	}
	members := decl.Identity.Members
	if len(members) != 3 {
		t.Fatalf("expected 3 enum members, got %d", len(members))
	}
	wantNames := []string{"Red", "Green", "Named"}
	wantInits := []string{"0", "1", `"named"`}
	for i, m := range members {
		if m.Name != wantNames[i] {
			t.Errorf("member %d: expected %s, got %s", i, wantNames[i], m.Name)
		}
		if fCtx.Content(m.Initializer) != wantInits[i] {
			t.Errorf("member %d: expected init %s, got %s", i, wantInits[i], fCtx.Content(m.Initializer))
		}
	}
}

// resolveEnum 找到名为 name 的顶层声明符并解析其声明。
func resolveEnum(t *testing.T, r *es2015.Reflector, fCtx *core.FileContext, name string) *model.Declaration {
	t.Helper()
	for _, stmt := range core.NamedChildren(fCtx.RootNode) {
		if stmt.Kind() != "variable_declaration" && stmt.Kind() != "lexical_declaration" {
			continue
		}
		for _, declarator := range core.ChildrenOfKind(stmt, "variable_declarator") {
			nameNode := declarator.ChildByFieldName("name")
			if fCtx.Content(nameNode) == name {
				return r.DeclarationOf(nameNode)
			}
		}
	}
	t.Fatalf("declarator %s not found", name)
	return nil
}
