package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CodMac/go-treesitter-decorator-compiler/core"
	"github.com/CodMac/go-treesitter-decorator-compiler/output"
	_ "github.com/CodMac/go-treesitter-decorator-compiler/x/es2015"
	_ "github.com/CodMac/go-treesitter-decorator-compiler/x/es5"
	_ "github.com/CodMac/go-treesitter-decorator-compiler/x/ts"
)

// 辅助函数：把内联源码落盘成测试文件树
func writeFiles(t *testing.T, files map[string]string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		paths = append(paths, path)
	}
	return dir, paths
}

func findRecord(t *testing.T, records []*output.FactoryRecord, class string) *output.FactoryRecord {
	t.Helper()
	for _, rec := range records {
		if rec.Class == class {
			return rec
		}
	}
	t.Fatalf("record for %s not found (got %d records)", class, len(records))
	return nil
}

func TestProcessFiles_TypeScript_EndToEnd(t *testing.T) {
	dir, paths := writeFiles(t, map[string]string{
		"service.ts": `
import { Injectable, Optional } from '@angular/core';
import { Http } from './http';

export class Base {
  constructor(http: Http) {}
}

@Injectable()
export class Service extends Base {
  constructor(http: Http, @Optional() parent: Base) {
    super(http);
  }
}
`,
	})

	proc := NewFileProcessor(core.EncTypeScript, 2, false)
	records, _, err := proc.ProcessFiles(dir, paths)
	if err != nil {
		t.Fatalf("ProcessFiles failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records (Service + synthesized Base), got %d", len(records))
	}

	service := findRecord(t, records, "Service")
	if service.Target != "Injectable" || service.Variant != "constructor" {
		t.Errorf("Service: got target=%s variant=%s", service.Target, service.Variant)
	}
	if service.Synthesized {
		t.Error("Service annotation is concrete, not synthesized")
	}
	if len(service.Tokens) != 2 || service.Tokens[0] != "Http" || service.Tokens[1] != "Base" {
		t.Errorf("Service tokens: %v", service.Tokens)
	}
	if !strings.Contains(service.Factory, "function Service_Factory(t)") {
		t.Errorf("Service factory:\n%s", service.Factory)
	}
	if !strings.Contains(service.Factory, "ɵɵinject(Base, 8)") {
		t.Errorf("expected optional bitmask on second dep:\n%s", service.Factory)
	}

	// 被注解类的本地基类自动合成 Injectable
	base := findRecord(t, records, "Base")
	if !base.Synthesized {
		t.Error("Base annotation should be synthesized")
	}
	if base.Target != "Injectable" {
		t.Errorf("Base target: %s", base.Target)
	}
}

func TestProcessFiles_Es5_WithDtsCompanion(t *testing.T) {
	dir, paths := writeFiles(t, map[string]string{
		"widget.js": `
import { Component } from '@angular/core';
import { Http } from './http';

var Widget = (function () {
    function Widget(http) {
        this.http = http;
    }
    Widget.decorators = [
        { type: Component, args: [{ selector: 'app-x' }] }
    ];
    Widget.ctorParameters = function () { return [
        { type: Http }
    ]; };
    return Widget;
}());
export { Widget };
`,
		"widget.d.ts": `
import { Http } from './http';
export declare class Widget<T> {
    http: Http;
    constructor(http: Http);
}
`,
	})

	proc := NewFileProcessor(core.EncEs5, 2, false)
	records, program, err := proc.ProcessFiles(dir, paths)
	if err != nil {
		t.Fatalf("ProcessFiles failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	widget := records[0]
	if widget.Class != "Widget" || widget.Target != "Component" {
		t.Errorf("got class=%s target=%s", widget.Class, widget.Target)
	}
	if len(widget.Tokens) != 1 || widget.Tokens[0] != "Http" {
		t.Errorf("tokens: %v", widget.Tokens)
	}
	if !strings.Contains(widget.Factory, "ɵɵdirectiveInject(Http)") {
		t.Errorf("factory:\n%s", widget.Factory)
	}
	// 泛型元数经由 .d.ts 伴随树重建
	if !strings.Contains(widget.Type, "Widget<any>") {
		t.Errorf("type: %s", widget.Type)
	}

	// 伴随树完成了配对
	if len(program.FileContexts()) != 1 {
		t.Fatalf("expected 1 implementation context, got %d", len(program.FileContexts()))
	}
	if program.FileContexts()[0].Dts == nil {
		t.Error("expected .d.ts companion to be paired")
	}
}

func TestProcessFiles_StrictFailsOnUnresolvableDep(t *testing.T) {
	dir, paths := writeFiles(t, map[string]string{
		"broken.ts": `
import { Injectable } from '@angular/core';

interface Shape { area(): number; }

@Injectable()
export class Broken {
  constructor(shape: Shape) {}
}
`,
	})

	// 非严格：令牌留空，残桩指名失败的实参下标
	proc := NewFileProcessor(core.EncTypeScript, 1, false)
	records, _, err := proc.ProcessFiles(dir, paths)
	if err != nil {
		t.Fatalf("non-strict should not fail: %v", err)
	}
	if len(records) != 1 || !records[0].Invalid {
		t.Fatalf("expected invalid record, got %+v", records)
	}
	if !strings.Contains(records[0].Factory, "ɵɵinvalidFactoryDep(0)") {
		t.Errorf("factory:\n%s", records[0].Factory)
	}
	if len(records[0].Tokens) != 1 || records[0].Tokens[0] != "" {
		t.Errorf("expected one empty token slot, got %v", records[0].Tokens)
	}

	// 严格：直接报错
	strict := NewFileProcessor(core.EncTypeScript, 1, true)
	if _, _, err := strict.ProcessFiles(dir, paths); err == nil {
		t.Fatal("strict mode should fail on unresolvable dependency")
	}
}

func TestScanFiles_DefaultFilters(t *testing.T) {
	dir, _ := writeFiles(t, map[string]string{
		"a.ts":   "export class A {}",
		"a.d.ts": "export declare class A {}",
		"b.js":   "var B = 1;",
	})

	tsFiles, err := scanFiles(dir, "", "ts")
	if err != nil {
		t.Fatalf("scanFiles failed: %v", err)
	}
	if len(tsFiles) != 2 {
		t.Errorf("ts: expected a.ts + a.d.ts, got %v", tsFiles)
	}

	jsFiles, err := scanFiles(dir, "", "es5")
	if err != nil {
		t.Fatalf("scanFiles failed: %v", err)
	}
	if len(jsFiles) != 2 {
		t.Errorf("es5: expected b.js + a.d.ts, got %v", jsFiles)
	}
}
