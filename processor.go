package main

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/CodMac/go-treesitter-decorator-compiler/core"
	"github.com/CodMac/go-treesitter-decorator-compiler/factory"
	"github.com/CodMac/go-treesitter-decorator-compiler/meta"
	"github.com/CodMac/go-treesitter-decorator-compiler/model"
	"github.com/CodMac/go-treesitter-decorator-compiler/oast"
	"github.com/CodMac/go-treesitter-decorator-compiler/output"
	"github.com/CodMac/go-treesitter-decorator-compiler/parser"
)

type FileProcessor struct {
	Encoding    core.Encoding
	Concurrency int
	// Strict 不可解析的注入依赖是报错还是降级为 invalid 残桩
	Strict bool

	// parsers 钉住全部解析器（及其语法树背后的 C 内存）直到处理结束
	parsers   []*parser.TreeSitterParser
	parsersMu sync.Mutex
}

func NewFileProcessor(enc core.Encoding, concurrency int, strict bool) *FileProcessor {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &FileProcessor{Encoding: enc, Concurrency: concurrency, Strict: strict}
}

func (fp *FileProcessor) ProcessFiles(rootPath string, filePaths []string) ([]*output.FactoryRecord, *core.Program, error) {
	program := core.NewProgram()
	absRoot, _ := filepath.Abs(rootPath)

	// --- 阶段 1: 并行解析与注册 ---
	// .d.ts 伴随树恒用 TypeScript 语法，与所选编码无关。
	g := new(errgroup.Group)
	g.SetLimit(fp.Concurrency)
	for _, path := range filePaths {
		g.Go(func() error {
			isDts := strings.HasSuffix(path, ".d.ts")
			enc := fp.Encoding
			if isDts {
				enc = core.EncTypeScript
			}
			p, err := parser.NewParser(enc)
			if err != nil {
				return err
			}
			fp.parsersMu.Lock()
			fp.parsers = append(fp.parsers, p)
			fp.parsersMu.Unlock()

			root, source, err := p.ParseFile(path)
			if err != nil {
				return err
			}
			relPath, _ := filepath.Rel(absRoot, path)
			fCtx := core.NewFileContext(relPath, root, source)
			if isDts {
				program.RegisterDtsContext(fCtx)
			} else {
				program.RegisterFileContext(fCtx)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// --- 阶段 2: 并行反射与合成 ---
	var allRecords []*output.FactoryRecord
	var mu sync.Mutex
	g = new(errgroup.Group)
	g.SetLimit(fp.Concurrency)
	for _, fCtx := range program.FileContexts() {
		g.Go(func() error {
			records, err := fp.processFile(fCtx)
			if err != nil {
				return err
			}
			mu.Lock()
			allRecords = append(allRecords, records...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	sort.Slice(allRecords, func(i, j int) bool {
		if allRecords[i].File != allRecords[j].File {
			return allRecords[i].File < allRecords[j].File
		}
		return allRecords[i].Class < allRecords[j].Class
	})
	return allRecords, program, nil
}

// processFile 反射单个文件内的类并合成其工厂。
// 自身未注解、但作为已注解类的直接基类出现的本地类，为其合成
// Injectable 注解后一并处理（继承工厂要求基类可被注入机制构造）。
func (fp *FileProcessor) processFile(fCtx *core.FileContext) ([]*output.FactoryRecord, error) {
	ref, err := core.GetReflector(fp.Encoding, fCtx)
	if err != nil {
		return nil, err
	}
	classes := ref.FindClassDeclarations(fCtx.RootNode)

	decorated := map[string]*model.Decorator{}
	for _, class := range classes {
		if dec := meta.AngularDecoratorOf(ref, &class.Declaration); dec != nil {
			decorated[class.Name] = dec
		}
	}
	baseNames := fp.decoratedBaseNames(ref, fCtx, classes, decorated)

	var records []*output.FactoryRecord
	for _, class := range classes {
		dec, ok := decorated[class.Name]
		synthesized := false
		if !ok {
			if !baseNames[class.Name] {
				continue
			}
			dec = meta.SynthesizeInjectable(class)
			synthesized = true
		}

		metadata, err := meta.FactoryMetadataFor(ref, fCtx, class, dec, fp.Strict)
		if err != nil {
			if fp.Strict {
				return nil, err
			}
			continue
		}
		synth := factory.SynthesizeFactory(metadata)
		records = append(records, buildRecord(fCtx, metadata, synth, synthesized))
	}
	return records, nil
}

// decoratedBaseNames 收集已注解类的直接基类名（仅限简单标识符基类）。
func (fp *FileProcessor) decoratedBaseNames(ref core.Reflector, fCtx *core.FileContext, classes []*model.ClassDeclaration, decorated map[string]*model.Decorator) map[string]bool {
	names := map[string]bool{}
	for _, class := range classes {
		if _, ok := decorated[class.Name]; !ok {
			continue
		}
		base := ref.BaseClassExpressionOf(class)
		if base == nil || base.Kind() != "identifier" {
			continue
		}
		names[fCtx.Content(base)] = true
	}
	return names
}

func buildRecord(fCtx *core.FileContext, metadata factory.FactoryMetadata, synth *factory.SynthesizedFactory, synthesized bool) *output.FactoryRecord {
	var md *factory.Metadata
	variant := ""
	switch m := metadata.(type) {
	case *factory.ConstructorFactoryMetadata:
		md, variant = &m.Metadata, "constructor"
	case *factory.DelegatedFactoryMetadata:
		md, variant = &m.Metadata, "delegated"
	case *factory.ExpressionFactoryMetadata:
		md, variant = &m.Metadata, "expression"
	}

	rec := &output.FactoryRecord{
		File:        fCtx.FilePath,
		Class:       md.Name,
		Target:      md.Target.String(),
		Variant:     variant,
		Factory:     oast.EmitExpression(synth.Expression),
		Type:        oast.EmitType(synth.Type),
		Synthesized: synthesized,
	}
	switch deps := md.Deps.(type) {
	case *factory.DependencyList:
		for _, dep := range deps.Deps {
			if dep.Token == nil {
				// 令牌缺失：保留参数位置，记录降级
				rec.Tokens = append(rec.Tokens, "")
				rec.Invalid = true
				continue
			}
			rec.Tokens = append(rec.Tokens, oast.EmitExpression(dep.Token))
		}
	case *factory.InvalidDeps:
		rec.Invalid = true
	}
	return rec
}
