package meta

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-decorator-compiler/core"
	"github.com/CodMac/go-treesitter-decorator-compiler/factory"
	"github.com/CodMac/go-treesitter-decorator-compiler/model"
)

// ==========================================
// 工厂元数据装配 (Factory Metadata Assembly)
// ==========================================

// targetByDecorator 注解名 → 工厂宿主种类。
var targetByDecorator = map[string]factory.FactoryTarget{
	"Directive":  factory.TargetDirective,
	"Component":  factory.TargetComponent,
	"Injectable": factory.TargetInjectable,
	"Pipe":       factory.TargetPipe,
	"NgModule":   factory.TargetModule,
}

// AngularDecoratorOf 在声明的注解里找出第一个工厂宿主注解，
// 没有时返回 nil。
func AngularDecoratorOf(ref core.Reflector, decl *model.Declaration) *model.Decorator {
	for _, dec := range ref.DecoratorsOf(decl) {
		name, isCore := coreDecoratorName(dec)
		if !isCore {
			continue
		}
		if _, ok := targetByDecorator[name]; ok {
			return dec
		}
	}
	return nil
}

// SynthesizeInjectable 为自身未注解、但作为注解类基类参与注入的类
// 合成一个 Injectable 注解。
func SynthesizeInjectable(class *model.ClassDeclaration) *model.Decorator {
	return model.SynthesizeDecorator("Injectable", class.NameNode, nil)
}

// FactoryMetadataFor 装配一个类的工厂元数据。变体在这里一次性确定：
// Injectable 的提供者形态决定委托/表达式变体，其余都是构造变体。
func FactoryMetadataFor(ref core.Reflector, fCtx *core.FileContext, class *model.ClassDeclaration, dec *model.Decorator, strict bool) (factory.FactoryMetadata, error) {
	name, isCore := coreDecoratorName(dec)
	if !isCore {
		return nil, fmt.Errorf("decorator %s of %s is not a factory host annotation", dec.Name, class.Name)
	}
	target, ok := targetByDecorator[name]
	if !ok {
		return nil, fmt.Errorf("decorator %s of %s is not a factory host annotation", name, class.Name)
	}

	deps, err := ConstructorDependencies(ref, fCtx, class, strict)
	if err != nil {
		return nil, err
	}
	arity, _ := ref.GenericArityOf(class)

	base := factory.Metadata{
		Name:              class.Name,
		Type:              wrapNode(class.NameNode, fCtx),
		InternalType:      wrapNode(ref.InternalNameOf(class), fCtx),
		TypeArgumentCount: arity,
		Deps:              deps,
		Target:            target,
	}

	if target == factory.TargetInjectable && len(dec.Args) == 1 {
		if variant := injectableVariant(base, dec.Args[0], fCtx); variant != nil {
			return variant, nil
		}
	}
	return &factory.ConstructorFactoryMetadata{Metadata: base}, nil
}

// injectableVariant 解析 @Injectable({ useClass / useFactory / useValue /
// useExisting, deps }) 的提供者形态，未命中任何提供者键时返回 nil
// （providedIn 不影响工厂变体）。
func injectableVariant(base factory.Metadata, arg *sitter.Node, fCtx *core.FileContext) factory.FactoryMetadata {
	obj := core.Unparenthesize(arg)
	if obj == nil || obj.Kind() != "object" {
		return nil
	}
	src := *fCtx.SourceBytes

	var useClass, useFactory, useValue, useExisting, depsNode *sitter.Node
	for _, pair := range core.ChildrenOfKind(obj, "pair") {
		value := pair.ChildByFieldName("value")
		switch core.NodeText(pair.ChildByFieldName("key"), src) {
		case "useClass":
			useClass = value
		case "useFactory":
			useFactory = value
		case "useValue":
			useValue = value
		case "useExisting":
			useExisting = value
		case "deps":
			depsNode = value
		}
	}

	switch {
	case useClass != nil:
		return &factory.DelegatedFactoryMetadata{
			Metadata:     base,
			Delegate:     wrapNode(useClass, fCtx),
			DelegateKind: factory.DelegateClass,
			DelegateDeps: providerDeps(depsNode, fCtx),
		}
	case useFactory != nil:
		return &factory.DelegatedFactoryMetadata{
			Metadata:     base,
			Delegate:     wrapNode(useFactory, fCtx),
			DelegateKind: factory.DelegateFunction,
			DelegateDeps: providerDeps(depsNode, fCtx),
		}
	case useValue != nil:
		return &factory.ExpressionFactoryMetadata{
			Metadata:   base,
			Expression: wrapNode(useValue, fCtx),
		}
	case useExisting != nil:
		return &factory.ExpressionFactoryMetadata{
			Metadata:   base,
			Expression: factory.InjectExpr(wrapNode(useExisting, fCtx)),
		}
	}
	return nil
}

// providerDeps 把 deps 数组的每一项当作注入令牌。
// 数组缺失时委托方按零参调用。
func providerDeps(node *sitter.Node, fCtx *core.FileContext) []*factory.R3DependencyMetadata {
	node = core.Unparenthesize(node)
	if node == nil || node.Kind() != "array" {
		return nil
	}
	var deps []*factory.R3DependencyMetadata
	for _, entry := range core.NamedChildren(node) {
		deps = append(deps, &factory.R3DependencyMetadata{Token: wrapNode(entry, fCtx)})
	}
	return deps
}
