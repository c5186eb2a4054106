// Package meta 把反射出的声明模型装配成工厂元数据：解释注入限定符
// 注解、把类型值引用折叠成输出表达式、确定工厂变体。
// 装配与编码无关，只经由 core.Reflector 接口提问。
package meta

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-decorator-compiler/core"
	"github.com/CodMac/go-treesitter-decorator-compiler/factory"
	"github.com/CodMac/go-treesitter-decorator-compiler/model"
	"github.com/CodMac/go-treesitter-decorator-compiler/oast"
)

// ==========================================
// 构造依赖装配 (Constructor Dependencies)
// ==========================================

// ConstructorDependencies 把类直接声明的构造参数装配成依赖三态。
//
//   - 未声明构造函数 → nil（绝不追溯继承链，那是合成阶段的事）；
//   - 有参数且全部令牌可解析 → *DependencyList；
//   - 有参数但存在不可解析令牌 → strict 下报错；否则该参数令牌留空，
//     由合成阶段逐参发射携带实参位置的 invalid-factory-dependency 残桩。
func ConstructorDependencies(ref core.Reflector, fCtx *core.FileContext, class *model.ClassDeclaration, strict bool) (factory.ConstructorDeps, error) {
	params, ok, err := ref.ConstructorParametersOf(class)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	deps := make([]*factory.R3DependencyMetadata, 0, len(params))
	for idx, param := range params {
		dep := &factory.R3DependencyMetadata{
			Token: ValueReferenceToExpression(param.TypeValueRef, *fCtx.SourceBytes),
		}
		applyQualifiers(dep, param.Decorators, fCtx)
		if dep.Token == nil && strict {
			return nil, unresolvableDepError(fCtx, class, idx, param)
		}
		deps = append(deps, dep)
	}
	return &factory.DependencyList{Deps: deps}, nil
}

// applyQualifiers 按参数上的限定符注解修饰依赖。
// 三个布尔限定符相互独立；@Inject 与 @Attribute 替换令牌。
func applyQualifiers(dep *factory.R3DependencyMetadata, decorators []*model.Decorator, fCtx *core.FileContext) {
	for _, dec := range decorators {
		name, isCore := coreDecoratorName(dec)
		if !isCore {
			continue
		}
		switch name {
		case "Inject":
			if len(dec.Args) == 1 {
				dep.Token = wrapNode(dec.Args[0], fCtx)
			}
		case "Optional":
			dep.Optional = true
		case "Self":
			dep.Self = true
		case "SkipSelf":
			dep.SkipSelf = true
		case "Attribute":
			if len(dec.Args) == 1 {
				token := wrapNode(dec.Args[0], fCtx)
				dep.Token = token
				if dec.Args[0].Kind() == "string" {
					dep.AttributeNameType = token
				} else {
					dep.AttributeNameType = oast.Literal("unknown")
				}
			}
		}
	}
}

// coreDecoratorName 取注解的规范名。导入的注解必须来自注入运行时模块，
// 且别名导入按原始导出名识别；本地声明（含合成）的按展示名识别。
func coreDecoratorName(dec *model.Decorator) (string, bool) {
	if dec.Import != nil {
		if dec.Import.From != factory.CoreModule {
			return "", false
		}
		if !dec.Import.Namespace {
			return dec.Import.Name, true
		}
	}
	return dec.Name, true
}

func unresolvableDepError(fCtx *core.FileContext, class *model.ClassDeclaration, idx int, param *model.CtorParameter) error {
	reason := "no injection token"
	if u, ok := param.TypeValueRef.(*model.UnavailableTypeValueReference); ok {
		reason = u.Reason.String()
	}
	return &model.InvalidInputError{
		Message:  fmt.Sprintf("parameter %d of %s is not injectable: %s", idx, class.Name, reason),
		FilePath: fCtx.FilePath,
		Node:     param.NameNode,
	}
}

// ==========================================
// 类型值引用 → 输出表达式
// ==========================================

// ValueReferenceToExpression 把类型值引用折叠成输出表达式。
// Unavailable 变体没有对应表达式，返回 nil。
func ValueReferenceToExpression(ref model.TypeValueReference, src []byte) oast.Expression {
	switch v := ref.(type) {
	case *model.LocalTypeValueReference:
		return &oast.WrappedNodeExpr{Node: v.Expression, Source: src}
	case *model.ImportedTypeValueReference:
		var expr oast.Expression = oast.ImportExpr(oast.ExternalReference{
			ModuleName: v.ModuleName,
			Name:       v.ImportedName,
		})
		for _, p := range v.NestedPath {
			expr = oast.Prop(expr, p)
		}
		return expr
	}
	return nil
}

func wrapNode(node *sitter.Node, fCtx *core.FileContext) oast.Expression {
	if node == nil {
		return nil
	}
	return &oast.WrappedNodeExpr{Node: node, Source: *fCtx.SourceBytes}
}
