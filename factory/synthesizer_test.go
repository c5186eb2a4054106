package factory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-decorator-compiler/factory"
	"github.com/CodMac/go-treesitter-decorator-compiler/oast"
)

// 构造一个最小可用的元数据骨架。
func baseMeta(name string, target factory.FactoryTarget, deps factory.ConstructorDeps) factory.Metadata {
	return factory.Metadata{
		Name:         name,
		Type:         oast.Variable(name),
		InternalType: oast.Variable(name),
		Deps:         deps,
		Target:       target,
	}
}

func TestSynthesizeFactory_ZeroDeps(t *testing.T) {
	// 声明了零参构造函数：直接实例化，无注入调用
	meta := &factory.ConstructorFactoryMetadata{
		Metadata: baseMeta("Service", factory.TargetInjectable, &factory.DependencyList{}),
	}
	result := factory.SynthesizeFactory(meta)
	require.NotNil(t, result)

	expected := "function Service_Factory(t) {\n" +
		"  return new (t || Service)();\n" +
		"}"
	assert.Equal(t, expected, oast.EmitExpression(result.Expression))
	assert.Equal(t, "ɵɵFactoryDeclaration<Service, []>", oast.EmitType(result.Type))
}

func TestSynthesizeFactory_InjectableUsesInject(t *testing.T) {
	meta := &factory.ConstructorFactoryMetadata{
		Metadata: baseMeta("Service", factory.TargetInjectable, &factory.DependencyList{
			Deps: []*factory.R3DependencyMetadata{
				{Token: oast.Variable("T1")},
				{Token: oast.Variable("T2")},
			},
		}),
	}
	result := factory.SynthesizeFactory(meta)

	text := oast.EmitExpression(result.Expression)
	assert.Contains(t, text, "new (t || Service)(ɵɵinject(T1), ɵɵinject(T2))")
}

func TestSynthesizeFactory_DirectiveUsesDirectiveInject(t *testing.T) {
	meta := &factory.ConstructorFactoryMetadata{
		Metadata: baseMeta("Widget", factory.TargetDirective, &factory.DependencyList{
			Deps: []*factory.R3DependencyMetadata{{Token: oast.Variable("ElementRef")}},
		}),
	}
	result := factory.SynthesizeFactory(meta)

	assert.Contains(t, oast.EmitExpression(result.Expression), "ɵɵdirectiveInject(ElementRef)")
}

func TestSynthesizeFactory_QualifierBitmask(t *testing.T) {
	// 仅 Self：掩码 2；全部缺省：掩码参数整个省略
	meta := &factory.ConstructorFactoryMetadata{
		Metadata: baseMeta("Service", factory.TargetInjectable, &factory.DependencyList{
			Deps: []*factory.R3DependencyMetadata{
				{Token: oast.Variable("A"), Self: true},
				{Token: oast.Variable("B")},
				{Token: oast.Variable("C"), Optional: true, SkipSelf: true},
			},
		}),
	}
	result := factory.SynthesizeFactory(meta)

	text := oast.EmitExpression(result.Expression)
	assert.Contains(t, text, "ɵɵinject(A, 2)")
	assert.Contains(t, text, "ɵɵinject(B)")
	assert.Contains(t, text, "ɵɵinject(C, 12)")
}

func TestSynthesizeFactory_AttributeDep(t *testing.T) {
	meta := &factory.ConstructorFactoryMetadata{
		Metadata: baseMeta("Widget", factory.TargetDirective, &factory.DependencyList{
			Deps: []*factory.R3DependencyMetadata{{
				Token:             oast.Literal("role"),
				AttributeNameType: oast.Literal("role"),
			}},
		}),
	}
	result := factory.SynthesizeFactory(meta)

	text := oast.EmitExpression(result.Expression)
	assert.Contains(t, text, `ɵɵinjectAttribute("role")`)

	// 声明类型里记录 attribute 限定符
	assert.Contains(t, oast.EmitType(result.Type), `{ attribute: "role" }`)
}

func TestSynthesizeFactory_NoCtorMemoizesBaseFactory(t *testing.T) {
	// 未声明构造函数：惰性解析基类工厂，memo 变量圈在闭包里
	meta := &factory.ConstructorFactoryMetadata{
		Metadata: baseMeta("Child", factory.TargetInjectable, nil),
	}
	result := factory.SynthesizeFactory(meta)

	text := oast.EmitExpression(result.Expression)
	assert.Contains(t, text, "var ɵChild_BaseFactory;")
	assert.Contains(t, text, "(ɵChild_BaseFactory || (ɵChild_BaseFactory = ɵɵgetInheritedFactory(Child)))")
	assert.Contains(t, text, "(t || Child)")
	// memo 变量不泄漏：整体是立即执行闭包
	assert.True(t, text[0] == '(')
	assert.Contains(t, text, "})()")

	// 没有依赖列表 → 构造依赖类型为 never
	assert.Equal(t, "ɵɵFactoryDeclaration<Child, never>", oast.EmitType(result.Type))
}

func TestSynthesizeFactory_InvalidDepsEmitsStubOnly(t *testing.T) {
	// invalid 依赖绝不回退到继承路径：只发射运行时抛错残桩
	meta := &factory.ConstructorFactoryMetadata{
		Metadata: baseMeta("Broken", factory.TargetInjectable, &factory.InvalidDeps{}),
	}
	result := factory.SynthesizeFactory(meta)

	text := oast.EmitExpression(result.Expression)
	assert.Contains(t, text, "ɵɵinvalidFactory()")
	assert.NotContains(t, text, "ɵɵgetInheritedFactory")
	assert.NotContains(t, text, "return")
}

func TestSynthesizeFactory_MissingTokenEmitsIndexedStub(t *testing.T) {
	meta := &factory.ConstructorFactoryMetadata{
		Metadata: baseMeta("Service", factory.TargetInjectable, &factory.DependencyList{
			Deps: []*factory.R3DependencyMetadata{
				{Token: oast.Variable("A")},
				{Token: oast.Variable("B")},
				{Token: nil},
			},
		}),
	}
	result := factory.SynthesizeFactory(meta)

	assert.Contains(t, oast.EmitExpression(result.Expression), "ɵɵinvalidFactoryDep(2)")
}

func TestSynthesizeFactory_DelegatedClass(t *testing.T) {
	meta := &factory.DelegatedFactoryMetadata{
		Metadata:     baseMeta("Service", factory.TargetInjectable, &factory.DependencyList{}),
		Delegate:     oast.Variable("Impl"),
		DelegateKind: factory.DelegateClass,
		DelegateDeps: []*factory.R3DependencyMetadata{{Token: oast.Variable("Cfg")}},
	}
	result := factory.SynthesizeFactory(meta)

	text := oast.EmitExpression(result.Expression)
	// 运行时覆盖分支：提供 t 时直接构造，否则走委托
	assert.Contains(t, text, "var r = null;")
	assert.Contains(t, text, "if (t) {")
	assert.Contains(t, text, "(r = new t())")
	assert.Contains(t, text, "(r = new Impl(ɵɵinject(Cfg)))")
	assert.Contains(t, text, "return r;")
}

func TestSynthesizeFactory_DelegatedFunction(t *testing.T) {
	meta := &factory.DelegatedFactoryMetadata{
		Metadata:     baseMeta("Service", factory.TargetInjectable, &factory.DependencyList{}),
		Delegate:     oast.Variable("makeService"),
		DelegateKind: factory.DelegateFunction,
		DelegateDeps: []*factory.R3DependencyMetadata{{Token: oast.Variable("Cfg")}},
	}
	result := factory.SynthesizeFactory(meta)

	text := oast.EmitExpression(result.Expression)
	assert.Contains(t, text, "(r = makeService(ɵɵinject(Cfg)))")
	assert.NotContains(t, text, "new makeService")
}

func TestSynthesizeFactory_ExpressionVariant(t *testing.T) {
	meta := &factory.ExpressionFactoryMetadata{
		Metadata:   baseMeta("Token", factory.TargetInjectable, &factory.DependencyList{}),
		Expression: oast.Literal("VALUE"),
	}
	result := factory.SynthesizeFactory(meta)

	text := oast.EmitExpression(result.Expression)
	assert.Contains(t, text, `(r = "VALUE")`)
}

func TestSynthesizeFactory_GenericArity(t *testing.T) {
	meta := &factory.ConstructorFactoryMetadata{
		Metadata: factory.Metadata{
			Name:              "Store",
			Type:              oast.Variable("Store"),
			InternalType:      oast.Variable("Store"),
			TypeArgumentCount: 2,
			Deps:              &factory.DependencyList{},
			Target:            factory.TargetInjectable,
		},
	}
	result := factory.SynthesizeFactory(meta)

	assert.Equal(t, "ɵɵFactoryDeclaration<Store<any, any>, []>", oast.EmitType(result.Type))
}

func TestSynthesizeFactory_CtorDepsTypeNullPlaceholder(t *testing.T) {
	// 无限定符的依赖在类型记录里渲染为 null 占位
	meta := &factory.ConstructorFactoryMetadata{
		Metadata: baseMeta("Service", factory.TargetInjectable, &factory.DependencyList{
			Deps: []*factory.R3DependencyMetadata{
				{Token: oast.Variable("A")},
				{Token: oast.Variable("B"), Optional: true},
			},
		}),
	}
	result := factory.SynthesizeFactory(meta)

	assert.Contains(t, oast.EmitType(result.Type), "[null, { optional: true }]")
}
