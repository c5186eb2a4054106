package factory

import (
	"fmt"

	"github.com/CodMac/go-treesitter-decorator-compiler/oast"
)

// SynthesizedFactory 合成结果：工厂表达式 + 声明类型。
// 声明类型不被生成代码自身使用，只向下游（声明专用伴随树）
// 传达计算出的形状。
type SynthesizedFactory struct {
	Expression oast.Expression
	Type       oast.Type
}

// SynthesizeFactory 按元数据合成工厂。
//
// 绝不以异常失败：每个不可表示的分支都降级为显式的 invalid-factory
// 运行时抛错残桩，而不是中止合成——注解元数据在合法程序里本来就可能
// 不完整（例如只作类型提示的接口），合成不能阻塞其余程序的编译。
func SynthesizeFactory(meta FactoryMetadata) *SynthesizedFactory {
	m := meta.base()
	t := oast.Variable("t")
	_, delegated := meta.(*DelegatedFactoryMetadata)

	// 1. 待构造类型：非委托时取运行时覆盖参数，缺省为定义内部类型引用；
	//    委托时只取覆盖参数（缺省构造交给委托方）。
	var typeForCtor oast.Expression = t
	if !delegated {
		typeForCtor = oast.Or(t, m.InternalType)
	}

	// 2. 构造表达式
	var ctorExpr oast.Expression
	var baseFactoryVar *oast.ReadVarExpr
	if m.Deps == nil {
		// 未声明构造函数：惰性解析并记忆基类工厂，再以待构造类型调用。
		baseFactoryVar = oast.Variable(fmt.Sprintf("ɵ%s_BaseFactory", m.Name))
		inherited := oast.CallFn(oast.ImportExpr(identGetInheritedFactory), m.InternalType)
		ctorExpr = oast.CallFn(oast.Or(baseFactoryVar, baseFactoryVar.Set(inherited)), typeForCtor)
	} else if deps, ok := m.Deps.(*DependencyList); ok {
		ctorExpr = oast.Instantiate(typeForCtor, injectDependencies(deps.Deps, m.Target)...)
	}
	// InvalidDeps: ctorExpr 保持 nil，由后续分支发射残桩。

	var body []oast.Statement

	// makeConditional 运行时条件："提供了覆盖类型则走直接构造，
	// 否则走 nonCtor 表达式"。
	makeConditional := func(nonCtor oast.Expression) oast.Expression {
		r := oast.Variable("r")
		body = append(body, &oast.DeclareVarStmt{Name: r.Name, Value: oast.Literal(nil)})
		var ctorStmt oast.Statement
		if ctorExpr != nil {
			ctorStmt = oast.ToStmt(r.Set(ctorExpr))
		} else {
			ctorStmt = oast.ToStmt(oast.CallFn(oast.ImportExpr(identInvalidFactory)))
		}
		body = append(body, &oast.IfStmt{
			Condition: t,
			TrueCase:  []oast.Statement{ctorStmt},
			FalseCase: []oast.Statement{oast.ToStmt(r.Set(nonCtor))},
		})
		return r
	}

	// 3. 按变体选择返回表达式
	var retExpr oast.Expression
	switch x := meta.(type) {
	case *DelegatedFactoryMetadata:
		args := injectDependencies(x.DelegateDeps, m.Target)
		var delegateExpr oast.Expression
		if x.DelegateKind == DelegateClass {
			delegateExpr = oast.Instantiate(x.Delegate, args...)
		} else {
			delegateExpr = oast.CallFn(x.Delegate, args...)
		}
		retExpr = makeConditional(delegateExpr)
	case *ExpressionFactoryMetadata:
		retExpr = makeConditional(x.Expression)
	default:
		retExpr = ctorExpr
	}

	if retExpr == nil {
		// invalid deps 且没有委托/表达式兜底：无条件发射残桩。
		body = append(body, oast.ToStmt(oast.CallFn(oast.ImportExpr(identInvalidFactory))))
	} else {
		body = append(body, oast.Return(retExpr))
	}

	var expr oast.Expression = &oast.FunctionExpr{
		Name:       m.Name + "_Factory",
		Params:     []string{t.Name},
		Statements: body,
	}

	// 5. 用过基类工厂时，用立即执行闭包圈住 memo 变量的生存期，
	//    避免泄漏进外层作用域。
	if baseFactoryVar != nil {
		expr = oast.CallFn(&oast.FunctionExpr{
			Statements: []oast.Statement{
				&oast.DeclareVarStmt{Name: baseFactoryVar.Name},
				oast.Return(expr),
			},
		})
	}

	return &SynthesizedFactory{Expression: expr, Type: createFactoryType(m)}
}

// injectDependencies 把依赖列表逐个编译为注入调用。
func injectDependencies(deps []*R3DependencyMetadata, target FactoryTarget) []oast.Expression {
	out := make([]oast.Expression, len(deps))
	for i, dep := range deps {
		out[i] = compileInjectDependency(dep, target, i)
	}
	return out
}

// compileInjectDependency 编译单个依赖。令牌缺失时发射携带参数位置的
// invalid-factory-dependency 残桩，让运行时错误能指名失败的实参。
func compileInjectDependency(dep *R3DependencyMetadata, target FactoryTarget, index int) oast.Expression {
	if dep.Token == nil {
		return oast.CallFn(oast.ImportExpr(identInvalidFactoryDep), oast.Literal(index))
	}
	if dep.AttributeNameType != nil {
		return oast.CallFn(oast.ImportExpr(identInjectAttribute), dep.Token)
	}

	flags := FlagDefault
	if dep.Self {
		flags |= FlagSelf
	}
	if dep.SkipSelf {
		flags |= FlagSkipSelf
	}
	if dep.Optional {
		flags |= FlagOptional
	}

	args := []oast.Expression{dep.Token}
	if flags != FlagDefault {
		args = append(args, oast.Literal(flags))
	}

	injectFn := identInject
	if target == TargetDirective || target == TargetComponent || target == TargetPipe {
		injectFn = identDirectiveInject
	}
	return oast.CallFn(oast.ImportExpr(injectFn), args...)
}

// 6. 声明的工厂类型：参数化引用，编码被构造类型、其泛型元数，
// 以及镜像各依赖限定符的"构造依赖类型"数组。
func createFactoryType(m *Metadata) oast.Type {
	var ctorDepsType oast.Type = oast.NoneType
	if deps, ok := m.Deps.(*DependencyList); ok {
		ctorDepsType = createCtorDepsType(deps.Deps)
	}
	return oast.NewExpressionType(
		oast.ImportExpr(identFactoryDeclaration),
		oast.TypeWithParameters(m.Type, m.TypeArgumentCount),
		ctorDepsType,
	)
}

func createCtorDepsType(deps []*R3DependencyMetadata) oast.Type {
	entries := make([]oast.Expression, len(deps))
	for i, dep := range deps {
		entries[i] = createCtorDepType(dep)
	}
	return oast.NewExpressionType(&oast.LiteralArrayExpr{Entries: entries})
}

// createCtorDepType 单个依赖的类型记录：只写被置位的限定符，
// 一个限定符都没有时渲染为 null 占位。
func createCtorDepType(dep *R3DependencyMetadata) oast.Expression {
	var entries []oast.LiteralMapEntry
	if dep.AttributeNameType != nil {
		entries = append(entries, oast.LiteralMapEntry{Key: "attribute", Value: dep.AttributeNameType})
	}
	if dep.Optional {
		entries = append(entries, oast.LiteralMapEntry{Key: "optional", Value: oast.Literal(true)})
	}
	if dep.Self {
		entries = append(entries, oast.LiteralMapEntry{Key: "self", Value: oast.Literal(true)})
	}
	if dep.SkipSelf {
		entries = append(entries, oast.LiteralMapEntry{Key: "skipSelf", Value: oast.Literal(true)})
	}
	if len(entries) == 0 {
		return oast.Literal(nil)
	}
	return &oast.LiteralMapExpr{Entries: entries}
}
