// Package factory 实现工厂合成：消费每个构造函数/委托参数的依赖元数据，
// 产出构建实例并经注入机制解析各依赖的可调用"工厂"片段及其声明类型。
package factory

import (
	"github.com/CodMac/go-treesitter-decorator-compiler/oast"
)

// FactoryTarget 工厂宿主的注解目标种类，决定注入入口的选择。
type FactoryTarget int

const (
	TargetDirective FactoryTarget = iota
	TargetComponent
	TargetInjectable
	TargetPipe
	TargetModule
)

func (t FactoryTarget) String() string {
	switch t {
	case TargetDirective:
		return "Directive"
	case TargetComponent:
		return "Component"
	case TargetInjectable:
		return "Injectable"
	case TargetPipe:
		return "Pipe"
	case TargetModule:
		return "Module"
	}
	return "Unknown"
}

// R3DependencyMetadata 一个已解析的构造函数/委托参数依赖。
type R3DependencyMetadata struct {
	// Token 注入令牌表达式；nil 标记不可解析的依赖（延迟为运行时错误，
	// 绝不让本趟编译失败）
	Token oast.Expression
	// AttributeNameType attribute 注入的名称类型提示，可空
	AttributeNameType oast.Expression
	// 三个相互独立的注入限定符
	Optional bool
	Self     bool
	SkipSelf bool
}

// ConstructorDeps 依赖三态：
//   - *DependencyList: 有序依赖列表；
//   - *InvalidDeps:    至少一个依赖无法解析（声明了构造函数但不可用）；
//   - nil:             完全没有声明构造函数。
type ConstructorDeps interface {
	isConstructorDeps()
}

// DependencyList 有序的已解析依赖列表。
type DependencyList struct {
	Deps []*R3DependencyMetadata
}

// InvalidDeps "invalid" 标记：至少一个依赖无法解析。
// 按约定它总是意味着"声明了但不可用"的构造函数，绝不回退到继承路径。
type InvalidDeps struct{}

func (*DependencyList) isConstructorDeps() {}
func (*InvalidDeps) isConstructorDeps()    {}

// Metadata 三个工厂变体共享的核心字段。
type Metadata struct {
	// Name 目标类型名
	Name string
	// Type 对外可见的类型引用
	Type oast.Expression
	// InternalType 定义内部使用的类型引用（降级编码下可能不同名）
	InternalType oast.Expression
	// TypeArgumentCount 泛型元数
	TypeArgumentCount int
	// Deps 见 ConstructorDeps
	Deps ConstructorDeps
	// Target 注解目标种类
	Target FactoryTarget
}

// FactoryMetadata 工厂元数据的三个互斥变体。适用哪个变体在合成前
// 确定一次，合成过程中绝不重推。
type FactoryMetadata interface {
	base() *Metadata
}

// ConstructorFactoryMetadata 直接实例化构造。
type ConstructorFactoryMetadata struct {
	Metadata
}

// DelegateKind 委托构造方的形态。
type DelegateKind int

const (
	// DelegateClass 委托方是类，经 new 实例化
	DelegateClass DelegateKind = iota
	// DelegateFunction 委托方是普通可调用体，直接调用
	DelegateFunction
)

// DelegatedFactoryMetadata 经用户提供的委托构造；委托方的参数
// 携带自己独立的依赖列表。
type DelegatedFactoryMetadata struct {
	Metadata
	Delegate     oast.Expression
	DelegateKind DelegateKind
	DelegateDeps []*R3DependencyMetadata
}

// ExpressionFactoryMetadata 用单个表达式直接充当构造结果。
type ExpressionFactoryMetadata struct {
	Metadata
	Expression oast.Expression
}

func (m *ConstructorFactoryMetadata) base() *Metadata { return &m.Metadata }
func (m *DelegatedFactoryMetadata) base() *Metadata   { return &m.Metadata }
func (m *ExpressionFactoryMetadata) base() *Metadata  { return &m.Metadata }
