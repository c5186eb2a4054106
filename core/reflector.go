package core

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-decorator-compiler/model"
)

// Encoding 受支持的类编码形态。同一个类在不同的产出目标下会被编译成
// 结构完全不同的语法，反射层负责把它们规范化成同一套声明模型。
type Encoding string

const (
	// EncTypeScript 原生 TypeScript 类（装饰器语法 + 类型注解）
	EncTypeScript Encoding = "ts"
	// EncEs2015 ES2015 class 语法 + 静态元数据槽位
	EncEs2015 Encoding = "es2015"
	// EncEs5 降级的 var + IIFE 闭包构造函数形态
	EncEs5 Encoding = "es5"
)

// Reflector 声明反射能力接口。
//
// 每种编码一个适配器实现（x/ts, x/es2015, x/es5），按输入程序选择一次，
// 而不是按查询选择。下列每个问题都必须与产出编码无关地得到一致回答——
// 调用方（注解处理、工厂元数据装配）绝不按编码分支。抽象边界画在
// "声明形态"上，而不是"注解语义"上。
type Reflector interface {
	// DecoratorsOf 返回声明上的注解使用。声明无法携带注解或没有注解时
	// 返回 nil。
	DecoratorsOf(decl *model.Declaration) []*model.Decorator

	// MembersOf 返回类的全部成员槽位。参数未解析为类时返回
	// *model.InvalidInputError。
	MembersOf(class *model.ClassDeclaration) ([]*model.ClassMember, error)

	// ConstructorParametersOf 只检查直接声明的构造函数（从不追溯继承）。
	// ok=false 表示"未声明构造函数"，与"声明了零参构造函数"
	// （ok=true 且切片为空）严格区分。
	ConstructorParametersOf(class *model.ClassDeclaration) (params []*model.CtorParameter, ok bool, err error)

	// ImportOf 识别标识符的导入来源，非导入符号时返回 nil。
	ImportOf(identifier *sitter.Node) *model.Import

	// DeclarationOf 将标识符解析为声明，解析失败时返回 nil。
	DeclarationOf(identifier *sitter.Node) *model.Declaration

	// IsClass 判断节点在本编码下是否构成一个类。
	IsClass(node *sitter.Node) bool

	// ClassDeclarationOf 将节点规范化为 ClassDeclaration；非类或无法
	// 推导名称时返回 nil。
	ClassDeclarationOf(node *sitter.Node) *model.ClassDeclaration

	// HasBaseClass 报告类是否有基类。
	HasBaseClass(class *model.ClassDeclaration) bool

	// BaseClassExpressionOf 返回基类表达式节点，没有基类时为 nil。
	BaseClassExpressionOf(class *model.ClassDeclaration) *sitter.Node

	// GenericArityOf 返回类的泛型参数个数；无法静态判定（例如节点不是
	// 类）时 ok=false。
	GenericArityOf(class *model.ClassDeclaration) (arity int, ok bool)

	// DtsDeclarationOf 在声明专用伴随树（.d.ts）中查找对应声明；
	// 本次编译没有伴随树时恒为 nil。
	DtsDeclarationOf(decl *model.Declaration) *model.Declaration

	// InternalNameOf 返回类定义*内部*引用自身所用的标识符。
	// 降级编码下它可能不同于对外可见的类名，但保证总能解析出一个。
	InternalNameOf(class *model.ClassDeclaration) *sitter.Node

	// AdjacentNameOf 返回与定义相邻、但位于定义之外的语句引用该类
	// 所用的标识符。保证总能解析出一个。
	AdjacentNameOf(class *model.ClassDeclaration) *sitter.Node

	// FindClassDeclarations 枚举一棵文件树中的全部类声明，供驱动层迭代。
	FindClassDeclarations(root *sitter.Node) []*model.ClassDeclaration
}

// ReflectorFactory 按文件上下文创建特定编码的 Reflector 实例。
type ReflectorFactory func(fCtx *FileContext) Reflector

var reflectorFactories = make(map[Encoding]ReflectorFactory)

// RegisterReflector 注册一种编码与其对应的 Reflector 工厂函数。
func RegisterReflector(enc Encoding, factory ReflectorFactory) {
	reflectorFactories[enc] = factory
}

// GetReflector 根据编码获取对应的 Reflector 实例。
func GetReflector(enc Encoding, fCtx *FileContext) (Reflector, error) {
	factory, ok := reflectorFactories[enc]
	if !ok {
		return nil, fmt.Errorf("no reflector registered for encoding: %s", enc)
	}
	return factory(fCtx), nil
}
