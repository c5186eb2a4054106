package oast

// Type 声明类型节点（密封联合）。合成的工厂会附带一个声明类型，
// 生成代码自身不使用它，但下游（声明专用伴随树）依赖它。
type Type interface {
	isType()
}

// BuiltinTypeKind 内建类型。
type BuiltinTypeKind int

const (
	BuiltinNone BuiltinTypeKind = iota
	BuiltinDynamic
)

// BuiltinType 内建类型节点。
type BuiltinType struct {
	Kind BuiltinTypeKind
}

// ExpressionType 由表达式充当的类型引用，可携带类型实参。
type ExpressionType struct {
	Value      Expression
	TypeParams []Type
}

func (*BuiltinType) isType()    {}
func (*ExpressionType) isType() {}

// NoneType 表示"无可用类型信息"。
var NoneType Type = &BuiltinType{Kind: BuiltinNone}

// DynamicType 表示任意类型。
var DynamicType Type = &BuiltinType{Kind: BuiltinDynamic}

// NewExpressionType 构造一个表达式类型引用。
func NewExpressionType(value Expression, typeParams ...Type) *ExpressionType {
	return &ExpressionType{Value: value, TypeParams: typeParams}
}

// TypeWithParameters 为类型引用补齐 numParams 个 dynamic 类型实参，
// 用于重建泛型元数（arity）。
func TypeWithParameters(value Expression, numParams int) *ExpressionType {
	if numParams <= 0 {
		return &ExpressionType{Value: value}
	}
	params := make([]Type, numParams)
	for i := range params {
		params[i] = DynamicType
	}
	return &ExpressionType{Value: value, TypeParams: params}
}
