package oast

// Statement 输出语句节点（密封联合）。
type Statement interface {
	isStatement()
}

// DeclareVarStmt 变量声明。Value 可空（仅声明，不初始化）。
type DeclareVarStmt struct {
	Name  string
	Value Expression
}

// ExpressionStatement 表达式语句。
type ExpressionStatement struct {
	Expr Expression
}

// IfStmt if/else 语句。FalseCase 可空。
type IfStmt struct {
	Condition Expression
	TrueCase  []Statement
	FalseCase []Statement
}

// ReturnStatement return 语句。
type ReturnStatement struct {
	Value Expression
}

func (*DeclareVarStmt) isStatement()      {}
func (*ExpressionStatement) isStatement() {}
func (*IfStmt) isStatement()              {}
func (*ReturnStatement) isStatement()     {}

// ToStmt 将表达式包装成语句。
func ToStmt(e Expression) *ExpressionStatement {
	return &ExpressionStatement{Expr: e}
}

// Return 构造 return 语句。
func Return(e Expression) *ReturnStatement {
	return &ReturnStatement{Value: e}
}
